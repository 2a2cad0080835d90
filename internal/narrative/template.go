package narrative

import (
	"context"
	"fmt"
	"strings"
)

// TemplateGenerator renders the narrative deterministically from the
// analysis itself. It never fails and terminates every chain.
type TemplateGenerator struct{}

// NewTemplateGenerator creates the fallback generator.
func NewTemplateGenerator() *TemplateGenerator { return &TemplateGenerator{} }

func (g *TemplateGenerator) Name() string { return "template" }

// Generate implements Generator.
func (g *TemplateGenerator) Generate(_ context.Context, in Input) (string, error) {
	r := in.Result
	var b strings.Builder

	fmt.Fprintf(&b, "%s scores %.1f/100 overall, a %s rating. ",
		r.Ticker, r.OverallScore, humanRating(r.Recommendation))
	fmt.Fprintf(&b, "Fundamentals contribute %d/100 and technicals %d/100.",
		r.FundamentalScore, r.TechnicalScore)

	if reasons := topReasons(r.FundamentalReasons, 2); len(reasons) > 0 {
		fmt.Fprintf(&b, " On the fundamental side: %s.", strings.ToLower(strings.Join(reasons, "; ")))
	}
	if reasons := topReasons(r.TechnicalReasons, 2); len(reasons) > 0 {
		fmt.Fprintf(&b, " On the chart: %s.", strings.ToLower(strings.Join(reasons, "; ")))
	}

	if in.Sentiment.ArticleCount > 0 {
		fmt.Fprintf(&b, " Recent news coverage is %s (%d of %d articles positive).",
			in.Sentiment.Label, in.Sentiment.PositiveCount, in.Sentiment.ArticleCount)
	}

	if in.Bundle != nil {
		fmt.Fprintf(&b, " Suggested plan: %s at $%.2f with a stop at $%.2f and a first target of $%.2f.",
			strings.ToLower(in.Bundle.EntryStrategy.EntryTiming),
			in.Bundle.EntryStrategy.ImmediateEntry,
			in.Bundle.ExitStrategy.StopLoss,
			firstTarget(in.Bundle.ExitStrategy.ProfitTargets))
	}

	return b.String(), nil
}

func humanRating(rec string) string {
	return strings.ReplaceAll(strings.ToLower(rec), "_", " ")
}

func topReasons(reasons []string, n int) []string {
	if len(reasons) > n {
		return reasons[:n]
	}
	return reasons
}

func firstTarget(targets []float64) float64 {
	if len(targets) == 0 {
		return 0
	}
	return targets[0]
}
