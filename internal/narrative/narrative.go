// Package narrative renders a plain-language investment summary for a
// completed analysis. Providers are tried in order; the template
// renderer never fails, so a narrative is always produced.
package narrative

import (
	"context"

	"stock-advisor/internal/types"
)

// Input carries everything a generator may want to mention.
type Input struct {
	Result    types.CompositeResult
	Sentiment types.SentimentSummary
	Bundle    *types.RecommendationBundle
}

// Generator produces a narrative for one analysis.
type Generator interface {
	Name() string
	Generate(ctx context.Context, in Input) (string, error)
}
