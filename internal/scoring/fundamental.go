// Package scoring turns raw metrics into 0-100 rule-based scores.
// Each rule is additive; missing inputs simply contribute nothing, so
// a sparse profile degrades the score instead of failing the analysis.
package scoring

import (
	"fmt"

	"stock-advisor/internal/types"
)

// Thresholds hold the tunable cut lines shared by the scorers.
type Thresholds struct {
	RSIOversold   float64
	RSIOverbought float64
	MAShort       int
	MALong        int
	MinMarketCap  float64
	MaxPERatio    float64
	MinROE        float64
	MinCandles    int
}

// DefaultThresholds returns the standard cut lines.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RSIOversold:   30,
		RSIOverbought: 70,
		MAShort:       20,
		MALong:        50,
		MinMarketCap:  1e9,
		MaxPERatio:    50,
		MinROE:        0.10,
		MinCandles:    60,
	}
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// ScoreFundamentals applies the fundamental rule table to a profile.
// Every rule fires independently; reasons are accumulated in rule order.
func ScoreFundamentals(f types.FundamentalProfile, th Thresholds) types.ScoreResult {
	score := 0
	var reasons []string
	evaluated := false

	if f.MarketCap != nil {
		evaluated = true
		switch {
		case *f.MarketCap >= th.MinMarketCap:
			score += 15
			reasons = append(reasons, "Large market cap provides stability")
		case *f.MarketCap >= th.MinMarketCap/2:
			score += 10
			reasons = append(reasons, "Mid-size market cap")
		}
	}

	if f.PERatio != nil {
		evaluated = true
		switch {
		case *f.PERatio > 0 && *f.PERatio <= th.MaxPERatio:
			score += 15
			reasons = append(reasons, fmt.Sprintf("Reasonable P/E ratio (%.2f)", *f.PERatio))
		case *f.PERatio > th.MaxPERatio:
			score += 5
			reasons = append(reasons, fmt.Sprintf("High P/E ratio (%.2f), possibly overvalued", *f.PERatio))
		}
	}

	if f.ROE != nil {
		evaluated = true
		switch {
		case *f.ROE >= th.MinROE:
			score += 20
			reasons = append(reasons, fmt.Sprintf("Strong return on equity (%.2f%%)", *f.ROE*100))
		case *f.ROE > 0:
			score += 10
			reasons = append(reasons, fmt.Sprintf("Positive return on equity (%.2f%%)", *f.ROE*100))
		}
	}

	if f.DebtToEquity != nil {
		evaluated = true
		switch {
		case *f.DebtToEquity <= 0.5:
			score += 15
			reasons = append(reasons, "Low debt levels")
		case *f.DebtToEquity <= 1.0:
			score += 10
			reasons = append(reasons, "Manageable debt levels")
		}
	}

	if f.RevenueGrowth != nil {
		evaluated = true
		switch {
		case *f.RevenueGrowth > 0.10:
			score += 15
			reasons = append(reasons, fmt.Sprintf("Strong revenue growth (%.2f%%)", *f.RevenueGrowth*100))
		case *f.RevenueGrowth > 0:
			score += 10
			reasons = append(reasons, fmt.Sprintf("Positive revenue growth (%.2f%%)", *f.RevenueGrowth*100))
		}
	}

	if f.ProfitMargins != nil {
		evaluated = true
		switch {
		case *f.ProfitMargins > 0.15:
			score += 10
			reasons = append(reasons, fmt.Sprintf("Healthy profit margins (%.2f%%)", *f.ProfitMargins*100))
		case *f.ProfitMargins > 0:
			score += 5
			reasons = append(reasons, fmt.Sprintf("Positive profit margins (%.2f%%)", *f.ProfitMargins*100))
		}
	}

	if f.Beta != nil {
		evaluated = true
		if *f.Beta < 1.2 {
			score += 5
			reasons = append(reasons, "Lower volatility than market")
		}
	}

	if !evaluated {
		return types.ScoreResult{Reasons: []string{"No fundamental data available"}}
	}

	return types.ScoreResult{Score: clampScore(score), Reasons: reasons}
}
