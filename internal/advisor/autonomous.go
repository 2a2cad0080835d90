package advisor

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stock-advisor/internal/logger"
	"stock-advisor/internal/narrative"
	"stock-advisor/internal/types"
)

// Recommend produces the full autonomous bundle for a ticker: analysis,
// sentiment, risk, entry/exit ladders, position sizing and narrative.
// A skipped analysis returns (skip result, nil bundle).
func (e *Engine) Recommend(ctx context.Context, ticker string, profile types.UserProfile) (types.CompositeResult, *types.RecommendationBundle) {
	result, sentiment, _ := e.AnalyzeWithSentiment(ctx, ticker)
	if result.Skipped() {
		return result, nil
	}
	if profile == (types.UserProfile{}) {
		profile = types.DefaultUserProfile()
	}

	bundle := buildBundle(result, profile)

	if e.narrative != nil {
		text, err := e.narrative.Generate(ctx, narrative.Input{
			Result:    result,
			Sentiment: sentiment,
			Bundle:    bundle,
		})
		if err != nil {
			logger.ErrorWithErr(ctx, "Narrative generation failed", err, "ticker", ticker)
		} else {
			bundle.Narrative = text
		}
	}

	return result, bundle
}

// buildBundle derives every actionable field from the analysis alone,
// so the bundle is deterministic for a given result and profile.
func buildBundle(result types.CompositeResult, profile types.UserProfile) *types.RecommendationBundle {
	price := result.CurrentPrice
	score := result.OverallScore

	beta := 1.0
	if result.FundamentalMetrics.Beta != nil {
		beta = *result.FundamentalMetrics.Beta
	}

	atrPct := 0.0
	if result.TechnicalIndicators.ATR != nil && price > 0 {
		atrPct = *result.TechnicalIndicators.ATR / price * 100
	}

	return &types.RecommendationBundle{
		Ticker:           result.Ticker,
		ConfidenceScore:  confidence(score),
		RiskAssessment:   assessRisk(score, beta, atrPct),
		EntryStrategy:    entryStrategy(price, score),
		ExitStrategy:     exitStrategy(price),
		PositionSizing:   sizePosition(score, price, profile),
		MonitoringPoints: monitoringPoints(price),
		Timestamp:        time.Now().Unix(),
	}
}

// confidence maps the composite score onto coarse conviction steps.
func confidence(score float64) float64 {
	switch {
	case score >= 80:
		return 0.9
	case score >= 70:
		return 0.8
	case score >= 60:
		return 0.7
	case score >= 50:
		return 0.6
	default:
		return 0.4
	}
}

// assessRisk reports volatility risk and conviction risk separately;
// a high-beta stock can still carry a high-conviction score. Realized
// volatility comes from the average true range as a percentage of
// price when history provided one, and falls back to beta otherwise.
func assessRisk(score, beta, atrPct float64) types.RiskAssessment {
	var level string
	switch {
	case beta > 1.5:
		level = "High"
	case beta > 1.0:
		level = "Moderate-High"
	case beta > 0.8:
		level = "Moderate"
	default:
		level = "Low"
	}

	var scoreRisk string
	switch {
	case score >= 70:
		scoreRisk = "Low"
	case score >= 50:
		scoreRisk = "Moderate"
	default:
		scoreRisk = "High"
	}

	volatility := "Low"
	switch {
	case atrPct > 4:
		volatility = "High"
	case atrPct > 2:
		volatility = "Moderate"
	case atrPct > 0:
		volatility = "Low"
	case beta > 1.2:
		volatility = "High"
	case beta > 0.8:
		volatility = "Moderate"
	}

	return types.RiskAssessment{
		RiskLevel:  level,
		Beta:       beta,
		ATRPercent: atrPct,
		Volatility: volatility,
		ScoreRisk:  scoreRisk,
	}
}

func entryStrategy(price, score float64) types.EntryStrategy {
	timing := "Wait for pullback"
	if score >= 70 {
		timing = "Immediate"
	}
	return types.EntryStrategy{
		ImmediateEntry:    price,
		DollarCostAverage: price * 0.95,
		LimitOrders:       []float64{price * 0.90, price * 0.85, price * 0.80},
		EntryTiming:       timing,
	}
}

func exitStrategy(price float64) types.ExitStrategy {
	return types.ExitStrategy{
		StopLoss:      price * 0.85,
		ProfitTargets: []float64{price * 1.15, price * 1.25, price * 1.40},
		TimeBasedExit: types.TimeBasedExits{
			ThreeMonths: price * 1.10,
			SixMonths:   price * 1.20,
			OneYear:     price * 1.35,
		},
	}
}

// basePercent is the allocation table keyed by score band and risk
// tolerance.
func basePercent(score float64, tolerance string) float64 {
	var conservative, moderate, aggressive float64
	switch {
	case score >= 80:
		conservative, moderate, aggressive = 0.15, 0.25, 0.35
	case score >= 70:
		conservative, moderate, aggressive = 0.10, 0.20, 0.30
	case score >= 60:
		conservative, moderate, aggressive = 0.05, 0.15, 0.25
	default:
		conservative, moderate, aggressive = 0.02, 0.10, 0.20
	}

	switch tolerance {
	case types.RiskConservative:
		return conservative
	case types.RiskAggressive:
		return aggressive
	default:
		return moderate
	}
}

// sizePosition computes the dollar allocation with decimal arithmetic
// so the amounts round the way a brokerage statement would.
func sizePosition(score, price float64, profile types.UserProfile) types.PositionSizing {
	pct := basePercent(score, profile.RiskTolerance)

	amount := decimal.NewFromFloat(profile.InvestmentAmount)
	dollar := amount.Mul(decimal.NewFromFloat(pct)).Round(2)

	var shares int64
	if price > 0 {
		shares = dollar.Div(decimal.NewFromFloat(price)).IntPart()
	}

	maxPct := pct * 2
	if maxPct > 0.30 {
		maxPct = 0.30
	}

	return types.PositionSizing{
		Percentage:     pct,
		DollarAmount:   dollar,
		Shares:         shares,
		MaxPositionPct: maxPct,
	}
}

func monitoringPoints(price float64) []types.MonitoringPoint {
	return []types.MonitoringPoint{
		{
			Metric:      "Price",
			Frequency:   "Daily",
			AlertLevels: []float64{price * 0.90, price * 1.15},
			Notes:       "Review position if either alert level trades",
		},
		{
			Metric:    "Earnings",
			Frequency: "Quarterly",
			Notes:     "Reassess thesis after each report",
		},
		{
			Metric:    "Technical indicators",
			Frequency: "Weekly",
			Notes:     "RSI, moving averages, volume",
		},
		{
			Metric:    "News sentiment",
			Frequency: "Daily",
			Notes:     "Watch for material coverage shifts",
		},
	}
}
