// Package advisor composes market data, scoring, sentiment and
// narrative generation into per-ticker recommendations.
package advisor

import (
	"context"
	"errors"

	"stock-advisor/internal/indicators"
	"stock-advisor/internal/logger"
	"stock-advisor/internal/marketdata"
	"stock-advisor/internal/narrative"
	"stock-advisor/internal/news"
	"stock-advisor/internal/scoring"
	"stock-advisor/internal/store"
	"stock-advisor/internal/types"
)

// Engine runs the composite analysis pipeline.
type Engine struct {
	market    marketdata.Provider
	news      *news.Service
	narrative narrative.Generator
	cfg       *store.Config
	th        scoring.Thresholds
}

// NewEngine wires an engine from configuration.
func NewEngine(cfg *store.Config, market marketdata.Provider, newsSvc *news.Service, narrator narrative.Generator) *Engine {
	if cfg == nil {
		cfg = store.DefaultConfig()
	}
	return &Engine{
		market:    market,
		news:      newsSvc,
		narrative: narrator,
		cfg:       cfg,
		th: scoring.Thresholds{
			RSIOversold:   cfg.Thresholds.RSIOversold,
			RSIOverbought: cfg.Thresholds.RSIOverbought,
			MAShort:       cfg.Thresholds.MAShort,
			MALong:        cfg.Thresholds.MALong,
			MinMarketCap:  cfg.Thresholds.MinMarketCap,
			MaxPERatio:    cfg.Thresholds.MaxPERatio,
			MinROE:        cfg.Thresholds.MinROE,
			MinCandles:    cfg.MarketData.MinCandles,
		},
	}
}

// Analyze produces the composite result for one ticker. A fetch
// failure yields a SKIP result carrying the error text; Analyze never
// returns an error because a bad ticker must not abort a batch.
func (e *Engine) Analyze(ctx context.Context, ticker string) types.CompositeResult {
	timer := logger.StartOperation(ctx, "analyze", "ticker", ticker)
	ctx = timer.GetContext()

	profile, err := e.market.Profile(ctx, ticker)
	if err != nil {
		timer.EndWithError(err)
		return skipResult(ticker, err)
	}

	candles, err := e.market.History(ctx, ticker, e.cfg.MarketData.HistoryDays)
	if err != nil && !errors.Is(err, marketdata.ErrNoData) {
		timer.EndWithError(err)
		return skipResult(ticker, err)
	}

	ind := indicators.Compute(candles, e.th.MAShort, e.th.MALong)
	if ind.CurrentPrice == 0 {
		ind.CurrentPrice = profile.CurrentPrice
	}

	fund := scoring.ScoreFundamentals(profile, e.th)
	tech := scoring.ScoreTechnicals(ind, e.th)

	overall := float64(fund.Score)*e.cfg.Weights.Fundamental +
		float64(tech.Score)*e.cfg.Weights.Technical

	result := types.CompositeResult{
		Ticker:              ticker,
		OverallScore:        overall,
		FundamentalScore:    fund.Score,
		TechnicalScore:      tech.Score,
		Recommendation:      bucket(overall),
		FundamentalReasons:  fund.Reasons,
		TechnicalReasons:    tech.Reasons,
		FundamentalMetrics:  profile,
		TechnicalIndicators: ind,
		CurrentPrice:        profile.CurrentPrice,
		Volume:              profile.Volume,
	}
	if profile.MarketCap != nil {
		result.MarketCap = *profile.MarketCap
	}
	if exchange, err := e.market.Exchange(ctx, ticker); err == nil {
		result.Exchange = exchange
	}

	logger.Recommendation(ctx, ticker, result.Recommendation, overall,
		"fundamental", fund.Score, "technical", tech.Score)
	timer.End("score", overall)
	return result
}

// AnalyzeWithSentiment runs Analyze and attaches news sentiment.
// Sentiment is informational: it does not move the composite score.
func (e *Engine) AnalyzeWithSentiment(ctx context.Context, ticker string) (types.CompositeResult, types.SentimentSummary, []types.NewsArticle) {
	result := e.Analyze(ctx, ticker)
	if result.Skipped() || e.news == nil {
		return result, types.SentimentSummary{Label: "neutral"}, nil
	}
	summary, articles, _ := e.news.GetSentiment(ctx, ticker)
	return result, summary, articles
}

// bucket maps the composite score to a rating; bounds are inclusive
// at the lower edge.
func bucket(score float64) string {
	switch {
	case score >= 80:
		return types.StrongBuy
	case score >= 60:
		return types.Buy
	case score >= 40:
		return types.Hold
	case score >= 20:
		return types.Sell
	default:
		return types.StrongSell
	}
}

func skipResult(ticker string, err error) types.CompositeResult {
	return types.CompositeResult{
		Ticker:         ticker,
		Recommendation: types.Skip,
		Err:            err.Error(),
	}
}
