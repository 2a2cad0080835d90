package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

const quoteSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary/{symbol}"

// YahooProvider fetches quotes and history from Yahoo Finance. Quote
// and chart data come through finance-go; the ratio fundamentals that
// finance-go does not expose (ROE, debt/equity, growth, margins, beta)
// are filled in from the quoteSummary endpoint on a best-effort basis.
type YahooProvider struct {
	limiter *RateLimiter
	retry   RetryPolicy
	http    *resty.Client
}

// NewYahooProvider creates a provider with the given rate limit budget.
func NewYahooProvider(limiter *RateLimiter, retry RetryPolicy) *YahooProvider {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", "stock-advisor/1.0")
	return &YahooProvider{limiter: limiter, retry: retry, http: client}
}

// Profile implements Provider.
func (p *YahooProvider) Profile(ctx context.Context, symbol string) (types.FundamentalProfile, error) {
	symbol = normalizeSymbol(symbol)
	profile := types.FundamentalProfile{Symbol: symbol}

	if err := p.limiter.Wait(ctx); err != nil {
		return profile, err
	}

	err := WithRetry(ctx, p.retry, func() error {
		q, err := equity.Get(symbol)
		if err != nil {
			return fmt.Errorf("quote %s: %w", symbol, err)
		}
		if q == nil || q.RegularMarketPrice == 0 {
			return fmt.Errorf("%w: %s", ErrNoData, symbol)
		}

		profile.CurrentPrice = q.RegularMarketPrice
		profile.Volume = float64(q.RegularMarketVolume)
		if q.MarketCap > 0 {
			profile.MarketCap = types.Float(float64(q.MarketCap))
		}
		if q.TrailingPE != 0 {
			profile.PERatio = types.Float(q.TrailingPE)
		}
		if q.PriceToBook != 0 {
			profile.PBRatio = types.Float(q.PriceToBook)
		}
		return nil
	})
	if err != nil {
		return profile, err
	}

	// Ratio fundamentals are an enrichment: a failure here degrades the
	// profile to nil fields instead of failing the analysis.
	if err := p.enrichRatios(ctx, symbol, &profile); err != nil {
		logger.DataIssue(ctx, symbol, "fundamentals_enrichment_failed", "error", err.Error())
	}

	return profile, nil
}

// History implements Provider.
func (p *YahooProvider) History(ctx context.Context, symbol string, days int) ([]types.Candle, error) {
	symbol = normalizeSymbol(symbol)

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	var candles []types.Candle
	err := WithRetry(ctx, p.retry, func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)
		candles = candles[:0]
		for iter.Next() {
			bar := iter.Bar()
			open, _ := bar.Open.Float64()
			high, _ := bar.High.Float64()
			low, _ := bar.Low.Float64()
			cls, _ := bar.Close.Float64()
			candles = append(candles, types.Candle{
				Ts:    int64(bar.Timestamp),
				Open:  open,
				High:  high,
				Low:   low,
				Close: cls,
				Vol:   float64(bar.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("history %s: %w", symbol, err)
		}
		if len(candles) == 0 {
			return fmt.Errorf("%w: %s has no price history", ErrNoData, symbol)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candles, nil
}

// Exchange implements Provider.
func (p *YahooProvider) Exchange(ctx context.Context, symbol string) (string, error) {
	symbol = normalizeSymbol(symbol)
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	q, err := equity.Get(symbol)
	if err != nil || q == nil {
		return "", fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	return q.FullExchangeName, nil
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				ReturnOnEquity rawValue `json:"returnOnEquity"`
				DebtToEquity   rawValue `json:"debtToEquity"`
				RevenueGrowth  rawValue `json:"revenueGrowth"`
				ProfitMargins  rawValue `json:"profitMargins"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				Beta rawValue `json:"beta"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

func (p *YahooProvider) enrichRatios(ctx context.Context, symbol string, profile *types.FundamentalProfile) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	var parsed quoteSummaryResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("modules", "financialData,defaultKeyStatistics").
		SetResult(&parsed).
		Get(quoteSummaryURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("quoteSummary %s: status %d", symbol, resp.StatusCode())
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return fmt.Errorf("quoteSummary %s: empty result", symbol)
	}

	r := parsed.QuoteSummary.Result[0]
	profile.ROE = r.FinancialData.ReturnOnEquity.Raw
	if v := r.FinancialData.DebtToEquity.Raw; v != nil {
		// Reported in percent; scoring works on the plain ratio.
		profile.DebtToEquity = types.Float(*v / 100)
	}
	profile.RevenueGrowth = r.FinancialData.RevenueGrowth.Raw
	profile.ProfitMargins = r.FinancialData.ProfitMargins.Raw
	profile.Beta = r.DefaultKeyStatistics.Beta.Raw
	return nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
