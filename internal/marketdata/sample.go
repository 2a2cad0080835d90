package marketdata

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"stock-advisor/internal/types"
)

// SampleProvider serves deterministic synthetic data so the advisor
// can run offline. The series is seeded by the symbol, so the same
// ticker always produces the same candles and profile.
type SampleProvider struct{}

// NewSampleProvider creates an offline provider.
func NewSampleProvider() *SampleProvider { return &SampleProvider{} }

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(normalizeSymbol(symbol)))
	return int64(h.Sum64())
}

// Profile implements Provider.
func (p *SampleProvider) Profile(_ context.Context, symbol string) (types.FundamentalProfile, error) {
	rng := rand.New(rand.NewSource(symbolSeed(symbol)))
	price := 20 + rng.Float64()*480

	return types.FundamentalProfile{
		Symbol:        normalizeSymbol(symbol),
		CurrentPrice:  price,
		Volume:        float64(1e6 + rng.Intn(50e6)),
		MarketCap:     types.Float(5e8 + rng.Float64()*2e12),
		PERatio:       types.Float(8 + rng.Float64()*60),
		PBRatio:       types.Float(0.5 + rng.Float64()*10),
		DebtToEquity:  types.Float(rng.Float64() * 2),
		ROE:           types.Float(-0.05 + rng.Float64()*0.40),
		RevenueGrowth: types.Float(-0.10 + rng.Float64()*0.35),
		ProfitMargins: types.Float(-0.05 + rng.Float64()*0.30),
		Beta:          types.Float(0.5 + rng.Float64()*1.5),
	}, nil
}

// History implements Provider. A geometric random walk with mild drift
// keeps the indicator math realistic.
func (p *SampleProvider) History(_ context.Context, symbol string, days int) ([]types.Candle, error) {
	rng := rand.New(rand.NewSource(symbolSeed(symbol) + 1))
	if days <= 0 {
		days = 365
	}

	price := 20 + rng.Float64()*480
	drift := -0.0005 + rng.Float64()*0.002
	now := time.Now()
	candles := make([]types.Candle, 0, days)
	for i := 0; i < days; i++ {
		ret := drift + rng.NormFloat64()*0.018
		next := price * math.Exp(ret)
		high := math.Max(price, next) * (1 + rng.Float64()*0.01)
		low := math.Min(price, next) * (1 - rng.Float64()*0.01)
		candles = append(candles, types.Candle{
			Ts:    now.AddDate(0, 0, i-days).Unix(),
			Open:  price,
			High:  high,
			Low:   low,
			Close: next,
			Vol:   float64(1e6 + rng.Intn(20e6)),
		})
		price = next
	}
	return candles, nil
}

// Exchange implements Provider.
func (p *SampleProvider) Exchange(_ context.Context, symbol string) (string, error) {
	if symbolSeed(symbol)%2 == 0 {
		return "NasdaqGS", nil
	}
	return "NYSE", nil
}
