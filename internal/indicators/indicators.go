// Package indicators derives technical indicators from candle history.
// Every indicator is optional: when the window is short or degenerate
// the field stays nil rather than carrying a sentinel value.
package indicators

import (
	"math"

	"stock-advisor/internal/ta"
	"stock-advisor/internal/types"
)

const (
	rsiPeriod  = 14
	atrPeriod  = 14
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	bbStdDev   = 2.0

	// Fallback MA windows when the caller passes none.
	DefaultMAShort = 20
	DefaultMALong  = 50
)

// Compute derives the indicator set from candles, oldest first. The
// moving-average windows come from configuration; non-positive values
// fall back to the 20/50 defaults the indicator fields are named for.
func Compute(candles []types.Candle, maShort, maLong int) types.TechnicalIndicators {
	if maShort <= 0 {
		maShort = DefaultMAShort
	}
	if maLong <= 0 {
		maLong = DefaultMALong
	}

	ind := types.TechnicalIndicators{Periods: len(candles)}
	if len(candles) == 0 {
		return ind
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	vols := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		vols[i] = c.Vol
	}
	price := closes[len(closes)-1]
	ind.CurrentPrice = price

	if v := ta.RSI(closes, rsiPeriod); !math.IsNaN(v) {
		ind.RSI = types.Float(v)
	}
	if v := ta.SMA(closes, maShort); !math.IsNaN(v) {
		ind.MA20 = types.Float(v)
		if v != 0 {
			ind.PriceVsMA20 = types.Float((price/v - 1) * 100)
		}
	}
	if v := ta.SMA(closes, maLong); !math.IsNaN(v) {
		ind.MA50 = types.Float(v)
		if v != 0 {
			ind.PriceVsMA50 = types.Float((price/v - 1) * 100)
		}
	}

	macd, sig := ta.MACD(closes, macdFast, macdSlow, macdSignal)
	if !math.IsNaN(macd) {
		ind.MACD = types.Float(macd)
	}
	if !math.IsNaN(sig) {
		ind.MACDSignal = types.Float(sig)
	}

	if v := ta.ATR(highs, lows, closes, atrPeriod); !math.IsNaN(v) {
		ind.ATR = types.Float(v)
	}

	// Bollinger position collapses when the band has no width, which
	// happens on flat price windows. Leave it nil rather than dividing.
	if _, up, low := ta.Bollinger(closes, maShort, bbStdDev); !math.IsNaN(up) && up != low {
		ind.BBPosition = types.Float((price - low) / (up - low))
	}

	meanVol := 0.0
	for _, v := range vols {
		meanVol += v
	}
	meanVol /= float64(len(vols))
	if meanVol > 0 {
		ind.VolumeRatio = types.Float(vols[len(vols)-1] / meanVol)
	}

	return ind
}
