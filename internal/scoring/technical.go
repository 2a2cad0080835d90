package scoring

import (
	"fmt"

	"stock-advisor/internal/types"
)

// ScoreTechnicals applies the technical rule table to an indicator set.
// With fewer candles than th.MinCandles the result is 0 with a single
// diagnostic reason; nil indicators are skipped, including the RSI
// 45-70 and Bollinger 0.2-0.8 dead zones which add nothing on purpose.
func ScoreTechnicals(ind types.TechnicalIndicators, th Thresholds) types.ScoreResult {
	if ind.Periods < th.MinCandles {
		return types.ScoreResult{Reasons: []string{"Insufficient historical data"}}
	}

	score := 0
	var reasons []string

	if ind.RSI != nil {
		switch {
		case *ind.RSI < th.RSIOversold:
			score += 15
			reasons = append(reasons, "Oversold condition (RSI)")
		case *ind.RSI < 45:
			score += 10
			reasons = append(reasons, "RSI in favorable range")
		case *ind.RSI > th.RSIOverbought:
			score += 5
			reasons = append(reasons, "Overbought condition (RSI)")
		}
	}

	if ind.MA20 != nil {
		price := ind.CurrentPrice
		switch {
		case ind.MA50 != nil && price > *ind.MA20 && *ind.MA20 > *ind.MA50:
			score += 20
			reasons = append(reasons, "Strong uptrend (price above rising MAs)")
		case price > *ind.MA20:
			score += 15
			reasons = append(reasons, fmt.Sprintf("Price above %d-day MA", th.MAShort))
		case ind.MA50 != nil && price > *ind.MA50:
			score += 10
			reasons = append(reasons, fmt.Sprintf("Price above %d-day MA", th.MALong))
		}
	} else if ind.MA50 != nil && ind.CurrentPrice > *ind.MA50 {
		score += 10
		reasons = append(reasons, fmt.Sprintf("Price above %d-day MA", th.MALong))
	}

	if ind.MACD != nil && ind.MACDSignal != nil && *ind.MACD > *ind.MACDSignal {
		score += 15
		reasons = append(reasons, "MACD bullish crossover")
	}

	if ind.VolumeRatio != nil {
		switch {
		case *ind.VolumeRatio > 1.5:
			score += 10
			reasons = append(reasons, "High volume activity")
		case *ind.VolumeRatio > 1.0:
			score += 5
			reasons = append(reasons, "Above average volume")
		}
	}

	if ind.BBPosition != nil {
		switch {
		case *ind.BBPosition < 0.2:
			score += 10
			reasons = append(reasons, "Near lower Bollinger Band (potential bounce)")
		case *ind.BBPosition > 0.8:
			score += 5
			reasons = append(reasons, "Near upper Bollinger Band")
		}
	}

	return types.ScoreResult{Score: clampScore(score), Reasons: reasons}
}
