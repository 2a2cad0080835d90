package ta

import "math"

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

func Bollinger(closes []float64, n int, k float64) (mid, up, low float64) {
	mid = SMA(closes, n)
	sd := StdDev(closes, n)
	up = mid + k*sd
	low = mid - k*sd
	return
}

// EMASeries returns the exponential moving average of vals with the
// standard smoothing factor 2/(n+1), seeded with the SMA of the first
// n values. The result has len(vals)-n+1 entries, one per close from
// index n-1 onward. Returns nil on insufficient data.
func EMASeries(vals []float64, n int) []float64 {
	if len(vals) < n || n <= 0 {
		return nil
	}
	out := make([]float64, 0, len(vals)-n+1)
	seed := 0.0
	for i := 0; i < n; i++ {
		seed += vals[i]
	}
	ema := seed / float64(n)
	out = append(out, ema)
	alpha := 2.0 / float64(n+1)
	for i := n; i < len(vals); i++ {
		ema = (vals[i]-ema)*alpha + ema
		out = append(out, ema)
	}
	return out
}

// EMA returns the latest exponential moving average value.
func EMA(vals []float64, n int) float64 {
	s := EMASeries(vals, n)
	if len(s) == 0 {
		return math.NaN()
	}
	return s[len(s)-1]
}

// MACD returns the latest MACD line (EMA12-EMA26) and its 9-period
// signal line. Needs at least 26+9-1 closes for a valid signal.
func MACD(closes []float64, fast, slow, signal int) (macd, sig float64) {
	if len(closes) < slow || fast <= 0 || slow <= fast {
		return math.NaN(), math.NaN()
	}
	fastS := EMASeries(closes, fast)
	slowS := EMASeries(closes, slow)
	// Align: slowS[i] corresponds to close index slow-1+i.
	offset := slow - fast
	line := make([]float64, len(slowS))
	for i := range slowS {
		line[i] = fastS[i+offset] - slowS[i]
	}
	macd = line[len(line)-1]
	sigS := EMASeries(line, signal)
	if len(sigS) == 0 {
		return macd, math.NaN()
	}
	return macd, sigS[len(sigS)-1]
}

func ATR(highs, lows, closes []float64, period int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return math.NaN()
	}
	n := period
	if len(closes) < n+1 {
		return math.NaN()
	}
	trs := make([]float64, 0, n)
	for i := len(closes) - n; i < len(closes); i++ {
		tr1 := highs[i] - lows[i]
		tr2 := math.Abs(highs[i] - closes[i-1])
		tr3 := math.Abs(lows[i] - closes[i-1])
		tr := math.Max(tr1, math.Max(tr2, tr3))
		trs = append(trs, tr)
	}
	sum := 0.0
	for _, v := range trs {
		sum += v
	}
	return sum / float64(n)
}
