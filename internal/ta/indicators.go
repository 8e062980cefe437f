package ta

import "math"

func EMASeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if period <= 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI computes the Wilder relative-strength index from the trailing `period`
// deltas of the series. A series with no deltas reports a neutral 50.
func RSI(closes []float64, period int) float64 {
	if len(closes) < 2 || period <= 0 {
		return 50
	}
	start := len(closes) - period - 1
	if start < 0 {
		start = 0
	}
	var gainSum, lossSum float64
	var n int
	for i := start + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
		n++
	}
	if n == 0 {
		return 50
	}
	avgGain := gainSum / float64(n)
	avgLoss := lossSum / float64(n)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACDLast returns the latest value of EMA(fast) - EMA(slow).
func MACDLast(values []float64, fast, slow int) float64 {
	if len(values) == 0 {
		return 0
	}
	fastEMA := EMASeries(values, fast)
	slowEMA := EMASeries(values, slow)
	last := len(values) - 1
	return fastEMA[last] - slowEMA[last]
}

// ADXProxy is a heuristic trend-strength stand-in, not textbook ADX:
// min(40, max(5, 3*|macd| + |rsi-50|/2)).
func ADXProxy(macd, rsi float64) float64 {
	v := 3*math.Abs(macd) + math.Abs(rsi-50)/2
	return math.Min(40, math.Max(5, v))
}

// SMADistance returns the simple moving average over the trailing
// min(window, len) values and the percent distance of the last value from it.
func SMADistance(values []float64, window int) (sma, distancePct float64) {
	if len(values) == 0 || window <= 0 {
		return 0, 0
	}
	if window > len(values) {
		window = len(values)
	}
	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	sma = sum / float64(window)
	if sma != 0 {
		distancePct = (values[len(values)-1] - sma) / sma * 100
	}
	return sma, distancePct
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
