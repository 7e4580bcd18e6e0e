package formulas

import (
	"github.com/markcheno/go-talib"
)

// Indicator series below drop the warm-up values go-talib pads with, so
// result[i] lines up with closes[len(closes)-len(result)+i].

// Default MACD and Bollinger parameters.
const (
	MACDFast          = 12
	MACDSlow          = 26
	MACDSignal        = 9
	BollingerStdDevUp = 2.0
)

// SMA returns the simple moving average series, or nil if there is not
// enough data.
func SMA(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}
	return clean(talib.Sma(closes, period)[period-1:])
}

// EMA returns the exponential moving average series.
//
//	EMA_today = (Price_today × multiplier) + (EMA_yesterday × (1 - multiplier))
//	where multiplier = 2 / (period + 1)
func EMA(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}
	return clean(talib.Ema(closes, period)[period-1:])
}

// RSI returns Wilder's relative strength index series.
func RSI(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) <= period {
		return nil
	}
	return clean(talib.Rsi(closes, period)[period:])
}

// MACDSeries holds the MACD line, its signal line and the histogram.
type MACDSeries struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes the 12/26/9 MACD.
func MACD(closes []float64) *MACDSeries {
	lookback := MACDSlow - 1 + MACDSignal - 1
	if len(closes) <= lookback {
		return nil
	}
	line, signal, hist := talib.Macd(closes, MACDFast, MACDSlow, MACDSignal)
	return &MACDSeries{
		MACD:      clean(line[lookback:]),
		Signal:    clean(signal[lookback:]),
		Histogram: clean(hist[lookback:]),
	}
}

// BollingerBands represents Bollinger Bands series
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes bands of period length at two standard deviations
// around the SMA.
func Bollinger(closes []float64, period int) *BollingerBands {
	if period <= 1 || len(closes) < period {
		return nil
	}
	upper, middle, lower := talib.BBands(closes, period, BollingerStdDevUp, BollingerStdDevUp, talib.SMA)
	return &BollingerBands{
		Upper:  clean(upper[period-1:]),
		Middle: clean(middle[period-1:]),
		Lower:  clean(lower[period-1:]),
	}
}

// Last returns the final value of a series, or nil when it is empty.
func Last(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	return &v
}

// clean replaces NaN and Inf with zero so results always encode as JSON.
func clean(series []float64) []float64 {
	for i, v := range series {
		if isNaN(v) {
			series[i] = 0
		}
	}
	return series
}
