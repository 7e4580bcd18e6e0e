package indicators

import (
	"context"
	"errors"
	"strings"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/alphavantage"
	"github.com/aristath/oracles/internal/fanout"
)

// Signals.
const (
	Bullish    = "BULLISH"
	Bearish    = "BEARISH"
	Neutral    = "NEUTRAL"
	Overbought = "OVERBOUGHT"
	Oversold   = "OVERSOLD"
	Unknown    = "UNKNOWN"
)

// RSI thresholds.
const (
	rsiOverbought = 70
	rsiOversold   = 30
)

const maxValues = 5

// Reading is one dated value of a single-valued indicator.
type Reading struct {
	Date  string
	Value float64
}

// Oscillator is a single-valued indicator such as SMA, EMA or RSI.
type Oscillator struct {
	Symbol       string
	Indicator    string
	Period       int
	Source       string
	CurrentPrice *float64
	Current      float64
	Signal       string
	Values       []Reading
}

// MovingAverage returns an SMA or EMA reading with the price-vs-average
// signal.
func (s *Service) MovingAverage(ctx context.Context, function, symbol string, period int) (*Oscillator, error) {
	function = strings.ToUpper(function)
	if function != "SMA" && function != "EMA" {
		return nil, api.Validation("Unsupported moving average %s", function)
	}
	osc, sr, err := s.oscillator(ctx, function, symbol, period)
	if err != nil {
		return nil, err
	}
	osc.CurrentPrice = s.currentPrice(ctx, osc.Symbol, sr)
	osc.Signal = trendSignal(osc.CurrentPrice, osc.Current)
	return osc, nil
}

// RSI returns the relative strength index with its overbought or oversold
// signal.
func (s *Service) RSI(ctx context.Context, symbol string, period int) (*Oscillator, error) {
	osc, _, err := s.oscillator(ctx, "RSI", symbol, period)
	if err != nil {
		return nil, err
	}
	osc.Signal = rsiSignal(osc.Current)
	return osc, nil
}

func (s *Service) oscillator(ctx context.Context, function, symbol string, period int) (*Oscillator, *series, error) {
	symbol = strings.ToUpper(symbol)
	sr, err := s.fetchSeries(ctx, alphavantage.Query{Function: function, Symbol: symbol, Period: period})
	if err != nil {
		return nil, nil, err
	}

	osc := &Oscillator{
		Symbol:    symbol,
		Indicator: function,
		Period:    period,
		Source:    sr.source,
		Current:   sr.points[0].Values[function],
		Values:    make([]Reading, 0, maxValues),
	}
	for i, p := range sr.points {
		if i == maxValues {
			break
		}
		osc.Values = append(osc.Values, Reading{Date: p.Date, Value: p.Values[function]})
	}
	return osc, sr, nil
}

// MACDReading is the latest MACD line, signal line and histogram.
type MACDReading struct {
	Symbol     string  `json:"symbol"`
	Source     string  `json:"source"`
	Date       string  `json:"date"`
	MACDLine   float64 `json:"macd_line"`
	SignalLine float64 `json:"signal_line"`
	Histogram  float64 `json:"histogram"`
	Signal     string  `json:"signal"`
}

// MACD returns the latest 12/26/9 MACD reading.
func (s *Service) MACD(ctx context.Context, symbol string) (*MACDReading, error) {
	symbol = strings.ToUpper(symbol)
	sr, err := s.fetchSeries(ctx, alphavantage.Query{Function: "MACD", Symbol: symbol})
	if err != nil {
		return nil, err
	}

	latest := sr.points[0]
	r := &MACDReading{
		Symbol:     symbol,
		Source:     sr.source,
		Date:       latest.Date,
		MACDLine:   latest.Values["MACD"],
		SignalLine: latest.Values["MACD_Signal"],
		Histogram:  latest.Values["MACD_Hist"],
		Signal:     Bearish,
	}
	if r.MACDLine > r.SignalLine {
		r.Signal = Bullish
	}
	return r, nil
}

// BandsReading is the latest Bollinger band set next to the price.
type BandsReading struct {
	Symbol       string   `json:"symbol"`
	Period       int      `json:"period"`
	Source       string   `json:"source"`
	Date         string   `json:"date"`
	CurrentPrice *float64 `json:"current_price"`
	UpperBand    float64  `json:"upper_band"`
	MiddleBand   float64  `json:"middle_band"`
	LowerBand    float64  `json:"lower_band"`
	Signal       string   `json:"signal"`
}

// Bollinger returns the latest Bollinger bands. A price above the upper
// band is overbought, below the lower band oversold.
func (s *Service) Bollinger(ctx context.Context, symbol string, period int) (*BandsReading, error) {
	symbol = strings.ToUpper(symbol)
	sr, err := s.fetchSeries(ctx, alphavantage.Query{Function: "BBANDS", Symbol: symbol, Period: period})
	if err != nil {
		return nil, err
	}

	latest := sr.points[0]
	r := &BandsReading{
		Symbol:       symbol,
		Period:       period,
		Source:       sr.source,
		Date:         latest.Date,
		CurrentPrice: s.currentPrice(ctx, symbol, sr),
		UpperBand:    latest.Values["Real Upper Band"],
		MiddleBand:   latest.Values["Real Middle Band"],
		LowerBand:    latest.Values["Real Lower Band"],
	}
	r.Signal = bandSignal(r.CurrentPrice, r.UpperBand, r.LowerBand)
	return r, nil
}

// Signal is a value with its interpretation. Value is nil when the
// indicator could not be read.
type Signal struct {
	Value  *float64 `json:"value"`
	Signal string   `json:"signal"`
}

// Batch is the 20-day SMA and 14-day RSI with a combined signal.
type Batch struct {
	Symbol        string   `json:"symbol"`
	CurrentPrice  *float64 `json:"current_price"`
	SMA20         Signal   `json:"sma_20"`
	RSI14         Signal   `json:"rsi_14"`
	OverallSignal string   `json:"overall_signal"`
}

// Batch reads SMA(20) and RSI(14) concurrently. Missing data leaves a
// value null; configuration and quota errors fail the whole batch.
func (s *Service) Batch(ctx context.Context, symbol string) (*Batch, error) {
	symbol = strings.ToUpper(symbol)

	read := func(function string, period int) fanout.Task[*series] {
		return func(ctx context.Context) (*series, error) {
			return s.fetchSeries(ctx, alphavantage.Query{Function: function, Symbol: symbol, Period: period})
		}
	}
	functions := []string{"SMA", "RSI"}
	results := fanout.Settle(ctx, read(functions[0], 20), read(functions[1], 14))

	values := make([]*float64, len(results))
	var fallback *series
	for i, res := range results {
		if res.Err != nil {
			var notFound *api.NotFoundError
			if !errors.As(res.Err, &notFound) {
				return nil, res.Err
			}
			continue
		}
		v := res.Value.points[0].Values[functions[i]]
		values[i] = &v
		if fallback == nil {
			fallback = res.Value
		}
	}
	sma, rsi := values[0], values[1]

	b := &Batch{
		Symbol:        symbol,
		CurrentPrice:  s.currentPrice(ctx, symbol, fallback),
		SMA20:         Signal{Value: sma, Signal: Unknown},
		RSI14:         Signal{Value: rsi, Signal: Unknown},
		OverallSignal: Unknown,
	}
	if sma != nil {
		b.SMA20.Signal = trendSignal(b.CurrentPrice, *sma)
	}
	if rsi != nil {
		b.RSI14.Signal = rsiSignal(*rsi)
	}
	if sma != nil && rsi != nil && b.CurrentPrice != nil {
		b.OverallSignal = overallSignal(*b.CurrentPrice, *sma, *rsi)
	}
	return b, nil
}

func trendSignal(price *float64, level float64) string {
	switch {
	case price == nil:
		return Unknown
	case *price > level:
		return Bullish
	default:
		return Bearish
	}
}

func rsiSignal(rsi float64) string {
	switch {
	case rsi > rsiOverbought:
		return Overbought
	case rsi < rsiOversold:
		return Oversold
	default:
		return Neutral
	}
}

func bandSignal(price *float64, upper, lower float64) string {
	switch {
	case price == nil:
		return Unknown
	case *price > upper:
		return Overbought
	case *price < lower:
		return Oversold
	default:
		return Neutral
	}
}

func overallSignal(price, sma, rsi float64) string {
	switch {
	case price > sma && rsi < rsiOverbought:
		return Bullish
	case price < sma && rsi > rsiOversold:
		return Bearish
	default:
		return Neutral
	}
}
