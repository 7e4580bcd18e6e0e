package markets

import (
	"context"
	"strings"
	"time"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/fanout"
	"github.com/aristath/oracles/internal/jsonx"
)

// MarketIndex is an index proxy tracked by /stocks/indices.
type MarketIndex struct {
	Symbol string
	Name   string
}

// Indices lists the tracked index proxies.
var Indices = []MarketIndex{
	{Symbol: "SPY", Name: "S&P 500 ETF"},
	{Symbol: "QQQ", Name: "Nasdaq 100 ETF"},
	{Symbol: "DIA", Name: "Dow Jones ETF"},
	{Symbol: "IWM", Name: "Russell 2000 ETF"},
	{Symbol: "VIX", Name: "Volatility Index"},
}

// StockQuote is a normalized Finnhub quote.
type StockQuote struct {
	Symbol        string   `json:"symbol"`
	Price         float64  `json:"price"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"change_percent"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Open          float64  `json:"open"`
	PreviousClose float64  `json:"previous_close"`
	Timestamp     string   `json:"timestamp"`
}

// Candle is one OHLCV bar.
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// StockHistory is a candle series with its summary.
type StockHistory struct {
	Symbol     string        `json:"symbol"`
	Resolution string        `json:"resolution"`
	Candles    []Candle      `json:"candles"`
	Summary    *PriceSummary `json:"summary"`
}

// IndexQuote is the latest price of an index proxy.
type IndexQuote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"change_percent"`
}

// StockQuote returns the latest quote for symbol.
func (s *Service) StockQuote(ctx context.Context, symbol string) (*StockQuote, error) {
	symbol = strings.ToUpper(symbol)

	q, err := s.stocks.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return &StockQuote{
		Symbol:        symbol,
		Price:         q.Current,
		Change:        floatPtr(q.Change),
		ChangePercent: floatPtr(q.ChangePercent),
		High:          q.High,
		Low:           q.Low,
		Open:          q.Open,
		PreviousClose: q.PreviousClose,
		Timestamp:     time.Unix(q.Time, 0).UTC().Format(api.TimestampLayout),
	}, nil
}

// StockHistory returns candles covering the last days days.
func (s *Service) StockHistory(ctx context.Context, symbol, resolution string, days int) (*StockHistory, error) {
	symbol = strings.ToUpper(symbol)

	data, err := s.stocks.Candles(ctx, symbol, resolution, days)
	if err != nil {
		return nil, err
	}

	history := &StockHistory{Symbol: symbol, Resolution: resolution, Candles: make([]Candle, 0, len(data.Time))}
	closes := make([]float64, 0, len(data.Time))
	for i, ts := range data.Time {
		if i >= len(data.Close) {
			break
		}
		history.Candles = append(history.Candles, Candle{
			Date:   time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Open:   at(data.Open, i),
			High:   at(data.High, i),
			Low:    at(data.Low, i),
			Close:  data.Close[i],
			Volume: at(data.Volume, i),
		})
		closes = append(closes, data.Close[i])
	}

	history.Summary = summarize(closes, periodsPerYear(resolution))
	return history, nil
}

// IndexQuotes returns the tracked index proxies. A proxy whose quote fails
// is left out.
func (s *Service) IndexQuotes(ctx context.Context) ([]IndexQuote, error) {
	if !s.stocks.Configured() {
		return nil, api.NotConfigured(finnhub.EnvKey, finnhub.SetupHint)
	}

	tasks := make([]fanout.Task[*finnhub.Quote], len(Indices))
	for i, idx := range Indices {
		idx := idx
		tasks[i] = func(ctx context.Context) (*finnhub.Quote, error) {
			return s.stocks.Quote(ctx, idx.Symbol)
		}
	}

	quotes := make([]IndexQuote, 0, len(Indices))
	for i, res := range fanout.Settle(ctx, tasks...) {
		idx := Indices[i]
		if !res.OK() {
			s.log.Warn().Err(res.Err).Str("symbol", idx.Symbol).Msg("Index quote unavailable")
			continue
		}
		quotes = append(quotes, IndexQuote{
			Symbol:        idx.Symbol,
			Name:          idx.Name,
			Price:         res.Value.Current,
			Change:        floatPtr(res.Value.Change),
			ChangePercent: floatPtr(res.Value.ChangePercent),
		})
	}
	return quotes, nil
}

func floatPtr(f *jsonx.Float) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
