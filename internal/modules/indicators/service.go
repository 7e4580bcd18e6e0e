// Package indicators serves technical indicators. Alpha Vantage is the
// primary source; when it is unavailable the series are computed locally
// from Finnhub daily candles.
package indicators

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/alphavantage"
	"github.com/aristath/oracles/internal/clients/finnhub"
)

// Where a series came from.
const (
	SourceAlphaVantage = "alphavantage"
	SourceComputed     = "computed"
)

// historyDays of daily candles leave enough closes for a 200 period
// average after weekends and holidays.
const historyDays = 400

// IndicatorSource is the subset of the Alpha Vantage client the service uses.
type IndicatorSource interface {
	Configured() bool
	Indicator(ctx context.Context, q alphavantage.Query) ([]alphavantage.Point, error)
}

// PriceSource is the subset of the Finnhub client the service uses.
type PriceSource interface {
	Configured() bool
	Quote(ctx context.Context, symbol string) (*finnhub.Quote, error)
	Candles(ctx context.Context, symbol, resolution string, days int) (*finnhub.Candles, error)
}

// Service computes indicator readings and trading signals.
type Service struct {
	indicators IndicatorSource
	prices     PriceSource
	log        zerolog.Logger
}

// NewService creates an indicators service
func NewService(indicators IndicatorSource, prices PriceSource, log zerolog.Logger) *Service {
	return &Service{
		indicators: indicators,
		prices:     prices,
		log:        log.With().Str("service", "indicators").Logger(),
	}
}

// series is an indicator series, newest point first.
type series struct {
	points    []alphavantage.Point
	source    string
	lastClose *float64
}

// fetchSeries asks Alpha Vantage first and falls back to local
// computation when Alpha Vantage has no key or refuses, provided Finnhub
// is configured.
func (s *Service) fetchSeries(ctx context.Context, q alphavantage.Query) (*series, error) {
	q.Function = strings.ToUpper(q.Function)
	q.Symbol = strings.ToUpper(q.Symbol)

	points, err := s.indicators.Indicator(ctx, q)
	if err == nil {
		if len(points) == 0 {
			return nil, api.NotFound("No data found", nil)
		}
		return &series{points: points, source: SourceAlphaVantage}, nil
	}

	if !canFallBack(err) || !s.prices.Configured() {
		return nil, err
	}
	s.log.Debug().Err(err).Str("function", q.Function).Str("symbol", q.Symbol).Msg("Computing indicator locally")

	candles, cerr := s.prices.Candles(ctx, q.Symbol, "D", historyDays)
	if cerr != nil {
		return nil, cerr
	}
	points = compute(q, candles)
	if len(points) == 0 {
		return nil, api.NotFound("No data found", nil)
	}
	last := candles.Close[len(candles.Close)-1]
	return &series{points: points, source: SourceComputed, lastClose: &last}, nil
}

func canFallBack(err error) bool {
	var notConfigured *api.NotConfiguredError
	var rateLimited *api.RateLimitedError
	return errors.As(err, &notConfigured) || errors.As(err, &rateLimited)
}

// currentPrice prefers a live quote and falls back to the last close of
// locally computed series. Nil means no price is known.
func (s *Service) currentPrice(ctx context.Context, symbol string, sr *series) *float64 {
	if s.prices.Configured() {
		q, err := s.prices.Quote(ctx, symbol)
		if err == nil {
			price := q.Current
			return &price
		}
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote unavailable")
	}
	if sr != nil {
		return sr.lastClose
	}
	return nil
}

func candleDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(finnhub.DateLayout)
}
