// Package bundle answers task-oriented requests that combine several
// sources in one response. A failed source never fails the bundle; its
// section is null (or an error marker) instead.
package bundle

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/jsonx"
)

// EquitySource is the subset of the Finnhub client the bundles use.
type EquitySource interface {
	Quote(ctx context.Context, symbol string) (*finnhub.Quote, error)
	CompanyNews(ctx context.Context, symbol string, r finnhub.DateRange) ([]finnhub.NewsItem, error)
}

// EstimateSource is the subset of the FMP client the bundles use.
type EstimateSource interface {
	AnalystEstimates(ctx context.Context, symbol string) ([]jsonx.Record, error)
}

// Screener screens names, addresses and countries against sanctions lists.
type Screener interface {
	ScreenName(ctx context.Context, payload any) (any, error)
	ScreenAddress(ctx context.Context, payload any) (any, error)
	Country(ctx context.Context, code string) (any, error)
}

// FilingSource reads the SEC oracle.
type FilingSource interface {
	Company(ctx context.Context, ticker string) (any, error)
	Financials(ctx context.Context, ticker, metrics, periods string) (any, error)
	Insiders(ctx context.Context, ticker, days string) (any, error)
	Events(ctx context.Context, ticker, days string) (any, error)
}

// Sources bundles the providers behind the service.
type Sources struct {
	Equities  EquitySource
	Estimates EstimateSource
	Sanctions Screener
	Filings   FilingSource
}

// Service assembles bundles.
type Service struct {
	equities  EquitySource
	estimates EstimateSource
	sanctions Screener
	filings   FilingSource
	cache     *cache.Cache
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a bundle service
func NewService(src Sources, c *cache.Cache, log zerolog.Logger) *Service {
	return &Service{
		equities:  src.Equities,
		estimates: src.Estimates,
		sanctions: src.Sanctions,
		filings:   src.Filings,
		cache:     c,
		log:       log.With().Str("service", "bundle").Logger(),
		now:       time.Now,
	}
}

// degraded logs a failed branch and reports whether it failed.
func (s *Service) degraded(branch string, err error) bool {
	if err == nil {
		return false
	}
	s.log.Warn().Err(err).Str("branch", branch).Msg("Bundle branch unavailable")
	return true
}
