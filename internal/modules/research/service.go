// Package research serves event calendars, analyst consensus and headlines.
package research

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/jsonx"
)

// Source is the subset of the Finnhub client the service uses.
type Source interface {
	Configured() bool
	Quote(ctx context.Context, symbol string) (*finnhub.Quote, error)
	EarningsCalendar(ctx context.Context, r finnhub.DateRange, symbol string) ([]jsonx.Record, error)
	Dividends(ctx context.Context, symbol string, r finnhub.DateRange) ([]jsonx.Record, error)
	IPOCalendar(ctx context.Context, r finnhub.DateRange) ([]jsonx.Record, error)
	EconomicCalendar(ctx context.Context, r finnhub.DateRange) ([]jsonx.Record, error)
	Recommendations(ctx context.Context, symbol string) ([]finnhub.Recommendation, error)
	PriceTarget(ctx context.Context, symbol string) (jsonx.Record, error)
	MarketNews(ctx context.Context, category string) ([]finnhub.NewsItem, error)
	CompanyNews(ctx context.Context, symbol string, r finnhub.DateRange) ([]finnhub.NewsItem, error)
}

const day = 24 * time.Hour

// Service answers calendar, analyst and news requests.
type Service struct {
	source Source
	log    zerolog.Logger
	now    func() time.Time
}

// NewService creates a research service
func NewService(source Source, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("service", "research").Logger(),
		now:    time.Now,
	}
}

func (s *Service) requireKey() error {
	if !s.source.Configured() {
		return api.NotConfigured(finnhub.EnvKey, finnhub.SetupHint)
	}
	return nil
}

// dateRange resolves optional YYYY-MM-DD bounds. Missing bounds are
// offsets in days from today.
func (s *Service) dateRange(from, to string, fromOffset, toOffset int) (finnhub.DateRange, error) {
	today := s.now().UTC().Truncate(day)
	r := finnhub.DateRange{
		From: today.Add(time.Duration(fromOffset) * day),
		To:   today.Add(time.Duration(toOffset) * day),
	}

	var err error
	if from != "" {
		if r.From, err = time.Parse(finnhub.DateLayout, from); err != nil {
			return r, api.Validation("Invalid from date (format: YYYY-MM-DD)")
		}
	}
	if to != "" {
		if r.To, err = time.Parse(finnhub.DateLayout, to); err != nil {
			return r, api.Validation("Invalid to date (format: YYYY-MM-DD)")
		}
	}
	return r, nil
}
