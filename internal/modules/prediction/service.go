package prediction

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/kalshi"
	"github.com/aristath/oracles/internal/clients/polymarket"
	"github.com/aristath/oracles/internal/fanout"
)

// ErrNotFound is returned when neither venue knows a market or event.
var ErrNotFound = errors.New("not found")

// scanDepth is how many events per venue an arbitrage scan reads.
const scanDepth = 100

var kalshiTicker = regexp.MustCompile(`^[A-Z0-9-]+$`)

// PolymarketSource is the subset of the Polymarket client the service uses.
type PolymarketSource interface {
	Events(ctx context.Context, limit int) ([]polymarket.Event, error)
	FindMarket(ctx context.Context, id string) (*polymarket.Event, *polymarket.Market, error)
	LiveEvent(ctx context.Context, id string) (any, error)
}

// KalshiSource is the subset of the Kalshi client the service uses.
type KalshiSource interface {
	Events(ctx context.Context, limit int) ([]kalshi.Event, error)
	Market(ctx context.Context, ticker string) (*kalshi.Market, error)
	Event(ctx context.Context, id string) (any, error)
}

// Service reads both venues and runs the matcher.
type Service struct {
	polymarket PolymarketSource
	kalshi     KalshiSource
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates a prediction market service
func NewService(poly PolymarketSource, k KalshiSource, log zerolog.Logger) *Service {
	return &Service{
		polymarket: poly,
		kalshi:     k,
		log:        log.With().Str("service", "prediction").Logger(),
		now:        time.Now,
	}
}

// includes reports whether a source filter selects the venue.
func includes(filter string, s Source) bool {
	return filter == "" || filter == "all" || filter == string(s)
}

// Markets lists normalized markets from the selected venues. A venue that
// fails contributes nothing. Category filtering applies to Kalshi only.
func (s *Service) Markets(ctx context.Context, source, category string, limit int) []NormalizedMarket {
	var tasks []fanout.Task[[]NormalizedMarket]
	if includes(source, SourcePolymarket) {
		tasks = append(tasks, s.polymarketTask(limit))
	}
	if includes(source, SourceKalshi) {
		tasks = append(tasks, s.kalshiTask(limit, category))
	}

	markets := make([]NormalizedMarket, 0)
	for _, res := range fanout.Settle(ctx, tasks...) {
		markets = append(markets, res.Value...)
	}
	return markets
}

func (s *Service) polymarketTask(limit int) fanout.Task[[]NormalizedMarket] {
	return func(ctx context.Context) ([]NormalizedMarket, error) {
		events, err := s.polymarket.Events(ctx, limit)
		if err != nil {
			s.log.Warn().Err(err).Str("source", string(SourcePolymarket)).Msg("Source unavailable, continuing without it")
			return []NormalizedMarket{}, err
		}
		return NormalizePolymarketEvents(events), nil
	}
}

func (s *Service) kalshiTask(limit int, category string) fanout.Task[[]NormalizedMarket] {
	return func(ctx context.Context) ([]NormalizedMarket, error) {
		events, err := s.kalshi.Events(ctx, limit)
		if err != nil {
			s.log.Warn().Err(err).Str("source", string(SourceKalshi)).Msg("Source unavailable, continuing without it")
			return []NormalizedMarket{}, err
		}
		return NormalizeKalshiEvents(events, category), nil
	}
}

// Price resolves a single market. With source "auto", ids that look like
// Kalshi tickers are tried on Kalshi first, then Polymarket is searched by
// market id or condition id.
func (s *Service) Price(ctx context.Context, id, source string) (*NormalizedMarket, error) {
	if source == "" {
		source = "auto"
	}

	if source == string(SourceKalshi) || (source == "auto" && kalshiTicker.MatchString(id)) {
		market, err := s.kalshi.Market(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("market", id).Msg("Kalshi market lookup failed")
		}
		if market != nil {
			m := NormalizeKalshi(kalshi.Event{EventTicker: market.EventTicker}, *market)
			return &m, nil
		}
	}

	if source == string(SourcePolymarket) || source == "auto" {
		event, market, err := s.polymarket.FindMarket(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("market", id).Msg("Polymarket market lookup failed")
		}
		if market != nil {
			m := NormalizePolymarket(*event, *market)
			return &m, nil
		}
	}

	return nil, ErrNotFound
}

// Event returns the raw event document and the venue that served it.
func (s *Service) Event(ctx context.Context, id, source string) (Source, any, error) {
	if source == "" {
		source = "auto"
	}

	if source == string(SourceKalshi) || source == "auto" {
		event, err := s.kalshi.Event(ctx, id)
		if err != nil {
			s.log.Debug().Err(err).Str("event", id).Msg("Kalshi event lookup failed")
		}
		if event != nil {
			return SourceKalshi, event, nil
		}
	}

	if source == string(SourcePolymarket) || source == "auto" {
		event, err := s.polymarket.LiveEvent(ctx, id)
		if err != nil {
			s.log.Debug().Err(err).Str("event", id).Msg("Polymarket event lookup failed")
		}
		if event != nil {
			return SourcePolymarket, event, nil
		}
	}

	return "", nil, ErrNotFound
}

// Arbitrage fetches both venues concurrently, matches them, keeps
// opportunities worth at least minSpread and returns the top limit.
// A failing venue is treated as having no markets.
func (s *Service) Arbitrage(ctx context.Context, minSpread float64, limit int) ArbitrageReport {
	results := fanout.Settle(ctx, s.polymarketTask(scanDepth), s.kalshiTask(scanDepth, ""))
	polymarkets, kalshiMarkets := results[0].Value, results[1].Value

	count, opportunities := FilterAndLimit(FindOpportunities(polymarkets, kalshiMarkets), minSpread, limit)

	s.log.Debug().
		Int("polymarket", len(polymarkets)).
		Int("kalshi", len(kalshiMarkets)).
		Int("opportunities", count).
		Msg("Arbitrage scan complete")

	return ArbitrageReport{
		Count:         count,
		Opportunities: opportunities,
		MarketsAnalyzed: MarketsAnalyzed{
			Polymarket: len(polymarkets),
			Kalshi:     len(kalshiMarkets),
		},
		Timestamp: s.now().UTC().Format(api.TimestampLayout),
	}
}
