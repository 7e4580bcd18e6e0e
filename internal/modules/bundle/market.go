package bundle

import (
	"context"
	"strings"
	"time"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/fanout"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const (
	maxEstimates   = 3
	maxNews        = 5
	maxNewsSummary = 200
	newsWindow     = 7 * 24 * time.Hour
)

// SnapshotQuote is the quote section of a market snapshot.
type SnapshotQuote struct {
	Price         float64      `json:"price"`
	Change        *jsonx.Float `json:"change"`
	ChangePercent *jsonx.Float `json:"changePercent"`
	High          float64      `json:"high"`
	Low           float64      `json:"low"`
	Open          float64      `json:"open"`
	PreviousClose float64      `json:"previousClose"`
}

// SnapshotNews is one headline of a market snapshot. Datetime is Unix
// seconds as published.
type SnapshotNews struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// MarketSnapshot combines a quote, analyst estimates and the week's news.
type MarketSnapshot struct {
	Symbol           string         `json:"symbol"`
	Timestamp        string         `json:"timestamp"`
	Quote            *SnapshotQuote `json:"quote"`
	AnalystEstimates []jsonx.Record `json:"analystEstimates"`
	RecentNews       []SnapshotNews `json:"recentNews"`
	Bundle           string         `json:"bundle"`
	EndpointsUsed    []string       `json:"endpointsUsed"`
}

// MarketSnapshot fetches the three sections concurrently.
func (s *Service) MarketSnapshot(ctx context.Context, symbol string) (*MarketSnapshot, error) {
	symbol = strings.ToUpper(symbol)

	return cache.Remember(s.cache, "bundle:market:"+symbol, cache.TTLShort, func() (*MarketSnapshot, error) {
		now := s.now().UTC()
		window := finnhub.DateRange{From: now.Add(-newsWindow), To: now}

		results := fanout.Settle[any](ctx,
			func(ctx context.Context) (any, error) { return s.equities.Quote(ctx, symbol) },
			func(ctx context.Context) (any, error) { return s.estimates.AnalystEstimates(ctx, symbol) },
			func(ctx context.Context) (any, error) { return s.equities.CompanyNews(ctx, symbol, window) },
		)

		snap := &MarketSnapshot{
			Symbol:        symbol,
			Timestamp:     now.Format(api.TimestampLayout),
			Bundle:        "market_snapshot",
			EndpointsUsed: []string{"stocks/quote", "analyst/ratings", "news/company"},
		}

		if q, ok := results[0].Value.(*finnhub.Quote); !s.degraded("quote", results[0].Err) && ok && q != nil {
			snap.Quote = &SnapshotQuote{
				Price:         q.Current,
				Change:        q.Change,
				ChangePercent: q.ChangePercent,
				High:          q.High,
				Low:           q.Low,
				Open:          q.Open,
				PreviousClose: q.PreviousClose,
			}
		}

		if estimates, ok := results[1].Value.([]jsonx.Record); !s.degraded("analyst_estimates", results[1].Err) && ok {
			snap.AnalystEstimates = estimates[:min(len(estimates), maxEstimates)]
		}

		if items, ok := results[2].Value.([]finnhub.NewsItem); !s.degraded("company_news", results[2].Err) && ok {
			snap.RecentNews = make([]SnapshotNews, 0, min(len(items), maxNews))
			for _, n := range items[:min(len(items), maxNews)] {
				snap.RecentNews = append(snap.RecentNews, SnapshotNews{
					Headline: n.Headline,
					Source:   n.Source,
					Datetime: n.Datetime,
					Summary:  fetch.Truncate(n.Summary, maxNewsSummary),
					URL:      n.URL,
				})
			}
		}

		return snap, nil
	})
}
