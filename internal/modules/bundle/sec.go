package bundle

import (
	"context"
	"strings"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fanout"
	"github.com/aristath/oracles/internal/modules/oracles"
)

// SECSnapshot combines the SEC oracle's views of one company.
type SECSnapshot struct {
	Ticker              string   `json:"ticker"`
	Timestamp           string   `json:"timestamp"`
	Company             any      `json:"company"`
	Financials          any      `json:"financials"`
	RecentInsiderTrades any      `json:"recentInsiderTrades"`
	MaterialEvents      any      `json:"materialEvents"`
	Bundle              string   `json:"bundle"`
	EndpointsUsed       []string `json:"endpointsUsed"`
}

// SECSnapshot reads company, financials, insiders and events concurrently.
func (s *Service) SECSnapshot(ctx context.Context, ticker string) (*SECSnapshot, error) {
	ticker = strings.ToUpper(ticker)

	return cache.Remember(s.cache, "bundle:sec:"+ticker, cache.TTLMedium, func() (*SECSnapshot, error) {
		names := []string{"company", "financials", "insiders", "events"}
		results := fanout.Settle[any](ctx,
			func(ctx context.Context) (any, error) { return s.filings.Company(ctx, ticker) },
			func(ctx context.Context) (any, error) {
				return s.filings.Financials(ctx, ticker, oracles.DefaultMetrics, oracles.DefaultPeriods)
			},
			func(ctx context.Context) (any, error) { return s.filings.Insiders(ctx, ticker, oracles.DefaultInsiderDays) },
			func(ctx context.Context) (any, error) { return s.filings.Events(ctx, ticker, oracles.DefaultEventDays) },
		)

		sections := make([]any, len(results))
		for i, res := range results {
			if !s.degraded(names[i], res.Err) {
				sections[i] = res.Value
			}
		}

		return &SECSnapshot{
			Ticker:              ticker,
			Timestamp:           s.now().UTC().Format(api.TimestampLayout),
			Company:             sections[0],
			Financials:          sections[1],
			RecentInsiderTrades: sections[2],
			MaterialEvents:      sections[3],
			Bundle:              "sec_snapshot",
			EndpointsUsed:       []string{"sec/company", "sec/financials", "sec/insiders", "sec/events"},
		}, nil
	})
}
