package bundle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/jsonx"
)

var errDown = errors.New("upstream down")

type fakeEquities struct {
	quoteErr error
	calls    atomic.Int32
	window   finnhub.DateRange
}

func (f *fakeEquities) Quote(_ context.Context, symbol string) (*finnhub.Quote, error) {
	f.calls.Add(1)
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	change := jsonx.Float(2)
	return &finnhub.Quote{Current: 230, Change: &change, High: 231, Low: 228, Open: 229, PreviousClose: 228}, nil
}

func (f *fakeEquities) CompanyNews(_ context.Context, symbol string, r finnhub.DateRange) ([]finnhub.NewsItem, error) {
	f.window = r
	items := make([]finnhub.NewsItem, 8)
	for i := range items {
		items[i] = finnhub.NewsItem{Headline: "headline", Summary: string(make([]byte, 300)), Datetime: 1792324800}
	}
	return items, nil
}

type fakeEstimates struct{ err error }

func (f fakeEstimates) AnalystEstimates(context.Context, string) ([]jsonx.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []jsonx.Record{{"date": "2027"}, {"date": "2028"}, {"date": "2029"}, {"date": "2030"}}, nil
}

type fakeScreener struct {
	nameMatches []any
	addressErr  error
	countries   []string
}

func (f *fakeScreener) ScreenName(_ context.Context, payload any) (any, error) {
	return map[string]any{"matches": f.nameMatches}, nil
}

func (f *fakeScreener) ScreenAddress(_ context.Context, payload any) (any, error) {
	if f.addressErr != nil {
		return nil, f.addressErr
	}
	return map[string]any{"sanctioned": false, "matches": []any{}}, nil
}

func (f *fakeScreener) Country(_ context.Context, code string) (any, error) {
	f.countries = append(f.countries, code)
	return map[string]any{"country": code, "sanctioned": true}, nil
}

type fakeFilings struct {
	eventsErr error
	insiders  string
}

func (fakeFilings) Company(_ context.Context, ticker string) (any, error) {
	return map[string]any{"ticker": ticker}, nil
}

func (fakeFilings) Financials(_ context.Context, ticker, metrics, periods string) (any, error) {
	return map[string]any{"metrics": metrics, "periods": periods}, nil
}

func (f *fakeFilings) Insiders(_ context.Context, ticker, days string) (any, error) {
	f.insiders = days
	return []any{map[string]any{"name": "insider"}}, nil
}

func (f *fakeFilings) Events(context.Context, string, string) (any, error) {
	return nil, f.eventsErr
}

func newTestService(src Sources) *Service {
	svc := NewService(src, cache.New(100), zerolog.New(nil).Level(zerolog.Disabled))
	svc.now = func() time.Time { return time.Unix(1792324800, 0) }
	return svc
}

func TestMarketSnapshot(t *testing.T) {
	equities := &fakeEquities{}
	svc := newTestService(Sources{Equities: equities, Estimates: fakeEstimates{}})

	snap, err := svc.MarketSnapshot(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, "2026-10-18T12:00:00.000Z", snap.Timestamp)
	require.NotNil(t, snap.Quote)
	assert.Equal(t, 230.0, snap.Quote.Price)
	assert.Len(t, snap.AnalystEstimates, 3)
	require.Len(t, snap.RecentNews, 5)
	assert.Len(t, []rune(snap.RecentNews[0].Summary), 200)
	assert.Equal(t, "market_snapshot", snap.Bundle)
	assert.Equal(t, []string{"stocks/quote", "analyst/ratings", "news/company"}, snap.EndpointsUsed)
	assert.Equal(t, "2026-10-11", equities.window.From.Format(finnhub.DateLayout))

	_, err = svc.MarketSnapshot(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int32(1), equities.calls.Load(), "second call is served from cache")
}

func TestMarketSnapshot_FailedSectionsAreNull(t *testing.T) {
	svc := newTestService(Sources{
		Equities:  &fakeEquities{quoteErr: api.NotConfigured(finnhub.EnvKey, finnhub.SetupHint)},
		Estimates: fakeEstimates{err: errDown},
	})

	snap, err := svc.MarketSnapshot(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Nil(t, snap.Quote)
	assert.Nil(t, snap.AnalystEstimates)
	assert.Len(t, snap.RecentNews, 5)
}

func TestSanctionsScreen(t *testing.T) {
	tests := []struct {
		name     string
		req      ScreenRequest
		screener *fakeScreener
		checked  InputsChecked
		anyMatch bool
		validate func(*testing.T, *SanctionsScreen)
	}{
		{
			name:     "name match",
			req:      ScreenRequest{Name: "Acme"},
			screener: &fakeScreener{nameMatches: []any{map[string]any{"name": "ACME LTD"}}},
			checked:  InputsChecked{Name: true},
			anyMatch: true,
			validate: func(t *testing.T, s *SanctionsScreen) {
				assert.Nil(t, s.AddressScreen)
				assert.Nil(t, s.CountryInfo)
			},
		},
		{
			name:     "address unavailable",
			req:      ScreenRequest{Address: "0xabc", Country: "IR"},
			screener: &fakeScreener{addressErr: errDown},
			checked:  InputsChecked{Address: true, Country: true},
			validate: func(t *testing.T, s *SanctionsScreen) {
				assert.Equal(t, api.M{"error": "unavailable"}, s.AddressScreen)
				assert.NotNil(t, s.CountryInfo)
			},
		},
		{
			name:     "no matches",
			req:      ScreenRequest{Name: "Nobody", Address: "0xdef"},
			screener: &fakeScreener{},
			checked:  InputsChecked{Name: true, Address: true},
		},
		{
			name:     "nothing to screen",
			screener: &fakeScreener{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(Sources{Sanctions: tt.screener})

			out := svc.SanctionsScreen(context.Background(), tt.req)

			assert.Equal(t, "sanctions_screen", out.Bundle)
			assert.Equal(t, tt.checked, out.RiskSummary.InputsChecked)
			assert.Equal(t, tt.anyMatch, out.RiskSummary.AnyMatch)
			if tt.validate != nil {
				tt.validate(t, out)
			}
		})
	}
}

func TestSECSnapshot(t *testing.T) {
	filings := &fakeFilings{eventsErr: errDown}
	svc := newTestService(Sources{Filings: filings})

	snap, err := svc.SECSnapshot(context.Background(), "nvda")
	require.NoError(t, err)

	assert.Equal(t, "NVDA", snap.Ticker)
	assert.Equal(t, map[string]any{"ticker": "NVDA"}, snap.Company)
	assert.Equal(t, map[string]any{"metrics": "Revenues,NetIncomeLoss", "periods": "4"}, snap.Financials)
	assert.NotNil(t, snap.RecentInsiderTrades)
	assert.Nil(t, snap.MaterialEvents)
	assert.Equal(t, "90", filings.insiders)
	assert.Equal(t, "sec_snapshot", snap.Bundle)
	assert.Len(t, snap.EndpointsUsed, 4)
}
