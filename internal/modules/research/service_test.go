package research

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/jsonx"
)

type fakeSource struct {
	configured bool
	recs       []finnhub.Recommendation
	quoteErr   error
	ranges     []finnhub.DateRange
	earnings   []jsonx.Record
	news       []finnhub.NewsItem
}

func (f *fakeSource) Configured() bool { return f.configured }

func (f *fakeSource) Quote(context.Context, string) (*finnhub.Quote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return &finnhub.Quote{Current: 200, High: 201}, nil
}

func (f *fakeSource) EarningsCalendar(_ context.Context, r finnhub.DateRange, _ string) ([]jsonx.Record, error) {
	f.ranges = append(f.ranges, r)
	return f.earnings, nil
}

func (f *fakeSource) Dividends(_ context.Context, _ string, r finnhub.DateRange) ([]jsonx.Record, error) {
	f.ranges = append(f.ranges, r)
	return []jsonx.Record{{"exDate": "2026-08-11", "amount": 0.26, "currency": "USD"}}, nil
}

func (f *fakeSource) IPOCalendar(_ context.Context, r finnhub.DateRange) ([]jsonx.Record, error) {
	f.ranges = append(f.ranges, r)
	return []jsonx.Record{{"symbol": "NEWCO", "price": "18-20", "numberOfShares": 1e7}}, nil
}

func (f *fakeSource) EconomicCalendar(_ context.Context, r finnhub.DateRange) ([]jsonx.Record, error) {
	f.ranges = append(f.ranges, r)
	return []jsonx.Record{{"country": "US", "event": "CPI", "prev": 3.1}}, nil
}

func (f *fakeSource) Recommendations(context.Context, string) ([]finnhub.Recommendation, error) {
	return f.recs, nil
}

func (f *fakeSource) PriceTarget(context.Context, string) (jsonx.Record, error) {
	return jsonx.Record{"targetHigh": 300.0, "targetLow": 150.0, "targetMean": 250.0, "numberOfAnalysts": 40.0}, nil
}

func (f *fakeSource) MarketNews(context.Context, string) ([]finnhub.NewsItem, error) {
	return f.news, nil
}

func (f *fakeSource) CompanyNews(_ context.Context, _ string, r finnhub.DateRange) ([]finnhub.NewsItem, error) {
	f.ranges = append(f.ranges, r)
	return f.news, nil
}

func newTestService(src *fakeSource) *Service {
	svc := NewService(src, zerolog.New(nil).Level(zerolog.Disabled))
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestNotConfigured(t *testing.T) {
	svc := newTestService(&fakeSource{})

	_, err := svc.Ratings(context.Background(), "AAPL")
	var notConfigured *api.NotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
	assert.Equal(t, finnhub.EnvKey, notConfigured.Key)
}

func TestEarnings_DefaultWindowAndCap(t *testing.T) {
	rows := make([]jsonx.Record, 150)
	for i := range rows {
		rows[i] = jsonx.Record{"symbol": "AAPL", "epsEstimate": 1.5}
	}
	src := &fakeSource{configured: true, earnings: rows}

	cal, err := newTestService(src).Earnings(context.Background(), "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "2026-10-18", cal.From)
	assert.Equal(t, "2026-10-25", cal.To)
	assert.Equal(t, 150, cal.Count)
	assert.Len(t, cal.Events, maxCalendarRows)
	assert.Equal(t, 1.5, cal.Events[0].EPSEstimate)
}

func TestEarnings_ExplicitRange(t *testing.T) {
	src := &fakeSource{configured: true}
	svc := newTestService(src)

	cal, err := svc.Earnings(context.Background(), "2026-01-01", "2026-01-31", "aapl")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", cal.From)
	assert.Equal(t, "2026-01-31", cal.To)
	assert.Equal(t, 0, cal.Count)
	assert.NotNil(t, cal.Events)

	_, err = svc.Earnings(context.Background(), "01/01/2026", "", "")
	var validation *api.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestDividends(t *testing.T) {
	src := &fakeSource{configured: true}
	svc := newTestService(src)

	_, err := svc.Dividends(context.Background(), "")
	var validation *api.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Symbol parameter required", validation.Message)

	history, err := svc.Dividends(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", history.Symbol)
	assert.Equal(t, 1, history.Count)
	assert.Equal(t, "2026-08-11", history.Dividends[0].ExDate)

	require.Len(t, src.ranges, 1)
	assert.Equal(t, "2025-10-18", src.ranges[0].From.Format(finnhub.DateLayout))
	assert.Equal(t, "2027-01-16", src.ranges[0].To.Format(finnhub.DateLayout))
}

func TestIPOsAndEconomic(t *testing.T) {
	src := &fakeSource{configured: true}
	svc := newTestService(src)

	ipos, err := svc.IPOs(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "2026-11-17", ipos.To)
	assert.Equal(t, "18-20", ipos.Events[0].PriceRange)

	events, err := svc.Economic(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, 3.1, events.Events[0].Previous)
}

func TestRatings(t *testing.T) {
	tests := []struct {
		name           string
		recs           []finnhub.Recommendation
		consensus      string
		recommendation string
	}{
		{
			name:           "bullish",
			recs:           []finnhub.Recommendation{{Period: "2026-10-01", StrongBuy: 10, Buy: 20, Hold: 10}},
			consensus:      "4.00",
			recommendation: "BUY",
		},
		{
			name:           "bearish",
			recs:           []finnhub.Recommendation{{Period: "2026-10-01", Hold: 1, Sell: 2, StrongSell: 1}},
			consensus:      "2.00",
			recommendation: "SELL",
		},
		{
			name:           "balanced",
			recs:           []finnhub.Recommendation{{Period: "2026-10-01", Buy: 1, Sell: 1}},
			consensus:      "3.00",
			recommendation: "HOLD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratings, err := newTestService(&fakeSource{configured: true, recs: tt.recs}).Ratings(context.Background(), "aapl")
			require.NoError(t, err)
			require.NotNil(t, ratings.Consensus)
			assert.Equal(t, tt.consensus, *ratings.Consensus)
			assert.Equal(t, tt.recommendation, ratings.Recommendation)
			assert.Equal(t, "AAPL", ratings.Symbol)
		})
	}
}

func TestRatings_Empty(t *testing.T) {
	svc := newTestService(&fakeSource{configured: true})

	_, err := svc.Ratings(context.Background(), "ZZZZ")
	var notFound *api.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "No analyst ratings found", notFound.Message)

	ratings, err := newTestService(&fakeSource{configured: true, recs: []finnhub.Recommendation{{Period: "2026-10-01"}}}).Ratings(context.Background(), "ZZZZ")
	require.NoError(t, err)
	assert.Nil(t, ratings.Consensus)
	assert.Equal(t, "HOLD", ratings.Recommendation)
}

func TestTargets(t *testing.T) {
	targets, err := newTestService(&fakeSource{configured: true}).Targets(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, 200.0, targets.CurrentPrice)
	require.NotNil(t, targets.UpsidePercent)
	assert.Equal(t, "25.00", *targets.UpsidePercent)

	targets, err = newTestService(&fakeSource{configured: true, quoteErr: api.NotFound("No data found for symbol AAPL", nil)}).Targets(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Zero(t, targets.CurrentPrice)
	assert.Nil(t, targets.UpsidePercent)
	assert.Equal(t, 250.0, targets.TargetMean)
}

func TestNews(t *testing.T) {
	items := []finnhub.NewsItem{
		{Headline: "One", Summary: strings.Repeat("x", 300), Related: "AAPL", Datetime: 1792324800},
		{Headline: "Two"},
		{Headline: "Three"},
	}
	src := &fakeSource{configured: true, news: items}
	svc := newTestService(src)

	feed, err := svc.MarketNews(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, "general", feed.Category)
	assert.Equal(t, 2, feed.Count)
	assert.Len(t, feed.News[0].Summary, maxSummary)
	assert.Equal(t, "2026-10-18T12:00:00.000Z", feed.News[0].Datetime)
	assert.Equal(t, "AAPL", feed.News[0].Related)

	feed, err = svc.CompanyNews(context.Background(), "aapl", "", "", 20)
	require.NoError(t, err)
	assert.Equal(t, 3, feed.Count)
	assert.Equal(t, "2026-10-11", feed.From)
	assert.Equal(t, "2026-10-18", feed.To)
	assert.Empty(t, feed.News[0].Related)
}
