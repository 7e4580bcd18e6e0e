package markets

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/coingecko"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/clients/forex"
	"github.com/aristath/oracles/internal/clients/goldapi"
	"github.com/aristath/oracles/internal/jsonx"
)

type fakeForex struct {
	tables map[string]*forex.RateTable
}

func (f fakeForex) Latest(_ context.Context, base string) (*forex.RateTable, error) {
	if t, ok := f.tables[base]; ok {
		return t, nil
	}
	return nil, errors.New("unknown base")
}

func (f fakeForex) Historical(_ context.Context, base, date string) (*forex.RateTable, error) {
	return &forex.RateTable{Base: base, Rates: map[string]float64{"eur": 0.9}}, nil
}

type fakeCrypto struct {
	chart *coingecko.Chart
}

func (fakeCrypto) SimplePrices(_ context.Context, ids []string, currency string) (map[string]jsonx.Record, error) {
	return map[string]jsonx.Record{
		"ethereum": {"usd": 2500.0, "usd_24h_change": -1.5},
		"bitcoin":  {"usd": 68000.0, "usd_market_cap": 1.3e12},
	}, nil
}

func (fakeCrypto) Markets(_ context.Context, currency string, limit int) ([]jsonx.Record, error) {
	return []jsonx.Record{{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin", "current_price": 68000.0}}, nil
}

func (f fakeCrypto) MarketChart(_ context.Context, id, currency string, days int) (*coingecko.Chart, error) {
	return f.chart, nil
}

type fakeStocks struct {
	configured bool
	failing    map[string]bool
}

func (f fakeStocks) Configured() bool { return f.configured }

func (f fakeStocks) Quote(_ context.Context, symbol string) (*finnhub.Quote, error) {
	if !f.configured {
		return nil, api.NotConfigured(finnhub.EnvKey, finnhub.SetupHint)
	}
	if f.failing[symbol] {
		return nil, errors.New("boom")
	}
	change := jsonx.Float(1.25)
	return &finnhub.Quote{Current: 100, Change: &change, High: 101, Low: 99, Time: 1792324800}, nil
}

func (f fakeStocks) Candles(_ context.Context, symbol, resolution string, days int) (*finnhub.Candles, error) {
	return &finnhub.Candles{
		Status: "ok",
		Time:   []int64{1792238400, 1792324800, 1792411200},
		Open:   []float64{100, 110, 99},
		High:   []float64{101, 111, 100},
		Low:    []float64{99, 109, 98},
		Close:  []float64{100, 110, 99},
		Volume: []float64{1000, 2000, 1500},
	}, nil
}

type fakeMetals struct {
	configured bool
}

func (f fakeMetals) Configured() bool { return f.configured }

func (fakeMetals) Price(_ context.Context, symbol string) (*goldapi.Price, error) {
	if symbol == "XPD" {
		return nil, errors.New("upstream down")
	}
	return &goldapi.Price{Metal: symbol, Price: 2000, PricePerGram: 64.3, Change: 5, ChangePercent: 0.25}, nil
}

type fakeFundamentals struct{}

func (fakeFundamentals) Profile(_ context.Context, symbol string) (jsonx.Record, error) {
	long := make([]byte, 800)
	for i := range long {
		long[i] = 'a'
	}
	return jsonx.Record{"symbol": symbol, "companyName": "Apple Inc.", "description": string(long), "fullTimeEmployees": "164000"}, nil
}

func (fakeFundamentals) Ratios(_ context.Context, symbol string) (jsonx.Record, error) {
	return jsonx.Record{"symbol": symbol, "period": "FY", "fiscalYear": "2026", "priceToEarningsRatio": 31.2}, nil
}

func (fakeFundamentals) KeyMetrics(_ context.Context, symbol string) (jsonx.Record, error) {
	return jsonx.Record{"symbol": symbol, "returnOnEquity": 1.5}, nil
}

func newTestService(stocksConfigured bool) *Service {
	return NewService(Sources{
		Forex: fakeForex{tables: map[string]*forex.RateTable{
			"usd": {Base: "usd", Date: "2026-10-17", Rates: map[string]float64{"usd": 1, "eur": 0.92, "gbp": 0.79, "xau": 0.0004}},
		}},
		Crypto: fakeCrypto{chart: &coingecko.Chart{
			Prices:     [][2]float64{{0, 100}, {86400000, 110}, {172800000, 99}},
			MarketCaps: [][2]float64{{0, 1e9}, {86400000, 1.1e9}},
		}},
		Stocks:       fakeStocks{configured: stocksConfigured, failing: map[string]bool{"VIX": true}},
		Metals:       fakeMetals{configured: true},
		Fundamentals: fakeFundamentals{},
	}, zerolog.New(nil).Level(zerolog.Disabled))
}

func TestRates(t *testing.T) {
	sheet, err := newTestService(true).Rates(context.Background(), "usd")
	require.NoError(t, err)

	assert.Equal(t, "USD", sheet.Base)
	assert.NotContains(t, sheet.Rates, "USD")
	assert.Equal(t, 0.92, sheet.Rates["EUR"])
	assert.Equal(t, map[string]float64{"USD/EUR": 0.92, "USD/GBP": 0.79}, sheet.MajorPairs)
	assert.Equal(t, 4, sheet.TotalCurrencies)
}

func TestConvert(t *testing.T) {
	svc := newTestService(true)

	tests := []struct {
		name    string
		from    string
		to      string
		amount  float64
		want    float64
		wantErr string
	}{
		{name: "usd to eur", from: "USD", to: "EUR", amount: 100, want: 92},
		{name: "same currency", from: "usd", to: "usd", amount: 5, want: 5},
		{name: "unknown pair", from: "usd", to: "zzz", amount: 1, wantErr: "Rate not found for USD/ZZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := svc.Convert(context.Background(), tt.from, tt.to, tt.amount)
			if tt.wantErr != "" {
				var notFound *api.NotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, tt.wantErr, notFound.Message)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, conv.Converted, 1e-9)
			assert.Equal(t, "2026-10-17", conv.Date)
		})
	}
}

func TestHistorical_RequiresDate(t *testing.T) {
	svc := newTestService(true)

	_, err := svc.Historical(context.Background(), "usd", "")
	var validation *api.ValidationError
	require.ErrorAs(t, err, &validation)

	rates, err := svc.Historical(context.Background(), "usd", "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, "USD", rates.Base)
	assert.Equal(t, "2025-01-02", rates.Date)
}

func TestCryptoPrices_KeepsRequestOrder(t *testing.T) {
	prices, err := newTestService(true).CryptoPrices(context.Background(), []string{"bitcoin", "dogecoin", "ethereum"}, "USD")
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "bitcoin", prices[0].ID)
	assert.Equal(t, 1.3e12, prices[0].MarketCap)
	assert.Nil(t, prices[0].Change24h)
	assert.Equal(t, -1.5, prices[1].Change24h)
}

func TestCryptoMarkets(t *testing.T) {
	markets, err := newTestService(true).CryptoMarkets(context.Background(), "usd", 10)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "BTC", markets[0].Symbol)
	assert.Nil(t, markets[0].Change7d)
}

func TestCryptoHistory_Summary(t *testing.T) {
	history, err := newTestService(true).CryptoHistory(context.Background(), "bitcoin", "usd", 2)
	require.NoError(t, err)

	require.Len(t, history.Prices, 3)
	assert.Equal(t, "1970-01-02T00:00:00.000Z", history.Prices[1].Date)
	assert.Len(t, history.MarketCaps, 2)
	require.NotNil(t, history.Summary)
	assert.Equal(t, 110.0, history.Summary.High)
	assert.Equal(t, -1.0, history.Summary.ChangePercent)
	assert.Equal(t, 0.1, history.Summary.MaxDrawdown)
	assert.Greater(t, history.Summary.AnnualizedVolatility, 0.0)
}

func TestSamplesPerYear(t *testing.T) {
	hourly := [][2]float64{{0, 1}, {3600000, 1}, {7200000, 1}}
	assert.InDelta(t, 8760.0, samplesPerYear(hourly), 1e-6)
	assert.Equal(t, 365.0, samplesPerYear(nil))
}

func TestStockQuote(t *testing.T) {
	q, err := newTestService(true).StockQuote(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	require.NotNil(t, q.Change)
	assert.Equal(t, 1.25, *q.Change)
	assert.Nil(t, q.ChangePercent)
	assert.Equal(t, "2026-10-18T12:00:00.000Z", q.Timestamp)
}

func TestStockHistory(t *testing.T) {
	history, err := newTestService(true).StockHistory(context.Background(), "msft", "D", 3)
	require.NoError(t, err)
	require.Len(t, history.Candles, 3)
	assert.Equal(t, "2026-10-18", history.Candles[1].Date)
	require.NotNil(t, history.Summary)
	assert.Equal(t, 3, history.Summary.Points)
}

func TestIndexQuotes(t *testing.T) {
	quotes, err := newTestService(true).IndexQuotes(context.Background())
	require.NoError(t, err)
	assert.Len(t, quotes, len(Indices)-1)
	for _, q := range quotes {
		assert.NotEqual(t, "VIX", q.Symbol)
	}

	_, err = newTestService(false).IndexQuotes(context.Background())
	var notConfigured *api.NotConfiguredError
	assert.ErrorAs(t, err, &notConfigured)
}

func TestMetalPrices_DropsFailedMetal(t *testing.T) {
	quotes, err := newTestService(true).MetalPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, "Gold", quotes[0].Name)
	assert.Equal(t, "Platinum", quotes[2].Name)
}

func TestFundamentals(t *testing.T) {
	svc := newTestService(true)

	profile, err := svc.Profile(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", profile.Name)
	assert.Len(t, profile.Description, 500)
	assert.Equal(t, "164000", profile.Employees)

	ratios, err := svc.Ratios(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "2026", ratios.FiscalYear)
	assert.Equal(t, 31.2, ratios.Values["pe_ratio"])
	assert.Contains(t, ratios.Values, "dividend_yield")
	assert.Nil(t, ratios.Values["dividend_yield"])

	metrics, err := svc.Metrics(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, 1.5, metrics.Values["roe"])
	assert.Len(t, metrics.Values, len(metricFields))
}
