package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewClient(srv.URL, fetch.NewClient(srv.Client(), log), cache.New(100), log)
}

func TestSimplePrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "true", r.URL.Query().Get("include_24hr_change"))
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":68000,"usd_24h_change":1.2},"ethereum":{"usd":2500}}`))
	})

	prices, err := client.SimplePrices(context.Background(), []string{"bitcoin", "ethereum"}, "usd")
	require.NoError(t, err)
	assert.Equal(t, 68000.0, prices["bitcoin"].Float("usd"))
	assert.False(t, prices["ethereum"].Has("usd_24h_change"))
}

func TestMarkets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		assert.Equal(t, "1h,24h,7d", r.URL.Query().Get("price_change_percentage"))
		_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","market_cap_rank":1}]`))
	})

	markets, err := client.Markets(context.Background(), "usd", 10)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "btc", markets[0].String("symbol"))
}

func TestMarketChart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/solana/market_chart", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`{"prices":[[1000,150.5],[2000,152]],"market_caps":[[1000,7e10]],"total_volumes":[]}`))
	})

	chart, err := client.MarketChart(context.Background(), "solana", "usd", 7)
	require.NoError(t, err)
	require.Len(t, chart.Prices, 2)
	assert.Equal(t, 152.0, chart.Prices[1][1])
}

func TestRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := client.Ping(context.Background())
	var limited *api.RateLimitedError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, "CoinGecko rate limit reached", limited.Message)
}
