package forex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
)

const usdTable = `{"date":"2026-10-17","usd":{"usd":1,"eur":0.92,"gbp":0.79,"jpy":151.2}}`

func newTestClient(t *testing.T, c *cache.Cache, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewClient(srv.URL+"/latest", srv.URL+"/dated/%s", fetch.NewClient(srv.Client(), log), c, log)
}

func TestLatest(t *testing.T) {
	client := newTestClient(t, cache.New(10), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/currencies/usd.json", r.URL.Path)
		_, _ = w.Write([]byte(usdTable))
	})

	table, err := client.Latest(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "usd", table.Base)
	assert.Equal(t, "2026-10-17", table.Date)
	assert.Equal(t, 0.92, table.Rates["eur"])
	assert.False(t, table.Stale)
}

func TestLatest_StaleFallback(t *testing.T) {
	var fail atomic.Bool
	c := cache.New(10)
	client := newTestClient(t, c, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(usdTable))
	})

	_, err := client.Latest(context.Background(), "usd")
	require.NoError(t, err)

	fail.Store(true)
	c.Clear()

	table, err := client.Latest(context.Background(), "usd")
	require.NoError(t, err)
	assert.True(t, table.Stale)
	assert.Equal(t, 151.2, table.Rates["jpy"])

	_, err = client.Latest(context.Background(), "eur")
	var upstream *fetch.UpstreamError
	assert.ErrorAs(t, err, &upstream)
}

func TestHistorical(t *testing.T) {
	client := newTestClient(t, cache.New(10), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dated/2025-01-02/currencies/usd.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"date":"2025-01-02","usd":{"eur":0.96}}`))
	})

	table, err := client.Historical(context.Background(), "usd", "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02", table.Date)

	_, err = client.Historical(context.Background(), "usd", "yesterday")
	var validation *api.ValidationError
	assert.ErrorAs(t, err, &validation)
}
