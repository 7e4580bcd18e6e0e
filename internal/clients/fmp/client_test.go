package fmp

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

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewClient(apiKey, srv.URL, fetch.NewClient(srv.Client(), log), cache.New(100), log)
}

func TestProfile(t *testing.T) {
	calls := 0
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/profile", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "key", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(`[{"symbol":"AAPL","companyName":"Apple Inc.","marketCap":3.5e12}]`))
	})

	for i := 0; i < 2; i++ {
		profile, err := client.Profile(context.Background(), "aapl")
		require.NoError(t, err)
		assert.Equal(t, "Apple Inc.", profile.String("companyName"))
	}
	assert.Equal(t, 1, calls)
}

func TestLatest_Empty(t *testing.T) {
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Ratios(context.Background(), "nope")
	var notFound *api.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "No data found for symbol NOPE", notFound.Message)
}

func TestAnalystEstimates(t *testing.T) {
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyst-estimates", r.URL.Path)
		_, _ = w.Write([]byte(`[{"date":"2027-09-27"},{"date":"2026-09-27"}]`))
	})

	estimates, err := client.AnalystEstimates(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Len(t, estimates, 2)
}

func TestNotConfigured(t *testing.T) {
	client := NewClient("", "http://localhost", nil, cache.New(10), zerolog.Nop())

	_, err := client.KeyMetrics(context.Background(), "AAPL")
	var notConfigured *api.NotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
	assert.Equal(t, "FMP_API_KEY not configured", notConfigured.Error())
}
