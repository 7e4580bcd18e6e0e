package kalshi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewClient(srv.URL, fetch.NewClient(nil, log), cache.New(100), log)
}

func TestEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{"events":[{"event_ticker":"BTC-DEC","title":"Bitcoin price","category":"Crypto",
			"markets":[{"ticker":"BTC-DEC-100K","title":"Above 100k","yes_ask":45,"no_ask":"50","volume":1000,"open_interest":250,"status":"active"}]}]}`))
	})

	events, err := client.Events(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, events, 1)

	m := events[0].Markets[0]
	assert.Equal(t, "BTC-DEC-100K", m.Ticker)
	assert.Equal(t, 45.0, float64(m.YesAsk))
	assert.Equal(t, 50.0, float64(m.NoAsk))
	assert.Equal(t, "active", m.Status)
}

func TestEvents_MissingListIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	events, err := client.Events(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestMarket(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/markets/KNOWN" {
			_, _ = w.Write([]byte(`{"market":{"ticker":"KNOWN","event_ticker":"EV","yes_ask":30,"no_ask":72,"status":"active"}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	m, err := client.Market(context.Background(), "KNOWN")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "EV", m.EventTicker)

	m, err = client.Market(context.Background(), "UNKNOWN")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestEvent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/events/EV" {
			_, _ = w.Write([]byte(`{"event":{"event_ticker":"EV","title":"T"}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	ev, err := client.Event(context.Background(), "EV")
	require.NoError(t, err)
	assert.Equal(t, "EV", ev.(map[string]any)["event_ticker"])

	ev, err = client.Event(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, ev)
}
