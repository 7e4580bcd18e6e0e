// Package kalshi reads events and markets from the Kalshi public API.
package kalshi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const requestTimeout = 10 * time.Second

// Event groups related Kalshi markets.
type Event struct {
	EventTicker       string   `json:"event_ticker"`
	Title             string   `json:"title"`
	Category          string   `json:"category"`
	MutuallyExclusive bool     `json:"mutually_exclusive"`
	Markets           []Market `json:"markets"`
}

// Market is one Kalshi contract. Prices are in cents.
type Market struct {
	Ticker       string      `json:"ticker"`
	EventTicker  string      `json:"event_ticker"`
	Title        string      `json:"title"`
	Subtitle     string      `json:"subtitle"`
	YesBid       jsonx.Float `json:"yes_bid"`
	YesAsk       jsonx.Float `json:"yes_ask"`
	NoBid        jsonx.Float `json:"no_bid"`
	NoAsk        jsonx.Float `json:"no_ask"`
	LastPrice    jsonx.Float `json:"last_price"`
	Volume       jsonx.Float `json:"volume"`
	OpenInterest jsonx.Float `json:"open_interest"`
	Status       string      `json:"status"`
}

// Client for the Kalshi API
type Client struct {
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new Kalshi client
func NewClient(baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "kalshi").Logger(),
	}
}

// Events returns up to limit open events with their markets.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	key := fmt.Sprintf("kalshi:events:%d", limit)
	return cache.Remember(c.cache, key, cache.TTLShort, func() ([]Event, error) {
		var resp struct {
			Events []Event `json:"events"`
		}
		u := fmt.Sprintf("%s/events?limit=%d&status=open", c.baseURL, limit)
		if err := c.fetch.GetJSON(ctx, u, &resp, fetch.WithTimeout(requestTimeout)); err != nil {
			return nil, fmt.Errorf("kalshi events: %w", err)
		}
		if resp.Events == nil {
			resp.Events = []Event{}
		}
		c.log.Debug().Int("events", len(resp.Events)).Msg("Fetched events")
		return resp.Events, nil
	})
}

// Market returns a single market, or nil when the ticker is unknown.
func (c *Client) Market(ctx context.Context, ticker string) (*Market, error) {
	key := "kalshi:market:" + ticker
	if v, ok := c.cache.Get(key); ok {
		if m, ok := v.(*Market); ok {
			return m, nil
		}
	}

	resp, err := c.fetch.Get(ctx, c.baseURL+"/markets/"+url.PathEscape(ticker), fetch.WithTimeout(requestTimeout))
	if err != nil {
		return nil, fmt.Errorf("kalshi market: %w", err)
	}
	if !resp.OK() {
		return nil, nil
	}

	var body struct {
		Market *Market `json:"market"`
	}
	if err := resp.JSON(&body); err != nil {
		return nil, err
	}
	if body.Market != nil {
		c.cache.Set(key, body.Market, cache.TTLShort)
	}
	return body.Market, nil
}

// Event returns the raw event document, or nil when the id is unknown.
func (c *Client) Event(ctx context.Context, id string) (any, error) {
	resp, err := c.fetch.Get(ctx, c.baseURL+"/events/"+url.PathEscape(id), fetch.WithTimeout(requestTimeout))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, nil
	}
	var body struct {
		Event any `json:"event"`
	}
	if err := resp.JSON(&body); err != nil {
		return nil, err
	}
	return body.Event, nil
}
