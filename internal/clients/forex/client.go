// Package forex provides currency exchange rate fetching with a stale
// fallback, backed by the free fawazahmed0 currency API.
package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
)

const requestTimeout = 10 * time.Second

// RateTable holds the rates of one base currency against every other
// currency the API knows. Codes are lower case.
type RateTable struct {
	Base  string
	Date  string
	Rates map[string]float64
	Stale bool // served from the last good answer after an upstream failure
}

// Client for the currency API
type Client struct {
	baseURL  string
	datedURL string // printf pattern taking a YYYY-MM-DD date
	fetch    *fetch.Client
	cache    *cache.Cache
	log      zerolog.Logger

	mu       sync.RWMutex
	lastGood map[string]*RateTable
}

// NewClient creates a new currency API client
func NewClient(baseURL, datedURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		datedURL: datedURL,
		fetch:    f,
		cache:    c,
		log:      log.With().Str("client", "forex").Logger(),
		lastGood: make(map[string]*RateTable),
	}
}

// Latest returns today's rates for base.
// If the API fails, the last good table for base is returned instead,
// marked Stale.
func (c *Client) Latest(ctx context.Context, base string) (*RateTable, error) {
	base = strings.ToLower(base)

	return cache.Remember(c.cache, "forex:latest:"+base, cache.TTLMedium, func() (*RateTable, error) {
		table, err := c.fetchTable(ctx, c.baseURL, base)
		if err != nil {
			if stale, ok := c.stale(base); ok {
				c.log.Warn().
					Err(err).
					Str("base", base).
					Str("date", stale.Date).
					Msg("API failed, using stale rates")
				return stale, nil
			}
			return nil, err
		}

		c.mu.Lock()
		c.lastGood[base] = table
		c.mu.Unlock()

		c.log.Debug().Str("base", base).Int("currencies", len(table.Rates)).Msg("Fetched rates")
		return table, nil
	})
}

// Historical returns the rates for base as published on date (YYYY-MM-DD).
func (c *Client) Historical(ctx context.Context, base, date string) (*RateTable, error) {
	base = strings.ToLower(base)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, api.Validation("Date parameter required (format: YYYY-MM-DD)")
	}

	return cache.Remember(c.cache, "forex:historical:"+base+":"+date, cache.TTLLong, func() (*RateTable, error) {
		return c.fetchTable(ctx, fmt.Sprintf(c.datedURL, date), base)
	})
}

// Ping fetches the USD table without touching the cache.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fetchTable(ctx, c.baseURL, "usd")
	return err
}

// fetchTable decodes {"date": "...", "<base>": {"eur": 0.9, ...}}.
func (c *Client) fetchTable(ctx context.Context, root, base string) (*RateTable, error) {
	var body map[string]json.RawMessage
	if err := c.fetch.GetJSON(ctx, fmt.Sprintf("%s/currencies/%s.json", root, base), &body, fetch.WithTimeout(requestTimeout)); err != nil {
		return nil, fmt.Errorf("currency API %s: %w", base, err)
	}

	table := &RateTable{Base: base}
	if raw, ok := body["date"]; ok {
		_ = json.Unmarshal(raw, &table.Date)
	}
	raw, ok := body[base]
	if !ok {
		return nil, api.NotFound("Unknown currency "+strings.ToUpper(base), nil)
	}
	if err := json.Unmarshal(raw, &table.Rates); err != nil {
		return nil, fmt.Errorf("failed to parse rates for %s: %w", base, err)
	}
	return table, nil
}

// stale returns a copy of the last good table for base.
func (c *Client) stale(base string) (*RateTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	table, ok := c.lastGood[base]
	if !ok {
		return nil, false
	}
	copied := *table
	copied.Stale = true
	return &copied, true
}
