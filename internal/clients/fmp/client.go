// Package fmp reads company fundamentals from Financial Modeling Prep's
// stable API.
package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const (
	// EnvKey is the environment variable holding the API key.
	EnvKey = "FMP_API_KEY"

	// SetupHint tells operators where to obtain a key.
	SetupHint = "Get free API key at https://site.financialmodelingprep.com/developer/docs"
)

const requestTimeout = 10 * time.Second

// Client for the FMP stable API
type Client struct {
	apiKey  string
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new FMP client
func NewClient(apiKey, baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "fmp").Logger(),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// list fetches an endpoint returning an array of records for symbol.
func (c *Client) list(ctx context.Context, endpoint, symbol string) ([]jsonx.Record, error) {
	if !c.Configured() {
		return nil, api.NotConfigured(EnvKey, SetupHint)
	}
	symbol = strings.ToUpper(symbol)

	return cache.Remember(c.cache, "fmp:"+endpoint+":"+symbol, cache.TTLLong, func() ([]jsonx.Record, error) {
		params := url.Values{}
		params.Set("symbol", symbol)
		params.Set("apikey", c.apiKey)

		var body []jsonx.Record
		if err := c.fetch.GetJSON(ctx, c.baseURL+"/"+endpoint+"?"+params.Encode(), &body, fetch.WithTimeout(requestTimeout)); err != nil {
			return nil, fmt.Errorf("FMP %s: %w", endpoint, err)
		}
		return body, nil
	})
}

// latest returns the first record, or a NotFoundError when there is none.
func (c *Client) latest(ctx context.Context, endpoint, symbol string) (jsonx.Record, error) {
	records, err := c.list(ctx, endpoint, symbol)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, api.NotFound("No data found for symbol "+strings.ToUpper(symbol), nil)
	}
	return records[0], nil
}

// Profile returns the company profile.
func (c *Client) Profile(ctx context.Context, symbol string) (jsonx.Record, error) {
	return c.latest(ctx, "profile", symbol)
}

// Ratios returns the most recent financial ratios.
func (c *Client) Ratios(ctx context.Context, symbol string) (jsonx.Record, error) {
	return c.latest(ctx, "ratios", symbol)
}

// KeyMetrics returns the most recent key metrics.
func (c *Client) KeyMetrics(ctx context.Context, symbol string) (jsonx.Record, error) {
	return c.latest(ctx, "key-metrics", symbol)
}

// AnalystEstimates returns every analyst estimate period, newest first.
func (c *Client) AnalystEstimates(ctx context.Context, symbol string) ([]jsonx.Record, error) {
	return c.list(ctx, "analyst-estimates", symbol)
}
