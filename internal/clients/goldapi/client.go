// Package goldapi reads spot precious metal prices from GoldAPI.
package goldapi

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const (
	// EnvKey is the environment variable holding the API key.
	EnvKey = "GOLDAPI_API_KEY"

	// SetupHint tells operators where to obtain a key.
	SetupHint = "Get free API key at https://www.goldapi.io/signup"
)

const requestTimeout = 10 * time.Second

// Metal is a tracked precious metal.
type Metal struct {
	Symbol string
	Name   string
}

// Metals lists the metals quoted by the gateway, in display order.
var Metals = []Metal{
	{Symbol: "XAU", Name: "Gold"},
	{Symbol: "XAG", Name: "Silver"},
	{Symbol: "XPT", Name: "Platinum"},
	{Symbol: "XPD", Name: "Palladium"},
}

// Price is a USD spot quote for one metal.
type Price struct {
	Metal         string      `json:"metal"`
	Price         jsonx.Float `json:"price"`
	PricePerGram  jsonx.Float `json:"price_gram_24k"`
	Change        jsonx.Float `json:"ch"`
	ChangePercent jsonx.Float `json:"chp"`
}

// Client for GoldAPI
type Client struct {
	apiKey  string
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new GoldAPI client
func NewClient(apiKey, baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "goldapi").Logger(),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Price returns the USD spot price of symbol (XAU, XAG, XPT or XPD).
func (c *Client) Price(ctx context.Context, symbol string) (*Price, error) {
	if !c.Configured() {
		return nil, api.NotConfigured(EnvKey, SetupHint)
	}

	return cache.Remember(c.cache, "goldapi:"+symbol, cache.TTLShort, func() (*Price, error) {
		var p Price
		url := fmt.Sprintf("%s/%s/USD", c.baseURL, symbol)
		if err := c.fetch.GetJSON(ctx, url, &p, fetch.WithHeader("x-access-token", c.apiKey), fetch.WithTimeout(requestTimeout)); err != nil {
			return nil, fmt.Errorf("GoldAPI %s: %w", symbol, err)
		}
		if p.Metal == "" {
			p.Metal = symbol
		}
		return &p, nil
	})
}
