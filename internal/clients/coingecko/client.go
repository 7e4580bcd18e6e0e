// Package coingecko reads crypto prices and market data from the public
// CoinGecko API.
package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const requestTimeout = 10 * time.Second

// DefaultIDs are the coins priced when the caller names none.
var DefaultIDs = []string{"bitcoin", "ethereum", "solana", "cardano", "polkadot"}

// Chart is a market_chart answer: [unix ms, value] pairs, oldest first.
type Chart struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// Client for the CoinGecko API
type Client struct {
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new CoinGecko client
func NewClient(baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "coingecko").Logger(),
	}
}

// get maps the public tier's 429 onto a RateLimitedError.
func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	err := c.fetch.GetJSON(ctx, target, dst, fetch.WithTimeout(requestTimeout))
	var upstream *fetch.UpstreamError
	if errors.As(err, &upstream) && upstream.Status == http.StatusTooManyRequests {
		c.log.Warn().Str("path", path).Msg("CoinGecko rate limit hit")
		return &api.RateLimitedError{Message: "CoinGecko rate limit reached"}
	}
	if err != nil {
		return fmt.Errorf("CoinGecko %s: %w", path, err)
	}
	return nil
}

// SimplePrices returns price, market cap, volume and 24h change per coin id.
func (c *Client) SimplePrices(ctx context.Context, ids []string, currency string) (map[string]jsonx.Record, error) {
	joined := strings.Join(ids, ",")
	params := url.Values{}
	params.Set("ids", joined)
	params.Set("vs_currencies", currency)
	params.Set("include_24hr_change", "true")
	params.Set("include_market_cap", "true")
	params.Set("include_24hr_vol", "true")

	return cache.Remember(c.cache, "coingecko:simple:"+joined+":"+currency, cache.TTLShort, func() (map[string]jsonx.Record, error) {
		var body map[string]jsonx.Record
		if err := c.get(ctx, "/simple/price", params, &body); err != nil {
			return nil, err
		}
		return body, nil
	})
}

// Markets returns the top coins by market cap.
func (c *Client) Markets(ctx context.Context, currency string, limit int) ([]jsonx.Record, error) {
	params := url.Values{}
	params.Set("vs_currency", currency)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("page", "1")
	params.Set("sparkline", "false")
	params.Set("price_change_percentage", "1h,24h,7d")

	key := fmt.Sprintf("coingecko:markets:%s:%d", currency, limit)
	return cache.Remember(c.cache, key, cache.TTLShort, func() ([]jsonx.Record, error) {
		var body []jsonx.Record
		if err := c.get(ctx, "/coins/markets", params, &body); err != nil {
			return nil, err
		}
		return body, nil
	})
}

// MarketChart returns the price history of one coin over days days.
func (c *Client) MarketChart(ctx context.Context, id, currency string, days int) (*Chart, error) {
	params := url.Values{}
	params.Set("vs_currency", currency)
	params.Set("days", strconv.Itoa(days))

	key := fmt.Sprintf("coingecko:chart:%s:%s:%d", id, currency, days)
	return cache.Remember(c.cache, key, cache.TTLMedium, func() (*Chart, error) {
		var chart Chart
		if err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", params, &chart); err != nil {
			return nil, err
		}
		return &chart, nil
	})
}

// Ping calls the API heartbeat.
func (c *Client) Ping(ctx context.Context) error {
	var body jsonx.Record
	return c.get(ctx, "/ping", nil, &body)
}
