// Package oracle proxies the gateway's internal oracle services: the SEC
// filings oracle, the perp DEX aggregator and the sanctions screener. Their
// JSON answers are passed through untouched.
package oracle

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/fetch"
)

// APIKeyHeader authenticates the gateway to the perp DEX backend.
const APIKeyHeader = "X-API-Key"

// Client for one internal oracle backend
type Client struct {
	name    string
	baseURL string
	opts    []fetch.Option
	fetch   *fetch.Client
	log     zerolog.Logger
}

// NewClient creates a proxy client for the backend at baseURL
func NewClient(name, baseURL string, f *fetch.Client, log zerolog.Logger, opts ...fetch.Option) *Client {
	return &Client{
		name:    name,
		baseURL: baseURL,
		opts:    opts,
		fetch:   f,
		log:     log.With().Str("client", name).Logger(),
	}
}

// NewSEC creates the SEC oracle client
func NewSEC(baseURL string, f *fetch.Client, log zerolog.Logger) *Client {
	return NewClient("sec_oracle", baseURL, f, log)
}

// NewPerpDex creates the perp DEX client, authenticated with apiKey
func NewPerpDex(baseURL, apiKey string, f *fetch.Client, log zerolog.Logger) *Client {
	return NewClient("perp_dex", baseURL, f, log, fetch.WithHeader(APIKeyHeader, apiKey))
}

// NewSanctions creates the sanctions screener client
func NewSanctions(baseURL string, f *fetch.Client, log zerolog.Logger) *Client {
	return NewClient("sanctions", baseURL, f, log)
}

// Name identifies the backend in logs and health reports.
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path and returns the decoded JSON document. A non-2xx answer
// is an *fetch.UpstreamError carrying the backend's text.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (any, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var out any
	if err := c.fetch.GetJSON(ctx, target, &out, c.opts...); err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("Backend call failed")
		return nil, fmt.Errorf("%s %s: %w", c.name, path, err)
	}
	return out, nil
}

// Post sends payload as JSON to path and returns the decoded answer.
func (c *Client) Post(ctx context.Context, path string, payload any) (any, error) {
	var out any
	if err := c.fetch.PostJSON(ctx, c.baseURL+path, payload, &out, c.opts...); err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("Backend call failed")
		return nil, fmt.Errorf("%s %s: %w", c.name, path, err)
	}
	return out, nil
}

// Ping reports whether the backend answers its /health route.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.fetch.Get(ctx, c.baseURL+"/health", c.opts...)
	if err != nil {
		return err
	}
	return resp.Err()
}
