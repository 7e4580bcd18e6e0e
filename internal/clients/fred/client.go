// Package fred reads economic time series from the St. Louis Fed FRED API.
package fred

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const (
	// EnvKey is the environment variable holding the API key.
	EnvKey = "FRED_API_KEY"

	// SetupHint tells operators where to obtain a key.
	SetupHint = "Get free API key at https://fred.stlouisfed.org/docs/api/api_key.html"
)

const requestTimeout = 10 * time.Second

// Observation is one dated value. Value is nil where FRED reports ".".
type Observation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// SeriesInfo is the metadata FRED keeps for a series.
type SeriesInfo struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Frequency          string  `json:"frequency_short"`
	Units              string  `json:"units_short"`
	SeasonalAdjustment string  `json:"seasonal_adjustment_short"`
	LastUpdated        string  `json:"last_updated"`
	Popularity         float64 `json:"popularity"`
}

type rawObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

func (o rawObservation) parse() Observation {
	obs := Observation{Date: o.Date}
	if o.Value == "." || o.Value == "" {
		return obs
	}
	if v, err := strconv.ParseFloat(o.Value, 64); err == nil {
		obs.Value = &v
	}
	return obs
}

// Client for the FRED API
type Client struct {
	apiKey  string
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new FRED client. An empty apiKey leaves the client
// unconfigured and every call returns a NotConfiguredError.
func NewClient(apiKey, baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "fred").Logger(),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	if !c.Configured() {
		return api.NotConfigured(EnvKey, SetupHint)
	}
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	if err := c.fetch.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), dst, fetch.WithTimeout(requestTimeout)); err != nil {
		return fmt.Errorf("FRED %s: %w", path, err)
	}
	return nil
}

// ObservationQuery selects observations of one series.
type ObservationQuery struct {
	SeriesID string
	Limit    int
	Start    string // YYYY-MM-DD, optional
	End      string // YYYY-MM-DD, optional
}

// Observations returns observations newest first.
func (c *Client) Observations(ctx context.Context, q ObservationQuery) ([]Observation, error) {
	params := url.Values{}
	params.Set("series_id", q.SeriesID)
	params.Set("sort_order", "desc")
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Start != "" {
		params.Set("observation_start", q.Start)
	}
	if q.End != "" {
		params.Set("observation_end", q.End)
	}

	key := fmt.Sprintf("fred:%s:%d:%s:%s", q.SeriesID, q.Limit, q.Start, q.End)
	return cache.Remember(c.cache, key, cache.TTLMedium, func() ([]Observation, error) {
		var body struct {
			Observations []rawObservation `json:"observations"`
		}
		if err := c.get(ctx, "/series/observations", params, &body); err != nil {
			return nil, err
		}
		out := make([]Observation, len(body.Observations))
		for i, o := range body.Observations {
			out[i] = o.parse()
		}
		return out, nil
	})
}

// Info returns series metadata, or nil when FRED does not know the id.
func (c *Client) Info(ctx context.Context, seriesID string) (*SeriesInfo, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)

	return cache.Remember(c.cache, "fred:info:"+seriesID, cache.TTLLong, func() (*SeriesInfo, error) {
		var body struct {
			Series []SeriesInfo `json:"seriess"`
		}
		if err := c.get(ctx, "/series", params, &body); err != nil {
			return nil, err
		}
		if len(body.Series) == 0 {
			return nil, nil
		}
		return &body.Series[0], nil
	})
}

// Search runs a full text search over series titles.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SeriesInfo, error) {
	params := url.Values{}
	params.Set("search_text", query)
	params.Set("limit", strconv.Itoa(limit))

	var body struct {
		Series []SeriesInfo `json:"seriess"`
	}
	if err := c.get(ctx, "/series/search", params, &body); err != nil {
		return nil, err
	}
	return body.Series, nil
}

// Ping fetches one GDP observation.
func (c *Client) Ping(ctx context.Context) error {
	var body struct {
		Observations []jsonx.Record `json:"observations"`
	}
	params := url.Values{}
	params.Set("series_id", "GDP")
	params.Set("limit", "1")
	return c.get(ctx, "/series/observations", params, &body)
}
