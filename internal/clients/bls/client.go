// Package bls queries time series from the Bureau of Labor Statistics public
// API. A registration key raises the daily quota but is not required.
package bls

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
)

// DataPoint is one observation of a BLS series.
type DataPoint struct {
	Year       string `json:"year"`
	Period     string `json:"period"`
	PeriodName string `json:"periodName"`
	Value      string `json:"value"`
	Latest     string `json:"latest,omitempty"`
}

// Series is a BLS series with its observations, newest first.
type Series struct {
	ID   string      `json:"seriesID"`
	Data []DataPoint `json:"data"`
}

// Request selects series and a year range.
type Request struct {
	SeriesIDs []string
	StartYear int
	EndYear   int
}

type payload struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
}

// Client for the BLS public API
type Client struct {
	apiKey  string
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewClient creates a new BLS client
func NewClient(apiKey, baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "bls").Logger(),
	}
}

// Series fetches the requested series. Results are cached per series set and
// year range.
func (c *Client) Series(ctx context.Context, req Request) ([]Series, error) {
	ids := append([]string(nil), req.SeriesIDs...)
	sort.Strings(ids)
	key := fmt.Sprintf("bls:%s:%d:%d", strings.Join(ids, ","), req.StartYear, req.EndYear)

	return cache.Remember(c.cache, key, cache.TTLLong, func() ([]Series, error) {
		return c.post(ctx, req)
	})
}

func (c *Client) post(ctx context.Context, req Request) ([]Series, error) {
	body := payload{
		SeriesID:        req.SeriesIDs,
		StartYear:       strconv.Itoa(req.StartYear),
		EndYear:         strconv.Itoa(req.EndYear),
		RegistrationKey: c.apiKey,
	}

	var resp struct {
		Status  string   `json:"status"`
		Message []string `json:"message"`
		Results struct {
			Series []Series `json:"series"`
		} `json:"Results"`
	}
	if err := c.fetch.PostJSON(ctx, c.baseURL+"/timeseries/data/", body, &resp); err != nil {
		return nil, fmt.Errorf("BLS timeseries: %w", err)
	}
	if resp.Status != "" && resp.Status != "REQUEST_SUCCEEDED" {
		c.log.Warn().Str("status", resp.Status).Strs("message", resp.Message).Msg("BLS request not fully successful")
	}
	return resp.Results.Series, nil
}

// Ping requests the unemployment rate for the current year.
func (c *Client) Ping(ctx context.Context, year int) error {
	_, err := c.post(ctx, Request{SeriesIDs: []string{"LNS14000000"}, StartYear: year, EndYear: year})
	return err
}
