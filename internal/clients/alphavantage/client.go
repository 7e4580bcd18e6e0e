// Package alphavantage reads technical indicator series from Alpha Vantage.
//
// The free tier allows 25 requests a day. The client counts its own calls
// and refuses locally once the quota is spent, so callers can fall back
// without burning a round trip.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/jsonx"
)

const (
	// EnvKey is the environment variable holding the API key.
	EnvKey = "ALPHA_VANTAGE_API_KEY"

	// SetupHint tells operators where to obtain a key.
	SetupHint = "Get free API key at https://www.alphavantage.co/support/#api-key"

	// DailyLimit is the free tier request quota.
	DailyLimit = 25
)

const requestTimeout = 10 * time.Second

// RateLimitMessage is returned to callers whenever Alpha Vantage refuses.
const RateLimitMessage = "API rate limit reached"

// ErrRateLimitExceeded is returned when the local daily quota is spent.
type ErrRateLimitExceeded struct {
	Limit int
}

func (e ErrRateLimitExceeded) Error() string {
	return fmt.Sprintf("Alpha Vantage daily limit of %d requests exceeded", e.Limit)
}

// Point is one dated indicator reading. Values are keyed the way Alpha
// Vantage names them, e.g. "SMA", "MACD_Signal", "Real Upper Band".
type Point struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// Query selects one indicator series.
type Query struct {
	Function string // SMA, EMA, RSI, MACD or BBANDS
	Symbol   string
	Period   int // ignored for MACD
}

// Client for the Alpha Vantage API
type Client struct {
	apiKey  string
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
	now     func() time.Time

	mu         sync.Mutex
	dailyLimit int
	used       int
	day        string
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey, baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		fetch:      f,
		cache:      c,
		log:        log.With().Str("client", "alphavantage").Logger(),
		now:        time.Now,
		dailyLimit: DailyLimit,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GetRemainingRequests returns how many calls are left today.
func (c *Client) GetRemainingRequests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollover()
	return c.dailyLimit - c.used
}

// ResetDailyCounter forgets today's usage.
func (c *Client) ResetDailyCounter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.used = 0
}

// checkRateLimit reserves one request from today's quota.
func (c *Client) checkRateLimit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollover()
	if c.used >= c.dailyLimit {
		return ErrRateLimitExceeded{Limit: c.dailyLimit}
	}
	c.used++
	return nil
}

// rollover resets the counter on the first call of a new UTC day.
// Callers hold mu.
func (c *Client) rollover() {
	today := c.now().UTC().Format("2006-01-02")
	if c.day != today {
		c.day = today
		c.used = 0
	}
}

// Indicator returns the indicator series newest first. Quota exhaustion,
// local or upstream, is reported as an *api.RateLimitedError.
func (c *Client) Indicator(ctx context.Context, q Query) ([]Point, error) {
	if !c.Configured() {
		return nil, api.NotConfigured(EnvKey, SetupHint)
	}

	function := strings.ToUpper(q.Function)
	symbol := strings.ToUpper(q.Symbol)
	key := fmt.Sprintf("av:%s:%s:%d", function, symbol, q.Period)

	return cache.Remember(c.cache, key, cache.TTLMedium, func() ([]Point, error) {
		if err := c.checkRateLimit(); err != nil {
			c.log.Warn().Err(err).Str("function", function).Msg("Daily quota spent")
			return nil, &api.RateLimitedError{Message: RateLimitMessage}
		}

		params := url.Values{}
		params.Set("function", function)
		params.Set("symbol", symbol)
		params.Set("interval", "daily")
		params.Set("series_type", "close")
		if function != "MACD" {
			params.Set("time_period", strconv.Itoa(q.Period))
		}
		params.Set("apikey", c.apiKey)

		var body map[string]json.RawMessage
		if err := c.fetch.GetJSON(ctx, c.baseURL+"?"+params.Encode(), &body, fetch.WithTimeout(requestTimeout)); err != nil {
			return nil, fmt.Errorf("Alpha Vantage %s: %w", function, err)
		}
		return c.parse(function, body)
	})
}

func (c *Client) parse(function string, body map[string]json.RawMessage) ([]Point, error) {
	for _, field := range []string{"Note", "Information", "Error Message"} {
		if msg, ok := body[field]; ok {
			c.log.Warn().Str("function", function).RawJSON("upstream", msg).Msg("Alpha Vantage refused request")
			return nil, &api.RateLimitedError{Message: RateLimitMessage}
		}
	}

	raw, ok := body["Technical Analysis: "+function]
	if !ok {
		return []Point{}, nil
	}
	var series map[string]map[string]jsonx.Float
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("failed to parse %s series: %w", function, err)
	}

	points := make([]Point, 0, len(series))
	for date, values := range series {
		p := Point{Date: date, Values: make(map[string]float64, len(values))}
		for k, v := range values {
			p.Values[k] = float64(v)
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date > points[j].Date })
	return points, nil
}
