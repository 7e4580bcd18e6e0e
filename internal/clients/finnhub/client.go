// Package finnhub reads equity quotes, candles, calendars, analyst data and
// news from Finnhub.
package finnhub

import (
	"context"
	"fmt"
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

const (
	// EnvKey is the environment variable holding the API key.
	EnvKey = "FINNHUB_API_KEY"

	// SetupHint tells operators where to obtain a key.
	SetupHint = "Get free API key at https://finnhub.io/register"
)

const requestTimeout = 10 * time.Second

// DateLayout is the calendar date format Finnhub accepts.
const DateLayout = "2006-01-02"

// Quote is a real-time quote. Change fields are null before the first trade.
type Quote struct {
	Current       float64      `json:"c"`
	Change        *jsonx.Float `json:"d"`
	ChangePercent *jsonx.Float `json:"dp"`
	High          float64      `json:"h"`
	Low           float64      `json:"l"`
	Open          float64      `json:"o"`
	PreviousClose float64      `json:"pc"`
	Time          int64        `json:"t"`
}

// Empty reports whether Finnhub returned its all-zero answer for an
// unknown symbol.
func (q *Quote) Empty() bool {
	return q.Current == 0 && q.High == 0
}

// Candles are OHLCV arrays aligned by index, oldest first.
type Candles struct {
	Status string    `json:"s"`
	Time   []int64   `json:"t"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
}

// Recommendation is one month of analyst rating counts.
type Recommendation struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// Total is the number of ratings in the period.
func (r Recommendation) Total() int {
	return r.StrongBuy + r.Buy + r.Hold + r.Sell + r.StrongSell
}

// NewsItem is a market or company headline.
type NewsItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
}

// Client for the Finnhub API
type Client struct {
	apiKey  string
	baseURL string
	fetch   *fetch.Client
	cache   *cache.Cache
	log     zerolog.Logger
	now     func() time.Time
}

// NewClient creates a new Finnhub client. Without an apiKey every call
// returns a NotConfiguredError.
func NewClient(apiKey, baseURL string, f *fetch.Client, c *cache.Cache, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		fetch:   f,
		cache:   c,
		log:     log.With().Str("client", "finnhub").Logger(),
		now:     time.Now,
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
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	if err := c.fetch.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), dst, fetch.WithTimeout(requestTimeout)); err != nil {
		return fmt.Errorf("Finnhub %s: %w", path, err)
	}
	return nil
}

// Quote returns the latest quote. Unknown symbols yield a NotFoundError.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(symbol)
	return cache.Remember(c.cache, "finnhub:quote:"+symbol, cache.TTLShort, func() (*Quote, error) {
		var q Quote
		if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &q); err != nil {
			return nil, err
		}
		if q.Empty() {
			return nil, api.NotFound("No data found for symbol "+symbol, nil)
		}
		return &q, nil
	})
}

// Candles returns daily (or other resolution) candles covering the last
// days days.
func (c *Client) Candles(ctx context.Context, symbol, resolution string, days int) (*Candles, error) {
	symbol = strings.ToUpper(symbol)
	key := fmt.Sprintf("finnhub:candles:%s:%s:%d", symbol, resolution, days)

	return cache.Remember(c.cache, key, cache.TTLMedium, func() (*Candles, error) {
		to := c.now()
		from := to.AddDate(0, 0, -days)

		params := url.Values{}
		params.Set("symbol", symbol)
		params.Set("resolution", resolution)
		params.Set("from", strconv.FormatInt(from.Unix(), 10))
		params.Set("to", strconv.FormatInt(to.Unix(), 10))

		var candles Candles
		if err := c.get(ctx, "/stock/candle", params, &candles); err != nil {
			return nil, err
		}
		if candles.Status == "no_data" || len(candles.Close) == 0 {
			return nil, api.NotFound("No data found for symbol "+symbol, nil)
		}
		return &candles, nil
	})
}

// DateRange bounds a calendar query.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (d DateRange) params() url.Values {
	params := url.Values{}
	params.Set("from", d.From.Format(DateLayout))
	params.Set("to", d.To.Format(DateLayout))
	return params
}

func (d DateRange) key() string {
	return d.From.Format(DateLayout) + ":" + d.To.Format(DateLayout)
}

// EarningsCalendar returns scheduled earnings releases, optionally for one
// symbol only.
func (c *Client) EarningsCalendar(ctx context.Context, r DateRange, symbol string) ([]jsonx.Record, error) {
	params := r.params()
	if symbol != "" {
		params.Set("symbol", strings.ToUpper(symbol))
	}

	return cache.Remember(c.cache, "finnhub:earnings:"+r.key()+":"+symbol, cache.TTLLong, func() ([]jsonx.Record, error) {
		var body struct {
			EarningsCalendar []jsonx.Record `json:"earningsCalendar"`
		}
		if err := c.get(ctx, "/calendar/earnings", params, &body); err != nil {
			return nil, err
		}
		return body.EarningsCalendar, nil
	})
}

// Dividends returns the dividend history of symbol.
func (c *Client) Dividends(ctx context.Context, symbol string, r DateRange) ([]jsonx.Record, error) {
	symbol = strings.ToUpper(symbol)
	params := r.params()
	params.Set("symbol", symbol)

	return cache.Remember(c.cache, "finnhub:dividends:"+symbol+":"+r.key(), cache.TTLLong, func() ([]jsonx.Record, error) {
		var body []jsonx.Record
		if err := c.get(ctx, "/stock/dividend", params, &body); err != nil {
			return nil, err
		}
		return body, nil
	})
}

// IPOCalendar returns upcoming listings.
func (c *Client) IPOCalendar(ctx context.Context, r DateRange) ([]jsonx.Record, error) {
	return cache.Remember(c.cache, "finnhub:ipo:"+r.key(), cache.TTLLong, func() ([]jsonx.Record, error) {
		var body struct {
			IPOCalendar []jsonx.Record `json:"ipoCalendar"`
		}
		if err := c.get(ctx, "/calendar/ipo", r.params(), &body); err != nil {
			return nil, err
		}
		return body.IPOCalendar, nil
	})
}

// EconomicCalendar returns scheduled macro releases.
func (c *Client) EconomicCalendar(ctx context.Context, r DateRange) ([]jsonx.Record, error) {
	return cache.Remember(c.cache, "finnhub:economic:"+r.key(), cache.TTLLong, func() ([]jsonx.Record, error) {
		var body struct {
			EconomicCalendar []jsonx.Record `json:"economicCalendar"`
		}
		if err := c.get(ctx, "/calendar/economic", r.params(), &body); err != nil {
			return nil, err
		}
		return body.EconomicCalendar, nil
	})
}

// Recommendations returns monthly analyst rating counts, newest first.
func (c *Client) Recommendations(ctx context.Context, symbol string) ([]Recommendation, error) {
	symbol = strings.ToUpper(symbol)
	return cache.Remember(c.cache, "finnhub:recommendation:"+symbol, cache.TTLLong, func() ([]Recommendation, error) {
		var body []Recommendation
		if err := c.get(ctx, "/stock/recommendation", url.Values{"symbol": {symbol}}, &body); err != nil {
			return nil, err
		}
		return body, nil
	})
}

// PriceTarget returns the analyst price target consensus.
func (c *Client) PriceTarget(ctx context.Context, symbol string) (jsonx.Record, error) {
	symbol = strings.ToUpper(symbol)
	return cache.Remember(c.cache, "finnhub:target:"+symbol, cache.TTLLong, func() (jsonx.Record, error) {
		var body jsonx.Record
		if err := c.get(ctx, "/stock/price-target", url.Values{"symbol": {symbol}}, &body); err != nil {
			return nil, err
		}
		return body, nil
	})
}

// MarketNews returns general headlines for a category such as "general",
// "forex", "crypto" or "merger".
func (c *Client) MarketNews(ctx context.Context, category string) ([]NewsItem, error) {
	return cache.Remember(c.cache, "finnhub:news:"+category, cache.TTLMedium, func() ([]NewsItem, error) {
		var body []NewsItem
		if err := c.get(ctx, "/news", url.Values{"category": {category}}, &body); err != nil {
			return nil, err
		}
		return body, nil
	})
}

// CompanyNews returns headlines about symbol within the range.
func (c *Client) CompanyNews(ctx context.Context, symbol string, r DateRange) ([]NewsItem, error) {
	symbol = strings.ToUpper(symbol)
	params := r.params()
	params.Set("symbol", symbol)

	return cache.Remember(c.cache, "finnhub:company-news:"+symbol+":"+r.key(), cache.TTLMedium, func() ([]NewsItem, error) {
		var body []NewsItem
		if err := c.get(ctx, "/company-news", params, &body); err != nil {
			return nil, err
		}
		return body, nil
	})
}

// Ping fetches an uncached AAPL quote.
func (c *Client) Ping(ctx context.Context) error {
	var q Quote
	return c.get(ctx, "/quote", url.Values{"symbol": {"AAPL"}}, &q)
}
