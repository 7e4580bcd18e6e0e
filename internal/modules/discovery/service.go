// Package discovery publishes what the gateway sells and how to pay for it:
// the 402 landing document, x402 manifests, agent cards and the price list.
package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/oracles/internal/api"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/payment"
)

// Gateway identity advertised in every discovery document.
const (
	Name        = "Financial Oracles Gateway"
	Description = "The most comprehensive x402-native financial data gateway: SEC filings, Treasury, Forex, Stocks, Crypto, Commodities, Technical Indicators, Analyst Ratings, News, Sanctions Screening, and more"
	Homepage    = "https://openclaw.ai/oracles"
	Logo        = "https://openclaw.ai/oracles-logo.png"
)

// On-chain agent registration (ERC-8004).
const (
	Registry        = "0x8004A169FB4a3325136EB29fA0ceB6D2e539a432"
	ChainID         = 1
	AgentID         = 22821
	SepoliaRegistry = "0x8004a6090cd10a7288092483047b097295fb8847"
	SepoliaAgentID  = 7520
	OwnershipProof  = "0x9ae15b17d491cfb2775f07f6f43ec4a44f15a14e67594903719d98771c9da51010bfb030b2c62ea3de973bfaa1ecdf622f898561da2f04b727ea88025723a50a1c"
)

const demoSymbol = "AAPL"

// landingPrice is what the root resource advertises in its 402 document.
var landingPrice = decimal.RequireFromString("0.005")

// CategoryBlurbs describe each paid category on the 402 landing document.
var CategoryBlurbs = map[string]string{
	"sec":          "SEC filings, XBRL financials, insider trading, 13F holdings",
	"perp":         "Perpetual DEX funding rates and arbitrage",
	"sanctions":    "OFAC sanctions screening",
	"prediction":   "Polymarket + Kalshi prediction markets",
	"banks":        "FDIC bank health monitoring",
	"fred":         "Federal Reserve economic indicators",
	"treasury":     "US Treasury fiscal data (debt, spending, revenue)",
	"forex":        "Currency exchange rates (200+ currencies)",
	"crypto":       "Cryptocurrency prices and market data",
	"stocks":       "Stock prices and market indices",
	"bls":          "Bureau of Labor Statistics (employment, CPI)",
	"commodities":  "Gold, silver, oil, and other commodities",
	"fundamentals": "Company fundamentals and ratios",
	"calendar":     "Earnings, dividends, IPO, economic events",
	"indicators":   "Technical indicators (SMA, EMA, RSI, MACD, Bollinger)",
	"analyst":      "Analyst ratings and price targets",
	"news":         "Market and company news headlines",
	"bundle":       "Task-oriented bundles combining several sources",
	"ws":           "Live WebSocket streams (prediction-market arbitrage)",
}

// Quoter fetches the live quote behind the free demo.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (*finnhub.Quote, error)
}

// Service builds discovery documents from the price table and payee terms.
type Service struct {
	table   *payment.Table
	terms   payment.Terms
	version string
	quotes  Quoter
	log     zerolog.Logger
	now     func() time.Time
}

// NewService creates a discovery service
func NewService(table *payment.Table, terms payment.Terms, version string, quotes Quoter, log zerolog.Logger) *Service {
	return &Service{
		table:   table,
		terms:   terms,
		version: version,
		quotes:  quotes,
		log:     log.With().Str("service", "discovery").Logger(),
		now:     time.Now,
	}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(api.TimestampLayout)
}

func (s *Service) url(path string) string {
	return s.terms.PublicURL + path
}

// PaymentOption is the single accept entry of the landing document.
type PaymentOption struct {
	Scheme            string            `json:"scheme"`
	Network           string            `json:"network"`
	MaxAmountRequired string            `json:"maxAmountRequired"`
	Resource          string            `json:"resource"`
	Description       string            `json:"description"`
	PayTo             string            `json:"payTo"`
	MaxTimeoutSeconds int               `json:"maxTimeoutSeconds"`
	Asset             string            `json:"asset"`
	Extra             payment.AssetInfo `json:"extra"`
}

// GatewayLinks points agents at the free documents.
type GatewayLinks struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Endpoints int    `json:"endpoints"`
	Docs      string `json:"docs"`
	Manifest  string `json:"manifest"`
	Health    string `json:"health"`
	Pricing   string `json:"pricing"`
}

// PaymentInfo is the 402 body served at the root.
type PaymentInfo struct {
	X402Version int               `json:"x402Version"`
	Accepts     []PaymentOption   `json:"accepts"`
	Gateway     GatewayLinks      `json:"gateway"`
	Categories  map[string]string `json:"categories"`
}

// PaymentInfo describes the gateway as a paid resource at baseURL.
func (s *Service) PaymentInfo(baseURL string) *PaymentInfo {
	landing := payment.Endpoint{Price: landingPrice}

	categories := make(map[string]string)
	for category := range s.table.Categories() {
		if blurb, ok := CategoryBlurbs[category]; ok {
			categories[category] = blurb
		}
	}

	return &PaymentInfo{
		X402Version: 1,
		Accepts: []PaymentOption{{
			Scheme:            "exact",
			Network:           s.terms.Network,
			MaxAmountRequired: landing.AtomicAmount(),
			Resource:          baseURL,
			Description:       Description,
			PayTo:             s.terms.PayTo,
			MaxTimeoutSeconds: 300,
			Asset:             s.terms.Asset,
			Extra:             payment.AssetInfo{Name: "USD Coin", Version: "2"},
		}},
		Gateway: GatewayLinks{
			Name:      Name,
			Version:   s.version,
			Endpoints: s.table.Len(),
			Docs:      "/.well-known/agent.json",
			Manifest:  "/.well-known/x402-manifest.json",
			Health:    "/health",
			Pricing:   "/pricing",
		},
		Categories: categories,
	}
}

// Pricing is the flat price list.
type Pricing struct {
	Currency      string             `json:"currency"`
	Network       string             `json:"network"`
	Receiver      string             `json:"receiver"`
	Endpoints     map[string]float64 `json:"endpoints"`
	PaymentHeader string             `json:"payment_header"`
}

// Pricing returns every metered endpoint with its USDC price.
func (s *Service) Pricing() *Pricing {
	return &Pricing{
		Currency:      "USDC",
		Network:       s.terms.Network,
		Receiver:      s.terms.PayTo,
		Endpoints:     s.table.Prices(),
		PaymentHeader: payment.HeaderName + ": <tx_hash>",
	}
}

// Manifest is the gateway summary grouped by category.
type Manifest struct {
	X402Version int                 `json:"x402Version"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Version     string              `json:"version"`
	Network     string              `json:"network"`
	Receiver    string              `json:"receiver"`
	Endpoints   int                 `json:"endpoints"`
	Pricing     map[string]float64  `json:"pricing"`
	Categories  map[string][]string `json:"categories"`
}

// Manifest summarises the price table.
func (s *Service) Manifest() *Manifest {
	return &Manifest{
		X402Version: 1,
		Name:        Name,
		Description: Description,
		Version:     s.version,
		Network:     s.terms.Network,
		Receiver:    s.terms.PayTo,
		Endpoints:   s.table.Len(),
		Pricing:     s.table.Prices(),
		Categories:  s.table.Categories(),
	}
}

// DemoQuote is the free sample response.
type DemoQuote struct {
	Symbol        string       `json:"symbol"`
	Price         *float64     `json:"price"`
	Change        any          `json:"change,omitempty"`
	ChangePercent any          `json:"changePercent,omitempty"`
	High          float64      `json:"high,omitempty"`
	Low           float64      `json:"low,omitempty"`
	Open          float64      `json:"open,omitempty"`
	PreviousClose float64      `json:"previousClose,omitempty"`
	Timestamp     string       `json:"timestamp,omitempty"`
	Demo          bool         `json:"demo,omitempty"`
	Note          string       `json:"note,omitempty"`
	Info          *PaymentHint `json:"x402_info,omitempty"`
}

// PaymentHint points demo users at the paid endpoints.
type PaymentHint struct {
	Message     string `json:"message"`
	PricingURL  string `json:"pricing_url"`
	DocsURL     string `json:"docs_url"`
	ExamplePaid string `json:"example_paid,omitempty"`
}

// DemoQuote returns a live AAPL quote. Upstream trouble degrades to a
// placeholder with a note; the returned error is set only when the
// quote provider could not be reached at all.
func (s *Service) DemoQuote(ctx context.Context) (*DemoQuote, error) {
	q, err := s.quotes.Quote(ctx, demoSymbol)
	if err != nil {
		s.log.Warn().Err(err).Msg("Demo quote unavailable")

		var upstream *fetch.UpstreamError
		var notConfigured *api.NotConfiguredError
		var notFound *api.NotFoundError
		if errors.As(err, &upstream) || errors.As(err, &notConfigured) || errors.As(err, &notFound) {
			return &DemoQuote{
				Symbol: demoSymbol,
				Note:   "Demo endpoint - live data temporarily unavailable",
				Info: &PaymentHint{
					Message:    "This is a free demo endpoint. Paid endpoints return richer data.",
					PricingURL: s.url("/pricing"),
					DocsURL:    s.url("/.well-known/agent.json"),
				},
			}, nil
		}
		return &DemoQuote{Symbol: demoSymbol, Note: "Demo endpoint - service temporarily unavailable"}, err
	}

	price := q.Current
	return &DemoQuote{
		Symbol:        demoSymbol,
		Price:         &price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		High:          q.High,
		Low:           q.Low,
		Open:          q.Open,
		PreviousClose: q.PreviousClose,
		Timestamp:     s.timestamp(),
		Demo:          true,
		Info: &PaymentHint{
			Message:     "This is a free demo endpoint. Paid endpoints return richer data with more symbols.",
			PricingURL:  s.url("/pricing"),
			DocsURL:     s.url("/.well-known/agent.json"),
			ExamplePaid: s.url("/stocks/quote/MSFT"),
		},
	}, nil
}
