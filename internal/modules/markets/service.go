// Package markets serves spot and historical prices: currencies, crypto,
// equities, precious metals and company fundamentals.
package markets

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/clients/coingecko"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/clients/forex"
	"github.com/aristath/oracles/internal/clients/goldapi"
	"github.com/aristath/oracles/internal/jsonx"
)

// ForexSource is the subset of the currency client the service uses.
type ForexSource interface {
	Latest(ctx context.Context, base string) (*forex.RateTable, error)
	Historical(ctx context.Context, base, date string) (*forex.RateTable, error)
}

// CryptoSource is the subset of the CoinGecko client the service uses.
type CryptoSource interface {
	SimplePrices(ctx context.Context, ids []string, currency string) (map[string]jsonx.Record, error)
	Markets(ctx context.Context, currency string, limit int) ([]jsonx.Record, error)
	MarketChart(ctx context.Context, id, currency string, days int) (*coingecko.Chart, error)
}

// StockSource is the subset of the Finnhub client the service uses.
type StockSource interface {
	Configured() bool
	Quote(ctx context.Context, symbol string) (*finnhub.Quote, error)
	Candles(ctx context.Context, symbol, resolution string, days int) (*finnhub.Candles, error)
}

// MetalSource is the subset of the GoldAPI client the service uses.
type MetalSource interface {
	Configured() bool
	Price(ctx context.Context, symbol string) (*goldapi.Price, error)
}

// FundamentalsSource is the subset of the FMP client the service uses.
type FundamentalsSource interface {
	Profile(ctx context.Context, symbol string) (jsonx.Record, error)
	Ratios(ctx context.Context, symbol string) (jsonx.Record, error)
	KeyMetrics(ctx context.Context, symbol string) (jsonx.Record, error)
}

// Sources bundles the providers behind the service.
type Sources struct {
	Forex        ForexSource
	Crypto       CryptoSource
	Stocks       StockSource
	Metals       MetalSource
	Fundamentals FundamentalsSource
}

// Service answers market data requests.
type Service struct {
	forex        ForexSource
	crypto       CryptoSource
	stocks       StockSource
	metals       MetalSource
	fundamentals FundamentalsSource
	log          zerolog.Logger
}

// NewService creates a markets service
func NewService(src Sources, log zerolog.Logger) *Service {
	return &Service{
		forex:        src.Forex,
		crypto:       src.Crypto,
		stocks:       src.Stocks,
		metals:       src.Metals,
		fundamentals: src.Fundamentals,
		log:          log.With().Str("service", "markets").Logger(),
	}
}
