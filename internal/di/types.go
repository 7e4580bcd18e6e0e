// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/oracles/internal/cache"
	"github.com/aristath/oracles/internal/clients/alphavantage"
	"github.com/aristath/oracles/internal/clients/bls"
	"github.com/aristath/oracles/internal/clients/coingecko"
	"github.com/aristath/oracles/internal/clients/fdic"
	"github.com/aristath/oracles/internal/clients/finnhub"
	"github.com/aristath/oracles/internal/clients/fmp"
	"github.com/aristath/oracles/internal/clients/forex"
	"github.com/aristath/oracles/internal/clients/fred"
	"github.com/aristath/oracles/internal/clients/goldapi"
	"github.com/aristath/oracles/internal/clients/kalshi"
	"github.com/aristath/oracles/internal/clients/oracle"
	"github.com/aristath/oracles/internal/clients/polymarket"
	"github.com/aristath/oracles/internal/clients/secedgar"
	"github.com/aristath/oracles/internal/clients/treasury"
	"github.com/aristath/oracles/internal/fetch"
	"github.com/aristath/oracles/internal/health"
	"github.com/aristath/oracles/internal/modules/banks"
	"github.com/aristath/oracles/internal/modules/bundle"
	"github.com/aristath/oracles/internal/modules/discovery"
	"github.com/aristath/oracles/internal/modules/economy"
	"github.com/aristath/oracles/internal/modules/indicators"
	"github.com/aristath/oracles/internal/modules/markets"
	"github.com/aristath/oracles/internal/modules/oracles"
	"github.com/aristath/oracles/internal/modules/prediction"
	"github.com/aristath/oracles/internal/modules/research"
	"github.com/aristath/oracles/internal/payment"
	"github.com/aristath/oracles/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * It is created by Wire() and handed to the server, which builds one
 * handler per module from the services below.
 *
 * Layers:
 * - Shared: the timeout-bounded fetcher and the response cache
 * - Clients: internal oracle backends and third-party data providers
 * - Services: one per route module, plus discovery and health
 * - Background: websocket hub and the cron scheduler
 */
type Container struct {
	Fetch *fetch.Client
	Cache *cache.Cache

	// Internal oracle backends
	SECOracle *oracle.Client
	PerpDex   *oracle.Client
	Sanctions *oracle.Client

	// Third-party providers
	Polymarket   *polymarket.Client
	Kalshi       *kalshi.Client
	FDIC         *fdic.Client
	FRED         *fred.Client
	Treasury     *treasury.Client
	BLS          *bls.Client
	Forex        *forex.Client
	CoinGecko    *coingecko.Client
	Finnhub      *finnhub.Client
	AlphaVantage *alphavantage.Client
	FMP          *fmp.Client
	GoldAPI      *goldapi.Client
	SECEdgar     *secedgar.Client

	// Module services
	BanksService      *banks.Service
	EconomyService    *economy.Service
	MarketsService    *markets.Service
	ResearchService   *research.Service
	IndicatorService  *indicators.Service
	OracleService     *oracles.Service
	PredictionService *prediction.Service
	BundleService     *bundle.Service
	DiscoveryService  *discovery.Service

	// Payment metering
	PriceTable *payment.Table
	Gate       *payment.Gate

	// Background
	ArbitrageHub  *prediction.Hub
	HealthChecker *health.Checker
	Scheduler     *scheduler.Scheduler
}

// JobInstances holds the scheduled jobs so callers can trigger them by hand.
type JobInstances struct {
	HealthProbe   scheduler.Job
	ArbitrageScan scheduler.Job
}
