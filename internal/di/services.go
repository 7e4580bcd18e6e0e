// Package di provides dependency injection for service implementations.
package di

import (
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/config"
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
)

// Terms builds the payee details advertised in every 402 response.
func Terms(cfg *config.Config) payment.Terms {
	return payment.Terms{
		PublicURL:   cfg.PublicURL,
		PayTo:       cfg.ReceiverAddress,
		Network:     cfg.Network,
		Asset:       cfg.AssetAddress,
		GatewayName: discovery.Name,
	}
}

// InitializeServices builds the module services on top of the clients.
// Order matters only for the bundle, which reuses the oracle service.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) {
	// Payment metering
	container.PriceTable = payment.DefaultTable()
	terms := Terms(cfg)
	container.Gate = payment.NewGate(container.PriceTable, terms, log)

	// Data modules
	container.BanksService = banks.NewService(container.FDIC, log)
	container.EconomyService = economy.NewService(container.FRED, container.Treasury, container.BLS, log)
	container.MarketsService = markets.NewService(markets.Sources{
		Forex:        container.Forex,
		Crypto:       container.CoinGecko,
		Stocks:       container.Finnhub,
		Metals:       container.GoldAPI,
		Fundamentals: container.FMP,
	}, log)
	container.ResearchService = research.NewService(container.Finnhub, log)
	container.IndicatorService = indicators.NewService(container.AlphaVantage, container.Finnhub, log)

	// Oracle proxies and the bundles built on them
	container.OracleService = oracles.NewService(oracles.Backends{
		SEC:       container.SECOracle,
		Perp:      container.PerpDex,
		Sanctions: container.Sanctions,
		EDGAR:     container.SECEdgar,
	}, log)
	container.BundleService = bundle.NewService(bundle.Sources{
		Equities:  container.Finnhub,
		Estimates: container.FMP,
		Sanctions: container.OracleService,
		Filings:   container.OracleService,
	}, container.Cache, log)

	// Prediction markets and the arbitrage stream
	container.PredictionService = prediction.NewService(container.Polymarket, container.Kalshi, log)
	container.ArbitrageHub = prediction.NewHub(log)

	// Discovery documents
	container.DiscoveryService = discovery.NewService(container.PriceTable, terms, config.Version, container.Finnhub, log)

	// Health probes
	container.HealthChecker = health.NewChecker(health.StandardProbes(health.Dependencies{
		SECOracle:       container.SECOracle,
		PerpDex:         container.PerpDex,
		Sanctions:       container.Sanctions,
		Polymarket:      container.Polymarket,
		FDIC:            container.FDIC,
		FRED:            container.FRED,
		Treasury:        container.Treasury,
		Forex:           container.Forex,
		CoinGecko:       container.CoinGecko,
		Finnhub:         container.Finnhub,
		BLS:             container.BLS,
		FREDKey:         container.FRED.Configured(),
		FinnhubKey:      container.Finnhub.Configured(),
		FMPKey:          container.FMP.Configured(),
		GoldAPIKey:      container.GoldAPI.Configured(),
		AlphaVantageKey: container.AlphaVantage.Configured(),
	}), log)

	log.Info().Int("priced_endpoints", container.PriceTable.Len()).Msg("Services initialized")
}
