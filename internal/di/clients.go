// Package di provides dependency injection for upstream clients.
package di

import (
	"github.com/rs/zerolog"

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
	"github.com/aristath/oracles/internal/config"
	"github.com/aristath/oracles/internal/fetch"
)

// InitializeClients creates the shared fetcher and cache and every upstream
// client. Clients never dial on construction, so this cannot fail; a missing
// API key only marks the provider as not configured.
func InitializeClients(cfg *config.Config, log zerolog.Logger) *Container {
	container := &Container{
		Fetch: fetch.NewClient(nil, log),
		Cache: cache.New(cfg.CacheMaxEntries),
	}
	f, c, up := container.Fetch, container.Cache, cfg.Upstreams

	// Internal oracle backends
	container.SECOracle = oracle.NewSEC(cfg.SECOracleURL, f, log)
	container.PerpDex = oracle.NewPerpDex(cfg.PerpDexURL, cfg.PerpDexAPIKey, f, log)
	container.Sanctions = oracle.NewSanctions(cfg.SanctionsURL, f, log)

	// Keyless public providers
	container.Polymarket = polymarket.NewClient(up.Polymarket, f, c, log)
	container.Kalshi = kalshi.NewClient(up.Kalshi, f, c, log)
	container.FDIC = fdic.NewClient(up.FDIC, f, c, log)
	container.Treasury = treasury.NewClient(up.Treasury, f, c, log)
	container.Forex = forex.NewClient(up.Forex, up.ForexDated, f, c, log)
	container.CoinGecko = coingecko.NewClient(up.CoinGecko, f, c, log)
	container.SECEdgar = secedgar.NewClient(up.SECEdgar, f, c, log)

	// Keyed providers
	container.FRED = fred.NewClient(cfg.FREDAPIKey, up.FRED, f, c, log)
	container.BLS = bls.NewClient(cfg.BLSAPIKey, up.BLS, f, c, log)
	container.Finnhub = finnhub.NewClient(cfg.FinnhubAPIKey, up.Finnhub, f, c, log)
	container.AlphaVantage = alphavantage.NewClient(cfg.AlphaVantageAPIKey, up.AlphaVantage, f, c, log)
	container.FMP = fmp.NewClient(cfg.FMPAPIKey, up.FMP, f, c, log)
	container.GoldAPI = goldapi.NewClient(cfg.GoldAPIKey, up.GoldAPI, f, c, log)

	log.Info().
		Int("cache_max_entries", c.MaxEntries()).
		Bool("fred", container.FRED.Configured()).
		Bool("finnhub", container.Finnhub.Configured()).
		Bool("alpha_vantage", container.AlphaVantage.Configured()).
		Bool("fmp", container.FMP.Configured()).
		Bool("goldapi", container.GoldAPI.Configured()).
		Msg("Upstream clients initialized")

	return container
}
