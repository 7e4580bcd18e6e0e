package di

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/oracles/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                  3000,
		PublicURL:             "https://gateway.test",
		ReceiverAddress:       "0xabc",
		Network:               "base",
		AssetAddress:          "0xusdc",
		PerpDexURL:            "http://127.0.0.1:1",
		PerpDexAPIKey:         "key",
		SECOracleURL:          "http://127.0.0.1:1",
		SanctionsURL:          "http://127.0.0.1:1",
		FinnhubAPIKey:         "finnhub-key",
		CacheMaxEntries:       50,
		HealthProbeSchedule:   "@every 1m",
		ArbitrageScanSchedule: "@every 30s",
		Upstreams:             config.DefaultUpstreams(),
	}
}

func TestWire(t *testing.T) {
	container, jobs, err := Wire(testConfig(), zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, container)
	require.NotNil(t, jobs)
	t.Cleanup(container.ArbitrageHub.Close)

	// Verify container is fully populated
	assert.NotNil(t, container.Fetch)
	assert.Equal(t, 50, container.Cache.MaxEntries())
	assert.NotNil(t, container.BanksService)
	assert.NotNil(t, container.EconomyService)
	assert.NotNil(t, container.MarketsService)
	assert.NotNil(t, container.ResearchService)
	assert.NotNil(t, container.IndicatorService)
	assert.NotNil(t, container.OracleService)
	assert.NotNil(t, container.PredictionService)
	assert.NotNil(t, container.BundleService)
	assert.NotNil(t, container.DiscoveryService)
	assert.NotNil(t, container.HealthChecker)
	assert.NotNil(t, container.Scheduler)
	assert.Equal(t, container.PriceTable, container.Gate.Table())

	// Keys follow the config
	assert.True(t, container.Finnhub.Configured())
	assert.False(t, container.FRED.Configured())

	assert.Equal(t, "health_probe", jobs.HealthProbe.Name())
	assert.NotNil(t, jobs.ArbitrageScan)
}

func TestWire_InvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.ArbitrageScanSchedule = "every now and then"

	container, jobs, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
	assert.Nil(t, container)
	assert.Nil(t, jobs)
}

func TestWire_NilConfig(t *testing.T) {
	_, _, err := Wire(nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestTerms(t *testing.T) {
	terms := Terms(testConfig())

	assert.Equal(t, "https://gateway.test", terms.PublicURL)
	assert.Equal(t, "0xabc", terms.PayTo)
	assert.Equal(t, "base", terms.Network)
	assert.Equal(t, "0xusdc", terms.Asset)
	assert.NotEmpty(t, terms.GatewayName)
}
