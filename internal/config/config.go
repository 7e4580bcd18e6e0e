// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Version is reported by discovery and health endpoints.
const Version = "1.5.0"

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	// Payment settings advertised in 402 responses
	PublicURL       string
	ReceiverAddress string
	Network         string
	AssetAddress    string

	// Internal oracle backends
	PerpDexURL    string
	PerpDexAPIKey string
	SECOracleURL  string
	SanctionsURL  string

	// Third-party API keys. Empty means the provider is not configured.
	FREDAPIKey         string
	FinnhubAPIKey      string
	AlphaVantageAPIKey string
	BLSAPIKey          string
	FMPAPIKey          string
	GoldAPIKey         string

	CacheMaxEntries       int
	HealthProbeSchedule   string
	ArbitrageScanSchedule string

	Upstreams Upstreams
}

// Upstreams holds base URLs of the public data providers.
// Tests point these at httptest servers.
type Upstreams struct {
	Polymarket   string
	Kalshi       string
	FDIC         string
	FRED         string
	Treasury     string
	Forex        string
	ForexDated   string // printf pattern taking the date, e.g. .../currency-api@%s/v1
	CoinGecko    string
	SECEdgar     string
	Finnhub      string
	AlphaVantage string
	BLS          string
	FMP          string
	GoldAPI      string
}

// DefaultUpstreams returns the production provider endpoints.
func DefaultUpstreams() Upstreams {
	return Upstreams{
		Polymarket:   "https://gamma-api.polymarket.com",
		Kalshi:       "https://api.elections.kalshi.com/v1",
		FDIC:         "https://api.fdic.gov/banks",
		FRED:         "https://api.stlouisfed.org/fred",
		Treasury:     "https://api.fiscaldata.treasury.gov/services/api/fiscal_service",
		Forex:        "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@latest/v1",
		ForexDated:   "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@%s/v1",
		CoinGecko:    "https://api.coingecko.com/api/v3",
		SECEdgar:     "https://data.sec.gov",
		Finnhub:      "https://finnhub.io/api/v1",
		AlphaVantage: "https://www.alphavantage.co/query",
		BLS:          "https://api.bls.gov/publicAPI/v2",
		FMP:          "https://financialmodelingprep.com/stable",
		GoldAPI:      "https://www.goldapi.io/api",
	}
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnvAsInt("PORT", 3000),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),

		PublicURL:       strings.TrimRight(getEnv("PUBLIC_URL", "https://agents.krumpybot.com"), "/"),
		ReceiverAddress: getEnv("RECEIVER_ADDRESS", "0x71A2CED2074F418f4e68a0A196FF3C1e59Beb32E"),
		Network:         getEnv("NETWORK", "base"),
		AssetAddress:    getEnv("PAYMENT_ASSET", "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"), // USDC on Base

		PerpDexURL:    getEnv("PERP_DEX_URL", "http://localhost:8000"),
		PerpDexAPIKey: getEnv("PERP_DEX_API_KEY", "gateway-internal-key"),
		SECOracleURL:  getEnv("SEC_ORACLE_URL", "http://localhost:8001"),
		SanctionsURL:  getEnv("SANCTIONS_URL", "http://localhost:8002"),

		FREDAPIKey:         getEnv("FRED_API_KEY", ""),
		FinnhubAPIKey:      getEnv("FINNHUB_API_KEY", ""),
		AlphaVantageAPIKey: getEnv("ALPHA_VANTAGE_API_KEY", ""),
		BLSAPIKey:          getEnv("BLS_API_KEY", ""),
		FMPAPIKey:          getEnv("FMP_API_KEY", ""),
		GoldAPIKey:         getEnv("GOLDAPI_API_KEY", ""),

		CacheMaxEntries:       getEnvAsInt("CACHE_MAX_ENTRIES", 1000),
		HealthProbeSchedule:   getEnv("HEALTH_PROBE_SCHEDULE", "@every 1m"),
		ArbitrageScanSchedule: getEnv("ARBITRAGE_SCAN_SCHEDULE", "@every 30s"),

		Upstreams: DefaultUpstreams(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the gateway cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.CacheMaxEntries)
	}
	if c.ReceiverAddress == "" {
		return fmt.Errorf("RECEIVER_ADDRESS is required")
	}
	if c.PublicURL == "" {
		return fmt.Errorf("PUBLIC_URL is required")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
