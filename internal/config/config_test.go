package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FINNHUB_API_KEY", "")
	t.Setenv("PUBLIC_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "base", cfg.Network)
	assert.Equal(t, "https://agents.krumpybot.com", cfg.PublicURL)
	assert.Equal(t, 1000, cfg.CacheMaxEntries)
	assert.Equal(t, "gateway-internal-key", cfg.PerpDexAPIKey)
	assert.Empty(t, cfg.FinnhubAPIKey)
	assert.Equal(t, DefaultUpstreams(), cfg.Upstreams)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PUBLIC_URL", "https://example.test/")
	t.Setenv("FINNHUB_API_KEY", "fh-key")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://example.test", cfg.PublicURL)
	assert.Equal(t, "fh-key", cfg.FinnhubAPIKey)
	assert.True(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Port: 3000, CacheMaxEntries: 1000, ReceiverAddress: "0xabc", PublicURL: "https://x"}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"non-positive cache", func(c *Config) { c.CacheMaxEntries = 0 }, true},
		{"missing receiver", func(c *Config) { c.ReceiverAddress = "" }, true},
		{"missing public url", func(c *Config) { c.PublicURL = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 42, getEnvAsInt("SOME_INT", 42))
}
