package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8092", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "duckduckgo", cfg.SearchEngine)
	assert.Equal(t, "wt-wt", cfg.SearchRegion)
	assert.Equal(t, 20, cfg.MaxSearchResults)
	assert.Equal(t, 10, cfg.MaxScrapeResults)
	assert.Equal(t, 4, cfg.ScrapeConcurrency)
	assert.Equal(t, int64(5242880), cfg.MaxResponseBytes)
	assert.Equal(t, 500, cfg.MaxSnippetChars)
	assert.Equal(t, 50000, cfg.MaxContentChars)
	assert.Equal(t, "configs/tools.yml", cfg.ToolsConfigPath)
	assert.False(t, cfg.AuthEnabled)
	assert.NotEmpty(t, cfg.UserAgent)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("WEBSCOUT_HTTP_PORT", "9001")
	t.Setenv("WEBSCOUT_LOG_LEVEL", "debug")
	t.Setenv("WEBSCOUT_MAX_SEARCH_RESULTS", "30")
	t.Setenv("WEBSCOUT_SCRAPE_CONCURRENCY", "8")
	t.Setenv("WEBSCOUT_RETRY_BACKOFF_FACTOR", "2.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.MaxSearchResults)
	assert.Equal(t, 8, cfg.ScrapeConcurrency)
	assert.Equal(t, 2.5, cfg.RetryBackoffFactor)
}

func TestLoadConfigGlobalLogFallback(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfigServiceLogBeatsGlobal(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("WEBSCOUT_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejectsUnknownEngine(t *testing.T) {
	t.Setenv("WEBSCOUT_SEARCH_ENGINE", "bing")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBSCOUT_SEARCH_ENGINE")
}

func TestLoadConfigSearxngRequiresURL(t *testing.T) {
	t.Setenv("WEBSCOUT_SEARCH_ENGINE", "searxng")
	t.Setenv("SEARXNG_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEARXNG_URL")
}

func TestLoadConfigSearxngWithURL(t *testing.T) {
	t.Setenv("WEBSCOUT_SEARCH_ENGINE", "searxng")
	t.Setenv("SEARXNG_URL", "http://searxng.local:8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "searxng", cfg.SearchEngine)
	assert.Equal(t, "http://searxng.local:8080", cfg.SearxngURL)
}

func TestLoadConfigRejectsZeroConcurrency(t *testing.T) {
	t.Setenv("WEBSCOUT_SCRAPE_CONCURRENCY", "0")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBSCOUT_SCRAPE_CONCURRENCY")
}

func TestLoadConfigAuthRequiresIssuerAndJWKS(t *testing.T) {
	t.Setenv("WEBSCOUT_AUTH_ENABLED", "true")
	t.Setenv("WEBSCOUT_AUTH_ISSUER", "")
	t.Setenv("WEBSCOUT_AUTH_JWKS_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBSCOUT_AUTH_ISSUER")

	t.Setenv("WEBSCOUT_AUTH_ISSUER", "https://issuer.example.com")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBSCOUT_AUTH_JWKS_URL")

	t.Setenv("WEBSCOUT_AUTH_JWKS_URL", "https://issuer.example.com/jwks.json")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled)
}
