package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the WebScout service
type Config struct {
	// HTTP Server - using WEBSCOUT_ prefix to avoid collisions
	HTTPPort  string `env:"WEBSCOUT_HTTP_PORT" envDefault:"8092"`
	LogLevel  string `env:"WEBSCOUT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"WEBSCOUT_LOG_FORMAT" envDefault:"json"` // json or console

	// Search Configuration
	SearchEngine string `env:"WEBSCOUT_SEARCH_ENGINE" envDefault:"duckduckgo"` // duckduckgo or searxng
	SearxngURL   string `env:"SEARXNG_URL"`
	SearchRegion string `env:"WEBSCOUT_SEARCH_REGION" envDefault:"wt-wt"`

	// Result Caps - upper bounds applied on top of per-call arguments
	MaxSearchResults  int `env:"WEBSCOUT_MAX_SEARCH_RESULTS" envDefault:"20"`
	MaxScrapeResults  int `env:"WEBSCOUT_MAX_SCRAPE_RESULTS" envDefault:"10"`
	ScrapeConcurrency int `env:"WEBSCOUT_SCRAPE_CONCURRENCY" envDefault:"4"`

	// Circuit Breaker Configuration
	CBFailureThreshold int `env:"WEBSCOUT_CB_FAILURE_THRESHOLD" envDefault:"15"`
	CBSuccessThreshold int `env:"WEBSCOUT_CB_SUCCESS_THRESHOLD" envDefault:"5"`
	CBTimeout          int `env:"WEBSCOUT_CB_TIMEOUT" envDefault:"45"`
	CBMaxHalfOpen      int `env:"WEBSCOUT_CB_MAX_HALF_OPEN" envDefault:"10"`

	// HTTP Client Performance
	SearchHTTPTimeout int    `env:"WEBSCOUT_SEARCH_HTTP_TIMEOUT" envDefault:"15"`
	ScrapeHTTPTimeout int    `env:"WEBSCOUT_SCRAPE_HTTP_TIMEOUT" envDefault:"30"` // Separate longer timeout for page fetches
	MaxConnsPerHost   int    `env:"WEBSCOUT_MAX_CONNS_PER_HOST" envDefault:"50"`
	MaxIdleConns      int    `env:"WEBSCOUT_MAX_IDLE_CONNS" envDefault:"100"`
	IdleConnTimeout   int    `env:"WEBSCOUT_IDLE_CONN_TIMEOUT" envDefault:"90"`
	UserAgent         string `env:"WEBSCOUT_USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	MaxResponseBytes  int64  `env:"WEBSCOUT_MAX_RESPONSE_BYTES" envDefault:"5242880"` // 5 MiB cap on fetched pages

	// Retry Configuration
	RetryMaxAttempts   int     `env:"WEBSCOUT_RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryInitialDelay  int     `env:"WEBSCOUT_RETRY_INITIAL_DELAY" envDefault:"250"`
	RetryMaxDelay      int     `env:"WEBSCOUT_RETRY_MAX_DELAY" envDefault:"5000"`
	RetryBackoffFactor float64 `env:"WEBSCOUT_RETRY_BACKOFF_FACTOR" envDefault:"1.5"`

	// Tool Result Size Limits
	MaxSnippetChars int `env:"WEBSCOUT_MAX_SNIPPET_CHARS" envDefault:"500"`   // Max chars for search result snippets
	MaxContentChars int `env:"WEBSCOUT_MAX_CONTENT_CHARS" envDefault:"50000"` // Max chars for extracted page content

	// Tool Overrides
	ToolsConfigPath string `env:"WEBSCOUT_TOOLS_CONFIG" envDefault:"configs/tools.yml"`

	// Authentication
	AuthEnabled  bool   `env:"WEBSCOUT_AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"WEBSCOUT_AUTH_ISSUER"`
	AuthAudience string `env:"WEBSCOUT_AUTH_AUDIENCE"`
	AuthJWKSURL  string `env:"WEBSCOUT_AUTH_JWKS_URL"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(os.Getenv("WEBSCOUT_LOG_LEVEL")) == "" {
		if global := strings.TrimSpace(os.Getenv("LOG_LEVEL")); global != "" {
			cfg.LogLevel = global
		}
	}
	if strings.TrimSpace(os.Getenv("WEBSCOUT_LOG_FORMAT")) == "" {
		if global := strings.TrimSpace(os.Getenv("LOG_FORMAT")); global != "" {
			cfg.LogFormat = global
		}
	}
	if cfg.SearchEngine != "duckduckgo" && cfg.SearchEngine != "searxng" {
		return nil, fmt.Errorf("unsupported WEBSCOUT_SEARCH_ENGINE %q (expected duckduckgo or searxng)", cfg.SearchEngine)
	}
	if cfg.SearchEngine == "searxng" && strings.TrimSpace(cfg.SearxngURL) == "" {
		return nil, fmt.Errorf("SEARXNG_URL is required when WEBSCOUT_SEARCH_ENGINE is searxng")
	}
	if cfg.ScrapeConcurrency < 1 {
		return nil, fmt.Errorf("WEBSCOUT_SCRAPE_CONCURRENCY must be at least 1")
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("WEBSCOUT_AUTH_ISSUER is required when WEBSCOUT_AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("WEBSCOUT_AUTH_JWKS_URL is required when WEBSCOUT_AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}
