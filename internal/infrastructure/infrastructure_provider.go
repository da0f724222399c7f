package infrastructure

import (
	"context"
	"time"

	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	"webscout-server/internal/domain/catalog"
	domainscrape "webscout-server/internal/domain/scrape"
	domainsearch "webscout-server/internal/domain/search"
	"webscout-server/internal/infrastructure/auth"
	"webscout-server/internal/infrastructure/config"
	searchclient "webscout-server/internal/infrastructure/search"
	"webscout-server/internal/infrastructure/toolconfig"
	"webscout-server/internal/infrastructure/webpage"
)

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Search client
	ProvideSearchClient,

	// Page fetcher
	ProvidePageFetcher,

	// Tools config file, overrides and result filter
	ProvideToolsFile,
	ProvideToolOverrides,
	ProvideResultFilter,

	// Auth validator
	ProvideAuthValidator,
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideSearchClient provides the search client
func ProvideSearchClient(cfg *config.Config) domainsearch.SearchClient {
	return searchclient.NewSearchClient(searchclient.ClientConfig{
		Engine:     searchclient.Engine(cfg.SearchEngine),
		SearxngURL: cfg.SearxngURL,
		Region:     cfg.SearchRegion,
		UserAgent:  cfg.UserAgent,

		CBEnabled:          true,
		CBFailureThreshold: cfg.CBFailureThreshold,
		CBSuccessThreshold: cfg.CBSuccessThreshold,
		CBTimeout:          time.Duration(cfg.CBTimeout) * time.Second,
		CBMaxHalfOpen:      cfg.CBMaxHalfOpen,

		HTTPTimeout:     time.Duration(cfg.SearchHTTPTimeout) * time.Second,
		MaxConnsPerHost: cfg.MaxConnsPerHost,
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: time.Duration(cfg.IdleConnTimeout) * time.Second,

		RetryMaxAttempts:   cfg.RetryMaxAttempts,
		RetryInitialDelay:  time.Duration(cfg.RetryInitialDelay) * time.Millisecond,
		RetryMaxDelay:      time.Duration(cfg.RetryMaxDelay) * time.Millisecond,
		RetryBackoffFactor: cfg.RetryBackoffFactor,
	})
}

// ProvidePageFetcher provides the page fetch client behind the scraping tools
func ProvidePageFetcher(cfg *config.Config) domainscrape.PageFetcher {
	return webpage.NewClient(webpage.ClientConfig{
		UserAgent:        cfg.UserAgent,
		HTTPTimeout:      time.Duration(cfg.ScrapeHTTPTimeout) * time.Second,
		MaxConnsPerHost:  cfg.MaxConnsPerHost,
		MaxIdleConns:     cfg.MaxIdleConns,
		IdleConnTimeout:  time.Duration(cfg.IdleConnTimeout) * time.Second,
		MaxResponseBytes: cfg.MaxResponseBytes,
	})
}

// ProvideToolsFile loads the optional tools config file
func ProvideToolsFile(cfg *config.Config) (*toolconfig.File, error) {
	return toolconfig.Load(cfg.ToolsConfigPath)
}

// ProvideToolOverrides converts the tools file into catalog overrides
func ProvideToolOverrides(file *toolconfig.File) catalog.Overrides {
	return file.Overrides()
}

// ProvideResultFilter compiles the blocked patterns into a search filter
func ProvideResultFilter(file *toolconfig.File) domainsearch.ResultFilter {
	return toolconfig.NewFilter(file.BlockedPatterns)
}

// ProvideAuthValidator provides the auth validator
func ProvideAuthValidator(ctx context.Context, cfg *config.Config) (*auth.Validator, error) {
	// Get global logger from zerolog
	logger := log.Logger
	return auth.NewValidator(ctx, cfg, logger)
}
