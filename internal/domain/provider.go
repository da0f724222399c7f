package domain

import (
	"github.com/google/wire"

	"webscout-server/internal/domain/catalog"
	"webscout-server/internal/domain/scrape"
	"webscout-server/internal/domain/search"
	"webscout-server/internal/domain/tool"
	"webscout-server/internal/infrastructure/config"
)

// DomainProvider provides all domain services
var DomainProvider = wire.NewSet(
	ProvideSearchService,
	ProvideScrapeService,
	ProvideRegistry,
	tool.NewDispatcher,
)

// ProvideSearchService builds the search service from runtime configuration.
func ProvideSearchService(client search.SearchClient, filter search.ResultFilter, cfg *config.Config) *search.SearchService {
	return search.NewSearchService(client, filter, search.ServiceConfig{
		MaxResults:      cfg.MaxSearchResults,
		MaxSnippetChars: cfg.MaxSnippetChars,
	})
}

// ProvideScrapeService builds the scrape service from runtime configuration.
func ProvideScrapeService(fetcher scrape.PageFetcher, cfg *config.Config) *scrape.ScrapeService {
	return scrape.NewScrapeService(fetcher, scrape.ServiceConfig{
		MaxContentChars: cfg.MaxContentChars,
	})
}

// ProvideRegistry assembles the tool registry, honoring per-tool overrides
// from the tools config file.
func ProvideRegistry(searchSvc *search.SearchService, scrapeSvc *scrape.ScrapeService, overrides catalog.Overrides, cfg *config.Config) (*tool.Registry, error) {
	return catalog.Build(searchSvc, scrapeSvc, overrides, catalog.Config{
		ScrapeConcurrency: cfg.ScrapeConcurrency,
		MaxScrapeResults:  cfg.MaxScrapeResults,
	})
}
