// Package catalog assembles the tool registry: every tool the server
// exposes is declared here with its schema and wired to the domain services
// that do the work.
package catalog

import (
	"github.com/rs/zerolog/log"

	"webscout-server/internal/domain/scrape"
	"webscout-server/internal/domain/search"
	"webscout-server/internal/domain/tool"
)

// Config carries the runtime knobs the tool handlers need beyond their
// services.
type Config struct {
	// ScrapeConcurrency bounds the parallel page fetches search_and_scrape
	// runs per call.
	ScrapeConcurrency int
	// MaxScrapeResults caps how many hits search_and_scrape will fetch pages
	// for, on top of the per-call argument.
	MaxScrapeResults int
}

// Override adjusts one built-in tool from deployment configuration.
type Override struct {
	// Enabled removes the tool from the registry when set to false.
	Enabled *bool
	// Description replaces the built-in description when non-empty.
	Description string
}

// Overrides maps tool names to their configured adjustments. Names that do
// not match a built-in tool are ignored.
type Overrides map[string]Override

// Build registers every tool in its fixed listing order, applying overrides.
// The returned registry is immutable; a duplicate or malformed descriptor is
// a startup error.
func Build(searchSvc *search.SearchService, scrapeSvc *scrape.ScrapeService, overrides Overrides, cfg Config) (*tool.Registry, error) {
	if cfg.ScrapeConcurrency <= 0 {
		cfg.ScrapeConcurrency = 4
	}
	if cfg.MaxScrapeResults <= 0 {
		cfg.MaxScrapeResults = 10
	}

	descriptors := []*tool.Descriptor{
		webSearchTool(searchSvc),
		newsSearchTool(searchSvc),
		smartSearchTool(searchSvc, scrapeSvc, cfg),
		searchAndScrapeTool(searchSvc, scrapeSvc, cfg),
		scrapeHTMLTool(scrapeSvc),
		extractLinksTool(scrapeSvc),
		extractMetadataTool(scrapeSvc),
		scrapeTableTool(scrapeSvc),
		extractArticleTool(scrapeSvc),
	}

	registry := tool.NewRegistry()
	for _, desc := range descriptors {
		if ov, ok := overrides[desc.Name]; ok {
			if ov.Enabled != nil && !*ov.Enabled {
				log.Info().Str("tool", desc.Name).Msg("Tool disabled by configuration")
				continue
			}
			if ov.Description != "" {
				desc.Description = ov.Description
			}
		}
		if err := registry.Register(desc); err != nil {
			return nil, err
		}
	}

	log.Info().Int("count", registry.Len()).Msg("Tool registry built")
	return registry, nil
}
