package search

import (
	"context"
	"fmt"

	"webscout-server/internal/infrastructure/htmlx"
	"webscout-server/utils/platformerrors"
)

// ResultFilter drops unwanted hits before they are shaped into payloads.
// Implementations compile their patterns once at startup and are safe for
// concurrent use.
type ResultFilter interface {
	// Blocked reports whether a hit carrying this text (URL or title) must
	// be dropped from results.
	Blocked(text string) bool
}

// ServiceConfig bounds what a single search call may request.
type ServiceConfig struct {
	// MaxResults is the hard cap applied on top of per-call result counts.
	MaxResults int
	// MaxSnippetChars truncates hit snippets, rune-safe.
	MaxSnippetChars int
}

// SearchService runs web and news searches against the configured client,
// applying the configured result cap, blocked-pattern filtering and snippet
// truncation. It is the single entry point the search tools go through.
type SearchService struct {
	client SearchClient
	filter ResultFilter
	cfg    ServiceConfig
}

// NewSearchService creates a search service. filter may be nil when no
// blocked patterns are configured.
func NewSearchService(client SearchClient, filter ResultFilter, cfg ServiceConfig) *SearchService {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	if cfg.MaxSnippetChars <= 0 {
		cfg.MaxSnippetChars = 500
	}
	return &SearchService{client: client, filter: filter, cfg: cfg}
}

// Search returns at most maxResults organic hits in provider ranking order.
// An empty slice means the query matched nothing; that is not an error.
// Filtered hits are dropped without a top-up request, so calls may return
// fewer hits than requested.
func (s *SearchService) Search(ctx context.Context, query string, maxResults int) ([]Hit, error) {
	limit := s.cap(maxResults)
	hits, err := s.client.Search(ctx, query, limit)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUpstream, fmt.Sprintf("web search for %q failed", query), err, "")
	}

	out := make([]Hit, 0, len(hits))
	for _, hit := range hits {
		if len(out) >= limit {
			break
		}
		if s.blocked(hit.URL, hit.Title) {
			continue
		}
		hit.Snippet = htmlx.Truncate(hit.Snippet, s.cfg.MaxSnippetChars)
		out = append(out, hit)
	}
	return out, nil
}

// SearchNews returns at most maxResults news hits in provider ranking order.
func (s *SearchService) SearchNews(ctx context.Context, query string, maxResults int) ([]NewsHit, error) {
	limit := s.cap(maxResults)
	hits, err := s.client.SearchNews(ctx, query, limit)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUpstream, fmt.Sprintf("news search for %q failed", query), err, "")
	}

	out := make([]NewsHit, 0, len(hits))
	for _, hit := range hits {
		if len(out) >= limit {
			break
		}
		if s.blocked(hit.URL, hit.Title) {
			continue
		}
		hit.Snippet = htmlx.Truncate(hit.Snippet, s.cfg.MaxSnippetChars)
		out = append(out, hit)
	}
	return out, nil
}

// MaxResults exposes the configured cap so callers sizing fan-out work can
// respect it.
func (s *SearchService) MaxResults() int {
	return s.cfg.MaxResults
}

func (s *SearchService) cap(requested int) int {
	if requested <= 0 || requested > s.cfg.MaxResults {
		return s.cfg.MaxResults
	}
	return requested
}

func (s *SearchService) blocked(url, title string) bool {
	if s.filter == nil {
		return false
	}
	return s.filter.Blocked(url) || s.filter.Blocked(title)
}
