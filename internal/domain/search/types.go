package search

import "context"

// Hit is one organic web search result.
type Hit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// NewsHit is one news search result. Date is RFC 3339 when the provider
// supplies a timestamp, otherwise whatever string it returned.
type NewsHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Source  string `json:"source,omitempty"`
	Date    string `json:"date,omitempty"`
	Image   string `json:"image,omitempty"`
}

// SearchClient runs queries against an upstream search engine. maxResults
// is a hard cap on the returned slice; implementations may return fewer.
type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]Hit, error)
	SearchNews(ctx context.Context, query string, maxResults int) ([]NewsHit, error)
}

// SmartMode selects how much work smart_search performs per query.
type SmartMode string

const (
	// SmartModeQuick returns a trimmed result list with no scraping.
	SmartModeQuick SmartMode = "quick"
	// SmartModeStandard returns the regular result list.
	SmartModeStandard SmartMode = "standard"
	// SmartModeComprehensive searches and scrapes the top results.
	SmartModeComprehensive SmartMode = "comprehensive"
)
