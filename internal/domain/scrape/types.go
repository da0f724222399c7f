package scrape

import (
	"context"

	"webscout-server/internal/infrastructure/htmlx"
)

// Page is one fetched HTML page. URL is the final address after redirects,
// used as the base for resolving relative links.
type Page struct {
	URL  string
	HTML string
}

// PageFetcher retrieves pages over HTTP. Implementations own timeouts,
// response size caps and connection pooling; network and HTTP-level
// failures come back as upstream errors.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Page, error)
}

// PageContent is the scrape_html payload: the whole-page visible text, or
// one cleaned entry per CSS-selector match.
type PageContent struct {
	URL     string   `json:"url"`
	Content []string `json:"content"`
	Count   int      `json:"count"`
}

// LinkList is the extract_links payload.
type LinkList struct {
	SourceURL string       `json:"source_url"`
	Links     []htmlx.Link `json:"links"`
	Count     int          `json:"count"`
}

// PageMetadata is the extract_metadata payload. Tags absent on the page are
// omitted from the mapping entirely.
type PageMetadata struct {
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata"`
}

// TableData is the scrape_table payload. Headers carry the column order;
// row cells are keyed by header, with positional column_N keys when the
// table declares no header row.
type TableData struct {
	URL      string              `json:"url"`
	Headers  []string            `json:"headers"`
	Rows     []map[string]string `json:"rows"`
	RowCount int                 `json:"row_count"`
}

// ArticleContent is the extract_article payload.
type ArticleContent struct {
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishDate   string   `json:"publish_date,omitempty"`
	TopImage      string   `json:"top_image,omitempty"`
	Content       string   `json:"content"`
	ContentLength int      `json:"content_length"`
}
