package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"webscout-server/internal/infrastructure/htmlx"
	"webscout-server/utils/platformerrors"
)

// ServiceConfig bounds what a single scrape call may return.
type ServiceConfig struct {
	// MaxContentChars truncates extracted text blocks, rune-safe.
	MaxContentChars int
}

// ScrapeService fetches pages through the configured fetcher and runs the
// extraction operations behind the scraping tools. Selector and pattern
// arguments are compiled before any network call so bad input never costs
// a fetch.
type ScrapeService struct {
	fetcher PageFetcher
	cfg     ServiceConfig
}

// NewScrapeService creates a scrape service.
func NewScrapeService(fetcher PageFetcher, cfg ServiceConfig) *ScrapeService {
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = 50000
	}
	return &ScrapeService{fetcher: fetcher, cfg: cfg}
}

// ScrapeText returns the page's visible text. Without a selector the whole
// page becomes a single content entry; with one, each matched element
// contributes its own cleaned entry.
func (s *ScrapeService) ScrapeText(ctx context.Context, pageURL, selector string) (*PageContent, error) {
	var matcher htmlx.Selector
	if selector != "" {
		compiled, err := htmlx.CompileSelector(selector)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation, err.Error(), nil, "")
		}
		matcher = compiled
	}

	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	content := make([]string, 0, 1)
	if matcher == nil {
		if text := htmlx.Truncate(doc.VisibleText(), s.cfg.MaxContentChars); text != "" {
			content = append(content, text)
		}
	} else {
		for _, text := range doc.SelectTexts(matcher) {
			content = append(content, htmlx.Truncate(text, s.cfg.MaxContentChars))
		}
	}

	return &PageContent{URL: pageURL, Content: content, Count: len(content)}, nil
}

// ExtractLinks returns every hyperlink on the page, optionally filtered by a
// regular expression matched against the absolute URL or the anchor text.
func (s *ScrapeService) ExtractLinks(ctx context.Context, pageURL, pattern string) (*LinkList, error) {
	var re *regexp.Regexp
	if pattern != "" {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation,
				fmt.Sprintf("invalid link filter pattern %q: %v", pattern, err), nil, "")
		}
		re = compiled
	}

	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	links := make([]htmlx.Link, 0)
	for _, link := range doc.Links() {
		if re != nil && !re.MatchString(link.URL) && !re.MatchString(link.Text) {
			continue
		}
		links = append(links, link)
	}

	return &LinkList{SourceURL: pageURL, Links: links, Count: len(links)}, nil
}

// ExtractMetadata returns the page title and the common meta/OpenGraph tags.
// Tags the page does not carry are left out of the mapping.
func (s *ScrapeService) ExtractMetadata(ctx context.Context, pageURL string) (*PageMetadata, error) {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	md := doc.Metadata()
	metadata := make(map[string]string)
	if md.Title != "" {
		metadata["title"] = md.Title
	}
	for key, metaName := range map[string]string{
		"description":    "description",
		"keywords":       "keywords",
		"author":         "author",
		"og_title":       "og:title",
		"og_description": "og:description",
		"og_image":       "og:image",
	} {
		if value := md.Meta[metaName]; value != "" {
			metadata[key] = value
		}
	}

	return &PageMetadata{URL: pageURL, Metadata: metadata}, nil
}

// ScrapeTable extracts the tableIndex-th table on the page as keyed rows.
// Header cells supply the keys; tables without a header row get positional
// column_1..n keys sized to the widest row.
func (s *ScrapeService) ScrapeTable(ctx context.Context, pageURL string, tableIndex int) (*TableData, error) {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	tables := doc.Tables()
	if len(tables) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExtraction, "no tables found on page", nil, "")
	}
	if tableIndex < 0 || tableIndex >= len(tables) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExtraction,
			fmt.Sprintf("table index %d out of range. Found %d tables.", tableIndex, len(tables)), nil, "")
	}

	table := tables[tableIndex]
	headers := table.Headers
	if len(headers) == 0 {
		width := 0
		for _, cells := range table.Rows {
			if len(cells) > width {
				width = len(cells)
			}
		}
		headers = make([]string, 0, width)
		for i := 0; i < width; i++ {
			headers = append(headers, fmt.Sprintf("column_%d", i+1))
		}
	}

	rows := make([]map[string]string, 0, len(table.Rows))
	for _, cells := range table.Rows {
		row := make(map[string]string, len(headers))
		for i, cell := range cells {
			key := fmt.Sprintf("column_%d", i+1)
			if i < len(headers) {
				key = headers[i]
			}
			row[key] = cell
		}
		rows = append(rows, row)
	}

	return &TableData{URL: pageURL, Headers: headers, Rows: rows, RowCount: len(rows)}, nil
}

// ExtractArticle pulls the readable article out of the page. A page with no
// usable body text is an extraction failure, never an empty success.
func (s *ScrapeService) ExtractArticle(ctx context.Context, pageURL string) (*ArticleContent, error) {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	article, ok := doc.ExtractArticle()
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExtraction, "no article content could be extracted", nil, "")
	}

	authors := article.Authors
	if authors == nil {
		authors = []string{}
	}
	content := htmlx.Truncate(article.Text, s.cfg.MaxContentChars)

	return &ArticleContent{
		URL:           pageURL,
		Title:         article.Title,
		Authors:       authors,
		PublishDate:   article.PublishDate,
		TopImage:      article.TopImage,
		Content:       content,
		ContentLength: utf8.RuneCountInString(content),
	}, nil
}

// fetch validates the URL, retrieves the page and parses it. Validation
// failures never reach the fetcher.
func (s *ScrapeService) fetch(ctx context.Context, pageURL string) (*htmlx.Document, error) {
	if err := validatePageURL(ctx, pageURL); err != nil {
		return nil, err
	}

	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUpstream, fmt.Sprintf("failed to fetch %s", pageURL), err, "")
	}

	doc, err := htmlx.ParseString(page.HTML, page.URL)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExtraction, fmt.Sprintf("failed to parse page %s", pageURL), err, "")
	}
	return doc, nil
}

// validatePageURL accepts absolute http/https URLs only.
func validatePageURL(ctx context.Context, pageURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, fmt.Sprintf("invalid url %q", pageURL), err, "")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("url scheme must be http or https, got %q", parsed.Scheme), nil, "")
	}
	if parsed.Host == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, fmt.Sprintf("url %q has no host", pageURL), nil, "")
	}
	return nil
}
