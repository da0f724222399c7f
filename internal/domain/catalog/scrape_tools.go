package catalog

import (
	"context"

	"webscout-server/internal/domain/scrape"
	"webscout-server/internal/domain/tool"
)

func scrapeHTMLTool(svc *scrape.ScrapeService) *tool.Descriptor {
	return &tool.Descriptor{
		Name:        "scrape_html",
		Description: "Fetch a page and return its visible text, optionally narrowed to a CSS selector.",
		Schema: []tool.Field{
			{Name: "url", Type: tool.FieldString, Description: "URL of the page to scrape", Required: true, NonEmpty: true},
			{Name: "selector", Type: tool.FieldString, Description: "CSS selector limiting extraction to matching elements"},
		},
		Handler: func(ctx context.Context, args tool.Arguments) (any, error) {
			return svc.ScrapeText(ctx, args.String("url"), args.String("selector"))
		},
	}
}

func extractLinksTool(svc *scrape.ScrapeService) *tool.Descriptor {
	return &tool.Descriptor{
		Name:        "extract_links",
		Description: "Fetch a page and return its hyperlinks as absolute URLs, optionally filtered by a regular expression.",
		Schema: []tool.Field{
			{Name: "url", Type: tool.FieldString, Description: "URL of the page to scan", Required: true, NonEmpty: true},
			{Name: "pattern", Type: tool.FieldString, Description: "Regular expression matched against link URL or text"},
		},
		Handler: func(ctx context.Context, args tool.Arguments) (any, error) {
			return svc.ExtractLinks(ctx, args.String("url"), args.String("pattern"))
		},
	}
}

func extractMetadataTool(svc *scrape.ScrapeService) *tool.Descriptor {
	return &tool.Descriptor{
		Name:        "extract_metadata",
		Description: "Fetch a page and return its title, description, keywords, author and OpenGraph tags.",
		Schema: []tool.Field{
			{Name: "url", Type: tool.FieldString, Description: "URL of the page to inspect", Required: true, NonEmpty: true},
		},
		Handler: func(ctx context.Context, args tool.Arguments) (any, error) {
			return svc.ExtractMetadata(ctx, args.String("url"))
		},
	}
}

func scrapeTableTool(svc *scrape.ScrapeService) *tool.Descriptor {
	return &tool.Descriptor{
		Name:        "scrape_table",
		Description: "Fetch a page and extract one HTML table as rows keyed by its header cells.",
		Schema: []tool.Field{
			{Name: "url", Type: tool.FieldString, Description: "URL of the page containing the table", Required: true, NonEmpty: true},
			{Name: "table_index", Type: tool.FieldInteger, Description: "Zero-based index of the table to extract",
				Default: 0, Minimum: tool.IntPtr(0)},
		},
		Handler: func(ctx context.Context, args tool.Arguments) (any, error) {
			return svc.ScrapeTable(ctx, args.String("url"), args.Int("table_index"))
		},
	}
}

func extractArticleTool(svc *scrape.ScrapeService) *tool.Descriptor {
	return &tool.Descriptor{
		Name:        "extract_article",
		Description: "Fetch a page and extract the readable article: title, authors, publish date and body text.",
		Schema: []tool.Field{
			{Name: "url", Type: tool.FieldString, Description: "URL of the article page", Required: true, NonEmpty: true},
		},
		Handler: func(ctx context.Context, args tool.Arguments) (any, error) {
			return svc.ExtractArticle(ctx, args.String("url"))
		},
	}
}
