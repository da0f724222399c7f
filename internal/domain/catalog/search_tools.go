package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"webscout-server/internal/domain/scrape"
	"webscout-server/internal/domain/search"
	"webscout-server/internal/domain/tool"
	"webscout-server/utils/platformerrors"
)

// Result counts the smart_search modes request from the underlying tools.
const (
	smartQuickResults         = 3
	smartStandardResults      = 5
	smartComprehensiveResults = 10
)

type webSearchPayload struct {
	Query   string       `json:"query"`
	Results []search.Hit `json:"results"`
	Count   int          `json:"count"`
}

type newsSearchPayload struct {
	Query   string           `json:"query"`
	Results []search.NewsHit `json:"results"`
	Count   int              `json:"count"`
}

type smartSearchPayload struct {
	Query   string `json:"query"`
	Mode    string `json:"mode"`
	Results any    `json:"results"`
	Count   int    `json:"count"`
}

// ScrapedHit is one search result enriched with extracted article content.
// A hit whose page could not be scraped keeps its search fields and carries
// the failure in Error instead of aborting the sibling fetches.
type ScrapedHit struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Snippet       string `json:"snippet,omitempty"`
	Content       string `json:"content"`
	ContentLength int    `json:"content_length"`
	Scraped       bool   `json:"scraped"`
	Error         string `json:"error,omitempty"`
}

type searchScrapePayload struct {
	Query   string       `json:"query"`
	Results []ScrapedHit `json:"results"`
	Count   int          `json:"count"`
}

func webSearchTool(svc *search.SearchService) *tool.Descriptor {
	return &tool.Descriptor{
		Name:        "web_search",
		Description: "Search the web and return organic results with title, URL and snippet.",
		Schema: []tool.Field{
			{Name: "query", Type: tool.FieldString, Description: "Search query", Required: true, NonEmpty: true},
			{Name: "max_results", Type: tool.FieldInteger, Description: "Maximum number of results to return (1-50)",
				Default: 10, Minimum: tool.IntPtr(1), Maximum: tool.IntPtr(50)},
		},
		Handler: func(ctx context.Context, args tool.Arguments) (any, error) {
			return runWebSearch(ctx, svc, args.String("query"), args.Int("max_results"))
		},
	}
}

func newsSearchTool(svc *search.SearchService) *tool.Descriptor {
	return &tool.Descriptor{
		Name:        "news_search",
		Description: "Search recent news and return results with title, URL, snippet, source and publication date.",
		Schema: []tool.Field{
			{Name: "query", Type: tool.FieldString, Description: "Search query", Required: true, NonEmpty: true},
			{Name: "max_results", Type: tool.FieldInteger, Description: "Maximum number of results to return (1-50)",
				Default: 10, Minimum: tool.IntPtr(1), Maximum: tool.IntPtr(50)},
		},
		Handler: func(ctx context.Context, args tool.Arguments) (any, error) {
			hits, err := svc.SearchNews(ctx, args.String("query"), args.Int("max_results"))
			if err != nil {
				return nil, err
			}
			if hits == nil {
				hits = []search.NewsHit{}
			}
			return &newsSearchPayload{Query: args.String("query"), Results: hits, Count: len(hits)}, nil
		},
	}
}

func smartSearchTool(searchSvc *search.SearchService, scrapeSvc *scrape.ScrapeService, cfg Config) *tool.Descriptor {
	return &tool.Descriptor{
		Name: "smart_search",
		Description: "Adaptive web search: quick returns the top 3 results, standard the top 5, " +
			"comprehensive also extracts article content from the top 10.",
		Schema: []tool.Field{
			{Name: "query", Type: tool.FieldString, Description: "Search query", Required: true, NonEmpty: true},
			{Name: "mode", Type: tool.FieldString, Description: "Search depth: quick, standard or comprehensive",
				Default: string(search.SmartModeStandard),
				Enum:    []string{string(search.SmartModeQuick), string(search.SmartModeStandard), string(search.SmartModeComprehensive)}},
		},
		Handler: func(ctx context.Context, args tool.Arguments) (any, error) {
			query := args.String("query")
			mode := search.SmartMode(args.String("mode"))

			switch mode {
			case search.SmartModeQuick, search.SmartModeStandard:
				limit := smartQuickResults
				if mode == search.SmartModeStandard {
					limit = smartStandardResults
				}
				payload, err := runWebSearch(ctx, searchSvc, query, limit)
				if err != nil {
					return nil, err
				}
				return &smartSearchPayload{Query: query, Mode: string(mode), Results: payload.Results, Count: payload.Count}, nil
			case search.SmartModeComprehensive:
				payload, err := runSearchAndScrape(ctx, searchSvc, scrapeSvc, query, smartComprehensiveResults, cfg)
				if err != nil {
					return nil, err
				}
				return &smartSearchPayload{Query: query, Mode: string(mode), Results: payload.Results, Count: payload.Count}, nil
			default:
				// Unreachable: the enum rejects other values at validation.
				return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
					platformerrors.ErrorTypeValidation, fmt.Sprintf("unsupported mode %q", mode), nil, "")
			}
		},
	}
}

func searchAndScrapeTool(searchSvc *search.SearchService, scrapeSvc *scrape.ScrapeService, cfg Config) *tool.Descriptor {
	return &tool.Descriptor{
		Name:        "search_and_scrape",
		Description: "Search the web and extract article content from the top results in a single call.",
		Schema: []tool.Field{
			{Name: "query", Type: tool.FieldString, Description: "Search query", Required: true, NonEmpty: true},
			{Name: "num_results", Type: tool.FieldInteger, Description: "Number of top results to scrape (1-10)",
				Default: 3, Minimum: tool.IntPtr(1), Maximum: tool.IntPtr(10)},
		},
		Handler: func(ctx context.Context, args tool.Arguments) (any, error) {
			return runSearchAndScrape(ctx, searchSvc, scrapeSvc, args.String("query"), args.Int("num_results"), cfg)
		},
	}
}

func runWebSearch(ctx context.Context, svc *search.SearchService, query string, maxResults int) (*webSearchPayload, error) {
	hits, err := svc.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	return &webSearchPayload{Query: query, Results: hits, Count: len(hits)}, nil
}

// runSearchAndScrape searches first, then fans out article extraction over
// the hits with bounded parallelism. A failed page keeps its slot with
// scraped=false; only the search itself can fail the call. Result order
// follows the search ranking regardless of fetch completion order.
func runSearchAndScrape(ctx context.Context, searchSvc *search.SearchService, scrapeSvc *scrape.ScrapeService, query string, numResults int, cfg Config) (*searchScrapePayload, error) {
	if numResults > cfg.MaxScrapeResults {
		numResults = cfg.MaxScrapeResults
	}
	hits, err := searchSvc.Search(ctx, query, numResults)
	if err != nil {
		return nil, err
	}

	results := make([]ScrapedHit, len(hits))
	g := new(errgroup.Group)
	g.SetLimit(cfg.ScrapeConcurrency)
	for i, hit := range hits {
		g.Go(func() error {
			item := ScrapedHit{Title: hit.Title, URL: hit.URL, Snippet: hit.Snippet}
			article, err := scrapeSvc.ExtractArticle(ctx, hit.URL)
			if err != nil {
				item.Error = tool.ErrorMessage(err)
			} else {
				item.Content = article.Content
				item.ContentLength = article.ContentLength
				item.Scraped = true
			}
			results[i] = item
			return nil
		})
	}
	// Goroutines report failures on their items, never through the group.
	_ = g.Wait()

	return &searchScrapePayload{Query: query, Results: results, Count: len(results)}, nil
}
