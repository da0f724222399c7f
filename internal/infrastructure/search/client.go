package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	domainsearch "webscout-server/internal/domain/search"
	"webscout-server/internal/infrastructure/htmlx"
	"webscout-server/internal/infrastructure/metrics"
)

const (
	ddgHTMLEndpoint    = "https://html.duckduckgo.com/html/"
	ddgLiteEndpoint    = "https://lite.duckduckgo.com/lite/"
	ddgInstantEndpoint = "https://api.duckduckgo.com/"
	ddgVQDEndpoint     = "https://duckduckgo.com/"
	ddgNewsEndpoint    = "https://duckduckgo.com/news.js"
	searxngSearchPath  = "/search"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Engine represents the configured backend for search operations.
type Engine string

const (
	// EngineDuckDuckGo routes search requests to DuckDuckGo's keyless endpoints.
	EngineDuckDuckGo Engine = "duckduckgo"
	// EngineSearxng routes search requests to a SearXNG instance.
	EngineSearxng Engine = "searxng"
)

// ClientConfig captures the knobs exposed to operators for the search client.
type ClientConfig struct {
	Engine     Engine
	SearxngURL string
	Region     string
	UserAgent  string

	// Circuit Breaker Settings
	CBEnabled          bool
	CBFailureThreshold int
	CBSuccessThreshold int
	CBTimeout          time.Duration
	CBMaxHalfOpen      int

	// HTTP Client Settings
	HTTPTimeout     time.Duration
	MaxConnsPerHost int
	MaxIdleConns    int
	IdleConnTimeout time.Duration

	// Retry Settings
	RetryMaxAttempts   int
	RetryInitialDelay  time.Duration
	RetryMaxDelay      time.Duration
	RetryBackoffFactor float64
}

// SearchClient implements domainsearch.SearchClient on top of keyless
// DuckDuckGo endpoints with an optional SearXNG instance as the alternate
// engine. Whichever engine is configured goes first; the other serves as
// fallback.
type SearchClient struct {
	cfg         ClientConfig
	ddgClient   *resty.Client // browser-like headers for the HTML endpoints
	apiClient   *resty.Client // instant answer JSON API
	searxClient *resty.Client
	retryConfig RetryConfig
	ddgCB       *CircuitBreaker
	searxCB     *CircuitBreaker
}

var _ domainsearch.SearchClient = (*SearchClient)(nil)

// NewSearchClient wires HTTP clients for each supported backend.
func NewSearchClient(cfg ClientConfig) *SearchClient {
	engine := Engine(strings.ToLower(string(cfg.Engine)))
	if engine == "" {
		engine = EngineDuckDuckGo
	}
	cfg.Engine = engine

	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "wt-wt"
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpTimeout := 15 * time.Second
	if cfg.HTTPTimeout > 0 {
		httpTimeout = cfg.HTTPTimeout
	}

	// Configure HTTP transport with connection pooling
	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = 100
	}
	maxConnsPerHost := cfg.MaxConnsPerHost
	if maxConnsPerHost == 0 {
		maxConnsPerHost = 50
	}
	idleConnTimeout := cfg.IdleConnTimeout
	if idleConnTimeout == 0 {
		idleConnTimeout = 90 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     maxConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		DisableKeepAlives:   false,
		ForceAttemptHTTP2:   true,
	}

	// Browser-like headers keep the keyless HTML endpoints from serving
	// bot-challenge pages.
	ddgHTTP := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5").
		SetTimeout(httpTimeout).
		SetRetryCount(0).
		SetTransport(transport)

	apiHTTP := resty.New().
		SetHeader("User-Agent", "WebScout-MCP/1.0").
		SetTimeout(httpTimeout).
		SetRetryCount(0).
		SetTransport(transport)

	searxHTTP := resty.New().
		SetHeader("User-Agent", "WebScout-MCP/1.0").
		SetTimeout(httpTimeout).
		SetRetryCount(0).
		SetTransport(transport)

	baseURL := strings.TrimSuffix(cfg.SearxngURL, "/")
	if baseURL != "" {
		searxHTTP.SetBaseURL(baseURL)
	}

	// Build retry config from ClientConfig
	retryConfig := DefaultRetryConfig()
	if cfg.RetryMaxAttempts > 0 {
		retryConfig.MaxAttempts = cfg.RetryMaxAttempts
	}
	if cfg.RetryInitialDelay > 0 {
		retryConfig.InitialDelay = cfg.RetryInitialDelay
	}
	if cfg.RetryMaxDelay > 0 {
		retryConfig.MaxDelay = cfg.RetryMaxDelay
	}
	if cfg.RetryBackoffFactor > 0 {
		retryConfig.BackoffFactor = cfg.RetryBackoffFactor
	}

	// Build circuit breaker config from ClientConfig
	cbConfig := DefaultCircuitBreakerConfig()
	cbConfig.Enabled = cfg.CBEnabled
	if cfg.CBFailureThreshold > 0 {
		cbConfig.FailureThreshold = cfg.CBFailureThreshold
	}
	if cfg.CBSuccessThreshold > 0 {
		cbConfig.SuccessThreshold = cfg.CBSuccessThreshold
	}
	if cfg.CBTimeout > 0 {
		cbConfig.Timeout = cfg.CBTimeout
	}
	if cfg.CBMaxHalfOpen > 0 {
		cbConfig.MaxHalfOpenCalls = cfg.CBMaxHalfOpen
	}

	return &SearchClient{
		cfg:         cfg,
		ddgClient:   ddgHTTP,
		apiClient:   apiHTTP,
		searxClient: searxHTTP,
		retryConfig: retryConfig,
		ddgCB:       NewCircuitBreaker("duckduckgo", cbConfig),
		searxCB:     NewCircuitBreaker("searxng", cbConfig),
	}
}

// Search runs a web search through the provider chain, returning at most
// maxResults hits. An empty slice with a nil error means the query simply
// matched nothing.
func (c *SearchClient) Search(ctx context.Context, query string, maxResults int) ([]domainsearch.Hit, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	var lastErr error
	providersTried := make([]string, 0, 2)

	for _, provider := range c.providerOrder() {
		providersTried = append(providersTried, string(provider))
		log.Debug().Str("provider", string(provider)).Str("query", query).Msg("trying search provider")

		var hits []domainsearch.Hit
		var err error
		switch provider {
		case EngineSearxng:
			hits, err = c.searchViaSearxng(ctx, query, maxResults)
		default:
			hits, err = c.searchViaDuckDuckGo(ctx, query, maxResults)
		}
		if err == nil {
			log.Info().
				Str("engine", string(provider)).
				Str("query", query).
				Int("result_count", len(hits)).
				Msg("search completed using engine")
			return hits, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("provider", string(provider)).Msg("search provider failed, trying next")
	}

	return nil, fmt.Errorf("all search providers failed (tried: %s): %w", strings.Join(providersTried, ", "), lastErr)
}

// SearchNews runs a news search through the provider chain.
func (c *SearchClient) SearchNews(ctx context.Context, query string, maxResults int) ([]domainsearch.NewsHit, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	var lastErr error
	providersTried := make([]string, 0, 2)

	for _, provider := range c.providerOrder() {
		providersTried = append(providersTried, string(provider))
		log.Debug().Str("provider", string(provider)).Str("query", query).Msg("trying news provider")

		var hits []domainsearch.NewsHit
		var err error
		switch provider {
		case EngineSearxng:
			hits, err = c.newsViaSearxng(ctx, query, maxResults)
		default:
			hits, err = c.newsViaDuckDuckGo(ctx, query, maxResults)
		}
		if err == nil {
			log.Info().
				Str("engine", string(provider)).
				Str("query", query).
				Int("result_count", len(hits)).
				Msg("news search completed using engine")
			return hits, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("provider", string(provider)).Msg("news provider failed, trying next")
	}

	return nil, fmt.Errorf("all search providers failed (tried: %s): %w", strings.Join(providersTried, ", "), lastErr)
}

// providerOrder puts the configured engine first and the other engine, when
// usable, behind it.
func (c *SearchClient) providerOrder() []Engine {
	if c.cfg.Engine == EngineSearxng && c.hasSearxngURL() {
		return []Engine{EngineSearxng, EngineDuckDuckGo}
	}
	if c.hasSearxngURL() {
		return []Engine{EngineDuckDuckGo, EngineSearxng}
	}
	return []Engine{EngineDuckDuckGo}
}

func (c *SearchClient) hasSearxngURL() bool {
	return strings.TrimSpace(c.cfg.SearxngURL) != ""
}

// --- DuckDuckGo ---

func (c *SearchClient) searchViaDuckDuckGo(ctx context.Context, query string, maxResults int) ([]domainsearch.Hit, error) {
	if c.ddgCB.GetState() == StateOpen {
		log.Error().Str("service", "duckduckgo").Msg("duckduckgo circuit breaker is open, skipping")
		return nil, fmt.Errorf("duckduckgo circuit breaker is open")
	}

	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordProviderRequest("duckduckgo", "search", status, time.Since(startTime).Seconds())
	}()

	hits, opErr := c.ddgSearchChain(ctx, query, maxResults)
	c.ddgCB.RecordResult("duckduckgo_search", opErr)

	if opErr != nil {
		status = "error"
		log.Error().Err(opErr).Str("service", "duckduckgo").Str("operation", "search").Msg("duckduckgo search failed after retries")
		return nil, opErr
	}
	return hits, nil
}

// ddgSearchChain walks DuckDuckGo's keyless endpoints from richest to
// plainest. An endpoint that answers but matches nothing moves the chain
// along; only transport or HTTP failures on every endpoint surface as an
// error.
func (c *SearchClient) ddgSearchChain(ctx context.Context, query string, maxResults int) ([]domainsearch.Hit, error) {
	var lastErr error
	answered := false

	htmlHits, err := WithRetry(ctx, c.retryConfig, "duckduckgo_html_search", func() (*[]domainsearch.Hit, error) {
		return c.searchDDGHTML(ctx, query, maxResults)
	})
	if err == nil {
		if len(*htmlHits) > 0 {
			return *htmlHits, nil
		}
		answered = true
		log.Debug().Str("endpoint", "html").Str("query", query).Msg("duckduckgo endpoint returned no results, trying next")
	} else {
		lastErr = err
	}

	shortRetry := c.retryConfig
	shortRetry.MaxAttempts = 2

	liteHits, err := WithRetry(ctx, shortRetry, "duckduckgo_lite_search", func() (*[]domainsearch.Hit, error) {
		return c.searchDDGLite(ctx, query, maxResults)
	})
	if err == nil {
		if len(*liteHits) > 0 {
			return *liteHits, nil
		}
		answered = true
		log.Debug().Str("endpoint", "lite").Str("query", query).Msg("duckduckgo endpoint returned no results, trying next")
	} else {
		lastErr = err
	}

	instantHits, err := c.searchDDGInstant(ctx, query, maxResults)
	if err == nil {
		if len(instantHits) > 0 {
			return instantHits, nil
		}
		answered = true
	} else {
		lastErr = err
	}

	if answered {
		return []domainsearch.Hit{}, nil
	}
	return nil, fmt.Errorf("all duckduckgo endpoints failed: %w", lastErr)
}

func (c *SearchClient) searchDDGHTML(ctx context.Context, query string, maxResults int) (*[]domainsearch.Hit, error) {
	resp, err := c.ddgClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"q":  query,
			"b":  "",
			"kl": c.cfg.Region,
		}).
		Post(ddgHTMLEndpoint)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo html search failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("duckduckgo html search HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	root, err := html.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo html parse failed: %w", err)
	}
	hits := parseDDGResultPage(root, maxResults)
	return &hits, nil
}

func (c *SearchClient) searchDDGLite(ctx context.Context, query string, maxResults int) (*[]domainsearch.Hit, error) {
	resp, err := c.ddgClient.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("kl", c.cfg.Region).
		Get(ddgLiteEndpoint)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo lite search failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("duckduckgo lite search HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	root, err := html.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo lite parse failed: %w", err)
	}
	hits := parseDDGLitePage(root, maxResults)
	return &hits, nil
}

type duckDuckGoResponse struct {
	Heading       string           `json:"Heading"`
	AbstractText  string           `json:"AbstractText"`
	AbstractURL   string           `json:"AbstractURL"`
	RelatedTopics []duckDuckTopics `json:"RelatedTopics"`
}

type duckDuckTopics struct {
	Text     string           `json:"Text"`
	FirstURL string           `json:"FirstURL"`
	Topics   []duckDuckTopics `json:"Topics"`
}

// searchDDGInstant queries the instant answer API. It only covers
// encyclopedic queries, which makes it the endpoint of last resort.
func (c *SearchClient) searchDDGInstant(ctx context.Context, query string, maxResults int) ([]domainsearch.Hit, error) {
	var ddg duckDuckGoResponse
	resp, err := c.apiClient.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("format", "json").
		SetQueryParam("no_html", "1").
		SetQueryParam("skip_disambig", "1").
		// The API answers with application/x-javascript
		ForceContentType("application/json").
		SetResult(&ddg).
		Get(ddgInstantEndpoint)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo instant answer failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("duckduckgo instant answer HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	hits := make([]domainsearch.Hit, 0, maxResults)
	if ddg.AbstractURL != "" && ddg.AbstractText != "" {
		hits = append(hits, domainsearch.Hit{
			Title:   firstNonEmpty(ddg.Heading, query),
			URL:     ddg.AbstractURL,
			Snippet: ddg.AbstractText,
		})
	}
	for _, topic := range flattenDuckTopics(ddg.RelatedTopics) {
		if len(hits) >= maxResults {
			break
		}
		if topic.FirstURL == "" || topic.Text == "" {
			continue
		}
		hits = append(hits, domainsearch.Hit{
			Title:   topicTitle(topic.Text),
			URL:     topic.FirstURL,
			Snippet: topic.Text,
		})
	}
	return hits, nil
}

func flattenDuckTopics(topics []duckDuckTopics) []duckDuckTopics {
	var out []duckDuckTopics
	for _, topic := range topics {
		if len(topic.Topics) > 0 {
			out = append(out, flattenDuckTopics(topic.Topics)...)
			continue
		}
		out = append(out, topic)
	}
	return out
}

// topicTitle trims an instant answer topic text down to its leading name.
func topicTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	return text
}

var vqdRE = regexp.MustCompile(`vqd=['"]?([\d-]+)['"]?`)

// acquireNewsVQD fetches the session token the news.js endpoint requires.
func (c *SearchClient) acquireNewsVQD(ctx context.Context, query string) (string, error) {
	resp, err := c.ddgClient.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("iar", "news").
		SetQueryParam("ia", "news").
		Get(ddgVQDEndpoint)
	if err != nil {
		return "", fmt.Errorf("duckduckgo vqd request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("duckduckgo vqd request HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	m := vqdRE.FindStringSubmatch(resp.String())
	if len(m) < 2 {
		return "", fmt.Errorf("vqd token not found in duckduckgo response")
	}
	return m[1], nil
}

type ddgNewsResponse struct {
	Results []ddgNewsItem `json:"results"`
}

type ddgNewsItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt"`
	Source  string `json:"source"`
	Date    int64  `json:"date"`
	Image   string `json:"image"`
}

func (c *SearchClient) newsViaDuckDuckGo(ctx context.Context, query string, maxResults int) ([]domainsearch.NewsHit, error) {
	if c.ddgCB.GetState() == StateOpen {
		log.Error().Str("service", "duckduckgo").Msg("duckduckgo circuit breaker is open, skipping")
		return nil, fmt.Errorf("duckduckgo circuit breaker is open")
	}

	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordProviderRequest("duckduckgo", "news", status, time.Since(startTime).Seconds())
	}()

	result, opErr := WithRetry(ctx, c.retryConfig, "duckduckgo_news", func() (*[]domainsearch.NewsHit, error) {
		vqd, err := c.acquireNewsVQD(ctx, query)
		if err != nil {
			return nil, err
		}

		var news ddgNewsResponse
		resp, err := c.ddgClient.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"l":     c.cfg.Region,
				"o":     "json",
				"noamp": "1",
				"q":     query,
				"vqd":   vqd,
				"p":     "-1",
			}).
			ForceContentType("application/json").
			SetResult(&news).
			Get(ddgNewsEndpoint)
		if err != nil {
			return nil, fmt.Errorf("duckduckgo news request failed: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("duckduckgo news HTTP %d: %s", resp.StatusCode(), resp.Status())
		}

		hits := make([]domainsearch.NewsHit, 0, maxResults)
		for _, item := range news.Results {
			if len(hits) >= maxResults {
				break
			}
			if item.URL == "" || item.Title == "" {
				continue
			}
			hit := domainsearch.NewsHit{
				Title:   stripTags(item.Title),
				URL:     item.URL,
				Snippet: stripTags(item.Excerpt),
				Source:  item.Source,
				Image:   item.Image,
			}
			if item.Date > 0 {
				hit.Date = time.Unix(item.Date, 0).UTC().Format(time.RFC3339)
			}
			hits = append(hits, hit)
		}
		return &hits, nil
	})

	c.ddgCB.RecordResult("duckduckgo_news", opErr)

	if opErr != nil {
		status = "error"
		log.Error().Err(opErr).Str("service", "duckduckgo").Str("operation", "news").Msg("duckduckgo news failed after retries")
		return nil, opErr
	}
	return *result, nil
}

// --- SearXNG ---

type searxngResponse struct {
	Query           string          `json:"query"`
	NumberOfResults int             `json:"number_of_results"`
	Results         []searxngResult `json:"results"`
	Answers         []string        `json:"answers"`
}

type searxngResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	Engine        string `json:"engine"`
	PublishedDate string `json:"publishedDate"`
	Thumbnail     string `json:"thumbnail"`
}

func (c *SearchClient) searchViaSearxng(ctx context.Context, query string, maxResults int) ([]domainsearch.Hit, error) {
	result, err := c.querySearxng(ctx, query, maxResults, "general", "search")
	if err != nil {
		return nil, err
	}

	hits := make([]domainsearch.Hit, 0, maxResults)
	for _, item := range result.Results {
		if len(hits) >= maxResults {
			break
		}
		if item.URL == "" || item.Title == "" {
			continue
		}
		hits = append(hits, domainsearch.Hit{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: strings.TrimSpace(item.Content),
		})
	}
	return hits, nil
}

func (c *SearchClient) newsViaSearxng(ctx context.Context, query string, maxResults int) ([]domainsearch.NewsHit, error) {
	result, err := c.querySearxng(ctx, query, maxResults, "news", "news")
	if err != nil {
		return nil, err
	}

	hits := make([]domainsearch.NewsHit, 0, maxResults)
	for _, item := range result.Results {
		if len(hits) >= maxResults {
			break
		}
		if item.URL == "" || item.Title == "" {
			continue
		}
		hits = append(hits, domainsearch.NewsHit{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: strings.TrimSpace(item.Content),
			Source:  item.Engine,
			Date:    item.PublishedDate,
			Image:   item.Thumbnail,
		})
	}
	return hits, nil
}

func (c *SearchClient) querySearxng(ctx context.Context, query string, maxResults int, categories, operation string) (*searxngResponse, error) {
	if !c.hasSearxngURL() {
		return nil, fmt.Errorf("searxng client not configured")
	}
	if c.searxCB.GetState() == StateOpen {
		log.Error().Str("service", "searxng").Msg("searxng circuit breaker is open, skipping")
		return nil, fmt.Errorf("searxng circuit breaker is open")
	}

	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordProviderRequest("searxng", operation, status, time.Since(startTime).Seconds())
	}()

	result, opErr := WithRetry(ctx, c.retryConfig, "searxng_"+operation, func() (*searxngResponse, error) {
		var out searxngResponse
		resp, err := c.searxClient.R().
			SetContext(ctx).
			SetQueryParam("q", query).
			SetQueryParam("format", "json").
			SetQueryParam("safesearch", "1").
			SetQueryParam("categories", categories).
			SetQueryParam("num", strconv.Itoa(maxResults)).
			SetResult(&out).
			Get(searxngSearchPath)
		if err != nil {
			log.Error().Err(err).Str("service", "searxng").Str("url", c.cfg.SearxngURL).Msg("failed to query SearXNG API")
			return nil, fmt.Errorf("failed to query SearXNG API: %w", err)
		}
		if resp.IsError() {
			log.Error().Int("status", resp.StatusCode()).Str("service", "searxng").Str("response", resp.String()).Msg("SearXNG API error")
			return nil, fmt.Errorf("SearXNG API error (status %d): %s", resp.StatusCode(), resp.Status())
		}
		return &out, nil
	})

	c.searxCB.RecordResult("searxng_"+operation, opErr)

	if opErr != nil {
		status = "error"
		log.Error().Err(opErr).Str("service", "searxng").Str("operation", operation).Msg("searxng query failed after retries")
		return nil, opErr
	}
	return result, nil
}

// --- Result page parsing ---

// parseDDGResultPage pulls organic hits out of the html.duckduckgo.com
// result page. Result anchors carry class result__a; the snippet for each
// result follows it in document order with class result__snippet.
func parseDDGResultPage(root *html.Node, limit int) []domainsearch.Hit {
	var hits []domainsearch.Hit

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				if len(hits) < limit {
					if target := decodeDDGRedirect(attrVal(n, "href")); target != "" {
						hits = append(hits, domainsearch.Hit{
							Title: cleanNodeText(n),
							URL:   target,
						})
					}
				}
				return
			case hasClass(n, "result__snippet"):
				if len(hits) > 0 && hits[len(hits)-1].Snippet == "" {
					hits[len(hits)-1].Snippet = cleanNodeText(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return hits
}

// parseDDGLitePage pulls hits out of the table-based lite.duckduckgo.com
// page, where anchors carry class result-link and snippets sit in td
// elements with class result-snippet.
func parseDDGLitePage(root *html.Node, limit int) []domainsearch.Hit {
	var hits []domainsearch.Hit

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result-link"):
				if len(hits) < limit {
					if target := decodeDDGRedirect(attrVal(n, "href")); target != "" {
						hits = append(hits, domainsearch.Hit{
							Title: cleanNodeText(n),
							URL:   target,
						})
					}
				}
				return
			case n.Data == "td" && hasClass(n, "result-snippet"):
				if len(hits) > 0 && hits[len(hits)-1].Snippet == "" {
					hits[len(hits)-1].Snippet = cleanNodeText(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return hits
}

// decodeDDGRedirect resolves the target URL of a DuckDuckGo result anchor.
// Organic anchors route through the /l/ redirect with the destination in
// the uddg parameter; sponsored anchors route through y.js and are dropped.
// The empty string marks an anchor that carries no usable target.
func decodeDDGRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.Contains(parsed.Path, "y.js") || parsed.Query().Get("ad_domain") != "" {
		return ""
	}
	if strings.HasPrefix(parsed.Path, "/l/") {
		return parsed.Query().Get("uddg")
	}
	if parsed.Scheme == "http" || parsed.Scheme == "https" {
		return parsed.String()
	}
	return ""
}

// --- Helpers ---

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attrVal(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func cleanNodeText(n *html.Node) string {
	return htmlx.CleanText(textContent(n))
}

// stripTags removes markup and decodes entities from provider-supplied
// fragments like news excerpts.
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return htmlx.CleanText(s)
	}
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return htmlx.CleanText(s)
	}
	return cleanNodeText(root)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
