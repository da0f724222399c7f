// Package webpage implements the HTTP fetcher behind the scraping tools.
package webpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"webscout-server/internal/domain/scrape"
	"webscout-server/internal/infrastructure/metrics"
	"webscout-server/utils/platformerrors"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// defaultMaxResponseBytes caps how much of a page we are willing to read
	// when no explicit cap is configured (5 MiB).
	defaultMaxResponseBytes = int64(5 << 20)
)

// ClientConfig captures the knobs exposed to operators for the page fetcher.
type ClientConfig struct {
	UserAgent        string
	HTTPTimeout      time.Duration
	MaxConnsPerHost  int
	MaxIdleConns     int
	IdleConnTimeout  time.Duration
	MaxResponseBytes int64
}

// Client fetches pages for the scraping tools over a shared pooled
// transport. Responses are read through a size cap so a pathological page
// cannot exhaust memory.
type Client struct {
	cfg  ClientConfig
	http *resty.Client
}

var _ scrape.PageFetcher = (*Client)(nil)

// NewClient wires the HTTP client for page fetches. Scrapes run with a
// longer timeout than searches because article pages are heavier than the
// search endpoints.
func NewClient(cfg ClientConfig) *Client {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpTimeout := 30 * time.Second
	if cfg.HTTPTimeout > 0 {
		httpTimeout = cfg.HTTPTimeout
	}

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

	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = defaultMaxResponseBytes
	}

	// Browser-like headers; plenty of sites serve bot-challenge pages to
	// unknown agents.
	httpClient := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5").
		SetTimeout(httpTimeout).
		SetRetryCount(0).
		SetTransport(transport)

	return &Client{cfg: cfg, http: httpClient}
}

// Fetch retrieves pageURL and returns the capped body together with the
// final URL after redirects, which callers use as the base for resolving
// relative links.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*scrape.Page, error) {
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(pageURL)
	if err != nil {
		metrics.RecordPageFetch("error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream, fmt.Sprintf("request to %s failed", pageURL), err, "")
	}
	rawBody := resp.RawBody()
	defer rawBody.Close()

	status := resp.StatusCode()
	if status >= http.StatusBadRequest {
		metrics.RecordPageFetch(strconv.Itoa(status))
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream,
			fmt.Sprintf("fetching %s returned HTTP %d", pageURL, status), nil, "")
	}

	// Read one byte past the cap so truncation is detectable.
	body, err := io.ReadAll(io.LimitReader(rawBody, c.cfg.MaxResponseBytes+1))
	if err != nil {
		metrics.RecordPageFetch("read_error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream, fmt.Sprintf("reading response from %s failed", pageURL), err, "")
	}
	if int64(len(body)) > c.cfg.MaxResponseBytes {
		body = body[:c.cfg.MaxResponseBytes]
		log.Warn().
			Str("url", pageURL).
			Int64("cap_bytes", c.cfg.MaxResponseBytes).
			Msg("page exceeds response size cap, truncated")
	}
	metrics.RecordPageFetch(strconv.Itoa(status))

	finalURL := pageURL
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	log.Debug().
		Str("url", pageURL).
		Int("status", status).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("page fetched")

	return &scrape.Page{URL: finalURL, HTML: string(body)}, nil
}
