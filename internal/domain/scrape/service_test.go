package scrape

import (
	"context"
	"errors"
	"strings"
	"testing"

	"webscout-server/utils/platformerrors"
)

// fakeFetcher serves pages from memory and records how it was called.
type fakeFetcher struct {
	pages map[string]string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	content, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("no such page")
	}
	return &Page{URL: pageURL, HTML: content}, nil
}

func newService(fetcher *fakeFetcher, maxChars int) *ScrapeService {
	return NewScrapeService(fetcher, ServiceConfig{MaxContentChars: maxChars})
}

const textPage = `<html><head><title>Sample</title><script>var x = 1;</script></head>
<body>
  <p class="note">First note paragraph.</p>
  <p>Plain paragraph.</p>
  <p class="note">Second note paragraph.</p>
</body></html>`

func TestScrapeTextWholePage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/a": textPage}}
	svc := newService(fetcher, 0)

	got, err := svc.ScrapeText(context.Background(), "https://example.com/a", "")
	if err != nil {
		t.Fatalf("ScrapeText returned error: %v", err)
	}
	if got.Count != 1 || len(got.Content) != 1 {
		t.Fatalf("expected one content entry, got %d", got.Count)
	}
	if strings.Contains(got.Content[0], "var x") {
		t.Errorf("content %q includes script text", got.Content[0])
	}
	for _, want := range []string{"First note paragraph.", "Plain paragraph.", "Second note paragraph."} {
		if !strings.Contains(got.Content[0], want) {
			t.Errorf("content %q is missing %q", got.Content[0], want)
		}
	}
	if got.URL != "https://example.com/a" {
		t.Errorf("url = %q, want requested url", got.URL)
	}
}

func TestScrapeTextWithSelector(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/a": textPage}}
	svc := newService(fetcher, 0)

	got, err := svc.ScrapeText(context.Background(), "https://example.com/a", "p.note")
	if err != nil {
		t.Fatalf("ScrapeText returned error: %v", err)
	}
	want := []string{"First note paragraph.", "Second note paragraph."}
	if got.Count != len(want) {
		t.Fatalf("count = %d, want %d", got.Count, len(want))
	}
	for i, entry := range got.Content {
		if entry != want[i] {
			t.Errorf("content[%d] = %q, want %q", i, entry, want[i])
		}
	}
}

func TestScrapeTextSelectorMatchesNothing(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/a": textPage}}
	svc := newService(fetcher, 0)

	got, err := svc.ScrapeText(context.Background(), "https://example.com/a", "div.missing")
	if err != nil {
		t.Fatalf("ScrapeText returned error: %v", err)
	}
	if got.Count != 0 || len(got.Content) != 0 {
		t.Errorf("expected empty content, got %+v", got.Content)
	}
}

func TestScrapeTextInvalidSelectorSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{}}
	svc := newService(fetcher, 0)

	_, err := svc.ScrapeText(context.Background(), "https://example.com/a", "p[")
	if err == nil {
		t.Fatal("expected error for invalid selector")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("error type is not validation: %v", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher was called %d times for invalid selector", fetcher.calls)
	}
}

func TestScrapeTextTruncatesContent(t *testing.T) {
	long := strings.Repeat("abcde ", 100)
	page := "<html><body><p>" + long + "</p></body></html>"
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/long": page}}
	svc := newService(fetcher, 20)

	got, err := svc.ScrapeText(context.Background(), "https://example.com/long", "")
	if err != nil {
		t.Fatalf("ScrapeText returned error: %v", err)
	}
	if got.Count != 1 {
		t.Fatalf("count = %d, want 1", got.Count)
	}
	entry := got.Content[0]
	if !strings.HasSuffix(entry, "…") {
		t.Errorf("truncated content %q has no marker", entry)
	}
	if runes := []rune(entry); len(runes) != 21 {
		t.Errorf("truncated content has %d runes, want 20 plus marker", len(runes))
	}
}

func TestScrapeRejectsBadURLs(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
	}{
		{name: "ftp scheme", pageURL: "ftp://example.com/file"},
		{name: "javascript scheme", pageURL: "javascript:alert(1)"},
		{name: "no scheme", pageURL: "example.com/page"},
		{name: "no host", pageURL: "http://"},
		{name: "empty", pageURL: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{pages: map[string]string{}}
			svc := newService(fetcher, 0)

			_, err := svc.ScrapeText(context.Background(), tt.pageURL, "")
			if err == nil {
				t.Fatalf("expected error for url %q", tt.pageURL)
			}
			if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
				t.Errorf("error type is not validation: %v", err)
			}
			if fetcher.calls != 0 {
				t.Errorf("fetcher was called for invalid url %q", tt.pageURL)
			}
		})
	}
}

func TestScrapeWrapsFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	svc := newService(fetcher, 0)

	_, err := svc.ScrapeText(context.Background(), "https://down.example.com", "")
	if err == nil {
		t.Fatal("expected error when fetch fails")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUpstream) {
		t.Errorf("error type is not upstream: %v", err)
	}
	if !strings.Contains(err.Error(), "https://down.example.com") {
		t.Errorf("error %q does not name the url", err.Error())
	}
}

const linksPage = `<html><body>
  <a href="/docs">Documentation</a>
  <a href="https://other.example.org/page">External page</a>
  <a href="/docs">Documentation</a>
  <a href="mailto:team@example.com">Mail us</a>
</body></html>`

func TestExtractLinksResolvesAndDeduplicates(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/start": linksPage}}
	svc := newService(fetcher, 0)

	got, err := svc.ExtractLinks(context.Background(), "https://example.com/start", "")
	if err != nil {
		t.Fatalf("ExtractLinks returned error: %v", err)
	}
	if got.Count != 3 {
		t.Fatalf("count = %d, want 3 after dedup", got.Count)
	}
	if got.Links[0].URL != "https://example.com/docs" {
		t.Errorf("relative href not resolved: %q", got.Links[0].URL)
	}
	if got.Links[0].Text != "Documentation" {
		t.Errorf("anchor text = %q", got.Links[0].Text)
	}
	if got.SourceURL != "https://example.com/start" {
		t.Errorf("source url = %q", got.SourceURL)
	}
}

func TestExtractLinksPatternFiltersURLAndText(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/start": linksPage}}
	svc := newService(fetcher, 0)

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{name: "matches url", pattern: `other\.example\.org`, want: 1},
		{name: "matches anchor text", pattern: "Documentation", want: 1},
		{name: "matches nothing", pattern: "zzz-no-match", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ExtractLinks(context.Background(), "https://example.com/start", tt.pattern)
			if err != nil {
				t.Fatalf("ExtractLinks returned error: %v", err)
			}
			if got.Count != tt.want {
				t.Errorf("count = %d, want %d", got.Count, tt.want)
			}
			if got.Links == nil {
				t.Error("links must be an empty slice, not nil")
			}
		})
	}
}

func TestExtractLinksInvalidPatternSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{}}
	svc := newService(fetcher, 0)

	_, err := svc.ExtractLinks(context.Background(), "https://example.com/start", "[")
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("error type is not validation: %v", err)
	}
	if !strings.Contains(err.Error(), "invalid link filter pattern") {
		t.Errorf("error %q does not describe the pattern problem", err.Error())
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher was called %d times for invalid pattern", fetcher.calls)
	}
}

func TestExtractMetadata(t *testing.T) {
	page := `<html><head>
  <title>Page Title</title>
  <meta name="description" content="A test page.">
  <meta name="author" content="Jane Doe">
  <meta property="og:title" content="OG Title">
  <meta property="og:image" content="https://example.com/img.png">
  <meta name="viewport" content="width=device-width">
</head><body></body></html>`
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/meta": page}}
	svc := newService(fetcher, 0)

	got, err := svc.ExtractMetadata(context.Background(), "https://example.com/meta")
	if err != nil {
		t.Fatalf("ExtractMetadata returned error: %v", err)
	}

	want := map[string]string{
		"title":       "Page Title",
		"description": "A test page.",
		"author":      "Jane Doe",
		"og_title":    "OG Title",
		"og_image":    "https://example.com/img.png",
	}
	for key, value := range want {
		if got.Metadata[key] != value {
			t.Errorf("metadata[%q] = %q, want %q", key, got.Metadata[key], value)
		}
	}
	for _, absent := range []string{"keywords", "og_description", "viewport"} {
		if _, ok := got.Metadata[absent]; ok {
			t.Errorf("metadata unexpectedly contains %q", absent)
		}
	}
}

func TestScrapeTableWithHeaders(t *testing.T) {
	page := `<html><body><table>
  <thead><tr><th>Name</th><th>Age</th></tr></thead>
  <tbody>
    <tr><td>Alice</td><td>30</td></tr>
    <tr><td>Bob</td><td>25</td></tr>
  </tbody>
</table></body></html>`
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/t": page}}
	svc := newService(fetcher, 0)

	got, err := svc.ScrapeTable(context.Background(), "https://example.com/t", 0)
	if err != nil {
		t.Fatalf("ScrapeTable returned error: %v", err)
	}
	if got.RowCount != 2 {
		t.Fatalf("row count = %d, want 2", got.RowCount)
	}
	if len(got.Headers) != 2 || got.Headers[0] != "Name" || got.Headers[1] != "Age" {
		t.Errorf("headers = %v", got.Headers)
	}
	if got.Rows[0]["Name"] != "Alice" || got.Rows[0]["Age"] != "30" {
		t.Errorf("row[0] = %v", got.Rows[0])
	}
	if got.Rows[1]["Name"] != "Bob" || got.Rows[1]["Age"] != "25" {
		t.Errorf("row[1] = %v", got.Rows[1])
	}
}

func TestScrapeTableWithoutHeadersUsesPositionalKeys(t *testing.T) {
	page := `<html><body><table>
  <tr><td>red</td><td>green</td></tr>
  <tr><td>blue</td><td>yellow</td><td>purple</td></tr>
</table></body></html>`
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/t": page}}
	svc := newService(fetcher, 0)

	got, err := svc.ScrapeTable(context.Background(), "https://example.com/t", 0)
	if err != nil {
		t.Fatalf("ScrapeTable returned error: %v", err)
	}
	if len(got.Headers) != 3 {
		t.Fatalf("headers sized to widest row: got %v", got.Headers)
	}
	if got.Headers[0] != "column_1" || got.Headers[2] != "column_3" {
		t.Errorf("positional headers = %v", got.Headers)
	}
	if got.Rows[0]["column_1"] != "red" {
		t.Errorf("row[0] = %v", got.Rows[0])
	}
	if _, ok := got.Rows[0]["column_3"]; ok {
		t.Error("short row must not carry keys for missing cells")
	}
	if got.Rows[1]["column_3"] != "purple" {
		t.Errorf("row[1] = %v", got.Rows[1])
	}
}

func TestScrapeTableSelectsByIndex(t *testing.T) {
	page := `<html><body>
<table><tr><th>A</th></tr><tr><td>first</td></tr></table>
<table><tr><th>B</th></tr><tr><td>second</td></tr></table>
</body></html>`
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/t": page}}
	svc := newService(fetcher, 0)

	got, err := svc.ScrapeTable(context.Background(), "https://example.com/t", 1)
	if err != nil {
		t.Fatalf("ScrapeTable returned error: %v", err)
	}
	if got.Rows[0]["B"] != "second" {
		t.Errorf("row = %v, want second table", got.Rows[0])
	}
}

func TestScrapeTableErrors(t *testing.T) {
	withTable := `<html><body><table><tr><th>A</th></tr><tr><td>x</td></tr></table></body></html>`
	tests := []struct {
		name    string
		page    string
		index   int
		wantMsg string
	}{
		{
			name:    "no tables",
			page:    "<html><body><p>nothing tabular</p></body></html>",
			index:   0,
			wantMsg: "no tables found on page",
		},
		{
			name:    "index out of range",
			page:    withTable,
			index:   3,
			wantMsg: "table index 3 out of range. Found 1 tables.",
		},
		{
			name:    "negative index",
			page:    withTable,
			index:   -1,
			wantMsg: "table index -1 out of range. Found 1 tables.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/t": tt.page}}
			svc := newService(fetcher, 0)

			_, err := svc.ScrapeTable(context.Background(), "https://example.com/t", tt.index)
			if err == nil {
				t.Fatal("expected error")
			}
			if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeExtraction) {
				t.Errorf("error type is not extraction: %v", err)
			}
			var pe *platformerrors.PlatformError
			if !errors.As(err, &pe) {
				t.Fatalf("error is not a platform error: %v", err)
			}
			if pe.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", pe.Message, tt.wantMsg)
			}
		})
	}
}

const articlePage = `<html><head>
  <title>Fallback Title</title>
  <meta property="og:title" content="Understanding Goroutine Scheduling">
  <meta name="author" content="Jane Doe, John Smith">
  <meta property="article:published_time" content="2024-03-14T09:00:00Z">
  <meta property="og:image" content="/images/lead.png">
</head><body>
  <nav><a href="/">Home</a></nav>
  <article>
    <p>Goroutines are multiplexed onto a small number of operating system threads by the runtime scheduler.</p>
    <p>The scheduler uses work stealing so idle processors can take runnable goroutines from busy ones.</p>
    <p>Blocking system calls hand the thread back so other goroutines keep running without interruption.</p>
  </article>
  <footer>Copyright</footer>
</body></html>`

func TestExtractArticle(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/post": articlePage}}
	svc := newService(fetcher, 0)

	got, err := svc.ExtractArticle(context.Background(), "https://example.com/post")
	if err != nil {
		t.Fatalf("ExtractArticle returned error: %v", err)
	}
	if got.Title != "Understanding Goroutine Scheduling" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Authors) != 2 || got.Authors[0] != "Jane Doe" || got.Authors[1] != "John Smith" {
		t.Errorf("authors = %v", got.Authors)
	}
	if got.PublishDate != "2024-03-14T09:00:00Z" {
		t.Errorf("publish date = %q", got.PublishDate)
	}
	if got.TopImage != "https://example.com/images/lead.png" {
		t.Errorf("top image not resolved: %q", got.TopImage)
	}
	if !strings.Contains(got.Content, "work stealing") {
		t.Errorf("content is missing body text: %q", got.Content)
	}
	if strings.Contains(got.Content, "Home") || strings.Contains(got.Content, "Copyright") {
		t.Errorf("content includes boilerplate: %q", got.Content)
	}
	if got.ContentLength != len([]rune(got.Content)) {
		t.Errorf("content length = %d, want %d", got.ContentLength, len([]rune(got.Content)))
	}
}

func TestExtractArticleNoContent(t *testing.T) {
	page := `<html><head><title>Empty</title></head><body><nav>menu</nav></body></html>`
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/empty": page}}
	svc := newService(fetcher, 0)

	_, err := svc.ExtractArticle(context.Background(), "https://example.com/empty")
	if err == nil {
		t.Fatal("expected extraction error for empty page")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeExtraction) {
		t.Errorf("error type is not extraction: %v", err)
	}
	var pe *platformerrors.PlatformError
	if !errors.As(err, &pe) {
		t.Fatalf("error is not a platform error: %v", err)
	}
	if pe.Message != "no article content could be extracted" {
		t.Errorf("message = %q", pe.Message)
	}
}

func TestExtractArticleTruncatesContent(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/post": articlePage}}
	svc := newService(fetcher, 30)

	got, err := svc.ExtractArticle(context.Background(), "https://example.com/post")
	if err != nil {
		t.Fatalf("ExtractArticle returned error: %v", err)
	}
	if !strings.HasSuffix(got.Content, "…") {
		t.Errorf("truncated content %q has no marker", got.Content)
	}
	if got.ContentLength != 31 {
		t.Errorf("content length = %d, want 30 plus marker", got.ContentLength)
	}
}
