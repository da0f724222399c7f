package htmlx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, content, pageURL string) *Document {
	t.Helper()
	doc, err := ParseString(content, pageURL)
	require.NoError(t, err)
	return doc
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses runs", "a \t b\n\nc", "a b c"},
		{"trims ends", "  padded  ", "padded"},
		{"empty", "   ", ""},
		{"unchanged", "already clean", "already clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestVisibleTextSkipsScriptAndStyle(t *testing.T) {
	page := `<html><head><style>p { color: red }</style></head>
<body><script>var hidden = 1;</script><p>Hello   there</p><noscript>enable js</noscript><p>world</p></body></html>`
	doc := mustParse(t, page, "")
	assert.Equal(t, "Hello there world", doc.VisibleText())
}

func TestTitle(t *testing.T) {
	doc := mustParse(t, `<html><head><title> My   Page </title></head><body></body></html>`, "")
	assert.Equal(t, "My Page", doc.Title())

	doc = mustParse(t, `<html><body><p>no title here</p></body></html>`, "")
	assert.Equal(t, "", doc.Title())
}

func TestLinksResolveAndDeduplicate(t *testing.T) {
	page := `<html><body>
		<a href="/docs">Docs</a>
		<a href="https://other.example.com/x">Other</a>
		<a href="/docs">Docs</a>
		<a>no href</a>
		<a href="#section">Fragment</a>
	</body></html>`
	doc := mustParse(t, page, "https://example.com/base/")

	links := doc.Links()
	require.Len(t, links, 3)
	assert.Equal(t, Link{Text: "Docs", URL: "https://example.com/docs"}, links[0])
	assert.Equal(t, Link{Text: "Other", URL: "https://other.example.com/x"}, links[1])
	assert.Equal(t, Link{Text: "Fragment", URL: "https://example.com/base/#section"}, links[2])
}

func TestLinksWithoutBaseKeptRelative(t *testing.T) {
	doc := mustParse(t, `<a href="/docs">Docs</a>`, "")
	links := doc.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "/docs", links[0].URL)
}

func TestMetadata(t *testing.T) {
	page := `<html><head>
		<title>My Page</title>
		<meta name="description" content="A test page">
		<meta name="keywords" content="go, html">
		<meta property="og:title" content="OG My Page">
		<meta name="blank" content="">
		<meta charset="utf-8">
	</head><body></body></html>`
	doc := mustParse(t, page, "")

	md := doc.Metadata()
	assert.Equal(t, "My Page", md.Title)
	assert.Equal(t, "A test page", md.Meta["description"])
	assert.Equal(t, "go, html", md.Meta["keywords"])
	assert.Equal(t, "OG My Page", md.Meta["og:title"])
	assert.NotContains(t, md.Meta, "blank")
	assert.Len(t, md.Meta, 3)
}

func TestTablesWithTheadHeaders(t *testing.T) {
	page := `<table>
		<thead><tr><th>Name</th><th>Age</th></tr></thead>
		<tbody>
			<tr><td>Alice</td><td>30</td></tr>
			<tr><td>Bob</td><td>25</td></tr>
		</tbody>
	</table>`
	tables := mustParse(t, page, "").Tables()

	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Name", "Age"}, tables[0].Headers)
	assert.Equal(t, [][]string{{"Alice", "30"}, {"Bob", "25"}}, tables[0].Rows)
}

func TestTablesWithLeadingHeaderRow(t *testing.T) {
	page := `<table>
		<tr><th>City</th><th>Population</th></tr>
		<tr><td>Oslo</td><td>700k</td></tr>
	</table>`
	tables := mustParse(t, page, "").Tables()

	require.Len(t, tables, 1)
	assert.Equal(t, []string{"City", "Population"}, tables[0].Headers)
	assert.Equal(t, [][]string{{"Oslo", "700k"}}, tables[0].Rows)
}

func TestTablesWithoutHeaders(t *testing.T) {
	tables := mustParse(t, `<table><tr><td>1</td><td>2</td></tr></table>`, "").Tables()

	require.Len(t, tables, 1)
	assert.Nil(t, tables[0].Headers)
	assert.Equal(t, [][]string{{"1", "2"}}, tables[0].Rows)
}

func TestNestedTablesCountedSeparately(t *testing.T) {
	page := `<table>
		<tr><td>outer cell <table><tr><td>inner</td></tr></table></td></tr>
	</table>`
	tables := mustParse(t, page, "").Tables()

	require.Len(t, tables, 2)
	assert.Equal(t, [][]string{{"outer cell inner"}}, tables[0].Rows)
	assert.Equal(t, [][]string{{"inner"}}, tables[1].Rows)
}

func TestCompileSelector(t *testing.T) {
	sel, err := CompileSelector("h2.title")
	require.NoError(t, err)
	require.NotNil(t, sel)

	_, err = CompileSelector("h2[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CSS selector")
}

func TestSelectTexts(t *testing.T) {
	page := `<div><h2 class="title">First</h2><p>skip me</p><h2 class="title"> Second  heading </h2></div>`
	doc := mustParse(t, page, "")

	sel, err := CompileSelector("h2.title")
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second heading"}, doc.SelectTexts(sel))

	none, err := CompileSelector("h3")
	require.NoError(t, err)
	assert.Empty(t, doc.SelectTexts(none))
}

func TestExtractArticle(t *testing.T) {
	page := `<html><head>
		<title>Concurrency in Go - Example Blog</title>
		<meta property="og:title" content="Concurrency in Go">
		<meta name="author" content="Jane Roe, Sam Park">
		<meta property="article:published_time" content="2024-03-01T10:00:00Z">
		<meta property="og:image" content="/img/gopher.png">
	</head><body>
		<nav><a href="/">Home</a><a href="/about">About</a></nav>
		<article>
			<h1>Concurrency in Go</h1>
			<p>Go models concurrency with goroutines and channels rather than shared state.</p>
			<p>The scheduler multiplexes many goroutines onto a small pool of operating system threads.</p>
			<script>trackPageView();</script>
			<p>Channels carry typed values between goroutines and keep ownership handoffs explicit.</p>
		</article>
		<footer>All rights reserved.</footer>
	</body></html>`
	doc := mustParse(t, page, "https://blog.example.com/posts/concurrency")

	art, ok := doc.ExtractArticle()
	require.True(t, ok)
	assert.Equal(t, "Concurrency in Go", art.Title)
	assert.Equal(t, []string{"Jane Roe", "Sam Park"}, art.Authors)
	assert.Equal(t, "2024-03-01T10:00:00Z", art.PublishDate)
	assert.Equal(t, "https://blog.example.com/img/gopher.png", art.TopImage)

	assert.Contains(t, art.Text, "goroutines and channels")
	assert.Contains(t, art.Text, "ownership handoffs explicit")
	assert.NotContains(t, art.Text, "trackPageView")
	assert.NotContains(t, art.Text, "Home")
	assert.NotContains(t, art.Text, "rights reserved")
}

func TestExtractArticleParagraphFallback(t *testing.T) {
	page := `<html><body>
		<div class="random">
			<p>Plain pages without semantic containers still have their paragraphs collected.</p>
			<p>Each sufficiently long paragraph contributes to the reconstructed article body.</p>
		</div>
	</body></html>`
	doc := mustParse(t, page, "")

	art, ok := doc.ExtractArticle()
	require.True(t, ok)
	assert.True(t, strings.Contains(art.Text, "semantic containers"))
	assert.True(t, strings.Contains(art.Text, "reconstructed article body"))
}

func TestExtractArticleNothingUsable(t *testing.T) {
	doc := mustParse(t, `<html><body><nav>Home</nav><p>too short</p></body></html>`, "")

	_, ok := doc.ExtractArticle()
	assert.False(t, ok)
}
