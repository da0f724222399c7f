// Package htmlx wraps HTML parsing and the extraction primitives the scrape
// tools are built on: visible text, links, metadata, tables, CSS-selector
// scoped text and article content.
package htmlx

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// CleanText collapses all whitespace runs to single spaces and trims the
// result. Every extracted string goes through it.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// Truncate shortens s to at most max runes, appending a "…" marker when
// anything was cut. Non-positive max disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// Document is a parsed HTML page together with the URL it was fetched from,
// used to resolve relative links.
type Document struct {
	root *html.Node
	base *url.URL
}

// Parse reads and parses an HTML page. pageURL is the address the page was
// fetched from; it may be empty, in which case relative links are returned
// unresolved.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := &Document{root: root}
	if pageURL != "" {
		if base, err := url.Parse(pageURL); err == nil {
			doc.base = base
		}
	}
	return doc, nil
}

// ParseString parses an in-memory HTML document.
func ParseString(content, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(content), pageURL)
}

// Root exposes the parsed tree for selector matching.
func (d *Document) Root() *html.Node {
	return d.root
}

// VisibleText returns the page's rendered text with script and style
// contents removed and whitespace collapsed.
func (d *Document) VisibleText() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return CleanText(sb.String())
}

// Title returns the cleaned contents of the <title> element, or "".
func (d *Document) Title() string {
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			title = CleanText(nodeText(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return title
}

// resolveURL turns href into an absolute URL against the page base. It
// returns the input unchanged when the base is unknown or the href does not
// parse.
func (d *Document) resolveURL(href string) string {
	if d.base == nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return d.base.ResolveReference(ref).String()
}

// nodeText concatenates every text node under n.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
