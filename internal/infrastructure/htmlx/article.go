package htmlx

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Article is the readable content lifted out of a web page.
type Article struct {
	Title       string
	Text        string
	Authors     []string
	PublishDate string
	TopImage    string
}

// boilerplateSelector matches elements that never carry article body text.
const boilerplateSelector = "script, style, noscript, nav, aside, header, footer, form, iframe, button, figure, figcaption"

// candidateSelectors are tried in order when hunting for the main content
// container. Earlier entries are more specific signals and win outright
// once one of them yields enough text.
var candidateSelectors = []string{
	"article",
	"main",
	"[role=main]",
	"[itemprop=articleBody]",
	"#content, .post-content, .article-content, .entry-content, .article-body, .story-body, .post-body",
}

const (
	// minArticleChars is the smallest body we accept as an article.
	minArticleChars = 120
	// minParagraphChars filters out link stubs and share buttons that
	// survive boilerplate removal.
	minParagraphChars = 25
)

// ExtractArticle pulls the readable article out of the document. ok is
// false when no usable body text can be found.
func (d *Document) ExtractArticle() (Article, bool) {
	doc := goquery.NewDocumentFromNode(d.root)

	art := Article{
		Title:       articleTitle(doc),
		Authors:     articleAuthors(doc),
		PublishDate: articleDate(doc),
		TopImage:    d.articleImage(doc),
	}

	// Work on a copy so stripping boilerplate does not disturb the parsed
	// tree the metadata came from.
	working := goquery.CloneDocument(doc)
	working.Find(boilerplateSelector).Remove()

	body := articleBody(working)
	if len(body) < minArticleChars {
		return Article{}, false
	}
	art.Text = body
	return art, true
}

// articleBody finds the densest content container and returns its stitched
// paragraph text. When no candidate holds enough text it falls back to
// every paragraph on the page.
func articleBody(doc *goquery.Document) string {
	for _, sel := range candidateSelectors {
		var best string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := containerText(s); len(text) > len(best) {
				best = text
			}
		})
		if len(best) >= minArticleChars {
			return best
		}
	}
	return paragraphText(doc.Selection)
}

// containerText joins the container's paragraphs; containers that hold bare
// text without <p> wrappers fall back to their full text.
func containerText(s *goquery.Selection) string {
	if text := paragraphText(s); text != "" {
		return text
	}
	if text := CleanText(s.Text()); len(text) >= minArticleChars {
		return text
	}
	return ""
}

// paragraphText joins the cleaned text of every non-trivial <p> under s
// with blank lines.
func paragraphText(s *goquery.Selection) string {
	var parts []string
	s.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := CleanText(p.Text()); len(text) >= minParagraphChars {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

func articleTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title := CleanText(og); title != "" {
			return title
		}
	}
	if title := CleanText(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return CleanText(doc.Find("h1").First().Text())
}

func articleAuthors(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var authors []string
	add := func(raw string) {
		for _, part := range strings.Split(raw, ",") {
			name := CleanText(part)
			if name == "" || strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
				continue
			}
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			authors = append(authors, name)
		}
	}
	doc.Find(`meta[name="author"], meta[property="article:author"]`).Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("content", ""))
	})
	doc.Find(`[rel="author"], [itemprop="author"]`).Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})
	return authors
}

func articleDate(doc *goquery.Document) string {
	for _, sel := range []string{
		`meta[property="article:published_time"]`,
		`meta[itemprop="datePublished"]`,
		`meta[name="date"]`,
	} {
		if v, ok := doc.Find(sel).Attr("content"); ok {
			if date := strings.TrimSpace(v); date != "" {
				return date
			}
		}
	}
	if v, ok := doc.Find("time[datetime]").Attr("datetime"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func (d *Document) articleImage(doc *goquery.Document) string {
	for _, sel := range []string{`meta[property="og:image"]`, `meta[name="twitter:image"]`} {
		if v, ok := doc.Find(sel).Attr("content"); ok {
			if img := strings.TrimSpace(v); img != "" {
				return d.resolveURL(img)
			}
		}
	}
	return ""
}
