package htmlx

import (
	"golang.org/x/net/html"
)

// Link is one hyperlink with its cleaned anchor text and absolute target.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Links extracts every anchor with an href, resolved to an absolute URL
// against the page base. The result is deduplicated on (URL, Text),
// preserving first-occurrence order.
func (d *Document) Links() []Link {
	var links []Link
	seen := make(map[Link]struct{})

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); href != "" {
				link := Link{
					Text: CleanText(nodeText(n)),
					URL:  d.resolveURL(href),
				}
				if _, dup := seen[link]; !dup {
					seen[link] = struct{}{}
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return links
}

// Metadata holds the page title plus raw meta tag values keyed by their
// name or property attribute.
type Metadata struct {
	Title string
	Meta  map[string]string
}

// Metadata collects the <title> element and every <meta> tag carrying a
// name or property attribute together with non-empty content.
func (d *Document) Metadata() Metadata {
	md := Metadata{Meta: make(map[string]string)}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if md.Title == "" {
					md.Title = CleanText(nodeText(n))
				}
			case "meta":
				key := attr(n, "name")
				if key == "" {
					key = attr(n, "property")
				}
				content := attr(n, "content")
				if key != "" && content != "" {
					md.Meta[key] = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return md
}

// Table is one extracted <table>: header cells (when the table declares
// them) and the data rows in document order.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Tables extracts every table on the page. Headers come from the first
// thead row, falling back to a leading all-th row; remaining tr rows become
// data rows with cleaned cell text.
func (d *Document) Tables() []Table {
	var tables []Table

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, extractTable(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return tables
}

// extractTable collects headers and rows belonging directly to table,
// leaving nested tables to their own entries.
func extractTable(table *html.Node) Table {
	var headerRow []string
	var rows [][]string
	var inThead bool

	var rowCells func(tr *html.Node) (cells []string, allHeader bool)
	rowCells = func(tr *html.Node) ([]string, bool) {
		var cells []string
		allHeader := true
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "th":
				cells = append(cells, CleanText(nodeText(c)))
			case "td":
				cells = append(cells, CleanText(nodeText(c)))
				allHeader = false
			}
		}
		return cells, allHeader
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				if n != table {
					return
				}
			case "thead":
				inThead = true
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				inThead = false
				return
			case "tr":
				cells, allHeader := rowCells(n)
				if len(cells) == 0 {
					return
				}
				if headerRow == nil && (inThead || (allHeader && len(rows) == 0)) {
					headerRow = cells
					return
				}
				rows = append(rows, cells)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return Table{Headers: headerRow, Rows: rows}
}
