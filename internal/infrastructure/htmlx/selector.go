package htmlx

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// Selector is a compiled CSS selector ready for matching.
type Selector = cascadia.Selector

// CompileSelector validates a CSS selector, returning a descriptive error
// for bad syntax. Callers use it to fail selector problems before any fetch
// happens.
func CompileSelector(selector string) (Selector, error) {
	compiled, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid CSS selector %q: %v", selector, err)
	}
	return compiled, nil
}

// SelectTexts returns the cleaned text of every element matching the
// compiled selector, in document order.
func (d *Document) SelectTexts(selector cascadia.Selector) []string {
	matches := selector.MatchAll(d.root)
	texts := make([]string, 0, len(matches))
	for _, n := range matches {
		texts = append(texts, CleanText(nodeText(n)))
	}
	return texts
}
