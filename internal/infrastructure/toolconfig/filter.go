package toolconfig

import (
	"regexp"

	"github.com/rs/zerolog/log"

	domainsearch "webscout-server/internal/domain/search"
)

// Filter drops search results whose URL or title matches a configured
// blocked pattern. Patterns are compiled once at startup; matching is
// lock-free and safe for concurrent use.
type Filter struct {
	patterns []*regexp.Regexp
}

var _ domainsearch.ResultFilter = (*Filter)(nil)

// NewFilter compiles the blocked patterns. Invalid patterns are skipped with
// a warning rather than failing startup.
func NewFilter(patterns []string) *Filter {
	return &Filter{patterns: compilePatterns(patterns)}
}

// Blocked reports whether text matches any blocked pattern.
func (f *Filter) Blocked(text string) bool {
	if f == nil || text == "" {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			log.Warn().
				Str("pattern", pattern).
				Err(err).
				Msg("Invalid regex pattern in blocked_patterns, skipping")
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}
