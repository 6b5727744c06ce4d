package auth

import (
	"strings"

	"github.com/samber/lo"
)

const wildcard = "*"

// PathRule is one excluded-path pattern. A pattern ending in "*" matches by
// prefix; any other pattern matches exactly, ignoring trailing slashes.
type PathRule struct {
	pattern string
	prefix  bool
}

// ParsePathRule parses a single pattern.
func ParsePathRule(pattern string) PathRule {
	if strings.HasSuffix(pattern, wildcard) {
		return PathRule{pattern: strings.TrimSuffix(pattern, wildcard), prefix: true}
	}
	return PathRule{pattern: strings.TrimRight(pattern, "/")}
}

// Match reports whether a path with trailing slashes already stripped
// matches the rule.
func (p PathRule) Match(normalized string) bool {
	if p.prefix {
		return strings.HasPrefix(normalized, p.pattern)
	}
	return normalized == p.pattern
}

// String returns the pattern as it was written.
func (p PathRule) String() string {
	if p.prefix {
		return p.pattern + wildcard
	}
	return p.pattern
}

// ExcludedPaths is an ordered, immutable set of rules for paths that need no
// authentication.
type ExcludedPaths struct {
	rules []PathRule
}

// NewExcludedPaths parses patterns in order. Empty patterns are skipped.
func NewExcludedPaths(patterns ...string) *ExcludedPaths {
	return &ExcludedPaths{
		rules: lo.FilterMap(patterns, func(p string, _ int) (PathRule, bool) {
			return ParsePathRule(p), p != ""
		}),
	}
}

// Len returns the number of rules.
func (e *ExcludedPaths) Len() int {
	if e == nil {
		return 0
	}
	return len(e.rules)
}

// Patterns returns the rules as written, in evaluation order.
func (e *ExcludedPaths) Patterns() []string {
	if e == nil {
		return nil
	}
	return lo.Map(e.rules, func(r PathRule, _ int) string { return r.String() })
}

// RequiresAuth reports whether path needs authentication. It is false only
// when the path, with trailing slashes stripped, matches a rule; the first
// matching rule ends evaluation. An empty path or a nil/empty rule set
// always requires authentication.
func RequiresAuth(path string, excluded *ExcludedPaths) bool {
	if path == "" || excluded.Len() == 0 {
		return true
	}

	normalized := strings.TrimRight(path, "/")
	_, found := lo.Find(excluded.rules, func(rule PathRule) bool {
		return rule.Match(normalized)
	})
	return !found
}
