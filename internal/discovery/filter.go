package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters names by a wildcard pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// Match reports whether name matches pattern using wildcard matching, e.g.
// "*CalculatorTests" or "*Payment*". The last dot-separated segment of name
// is tried as well, so "Add*" matches "CalcTests.Add(1, 2)".
func (f *Filter) Match(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	if matchOne(name, pattern) {
		return true
	}
	if i := strings.LastIndex(stripParams(name), "."); i >= 0 {
		return matchOne(name[i+1:], pattern)
	}
	return false
}

func stripParams(name string) string {
	if i := strings.Index(name, "("); i >= 0 {
		return name[:i]
	}
	return name
}

func matchOne(name, pattern string) bool {
	// Try to match using filepath.Match (supports * and ? wildcards)
	matched, err := filepath.Match(pattern, name)
	if err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match,
	// try a more flexible substring match for patterns like "*Payment*"
	if strings.Contains(pattern, "*") {
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			if !strings.Contains(name, part) {
				return false
			}
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
