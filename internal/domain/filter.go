package domain

import (
	m "github.com/mouse-blink/quill/internal/model"
)

// matchWildcard reports whether name matches pattern. The only
// metacharacter is `*`, which matches any run of characters including
// path separators and dots. Matching is case-sensitive, so a pattern for
// `Parse*` does not select `parseHeader`.
//
// filepath.Match is deliberately not used here: its `*` stops at path
// separators and it understands `?` and character classes, neither of
// which these filters support.
func matchWildcard(pattern, name string) bool {
	// Iterative matching with one backtrack point per star, so a
	// pathological pattern cannot recurse deeply.
	var (
		p, n         int
		starP, starN = -1, -1
	)

	for n < len(name) {
		switch {
		case p < len(pattern) && pattern[p] == '*':
			starP, starN = p, n
			p++
		case p < len(pattern) && pattern[p] == name[n]:
			p++
			n++
		case starP >= 0:
			// Give the last star one more character and retry.
			starN++
			p = starP + 1
			n = starN
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}

	return p == len(pattern)
}

// matchesAny reports whether name matches at least one of the patterns.
func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matchWildcard(pattern, name) {
			return true
		}
	}

	return false
}

// selected applies a FilterSpec to a name. An empty include list selects
// nothing; an exclude match always wins over an include match.
func selected(name string, filter m.FilterSpec) bool {
	if !matchesAny(filter.Include, name) {
		return false
	}

	return !matchesAny(filter.Exclude, name)
}
