package model

// FilterSpec is a pair of wildcard pattern lists deciding which names take
// part in a run. A name is selected when it matches at least one include
// pattern and no exclude pattern; exclusion always wins. Patterns are
// case-sensitive and `*` matches any run of characters, including
// separators. No other metacharacters are recognized.
type FilterSpec struct {
	Include []string
	Exclude []string
}

// DefaultFilter selects everything.
func DefaultFilter() FilterSpec {
	return FilterSpec{Include: []string{"*"}}
}
