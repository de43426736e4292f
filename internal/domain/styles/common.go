// Package styles renders docstring text blocks, one function per
// supported documentation style. Every block ends with exactly one
// trailing newline, carries the anchor indentation on each non-empty
// line, and keeps blank lines truly empty so no trailing whitespace is
// ever written.
package styles

import (
	"strings"

	m "github.com/mouse-blink/quill/internal/model"
)

// Options tweaks rendering without changing the style itself.
type Options struct {
	// NoSummary drops the summary section where the style allows it. The
	// summary is kept when the block would otherwise come out empty, so
	// no function ever receives a blank docstring.
	NoSummary bool
}

// typeOrAny falls back to Any for parameters without a type hint.
func typeOrAny(p m.Parameter) string {
	if p.TypeHint != "" {
		return p.TypeHint
	}

	return "Any"
}

// returnsDocumented reports whether a hint-driven style has a return
// value worth documenting. Functions without a return hint and void
// methods have nothing to say.
func returnsDocumented(record m.FunctionRecord) bool {
	return record.ReturnTypeHint != "" && record.ReturnTypeHint != "void"
}

// withSummary decides whether a style whose other sections are all
// optional should still open with the summary.
func withSummary(record m.FunctionRecord, opts Options) bool {
	if !opts.NoSummary {
		return true
	}

	return len(record.Parameters) == 0 && !returnsDocumented(record) && len(record.Raises) == 0
}

// joinSections flattens sections into one line list, separated by single
// blank lines.
func joinSections(sections [][]string) []string {
	var lines []string

	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}

		lines = append(lines, section...)
	}

	return lines
}

// assemble prefixes indent to every non-empty line and terminates each
// line, including the last, with a newline.
func assemble(lines []string, indent string) string {
	var b strings.Builder

	for _, line := range lines {
		if line != "" {
			b.WriteString(indent)
			b.WriteString(line)
		}

		b.WriteByte('\n')
	}

	return b.String()
}
