package adapter

import "strings"

// sourceLine is one physical line of an original buffer. Offsets always
// index the raw buffer; text excludes the line terminator so regexes see
// identical input for LF and CRLF files.
type sourceLine struct {
	text  string
	start int
	next  int // offset of the following line (one past this line's terminator)
}

// splitSourceLines cuts src into lines while keeping raw byte offsets.
func splitSourceLines(src []byte) []sourceLine {
	var lines []sourceLine

	start := 0

	for i := 0; i < len(src); i++ {
		if src[i] != '\n' {
			continue
		}

		end := i
		if end > start && src[end-1] == '\r' {
			end--
		}

		lines = append(lines, sourceLine{
			text:  string(src[start:end]),
			start: start,
			next:  i + 1,
		})
		start = i + 1
	}

	if start < len(src) {
		end := len(src)
		if end > start && src[end-1] == '\r' {
			end--
		}

		lines = append(lines, sourceLine{
			text:  string(src[start:end]),
			start: start,
			next:  len(src),
		})
	}

	return lines
}

// leadingWhitespace returns the run of spaces and tabs opening the line.
func leadingWhitespace(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] != ' ' && text[i] != '\t' {
			return text[:i]
		}
	}

	return text
}

// indentWidth measures an indent for comparisons. Tabs count as one column;
// only relative ordering matters for scope tracking.
func indentWidth(indent string) int {
	return len(indent)
}

// isBlank reports whether the line holds only whitespace.
func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// matchBracket finds the position closing the bracket opened at
// (startLine, openCol), scanning per-line code views in which string and
// comment contents are already blanked.
func matchBracket(codes []string, startLine, openCol int) (int, int, bool) {
	depth := 0

	for li := startLine; li < len(codes); li++ {
		code := codes[li]

		from := 0
		if li == startLine {
			from = openCol
		}

		for ci := from; ci < len(code); ci++ {
			switch code[ci] {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
				if depth == 0 {
					return li, ci, true
				}
			}
		}
	}

	return 0, 0, false
}

// findChar locates the next occurrence of c in the code views, starting at
// (startLine, startCol).
func findChar(codes []string, startLine, startCol int, c byte) (int, int, bool) {
	for li := startLine; li < len(codes); li++ {
		code := codes[li]

		from := 0
		if li == startLine {
			from = startCol
		}

		for ci := from; ci < len(code); ci++ {
			if code[ci] == c {
				return li, ci, true
			}
		}
	}

	return 0, 0, false
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// brackets or quoted strings, so parameter lists with container defaults
// split correctly.
func splitTopLevel(s string, sep byte) []string {
	var parts []string

	depth := 0
	start := 0

	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}

			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	parts = append(parts, s[start:])

	return parts
}
