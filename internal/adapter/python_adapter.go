package adapter

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	m "github.com/mouse-blink/quill/internal/model"
)

var (
	pyDefRe   = regexp.MustCompile(`^([ \t]*)(async[ \t]+)?def[ \t]+([A-Za-z_]\w*)[ \t]*\(`)
	pyClassRe = regexp.MustCompile(`^([ \t]*)class[ \t]+([A-Za-z_]\w*)`)
	pyRaiseRe = regexp.MustCompile(`\braise[ \t]+([A-Za-z_][\w.]*)`)
)

// pythonFallbackIndent is used only when a body yields no observable
// indentation, which valid Python does not produce.
const pythonFallbackIndent = "    "

// PythonAdapter recognizes def declarations by scanning lines with string
// and comment state, so keywords inside literals never count. It handles
// async defs, decorators, nested and member functions, and signatures that
// span multiple lines.
type PythonAdapter struct{}

// NewPythonAdapter constructs a PythonAdapter.
func NewPythonAdapter() *PythonAdapter {
	return &PythonAdapter{}
}

// Language returns the python language id.
func (a *PythonAdapter) Language() m.Language {
	return m.LanguagePython
}

// pyLine augments a source line with its code view: string literals
// blanked to spaces (columns preserved) and comments cut off.
type pyLine struct {
	sourceLine
	code           string
	startsInString bool
}

// pyScope is one enclosing class or def, for qualified names and for
// telling methods apart from nested functions.
type pyScope struct {
	name    string
	width   int
	isClass bool
}

// Extract scans Python source and returns records in source order.
func (a *PythonAdapter) Extract(src []byte) ([]m.FunctionRecord, error) {
	if !utf8.Valid(src) {
		return nil, errors.New("source is not valid UTF-8")
	}

	lines := annotatePython(splitSourceLines(src))

	codes := make([]string, len(lines))
	for i := range lines {
		codes[i] = lines[i].code
	}

	var records []m.FunctionRecord

	var scopes []pyScope

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line.startsInString || isBlank(line.code) {
			continue
		}

		indent := leadingWhitespace(line.code)
		scopes = popScopes(scopes, indentWidth(indent))

		if match := pyClassRe.FindStringSubmatch(line.code); match != nil {
			scopes = append(scopes, pyScope{name: match[2], width: indentWidth(match[1]), isClass: true})
			continue
		}

		match := pyDefRe.FindStringSubmatch(line.code)
		if match == nil {
			continue
		}

		record, endLine, ok := a.parseDef(src, lines, codes, i, match, scopes)
		if ok {
			records = append(records, record)
			scopes = append(scopes, pyScope{name: record.Name, width: indentWidth(match[1])})
		}

		i = endLine
	}

	return records, nil
}

// parseDef turns the def starting at line index start into a record. It
// returns the index of the signature's last line so the caller can resume
// after it.
func (a *PythonAdapter) parseDef(src []byte, lines []pyLine, codes []string, start int, match []string, scopes []pyScope) (m.FunctionRecord, int, bool) {
	sigIndent := match[1]
	name := match[3]

	openCol := strings.Index(lines[start].code, "(")

	closeLine, closeCol, ok := matchBracket(codes, start, openCol)
	if !ok {
		return m.FunctionRecord{}, start, false
	}

	colonLine, colonCol, ok := findChar(codes, closeLine, closeCol+1, ':')
	if !ok {
		return m.FunctionRecord{}, closeLine, false
	}

	// Anything after the colon on the same line is an inline body; a
	// docstring line cannot be placed under it, so the def is skipped.
	if rest := strings.TrimSpace(lines[colonLine].code[colonCol+1:]); rest != "" {
		return m.FunctionRecord{}, colonLine, false
	}

	rawParams := string(src[lines[start].start+openCol+1 : lines[closeLine].start+closeCol])
	returnHint := returnHintBetween(codes, closeLine, closeCol+1, colonLine, colonCol)

	params := parsePythonParams(rawParams, insideClass(scopes))

	bodyFirst, bodyLast, ok := pythonBody(lines, colonLine, indentWidth(sigIndent))
	if !ok {
		return m.FunctionRecord{}, colonLine, false
	}

	bodyIndent := leadingWhitespace(lines[bodyFirst].text)

	record := m.FunctionRecord{
		Name:            name,
		QualifiedName:   qualify(scopes, name),
		Signature:       pythonSignature(name, params, returnHint, match[2] != ""),
		Language:        m.LanguagePython,
		Parameters:      params,
		ReturnTypeHint:  returnHint,
		Raises:          pythonRaises(lines, bodyFirst, bodyLast),
		StartOffset:     lines[start].start,
		BodyStartOffset: lines[bodyFirst].start,
		EndOffset:       lines[bodyLast].next,
		Line:            start + 1,
		SignatureIndent: sigIndent,
		IndentUnit:      indentUnit(sigIndent, bodyIndent),
	}

	if docRange, ok := pythonDocstring(lines, bodyFirst); ok {
		record.HasDocstring = true
		record.DocstringRange = &docRange
	}

	return record, colonLine, true
}

// annotatePython computes each line's code view and whether it begins
// inside a triple-quoted string.
func annotatePython(lines []sourceLine) []pyLine {
	annotated := make([]pyLine, len(lines))

	var triple string

	for i, line := range lines {
		annotated[i] = pyLine{
			sourceLine:     line,
			startsInString: triple != "",
		}
		annotated[i].code = pythonCodeView(line.text, &triple)
	}

	return annotated
}

// pythonCodeView blanks string literal contents to spaces (keeping column
// positions) and drops comments. The triple state carries multi-line
// strings across calls.
//
//nolint:cyclop // A character scanner is one state machine; splitting it obscures the states.
func pythonCodeView(text string, triple *string) string {
	var b strings.Builder

	b.Grow(len(text))

	i := 0
	for i < len(text) {
		if *triple != "" {
			if strings.HasPrefix(text[i:], *triple) {
				b.WriteString("   ")
				i += 3
				*triple = ""

				continue
			}

			if text[i] == '\\' && i+1 < len(text) {
				b.WriteString("  ")
				i += 2

				continue
			}

			b.WriteByte(' ')
			i++

			continue
		}

		c := text[i]

		if c == '#' {
			break
		}

		if c == '"' || c == '\'' {
			delim := string(c) + string(c) + string(c)
			if strings.HasPrefix(text[i:], delim) {
				*triple = delim

				b.WriteString("   ")
				i += 3

				continue
			}

			// Single-quoted literal: blank through the closing quote, or
			// to end of line when unterminated.
			b.WriteByte(' ')
			i++

			for i < len(text) {
				if text[i] == '\\' && i+1 < len(text) {
					b.WriteString("  ")
					i += 2

					continue
				}

				closed := text[i] == c

				b.WriteByte(' ')
				i++

				if closed {
					break
				}
			}

			continue
		}

		b.WriteByte(c)
		i++
	}

	return b.String()
}

// returnHintBetween extracts the `-> hint` text between the parameter list
// and the colon, if present.
func returnHintBetween(codes []string, fromLine, fromCol, toLine, toCol int) string {
	var b strings.Builder

	for li := fromLine; li <= toLine; li++ {
		code := codes[li]

		lo := 0
		if li == fromLine {
			lo = fromCol
		}

		hi := len(code)
		if li == toLine {
			hi = toCol
		}

		if lo > hi {
			continue
		}

		b.WriteString(code[lo:hi])
		b.WriteByte(' ')
	}

	hint := strings.TrimSpace(b.String())
	hint = strings.TrimPrefix(hint, "->")

	return strings.Join(strings.Fields(hint), " ")
}

// parsePythonParams splits a raw parameter list into records. The first
// self/cls of a method is dropped, as are the bare * and / markers.
func parsePythonParams(raw string, method bool) []m.Parameter {
	var params []m.Parameter

	for idx, piece := range splitTopLevel(raw, ',') {
		piece = strings.Join(strings.Fields(piece), " ")
		if piece == "" || piece == "*" || piece == "/" {
			continue
		}

		param := m.Parameter{}

		rest := piece
		if eq := strings.Index(rest, "="); eq >= 0 {
			param.Default = strings.TrimSpace(rest[eq+1:])
			rest = strings.TrimSpace(rest[:eq])
		}

		if colon := strings.Index(rest, ":"); colon >= 0 {
			param.TypeHint = strings.TrimSpace(rest[colon+1:])
			rest = strings.TrimSpace(rest[:colon])
		}

		param.Name = rest

		if idx == 0 && method && (param.Name == "self" || param.Name == "cls") {
			continue
		}

		params = append(params, param)
	}

	return params
}

// pythonBody finds the first and last body line of a def whose header ends
// at colonLine. Lines inside triple-quoted strings always belong to the
// body regardless of their indentation.
func pythonBody(lines []pyLine, colonLine, defWidth int) (int, int, bool) {
	first := -1
	last := -1

	for li := colonLine + 1; li < len(lines); li++ {
		line := lines[li]

		if line.startsInString {
			last = li
			continue
		}

		if isBlank(line.text) {
			continue
		}

		width := indentWidth(leadingWhitespace(line.text))
		if width <= defWidth {
			break
		}

		if first == -1 {
			first = li
		}

		last = li
	}

	if first == -1 {
		return 0, 0, false
	}

	return first, last, true
}

// pythonDocstring reports whether the first body line opens a string
// literal docstring, and its full-line range when it does.
func pythonDocstring(lines []pyLine, bodyFirst int) (m.Range, bool) {
	trimmed := strings.TrimSpace(lines[bodyFirst].text)

	prefix := 0
	for prefix < len(trimmed) && prefix < 2 {
		switch trimmed[prefix] {
		case 'r', 'R', 'b', 'B', 'f', 'F', 'u', 'U':
			prefix++
			continue
		}

		break
	}

	literal := trimmed[prefix:]
	if literal == "" || (literal[0] != '"' && literal[0] != '\'') {
		return m.Range{}, false
	}

	quote := literal[0]
	delim := string(quote) + string(quote) + string(quote)

	if !strings.HasPrefix(literal, delim) {
		// Single-quoted docstrings occupy one line.
		return m.Range{Start: lines[bodyFirst].start, End: lines[bodyFirst].next}, true
	}

	// Closed on the opening line when a second delimiter follows.
	if strings.Contains(literal[3:], delim) {
		return m.Range{Start: lines[bodyFirst].start, End: lines[bodyFirst].next}, true
	}

	for li := bodyFirst + 1; li < len(lines); li++ {
		if strings.Contains(lines[li].text, delim) {
			return m.Range{Start: lines[bodyFirst].start, End: lines[li].next}, true
		}
	}

	// Unterminated docstring: claim through the end of the buffer.
	return m.Range{Start: lines[bodyFirst].start, End: lines[len(lines)-1].next}, true
}

// pythonRaises collects raised exception names from the body's code views
// in discovery order, without duplicates.
func pythonRaises(lines []pyLine, first, last int) []string {
	var names []string

	seen := make(map[string]struct{})

	for li := first; li <= last; li++ {
		if lines[li].startsInString {
			continue
		}

		for _, match := range pyRaiseRe.FindAllStringSubmatch(lines[li].code, -1) {
			name := match[1]
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}

// pythonSignature renders a normalized one-line signature for display.
func pythonSignature(name string, params []m.Parameter, returnHint string, async bool) string {
	var b strings.Builder

	if async {
		b.WriteString("async ")
	}

	b.WriteString("def ")
	b.WriteString(name)
	b.WriteByte('(')

	for i, param := range params {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(param.Name)

		if param.TypeHint != "" {
			b.WriteString(": ")
			b.WriteString(param.TypeHint)
		}

		if param.Default != "" {
			b.WriteString(" = ")
			b.WriteString(param.Default)
		}
	}

	b.WriteByte(')')

	if returnHint != "" {
		b.WriteString(" -> ")
		b.WriteString(returnHint)
	}

	b.WriteByte(':')

	return b.String()
}

// indentUnit derives one indentation level from the first body line.
func indentUnit(sigIndent, bodyIndent string) string {
	if strings.HasPrefix(bodyIndent, sigIndent) && len(bodyIndent) > len(sigIndent) {
		return bodyIndent[len(sigIndent):]
	}

	return pythonFallbackIndent
}

// popScopes drops scopes at or beyond the given indent width.
func popScopes(scopes []pyScope, width int) []pyScope {
	for len(scopes) > 0 && scopes[len(scopes)-1].width >= width {
		scopes = scopes[:len(scopes)-1]
	}

	return scopes
}

// insideClass reports whether the innermost enclosing scope is a class,
// making the def a method.
func insideClass(scopes []pyScope) bool {
	return len(scopes) > 0 && scopes[len(scopes)-1].isClass
}

// qualify joins enclosing scope names with the function name.
func qualify(scopes []pyScope, name string) string {
	if len(scopes) == 0 {
		return name
	}

	parts := make([]string, 0, len(scopes)+1)
	for _, scope := range scopes {
		parts = append(parts, scope.name)
	}

	parts = append(parts, name)

	return strings.Join(parts, ".")
}
