package adapter

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	m "github.com/mouse-blink/quill/internal/model"
)

var (
	csTypeRe  = regexp.MustCompile(`^[ \t]*(?:[A-Za-z_]\w*[ \t]+)*?(?:class|struct|interface)[ \t]+([A-Za-z_]\w*)`)
	csNameRe  = regexp.MustCompile(`([A-Za-z_]\w*)$`)
	csThrowRe = regexp.MustCompile(`\bthrow[ \t]+new[ \t]+([A-Za-z_][\w.]*)`)
)

// csModifiers are declaration modifiers stripped before the return type.
var csModifiers = map[string]struct{}{
	"public": {}, "private": {}, "protected": {}, "internal": {},
	"static": {}, "virtual": {}, "override": {}, "sealed": {},
	"abstract": {}, "async": {}, "extern": {}, "unsafe": {},
	"new": {}, "partial": {}, "readonly": {},
}

// csRejectWords can never open a method return type. Seeing one means the
// line is a statement or a non-method declaration.
var csRejectWords = map[string]struct{}{
	"if": {}, "else": {}, "while": {}, "for": {}, "foreach": {},
	"switch": {}, "catch": {}, "using": {}, "lock": {}, "return": {},
	"throw": {}, "await": {}, "yield": {}, "goto": {}, "do": {},
	"case": {}, "var": {}, "in": {}, "out": {}, "ref": {},
	"class": {}, "struct": {}, "interface": {}, "record": {},
	"enum": {}, "namespace": {}, "delegate": {}, "event": {},
	"operator": {}, "base": {}, "this": {}, "typeof": {},
	"nameof": {}, "sizeof": {},
}

// CSharpAdapter recognizes method declarations and local functions by
// scanning lines with comment and string state. Constructors, operators
// and property accessors are left alone, matching how C# projects
// document only named methods.
type CSharpAdapter struct{}

// NewCSharpAdapter constructs a CSharpAdapter.
func NewCSharpAdapter() *CSharpAdapter {
	return &CSharpAdapter{}
}

// Language returns the csharp language id.
func (a *CSharpAdapter) Language() m.Language {
	return m.LanguageCSharp
}

// csLine augments a source line with its code view.
type csLine struct {
	sourceLine
	code          string
	startsBlanked bool
}

// csScope is an enclosing type declaration, tracked by brace depth.
type csScope struct {
	name  string
	depth int
}

// csState carries lexer state across lines.
type csState struct {
	inBlockComment bool
	inVerbatim     bool
}

// Extract scans C# source and returns records in source order.
func (a *CSharpAdapter) Extract(src []byte) ([]m.FunctionRecord, error) {
	if !utf8.Valid(src) {
		return nil, errors.New("source is not valid UTF-8")
	}

	lines := annotateCSharp(splitSourceLines(src))

	codes := make([]string, len(lines))
	for i := range lines {
		codes[i] = lines[i].code
	}

	var records []m.FunctionRecord

	var scopes []csScope

	depth := 0
	pending := ""

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if !line.startsBlanked {
			if match := csTypeRe.FindStringSubmatch(line.code); match != nil {
				pending = match[1]
			} else if record, ok := a.parseMethod(src, lines, codes, i, scopes); ok {
				records = append(records, record)
			}
		}

		depth, pending, scopes = trackBraces(line.code, depth, pending, scopes)
	}

	return records, nil
}

// trackBraces walks one line's braces in order, activating a pending type
// scope on its opening brace and popping scopes that close.
func trackBraces(code string, depth int, pending string, scopes []csScope) (int, string, []csScope) {
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '{':
			depth++

			if pending != "" {
				scopes = append(scopes, csScope{name: pending, depth: depth})
				pending = ""
			}
		case '}':
			depth--

			for len(scopes) > 0 && scopes[len(scopes)-1].depth > depth {
				scopes = scopes[:len(scopes)-1]
			}
		}
	}

	return depth, pending, scopes
}

// parseMethod decides whether the line declares a method and builds its
// record when it does.
func (a *CSharpAdapter) parseMethod(src []byte, lines []csLine, codes []string, start int, scopes []csScope) (m.FunctionRecord, bool) {
	line := lines[start]

	if strings.HasPrefix(strings.TrimLeft(line.code, " \t"), "#") {
		return m.FunctionRecord{}, false
	}

	openCol := strings.IndexByte(line.code, '(')
	if openCol < 0 {
		return m.FunctionRecord{}, false
	}

	name, returnType, ok := splitHeader(line.code[:openCol])
	if !ok {
		return m.FunctionRecord{}, false
	}

	closeLine, closeCol, ok := matchBracket(codes, start, openCol)
	if !ok {
		return m.FunctionRecord{}, false
	}

	form, formLine, formCol, ok := bodyForm(codes, closeLine, closeCol+1)
	if !ok {
		return m.FunctionRecord{}, false
	}

	sigIndent := leadingWhitespace(line.text)
	rawParams := string(src[line.start+openCol+1 : lines[closeLine].start+closeCol])
	params := parseCSharpParams(rawParams)

	record := m.FunctionRecord{
		Name:            name,
		QualifiedName:   qualifyCS(scopes, name),
		Signature:       normalizeSignature(string(src[line.start : lines[closeLine].start+closeCol+1])),
		Language:        m.LanguageCSharp,
		Parameters:      params,
		ReturnTypeHint:  returnType,
		Line:            start + 1,
		SignatureIndent: sigIndent,
		IndentUnit:      "    ",
	}

	switch form {
	case '{':
		bodyClose, _, ok := matchBracket(codes, formLine, formCol)
		if !ok {
			return m.FunctionRecord{}, false
		}

		record.BodyStartOffset = lines[formLine].start + formCol + 1
		record.EndOffset = lines[bodyClose].next
		record.Raises = findThrows(lines, formLine, bodyClose)

		if unit, ok := observedUnit(lines, formLine+1, bodyClose, sigIndent); ok {
			record.IndentUnit = unit
		}
	case '>':
		endLine, _, ok := findChar(codes, formLine, formCol, ';')
		if !ok {
			return m.FunctionRecord{}, false
		}

		record.BodyStartOffset = lines[formLine].start + formCol
		record.EndOffset = lines[endLine].next
		record.Raises = findThrows(lines, formLine, endLine)
	case ';':
		record.BodyStartOffset = lines[formLine].next
		record.EndOffset = lines[formLine].next
	}

	record.StartOffset = line.start

	attrTop := firstAttributeLine(lines, start)
	if attrTop < start {
		record.StartOffset = lines[attrTop].start
	}

	if docRange, ok := docCommentAbove(lines, attrTop); ok {
		record.HasDocstring = true
		record.DocstringRange = &docRange
	}

	return record, true
}

// splitHeader takes the text before the parameter list and returns the
// method name and return type, or reports that the line is not a method
// declaration.
func splitHeader(head string) (string, string, bool) {
	if strings.Contains(head, "=") {
		return "", "", false
	}

	head = stripAttributes(head)
	head = strings.TrimRight(head, " \t")

	// A generic parameter list sits between the name and the parameters.
	if strings.HasSuffix(head, ">") {
		open := strings.LastIndexByte(head, '<')
		if open < 0 {
			return "", "", false
		}

		head = strings.TrimRight(head[:open], " \t")
	}

	nameMatch := csNameRe.FindString(head)
	if nameMatch == "" {
		return "", "", false
	}

	rest := strings.TrimRight(head[:len(head)-len(nameMatch)], " \t")
	if rest == "" || strings.HasSuffix(rest, ".") {
		return "", "", false
	}

	last := rest[len(rest)-1]
	if !isTypeEnd(last) {
		return "", "", false
	}

	words := strings.Fields(rest)
	for len(words) > 0 {
		if _, ok := csModifiers[words[0]]; !ok {
			break
		}

		words = words[1:]
	}

	if len(words) == 0 {
		return "", "", false
	}

	if _, reject := csRejectWords[words[0]]; reject {
		return "", "", false
	}

	if _, reject := csRejectWords[nameMatch]; reject {
		return "", "", false
	}

	return nameMatch, strings.Join(words, " "), true
}

// isTypeEnd reports whether a byte can close a return type.
func isTypeEnd(c byte) bool {
	return c == '_' || c == '>' || c == ']' || c == '?' || c == '*' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// stripAttributes removes leading [Attribute] groups from a declaration
// head when attributes share the line.
func stripAttributes(head string) string {
	for {
		trimmed := strings.TrimLeft(head, " \t")
		if !strings.HasPrefix(trimmed, "[") {
			return head
		}

		depth := 0

		end := -1

		for i := 0; i < len(trimmed); i++ {
			switch trimmed[i] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					end = i
				}
			}

			if end >= 0 {
				break
			}
		}

		if end < 0 {
			return head
		}

		head = trimmed[end+1:]
	}
}

// bodyForm scans past the parameter list (and any generic constraints) for
// the token that opens the method body. It returns '{' for a block body,
// '>' for an expression body with the position just after the arrow, or
// ';' for a bodyless declaration. The only parentheses tolerated before
// the body are the new() constraint's.
func bodyForm(codes []string, startLine, startCol int) (byte, int, int, bool) {
	var word []byte

	for li := startLine; li < len(codes); li++ {
		code := codes[li]

		from := 0
		if li == startLine {
			from = startCol
		}

		for ci := from; ci < len(code); ci++ {
			c := code[ci]

			switch c {
			case '{':
				return '{', li, ci, true
			case ';':
				return ';', li, ci, true
			case '=':
				if ci+1 < len(code) && code[ci+1] == '>' {
					return '>', li, ci + 2, true
				}

				return 0, 0, 0, false
			case ')':
				return 0, 0, 0, false
			case '(':
				if string(word) != "new" || ci+1 >= len(code) || code[ci+1] != ')' {
					return 0, 0, 0, false
				}

				ci++
				word = word[:0]
			default:
				if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
					word = append(word, c)
				} else {
					word = word[:0]
				}
			}
		}

		word = word[:0]
	}

	return 0, 0, 0, false
}

// parseCSharpParams splits a raw parameter list into records, dropping
// parameter modifiers and attributes.
func parseCSharpParams(raw string) []m.Parameter {
	var params []m.Parameter

	for _, piece := range splitParamList(raw) {
		piece = strings.Join(strings.Fields(piece), " ")
		if piece == "" {
			continue
		}

		param := m.Parameter{}

		if eq := strings.Index(piece, "="); eq >= 0 {
			param.Default = strings.TrimSpace(piece[eq+1:])
			piece = strings.TrimSpace(piece[:eq])
		}

		for _, mod := range []string{"ref ", "out ", "in ", "params ", "this ", "scoped "} {
			piece = strings.TrimPrefix(piece, mod)
		}

		space := strings.LastIndexByte(piece, ' ')
		if space < 0 {
			continue
		}

		param.Name = piece[space+1:]
		param.TypeHint = strings.TrimSpace(piece[:space])

		params = append(params, param)
	}

	return params
}

// splitParamList splits on commas outside brackets, strings, and the
// angle brackets of generic types.
func splitParamList(raw string) []string {
	var parts []string

	depth := 0
	start := 0

	var quote byte

	for i := 0; i < len(raw); i++ {
		c := raw[i]

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
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}

	parts = append(parts, raw[start:])

	return parts
}

// firstAttributeLine walks upward over attribute lines directly above the
// declaration and returns the topmost one, so documentation lands above
// the attributes.
func firstAttributeLine(lines []csLine, decl int) int {
	top := decl

	for li := decl - 1; li >= 0; li-- {
		if lines[li].startsBlanked {
			break
		}

		trimmed := strings.TrimSpace(lines[li].text)
		if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
			break
		}

		top = li
	}

	return top
}

// docCommentAbove finds the comment block sitting directly above the given
// line: contiguous // or /// lines, or a /* */ block ending there.
func docCommentAbove(lines []csLine, decl int) (m.Range, bool) {
	li := decl - 1
	if li < 0 {
		return m.Range{}, false
	}

	trimmed := strings.TrimSpace(lines[li].text)

	if strings.HasSuffix(trimmed, "*/") {
		opener := li
		for opener > 0 && lines[opener].startsBlanked {
			opener--
		}

		if strings.HasPrefix(strings.TrimSpace(lines[opener].text), "/*") {
			return m.Range{Start: lines[opener].start, End: lines[li].next}, true
		}

		return m.Range{}, false
	}

	if !strings.HasPrefix(trimmed, "//") {
		return m.Range{}, false
	}

	top := li
	for bi := li - 1; bi >= 0; bi-- {
		if !strings.HasPrefix(strings.TrimSpace(lines[bi].text), "//") {
			break
		}

		top = bi
	}

	return m.Range{Start: lines[top].start, End: lines[li].next}, true
}

// findThrows collects thrown exception type names between two lines in
// discovery order, without duplicates.
func findThrows(lines []csLine, first, last int) []string {
	var names []string

	seen := make(map[string]struct{})

	for li := first; li <= last && li < len(lines); li++ {
		for _, match := range csThrowRe.FindAllStringSubmatch(lines[li].code, -1) {
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

// observedUnit derives one indentation level from the first body line that
// is indented past the signature.
func observedUnit(lines []csLine, first, last int, sigIndent string) (string, bool) {
	for li := first; li < last && li < len(lines); li++ {
		if isBlank(lines[li].text) {
			continue
		}

		indent := leadingWhitespace(lines[li].text)
		if strings.HasPrefix(indent, sigIndent) && len(indent) > len(sigIndent) {
			return indent[len(sigIndent):], true
		}

		break
	}

	return "", false
}

// normalizeSignature collapses a possibly multi-line declaration into a
// single display line.
func normalizeSignature(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// qualifyCS prefixes the name with its enclosing type names.
func qualifyCS(scopes []csScope, name string) string {
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

// annotateCSharp computes each line's code view and whether it begins
// inside a block comment or verbatim string.
func annotateCSharp(lines []sourceLine) []csLine {
	annotated := make([]csLine, len(lines))

	var state csState

	for i, line := range lines {
		annotated[i] = csLine{
			sourceLine:    line,
			startsBlanked: state.inBlockComment || state.inVerbatim,
		}
		annotated[i].code = csharpCodeView(line.text, &state)
	}

	return annotated
}

// csharpCodeView blanks string and comment contents to spaces, keeping
// column positions, and cuts line comments. Block comments and verbatim
// strings carry across lines through state.
//
//nolint:cyclop,funlen // A character scanner is one state machine; splitting it obscures the states.
func csharpCodeView(text string, state *csState) string {
	var b strings.Builder

	b.Grow(len(text))

	i := 0
	for i < len(text) {
		if state.inBlockComment {
			if strings.HasPrefix(text[i:], "*/") {
				state.inBlockComment = false

				b.WriteString("  ")
				i += 2

				continue
			}

			b.WriteByte(' ')
			i++

			continue
		}

		if state.inVerbatim {
			if text[i] == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					b.WriteString("  ")
					i += 2

					continue
				}

				state.inVerbatim = false
			}

			b.WriteByte(' ')
			i++

			continue
		}

		if strings.HasPrefix(text[i:], "//") {
			break
		}

		if strings.HasPrefix(text[i:], "/*") {
			state.inBlockComment = true

			b.WriteString("  ")
			i += 2

			continue
		}

		c := text[i]

		if verbatimAt(text, i) {
			state.inVerbatim = true

			for text[i] != '"' {
				b.WriteByte(' ')
				i++
			}

			b.WriteByte(' ')
			i++

			continue
		}

		if c == '"' || c == '\'' {
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

// verbatimAt reports whether a verbatim string literal starts at i, in any
// of its @" $@" @$" spellings.
func verbatimAt(text string, i int) bool {
	switch {
	case strings.HasPrefix(text[i:], `@"`), strings.HasPrefix(text[i:], `@$"`):
		return text[i] == '@'
	case strings.HasPrefix(text[i:], `$@"`):
		return true
	}

	return false
}
