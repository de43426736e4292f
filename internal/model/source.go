// Package model defines the data structures for docstring generation.
package model

// Path represents a file system path.
type Path string

// Language identifies a supported source language.
type Language string

const (
	// LanguagePython covers .py sources.
	LanguagePython Language = "python"
	// LanguageCSharp covers .cs sources.
	LanguageCSharp Language = "csharp"
	// LanguageGo covers .go sources.
	LanguageGo Language = "go"
)

// Languages lists every supported language in canonical order.
func Languages() []Language {
	return []Language{LanguagePython, LanguageCSharp, LanguageGo}
}

// Extensions returns the file extensions scanned for the language.
func (l Language) Extensions() []string {
	switch l {
	case LanguagePython:
		return []string{".py"}
	case LanguageCSharp:
		return []string{".cs"}
	case LanguageGo:
		return []string{".go"}
	}

	return nil
}

// Range is a half-open [Start, End) byte span into an original file buffer.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Parameter describes one declared function parameter.
type Parameter struct {
	Name     string
	TypeHint string
	Default  string
}

// FunctionRecord is the parsed location and signature description of one
// function or method. Offsets index the immutable original buffer; the
// record is discarded once its file's edits have been applied.
type FunctionRecord struct {
	Name          string
	QualifiedName string
	Signature     string
	Language      Language

	Parameters     []Parameter
	ReturnTypeHint string
	// Raises holds exception/error names discovered by a best-effort body
	// scan, in discovery order without duplicates.
	Raises []string

	// StartOffset is the first byte of the declaration line,
	// BodyStartOffset the first byte of the line holding the first body
	// statement, EndOffset one past the last body byte.
	// StartOffset <= BodyStartOffset <= EndOffset always holds.
	StartOffset     int
	BodyStartOffset int
	EndOffset       int

	// Line is the 1-based line of the declaration, for display only.
	Line int

	// SignatureIndent is the leading whitespace of the declaration line.
	// IndentUnit is one level of the indentation observed in the body,
	// preserving tabs versus spaces.
	SignatureIndent string
	IndentUnit      string

	HasDocstring   bool
	DocstringRange *Range
}
