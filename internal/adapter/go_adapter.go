package adapter

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	m "github.com/mouse-blink/quill/internal/model"
)

// GoAdapter extracts function declarations through go/parser, so
// recognition matches the compiler instead of approximating it.
type GoAdapter struct{}

// NewGoAdapter constructs a GoAdapter.
func NewGoAdapter() *GoAdapter {
	return &GoAdapter{}
}

// Language returns the go language id.
func (a *GoAdapter) Language() m.Language {
	return m.LanguageGo
}

// Extract parses Go source and returns records for every function and
// method that has a body.
func (a *GoAdapter) Extract(src []byte) ([]m.FunctionRecord, error) {
	fileSet := token.NewFileSet()

	file, err := parser.ParseFile(fileSet, "src.go", src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var records []m.FunctionRecord

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}

		records = append(records, a.record(fileSet, src, fn))
	}

	return records, nil
}

func (a *GoAdapter) record(fileSet *token.FileSet, src []byte, fn *ast.FuncDecl) m.FunctionRecord {
	funcPos := fileSet.Position(fn.Pos())
	funcOff := funcPos.Offset
	lineStart := funcOff - (funcPos.Column - 1)

	record := m.FunctionRecord{
		Name:            fn.Name.Name,
		QualifiedName:   qualifyGo(src, fileSet, fn),
		Signature:       normalizeSignature(string(src[funcOff:fileSet.Position(fn.Body.Lbrace).Offset])),
		Language:        m.LanguageGo,
		Parameters:      goParams(src, fileSet, fn.Type.Params),
		ReturnTypeHint:  goResults(src, fileSet, fn.Type.Results),
		StartOffset:     lineStart,
		BodyStartOffset: fileSet.Position(fn.Body.Lbrace).Offset + 1,
		EndOffset:       fileSet.Position(fn.End()).Offset,
		Line:            funcPos.Line,
		SignatureIndent: string(src[lineStart:funcOff]),
		IndentUnit:      "\t",
	}

	if unit, ok := goBodyUnit(src, fileSet, fn, record.SignatureIndent); ok {
		record.IndentUnit = unit
	}

	if fn.Doc != nil {
		docPos := fileSet.Position(fn.Doc.Pos())
		start := docPos.Offset - (docPos.Column - 1)
		end := fileSet.Position(fn.Doc.End()).Offset

		if nl := indexByteFrom(src, end, '\n'); nl >= 0 {
			end = nl + 1
		} else {
			end = len(src)
		}

		record.HasDocstring = true
		record.DocstringRange = &m.Range{Start: start, End: end}
	}

	return record
}

// qualifyGo prefixes methods with their receiver type name.
func qualifyGo(src []byte, fileSet *token.FileSet, fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}

	field := fn.Recv.List[0]
	typeText := string(src[fileSet.Position(field.Type.Pos()).Offset:fileSet.Position(field.Type.End()).Offset])
	typeText = strings.TrimPrefix(typeText, "*")

	return typeText + "." + fn.Name.Name
}

func goParams(src []byte, fileSet *token.FileSet, fields *ast.FieldList) []m.Parameter {
	if fields == nil {
		return nil
	}

	var params []m.Parameter

	for _, field := range fields.List {
		typeText := string(src[fileSet.Position(field.Type.Pos()).Offset:fileSet.Position(field.Type.End()).Offset])

		if len(field.Names) == 0 {
			params = append(params, m.Parameter{Name: "_", TypeHint: typeText})
			continue
		}

		for _, ident := range field.Names {
			params = append(params, m.Parameter{Name: ident.Name, TypeHint: typeText})
		}
	}

	return params
}

func goResults(src []byte, fileSet *token.FileSet, results *ast.FieldList) string {
	if results == nil || len(results.List) == 0 {
		return ""
	}

	text := string(src[fileSet.Position(results.Pos()).Offset:fileSet.Position(results.End()).Offset])

	return strings.Join(strings.Fields(text), " ")
}

// goBodyUnit observes the indentation step of the first body statement.
func goBodyUnit(src []byte, fileSet *token.FileSet, fn *ast.FuncDecl, sigIndent string) (string, bool) {
	if len(fn.Body.List) == 0 {
		return "", false
	}

	stmtPos := fileSet.Position(fn.Body.List[0].Pos())
	lineStart := stmtPos.Offset - (stmtPos.Column - 1)
	indent := string(src[lineStart:stmtPos.Offset])

	if strings.TrimSpace(indent) != "" {
		return "", false
	}

	if strings.HasPrefix(indent, sigIndent) && len(indent) > len(sigIndent) {
		return indent[len(sigIndent):], true
	}

	return "", false
}

func indexByteFrom(src []byte, from int, c byte) int {
	for i := from; i < len(src); i++ {
		if src[i] == c {
			return i
		}
	}

	return -1
}
