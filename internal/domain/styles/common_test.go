package styles

import (
	"strings"

	m "github.com/mouse-blink/quill/internal/model"
)

func pythonRecord() m.FunctionRecord {
	return m.FunctionRecord{
		Name:          "add",
		QualifiedName: "add",
		Language:      m.LanguagePython,
		Parameters: []m.Parameter{
			{Name: "a", TypeHint: "int"},
			{Name: "b"},
		},
		ReturnTypeHint: "int",
		Raises:         []string{"ValueError"},
		IndentUnit:     "    ",
	}
}

func csharpRecord() m.FunctionRecord {
	return m.FunctionRecord{
		Name:          "Add",
		QualifiedName: "Calculator.Add",
		Language:      m.LanguageCSharp,
		Parameters: []m.Parameter{
			{Name: "a", TypeHint: "int"},
			{Name: "b", TypeHint: "int"},
		},
		ReturnTypeHint:  "int",
		Raises:          []string{"ArgumentException"},
		SignatureIndent: "    ",
		IndentUnit:      "    ",
	}
}

func goRecord() m.FunctionRecord {
	return m.FunctionRecord{
		Name:          "Sum",
		QualifiedName: "Sum",
		Language:      m.LanguageGo,
		Parameters: []m.Parameter{
			{Name: "a", TypeHint: "int"},
			{Name: "b", TypeHint: "int"},
		},
		ReturnTypeHint: "int",
		IndentUnit:     "\t",
	}
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func splitBlock(block string) []string {
	return strings.Split(strings.TrimSuffix(block, "\n"), "\n")
}

func trimTrailing(line string) string {
	return strings.TrimRight(line, " \t")
}
