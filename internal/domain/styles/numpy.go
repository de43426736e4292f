package styles

import (
	"strings"

	m "github.com/mouse-blink/quill/internal/model"
)

// NumPy renders a numpydoc docstring below the signature. Section headers
// carry a dash rule of the same width; entry descriptions sit one indent
// unit deep.
func NumPy(record m.FunctionRecord, content m.ContentFields, opts Options) string {
	unit := record.IndentUnit

	sections := make([][]string, 0, 4)

	if !opts.NoSummary {
		sections = append(sections, []string{content.Summary})
	}

	if len(record.Parameters) > 0 {
		section := underlined("Parameters")
		for _, param := range record.Parameters {
			section = append(section, param.Name+" : "+typeOrAny(param), unit+content.ParamText(param.Name))
		}

		sections = append(sections, section)
	}

	returns := underlined("Returns")
	if record.ReturnTypeHint != "" {
		returns = append(returns, record.ReturnTypeHint)
	}

	returns = append(returns, unit+content.Returns)
	sections = append(sections, returns)

	if len(record.Raises) > 0 {
		section := underlined("Raises")
		for _, name := range record.Raises {
			section = append(section, name, unit+content.RaiseText(name))
		}

		sections = append(sections, section)
	}

	lines := append([]string{`"""`}, joinSections(sections)...)
	lines = append(lines, `"""`)

	return assemble(lines, record.SignatureIndent+unit)
}

// underlined starts a numpydoc section: its header and a dash rule of the
// same width.
func underlined(header string) []string {
	return []string{header, strings.Repeat("-", len(header))}
}
