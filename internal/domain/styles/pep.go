package styles

import (
	"fmt"

	m "github.com/mouse-blink/quill/internal/model"
)

// PEP renders a PEP 257 docstring with Google-style sections below the
// signature. Sections keep a fixed order and the return section is always
// present, even for functions without a return hint.
func PEP(record m.FunctionRecord, content m.ContentFields, opts Options) string {
	unit := record.IndentUnit

	sections := make([][]string, 0, 4)

	if !opts.NoSummary {
		sections = append(sections, []string{content.Summary})
	}

	if len(record.Parameters) > 0 {
		section := []string{"Args:"}
		for _, param := range record.Parameters {
			section = append(section, fmt.Sprintf("%s%s (%s): %s",
				unit, param.Name, typeOrAny(param), content.ParamText(param.Name)))
		}

		sections = append(sections, section)
	}

	sections = append(sections, []string{"Returns:", unit + content.Returns})

	if len(record.Raises) > 0 {
		section := []string{"Raises:"}
		for _, name := range record.Raises {
			section = append(section, fmt.Sprintf("%s%s: %s", unit, name, content.RaiseText(name)))
		}

		sections = append(sections, section)
	}

	lines := append([]string{`"""`}, joinSections(sections)...)
	lines = append(lines, `"""`)

	return assemble(lines, record.SignatureIndent+unit)
}
