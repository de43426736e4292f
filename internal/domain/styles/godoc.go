package styles

import (
	"fmt"

	m "github.com/mouse-blink/quill/internal/model"
)

// Godoc renders a Go doc comment above the declaration, opening with the
// function name and using gofmt-style list bullets for parameters.
// Raise names are ignored since doc comments have no section for them.
func Godoc(record m.FunctionRecord, content m.ContentFields, opts Options) string {
	sections := make([][]string, 0, 3)

	if withSummary(record, opts) {
		sections = append(sections, []string{"// " + record.Name + " " + content.Summary})
	}

	if len(record.Parameters) > 0 {
		section := []string{"// Parameters:"}
		for _, param := range record.Parameters {
			section = append(section, fmt.Sprintf("//   - %s: %s", param.Name, content.ParamText(param.Name)))
		}

		sections = append(sections, section)
	}

	if returnsDocumented(record) {
		sections = append(sections, []string{"// Returns: " + content.Returns})
	}

	var lines []string

	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "//")
		}

		lines = append(lines, section...)
	}

	return assemble(lines, record.SignatureIndent)
}
