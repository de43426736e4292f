package styles

import (
	"fmt"

	m "github.com/mouse-blink/quill/internal/model"
)

// XML renders C# XML documentation comments above the signature. Void
// methods and methods without a return type get no returns element.
func XML(record m.FunctionRecord, content m.ContentFields, opts Options) string {
	var lines []string

	if withSummary(record, opts) {
		lines = append(lines, "/// <summary>", "/// "+content.Summary, "/// </summary>")
	}

	for _, param := range record.Parameters {
		lines = append(lines, fmt.Sprintf("/// <param name=%q>%s</param>",
			param.Name, content.ParamText(param.Name)))
	}

	if returnsDocumented(record) {
		lines = append(lines, "/// <returns>"+content.Returns+"</returns>")
	}

	for _, name := range record.Raises {
		lines = append(lines, fmt.Sprintf("/// <exception cref=%q>%s</exception>",
			name, content.RaiseText(name)))
	}

	return assemble(lines, record.SignatureIndent)
}
