package styles

import (
	"fmt"

	m "github.com/mouse-blink/quill/internal/model"
)

// Doxygen renders triple-slash Doxygen commands above the signature,
// sharing the returns rule of the XML style.
func Doxygen(record m.FunctionRecord, content m.ContentFields, opts Options) string {
	var lines []string

	if withSummary(record, opts) {
		lines = append(lines, "/// @brief "+content.Summary)
	}

	for _, param := range record.Parameters {
		lines = append(lines, fmt.Sprintf("/// @param %s %s", param.Name, content.ParamText(param.Name)))
	}

	if returnsDocumented(record) {
		lines = append(lines, "/// @return "+content.Returns)
	}

	for _, name := range record.Raises {
		lines = append(lines, fmt.Sprintf("/// @throws %s %s", name, content.RaiseText(name)))
	}

	return assemble(lines, record.SignatureIndent)
}
