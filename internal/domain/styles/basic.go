package styles

import (
	m "github.com/mouse-blink/quill/internal/model"
)

// Basic renders a single-line summary docstring below the signature. The
// style has no other sections, so the no-summary option is ignored.
func Basic(record m.FunctionRecord, content m.ContentFields, _ Options) string {
	lines := []string{`"""` + content.Summary + `"""`}

	return assemble(lines, record.SignatureIndent+record.IndentUnit)
}
