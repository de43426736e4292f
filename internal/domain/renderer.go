package domain

import (
	"fmt"

	"github.com/mouse-blink/quill/internal/domain/styles"
	m "github.com/mouse-blink/quill/internal/model"
)

// Renderer turns a function record and its content into a docstring text
// block for one style.
type Renderer interface {
	Render(record m.FunctionRecord, style m.DocstringStyle, content m.ContentFields, noSummary bool) (string, error)
}

type renderer struct{}

// NewRenderer creates a new Renderer instance.
func NewRenderer() Renderer {
	return &renderer{}
}

// Render dispatches to the style implementations. Rendering is pure, so
// the same record and content always produce the same block.
func (r *renderer) Render(record m.FunctionRecord, style m.DocstringStyle, content m.ContentFields, noSummary bool) (string, error) {
	opts := styles.Options{NoSummary: noSummary}

	switch style {
	case m.StyleBasic:
		return styles.Basic(record, content, opts), nil
	case m.StylePEP:
		return styles.PEP(record, content, opts), nil
	case m.StyleNumpy:
		return styles.NumPy(record, content, opts), nil
	case m.StyleDoxygen:
		return styles.Doxygen(record, content, opts), nil
	case m.StyleXML:
		return styles.XML(record, content, opts), nil
	case m.StyleGodoc:
		return styles.Godoc(record, content, opts), nil
	}

	return "", fmt.Errorf("unsupported style: %s", style)
}
