package adapter

import (
	"fmt"

	m "github.com/mouse-blink/quill/internal/model"
)

// LanguageAdapter encapsulates language-specific signature recognition so
// the domain layer can focus on planning and rendering while delegating
// grammar details to an infrastructure component. Adapters scan text with
// lightweight recognition, not full compilation, and share no state.
type LanguageAdapter interface {
	// Language returns the id the adapter is registered under.
	Language() m.Language

	// Extract scans src and returns the function records in source order.
	// Offsets in the records index src itself.
	Extract(src []byte) ([]m.FunctionRecord, error)
}

// Registry maps language ids to their adapters. Selection is always by
// explicit id, never by probing file contents.
type Registry struct {
	adapters map[m.Language]LanguageAdapter
}

// NewRegistry constructs a registry preloaded with every built-in adapter.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[m.Language]LanguageAdapter)}

	r.Register(NewPythonAdapter())
	r.Register(NewCSharpAdapter())
	r.Register(NewGoAdapter())

	return r
}

// Register adds or replaces the adapter for its language id.
func (r *Registry) Register(a LanguageAdapter) {
	r.adapters[a.Language()] = a
}

// Lookup returns the adapter for the language id, or
// ErrUnsupportedLanguage when none is registered.
func (r *Registry) Lookup(lang m.Language) (LanguageAdapter, error) {
	a, ok := r.adapters[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	return a, nil
}
