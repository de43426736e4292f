package adapter

import (
	"errors"
	"testing"

	m "github.com/mouse-blink/quill/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	registry := NewRegistry()

	t.Run("preloaded languages resolve", func(t *testing.T) {
		for _, lang := range m.Languages() {
			found, err := registry.Lookup(lang)
			require.NoError(t, err)
			assert.Equal(t, lang, found.Language())
		}
	})

	t.Run("unknown language yields typed error", func(t *testing.T) {
		_, err := registry.Lookup(m.Language("cobol"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
	})
}

func TestExtractionError_Unwrap(t *testing.T) {
	cause := errors.New("bad bytes")
	err := &ExtractionError{Path: m.Path("a.py"), Err: cause}

	assert.Contains(t, err.Error(), "a.py")
	assert.True(t, errors.Is(err, cause))
}
