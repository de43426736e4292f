package adapter

import (
	"errors"
	"fmt"

	m "github.com/mouse-blink/quill/internal/model"
)

// ErrUnsupportedLanguage is returned when no language adapter is registered
// for the requested language id. Fatal to the file, not the run.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrProviderUnavailable means the content backend could not be reached or
// refused the request. Recoverable: callers fall back to placeholders.
var ErrProviderUnavailable = errors.New("content provider unavailable")

// ErrProviderTimeout means the content backend did not answer in time.
// Recoverable like ErrProviderUnavailable.
var ErrProviderTimeout = errors.New("content provider timed out")

// ExtractionError marks a file whose source could not be scanned. It is
// scoped to that file so the rest of the run continues.
type ExtractionError struct {
	Path m.Path
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// WriteError marks a file that could not be written. Scoped to that file.
type WriteError struct {
	Path m.Path
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
