// Package controller provides the user-facing surfaces for confirming
// candidates and displaying run results.
package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/quill/internal/model"
)

// UI is the surface a run talks to: candidate confirmation and report
// display. Implementations can use different output methods (simple
// text, TUI, etc).
type UI interface {
	Confirm(path m.Path, candidates []m.Candidate) ([]m.ConfirmResponse, error)
	ShowRunReport(report m.RunReport)
	ShowCheckReport(report m.CheckReport)
	ShowHistory(runs []m.RunRecord)
}

// NewUI creates a UI based on whether TTY mode is enabled.
// This is a factory function following the factory pattern.
// When useTTY is true, it returns a TUI (Bubble Tea).
// When useTTY is false, it returns a SimpleUI (plain text).
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY checks if the given writer is a terminal (TTY).
// Returns true if the output is an interactive terminal.
// Returns false if the output is redirected to a file or pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
