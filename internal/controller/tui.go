package controller

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/quill/internal/model"
)

// TUI implements UI using Bubble Tea for interactive confirmation.
type TUI struct {
	cmd *cobra.Command
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd}
}

// Confirm runs the interactive review program for one file's candidates.
func (t *TUI) Confirm(path m.Path, candidates []m.Candidate) ([]m.ConfirmResponse, error) {
	if len(candidates) == 0 {
		return []m.ConfirmResponse{}, nil
	}

	program := tea.NewProgram(
		newConfirmModel(path, candidates),
		tea.WithInput(t.cmd.InOrStdin()),
		tea.WithOutput(t.cmd.OutOrStdout()),
	)

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("confirmation ui: %w", err)
	}

	model, ok := final.(confirmModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final model %T", final)
	}

	return model.responses(), nil
}

// ShowRunReport prints a colored per-file summary.
func (t *TUI) ShowRunReport(report m.RunReport) {
	headline := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	t.printf("%s\n", headline.Render(fmt.Sprintf("Run %s", report.ID)))

	for _, result := range report.Results {
		line := fmt.Sprintf("%-8s %s", result.Status, result.Path)
		if result.Reason != "" {
			line += fmt.Sprintf(" (%s)", result.Reason)
		}

		t.printf("%s\n", statusStyle(result.Status).Render(line))
	}

	t.printf("%d written / %d skipped / %d failed, %d docstrings\n",
		report.Written(), report.Skipped(), report.Failed(), report.Functions())

	if report.DryRun {
		t.printf("dry run: no files were modified\n")
	}
}

// ShowCheckReport prints undocumented functions and scan failures.
func (t *TUI) ShowCheckReport(report m.CheckReport) {
	if len(report.Undocumented) == 0 && len(report.Failures) == 0 {
		t.printf("all functions documented across %d file(s)\n", report.Files)

		return
	}

	location := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	for _, fn := range report.Undocumented {
		t.printf("%s  %s\n",
			location.Render(fmt.Sprintf("%s:%d", fn.Path, fn.Line)), fn.Signature)
	}

	for path, reason := range report.Failures {
		t.printf("failed to scan %s: %s\n", path, reason)
	}

	t.printf("%d undocumented across %d file(s)\n", len(report.Undocumented), report.Files)
}

// ShowHistory prints recorded runs, newest first.
func (t *TUI) ShowHistory(runs []m.RunRecord) {
	if len(runs) == 0 {
		t.printf("no recorded runs\n")

		return
	}

	id := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

	for _, run := range runs {
		t.printf("%s  %s  %s/%s  %d written / %d skipped / %d failed, %d docstrings\n",
			id.Render(run.ID),
			run.StartedAt.Format("2006-01-02 15:04"),
			run.Language,
			run.Style,
			run.Written,
			run.Skipped,
			run.Failed,
			run.Functions,
		)
	}
}

func statusStyle(status m.FileStatus) lipgloss.Style {
	switch status {
	case m.StatusSkipped:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	case m.StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	}
}

func (t *TUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(t.cmd.OutOrStdout(), format, args...)
}
