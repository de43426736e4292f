package controller

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/quill/internal/model"
)

// confirmModel steps through one file's candidates, recording a decision
// for each before quitting.
type confirmModel struct {
	path       m.Path
	candidates []m.Candidate
	decisions  []m.ConfirmResponse
	index      int
	viewport   viewport.Model
	width      int
	height     int
	done       bool
	editErr    error
}

func newConfirmModel(path m.Path, candidates []m.Candidate) confirmModel {
	model := confirmModel{
		path:       path,
		candidates: candidates,
		decisions:  make([]m.ConfirmResponse, 0, len(candidates)),
		viewport:   viewport.New(80, 16),
	}
	model.syncViewport()

	return model
}

func (c confirmModel) Init() tea.Cmd {
	return nil
}

func (c confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height

		bodyHeight := msg.Height - 10
		if bodyHeight < 5 {
			bodyHeight = 5
		}

		bodyWidth := msg.Width - 6
		if bodyWidth < 20 {
			bodyWidth = 20
		}

		c.viewport.Width = bodyWidth
		c.viewport.Height = bodyHeight

		return c, nil

	case editorFinishedMsg:
		return c.handleEditorFinished(msg)

	case tea.KeyMsg:
		return c.handleKey(msg)
	}

	return c, nil
}

func (c confirmModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a", "enter":
		return c.record(m.ConfirmResponse{Decision: m.DecisionAccept})
	case "s":
		return c.record(m.ConfirmResponse{Decision: m.DecisionReject})
	case "e":
		return c.startEditor()
	case "q", "ctrl+c":
		c.decisions = append(c.decisions, m.ConfirmResponse{Decision: m.DecisionQuit})
		c.done = true

		return c, tea.Quit
	default:
		// Pass all other key events to the viewport for scrolling.
		var cmd tea.Cmd

		c.viewport, cmd = c.viewport.Update(msg)

		return c, cmd
	}
}

// record stores the decision for the current candidate and advances,
// quitting after the last one.
func (c confirmModel) record(response m.ConfirmResponse) (tea.Model, tea.Cmd) {
	c.decisions = append(c.decisions, response)
	c.index++
	c.editErr = nil

	if c.index >= len(c.candidates) {
		c.done = true

		return c, tea.Quit
	}

	c.syncViewport()

	return c, nil
}

// startEditor stages the rendered block in a temp file and suspends the
// program while the user's editor runs on it.
func (c confirmModel) startEditor() (tea.Model, tea.Cmd) {
	tmp, err := os.CreateTemp("", "quill-edit-*.txt")
	if err != nil {
		c.editErr = err

		return c, nil
	}

	name := tmp.Name()

	if _, err := tmp.WriteString(c.candidates[c.index].Rendered); err != nil {
		_ = tmp.Close()
		c.editErr = err

		return c, nil
	}

	if err := tmp.Close(); err != nil {
		c.editErr = err

		return c, nil
	}

	editor := exec.Command(editorCommand(), name)

	return c, tea.ExecProcess(editor, func(err error) tea.Msg {
		return editorFinishedMsg{path: name, err: err}
	})
}

func (c confirmModel) handleEditorFinished(msg editorFinishedMsg) (tea.Model, tea.Cmd) {
	defer func() {
		_ = os.Remove(msg.path)
	}()

	if msg.err != nil {
		c.editErr = msg.err

		return c, nil
	}

	edited, err := os.ReadFile(msg.path)
	if err != nil {
		c.editErr = err

		return c, nil
	}

	return c.record(m.ConfirmResponse{
		Decision: m.DecisionEdit,
		Override: ensureTrailingNewline(string(edited)),
	})
}

func (c *confirmModel) syncViewport() {
	if c.index >= len(c.candidates) {
		return
	}

	candidate := c.candidates[c.index]

	var b strings.Builder

	if candidate.Existing != "" {
		label := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true)

		b.WriteString(label.Render("current"))
		b.WriteString("\n")
		b.WriteString(candidate.Existing)
		b.WriteString("\n")
		b.WriteString(label.Render("replacement"))
		b.WriteString("\n")
	}

	b.WriteString(candidate.Rendered)

	c.viewport.SetContent(b.String())
	c.viewport.GotoTop()
}

// responses returns the recorded decisions once the program finishes.
func (c confirmModel) responses() []m.ConfirmResponse {
	return c.decisions
}

func (c confirmModel) View() string {
	if c.done {
		return ""
	}

	if len(c.candidates) == 0 || c.index >= len(c.candidates) {
		return "Nothing to confirm.\n"
	}

	candidate := c.candidates[c.index]

	// Styles
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan

	signatureStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")).
		Padding(0, 0, 0, 2)

	// 1. Title
	title := titleStyle.Render(fmt.Sprintf("✏️ Quill Review: %s", c.path))

	// 2. Summary
	summary := summaryStyle.Render(fmt.Sprintf(
		"Candidate %s of %s   %s (line %d)",
		accentStyle.Render(fmt.Sprintf("%d", c.index+1)),
		accentStyle.Render(fmt.Sprintf("%d", len(c.candidates))),
		candidate.Record.QualifiedName,
		candidate.Record.Line,
	))

	// 3. Signature
	signature := signatureStyle.Render(candidate.Record.Signature)

	// 4. Candidate body with border
	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1).
		Render(c.viewport.View())

	// 5. Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(c.width)

	footer := footerStyle.Render("a accept • e edit • s skip • q quit • ↑/↓ scroll")

	parts := []string{title, summary, signature, body, footer}

	if c.editErr != nil {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Padding(0, 0, 0, 2)

		parts = append(parts, errStyle.Render(fmt.Sprintf("editor failed: %v", c.editErr)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
