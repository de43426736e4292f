package controller

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/quill/internal/model"
)

func confirmCandidates() []m.Candidate {
	return []m.Candidate{
		{
			Record: m.FunctionRecord{
				Name:          "add",
				QualifiedName: "Calculator.add",
				Signature:     "def add(self, a, b):",
				Line:          3,
			},
			Rendered: "    \"\"\"_summary_\"\"\"\n",
		},
		{
			Record: m.FunctionRecord{
				Name:          "sub",
				QualifiedName: "Calculator.sub",
				Signature:     "def sub(self, a, b):",
				Line:          7,
			},
			Rendered: "    \"\"\"_summary_\"\"\"\n",
			Existing: "    \"\"\"Old text.\"\"\"\n",
		},
	}
}

func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func TestConfirmModel_AcceptAdvancesAndQuitsAfterLast(t *testing.T) {
	model := newConfirmModel("calc.py", confirmCandidates())

	next, cmd := model.Update(keyMsg("a"))
	updated := next.(confirmModel)
	if cmd != nil {
		t.Fatalf("expected no cmd after first accept")
	}
	if updated.index != 1 || len(updated.decisions) != 1 {
		t.Fatalf("index = %d, decisions = %d, want 1 and 1", updated.index, len(updated.decisions))
	}
	if updated.decisions[0].Decision != m.DecisionAccept {
		t.Fatalf("decision = %v, want accept", updated.decisions[0].Decision)
	}

	next, cmd = updated.Update(keyMsg("a"))
	updated = next.(confirmModel)
	if cmd == nil {
		t.Fatalf("expected quit cmd after last candidate")
	}
	if !updated.done {
		t.Fatalf("expected done after last candidate")
	}

	responses := updated.responses()
	if len(responses) != 2 {
		t.Fatalf("responses = %d, want 2", len(responses))
	}
}

func TestConfirmModel_RejectRecordsSkip(t *testing.T) {
	model := newConfirmModel("calc.py", confirmCandidates())

	next, _ := model.Update(keyMsg("s"))
	updated := next.(confirmModel)
	if updated.decisions[0].Decision != m.DecisionReject {
		t.Fatalf("decision = %v, want reject", updated.decisions[0].Decision)
	}
}

func TestConfirmModel_QuitStopsImmediately(t *testing.T) {
	model := newConfirmModel("calc.py", confirmCandidates())

	next, cmd := model.Update(keyMsg("q"))
	updated := next.(confirmModel)
	if cmd == nil {
		t.Fatalf("expected quit cmd")
	}
	if !updated.done {
		t.Fatalf("expected done after quit")
	}

	responses := updated.responses()
	if len(responses) != 1 || responses[0].Decision != m.DecisionQuit {
		t.Fatalf("responses = %+v, want single quit", responses)
	}
}

func TestConfirmModel_EditorFinishedRecordsOverride(t *testing.T) {
	model := newConfirmModel("calc.py", confirmCandidates())

	edited := filepath.Join(t.TempDir(), "edited.txt")
	if err := os.WriteFile(edited, []byte("    \"\"\"Hand written.\"\"\""), 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}

	next, _ := model.Update(editorFinishedMsg{path: edited})
	updated := next.(confirmModel)
	if len(updated.decisions) != 1 {
		t.Fatalf("decisions = %d, want 1", len(updated.decisions))
	}

	got := updated.decisions[0]
	if got.Decision != m.DecisionEdit {
		t.Fatalf("decision = %v, want edit", got.Decision)
	}
	if got.Override != "    \"\"\"Hand written.\"\"\"\n" {
		t.Fatalf("override = %q, want trailing newline restored", got.Override)
	}

	if _, err := os.Stat(edited); !os.IsNotExist(err) {
		t.Fatalf("temp file not cleaned up")
	}
}

func TestConfirmModel_EditorFailureKeepsCandidate(t *testing.T) {
	model := newConfirmModel("calc.py", confirmCandidates())

	next, _ := model.Update(editorFinishedMsg{path: "gone.txt", err: os.ErrNotExist})
	updated := next.(confirmModel)
	if updated.editErr == nil {
		t.Fatalf("expected editErr to be set")
	}
	if len(updated.decisions) != 0 || updated.index != 0 {
		t.Fatalf("editor failure must not advance")
	}

	view := updated.View()
	if !strings.Contains(view, "editor failed") {
		t.Fatalf("View() missing editor error\n%s", view)
	}
}

func TestConfirmModel_View(t *testing.T) {
	model := newConfirmModel("calc.py", confirmCandidates())

	next, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	updated := next.(confirmModel)
	if updated.width != 100 || updated.height != 40 {
		t.Fatalf("window size not applied")
	}

	view := updated.View()
	if !strings.Contains(view, "calc.py") {
		t.Fatalf("View() missing path\n%s", view)
	}
	if !strings.Contains(view, "Calculator.add") {
		t.Fatalf("View() missing qualified name\n%s", view)
	}
	if !strings.Contains(view, "a accept") {
		t.Fatalf("View() missing footer\n%s", view)
	}

	updated.done = true
	if got := updated.View(); got != "" {
		t.Fatalf("View() after done = %q, want empty", got)
	}
}

func TestConfirmModel_ShowsExistingTextWhenOverwriting(t *testing.T) {
	model := newConfirmModel("calc.py", confirmCandidates())

	next, _ := model.Update(keyMsg("a"))
	updated := next.(confirmModel)

	view := updated.View()
	if !strings.Contains(view, "Old text.") {
		t.Fatalf("View() missing current docstring\n%s", view)
	}
	if !strings.Contains(view, "Calculator.sub") {
		t.Fatalf("View() missing second candidate\n%s", view)
	}
}

func TestConfirmModel_OtherKeysScrollViewport(t *testing.T) {
	model := newConfirmModel("calc.py", confirmCandidates())

	next, _ := model.Update(keyMsg("j"))
	updated := next.(confirmModel)
	if len(updated.decisions) != 0 || updated.index != 0 {
		t.Fatalf("scroll key must not record a decision")
	}
}
