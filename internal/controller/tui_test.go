package controller

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/quill/internal/model"
)

func newTestTUI() (*TUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetIn(strings.NewReader(""))

	return NewTUI(cmd), &buf
}

func TestTUI_Confirm_EmptyCandidates(t *testing.T) {
	tui, _ := newTestTUI()

	responses, err := tui.Confirm("calc.py", nil)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	if len(responses) != 0 {
		t.Fatalf("responses = %d, want 0", len(responses))
	}
}

func TestTUI_ShowRunReport(t *testing.T) {
	tui, buf := newTestTUI()

	tui.ShowRunReport(m.RunReport{
		ID:     "ab12cd34",
		DryRun: true,
		Results: []m.FileResult{
			{Path: "calc.py", Status: m.StatusWritten, Functions: 2},
			{Path: "util.py", Status: m.StatusSkipped, Reason: "nothing to document"},
		},
	})

	output := buf.String()

	for _, want := range []string{
		"Run ab12cd34",
		"calc.py",
		"util.py",
		"nothing to document",
		"1 written / 1 skipped / 0 failed, 2 docstrings",
		"dry run: no files were modified",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestTUI_ShowCheckReport(t *testing.T) {
	tui, buf := newTestTUI()

	tui.ShowCheckReport(m.CheckReport{
		Files: 2,
		Undocumented: []m.Undocumented{
			{Path: "calc.py", Line: 3, Name: "Calculator.add", Signature: "def add(self, a, b):"},
		},
		Failures: map[m.Path]string{"broken.py": "unreadable"},
	})

	output := buf.String()

	for _, want := range []string{
		"calc.py:3",
		"def add(self, a, b):",
		"failed to scan broken.py: unreadable",
		"1 undocumented across 2 file(s)",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestTUI_ShowCheckReport_AllDocumented(t *testing.T) {
	tui, buf := newTestTUI()

	tui.ShowCheckReport(m.CheckReport{Files: 3})

	if !strings.Contains(buf.String(), "all functions documented across 3 file(s)") {
		t.Fatalf("output missing clean summary\noutput:\n%s", buf.String())
	}
}

func TestTUI_ShowHistory(t *testing.T) {
	tui, buf := newTestTUI()

	tui.ShowHistory([]m.RunRecord{
		{
			ID:        "ab12cd34",
			StartedAt: time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC),
			Language:  m.LanguagePython,
			Style:     m.StylePEP,
			Written:   2,
			Functions: 5,
		},
	})

	output := buf.String()

	for _, want := range []string{"ab12cd34", "2025-11-03 14:30", "python/PEP", "5 docstrings"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestTUI_ShowHistory_Empty(t *testing.T) {
	tui, buf := newTestTUI()

	tui.ShowHistory(nil)

	if !strings.Contains(buf.String(), "no recorded runs") {
		t.Fatalf("output missing empty notice\noutput:\n%s", buf.String())
	}
}
