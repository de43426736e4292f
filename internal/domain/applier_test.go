package domain

import (
	"strings"
	"testing"

	m "github.com/mouse-blink/quill/internal/model"
)

const twoFuncs = "def a():\n    pass\n\ndef b():\n    pass\n"

// Body starts sit at offset 9 (first pass) and 28 (second pass).
func twoInserts() []m.EditOperation {
	return []m.EditOperation{
		{Range: m.Range{Start: 9, End: 9}, Replacement: "    \"\"\"a.\"\"\"\n", Kind: m.EditInsert},
		{Range: m.Range{Start: 28, End: 28}, Replacement: "    \"\"\"b.\"\"\"\n", Kind: m.EditInsert},
	}
}

func TestApply_InsertsInAscendingInputOrder(t *testing.T) {
	a := NewApplier()
	src := []byte(twoFuncs)

	got, applied, err := a.Apply(src, twoInserts(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 applied, got %d", applied)
	}

	want := "def a():\n    \"\"\"a.\"\"\"\n    pass\n\ndef b():\n    \"\"\"b.\"\"\"\n    pass\n"
	if string(got) != want {
		t.Fatalf("unexpected buffer:\n%q\nwant:\n%q", got, want)
	}
	if string(src) != twoFuncs {
		t.Fatalf("expected the original buffer to stay untouched")
	}
}

func TestApply_ReplaceExistingRange(t *testing.T) {
	a := NewApplier()
	src := []byte("def a():\n    \"\"\"old\"\"\"\n    pass\n")

	ops := []m.EditOperation{
		{Range: m.Range{Start: 9, End: 23}, Replacement: "    \"\"\"new.\"\"\"\n", Kind: m.EditReplace},
	}

	got, applied, err := a.Apply(src, ops, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected 1 applied, got %d", applied)
	}

	want := "def a():\n    \"\"\"new.\"\"\"\n    pass\n"
	if string(got) != want {
		t.Fatalf("unexpected buffer:\n%q\nwant:\n%q", got, want)
	}
}

func TestApply_RejectsOutOfBounds(t *testing.T) {
	a := NewApplier()

	ops := []m.EditOperation{
		{Range: m.Range{Start: 2, End: 99}, Replacement: "x", Kind: m.EditReplace},
	}

	if _, _, err := a.Apply([]byte("short"), ops, nil); err == nil {
		t.Fatalf("expected an out-of-bounds error")
	}
}

func TestApply_RejectsOverlap(t *testing.T) {
	a := NewApplier()
	src := []byte(twoFuncs)

	ops := []m.EditOperation{
		{Range: m.Range{Start: 5, End: 20}, Replacement: "x", Kind: m.EditReplace},
		{Range: m.Range{Start: 10, End: 15}, Replacement: "y", Kind: m.EditReplace},
	}

	if _, _, err := a.Apply(src, ops, nil); err == nil {
		t.Fatalf("expected an overlap error")
	}

	// An insert landing inside a replaced range overlaps too.
	ops = []m.EditOperation{
		{Range: m.Range{Start: 5, End: 20}, Replacement: "x", Kind: m.EditReplace},
		{Range: m.Range{Start: 12, End: 12}, Replacement: "y", Kind: m.EditInsert},
	}

	if _, _, err := a.Apply(src, ops, nil); err == nil {
		t.Fatalf("expected an overlap error for the inner insert")
	}
}

func TestApply_RejectsKindRangeMismatch(t *testing.T) {
	a := NewApplier()
	src := []byte(twoFuncs)

	insertWithSpan := []m.EditOperation{
		{Range: m.Range{Start: 0, End: 3}, Replacement: "x", Kind: m.EditInsert},
	}
	if _, _, err := a.Apply(src, insertWithSpan, nil); err == nil {
		t.Fatalf("expected an error for an insert covering bytes")
	}

	emptyReplace := []m.EditOperation{
		{Range: m.Range{Start: 3, End: 3}, Replacement: "x", Kind: m.EditReplace},
	}
	if _, _, err := a.Apply(src, emptyReplace, nil); err == nil {
		t.Fatalf("expected an error for a replace covering nothing")
	}
}

func TestApply_ResponsesDropAndOverride(t *testing.T) {
	a := NewApplier()
	src := []byte(twoFuncs)

	responses := []m.ConfirmResponse{
		{Decision: m.DecisionReject},
		{Decision: m.DecisionEdit, Override: "    \"\"\"Custom text.\"\"\"\n"},
	}

	got, applied, err := a.Apply(src, twoInserts(), responses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected 1 applied, got %d", applied)
	}
	if strings.Contains(string(got), "\"\"\"a.\"\"\"") {
		t.Fatalf("expected the rejected candidate to be dropped")
	}
	if !strings.Contains(string(got), "Custom text.") {
		t.Fatalf("expected the override text to be applied")
	}
}

func TestApply_ResponseCountMustMatch(t *testing.T) {
	a := NewApplier()

	_, _, err := a.Apply([]byte(twoFuncs), twoInserts(), []m.ConfirmResponse{{Decision: m.DecisionAccept}})
	if err == nil {
		t.Fatalf("expected an error for mismatched response count")
	}
}

func TestApply_NothingAcceptedLeavesBufferAlone(t *testing.T) {
	a := NewApplier()

	responses := []m.ConfirmResponse{
		{Decision: m.DecisionReject},
		{Decision: m.DecisionReject},
	}

	got, applied, err := a.Apply([]byte(twoFuncs), twoInserts(), responses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected 0 applied, got %d", applied)
	}
	if string(got) != twoFuncs {
		t.Fatalf("expected an unchanged buffer")
	}
}
