package domain

import (
	"fmt"
	"sort"

	m "github.com/mouse-blink/quill/internal/model"
)

// Applier turns planned edit operations into a modified file buffer. It
// never touches the disk; callers decide what happens to the result.
type Applier interface {
	// Apply validates ops against buffer, resolves each operation
	// against its confirmation response, and splices the accepted
	// replacements into a copy of buffer. A nil responses slice accepts
	// everything. The returned count is the number of operations that
	// made it into the result.
	Apply(buffer []byte, ops []m.EditOperation, responses []m.ConfirmResponse) ([]byte, int, error)
}

type applier struct{}

// NewApplier creates a new Applier instance.
func NewApplier() Applier {
	return &applier{}
}

func (a *applier) Apply(buffer []byte, ops []m.EditOperation, responses []m.ConfirmResponse) ([]byte, int, error) {
	if responses != nil && len(responses) != len(ops) {
		return nil, 0, fmt.Errorf("got %d responses for %d operations", len(responses), len(ops))
	}

	if err := validateOps(buffer, ops); err != nil {
		return nil, 0, err
	}

	// Applying in descending start order keeps the offsets of
	// not-yet-applied operations valid, since bytes before each
	// remaining range are still untouched.
	order := make([]int, len(ops))
	for i := range ops {
		order[i] = i
	}

	sort.Slice(order, func(i, j int) bool {
		return ops[order[i]].Range.Start > ops[order[j]].Range.Start
	})

	result := buffer
	applied := 0

	for _, idx := range order {
		text, ok := resolve(ops[idx], responses, idx)
		if !ok {
			continue
		}

		result = splice(result, ops[idx].Range, text)
		applied++
	}

	return result, applied, nil
}

// validateOps checks that every operation stays inside the buffer, that
// inserts cover no bytes while replacements cover at least one, and that
// no two ranges overlap or share a start.
func validateOps(buffer []byte, ops []m.EditOperation) error {
	for _, op := range ops {
		r := op.Range
		if r.Start < 0 || r.End < r.Start || r.End > len(buffer) {
			return fmt.Errorf("edit range [%d, %d) outside buffer of %d bytes", r.Start, r.End, len(buffer))
		}

		switch op.Kind {
		case m.EditInsert:
			if r.Len() != 0 {
				return fmt.Errorf("insert at %d covers %d bytes", r.Start, r.Len())
			}
		case m.EditReplace:
			if r.Len() == 0 {
				return fmt.Errorf("replace at %d covers no bytes", r.Start)
			}
		default:
			return fmt.Errorf("unknown edit kind %q", op.Kind)
		}
	}

	sorted := make([]m.EditOperation, len(ops))
	copy(sorted, ops)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start < sorted[j].Range.Start
	})

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1].Range, sorted[i].Range
		if cur.Start < prev.End || cur.Start == prev.Start {
			return fmt.Errorf("edit ranges [%d, %d) and [%d, %d) overlap",
				prev.Start, prev.End, cur.Start, cur.End)
		}
	}

	return nil
}

// resolve picks the text an operation should apply, honoring the
// confirmation decision. Rejected and quit candidates apply nothing, and
// an edit that cleared the text drops the candidate.
func resolve(op m.EditOperation, responses []m.ConfirmResponse, idx int) (string, bool) {
	if responses == nil {
		return op.Replacement, true
	}

	resp := responses[idx]

	switch resp.Decision {
	case m.DecisionAccept, m.DecisionEdit:
		if resp.Override != "" {
			return resp.Override, true
		}

		if resp.Decision == m.DecisionEdit {
			return "", false
		}

		return op.Replacement, true
	default:
		return "", false
	}
}

// splice rebuilds the buffer with replacement standing in for the bytes
// covered by r.
func splice(buffer []byte, r m.Range, replacement string) []byte {
	out := make([]byte, 0, len(buffer)-r.Len()+len(replacement))
	out = append(out, buffer[:r.Start]...)
	out = append(out, replacement...)
	out = append(out, buffer[r.End:]...)

	return out
}
