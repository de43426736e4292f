package model

// Decision is the user's answer for one candidate docstring.
type Decision int

const (
	// DecisionAccept applies the candidate as rendered (or as edited).
	DecisionAccept Decision = iota
	// DecisionReject drops the candidate.
	DecisionReject
	// DecisionEdit means the user replaced the rendered text; the override
	// travels with the response.
	DecisionEdit
	// DecisionQuit cancels the current file and the rest of the run.
	DecisionQuit
)

// Candidate is one rendered docstring awaiting confirmation.
type Candidate struct {
	Record   FunctionRecord
	Rendered string
	// Existing carries the current docstring text when overwriting, for
	// display next to the replacement.
	Existing string
	Op       EditOperation
}

// ConfirmResponse is the outcome of confirming one candidate.
type ConfirmResponse struct {
	Decision Decision
	// Override holds the edited text when Decision is DecisionEdit or when
	// the user accepted after editing.
	Override string
}
