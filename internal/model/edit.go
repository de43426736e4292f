package model

// EditKind represents the category of a buffer edit.
type EditKind string

const (
	// EditInsert inserts replacement text at an empty range.
	EditInsert EditKind = "insert"
	// EditReplace substitutes the bytes covered by the range.
	EditReplace EditKind = "replace"
)

// EditOperation is one planned change to a file buffer. Operations within a
// file never overlap; applying them in descending start order keeps the
// offsets of not-yet-applied operations valid.
type EditOperation struct {
	Range       Range
	Replacement string
	Kind        EditKind
}

// OverwritePolicy controls how already-documented functions are treated.
type OverwritePolicy string

const (
	// PolicySkipExisting leaves documented functions untouched.
	PolicySkipExisting OverwritePolicy = "skip-existing"
	// PolicyOverwriteExisting replaces existing docstrings.
	PolicyOverwriteExisting OverwritePolicy = "overwrite-existing"
)

// Placement pairs a selected record with the range its docstring will
// occupy: an empty insertion anchor, or the existing docstring's range when
// overwriting.
type Placement struct {
	Record FunctionRecord
	Range  Range
	Kind   EditKind
}
