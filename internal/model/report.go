package model

import "time"

// FileStatus classifies the outcome of processing one file.
type FileStatus string

const (
	// StatusWritten means the file was modified on disk.
	StatusWritten FileStatus = "written"
	// StatusSkipped means nothing qualified or the user declined.
	StatusSkipped FileStatus = "skipped"
	// StatusFailed means the file could not be processed.
	StatusFailed FileStatus = "failed"
)

// FileResult holds the outcome for a single source file.
type FileResult struct {
	Path      Path
	Status    FileStatus
	Functions int    // docstrings applied (or pending, in dry-run)
	Reason    string // failure or skip explanation, empty when written
}

// RunReport aggregates the per-file results of one run.
type RunReport struct {
	ID      string
	Started time.Time
	DryRun  bool
	Results []FileResult
}

// Written counts files that were modified.
func (r RunReport) Written() int { return r.countStatus(StatusWritten) }

// Skipped counts files left untouched without error.
func (r RunReport) Skipped() int { return r.countStatus(StatusSkipped) }

// Failed counts files that could not be processed.
func (r RunReport) Failed() int { return r.countStatus(StatusFailed) }

// Functions totals the docstrings applied across all files.
func (r RunReport) Functions() int {
	total := 0
	for _, result := range r.Results {
		total += result.Functions
	}

	return total
}

func (r RunReport) countStatus(status FileStatus) int {
	count := 0

	for _, result := range r.Results {
		if result.Status == status {
			count++
		}
	}

	return count
}

// Undocumented points at one function lacking a docstring.
type Undocumented struct {
	Path      Path
	Line      int
	Name      string
	Signature string
}

// CheckReport lists undocumented functions found by a check pass.
type CheckReport struct {
	Files        int
	Undocumented []Undocumented
	// Failures maps files the check pass could not read or parse to the
	// reason, without aborting the pass.
	Failures map[Path]string
}

// RunRecord is one persisted history row.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Root      Path
	Language  Language
	Style     DocstringStyle
	Written   int
	Skipped   int
	Failed    int
	Functions int
}

// AppliedDocstring records one docstring a run wrote to disk.
type AppliedDocstring struct {
	Name      string
	Path      Path
	Line      int
	Docstring string
}
