package domain

import "errors"

// ErrNoFilesMatched reports that discovery and filtering selected nothing
// to process. Callers decide whether that is a failure.
var ErrNoFilesMatched = errors.New("no files matched")
