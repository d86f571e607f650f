package walker

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyEntries is wrapped by RunawayError when one directory yields
	// more files than the configured cap.
	ErrTooManyEntries = errors.New("too many files in one directory")

	// ErrTooDeep is wrapped by RunawayError when recursion goes deeper than
	// the configured cap.
	ErrTooDeep = errors.New("directory tree too deep")
)

// RunawayError aborts a run whose traversal exceeded a hard cap.
// The walk stops immediately; work already done is kept.
type RunawayError struct {
	Path  string // Directory where the cap was exceeded
	Limit int    // The cap that was exceeded
	Err   error  // ErrTooManyEntries or ErrTooDeep
}

// Error implements the error interface for RunawayError.
func (e *RunawayError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTooManyEntries):
		return fmt.Sprintf("runaway traversal in %s: more than %d files in one directory", e.Path, e.Limit)
	case errors.Is(e.Err, ErrTooDeep):
		return fmt.Sprintf("runaway traversal at %s: more than %d directory levels", e.Path, e.Limit)
	default:
		return fmt.Sprintf("runaway traversal at %s: %v", e.Path, e.Err)
	}
}

// Unwrap returns the underlying error for error wrapping support.
func (e *RunawayError) Unwrap() error {
	return e.Err
}

// IsRunaway reports whether err is, or wraps, a *RunawayError.
func IsRunaway(err error) bool {
	var runaway *RunawayError
	return errors.As(err, &runaway)
}
