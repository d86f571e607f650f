// Package replace implements literal search-and-replace over a single file.
package replace

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/harrison/findreplace/internal/filelock"
)

// ErrEmptySearch is returned when the search string is empty.
var ErrEmptySearch = errors.New("search string must not be empty")

// ErrNotRegular is wrapped in a ReadError for FIFOs, sockets and devices,
// whose reads may block forever.
var ErrNotRegular = errors.New("not a regular file")

// Outcome describes what Process did to one file.
type Outcome struct {
	Occurrences int  // Non-overlapping matches of the search string
	Changed     bool // True only when the file was actually rewritten
}

// ReadError is returned when a candidate file cannot be read.
type ReadError struct {
	Path string
	Err  error
}

// Error implements the error interface for ReadError.
func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError is returned when a matched file cannot be written back.
// Occurrences holds the match count so callers can still report it.
type WriteError struct {
	Path        string
	Occurrences int
	Err         error
}

// Error implements the error interface for WriteError.
func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot replace contents of %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteFunc persists new file content. It receives the permission bits of the
// original file.
type WriteFunc func(path string, data []byte, perm os.FileMode) error

// Engine performs the read, count, replace, write cycle for one file at a time.
type Engine struct {
	write WriteFunc
}

// NewEngine returns an Engine that rewrites files with filelock.AtomicWrite.
func NewEngine() *Engine {
	return &Engine{write: filelock.AtomicWrite}
}

// NewEngineWithWriter returns an Engine that persists content through write.
func NewEngineWithWriter(write WriteFunc) *Engine {
	if write == nil {
		write = filelock.AtomicWrite
	}
	return &Engine{write: write}
}

// Process counts the occurrences of search in the file at path and, unless
// dryRun is set, replaces them all with replacement and writes the file back.
// Files without a match are never written.
func (e *Engine) Process(path, search, replacement string, dryRun bool) (Outcome, error) {
	if search == "" {
		return Outcome{}, ErrEmptySearch
	}

	info, err := os.Stat(path)
	if err != nil {
		return Outcome{}, &ReadError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return Outcome{}, &ReadError{Path: path, Err: ErrNotRegular}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Outcome{}, &ReadError{Path: path, Err: err}
	}

	occurrences := CountOccurrences(content, search)
	if occurrences == 0 {
		return Outcome{}, nil
	}

	if dryRun {
		return Outcome{Occurrences: occurrences}, nil
	}

	updated := ReplaceAll(content, search, replacement)
	if err := e.write(path, updated, info.Mode().Perm()); err != nil {
		return Outcome{Occurrences: occurrences}, &WriteError{Path: path, Occurrences: occurrences, Err: err}
	}

	return Outcome{Occurrences: occurrences, Changed: true}, nil
}

// CountOccurrences counts non-overlapping matches of search, scanning left to right.
func CountOccurrences(content []byte, search string) int {
	if search == "" {
		return 0
	}
	return bytes.Count(content, []byte(search))
}

// ReplaceAll replaces every non-overlapping match of search, left to right.
// An empty replacement deletes the matches.
func ReplaceAll(content []byte, search, replacement string) []byte {
	if search == "" {
		return content
	}
	return bytes.ReplaceAll(content, []byte(search), []byte(replacement))
}
