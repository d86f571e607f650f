package models

import "time"

// Result accumulates the outcome of one traversal.
// It is created by the walker at the start of a run and passed by pointer
// through the recursion; nothing else holds a reference while the walk runs.
type Result struct {
	DirectoriesVisited int           // Directories that passed the skip and allow filters
	FilesChanged       int           // Files with at least one match (dry run included)
	ChangedFiles       []string      // Matched file paths, in the order they were matched
	Occurrences        int           // Total matches across all files
	FailedWrites       []string      // Matched files whose rewrite failed
	UnreadableFiles    []string      // Candidate files that could not be read
	UnlistedDirs       []string      // Directories whose listing failed
	DryRun             bool          // True when no file was written
	Aborted            bool          // True when a runaway guard stopped the run
	Duration           time.Duration // Wall time of the walk
}

// NewResult creates an empty Result for a run.
func NewResult(dryRun bool) *Result {
	return &Result{
		ChangedFiles: make([]string, 0),
		DryRun:       dryRun,
	}
}

// RecordMatch adds a matched file. FilesChanged and ChangedFiles move together.
func (r *Result) RecordMatch(path string, occurrences int) {
	r.FilesChanged++
	r.ChangedFiles = append(r.ChangedFiles, path)
	r.Occurrences += occurrences
}

// RecordFailedWrite notes a matched file that could not be rewritten.
func (r *Result) RecordFailedWrite(path string) {
	r.FailedWrites = append(r.FailedWrites, path)
}

// RecordUnreadableFile notes a candidate file that could not be read.
func (r *Result) RecordUnreadableFile(path string) {
	r.UnreadableFiles = append(r.UnreadableFiles, path)
}

// RecordUnlistedDir notes a directory whose subtree was abandoned.
func (r *Result) RecordUnlistedDir(path string) {
	r.UnlistedDirs = append(r.UnlistedDirs, path)
}

// FilesWritten returns the number of matched files that were actually rewritten.
func (r *Result) FilesWritten() int {
	if r.DryRun {
		return 0
	}
	return r.FilesChanged - len(r.FailedWrites)
}

// HasProblems reports whether any non-fatal error was recorded.
func (r *Result) HasProblems() bool {
	return len(r.FailedWrites) > 0 || len(r.UnreadableFiles) > 0 || len(r.UnlistedDirs) > 0
}
