// Package fileutil provides the directory listing and path filtering primitives
// used by the findreplace walker.
//
// The package answers two questions for every step of a traversal: which
// children does a directory have, in which order, and should a given directory
// or file take part in the search-and-replace run at all.
//
// # Main Components
//
// ListDirectory - Deterministic listing of a directory's immediate children:
//   - Entries whose name starts with "." are never returned
//   - Non-directories come first, then directories
//   - Each group is sorted in natural, case-insensitive order ("file2" before "file10")
//   - A leading underscore is ignored for ranking ("_archive" sorts next to "archive")
//   - Failure to open or read the directory returns a *ListError
//
// Path filters - Pure predicates over path strings:
//   - ShouldSkipDirectory: path contains any skip pattern
//   - IsWithinAllowedScope: allow list empty, or path contains an allowed pattern
//   - QualifiesByExtension: filename ends with one of the extensions
//   - MatchesNameFilter: filter empty, or filename contains the filter
//
// IgnoreMatcher - Optional .gitignore support backed by go-gitignore. Only the
// .gitignore at the root of the run is honoured.
//
// # Usage Examples
//
// Listing a directory:
//
//	entries, err := fileutil.ListDirectory("/srv/site")
//	if err != nil {
//	    var listErr *fileutil.ListError
//	    if errors.As(err, &listErr) {
//	        log.Printf("cannot list %s: %v", listErr.Path, listErr.Err)
//	    }
//	}
//	for _, entry := range entries {
//	    fmt.Println(entry.Name, entry.IsDir)
//	}
//
// Deciding whether to process a file:
//
//	if fileutil.QualifiesByExtension(name, []string{".php", ".html"}) &&
//	    fileutil.MatchesNameFilter(name, "report") {
//	    // process
//	}
//
// # Matching Rules
//
// All matching is case-sensitive and literal. Extensions are plain suffixes and
// are not normalised, so "txt" matches both "notes.txt" and "mytxt". Skip and
// allow patterns are substrings of the full directory path, which lets a single
// pattern such as "/vendor" exclude every vendor tree under the root.
package fileutil
