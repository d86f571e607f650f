package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// ShouldSkipDirectory reports whether path contains any of the skip patterns.
func ShouldSkipDirectory(path string, skipPatterns []string) bool {
	return containsAny(path, skipPatterns)
}

// IsWithinAllowedScope reports whether path may be traversed.
// An empty allow list places no restriction on the traversal.
func IsWithinAllowedScope(path string, allowPatterns []string) bool {
	if len(allowPatterns) == 0 {
		return true
	}
	return containsAny(path, allowPatterns)
}

// QualifiesByExtension reports whether filename ends with one of extensions.
func QualifiesByExtension(filename string, extensions []string) bool {
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// MatchesNameFilter reports whether filename contains substring.
// An empty substring matches every filename.
func MatchesNameFilter(filename, substring string) bool {
	if substring == "" {
		return true
	}
	return strings.Contains(filename, substring)
}

// containsAny reports whether s contains at least one non-empty needle.
func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

// IgnoreMatcher wraps the .gitignore rules found at the root of a run.
// A nil *IgnoreMatcher ignores nothing.
type IgnoreMatcher struct {
	matcher gitignore.IgnoreMatcher
	root    string
}

// LoadIgnoreMatcher reads root/.gitignore.
// A missing file is not an error: the returned matcher ignores nothing.
func LoadIgnoreMatcher(root string) (*IgnoreMatcher, error) {
	ignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(ignorePath); os.IsNotExist(err) {
		return &IgnoreMatcher{root: root}, nil
	}

	matcher, err := gitignore.NewGitIgnore(ignorePath, root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ignorePath, err)
	}

	return &IgnoreMatcher{matcher: matcher, root: root}, nil
}

// Ignored reports whether the absolute path is excluded by the .gitignore rules.
func (m *IgnoreMatcher) Ignored(path string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	if path == m.root {
		return false
	}
	return m.matcher.Match(path, isDir)
}
