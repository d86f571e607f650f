package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// Entry is one child of a listed directory.
type Entry struct {
	Name  string // Base name as found on disk
	Path  string // Absolute path of the entry
	IsDir bool   // True for directories and symlinks resolving to directories
}

// ListError is returned when a directory cannot be opened or read.
type ListError struct {
	Path string // Directory that could not be listed
	Err  error  // Underlying error
}

// Error implements the error interface for ListError.
func (e *ListError) Error() string {
	return fmt.Sprintf("cannot list directory %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ListError) Unwrap() error {
	return e.Err
}

// ListDirectory returns the visible children of dir: non-directories first,
// then directories, each group in natural case-insensitive order.
func ListDirectory(dir string) ([]Entry, error) {
	dirEntries, err := readDir(dir)
	if err != nil {
		return nil, &ListError{Path: dir, Err: err}
	}

	files := make([]Entry, 0, len(dirEntries))
	dirs := make([]Entry, 0)

	for _, d := range dirEntries {
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		entry := Entry{
			Name:  name,
			Path:  filepath.Join(dir, name),
			IsDir: isDirEntry(dir, d),
		}

		if entry.IsDir {
			dirs = append(dirs, entry)
		} else {
			files = append(files, entry)
		}
	}

	sortEntries(files)
	sortEntries(dirs)

	return append(files, dirs...), nil
}

// readDir holds the directory handle only for the duration of the read.
func readDir(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.ReadDir(-1)
}

// isDirEntry resolves symlinks so a link to a directory is walked like one.
// Dangling links are treated as files.
func isDirEntry(dir string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.IsDir()
	}
	info, err := os.Stat(filepath.Join(dir, d.Name()))
	if err != nil {
		return false
	}
	return info.IsDir()
}

func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case NaturalLess(a.Name, b.Name):
			return -1
		case NaturalLess(b.Name, a.Name):
			return 1
		default:
			return 0
		}
	})
}

// NaturalLess orders names naturally and case-insensitively, ranking a name
// with a leading underscore as if the underscore were absent.
// Names with equal ranking keys fall back to byte order.
func NaturalLess(a, b string) bool {
	ka, kb := rankKey(a), rankKey(b)
	if ka != kb {
		return natural.Less(ka, kb)
	}
	return a < b
}

func rankKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, "_"))
}
