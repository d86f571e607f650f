package display

import (
	"fmt"
	"strings"

	"github.com/harrison/findreplace/internal/logger"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
	Severe     bool     // Printed in the error style instead of the warning style
}

// Lines returns the warning as plain text lines.
func (w Warning) Lines() []string {
	lines := []string{"*** " + w.Title}

	if w.Message != "" {
		lines = append(lines, "    "+w.Message)
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			lines = append(lines, "    Affected file:")
		} else {
			lines = append(lines, fmt.Sprintf("    Affected files (%d):", len(w.Files)))
		}
		for i, file := range w.Files {
			lines = append(lines, fmt.Sprintf("      %d. %s", i+1, file))
		}
	}

	if w.Suggestion != "" {
		lines = append(lines, "*** "+w.Suggestion)
	}

	return lines
}

// String returns the warning as plain text.
func (w Warning) String() string {
	return strings.Join(w.Lines(), "\n")
}

// Display prints the warning followed by a blank line.
func (w Warning) Display(out logger.Printer) {
	style := logger.StyleWarning
	if w.Severe {
		style = logger.StyleError
	}
	out.Print(w.String(), style)
	out.Print("", logger.StylePlain)
}

// DryRunNotice tells the operator that nothing was written.
func DryRunNotice() Warning {
	return Warning{
		Title:      "DRY RUN -- Nothing was replaced.",
		Suggestion: `To do the replacement, remove "--test" from the command line and run it again.`,
	}
}

// FailedWritesWarning lists matched files whose rewrite failed.
func FailedWritesWarning(files []string) Warning {
	return Warning{
		Title:      "Some matched files could not be rewritten (permissions maybe?)",
		Files:      files,
		Suggestion: "Fix the permissions and run again; files already updated no longer match.",
		Severe:     true,
	}
}

// UnreadableFilesWarning lists candidate files that could not be read.
func UnreadableFilesWarning(files []string) Warning {
	return Warning{
		Title: "Some files could not be read and were not searched",
		Files: files,
	}
}

// UnlistedDirsWarning lists directories whose subtree was abandoned.
func UnlistedDirsWarning(dirs []string) Warning {
	return Warning{
		Title: "Some directories could not be opened and were not searched",
		Files: dirs,
	}
}

// AbortedWarning reports a run stopped before the whole tree was searched.
func AbortedWarning(cause error) Warning {
	w := Warning{
		Title:      "Run aborted before the whole tree was searched.",
		Suggestion: "Files listed above were already processed; narrow the directory or the settings and run again.",
		Severe:     true,
	}
	if cause != nil {
		w.Message = cause.Error()
	}
	return w
}
