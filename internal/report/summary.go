// Package report renders the outcome of a findreplace run: the console
// summary printed at the end of every run, and the optional report file.
package report

import (
	"fmt"

	"github.com/harrison/findreplace/internal/display"
	"github.com/harrison/findreplace/internal/logger"
	"github.com/harrison/findreplace/internal/models"
)

// PrintSummary prints the end-of-run summary: counts, the changed files and
// any warnings. runErr is the fatal error of an aborted run, or nil.
//
//	2 files were updated in 3 directories.
//
//	These files were updated:
//	• /srv/site/a.php
//	• /srv/site/b.php
func PrintSummary(out logger.Printer, result *models.Result, runErr error) {
	if result == nil {
		return
	}

	if result.FilesChanged > 0 || result.DirectoriesVisited > 0 {
		out.Print("", logger.StylePlain)
		out.Print(CountsLine(result), logger.StyleHeading)
		out.Print("", logger.StylePlain)
	}

	if result.FilesChanged > 0 {
		out.Print(fmt.Sprintf("These files %s updated:", tense(result)), logger.StyleHeading)
		for _, path := range result.ChangedFiles {
			out.Print("• "+path, logger.StylePlain)
		}
		out.Print("", logger.StylePlain)
	}

	if len(result.FailedWrites) > 0 {
		display.FailedWritesWarning(result.FailedWrites).Display(out)
	}
	if len(result.UnreadableFiles) > 0 {
		display.UnreadableFilesWarning(result.UnreadableFiles).Display(out)
	}
	if len(result.UnlistedDirs) > 0 {
		display.UnlistedDirsWarning(result.UnlistedDirs).Display(out)
	}
	if result.Aborted {
		display.AbortedWarning(runErr).Display(out)
	}
	if result.DryRun {
		display.DryRunNotice().Display(out)
	}
}

// CountsLine returns "N file(s) was/were updated in D director(y/ies).",
// or "will be updated" for a dry run.
func CountsLine(result *models.Result) string {
	files := "files"
	verb := "were"
	if result.FilesChanged == 1 {
		files = "file"
		verb = "was"
	}
	if result.DryRun {
		verb = "will be"
	}

	dirs := "directories"
	if result.DirectoriesVisited == 1 {
		dirs = "directory"
	}

	return fmt.Sprintf("%d %s %s updated in %d %s.", result.FilesChanged, files, verb, result.DirectoriesVisited, dirs)
}

func tense(result *models.Result) string {
	if result.DryRun {
		return "will be"
	}
	return "were"
}
