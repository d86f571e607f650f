// Package walker drives a findreplace run: it descends the directory tree
// depth-first, applies the path filters at every step, hands qualifying files
// to the substitution engine and accumulates the outcome in a Result.
package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/findreplace/internal/config"
	"github.com/harrison/findreplace/internal/fileutil"
	"github.com/harrison/findreplace/internal/models"
	"github.com/harrison/findreplace/internal/replace"
)

// Result is the accumulated outcome of a run.
type Result = models.Result

// Logger receives traversal events.
// logger.ConsoleLogger, logger.FileLogger and logger.NoOpLogger implement it.
type Logger interface {
	LogRunStart(cfg *config.RunConfig)
	LogDirectoryStart(path string)
	LogFileSearched(path string)
	LogFileSkipped(path, reason string)
	LogFileMatch(path string, occurrences int, dryRun bool)
	LogSummary(result *models.Result)
	LogWarn(message string)
	LogError(message string)
}

// Processor applies the substitution to a single file.
// *replace.Engine is the production implementation.
type Processor interface {
	Process(path, search, replacement string, dryRun bool) (replace.Outcome, error)
}

// Walker walks one directory tree with an immutable RunConfig.
type Walker struct {
	cfg       *config.RunConfig
	processor Processor
	logger    Logger
}

// New creates a Walker. A nil processor uses replace.NewEngine();
// the logger is optional and can be nil.
func New(cfg *config.RunConfig, processor Processor, logger Logger) *Walker {
	if cfg == nil {
		panic("run config cannot be nil")
	}
	if processor == nil {
		processor = replace.NewEngine()
	}

	return &Walker{
		cfg:       cfg,
		processor: processor,
		logger:    logger,
	}
}

// Walk runs the search-and-replace over the tree rooted at root.
// An empty root means the root of the RunConfig.
func (w *Walker) Walk(root string) (*Result, error) {
	return w.WalkContext(context.Background(), root)
}

// WalkContext is Walk with cancellation. Cancellation is checked between
// entries, so a file is never left half-processed.
//
// The returned Result is never nil, even when the error is fatal: it holds
// everything done before the run stopped. Per-file and per-directory
// problems are recorded in the Result and do not produce an error.
func (w *Walker) WalkContext(ctx context.Context, root string) (*Result, error) {
	if root == "" {
		root = w.cfg.Root()
	}

	result := models.NewResult(w.cfg.DryRun())
	startTime := time.Now()

	abs, err := filepath.Abs(root)
	if err != nil {
		return result, &config.ConfigError{Field: "dir", Message: "cannot resolve directory", Err: err}
	}

	tr := &run{
		Walker: w,
		ctx:    ctx,
		result: result,
		ignore: w.loadIgnoreMatcher(abs),
	}

	if w.logger != nil {
		w.logger.LogRunStart(w.cfg)
	}

	err = tr.walk(abs, 0)

	result.Duration = time.Since(startTime)
	if err != nil && !config.IsConfigError(err) {
		result.Aborted = true
	}

	if w.logger != nil && !config.IsConfigError(err) {
		if err != nil {
			w.logger.LogError(err.Error())
		}
		w.logger.LogSummary(result)
	}

	return result, err
}

func (w *Walker) loadIgnoreMatcher(root string) *fileutil.IgnoreMatcher {
	if !w.cfg.RespectGitignore() {
		return nil
	}

	matcher, err := fileutil.LoadIgnoreMatcher(root)
	if err != nil {
		w.warn(fmt.Sprintf("ignoring .gitignore: %v", err))
		return nil
	}
	return matcher
}

func (w *Walker) warn(message string) {
	if w.logger != nil {
		w.logger.LogWarn(message)
	}
}

func (w *Walker) skipped(path, reason string) {
	if w.logger != nil {
		w.logger.LogFileSkipped(path, reason)
	}
}

// run holds the state of one traversal.
type run struct {
	*Walker
	ctx    context.Context
	result *Result
	ignore *fileutil.IgnoreMatcher
}

// walk processes one directory and, when recursion is on, its subdirectories.
func (r *run) walk(dir string, depth int) error {
	if fileutil.ShouldSkipDirectory(dir, r.cfg.SkipPatterns()) {
		r.skippedDir(dir, depth, "matches a skip pattern")
		return nil
	}

	if !fileutil.IsWithinAllowedScope(dir, r.cfg.AllowPatterns()) {
		r.skippedDir(dir, depth, "outside the allowed scope")
		return nil
	}

	if depth == 0 {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return &config.ConfigError{Field: "dir", Message: "you entered a non-existent directory path: " + dir, Err: err}
		}
	}

	if depth > r.cfg.MaxDepth() {
		return &RunawayError{Path: dir, Limit: r.cfg.MaxDepth(), Err: ErrTooDeep}
	}

	r.result.DirectoriesVisited++
	if r.logger != nil {
		r.logger.LogDirectoryStart(dir)
	}

	entries, err := fileutil.ListDirectory(dir)
	if err != nil {
		r.result.RecordUnlistedDir(dir)
		if r.logger != nil {
			r.logger.LogError(fmt.Sprintf("There was a problem opening the directory %s: %v", dir, errors.Unwrap(err)))
		}
		return nil
	}

	fileCount := 0
	for _, entry := range entries {
		if err := r.ctx.Err(); err != nil {
			return fmt.Errorf("walk interrupted in %s: %w", dir, err)
		}

		if entry.IsDir {
			if !r.cfg.Recurse() {
				r.skipped(entry.Path, "recursion disabled")
				continue
			}
			if r.ignore.Ignored(entry.Path, true) {
				r.skipped(entry.Path, "ignored by .gitignore")
				continue
			}
			if err := r.walk(entry.Path, depth+1); err != nil {
				return err
			}
			continue
		}

		fileCount++
		if fileCount > r.cfg.MaxEntriesPerDir() {
			return &RunawayError{Path: dir, Limit: r.cfg.MaxEntriesPerDir(), Err: ErrTooManyEntries}
		}

		if err := r.processFile(entry); err != nil {
			return err
		}
	}

	return nil
}

// skippedDir reports a filtered directory. A filtered root gets a warning,
// since it means the whole run does nothing.
func (r *run) skippedDir(dir string, depth int, reason string) {
	if depth == 0 {
		r.warn(fmt.Sprintf("Directory '%s' is not searched: %s", dir, reason))
		return
	}
	r.skipped(dir, reason)
}

// processFile applies the file filters and the substitution to one entry.
// Only unexpected engine errors are returned; read and write failures are
// recorded in the Result.
func (r *run) processFile(entry fileutil.Entry) error {
	if !fileutil.QualifiesByExtension(entry.Name, r.cfg.Extensions()) {
		r.skipped(entry.Path, "extension not selected")
		return nil
	}

	if !fileutil.MatchesNameFilter(entry.Name, r.cfg.NameContains()) {
		r.skipped(entry.Path, "name filter")
		return nil
	}

	if r.ignore.Ignored(entry.Path, false) {
		r.skipped(entry.Path, "ignored by .gitignore")
		return nil
	}

	if r.logger != nil {
		r.logger.LogFileSearched(entry.Path)
	}

	outcome, err := r.processor.Process(entry.Path, r.cfg.Search(), r.cfg.Replacement(), r.cfg.DryRun())
	if err != nil {
		var writeErr *replace.WriteError
		var readErr *replace.ReadError

		switch {
		case errors.As(err, &writeErr):
			r.result.RecordMatch(entry.Path, writeErr.Occurrences)
			r.result.RecordFailedWrite(entry.Path)
			if r.logger != nil {
				r.logger.LogFileMatch(entry.Path, writeErr.Occurrences, r.cfg.DryRun())
				r.logger.LogError(fmt.Sprintf("There was a problem replacing the file %s: %v", entry.Path, writeErr.Err))
			}
			return nil
		case errors.As(err, &readErr):
			r.result.RecordUnreadableFile(entry.Path)
			r.warn(readErr.Error())
			return nil
		default:
			return fmt.Errorf("process %s: %w", entry.Path, err)
		}
	}

	if outcome.Occurrences == 0 {
		return nil
	}

	r.result.RecordMatch(entry.Path, outcome.Occurrences)
	if r.logger != nil {
		r.logger.LogFileMatch(entry.Path, outcome.Occurrences, r.cfg.DryRun())
	}
	return nil
}
