package report

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/harrison/findreplace/internal/config"
	"github.com/harrison/findreplace/internal/filelock"
	"github.com/harrison/findreplace/internal/models"
)

// Format identifies a report file format.
type Format string

// Supported report formats.
const (
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Run status values.
const (
	StatusCompleted = "completed"
	StatusDryRun    = "dry-run"
	StatusAborted   = "aborted"
)

// FormatForPath picks the report format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use .yaml, .md or .html)", filepath.Ext(path))
	}
}

// Settings echoes the configuration a run used.
type Settings struct {
	Root             string   `yaml:"root"`
	Search           string   `yaml:"search"`
	Replacement      string   `yaml:"replacement"`
	Extensions       []string `yaml:"extensions"`
	NameContains     string   `yaml:"name_contains,omitempty"`
	Recurse          bool     `yaml:"recurse"`
	DryRun           bool     `yaml:"dry_run"`
	RespectGitignore bool     `yaml:"respect_gitignore"`
	SkipPatterns     []string `yaml:"skip_dirs"`
	AllowPatterns    []string `yaml:"allow_dirs"`
	MaxEntriesPerDir int      `yaml:"max_entries_per_dir"`
	MaxDepth         int      `yaml:"max_depth"`
}

// Counts holds the numeric outcome of a run.
type Counts struct {
	DirectoriesVisited int `yaml:"directories_visited"`
	FilesChanged       int `yaml:"files_changed"`
	FilesWritten       int `yaml:"files_written"`
	Occurrences        int `yaml:"occurrences"`
}

// Report is the exported record of one run.
type Report struct {
	RunID           string    `yaml:"run_id"`
	StartedAt       time.Time `yaml:"started_at"`
	FinishedAt      time.Time `yaml:"finished_at"`
	Duration        string    `yaml:"duration"`
	Status          string    `yaml:"status"`
	Error           string    `yaml:"error,omitempty"`
	Settings        Settings  `yaml:"settings"`
	Counts          Counts    `yaml:"counts"`
	ChangedFiles    []string  `yaml:"changed_files"`
	FailedWrites    []string  `yaml:"failed_writes,omitempty"`
	UnreadableFiles []string  `yaml:"unreadable_files,omitempty"`
	UnlistedDirs    []string  `yaml:"unlisted_dirs,omitempty"`
}

// New builds the report of a run that started at startedAt.
// runErr is the fatal error of an aborted run, or nil.
func New(cfg *config.RunConfig, result *models.Result, runErr error, startedAt time.Time) *Report {
	if result == nil {
		result = models.NewResult(cfg.DryRun())
	}

	r := &Report{
		RunID:      uuid.NewString(),
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(result.Duration),
		Duration:   result.Duration.Round(time.Millisecond).String(),
		Status:     status(result),
		Settings: Settings{
			Root:             cfg.Root(),
			Search:           cfg.Search(),
			Replacement:      cfg.Replacement(),
			Extensions:       cfg.Extensions(),
			NameContains:     cfg.NameContains(),
			Recurse:          cfg.Recurse(),
			DryRun:           cfg.DryRun(),
			RespectGitignore: cfg.RespectGitignore(),
			SkipPatterns:     cfg.SkipPatterns(),
			AllowPatterns:    cfg.AllowPatterns(),
			MaxEntriesPerDir: cfg.MaxEntriesPerDir(),
			MaxDepth:         cfg.MaxDepth(),
		},
		Counts: Counts{
			DirectoriesVisited: result.DirectoriesVisited,
			FilesChanged:       result.FilesChanged,
			FilesWritten:       result.FilesWritten(),
			Occurrences:        result.Occurrences,
		},
		ChangedFiles:    append([]string{}, result.ChangedFiles...),
		FailedWrites:    result.FailedWrites,
		UnreadableFiles: result.UnreadableFiles,
		UnlistedDirs:    result.UnlistedDirs,
	}

	if runErr != nil {
		r.Error = runErr.Error()
	}

	return r
}

func status(result *models.Result) string {
	switch {
	case result.Aborted:
		return StatusAborted
	case result.DryRun:
		return StatusDryRun
	default:
		return StatusCompleted
	}
}

// YAML renders the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// Markdown renders the report as a Markdown document.
func (r *Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# findreplace run %s\n\n", r.RunID)

	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|---|---|\n")
	row := func(field, value string) {
		fmt.Fprintf(&sb, "| %s | %s |\n", field, strings.ReplaceAll(value, "|", `\|`))
	}
	row("Status", r.Status)
	row("Started", r.StartedAt.Format(time.RFC3339))
	row("Finished", r.FinishedAt.Format(time.RFC3339))
	row("Duration", r.Duration)
	row("Directory", code(r.Settings.Root))
	row("Search", code(r.Settings.Search))
	row("Replacement", code(r.Settings.Replacement))
	row("Extensions", code(strings.Join(r.Settings.Extensions, "|")))
	if r.Settings.NameContains != "" {
		row("Filename contains", code(r.Settings.NameContains))
	}
	row("Recurse", fmt.Sprintf("%t", r.Settings.Recurse))
	row("Dry run", fmt.Sprintf("%t", r.Settings.DryRun))
	if r.Error != "" {
		row("Error", cell(r.Error))
	}
	sb.WriteString("\n")

	sb.WriteString("## Counts\n\n")
	fmt.Fprintf(&sb, "- Directories visited: %d\n", r.Counts.DirectoriesVisited)
	fmt.Fprintf(&sb, "- Files changed: %d\n", r.Counts.FilesChanged)
	fmt.Fprintf(&sb, "- Files written: %d\n", r.Counts.FilesWritten)
	fmt.Fprintf(&sb, "- Occurrences: %d\n", r.Counts.Occurrences)

	pathSection(&sb, "Changed files", r.ChangedFiles, true)
	pathSection(&sb, "Failed writes", r.FailedWrites, false)
	pathSection(&sb, "Unreadable files", r.UnreadableFiles, false)
	pathSection(&sb, "Unlisted directories", r.UnlistedDirs, false)

	return sb.String()
}

func pathSection(sb *strings.Builder, title string, paths []string, always bool) {
	if len(paths) == 0 && !always {
		return
	}

	fmt.Fprintf(sb, "\n## %s\n\n", title)
	if len(paths) == 0 {
		sb.WriteString("None.\n")
		return
	}
	for _, path := range paths {
		fmt.Fprintf(sb, "- %s\n", code(path))
	}
}

// code wraps s in a code span long enough to hold any backticks inside it.
func code(s string) string {
	if s == "" {
		return "*(empty)*"
	}
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

func cell(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// HTML renders the Markdown report as a standalone HTML page.
func (r *Report) HTML() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>findreplace run %s</title>\n", html.EscapeString(r.RunID))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	return page.Bytes(), nil
}

// Render encodes the report in format.
func (r *Report) Render(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return r.YAML()
	case FormatMarkdown:
		return []byte(r.Markdown()), nil
	case FormatHTML:
		return r.HTML()
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// Export writes the report to path in the format chosen by its extension.
func Export(path string, r *Report) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	data, err := r.Render(format)
	if err != nil {
		return err
	}

	if err := filelock.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
