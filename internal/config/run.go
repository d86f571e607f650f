package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ConfigError reports a missing or invalid option. It is raised before any
// traversal starts, so a run that fails with it has no side effects.
type ConfigError struct {
	Field   string // Option or setting at fault
	Message string // Human-readable explanation
	Err     error  // Underlying error (optional)
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid configuration")
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Field))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// RunOptions carries the raw command-line options of one run.
type RunOptions struct {
	Dir          string // Root directory (-d)
	Search       string // Search string (-f)
	Replacement  string // Replacement string (-r)
	Extensions   string // Pipe-delimited extension suffixes (-e)
	NameContains string // Filename-contains filter (-n)
	NoRecurse    bool   // Do not descend into subdirectories
	DryRun       bool   // Report matches without writing
}

// RunConfig is the validated, immutable configuration of one run.
// Slice accessors return copies.
type RunConfig struct {
	root             string
	search           string
	replacement      string
	extensions       []string
	nameContains     string
	recurse          bool
	dryRun           bool
	skipPatterns     []string
	allowPatterns    []string
	maxEntriesPerDir int
	maxDepth         int
	respectGitignore bool
}

// NewRunConfig validates opts against settings and builds the RunConfig.
// All failures are *ConfigError.
func NewRunConfig(opts RunOptions, settings *Config) (*RunConfig, error) {
	if settings == nil {
		settings = DefaultConfig()
	}
	if err := settings.Validate(); err != nil {
		return nil, &ConfigError{Field: "settings", Message: "invalid settings", Err: err}
	}

	if opts.Search == "" {
		return nil, &ConfigError{Field: "find", Message: "you need to specify a search string"}
	}

	root, err := ResolveRoot(opts.Dir)
	if err != nil {
		return nil, err
	}

	extensions := ParseExtensions(opts.Extensions)
	if len(extensions) == 0 {
		return nil, &ConfigError{Field: "ext", Message: "you need to specify at least one file extension"}
	}

	return &RunConfig{
		root:             root,
		search:           opts.Search,
		replacement:      opts.Replacement,
		extensions:       extensions,
		nameContains:     opts.NameContains,
		recurse:          !opts.NoRecurse,
		dryRun:           opts.DryRun,
		skipPatterns:     append([]string(nil), settings.SkipDirs...),
		allowPatterns:    append([]string(nil), settings.AllowDirs...),
		maxEntriesPerDir: settings.MaxEntriesPerDir,
		maxDepth:         settings.MaxDepth,
		respectGitignore: settings.RespectGitignore,
	}, nil
}

// ResolveRoot expands "~", makes dir absolute and refuses the filesystem root.
func ResolveRoot(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", &ConfigError{Field: "dir", Message: "you need to specify a directory"}
	}

	abs, err := filepath.Abs(ExpandHome(dir))
	if err != nil {
		return "", &ConfigError{Field: "dir", Message: "cannot resolve directory", Err: err}
	}

	if isFilesystemRoot(abs) {
		return "", &ConfigError{Field: "dir", Message: "refusing to run on the filesystem root"}
	}

	return abs, nil
}

func isFilesystemRoot(path string) bool {
	clean := filepath.Clean(path)
	return clean == filepath.VolumeName(clean)+string(filepath.Separator)
}

// ParseExtensions splits a pipe-delimited extension list, dropping blanks.
func ParseExtensions(raw string) []string {
	var extensions []string
	for _, part := range strings.Split(raw, "|") {
		if ext := strings.TrimSpace(part); ext != "" {
			extensions = append(extensions, ext)
		}
	}
	return extensions
}

// Root returns the absolute root directory.
func (c *RunConfig) Root() string { return c.root }

// Search returns the literal search string.
func (c *RunConfig) Search() string { return c.search }

// Replacement returns the replacement string (may be empty).
func (c *RunConfig) Replacement() string { return c.replacement }

// Extensions returns the allowed extension suffixes.
func (c *RunConfig) Extensions() []string { return append([]string(nil), c.extensions...) }

// NameContains returns the filename-contains filter (may be empty).
func (c *RunConfig) NameContains() string { return c.nameContains }

// Recurse reports whether subdirectories are descended into.
func (c *RunConfig) Recurse() bool { return c.recurse }

// DryRun reports whether files are left untouched.
func (c *RunConfig) DryRun() bool { return c.dryRun }

// SkipPatterns returns the directory skip patterns.
func (c *RunConfig) SkipPatterns() []string { return append([]string(nil), c.skipPatterns...) }

// AllowPatterns returns the directory allow patterns.
func (c *RunConfig) AllowPatterns() []string { return append([]string(nil), c.allowPatterns...) }

// MaxEntriesPerDir returns the per-directory runaway cap.
func (c *RunConfig) MaxEntriesPerDir() int { return c.maxEntriesPerDir }

// MaxDepth returns the recursion depth cap.
func (c *RunConfig) MaxDepth() int { return c.maxDepth }

// RespectGitignore reports whether the root .gitignore is honoured.
func (c *RunConfig) RespectGitignore() bool { return c.respectGitignore }
