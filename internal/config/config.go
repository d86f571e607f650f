package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultMaxEntriesPerDir is the runaway guard: a directory yielding more
// files than this aborts the run.
const DefaultMaxEntriesPerDir = 1500

// DefaultMaxDepth bounds recursion so symlink loops cannot recurse forever.
const DefaultMaxDepth = 64

// DefaultSkipDirs lists path fragments of infrastructure, vendor and asset
// directories that are never searched unless the settings file says otherwise.
var DefaultSkipDirs = []string{
	"/backup", "/cache", "/cgi", "/conf/", "/css", "/data", "/default.", "/entities",
	"/framework", "/fonts", "/graphics", "/images", "/img", "/install", "/java", "/js",
	"/language", "/library", "/lists", "/localization", "/logs", "/media", "/passwords",
	"/payloads", "/routes", "/sdk", "/src", "/translation", "/trumbowyg", "/tmp",
	"/upload", "/vendor", "/--", "/_", ".svg",
}

// Config represents findreplace settings loaded from the settings file
type Config struct {
	// SkipDirs holds path substrings of directories that are never entered
	SkipDirs []string `yaml:"skip_dirs"`

	// AllowDirs restricts traversal to paths containing one of these substrings (empty = no restriction)
	AllowDirs []string `yaml:"allow_dirs"`

	// MaxEntriesPerDir aborts the run when a single directory yields more files
	MaxEntriesPerDir int `yaml:"max_entries_per_dir"`

	// MaxDepth aborts the run when recursion goes deeper than this
	MaxDepth int `yaml:"max_depth"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables run log files in this directory when non-empty
	LogDir string `yaml:"log_dir"`

	// RespectGitignore skips paths matched by the root .gitignore
	RespectGitignore bool `yaml:"respect_gitignore"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		SkipDirs:         append([]string(nil), DefaultSkipDirs...),
		AllowDirs:        defaultAllowDirs(),
		MaxEntriesPerDir: DefaultMaxEntriesPerDir,
		MaxDepth:         DefaultMaxDepth,
		LogLevel:         "info",
		LogDir:           "",
		RespectGitignore: false,
	}
}

// defaultAllowDirs limits runs to the current user's home and /usr/local.
func defaultAllowDirs() []string {
	dirs := make([]string, 0, 2)
	if home, err := os.UserHomeDir(); err == nil && home != "" && home != string(filepath.Separator) {
		dirs = append(dirs, home)
	}
	return append(dirs, "/usr/local")
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Keys present in the file win, even when set to an empty list or zero,
	// so a settings file can switch the default skip and allow lists off.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if _, exists := rawMap["skip_dirs"]; exists {
		cfg.SkipDirs = fileCfg.SkipDirs
	}
	if _, exists := rawMap["allow_dirs"]; exists {
		cfg.AllowDirs = fileCfg.AllowDirs
	}
	if _, exists := rawMap["max_entries_per_dir"]; exists {
		cfg.MaxEntriesPerDir = fileCfg.MaxEntriesPerDir
	}
	if _, exists := rawMap["max_depth"]; exists {
		cfg.MaxDepth = fileCfg.MaxDepth
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = ExpandHome(fileCfg.LogDir)
	}
	if _, exists := rawMap["respect_gitignore"]; exists {
		cfg.RespectGitignore = fileCfg.RespectGitignore
	}

	return cfg, nil
}

// LoadDefaultConfig loads the settings file from the findreplace home directory
func LoadDefaultConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, logDir *string, respectGitignore *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = ExpandHome(*logDir)
	}
	if respectGitignore != nil {
		c.RespectGitignore = *respectGitignore
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.MaxEntriesPerDir <= 0 {
		return fmt.Errorf("max_entries_per_dir must be > 0, got %d", c.MaxEntriesPerDir)
	}

	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be > 0, got %d", c.MaxDepth)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	for _, dir := range c.AllowDirs {
		if dir == "" {
			return fmt.Errorf("allow_dirs must not contain empty entries")
		}
	}

	return nil
}
