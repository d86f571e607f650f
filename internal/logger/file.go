package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/findreplace/internal/config"
	"github.com/harrison/findreplace/internal/models"
)

// FileLogger logs run events to a timestamped file in a log directory and
// maintains a latest.log symlink pointing to the most recent run.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing to logDir at level "info".
func NewFileLogger(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithLevel(logDir, "info")
}

// NewFileLoggerWithLevel creates a FileLogger with a custom log level.
// It creates the log directory if it doesn't exist, opens a timestamped
// run log file, and creates/updates the latest.log symlink.
func NewFileLoggerWithLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log
	stamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", stamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}

	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== findreplace Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// Path returns the path of the current run log file.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

func (fl *FileLogger) logEvent(level string, message string) {
	if !fl.shouldLog(level) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] %s\n", timestamp(), message))
}

// Print appends text and a newline to the run log. Styles are ignored.
func (fl *FileLogger) Print(text string, style Style) {
	fl.writeRunLog(text + "\n")
}

// LogRunStart records the run parameters at INFO level.
func (fl *FileLogger) LogRunStart(cfg *config.RunConfig) {
	if !fl.shouldLog("info") {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s\n", timestamp(), runStartMessage(cfg)))
	if cfg != nil {
		sb.WriteString(fmt.Sprintf("  Search: %q\n", cfg.Search()))
		sb.WriteString(fmt.Sprintf("  Replacement: %q\n", cfg.Replacement()))
		if skip := cfg.SkipPatterns(); len(skip) > 0 {
			sb.WriteString(fmt.Sprintf("  Skip patterns: %s\n", strings.Join(skip, ", ")))
		}
		if allow := cfg.AllowPatterns(); len(allow) > 0 {
			sb.WriteString(fmt.Sprintf("  Allow patterns: %s\n", strings.Join(allow, ", ")))
		}
	}
	fl.writeRunLog(sb.String())
}

// LogDirectoryStart logs entry into a directory at INFO level.
func (fl *FileLogger) LogDirectoryStart(path string) {
	fl.logEvent("info", directoryStartMessage(path))
}

// LogFileSearched logs a searched file at DEBUG level.
func (fl *FileLogger) LogFileSearched(path string) {
	fl.logEvent("debug", fileSearchedMessage(path))
}

// LogFileSkipped logs a skipped entry at TRACE level.
func (fl *FileLogger) LogFileSkipped(path, reason string) {
	fl.logEvent("trace", fileSkippedMessage(path, reason))
}

// LogFileMatch logs the occurrences found in one file at INFO level.
func (fl *FileLogger) LogFileMatch(path string, occurrences int, dryRun bool) {
	fl.logEvent("info", fileMatchMessage(path, occurrences, dryRun))
}

// LogSummary writes the summary line followed by the changed and failed paths.
func (fl *FileLogger) LogSummary(result *models.Result) {
	if !fl.shouldLog("info") {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n[%s] %s\n", timestamp(), summaryMessage(result)))
	if result != nil {
		for _, path := range result.ChangedFiles {
			sb.WriteString(fmt.Sprintf("  changed: %s\n", path))
		}
		for _, path := range result.FailedWrites {
			sb.WriteString(fmt.Sprintf("  failed write: %s\n", path))
		}
		for _, path := range result.UnreadableFiles {
			sb.WriteString(fmt.Sprintf("  unreadable: %s\n", path))
		}
		for _, path := range result.UnlistedDirs {
			sb.WriteString(fmt.Sprintf("  unlisted: %s\n", path))
		}
	}
	fl.writeRunLog(sb.String())
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
