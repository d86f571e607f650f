// Package logger provides logging implementations for findreplace runs.
//
// The logger package reports traversal progress at the directory and file
// levels, and a one-line summary once the walk is over. Implementations are
// thread-safe and support various output destinations (console, file).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/findreplace/internal/config"
	"github.com/harrison/findreplace/internal/models"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Printer writes user-facing, style-tagged lines.
// ConsoleLogger and FileLogger implement it.
type Printer interface {
	Print(text string, style Style)
}

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// Levelled messages are prefixed with [HH:MM:SS] [LEVEL]; event messages with [HH:MM:SS].
// Color output is enabled only when the writer is a terminal and NO_COLOR is unset.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	scheme      *colorScheme
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
		scheme:      newColorScheme(),
	}
}

// SetColorOutput forces color output on or off regardless of the writer.
func (cl *ConsoleLogger) SetColorOutput(enabled bool) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.colorOutput = enabled
}

// ColorOutput reports whether styles are rendered as escape codes.
func (cl *ConsoleLogger) ColorOutput() bool {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	return cl.colorOutput
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}

	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}

	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
// Format: "[HH:MM:SS] [DEBUG] <message>"
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
// Format: "[HH:MM:SS] [WARN] <message>"
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
// Format: "[HH:MM:SS] [ERROR] <message>"
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	io.WriteString(cl.writer, formatted)
}

// formatWithColor formats a log message with ANSI color codes.
func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var attr color.Attribute

	switch strings.ToUpper(level) {
	case "TRACE":
		attr = color.FgHiBlack
	case "DEBUG":
		attr = color.FgCyan
	case "INFO":
		attr = color.FgBlue
	case "WARN":
		attr = color.FgYellow
	case "ERROR":
		attr = color.FgRed
	default:
		return fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	c := color.New(attr)
	c.EnableColor()
	return fmt.Sprintf("[%s] [%s] %s\n", ts, c.Sprint(level), message)
}

// logEvent writes a timestamped, styled event line when level allows it.
func (cl *ConsoleLogger) logEvent(level string, style Style, message string) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	if cl.colorOutput {
		message = cl.scheme.colorize(message, style)
	}
	fmt.Fprintf(cl.writer, "[%s] %s\n", timestamp(), message)
}

// Print writes text followed by a newline, rendered in style.
// Each line of a multi-line text is styled separately. Print is not
// subject to level filtering: it carries user-facing output.
func (cl *ConsoleLogger) Print(text string, style Style) {
	if cl.writer == nil {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	if cl.colorOutput {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = cl.scheme.colorize(line, style)
		}
		text = strings.Join(lines, "\n")
	}
	io.WriteString(cl.writer, text+"\n")
}

// LogRunStart logs what a run is about to search for at INFO level.
// Format: "[HH:MM:SS] Starting a recursive search in '<root>' ..."
func (cl *ConsoleLogger) LogRunStart(cfg *config.RunConfig) {
	cl.logEvent("info", StyleInfo, runStartMessage(cfg))
}

// LogDirectoryStart logs entry into a directory at INFO level.
// Format: "[HH:MM:SS] Searching for files in directory '<path>'"
func (cl *ConsoleLogger) LogDirectoryStart(path string) {
	cl.logEvent("info", StyleInfo, directoryStartMessage(path))
}

// LogFileSearched logs a file handed to the substitution engine at DEBUG level.
func (cl *ConsoleLogger) LogFileSearched(path string) {
	cl.logEvent("debug", StyleMuted, fileSearchedMessage(path))
}

// LogFileSkipped logs a file or directory left out of the run at TRACE level.
func (cl *ConsoleLogger) LogFileSkipped(path, reason string) {
	cl.logEvent("trace", StyleMuted, fileSkippedMessage(path, reason))
}

// LogFileMatch logs the occurrences found in one file at INFO level.
// Format: "[HH:MM:SS] 2 occurrences of search string were updated in <path>"
func (cl *ConsoleLogger) LogFileMatch(path string, occurrences int, dryRun bool) {
	cl.logEvent("info", StyleMatch, fileMatchMessage(path, occurrences, dryRun))
}

// LogSummary logs the one-line outcome of a run at INFO level.
func (cl *ConsoleLogger) LogSummary(result *models.Result) {
	style := StyleSuccess
	if result != nil && (result.Aborted || result.HasProblems()) {
		style = StyleWarning
	}
	cl.logEvent("info", style, summaryMessage(result))
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

func runStartMessage(cfg *config.RunConfig) string {
	if cfg == nil {
		return "Starting a recursive search"
	}

	var sb strings.Builder
	if cfg.Recurse() {
		sb.WriteString("Starting a recursive search")
	} else {
		sb.WriteString("Starting a search")
	}
	sb.WriteString(fmt.Sprintf(" in '%s' for files ending in %s", cfg.Root(), strings.Join(cfg.Extensions(), "|")))
	if name := cfg.NameContains(); name != "" {
		sb.WriteString(fmt.Sprintf(" whose filename contains '%s'", name))
	}
	if cfg.DryRun() {
		sb.WriteString(" (dry run)")
	}
	return sb.String()
}

func directoryStartMessage(path string) string {
	return fmt.Sprintf("Searching for files in directory '%s'", path)
}

func fileSearchedMessage(path string) string {
	return fmt.Sprintf("File searched: '%s'", path)
}

func fileSkippedMessage(path, reason string) string {
	return fmt.Sprintf("Skipped '%s': %s", path, reason)
}

func fileMatchMessage(path string, occurrences int, dryRun bool) string {
	noun, verb := "occurrences", "were"
	if occurrences == 1 {
		noun, verb = "occurrence", "was"
	}
	action := "updated"
	if dryRun {
		action = "found"
	}
	return fmt.Sprintf("%d %s of search string %s %s in %s", occurrences, noun, verb, action, path)
}

func summaryMessage(result *models.Result) string {
	if result == nil {
		return "Run complete: nothing was searched"
	}

	status := "Run complete"
	if result.Aborted {
		status = "Run aborted"
	}

	changed := "changed"
	if result.DryRun {
		changed = "matched"
	}

	msg := fmt.Sprintf("%s: %d %s visited, %d %s %s, %d %s (%s)",
		status,
		result.DirectoriesVisited, plural(result.DirectoriesVisited, "directory", "directories"),
		result.FilesChanged, plural(result.FilesChanged, "file", "files"), changed,
		result.Occurrences, plural(result.Occurrences, "occurrence", "occurrences"),
		formatDuration(result.Duration))

	if n := len(result.FailedWrites); n > 0 {
		msg += fmt.Sprintf(", %d failed %s", n, plural(n, "write", "writes"))
	}
	return msg
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatDuration renders a duration compactly: "850ms", "12s", "3m5s", "1h2m".
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogRunStart is a no-op implementation.
func (n *NoOpLogger) LogRunStart(cfg *config.RunConfig) {}

// LogDirectoryStart is a no-op implementation.
func (n *NoOpLogger) LogDirectoryStart(path string) {}

// LogFileSearched is a no-op implementation.
func (n *NoOpLogger) LogFileSearched(path string) {}

// LogFileSkipped is a no-op implementation.
func (n *NoOpLogger) LogFileSkipped(path, reason string) {}

// LogFileMatch is a no-op implementation.
func (n *NoOpLogger) LogFileMatch(path string, occurrences int, dryRun bool) {}

// LogSummary is a no-op implementation.
func (n *NoOpLogger) LogSummary(result *models.Result) {}

// LogWarn is a no-op implementation.
func (n *NoOpLogger) LogWarn(message string) {}

// LogError is a no-op implementation.
func (n *NoOpLogger) LogError(message string) {}
