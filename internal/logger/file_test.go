package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/findreplace/internal/config"
	"github.com/harrison/findreplace/internal/models"
)

// TestLogDirectoryCreation verifies the log directory is created on initialization
func TestLogDirectoryCreation(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "custom", "logs")

	logger, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Expected log directory %s to exist, but it doesn't", logDir)
	}
}

// TestPerRunLogFile verifies a timestamped log file is created per run
func TestPerRunLogFile(t *testing.T) {
	logDir := t.TempDir()

	logger, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	base := filepath.Base(logger.Path())
	if !strings.HasPrefix(base, "run-") || !strings.HasSuffix(base, ".log") {
		t.Errorf("Expected run-*.log file, got %s", base)
	}
	if filepath.Dir(logger.Path()) != logDir {
		t.Errorf("Expected run log in %s, got %s", logDir, logger.Path())
	}

	content := readRunLog(t, logDir)
	if !strings.Contains(content, "=== findreplace Run Log ===") {
		t.Errorf("Expected header in run log, got %q", content)
	}
	if !strings.Contains(content, "Started at:") {
		t.Errorf("Expected start time in run log, got %q", content)
	}
}

// TestLatestSymlink verifies latest.log points at the current run log
func TestLatestSymlink(t *testing.T) {
	logDir := t.TempDir()

	logger, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	symlinkPath := filepath.Join(logDir, "latest.log")
	linkInfo, err := os.Lstat(symlinkPath)
	if err != nil {
		t.Fatalf("Expected latest.log symlink to exist: %v", err)
	}

	if linkInfo.Mode()&os.ModeSymlink == 0 {
		t.Error("Expected latest.log to be a symlink")
	}

	target, err := os.Readlink(symlinkPath)
	if err != nil {
		t.Fatalf("Failed to read symlink: %v", err)
	}

	if target != filepath.Base(logger.Path()) {
		t.Errorf("Expected symlink to point to %s, got %s", filepath.Base(logger.Path()), target)
	}
}

// TestSymlinkUpdate verifies symlink updates on new run
func TestSymlinkUpdate(t *testing.T) {
	logDir := t.TempDir()

	logger1, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	target1, err := os.Readlink(symlinkPath)
	if err != nil {
		t.Fatalf("Failed to read symlink: %v", err)
	}

	logger1.Close()

	// Run log names have one-second resolution.
	time.Sleep(time.Second)

	logger2, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger2.Close()

	target2, err := os.Readlink(symlinkPath)
	if err != nil {
		t.Fatalf("Failed to read symlink: %v", err)
	}

	if target1 == target2 {
		t.Error("Expected symlink to point to new log file, but it still points to old one")
	}
}

func TestFileLogRunEvents(t *testing.T) {
	logDir := t.TempDir()
	root := t.TempDir()

	logger, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	cfg, err := config.NewRunConfig(config.RunOptions{
		Dir:         root,
		Search:      "hello",
		Replacement: "hi",
		Extensions:  ".txt",
	}, &config.Config{MaxEntriesPerDir: 10, MaxDepth: 4, LogLevel: "info", SkipDirs: []string{"/vendor"}})
	if err != nil {
		t.Fatalf("NewRunConfig() error = %v", err)
	}

	logger.LogRunStart(cfg)
	logger.LogDirectoryStart(root)
	logger.LogFileSearched(filepath.Join(root, "a.txt"))
	logger.LogFileMatch(filepath.Join(root, "a.txt"), 2, false)
	logger.Print("plain text line", StyleHeading)

	content := readRunLog(t, logDir)
	for _, want := range []string{
		"Starting a recursive search in '" + root + "'",
		`Search: "hello"`,
		`Replacement: "hi"`,
		"Skip patterns: /vendor",
		"Searching for files in directory '" + root + "'",
		"2 occurrences of search string were updated in " + filepath.Join(root, "a.txt"),
		"plain text line\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected run log to contain %q, got:\n%s", want, content)
		}
	}

	if strings.Contains(content, "File searched") {
		t.Error("Expected searched-file events to be filtered at info level")
	}
	if strings.Contains(content, "\x1b[") {
		t.Error("Expected no escape codes in run log")
	}
}

func TestFileLogSummary(t *testing.T) {
	logDir := t.TempDir()

	logger, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	result := models.NewResult(false)
	result.DirectoriesVisited = 2
	result.RecordMatch("/srv/a.txt", 1)
	result.RecordMatch("/srv/b.txt", 3)
	result.RecordFailedWrite("/srv/b.txt")
	result.RecordUnreadableFile("/srv/c.txt")
	result.RecordUnlistedDir("/srv/locked")

	logger.LogSummary(result)

	content := readRunLog(t, logDir)
	for _, want := range []string{
		"Run complete: 2 directories visited, 2 files changed, 4 occurrences",
		"1 failed write",
		"changed: /srv/a.txt",
		"changed: /srv/b.txt",
		"failed write: /srv/b.txt",
		"unreadable: /srv/c.txt",
		"unlisted: /srv/locked",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected run log to contain %q, got:\n%s", want, content)
		}
	}
}

func TestCloseFlushesLogs(t *testing.T) {
	logDir := t.TempDir()

	logger, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	logger.LogDirectoryStart("/srv/site")

	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	content := readRunLog(t, logDir)
	if !strings.Contains(content, "/srv/site") {
		t.Error("Expected log content to be flushed to disk after Close()")
	}

	// Writes after Close are dropped.
	logger.LogDirectoryStart("/srv/after-close")
	if strings.Contains(readRunLog(t, logDir), "after-close") {
		t.Error("Expected writes after Close() to be discarded")
	}
}

// TestConcurrentLogWrites verifies thread-safe logging
func TestConcurrentLogWrites(t *testing.T) {
	logDir := t.TempDir()

	logger, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.LogDirectoryStart(fmt.Sprintf("/dir-%d", n))
		}(i)
	}
	wg.Wait()

	content := readRunLog(t, logDir)
	for i := 0; i < 10; i++ {
		if !strings.Contains(content, fmt.Sprintf("'/dir-%d'", i)) {
			t.Errorf("Expected entry for /dir-%d", i)
		}
	}
}

// TestNewFileLoggerInvalidPath verifies error handling for invalid paths
func TestNewFileLoggerInvalidPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileLogger(filepath.Join(blocker, "logs")); err == nil {
		t.Error("Expected error when the log directory cannot be created")
	}
}

// TestCloseTwice verifies closing logger twice doesn't error
func TestCloseTwice(t *testing.T) {
	logger, err := NewFileLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("First Close() error = %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("Second Close() error = %v", err)
	}
}

// Helper function to read the current run log through the latest.log symlink
func readRunLog(t *testing.T, logDir string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(logDir, "latest.log"))
	if err != nil {
		t.Fatalf("Failed to read run log: %v", err)
	}
	return string(content)
}
