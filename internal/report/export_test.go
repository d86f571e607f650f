package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/harrison/findreplace/internal/config"
	"github.com/harrison/findreplace/internal/models"
)

func newTestReport(t *testing.T, dryRun bool) *Report {
	t.Helper()

	root := t.TempDir()
	cfg, err := config.NewRunConfig(config.RunOptions{
		Dir:          root,
		Search:       "hello",
		Replacement:  "hi",
		Extensions:   ".txt|.md",
		NameContains: "read",
		DryRun:       dryRun,
	}, &config.Config{MaxEntriesPerDir: 100, MaxDepth: 8, LogLevel: "info", SkipDirs: []string{"/vendor"}})
	require.NoError(t, err)

	result := models.NewResult(dryRun)
	result.DirectoriesVisited = 2
	result.RecordMatch(filepath.Join(root, "readme.txt"), 3)
	result.Duration = 1500 * time.Millisecond

	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return New(cfg, result, nil, started)
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.yaml", FormatYAML, false},
		{"out.YML", FormatYAML, false},
		{"report.md", FormatMarkdown, false},
		{"report.markdown", FormatMarkdown, false},
		{"/tmp/report.html", FormatHTML, false},
		{"report.htm", FormatHTML, false},
		{"report.json", "", true},
		{"report", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	r := newTestReport(t, false)

	_, err := uuid.Parse(r.RunID)
	assert.NoError(t, err, "run ID must be a UUID")
	assert.Equal(t, StatusCompleted, r.Status)
	assert.Equal(t, r.StartedAt.Add(1500*time.Millisecond), r.FinishedAt)
	assert.Equal(t, "1.5s", r.Duration)
	assert.Equal(t, "hello", r.Settings.Search)
	assert.Equal(t, []string{".txt", ".md"}, r.Settings.Extensions)
	assert.Equal(t, []string{"/vendor"}, r.Settings.SkipPatterns)
	assert.Equal(t, 1, r.Counts.FilesChanged)
	assert.Equal(t, 1, r.Counts.FilesWritten)
	assert.Equal(t, 3, r.Counts.Occurrences)
	assert.Empty(t, r.Error)

	other := newTestReport(t, false)
	assert.NotEqual(t, r.RunID, other.RunID)
}

func TestNew_Status(t *testing.T) {
	assert.Equal(t, StatusDryRun, newTestReport(t, true).Status)

	cfg, err := config.NewRunConfig(config.RunOptions{Dir: t.TempDir(), Search: "x", Extensions: ".txt"},
		&config.Config{MaxEntriesPerDir: 1, MaxDepth: 1, LogLevel: "info"})
	require.NoError(t, err)

	result := models.NewResult(false)
	result.Aborted = true
	r := New(cfg, result, errors.New("runaway traversal"), time.Now())
	assert.Equal(t, StatusAborted, r.Status)
	assert.Equal(t, "runaway traversal", r.Error)
	assert.Equal(t, 0, r.Counts.FilesWritten)
}

func TestYAML(t *testing.T) {
	r := newTestReport(t, false)

	data, err := r.YAML()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, r.RunID, decoded["run_id"])
	assert.Equal(t, "completed", decoded["status"])

	settings, ok := decoded["settings"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hi", settings["replacement"])
	assert.Equal(t, "read", settings["name_contains"])

	counts, ok := decoded["counts"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 3, counts["occurrences"])

	assert.NotContains(t, decoded, "failed_writes", "empty problem lists are omitted")
}

func TestMarkdown(t *testing.T) {
	r := newTestReport(t, true)

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "# findreplace run "+r.RunID))
	assert.Contains(t, md, "| Status | dry-run |")
	assert.Contains(t, md, "| Search | `hello` |")
	assert.Contains(t, md, "| Extensions | `.txt\\|.md` |")
	assert.Contains(t, md, "| Filename contains | `read` |")
	assert.Contains(t, md, "- Occurrences: 3")
	assert.Contains(t, md, "## Changed files")
	assert.Contains(t, md, "readme.txt`")
	assert.NotContains(t, md, "## Failed writes")
}

func TestMarkdown_EmptyChangedList(t *testing.T) {
	cfg, err := config.NewRunConfig(config.RunOptions{Dir: t.TempDir(), Search: "x", Extensions: ".txt"},
		&config.Config{MaxEntriesPerDir: 1, MaxDepth: 1, LogLevel: "info"})
	require.NoError(t, err)

	md := New(cfg, models.NewResult(false), nil, time.Now()).Markdown()
	assert.Contains(t, md, "## Changed files\n\nNone.")
	assert.Contains(t, md, "| Replacement | *(empty)* |")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "`plain`", code("plain"))
	assert.Equal(t, "``a`b``", code("a`b"))
	assert.Equal(t, "`` `tick ``", code("`tick"))
	assert.Equal(t, "*(empty)*", code(""))
}

func TestHTML(t *testing.T) {
	r := newTestReport(t, false)
	r.Settings.Search = "<script>"

	page, err := r.HTML()
	require.NoError(t, err)

	html := string(page)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>findreplace run "+r.RunID+"</title>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<h2>Counts</h2>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestExport(t *testing.T) {
	r := newTestReport(t, false)
	dir := t.TempDir()

	tests := []struct {
		name  string
		file  string
		check string
	}{
		{"yaml", "report.yaml", "run_id: " + r.RunID},
		{"markdown", "report.md", "# findreplace run " + r.RunID},
		{"html", "report.html", "<h1>findreplace run " + r.RunID + "</h1>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, Export(path, r))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.check)
		})
	}

	t.Run("overwrites an existing report", func(t *testing.T) {
		path := filepath.Join(dir, "again.md")
		require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))
		require.NoError(t, Export(path, r))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "stale")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		err := Export(filepath.Join(dir, "report.json"), r)
		assert.Error(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "report.json"))
		assert.True(t, os.IsNotExist(statErr))
	})
}
