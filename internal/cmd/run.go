package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/findreplace/internal/config"
	"github.com/harrison/findreplace/internal/filelock"
	"github.com/harrison/findreplace/internal/logger"
	"github.com/harrison/findreplace/internal/models"
	"github.com/harrison/findreplace/internal/replace"
	"github.com/harrison/findreplace/internal/report"
	"github.com/harrison/findreplace/internal/walker"
)

// runFindReplace implements the root command logic
func runFindReplace(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("find")
	if search == "" {
		return cmd.Help()
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	replacement, _ := cmd.Flags().GetString("replace")
	extensions, _ := cmd.Flags().GetString("ext")
	nameContains, _ := cmd.Flags().GetString("name")
	noRecurse, _ := cmd.Flags().GetBool("no_recurse")
	dryRun, _ := cmd.Flags().GetBool("test")
	reportPath, _ := cmd.Flags().GetString("report")

	runCfg, err := config.NewRunConfig(config.RunOptions{
		Dir:          dir,
		Search:       search,
		Replacement:  replacement,
		Extensions:   extensions,
		NameContains: nameContains,
		NoRecurse:    noRecurse,
		DryRun:       dryRun,
	}, settings)
	if err != nil {
		return err
	}

	if reportPath != "" {
		reportPath = config.ExpandHome(reportPath)
		if _, err := report.FormatForPath(reportPath); err != nil {
			return &config.ConfigError{Field: "report", Message: "cannot export report", Err: err}
		}
	}

	consoleLog := logger.NewConsoleLogger(cmd.OutOrStdout(), settings.LogLevel)
	multiLog := &multiLogger{loggers: []runLogger{consoleLog}}

	if settings.LogDir != "" {
		fileLog, err := logger.NewFileLoggerWithLevel(settings.LogDir, settings.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLog.Close()
		multiLog.loggers = append(multiLog.loggers, fileLog)
	}

	// Dry runs never write, so they do not need to exclude other runs.
	if !runCfg.DryRun() {
		lock := filelock.NewRunLock(runCfg.Root())
		if err := lock.Acquire(); err != nil {
			return err
		}
		defer lock.Release()
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	w := walker.New(runCfg, replace.NewEngine(), multiLog)
	result, walkErr := w.WalkContext(ctx, runCfg.Root())
	if config.IsConfigError(walkErr) {
		return walkErr
	}

	report.PrintSummary(multiLog, result, walkErr)

	if reportPath != "" {
		if err := report.Export(reportPath, report.New(runCfg, result, walkErr, startedAt)); err != nil {
			if walkErr != nil {
				return fmt.Errorf("%w (and %v)", walkErr, err)
			}
			return err
		}
		multiLog.Print(fmt.Sprintf("Report written to %s", reportPath), logger.StyleInfo)
	}

	return walkErr
}

// loadSettings reads the settings file and applies the flags that override it.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var settings *config.Config
	var err error
	if configPath != "" {
		configPath = config.ExpandHome(configPath)
		settings, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, &config.ConfigError{Field: "config", Message: "failed to load settings from " + configPath, Err: err}
		}
	} else {
		settings, err = config.LoadDefaultConfig()
		if err != nil {
			return nil, &config.ConfigError{Field: "config", Message: "failed to load settings", Err: err}
		}
	}

	var logLevelPtr *string
	if cmd.Flags().Changed("log-level") {
		logLevel, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &logLevel
	}

	var logDirPtr *string
	if cmd.Flags().Changed("log-dir") {
		logDir, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &logDir
	}

	var gitignorePtr *bool
	if cmd.Flags().Changed("gitignore") {
		gitignore, _ := cmd.Flags().GetBool("gitignore")
		gitignorePtr = &gitignore
	}

	settings.MergeWithFlags(logLevelPtr, logDirPtr, gitignorePtr)
	return settings, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// runLogger is what every run output destination implements.
type runLogger interface {
	walker.Logger
	logger.Printer
}

// multiLogger implements walker.Logger and logger.Printer by delegating to multiple loggers
type multiLogger struct {
	loggers []runLogger
}

// LogRunStart forwards to all loggers
func (ml *multiLogger) LogRunStart(cfg *config.RunConfig) {
	for _, l := range ml.loggers {
		l.LogRunStart(cfg)
	}
}

// LogDirectoryStart forwards to all loggers
func (ml *multiLogger) LogDirectoryStart(path string) {
	for _, l := range ml.loggers {
		l.LogDirectoryStart(path)
	}
}

// LogFileSearched forwards to all loggers
func (ml *multiLogger) LogFileSearched(path string) {
	for _, l := range ml.loggers {
		l.LogFileSearched(path)
	}
}

// LogFileSkipped forwards to all loggers
func (ml *multiLogger) LogFileSkipped(path, reason string) {
	for _, l := range ml.loggers {
		l.LogFileSkipped(path, reason)
	}
}

// LogFileMatch forwards to all loggers
func (ml *multiLogger) LogFileMatch(path string, occurrences int, dryRun bool) {
	for _, l := range ml.loggers {
		l.LogFileMatch(path, occurrences, dryRun)
	}
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(result *models.Result) {
	for _, l := range ml.loggers {
		l.LogSummary(result)
	}
}

// LogWarn forwards to all loggers
func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

// LogError forwards to all loggers
func (ml *multiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// Print forwards to all loggers
func (ml *multiLogger) Print(text string, style logger.Style) {
	for _, l := range ml.loggers {
		l.Print(text, style)
	}
}
