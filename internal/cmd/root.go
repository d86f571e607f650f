package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for findreplace
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "findreplace -d <dir> -f <search> -r <replacement> -e <ext|ext>",
		Short: "Recursive search & replace in multiple files",
		Long: `Search & Replace in Multiple Files.
Finds files (recursively) and does a literal search & replace inside them.

Only files whose name ends with one of the --ext suffixes are searched.
Directories whose path contains a skip pattern are never entered, and when
allow patterns are configured only directories containing one of them are
searched. Both lists come from the settings file
($FINDREPLACE_HOME/config.yaml, default ~/.findreplace/config.yaml).

Running without a search string prints these instructions.

Examples:
  # Preview the change without writing anything
  findreplace -d ~/sites/blog -f 'http://' -r 'https://' -e '.html|.php' --test

  # Do the replacement
  findreplace -d ~/sites/blog -f 'http://' -r 'https://' -e '.html|.php'

  # Only the top directory, only files whose name contains "config"
  findreplace -d ~/app -f old_host -r new_host -e .ini -n config --no_recurse

  # Delete a string and keep a report of what changed
  findreplace -d ~/docs -f ' (draft)' -e .md --report changes.md`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE:    runFindReplace,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.Flags().StringP("dir", "d", "", "Search within <dir> directory (~ is expanded)")
	cmd.Flags().StringP("find", "f", "", "<string> to search for (literal, case-sensitive)")
	cmd.Flags().StringP("replace", "r", "", "<string> to replace the search string with (default: delete it)")
	cmd.Flags().StringP("ext", "e", "", "Pipe-delimited file name suffixes to search, e.g. '.php|.html'")
	cmd.Flags().StringP("name", "n", "", "Limit to files with names containing <text>")
	cmd.Flags().Bool("no_recurse", false, "Do not recurse into subdirectories")
	cmd.Flags().Bool("test", false, "Test mode: perform a dry run (will not make any changes)")
	cmd.Flags().String("config", "", "Path to settings file (default: $FINDREPLACE_HOME/config.yaml)")
	cmd.Flags().String("log-level", "", "Console and file log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Also write a run log to this directory")
	cmd.Flags().String("report", "", "Write a run report; format from extension (.yaml, .md, .html)")
	cmd.Flags().Bool("gitignore", false, "Skip paths matched by the .gitignore at the root directory")

	return cmd
}
