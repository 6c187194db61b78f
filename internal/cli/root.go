// Package cli implements the cobra-based command line for advent-new.
//
// The tool has a single action, so the root command itself scaffolds the
// package (new.go). This file holds the command definition, global flags,
// logging setup and the error-to-exit-code translation.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/advent-new/internal/model"
)

// Global flag variables, bound to persistent flags on the root command.
// NewRootCommand resets them to their defaults each time it binds them.
var (
	// jsonOutput switches result and error output to JSON.
	// Results go to stdout and errors to stderr in both formats.
	jsonOutput bool

	// verbose lowers the log level to debug, so each pipeline step
	// reports what it did on stderr.
	verbose bool

	// configPath is an explicit config file; empty means the default location.
	configPath string
)

// logger is the process-wide logger. It writes nothing until setupLogger runs.
var logger = zerolog.Nop()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// There are no subcommands: the root command takes the package name as
// its only argument and runs the scaffolding pipeline in new.go.
func NewRootCommand() *cobra.Command {
	flags := &newFlags{}

	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "advent-new <name>",
		Short: "Scaffold a new puzzle solution package",
		Long: `advent-new creates a solution package for one puzzle day, adds it to the
Cargo workspace in the current directory, and downloads the day's input.

The day is parsed from the package name unless --day is given, so
"advent-new twelve" sets up day 12.

Examples:
  advent-new twelve
  advent-new twenty-one
  advent-new warmup --day 1`,

		// Args rejects a missing or extra package name before RunE runs.
		Args: cobra.ExactArgs(1),

		// SilenceUsage prevents cobra from printing usage on every error.
		// A failed download is not a usage mistake.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats them itself (text or JSON based on --json).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRun runs after flag parsing, so the logger sees the
		// final value of --verbose.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger()
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			// Changed distinguishes "--day 0" from no flag at all; only an
			// explicitly given day skips parsing the name.
			var day *int
			if cmd.Flags().Changed("day") {
				day = &flags.day
			}
			return runNew(cmd, args[0], day)
		},
	}

	// PersistentFlags are global options; --day is a local flag because
	// it only makes sense together with the package name.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $HOME/.config/aocd/config.jsonc)")

	rootCmd.Flags().IntVar(&flags.day, "day", 0, "Puzzle day (default: parsed from <name>)")

	return rootCmd
}

// Execute runs the root command and exits with the code carried by the
// returned error. Errors that are not CLIErrors exit with 1.
// This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// runNew wraps every failure in a CLIError, so only cobra's own
		// argument and flag errors take the generic path below.
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error, exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError writes an error to stderr as text or JSON depending on --json.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout carries only the
		// result of a successful run.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// setupLogger builds the stderr console logger. Colour is disabled when
// stderr is not a terminal or NO_COLOR is set.
func setupLogger() {
	noColor := os.Getenv("NO_COLOR") != ""
	if fi, err := os.Stderr.Stat(); err == nil && (fi.Mode()&os.ModeCharDevice) == 0 {
		noColor = true
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
	logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// VerboseLog prints a debug message, visible only with --verbose.
func VerboseLog(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
