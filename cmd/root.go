// =============================================================================
// Atlassian Quote Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'process', 'serve') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (atlassian-quotes)
//   ├── processCmd (atlassian-quotes process)
//   ├── serveCmd   (atlassian-quotes serve)
//   └── versionCmd (atlassian-quotes version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Initializing the zap logger before any subcommand runs
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// logLevel is the live logging threshold. Subcommands lower or raise it
// once the configuration file has been read, unless --verbose already
// forced debug output.
var logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
// This is the entry point for the CLI application.
var rootCmd = &cobra.Command{
	Use: "atlassian-quotes",

	Short: "Atlassian Quote Converter - Transform quote exports into normalized Excel workbooks",

	Long: `Atlassian Quote Converter is a CLI tool that turns Atlassian billing
documents (tabular PDF quotes and nested JSON quote exports) into normalized
Excel workbooks with per-product subtotals and a live grand total formula.

Key Features:
  - Automatic input classification (PDF vs JSON) from content, not extension
  - Positional table reconstruction for PDFs without ruling lines
  - Nested JSON flattening across the known quote export shapes
  - Live SUM formulas so the workbook stays correct when edited
  - Concurrent batch processing and an HTTP upload front end

Example Usage:
  atlassian-quotes process                    # Convert all files in the input directory
  atlassian-quotes process --config ./my.yaml # Use a custom configuration file
  atlassian-quotes serve                      # Run the HTTP upload server`,

	// Errors are reported once by Execute, so keep Cobra quiet about them
	// and skip the usage dump on runtime failures.
	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// LOGGING
// =============================================================================

// initLogging builds the process-wide zap logger and installs it with
// zap.ReplaceGlobals. With --verbose the development config is used (console
// encoding, debug level); otherwise the production config (JSON encoding,
// level driven by logLevel).
func initLogging() error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = logLevel
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	zap.ReplaceGlobals(logger)
	return nil
}

// applyConfiguredLevel honors the configuration file's log_level once a
// subcommand has loaded it. --verbose wins over the file.
func applyConfiguredLevel(level string) {
	if verbose || level == "" {
		return
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		zap.L().Warn("ignoring invalid log_level", zap.String("log_level", level))
		return
	}
	logLevel.SetLevel(parsed)
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init is called automatically when the package is loaded.
// It sets up the global flags shared by every subcommand.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	// --config flag: Allows the user to specify a custom configuration file.
	// Default is "config.yaml" in the current directory.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	// --verbose flag: Enables verbose/debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
