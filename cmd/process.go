// =============================================================================
// Atlassian Quote Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, which is the batch front end of
// the conversion pipeline. It orchestrates discovery, conversion, and the
// end-of-run summary.
//
// COMMAND USAGE:
//   atlassian-quotes process [flags]
//
// FLAGS:
//   --input   : Override the configured input directory
//   --output  : Override the configured output directory
//   --file    : Convert a single file instead of scanning the input directory
//
// PROCESSING PIPELINE:
//   1. Load the configuration file
//   2. Discover quote documents in the input directory
//   3. For each file (concurrently, bounded by max_concurrency):
//      a. Classify the input (PDF or JSON)
//      b. Extract line items
//      c. Group by sequence number
//      d. Render the workbook and write it to the output directory
//   4. Print per-file status lines and a summary block
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minhtrinh06/atlassian-quotes/internal/config"
	"github.com/minhtrinh06/atlassian-quotes/internal/converter"
	"github.com/minhtrinh06/atlassian-quotes/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inputDirFlag overrides the configured input directory when non-empty.
var inputDirFlag string

// outputDirFlag overrides the configured output directory when non-empty.
var outputDirFlag string

// singleFileFlag converts one specific file instead of scanning a directory.
var singleFileFlag string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert quote documents into Excel workbooks",
	Long: `The process command scans the input directory for quote documents (PDF by
default, configurable via input_patterns), converts each one to a normalized
Excel workbook, and writes it to the output directory.

Files are converted concurrently, bounded by max_concurrency. Each document
is processed independently; a malformed file is reported and skipped without
affecting the rest of the batch.

The generated workbook contains one row per billing line, grouped by
sequence number, with live SUM formulas for group totals and the grand
total.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the process command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&inputDirFlag,
		"input",
		"",
		"Input directory to scan (overrides the configured input_dir)",
	)

	processCmd.Flags().StringVar(
		&outputDirFlag,
		"output",
		"",
		"Output directory for workbooks (overrides the configured output_dir)",
	)

	processCmd.Flags().StringVar(
		&singleFileFlag,
		"file",
		"",
		"Convert a single file instead of scanning the input directory",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess is the main function that orchestrates the batch conversion.
func runProcess() error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println(titleStyle.Render("=== Atlassian Quote Converter ==="))

	mainConfig, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfiguredLevel(mainConfig.LogLevel)

	if inputDirFlag != "" {
		mainConfig.InputDir = inputDirFlag
	}
	if outputDirFlag != "" {
		mainConfig.OutputDir = outputDirFlag
	}
	if err := utils.EnsureDirectories(mainConfig.InputDir, mainConfig.OutputDir); err != nil {
		return fmt.Errorf("failed to prepare directories: %w", err)
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if singleFileFlag != "" {
		if !utils.FileExists(singleFileFlag) {
			return fmt.Errorf("input file not found: %s", singleFileFlag)
		}
		inputFiles = []string{singleFileFlag}
	} else {
		names, err := utils.DiscoverInputFiles(mainConfig.InputDir, mainConfig.InputPatterns)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
		for _, name := range names {
			inputFiles = append(inputFiles, filepath.Join(mainConfig.InputDir, name))
		}
	}

	if len(inputFiles) == 0 {
		fmt.Printf("No matching files found in %s.\n", mainConfig.InputDir)
		return nil
	}

	fmt.Printf("Found %d file(s) to process\n\n", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================
	// One goroutine per file, with a semaphore capping how many conversions
	// run at once. Results are collected over a buffered channel so no
	// goroutine blocks on a slow consumer.

	var wg sync.WaitGroup
	results := make(chan converter.Result, len(inputFiles))
	sem := make(chan struct{}, mainConfig.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)

		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results <- converter.New(path, mainConfig).Run()
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	var successCount, errorCount int

	for result := range results {
		name := filepath.Base(result.FilePath)

		for _, diag := range result.Report.Diagnostics {
			zap.L().Debug("pipeline diagnostic",
				zap.String("file", name),
				zap.String("severity", string(diag.Severity)),
				zap.String("message", diag.Message),
				zap.Any("context", diag.Context),
			)
		}

		if result.Success {
			successCount++
			stats := result.Report.Stats
			fmt.Printf("  %s %s -> %s %s\n",
				successStyle.Render("✓"),
				name,
				result.OutputFile,
				subtleStyle.Render(fmt.Sprintf("(%d items, %d groups)",
					stats.ItemsExtracted, stats.GroupsCreated)),
			)
		} else {
			errorCount++
			fmt.Printf("  %s %s: %v\n", errorStyle.Render("✗"), name, result.Error)
		}
	}

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	elapsed := time.Since(startTime)
	summary := fmt.Sprintf("%s\nTotal files:  %d\nSuccessful:   %d\nErrors:       %d\nTime elapsed: %s",
		titleStyle.Render("Processing Complete"),
		len(inputFiles),
		successCount,
		errorCount,
		elapsed.Round(time.Millisecond),
	)
	fmt.Println("\n" + summaryBox.Render(summary))

	if errorCount > 0 {
		return fmt.Errorf("%d of %d file(s) failed", errorCount, len(inputFiles))
	}
	return nil
}
