// =============================================================================
// Atlassian Quote Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the entire
// pipeline for a single document, from input classification to workbook
// serialization.
//
// CONVERSION PIPELINE:
//   1. Classify the input as PDF or JSON
//   2. Extract billing line items (table reconstruction or path probing)
//   3. Group line items by sequence number
//   4. Render the grouped items into the five-column workbook
//
// BOUNDARY CONTRACT:
//   Convert never lets a failure escape as a panic or an error value: every
//   outcome is folded into the returned Report as a (status, message) pair,
//   so batch front ends always complete with a per-file breakdown. The
//   pipeline itself performs no I/O and no logging; structured diagnostics
//   ride along in the Report for the presentation layer to render.
//
// CONCURRENCY:
//   Each document is independent, with no shared mutable state, so callers
//   may run conversions concurrently (one goroutine per file).
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minhtrinh06/atlassian-quotes/internal/config"
	"github.com/minhtrinh06/atlassian-quotes/internal/detect"
	"github.com/minhtrinh06/atlassian-quotes/internal/grouper"
	"github.com/minhtrinh06/atlassian-quotes/internal/jsonparser"
	"github.com/minhtrinh06/atlassian-quotes/internal/pdfparser"
	"github.com/minhtrinh06/atlassian-quotes/internal/types"
	"github.com/minhtrinh06/atlassian-quotes/internal/xlsxwriter"
	"github.com/minhtrinh06/atlassian-quotes/pkg/utils"
)

// =============================================================================
// REPORT STRUCTURES
// =============================================================================

// Status is the outcome class of a conversion.
type Status string

const (
	// StatusSuccess means a workbook was produced.
	StatusSuccess Status = "success"

	// StatusError covers both hard parse failures and soft no-data outcomes;
	// the Message distinguishes them.
	StatusError Status = "error"
)

// Report describes the outcome of converting a single document.
type Report struct {
	// Filename is the input name the document was submitted under.
	Filename string `json:"filename"`

	// Format is the classified input format.
	Format types.Format `json:"format"`

	// Status is success or error.
	Status Status `json:"status"`

	// Message is the human-readable outcome line.
	Message string `json:"message"`

	// Diagnostics are the structured events the extractors emitted.
	Diagnostics []types.Diagnostic `json:"diagnostics,omitempty"`

	// Stats contains processing statistics.
	Stats ProcessingStats `json:"stats"`
}

// ProcessingStats contains statistics about the conversion.
type ProcessingStats struct {
	// TablesFound is the number of tables reconstructed from a PDF input.
	// Always 0 for JSON inputs.
	TablesFound int `json:"tables_found"`

	// ItemsExtracted is the number of line items the extractor produced.
	ItemsExtracted int `json:"items_extracted"`

	// GroupsCreated is the number of sequence-number groups rendered.
	GroupsCreated int `json:"groups_created"`

	// ProcessingTime is the time taken to convert the document.
	ProcessingTime time.Duration `json:"processing_time"`
}

// =============================================================================
// DOCUMENT CONVERSION
// =============================================================================

// Convert runs the full pipeline on one document.
//
// PARAMETERS:
//   - filename: The name the document was submitted under; its extension
//     drives format classification.
//   - content: The raw document bytes.
//
// RETURNS:
//   - The serialized .xlsx workbook, nil when Status is error.
//   - A Report describing the outcome either way.
func Convert(filename string, content []byte) (data []byte, report Report) {
	start := time.Now()
	report = Report{Filename: filename, Status: StatusError}

	defer func() {
		if r := recover(); r != nil {
			data = nil
			report.Status = StatusError
			report.Message = fmt.Sprintf("Error processing file: %v", r)
		}
		report.Stats.ProcessingTime = time.Since(start)
	}()

	report.Format = detect.Detect(filename, content)

	var items []types.LineItem
	switch report.Format {
	case types.FormatJSON:
		extracted, diags, err := jsonparser.Extract(content)
		report.Diagnostics = append(report.Diagnostics, diags...)
		if err != nil {
			report.Message = fmt.Sprintf("Error processing file: %v", err)
			return nil, report
		}
		if len(extracted) == 0 {
			report.Message = "No data extracted from JSON"
			return nil, report
		}
		items = extracted

	default:
		tables, diags, err := pdfparser.ExtractTables(content)
		report.Diagnostics = append(report.Diagnostics, diags...)
		if err != nil {
			report.Message = fmt.Sprintf("Error processing file: %v", err)
			return nil, report
		}
		if len(tables) == 0 {
			report.Message = "No tables found in PDF"
			return nil, report
		}
		report.Stats.TablesFound = len(tables)

		extracted, itemDiags := pdfparser.ItemsFromTables(tables)
		report.Diagnostics = append(report.Diagnostics, itemDiags...)
		if len(extracted) == 0 {
			report.Message = "No data extracted from PDF"
			return nil, report
		}
		items = extracted
	}

	groups := grouper.Group(items)

	data, err := xlsxwriter.Write(groups)
	if err != nil {
		report.Message = fmt.Sprintf("Error processing file: %v", err)
		return nil, report
	}

	report.Status = StatusSuccess
	report.Stats.ItemsExtracted = len(items)
	report.Stats.GroupsCreated = len(groups)
	report.Message = fmt.Sprintf("Successfully processed %d items into %d groups", len(items), len(groups))
	return data, report
}

// =============================================================================
// FILE CONVERTER
// =============================================================================

// Converter handles the conversion of a single document file on disk. It is
// the unit of work the batch command fans out to its worker pool.
type Converter struct {
	// inputPath is the path to the input document.
	inputPath string

	// cfg is the main application configuration.
	cfg *config.MainConfig
}

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated workbook.
	// This is empty if processing failed.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Report is the per-document conversion report.
	Report Report
}

// New creates a new Converter instance for one input file.
func New(inputPath string, cfg *config.MainConfig) *Converter {
	return &Converter{
		inputPath: inputPath,
		cfg:       cfg,
	}
}

// Run executes the conversion pipeline for the file and writes the workbook
// into the configured output directory.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
//
// PROCESSING STEPS:
//   1. Read the input file
//   2. Convert the document in memory
//   3. Derive the output name from the configured format
//   4. Write the workbook
func (c *Converter) Run() Result {
	result := Result{FilePath: c.inputPath}

	content, err := os.ReadFile(c.inputPath)
	if err != nil {
		result.Error = fmt.Errorf("failed to read input file: %w", err)
		return result
	}

	data, report := Convert(filepath.Base(c.inputPath), content)
	result.Report = report
	if report.Status != StatusSuccess {
		result.Error = errors.New(report.Message)
		return result
	}

	fileName := utils.OutputFileName(c.cfg.OutputNameFormat, filepath.Base(c.inputPath))
	outputPath := filepath.Join(c.cfg.OutputDir, fileName)

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}

	result.OutputFile = outputPath
	result.Success = true
	return result
}
