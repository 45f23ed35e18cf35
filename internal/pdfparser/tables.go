// =============================================================================
// Atlassian Quote Converter - PDF Table Assembly
// =============================================================================

package pdfparser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/minhtrinh06/atlassian-quotes/internal/types"
)

// Table is one reconstructed grid of cell text.
type Table struct {
	Page int
	Rows [][]string
}

// ExtractTables reconstructs tables from every page of a PDF document.
// Runs that collapse to a single column are narrative text, not grids, and
// are dropped. The underlying reader panics on malformed content streams,
// so failures there surface as errors rather than crashes.
func ExtractTables(data []byte) (tables []Table, diags []types.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			tables, diags = nil, nil
			err = fmt.Errorf("reading PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("opening PDF: %w", err)
	}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows := groupRows(page.Content().Text)
		for _, run := range splitRuns(rows) {
			cols := detectColumns(run)
			if len(cols) < 2 {
				continue
			}
			grid := assembleGrid(run, cols)
			if len(grid) > 0 {
				tables = append(tables, Table{Page: pageNum, Rows: grid})
			}
		}
	}

	if len(tables) > 0 {
		diags = append(diags, types.Info("reconstructed tables from PDF", map[string]string{
			"tables": strconv.Itoa(len(tables)),
		}))
	}
	return tables, diags, nil
}

// assembleGrid places each row's blocks into the detected columns. Blocks
// landing in the same column are joined with a space.
func assembleGrid(run []visualRow, cols []float64) [][]string {
	grid := make([][]string, 0, len(run))
	for _, r := range run {
		parts := make([][]string, len(cols))
		for _, b := range r.blocks {
			text := strings.TrimSpace(b.text)
			if text == "" {
				continue
			}
			idx := columnIndex(cols, b.x)
			parts[idx] = append(parts[idx], text)
		}

		cells := make([]string, len(cols))
		empty := true
		for i, p := range parts {
			cells[i] = strings.Join(p, " ")
			if cells[i] != "" {
				empty = false
			}
		}
		if !empty {
			grid = append(grid, cells)
		}
	}
	return grid
}
