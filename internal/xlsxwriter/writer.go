// =============================================================================
// Atlassian Quote Converter - Excel Writer Module
// =============================================================================
//
// This module is responsible for rendering grouped billing line items into
// the normalized five-column Excel workbook. Totals are written as live
// formulas, not cached values, so the workbook stays correct when amounts
// are edited after conversion.
//
// SHEET LAYOUT:
//   The generated workbook follows this pattern:
//
//   |   A    |     B     |     C      |        D         |      E          |
//   | S.no   | Discount? | Product    | Amount excl. tax | Total           |  <- bold
//   | 1      | Y         | Jira ...   |         9,200.00 | =SUM(D2:D3)     |  <- red total
//   |        |           |            |       142,500.00 |                 |  <- continuation
//   | 2      | N         | Confluence |           450.00 | =D4             |  <- red total
//   |        |           | TOTAL      |                  | =SUM(E2,E4)     |  <- bold red
//
//   Each group occupies a contiguous block: the head row carries the
//   sequence number, discount flag, product text, and the group total; the
//   remaining amounts follow one per row so the total's range formula spans
//   exactly the group's block. The grand total enumerates the group total
//   cells by reference because the blocks vary in size.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/minhtrinh06/atlassian-quotes/internal/types"
)

// SheetName is the single worksheet every generated workbook contains.
const SheetName = "Extracted Data"

// currencyFormat is the number format applied to amount and total cells.
const currencyFormat = "#,##0.00"

// headers are the fixed column titles, in column order A through E.
var headers = []string{"S.no", "Discount?", "Product", "Amount excl. tax", "Total"}

// columnWidths are tuned for wrapped product text alongside currency values.
var columnWidths = map[string]float64{"A": 10, "B": 12, "C": 60, "D": 18, "E": 18}

// Write renders the ordered groups into a complete workbook.
//
// PARAMETERS:
//   - groups: The grouped line items, typically from the grouper.
//
// RETURNS:
//   - The serialized .xlsx document as a byte slice.
//   - An error if workbook construction or serialization fails.
//
// ORDERING:
//   Groups are sorted by the numeric value of their sequence-number key,
//   ascending. Keys that do not parse as integers sort after every numeric
//   key and keep their relative order among themselves.
func Write(groups []types.Group) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	styles, err := newStyleSet(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{file: f, sheet: SheetName}

	// Header row and column widths.
	for i, title := range headers {
		w.setValue(cellRef(columnLetter(i), 1), title)
	}
	w.setStyle("A1", "E1", styles.bold)
	for col, width := range columnWidths {
		w.setColWidth(col, width)
	}

	// Group blocks.
	row := 2
	var totalCells []string

	for _, group := range sortGroups(groups) {
		if len(group.Items) == 0 {
			continue
		}
		head := group.Items[0]
		start := row

		w.setValue(cellRef("A", row), group.SequenceNo)
		w.setValue(cellRef("B", row), head.Discount)
		w.setValue(cellRef("C", row), FormatProductText(head.Product))
		w.setStyle(cellRef("C", row), cellRef("C", row), styles.wrapped)
		w.setAmount(cellRef("D", row), head.Amount, styles.currency)

		for _, item := range group.Items[1:] {
			row++
			w.setAmount(cellRef("D", row), item.Amount, styles.currency)
		}

		// One-item groups reference the amount cell directly; larger groups
		// sum the contiguous block.
		formula := cellRef("D", start)
		if row > start {
			formula = fmt.Sprintf("SUM(D%d:D%d)", start, row)
		}
		totalCell := cellRef("E", start)
		w.setFormula(totalCell, formula)
		w.setStyle(totalCell, totalCell, styles.total)
		totalCells = append(totalCells, totalCell)

		row++
	}

	// Grand total row.
	w.setValue(cellRef("D", row), "TOTAL")
	w.setStyle(cellRef("D", row), cellRef("D", row), styles.bold)

	grandCell := cellRef("E", row)
	if len(totalCells) > 0 {
		w.setFormula(grandCell, fmt.Sprintf("SUM(%s)", strings.Join(totalCells, ",")))
	} else {
		w.setValue(grandCell, 0)
	}
	w.setStyle(grandCell, grandCell, styles.grandTotal)

	if w.err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", w.err)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

// =============================================================================
// GROUP ORDERING
// =============================================================================

// sortGroups returns the groups ordered by numeric sequence-number key.
// The sort is stable, so non-numeric keys (including the empty continuation
// key) trail the numeric ones in their original order.
func sortGroups(groups []types.Group) []types.Group {
	sorted := make([]types.Group, len(groups))
	copy(sorted, groups)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, aErr := strconv.Atoi(sorted[i].SequenceNo)
		b, bErr := strconv.Atoi(sorted[j].SequenceNo)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		default:
			return false
		}
	})
	return sorted
}

// =============================================================================
// STYLES
// =============================================================================

// styleSet holds the style IDs registered once per workbook.
type styleSet struct {
	bold       int
	currency   int
	wrapped    int
	total      int
	grandTotal int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	numFmt := currencyFormat
	styles := &styleSet{}
	var err error

	styles.bold, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bold style: %w", err)
	}

	styles.currency, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create currency style: %w", err)
	}

	styles.wrapped, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create wrapped style: %w", err)
	}

	styles.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Color: "FF0000"},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create total style: %w", err)
	}

	styles.grandTotal, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Color: "FF0000"},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create grand total style: %w", err)
	}

	return styles, nil
}

// =============================================================================
// SHEET WRITER
// =============================================================================

// sheetWriter funnels cell mutations through one place and remembers the
// first error, keeping the layout loop free of error plumbing.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) setValue(cell string, value interface{}) {
	if w.err != nil {
		return
	}
	w.err = w.file.SetCellValue(w.sheet, cell, value)
}

// setAmount writes a decimal amount as a numeric cell with the currency
// format, so total formulas can sum it.
func (w *sheetWriter) setAmount(cell string, amount decimal.Decimal, style int) {
	value, _ := amount.Float64()
	w.setValue(cell, value)
	w.setStyle(cell, cell, style)
}

func (w *sheetWriter) setFormula(cell, formula string) {
	if w.err != nil {
		return
	}
	w.err = w.file.SetCellFormula(w.sheet, cell, formula)
}

func (w *sheetWriter) setStyle(from, to string, style int) {
	if w.err != nil {
		return
	}
	w.err = w.file.SetCellStyle(w.sheet, from, to, style)
}

func (w *sheetWriter) setColWidth(col string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.file.SetColWidth(w.sheet, col, col, width)
}

func cellRef(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func columnLetter(index int) string {
	return string(rune('A' + index))
}
