package pdfparser

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

// txt builds a positioned fragment with a 5pt-per-character width, which is
// close enough to real metrics for the tolerance checks under test.
func txt(s string, x, y float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: float64(len(s)) * 5, FontSize: 10, Font: "Helvetica"}
}

func TestGroupRowsBucketsByBaseline(t *testing.T) {
	texts := []pdf.Text{
		txt("c", 100, 686),
		txt("a", 100, 700),
		txt("b", 300, 701.5),
		txt("   ", 200, 700),
	}

	rows := groupRows(texts)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].y < rows[1].y {
		t.Errorf("rows not ordered top first: %v then %v", rows[0].y, rows[1].y)
	}
	if len(rows[0].blocks) != 2 {
		t.Errorf("expected 2 blocks on the top row, got %d: %+v", len(rows[0].blocks), rows[0].blocks)
	}
	if len(rows[1].blocks) != 1 {
		t.Errorf("expected 1 block on the bottom row, got %d", len(rows[1].blocks))
	}
}

func TestMergeBlocksGlyphsAndWords(t *testing.T) {
	texts := []pdf.Text{
		txt("J", 100, 700),
		txt("i", 105, 700),
		txt("r", 110, 700),
		txt("a", 115, 700),
		txt("Software", 123, 700), // word gap, joined with a space
		txt("9,200.00", 300, 700), // column gap, separate block
	}

	blocks := mergeBlocks(texts)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].text != "Jira Software" {
		t.Errorf("expected %q, got %q", "Jira Software", blocks[0].text)
	}
	if blocks[1].text != "9,200.00" {
		t.Errorf("expected %q, got %q", "9,200.00", blocks[1].text)
	}
}

func TestSplitRunsOnLargeGap(t *testing.T) {
	rows := []visualRow{
		{y: 700}, {y: 688}, {y: 676}, {y: 664}, // steady 12pt pitch
		{y: 600}, {y: 588}, // separate region far below
	}

	runs := splitRuns(rows)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if len(runs[0]) != 4 || len(runs[1]) != 2 {
		t.Errorf("unexpected run sizes: %d and %d", len(runs[0]), len(runs[1]))
	}
}

func TestSplitRunsEmpty(t *testing.T) {
	if runs := splitRuns(nil); runs != nil {
		t.Errorf("expected nil runs for no rows, got %v", runs)
	}
}

func TestDetectColumnsRightAlignedBand(t *testing.T) {
	// Second column is right-aligned: value starts drift, but every span
	// overlaps the band the header establishes.
	rows := []visualRow{
		{y: 700, blocks: []block{{text: "Product", x: 100, endX: 130}, {text: "Amount excl. tax", x: 200, endX: 260}}},
		{y: 688, blocks: []block{{text: "Jira", x: 100, endX: 110}, {text: "9,200.00", x: 240, endX: 260}}},
		{y: 676, blocks: []block{{text: "Confluence", x: 100, endX: 112}, {text: "142,500.00", x: 215, endX: 260}}},
	}

	cols := detectColumns(rows)
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d: %v", len(cols), cols)
	}
	if cols[0] != 100 || cols[1] != 200 {
		t.Errorf("unexpected column edges: %v", cols)
	}
}

func TestDetectColumnsNarrativeCollapses(t *testing.T) {
	// Full-width paragraph lines leave no shared gutter.
	rows := []visualRow{
		{y: 700, blocks: []block{{text: "This quote is valid for 30 days", x: 100, endX: 400}}},
		{y: 688, blocks: []block{{text: "from the date of issue.", x: 100, endX: 250}}},
	}

	cols := detectColumns(rows)
	if len(cols) != 1 {
		t.Errorf("expected a single band for narrative text, got %v", cols)
	}
}

func TestColumnIndexSnapsLeft(t *testing.T) {
	cols := []float64{100, 200, 300}

	cases := []struct {
		x    float64
		want int
	}{
		{100, 0},
		{99.5, 0},
		{95, 0},
		{240, 1},
		{301, 2},
	}
	for _, tc := range cases {
		if got := columnIndex(cols, tc.x); got != tc.want {
			t.Errorf("columnIndex(%v) = %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestAssembleGrid(t *testing.T) {
	run := []visualRow{
		{y: 700, blocks: []block{
			{text: "S.No", x: 100, endX: 122},
			{text: "Product", x: 160, endX: 195},
			{text: "Amount excl. tax", x: 300, endX: 380},
		}},
		{y: 688, blocks: []block{
			{text: "1", x: 100, endX: 105},
			{text: "Jira Software", x: 160, endX: 225},
			{text: "USD 9,200.00", x: 310, endX: 370},
		}},
	}

	cols := detectColumns(run)
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %v", cols)
	}

	grid := assembleGrid(run, cols)
	if len(grid) != 2 {
		t.Fatalf("expected 2 grid rows, got %d", len(grid))
	}
	wantHeader := []string{"S.No", "Product", "Amount excl. tax"}
	for i, want := range wantHeader {
		if grid[0][i] != want {
			t.Errorf("header[%d] = %q, want %q", i, grid[0][i], want)
		}
	}
	wantData := []string{"1", "Jira Software", "USD 9,200.00"}
	for i, want := range wantData {
		if grid[1][i] != want {
			t.Errorf("data[%d] = %q, want %q", i, grid[1][i], want)
		}
	}
}

func TestExtractTablesRejectsGarbage(t *testing.T) {
	for _, input := range [][]byte{nil, []byte("not a pdf at all"), []byte("%PDF-1.7 truncated")} {
		if _, _, err := ExtractTables(input); err == nil {
			t.Errorf("expected error for input %q", input)
		}
	}
}
