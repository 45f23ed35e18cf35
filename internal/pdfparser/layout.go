// =============================================================================
// Atlassian Quote Converter - PDF Layout Reconstruction
// =============================================================================
//
// Quote PDFs carry no ruling lines the reader can expose, so tables are
// reconstructed from positioned text alone: fragments are bucketed into
// visual rows by Y, merged into cell blocks by X gap, and columns are
// derived from the vertical gutters left uncovered by any block. The
// approach tolerates both glyph-level and word-level content streams and is
// alignment-agnostic (right-aligned amount columns cluster by occupied band,
// not by start position).
//
// =============================================================================

package pdfparser

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Geometry tolerances, tuned for quote PDFs set at 8-11pt body text with
// regular column gutters.
const (
	// rowTolerance is the max Y distance between fragments on one visual row.
	rowTolerance = 2.5

	// charGapFactor bounds the gap (relative to font size) joined without a
	// space; glyph-level streams advance nearly edge to edge.
	charGapFactor = 0.15

	// wordGapFactor bounds the gap joined with a single space; ordinary word
	// spacing is 0.2-0.5 em.
	wordGapFactor = 0.6

	// gutterMin is the narrowest X gap treated as a column separator when no
	// block in the run crosses it.
	gutterMin = 5.0

	// runGapFactor splits a page's rows into separate runs where the gap
	// between rows exceeds this multiple of the median row pitch.
	runGapFactor = 1.8

	// columnSlack absorbs sub-point jitter when assigning blocks to columns.
	columnSlack = 1.0
)

// block is a horizontal run of text treated as one cell fragment.
type block struct {
	text string
	x    float64
	endX float64
}

// visualRow is every block sharing one baseline.
type visualRow struct {
	y      float64
	blocks []block
}

// groupRows buckets text fragments into visual rows and orders them top of
// page first (PDF Y grows upward).
func groupRows(texts []pdf.Text) []visualRow {
	type bucket struct {
		y     float64
		texts []pdf.Text
	}
	var buckets []*bucket

	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for _, b := range buckets {
			if math.Abs(b.y-t.Y) <= rowTolerance {
				b.texts = append(b.texts, t)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, &bucket{y: t.Y, texts: []pdf.Text{t}})
		}
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].y > buckets[j].y })

	rows := make([]visualRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, visualRow{y: b.y, blocks: mergeBlocks(b.texts)})
	}
	return rows
}

// mergeBlocks joins a row's fragments left to right: glyph-tight gaps join
// directly, word-sized gaps join with a space, anything wider starts a new
// block.
func mergeBlocks(texts []pdf.Text) []block {
	sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

	var blocks []block
	for _, t := range texts {
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		endX := t.X + t.W

		if len(blocks) > 0 {
			last := &blocks[len(blocks)-1]
			gap := t.X - last.endX
			if gap <= wordGapFactor*size {
				if gap <= charGapFactor*size {
					last.text += t.S
				} else {
					last.text += " " + t.S
				}
				if endX > last.endX {
					last.endX = endX
				}
				continue
			}
		}
		blocks = append(blocks, block{text: t.S, x: t.X, endX: endX})
	}
	return blocks
}

// splitRuns divides a page's rows into vertically contiguous runs. Rows
// separated by much more than the median pitch belong to different layout
// regions (title text above a table, two stacked tables).
func splitRuns(rows []visualRow) [][]visualRow {
	if len(rows) == 0 {
		return nil
	}

	pitches := make([]float64, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		pitches = append(pitches, rows[i-1].y-rows[i].y)
	}
	pitch := median(pitches)
	if pitch <= 0 {
		pitch = 12
	}

	var runs [][]visualRow
	start := 0
	for i := 1; i < len(rows); i++ {
		if rows[i-1].y-rows[i].y > runGapFactor*pitch {
			runs = append(runs, rows[start:i])
			start = i
		}
	}
	return append(runs, rows[start:])
}

// detectColumns finds the column bands of a run: X intervals covered by at
// least one block, separated by gutters no block crosses. The returned
// values are each band's left edge, ascending.
func detectColumns(rows []visualRow) []float64 {
	type span struct{ start, end float64 }
	var spans []span
	for _, r := range rows {
		for _, b := range r.blocks {
			spans = append(spans, span{start: b.x, end: b.endX})
		}
	}
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end+gutterMin {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}

	cols := make([]float64, len(merged))
	for i, m := range merged {
		cols[i] = m.start
	}
	return cols
}

// columnIndex maps a block start to the last column band at or left of it.
func columnIndex(cols []float64, x float64) int {
	idx := sort.SearchFloat64s(cols, x+columnSlack) - 1
	if idx < 0 {
		idx = 0
	}
	return idx
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
