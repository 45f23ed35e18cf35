// =============================================================================
// Atlassian Quote Converter - Line Item Grouper
// =============================================================================
//
// Reassembles the flat line-item sequence produced by an extractor into
// ordered groups keyed by sequence number. Source documents mark
// continuation rows with an empty sequence number; those rows belong to the
// most recent explicit group.
//
// =============================================================================

package grouper

import "github.com/minhtrinh06/atlassian-quotes/internal/types"

// Group reassembles line items into groups, preserving first-seen key order
// and extraction order within each group.
//
// Continuation semantics: an item with an empty sequence number joins the
// current group when one exists; otherwise its own value (even the empty
// string) becomes the current key. A document that opens with a continuation
// row therefore produces a group keyed by the empty string.
func Group(items []types.LineItem) []types.Group {
	var groups []types.Group
	index := make(map[string]int)
	current := ""

	for _, item := range items {
		seq := item.SequenceNo
		if seq == "" && current != "" {
			seq = current
		} else {
			current = seq
		}

		i, ok := index[seq]
		if !ok {
			i = len(groups)
			index[seq] = i
			groups = append(groups, types.Group{SequenceNo: seq})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}
