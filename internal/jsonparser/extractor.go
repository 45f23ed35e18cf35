// =============================================================================
// Atlassian Quote Converter - JSON Quote Extractor
// =============================================================================
//
// Extracts billing line items from nested JSON quote exports. The export
// format varies by API version, so the billing-lines array is located by
// probing a prioritized list of known key paths. Raw lines are then grouped
// by base product name (description minus a trailing parenthesized
// qualifier) and flattened into the head-row / continuation-row shape the
// grouper and renderer expect.
//
// Amounts arrive in minor units (cents) under "total", with "subTotal" as a
// fallback; both are divided by 100. Zero-amount lines are dropped unless
// flagged as credit lines.
//
// =============================================================================

package jsonparser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/minhtrinh06/atlassian-quotes/internal/types"
)

// =============================================================================
// PATH DESCRIPTORS
// =============================================================================

// linePaths lists every known location of the billing-lines array, probed in
// order. The first path whose full traversal succeeds with a non-empty array
// wins. Extending support for a new export shape means appending here.
var linePaths = [][]string{
	{"lines"},
	{"upcomingBills", "lines"},
	{"QuoteDetails", "upcomingBills", "lines"},
	{"quote", "upcomingBills", "lines"},
	{"data", "upcomingBills", "lines"},
}

// trailingQualifier matches a single trailing parenthesized clause, e.g.
// " (Annual Subscription)" in a product description.
var trailingQualifier = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract parses a JSON quote export into line items.
//
// Malformed JSON returns an error. A document that parses but contains no
// billing lines at any known path returns an empty result with a warning
// diagnostic; the caller decides how to report that.
func Extract(data []byte) ([]types.LineItem, []types.Diagnostic, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, nil, fmt.Errorf("parsing quote JSON: %w", err)
	}

	var diags []types.Diagnostic

	lines, path := findLines(root)
	if lines == nil {
		diags = append(diags, types.Warn("no billing lines found at any known path", map[string]string{
			"top_level_keys": topLevelKeys(root),
		}))
		return nil, diags, nil
	}
	diags = append(diags, types.Info("found billing lines", map[string]string{
		"path":  path,
		"count": strconv.Itoa(len(lines)),
	}))

	aggregates, aggDiags := aggregate(lines)
	diags = append(diags, aggDiags...)

	return flatten(aggregates), diags, nil
}

// findLines probes linePaths in order and returns the first non-empty array
// together with the dotted path that matched.
func findLines(root any) ([]any, string) {
	for _, path := range linePaths {
		node := root
		ok := true
		for _, key := range path {
			m, isMap := node.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			if node, ok = m[key]; !ok {
				break
			}
		}
		if !ok {
			continue
		}
		if arr, isArr := node.([]any); isArr && len(arr) > 0 {
			return arr, strings.Join(path, ".")
		}
	}
	return nil, ""
}

// topLevelKeys renders the document's top-level keys for diagnostics.
func topLevelKeys(root any) string {
	m, ok := root.(map[string]any)
	if !ok {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// =============================================================================
// PRODUCT AGGREGATION
// =============================================================================

// productAggregate groups raw billing lines that describe the same base
// product. The first full description seen becomes the display text; every
// retained amount is kept in encounter order.
type productAggregate struct {
	displayProduct string
	amounts        []decimal.Decimal
	discount       string
}

var oneHundred = decimal.NewFromInt(100)

// aggregate walks the raw line objects and groups them by base product name
// in first-seen order.
func aggregate(lines []any) ([]*productAggregate, []types.Diagnostic) {
	var order []string
	var diags []types.Diagnostic
	byKey := make(map[string]*productAggregate)

	for i, raw := range lines {
		line, ok := raw.(map[string]any)
		if !ok {
			diags = append(diags, types.Warn("skipping non-object line entry", map[string]string{
				"index": strconv.Itoa(i),
			}))
			continue
		}

		amt := lineAmount(line)
		if amt.IsZero() && !boolField(line, "isCreditLine") {
			continue
		}

		desc := stringField(line, "description")
		base := trailingQualifier.ReplaceAllString(desc, "")
		if base == "" {
			base = desc
		}

		agg, exists := byKey[base]
		if !exists {
			agg = &productAggregate{displayProduct: desc, discount: types.DiscountNo}
			byKey[base] = agg
			order = append(order, base)
		}
		agg.amounts = append(agg.amounts, amt)
		if marginDiscount(line) {
			agg.discount = types.DiscountYes
		}
	}

	aggregates := make([]*productAggregate, len(order))
	for i, key := range order {
		aggregates[i] = byKey[key]
	}
	return aggregates, diags
}

// lineAmount derives the major-unit amount for one raw line: total/100 when
// total is nonzero, else subTotal/100 when nonzero, else zero.
func lineAmount(line map[string]any) decimal.Decimal {
	if total := numberField(line, "total"); !total.IsZero() {
		return total.Div(oneHundred)
	}
	if sub := numberField(line, "subTotal"); !sub.IsZero() {
		return sub.Div(oneHundred)
	}
	return decimal.Zero
}

// marginDiscount reports whether any margin entry carries a positive percent
// or a nonzero amount.
func marginDiscount(line map[string]any) bool {
	margins, _ := line["margins"].([]any)
	for _, raw := range margins {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if numberField(m, "percent").IsPositive() || !numberField(m, "amount").IsZero() {
			return true
		}
	}
	return false
}

// =============================================================================
// FLATTENING
// =============================================================================

// flatten turns aggregates into line items: one head item per group with a
// fresh 1-based sequence number, then one continuation item per remaining
// amount.
func flatten(aggregates []*productAggregate) []types.LineItem {
	var items []types.LineItem
	for i, agg := range aggregates {
		first := decimal.Zero
		rest := []decimal.Decimal(nil)
		if len(agg.amounts) > 0 {
			first = agg.amounts[0]
			rest = agg.amounts[1:]
		}
		items = append(items, types.LineItem{
			SequenceNo: strconv.Itoa(i + 1),
			Product:    agg.displayProduct,
			Amount:     first,
			Discount:   agg.discount,
		})
		for _, amt := range rest {
			items = append(items, types.LineItem{
				SequenceNo: "",
				Product:    "",
				Amount:     amt,
				Discount:   types.DiscountNo,
			})
		}
	}
	return items
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

// numberField reads a numeric field as a decimal, tolerating absent or
// non-numeric values as zero.
func numberField(m map[string]any, key string) decimal.Decimal {
	n, ok := m[key].(json.Number)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
