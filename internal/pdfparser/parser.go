// =============================================================================
// Atlassian Quote Converter - PDF Line Item Parser
// =============================================================================
//
// Maps reconstructed tables to billing line items. Column roles are resolved
// from header text by configurable predicates, with positional fallbacks for
// the product and amount columns. Tables whose headers resolve no usable
// roles (address blocks, payment instructions) are skipped with a warning.
//
// =============================================================================

package pdfparser

import (
	"strconv"
	"strings"

	"github.com/minhtrinh06/atlassian-quotes/internal/amount"
	"github.com/minhtrinh06/atlassian-quotes/internal/types"
)

// RoleResolver maps column roles to predicates over header text. Headers
// are lower-cased and trimmed before evaluation. The zero value resolves
// nothing; DefaultResolver matches the standard quote headers.
type RoleResolver struct {
	Sequence func(header string) bool
	Product  func(header string) bool
	Amount   func(header string) bool
	Discount func(header string) bool
}

// DefaultResolver matches the header convention of Atlassian quote tables:
// S.No / Product / Amount excl. tax / Discount.
func DefaultResolver() RoleResolver {
	return RoleResolver{
		Sequence: containsAny("s.no", "sno"),
		Product:  containsAny("product"),
		Amount:   containsAll("amount", "excl"),
		Discount: containsAny("discount"),
	}
}

func containsAny(subs ...string) func(string) bool {
	return func(header string) bool {
		for _, sub := range subs {
			if strings.Contains(header, sub) {
				return true
			}
		}
		return false
	}
}

func containsAll(subs ...string) func(string) bool {
	return func(header string) bool {
		for _, sub := range subs {
			if !strings.Contains(header, sub) {
				return false
			}
		}
		return true
	}
}

// ColumnRoles holds the resolved column index per role; -1 means the role
// is absent.
type ColumnRoles struct {
	Sequence int
	Product  int
	Amount   int
	Discount int
}

// Resolve evaluates the predicates against a header row, first match per
// role winning. Product falls back to index 1 and amount to index 2 when
// text matching fails and the table is wide enough; sequence has no
// fallback. The boolean is false when sequence, product, and amount cannot
// all be resolved.
func (r RoleResolver) Resolve(headers []string) (ColumnRoles, bool) {
	roles := ColumnRoles{Sequence: -1, Product: -1, Amount: -1, Discount: -1}

	for i, h := range headers {
		header := strings.ToLower(strings.TrimSpace(h))
		if roles.Sequence == -1 && r.Sequence != nil && r.Sequence(header) {
			roles.Sequence = i
		}
		if roles.Product == -1 && r.Product != nil && r.Product(header) {
			roles.Product = i
		}
		if roles.Amount == -1 && r.Amount != nil && r.Amount(header) {
			roles.Amount = i
		}
		if roles.Discount == -1 && r.Discount != nil && r.Discount(header) {
			roles.Discount = i
		}
	}

	if roles.Product == -1 && len(headers) > 1 {
		roles.Product = 1
	}
	if roles.Amount == -1 && len(headers) > 2 {
		roles.Amount = 2
	}

	ok := roles.Sequence >= 0 && roles.Product >= 0 && roles.Amount >= 0
	return roles, ok
}

func (c ColumnRoles) maxIndex() int {
	max := c.Sequence
	for _, idx := range []int{c.Product, c.Amount, c.Discount} {
		if idx > max {
			max = idx
		}
	}
	return max
}

// ItemsFromTables extracts line items from reconstructed tables using the
// default resolver. Tables are processed in document order and their items
// concatenated.
func ItemsFromTables(tables []Table) ([]types.LineItem, []types.Diagnostic) {
	return DefaultResolver().Items(tables)
}

// Items extracts line items from tables using this resolver. The first row
// of each table is its header; tables without data rows or without the
// essential columns are skipped.
func (r RoleResolver) Items(tables []Table) ([]types.LineItem, []types.Diagnostic) {
	var items []types.LineItem
	var diags []types.Diagnostic

	for _, table := range tables {
		if len(table.Rows) < 2 {
			continue
		}
		roles, ok := r.Resolve(table.Rows[0])
		if !ok {
			diags = append(diags, types.Warn("skipping table without recognizable columns", map[string]string{
				"page":   strconv.Itoa(table.Page),
				"header": strings.Join(table.Rows[0], " | "),
			}))
			continue
		}

		need := roles.maxIndex()
		for _, row := range mergeWrappedRows(table.Rows[1:], roles) {
			if len(row) <= need {
				continue
			}
			seq := strings.TrimSpace(row[roles.Sequence])
			product := strings.TrimSpace(row[roles.Product])
			amountText := strings.TrimSpace(row[roles.Amount])
			if seq == "" && product == "" && amountText == "" {
				continue
			}

			discount := types.DiscountNo
			if roles.Discount >= 0 && roles.Discount < len(row) {
				if cell := strings.TrimSpace(row[roles.Discount]); cell != "" && cell != "0" {
					discount = types.DiscountYes
				}
			}

			items = append(items, types.LineItem{
				SequenceNo: seq,
				Product:    product,
				Amount:     amount.Parse(amountText),
				Discount:   discount,
			})
		}
	}

	return items, diags
}

// mergeWrappedRows folds rows that carry only wrapped product text into the
// preceding row. Text reconstruction splits a wrapped product cell across
// several visual rows; rows carrying an amount are real continuation line
// items and stay separate.
func mergeWrappedRows(rows [][]string, roles ColumnRoles) [][]string {
	var out [][]string
	for _, row := range rows {
		if len(out) > 0 && isWrappedProduct(row, roles) {
			prev := out[len(out)-1]
			if roles.Product < len(prev) {
				prev[roles.Product] = strings.TrimSpace(prev[roles.Product] + " " + row[roles.Product])
			}
			continue
		}
		out = append(out, append([]string(nil), row...))
	}
	return out
}

// isWrappedProduct reports whether a row populates the product column and
// nothing else.
func isWrappedProduct(row []string, roles ColumnRoles) bool {
	if roles.Product >= len(row) || strings.TrimSpace(row[roles.Product]) == "" {
		return false
	}
	for i, cell := range row {
		if i == roles.Product {
			continue
		}
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
