package xlsxwriter

import "strings"

// breakLabels are the product text labels pushed onto their own line inside
// a spreadsheet cell.
var breakLabels = []string{"Entitlement Number:", "Billing period:"}

// FormatProductText inserts a line break immediately before each occurrence
// of the entitlement and billing-period labels so long product cells read
// as stacked fields. The transform is not idempotent: text that already
// contains such breaks gains duplicates, so it is applied exactly once per
// raw value.
func FormatProductText(text string) string {
	for _, label := range breakLabels {
		text = strings.ReplaceAll(text, label, "\n"+label)
	}
	return text
}
