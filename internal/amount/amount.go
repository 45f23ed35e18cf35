// =============================================================================
// Atlassian Quote Converter - Amount Parser
// =============================================================================
//
// Parses free-form amount text from PDF table cells into signed decimals.
// Source formatting is inconsistent ("USD 1,234.56", "-1,234.56", "1234.56"),
// so the parser is deliberately lenient: anything it cannot read becomes
// zero rather than an error.
//
// =============================================================================

package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// usdPrefix matches a leading currency marker, e.g. "USD 1,234.56".
var usdPrefix = regexp.MustCompile(`(?i)^\s*usd\s*`)

// Parse converts amount text to a signed decimal.
//
// Steps: strip a case-insensitive "USD" prefix with following whitespace,
// drop thousands-separator commas, trim, and negate on a leading minus.
// Text that still fails to parse yields zero; this function never errors.
func Parse(text string) decimal.Decimal {
	text = usdPrefix.ReplaceAllString(text, "")
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))

	negative := strings.HasPrefix(text, "-")
	if negative {
		text = text[1:]
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return d.Neg()
	}
	return d
}
