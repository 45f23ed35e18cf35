// =============================================================================
// Atlassian Quote Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - pdfparser / jsonparser (produce LineItems and Diagnostics)
//   - grouper (LineItems -> Groups)
//   - xlsxwriter (consumes Groups)
//   - converter (carries Diagnostics on the per-document Report)
//
// =============================================================================

package types

import "github.com/shopspring/decimal"

// =============================================================================
// INPUT FORMAT
// =============================================================================

// Format identifies the kind of input document.
type Format string

const (
	// FormatPDF is a tabular PDF quote.
	FormatPDF Format = "pdf"

	// FormatJSON is a nested JSON quote export.
	FormatJSON Format = "json"
)

// =============================================================================
// LINE ITEM TYPES
// =============================================================================

// Discount flag values as they appear in the output spreadsheet.
const (
	DiscountYes = "Y"
	DiscountNo  = "N"
)

// LineItem is one row of extracted billing data. Extractors create line
// items; the grouper and renderer only read them.
type LineItem struct {
	// SequenceNo is the billing-line grouping key as it appears in the
	// source. Empty means the row continues the previous group.
	SequenceNo string

	// Product is the full descriptive text. It may embed
	// "Entitlement Number:" / "Billing period:" labels inline.
	Product string

	// Amount is the amount excluding tax. Credits and discounts are
	// negative.
	Amount decimal.Decimal

	// Discount is DiscountYes or DiscountNo.
	Discount string
}

// Group is every LineItem sharing one effective sequence number. The first
// item carries the group's display values (product text, discount flag);
// the rest contribute only to the amount column and the group total.
type Group struct {
	// SequenceNo is the group key. It is normally a positive integer in
	// string form, but an empty string is possible when a document opens
	// with a continuation row.
	SequenceNo string

	// Items preserves extraction order.
	Items []LineItem
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Severity classifies a diagnostic event.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Diagnostic is a structured event produced during extraction. The pipeline
// never prints or logs; front ends decide how to render these.
type Diagnostic struct {
	Severity Severity

	// Message is a human-readable description of the event.
	Message string

	// Context carries structured detail, e.g. the JSON path that matched
	// or the page a table was found on.
	Context map[string]string
}

// Info builds an informational diagnostic.
func Info(message string, context map[string]string) Diagnostic {
	return Diagnostic{Severity: SeverityInfo, Message: message, Context: context}
}

// Warn builds a warning diagnostic.
func Warn(message string, context map[string]string) Diagnostic {
	return Diagnostic{Severity: SeverityWarn, Message: message, Context: context}
}
