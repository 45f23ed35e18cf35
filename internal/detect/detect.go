// =============================================================================
// Atlassian Quote Converter - Input Classifier
// =============================================================================
//
// Decides whether an input payload is a tabular PDF or a JSON quote export.
// The extension wins outright; otherwise the content is sniffed. The
// classifier never fails: anything ambiguous falls back to PDF.
//
// =============================================================================

package detect

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/minhtrinh06/atlassian-quotes/internal/types"
)

// Detect classifies a payload as PDF or JSON.
//
// Decision order:
//  1. A .pdf or .json extension (case-insensitive) decides immediately.
//  2. Otherwise, valid UTF-8 content whose first non-whitespace byte is
//     '{' or '[' is JSON.
//  3. Everything else, including content that is not valid UTF-8, is PDF.
func Detect(filename string, content []byte) types.Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return types.FormatPDF
	case ".json":
		return types.FormatJSON
	}

	// Undecodable bytes are a negative signal for JSON.
	if !utf8.Valid(content) {
		return types.FormatPDF
	}

	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return types.FormatJSON
	}

	return types.FormatPDF
}
