// =============================================================================
// Atlassian Quote Converter - File Manager Utility
// =============================================================================
//
// This module provides file utilities for the converter front ends:
//   - Input discovery (glob matching against the configured directory)
//   - Output file naming (placeholder expansion)
//   - ZIP bundling for multi-file download responses
//   - Directory management
//
// =============================================================================

package utils

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles scans a directory for files matching any of the glob
// patterns. Matching is case-insensitive, so "*.pdf" also picks up
// "QUOTE.PDF". Subdirectories are not descended into.
//
// PARAMETERS:
//   - dir: The directory to scan.
//   - patterns: Glob patterns matched against file names. If empty,
//     defaults to "*.pdf".
//
// RETURNS:
//   - The matching file paths in directory order.
//   - An error if the directory cannot be read or a pattern is malformed.
func DiscoverInputFiles(dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"*.pdf"}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		for _, pattern := range patterns {
			ok, err := filepath.Match(strings.ToLower(pattern), name)
			if err != nil {
				return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
			}
			if ok {
				result = append(result, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}

	return result, nil
}

// FileExists checks if a file or directory exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the given directories if they don't exist.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// Stem returns the file name without its directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputFileName generates an output file name from a format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {stem}      - The input file name without its extension
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//   - inputName: The input file name the {stem} placeholder derives from.
//
// RETURNS:
//   - The generated file name, always carrying an .xlsx extension.
//
// EXAMPLE:
//   format: "{stem}_extracted.xlsx", inputName: "quote.pdf"
//   output: "quote_extracted.xlsx"
func OutputFileName(format, inputName string) string {
	now := time.Now()

	replacements := map[string]string{
		"{stem}":      Stem(inputName),
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}

	return result
}

// =============================================================================
// ZIP BUNDLING
// =============================================================================

// ZipEntry is one file in a download bundle.
type ZipEntry struct {
	// Name is the file name inside the archive.
	Name string

	// Data is the file content.
	Data []byte
}

// BuildZipBundle assembles entries into a deflate-compressed ZIP archive
// held in memory. Entries whose names collide are disambiguated with a
// " (n)" suffix before the extension, the way browsers name repeated
// downloads.
//
// PARAMETERS:
//   - entries: The files to bundle, in archive order.
//
// RETURNS:
//   - The serialized ZIP archive.
//   - An error if archive construction fails.
func BuildZipBundle(entries []ZipEntry) ([]byte, error) {
	var buffer bytes.Buffer
	zw := zip.NewWriter(&buffer)

	used := make(map[string]int)
	for _, entry := range entries {
		name := entry.Name
		if n := used[entry.Name]; n > 0 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n+1, ext)
		}
		used[entry.Name]++

		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to bundle: %w", name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("failed to write %s to bundle: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize bundle: %w", err)
	}

	return buffer.Bytes(), nil
}
