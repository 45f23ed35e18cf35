package utils

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestDiscoverInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "B.PDF", "quote.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write fixture %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	files, err := DiscoverInputFiles(dir, []string{"*.pdf", "*.json"})
	if err != nil {
		t.Fatalf("DiscoverInputFiles failed: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	want := []string{"B.PDF", "a.pdf", "quote.json"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("file %d = %q, want %q", i, names[i], w)
		}
	}
}

func TestDiscoverInputFilesDefaultsToPDF(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
	}

	files, err := DiscoverInputFiles(dir, nil)
	if err != nil {
		t.Fatalf("DiscoverInputFiles failed: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "a.pdf" {
		t.Errorf("got %v, want only a.pdf", files)
	}
}

func TestDiscoverInputFilesMissingDir(t *testing.T) {
	if _, err := DiscoverInputFiles(filepath.Join(t.TempDir(), "absent"), nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestStem(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"quote.pdf", "quote"},
		{"dir/sub/quote.json", "quote"},
		{"noext", "noext"},
		{"archive.tar.gz", "archive.tar"},
	}
	for _, tc := range cases {
		if got := Stem(tc.path); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestOutputFileName(t *testing.T) {
	if got := OutputFileName("{stem}_extracted.xlsx", "quote.pdf"); got != "quote_extracted.xlsx" {
		t.Errorf("got %q", got)
	}

	// Missing extension is appended.
	if got := OutputFileName("report-{stem}", "quote.pdf"); got != "report-quote.xlsx" {
		t.Errorf("got %q", got)
	}

	// Date placeholder expands to eight digits.
	if got := OutputFileName("{date}", "quote.pdf"); !regexp.MustCompile(`^\d{8}\.xlsx$`).MatchString(got) {
		t.Errorf("got %q", got)
	}

	// UUID placeholder is fully expanded.
	got := OutputFileName("{uuid}.xlsx", "quote.pdf")
	if strings.ContainsAny(got, "{}") {
		t.Errorf("placeholder not expanded: %q", got)
	}
	if len(got) != len("xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.xlsx") {
		t.Errorf("unexpected uuid name: %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "a", "b", "c")

	if err := EnsureDirectories(nested, filepath.Join(base, "d")); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{nested, filepath.Join(base, "d")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s not created", dir)
		}
	}
}

func TestBuildZipBundle(t *testing.T) {
	entries := []ZipEntry{
		{Name: "quote_converted.xlsx", Data: []byte("first")},
		{Name: "other_converted.xlsx", Data: []byte("second")},
		{Name: "quote_converted.xlsx", Data: []byte("third")},
	}

	data, err := BuildZipBundle(entries)
	if err != nil {
		t.Fatalf("BuildZipBundle failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open bundle: %v", err)
	}

	wantNames := []string{"quote_converted.xlsx", "other_converted.xlsx", "quote_converted (2).xlsx"}
	if len(zr.File) != len(wantNames) {
		t.Fatalf("bundle has %d entries, want %d", len(zr.File), len(wantNames))
	}

	for i, f := range zr.File {
		if f.Name != wantNames[i] {
			t.Errorf("entry %d = %q, want %q", i, f.Name, wantNames[i])
		}
		if f.Method != zip.Deflate {
			t.Errorf("entry %q method = %d, want deflate", f.Name, f.Method)
		}

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open entry %q: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read entry %q: %v", f.Name, err)
		}
		if got := string(content); got != string(entries[i].Data) {
			t.Errorf("entry %q content = %q", f.Name, got)
		}
	}
}

func TestBuildZipBundleEmpty(t *testing.T) {
	data, err := BuildZipBundle(nil)
	if err != nil {
		t.Fatalf("BuildZipBundle failed: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open bundle: %v", err)
	}
	if len(zr.File) != 0 {
		t.Errorf("expected empty bundle, got %d entries", len(zr.File))
	}
}
