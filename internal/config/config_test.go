package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.InputDir != "./quotes" {
		t.Errorf("InputDir = %q", cfg.InputDir)
	}
	if cfg.OutputDir != "./output" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if len(cfg.InputPatterns) != 1 || cfg.InputPatterns[0] != "*.pdf" {
		t.Errorf("InputPatterns = %v", cfg.InputPatterns)
	}
	if cfg.OutputNameFormat != "{stem}_extracted.xlsx" {
		t.Errorf("OutputNameFormat = %q", cfg.OutputNameFormat)
	}
	if cfg.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d", cfg.MaxConcurrency)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.ArchiveName != "converted_files.zip" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.DownloadNameFormat != "{stem}_converted.xlsx" {
		t.Errorf("DownloadNameFormat = %q", cfg.Server.DownloadNameFormat)
	}

	// Validation auto-creates the working directories.
	for _, dir := range []string{"./quotes", "./output"} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
		}
	}
}

func TestLoadPartialFileKeepsOtherDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	content := "input_dir: ./incoming\nmax_concurrency: 2\n"
	if err := os.WriteFile("config.yaml", []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load("config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.InputDir != "./incoming" {
		t.Errorf("InputDir = %q", cfg.InputDir)
	}
	if cfg.MaxConcurrency != 2 {
		t.Errorf("MaxConcurrency = %d", cfg.MaxConcurrency)
	}
	if cfg.OutputDir != "./output" {
		t.Errorf("OutputDir = %q, want default", cfg.OutputDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestLoadFullOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	content := `input_dir: ./docs
output_dir: ./converted
input_patterns:
  - "*.pdf"
  - "*.json"
output_name_format: "{stem}-{date}.xlsx"
max_concurrency: 8
log_level: debug
server:
  addr: ":9090"
  max_upload_mb: 64
  rate_limit: 2.5
  rate_burst: 5
  max_concurrent: 2
  archive_name: bundle.zip
  download_name_format: "{stem}.xlsx"
`
	if err := os.WriteFile("config.yaml", []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load("config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.InputPatterns) != 2 || cfg.InputPatterns[1] != "*.json" {
		t.Errorf("InputPatterns = %v", cfg.InputPatterns)
	}
	if cfg.OutputNameFormat != "{stem}-{date}.xlsx" {
		t.Errorf("OutputNameFormat = %q", cfg.OutputNameFormat)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.MaxUploadMB != 64 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.RateLimit != 2.5 || cfg.Server.RateBurst != 5 {
		t.Errorf("Server rate settings = %+v", cfg.Server)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	} else if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadRejectsNegativeConcurrency(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.WriteFile("config.yaml", []byte("max_concurrency: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load("config.yaml"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.InputDir != "./quotes" || cfg.MaxConcurrency != 4 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
