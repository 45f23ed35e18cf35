// =============================================================================
// Atlassian Quote Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. Configuration comes from a single YAML file plus command
// line flags; there is no environment-variable layer and no state persisted
// between runs.
//
// LOADING BEHAVIOR:
//   A missing configuration file is not an error: the tool works out of the
//   box with its defaults (./quotes in, ./output out). Defaults are applied
//   after parsing, then validation creates the working directories.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for quote documents in batch mode.
	// Default: "./quotes"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where generated workbooks are placed.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// InputPatterns is the list of glob patterns matched against file names
	// in InputDir. Matching is case-insensitive on the extension.
	// Default: ["*.pdf"]
	InputPatterns []string `yaml:"input_patterns"`

	// OutputNameFormat defines the output file name for batch conversions.
	// Placeholders:
	//   {stem}      - The input file name without its extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	// Default: "{stem}_extracted.xlsx"
	OutputNameFormat string `yaml:"output_name_format"`

	// MaxConcurrency is the maximum number of files converted concurrently
	// in batch mode. Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// Server configures the HTTP upload front end.
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds the settings for the HTTP upload server.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// MaxUploadMB caps the total size of one multipart upload, in megabytes.
	// Default: 32
	MaxUploadMB int64 `yaml:"max_upload_mb"`

	// RateLimit is the sustained request rate allowed per server, in
	// requests per second.
	// Default: 5
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the burst size allowed on top of RateLimit.
	// Default: 10
	RateBurst int `yaml:"rate_burst"`

	// MaxConcurrent bounds how many uploads are converted at the same time.
	// Default: 4
	MaxConcurrent int `yaml:"max_concurrent"`

	// ArchiveName is the file name of the ZIP bundle returned for
	// multi-file uploads.
	// Default: "converted_files.zip"
	ArchiveName string `yaml:"archive_name"`

	// DownloadNameFormat defines the name of each converted workbook served
	// back to the client. Same placeholders as OutputNameFormat.
	// Default: "{stem}_converted.xlsx"
	DownloadNameFormat string `yaml:"download_name_format"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file exists but cannot be read or parsed.
//
// A missing file yields the default configuration, not an error.
func Load(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration the tool runs with when no file and no
// flags override it.
func Default() *MainConfig {
	var config MainConfig
	applyDefaults(&config)
	return &config
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./quotes"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if len(config.InputPatterns) == 0 {
		config.InputPatterns = []string{"*.pdf"}
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{stem}_extracted.xlsx"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	if config.Server.MaxUploadMB == 0 {
		config.Server.MaxUploadMB = 32
	}
	if config.Server.RateLimit == 0 {
		config.Server.RateLimit = 5
	}
	if config.Server.RateBurst == 0 {
		config.Server.RateBurst = 10
	}
	if config.Server.MaxConcurrent == 0 {
		config.Server.MaxConcurrent = 4
	}
	if config.Server.ArchiveName == "" {
		config.Server.ArchiveName = "converted_files.zip"
	}
	if config.Server.DownloadNameFormat == "" {
		config.Server.DownloadNameFormat = "{stem}_converted.xlsx"
	}
}

// validate checks the configuration and creates the working directories.
func validate(config *MainConfig) error {
	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}

	for _, dir := range []string{config.InputDir, config.OutputDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
