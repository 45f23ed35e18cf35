// =============================================================================
// Atlassian Quote Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Atlassian Quote Converter CLI. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   atlassian-quotes process  - Convert all quote documents in the input directory
//   atlassian-quotes serve    - Run the HTTP upload server
//   atlassian-quotes version  - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains the conversion pipeline (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/minhtrinh06/atlassian-quotes/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
