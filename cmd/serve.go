// =============================================================================
// Atlassian Quote Converter - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which runs the HTTP upload front
// end. The server exposes a browser upload form and a /convert endpoint that
// accepts one or many files per request.
//
// COMMAND USAGE:
//   atlassian-quotes serve [flags]
//
// FLAGS:
//   --addr : Listen address (overrides the configured server.addr)
//
// LIFECYCLE:
//   The server runs until SIGINT or SIGTERM, then drains in-flight requests
//   before exiting.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minhtrinh06/atlassian-quotes/internal/config"
	"github.com/minhtrinh06/atlassian-quotes/internal/server"
)

// addrFlag overrides the configured listen address when non-empty.
var addrFlag string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP upload server",
	Long: `The serve command starts an HTTP server with a browser upload form. Documents
posted to /convert are converted in memory and returned as a download: a bare
.xlsx for a single file, a ZIP bundle for several.

Requests are rate limited and uploads are size capped; see the server section
of the configuration file. The server shuts down gracefully on SIGINT or
SIGTERM.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// init registers the serve command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&addrFlag,
		"addr",
		"",
		"Listen address (overrides the configured server.addr)",
	)
}

// runServe loads the configuration and runs the server until interrupted.
func runServe() error {
	mainConfig, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfiguredLevel(mainConfig.LogLevel)

	serverCfg := mainConfig.Server
	if addrFlag != "" {
		serverCfg.Addr = addrFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(serverCfg, zap.L()).Run(ctx)
}
