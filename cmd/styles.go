// =============================================================================
// Atlassian Quote Converter - Terminal Styles
// =============================================================================
//
// Lipgloss styles shared by the CLI commands. Adaptive colors keep the
// output readable on both light and dark terminals; when stdout is not a
// terminal, lipgloss degrades to plain text on its own.
//
// =============================================================================

package cmd

import "github.com/charmbracelet/lipgloss"

var (
	// titleStyle renders section headings in the process output.
	titleStyle = lipgloss.NewStyle().Bold(true)

	// successStyle renders the per-file ✓ marker.
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})

	// errorStyle renders the per-file ✗ marker.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})

	// subtleStyle renders secondary detail like per-file stats.
	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "244", Dark: "246"})

	// summaryBox frames the end-of-run summary block.
	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "62", Dark: "111"}).
			Padding(0, 2)
)
