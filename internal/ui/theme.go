package ui

import "github.com/charmbracelet/lipgloss"

// Emerald brand color and help line styles.
var (
	emerald = lipgloss.Color("#10B981")

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(emerald).
			Bold(true)
)
