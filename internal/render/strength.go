// Package render turns service responses into terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Meter fill glyphs.
const (
	meterFull  = "█"
	meterEmpty = "░"
)

var (
	strengthColors = map[string]lipgloss.Color{
		"weak":    "#F43F5E", // rose
		"medium":  "#F59E0B", // amber
		"strong":  "#10B981", // emerald
		"unknown": "#64748B", // slate
	}

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6EE7B7"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
)

// StrengthPercent returns how much of the meter a strength level fills:
// weak 33, medium 66, anything else the service returns 100, and 0 for no
// result yet.
func StrengthPercent(strength string) int {
	switch strength {
	case "":
		return 0
	case "weak":
		return 33
	case "medium":
		return 66
	default:
		return 100
	}
}

// Meter renders a horizontal strength bar of the given width.
func Meter(strength string, width int) string {
	if width <= 0 {
		return ""
	}
	filled := width * StrengthPercent(strength) / 100
	color, ok := strengthColors[strength]
	if !ok {
		color = strengthColors["unknown"]
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(meterFull, filled))
	return bar + dimStyle.Render(strings.Repeat(meterEmpty, width-filled))
}

// List renders a titled bullet list, or the empty text when items is empty.
func List(title string, items []string, empty string, width int) string {
	var sb strings.Builder
	sb.WriteString(headingStyle.Render(title))
	sb.WriteString("\n")
	if len(items) == 0 {
		sb.WriteString(dimStyle.Render("  " + empty))
		return sb.String()
	}
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		lines := strings.Split(Wrap(item, width-4), "\n")
		for j, line := range lines {
			if j == 0 {
				sb.WriteString("  • " + line)
			} else {
				sb.WriteString("\n    " + line)
			}
		}
	}
	return sb.String()
}

// Check renders a full password check result: meter, strength label, issue
// count, reasons and suggestions.
func Check(strength string, reasons, suggestions []string, width int) string {
	if width < 20 {
		width = 20
	}
	label := strength
	if label == "" {
		label = "-"
	}

	var sb strings.Builder
	sb.WriteString(Meter(strength, width))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Strength: ") + valueStyle.Render(label))
	if strength != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  (%d issues)", len(reasons))))
	}
	sb.WriteString("\n\n")
	sb.WriteString(List("Reasons", reasons, "No issues identified yet", width))
	sb.WriteString("\n\n")
	sb.WriteString(List("Suggestions", suggestions, "Type a password and press Enter", width))
	return sb.String()
}
