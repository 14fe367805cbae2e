package history

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#828282"))

	selectedDescStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CCCCCC"))

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Width(4).
			Align(lipgloss.Right)

	strengthColors = map[string]lipgloss.Color{
		"weak":   "#EF4444",
		"medium": "#F59E0B",
		"strong": "#10B981",
	}
)

type Delegate struct{}

func (d Delegate) Height() int                             { return 2 }
func (d Delegate) Spacing() int                            { return 1 }
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d Delegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(CheckItem)
	if !ok {
		return
	}

	idx := indexStyle.Render(fmt.Sprintf("%d.", item.Index+1))

	color, ok := strengthColors[item.Strength]
	if !ok {
		color = "#9CA3AF"
	}
	titleStyle := lipgloss.NewStyle().Foreground(color)
	desc := descStyle.Render(item.Description())
	if index == m.Index() {
		titleStyle = titleStyle.Bold(true).Underline(true)
		desc = selectedDescStyle.Render(item.Description())
	}

	fmt.Fprintf(w, "%s %s\n   %s", idx, titleStyle.Render(item.Title()), desc)
}
