package statusbar

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#FFFFFF"))

	brandStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#10B981")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#6EE7B7")).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#FCA5A5")).
			Padding(0, 1)

	offlineStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Model is the status bar at the bottom of the screen.
type Model struct {
	width       int
	user        string
	statusText  string
	statusError bool
	apiDown     bool
	demoDown    bool
}

// New creates a new status bar.
func New() Model {
	return Model{}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetUser sets the signed-in user. Empty means anonymous.
func (m *Model) SetUser(user string) {
	m.user = user
}

// SetStatus sets a temporary status message.
func (m *Model) SetStatus(text string, isError bool) {
	m.statusText = text
	m.statusError = isError
}

// SetConnectivity records which services are reachable.
func (m *Model) SetConnectivity(api, demo bool) {
	m.apiDown = !api
	m.demoDown = !demo
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	left := brandStyle.Render("SafeChain")

	var right string
	if m.apiDown {
		right += offlineStyle.Render("OFFLINE")
	} else if m.demoDown {
		right += statusTextStyle.Render("demo offline")
	}
	if m.statusText != "" {
		if m.statusError {
			right += errorTextStyle.Render(m.statusText)
		} else {
			right += statusTextStyle.Render(m.statusText)
		}
	}
	if m.user != "" {
		right += userStyle.Render(m.user)
	} else {
		right += statusTextStyle.Render("not signed in")
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}
