// Package check is the password strength view.
package check

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/safechain/internal/api"
	"github.com/fragmede/safechain/internal/render"
	"github.com/fragmede/safechain/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true).
			Padding(1, 0)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	demoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A7F3D0")).Italic(true)
)

// HeaderFunc returns the headers that authorize a request.
type HeaderFunc func() map[string]string

// Model is the password check view.
type Model struct {
	input    textinput.Model
	client   *api.Client
	headers  HeaderFunc
	demoURL  string
	timeout  time.Duration
	result   *api.CheckResult
	err      string
	demo     string
	checking bool
	width    int
	height   int
}

// New creates the check view.
func New(client *api.Client, headers HeaderFunc, demoURL string, timeout time.Duration) Model {
	input := textinput.New()
	input.Placeholder = "password to check"
	input.EchoMode = textinput.EchoPassword
	input.Width = 40
	input.Focus()

	return Model{
		input:   input,
		client:  client,
		headers: headers,
		demoURL: demoURL,
		timeout: timeout,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Result returns the latest check result, if any.
func (m Model) Result() *api.CheckResult {
	return m.result
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.checking {
				return m, nil
			}
			password := m.input.Value()
			if password == "" {
				m.err = "Enter a password to check"
				return m, nil
			}
			m.checking = true
			m.err = ""
			return m, m.check(password)
		case "ctrl+d":
			return m, m.runDemo()
		}

	case messages.CheckResultMsg:
		m.checking = false
		if msg.Err != nil {
			m.err = describe(msg.Err)
			return m, nil
		}
		m.result = msg.Result
		return m, nil

	case messages.DemoResultMsg:
		if msg.Err != nil {
			m.demo = "Demo unavailable: " + describe(msg.Err)
		} else {
			m.demo = msg.Message
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) check(password string) tea.Cmd {
	client := m.client
	headers := m.headers()
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := client.CheckPassword(ctx, password, headers)
		return messages.CheckResultMsg{Result: res, Err: err}
	}
}

func (m Model) runDemo() tea.Cmd {
	client := m.client
	url := m.demoURL
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		text, err := client.Demo(ctx, url)
		return messages.DemoResultMsg{Message: text, Err: err}
	}
}

// describe turns a request error into one line for the user.
func describe(err error) string {
	if apiErr, ok := api.AsError(err); ok {
		if d := apiErr.Detail(); d != "" {
			return d
		}
		return apiErr.Error()
	}
	if api.IsTransport(err) {
		return "Network error"
	}
	return "Check failed"
}

// View renders the check form and the latest result.
func (m Model) View() string {
	width := m.width - 4
	if width <= 0 || width > 80 {
		width = 80
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Password strength"))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Password:"))
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")

	switch {
	case m.checking:
		sb.WriteString("Checking...")
	case m.err != "":
		sb.WriteString(errorStyle.Render(m.err))
	case m.result != nil:
		sb.WriteString(render.Check(m.result.Level(), m.result.Reasons, m.result.Suggestions, width))
	default:
		sb.WriteString(render.Check("", nil, nil, width))
	}

	if m.demo != "" {
		sb.WriteString("\n\n")
		sb.WriteString(demoStyle.Render(render.Wrap(m.demo, width)))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, sb.String())
}
