package login

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/safechain/internal/auth"
	"github.com/fragmede/safechain/internal/ui/messages"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true).
			Padding(1, 0)
)

// Model is the login form view.
type Model struct {
	emailInput    textinput.Model
	passwordInput textinput.Model
	focusIndex    int
	err           string
	notice        string
	submitting    bool
	client        *auth.Client
	timeout       time.Duration
	width         int
	height        int
}

// New creates a new login form.
func New(client *auth.Client, timeout time.Duration) Model {
	emailInput := textinput.New()
	emailInput.Placeholder = "you@example.com"
	emailInput.Focus()
	emailInput.Width = 30

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.Width = 30

	return Model{
		emailInput:    emailInput,
		passwordInput: passwordInput,
		client:        client,
		timeout:       timeout,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetNotice shows an informational line above the form, such as after logout.
func (m *Model) SetNotice(text string) {
	m.notice = text
}

// Submitting reports whether a request is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			if m.focusIndex == 0 {
				m.focusIndex = 1
				m.emailInput.Blur()
				m.passwordInput.Focus()
			} else {
				m.focusIndex = 0
				m.passwordInput.Blur()
				m.emailInput.Focus()
			}
			return m, nil
		case "enter", "ctrl+r":
			// Ignore repeat submits while a request is in flight.
			if m.submitting {
				return m, nil
			}
			email := strings.TrimSpace(m.emailInput.Value())
			password := m.passwordInput.Value()
			if email == "" || password == "" {
				m.err = "Email and password required"
				return m, nil
			}
			m.submitting = true
			m.err = ""
			m.notice = ""
			return m, m.submit(email, password, msg.String() == "ctrl+r")
		}

	case messages.LoginResultMsg:
		m.submitting = false
		if !msg.Result.Success {
			m.err = msg.Result.Message
			return m, nil
		}
		m.passwordInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

// submit logs in, registering first when register is set.
func (m Model) submit(email, password string, register bool) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if register {
			res := client.Register(ctx, email, password)
			if !res.Success {
				return messages.LoginResultMsg{Identity: email, Result: res}
			}
		}
		res := client.Login(ctx, email, password)
		return messages.LoginResultMsg{Identity: email, Result: res, Registered: register}
	}
}

// View renders the login form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("SafeChain"))
	sb.WriteString("\n")
	if m.notice != "" {
		sb.WriteString(noticeStyle.Render(m.notice))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Email:"))
	sb.WriteString("\n")
	sb.WriteString(m.emailInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Password:"))
	sb.WriteString("\n")
	sb.WriteString(m.passwordInput.View())
	sb.WriteString("\n\n")

	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n\n")
	}

	if m.submitting {
		sb.WriteString("Signing in...")
	} else {
		sb.WriteString(focusedStyle.Render("Enter") + " to log in, " +
			focusedStyle.Render("Ctrl+R") + " to register, " +
			focusedStyle.Render("Esc") + " to quit")
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
