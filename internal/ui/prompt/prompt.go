// Package prompt reads a single line from the terminal, optionally without
// echoing it.
package prompt

import (
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user aborts the prompt.
var ErrCancelled = errors.New("prompt cancelled")

var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)

// Model is a one-field input.
type Model struct {
	input     textinput.Model
	label     string
	done      bool
	cancelled bool
}

// New creates a prompt. When secret is set the input is masked.
func New(label string, secret bool) Model {
	input := textinput.New()
	input.Prompt = ""
	input.Width = 40
	if secret {
		input.EchoMode = textinput.EchoPassword
	}
	input.Focus()
	return Model{input: input, label: label}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return labelStyle.Render(m.label+": ") + m.input.View() + "\n"
}

// Value returns the entered text and whether the user confirmed it.
func (m Model) Value() (string, bool) {
	return m.input.Value(), m.done && !m.cancelled
}

// Ask runs the prompt on in and out until Enter or cancel.
func Ask(in io.Reader, out io.Writer, label string, secret bool) (string, error) {
	p := tea.NewProgram(New(label, secret), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	value, ok := final.(Model).Value()
	if !ok {
		return "", ErrCancelled
	}
	return value, nil
}
