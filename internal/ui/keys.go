package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	Quit     key.Binding
	Submit   key.Binding
	Register key.Binding
	Logout   key.Binding
	Demo     key.Binding
	NextForm key.Binding
	History  key.Binding
	Back     key.Binding
	Refresh  key.Binding
	Filter   key.Binding
}

var Keys = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Register: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
	Logout:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	Demo:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "demo")),
	NextForm: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
	History:  key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "history")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
}

// helpLine renders bindings as "key action" pairs.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, HelpKeyStyle.Render(h.Key)+" "+DimStyle.Render(h.Desc))
	}
	return strings.Join(parts, DimStyle.Render("  •  "))
}
