// Package history is the TUI view of recent password checks.
package history

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragmede/safechain/internal/cache"
)

const pageSize = 50

// LoadedMsg carries records read from the history table.
type LoadedMsg struct {
	Records []cache.CheckRecord
	Err     error
}

// Model is the check history view.
type Model struct {
	list   list.Model
	db     *cache.DB
	width  int
	height int
}

// New creates a history view reading from db, which may be nil.
func New(db *cache.DB) Model {
	l := list.New(nil, Delegate{}, 0, 0)
	l.Title = "Recent checks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Model{list: l, db: db}
}

// Init loads the history.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h)
}

// Len returns the number of records shown.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Error: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.Records))
		for i, rec := range msg.Records {
			items = append(items, CheckItem{CheckRecord: rec, Index: i})
		}
		m.list.Title = "Recent checks"
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		if msg.String() == "r" {
			m.list.Title = "Recent checks (refreshing...)"
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m Model) View() string {
	return m.list.View()
}

func (m Model) load() tea.Cmd {
	db := m.db
	return func() tea.Msg {
		if db == nil {
			return LoadedMsg{}
		}
		recs, err := db.RecentChecks(pageSize)
		return LoadedMsg{Records: recs, Err: err}
	}
}
