package ui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/safechain/internal/api"
	"github.com/fragmede/safechain/internal/auth"
	"github.com/fragmede/safechain/internal/cache"
	"github.com/fragmede/safechain/internal/config"
	"github.com/fragmede/safechain/internal/logging"
	"github.com/fragmede/safechain/internal/session"
	"github.com/fragmede/safechain/internal/ui/check"
	"github.com/fragmede/safechain/internal/ui/history"
	"github.com/fragmede/safechain/internal/ui/login"
	"github.com/fragmede/safechain/internal/ui/messages"
	"github.com/fragmede/safechain/internal/ui/statusbar"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewLogin ViewType = iota
	ViewCheck
	ViewHistory
)

// Deps are the collaborators the TUI drives.
type Deps struct {
	Config  config.Config
	API     *api.Client
	Auth    *auth.Client
	Session *session.Store
	// History may be nil, in which case checks are not recorded.
	History *cache.DB
	Logger  *slog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	activeView ViewType

	// Child models
	loginForm login.Model
	checkForm check.Model
	history   history.Model
	statusBar statusbar.Model

	// Shared state
	cfg     config.Config
	client  *api.Client
	auth    *auth.Client
	session *session.Store
	db      *cache.DB
	logger  *slog.Logger
	subject string

	// Dimensions
	width  int
	height int
}

// NewApp creates the root application model. The session must already be
// initialized; a restored session starts on the check view.
func NewApp(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	a := &App{
		statusBar: statusbar.New(),
		history:   history.New(deps.History),
		cfg:       deps.Config,
		client:    deps.API,
		auth:      deps.Auth,
		session:   deps.Session,
		db:        deps.History,
		logger:    logger.With("component", "ui"),
	}
	a.loginForm = login.New(a.auth, a.cfg.RequestTimeout)
	if a.session.Authenticated() {
		a.showCheck()
	} else {
		a.activeView = ViewLogin
	}
	return a
}

// ActiveView returns the view currently shown.
func (a *App) ActiveView() ViewType {
	return a.activeView
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.tryRestoreSession())
}

func (a *App) tryRestoreSession() tea.Cmd {
	store := a.session
	return func() tea.Msg {
		if !store.Authenticated() {
			return nil
		}
		subject := "signed in"
		if claims, ok := store.Claims(); ok && claims.Subject != "" {
			subject = claims.Subject
		}
		return messages.SessionRestoredMsg{Subject: subject}
	}
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 2 // Status bar and help line.
		a.loginForm.SetSize(msg.Width, contentHeight)
		a.checkForm.SetSize(msg.Width, contentHeight)
		a.history.SetSize(msg.Width, contentHeight)
		a.statusBar.SetSize(msg.Width)
		return a, nil

	case tea.KeyMsg:
		if a.activeView == ViewHistory && !a.history.Filtering() {
			switch msg.String() {
			case "esc", "ctrl+y":
				a.activeView = ViewCheck
				return a, nil
			}
		}
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if a.activeView != ViewHistory {
				return a, tea.Quit
			}
		case "ctrl+l":
			if a.activeView != ViewLogin {
				a.logout()
				return a, nil
			}
		case "ctrl+y":
			if a.activeView == ViewCheck {
				a.activeView = ViewHistory
				a.history = history.New(a.db)
				a.history.SetSize(a.width, a.height-2)
				return a, a.history.Init()
			}
		}

	case messages.SessionRestoredMsg:
		a.subject = msg.Subject
		a.statusBar.SetUser(msg.Subject)
		a.logger.Info("session restored", "subject", msg.Subject, "token", a.session.Fingerprint())
		return a, nil

	case messages.LoginResultMsg:
		if msg.Result.Success {
			a.subject = msg.Identity
			if claims, ok := a.session.Claims(); ok && claims.Subject != "" {
				a.subject = claims.Subject
			}
			a.statusBar.SetUser(a.subject)
			if msg.Registered {
				a.statusBar.SetStatus("Account created", false)
			} else {
				a.statusBar.SetStatus("", false)
			}
			a.loginForm, _ = a.loginForm.Update(msg)
			a.showCheck()
			return a, nil
		}
		// Let the login form show the error.

	case messages.CheckResultMsg:
		if msg.Err == nil && msg.Result != nil {
			a.recordCheck(msg.Result)
		}
		if apiErr, ok := api.AsError(msg.Err); ok && apiErr.Status == 401 {
			a.statusBar.SetStatus("Session rejected; ctrl+l to sign in again", true)
		}

	case messages.ConnectivityMsg:
		a.statusBar.SetConnectivity(msg.API, msg.Demo)
		return a, nil

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
		return a, nil
	}

	// Route to active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewLogin:
		a.loginForm, cmd = a.loginForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewCheck:
		a.checkForm, cmd = a.checkForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewHistory:
		a.history, cmd = a.history.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

func (a *App) showCheck() {
	a.activeView = ViewCheck
	a.checkForm = check.New(a.client, a.auth.AuthHeader, a.cfg.DemoURL, a.cfg.RequestTimeout)
	a.checkForm.SetSize(a.width, a.height-2)
}

func (a *App) logout() {
	a.auth.Logout()
	a.subject = ""
	a.statusBar.SetUser("")
	a.statusBar.SetStatus("", false)
	a.activeView = ViewLogin
	a.loginForm = login.New(a.auth, a.cfg.RequestTimeout)
	a.loginForm.SetSize(a.width, a.height-2)
	a.loginForm.SetNotice("Signed out")
}

func (a *App) recordCheck(res *api.CheckResult) {
	if a.db == nil {
		return
	}
	err := a.db.AddCheck(cache.CheckRecord{
		Subject:     a.subject,
		Strength:    res.Level(),
		Reasons:     len(res.Reasons),
		Suggestions: len(res.Suggestions),
	})
	if err != nil {
		logging.LogError(a.logger, "recording check", err)
	}
}

// View renders the application.
func (a *App) View() string {
	var content, help string
	switch a.activeView {
	case ViewLogin:
		content = a.loginForm.View()
		help = helpLine(Keys.Submit, Keys.Register, Keys.NextForm, Keys.Quit)
	case ViewCheck:
		content = a.checkForm.View()
		help = helpLine(Keys.Submit, Keys.Demo, Keys.History, Keys.Logout, Keys.Quit)
	case ViewHistory:
		content = a.history.View()
		help = helpLine(Keys.Back, Keys.Refresh, Keys.Filter, Keys.Logout)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, help, a.statusBar.View())
}
