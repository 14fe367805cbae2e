package messages

import (
	"github.com/fragmede/safechain/internal/api"
	"github.com/fragmede/safechain/internal/auth"
)

// View transition messages.
type (
	OpenLoginMsg struct{}
	OpenCheckMsg struct{}
	LogoutMsg    struct{}
)

// Data messages.
type (
	LoginResultMsg struct {
		Identity   string
		Result     auth.Result
		Registered bool
	}

	CheckResultMsg struct {
		Result *api.CheckResult
		Err    error
	}

	DemoResultMsg struct {
		Message string
		Err     error
	}

	// ConnectivityMsg reports reachability of the API and demo services.
	ConnectivityMsg struct {
		API  bool
		Demo bool
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}

	SessionRestoredMsg struct {
		Subject string
	}
)
