// Package auth performs register, login and logout against the SafeChain
// service and keeps the session store in step with the outcome.
package auth

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/fragmede/safechain/internal/api"
	"github.com/fragmede/safechain/internal/logging"
	"github.com/fragmede/safechain/internal/session"
)

const (
	registerPath = "/api/auth/register"
	loginPath    = "/api/auth/login"
)

// Messages shown when the service gives no detail of its own.
const (
	MsgRegisterFailed = "Registration failed"
	MsgLoginFailed    = "Login failed"
	MsgNetworkError   = "Network error"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Client runs the auth operations for one session store.
type Client struct {
	api    *api.Client
	store  *session.Store
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for auth events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates an auth client.
func New(apiClient *api.Client, store *session.Store, opts ...Option) *Client {
	c := &Client{
		api:    apiClient,
		store:  store,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "auth")
	return c
}

// Register creates an account. It never touches the session; callers that
// want to be signed in afterwards call Login.
func (c *Client) Register(ctx context.Context, identity, secret string) Result {
	identity = normalizeIdentity(identity)
	err := c.api.Post(ctx, registerPath, credentials{Email: identity, Password: secret}, nil, nil)
	if err != nil {
		res := c.failure(err, MsgRegisterFailed)
		c.logger.Info("register failed", "kind", res.Kind.String(), "message", res.Message)
		return res
	}
	c.logger.Info("registered", "identity", identity)
	return ok()
}

// Login exchanges credentials for a token. On success the token is in the
// store before Login returns. On failure any existing session is left as it
// was.
func (c *Client) Login(ctx context.Context, identity, secret string) Result {
	identity = normalizeIdentity(identity)

	var tok tokenResponse
	err := c.api.Post(ctx, loginPath, credentials{Email: identity, Password: secret}, nil, &tok)
	if err != nil {
		res := c.failure(err, MsgLoginFailed)
		c.logger.Info("login failed", "kind", res.Kind.String(), "message", res.Message)
		return res
	}
	if tok.AccessToken == "" {
		c.logger.Warn("login response has no access_token")
		return failed(FailureMalformed, MsgLoginFailed)
	}

	if err := c.store.Set(tok.AccessToken); err != nil {
		// The session is live in memory; only persistence failed.
		logging.LogError(c.logger, "persisting session", err)
	}
	c.logger.Info("logged in", "identity", identity, "token", session.Fingerprint(tok.AccessToken))
	return ok()
}

// Logout ends the session. It makes no network call and cannot fail.
func (c *Client) Logout() {
	if err := c.store.Clear(); err != nil {
		logging.LogError(c.logger, "clearing session", err)
	}
	c.logger.Info("logged out")
}

// AuthHeader returns the Authorization header for the current session, or an
// empty map when there is none.
func (c *Client) AuthHeader() map[string]string {
	return c.store.AuthHeader()
}

// Token returns the current session token.
func (c *Client) Token() (string, bool) {
	return c.store.Get()
}

// failure maps a transport error to a Result. fallback is used when the
// service rejected the call without a usable detail message.
func (c *Client) failure(err error, fallback string) Result {
	if apiErr, ok := api.AsError(err); ok {
		if detail := apiErr.Detail(); detail != "" {
			return failed(FailureRejected, detail)
		}
		return failed(FailureRejected, fallback)
	}
	if api.IsDecode(err) {
		return failed(FailureMalformed, fallback)
	}
	logging.LogError(c.logger, "auth request", err)
	return failed(FailureTransport, MsgNetworkError)
}

func normalizeIdentity(identity string) string {
	return norm.NFC.String(strings.TrimSpace(identity))
}
