// Package session holds the current bearer token and keeps it consistent
// with its persisted record.
//
// A Store is the single source of truth for "is there an active session and
// what is its token". The token is loaded once from a store.Backend at
// startup, changed only through Set and Clear, and read through Get and
// AuthHeader. Token validity is decided by the remote service on next use;
// the Store has no expiry or refresh logic.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/oops"

	"github.com/fragmede/safechain/internal/store"
)

// DefaultKey is the slot name the token is persisted under.
const DefaultKey = "token"

// Store holds the session token for one client instance.
type Store struct {
	mu          sync.RWMutex
	backend     store.Backend
	key         string
	logger      *slog.Logger
	token       string
	initialized bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for session lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithKey overrides the persistence slot name.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// New creates a Store persisting to backend. A nil backend keeps the
// session in memory only.
func New(backend store.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.backend == nil {
		s.backend = store.NewMemory()
	}
	s.logger = s.logger.With("component", "session")
	return s
}

// Initialize loads the persisted token into memory. A missing record leaves
// the store anonymous and is not an error. If the backend cannot be read the
// error is returned and the store stays anonymous but usable.
//
// Initialize is idempotent; once it has succeeded, or once Set or Clear has
// run, further calls do nothing.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	token, err := s.backend.Read(s.key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.initialized = true
		return nil
	case err != nil:
		return oops.Code("SESSION_RESTORE_FAILED").With("key", s.key).Wrap(err)
	}

	s.token = token
	s.initialized = true
	if token != "" {
		s.logger.Debug("session restored", "fingerprint", Fingerprint(token))
	}
	return nil
}

// Get returns the current token and whether one is set.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Authenticated reports whether a token is set.
func (s *Store) Authenticated() bool {
	_, ok := s.Get()
	return ok
}

// Set replaces the current token and writes it to the backend. The
// in-memory token is always updated; a backend failure is returned so the
// caller can report it, and the session then lives in memory only.
//
// Setting an empty token is the same as Clear.
func (s *Store) Set(token string) error {
	if token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.initialized = true
	if err := s.backend.Write(s.key, token); err != nil {
		return oops.Code("SESSION_PERSIST_FAILED").With("key", s.key).Wrap(err)
	}
	s.logger.Debug("session stored", "fingerprint", Fingerprint(token))
	return nil
}

// Clear drops the current token and removes the persisted record. Clearing
// an anonymous store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	had := s.token != ""
	s.token = ""
	s.initialized = true
	if err := s.backend.Remove(s.key); err != nil {
		return oops.Code("SESSION_CLEAR_FAILED").With("key", s.key).Wrap(err)
	}
	if had {
		s.logger.Debug("session cleared")
	}
	return nil
}

// AuthHeader returns the request headers carrying the current token: an
// empty map when anonymous, otherwise a single Authorization entry.
func (s *Store) AuthHeader() map[string]string {
	token, ok := s.Get()
	if !ok {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
