// Package servicetest runs an in-process fake of the SafeChain service for
// tests.
package servicetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// SigningKey signs the tokens the fake service issues.
var SigningKey = []byte("servicetest-signing-key")

// DemoMessage is what the fake demo endpoint says.
const DemoMessage = "Hello from the demo service"

// Server is a fake SafeChain service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]string
	requests map[string]int
	lastAuth string
}

// New starts a fake service that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users:    make(map[string]string),
		requests: make(map[string]int),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/password/check", s.handleCheck)
	})
	r.Get("/demo", s.handleDemo)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// AddUser registers an account directly.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// Requests returns how many times "METHOD /path" was called.
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// LastAuthorization returns the Authorization header of the latest password
// check.
func (s *Server) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

// DemoURL is the fake demo endpoint.
func (s *Server) DemoURL() string {
	return s.URL + "/demo"
}

// IssueToken mints a token for email the way the fake login does.
func IssueToken(email string) string {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := tok.SignedString(SigningKey)
	if err != nil {
		panic(err)
	}
	return signed
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Email == "" || c.Password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request")
		return
	}

	s.mu.Lock()
	_, exists := s.users[c.Email]
	if !exists {
		s.users[c.Email] = c.Password
	}
	s.mu.Unlock()

	if exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": c.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request")
		return
	}

	s.mu.Lock()
	pw, exists := s.users[c.Email]
	s.mu.Unlock()

	if !exists || pw != c.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": IssueToken(c.Email),
		"token_type":   "bearer",
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.lastAuth = r.Header.Get("Authorization")
	s.mu.Unlock()

	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request")
		return
	}
	writeJSON(w, http.StatusOK, Rate(body.Password))
}

func (s *Server) handleDemo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": DemoMessage})
}

// Rating is the fake password check response.
type Rating struct {
	Strength    string   `json:"strength"`
	Reasons     []string `json:"reasons"`
	Suggestions []string `json:"suggestions"`
}

// Rate grades a password purely by length.
func Rate(password string) Rating {
	n := len([]rune(password))
	switch {
	case n < 8:
		return Rating{
			Strength:    "weak",
			Reasons:     []string{"Password is shorter than 8 characters"},
			Suggestions: []string{"Use at least 12 characters"},
		}
	case n < 12:
		return Rating{
			Strength:    "medium",
			Reasons:     []string{"Password is shorter than 12 characters"},
			Suggestions: []string{"Add a few more words"},
		}
	default:
		return Rating{Strength: "strong", Reasons: []string{}, Suggestions: []string{}}
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
