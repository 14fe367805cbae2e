package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func newTestServer(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestDo_SendsJSONAndHeaders(t *testing.T) {
	var gotBody map[string]string
	var gotHeader http.Header

	r := chi.NewRouter()
	r.Post("/echo", func(w http.ResponseWriter, req *http.Request) {
		gotHeader = req.Header.Clone()
		_ = json.NewDecoder(req.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	c := newTestServer(t, r)

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.Post(context.Background(), "echo", map[string]string{"email": "a@b.c"},
		map[string]string{"Authorization": "Bearer abc"}, &out)
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, "a@b.c", gotBody["email"])
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "application/json", gotHeader.Get("Accept"))
	assert.Equal(t, "Bearer abc", gotHeader.Get("Authorization"))
	assert.Equal(t, defaultUserAgent, gotHeader.Get("User-Agent"))
	_, err = uuid.Parse(gotHeader.Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestDo_NonSuccessReturnsError(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"bad credentials"}`))
	})
	c := newTestServer(t, r)

	err := c.Post(context.Background(), "/login", map[string]string{}, nil, nil)
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "bad credentials", apiErr.Detail())
	assert.Equal(t, "API 401: bad credentials", apiErr.Error())
	assert.False(t, IsTransport(err))
}

func TestDo_TransportFailure(t *testing.T) {
	c := NewClient("http://service.invalid", WithHTTPClient(&http.Client{Transport: failingTransport{}}))

	err := c.Get(context.Background(), "/anything", nil, nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	_, ok := AsError(err)
	assert.False(t, ok)
}

func TestDo_DecodeFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/bad", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	c := newTestServer(t, r)

	var out map[string]any
	err := c.Get(context.Background(), "/bad", nil, &out)
	require.Error(t, err)
	assert.True(t, IsDecode(err))
	assert.False(t, IsTransport(err))
}

func TestDo_NilDestinationDiscardsBody(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/register", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("anything at all"))
	})
	c := newTestServer(t, r)

	assert.NoError(t, c.Post(context.Background(), "/register", struct{}{}, nil, nil))
}

func TestResolve(t *testing.T) {
	c := NewClient("http://localhost:8000/")
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
	assert.Equal(t, "http://localhost:8000/api/auth/login", c.resolve("/api/auth/login"))
	assert.Equal(t, "http://localhost:8000/api/auth/login", c.resolve("api/auth/login"))
	assert.Equal(t, "http://localhost:9000/", c.resolve("http://localhost:9000/"))
}

func TestPing(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	c := newTestServer(t, r)
	assert.NoError(t, c.Ping(context.Background(), c.BaseURL()+"/"))

	down := NewClient("http://service.invalid", WithHTTPClient(&http.Client{Transport: failingTransport{}}))
	assert.True(t, IsTransport(down.Ping(context.Background(), "http://service.invalid/")))
}
