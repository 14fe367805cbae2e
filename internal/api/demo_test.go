package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoMessage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"message field", `{"message":"Hello from demo"}`, "Hello from demo"},
		{"no message", `{"status": "ok"}`, `{"status":"ok"}`},
		{"json string", `"hi"`, "hi"},
		{"plain text", "  plain hello \n", "plain hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, demoMessage([]byte(tt.raw)))
		})
	}
}

func TestDemo(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"demo says hi"}`))
	})
	r.Get("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := newTestServer(t, r)

	msg, err := c.Demo(context.Background(), c.BaseURL()+"/")
	require.NoError(t, err)
	assert.Equal(t, "demo says hi", msg)

	_, err = c.Demo(context.Background(), c.BaseURL()+"/broken")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}
