package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Detail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Email already registered"}`, "Email already registered"},
		{"structured detail", `{"detail":[{"loc":["body","email"],"msg":"field required"}]}`, ""},
		{"no detail", `{"error":"nope"}`, ""},
		{"not json", `Internal Server Error`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newError(400, "application/json", []byte(tt.body))
			assert.Equal(t, tt.want, e.Detail())
		})
	}
}

func TestError_PayloadFallsBackToText(t *testing.T) {
	e := newError(502, "text/plain", []byte("upstream down"))
	assert.Equal(t, "upstream down", e.Payload)
	assert.Equal(t, "API 502: upstream down", e.Error())
}

func TestError_HTMLBodySummarized(t *testing.T) {
	body := `<html><head><title>x</title></head><body><h1>502 Bad Gateway</h1><p>nginx</p></body></html>`
	e := newError(502, "text/html", []byte(body))
	assert.Equal(t, "API 502: 502 Bad Gateway nginx", e.Error())
}

func TestError_EmptyBodyUsesStatusText(t *testing.T) {
	e := newError(503, "", nil)
	assert.Nil(t, e.Payload)
	assert.Equal(t, "API 503: Service Unavailable", e.Error())
}
