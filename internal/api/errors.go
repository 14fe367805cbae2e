package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fragmede/safechain/internal/render"
)

const maxSummary = 200

// Error is a non-2xx response from the service.
type Error struct {
	Status      int
	ContentType string
	// Body is the raw response body, truncated to 64 KiB.
	Body string
	// Payload is the body decoded as JSON, or the raw text when it is not
	// JSON, or nil when the body is empty.
	Payload any
}

func newError(status int, contentType string, raw []byte) *Error {
	return &Error{
		Status:      status,
		ContentType: contentType,
		Body:        string(raw),
		Payload:     decodePayload(raw),
	}
}

// decodePayload attempts a JSON decode and falls back to the raw text. It
// never fails.
func decodePayload(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// Detail returns the service-provided "detail" message, or "" when the
// payload has none. Structured details (such as validation error lists) are
// not messages and also yield "".
func (e *Error) Detail() string {
	m, ok := e.Payload.(map[string]any)
	if !ok {
		return ""
	}
	d, _ := m["detail"].(string)
	return strings.TrimSpace(d)
}

func (e *Error) Error() string {
	summary := e.Detail()
	if summary == "" {
		summary = e.summary()
	}
	if summary == "" {
		summary = http.StatusText(e.Status)
	}
	return fmt.Sprintf("API %d: %s", e.Status, summary)
}

func (e *Error) summary() string {
	body := strings.TrimSpace(e.Body)
	if strings.Contains(e.ContentType, "text/html") || strings.HasPrefix(body, "<") {
		body = strings.ReplaceAll(render.HTMLToText(body, 0), "\n", " ")
	}
	return render.Truncate(body, maxSummary)
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
