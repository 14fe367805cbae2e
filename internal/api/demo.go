package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Demo calls the auxiliary demo service at url and returns what it says: the
// "message" field of a JSON object, the compacted JSON when there is no
// message, or the raw text when the body is not JSON.
func (c *Client) Demo(ctx context.Context, url string) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", oops.Code(CodeTransport).With("url", url).Wrap(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newError(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	}
	return demoMessage(raw), nil
}

func demoMessage(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if m, ok := v.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if s, ok := v.(string); ok {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}
