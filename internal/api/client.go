// Package api is the HTTP JSON transport for the SafeChain service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/fragmede/safechain/internal/logging"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "safechain/1.0"
	maxErrorBody     = 64 << 10
)

// Error codes attached to transport-level oops errors.
const (
	CodeEncode    = "API_ENCODE"
	CodeRequest   = "API_REQUEST"
	CodeTransport = "API_TRANSPORT"
	CodeDecode    = "API_DECODE"
)

// Client is the SafeChain API client.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: defaultUserAgent,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root all relative paths resolve against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// resolve turns a path into a full URL. Absolute URLs pass through.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// send builds and executes a request. body, when non-nil, is sent as JSON.
// The caller must close the response body.
func (c *Client) send(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	url := c.resolve(path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, oops.Code(CodeEncode).With("method", method, "path", path).Wrap(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, oops.Code(CodeRequest).With("method", method, "url", url).Wrap(err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return nil, oops.Code(CodeTransport).
			With("method", method, "url", url, "request_id", requestID).
			Wrap(err)
	}
	c.logger.Debug("request complete",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))
	return resp, nil
}

// Do performs a JSON request. A non-2xx status yields an *Error. On success,
// when dst is non-nil, the body is decoded into it; otherwise the body is
// discarded.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers map[string]string, dst any) error {
	resp, err := c.send(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newError(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	}

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return oops.Code(CodeDecode).
			With("method", method, "path", path, "status", resp.StatusCode).
			Wrap(err)
	}
	return nil
}

// Get performs a JSON GET request.
func (c *Client) Get(ctx context.Context, path string, headers map[string]string, dst any) error {
	return c.Do(ctx, http.MethodGet, path, nil, headers, dst)
}

// Post performs a JSON POST request.
func (c *Client) Post(ctx context.Context, path string, body any, headers map[string]string, dst any) error {
	return c.Do(ctx, http.MethodPost, path, body, headers, dst)
}

// Ping reports whether url answers HTTP at all. Any status counts as
// reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context, url string) error {
	resp, err := c.send(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return resp.Body.Close()
}

// IsTransport reports whether err is a transport failure: the request never
// produced an HTTP response.
func IsTransport(err error) bool {
	return hasCode(err, CodeTransport)
}

// IsDecode reports whether err is a success response whose body could not be
// decoded.
func IsDecode(err error) bool {
	return hasCode(err, CodeDecode)
}

func hasCode(err error, code string) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == code
}
