package api

import (
	"context"
	"encoding/json"

	"github.com/samber/oops"
)

const checkPath = "/api/password/check"

// Strength levels the service reports.
const (
	StrengthWeak    = "weak"
	StrengthMedium  = "medium"
	StrengthStrong  = "strong"
	StrengthUnknown = "unknown"
)

// CheckResult is the outcome of a password check.
type CheckResult struct {
	Strength    string   `json:"strength"`
	Reasons     []string `json:"reasons"`
	Suggestions []string `json:"suggestions"`

	// Raw is the response body as received.
	Raw json.RawMessage `json:"-"`
}

// Level returns the strength normalized to one of the known levels.
func (r *CheckResult) Level() string {
	switch r.Strength {
	case StrengthWeak, StrengthMedium, StrengthStrong:
		return r.Strength
	default:
		return StrengthUnknown
	}
}

type checkRequest struct {
	Password string  `json:"password"`
	UserID   *string `json:"user_id"`
}

// CheckPassword asks the service to rate password. headers normally carry
// the session's Authorization header.
func (c *Client) CheckPassword(ctx context.Context, password string, headers map[string]string) (*CheckResult, error) {
	var raw json.RawMessage
	if err := c.Post(ctx, checkPath, checkRequest{Password: password}, headers, &raw); err != nil {
		return nil, err
	}

	var result CheckResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, oops.Code(CodeDecode).With("path", checkPath).Wrap(err)
	}
	result.Raw = raw
	return &result, nil
}
