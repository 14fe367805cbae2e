package session

import (
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
	"golang.org/x/crypto/blake2b"
)

// Claims is an informational view of a JWT-shaped token. It is decoded
// without signature verification and never used to decide validity.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseClaims decodes the registered claims of token without verifying it.
func ParseClaims(token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, oops.Code("TOKEN_NOT_JWT").Wrap(err)
	}

	c := Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}

// Claims decodes the current token. It returns false when anonymous or when
// the token is not a JWT.
func (s *Store) Claims() (Claims, bool) {
	token, ok := s.Get()
	if !ok {
		return Claims{}, false
	}
	c, err := ParseClaims(token)
	if err != nil {
		return Claims{}, false
	}
	return c, true
}

// Fingerprint returns a short stable digest of token, safe for logs.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}

// Fingerprint returns the fingerprint of the current token, or "" when
// anonymous.
func (s *Store) Fingerprint() string {
	token, _ := s.Get()
	return Fingerprint(token)
}
