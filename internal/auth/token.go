// Package auth verifies bearer tokens issued by the account service.
// Tokens are opaque HMAC-SHA256-signed payloads; issuance and session
// management live outside this service.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed and tampered tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for structurally valid but expired tokens.
	ErrExpiredToken = errors.New("token expired")
)

// Identity is the authenticated caller attached to each request.
type Identity struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"-"`
}

// Verifier checks a bearer token and resolves the caller's identity.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

type claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"exp"`
}

// HMACVerifier verifies tokens of the form base64(claims) + "." + hex(hmac).
// The admin allowlist comes from configuration so deployments can change it
// without a rebuild.
type HMACVerifier struct {
	secret      []byte
	adminEmails map[string]bool
	now         func() time.Time
}

// NewHMACVerifier creates a verifier for the given shared secret.
func NewHMACVerifier(secret string, adminEmails []string) *HMACVerifier {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(email)] = true
	}
	return &HMACVerifier{
		secret:      []byte(secret),
		adminEmails: admins,
		now:         time.Now,
	}
}

// Verify checks the token signature and expiry and returns the identity.
func (v *HMACVerifier) Verify(token string) (*Identity, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalidToken
	}

	expected := v.sign(parts[0])
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return nil, ErrInvalidToken
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, ErrInvalidToken
	}
	if c.UserID == "" {
		return nil, ErrInvalidToken
	}
	if c.ExpiresAt > 0 && v.now().Unix() > c.ExpiresAt {
		return nil, ErrExpiredToken
	}

	return &Identity{
		UserID:  c.UserID,
		Email:   c.Email,
		IsAdmin: v.adminEmails[strings.ToLower(c.Email)],
	}, nil
}

// Sign mints a token for the given identity. Issuance belongs to the
// account service; this is here for tooling and tests that need a valid
// token against the same secret.
func (v *HMACVerifier) Sign(userID, email string, ttl time.Duration) (string, error) {
	c := claims{UserID: userID, Email: email}
	if ttl > 0 {
		c.ExpiresAt = v.now().Add(ttl).Unix()
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling claims: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + v.sign(encoded), nil
}

func (v *HMACVerifier) sign(payload string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
