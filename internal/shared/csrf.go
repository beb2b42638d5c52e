package shared

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const (
	// CSRFCookieName is the cookie carrying the double-submit token.
	CSRFCookieName = "atlas_csrf"
	// CSRFHeaderName is the request header carrying the token copy.
	CSRFHeaderName = "X-CSRF-Token"
	// CSRFFormField is the form field name carrying the token copy.
	CSRFFormField = "csrf_token"
)

// CSRFManager issues and verifies double-submit CSRF tokens. Tokens are
// self-authenticating (HMAC over a random nonce) so no server-side state
// is required, matching the stateless session design.
type CSRFManager struct {
	secret []byte
}

// NewCSRFManager returns a CSRFManager using the provided secret key.
func NewCSRFManager(secret string) *CSRFManager {
	return &CSRFManager{secret: []byte(secret)}
}

// IssueToken generates a fresh token.
func (m *CSRFManager) IssueToken() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(nonce) + "." + m.sign(nonce), nil
}

// VerifyToken checks that the submitted token matches the cookie token
// and that both carry a valid signature.
func (m *CSRFManager) VerifyToken(cookieToken, submitted string) error {
	if cookieToken == "" || submitted == "" {
		return ErrCSRFTokenMissing
	}
	if !hmac.Equal([]byte(cookieToken), []byte(submitted)) {
		return ErrCSRFTokenMismatch
	}
	noncePart, macPart, ok := strings.Cut(cookieToken, ".")
	if !ok {
		return ErrCSRFTokenMismatch
	}
	nonce, err := base64.RawURLEncoding.DecodeString(noncePart)
	if err != nil {
		return ErrCSRFTokenMismatch
	}
	if !hmac.Equal([]byte(macPart), []byte(m.sign(nonce))) {
		return ErrCSRFTokenMismatch
	}
	return nil
}

func (m *CSRFManager) sign(nonce []byte) string {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write(nonce)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
