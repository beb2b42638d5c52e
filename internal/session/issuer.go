// Package session implements stateless signed session tokens. The token
// itself is the source of truth: no server-side session store exists, so
// revocation before natural expiry is not supported.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

const (
	// CookieName carries the signed session token.
	CookieName = "atlas_session"

	tokenIssuer = "atlas"
)

// Claims bundles the principal fields embedded in a session token.
type Claims struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	Avatar   string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs principals into HS256 tokens and resolves them back.
// It holds no mutable state beyond the signing secret, so it is safe
// for concurrent use on the request hot path.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	touch  time.Duration
	secure bool
	now    func() time.Time
}

// NewIssuer constructs an Issuer. ttl is the absolute token lifetime,
// touch the sliding window after which a used token is reissued.
func NewIssuer(secret string, ttl, touch time.Duration, secure bool) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		touch:  touch,
		secure: secure,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue encodes and signs the principal into a fresh token expiring
// at now + ttl.
func (i *Issuer) Issue(p shared.Principal) (string, error) {
	now := i.now().UTC()
	return i.sign(p, now, now.Add(i.ttl))
}

// Reissue signs a replacement token for an active session. The touch
// window restarts (fresh IssuedAt) but the expiry never moves past the
// prior token's absolute cap, so activity cannot extend a session
// beyond its original lifetime.
func (i *Issuer) Reissue(p shared.Principal, prior *Claims) (string, error) {
	now := i.now().UTC()
	expires := now.Add(i.ttl)
	if prior != nil && prior.ExpiresAt != nil && prior.ExpiresAt.Time.Before(expires) {
		expires = prior.ExpiresAt.Time
	}
	return i.sign(p, now, expires)
}

func (i *Issuer) sign(p shared.Principal, now, expires time.Time) (string, error) {
	claims := Claims{
		Email:    p.Email,
		Name:     p.Name,
		Role:     string(p.Role),
		TenantID: p.TenantID,
		Avatar:   p.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   p.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Resolve verifies signature and expiry and reconstructs the principal.
// Any failure (expired, malformed, bad signature, unknown role) yields
// ok == false; Resolve never returns an error since it runs on every
// request.
func (i *Issuer) Resolve(token string) (shared.Principal, *Claims, bool) {
	if token == "" {
		return shared.Principal{}, nil, false
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return shared.Principal{}, nil, false
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return shared.Principal{}, nil, false
	}
	if claims.Subject == "" || claims.TenantID == "" {
		return shared.Principal{}, nil, false
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return shared.Principal{}, nil, false
	}
	// Expiry is exclusive: a token expiring exactly now is already dead.
	if !i.now().UTC().Before(claims.ExpiresAt.Time) {
		return shared.Principal{}, nil, false
	}
	role := shared.Role(claims.Role)
	if !role.Valid() {
		return shared.Principal{}, nil, false
	}
	principal := shared.Principal{
		ID:       claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Role:     role,
		TenantID: claims.TenantID,
		Avatar:   claims.Avatar,
	}
	return principal, claims, true
}

// ShouldRefresh reports whether the token was issued longer ago than the
// touch window and deserves reissuance with a fresh expiry.
func (i *Issuer) ShouldRefresh(claims *Claims) bool {
	if claims == nil || claims.IssuedAt == nil {
		return false
	}
	return i.now().UTC().Sub(claims.IssuedAt.Time) >= i.touch
}

// Cookie wraps a signed token in the session cookie.
func (i *Issuer) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(i.ttl.Seconds()),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie, ending the session client-side.
func (i *Issuer) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
