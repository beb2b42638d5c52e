package session_test

import (
	"testing"
	"time"

	"github.com/atlas-lms/atlas-lms/internal/session"
	"github.com/atlas-lms/atlas-lms/internal/shared"
	_ "github.com/atlas-lms/atlas-lms/testing"
)

func testPrincipal() shared.Principal {
	return shared.Principal{
		ID:       "user-1",
		Email:    "student@acme.local",
		Name:     "Acme Student",
		Role:     shared.RoleStudent,
		TenantID: "tenant-1",
		Avatar:   "https://cdn.acme.local/avatar.png",
	}
}

func TestIssueResolveRoundTrip(t *testing.T) {
	issuer := session.NewIssuer("secret", 30*24*time.Hour, 24*time.Hour, false)

	token, err := issuer.Issue(testPrincipal())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	principal, claims, ok := issuer.Resolve(token)
	if !ok {
		t.Fatalf("expected token to resolve")
	}
	if principal != testPrincipal() {
		t.Fatalf("principal mismatch: %+v", principal)
	}
	if claims.Subject != "user-1" || claims.TenantID != "tenant-1" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected a token id")
	}
}

func TestResolveRejectsTamperedToken(t *testing.T) {
	issuer := session.NewIssuer("secret", time.Hour, time.Minute, false)
	other := session.NewIssuer("different-secret", time.Hour, time.Minute, false)

	token, err := other.Issue(testPrincipal())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, _, ok := issuer.Resolve(token); ok {
		t.Fatalf("expected foreign-signed token to be rejected")
	}
	if _, _, ok := issuer.Resolve(""); ok {
		t.Fatalf("expected empty token to be rejected")
	}
	if _, _, ok := issuer.Resolve("not-a-token"); ok {
		t.Fatalf("expected garbage token to be rejected")
	}
}

func TestResolveExpiryIsExclusive(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	issuer := session.NewIssuer("secret", time.Hour, 24*time.Hour, false).
		WithClock(func() time.Time { return clock })

	token, err := issuer.Issue(testPrincipal())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock = base.Add(time.Hour - time.Second)
	if _, _, ok := issuer.Resolve(token); !ok {
		t.Fatalf("token should still be valid just before expiry")
	}

	// Exactly at the expiry instant the token is already dead.
	clock = base.Add(time.Hour)
	if _, _, ok := issuer.Resolve(token); ok {
		t.Fatalf("token expiring exactly now must be rejected")
	}
}

func TestResolveRejectsInvalidRole(t *testing.T) {
	issuer := session.NewIssuer("secret", time.Hour, time.Minute, false)

	p := testPrincipal()
	p.Role = shared.Role("JANITOR")
	token, err := issuer.Issue(p)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, _, ok := issuer.Resolve(token); ok {
		t.Fatalf("expected unknown role to be rejected")
	}
}

func TestShouldRefresh(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	issuer := session.NewIssuer("secret", 30*24*time.Hour, 24*time.Hour, false).
		WithClock(func() time.Time { return clock })

	token, err := issuer.Issue(testPrincipal())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, claims, ok := issuer.Resolve(token)
	if !ok {
		t.Fatalf("resolve: token invalid")
	}

	clock = base.Add(23 * time.Hour)
	if issuer.ShouldRefresh(claims) {
		t.Fatalf("token inside the touch window must not refresh")
	}

	clock = base.Add(24 * time.Hour)
	if !issuer.ShouldRefresh(claims) {
		t.Fatalf("token past the touch window must refresh")
	}

	if issuer.ShouldRefresh(nil) {
		t.Fatalf("nil claims must not refresh")
	}
}

func TestReissueKeepsAbsoluteCap(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	issuer := session.NewIssuer("secret", 30*24*time.Hour, 24*time.Hour, false).
		WithClock(func() time.Time { return clock })

	token, err := issuer.Issue(testPrincipal())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	principal, claims, ok := issuer.Resolve(token)
	if !ok {
		t.Fatalf("resolve: token invalid")
	}
	deadline := claims.ExpiresAt.Time

	// Two days in, a reissued token restarts the touch window but keeps
	// the original expiry.
	clock = base.Add(48 * time.Hour)
	fresh, err := issuer.Reissue(principal, claims)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	_, freshClaims, ok := issuer.Resolve(fresh)
	if !ok {
		t.Fatalf("resolve reissued: token invalid")
	}
	if !freshClaims.ExpiresAt.Time.Equal(deadline) {
		t.Fatalf("reissue moved the absolute cap: %v != %v", freshClaims.ExpiresAt.Time, deadline)
	}
	if !freshClaims.IssuedAt.Time.After(claims.IssuedAt.Time) {
		t.Fatalf("reissue must restart the touch window")
	}
}

func TestCookieAttributes(t *testing.T) {
	issuer := session.NewIssuer("secret", time.Hour, time.Minute, true)

	cookie := issuer.Cookie("tok")
	if cookie.Name != session.CookieName || cookie.Value != "tok" {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.Path != "/" {
		t.Fatalf("cookie must be HttpOnly and Secure on /: %+v", cookie)
	}
	if cookie.MaxAge != 3600 {
		t.Fatalf("expected MaxAge 3600, got %d", cookie.MaxAge)
	}

	cleared := issuer.ClearCookie()
	if cleared.MaxAge != -1 || cleared.Value != "" {
		t.Fatalf("clear cookie must expire immediately: %+v", cleared)
	}
}
