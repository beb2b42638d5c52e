package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlas-lms/atlas-lms/internal/session"
	"github.com/atlas-lms/atlas-lms/internal/shared"
	_ "github.com/atlas-lms/atlas-lms/testing"
)

func TestMiddlewareInjectsPrincipal(t *testing.T) {
	issuer := session.NewIssuer("secret", time.Hour, 24*time.Hour, false)
	token, err := issuer.Issue(testPrincipal())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got shared.Principal
	var ok bool
	handler := session.Middleware(issuer, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = shared.PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(issuer.Cookie(token))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatalf("expected principal in context")
	}
	if got.ID != "user-1" || got.Role != shared.RoleStudent {
		t.Fatalf("unexpected principal: %+v", got)
	}
}

func TestMiddlewareIgnoresInvalidCookie(t *testing.T) {
	issuer := session.NewIssuer("secret", time.Hour, 24*time.Hour, false)

	handler := session.Middleware(issuer, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.PrincipalFromContext(r.Context()); ok {
			t.Fatalf("invalid token must not yield a principal")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// No cookie at all behaves the same.
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
}

func TestMiddlewareReissuesAgedToken(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	issuer := session.NewIssuer("secret", 30*24*time.Hour, 24*time.Hour, false).
		WithClock(func() time.Time { return clock })

	token, err := issuer.Issue(testPrincipal())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	handler := session.Middleware(issuer, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// Inside the touch window: no new cookie.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(issuer.Cookie(token))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if len(res.Result().Cookies()) != 0 {
		t.Fatalf("fresh token must not be reissued")
	}

	// Past the touch window: middleware sets a replacement cookie.
	clock = base.Add(25 * time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(issuer.Cookie(token))
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	cookies := res.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName {
		t.Fatalf("expected reissued session cookie, got %+v", cookies)
	}
	if cookies[0].Value == token {
		t.Fatalf("reissued token must differ from the original")
	}
	if _, _, ok := issuer.Resolve(cookies[0].Value); !ok {
		t.Fatalf("reissued token must resolve")
	}
}
