package session

import (
	"log/slog"
	"net/http"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// Middleware resolves the session cookie into a request principal.
// Absent or invalid tokens are treated as "no principal" and the request
// proceeds unauthenticated. Tokens past the touch window are reissued
// with a fresh expiry as a side effect of resolution, never of the
// authorization decision.
func Middleware(issuer *Issuer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			principal, claims, ok := issuer.Resolve(cookie.Value)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if issuer.ShouldRefresh(claims) {
				if fresh, err := issuer.Reissue(principal, claims); err == nil {
					http.SetCookie(w, issuer.Cookie(fresh))
				} else if logger != nil {
					logger.Warn("session reissue", slog.Any("error", err))
				}
			}
			ctx := shared.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
