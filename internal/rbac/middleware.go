package rbac

import (
	"net/http"

	"log/slog"

	"github.com/atlas-lms/atlas-lms/internal/platform/httpx"
	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// Middleware wires RBAC authorization helpers for HTTP handlers. Checks
// run against the static permission table; no I/O is involved.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAny ensures the current principal has at least one of the
// required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal, ok := shared.PrincipalFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if HasAnyPermission(principal, perms...) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("permission denied",
					slog.String("path", r.URL.Path),
					slog.String("role", string(principal.Role)))
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
		})
	}
}

// RequireRole ensures the current principal holds one of the listed
// roles. SUPER_ADMIN always passes.
func (m Middleware) RequireRole(roles ...shared.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := shared.PrincipalFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if principal.Role == shared.RoleSuperAdmin {
				next.ServeHTTP(w, r)
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
		})
	}
}
