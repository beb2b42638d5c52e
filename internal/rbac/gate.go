package rbac

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/atlas-lms/atlas-lms/internal/platform/httpx"
	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// Gate is the per-request access control middleware. It classifies the
// requested path against the route table and either forwards, redirects
// or denies. Session resolution happens upstream; the gate itself never
// mutates session state.
type Gate struct {
	Table  *RouteTable
	Logger *slog.Logger
}

// Handler wraps next with the access decision.
func (g Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var principal *shared.Principal
		if p, ok := shared.PrincipalFromContext(r.Context()); ok {
			principal = &p
		}

		switch g.Table.Classify(r.URL.Path, principal) {
		case DecisionPublic, DecisionAllowed:
			next.ServeHTTP(w, r)
		case DecisionUnauthenticated:
			if isAPIRequest(r) {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			target := g.Table.LoginPath + "?callbackUrl=" + url.QueryEscape(r.URL.Path)
			http.Redirect(w, r, target, http.StatusSeeOther)
		case DecisionForbidden:
			if g.Logger != nil {
				g.Logger.Warn("access denied",
					slog.String("path", r.URL.Path),
					slog.String("role", string(principal.Role)))
			}
			if isAPIRequest(r) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
				return
			}
			// The caller is authenticated, just under-privileged: send
			// them to their dashboard rather than back to login.
			http.Redirect(w, r, g.Table.DashboardPath, http.StatusSeeOther)
		}
	})
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
