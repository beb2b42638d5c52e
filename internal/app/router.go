package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/atlas-lms/atlas-lms/internal/auth"
	"github.com/atlas-lms/atlas-lms/internal/observability"
	"github.com/atlas-lms/atlas-lms/internal/rbac"
	"github.com/atlas-lms/atlas-lms/internal/session"
	"github.com/atlas-lms/atlas-lms/internal/shared"
	"github.com/atlas-lms/atlas-lms/internal/tenants"
	"github.com/atlas-lms/atlas-lms/internal/users"
	"github.com/atlas-lms/atlas-lms/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Issuer             *session.Issuer
	CSRFManager        *shared.CSRFManager
	RouteTable         *rbac.RouteTable
	AuthHandler        *auth.Handler
	TenantsHandler     *tenants.Handler
	UsersHandler       *users.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Atlas defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:      params.Logger,
		Config:      params.Config,
		Issuer:      params.Issuer,
		CSRFManager: params.CSRFManager,
		Metrics:     params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	table := params.RouteTable
	if table == nil {
		table = rbac.DefaultRouteTable()
	}
	r.Use(rbac.Gate{Table: table, Logger: params.Logger}.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		if params.TenantsHandler != nil {
			// Tenant branding for the login page, before any session exists.
			r.Get("/tenant", params.TenantsHandler.Resolve)
		}
	})

	r.Route("/api/admin", func(r chi.Router) {
		if params.TenantsHandler != nil {
			r.Route("/tenants", params.TenantsHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.PermissionsHandler != nil {
			r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
