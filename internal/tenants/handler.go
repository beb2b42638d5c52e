package tenants

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlas-lms/atlas-lms/internal/platform/httpx"
	"github.com/atlas-lms/atlas-lms/internal/rbac"
	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// Handler wires HTTP endpoints for tenant administration.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers tenant admin routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermTenantView, shared.PermTenantManage))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermTenantManage))
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
	})
}

// Resolve returns the tenant behind a subdomain. Mounted on the public
// auth namespace so the login page can brand itself before any session
// exists; only presentation fields should be trusted from it.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	subdomain := r.URL.Query().Get("subdomain")
	if subdomain == "" {
		httpx.ValidationProblem(w, map[string]string{"subdomain": "failed required validation"})
		return
	}
	tenant, err := h.service.Resolve(r.Context(), subdomain)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tenant)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list tenants", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tenants": all})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tenant)
}

type tenantPayload struct {
	Name        string `json:"name"`
	Subdomain   string `json:"subdomain"`
	Logo        string `json:"logo"`
	AccentColor string `json:"accentColor"`
	Plan        Plan   `json:"plan"`
	Status      Status `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req tenantPayload
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	tenant, err := h.service.Create(r.Context(), CreateInput{
		Name:        req.Name,
		Subdomain:   req.Subdomain,
		Logo:        req.Logo,
		AccentColor: req.AccentColor,
		Plan:        req.Plan,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		case errors.Is(err, ErrSubdomainTaken):
			httpx.Problem(w, http.StatusConflict, "Conflict", "subdomain already taken")
		default:
			h.logger.Error("create tenant", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, tenant)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req tenantPayload
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	tenant, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		Name:        req.Name,
		Logo:        req.Logo,
		AccentColor: req.AccentColor,
		Plan:        req.Plan,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tenant)
}
