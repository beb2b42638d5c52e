package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atlas-lms/atlas-lms/internal/platform/httpx"
	"github.com/atlas-lms/atlas-lms/internal/rbac"
	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// Handler manages user administration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermUserView, shared.PermUserManage))
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermUserManage))
		r.Patch("/{id}/role", h.changeRole)
	})
}

// tenantScope pins admin operations to the caller's own tenant. A super
// admin may target any tenant through the tenantId query parameter.
func tenantScope(r *http.Request) string {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		return ""
	}
	if principal.IsSuperAdmin() {
		if target := r.URL.Query().Get("tenantId"); target != "" {
			return target
		}
	}
	return principal.TenantID
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	role := shared.Role(r.URL.Query().Get("role"))
	list, err := h.service.List(r.Context(), tenantScope(r), role)
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			httpx.ValidationProblem(w, map[string]string{"role": "unknown role"})
			return
		}
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	pagination := shared.NewPagination(page, perPage, len(list))
	start := (pagination.Page - 1) * pagination.PerPage
	if start > len(list) {
		start = len(list)
	}
	end := start + pagination.PerPage
	if end > len(list) {
		end = len(list)
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"users":      list[start:end],
		"pagination": pagination,
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), tenantScope(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type changeRoleRequest struct {
	Role shared.Role `json:"role"`
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	user, err := h.service.ChangeRole(r.Context(), tenantScope(r), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			httpx.ValidationProblem(w, map[string]string{"role": "unknown or unassignable role"})
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
