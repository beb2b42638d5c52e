package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlas-lms/atlas-lms/internal/platform/httpx"
	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// PermissionsHandler exposes the permission catalog for admin tooling.
type PermissionsHandler struct {
	rbac Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermUserManage, shared.PermTenantManage))
		r.Get("/", h.listPermissions)
	})
}

type permissionCatalog struct {
	Permissions []string                 `json:"permissions"`
	Roles       map[shared.Role][]string `json:"roles"`
}

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	catalog := permissionCatalog{
		Permissions: shared.AllPermissions(),
		Roles:       make(map[shared.Role][]string, len(rolePermissions)),
	}
	for _, role := range shared.Roles() {
		catalog.Roles[role] = PermissionsFor(role)
	}
	httpx.JSON(w, http.StatusOK, catalog)
}
