package shared

// Role is one of the closed set of authorization categories.
type Role string

// Platform roles. SUPER_ADMIN is a universal override; the
// remaining roles carry only the permissions mapped to them.
const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleInstructor, RoleStudent}
}

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

// Principal is the authenticated identity attached to a request.
// It is constructed at login, carried inside the session token and
// reconstructed on every request; it is never persisted elsewhere.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     Role   `json:"role"`
	TenantID string `json:"tenantId"`
	Avatar   string `json:"avatar,omitempty"`
}

// IsSuperAdmin reports whether the principal bypasses tenant scoping.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}
