// Package rbac evaluates role-based access decisions against static,
// process-wide tables. All checks are pure functions: identical inputs
// always yield identical outputs, with no I/O and no clock dependency.
package rbac

import "github.com/atlas-lms/atlas-lms/internal/shared"

// HasPermission reports whether the principal holds the permission.
// SUPER_ADMIN holds every permission unconditionally.
func HasPermission(p shared.Principal, permission string) bool {
	if p.Role == shared.RoleSuperAdmin {
		return true
	}
	set, ok := rolePermissions[p.Role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}

// HasRole reports an exact role match. No hierarchy is implied: an
// ADMIN does not "have" the STUDENT role.
func HasRole(p shared.Principal, role shared.Role) bool {
	return p.Role == role
}

// HasAnyPermission reports whether the principal holds at least one of
// the given permissions.
func HasAnyPermission(p shared.Principal, permissions ...string) bool {
	for _, perm := range permissions {
		if HasPermission(p, perm) {
			return true
		}
	}
	return false
}

// CanAccess composes resource and action into a resource:action tag and
// delegates to HasPermission.
func CanAccess(p shared.Principal, resource, action string) bool {
	return HasPermission(p, resource+":"+action)
}
