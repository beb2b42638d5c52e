package rbac

import (
	"sort"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// rolePermissions maps each role to its granted permission set. Built
// once at package init and never mutated afterwards, so unsynchronized
// concurrent reads from request handlers are safe.
var rolePermissions = map[shared.Role]map[string]struct{}{
	shared.RoleSuperAdmin: permissionSet(shared.AllPermissions()),
	shared.RoleAdmin: permissionSet([]string{
		shared.PermTenantManage,
		shared.PermTenantView,
		shared.PermUserManage,
		shared.PermUserView,
	}),
	shared.RoleInstructor: permissionSet([]string{
		shared.PermCourseCreate,
		shared.PermCourseEdit,
		shared.PermCourseDelete,
		shared.PermCourseView,
		shared.PermCoursePublish,
		shared.PermStudentView,
		shared.PermExamCreate,
		shared.PermExamEdit,
		shared.PermExamDelete,
		shared.PermExamGrade,
	}),
	shared.RoleStudent: permissionSet([]string{
		shared.PermCourseView,
		shared.PermExamTake,
	}),
}

func permissionSet(perms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// PermissionsFor returns a sorted copy of the permissions granted to a
// role. Unknown roles yield an empty slice.
func PermissionsFor(role shared.Role) []string {
	set := rolePermissions[role]
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}
