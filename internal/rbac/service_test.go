package rbac_test

import (
	"testing"

	"github.com/atlas-lms/atlas-lms/internal/rbac"
	"github.com/atlas-lms/atlas-lms/internal/shared"
	_ "github.com/atlas-lms/atlas-lms/testing"
)

func principalWithRole(role shared.Role) shared.Principal {
	return shared.Principal{ID: "user-1", Role: role, TenantID: "tenant-1"}
}

func TestSuperAdminHoldsEveryPermission(t *testing.T) {
	p := principalWithRole(shared.RoleSuperAdmin)
	for _, perm := range shared.AllPermissions() {
		if !rbac.HasPermission(p, perm) {
			t.Fatalf("super admin missing %s", perm)
		}
	}
	// Even permissions outside the catalog pass for SUPER_ADMIN.
	if !rbac.HasPermission(p, "made:up") {
		t.Fatalf("super admin must bypass the permission table")
	}
}

func TestRolePermissionTable(t *testing.T) {
	cases := []struct {
		role    shared.Role
		granted []string
		denied  []string
	}{
		{
			role:    shared.RoleAdmin,
			granted: []string{shared.PermTenantManage, shared.PermTenantView, shared.PermUserManage, shared.PermUserView},
			denied:  []string{shared.PermCourseCreate, shared.PermExamGrade, shared.PermExamTake},
		},
		{
			role: shared.RoleInstructor,
			granted: []string{
				shared.PermCourseCreate, shared.PermCourseEdit, shared.PermCourseDelete,
				shared.PermCourseView, shared.PermCoursePublish, shared.PermStudentView,
				shared.PermExamCreate, shared.PermExamEdit, shared.PermExamDelete, shared.PermExamGrade,
			},
			denied: []string{shared.PermTenantManage, shared.PermUserManage, shared.PermExamTake, shared.PermStudentManage},
		},
		{
			role:    shared.RoleStudent,
			granted: []string{shared.PermCourseView, shared.PermExamTake},
			denied:  []string{shared.PermCourseCreate, shared.PermExamGrade, shared.PermUserView},
		},
	}

	for _, tc := range cases {
		p := principalWithRole(tc.role)
		for _, perm := range tc.granted {
			if !rbac.HasPermission(p, perm) {
				t.Fatalf("%s should hold %s", tc.role, perm)
			}
		}
		for _, perm := range tc.denied {
			if rbac.HasPermission(p, perm) {
				t.Fatalf("%s should not hold %s", tc.role, perm)
			}
		}
	}
}

func TestUnknownRoleHasNothing(t *testing.T) {
	p := principalWithRole(shared.Role("GHOST"))
	if rbac.HasPermission(p, shared.PermCourseView) {
		t.Fatalf("unknown role must hold no permissions")
	}
	if got := rbac.PermissionsFor(shared.Role("GHOST")); len(got) != 0 {
		t.Fatalf("expected empty permission list, got %v", got)
	}
}

func TestHasRoleIsExact(t *testing.T) {
	admin := principalWithRole(shared.RoleAdmin)
	if !rbac.HasRole(admin, shared.RoleAdmin) {
		t.Fatalf("admin should match ADMIN")
	}
	if rbac.HasRole(admin, shared.RoleStudent) {
		t.Fatalf("no role hierarchy: admin is not a student")
	}
	if rbac.HasRole(principalWithRole(shared.RoleSuperAdmin), shared.RoleAdmin) {
		t.Fatalf("no role hierarchy: super admin is not an admin")
	}
}

func TestHasAnyPermission(t *testing.T) {
	student := principalWithRole(shared.RoleStudent)
	if !rbac.HasAnyPermission(student, shared.PermUserManage, shared.PermExamTake) {
		t.Fatalf("one granted permission should suffice")
	}
	if rbac.HasAnyPermission(student, shared.PermUserManage, shared.PermTenantManage) {
		t.Fatalf("no granted permissions should fail")
	}
	if rbac.HasAnyPermission(student) {
		t.Fatalf("empty permission list should fail")
	}
}

func TestCanAccessComposesTag(t *testing.T) {
	student := principalWithRole(shared.RoleStudent)
	if !rbac.CanAccess(student, "exam", "take") {
		t.Fatalf("expected exam:take to be granted")
	}
	if rbac.CanAccess(student, "exam", "grade") {
		t.Fatalf("expected exam:grade to be denied")
	}
}

func TestPermissionsForSorted(t *testing.T) {
	perms := rbac.PermissionsFor(shared.RoleStudent)
	if len(perms) != 2 || perms[0] != shared.PermCourseView || perms[1] != shared.PermExamTake {
		t.Fatalf("unexpected student permissions: %v", perms)
	}

	all := rbac.PermissionsFor(shared.RoleSuperAdmin)
	if len(all) != len(shared.AllPermissions()) {
		t.Fatalf("super admin should list the full catalog, got %d", len(all))
	}
}
