package shared

// Core platform permissions, shaped as resource:action tags.
const (
	PermCourseCreate  = "course:create"
	PermCourseEdit    = "course:edit"
	PermCourseDelete  = "course:delete"
	PermCourseView    = "course:view"
	PermCoursePublish = "course:publish"

	PermStudentManage = "student:manage"
	PermStudentView   = "student:view"

	PermExamCreate = "exam:create"
	PermExamEdit   = "exam:edit"
	PermExamDelete = "exam:delete"
	PermExamGrade  = "exam:grade"
	PermExamTake   = "exam:take"

	PermTenantManage = "tenant:manage"
	PermTenantView   = "tenant:view"

	PermUserManage = "user:manage"
	PermUserView   = "user:view"
)

// AllPermissions lists the full permission universe.
func AllPermissions() []string {
	return []string{
		PermCourseCreate,
		PermCourseEdit,
		PermCourseDelete,
		PermCourseView,
		PermCoursePublish,
		PermStudentManage,
		PermStudentView,
		PermExamCreate,
		PermExamEdit,
		PermExamDelete,
		PermExamGrade,
		PermExamTake,
		PermTenantManage,
		PermTenantView,
		PermUserManage,
		PermUserView,
	}
}
