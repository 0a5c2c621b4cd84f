package auth

// Role partitions the application into its two user classes. Any value
// outside the closed set is treated as unrecognized, never fatal.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Roles returns the registered roles in registration order. The first entry
// is the fallback target when a redirect needs a role and none can be
// determined.
func Roles() []Role {
	return []Role{RoleStudent, RoleTeacher}
}

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher:
		return true
	default:
		return false
	}
}

// DefaultLanding returns the role's default landing area, used for
// role-aware redirects when a guard denies entry.
func (r Role) DefaultLanding() string {
	switch r {
	case RoleTeacher:
		return "/teacher/my-classes"
	default:
		return "/student/my-classes"
	}
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}
