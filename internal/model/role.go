package model

// Roles carried in API tokens.
const (
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleEditor: 2,
		RoleViewer: 1,
	}
	r, m := levels[role], levels[minimum]
	return r > 0 && m > 0 && r >= m
}

// ValidRole reports whether role is known.
func ValidRole(role string) bool {
	return role == RoleEditor || role == RoleViewer
}
