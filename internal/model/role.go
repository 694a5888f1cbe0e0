package model

import "fmt"

// Role is the closed set of operator roles accepted at the API boundary.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// DefaultRole matches the column default in admin_users.
const DefaultRole = RoleStaff

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleStaff}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// ParseRole converts stored free text into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
