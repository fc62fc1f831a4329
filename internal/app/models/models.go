package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleAdmin   RoleType = "ADMIN"
)

// IsValid reports whether r is a known role.
func (r RoleType) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}
