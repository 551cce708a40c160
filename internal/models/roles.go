package models

import "strings"

// Role gates access to protected routes.
type Role string

const (
	RoleUser      Role = "user"
	RoleClubOwner Role = "club_owner"
	RoleAdmin     Role = "admin"
)

// ParseRole normalizes a role name and reports whether it is one of the known roles.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleUser, RoleClubOwner, RoleAdmin:
		return role, true
	}
	return "", false
}

// CanListClubs reports whether the role may submit club listings.
func (r Role) CanListClubs() bool {
	return r == RoleClubOwner || r == RoleAdmin
}
