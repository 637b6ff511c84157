package model

import "strings"

// Role is an account's permission tier.  GUEST is never stored; it
// is the implied role of a request without a session.
type Role string

const (
	RoleGuest     Role = "GUEST"
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole normalizes a stored role string.  Anything unrecognized
// degrades to USER so a bad row can never grant extra privileges.
func ParseRole(s string) Role {
	if r, ok := ParseRoleStrict(s); ok {
		return r
	}
	return RoleUser
}

// ParseRoleStrict parses a role string without the USER fallback,
// for caller-supplied input where a typo must be rejected rather
// than coerced.  Legacy spellings from earlier data ("modder",
// "administration") map onto the current names.
func ParseRoleStrict(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "USER":
		return RoleUser, true
	case "MODERATOR", "MODDER":
		return RoleModerator, true
	case "ADMIN", "ADMINISTRATION":
		return RoleAdmin, true
	case "GUEST":
		return RoleGuest, true
	default:
		return "", false
	}
}

// Valid reports whether r is a storable role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}
