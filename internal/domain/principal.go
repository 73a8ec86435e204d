package domain

import "strings"

// Role is the caller's role as seen by the catalog
type Role int

const (
	RoleShopper Role = iota
	RoleAdmin
)

// ParseRole maps a token role claim to a Role. Anything but "admin" is a shopper.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), "admin") {
		return RoleAdmin
	}
	return RoleShopper
}

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "shopper"
}

// Principal is the resolved caller. The zero value is an anonymous shopper.
type Principal struct {
	ID   int64
	Role Role
}

// Anonymous is the principal used when no identity is present
var Anonymous = Principal{}

// Authenticated reports whether the principal carries an identity
func (p Principal) Authenticated() bool {
	return p.ID > 0
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
