package models

import "strings"

// Role is the access level carried by a user and by every token issued for them
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleClient     Role = "CLIENT"
	RoleTechnician Role = "TECHNICIAN"
)

var roleAliases = map[string]Role{
	"ADMIN":      RoleAdmin,
	"CLIENT":     RoleClient,
	"CLIENTE":    RoleClient,
	"TECHNICIAN": RoleTechnician,
	"TECNICO":    RoleTechnician,
}

// ParseRole normalizes a role name. The Portuguese names used by older
// clients are accepted as aliases.
func ParseRole(s string) (Role, bool) {
	r, ok := roleAliases[strings.ToUpper(strings.TrimSpace(s))]
	return r, ok
}

// Valid reports whether r is one of the canonical roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleTechnician:
		return true
	}
	return false
}
