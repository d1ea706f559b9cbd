package identity

import "strings"

// Role is the access class of a user
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleReadOnly      Role = "READ_ONLY"
	RoleProvider      Role = "PROVIDER"
	RoleSociety       Role = "SOCIETY"
)

// AllRoles returns every role
func AllRoles() []Role {
	return []Role{RoleAdministrator, RoleReadOnly, RoleProvider, RoleSociety}
}

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdministrator, RoleReadOnly, RoleProvider, RoleSociety:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// SeesEverything reports whether the role reads unscoped data
func (r Role) SeesEverything() bool {
	return r == RoleAdministrator || r == RoleReadOnly
}

// CanWrite reports whether the role may submit or change documents
func (r Role) CanWrite() bool {
	return r != RoleReadOnly
}

// RoleNames maps roles to the names carried in tokens and shown to users.
// Loaded from configuration; zero values fall back to the role constant.
type RoleNames struct {
	Administrator string
	ReadOnly      string
	Provider      string
	Society       string
}

// DefaultRoleNames returns the names used by the identity provider
func DefaultRoleNames() RoleNames {
	return RoleNames{
		Administrator: "Administrador",
		ReadOnly:      "Consulta",
		Provider:      "Proveedor",
		Society:       "Sociedad",
	}
}

// NameOf returns the external name of r
func (n RoleNames) NameOf(r Role) string {
	var name string
	switch r {
	case RoleAdministrator:
		name = n.Administrator
	case RoleReadOnly:
		name = n.ReadOnly
	case RoleProvider:
		name = n.Provider
	case RoleSociety:
		name = n.Society
	}
	if name == "" {
		return string(r)
	}
	return name
}

// Parse resolves an external name or a role constant, case-insensitively
func (n RoleNames) Parse(name string) (Role, bool) {
	name = strings.TrimSpace(name)
	for _, r := range AllRoles() {
		if strings.EqualFold(name, n.NameOf(r)) || strings.EqualFold(name, string(r)) {
			return r, true
		}
	}
	return "", false
}
