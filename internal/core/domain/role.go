package domain

// Role is the application-level role used for every authorization decision.
type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleMultiAdmin  Role = "MULTI_ADMIN"
	RoleSingleAdmin Role = "SINGLE_ADMIN"
	RoleOperator    Role = "OPERATOR"
)

// Raw values reported by the backend on login.
const (
	RawRoleAdmin    = "admin"
	RawRoleOperator = "operator"

	AdminSubtypeSingle = "single"
	AdminSubtypeMulti  = "multi"
)

// ResolveRole maps the backend role and admin subtype to an application role.
// Unrecognized input falls back to RoleSingleAdmin. No input produces
// RoleSuperAdmin: that role is assigned out of band by the backend.
func ResolveRole(rawRole, adminSubtype string) Role {
	switch rawRole {
	case RawRoleAdmin:
		if adminSubtype == AdminSubtypeMulti {
			return RoleMultiAdmin
		}
		return RoleSingleAdmin
	case RawRoleOperator:
		return RoleOperator
	default:
		return RoleSingleAdmin
	}
}

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleMultiAdmin, RoleSingleAdmin, RoleOperator:
		return true
	}
	return false
}
