// Package identity holds the signed-in actor model and the permission
// evaluator. It is the single source of truth for role and capability
// checks; handlers and the navigation composer never re-derive role
// comparisons themselves.
package identity

// Role is one of the fixed role names assigned by the HR backend.
type Role string

const (
	// RoleSuperAdmin bypasses every capability check.
	RoleSuperAdmin Role = "SuperAdmin"
	// RoleAdmin bypasses every capability check.
	RoleAdmin Role = "Admin"
	// RoleHR manages people-facing operations.
	RoleHR Role = "HR"
	// RoleManager leads a department.
	RoleManager Role = "Manager"
	// RoleTeamLead leads a team inside a department.
	RoleTeamLead Role = "TeamLead"
	// RoleEmployee is the default role.
	RoleEmployee Role = "Employee"
)

// roles is the closed set of known roles.
var roles = map[Role]struct{}{
	RoleSuperAdmin: {},
	RoleAdmin:      {},
	RoleHR:         {},
	RoleManager:    {},
	RoleTeamLead:   {},
	RoleEmployee:   {},
}

// ParseRole maps a backend role string onto the closed role set.
// Unknown strings degrade to the empty Role, never an error.
func ParseRole(s string) Role {
	if _, ok := roles[Role(s)]; ok {
		return Role(s)
	}

	return Role("")
}

// IsAdminLike reports whether the role bypasses capability checks.
func (r Role) IsAdminLike() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsHRLike reports whether the role reaches the admin-style dashboard set.
// HR itself is handled before this set when selecting a dashboard variant.
func (r Role) IsHRLike() bool {
	return r == RoleHR || r == RoleManager || r.IsAdminLike()
}

// SalaryVisible reports whether the role's portal surface includes the
// My Salary section.
func (r Role) SalaryVisible() bool {
	return r == RoleEmployee || r == RoleTeamLead
}

// Identity represents the authenticated actor resolved from the HR backend.
// The session store owns the instance; a permissions_updated event replaces
// it wholesale, there is no field-level mutation from the outside.
type Identity struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	Permissions  []Capability `json:"permissions"`
	Active       bool         `json:"active"`
	ProfileImage string       `json:"profileImage"`
	Salary       float64      `json:"salary"`
}

// Redacted returns the identity as it may be serialized to the portal:
// the salary is zeroed for every role whose surface never shows it. The
// receiver is left untouched.
func (id *Identity) Redacted() *Identity {
	if id == nil || id.Role.SalaryVisible() {
		return id
	}

	masked := *id
	masked.Salary = 0

	return &masked
}

// HasCapability reports whether the identity holds the named capability.
// SuperAdmin and Admin roles evaluate true for every capability in the
// catalogue regardless of the permission set. Unknown capabilities and nil
// identities evaluate false, never an error.
func HasCapability(id *Identity, c Capability) bool {
	if id == nil || !c.Valid() {
		return false
	}

	if id.Role.IsAdminLike() {
		return true
	}

	for _, p := range id.Permissions {
		if p == c {
			return true
		}
	}

	return false
}
