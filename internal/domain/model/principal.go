package model

// Role is a coarse capability class attached to an authenticated caller.
type Role string

const (
	RoleCitizen      Role = "citizen"
	RoleSupplier     Role = "supplier"
	RoleMunicipality Role = "municipality"
	RoleAdmin        Role = "admin"
)

// Principal is the authenticated caller, passed explicitly through every
// operation. SubjectID is the supplier/citizen/operator ID depending on role.
type Principal struct {
	SubjectID string
	TenantID  string
	Roles     []Role
}

// Allowed reports whether the principal carries at least one of the required
// roles. Admin always passes. An empty required set denies.
func (p Principal) Allowed(required ...Role) bool {
	for _, have := range p.Roles {
		if have == RoleAdmin {
			return true
		}
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
