package auth

// Role is the caller's authority level carried in the access token.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleOwner    Role = "owner"
)

// IsManager reports whether the role may act on other employees' data.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}

// Principal is the authenticated caller.
type Principal struct {
	EmployeeID string
	Role       Role
}

// FromClaims reads the principal from verified access-token claims.
func FromClaims(claims map[string]interface{}) (Principal, error) {
	if t, _ := claims["type"].(string); t != "access" {
		return Principal{}, ErrInvalidToken
	}
	employeeID, _ := claims["employee_id"].(string)
	if employeeID == "" {
		return Principal{}, ErrEmployeeIDRequired
	}
	role, _ := claims["role"].(string)
	switch Role(role) {
	case RoleEmployee, RoleManager, RoleOwner:
	default:
		return Principal{}, ErrInvalidToken
	}
	return Principal{EmployeeID: employeeID, Role: Role(role)}, nil
}
