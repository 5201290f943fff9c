package enums

import "fmt"

// UserRole identifies which marketplace role an authenticated user acts as.
type UserRole string

const (
	RoleCustomer  UserRole = "customer"
	RoleFarmer    UserRole = "farmer"
	RoleTransport UserRole = "transport"
	RoleAdmin     UserRole = "admin"
)

var validUserRoles = []UserRole{
	RoleCustomer,
	RoleFarmer,
	RoleTransport,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
