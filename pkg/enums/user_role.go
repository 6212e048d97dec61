package enums

import "fmt"

// UserRole identifies the kind of account interacting with the platform.
type UserRole string

const (
	UserRoleBuyer      UserRole = "buyer"
	UserRoleWholesaler UserRole = "wholesaler"
	UserRoleFarmer     UserRole = "farmer"
	UserRoleOperator   UserRole = "operator"
)

var validUserRoles = []UserRole{
	UserRoleBuyer,
	UserRoleWholesaler,
	UserRoleFarmer,
	UserRoleOperator,
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

// IsSupplier reports whether the role can own products and inventory lots.
func (u UserRole) IsSupplier() bool {
	return u == UserRoleWholesaler || u == UserRoleFarmer
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
