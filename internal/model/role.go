package model

// UserRole is the closed set of roles a user can hold within a tenant.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RolePharmacist UserRole = "pharmacist"
	RoleCashier    UserRole = "cashier"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RolePharmacist, RoleCashier:
		return true
	}
	return false
}

// CanAutoProvisionStoreAccess reports whether a user with this role may be
// granted access to a store of their tenant on first switch, without an
// explicit assignment.
func (r UserRole) CanAutoProvisionStoreAccess() bool {
	return r == RoleAdmin || r == RoleManager
}
