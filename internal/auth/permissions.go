// Package auth defines the typed permission model. Handlers never
// compare role strings directly; they declare a Permission and the
// middleware evaluates it against the caller's role.
package auth

import "farmconnect/internal/domain"

// Permission names a single guarded operation.
type Permission string

const (
	PermProductCreate    Permission = "products:create"
	PermProductModerate  Permission = "products:moderate"
	PermOrderCreate      Permission = "orders:create"
	PermOrderReadOwn     Permission = "orders:read-own"
	PermFarmProfileWrite Permission = "farm-profile:write"
	PermPlatformStats    Permission = "platform:stats"
)

var rolePermissions = map[domain.Role]map[Permission]bool{
	domain.RoleBuyer: {
		PermOrderCreate:  true,
		PermOrderReadOwn: true,
	},
	domain.RoleFarmer: {
		PermProductCreate:    true,
		PermOrderCreate:      true,
		PermOrderReadOwn:     true,
		PermFarmProfileWrite: true,
	},
	domain.RoleAdmin: {
		PermProductModerate: true,
		PermPlatformStats:   true,
		PermOrderReadOwn:    true,
	},
}

// Can reports whether the given role holds the permission. Unknown
// roles hold nothing.
func Can(role domain.Role, p Permission) bool {
	return rolePermissions[role][p]
}
