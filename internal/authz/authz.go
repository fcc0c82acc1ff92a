// Package authz decides which roles may perform which actions.
package authz

import (
	"errors"

	"go-inventory-api/internal/model"
)

var (
	ErrUnauthenticated = errors.New("authentication credentials were not provided or are invalid")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
)

type Permission string

const (
	PermRead               Permission = "read"
	PermCatalogWrite       Permission = "catalog:write"
	PermPurchaseOrderWrite Permission = "purchase_order:write"
	PermSalesOrderCreate   Permission = "sales_order:create"
	PermAuditRead          Permission = "audit:read"
	PermUserAdmin          Permission = "user:admin"
)

// policy maps each permission to the lowest role that holds it
var policy = map[Permission]model.Role{
	PermRead:               model.RoleStaff,
	PermCatalogWrite:       model.RoleManager,
	PermPurchaseOrderWrite: model.RoleManager,
	PermSalesOrderCreate:   model.RoleStaff,
	PermAuditRead:          model.RoleManager,
	PermUserAdmin:          model.RoleAdmin,
}

// Principal is the authenticated caller. A nil Principal is anonymous.
type Principal struct {
	User *model.User
}

// Check returns nil when p may use perm
func Check(p *Principal, perm Permission) error {
	if p == nil || p.User == nil || !p.User.IsActive {
		return ErrUnauthenticated
	}
	min, ok := policy[perm]
	if !ok {
		return ErrForbidden
	}
	if !p.User.Role.AtLeast(min) {
		return ErrForbidden
	}
	return nil
}

// MinimumRole reports the lowest role holding perm
func MinimumRole(perm Permission) (model.Role, bool) {
	r, ok := policy[perm]
	return r, ok
}
