// Package authz decides whether a user may perform an action. Decisions are
// pure functions of the user record and the target resource; no storage or
// transport concerns leak in. Unknown roles and unknown actions deny.
package authz

import (
	"github.com/google/uuid"
	"github.com/supermart/supermart-backend/internal/app/model"
)

type Action string

const (
	ActionUserList   Action = "user:list"
	ActionUserView   Action = "user:view"
	ActionUserManage Action = "user:manage"

	ActionProfileView   Action = "profile:view"
	ActionProfileUpdate Action = "profile:update"

	ActionCategoryWrite Action = "category:write"
	ActionBrandWrite    Action = "brand:write"
	ActionProductWrite  Action = "product:write"
	ActionProductDelete Action = "product:delete"
	ActionStockAdjust   Action = "stock:adjust"
	ActionStockView     Action = "stock:view"
	ActionCatalogExport Action = "catalog:export"
	ActionMediaUpload   Action = "media:upload"
)

// Owned is implemented by resources that belong to a single user. Ownership
// grants view/update on the owner's own records regardless of role.
type Owned interface {
	OwnerID() uuid.UUID
}

// ownableActions are the actions ownership alone can grant.
var ownableActions = map[Action]bool{
	ActionUserView:      true,
	ActionProfileView:   true,
	ActionProfileUpdate: true,
}

// capabilities lists what each role may do without owning the target.
// super_admin is handled separately and is not in this table.
var capabilities = map[model.UserRole]map[Action]bool{
	model.RoleAdmin: {
		ActionUserList:      true,
		ActionUserView:      true,
		ActionUserManage:    true,
		ActionCategoryWrite: true,
		ActionBrandWrite:    true,
		ActionProductWrite:  true,
		ActionProductDelete: true,
		ActionStockAdjust:   true,
		ActionStockView:     true,
		ActionCatalogExport: true,
		ActionMediaUpload:   true,
	},
	model.RoleManager: {
		ActionUserList:      true,
		ActionUserView:      true,
		ActionCategoryWrite: true,
		ActionBrandWrite:    true,
		ActionProductWrite:  true,
		ActionStockAdjust:   true,
		ActionStockView:     true,
		ActionCatalogExport: true,
		ActionMediaUpload:   true,
	},
	model.RoleCashier: {
		ActionStockAdjust: true,
		ActionStockView:   true,
	},
	model.RoleDelivery: {
		ActionStockView: true,
	},
	model.RoleCustomer: {},
}

// Allowed reports whether the user may perform action on target. A nil
// target means the action has no resource scope (list/create endpoints).
// Inactive users are denied everything.
func Allowed(user *model.User, action Action, target interface{}) bool {
	if user == nil || !user.IsActive {
		return false
	}

	if user.Role == model.RoleSuperAdmin {
		return true
	}

	if grants, ok := capabilities[user.Role]; ok && grants[action] {
		return true
	}

	if owned, ok := target.(Owned); ok && ownableActions[action] {
		return owned.OwnerID() == user.ID
	}

	return false
}

// CanManageRole reports whether the actor may assign or modify accounts
// holding the given role. Only a super admin touches admin and super admin
// accounts; admins manage the rest.
func CanManageRole(actor *model.User, role model.UserRole) bool {
	if actor == nil || !actor.IsActive {
		return false
	}
	switch actor.Role {
	case model.RoleSuperAdmin:
		return true
	case model.RoleAdmin:
		return role != model.RoleSuperAdmin && role != model.RoleAdmin
	default:
		return false
	}
}
