package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/supermart/supermart-backend/internal/app/model"
)

func activeUser(role model.UserRole) *model.User {
	return &model.User{ID: uuid.New(), Role: role, IsActive: true}
}

func TestAllowed_RoleCapabilities(t *testing.T) {
	tests := []struct {
		name   string
		role   model.UserRole
		action Action
		want   bool
	}{
		{name: "Super admin can do anything", role: model.RoleSuperAdmin, action: ActionUserManage, want: true},
		{name: "Admin manages users", role: model.RoleAdmin, action: ActionUserManage, want: true},
		{name: "Admin exports catalog", role: model.RoleAdmin, action: ActionCatalogExport, want: true},
		{name: "Manager writes products", role: model.RoleManager, action: ActionProductWrite, want: true},
		{name: "Manager lists users", role: model.RoleManager, action: ActionUserList, want: true},
		{name: "Manager views users", role: model.RoleManager, action: ActionUserView, want: true},
		{name: "Manager cannot manage users", role: model.RoleManager, action: ActionUserManage, want: false},
		{name: "Cashier cannot list users", role: model.RoleCashier, action: ActionUserList, want: false},
		{name: "Manager cannot delete products", role: model.RoleManager, action: ActionProductDelete, want: false},
		{name: "Cashier adjusts stock", role: model.RoleCashier, action: ActionStockAdjust, want: true},
		{name: "Cashier cannot write products", role: model.RoleCashier, action: ActionProductWrite, want: false},
		{name: "Delivery views stock", role: model.RoleDelivery, action: ActionStockView, want: true},
		{name: "Delivery cannot adjust stock", role: model.RoleDelivery, action: ActionStockAdjust, want: false},
		{name: "Customer has no catalog rights", role: model.RoleCustomer, action: ActionProductWrite, want: false},
		{name: "Unknown role denied", role: model.UserRole("auditor"), action: ActionStockView, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(activeUser(tt.role), tt.action, nil))
		})
	}
}

func TestAllowed_FailClosed(t *testing.T) {
	t.Run("Nil user denied", func(t *testing.T) {
		assert.False(t, Allowed(nil, ActionStockView, nil))
	})

	t.Run("Inactive user denied everything", func(t *testing.T) {
		user := activeUser(model.RoleAdmin)
		user.IsActive = false
		assert.False(t, Allowed(user, ActionUserManage, nil))
	})

	t.Run("Inactive super admin denied", func(t *testing.T) {
		user := activeUser(model.RoleSuperAdmin)
		user.IsActive = false
		assert.False(t, Allowed(user, ActionUserManage, nil))
	})

	t.Run("Unknown action denied for every role", func(t *testing.T) {
		assert.False(t, Allowed(activeUser(model.RoleAdmin), Action("catalog:destroy"), nil))
	})
}

func TestAllowed_Ownership(t *testing.T) {
	owner := activeUser(model.RoleCustomer)
	stranger := activeUser(model.RoleCustomer)
	profile := &model.UserProfile{UserID: owner.ID}

	t.Run("Owner may view own profile", func(t *testing.T) {
		assert.True(t, Allowed(owner, ActionProfileView, profile))
	})

	t.Run("Owner may update own profile", func(t *testing.T) {
		assert.True(t, Allowed(owner, ActionProfileUpdate, profile))
	})

	t.Run("Stranger denied", func(t *testing.T) {
		assert.False(t, Allowed(stranger, ActionProfileUpdate, profile))
	})

	t.Run("Ownership does not grant non-ownable actions", func(t *testing.T) {
		assert.False(t, Allowed(owner, ActionUserManage, owner))
	})

	t.Run("Admin sees any user without ownership", func(t *testing.T) {
		assert.True(t, Allowed(activeUser(model.RoleAdmin), ActionUserView, profile))
	})
}

func TestCanManageRole(t *testing.T) {
	superAdmin := activeUser(model.RoleSuperAdmin)
	admin := activeUser(model.RoleAdmin)
	manager := activeUser(model.RoleManager)

	assert.True(t, CanManageRole(superAdmin, model.RoleAdmin))
	assert.True(t, CanManageRole(superAdmin, model.RoleSuperAdmin))
	assert.True(t, CanManageRole(admin, model.RoleManager))
	assert.True(t, CanManageRole(admin, model.RoleCustomer))
	assert.False(t, CanManageRole(admin, model.RoleAdmin))
	assert.False(t, CanManageRole(admin, model.RoleSuperAdmin))
	assert.False(t, CanManageRole(manager, model.RoleCustomer))
	assert.False(t, CanManageRole(nil, model.RoleCustomer))
}
