package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/internal/db"
	"github.com/supermart/supermart-backend/pkg/util"
)

type userServiceFixture struct {
	users      UserService
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	admin      *model.User
	superAdmin *model.User
	manager    *model.User
}

func setupUserServiceTest(t *testing.T) *userServiceFixture {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	tokenRepo := repository.NewTokenRepository(testDB)

	f := &userServiceFixture{
		users:     NewUserService(userRepo, tokenRepo, util.NewBcryptHasher()),
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
	f.admin = f.seedUser(t, model.RoleAdmin)
	f.superAdmin = f.seedUser(t, model.RoleSuperAdmin)
	f.manager = f.seedUser(t, model.RoleManager)
	return f
}

func (f *userServiceFixture) seedUser(t *testing.T, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		ID:           uuid.New(),
		Email:        uuid.New().String() + "@example.com",
		Phone:        "010" + uuid.New().String()[:8],
		PasswordHash: "irrelevant",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, f.userRepo.Create(user))
	return user
}

func TestUserService_List(t *testing.T) {
	f := setupUserServiceTest(t)

	t.Run("Admin lists everyone", func(t *testing.T) {
		users, total, err := f.users.List(f.admin, repository.UserFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, users, 3)
	})

	t.Run("Role filter", func(t *testing.T) {
		role := model.RoleManager
		_, total, err := f.users.List(f.admin, repository.UserFilter{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("Manager may list", func(t *testing.T) {
		_, total, err := f.users.List(f.manager, repository.UserFilter{})
		require.NoError(t, err)
		assert.NotZero(t, total)
	})

	t.Run("Cashier denied", func(t *testing.T) {
		cashier := f.seedUser(t, model.RoleCashier)
		_, _, err := f.users.List(cashier, repository.UserFilter{})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestUserService_Create(t *testing.T) {
	f := setupUserServiceTest(t)

	input := CreateUserInput{
		Email:     "cashier@example.com",
		Phone:     "01099998888",
		Password:  "password123",
		FirstName: "New",
		LastName:  "Cashier",
		Role:      model.RoleCashier,
	}

	t.Run("Admin creates staff", func(t *testing.T) {
		user, err := f.users.Create(f.admin, input)
		require.NoError(t, err)
		assert.Equal(t, model.RoleCashier, user.Role)
		assert.True(t, user.IsActive)
	})

	t.Run("Admin cannot mint another admin", func(t *testing.T) {
		elevated := input
		elevated.Email = "admin2@example.com"
		elevated.Phone = "01088887777"
		elevated.Role = model.RoleAdmin
		_, err := f.users.Create(f.admin, elevated)
		assert.ErrorIs(t, err, ErrRoleNotAllowed)
	})

	t.Run("Super admin can", func(t *testing.T) {
		elevated := input
		elevated.Email = "admin2@example.com"
		elevated.Phone = "01088887777"
		elevated.Role = model.RoleAdmin
		_, err := f.users.Create(f.superAdmin, elevated)
		assert.NoError(t, err)
	})

	t.Run("Unknown role rejected", func(t *testing.T) {
		bad := input
		bad.Email = "odd@example.com"
		bad.Phone = "01077776666"
		bad.Role = model.UserRole("auditor")
		_, err := f.users.Create(f.admin, bad)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("Manager denied", func(t *testing.T) {
		_, err := f.users.Create(f.manager, input)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestUserService_Update(t *testing.T) {
	f := setupUserServiceTest(t)
	cashier := f.seedUser(t, model.RoleCashier)

	t.Run("Admin promotes cashier to manager", func(t *testing.T) {
		role := model.RoleManager
		updated, err := f.users.Update(f.admin, cashier.ID, UpdateUserInput{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, model.RoleManager, updated.Role)
	})

	t.Run("Admin cannot promote to admin", func(t *testing.T) {
		role := model.RoleAdmin
		_, err := f.users.Update(f.admin, cashier.ID, UpdateUserInput{Role: &role})
		assert.ErrorIs(t, err, ErrRoleNotAllowed)
	})

	t.Run("Admin cannot touch another admin", func(t *testing.T) {
		name := "Renamed"
		_, err := f.users.Update(f.admin, f.superAdmin.ID, UpdateUserInput{FirstName: &name})
		assert.ErrorIs(t, err, ErrRoleNotAllowed)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := f.users.Update(f.admin, uuid.New(), UpdateUserInput{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_SetActive(t *testing.T) {
	f := setupUserServiceTest(t)
	cashier := f.seedUser(t, model.RoleCashier)

	for i := 0; i < 2; i++ {
		require.NoError(t, f.tokenRepo.Create(&model.RefreshToken{
			JTI:       uuid.New().String(),
			UserID:    cashier.ID,
			ExpiresAt: time.Now().Add(time.Hour),
		}))
	}

	t.Run("Deactivation kills live sessions", func(t *testing.T) {
		updated, err := f.users.SetActive(f.admin, cashier.ID, false)
		require.NoError(t, err)
		assert.False(t, updated.IsActive)

		// Nothing left for a second sweep to revoke.
		affected, err := f.tokenRepo.RevokeAllForUser(cashier.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)
	})

	t.Run("Reactivation", func(t *testing.T) {
		updated, err := f.users.SetActive(f.admin, cashier.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.IsActive)
	})

	t.Run("Manager denied", func(t *testing.T) {
		_, err := f.users.SetActive(f.manager, cashier.ID, false)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
