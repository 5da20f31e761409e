package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/db"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) UserRepository {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)
	return NewUserRepository(testDB)
}

func seedUser(t *testing.T, repo UserRepository, n int, mutate func(*model.User)) *model.User {
	t.Helper()
	user := &model.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("user%d@example.com", n),
		Phone:        fmt.Sprintf("0101234%04d", n),
		PasswordHash: "irrelevant",
		FirstName:    fmt.Sprintf("First%d", n),
		LastName:     "User",
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, repo.Create(user))
	return user
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := setupUserTest(t)
	user := seedUser(t, repo, 1, nil)

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	byEmail, err := repo.FindByEmail(user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byPhone, err := repo.FindByPhone(user.Phone)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	t.Run("Unknown lookups", func(t *testing.T) {
		_, err := repo.FindByID(uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		_, err = repo.FindByEmail("nobody@example.com")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	repo := setupUserTest(t)
	user := seedUser(t, repo, 1, nil)

	t.Run("Duplicate email", func(t *testing.T) {
		dup := &model.User{
			ID:           uuid.New(),
			Email:        user.Email,
			Phone:        "01099990000",
			PasswordHash: "irrelevant",
		}
		assert.Error(t, repo.Create(dup))
	})

	t.Run("Duplicate phone", func(t *testing.T) {
		dup := &model.User{
			ID:           uuid.New(),
			Email:        "fresh@example.com",
			Phone:        user.Phone,
			PasswordHash: "irrelevant",
		}
		assert.Error(t, repo.Create(dup))
	})
}

func TestUserRepository_FindWithFilter(t *testing.T) {
	repo := setupUserTest(t)

	seedUser(t, repo, 1, func(u *model.User) { u.Role = model.RoleAdmin })
	seedUser(t, repo, 2, func(u *model.User) { u.Role = model.RoleCashier })
	seedUser(t, repo, 3, func(u *model.User) { u.IsActive = false })
	seedUser(t, repo, 4, func(u *model.User) { u.FirstName = "Unique" })

	t.Run("All", func(t *testing.T) {
		users, total, err := repo.FindWithFilter(UserFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, users, 4)
	})

	t.Run("By role", func(t *testing.T) {
		role := model.RoleCashier
		_, total, err := repo.FindWithFilter(UserFilter{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("Inactive only", func(t *testing.T) {
		active := false
		users, total, err := repo.FindWithFilter(UserFilter{IsActive: &active})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "user3@example.com", users[0].Email)
	})

	t.Run("Search by name", func(t *testing.T) {
		_, total, err := repo.FindWithFilter(UserFilter{Search: "Unique"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("Window", func(t *testing.T) {
		users, total, err := repo.FindWithFilter(UserFilter{Limit: 2, Offset: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, users, 1)
	})
}

func TestUserRepository_UpdateProfile_Upsert(t *testing.T) {
	repo := setupUserTest(t)
	user := seedUser(t, repo, 1, nil)

	require.NoError(t, repo.UpdateProfile(&model.UserProfile{
		UserID: user.ID,
		City:   "Springfield",
	}))

	loaded, err := repo.FindByIDWithProfile(user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, "Springfield", loaded.Profile.City)
	firstID := loaded.Profile.ID

	// A second write lands on the same row.
	require.NoError(t, repo.UpdateProfile(&model.UserProfile{
		UserID: user.ID,
		City:   "Shelbyville",
	}))

	loaded, err = repo.FindByIDWithProfile(user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, "Shelbyville", loaded.Profile.City)
	assert.Equal(t, firstID, loaded.Profile.ID)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := setupUserTest(t)
	user := seedUser(t, repo, 1, nil)

	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
