package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/db"
	"gorm.io/gorm"
)

func setupCategoryTest(t *testing.T) (*gorm.DB, CategoryRepository) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)
	return testDB, NewCategoryRepository(testDB)
}

func seedCategory(t *testing.T, repo CategoryRepository, name, slug string, parentID *uint, active bool) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Slug: slug, ParentID: parentID, IsActive: active}
	require.NoError(t, repo.Create(category))
	return category
}

func TestCategoryRepository_Tree(t *testing.T) {
	_, repo := setupCategoryTest(t)

	root := seedCategory(t, repo, "Root", "root", nil, true)
	child := seedCategory(t, repo, "Child", "child", &root.ID, true)
	seedCategory(t, repo, "Hidden", "hidden", &root.ID, false)
	seedCategory(t, repo, "Other Root", "other-root", nil, true)

	t.Run("FindByID preloads children", func(t *testing.T) {
		loaded, err := repo.FindByID(root.ID)
		require.NoError(t, err)
		assert.Len(t, loaded.Children, 2)
	})

	t.Run("Roots", func(t *testing.T) {
		roots, err := repo.FindRoots(false)
		require.NoError(t, err)
		assert.Len(t, roots, 2)
	})

	t.Run("Children with active filter", func(t *testing.T) {
		all, err := repo.FindChildren(root.ID, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		active, err := repo.FindChildren(root.ID, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, child.ID, active[0].ID)
	})

	t.Run("FindBySlug", func(t *testing.T) {
		loaded, err := repo.FindBySlug("child")
		require.NoError(t, err)
		assert.Equal(t, child.ID, loaded.ID)
	})

	t.Run("SlugExists", func(t *testing.T) {
		exists, err := repo.SlugExists("root")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.SlugExists("free-slug")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCategoryRepository_DeleteByIDs(t *testing.T) {
	_, repo := setupCategoryTest(t)

	root := seedCategory(t, repo, "Root", "root", nil, true)
	child := seedCategory(t, repo, "Child", "child", &root.ID, true)
	survivor := seedCategory(t, repo, "Survivor", "survivor", nil, true)

	require.NoError(t, repo.DeleteByIDs([]uint{root.ID, child.ID}))

	_, err := repo.FindByID(root.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByID(child.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByID(survivor.ID)
	assert.NoError(t, err)
}

func TestCategoryRepository_CountProductsInCategories(t *testing.T) {
	testDB, repo := setupCategoryTest(t)

	root := seedCategory(t, repo, "Root", "root", nil, true)
	child := seedCategory(t, repo, "Child", "child", &root.ID, true)

	live := &model.Product{Name: "Live", Slug: "live", SKU: "SKU-LIVE", CategoryID: child.ID, SellingPrice: 1}
	require.NoError(t, testDB.Create(live).Error)

	gone := &model.Product{Name: "Gone", Slug: "gone", SKU: "SKU-GONE", CategoryID: child.ID, SellingPrice: 1, IsDeleted: true}
	require.NoError(t, testDB.Create(gone).Error)

	count, err := repo.CountProductsInCategories([]uint{root.ID, child.ID})
	require.NoError(t, err)
	// Soft-deleted products do not hold a category hostage.
	assert.Equal(t, int64(1), count)

	count, err = repo.CountProductsInCategories([]uint{root.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
