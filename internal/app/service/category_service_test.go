package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/internal/db"
	"gorm.io/gorm"
)

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)
	return NewCategoryService(repository.NewCategoryRepository(testDB)), testDB
}

func createCategory(t *testing.T, svc CategoryService, name string, parentID *uint) *model.Category {
	t.Helper()
	category, err := svc.Create(CategoryInput{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return category
}

func TestCategoryService_Create_SlugSuffixes(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	first := createCategory(t, svc, "Fresh Produce", nil)
	assert.Equal(t, "fresh-produce", first.Slug)

	// Same name again: deterministic numeric suffixes, starting at -2.
	second := createCategory(t, svc, "Fresh Produce", nil)
	assert.Equal(t, "fresh-produce-2", second.Slug)

	third := createCategory(t, svc, "Fresh Produce", nil)
	assert.Equal(t, "fresh-produce-3", third.Slug)
}

func TestCategoryService_Create_UnknownParent(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	missing := uint(999)
	_, err := svc.Create(CategoryInput{Name: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestCategoryService_Update(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	root := createCategory(t, svc, "Beverages", nil)
	child := createCategory(t, svc, "Juices", &root.ID)

	t.Run("Nil parent leaves the parent alone", func(t *testing.T) {
		updated, err := svc.Update(child.ID, CategoryInput{Description: "Cold-pressed and boxed"})
		require.NoError(t, err)
		require.NotNil(t, updated.ParentID)
		assert.Equal(t, root.ID, *updated.ParentID)
	})

	t.Run("ClearParent moves to the root", func(t *testing.T) {
		updated, err := svc.Update(child.ID, CategoryInput{ClearParent: true})
		require.NoError(t, err)
		assert.Nil(t, updated.ParentID)

		// Put it back for the tests below.
		_, err = svc.Update(child.ID, CategoryInput{ParentID: &root.ID})
		require.NoError(t, err)
	})

	t.Run("Renaming reslugs", func(t *testing.T) {
		updated, err := svc.Update(child.ID, CategoryInput{Name: "Fruit Juices"})
		require.NoError(t, err)
		assert.Equal(t, "fruit-juices", updated.Slug)
	})

	t.Run("Unknown category", func(t *testing.T) {
		_, err := svc.Update(999, CategoryInput{Name: "Ghost"})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestCategoryService_Update_CycleGuard(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	// a -> b -> c
	a := createCategory(t, svc, "A", nil)
	b := createCategory(t, svc, "B", &a.ID)
	c := createCategory(t, svc, "C", &b.ID)

	t.Run("Self parent", func(t *testing.T) {
		_, err := svc.Update(a.ID, CategoryInput{ParentID: &a.ID})
		assert.ErrorIs(t, err, ErrCategoryCycle)
	})

	t.Run("Direct child as parent", func(t *testing.T) {
		_, err := svc.Update(a.ID, CategoryInput{ParentID: &b.ID})
		assert.ErrorIs(t, err, ErrCategoryCycle)
	})

	t.Run("Deep descendant as parent", func(t *testing.T) {
		_, err := svc.Update(a.ID, CategoryInput{ParentID: &c.ID})
		assert.ErrorIs(t, err, ErrCategoryCycle)
	})

	t.Run("Sibling move is fine", func(t *testing.T) {
		_, err := svc.Update(c.ID, CategoryInput{ParentID: &a.ID})
		assert.NoError(t, err)
	})
}

func TestCategoryService_Descendants(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	root := createCategory(t, svc, "Root", nil)
	left := createCategory(t, svc, "Left", &root.ID)
	right := createCategory(t, svc, "Right", &root.ID)
	leaf := createCategory(t, svc, "Leaf", &left.ID)
	createCategory(t, svc, "Elsewhere", nil)

	ids, err := svc.Descendants(root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{root.ID, left.ID, right.ID, leaf.ID}, ids)

	t.Run("Leaf is its own subtree", func(t *testing.T) {
		ids, err := svc.Descendants(leaf.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{leaf.ID}, ids)
	})

	t.Run("Unknown root", func(t *testing.T) {
		_, err := svc.Descendants(999)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	svc, testDB := setupCategoryServiceTest(t)

	root := createCategory(t, svc, "Root", nil)
	child := createCategory(t, svc, "Child", &root.ID)
	leaf := createCategory(t, svc, "Leaf", &child.ID)

	product := &model.Product{
		Name:         "Apples",
		Slug:         "apples",
		SKU:          "SKU-APPLES",
		CategoryID:   leaf.ID,
		CostPrice:    1,
		SellingPrice: 2,
	}
	require.NoError(t, testDB.Create(product).Error)

	t.Run("Products deep in the subtree block deletion", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(root.ID), ErrCategoryInUse)
	})

	t.Run("Soft-deleted products do not block", func(t *testing.T) {
		require.NoError(t, testDB.Model(product).Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error)

		require.NoError(t, svc.Delete(root.ID))

		for _, id := range []uint{root.ID, child.ID, leaf.ID} {
			_, err := svc.GetByID(id)
			assert.ErrorIs(t, err, ErrCategoryNotFound)
		}
	})

	t.Run("Unknown category", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(999), ErrCategoryNotFound)
	})
}
