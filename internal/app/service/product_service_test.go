package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/internal/db"
)

type productServiceFixture struct {
	products   ProductService
	categories CategoryService
	brands     BrandService
	categoryID uint
}

func setupProductServiceTest(t *testing.T) *productServiceFixture {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	categoryRepo := repository.NewCategoryRepository(testDB)
	brandRepo := repository.NewBrandRepository(testDB)
	categoryService := NewCategoryService(categoryRepo)

	productService := NewProductService(
		repository.NewProductRepository(testDB),
		repository.NewProductVariantRepository(testDB),
		repository.NewProductImageRepository(testDB),
		categoryRepo,
		brandRepo,
		categoryService,
	)

	category, err := categoryService.Create(CategoryInput{Name: "Groceries"})
	require.NoError(t, err)

	return &productServiceFixture{
		products:   productService,
		categories: categoryService,
		brands:     NewBrandService(brandRepo),
		categoryID: category.ID,
	}
}

func (f *productServiceFixture) createProduct(t *testing.T, n int, mutate func(*ProductInput)) *model.Product {
	t.Helper()
	input := ProductInput{
		Name:          fmt.Sprintf("Product %d", n),
		SKU:           fmt.Sprintf("SKU-%04d", n),
		CategoryID:    f.categoryID,
		CostPrice:     50,
		SellingPrice:  100,
		StockQuantity: 20,
	}
	if mutate != nil {
		mutate(&input)
	}
	product, err := f.products.Create(input)
	require.NoError(t, err)
	return product
}

func TestProductService_Create(t *testing.T) {
	f := setupProductServiceTest(t)

	product := f.createProduct(t, 1, nil)
	assert.Equal(t, "product-1", product.Slug)
	assert.Equal(t, 10, product.LowStockThreshold)
	assert.True(t, product.TrackInventory)
	assert.True(t, product.IsActive)

	t.Run("Duplicate SKU", func(t *testing.T) {
		_, err := f.products.Create(ProductInput{
			Name:         "Other",
			SKU:          "SKU-0001",
			CategoryID:   f.categoryID,
			SellingPrice: 10,
		})
		assert.ErrorIs(t, err, ErrSKUExists)
	})

	t.Run("Duplicate name gets suffixed slug", func(t *testing.T) {
		dup, err := f.products.Create(ProductInput{
			Name:         "Product 1",
			SKU:          "SKU-9999",
			CategoryID:   f.categoryID,
			SellingPrice: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, "product-1-2", dup.Slug)
	})

	t.Run("Unknown category", func(t *testing.T) {
		_, err := f.products.Create(ProductInput{Name: "X", SKU: "SKU-X", CategoryID: 999, SellingPrice: 10})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("Unknown brand", func(t *testing.T) {
		missing := uint(999)
		_, err := f.products.Create(ProductInput{Name: "X", SKU: "SKU-X", CategoryID: f.categoryID, BrandID: &missing, SellingPrice: 10})
		assert.ErrorIs(t, err, ErrBrandNotFound)
	})

	t.Run("Negative stock", func(t *testing.T) {
		_, err := f.products.Create(ProductInput{Name: "X", SKU: "SKU-X", CategoryID: f.categoryID, SellingPrice: 10, StockQuantity: -1})
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})
}

func TestProductService_Pricing(t *testing.T) {
	f := setupProductServiceTest(t)

	tests := []struct {
		name     string
		cost     float64
		selling  float64
		discount *float64
		wantErr  error
	}{
		{name: "Plain price", cost: 50, selling: 100},
		{name: "Valid discount", cost: 50, selling: 100, discount: ptrFloat(80)},
		{name: "Negative selling", cost: 50, selling: -1, wantErr: ErrInvalidPrice},
		{name: "Negative cost", cost: -1, selling: 100, wantErr: ErrInvalidPrice},
		{name: "Negative discount", cost: 50, selling: 100, discount: ptrFloat(-5), wantErr: ErrInvalidPrice},
		{name: "Discount equals selling", cost: 50, selling: 100, discount: ptrFloat(100), wantErr: ErrDiscountTooHigh},
		{name: "Discount above selling", cost: 50, selling: 999, discount: ptrFloat(1000), wantErr: ErrDiscountTooHigh},
		{name: "Below cost is allowed", cost: 100, selling: 50},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.Create(ProductInput{
				Name:          fmt.Sprintf("Priced %d", i),
				SKU:           fmt.Sprintf("SKU-P%03d", i),
				CategoryID:    f.categoryID,
				CostPrice:     tt.cost,
				SellingPrice:  tt.selling,
				DiscountPrice: tt.discount,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func ptrFloat(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }

func TestProductService_Update_PricingMergesExisting(t *testing.T) {
	f := setupProductServiceTest(t)
	product := f.createProduct(t, 1, nil)

	// A discount against the current selling price of 100.
	_, err := f.products.Update(product.ID, ProductInput{DiscountPrice: ptrFloat(150)})
	assert.ErrorIs(t, err, ErrDiscountTooHigh)

	// Raising the selling price in the same update legitimizes it.
	updated, err := f.products.Update(product.ID, ProductInput{SellingPrice: 200, DiscountPrice: ptrFloat(150)})
	require.NoError(t, err)
	assert.Equal(t, float64(200), updated.SellingPrice)
	require.NotNil(t, updated.DiscountPrice)
	assert.Equal(t, float64(150), *updated.DiscountPrice)

	// Lowering the selling price below the stored discount is rejected.
	_, err = f.products.Update(product.ID, ProductInput{SellingPrice: 120})
	assert.ErrorIs(t, err, ErrDiscountTooHigh)
}

func TestProductService_Update_ClearDiscount(t *testing.T) {
	f := setupProductServiceTest(t)
	product := f.createProduct(t, 1, func(in *ProductInput) {
		in.SellingPrice = 200
		in.DiscountPrice = ptrFloat(150)
	})

	// A nil DiscountPrice leaves the stored discount alone.
	updated, err := f.products.Update(product.ID, ProductInput{Description: "restocked"})
	require.NoError(t, err)
	require.NotNil(t, updated.DiscountPrice)

	updated, err = f.products.Update(product.ID, ProductInput{ClearDiscount: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DiscountPrice)
	assert.Equal(t, float64(200), updated.FinalPrice())

	// With the discount gone the selling price can drop freely.
	updated, err = f.products.Update(product.ID, ProductInput{SellingPrice: 120})
	require.NoError(t, err)
	assert.Equal(t, float64(120), updated.SellingPrice)
}

func TestProductService_SoftDelete(t *testing.T) {
	f := setupProductServiceTest(t)
	product := f.createProduct(t, 1, nil)

	require.NoError(t, f.products.SoftDelete(product.ID))

	_, err := f.products.GetByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	t.Run("Deleting again is a no-op", func(t *testing.T) {
		assert.NoError(t, f.products.SoftDelete(product.ID))
	})

	t.Run("Unknown product", func(t *testing.T) {
		assert.ErrorIs(t, f.products.SoftDelete(999), ErrProductNotFound)
	})
}

func TestProductService_AdjustStock(t *testing.T) {
	f := setupProductServiceTest(t)
	product := f.createProduct(t, 1, func(in *ProductInput) { in.StockQuantity = 10 })

	updated, err := f.products.AdjustStock(product.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.StockQuantity)

	updated, err = f.products.AdjustStock(product.ID, 14)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.StockQuantity)

	t.Run("Past zero refused", func(t *testing.T) {
		_, err := f.products.AdjustStock(product.ID, -21)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		unchanged, err := f.products.GetByID(product.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, unchanged.StockQuantity)
	})

	t.Run("Unknown product", func(t *testing.T) {
		_, err := f.products.AdjustStock(999, -1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestProductService_ListByCategory_IncludesSubtree(t *testing.T) {
	f := setupProductServiceTest(t)

	child, err := f.categories.Create(CategoryInput{Name: "Snacks", ParentID: &f.categoryID})
	require.NoError(t, err)
	grandchild, err := f.categories.Create(CategoryInput{Name: "Chips", ParentID: &child.ID})
	require.NoError(t, err)

	f.createProduct(t, 1, nil)
	f.createProduct(t, 2, func(in *ProductInput) { in.CategoryID = child.ID })
	f.createProduct(t, 3, func(in *ProductInput) { in.CategoryID = grandchild.ID })

	_, total, err := f.products.ListByCategory(f.categoryID, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, total, err = f.products.ListByCategory(child.ID, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	t.Run("Unknown category", func(t *testing.T) {
		_, _, err := f.products.ListByCategory(999, repository.ProductFilter{})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestProductService_Variants(t *testing.T) {
	f := setupProductServiceTest(t)
	product := f.createProduct(t, 1, nil)

	variant, err := f.products.AddVariant(product.ID, VariantInput{Name: "1kg", SKU: "SKU-0001-1KG", StockQuantity: ptrInt(5)})
	require.NoError(t, err)
	assert.True(t, variant.IsActive)

	t.Run("Update", func(t *testing.T) {
		updated, err := f.products.UpdateVariant(product.ID, variant.ID, VariantInput{Name: "2kg", PriceAdjustment: ptrFloat(3.5), StockQuantity: ptrInt(7)})
		require.NoError(t, err)
		assert.Equal(t, "2kg", updated.Name)
		assert.Equal(t, 3.5, updated.PriceAdjustment)
	})

	t.Run("Partial update keeps omitted fields", func(t *testing.T) {
		updated, err := f.products.UpdateVariant(product.ID, variant.ID, VariantInput{Name: "3kg"})
		require.NoError(t, err)
		assert.Equal(t, "3kg", updated.Name)
		assert.Equal(t, 3.5, updated.PriceAdjustment)
		assert.Equal(t, 7, updated.StockQuantity)
	})

	t.Run("Negative stock rejected", func(t *testing.T) {
		_, err := f.products.UpdateVariant(product.ID, variant.ID, VariantInput{StockQuantity: ptrInt(-1)})
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("Variant of another product is invisible", func(t *testing.T) {
		other := f.createProduct(t, 2, nil)
		_, err := f.products.UpdateVariant(other.ID, variant.ID, VariantInput{Name: "X"})
		assert.ErrorIs(t, err, ErrVariantNotFound)

		assert.ErrorIs(t, f.products.DeleteVariant(other.ID, variant.ID), ErrVariantNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, f.products.DeleteVariant(product.ID, variant.ID))
		variants, err := f.products.ListVariants(product.ID)
		require.NoError(t, err)
		assert.Empty(t, variants)
	})

	t.Run("Unknown product", func(t *testing.T) {
		_, err := f.products.AddVariant(999, VariantInput{Name: "X"})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestProductService_Images(t *testing.T) {
	f := setupProductServiceTest(t)
	product := f.createProduct(t, 1, nil)

	first, err := f.products.AddImage(product.ID, ImageInput{ImageURL: "https://cdn.example.com/1.jpg"})
	require.NoError(t, err)
	// The first image is primary even when not asked to be.
	assert.True(t, first.IsPrimary)

	second, err := f.products.AddImage(product.ID, ImageInput{ImageURL: "https://cdn.example.com/2.jpg"})
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)

	t.Run("SetPrimary swaps", func(t *testing.T) {
		promoted, err := f.products.SetPrimaryImage(product.ID, second.ID)
		require.NoError(t, err)
		assert.True(t, promoted.IsPrimary)

		images, err := f.products.ListImages(product.ID)
		require.NoError(t, err)
		var primaries int
		for _, image := range images {
			if image.IsPrimary {
				primaries++
			}
		}
		assert.Equal(t, 1, primaries)
	})

	t.Run("Image of another product cannot be promoted", func(t *testing.T) {
		other := f.createProduct(t, 2, nil)
		_, err := f.products.SetPrimaryImage(other.ID, second.ID)
		assert.ErrorIs(t, err, ErrImageNotFound)
	})

	t.Run("Deleting the primary promotes the next", func(t *testing.T) {
		require.NoError(t, f.products.DeleteImage(product.ID, second.ID))

		images, err := f.products.ListImages(product.ID)
		require.NoError(t, err)
		require.Len(t, images, 1)
		assert.Equal(t, first.ID, images[0].ID)
		assert.True(t, images[0].IsPrimary)
	})

	t.Run("Unknown image", func(t *testing.T) {
		assert.ErrorIs(t, f.products.DeleteImage(product.ID, 999), ErrImageNotFound)
	})
}
