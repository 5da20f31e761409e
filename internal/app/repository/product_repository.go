package repository

import (
	"time"

	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortName      ProductSort = "name"
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortStock     ProductSort = "stock"
)

type ProductFilter struct {
	CategoryIDs    []uint
	BrandID        *uint
	IsFeatured     *bool
	IsNew          *bool
	IsActive       *bool
	LowStock       bool
	OutOfStock     bool
	MinPrice       *float64
	MaxPrice       *float64
	Search         string
	IncludeDeleted bool
	SortBy         ProductSort
	SortAscending  bool
	Limit          int
	Offset         int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByIDIncludingDeleted(id uint) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	SlugExists(slug string) (bool, error)
	Update(product *model.Product) error
	// SoftDelete marks the product deleted without touching the row's
	// history. Returns rows affected so callers can tell a repeat call
	// from a first delete.
	SoftDelete(id uint) (int64, error)
	// AdjustStock applies a signed delta, refusing any change that would
	// drive stock negative. The guard lives in the UPDATE itself so
	// concurrent adjustments cannot interleave past it.
	AdjustStock(id uint, delta int) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Brand").
		Preload("Variants").
		Preload("Images").
		Where("is_deleted = ?", false)
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"sku":         product.SKU,
		"category_id": product.CategoryID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"sku":  product.SKU,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.baseQuery().First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDIncludingDeleted(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Brand").
		Preload("Variants").Preload("Images").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.baseQuery().Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	err := r.baseQuery().Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_ids": filter.CategoryIDs,
		"brand_id":     filter.BrandID,
		"featured":     filter.IsFeatured,
		"new":          filter.IsNew,
		"low_stock":    filter.LowStock,
		"out_of_stock": filter.OutOfStock,
		"search":       filter.Search,
		"sort_by":      filter.SortBy,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})

	query := r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Brand").
		Preload("Variants").
		Preload("Images")

	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.IsFeatured != nil {
		query = query.Where("is_featured = ?", *filter.IsFeatured)
	}
	if filter.IsNew != nil {
		query = query.Where("is_new = ?", *filter.IsNew)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.LowStock {
		query = query.Where(
			"track_inventory = ? AND stock_quantity > 0 AND stock_quantity <= low_stock_threshold",
			true,
		)
	}
	if filter.OutOfStock {
		query = query.Where("track_inventory = ? AND stock_quantity <= 0", true)
	}
	if filter.MinPrice != nil {
		query = query.Where("selling_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("selling_price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"name LIKE ? OR sku LIKE ? OR barcode LIKE ? OR description LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err)
		return nil, 0, err
	}

	query = query.Order(orderClause(filter.SortBy, filter.SortAscending))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err)
		return nil, 0, err
	}
	return products, total, nil
}

func orderClause(sortBy ProductSort, ascending bool) string {
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	switch sortBy {
	case ProductSortName:
		return "name " + direction
	case ProductSortPrice:
		return "selling_price " + direction
	case ProductSortStock:
		return "stock_quantity " + direction
	case ProductSortCreatedAt:
		return "created_at " + direction
	default:
		return "created_at DESC"
	}
}

func (r *productRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) SoftDelete(id uint) (int64, error) {
	now := time.Now()
	result := r.db.Model(&model.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"is_active":  false,
		})
	if result.Error != nil {
		logger.Error("Failed to soft delete product", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *productRepository) AdjustStock(id uint, delta int) (int64, error) {
	result := r.db.Model(&model.Product{}).
		Where("id = ? AND is_deleted = ? AND stock_quantity + ? >= 0", id, false, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if result.Error != nil {
		logger.Error("Failed to adjust product stock", result.Error, map[string]interface{}{
			"product_id": id,
			"delta":      delta,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
