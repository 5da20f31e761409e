package repository

import (
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByID(id uint) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	FindAll(activeOnly bool) ([]model.Category, error)
	FindRoots(activeOnly bool) ([]model.Category, error)
	FindChildren(parentID uint, activeOnly bool) ([]model.Category, error)
	SlugExists(slug string) (bool, error)
	Update(category *model.Category) error
	// DeleteByIDs removes a whole subtree in one statement.
	DeleteByIDs(ids []uint) error
	CountProductsInCategories(ids []uint) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
			"slug": category.Slug,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.Preload("Children").First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.Preload("Children").Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(activeOnly bool) ([]model.Category, error) {
	query := r.db.Model(&model.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []model.Category
	if err := query.Order("display_order ASC, name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindRoots(activeOnly bool) ([]model.Category, error) {
	query := r.db.Where("parent_id IS NULL")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []model.Category
	if err := query.Preload("Children").Order("display_order ASC, name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list root categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindChildren(parentID uint, activeOnly bool) ([]model.Category, error) {
	query := r.db.Where("parent_id = ?", parentID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []model.Category
	if err := query.Order("display_order ASC, name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list child categories", err, map[string]interface{}{
			"parent_id": parentID,
		})
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&model.Category{}, "id IN ?", ids).Error
}

func (r *categoryRepository) CountProductsInCategories(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("category_id IN ? AND is_deleted = ?", ids, false).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count products in categories", err)
		return 0, err
	}
	return count, nil
}
