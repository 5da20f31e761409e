package repository

import (
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/pkg/logger"
	"gorm.io/gorm"
)

type BrandRepository interface {
	Create(brand *model.Brand) error
	FindByID(id uint) (*model.Brand, error)
	FindBySlug(slug string) (*model.Brand, error)
	FindAll(activeOnly bool) ([]model.Brand, error)
	SlugExists(slug string) (bool, error)
	Update(brand *model.Brand) error
	// DeleteDetachingProducts removes the brand and clears the brand
	// reference on its products in the same transaction.
	DeleteDetachingProducts(id uint) error
}

type brandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(brand *model.Brand) error {
	if err := r.db.Create(brand).Error; err != nil {
		logger.Error("Failed to create brand in database", err, map[string]interface{}{
			"name": brand.Name,
			"slug": brand.Slug,
		})
		return err
	}
	return nil
}

func (r *brandRepository) FindByID(id uint) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.First(&brand, id).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) FindBySlug(slug string) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.Where("slug = ?", slug).First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) FindAll(activeOnly bool) ([]model.Brand, error) {
	query := r.db.Model(&model.Brand{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var brands []model.Brand
	if err := query.Order("name ASC").Find(&brands).Error; err != nil {
		logger.Error("Failed to list brands", err)
		return nil, err
	}
	return brands, nil
}

func (r *brandRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Brand{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *brandRepository) Update(brand *model.Brand) error {
	if err := r.db.Save(brand).Error; err != nil {
		logger.Error("Failed to update brand in database", err, map[string]interface{}{
			"brand_id": brand.ID,
		})
		return err
	}
	return nil
}

func (r *brandRepository) DeleteDetachingProducts(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("brand_id = ?", id).
			Update("brand_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Brand{}, id).Error
	})
}
