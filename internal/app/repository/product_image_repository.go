package repository

import (
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductImageRepository interface {
	// Create inserts an image. When the image is flagged primary, sibling
	// primaries are cleared inside the same transaction.
	Create(image *model.ProductImage) error
	FindByID(id uint) (*model.ProductImage, error)
	FindByProduct(productID uint) ([]model.ProductImage, error)
	FindPrimary(productID uint) (*model.ProductImage, error)
	Update(image *model.ProductImage) error
	Delete(id uint) error
	// SetPrimary makes one image the product's primary. The product row is
	// locked for the duration so two racing calls serialize and exactly one
	// primary survives.
	SetPrimary(productID, imageID uint) error
}

type productImageRepository struct {
	db *gorm.DB
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepository {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) Create(image *model.ProductImage) error {
	if !image.IsPrimary {
		if err := r.db.Create(image).Error; err != nil {
			logger.Error("Failed to create product image", err, map[string]interface{}{
				"product_id": image.ProductID,
			})
			return err
		}
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, image.ProductID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.ProductImage{}).
			Where("product_id = ? AND is_primary = ?", image.ProductID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Create(image).Error
	})
}

func (r *productImageRepository) FindByID(id uint) (*model.ProductImage, error) {
	var image model.ProductImage
	err := r.db.First(&image, id).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *productImageRepository) FindByProduct(productID uint) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.Where("product_id = ?", productID).
		Order("is_primary DESC, display_order ASC, id ASC").
		Find(&images).Error
	if err != nil {
		logger.Error("Failed to list product images", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return images, nil
}

func (r *productImageRepository) FindPrimary(productID uint) (*model.ProductImage, error) {
	var image model.ProductImage
	err := r.db.Where("product_id = ? AND is_primary = ?", productID, true).
		First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *productImageRepository) Update(image *model.ProductImage) error {
	if err := r.db.Save(image).Error; err != nil {
		logger.Error("Failed to update product image", err, map[string]interface{}{
			"image_id": image.ID,
		})
		return err
	}
	return nil
}

func (r *productImageRepository) Delete(id uint) error {
	return r.db.Delete(&model.ProductImage{}, id).Error
}

func (r *productImageRepository) SetPrimary(productID, imageID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, productID).Error; err != nil {
			return err
		}

		var image model.ProductImage
		if err := tx.Where("id = ? AND product_id = ?", imageID, productID).
			First(&image).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.ProductImage{}).
			Where("product_id = ? AND is_primary = ? AND id <> ?", productID, true, imageID).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		return tx.Model(&model.ProductImage{}).
			Where("id = ?", imageID).
			Update("is_primary", true).Error
	})
}
