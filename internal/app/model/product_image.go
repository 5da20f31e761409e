package model

import (
	"time"
)

// ProductImage is one of a product's images. At most one image per product
// carries IsPrimary at any time; the product service enforces that inside a
// transaction.
type ProductImage struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ProductID    uint      `gorm:"index:idx_images_product_primary;not null" json:"product_id"`
	ImageURL     string    `gorm:"not null" json:"image_url"`
	AltText      string    `json:"alt_text"`
	IsPrimary    bool      `gorm:"default:false;index:idx_images_product_primary" json:"is_primary"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
