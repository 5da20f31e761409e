package model

import (
	"math"
	"time"
)

type Product struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Slug             string    `gorm:"uniqueIndex;not null" json:"slug"`
	SKU              string    `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	Barcode          string    `gorm:"index" json:"barcode"`
	CategoryID       uint      `gorm:"index;not null" json:"category_id"`
	BrandID          *uint     `gorm:"index" json:"brand_id,omitempty"`
	Description      string    `gorm:"type:text" json:"description"`
	ShortDescription string    `json:"short_description"`

	// Pricing
	CostPrice     float64  `gorm:"not null" json:"cost_price"`
	SellingPrice  float64  `gorm:"not null" json:"selling_price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`

	// Inventory
	StockQuantity     int  `gorm:"default:0" json:"stock_quantity"`
	LowStockThreshold int  `gorm:"default:10" json:"low_stock_threshold"`
	TrackInventory    bool `gorm:"default:true" json:"track_inventory"`

	// Physical properties
	Weight     *float64 `json:"weight,omitempty"`     // kg
	Dimensions string   `json:"dimensions"`           // L x W x H in cm

	// Flags. Soft deletion is explicit state, not a gorm soft delete: a
	// deleted product stays in storage and is filtered out of catalog reads.
	IsActive   bool       `gorm:"default:true;index" json:"is_active"`
	IsFeatured bool       `gorm:"default:false;index" json:"is_featured"`
	IsNew      bool       `gorm:"default:false" json:"is_new"`
	IsDeleted  bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`

	// Metadata
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `gorm:"type:text" json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category *Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Brand    *Brand           `gorm:"foreignKey:BrandID;constraint:OnDelete:SET NULL" json:"brand,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// FinalPrice returns the effective selling price. The discount only applies
// while it undercuts the selling price.
func (p *Product) FinalPrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice < p.SellingPrice {
		return *p.DiscountPrice
	}
	return p.SellingPrice
}

// DiscountPercentage returns the active discount as a percentage, rounded
// half-up to two decimal places, or 0 when no discount applies.
func (p *Product) DiscountPercentage() float64 {
	if p.DiscountPrice == nil || *p.DiscountPrice >= p.SellingPrice || p.SellingPrice == 0 {
		return 0
	}
	pct := (p.SellingPrice - *p.DiscountPrice) / p.SellingPrice * 100
	return math.Round(pct*100) / 100
}

// IsInStock reports stock availability; untracked products are always in stock
func (p *Product) IsInStock() bool {
	if !p.TrackInventory {
		return true
	}
	return p.StockQuantity > 0
}

// IsLowStock reports whether tracked stock is positive but at or below the
// low-stock threshold
func (p *Product) IsLowStock() bool {
	if !p.TrackInventory {
		return false
	}
	return p.StockQuantity > 0 && p.StockQuantity <= p.LowStockThreshold
}
