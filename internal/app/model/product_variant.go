package model

import (
	"time"
)

// ProductVariant is a sellable variation of a product (size, color, volume).
// Variant stock is independent of the parent product's stock.
type ProductVariant struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	ProductID       uint      `gorm:"index;not null;uniqueIndex:idx_variant_product_name" json:"product_id"`
	Name            string    `gorm:"not null;uniqueIndex:idx_variant_product_name" json:"name"`
	SKU             string    `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	Barcode         string    `json:"barcode"`
	PriceAdjustment float64   `gorm:"default:0" json:"price_adjustment"`
	StockQuantity   int       `gorm:"default:0" json:"stock_quantity"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	IsDefault       bool      `gorm:"default:false" json:"is_default"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// FinalPrice applies the signed adjustment to the parent's effective price
func (v *ProductVariant) FinalPrice(product *Product) float64 {
	return product.FinalPrice() + v.PriceAdjustment
}

// IsInStock reports variant-level stock availability
func (v *ProductVariant) IsInStock() bool {
	return v.StockQuantity > 0
}
