package model

import (
	"time"
)

// Category is a node in the catalog taxonomy. Categories form a forest via
// ParentID; deleting a category cascades to its descendants, but deletion is
// blocked while any product in the subtree references one of them.
type Category struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string    `gorm:"type:text" json:"description"`
	ParentID     *uint     `gorm:"index" json:"parent_id,omitempty"`
	ImageURL     string    `json:"image_url"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Parent   *Category  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}
