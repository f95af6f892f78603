package models

import "gorm.io/gorm"

// Product represents a catalog entry. Sizes, colors and images are variant
// lists stored as JSON columns; the write path is admin-only.
type Product struct {
	ID            string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string   `json:"name" validate:"required,min=3,max=100"`
	Description   string   `json:"description" validate:"omitempty,max=2000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	DiscountPrice float64  `json:"discount_price" validate:"omitempty,gte=0"`
	SKU           string   `json:"sku" gorm:"uniqueIndex;type:varchar(64)" validate:"required"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Category      string   `json:"category" validate:"required"`
	Collection    string   `json:"collection"`
	Gender        string   `json:"gender" validate:"omitempty,oneof=men women unisex"`
	Sizes         []string `json:"sizes" gorm:"serializer:json"`
	Colors        []string `json:"colors" gorm:"serializer:json"`
	Images        []string `json:"images" gorm:"serializer:json"`
	IsFeatured    bool     `json:"is_featured"`
	IsPublished   bool     `json:"is_published"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// FirstImage returns the lead catalog image, or "" when none is set.
// Cart lines snapshot this at add time.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// EffectivePrice is the price a cart line is snapshotted at: the discount
// price when one is set below the list price, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}
