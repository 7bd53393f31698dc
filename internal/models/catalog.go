// internal/models/catalog.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	BaseModel
	Name     string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

// Product is a catalog row. DiscountPrice is the persisted discounted unit
// price; the percent shown in the dashboard is derived from (price,
// discount_price) on read. Stock is denormalized here for the inventory grid;
// the Inventory row keyed by product carries the threshold.
type Product struct {
	BaseModel
	Name          string     `json:"name" gorm:"size:255;not null"`
	CategoryID    *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`
	Unit          Unit       `json:"unit" gorm:"type:varchar(10);default:'pcs'"`
	Price         float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	DiscountPrice *float64   `json:"discount_price" gorm:"type:decimal(10,2)"`
	Quantity      string     `json:"quantity" gorm:"size:50"` // free-text label, e.g. "500g"
	Barcode       string     `json:"barcode" gorm:"size:64;index"`
	ImageURL      string     `json:"image_url" gorm:"size:1024"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	Stock         int        `json:"stock" gorm:"default:0"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// Inventory tracks stock per product, one row per product.
type Inventory struct {
	ProductID         uuid.UUID  `json:"product_id" gorm:"type:uuid;primary_key"`
	Stock             int        `json:"stock" gorm:"not null;default:0"`
	LowStockThreshold int        `json:"low_stock_threshold" gorm:"default:5"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
