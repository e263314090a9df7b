package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices render as JSON numbers rather than strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry identified by its serial number. It owns its
// variants: they are replaced as a set and removed with the product.
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SerialNumber string          `gorm:"size:100;uniqueIndex;not null" json:"serial_number"`
	ImagePath    string          `gorm:"size:255" json:"-"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Composition  string          `gorm:"type:text" json:"composition"`
	CreatedBy    *uint           `gorm:"index" json:"created_by"`
	Creator      *User           `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
	Variants     []Variant       `gorm:"constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Derived on read.
	ImageURL          string `gorm:"-" json:"image_url"`
	TotalQuantity     int64  `gorm:"-" json:"total_quantity"`
	CreatedByUsername string `gorm:"-" json:"created_by_username"`
}

// Variant is one (color, size) stock line of a product.
type Variant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_variant_product_size_color,priority:1" json:"product_id"`
	Size      string    `gorm:"size:20;not null;uniqueIndex:idx_variant_product_size_color,priority:2" json:"size"`
	Color     string    `gorm:"size:50;not null;uniqueIndex:idx_variant_product_size_color,priority:3" json:"color"`
	Quantity  int64     `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (Variant) TableName() string { return "product_variants" }

// SumQuantity totals the quantity of vs.
func SumQuantity(vs []Variant) int64 {
	var total int64
	for _, v := range vs {
		total += v.Quantity
	}
	return total
}

// CatalogStats is the dashboard summary. Every field is zero on an empty catalog.
type CatalogStats struct {
	TotalProducts int64           `json:"totalProducts"`
	TotalQuantity int64           `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	UniqueColors  int64           `json:"uniqueColors"`
	UniqueSizes   int64           `json:"uniqueSizes"`
}
