package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a single-table stock line kept for the older inventory
// screens: one row per serial number with its own size, color and quantity.
type InventoryItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SerialNumber string          `gorm:"size:100;uniqueIndex;not null" json:"serial_number"`
	Size         string          `gorm:"size:20;not null" json:"size"`
	Color        string          `gorm:"size:50;not null" json:"color"`
	Quantity     int64           `gorm:"not null;default:0" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Composition  string          `gorm:"type:text" json:"composition"`
	ImagePath    string          `gorm:"size:255" json:"-"`
	CreatedBy    *uint           `gorm:"index" json:"created_by"`
	Creator      *User           `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	ImageURL          string `gorm:"-" json:"image_url"`
	CreatedByUsername string `gorm:"-" json:"created_by_username"`
}

func (InventoryItem) TableName() string { return "inventory" }
