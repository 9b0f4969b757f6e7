package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item owned by exactly one vendor.
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	VendorID    uint            `gorm:"column:vendor_id;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	ImageKey    *string         `gorm:"column:image_key"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(8,2);not null"`
	Description string          `gorm:"column:description"`
	Available   bool            `gorm:"column:available;not null;default:true"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
