package models

import "time"

// ProductImage is a gallery entry attached to a product. Rows are created in
// batch alongside the product and removed only by the product's cascade.
type ProductImage struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint      `gorm:"column:product_id;not null;index"`
	ImageKey  string    `gorm:"column:image_key;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
