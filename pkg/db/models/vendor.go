package models

import "time"

// Vendor represents a registered seller account.
//
// Active stays false until the vendor confirms their email through an
// activation link; inactive vendors can never authenticate. Available is the
// vendor-level storefront toggle: none of the vendor's products are publicly
// visible while it is false.
type Vendor struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:idx_vendors_email"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FullName     string    `gorm:"column:full_name;not null"`
	SellingName  string    `gorm:"column:selling_name;not null"`
	Phone        string    `gorm:"column:phone"`
	SaleLocation string    `gorm:"column:sale_location"`
	Available    bool      `gorm:"column:available;not null;default:false"`
	Active       bool      `gorm:"column:active;not null;default:false"`
	PhotoKey     *string   `gorm:"column:photo_key"`
	Products     []Product `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
