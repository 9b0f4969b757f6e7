package catalog

import (
	"context"
	"strings"

	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository serves the public storefront reads. A product is visible only
// when its own availability flag and its vendor's availability flag are both
// true; nothing here distinguishes "missing" from "unavailable".
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListVisible returns publicly visible products ordered by name. A non-empty
// query filters by case-insensitive substring on product name or vendor
// selling name.
func (r *Repository) ListVisible(ctx context.Context, query string) ([]models.Product, error) {
	tx := r.db.WithContext(ctx).
		Joins("JOIN vendors ON vendors.id = products.vendor_id").
		Where("products.available = ? AND vendors.available = ?", true, true)

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(products.name) LIKE ? OR LOWER(vendors.selling_name) LIKE ?", pattern, pattern)
	}

	var products []models.Product
	if err := tx.Order("products.name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindVisibleProduct loads one visible product with its gallery rows.
func (r *Repository) FindVisibleProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN vendors ON vendors.id = products.vendor_id").
		Where("products.id = ? AND products.available = ? AND vendors.available = ?", id, true, true).
		Preload("Images").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindAvailableVendor loads a vendor only when its availability flag is true.
func (r *Repository) FindAvailableVendor(ctx context.Context, id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("id = ? AND available = ?", id, true).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ListAvailableVendors returns every available vendor ordered by selling name.
func (r *Repository) ListAvailableVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("selling_name ASC").
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

// ListVisibleByVendor returns the vendor's available products ordered by name.
func (r *Repository) ListVisibleByVendor(ctx context.Context, vendorID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND available = ?", vendorID, true).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// VendorsByIDs loads the given vendors keyed by id.
func (r *Repository) VendorsByIDs(ctx context.Context, ids []uint) (map[uint]models.Vendor, error) {
	if len(ids) == 0 {
		return map[uint]models.Vendor{}, nil
	}
	var vendors []models.Vendor
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&vendors).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.Vendor, len(vendors))
	for _, v := range vendors {
		out[v.ID] = v
	}
	return out, nil
}
