package product

import (
	"context"

	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository provides persistence for products and their gallery images.
// Reads on the vendor side are always scoped by the owning vendor id, so a
// foreign vendor's product behaves exactly like a missing one.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByIDForVendor loads a product only when it belongs to the vendor.
func (r *Repository) FindByIDForVendor(ctx context.Context, id, vendorID uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByVendor returns all of the vendor's products ordered by name.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product row. Gallery rows are removed first by
// DeleteImages inside the same transaction.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

// AddImages inserts gallery rows for the product in one batch.
func (r *Repository) AddImages(ctx context.Context, productID uint, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	rows := make([]models.ProductImage, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, models.ProductImage{ProductID: productID, ImageKey: key})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// ListImages returns the product's gallery rows oldest first.
func (r *Repository) ListImages(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteImages removes all gallery rows for the product.
func (r *Repository) DeleteImages(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductImage{}).Error
}
