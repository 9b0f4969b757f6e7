package vendor

import (
	"context"

	"github.com/feiralivre/feiralivre-backend/pkg/db"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	pkgerrors "github.com/feiralivre/feiralivre-backend/pkg/errors"
	"gorm.io/gorm"
)

const emailUniqueConstraint = "idx_vendors_email"

// Repository provides persistence for vendor accounts.
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

// Create persists a new vendor. A duplicate email surfaces as a conflict.
func (r *Repository) Create(ctx context.Context, vendor *models.Vendor) error {
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		if db.IsUniqueViolation(err, emailUniqueConstraint) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return err
	}
	return nil
}

// FindByEmail loads a vendor by its exact stored email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByID loads a vendor by primary key.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// Update persists all fields of the vendor. A duplicate email surfaces as a
// conflict, same as Create.
func (r *Repository) Update(ctx context.Context, vendor *models.Vendor) error {
	if err := r.db.WithContext(ctx).Save(vendor).Error; err != nil {
		if db.IsUniqueViolation(err, emailUniqueConstraint) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return err
	}
	return nil
}
