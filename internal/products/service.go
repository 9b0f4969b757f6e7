package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/feiralivre/feiralivre-backend/pkg/db"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	pkgerrors "github.com/feiralivre/feiralivre-backend/pkg/errors"
	"github.com/feiralivre/feiralivre-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes product management operations for the authenticated vendor.
// Every operation is scoped by the owning vendor: acting on another vendor's
// product resolves as not-found.
type Service interface {
	Create(ctx context.Context, vendorID uint, input CreateInput) (*models.Product, error)
	Get(ctx context.Context, vendorID, productID uint) (*models.Product, error)
	List(ctx context.Context, vendorID uint) ([]models.Product, error)
	Update(ctx context.Context, vendorID, productID uint, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, vendorID, productID uint) error
}

// CreateInput holds the validated payload to create a product. ImageKey is
// the primary image; GalleryKeys become one gallery row each.
type CreateInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Available   bool
	ImageKey    *string
	GalleryKeys []string
}

// UpdateInput holds the editable product fields. ImageKey is set only when a
// replacement image was uploaded.
type UpdateInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Available   bool
	ImageKey    *string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

// Create persists the product, then attaches gallery images best-effort. The
// product row is already committed when gallery attachment runs; a failed
// batch is logged and dropped rather than rolling back the product.
func (s *service) Create(ctx context.Context, vendorID uint, input CreateInput) (*models.Product, error) {
	product := &models.Product{
		VendorID:    vendorID,
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Description: strings.TrimSpace(input.Description),
		Available:   input.Available,
		ImageKey:    input.ImageKey,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	if err := s.repo.AddImages(ctx, product.ID, input.GalleryKeys); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"product_id": product.ID,
			"images":     len(input.GalleryKeys),
		}), "attaching gallery images failed")
	}
	return product, nil
}

func (s *service) Get(ctx context.Context, vendorID, productID uint) (*models.Product, error) {
	product, err := s.repo.FindByIDForVendor(ctx, productID, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *service) List(ctx context.Context, vendorID uint) ([]models.Product, error) {
	return s.repo.ListByVendor(ctx, vendorID)
}

func (s *service) Update(ctx context.Context, vendorID, productID uint, input UpdateInput) (*models.Product, error) {
	product, err := s.Get(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Price = input.Price
	product.Description = strings.TrimSpace(input.Description)
	product.Available = input.Available
	if input.ImageKey != nil {
		product.ImageKey = input.ImageKey
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product and its gallery rows in one transaction.
func (s *service) Delete(ctx context.Context, vendorID, productID uint) error {
	if _, err := s.Get(ctx, vendorID, productID); err != nil {
		return err
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteImages(ctx, productID); err != nil {
			return fmt.Errorf("deleting gallery images: %w", err)
		}
		if err := repo.Delete(ctx, productID); err != nil {
			return fmt.Errorf("deleting product: %w", err)
		}
		return nil
	})
}
