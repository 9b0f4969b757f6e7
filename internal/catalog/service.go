package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	pkgerrors "github.com/feiralivre/feiralivre-backend/pkg/errors"
	"github.com/feiralivre/feiralivre-backend/pkg/whatsapp"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the unauthenticated buyer-facing reads.
type Service interface {
	Search(ctx context.Context, query string) ([]Listing, error)
	ProductDetail(ctx context.Context, productID uint) (*ProductDetail, error)
	VendorDetail(ctx context.Context, vendorID uint) (*VendorDetail, error)
	ListVendors(ctx context.Context) ([]VendorCard, error)
}

// Listing is one row of the public catalog.
type Listing struct {
	ID         uint
	Name       string
	Price      decimal.Decimal
	ImageKey   *string
	VendorID   uint
	VendorName string
}

// VendorCard is the public view of a vendor. ContactLink is empty when the
// vendor has no phone on file.
type VendorCard struct {
	ID           uint
	SellingName  string
	SaleLocation string
	PhotoKey     *string
	ContactLink  string
}

// ProductDetail is the public view of one product and its seller.
type ProductDetail struct {
	Product models.Product
	Gallery []models.ProductImage
	Vendor  VendorCard
}

// VendorDetail is a vendor's public storefront page.
type VendorDetail struct {
	Vendor   VendorCard
	Products []models.Product
}

type service struct {
	repo *Repository
}

// NewService constructs the public catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Search(ctx context.Context, query string) ([]Listing, error) {
	products, err := s.repo.ListVisible(ctx, query)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.VendorID)
	}
	vendors, err := s.repo.VendorsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(products))
	for _, p := range products {
		listings = append(listings, Listing{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price,
			ImageKey:   p.ImageKey,
			VendorID:   p.VendorID,
			VendorName: vendors[p.VendorID].SellingName,
		})
	}
	return listings, nil
}

func (s *service) ProductDetail(ctx context.Context, productID uint) (*ProductDetail, error) {
	product, err := s.repo.FindVisibleProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}

	vendor, err := s.repo.FindAvailableVendor(ctx, product.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}

	return &ProductDetail{
		Product: *product,
		Gallery: product.Images,
		Vendor:  vendorCard(vendor),
	}, nil
}

func (s *service) VendorDetail(ctx context.Context, vendorID uint) (*VendorDetail, error) {
	vendor, err := s.repo.FindAvailableVendor(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, err
	}

	products, err := s.repo.ListVisibleByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	return &VendorDetail{Vendor: vendorCard(vendor), Products: products}, nil
}

func (s *service) ListVendors(ctx context.Context) ([]VendorCard, error) {
	vendors, err := s.repo.ListAvailableVendors(ctx)
	if err != nil {
		return nil, err
	}
	cards := make([]VendorCard, 0, len(vendors))
	for i := range vendors {
		cards = append(cards, vendorCard(&vendors[i]))
	}
	return cards, nil
}

func vendorCard(v *models.Vendor) VendorCard {
	return VendorCard{
		ID:           v.ID,
		SellingName:  v.SellingName,
		SaleLocation: v.SaleLocation,
		PhotoKey:     v.PhotoKey,
		ContactLink:  whatsapp.Link(v.Phone),
	}
}
