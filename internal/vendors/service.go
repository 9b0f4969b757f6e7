package vendor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	pkgerrors "github.com/feiralivre/feiralivre-backend/pkg/errors"
	"github.com/feiralivre/feiralivre-backend/pkg/security"
	"gorm.io/gorm"
)

// Service exposes vendor profile operations for the authenticated vendor.
type Service interface {
	Get(ctx context.Context, vendorID uint) (*models.Vendor, error)
	UpdateProfile(ctx context.Context, vendorID uint, input ProfileInput) (*models.Vendor, error)
}

// ProfileInput carries the editable vendor fields. NewPassword is optional:
// empty leaves the stored hash untouched. PhotoKey is set only when a new
// photo was uploaded.
type ProfileInput struct {
	Email        string
	FullName     string
	SellingName  string
	Phone        string
	SaleLocation string
	Available    bool
	NewPassword  string
	PhotoKey     *string
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

// NewService constructs a vendor profile service.
func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Get(ctx context.Context, vendorID uint) (*models.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, err
	}
	return vendor, nil
}

func (s *service) UpdateProfile(ctx context.Context, vendorID uint, input ProfileInput) (*models.Vendor, error) {
	vendor, err := s.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	vendor.Email = strings.TrimSpace(input.Email)
	vendor.FullName = strings.TrimSpace(input.FullName)
	vendor.SellingName = strings.TrimSpace(input.SellingName)
	vendor.Phone = strings.TrimSpace(input.Phone)
	vendor.SaleLocation = strings.TrimSpace(input.SaleLocation)
	vendor.Available = input.Available
	if input.PhotoKey != nil {
		vendor.PhotoKey = input.PhotoKey
	}

	if input.NewPassword != "" {
		hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
		if err != nil {
			return nil, fmt.Errorf("hashing new password: %w", err)
		}
		vendor.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}
