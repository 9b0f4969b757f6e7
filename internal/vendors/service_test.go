package vendor

import (
	"context"
	"testing"

	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	pkgerrors "github.com/feiralivre/feiralivre-backend/pkg/errors"
	"github.com/feiralivre/feiralivre-backend/pkg/security"
)

func testPasswordCfg() config.PasswordConfig {
	// small argon params keep tests fast
	return config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16}
}

func seedVendor(t *testing.T, repo *Repository) *models.Vendor {
	t.Helper()
	v := &models.Vendor{
		Email:        "ana@example.com",
		PasswordHash: "hash",
		FullName:     "Ana Souza",
		SellingName:  "Bolos da Ana",
		Active:       true,
	}
	if err := repo.Create(context.Background(), v); err != nil {
		t.Fatalf("seeding vendor: %v", err)
	}
	return v
}

func TestUpdateProfileKeepsPasswordWhenEmpty(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo, testPasswordCfg())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	seed := seedVendor(t, repo)

	updated, err := svc.UpdateProfile(context.Background(), seed.ID, ProfileInput{
		Email:        "ana@example.com",
		FullName:     "Ana de Souza",
		SellingName:  "Bolos da Ana",
		Phone:        "(11) 98888-7777",
		SaleLocation: "Praça Central",
		Available:    true,
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	if updated.PasswordHash != "hash" {
		t.Fatalf("password hash changed without a new password")
	}
	if updated.FullName != "Ana de Souza" || !updated.Available {
		t.Fatalf("profile fields not applied: %+v", updated)
	}
}

func TestUpdateProfileRehashesNewPassword(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo, testPasswordCfg())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	seed := seedVendor(t, repo)

	updated, err := svc.UpdateProfile(context.Background(), seed.ID, ProfileInput{
		Email:       seed.Email,
		FullName:    seed.FullName,
		SellingName: seed.SellingName,
		NewPassword: "nova-senha-123",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	ok, err := security.VerifyPassword("nova-senha-123", updated.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("new password does not verify: ok=%v err=%v", ok, err)
	}
}

func TestUpdateProfileUnknownVendorIsNotFound(t *testing.T) {
	svc, err := NewService(NewRepository(openTestDB(t)), testPasswordCfg())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.UpdateProfile(context.Background(), 999, ProfileInput{Email: "x@example.com"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}
