package product

import (
	"path/filepath"
	"testing"

	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Vendor{}, &models.Product{}, &models.ProductImage{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func seedVendor(t *testing.T, conn *gorm.DB, sellingName string) *models.Vendor {
	t.Helper()
	v := &models.Vendor{
		Email:        sellingName + "@example.com",
		PasswordHash: "hash",
		FullName:     "Vendedor",
		SellingName:  sellingName,
		Active:       true,
	}
	if err := conn.Create(v).Error; err != nil {
		t.Fatalf("seeding vendor: %v", err)
	}
	return v
}
