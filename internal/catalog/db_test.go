package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Vendor{}, &models.Product{}, &models.ProductImage{}))
	return conn
}

func seedVendor(t *testing.T, conn *gorm.DB, sellingName, phone string, available bool) *models.Vendor {
	t.Helper()
	v := &models.Vendor{
		Email:        sellingName + "@example.com",
		PasswordHash: "hash",
		FullName:     "Vendedor",
		SellingName:  sellingName,
		Phone:        phone,
		Active:       true,
		Available:    available,
	}
	require.NoError(t, conn.Create(v).Error)
	return v
}

func seedProduct(t *testing.T, conn *gorm.DB, vendorID uint, name string, available bool) *models.Product {
	t.Helper()
	p := &models.Product{VendorID: vendorID, Name: name, Available: available}
	require.NoError(t, conn.Create(p).Error)
	return p
}
