package vendor

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
