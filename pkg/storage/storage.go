package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/feiralivre/feiralivre-backend/pkg/storage/gcs"
	"github.com/feiralivre/feiralivre-backend/pkg/storage/local"
	"github.com/google/uuid"
)

// Storage persists uploaded image bytes under an opaque key. The key is the
// stable reference stored on the owning record; how it resolves to bytes
// (local disk or object storage) is the backend's concern.
type Storage interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) error
	Ping(ctx context.Context) error
}

// NewFromConfig selects the configured backend.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.StorageBackendLocal, "":
		return local.New(cfg.LocalDir)
	case config.StorageBackendGCS:
		return gcs.NewClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// NewObjectKey derives a fresh key for an uploaded file, keeping the original
// extension and namespacing by prefix ("vendors/profiles", "products", ...).
func NewObjectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.NewString(), ext)
}
