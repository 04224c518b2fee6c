// Package storage provides object storage for uploaded assets such as
// payment QR code and letterhead images.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/praktis/backend/internal/infrastructure/config"
)

// ObjectStorage abstracts the asset store. Uploads go through
// presigned URLs so image bytes never pass through the API server.
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for the key.
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL for the key.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// PublicURL returns the stable public URL for the key.
	PublicURL(storageKey string) string

	// DeleteObject removes the object.
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists reports whether the object is present.
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// New builds the ObjectStorage configured by cfg.Provider.
func New(cfg *config.StorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(cfg.Provider) {
	case "s3":
		return NewS3Storage(cfg)
	case "", "stub":
		return NewStubStorage(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
