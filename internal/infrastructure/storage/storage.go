// Package storage provides image blob storage on the local filesystem or S3.
package storage

import (
	"fmt"
	"strings"

	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"go.uber.org/zap"
)

// New builds the storage provider selected by storage.provider
func New(cfg *config.Config, logger *zap.Logger) (outbound.StorageService, error) {
	switch cfg.Storage.Provider {
	case "", "local":
		return NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.BaseURL, logger)
	case "s3":
		return NewS3Storage(cfg.AWS, logger)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// keyFromReference strips base from a reference produced by joinURL.
func keyFromReference(base, reference string) (string, error) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(reference, prefix) {
		return "", fmt.Errorf("reference %q is not under %q", reference, base)
	}
	key := strings.TrimPrefix(reference, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key in reference %q", reference)
	}
	return key, nil
}
