package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"go.uber.org/zap"
)

// LocalStorage writes blobs under a root directory and references them by
// baseURL/key. The HTTP server serves root at baseURL.
type LocalStorage struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

var _ outbound.StorageService = (*LocalStorage)(nil)

// NewLocalStorage creates root if needed
func NewLocalStorage(root, baseURL string, logger *zap.Logger) (*LocalStorage, error) {
	if root == "" {
		return nil, errors.New("local storage path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStorage{root: root, baseURL: baseURL, logger: logger.Named("local-storage")}, nil
}

// Root is the directory blobs are written to
func (s *LocalStorage) Root() string { return s.root }

// BaseURL is the prefix of every reference returned by Upload
func (s *LocalStorage) BaseURL() string { return s.baseURL }

// Upload writes data to root/key
func (s *LocalStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	s.logger.Debug("Stored image", zap.String("key", key), zap.Int("bytes", len(data)))
	return joinURL(s.baseURL, key), nil
}

// Delete removes the blob behind reference; a missing file is not an error
func (s *LocalStorage) Delete(ctx context.Context, reference string) error {
	key, err := keyFromReference(s.baseURL, reference)
	if err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *LocalStorage) path(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return path, nil
}
