package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root, "/media", zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Upload(ctx, "recipes/images/a.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/images/a.png", ref)

	data, err := os.ReadFile(filepath.Join(root, "recipes", "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = os.Stat(filepath.Join(root, "recipes", "images", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/media", zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Upload(ctx, "../outside.png", []byte("x"), "image/png")
	assert.Error(t, err)

	assert.Error(t, store.Delete(ctx, "/elsewhere/a.png"))
	assert.Error(t, store.Delete(ctx, "/media/../etc/passwd"))
}

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-image"))

	tests := []struct {
		name    string
		value   string
		maxSize int64
		allowed []string
		wantErr error
	}{
		{name: "valid png", value: "data:image/png;base64," + payload},
		{name: "allowed list", value: "data:image/jpeg;base64," + payload, allowed: []string{"image/jpeg"}},
		{name: "missing scheme", value: payload, wantErr: ErrInvalidDataURI},
		{name: "not base64", value: "data:image/png," + payload, wantErr: ErrInvalidDataURI},
		{name: "bad payload", value: "data:image/png;base64,!!!", wantErr: ErrInvalidDataURI},
		{name: "empty payload", value: "data:image/png;base64,", wantErr: ErrInvalidDataURI},
		{name: "not an image", value: "data:text/plain;base64," + payload, wantErr: ErrUnsupportedImageType},
		{name: "disallowed type", value: "data:image/gif;base64," + payload, allowed: []string{"image/png"}, wantErr: ErrUnsupportedImageType},
		{name: "too large", value: "data:image/png;base64," + payload, maxSize: 4, wantErr: ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeDataURI(tt.value, tt.maxSize, tt.allowed)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []byte("fake-image"), img.Data)
		})
	}
}

func TestS3BaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", s3BaseURL(config.AWSConfig{CloudFrontURL: "https://cdn.example.com", S3Bucket: "b"}))
	assert.Equal(t, "http://minio:9000/b", s3BaseURL(config.AWSConfig{Endpoint: "http://minio:9000", S3Bucket: "b", S3ForcePathStyle: true}))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", s3BaseURL(config.AWSConfig{S3Bucket: "b", Region: "eu-west-1"}))
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Provider: "ftp"}}

	_, err := New(cfg, zap.NewNop())

	assert.Error(t, err)
}
