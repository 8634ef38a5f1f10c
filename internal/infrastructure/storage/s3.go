package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

// S3Storage stores blobs in an S3 bucket. References are public URLs under
// the CloudFront domain when one is configured, otherwise under the bucket.
type S3Storage struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
	baseURL  string
	logger   *zap.Logger
}

var _ outbound.StorageService = (*S3Storage)(nil)

// NewS3Storage creates an S3 session from the AWS section
func NewS3Storage(cfg config.AWSConfig, logger *zap.Logger) (*S3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("aws.s3_bucket is required for s3 storage")
	}

	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.S3ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Storage{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.S3Bucket,
		baseURL:  s3BaseURL(cfg),
		logger:   logger.Named("s3-storage"),
	}, nil
}

// Upload puts data at key
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("S3 upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("s3 upload: %w", err)
	}

	s.logger.Debug("Stored image", zap.String("key", key), zap.Int("bytes", len(data)))
	return joinURL(s.baseURL, key), nil
}

// Delete removes the object behind reference
func (s *S3Storage) Delete(ctx context.Context, reference string) error {
	key, err := keyFromReference(s.baseURL, reference)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete: %w", err)
	}
	return nil
}

func s3BaseURL(cfg config.AWSConfig) string {
	switch {
	case cfg.CloudFrontURL != "":
		return cfg.CloudFrontURL
	case cfg.Endpoint != "" && cfg.S3ForcePathStyle:
		return joinURL(cfg.Endpoint, cfg.S3Bucket)
	case cfg.Endpoint != "":
		return cfg.Endpoint
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.Region)
	}
}
