package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"proposal_builder/internal/config"
	"proposal_builder/internal/usecase/interfaces"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var (
	ErrMissingEndpoint    = errors.New("storage endpoint is required")
	ErrMissingCredentials = errors.New("storage access key and secret key are required")
	ErrMissingBucket      = errors.New("storage bucket is required")
	ErrMissingKey         = errors.New("object key is required")
)

// MinioStore archives uploaded brief documents in an S3-compatible bucket.
// The bucket is created on first use; a failed check is retried on the next Put.
type MinioStore struct {
	client *minio.Client
	bucket string
	region string

	mu    sync.Mutex
	ready bool
}

var _ interfaces.IDocumentStore = (*MinioStore)(nil)

func NewMinioStore(cfg config.StorageConfig) (*MinioStore, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, ErrMissingCredentials
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, ErrMissingBucket
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	zap.L().Info("[storage][minio] client initialized", zap.String("endpoint", endpoint), zap.String("bucket", bucket))

	return &MinioStore{client: client, bucket: bucket, region: region}, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
		zap.L().Info("[storage][minio] bucket created", zap.String("bucket", s.bucket))
	}
	s.ready = true
	return nil
}

func (s *MinioStore) Put(ctx context.Context, key string, content []byte, contentType string) error {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return ErrMissingKey
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	zap.L().Info("[storage][minio] object stored", zap.String("key", key), zap.Int64("size", info.Size))
	return nil
}
