package storage

import (
	"agcbo/internal/config"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NewR2Storage builds an S3 client pointed at Cloudflare R2.
func NewR2Storage(cfg config.Config) (Storage, error) {
	bucket := strings.TrimSpace(cfg.StorageR2Bucket)
	if bucket == "" {
		return nil, errors.New("storage: missing R2 bucket")
	}

	endpoint, err := r2Endpoint(cfg)
	if err != nil {
		return nil, err
	}

	region := strings.TrimSpace(cfg.StorageR2Region)
	if region == "" {
		region = "auto"
	}

	client, err := newS3Client(s3ClientOptions{
		Region:          region,
		Endpoint:        endpoint,
		AccessKeyID:     cfg.StorageR2AccessKeyID,
		SecretAccessKey: cfg.StorageR2SecretAccessKey,
		ForcePathStyle:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create R2 client: %w", err)
	}
	return &s3Storage{client: client, bucket: bucket, prefix: trimPrefix(cfg.StorageR2Prefix), now: time.Now}, nil
}

// r2Endpoint prefers an explicit endpoint and otherwise derives the
// account's default one.
func r2Endpoint(cfg config.Config) (string, error) {
	if endpoint := strings.TrimSpace(cfg.StorageR2Endpoint); endpoint != "" {
		return endpoint, nil
	}
	accountID := strings.TrimSpace(cfg.StorageR2AccountID)
	if accountID == "" {
		return "", errors.New("storage: missing R2 endpoint or account id")
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID), nil
}
