package storage

import (
	"agcbo/internal/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// ossBucket is the subset of *oss.Bucket the backend calls.
type ossBucket interface {
	IsObjectExist(key string, options ...oss.Option) (bool, error)
	PutObject(key string, reader io.Reader, options ...oss.Option) error
	DeleteObject(key string, options ...oss.Option) error
}

type ossStorage struct {
	bucket ossBucket
	prefix string
	now    func() time.Time
}

// NewOSSStorage opens the configured Aliyun OSS bucket.
func NewOSSStorage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	if endpoint == "" || bucketName == "" {
		return nil, errors.New("storage: missing OSS endpoint or bucket")
	}
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}
	return &ossStorage{bucket: bucket, prefix: trimPrefix(cfg.StorageOSSPrefix), now: time.Now}, nil
}

func (s *ossStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPayload
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(s.prefix, opts, s.now())
	if opts.SkipIfExists {
		exists, err := s.bucket.IsObjectExist(key)
		if err != nil {
			return "", fmt.Errorf("check object: %w", err)
		}
		if exists {
			return key, nil
		}
	}

	err := s.bucket.PutObject(key, bytes.NewReader(data), oss.WithContext(ctx), oss.ContentType(detectContentType(opts.Extension)))
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

func (s *ossStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

var _ Storage = (*ossStorage)(nil)
