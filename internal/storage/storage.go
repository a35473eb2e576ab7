package storage

import (
	"agcbo/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// TypeLocal stores files under MEDIA_ROOT.
	TypeLocal = "local"
	// TypeS3 is Amazon S3 or any S3 compatible service.
	TypeS3 = "s3"
	// TypeOSS is Aliyun OSS.
	TypeOSS = "oss"
	// TypeCOS is Tencent COS.
	TypeCOS = "cos"
	// TypeR2 is Cloudflare R2.
	TypeR2 = "r2"
)

// ErrEmptyPayload is returned when there is nothing to store.
var ErrEmptyPayload = errors.New("empty payload")

// SaveOptions controls how a backend names a stored file.
//
// Category groups files (gallery, branding, reports). Extension is the
// preferred file extension without the leading dot. BaseName defaults to a
// random identifier.
type SaveOptions struct {
	Category     string
	Extension    string
	BaseName     string
	SkipIfExists bool
}

// Storage persists uploaded media and returns a backend key (a relative
// path for local storage, an object key for the cloud backends).
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
	Delete(ctx context.Context, key string) error
}

// LocalBaseDirProvider is implemented by backends whose files can be served
// straight from disk by the media endpoint.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage instantiates the configured backend. The choice is made once
// at startup.
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// PublicURL joins the configured media URL prefix and a stored key.
// Absolute URLs are returned unchanged.
func PublicURL(base, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	return base + "/" + strings.TrimLeft(key, "/")
}
