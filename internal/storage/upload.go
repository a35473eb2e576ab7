package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured limit.
	ErrTooLarge = errors.New("upload exceeds size limit")
	// ErrUnsupportedType is returned for file types the hub does not accept.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// allowedExtensions lists the accepted extensions per upload kind.
var allowedExtensions = map[string][]string{
	"image":    {"jpg", "jpeg", "png", "gif", "webp"},
	"video":    {"mp4", "webm", "mov"},
	"document": {"pdf", "doc", "docx", "xls", "xlsx", "csv", "txt"},
}

// Uploader validates uploads and hands them to a Storage backend.
type Uploader struct {
	store      Storage
	maxBytes   int64
	publicBase string
}

func NewUploader(store Storage, maxBytes int64, publicBase string) *Uploader {
	return &Uploader{store: store, maxBytes: maxBytes, publicBase: publicBase}
}

// URL maps a stored key to the address browsers fetch it from.
func (u *Uploader) URL(key string) string {
	return PublicURL(u.publicBase, key)
}

// Put reads r (bounded by the size limit) and stores it under category.
// kind is one of image, video or document.
func (u *Uploader) Put(ctx context.Context, kind, category, filename string, r io.Reader) (string, error) {
	limit := u.maxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", ErrTooLarge
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		ext = extensionFromMime(http.DetectContentType(data))
	}
	return u.save(ctx, kind, category, ext, data)
}

// PutDataURL stores an inline base64 or data URL payload.
func (u *Uploader) PutDataURL(ctx context.Context, kind, category, payload string) (string, error) {
	mimeType, encoded := splitDataURL(strings.TrimSpace(payload))
	if encoded == "" {
		return "", ErrEmptyPayload
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	if u.maxBytes > 0 && int64(len(data)) > u.maxBytes {
		return "", ErrTooLarge
	}
	ext := extensionFromMime(mimeType)
	if ext == "" {
		ext = extensionFromMime(http.DetectContentType(data))
	}
	return u.save(ctx, kind, category, ext, data)
}

// Remove deletes a stored key. Absolute URLs are left alone.
func (u *Uploader) Remove(ctx context.Context, key string) error {
	if key == "" || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return nil
	}
	return u.store.Delete(ctx, key)
}

func (u *Uploader) save(ctx context.Context, kind, category, ext string, data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", ErrEmptyPayload
	}
	if !extensionAllowed(kind, ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return u.store.Save(ctx, data, SaveOptions{Category: category, Extension: ext})
}

func extensionAllowed(kind, ext string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range allowedExtensions[kind] {
		if allowed == ext {
			return true
		}
	}
	return false
}

func splitDataURL(value string) (string, string) {
	if !strings.HasPrefix(value, "data:") {
		return "", value
	}
	parts := strings.SplitN(strings.TrimPrefix(value, "data:"), ";base64,", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

func extensionFromMime(mimeType string) string {
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}
	switch strings.ToLower(mimeType) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "video/mp4":
		return "mp4"
	case "video/webm":
		return "webm"
	case "application/pdf":
		return "pdf"
	case "text/plain":
		return "txt"
	default:
		return ""
	}
}
