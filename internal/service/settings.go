package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"agcbo/internal/access"
	"agcbo/internal/entity/db"
	"agcbo/internal/model"
	"agcbo/internal/model/sql"
	"agcbo/internal/sanitize"
	"agcbo/internal/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettingsService loads and edits the site-wide singletons.
type SettingsService struct {
	settings model.Singleton[db.SiteSettings]
	about    model.Singleton[db.AboutPage]
	audit    *AuditService
	media    *storage.Uploader
}

func NewSettingsService(settings model.Singleton[db.SiteSettings], about model.Singleton[db.AboutPage], audit *AuditService, media *storage.Uploader) *SettingsService {
	return &SettingsService{settings: settings, about: about, audit: audit, media: media}
}

// loadSingleton returns the stored row, creating it from defaults on first
// access. When two callers race to create it the loser reads the winner's
// row.
func loadSingleton[T any](ctx context.Context, repo model.Singleton[T], defaults func() T) (*T, error) {
	record, err := repo.Get(ctx)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := defaults()
	if err := repo.Create(ctx, &fresh); err != nil && !sql.IsDuplicateKey(err) {
		return nil, err
	}
	return repo.Get(ctx)
}

// Settings returns the site settings row.
func (s *SettingsService) Settings(ctx context.Context) (*db.SiteSettings, error) {
	return loadSingleton(ctx, s.settings, db.DefaultSiteSettings)
}

// About returns the about page row.
func (s *SettingsService) About(ctx context.Context) (*db.AboutPage, error) {
	return loadSingleton(ctx, s.about, db.DefaultAboutPage)
}

// SaveSettings overwrites the settings row. Staff only.
func (s *SettingsService) SaveSettings(ctx context.Context, viewer access.Viewer, payload []byte) (*db.SiteSettings, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	current, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	changes, err := decodePayload(payload, current)
	if err != nil {
		return nil, err
	}
	return s.StoreSettings(ctx, viewer, current, changes)
}

// StoreSettings validates and writes a fully populated settings record.
func (s *SettingsService) StoreSettings(ctx context.Context, viewer access.Viewer, record *db.SiteSettings, changes map[string]interface{}) (*db.SiteSettings, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	record.SiteName = strings.TrimSpace(record.SiteName)
	if record.SiteName == "" {
		return nil, FieldError("site_name", "this field is required")
	}
	record.Address = sanitize.Text(record.Address)
	if err := s.settings.Save(ctx, record); err != nil {
		return nil, storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditUpdate, "site_settings", record, changes)
	return s.Settings(ctx)
}

// SaveAbout overwrites the about page row. Staff only.
func (s *SettingsService) SaveAbout(ctx context.Context, viewer access.Viewer, payload []byte) (*db.AboutPage, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	current, err := s.About(ctx)
	if err != nil {
		return nil, err
	}
	changes, err := decodePayload(payload, current)
	if err != nil {
		return nil, err
	}
	return s.StoreAbout(ctx, viewer, current, changes)
}

// StoreAbout validates and writes a fully populated about page.
func (s *SettingsService) StoreAbout(ctx context.Context, viewer access.Viewer, record *db.AboutPage, changes map[string]interface{}) (*db.AboutPage, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	record.Title = strings.TrimSpace(record.Title)
	if record.Title == "" {
		return nil, FieldError("title", "this field is required")
	}
	for _, field := range record.RichTextFields() {
		*field = sanitize.HTML(*field)
	}
	if err := s.about.Save(ctx, record); err != nil {
		return nil, storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditUpdate, "about_page", record, changes)
	return s.About(ctx)
}

// UploadBranding stores a new logo or favicon and points the settings row
// at it. The previous file is removed. Staff only.
func (s *SettingsService) UploadBranding(ctx context.Context, viewer access.Viewer, field, filename string, r io.Reader) (*db.SiteSettings, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	if s.media == nil {
		return nil, errors.New("media storage not configured")
	}
	current, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	var target *string
	switch field {
	case "logo":
		target = &current.Logo
	case "favicon":
		target = &current.Favicon
	default:
		return nil, FieldError("field", "use logo or favicon")
	}

	key, err := s.media.Put(ctx, "image", "branding", filename, r)
	if err != nil {
		return nil, uploadError("file", err)
	}
	previous := *target
	*target = key
	saved, err := s.StoreSettings(ctx, viewer, current, map[string]interface{}{field: key})
	if err != nil {
		_ = s.media.Remove(ctx, key)
		return nil, err
	}
	if err := s.media.Remove(ctx, previous); err != nil {
		logrus.WithError(err).WithField("key", previous).Warn("failed to remove replaced branding file")
	}
	return saved, nil
}
