package service

import (
	"context"
	"io"
	"strings"

	"agcbo/internal/access"
	"agcbo/internal/entity/db"
	"agcbo/internal/model"
	"agcbo/internal/storage"

	"github.com/sirupsen/logrus"
)

// GalleryService manages photos and videos. Uploaded files go through the
// configured storage backend.
type GalleryService struct {
	Items *Catalog[db.GalleryItem, *db.GalleryItem]

	media *storage.Uploader
}

func NewGalleryService(tables *model.Tables, media *storage.Uploader, audit *AuditService) *GalleryService {
	s := &GalleryService{media: media}
	s.Items = NewCatalog[db.GalleryItem, *db.GalleryItem](tables.Gallery, audit, CatalogOptions[db.GalleryItem]{
		Name:    "gallery_item",
		Prepare: validateGalleryItem,
		Decorate: func(_ context.Context, g *db.GalleryItem) error {
			if g.File != "" && s.media != nil {
				g.FileURL = s.media.URL(g.File)
			}
			return nil
		},
	})
	return s
}

func validateGalleryItem(_ context.Context, g *db.GalleryItem, _ bool) error {
	v := NewValidationError()
	required(v, "title", g.Title)
	if g.MediaType == "" {
		g.MediaType = db.MediaImage
	}
	if !oneOf(g.MediaType, []string{db.MediaImage, db.MediaVideo}) {
		v.Add("media_type", "use image or video")
	}
	if strings.TrimSpace(g.File) == "" && strings.TrimSpace(g.URL) == "" {
		v.Add("file", "upload a file or give a URL")
	}
	g.Tags = strings.Join(splitTags(g.Tags), ", ")
	return v.Err()
}

// Upload stores a file and creates the gallery item pointing at it. The
// stored file is removed again when the item cannot be saved. Staff only.
func (s *GalleryService) Upload(ctx context.Context, viewer access.Viewer, item *db.GalleryItem, filename string, r io.Reader) (*db.GalleryItem, error) {
	return s.attach(ctx, viewer, item, func(kind string) (string, error) {
		return s.media.Put(ctx, kind, "gallery", filename, r)
	})
}

// UploadDataURL is Upload for an inline base64 or data URL payload.
func (s *GalleryService) UploadDataURL(ctx context.Context, viewer access.Viewer, item *db.GalleryItem, payload string) (*db.GalleryItem, error) {
	return s.attach(ctx, viewer, item, func(kind string) (string, error) {
		return s.media.PutDataURL(ctx, kind, "gallery", payload)
	})
}

func (s *GalleryService) attach(ctx context.Context, viewer access.Viewer, item *db.GalleryItem, put func(kind string) (string, error)) (*db.GalleryItem, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	if item == nil {
		item = s.Items.New()
	}
	if item.MediaType == "" {
		item.MediaType = db.MediaImage
	}
	if strings.TrimSpace(item.Title) == "" {
		return nil, FieldError("title", "this field is required")
	}

	key, err := put(item.MediaType)
	if err != nil {
		return nil, uploadError("file", err)
	}
	item.File = key
	created, err := s.Items.CreateRecord(ctx, viewer, item)
	if err != nil {
		if rmErr := s.media.Remove(ctx, key); rmErr != nil {
			logrus.WithError(rmErr).WithField("key", key).Warn("failed to remove orphaned upload")
		}
		return nil, err
	}
	return created, nil
}

// Delete removes a gallery item and its stored file.
func (s *GalleryService) Delete(ctx context.Context, viewer access.Viewer, id uint) error {
	item, err := s.Items.Get(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := s.Items.Delete(ctx, viewer, id); err != nil {
		return err
	}
	if err := s.media.Remove(ctx, item.File); err != nil {
		logrus.WithError(err).WithField("key", item.File).Warn("failed to remove gallery file")
	}
	return nil
}
