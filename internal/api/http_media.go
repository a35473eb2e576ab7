package api

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"agcbo/internal/entity/db"
	"agcbo/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type galleryUploadForm struct {
	Title       string                `form:"title"`
	Description string                `form:"description"`
	MediaType   string                `form:"media_type"`
	URL         string                `form:"url"`
	Tags        string                `form:"tags"`
	Year        *int                  `form:"year"`
	ProjectID   *uint                 `form:"project_id"`
	EventID     *uint                 `form:"event_id"`
	IsPublic    *bool                 `form:"is_public"`
	IsFeatured  bool                  `form:"is_featured"`
	File        *multipart.FileHeader `form:"file"`
	// Data carries a base64 or data URL payload instead of a file.
	Data string `form:"data"`
}

// UploadGalleryItem stores a multipart file, or an inline data URL, and
// creates its gallery item.
func (h *HTTPHandler) UploadGalleryItem(c *gin.Context) {
	var form galleryUploadForm
	if err := c.ShouldBind(&form); err != nil {
		InvalidPayload(c, nil)
		return
	}
	if form.File == nil && strings.TrimSpace(form.Data) == "" {
		MissingField(c, "file")
		return
	}

	item := &db.GalleryItem{
		Title:       strings.TrimSpace(form.Title),
		Description: form.Description,
		MediaType:   strings.TrimSpace(form.MediaType),
		URL:         strings.TrimSpace(form.URL),
		Tags:        form.Tags,
		Year:        form.Year,
		ProjectID:   form.ProjectID,
		EventID:     form.EventID,
		IsPublic:    true,
		IsFeatured:  form.IsFeatured,
	}
	if form.IsPublic != nil {
		item.IsPublic = *form.IsPublic
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var (
		created *db.GalleryItem
		err     error
	)
	if form.File != nil {
		file, openErr := form.File.Open()
		if openErr != nil {
			BadRequest(c, ErrCodeInvalidRequest, "failed to read uploaded file")
			return
		}
		defer file.Close()
		created, err = h.svc.Gallery.Upload(ctx, CurrentViewer(c), item, form.File.Filename, file)
	} else {
		created, err = h.svc.Gallery.UploadDataURL(ctx, CurrentViewer(c), item, form.Data)
	}
	if err != nil {
		respondError(c, err, "failed to upload gallery item")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HTTPHandler) DeleteGalleryItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Gallery.Delete(ctx, CurrentViewer(c), id); err != nil {
		respondError(c, err, "failed to delete gallery item")
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadBranding replaces the site logo or favicon. The form carries the
// target field and the file.
func (h *HTTPHandler) UploadBranding(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	file, err := header.Open()
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "failed to read uploaded file")
		return
	}
	defer file.Close()

	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := h.svc.Settings.UploadBranding(ctx, CurrentViewer(c), c.PostForm("field"), header.Filename, file)
	if err != nil {
		respondError(c, err, "failed to upload branding")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ServeMedia streams a stored file from the local media root. Paths that
// try to leave the root answer 404.
func (h *HTTPHandler) ServeMedia(c *gin.Context) {
	if h.mediaRoot == "" {
		NotFound(c, "media not found")
		return
	}
	clean, ok := storage.CleanMediaPath(strings.TrimPrefix(c.Param("path"), "/"))
	if !ok {
		NotFound(c, "media not found")
		return
	}
	full := filepath.Join(h.mediaRoot, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("path", clean).Warn("failed to stat media file")
		}
		NotFound(c, "media not found")
		return
	}
	c.File(full)
}
