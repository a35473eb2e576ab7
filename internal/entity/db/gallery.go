package db

import (
	"time"

	"agcbo/internal/video"

	"gorm.io/gorm"
)

const (
	MediaImage = "image"
	MediaVideo = "video"
)

// GalleryItem is a photo or video. Videos may point at YouTube or Vimeo;
// EmbedURL is derived on load.
type GalleryItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Title        string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	MediaType    string    `gorm:"column:media_type;type:varchar(10);not null;default:image" json:"media_type"`
	File         string    `gorm:"column:file;type:varchar(500)" json:"file"`
	Thumbnail    string    `gorm:"column:thumbnail;type:varchar(500)" json:"thumbnail"`
	URL          string    `gorm:"column:url;type:varchar(500)" json:"url"`
	ProjectID    *uint     `gorm:"column:project_id;index" json:"project_id"`
	EventID      *uint     `gorm:"column:event_id;index" json:"event_id"`
	Year         *int      `gorm:"column:year;index" json:"year"`
	Tags         string    `gorm:"column:tags;type:varchar(500)" json:"tags"`
	UploadedByID *uint     `gorm:"column:uploaded_by_id" json:"uploaded_by_id"`
	IsFeatured   bool      `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	IsPublic     bool      `gorm:"column:is_public;index;not null" json:"is_public"`
	EmbedURL     string    `gorm:"-" json:"embed_url"`
	FileURL      string    `gorm:"-" json:"file_url"`
}

func (GalleryItem) TableName() string { return "gallery_items" }

func (g *GalleryItem) RecordID() uint              { return g.ID }
func (g *GalleryItem) SetRecordID(id uint)         { g.ID = id }
func (g *GalleryItem) Label() string               { return g.Title }
func (g *GalleryItem) SetCreatedBy(accountID uint) { g.UploadedByID = &accountID }

func (g *GalleryItem) ApplyDefaults() {
	g.MediaType = MediaImage
	g.IsPublic = true
}

func (g *GalleryItem) AfterFind(*gorm.DB) error {
	if g.MediaType == MediaVideo && g.URL != "" {
		g.EmbedURL = video.EmbedURL(g.URL)
	}
	return nil
}

// TagList splits the comma separated tags column.
func (g *GalleryItem) TagList() []string { return splitCSV(g.Tags) }
