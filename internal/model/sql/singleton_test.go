package sql_test

import (
	"context"
	"errors"
	"testing"

	"agcbo/internal/entity/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSingletonCreateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	settings := store.Tables.SiteSettings

	_, err := settings.Get(ctx)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	first := db.DefaultSiteSettings()
	require.NoError(t, settings.Create(ctx, &first))

	second := db.DefaultSiteSettings()
	second.SiteName = "Loser"
	require.NoError(t, settings.Create(ctx, &second))

	got, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AGCBO Digital Hub", got.SiteName)
	assert.Equal(t, db.SingletonID, got.ID)
}

func TestSingletonSaveForcesPrimaryKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	about := store.Tables.AboutPage

	page := db.DefaultAboutPage()
	page.ID = 7
	page.Mission = "Empower youth"
	require.NoError(t, about.Save(ctx, &page))
	assert.Equal(t, db.SingletonID, page.ID)

	page.ID = 9
	page.Vision = "Thriving communities"
	require.NoError(t, about.Save(ctx, &page))

	var count int64
	require.NoError(t, store.DB.Model(&db.AboutPage{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := about.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Thriving communities", got.Vision)
	assert.Equal(t, "Empower youth", got.Mission)
}
