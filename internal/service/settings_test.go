package service

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"agcbo/internal/entity/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// racingSingleton reports "not found" to every reader until the first
// create lands, so concurrent callers all attempt the insert.
type racingSingleton struct {
	mu      sync.Mutex
	gate    chan struct{}
	stored  *db.SiteSettings
	creates int
}

func (r *racingSingleton) Get(context.Context) (*db.SiteSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r.stored
	return &copied, nil
}

func (r *racingSingleton) Create(_ context.Context, record *db.SiteSettings) error {
	<-r.gate
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.stored != nil {
		return gorm.ErrDuplicatedKey
	}
	record.ID = 1
	copied := *record
	r.stored = &copied
	return nil
}

func (r *racingSingleton) Save(_ context.Context, record *db.SiteSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	r.stored = &copied
	return nil
}

func TestLoadSingletonConcurrentFirstAccess(t *testing.T) {
	repo := &racingSingleton{gate: make(chan struct{})}
	const callers = 8

	var wg sync.WaitGroup
	results := make([]*db.SiteSettings, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = loadSingleton[db.SiteSettings](context.Background(), repo, db.DefaultSiteSettings)
		}(i)
	}
	close(repo.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.EqualValues(t, 1, results[i].ID)
	}
	assert.Positive(t, repo.creates)
}

func TestSettingsSingletonOnDatabase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Settings.Settings(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var count int64
	require.NoError(t, env.store.DB.Model(&db.SiteSettings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSaveSettingsRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Settings.SaveSettings(ctx, env.member(t, "kamau"), []byte(`{"site_name":"Other"}`))
	assert.ErrorIs(t, err, ErrForbidden)

	staff := env.staff(t)
	saved, err := env.svc.Settings.SaveSettings(ctx, staff, []byte(`{"site_name":"AGCBO Hub"}`))
	require.NoError(t, err)
	assert.Equal(t, "AGCBO Hub", saved.SiteName)

	_, err = env.svc.Settings.SaveSettings(ctx, staff, []byte(`{"site_name":"  "}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "site_name")
}

func TestSaveAboutSanitisesRichText(t *testing.T) {
	env := newTestEnv(t)
	staff := env.staff(t)

	about, err := env.svc.Settings.SaveAbout(context.Background(), staff, []byte(`{"mission":"<p>Serve</p><script>alert(1)</script>"}`))
	require.NoError(t, err)
	assert.Contains(t, about.Mission, "<p>Serve</p>")
	assert.NotContains(t, about.Mission, "<script>")
}

func TestUploadBrandingReplacesLogo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)
	png := []byte("\x89PNG\r\n\x1a\nlogo")

	first, err := env.svc.Settings.UploadBranding(ctx, staff, "logo", "logo.png", bytes.NewReader(png))
	require.NoError(t, err)
	assert.Contains(t, first.Logo, "branding/")

	second, err := env.svc.Settings.UploadBranding(ctx, staff, "logo", "logo.png", bytes.NewReader(png))
	require.NoError(t, err)
	assert.NotEqual(t, first.Logo, second.Logo)

	_, err = env.svc.Settings.UploadBranding(ctx, staff, "banner", "logo.png", bytes.NewReader(png))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = env.svc.Settings.UploadBranding(ctx, staff, "favicon", "icon.exe", bytes.NewReader(png))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "file")
}
