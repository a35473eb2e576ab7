package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"agcbo/internal/auth"
	"agcbo/internal/config"
	"agcbo/internal/entity/db"
	"agcbo/internal/model"
	"agcbo/internal/service"
	"agcbo/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "Kiambu#2024"

type apiEnv struct {
	store    *model.Store
	router   *gin.Engine
	mediaDir string
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := model.OpenSQLite(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mediaDir := t.TempDir()
	local, err := storage.NewLocalStorage(mediaDir)
	require.NoError(t, err)
	tokens, err := auth.NewManager("test-secret", "agcbo-test", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	cfg := config.Config{Debug: true}
	svc := service.NewServices(store, tokens, auth.NewMemoryTokenStore(), storage.NewUploader(local, 1<<20, "/media"))
	handler, err := NewHTTPHandler(cfg, svc, local)
	require.NoError(t, err)

	router := gin.New()
	handler.Register(router)
	return &apiEnv{store: store, router: router, mediaDir: mediaDir}
}

func (e *apiEnv) account(t *testing.T, username, role string, gateOpen bool) *db.Account {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	account := &db.Account{
		Username:     username,
		Email:        username + "@example.org",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		IsApproved:   gateOpen,
		IsVerified:   gateOpen,
	}
	require.NoError(t, e.store.CreateAccount(context.Background(), account))
	return account
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *apiEnv) login(t *testing.T, username string) (access, refresh string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	return pair.Access, pair.Refresh
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type page struct {
	Items []map[string]interface{} `json:"items"`
	Meta  struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

func TestRegistrationGateOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	constituency, err := env.store.EnsureConstituency(ctx, "Gatundu North", 1)
	require.NoError(t, err)
	ward, err := env.store.EnsureWard(ctx, constituency.ID, "Gituamba", 1)
	require.NoError(t, err)
	env.account(t, "admin", db.RoleAdmin, true)
	staffToken, _ := env.login(t, "admin")

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":         "wanjiru",
		"email":            "wanjiru@example.org",
		"password":         testPassword,
		"password_confirm": testPassword,
		"id_number":        "12345678",
		"full_names_on_id": "Jane Wanjiru",
		"constituency_id":  constituency.ID,
		"ward_id":          ward.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		User struct {
			ID         uint `json:"id"`
			IsApproved bool `json:"is_approved"`
		} `json:"user"`
	}](t, w)
	assert.False(t, created.User.IsApproved)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "wanjiru", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, ErrCodeAccountPending, decode[APIError](t, w).Code)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/auth/users/%d/approve", created.User.ID), staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, refresh := env.login(t, "wanjiru")
	w = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "wanjiru", decode[map[string]interface{}](t, w)["username"])
	assert.Equal(t, "Gituamba", decode[map[string]interface{}](t, w)["ward_name"])

	w = env.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	rotated := decode[map[string]interface{}](t, w)["refresh"].(string)

	w = env.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a rotated refresh token must not be reusable")

	w = env.do(t, http.MethodPost, "/api/auth/logout", "", gin.H{"refresh": rotated})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh": rotated})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegistrationValidationDetails(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register/donor", "", gin.H{"username": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}](t, w)
	assert.Equal(t, ErrCodeValidation, resp.Code)
	assert.Contains(t, resp.Details, "password")
}

func TestGuards(t *testing.T) {
	env := newAPIEnv(t)
	env.account(t, "kamau", db.RoleMember, true)
	memberToken, _ := env.login(t, "kamau")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"anonymous write", http.MethodPost, "/api/projects", "", http.StatusUnauthorized},
		{"member write", http.MethodPost, "/api/projects", memberToken, http.StatusForbidden},
		{"member user list", http.MethodGet, "/api/auth/users", memberToken, http.StatusForbidden},
		{"anonymous me", http.MethodGet, "/api/auth/me", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/projects", "not-a-jwt", http.StatusUnauthorized},
		{"anonymous leaderboard", http.MethodGet, "/api/gamification/leaderboard/current", "", http.StatusUnauthorized},
		{"public read", http.MethodGet, "/api/projects", "", http.StatusOK},
		{"member contact list", http.MethodGet, "/api/contact", memberToken, http.StatusForbidden},
		{"bad id", http.MethodGet, "/api/projects/abc", "", http.StatusBadRequest},
		{"missing id", http.MethodGet, "/api/projects/999", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.token, gin.H{})
			if w.Code != tt.status {
				t.Errorf("%s %s = %d, want %d: %s", tt.method, tt.path, w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestProfileAcceptsCalendarDate(t *testing.T) {
	env := newAPIEnv(t)
	env.account(t, "wanjiru", db.RoleMember, true)
	token, _ := env.login(t, "wanjiru")

	w := env.do(t, http.MethodPatch, "/api/members/profiles/me", token, gin.H{"date_of_birth": "1990-05-01", "gender": "F"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode[map[string]interface{}](t, w)
	assert.Equal(t, "1990-05-01", profile["date_of_birth"])

	w = env.do(t, http.MethodPatch, "/api/members/profiles/me", token, gin.H{"date_of_birth": "May 1st"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[struct {
		Details map[string]string `json:"details"`
	}](t, w)
	assert.Contains(t, resp.Details, "date_of_birth")
}

func TestUnpublishedEventsHiddenFromPublic(t *testing.T) {
	env := newAPIEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	staffToken, _ := env.login(t, "admin")
	start := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)

	w := env.do(t, http.MethodPost, "/api/events", staffToken, gin.H{"title": "Draft meeting", "start_date": start})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	draft := decode[map[string]interface{}](t, w)
	assert.Equal(t, "draft-meeting", draft["slug"])

	w = env.do(t, http.MethodPost, "/api/events", staffToken, gin.H{"title": "Open day", "start_date": start, "is_published": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	public := decode[page](t, env.do(t, http.MethodGet, "/api/events", "", nil))
	require.Len(t, public.Items, 1)
	assert.Equal(t, "Open day", public.Items[0]["title"])

	all := decode[page](t, env.do(t, http.MethodGet, "/api/events", staffToken, nil))
	assert.EqualValues(t, 2, all.Meta.Total)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/events/%v", draft["id"]), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventRegistrationRulesOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	env.account(t, "kamau", db.RoleMember, true)
	env.account(t, "wanjiru", db.RoleMember, true)
	staffToken, _ := env.login(t, "admin")
	kamau, _ := env.login(t, "kamau")
	wanjiru, _ := env.login(t, "wanjiru")

	w := env.do(t, http.MethodPost, "/api/events", staffToken, gin.H{
		"title":            "Coding bootcamp",
		"start_date":       time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"max_participants": 1,
		"is_published":     true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	eventPath := fmt.Sprintf("/api/events/%v/register", decode[map[string]interface{}](t, w)["id"])

	w = env.do(t, http.MethodPost, eventPath, kamau, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, eventPath, kamau, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.RuleEventFull, decode[APIError](t, w).Code, "the full check runs before the duplicate check")

	w = env.do(t, http.MethodPost, eventPath, wanjiru, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.RuleEventFull, decode[APIError](t, w).Code)

	mine := decode[page](t, env.do(t, http.MethodGet, "/api/events/registrations", kamau, nil))
	assert.Len(t, mine.Items, 1)
	theirs := decode[page](t, env.do(t, http.MethodGet, "/api/events/registrations", wanjiru, nil))
	assert.Empty(t, theirs.Items)
}

func TestGalleryUploadAndMedia(t *testing.T) {
	env := newAPIEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	staffToken, _ := env.login(t, "admin")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("title", "Borehole launch"))
	part, err := form.CreateFormFile("file", "launch.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nimage-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/gallery/upload", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+staffToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[map[string]interface{}](t, w)
	fileURL, _ := item["file_url"].(string)
	require.True(t, strings.HasPrefix(fileURL, "/media/"), fileURL)

	w = env.do(t, http.MethodGet, fileURL, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "\x89PNG\r\n\x1a\nimage-bytes", w.Body.String())

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/gallery/%v", item["id"]), staffToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, fileURL, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGalleryUploadFromDataURL(t *testing.T) {
	env := newAPIEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	staffToken, _ := env.login(t, "admin")

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\ninline"))
	form := url.Values{"title": {"Tree planting"}, "data": {payload}}
	req := httptest.NewRequest(http.MethodPost, "/api/gallery/upload", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+staffToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[map[string]interface{}](t, w)
	fileURL, _ := item["file_url"].(string)
	assert.True(t, strings.HasSuffix(fileURL, ".png"), fileURL)

	w = env.do(t, http.MethodGet, fileURL, "", nil)
	assert.Equal(t, "\x89PNG\r\n\x1a\ninline", w.Body.String())
}

func TestMediaRejectsEscapes(t *testing.T) {
	env := newAPIEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.mediaDir, "gallery"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.mediaDir, "gallery", "a.txt"), []byte("ok"), 0o644))

	tests := []struct {
		path   string
		status int
	}{
		{"/media/gallery/a.txt", http.StatusOK},
		{"/media/gallery/../gallery/a.txt", http.StatusNotFound},
		{"/media//etc/passwd", http.StatusNotFound},
		{"/media/gallery", http.StatusNotFound},
		{"/media/missing.png", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.URL.Path = tt.path
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, w.Code, tt.status)
		}
	}
}

func TestContactFlow(t *testing.T) {
	env := newAPIEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	staffToken, _ := env.login(t, "admin")

	w := env.do(t, http.MethodPost, "/api/contact", "", gin.H{
		"name": "Jane", "email": "jane@example.org", "subject": "Volunteer", "message": "Count me in",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[map[string]interface{}](t, w)["id"]

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/contact/%v", id), staffToken, gin.H{"status": db.MessageRead})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	listed := decode[page](t, env.do(t, http.MethodGet, "/api/contact?status="+db.MessageRead, staffToken, nil))
	assert.EqualValues(t, 1, listed.Meta.Total)
}

func TestSettingsSingletonOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	staffToken, _ := env.login(t, "admin")

	w := env.do(t, http.MethodGet, "/api/site/settings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/api/site/settings", staffToken, gin.H{"site_name": "AGCBO Gatundu"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "AGCBO Gatundu", decode[map[string]interface{}](t, w)["site_name"])

	var rows int64
	require.NoError(t, env.store.DB.Model(&db.SiteSettings{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}
