package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"agcbo/internal/auth"
	"agcbo/internal/config"
	"agcbo/internal/entity/db"
	"agcbo/internal/export"
	"agcbo/internal/model"
	"agcbo/internal/service"
	"agcbo/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "Kiambu#2024"

type webEnv struct {
	store  *model.Store
	router *gin.Engine
}

func newWebEnv(t *testing.T) *webEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := model.OpenSQLite(fmt.Sprintf("file:web_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewManager("test-secret", "agcbo-test", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	svc := service.NewServices(store, tokens, auth.NewMemoryTokenStore(), storage.NewUploader(local, 1<<20, "/media"))

	handler, err := NewHandler(config.Config{
		SecretKey:            "web-test-secret-key-0123456789abcdef",
		SessionName:          "agcbo_test",
		SessionMaxAgeSeconds: 3600,
		StoragePublicBaseURL: "/media",
	}, svc)
	require.NoError(t, err)

	router := gin.New()
	handler.Register(router)
	return &webEnv{store: store, router: router}
}

func (e *webEnv) account(t *testing.T, username, role string, gateOpen bool) *db.Account {
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

// browser keeps cookies between requests the way a real client would.
type browser struct {
	env     *webEnv
	cookies map[string]*http.Cookie
}

func (e *webEnv) browser() *browser {
	return &browser{env: e, cookies: map[string]*http.Cookie{}}
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.env.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return b.send(httptest.NewRequest(http.MethodGet, path, nil))
}

// post submits a form, echoing the CSRF cookie unless the caller already
// set csrf_token.
func (b *browser) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	if _, ok := b.cookies[csrfCookieName]; !ok {
		b.get(t, "/login")
	}
	if form == nil {
		form = url.Values{}
	}
	if _, ok := form[csrfFormField]; !ok {
		form.Set(csrfFormField, b.cookies[csrfCookieName].Value)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browser) login(t *testing.T, username string) *httptest.ResponseRecorder {
	t.Helper()
	return b.post(t, "/login", url.Values{"username": {username}, "password": {testPassword}})
}

func TestPublicPagesRender(t *testing.T) {
	env := newWebEnv(t)
	b := env.browser()

	for _, path := range []string{"/", "/about", "/officials", "/youth-jobs", "/contact", "/projects", "/events", "/gallery", "/sports", "/reports", "/login", "/register", "/register/donor", "/register/county-official"} {
		w := b.get(t, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "<main", path)
	}
}

func TestUnknownSlugRendersNotFound(t *testing.T) {
	env := newWebEnv(t)
	w := env.browser().get(t, "/projects/does-not-exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "does not exist")
}

func TestManageRequiresLogin(t *testing.T) {
	env := newWebEnv(t)
	w := env.browser().get(t, "/manage/")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape("/manage/"), w.Header().Get("Location"))
}

func TestManageRejectsNonStaff(t *testing.T) {
	env := newWebEnv(t)
	env.account(t, "wanjiku", db.RoleMember, true)
	b := env.browser()

	w := b.login(t, "wanjiku")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = b.get(t, "/manage/")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestPostWithoutCSRFTokenIsForbidden(t *testing.T) {
	env := newWebEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	b := env.browser()

	w := b.post(t, "/login", url.Values{"username": {"admin"}, "password": {testPassword}, csrfFormField: {"forged"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFHeaderIsAccepted(t *testing.T) {
	env := newWebEnv(t)
	b := env.browser()
	b.get(t, "/contact")

	form := url.Values{"name": {"Njeri"}, "email": {"njeri@example.org"}, "subject": {"Hello"}, "message": {"Karibu"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(csrfHeaderName, b.cookies[csrfCookieName].Value)
	w := b.send(req)
	assert.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
}

func TestLoginStartsSessionAndLogoutEndsIt(t *testing.T) {
	env := newWebEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	b := env.browser()

	w := b.login(t, "admin")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/manage/", w.Header().Get("Location"))

	w = b.get(t, "/manage/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pending members")

	w = b.post(t, "/logout", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = b.get(t, "/")
	assert.Contains(t, w.Body.String(), "You have been signed out.")
	w = b.get(t, "/manage/")
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLoginHonoursLocalNextOnly(t *testing.T) {
	env := newWebEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)

	b := env.browser()
	w := b.post(t, "/login", url.Values{"username": {"admin"}, "password": {testPassword}, "next": {"/manage/users"}})
	assert.Equal(t, "/manage/users", w.Header().Get("Location"))

	b = env.browser()
	w = b.post(t, "/login", url.Values{"username": {"admin"}, "password": {testPassword}, "next": {"//evil.example"}})
	assert.Equal(t, "/manage/", w.Header().Get("Location"))
}

func TestLoginRefusesClosedGates(t *testing.T) {
	env := newWebEnv(t)
	env.account(t, "pending", db.RoleMember, false)
	env.account(t, "official", db.RoleCountyOfficial, false)

	w := env.browser().login(t, "pending")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "awaiting approval")

	w = env.browser().login(t, "official")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.browser().post(t, "/login", url.Values{"username": {"nobody"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password.")
}

func TestApprovalFlowThroughPanel(t *testing.T) {
	env := newWebEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	member := env.account(t, "kamau", db.RoleMember, false)

	admin := env.browser()
	admin.login(t, "admin")

	w := admin.get(t, "/manage/approvals?role=member")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kamau")

	w = admin.post(t, fmt.Sprintf("/manage/accounts/%d/approve", member.ID), nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/manage/approvals?role=member", w.Header().Get("Location"))

	w = admin.get(t, "/manage/approvals?role=member")
	assert.NotContains(t, w.Body.String(), "kamau")

	w = admin.get(t, "/manage/audit")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Approve")

	w = env.browser().login(t, "kamau")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestVerifyOnNonOfficialIsNotFound(t *testing.T) {
	env := newWebEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	donor := env.account(t, "donor", db.RoleDonor, false)

	b := env.browser()
	b.login(t, "admin")
	w := b.post(t, fmt.Sprintf("/manage/accounts/%d/verify", donor.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDonorRegistrationCreatesPendingAccount(t *testing.T) {
	env := newWebEnv(t)
	b := env.browser()

	w := b.post(t, "/register/donor", url.Values{
		"username":          {"sponsor1"},
		"email":             {"sponsor1@example.org"},
		"organization_name": {"Kiambu Growers"},
		"phone_number":      {"0712345678"},
		"password":          {testPassword},
		"password_confirm":  {testPassword},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/register/success?kind=donor", w.Header().Get("Location"))

	account, err := env.store.GetAccountByLogin(context.Background(), "sponsor1")
	require.NoError(t, err)
	assert.Equal(t, db.RoleDonor, account.Role)
	assert.False(t, account.IsApproved)

	w = b.login(t, "sponsor1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegistrationShowsFieldErrors(t *testing.T) {
	env := newWebEnv(t)
	w := env.browser().post(t, "/register/donor", url.Values{"username": {"x"}, "password": {"a"}, "password_confirm": {"b"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `class="error"`)
	assert.NotContains(t, w.Body.String(), `value="a"`)
}

func TestPanelCreatesAnnouncement(t *testing.T) {
	env := newWebEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	b := env.browser()
	b.login(t, "admin")

	w := b.post(t, "/manage/announcements", url.Values{"content": {"<p>Clean-up on Saturday</p>"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "this field is required")

	w = b.post(t, "/manage/announcements", url.Values{
		"title":        {"Clean-up day"},
		"content":      {"<p>Clean-up on Saturday</p>"},
		"is_published": {"true"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	w = b.get(t, "/manage/announcements")
	assert.Contains(t, w.Body.String(), "Clean-up day")

	w = env.browser().get(t, "/")
	assert.Contains(t, w.Body.String(), "Clean-up day")
}

func TestExportAccountsSpreadsheet(t *testing.T) {
	env := newWebEnv(t)
	env.account(t, "admin", db.RoleAdmin, true)
	env.account(t, "wanjiru", db.RoleMember, true)
	b := env.browser()
	b.login(t, "admin")

	w := b.get(t, "/manage/export/accounts.xlsx?role=member")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "accounts")
	assert.NotZero(t, w.Body.Len())
}

func TestWardLookup(t *testing.T) {
	env := newWebEnv(t)
	require.NoError(t, model.SeedGeography(context.Background(), env.store))
	constituencies, err := env.store.ListConstituencies(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, constituencies)

	w := env.browser().get(t, fmt.Sprintf("/ajax/wards?constituency_id=%d", constituencies[0].ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name"`)

	w = env.browser().get(t, "/ajax/wards?constituency_id=abc")
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}
