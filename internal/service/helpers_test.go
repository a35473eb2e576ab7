package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/auth"
	"agcbo/internal/entity/db"
	"agcbo/internal/model"
	"agcbo/internal/storage"

	"github.com/stretchr/testify/require"
)

const testPassword = "Kiambu#2024"

type testEnv struct {
	store *model.Store
	svc   *Services
	media *storage.Uploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := model.OpenSQLite(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	media := storage.NewUploader(local, 1<<20, "/media")

	tokens, err := auth.NewManager("test-secret", "agcbo-test", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	return &testEnv{
		store: store,
		svc:   NewServices(store, tokens, auth.NewMemoryTokenStore(), media),
		media: media,
	}
}

// account inserts an account directly with the given role and gate state.
func (e *testEnv) account(t *testing.T, username, role string, gateOpen bool) *db.Account {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	account := &db.Account{
		Username:     username,
		Email:        username + "@example.org",
		PasswordHash: hash,
		FirstName:    strings.ToUpper(username[:1]) + username[1:],
		Role:         role,
		IsActive:     true,
		IsApproved:   gateOpen,
		IsVerified:   gateOpen,
	}
	require.NoError(t, e.store.CreateAccount(context.Background(), account))
	return account
}

func (e *testEnv) staff(t *testing.T) access.Viewer {
	t.Helper()
	return access.FromAccount(e.account(t, "admin", db.RoleAdmin, true), "127.0.0.1")
}

func (e *testEnv) member(t *testing.T, username string) access.Viewer {
	t.Helper()
	return access.FromAccount(e.account(t, username, db.RoleMember, true), "127.0.0.1")
}

// wards seeds two constituencies with one ward each.
func (e *testEnv) wards(t *testing.T) (first, second *db.Ward) {
	t.Helper()
	ctx := context.Background()
	a, err := e.store.EnsureConstituency(ctx, "Gatundu North", 1)
	require.NoError(t, err)
	b, err := e.store.EnsureConstituency(ctx, "Juja", 2)
	require.NoError(t, err)
	first, err = e.store.EnsureWard(ctx, a.ID, "Gituamba", 1)
	require.NoError(t, err)
	second, err = e.store.EnsureWard(ctx, b.ID, "Kalimoni", 1)
	require.NoError(t, err)
	return first, second
}

func (e *testEnv) auditCount(t *testing.T, action string, targetID uint) int64 {
	t.Helper()
	var count int64
	err := e.store.DB.Model(&db.AuditLog{}).
		Where("action = ? AND target_id = ?", action, fmt.Sprint(targetID)).
		Count(&count).Error
	require.NoError(t, err)
	return count
}

func intPtr(v int) *int { return &v }
