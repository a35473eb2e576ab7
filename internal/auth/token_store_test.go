package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisTokenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-1", 9, time.Minute))
	active, err := store.Active(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, active)
	require.Equal(t, "9", mustGet(t, mr, refreshKeyPrefix+"jti-1"))

	require.NoError(t, store.Revoke(ctx, "jti-1"))
	active, err = store.Active(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, active)
}

func TestRedisTokenStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-2", 1, time.Minute))
	mr.FastForward(2 * time.Minute)

	active, err := store.Active(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, active)
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", 1, time.Minute))
	active, _ := store.Active(ctx, "a")
	require.True(t, active)

	now = now.Add(2 * time.Minute)
	active, _ = store.Active(ctx, "a")
	require.False(t, active)

	require.NoError(t, store.Save(ctx, "b", 1, time.Hour))
	require.NoError(t, store.Revoke(ctx, "b"))
	active, _ = store.Active(ctx, "b")
	require.False(t, active)

	active, _ = store.Active(ctx, "missing")
	require.False(t, active)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
