package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/infrastructure/redis"
	"github.com/jhoicas/pdv-api/pkg/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client, err := redis.NewClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	_ = client.Close()

	// Addr() no es válido tras Close
	mr.Close()
	_, err = redis.NewClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Cache
// ─────────────────────────────────────────────────────────────────────────────

func TestCache_GetSetExpire(t *testing.T) {
	mr, client := newRedis(t)
	cache := redis.NewCache(client, "pdv:")
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "dashboard:c1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "dashboard:c1", []byte(`{"today_count":3}`), time.Minute))
	assert.True(t, mr.Exists("pdv:dashboard:c1"))

	raw, ok, err := cache.Get(ctx, "dashboard:c1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"today_count":3}`, string(raw))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "dashboard:c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Delete(t *testing.T) {
	_, client := newRedis(t)
	cache := redis.NewCache(client, "")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, cache.Delete(ctx, "k"))
	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

// ─────────────────────────────────────────────────────────────────────────────
// IdempotencyStore
// ─────────────────────────────────────────────────────────────────────────────

func TestIdempotencyStore_ReserveSaveLoad(t *testing.T) {
	mr, client := newRedis(t)
	store := redis.NewIdempotencyStore(client, "pdv:")
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "c1:u1:abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "c1:u1:abc")
	require.NoError(t, err)
	assert.False(t, ok, "segunda request concurrente no puede reservar")

	require.NoError(t, store.Save(ctx, "c1:u1:abc", []byte("resp"), time.Hour))
	assert.False(t, mr.Exists("pdv:idem:c1:u1:abc:lock"))

	raw, found, err := store.Load(ctx, "c1:u1:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "resp", string(raw))

	mr.FastForward(2 * time.Hour)
	_, found, err = store.Load(ctx, "c1:u1:abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIdempotencyStore_ReleaseAllowsRetry(t *testing.T) {
	_, client := newRedis(t)
	store := redis.NewIdempotencyStore(client, "")
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, "k"))
	ok, err = store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIdempotencyStore_LockExpires(t *testing.T) {
	mr, client := newRedis(t)
	store := redis.NewIdempotencyStore(client, "")
	ctx := context.Background()

	ok, _ := store.Reserve(ctx, "k")
	require.True(t, ok)
	mr.FastForward(31 * time.Second)
	ok, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
