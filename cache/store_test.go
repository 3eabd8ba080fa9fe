package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	s := NewMemoryStore("l1", 100)
	defer s.Close()
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
	assert.True(t, s.Exists(ctx, "k"))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore("l1", 100)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	assert.False(t, s.Exists(ctx, "k"))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_DeleteByPrefix(t *testing.T) {
	s := NewMemoryStore("l1", 100)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user:1", []byte("a"), 0))
	require.NoError(t, s.Set(ctx, "user:2", []byte("b"), 0))
	require.NoError(t, s.Set(ctx, "order:1", []byte("c"), 0))

	require.NoError(t, s.DeleteByPrefix(ctx, "user:"))
	assert.False(t, s.Exists(ctx, "user:1"))
	assert.False(t, s.Exists(ctx, "user:2"))
	assert.True(t, s.Exists(ctx, "order:1"))
}

func TestMemoryStore_EvictsAtCapacity(t *testing.T) {
	s := NewMemoryStore("l1", 2)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, s.Set(ctx, "c", []byte("3"), 0))

	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Exists(ctx, "c"))
}

func newTestRedisStore(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore("redis", client, prefix), mr
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	s, _ := newTestRedisStore(t, "cache:")
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
	assert.True(t, s.Exists(ctx, "k"))

	require.NoError(t, s.Delete(ctx, "k"))
	assert.False(t, s.Exists(ctx, "k"))
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	s, mr := newTestRedisStore(t, "cache:")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user:1", []byte("v"), 0))
	assert.True(t, mr.Exists("cache:user:1"))
}

func TestRedisStore_DeleteByPrefix(t *testing.T) {
	s, _ := newTestRedisStore(t, "cache:")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user:1", []byte("a"), 0))
	require.NoError(t, s.Set(ctx, "user:2", []byte("b"), 0))
	require.NoError(t, s.Set(ctx, "order:1", []byte("c"), 0))

	require.NoError(t, s.DeleteByPrefix(ctx, "user:"))
	assert.False(t, s.Exists(ctx, "user:1"))
	assert.False(t, s.Exists(ctx, "user:2"))
	assert.True(t, s.Exists(ctx, "order:1"))
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	s, mr := newTestRedisStore(t, "")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestChainStore_BackfillsUpperLayers(t *testing.T) {
	l1 := NewMemoryStore("l1", 100)
	l2 := NewMemoryStore("l2", 100)
	chain := NewChainStore("chain", l1, l2)
	defer chain.Close()
	ctx := context.Background()

	// 只写入 L2，模拟 L1 失效后的状态
	require.NoError(t, l2.Set(ctx, "k", []byte("v"), 0))
	assert.False(t, l1.Exists(ctx, "k"))

	value, err := chain.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	// 命中 L2 后回填 L1
	assert.True(t, l1.Exists(ctx, "k"))
}

func TestChainStore_SetAndDeleteAllLayers(t *testing.T) {
	l1 := NewMemoryStore("l1", 100)
	l2 := NewMemoryStore("l2", 100)
	chain := NewChainStore("chain", l1, l2)
	defer chain.Close()
	ctx := context.Background()

	require.NoError(t, chain.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, l1.Exists(ctx, "k"))
	assert.True(t, l2.Exists(ctx, "k"))

	require.NoError(t, chain.Delete(ctx, "k"))
	assert.False(t, l1.Exists(ctx, "k"))
	assert.False(t, l2.Exists(ctx, "k"))

	_, err := chain.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
