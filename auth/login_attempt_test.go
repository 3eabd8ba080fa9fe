package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAttemptStoreSuite(t *testing.T, store LoginAttemptStore) {
	ctx := context.Background()

	attempts, err := store.GetAttempts(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, attempts)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.IncrementAttempts(ctx, "alice", time.Minute))
	}

	attempts, err = store.GetAttempts(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	locked, err := store.IsLocked(ctx, "alice", 3)
	require.NoError(t, err)
	assert.True(t, locked)

	locked, err = store.IsLocked(ctx, "alice", 5)
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, store.ResetAttempts(ctx, "alice"))
	attempts, err = store.GetAttempts(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, attempts)
}

func TestMemoryLoginAttemptStore(t *testing.T) {
	store := NewMemoryLoginAttemptStore()
	defer store.Close()
	runAttemptStoreSuite(t, store)
}

func TestMemoryLoginAttemptStoreExpiry(t *testing.T) {
	store := NewMemoryLoginAttemptStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.IncrementAttempts(ctx, "bob", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	attempts, err := store.GetAttempts(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, attempts)
}

func TestRedisLoginAttemptStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisLoginAttemptStore(client, "auth:login_attempt:")
	runAttemptStoreSuite(t, store)
}

func TestRedisLoginAttemptStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisLoginAttemptStore(client, "auth:login_attempt:")
	ctx := context.Background()

	require.NoError(t, store.IncrementAttempts(ctx, "bob", time.Second))
	mr.FastForward(2 * time.Second)

	attempts, err := store.GetAttempts(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, attempts)
}
