package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-container/logger"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	m, err := NewManager(map[string]Config{
		"main": {Addrs: []string{mr.Addr()}},
	}, logger.NewTestCtxLogger())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m, mr
}

func TestNewManagerNilLogger(t *testing.T) {
	_, err := NewManager(nil, nil)
	assert.ErrorContains(t, err, "logger cannot be nil")
}

func TestNewManagerInvalidConfig(t *testing.T) {
	_, err := NewManager(map[string]Config{
		"broken": {Mode: "sentinel", Addrs: []string{"x:1"}},
	}, logger.NewTestCtxLogger())
	assert.ErrorContains(t, err, `invalid redis config "broken"`)
}

func TestNewManagerUnreachable(t *testing.T) {
	_, err := NewManager(map[string]Config{
		"down": {Addrs: []string{"127.0.0.1:1"}},
	}, logger.NewTestCtxLogger())
	assert.ErrorContains(t, err, `connect redis "down"`)
}

func TestManagerClient(t *testing.T) {
	m, _ := newTestManager(t)

	client := m.Client("main")
	require.NotNil(t, client)

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	val, err := client.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	assert.Nil(t, m.Client("missing"))
	assert.Nil(t, m.Cluster("main"))
}

func TestManagerWithDB(t *testing.T) {
	m, mr := newTestManager(t)

	other := m.WithDB("main", 2)
	require.NotNil(t, other)
	defer other.Close()

	ctx := context.Background()
	require.NoError(t, other.Set(ctx, "scoped", "1", 0).Err())

	// The key lives in DB 2 only.
	mr.DB(2)
	assert.True(t, mr.DB(2).Exists("scoped"))
	assert.False(t, mr.DB(0).Exists("scoped"))

	assert.Nil(t, m.WithDB("missing", 1))
}

func TestManagerPing(t *testing.T) {
	m, mr := newTestManager(t)

	ctx := context.Background()
	require.NoError(t, m.Ping(ctx))

	mr.Close()
	assert.Error(t, m.Ping(ctx))
}

func TestManagerInstanceNames(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Equal(t, []string{"main"}, m.InstanceNames())
}
