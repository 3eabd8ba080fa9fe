package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-container/event"
	"github.com/KOMKZ/go-yogan-container/logger"
)

func newTestOrchestrator(t *testing.T, cfg *Config, dispatcher event.Dispatcher) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(cfg, dispatcher, logger.NewTestCtxLogger())
	o.RegisterStore("memory", NewMemoryStore("memory", 100))
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func userCacheConfig() *Config {
	return &Config{
		Enabled:      true,
		DefaultStore: "memory",
		Cacheables: []CacheableConfig{
			{Name: "user", KeyPattern: "user:{0}"},
		},
	}
}

func TestOrchestrator_CallCachesLoaderResult(t *testing.T) {
	o := newTestOrchestrator(t, userCacheConfig(), nil)

	var loads int32
	o.RegisterLoader("user", func(_ context.Context, args ...any) (any, error) {
		atomic.AddInt32(&loads, 1)
		return map[string]any{"id": args[0]}, nil
	})

	ctx := context.Background()
	first, err := o.Call(ctx, "user", "42")
	require.NoError(t, err)
	second, err := o.Call(ctx, "user", "42")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))

	stats := o.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestOrchestrator_DistinctArgsDistinctKeys(t *testing.T) {
	o := newTestOrchestrator(t, userCacheConfig(), nil)

	var loads int32
	o.RegisterLoader("user", func(_ context.Context, args ...any) (any, error) {
		atomic.AddInt32(&loads, 1)
		return args[0], nil
	})

	ctx := context.Background()
	a, err := o.Call(ctx, "user", "1")
	require.NoError(t, err)
	b, err := o.Call(ctx, "user", "2")
	require.NoError(t, err)

	assert.Equal(t, "1", a)
	assert.Equal(t, "2", b)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestOrchestrator_UnknownCacheableAndLoader(t *testing.T) {
	o := newTestOrchestrator(t, userCacheConfig(), nil)
	ctx := context.Background()

	_, err := o.Call(ctx, "missing", "1")
	assert.ErrorIs(t, err, ErrCacheableNotFound)

	_, err = o.Call(ctx, "user", "1")
	assert.ErrorIs(t, err, ErrLoaderNotFound)
}

func TestOrchestrator_DisabledBypassesCache(t *testing.T) {
	cfg := userCacheConfig()
	cfg.Enabled = false
	o := newTestOrchestrator(t, cfg, nil)

	var loads int32
	o.RegisterLoader("user", func(context.Context, ...any) (any, error) {
		atomic.AddInt32(&loads, 1)
		return "fresh", nil
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := o.Call(ctx, "user", "1")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&loads))
}

func TestOrchestrator_MissingStoreFallsBackToLoader(t *testing.T) {
	cfg := userCacheConfig()
	cfg.Cacheables[0].Store = "redis" // 未注册的后端
	o := newTestOrchestrator(t, cfg, nil)

	o.RegisterLoader("user", func(context.Context, ...any) (any, error) {
		return "direct", nil
	})

	value, err := o.Call(context.Background(), "user", "1")
	require.NoError(t, err)
	assert.Equal(t, "direct", value)
	assert.Equal(t, int64(1), o.Stats().Errors)
}

func TestOrchestrator_SingleflightCollapsesConcurrentLoads(t *testing.T) {
	o := newTestOrchestrator(t, userCacheConfig(), nil)

	var loads int32
	o.RegisterLoader("user", func(context.Context, ...any) (any, error) {
		atomic.AddInt32(&loads, 1)
		time.Sleep(50 * time.Millisecond)
		return "shared", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := o.Call(context.Background(), "user", "42")
			assert.NoError(t, err)
			assert.Equal(t, "shared", value)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestOrchestrator_Invalidate(t *testing.T) {
	o := newTestOrchestrator(t, userCacheConfig(), nil)

	var loads int32
	o.RegisterLoader("user", func(context.Context, ...any) (any, error) {
		atomic.AddInt32(&loads, 1)
		return "v", nil
	})

	ctx := context.Background()
	_, err := o.Call(ctx, "user", "1")
	require.NoError(t, err)

	require.NoError(t, o.Invalidate(ctx, "user", "1"))
	_, err = o.Call(ctx, "user", "1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
	assert.Equal(t, int64(1), o.Stats().Invalidates)
}

type userDeletedEvent struct {
	event.BaseEvent
	UserID string `json:"user_id"`
}

func (e *userDeletedEvent) CacheArgs() []any {
	return []any{e.UserID}
}

func TestOrchestrator_EventDrivenInvalidation(t *testing.T) {
	dispatcher := event.NewDispatcher(
		event.WithLogger(logger.NewTestCtxLogger()),
		event.WithForceSync(true),
	)
	defer dispatcher.Close()

	cfg := userCacheConfig()
	cfg.InvalidationRules = []InvalidationRule{
		{Event: "user.deleted", Invalidate: []string{"user"}},
	}
	o := newTestOrchestrator(t, cfg, dispatcher)

	var loads int32
	o.RegisterLoader("user", func(context.Context, ...any) (any, error) {
		atomic.AddInt32(&loads, 1)
		return "v", nil
	})

	ctx := context.Background()
	_, err := o.Call(ctx, "user", "7")
	require.NoError(t, err)

	// 事件携带 CacheArgs，精确失效 user:7
	require.NoError(t, dispatcher.Dispatch(ctx, &userDeletedEvent{
		BaseEvent: event.NewEvent("user.deleted"),
		UserID:    "7",
	}))

	_, err = o.Call(ctx, "user", "7")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestBuildKey(t *testing.T) {
	tests := []struct {
		pattern string
		args    []any
		want    string
	}{
		{"user:{0}", []any{42}, "user:42"},
		{"user:{0}:orders:{1}", []any{"a", "b"}, "user:a:orders:b"},
		{"search:{hash}", []any{"q", 1}, "search:q1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildKey(tt.pattern, tt.args...))
	}
}
