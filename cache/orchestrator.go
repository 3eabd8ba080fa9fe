package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/KOMKZ/go-yogan-container/event"
	"github.com/KOMKZ/go-yogan-container/logger"
)

// CacheInvalidator 精确失效接口
// 事件实现该接口后，失效规则可从事件中提取 key 参数做精确失效：
// ArticleDeletedEvent 返回 []any{articleID}，即失效 "article:{articleID}"
type CacheInvalidator interface {
	CacheArgs() []any
}

// Orchestrator 缓存编排中心
//
// 读路径：查缓存 → 未命中走 singleflight 合并回源 → 回写缓存。
// 后端不可用或序列化失败时降级为直通加载器，错误只计数不向上抛。
type Orchestrator struct {
	config     *Config
	serializer Serializer
	dispatcher event.Dispatcher
	logger     logger.CtxLogger
	sf         singleflight.Group

	mu         sync.RWMutex
	stores     map[string]Store
	loaders    map[string]LoaderFunc
	cacheables map[string]*CacheableConfig

	hits        int64
	misses      int64
	invalidates int64
	errors      int64
}

// NewOrchestrator 创建编排中心
// dispatcher 可为 nil（不订阅失效事件）；log 为 nil 时使用 cache 模块日志
func NewOrchestrator(cfg *Config, dispatcher event.Dispatcher, log logger.CtxLogger) *Orchestrator {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetLogger("cache")
	}

	o := &Orchestrator{
		config:     cfg,
		serializer: NewJSONSerializer(),
		dispatcher: dispatcher,
		logger:     log,
		stores:     make(map[string]Store),
		loaders:    make(map[string]LoaderFunc),
		cacheables: make(map[string]*CacheableConfig),
	}
	for i := range cfg.Cacheables {
		c := &cfg.Cacheables[i]
		o.cacheables[c.Name] = c
	}

	if dispatcher != nil {
		o.subscribeInvalidationEvents()
	}
	return o
}

// SetSerializer 替换序列化器（默认 JSON）
func (o *Orchestrator) SetSerializer(s Serializer) {
	o.serializer = s
}

// RegisterLoader 注册数据加载器
func (o *Orchestrator) RegisterLoader(name string, loader LoaderFunc) {
	o.mu.Lock()
	o.loaders[name] = loader
	o.mu.Unlock()
	o.logger.DebugCtx(context.Background(), "缓存加载器已注册", zap.String("name", name))
}

// RegisterStore 注册存储后端
func (o *Orchestrator) RegisterStore(name string, store Store) {
	o.mu.Lock()
	o.stores[name] = store
	o.mu.Unlock()
	o.logger.DebugCtx(context.Background(), "缓存后端已注册", zap.String("name", name))
}

// GetStore 按名称取存储后端
func (o *Orchestrator) GetStore(name string) (Store, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	store, ok := o.stores[name]
	if !ok {
		return nil, ErrStoreNotFound.WithMsgf("存储后端未注册: %s", name)
	}
	return store, nil
}

// Call 执行缓存调用
// name 为缓存项名，args 填充 key 模板并透传给加载器
func (o *Orchestrator) Call(ctx context.Context, name string, args ...any) (any, error) {
	o.mu.RLock()
	config, ok := o.cacheables[name]
	loader, hasLoader := o.loaders[name]
	o.mu.RUnlock()

	if !ok {
		return nil, ErrCacheableNotFound.WithMsgf("缓存项未配置: %s", name)
	}
	if !hasLoader {
		return nil, ErrLoaderNotFound.WithMsgf("加载器未注册: %s", name)
	}
	if !o.config.Enabled || config.Disabled {
		return loader(ctx, args...)
	}

	store, err := o.getStoreForCacheable(config)
	if err != nil {
		// 后端不可用：降级直通加载器
		atomic.AddInt64(&o.errors, 1)
		o.logger.WarnCtx(ctx, "缓存后端不可用，降级直通加载器",
			zap.String("name", name), zap.Error(err))
		return loader(ctx, args...)
	}

	key := buildKey(config.KeyPattern, args...)

	if value, ok := o.readCache(ctx, store, key); ok {
		atomic.AddInt64(&o.hits, 1)
		o.logger.DebugCtx(ctx, "缓存命中", zap.String("name", name), zap.String("key", key))
		return value, nil
	}

	atomic.AddInt64(&o.misses, 1)
	o.logger.DebugCtx(ctx, "缓存未命中", zap.String("name", name), zap.String("key", key))

	result, err, _ := o.sf.Do(key, func() (any, error) {
		// double-check：并发等待者进入时缓存可能已被首个回源者填充
		if value, ok := o.readCache(ctx, store, key); ok {
			return value, nil
		}

		result, err := loader(ctx, args...)
		if err != nil {
			return nil, err
		}

		data, serErr := o.serializer.Serialize(result)
		if serErr != nil {
			atomic.AddInt64(&o.errors, 1)
			o.logger.WarnCtx(ctx, "缓存序列化失败", zap.String("name", name), zap.Error(serErr))
			return result, nil
		}
		if setErr := store.Set(ctx, key, data, config.TTL); setErr != nil {
			atomic.AddInt64(&o.errors, 1)
			o.logger.WarnCtx(ctx, "缓存写入失败", zap.String("name", name), zap.Error(setErr))
		}
		return result, nil
	})
	return result, err
}

// readCache 读缓存并反序列化；反序列化失败按未命中处理
func (o *Orchestrator) readCache(ctx context.Context, store Store, key string) (any, bool) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var value any
	if err := o.serializer.Deserialize(data, &value); err != nil {
		atomic.AddInt64(&o.errors, 1)
		return nil, false
	}
	return value, true
}

// Invalidate 手动失效指定缓存项
func (o *Orchestrator) Invalidate(ctx context.Context, name string, args ...any) error {
	o.mu.RLock()
	config, ok := o.cacheables[name]
	o.mu.RUnlock()
	if !ok {
		return ErrCacheableNotFound.WithMsgf("缓存项未配置: %s", name)
	}

	store, err := o.getStoreForCacheable(config)
	if err != nil {
		return err
	}

	key := buildKey(config.KeyPattern, args...)
	if err := store.Delete(ctx, key); err != nil {
		return err
	}
	atomic.AddInt64(&o.invalidates, 1)
	o.logger.InfoCtx(ctx, "缓存已失效", zap.String("name", name), zap.String("key", key))
	return nil
}

// InvalidateByPrefix 按前缀批量失效
func (o *Orchestrator) InvalidateByPrefix(ctx context.Context, name, prefix string) error {
	o.mu.RLock()
	config, ok := o.cacheables[name]
	o.mu.RUnlock()
	if !ok {
		return ErrCacheableNotFound.WithMsgf("缓存项未配置: %s", name)
	}

	store, err := o.getStoreForCacheable(config)
	if err != nil {
		return err
	}
	if err := store.DeleteByPrefix(ctx, prefix); err != nil {
		return err
	}
	atomic.AddInt64(&o.invalidates, 1)
	o.logger.InfoCtx(ctx, "缓存已按前缀失效",
		zap.String("name", name), zap.String("prefix", prefix))
	return nil
}

// Stats 当前统计快照
func (o *Orchestrator) Stats() Stats {
	return Stats{
		Hits:        atomic.LoadInt64(&o.hits),
		Misses:      atomic.LoadInt64(&o.misses),
		Invalidates: atomic.LoadInt64(&o.invalidates),
		Errors:      atomic.LoadInt64(&o.errors),
	}
}

// Close 关闭全部已注册后端
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, store := range o.stores {
		_ = store.Close()
	}
	return nil
}

func (o *Orchestrator) getStoreForCacheable(config *CacheableConfig) (Store, error) {
	name := config.Store
	if name == "" {
		name = o.config.DefaultStore
	}
	return o.GetStore(name)
}

// buildKey 按模板构造缓存 key：{0} {1} 取位置参数，{hash} 取参数拼接摘要
func buildKey(pattern string, args ...any) string {
	key := pattern
	for i, arg := range args {
		key = strings.ReplaceAll(key, fmt.Sprintf("{%d}", i), fmt.Sprintf("%v", arg))
	}
	if strings.Contains(key, "{hash}") {
		var sb strings.Builder
		for _, arg := range args {
			fmt.Fprintf(&sb, "%v", arg)
		}
		digest := sb.String()
		if len(digest) > 32 {
			digest = digest[:32]
		}
		key = strings.ReplaceAll(key, "{hash}", digest)
	}
	return key
}

// subscribeInvalidationEvents 按配置订阅失效事件
func (o *Orchestrator) subscribeInvalidationEvents() {
	for _, rule := range o.config.InvalidationRules {
		rule := rule
		o.dispatcher.Subscribe(rule.Event, o.invalidationHandler(rule))
		o.logger.DebugCtx(context.Background(), "已订阅失效事件", zap.String("event", rule.Event))
	}
}

func (o *Orchestrator) invalidationHandler(rule InvalidationRule) event.Listener {
	return event.ListenerFunc(func(ctx context.Context, e event.Event) error {
		for _, name := range rule.Invalidate {
			switch {
			case rule.Pattern != "":
				if err := o.InvalidateByPrefix(ctx, name, rule.Pattern); err != nil {
					o.logger.WarnCtx(ctx, "事件驱动批量失效失败",
						zap.String("cacheable", name),
						zap.String("pattern", rule.Pattern),
						zap.Error(err))
				}
			default:
				inv, ok := e.(CacheInvalidator)
				if !ok {
					o.logger.WarnCtx(ctx, "事件未实现 CacheInvalidator，无法精确失效",
						zap.String("event", e.Name()),
						zap.String("cacheable", name))
					continue
				}
				if err := o.Invalidate(ctx, name, inv.CacheArgs()...); err != nil {
					o.logger.WarnCtx(ctx, "事件驱动失效失败",
						zap.String("cacheable", name),
						zap.Error(err))
				}
			}
		}
		return nil
	})
}
