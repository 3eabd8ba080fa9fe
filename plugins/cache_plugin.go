package plugins

import (
	"fmt"

	"github.com/KOMKZ/go-yogan-container/cache"
	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/event"
	"github.com/KOMKZ/go-yogan-container/redis"
)

// Cache 缓存插件，绑定 *cache.Orchestrator
//
// 配置从 loader 的 "cache" 键读取，声明的存储后端逐个注册：
// memory 直接构建，redis 需要 Redis 插件已安装，chain 在其余
// 后端就绪后按层组装。事件插件已安装时订阅失效规则。
// mock 变体绑定单内存后端的编排中心。
func Cache() container.Plugin {
	return container.Plugin{
		Name: "cache",
		Setup: func(c *container.BasicContainer) {
			c.Bind(IDCache, container.Def{
				Dependencies: []container.Dependency{
					container.Dep(IDConfig),
					container.OptionalDep(IDLogger),
					container.OptionalDep(IDEvent),
					container.OptionalDep(IDRedis),
				},
				Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
					loader := deps.At(0).(*config.Loader)

					var cfg cache.Config
					if err := loader.UnmarshalKey("cache", &cfg); err != nil {
						return nil, err
					}

					var dispatcher event.Dispatcher
					if v, ok := deps.Get(IDEvent); ok && v != nil {
						dispatcher = v.(event.Dispatcher)
					}

					o := cache.NewOrchestrator(&cfg, dispatcher, moduleLogger(deps, "cache"))
					if err := registerStores(o, cfg, deps); err != nil {
						return nil, err
					}
					return o, nil
				},
				Meta: pluginMeta("cache"),
			})
		},
		Variants: map[string]container.SetupFunc{
			container.MockVariant: func(c *container.BasicContainer) {
				c.Bind(IDCache, container.Def{
					Dependencies: []container.Dependency{container.OptionalDep(IDLogger)},
					Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
						cfg := cache.Config{Enabled: true, DefaultStore: "memory"}
						o := cache.NewOrchestrator(&cfg, nil, moduleLogger(deps, "cache"))
						o.RegisterStore("memory", cache.NewMemoryStore("memory", 1024))
						return o, nil
					},
					Meta: pluginMeta("cache"),
				})
			},
		},
	}
}

// registerStores 按配置注册存储后端，chain 依赖其余后端先行就绪
func registerStores(o *cache.Orchestrator, cfg cache.Config, deps container.Deps) error {
	chains := make(map[string]cache.StoreConfig)

	for name, sc := range cfg.Stores {
		switch sc.Type {
		case "memory":
			o.RegisterStore(name, cache.NewMemoryStore(name, sc.MaxSize))
		case "redis":
			v, ok := deps.Get(IDRedis)
			if !ok || v == nil {
				return fmt.Errorf("cache: 后端 %s 需要 redis 插件", name)
			}
			mgr := v.(*redis.Manager)
			client := mgr.Client(sc.Instance)
			if client == nil {
				return fmt.Errorf("cache: redis 实例 %s 不存在", sc.Instance)
			}
			o.RegisterStore(name, cache.NewRedisStore(name, client, sc.KeyPrefix))
		case "chain":
			chains[name] = sc
		default:
			return fmt.Errorf("cache: 未知后端类型 %s", sc.Type)
		}
	}

	for name, sc := range chains {
		layers := make([]cache.Store, 0, len(sc.Layers))
		for _, layerName := range sc.Layers {
			layer, err := o.GetStore(layerName)
			if err != nil {
				return fmt.Errorf("cache: 链 %s 的层 %s 未注册: %w", name, layerName, err)
			}
			layers = append(layers, layer)
		}
		o.RegisterStore(name, cache.NewChainStore(name, layers...))
	}
	return nil
}
