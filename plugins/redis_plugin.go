package plugins

import (
	"fmt"

	"github.com/alicebob/miniredis/v2"

	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/redis"
)

// Redis Redis 插件，绑定 *redis.Manager
//
// 实例配置从 loader 的 "redis.instances" 键读取（键为实例名）。
// mock 变体内嵌 miniredis：IDRedis 绑定指向内存服务的单实例管理器，
// IDRedisMock 绑定 *miniredis.Miniredis 供测试 FastForward / 断言。
func Redis() container.Plugin {
	return container.Plugin{
		Name: "redis",
		Setup: func(c *container.BasicContainer) {
			c.Bind(IDRedis, container.Def{
				Dependencies: []container.Dependency{
					container.Dep(IDConfig),
					container.OptionalDep(IDLogger),
				},
				Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
					loader := deps.At(0).(*config.Loader)

					var configs map[string]redis.Config
					if err := loader.UnmarshalKey("redis.instances", &configs); err != nil {
						return nil, err
					}
					if len(configs) == 0 {
						return nil, fmt.Errorf("redis: 未配置任何实例")
					}
					return redis.NewManager(configs, moduleLogger(deps, "redis"))
				},
				Meta: pluginMeta("redis"),
			})
		},
		Variants: map[string]container.SetupFunc{
			container.MockVariant: func(c *container.BasicContainer) {
				c.Bind(IDRedisMock, container.Def{
					Provide: func(container.Resolver, container.Deps) (any, error) {
						return miniredis.Run()
					},
					Meta: pluginMeta("redis"),
				})
				c.Bind(IDRedis, container.Def{
					Dependencies: []container.Dependency{
						container.Dep(IDRedisMock),
						container.OptionalDep(IDLogger),
					},
					Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
						mr := deps.At(0).(*miniredis.Miniredis)
						configs := map[string]redis.Config{
							"main": {Addr: mr.Addr()},
						}
						return redis.NewManager(configs, moduleLogger(deps, "redis"))
					},
					Meta: pluginMeta("redis"),
				})
			},
		},
	}
}
