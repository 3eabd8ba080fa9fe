package plugins

import (
	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/limiter"
)

// Limiter 限流插件，绑定 *limiter.Manager
//
// 配置从 loader 的 "limiter" 键读取，未配置时限流器处于关闭态，
// 所有请求放行。令牌桶本身是进程内存实现，无外部资源，故不设
// mock 变体，mock 模式下沿用主实现。
func Limiter() container.Plugin {
	return container.Plugin{
		Name: "limiter",
		Setup: func(c *container.BasicContainer) {
			c.Bind(IDLimiter, container.Def{
				Dependencies: []container.Dependency{container.Dep(IDConfig)},
				Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
					loader := deps.At(0).(*config.Loader)

					cfg := limiter.DefaultConfig()
					if err := loader.UnmarshalKey("limiter", &cfg); err != nil {
						return nil, err
					}
					return limiter.New(cfg)
				},
				Meta: pluginMeta("limiter"),
			})
		},
	}
}
