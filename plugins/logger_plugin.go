package plugins

import (
	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/logger"
)

// Logger 日志插件，绑定 *logger.Manager
//
// 配置从 loader 的 "logger" 键读取；配置插件未安装或键缺失时
// 使用默认配置。mock 变体只输出 console 且级别为 error，
// 测试目录不会产生日志文件。
func Logger() container.Plugin {
	return container.Plugin{
		Name: "logger",
		Setup: func(c *container.BasicContainer) {
			c.Bind(IDLogger, container.Def{
				Dependencies: []container.Dependency{container.OptionalDep(IDConfig)},
				Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
					if v, ok := deps.Get(IDConfig); ok && v != nil {
						loader := v.(*config.Loader)
						var cfg logger.ManagerConfig
						if err := loader.UnmarshalKey("logger", &cfg); err == nil && loader.IsSet("logger") {
							cfg.ApplyDefaults()
							return logger.NewManager(cfg), nil
						}
					}
					return logger.NewManager(logger.DefaultManagerConfig()), nil
				},
				Meta: pluginMeta("logger"),
			})
		},
		Variants: map[string]container.SetupFunc{
			container.MockVariant: func(c *container.BasicContainer) {
				c.Bind(IDLogger, container.Def{
					Provide: func(container.Resolver, container.Deps) (any, error) {
						cfg := logger.ManagerConfig{
							Level:         "error",
							Encoding:      "console",
							EnableConsole: true,
							EnableFile:    false,
						}
						cfg.ApplyDefaults()
						return logger.NewManager(cfg), nil
					},
					Meta: pluginMeta("logger"),
				})
			},
		},
	}
}
