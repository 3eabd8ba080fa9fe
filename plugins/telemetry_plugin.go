package plugins

import (
	"context"

	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/telemetry"
)

// Telemetry 遥测插件，绑定已启动的 *telemetry.Manager
//
// 配置从 loader 的 "telemetry" 键读取；未启用时 Start 为 no-op，
// Tracer / Meter 回退全局 provider。mock 变体绑定禁用态管理器。
func Telemetry() container.Plugin {
	return container.Plugin{
		Name: "telemetry",
		Setup: func(c *container.BasicContainer) {
			c.Bind(IDTelemetry, container.Def{
				Dependencies: []container.Dependency{
					container.OptionalDep(IDConfig),
					container.OptionalDep(IDLogger),
				},
				Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
					cfg := telemetry.DefaultConfig()
					if v, ok := deps.Get(IDConfig); ok && v != nil {
						loader := v.(*config.Loader)
						if err := loader.UnmarshalKey("telemetry", &cfg); err != nil {
							return nil, err
						}
					}
					if err := cfg.Validate(); err != nil {
						return nil, err
					}

					m := telemetry.NewManager(cfg, moduleLogger(deps, "telemetry"))
					if err := m.Start(context.Background()); err != nil {
						return nil, err
					}
					return m, nil
				},
				Meta: pluginMeta("telemetry"),
			})
		},
		Variants: map[string]container.SetupFunc{
			container.MockVariant: func(c *container.BasicContainer) {
				c.Bind(IDTelemetry, container.Def{
					Dependencies: []container.Dependency{container.OptionalDep(IDLogger)},
					Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
						cfg := telemetry.DefaultConfig()
						cfg.Enabled = false
						return telemetry.NewManager(cfg, moduleLogger(deps, "telemetry")), nil
					},
					Meta: pluginMeta("telemetry"),
				})
			},
		},
	}
}
