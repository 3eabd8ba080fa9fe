package plugins

import (
	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
)

// Config 配置插件，装配约定数据源并绑定 *config.Loader
//
// configPath 指向配置目录（按 config.yaml / {env}.yaml 约定加载），
// envPrefix 为环境变量前缀，空串表示不读环境变量。
// mock 变体绑定无数据源的空加载器，测试不触碰文件系统。
func Config(configPath, envPrefix string) container.Plugin {
	return ConfigWithFlags(configPath, envPrefix, nil)
}

// ConfigWithFlags 配置插件的命令行参数形态
// flags 为带 config 标签的结构体（见 config.FlagSource），nil 表示无参数
func ConfigWithFlags(configPath, envPrefix string, flags any) container.Plugin {
	return container.Plugin{
		Name: "config",
		Setup: func(c *container.BasicContainer) {
			c.Bind(IDConfig, container.Def{
				Provide: func(container.Resolver, container.Deps) (any, error) {
					return config.NewLoaderBuilder().
						WithConfigPath(configPath).
						WithEnvPrefix(envPrefix).
						WithFlags(flags).
						Build()
				},
				Meta: pluginMeta("config"),
			})
		},
		Variants: map[string]container.SetupFunc{
			container.MockVariant: func(c *container.BasicContainer) {
				c.Use(ConfigValues(nil))
			},
		},
	}
}

// ConfigValues 以内存值装配配置插件
// 测试与嵌入式场景用它代替文件配置；values 可为 nil（空配置）
func ConfigValues(values map[string]any) container.Plugin {
	return container.Plugin{
		Name: "config",
		Setup: func(c *container.BasicContainer) {
			c.Bind(IDConfig, container.Def{
				Provide: func(container.Resolver, container.Deps) (any, error) {
					loader := config.NewLoader()
					if values != nil {
						loader.AddSource(config.NewValuesSource("values", values, config.PriorityFile))
					}
					if err := loader.Load(); err != nil {
						return nil, err
					}
					return loader, nil
				},
				Meta: pluginMeta("config"),
			})
		},
	}
}
