package plugins

import (
	"fmt"

	gormlogger "gorm.io/gorm/logger"

	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/database"
	"github.com/KOMKZ/go-yogan-container/logger"
)

// Database 数据库插件，绑定 *database.Manager
//
// 连接配置从 loader 的 "database.connections" 键读取（键为连接名）。
// EnableLog 开启的连接使用带慢查询审计的 GORM logger，否则静默。
// mock 变体绑定单连接 sqlite 内存库管理器，测试零外部依赖。
func Database() container.Plugin {
	return container.Plugin{
		Name: "database",
		Setup: func(c *container.BasicContainer) {
			c.Bind(IDDatabase, container.Def{
				Dependencies: []container.Dependency{
					container.Dep(IDConfig),
					container.OptionalDep(IDLogger),
				},
				Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
					loader := deps.At(0).(*config.Loader)

					var configs map[string]database.Config
					if err := loader.UnmarshalKey("database.connections", &configs); err != nil {
						return nil, err
					}
					if len(configs) == 0 {
						return nil, fmt.Errorf("database: 未配置任何连接")
					}
					return database.NewManager(configs, gormLoggerFactory, moduleLogger(deps, "database"))
				},
				Meta: pluginMeta("database"),
			})
		},
		Variants: map[string]container.SetupFunc{
			container.MockVariant: func(c *container.BasicContainer) {
				c.Bind(IDDatabase, container.Def{
					Dependencies: []container.Dependency{container.OptionalDep(IDLogger)},
					Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
						configs := map[string]database.Config{
							"main": {
								Driver:       "sqlite",
								DSN:          "file::memory:?cache=shared",
								MaxOpenConns: 1,
								MaxIdleConns: 1,
							},
						}
						return database.NewManager(configs, nil, moduleLogger(deps, "database"))
					},
					Meta: pluginMeta("database"),
				})
			},
		},
	}
}

// gormLoggerFactory 按连接配置派生 GORM logger
func gormLoggerFactory(cfg database.Config) gormlogger.Interface {
	if !cfg.EnableLog {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}
	loggerCfg := logger.DefaultGormLoggerConfig()
	if cfg.SlowThreshold > 0 {
		loggerCfg.SlowThreshold = cfg.SlowThreshold
	}
	return logger.NewGormLogger(loggerCfg)
}
