package plugins

import (
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/event"
	"github.com/KOMKZ/go-yogan-container/kafka"
	"github.com/KOMKZ/go-yogan-container/telemetry"
)

// Event 事件插件，绑定 event.Dispatcher
//
// 从 loader 读取：
//
//	event.pool_size   异步派发池大小（默认 100）
//	event.force_sync  强制同步派发（测试用）
//	event.kafka       Kafka 发布驱动配置，缺失则纯内存派发
//
// 遥测插件已安装时自动挂载事件指标。
// mock 变体绑定强制同步的内存派发器。
func Event() container.Plugin {
	return container.Plugin{
		Name: "event",
		Setup: func(c *container.BasicContainer) {
			c.Bind(IDEvent, container.Def{
				Dependencies: []container.Dependency{
					container.OptionalDep(IDConfig),
					container.OptionalDep(IDLogger),
					container.OptionalDep(IDTelemetry),
				},
				Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
					opts := []event.DispatcherOption{
						event.WithLogger(moduleLogger(deps, "event")),
					}

					var loader *config.Loader
					if v, ok := deps.Get(IDConfig); ok && v != nil {
						loader = v.(*config.Loader)
					}
					if loader != nil {
						if size := loader.GetInt("event.pool_size"); size > 0 {
							opts = append(opts, event.WithPoolSize(size))
						}
						if loader.GetBool("event.force_sync") {
							opts = append(opts, event.WithForceSync(true))
						}
						if loader.IsSet("event.kafka") {
							var kafkaCfg kafka.Config
							if err := loader.UnmarshalKey("event.kafka", &kafkaCfg); err != nil {
								return nil, err
							}
							publisher, err := kafka.NewPublisher(kafkaCfg, zap.NewNop())
							if err != nil {
								return nil, err
							}
							opts = append(opts, event.WithKafkaPublisher(publisher))
						}
					}

					if m := eventMetrics(deps); m != nil {
						opts = append(opts, event.WithMetrics(m))
					}

					return event.NewDispatcher(opts...), nil
				},
				Meta: pluginMeta("event"),
			})
		},
		Variants: map[string]container.SetupFunc{
			container.MockVariant: func(c *container.BasicContainer) {
				c.Bind(IDEvent, container.Def{
					Dependencies: []container.Dependency{container.OptionalDep(IDLogger)},
					Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
						return event.NewDispatcher(
							event.WithForceSync(true),
							event.WithLogger(moduleLogger(deps, "event")),
						), nil
					},
					Meta: pluginMeta("event"),
				})
			},
		},
	}
}

// eventMetrics 从遥测组件派生事件指标；遥测未安装或未启用时返回 nil
func eventMetrics(deps container.Deps) *event.Metrics {
	v, ok := deps.Get(IDTelemetry)
	if !ok || v == nil {
		return nil
	}
	tm, ok := v.(*telemetry.Manager)
	if !ok || !tm.IsEnabled() {
		return nil
	}
	m, err := event.NewMetrics(tm.Meter("event"))
	if err != nil {
		return nil
	}
	return m
}
