package event

import (
	"github.com/KOMKZ/go-yogan-container/logger"
)

// listenerEntry 监听器条目
type listenerEntry struct {
	id       uint64   // 唯一 ID（用于退订）
	listener Listener // 监听器
	priority int      // 优先级（数字越小越先执行）
	async    bool     // 是否异步执行
	once     bool     // 是否只执行一次
}

// SubscribeOption 订阅选项
type SubscribeOption func(*listenerEntry)

// WithPriority 设置优先级
// 数字越小优先级越高、越先执行，默认 0
func WithPriority(priority int) SubscribeOption {
	return func(e *listenerEntry) {
		e.priority = priority
	}
}

// WithAsync 标记为异步监听器
// 即使走 Dispatch 同步分发，该监听器仍提交协程池执行，
// 其错误不影响事件传播
func WithAsync() SubscribeOption {
	return func(e *listenerEntry) {
		e.async = true
	}
}

// WithOnce 只执行一次，执行后自动退订
func WithOnce() SubscribeOption {
	return func(e *listenerEntry) {
		e.once = true
	}
}

// DispatcherOption 分发器配置选项
type DispatcherOption func(*dispatcher)

// WithPoolSize 设置异步协程池大小
func WithPoolSize(size int) DispatcherOption {
	return func(d *dispatcher) {
		d.poolSize = size
	}
}

// WithForceSync 强制所有监听器同步执行（测试场景用）
// 开启后订阅时的 WithAsync 与分发时的 WithDispatchAsync 均被忽略
func WithForceSync(v bool) DispatcherOption {
	return func(d *dispatcher) {
		d.forceSync = v
	}
}

// WithKafkaPublisher 设置 Kafka 发布者
// 设置后可用 WithKafka() 选项把事件发往 Kafka
func WithKafkaPublisher(publisher KafkaPublisher) DispatcherOption {
	return func(d *dispatcher) {
		d.kafkaPublisher = publisher
	}
}

// WithRouter 设置事件路由器
// 路由器按配置决定事件走 Kafka 还是内存
// 优先级：代码选项 > 配置路由 > 默认（内存）
func WithRouter(router *Router) DispatcherOption {
	return func(d *dispatcher) {
		d.router = router
	}
}

// WithLogger 设置日志器（默认使用 event 模块全局日志）
func WithLogger(l logger.CtxLogger) DispatcherOption {
	return func(d *dispatcher) {
		d.logger = l
	}
}

// WithMetrics 设置指标收集器
// 设置后每次分发与监听器执行都会被计量
func WithMetrics(m *Metrics) DispatcherOption {
	return func(d *dispatcher) {
		d.metrics = m
	}
}
