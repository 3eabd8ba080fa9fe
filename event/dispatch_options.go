package event

// 分发驱动
const (
	DriverMemory = "memory"
	DriverKafka  = "kafka"
)

// dispatchOptions 单次分发选项
type dispatchOptions struct {
	driver         string // "memory" | "kafka"
	driverExplicit bool   // 驱动是否由代码显式指定（最高优先级）
	topic          string // Kafka topic（仅 kafka 驱动）
	key            string // Kafka 消息 key
	async          bool   // 是否异步分发
}

// DispatchOption 分发选项
type DispatchOption func(*dispatchOptions)

func (o *dispatchOptions) applyDefaults() {
	if o.driver == "" {
		o.driver = DriverMemory
	}
}

// WithKafka 使用 Kafka 驱动发送事件
// 代码指定的选项优先级最高，会覆盖路由配置
func WithKafka(topic string) DispatchOption {
	return func(o *dispatchOptions) {
		o.driver = DriverKafka
		o.driverExplicit = true
		o.topic = topic
	}
}

// WithMemory 强制使用内存驱动
func WithMemory() DispatchOption {
	return func(o *dispatchOptions) {
		o.driver = DriverMemory
		o.driverExplicit = true
	}
}

// WithKafkaKey 指定 Kafka 消息 key（用于分区路由）
func WithKafkaKey(key string) DispatchOption {
	return func(o *dispatchOptions) {
		o.key = key
	}
}

// WithDispatchAsync 异步分发
// 事件提交协程池处理后立即返回
func WithDispatchAsync() DispatchOption {
	return func(o *dispatchOptions) {
		o.async = true
	}
}
