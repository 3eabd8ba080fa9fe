package event

import "errors"

// ErrStopPropagation 停止事件传播（不视为错误）
// 监听器返回该错误时后续监听器不再执行，但 Dispatch 不返回错误
var ErrStopPropagation = errors.New("stop propagation")

// ErrKafkaNotAvailable 未配置 Kafka 发布者
var ErrKafkaNotAvailable = errors.New("kafka publisher not available")

// ErrKafkaTopicRequired 未指定 Kafka topic
var ErrKafkaTopicRequired = errors.New("kafka topic is required")
