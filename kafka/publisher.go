package kafka

import (
	"context"

	"go.uber.org/zap"
)

// Publisher 事件总线的 Kafka 驱动
// 实现 event.KafkaPublisher；经 event.WithKafkaPublisher 注入分发器
type Publisher struct {
	producer Producer
}

// NewPublisher 按配置连接集群并创建发布器
func NewPublisher(cfg Config, logger *zap.Logger) (*Publisher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	producer, err := NewSyncProducer(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Publisher{producer: producer}, nil
}

// NewPublisherWith 包装现成的生产者（测试或自定义生产者场景）
func NewPublisherWith(producer Producer) *Publisher {
	return &Publisher{producer: producer}
}

// PublishJSON 发布 JSON 消息
func (p *Publisher) PublishJSON(ctx context.Context, topic, key string, payload any) error {
	_, err := p.producer.SendJSON(ctx, topic, key, payload)
	return err
}

// PublishBytes 发布原始字节消息
func (p *Publisher) PublishBytes(ctx context.Context, topic, key string, value []byte) error {
	_, err := p.producer.Send(ctx, &Message{Topic: topic, Key: []byte(key), Value: value})
	return err
}

// Close 关闭底层生产者
func (p *Publisher) Close() error {
	return p.producer.Close()
}
