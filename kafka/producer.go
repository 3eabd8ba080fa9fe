package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Message 待发送消息
type Message struct {
	Topic string

	// Key 分区路由键（可选）
	Key []byte

	Value []byte

	// Headers 消息头（可选）
	Headers map[string]string

	// Timestamp 消息时间戳，零值由服务端填充
	Timestamp time.Time
}

// ProducerResult 发送结果
type ProducerResult struct {
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// Producer 生产者接口
type Producer interface {
	// Send 同步发送
	Send(ctx context.Context, msg *Message) (*ProducerResult, error)

	// SendJSON 序列化后同步发送，自动携带 content-type 头
	SendJSON(ctx context.Context, topic, key string, value any) (*ProducerResult, error)

	// Close 关闭生产者，幂等
	Close() error
}

// SyncProducer 基于 sarama 同步生产者的实现
type SyncProducer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// NewSyncProducer 连接集群并创建同步生产者
func NewSyncProducer(cfg Config, logger *zap.Logger) (*SyncProducer, error) {
	if logger == nil {
		return nil, fmt.Errorf("kafka: logger cannot be nil")
	}

	sc, err := BuildSaramaConfig(cfg)
	if err != nil {
		return nil, err
	}
	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("kafka: create sync producer: %w", err)
	}
	return &SyncProducer{producer: producer, logger: logger}, nil
}

// newSyncProducerFrom 测试入口：直接包装现成的 sarama 生产者
func newSyncProducerFrom(producer sarama.SyncProducer, logger *zap.Logger) *SyncProducer {
	return &SyncProducer{producer: producer, logger: logger}
}

// Send 同步发送
func (p *SyncProducer) Send(ctx context.Context, msg *Message) (*ProducerResult, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, fmt.Errorf("kafka: producer is closed")
	}
	if msg == nil {
		return nil, fmt.Errorf("kafka: message cannot be nil")
	}
	if msg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic cannot be empty")
	}

	sm := &sarama.ProducerMessage{
		Topic: msg.Topic,
		Value: sarama.ByteEncoder(msg.Value),
	}
	if len(msg.Key) > 0 {
		sm.Key = sarama.ByteEncoder(msg.Key)
	}
	if !msg.Timestamp.IsZero() {
		sm.Timestamp = msg.Timestamp
	}
	if len(msg.Headers) > 0 {
		headers := make([]sarama.RecordHeader, 0, len(msg.Headers))
		for k, v := range msg.Headers {
			headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
		}
		sm.Headers = headers
	}

	partition, offset, err := p.producer.SendMessage(sm)
	if err != nil {
		p.logger.Error("kafka 消息发送失败",
			zap.String("topic", msg.Topic),
			zap.Error(err))
		return nil, fmt.Errorf("kafka: send message: %w", err)
	}

	p.logger.Debug("kafka 消息已发送",
		zap.String("topic", msg.Topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))

	return &ProducerResult{
		Topic:     msg.Topic,
		Partition: partition,
		Offset:    offset,
		Timestamp: time.Now(),
	}, nil
}

// SendJSON 序列化后同步发送
func (p *SyncProducer) SendJSON(ctx context.Context, topic, key string, value any) (*ProducerResult, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("kafka: marshal json: %w", err)
	}
	return p.Send(ctx, &Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   data,
		Headers: map[string]string{"content-type": "application/json"},
	})
}

// Close 关闭生产者，幂等
func (p *SyncProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("kafka: close producer: %w", err)
	}
	p.logger.Debug("kafka 生产者已关闭")
	return nil
}
