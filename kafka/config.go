// Package kafka 提供事件总线的 Kafka 发布驱动
//
// Publisher 基于 sarama 同步生产者实现 event.KafkaPublisher，
// 支持 SASL（PLAIN / SCRAM-SHA-256 / SCRAM-SHA-512）与 TLS。
// 消费侧不在本仓库范围内，事件只出不进。
package kafka

import (
	"fmt"
	"time"
)

// Config Kafka 连接配置
type Config struct {
	// Brokers 集群地址列表
	Brokers []string `mapstructure:"brokers"`

	// Version Kafka 版本（如 "3.8.0"）
	Version string `mapstructure:"version"`

	// ClientID 客户端标识
	ClientID string `mapstructure:"client_id"`

	// Producer 生产者配置
	Producer ProducerConfig `mapstructure:"producer"`

	// SASL 认证配置（可选）
	SASL *SASLConfig `mapstructure:"sasl"`

	// TLS 配置（可选）
	TLS *TLSConfig `mapstructure:"tls"`
}

// ProducerConfig 生产者配置
type ProducerConfig struct {
	// RequiredAcks 确认级别：0=NoResponse 1=WaitForLocal -1=WaitForAll
	RequiredAcks int `mapstructure:"required_acks"`

	// Timeout 发送超时
	Timeout time.Duration `mapstructure:"timeout"`

	// RetryMax 最大重试次数
	RetryMax int `mapstructure:"retry_max"`

	// RetryBackoff 重试间隔
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`

	// MaxMessageBytes 单条消息最大字节数
	MaxMessageBytes int `mapstructure:"max_message_bytes"`

	// Compression 压缩算法：none gzip snappy lz4 zstd
	Compression string `mapstructure:"compression"`

	// Idempotent 是否开启幂等生产者
	Idempotent bool `mapstructure:"idempotent"`
}

// SASLConfig SASL 认证配置
type SASLConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Mechanism 认证机制：PLAIN SCRAM-SHA-256 SCRAM-SHA-512
	Mechanism string `mapstructure:"mechanism"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

// TLSConfig TLS 配置
type TLSConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

// ApplyDefaults 填充默认值
func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "3.8.0"
	}
	if c.ClientID == "" {
		c.ClientID = "yogan-container"
	}
	if c.Producer.RequiredAcks == 0 {
		c.Producer.RequiredAcks = 1
	}
	if c.Producer.Timeout == 0 {
		c.Producer.Timeout = 10 * time.Second
	}
	if c.Producer.RetryMax == 0 {
		c.Producer.RetryMax = 3
	}
	if c.Producer.RetryBackoff == 0 {
		c.Producer.RetryBackoff = 100 * time.Millisecond
	}
	if c.Producer.MaxMessageBytes == 0 {
		c.Producer.MaxMessageBytes = 1024 * 1024
	}
	if c.Producer.Compression == "" {
		c.Producer.Compression = "none"
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("kafka: brokers cannot be empty")
	}
	for _, b := range c.Brokers {
		if b == "" {
			return fmt.Errorf("kafka: broker address cannot be empty")
		}
	}

	if acks := c.Producer.RequiredAcks; acks < -1 || acks > 1 {
		return fmt.Errorf("kafka: required_acks must be -1, 0 or 1, got %d", acks)
	}
	switch c.Producer.Compression {
	case "", "none", "gzip", "snappy", "lz4", "zstd":
	default:
		return fmt.Errorf("kafka: unknown compression %q", c.Producer.Compression)
	}

	if c.SASL != nil && c.SASL.Enabled {
		switch c.SASL.Mechanism {
		case "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			return fmt.Errorf("kafka: unknown sasl mechanism %q", c.SASL.Mechanism)
		}
		if c.SASL.Username == "" || c.SASL.Password == "" {
			return fmt.Errorf("kafka: sasl username/password cannot be empty")
		}
	}
	return nil
}
