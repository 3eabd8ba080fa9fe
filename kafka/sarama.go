package kafka

import (
	"crypto/tls"
	"fmt"

	"github.com/IBM/sarama"
)

// BuildSaramaConfig 把 Config 翻译成 sarama 配置
// 生产者强制开启 Return.Successes（同步生产者的前置要求）
func BuildSaramaConfig(cfg Config) (*sarama.Config, error) {
	sc := sarama.NewConfig()

	version, err := sarama.ParseKafkaVersion(cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("kafka: parse version %q: %w", cfg.Version, err)
	}
	sc.Version = version
	sc.ClientID = cfg.ClientID

	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true

	switch cfg.Producer.RequiredAcks {
	case 0:
		sc.Producer.RequiredAcks = sarama.NoResponse
	case -1:
		sc.Producer.RequiredAcks = sarama.WaitForAll
	default:
		sc.Producer.RequiredAcks = sarama.WaitForLocal
	}

	sc.Producer.Timeout = cfg.Producer.Timeout
	sc.Producer.Retry.Max = cfg.Producer.RetryMax
	sc.Producer.Retry.Backoff = cfg.Producer.RetryBackoff
	sc.Producer.MaxMessageBytes = cfg.Producer.MaxMessageBytes
	sc.Producer.Idempotent = cfg.Producer.Idempotent
	if cfg.Producer.Idempotent {
		// sarama 幂等生产者要求 acks=all 且单飞行窗口
		sc.Producer.RequiredAcks = sarama.WaitForAll
		sc.Net.MaxOpenRequests = 1
	}

	switch cfg.Producer.Compression {
	case "gzip":
		sc.Producer.Compression = sarama.CompressionGZIP
	case "snappy":
		sc.Producer.Compression = sarama.CompressionSnappy
	case "lz4":
		sc.Producer.Compression = sarama.CompressionLZ4
	case "zstd":
		sc.Producer.Compression = sarama.CompressionZSTD
	default:
		sc.Producer.Compression = sarama.CompressionNone
	}

	if cfg.SASL != nil && cfg.SASL.Enabled {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User = cfg.SASL.Username
		sc.Net.SASL.Password = cfg.SASL.Password

		switch cfg.SASL.Mechanism {
		case "SCRAM-SHA-256":
			sc.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
			sc.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
				return &XDGSCRAMClient{HashGeneratorFcn: SHA256}
			}
		case "SCRAM-SHA-512":
			sc.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
			sc.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
				return &XDGSCRAMClient{HashGeneratorFcn: SHA512}
			}
		default:
			sc.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		}
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		sc.Net.TLS.Enable = true
		sc.Net.TLS.Config = &tls.Config{InsecureSkipVerify: cfg.TLS.InsecureSkipVerify}
	}

	return sc, nil
}
