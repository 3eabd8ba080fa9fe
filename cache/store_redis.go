package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore Redis 缓存存储
// client 的生命周期由外部（redis.Manager）管理，Close 不断开连接
type RedisStore struct {
	name      string
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(name string, client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{name: name, client: client, keyPrefix: keyPrefix}
}

// Name 后端名称
func (s *RedisStore) Name() string {
	return s.name
}

func (s *RedisStore) buildKey(key string) string {
	return s.keyPrefix + key
}

// Get 读取缓存值
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, ErrStoreGet.Wrap(err)
	}
	return data, nil
}

// Set 写入缓存值
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.buildKey(key), value, ttl).Err(); err != nil {
		return ErrStoreSet.Wrap(err)
	}
	return nil
}

// Delete 删除缓存
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.buildKey(key)).Err(); err != nil {
		return ErrStoreDelete.Wrap(err)
	}
	return nil
}

// DeleteByPrefix 按前缀批量删除（SCAN 分批，避免阻塞服务端）
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	pattern := s.buildKey(prefix) + "*"
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return ErrStoreDelete.Wrap(err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return ErrStoreDelete.Wrap(err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Exists 检查 key 是否存在
func (s *RedisStore) Exists(ctx context.Context, key string) bool {
	n, err := s.client.Exists(ctx, s.buildKey(key)).Result()
	return err == nil && n > 0
}

// Close no-op：连接由 redis 管理器统一关闭
func (s *RedisStore) Close() error {
	return nil
}
