// Package cache 提供多级缓存编排
//
// Orchestrator 统一处理读缓存、穿透加载（singleflight 合并）与回写；
// 存储后端可组合：内存、Redis、多级链。缓存失效既可手动调用，
// 也可订阅事件总线按规则自动失效。
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Store 缓存存储后端接口
type Store interface {
	// Name 后端名称
	Name() string

	// Get 读取缓存值，未命中返回 ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入缓存值，ttl <= 0 表示不过期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除缓存
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix 按前缀批量删除
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Exists 检查 key 是否存在（不续期、不回填）
	Exists(ctx context.Context, key string) bool

	// Close 释放后端资源
	Close() error
}

// Serializer 缓存值序列化接口
type Serializer interface {
	Serialize(v any) ([]byte, error)
	Deserialize(data []byte, v any) error
	Name() string
}

// LoaderFunc 数据加载函数，缓存未命中时回源
type LoaderFunc func(ctx context.Context, args ...any) (any, error)

// Stats 缓存统计
type Stats struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Invalidates int64 `json:"invalidates"`
	Errors      int64 `json:"errors"`
}

// JSONSerializer JSON 序列化实现（默认）
type JSONSerializer struct{}

// NewJSONSerializer 创建 JSON 序列化器
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

// Serialize 序列化为 JSON
func (s *JSONSerializer) Serialize(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Deserialize 从 JSON 反序列化
func (s *JSONSerializer) Deserialize(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Name 序列化器名称
func (s *JSONSerializer) Name() string {
	return "json"
}
