package cache

import (
	"fmt"
	"time"
)

// Config 缓存组件配置
type Config struct {
	// Enabled 总开关，关闭后 Call 直通加载器
	Enabled bool `mapstructure:"enabled"`

	// DefaultTTL 缓存项未指定 TTL 时的默认值
	DefaultTTL time.Duration `mapstructure:"default_ttl"`

	// DefaultStore 缓存项未指定后端时的默认后端名
	DefaultStore string `mapstructure:"default_store"`

	// Stores 存储后端配置，键为后端名
	Stores map[string]StoreConfig `mapstructure:"stores"`

	// Cacheables 缓存项配置
	Cacheables []CacheableConfig `mapstructure:"cacheables"`

	// InvalidationRules 事件驱动的失效规则
	InvalidationRules []InvalidationRule `mapstructure:"invalidation_rules"`
}

// StoreConfig 存储后端配置
type StoreConfig struct {
	// Type 后端类型：memory | redis | chain
	Type string `mapstructure:"type"`

	// Instance Redis 实例名（type=redis）
	Instance string `mapstructure:"instance"`

	// KeyPrefix Redis key 前缀（type=redis）
	KeyPrefix string `mapstructure:"key_prefix"`

	// MaxSize 最大条目数（type=memory）
	MaxSize int `mapstructure:"max_size"`

	// Layers 组成链的后端名列表，顺序即查询顺序（type=chain）
	Layers []string `mapstructure:"layers"`
}

// CacheableConfig 缓存项配置
type CacheableConfig struct {
	// Name 缓存项名（唯一标识，Call 的第一个参数）
	Name string `mapstructure:"name"`

	// KeyPattern key 模板，支持 {0} {1} 位置占位符与 {hash}
	KeyPattern string `mapstructure:"key_pattern"`

	// TTL 过期时间，零值取 DefaultTTL
	TTL time.Duration `mapstructure:"ttl"`

	// Store 后端名，空取 DefaultStore
	Store string `mapstructure:"store"`

	// Disabled 单项停用（该项 Call 直通加载器）
	Disabled bool `mapstructure:"disabled"`
}

// InvalidationRule 事件失效规则
// 事件实现 CacheInvalidator 时精确失效，否则需配置 Pattern 批量失效
type InvalidationRule struct {
	// Event 触发失效的事件名
	Event string `mapstructure:"event"`

	// Invalidate 需要失效的缓存项名列表
	Invalidate []string `mapstructure:"invalidate"`

	// Pattern 按前缀批量失效（可选），如 "user:"
	Pattern string `mapstructure:"pattern"`
}

// ApplyDefaults 填充默认值
func (c *Config) ApplyDefaults() {
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = 5 * time.Minute
	}
	if c.DefaultStore == "" {
		c.DefaultStore = "memory"
	}
	for i := range c.Cacheables {
		if c.Cacheables[i].TTL <= 0 {
			c.Cacheables[i].TTL = c.DefaultTTL
		}
		if c.Cacheables[i].Store == "" {
			c.Cacheables[i].Store = c.DefaultStore
		}
	}
}

// Validate 校验配置（关闭时跳过）
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	for name, store := range c.Stores {
		switch store.Type {
		case "memory", "redis", "chain":
		case "":
			return fmt.Errorf("cache: store %s: type is required", name)
		default:
			return fmt.Errorf("cache: store %s: unknown type %q", name, store.Type)
		}
		if store.Type == "chain" && len(store.Layers) == 0 {
			return fmt.Errorf("cache: store %s: chain requires layers", name)
		}
	}

	seen := make(map[string]bool, len(c.Cacheables))
	for _, cacheable := range c.Cacheables {
		if cacheable.Name == "" {
			return fmt.Errorf("cache: cacheable name is required")
		}
		if cacheable.KeyPattern == "" {
			return fmt.Errorf("cache: cacheable %s: key_pattern is required", cacheable.Name)
		}
		if seen[cacheable.Name] {
			return fmt.Errorf("cache: duplicate cacheable %s", cacheable.Name)
		}
		seen[cacheable.Name] = true
	}
	return nil
}
