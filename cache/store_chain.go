package cache

import (
	"context"
	"time"
)

// backfillTTL 命中下层后回填上层时使用的短 TTL
// 上层只做热点加速，用短 TTL 控制不一致窗口
const backfillTTL = time.Minute

// ChainStore 多级缓存链
// Get 自前向后查询，命中后把值回填到它前面的所有层；
// Set / Delete 作用于全部层
type ChainStore struct {
	name   string
	stores []Store
}

// NewChainStore 创建缓存链，stores 顺序即查询顺序（L1 在前）
func NewChainStore(name string, stores ...Store) *ChainStore {
	return &ChainStore{name: name, stores: stores}
}

// Name 后端名称
func (s *ChainStore) Name() string {
	return s.name
}

// Get 逐层查询，命中后回填上层
func (s *ChainStore) Get(ctx context.Context, key string) ([]byte, error) {
	for i, store := range s.stores {
		value, err := store.Get(ctx, key)
		if err != nil {
			continue
		}
		for j := 0; j < i; j++ {
			_ = s.stores[j].Set(ctx, key, value, backfillTTL)
		}
		return value, nil
	}
	return nil, ErrCacheMiss
}

// Set 写入全部层，返回最后一个失败
func (s *ChainStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var lastErr error
	for _, store := range s.stores {
		if err := store.Set(ctx, key, value, ttl); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Delete 从全部层删除
func (s *ChainStore) Delete(ctx context.Context, key string) error {
	var lastErr error
	for _, store := range s.stores {
		if err := store.Delete(ctx, key); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// DeleteByPrefix 从全部层按前缀删除
func (s *ChainStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	var lastErr error
	for _, store := range s.stores {
		if err := store.DeleteByPrefix(ctx, prefix); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Exists 任意一层存在即为存在
func (s *ChainStore) Exists(ctx context.Context, key string) bool {
	for _, store := range s.stores {
		if store.Exists(ctx, key) {
			return true
		}
	}
	return false
}

// Close 关闭全部层
func (s *ChainStore) Close() error {
	var lastErr error
	for _, store := range s.stores {
		if err := store.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
