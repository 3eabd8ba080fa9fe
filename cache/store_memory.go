package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore 进程内缓存存储
// 容量满时淘汰最早过期的条目；后台协程每分钟清理一次过期项
type MemoryStore struct {
	name    string
	maxSize int

	mu   sync.RWMutex
	data map[string]*memoryItem

	stopOnce sync.Once
	stop     chan struct{}
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time // 零值表示不过期
}

// NewMemoryStore 创建内存存储，maxSize <= 0 按 10000 处理
func NewMemoryStore(name string, maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 10000
	}
	s := &MemoryStore{
		name:    name,
		maxSize: maxSize,
		data:    make(map[string]*memoryItem),
		stop:    make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Name 后端名称
func (s *MemoryStore) Name() string {
	return s.name
}

// Get 读取缓存值；懒惰过期：读到已过期条目时删除并按未命中处理
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	item, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if item.expired(time.Now()) {
		_ = s.Delete(ctx, key)
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

// Set 写入缓存值
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists && len(s.data) >= s.maxSize {
		s.evictOne()
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	s.data[key] = &memoryItem{value: value, expiresAt: expiresAt}
	return nil
}

// Delete 删除缓存
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// DeleteByPrefix 按前缀批量删除
func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
		}
	}
	return nil
}

// Exists 检查 key 是否存在（过期视为不存在，但不主动删除）
func (s *MemoryStore) Exists(_ context.Context, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.data[key]
	return ok && !item.expired(time.Now())
}

// Size 当前条目数
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close 停止清理协程并清空数据，幂等
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.mu.Lock()
	s.data = make(map[string]*memoryItem)
	s.mu.Unlock()
	return nil
}

func (i *memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// evictOne 淘汰一个条目：优先最早过期的，全部永不过期时任选其一
// 调用方持有写锁
func (s *MemoryStore) evictOne() {
	var victim string
	var victimExpiry time.Time
	for key, item := range s.data {
		if victim == "" || (!item.expiresAt.IsZero() && (victimExpiry.IsZero() || item.expiresAt.Before(victimExpiry))) {
			victim = key
			victimExpiry = item.expiresAt
		}
	}
	if victim != "" {
		delete(s.data, victim)
	}
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	now := time.Now()
	s.mu.Lock()
	for key, item := range s.data {
		if item.expired(now) {
			delete(s.data, key)
		}
	}
	s.mu.Unlock()
}
