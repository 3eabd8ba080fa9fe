package auth

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginAttemptStore counts failed logins per username.
type LoginAttemptStore interface {
	GetAttempts(ctx context.Context, username string) (int, error)
	IncrementAttempts(ctx context.Context, username string, ttl time.Duration) error
	ResetAttempts(ctx context.Context, username string) error
	IsLocked(ctx context.Context, username string, maxAttempts int) (bool, error)
	Close() error
}

// RedisLoginAttemptStore keeps counters in Redis so lockouts are
// shared between instances.
type RedisLoginAttemptStore struct {
	client *redis.Client
	prefix string
}

func NewRedisLoginAttemptStore(client *redis.Client, prefix string) *RedisLoginAttemptStore {
	return &RedisLoginAttemptStore{client: client, prefix: prefix}
}

func (s *RedisLoginAttemptStore) GetAttempts(ctx context.Context, username string) (int, error) {
	val, err := s.client.Get(ctx, s.prefix+username).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

func (s *RedisLoginAttemptStore) IncrementAttempts(ctx context.Context, username string, ttl time.Duration) error {
	key := s.prefix + username
	pipe := s.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisLoginAttemptStore) ResetAttempts(ctx context.Context, username string) error {
	return s.client.Del(ctx, s.prefix+username).Err()
}

func (s *RedisLoginAttemptStore) IsLocked(ctx context.Context, username string, maxAttempts int) (bool, error) {
	attempts, err := s.GetAttempts(ctx, username)
	if err != nil {
		return false, err
	}
	return attempts >= maxAttempts, nil
}

// Close is a no-op, the client belongs to the redis manager.
func (s *RedisLoginAttemptStore) Close() error {
	return nil
}

// MemoryLoginAttemptStore keeps counters in process memory. Suitable
// for single-instance deployments and tests.
type MemoryLoginAttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*attemptRecord
	stop     chan struct{}
	stopOnce sync.Once
}

type attemptRecord struct {
	count     int
	expiresAt time.Time
}

func NewMemoryLoginAttemptStore() *MemoryLoginAttemptStore {
	store := &MemoryLoginAttemptStore{
		attempts: make(map[string]*attemptRecord),
		stop:     make(chan struct{}),
	}
	go store.cleanupLoop()
	return store
}

func (s *MemoryLoginAttemptStore) GetAttempts(ctx context.Context, username string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.attempts[username]
	if !ok || time.Now().After(rec.expiresAt) {
		return 0, nil
	}
	return rec.count, nil
}

func (s *MemoryLoginAttemptStore) IncrementAttempts(ctx context.Context, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rec, ok := s.attempts[username]
	if !ok || now.After(rec.expiresAt) {
		s.attempts[username] = &attemptRecord{count: 1, expiresAt: now.Add(ttl)}
		return nil
	}
	rec.count++
	rec.expiresAt = now.Add(ttl)
	return nil
}

func (s *MemoryLoginAttemptStore) ResetAttempts(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, username)
	return nil
}

func (s *MemoryLoginAttemptStore) IsLocked(ctx context.Context, username string, maxAttempts int) (bool, error) {
	attempts, err := s.GetAttempts(ctx, username)
	if err != nil {
		return false, err
	}
	return attempts >= maxAttempts, nil
}

func (s *MemoryLoginAttemptStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryLoginAttemptStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for username, rec := range s.attempts {
				if now.After(rec.expiresAt) {
					delete(s.attempts, username)
				}
			}
			s.mu.Unlock()
		}
	}
}
