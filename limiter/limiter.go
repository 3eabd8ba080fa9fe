// Package limiter implements in-process request rate limiting with a
// token bucket per resource key.
package limiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Manager tracks one token bucket per resource key. Buckets are
// created lazily on first access, initialized to full capacity.
type Manager struct {
	cfg Config

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func New(cfg Config) (*Manager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}, nil
}

func (m *Manager) IsEnabled() bool {
	return m.cfg.Enabled
}

// Allow reports whether one request for the resource may proceed now.
// When the limiter is disabled every request is allowed.
func (m *Manager) Allow(ctx context.Context, resource string) (bool, error) {
	return m.AllowN(ctx, resource, 1)
}

func (m *Manager) AllowN(ctx context.Context, resource string, n int64) (bool, error) {
	if !m.cfg.Enabled {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rc := m.resourceConfig(resource)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[resource]
	if !ok {
		b = &bucket{tokens: float64(rc.Capacity), last: now}
		m.buckets[resource] = b
	} else {
		elapsed := now.Sub(b.last).Seconds()
		if elapsed > 0 {
			b.tokens += float64(rc.Rate) * elapsed
			if b.tokens > float64(rc.Capacity) {
				b.tokens = float64(rc.Capacity)
			}
			b.last = now
		}
	}

	if b.tokens < float64(n) {
		return false, nil
	}
	b.tokens -= float64(n)
	return true, nil
}

// Remaining returns the current token count for the resource. An
// untouched bucket reports full capacity.
func (m *Manager) Remaining(resource string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[resource]
	if !ok {
		return m.resourceConfig(resource).Capacity
	}
	return int64(b.tokens)
}

// Reset drops the bucket for the resource so the next request starts
// from full capacity again.
func (m *Manager) Reset(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets, resource)
}

func (m *Manager) resourceConfig(resource string) ResourceConfig {
	if rc, ok := m.cfg.Resources[resource]; ok {
		return rc
	}
	return m.cfg.Default
}
