// Package store 提供可观察状态容器
//
// Store 持有一个值，订阅者在值更新时按订阅顺序被同步通知；
// Derived 从多个上游源重算派生值；Child 对单个父 store 做投影。
// 三者都实现 Observable，可继续作为下游 store 的上游源串联。
//
// 通知在调用 Set / Update 的 goroutine 上同步完成，不做异步调度；
// 内部用读写锁保护状态，对并发调用方安全。
package store

import "sync"

// Listener 值变更回调
type Listener[T any] func(value T)

// UnsubscribeFunc 取消订阅函数
// 幂等：重复调用只生效一次，已移除的监听器不会再收到通知
type UnsubscribeFunc func()

// SubscribeOption 订阅选项
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	emitCurrent bool
}

// WithEmitCurrent 订阅时立即以当前值同步调用一次监听器
// 默认不回放当前值，订阅者只收到之后的更新
func WithEmitCurrent() SubscribeOption {
	return func(o *subscribeOptions) {
		o.emitCurrent = true
	}
}

// Readable 类型化的只读 store 面
// Store / Derived / Child 均实现该接口
type Readable[T any] interface {
	Get() T
	Subscribe(fn Listener[T], opts ...SubscribeOption) UnsubscribeFunc
}

// Observable 类型擦除的只读视图
// 派生 store 经此订阅异构上游源；所有 store 类型均实现
type Observable interface {
	// Snapshot 返回当前值
	Snapshot() any

	// Observe 订阅值变更（不回放当前值）
	Observe(fn func(value any)) UnsubscribeFunc
}

// listenerEntry 监听器条目，id 用于幂等移除
type listenerEntry[T any] struct {
	id uint64
	fn Listener[T]
}

// Store 可观察状态容器
type Store[T any] struct {
	mu        sync.RWMutex
	value     T
	listeners []listenerEntry[T] // 订阅顺序
	nextID    uint64
}

// New 以初始值创建 store
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get 返回当前值
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set 更新值并同步通知全部监听器（按订阅顺序）
// 不做相等性判断：每次 Set 都触发通知
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	snapshot := s.snapshotListeners()
	s.mu.Unlock()

	for _, entry := range snapshot {
		entry.fn(v)
	}
}

// Update 以当前值计算新值并更新，通知语义同 Set
func (s *Store[T]) Update(fn func(current T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	snapshot := s.snapshotListeners()
	s.mu.Unlock()

	for _, entry := range snapshot {
		entry.fn(v)
	}
}

// Subscribe 注册监听器，返回幂等的取消函数
//
// 监听器按订阅顺序收到每次更新；订阅本身不回放当前值，
// 需要立即拿到当前值时传入 WithEmitCurrent。
// 取消订阅对"下一次"通知生效：通知进行中移除不影响本轮快照。
func (s *Store[T]) Subscribe(fn Listener[T], opts ...SubscribeOption) UnsubscribeFunc {
	var o subscribeOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry[T]{id: id, fn: fn})
	current := s.value
	s.mu.Unlock()

	if o.emitCurrent {
		fn(current)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Len 返回当前监听器个数
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// Snapshot 实现 Observable
func (s *Store[T]) Snapshot() any {
	return s.Get()
}

// Observe 实现 Observable
func (s *Store[T]) Observe(fn func(value any)) UnsubscribeFunc {
	return s.Subscribe(func(v T) {
		fn(v)
	})
}

// snapshotListeners 复制监听器列表，通知在锁外按快照执行
func (s *Store[T]) snapshotListeners() []listenerEntry[T] {
	if len(s.listeners) == 0 {
		return nil
	}
	snapshot := make([]listenerEntry[T], len(s.listeners))
	copy(snapshot, s.listeners)
	return snapshot
}
