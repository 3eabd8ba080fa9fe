package store

import "sync"

// Child 父 store 的投影
//
// 构造时以父当前值计算初始投影；父 store 每次通知都重新投影并
// 通知自己的订阅者。Dispose 断开与父的订阅，之后父变更不再传导。
type Child[T any] struct {
	inner   *Store[T]
	unsub   UnsubscribeFunc
	dispose sync.Once
}

// NewChildOf 以类型化父 store 创建投影 store
//
//	total := store.New(Cart{Items: 3})
//	count := store.NewChildOf(total, func(c Cart) int { return c.Items })
func NewChildOf[P, T any](parent Readable[P], project func(parent P) T) *Child[T] {
	if parent == nil {
		panic("store: child 的 parent 不能为 nil")
	}
	if project == nil {
		panic("store: child 的 project 不能为 nil")
	}

	c := &Child[T]{inner: New(project(parent.Get()))}
	c.unsub = parent.Subscribe(func(v P) {
		c.inner.Set(project(v))
	})
	return c
}

// NewChild 以类型擦除的上游源创建投影 store
// 上游为 Derived 或异构来源时使用；project 收到 any 形式的父值
func NewChild[T any](parent Observable, project func(parent any) T) *Child[T] {
	if parent == nil {
		panic("store: child 的 parent 不能为 nil")
	}
	if project == nil {
		panic("store: child 的 project 不能为 nil")
	}

	c := &Child[T]{inner: New(project(parent.Snapshot()))}
	c.unsub = parent.Observe(func(v any) {
		c.inner.Set(project(v))
	})
	return c
}

// Get 返回最近一次投影值
func (c *Child[T]) Get() T {
	return c.inner.Get()
}

// Subscribe 订阅投影值变更，语义同 Store.Subscribe
func (c *Child[T]) Subscribe(fn Listener[T], opts ...SubscribeOption) UnsubscribeFunc {
	return c.inner.Subscribe(fn, opts...)
}

// Len 返回当前监听器个数
func (c *Child[T]) Len() int {
	return c.inner.Len()
}

// Snapshot 实现 Observable
func (c *Child[T]) Snapshot() any {
	return c.inner.Snapshot()
}

// Observe 实现 Observable
func (c *Child[T]) Observe(fn func(value any)) UnsubscribeFunc {
	return c.inner.Observe(fn)
}

// Dispose 断开与父 store 的订阅（幂等）
func (c *Child[T]) Dispose() {
	c.dispose.Do(func() {
		c.unsub()
	})
}
