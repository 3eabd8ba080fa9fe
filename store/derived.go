package store

import "sync"

// Derived 从多个上游源重算的派生 store
//
// 构造时立即以各源当前值计算初始值；任一上游通知时重算并通知
// 自己的订阅者。Dispose 断开全部上游订阅，之后上游变更不再传导，
// Get 仍返回最后一次计算结果。
type Derived[T any] struct {
	inner   *Store[T]
	compute func(values []any) T
	sources []Observable

	mu      sync.Mutex // 保护重算过程与 dispose 状态
	unsubs  []UnsubscribeFunc
	dispose sync.Once
}

// NewDerived 创建派生 store
// compute 收到与 sources 同序的当前值切片；sources 为空时 compute
// 只在构造时执行一次
func NewDerived[T any](compute func(values []any) T, sources ...Observable) *Derived[T] {
	if compute == nil {
		panic("store: derived compute 不能为 nil")
	}

	d := &Derived[T]{
		compute: compute,
		sources: sources,
	}
	d.inner = New(compute(d.snapshotSources()))

	d.unsubs = make([]UnsubscribeFunc, 0, len(sources))
	for _, src := range sources {
		d.unsubs = append(d.unsubs, src.Observe(func(any) {
			d.recompute()
		}))
	}
	return d
}

// Get 返回最近一次计算的派生值
func (d *Derived[T]) Get() T {
	return d.inner.Get()
}

// Subscribe 订阅派生值变更，语义同 Store.Subscribe
func (d *Derived[T]) Subscribe(fn Listener[T], opts ...SubscribeOption) UnsubscribeFunc {
	return d.inner.Subscribe(fn, opts...)
}

// Len 返回当前监听器个数
func (d *Derived[T]) Len() int {
	return d.inner.Len()
}

// Snapshot 实现 Observable，派生 store 可继续作为上游源
func (d *Derived[T]) Snapshot() any {
	return d.inner.Snapshot()
}

// Observe 实现 Observable
func (d *Derived[T]) Observe(fn func(value any)) UnsubscribeFunc {
	return d.inner.Observe(fn)
}

// Dispose 断开全部上游订阅（幂等）
// 已注册的下游监听器保留但不会再被触发
func (d *Derived[T]) Dispose() {
	d.dispose.Do(func() {
		d.mu.Lock()
		unsubs := d.unsubs
		d.unsubs = nil
		d.mu.Unlock()

		for _, u := range unsubs {
			u()
		}
	})
}

// recompute 采集各源当前值重算并下发
func (d *Derived[T]) recompute() {
	d.mu.Lock()
	if d.unsubs == nil {
		// 已 dispose，忽略迟到的上游通知
		d.mu.Unlock()
		return
	}
	v := d.compute(d.snapshotSources())
	d.mu.Unlock()

	d.inner.Set(v)
}

func (d *Derived[T]) snapshotSources() []any {
	values := make([]any, len(d.sources))
	for i, src := range d.sources {
		values[i] = src.Snapshot()
	}
	return values
}
