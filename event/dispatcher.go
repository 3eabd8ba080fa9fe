// Package event 提供进程内事件分发与可选的 Kafka 外发
//
// Dispatcher 支持同步/异步分发（异步走 ants 协程池）、监听器优先级、
// 一次性监听器、全局拦截器链，以及按路由配置或代码选项把事件发往
// Kafka。异步分发时保留 OpenTelemetry Span 与 trace_id。
package event

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KOMKZ/go-yogan-container/logger"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// UnsubscribeFunc 退订函数
type UnsubscribeFunc func()

// Dispatcher 事件分发器
type Dispatcher interface {
	// Subscribe 订阅事件，返回退订函数
	Subscribe(eventName string, listener Listener, opts ...SubscribeOption) UnsubscribeFunc

	// Dispatch 分发事件
	// 默认内存同步分发；WithDispatchAsync() 异步；WithKafka(topic) 发往 Kafka
	Dispatch(ctx context.Context, event Event, opts ...DispatchOption) error

	// DispatchAsync 异步分发，等价于 Dispatch(ctx, event, WithDispatchAsync())
	DispatchAsync(ctx context.Context, event Event)

	// Use 注册全局拦截器
	Use(interceptor Interceptor)

	// ListenerCount 返回指定事件的监听器数量
	ListenerCount(eventName string) int

	// Close 关闭分发器并释放协程池
	Close()
}

type dispatcher struct {
	mu             sync.RWMutex
	listeners      map[string][]listenerEntry
	interceptors   []Interceptor
	nextID         uint64
	pool           *ants.Pool
	poolSize       int
	logger         logger.CtxLogger
	closed         int32
	kafkaPublisher KafkaPublisher
	router         *Router
	metrics        *Metrics
	forceSync      bool
}

// NewDispatcher 创建事件分发器
func NewDispatcher(opts ...DispatcherOption) Dispatcher {
	d := &dispatcher{
		listeners: make(map[string][]listenerEntry),
		poolSize:  100,
	}

	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.GetLogger("event")
	}

	var err error
	d.pool, err = ants.NewPool(d.poolSize)
	if err != nil {
		d.logger.ErrorCtx(context.Background(), "创建协程池失败，回退默认大小", zap.Error(err))
		d.pool, _ = ants.NewPool(100)
	}

	return d
}

// Subscribe 订阅事件
func (d *dispatcher) Subscribe(eventName string, listener Listener, opts ...SubscribeOption) UnsubscribeFunc {
	if eventName == "" || listener == nil {
		return func() {}
	}

	entry := listenerEntry{
		id:       atomic.AddUint64(&d.nextID, 1),
		listener: listener,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	if d.forceSync {
		entry.async = false
	}

	d.mu.Lock()
	d.listeners[eventName] = append(d.listeners[eventName], entry)
	sort.SliceStable(d.listeners[eventName], func(i, j int) bool {
		return d.listeners[eventName][i].priority < d.listeners[eventName][j].priority
	})
	d.mu.Unlock()

	return func() {
		d.unsubscribe(eventName, entry.id)
	}
}

func (d *dispatcher) unsubscribe(eventName string, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.listeners[eventName]
	for i, e := range entries {
		if e.id == id {
			d.listeners[eventName] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Use 注册全局拦截器
func (d *dispatcher) Use(interceptor Interceptor) {
	d.mu.Lock()
	d.interceptors = append(d.interceptors, interceptor)
	d.mu.Unlock()
}

// Dispatch 分发事件
// 驱动优先级：代码选项 > 配置路由 > 默认（内存）
func (d *dispatcher) Dispatch(ctx context.Context, event Event, opts ...DispatchOption) error {
	if event == nil {
		return nil
	}

	options := &dispatchOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// 代码未显式指定驱动时查路由配置
	if !options.driverExplicit && d.router != nil {
		if route := d.router.Match(event.Name()); route != nil {
			d.logger.DebugCtx(ctx, "事件路由命中",
				zap.String("event", event.Name()),
				zap.String("driver", route.Driver),
				zap.String("topic", route.Topic))
			options.driver = route.Driver
			if route.Driver == DriverKafka && options.topic == "" {
				options.topic = route.Topic
			}
		}
	}

	options.applyDefaults()

	start := time.Now()
	defer func() {
		d.metrics.RecordDispatched(ctx, event.Name(), options.driver, time.Since(start))
	}()

	switch options.driver {
	case DriverKafka:
		return d.dispatchToKafka(ctx, event, options)
	default:
		if options.async && !d.forceSync {
			d.dispatchAsyncMemory(ctx, event)
			return nil
		}
		return d.dispatchMemory(ctx, event)
	}
}

// DispatchAsync 异步分发
func (d *dispatcher) DispatchAsync(ctx context.Context, event Event) {
	_ = d.Dispatch(ctx, event, WithDispatchAsync())
}

// dispatchMemory 内存同步分发
func (d *dispatcher) dispatchMemory(ctx context.Context, event Event) error {
	d.mu.RLock()
	interceptors := make([]Interceptor, len(d.interceptors))
	copy(interceptors, d.interceptors)
	entries := make([]listenerEntry, len(d.listeners[event.Name()]))
	copy(entries, d.listeners[event.Name()])
	d.mu.RUnlock()

	handler := d.buildHandlerChain(entries, interceptors)
	err := handler(ctx, event)

	d.cleanupOnceListeners(event.Name(), entries)

	if errors.Is(err, ErrStopPropagation) {
		return nil
	}
	return err
}

// dispatchAsyncMemory 内存异步分发
func (d *dispatcher) dispatchAsyncMemory(ctx context.Context, event Event) {
	if atomic.LoadInt32(&d.closed) == 1 {
		return
	}

	asyncCtx := detachContext(ctx)
	eventName := event.Name()

	err := d.pool.Submit(func() {
		if err := d.dispatchMemory(asyncCtx, event); err != nil {
			d.logger.ErrorCtx(asyncCtx, "异步事件处理失败",
				zap.String("event", eventName),
				zap.Error(err))
		}
	})
	if err != nil {
		d.logger.ErrorCtx(ctx, "提交异步任务失败",
			zap.String("event", eventName),
			zap.Error(err))
	}
}

// dispatchToKafka 分发到 Kafka
func (d *dispatcher) dispatchToKafka(ctx context.Context, event Event, opts *dispatchOptions) error {
	if d.kafkaPublisher == nil {
		return ErrKafkaNotAvailable
	}
	if opts.topic == "" {
		return ErrKafkaTopicRequired
	}

	traceID := ""
	if s, ok := ctx.Value("trace_id").(string); ok {
		traceID = s
	}

	payload, err := SerializeEvent(event, traceID)
	if err != nil {
		return err
	}

	key := opts.key
	if key == "" {
		key = event.Name()
	}

	if opts.async {
		go func() {
			if err := d.kafkaPublisher.PublishJSON(ctx, opts.topic, key, payload); err != nil {
				d.logger.ErrorCtx(ctx, "Kafka 异步发送失败",
					zap.String("event", event.Name()),
					zap.String("topic", opts.topic),
					zap.Error(err))
			}
		}()
		return nil
	}

	return d.kafkaPublisher.PublishJSON(ctx, opts.topic, key, payload)
}

// buildHandlerChain 构建执行链：拦截器从外到内包裹监听器组
func (d *dispatcher) buildHandlerChain(entries []listenerEntry, interceptors []Interceptor) Next {
	handler := func(ctx context.Context, event Event) error {
		return d.executeListeners(ctx, event, entries)
	}

	for i := len(interceptors) - 1; i >= 0; i-- {
		interceptor := interceptors[i]
		next := handler
		handler = func(ctx context.Context, event Event) error {
			return interceptor(ctx, event, next)
		}
	}
	return handler
}

func (d *dispatcher) executeListeners(ctx context.Context, event Event, entries []listenerEntry) error {
	for _, entry := range entries {
		if entry.async {
			listener := entry.listener
			eventName := event.Name()
			_ = d.pool.Submit(func() {
				if err := listener.Handle(ctx, event); err != nil && !errors.Is(err, ErrStopPropagation) {
					d.metrics.RecordHandled(ctx, eventName, "error")
					d.logger.ErrorCtx(ctx, "异步监听器执行失败",
						zap.String("event", eventName),
						zap.Error(err))
					return
				}
				d.metrics.RecordHandled(ctx, eventName, "success")
			})
			continue
		}

		if err := entry.listener.Handle(ctx, event); err != nil {
			if errors.Is(err, ErrStopPropagation) {
				d.metrics.RecordHandled(ctx, event.Name(), "stopped")
			} else {
				d.metrics.RecordHandled(ctx, event.Name(), "error")
			}
			return err
		}
		d.metrics.RecordHandled(ctx, event.Name(), "success")
	}
	return nil
}

// cleanupOnceListeners 移除已执行的一次性监听器
func (d *dispatcher) cleanupOnceListeners(eventName string, executed []listenerEntry) {
	var onceIDs []uint64
	for _, e := range executed {
		if e.once {
			onceIDs = append(onceIDs, e.id)
		}
	}
	if len(onceIDs) == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.listeners[eventName]
	filtered := entries[:0]
	for _, e := range entries {
		remove := false
		for _, id := range onceIDs {
			if e.id == id {
				remove = true
				break
			}
		}
		if !remove {
			filtered = append(filtered, e)
		}
	}
	d.listeners[eventName] = filtered
}

// ListenerCount 返回指定事件的监听器数量
func (d *dispatcher) ListenerCount(eventName string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[eventName])
}

// Close 关闭分发器
func (d *dispatcher) Close() {
	atomic.StoreInt32(&d.closed, 1)
	if d.pool != nil {
		d.pool.Release()
	}
}

// detachContext 构造与调用方生命周期解耦的 context，
// 保留 OpenTelemetry Span 与 trace_id 供异步链路追踪
func detachContext(ctx context.Context) context.Context {
	detached := context.Background()
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		detached = trace.ContextWithSpanContext(detached, sc)
	}
	if traceID := ctx.Value("trace_id"); traceID != nil {
		detached = context.WithValue(detached, "trace_id", traceID)
	}
	return detached
}
