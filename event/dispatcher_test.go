package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-container/logger"
)

type orderCreatedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
}

func newOrderCreated(id string) *orderCreatedEvent {
	return &orderCreatedEvent{BaseEvent: NewEvent("order.created"), OrderID: id}
}

func newTestDispatcher(opts ...DispatcherOption) Dispatcher {
	opts = append([]DispatcherOption{WithLogger(logger.NewTestCtxLogger())}, opts...)
	return NewDispatcher(opts...)
}

func TestDispatcher_SyncDispatchInvokesListeners(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	var got []string
	d.Subscribe("order.created", ListenerFunc(func(_ context.Context, e Event) error {
		got = append(got, e.(*orderCreatedEvent).OrderID)
		return nil
	}))

	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A1")))
	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A2")))
	assert.Equal(t, []string{"A1", "A2"}, got)
}

func TestDispatcher_PriorityOrdersListeners(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	var order []string
	record := func(name string) Listener {
		return ListenerFunc(func(context.Context, Event) error {
			order = append(order, name)
			return nil
		})
	}

	d.Subscribe("order.created", record("late"), WithPriority(10))
	d.Subscribe("order.created", record("early"), WithPriority(-10))
	d.Subscribe("order.created", record("middle"))

	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A1")))
	assert.Equal(t, []string{"early", "middle", "late"}, order)
}

func TestDispatcher_UnsubscribeStopsDelivery(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	calls := 0
	off := d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		calls++
		return nil
	}))

	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A1")))
	off()
	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A2")))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, d.ListenerCount("order.created"))
}

func TestDispatcher_OnceListenerRunsOnce(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	calls := 0
	d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		calls++
		return nil
	}), WithOnce())

	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A1")))
	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A2")))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, d.ListenerCount("order.created"))
}

func TestDispatcher_ListenerErrorStopsChain(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	boom := errors.New("boom")
	secondRan := false
	d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		return boom
	}), WithPriority(0))
	d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		secondRan = true
		return nil
	}), WithPriority(1))

	err := d.Dispatch(context.Background(), newOrderCreated("A1"))
	assert.ErrorIs(t, err, boom)
	assert.False(t, secondRan)
}

func TestDispatcher_StopPropagationIsNotAnError(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	secondRan := false
	d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		return ErrStopPropagation
	}), WithPriority(0))
	d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		secondRan = true
		return nil
	}), WithPriority(1))

	assert.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A1")))
	assert.False(t, secondRan)
}

func TestDispatcher_InterceptorWrapsListeners(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	var trace []string
	d.Use(func(ctx context.Context, e Event, next Next) error {
		trace = append(trace, "before")
		err := next(ctx, e)
		trace = append(trace, "after")
		return err
	})
	d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		trace = append(trace, "listener")
		return nil
	}))

	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A1")))
	assert.Equal(t, []string{"before", "listener", "after"}, trace)
}

func TestDispatcher_InterceptorCanSwallowEvent(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	listenerRan := false
	d.Use(func(context.Context, Event, Next) error {
		return nil // 不调 next：事件被拦截
	})
	d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		listenerRan = true
		return nil
	}))

	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A1")))
	assert.False(t, listenerRan)
}

func TestDispatcher_AsyncDispatchDeliversEventually(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	var mu sync.Mutex
	done := make(chan struct{})
	var got string
	d.Subscribe("order.created", ListenerFunc(func(_ context.Context, e Event) error {
		mu.Lock()
		got = e.(*orderCreatedEvent).OrderID
		mu.Unlock()
		close(done)
		return nil
	}))

	d.DispatchAsync(context.Background(), newOrderCreated("A9"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async dispatch did not deliver")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "A9", got)
}

func TestDispatcher_ForceSyncOverridesAsync(t *testing.T) {
	d := newTestDispatcher(WithForceSync(true))
	defer d.Close()

	calls := 0
	d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		calls++
		return nil
	}), WithAsync())

	// forceSync 下 WithDispatchAsync 同样走同步路径，返回前已执行完
	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A1"), WithDispatchAsync()))
	assert.Equal(t, 1, calls)
}

type capturingPublisher struct {
	mu      sync.Mutex
	topics  []string
	keys    []string
	payload []*KafkaEventPayload
	err     error
}

func (p *capturingPublisher) PublishJSON(_ context.Context, topic, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	if kp, ok := payload.(*KafkaEventPayload); ok {
		p.payload = append(p.payload, kp)
	}
	return nil
}

func TestDispatcher_WithKafkaRoutesToPublisher(t *testing.T) {
	pub := &capturingPublisher{}
	d := newTestDispatcher(WithKafkaPublisher(pub))
	defer d.Close()

	err := d.Dispatch(context.Background(), newOrderCreated("A1"), WithKafka("orders"))
	require.NoError(t, err)

	require.Len(t, pub.payload, 1)
	assert.Equal(t, []string{"orders"}, pub.topics)
	assert.Equal(t, []string{"order.created"}, pub.keys) // 默认以事件名作 key
	assert.Equal(t, "order.created", pub.payload[0].EventName)
}

func TestDispatcher_KafkaWithoutPublisherFails(t *testing.T) {
	d := newTestDispatcher()
	defer d.Close()

	err := d.Dispatch(context.Background(), newOrderCreated("A1"), WithKafka("orders"))
	assert.ErrorIs(t, err, ErrKafkaNotAvailable)
}

func TestDispatcher_RouterSelectsKafkaDriver(t *testing.T) {
	router := NewRouter()
	router.LoadRoutes(map[string]RouteConfig{
		"order:*": {Driver: DriverKafka, Topic: "orders"},
	})

	pub := &capturingPublisher{}
	d := newTestDispatcher(WithKafkaPublisher(pub), WithRouter(router))
	defer d.Close()

	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A1")))
	assert.Equal(t, []string{"orders"}, pub.topics)

	// 代码显式指定内存驱动时路由不生效
	memoryCalls := 0
	d.Subscribe("order.created", ListenerFunc(func(context.Context, Event) error {
		memoryCalls++
		return nil
	}))
	require.NoError(t, d.Dispatch(context.Background(), newOrderCreated("A2"), WithMemory()))
	assert.Equal(t, 1, memoryCalls)
	assert.Len(t, pub.topics, 1)
}
