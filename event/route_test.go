package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Match(t *testing.T) {
	router := NewRouter()
	router.LoadRoutes(map[string]RouteConfig{
		"order:created": {Driver: DriverKafka, Topic: "orders-critical"},
		"order:*":       {Driver: DriverKafka, Topic: "orders"},
		"user:*:done":   {Driver: DriverKafka, Topic: "user-done"},
		"*":             {Driver: DriverMemory},
	})

	tests := []struct {
		name      string
		eventName string
		wantTopic string
	}{
		{"exact beats wildcard", "order.created", "orders-critical"},
		{"prefix wildcard", "order.updated", "orders"},
		{"segment wildcard", "user.signup.done", "user-done"},
		{"catch all", "payment.failed", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := router.Match(tt.eventName)
			require.NotNil(t, route)
			assert.Equal(t, tt.wantTopic, route.Topic)
		})
	}
}

func TestRouter_NoRoutes(t *testing.T) {
	router := NewRouter()
	assert.False(t, router.HasRoutes())
	assert.Nil(t, router.Match("order.created"))

	router.LoadRoutes(map[string]RouteConfig{
		"order:*": {Driver: DriverKafka, Topic: "orders"},
	})
	assert.True(t, router.HasRoutes())
	assert.Equal(t, 1, router.RouteCount())
	assert.Nil(t, router.Match("payment.failed"))
}

func TestRouter_LongerPrefixWins(t *testing.T) {
	router := NewRouter()
	router.LoadRoutes(map[string]RouteConfig{
		"order:*":         {Driver: DriverKafka, Topic: "orders"},
		"order:created:*": {Driver: DriverKafka, Topic: "orders-created"},
	})

	route := router.Match("order.created.v2")
	require.NotNil(t, route)
	assert.Equal(t, "orders-created", route.Topic)
}

type deserializableEvent struct {
	OrderID string `json:"order_id"`
}

func (e *deserializableEvent) Name() string { return "order.deserialize" }

func TestSerializeDeserializeEvent(t *testing.T) {
	payload, err := SerializeEvent(newOrderCreated("A1"), "trace-123")
	require.NoError(t, err)
	assert.Equal(t, "order.created", payload.EventName)
	assert.Equal(t, "trace-123", payload.TraceID)

	// 未注册的事件名还原为 GenericEvent
	ev, err := DeserializeEvent(payload)
	require.NoError(t, err)
	generic, ok := ev.(*GenericEvent)
	require.True(t, ok)
	assert.Equal(t, "order.created", generic.Name())
	assert.NotEmpty(t, generic.Payload())

	// 已注册的事件名还原为具体类型
	RegisterEventType[*deserializableEvent]()
	payload2, err := SerializeEvent(&deserializableEvent{OrderID: "B2"}, "")
	require.NoError(t, err)
	ev2, err := DeserializeEvent(payload2)
	require.NoError(t, err)
	typed, ok := ev2.(*deserializableEvent)
	require.True(t, ok)
	assert.Equal(t, "B2", typed.OrderID)
}
