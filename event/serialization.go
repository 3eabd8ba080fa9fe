package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// KafkaEventPayload Kafka 事件消息格式
type KafkaEventPayload struct {
	EventName  string          `json:"event_name"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
	TraceID    string          `json:"trace_id,omitempty"`
}

// SerializeEvent 把事件序列化为 Kafka 消息体
func SerializeEvent(event Event, traceID string) (*KafkaEventPayload, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", event.Name(), err)
	}
	return &KafkaEventPayload{
		EventName:  event.Name(),
		Payload:    payload,
		OccurredAt: time.Now(),
		TraceID:    traceID,
	}, nil
}

// 事件类型注册表：反序列化时按事件名还原具体类型
var (
	eventTypesMu sync.RWMutex
	eventTypes   = make(map[string]reflect.Type)
)

// RegisterEventType 注册事件类型供反序列化使用
// 应用启动时为每个需要还原的事件类型调用一次：
//
//	event.RegisterEventType[*OrderCreatedEvent]()
func RegisterEventType[T Event]() {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	instance := reflect.New(typ).Interface().(Event)
	name := instance.Name()

	eventTypesMu.Lock()
	eventTypes[name] = typ
	eventTypesMu.Unlock()
}

// DeserializeEvent 从 Kafka 消息体还原事件
// 事件名未注册时返回 *GenericEvent，原始负载经 Payload() 访问
func DeserializeEvent(payload *KafkaEventPayload) (Event, error) {
	eventTypesMu.RLock()
	typ, ok := eventTypes[payload.EventName]
	eventTypesMu.RUnlock()

	if !ok {
		return &GenericEvent{name: payload.EventName, payload: payload.Payload}, nil
	}

	ptr := reflect.New(typ).Interface()
	if err := json.Unmarshal(payload.Payload, ptr); err != nil {
		return nil, fmt.Errorf("unmarshal event %s: %w", payload.EventName, err)
	}
	return ptr.(Event), nil
}

// GenericEvent 未注册类型的兜底事件
type GenericEvent struct {
	name    string
	payload json.RawMessage
}

// Name 返回事件名
func (e *GenericEvent) Name() string {
	return e.name
}

// Payload 返回原始负载
func (e *GenericEvent) Payload() json.RawMessage {
	return e.payload
}
