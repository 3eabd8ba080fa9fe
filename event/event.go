package event

import "time"

// Event 事件接口
type Event interface {
	// Name 事件名（唯一标识，如 "order.created"）
	Name() string
}

// BaseEvent 事件基类，嵌入具体事件结构体使用
type BaseEvent struct {
	name       string
	occurredAt time.Time
}

// NewEvent 创建事件基类
func NewEvent(name string) BaseEvent {
	return BaseEvent{
		name:       name,
		occurredAt: time.Now(),
	}
}

// Name 返回事件名
func (e BaseEvent) Name() string {
	return e.name
}

// OccurredAt 返回事件发生时间
func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}
