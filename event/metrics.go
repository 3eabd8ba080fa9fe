package event

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics 事件分发指标
//
// 经 WithMetrics 注入分发器后，每次 Dispatch 与监听器执行都会计量。
// nil 接收者安全：未注入指标的分发器直接调用各 Record 方法为 no-op
type Metrics struct {
	dispatched metric.Int64Counter
	handled    metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewMetrics 在给定 Meter 上注册事件指标
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.dispatched, err = meter.Int64Counter(
		"event_dispatched_total",
		metric.WithDescription("Total number of events dispatched"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	m.handled, err = meter.Int64Counter(
		"event_handled_total",
		metric.WithDescription("Total number of events handled by listeners"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = meter.Float64Histogram(
		"event_dispatch_duration_seconds",
		metric.WithDescription("Event dispatch duration distribution"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDispatched 记录一次事件分发
func (m *Metrics) RecordDispatched(ctx context.Context, eventName, driver string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("event", eventName),
		attribute.String("driver", driver),
	)
	m.dispatched.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

// RecordHandled 记录一次监听器执行
// result 取值 "success" | "error" | "stopped"
func (m *Metrics) RecordHandled(ctx context.Context, eventName, result string) {
	if m == nil {
		return
	}
	m.handled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", eventName),
		attribute.String("result", result),
	))
}
