package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsBuilder creates instruments on one meter under an optional
// namespace prefix, so components name metrics consistently.
type MetricsBuilder struct {
	meter     metric.Meter
	namespace string
}

func NewMetricsBuilder(meter metric.Meter, namespace string) *MetricsBuilder {
	return &MetricsBuilder{meter: meter, namespace: namespace}
}

func (b *MetricsBuilder) fullName(name string) string {
	if b.namespace == "" {
		return name
	}
	return b.namespace + "_" + name
}

func (b *MetricsBuilder) Counter(name, desc string) (metric.Int64Counter, error) {
	return b.meter.Int64Counter(b.fullName(name), metric.WithDescription(desc))
}

func (b *MetricsBuilder) Histogram(name, desc, unit string) (metric.Float64Histogram, error) {
	return b.meter.Float64Histogram(b.fullName(name),
		metric.WithDescription(desc),
		metric.WithUnit(unit))
}

// DurationHistogram is a histogram in seconds.
func (b *MetricsBuilder) DurationHistogram(name, desc string) (metric.Float64Histogram, error) {
	return b.Histogram(name, desc, "s")
}

func (b *MetricsBuilder) UpDownCounter(name, desc string) (metric.Int64UpDownCounter, error) {
	return b.meter.Int64UpDownCounter(b.fullName(name), metric.WithDescription(desc))
}

// Gauge registers an observable gauge backed by callback.
func (b *MetricsBuilder) Gauge(name, desc string, callback func(context.Context) (int64, error)) (metric.Int64ObservableGauge, error) {
	return b.meter.Int64ObservableGauge(b.fullName(name),
		metric.WithDescription(desc),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			v, err := callback(ctx)
			if err != nil {
				return err
			}
			o.Observe(v)
			return nil
		}),
	)
}

// RequestMetrics bundles the three instruments most components need:
// total count, error count and a latency histogram.
type RequestMetrics struct {
	Total    metric.Int64Counter
	Errors   metric.Int64Counter
	Duration metric.Float64Histogram
}

func (b *MetricsBuilder) NewRequestMetrics(prefix string) (*RequestMetrics, error) {
	total, err := b.Counter(prefix+"_total", "total requests")
	if err != nil {
		return nil, err
	}
	errs, err := b.Counter(prefix+"_errors_total", "failed requests")
	if err != nil {
		return nil, err
	}
	dur, err := b.DurationHistogram(prefix+"_duration_seconds", "request latency")
	if err != nil {
		return nil, err
	}
	return &RequestMetrics{Total: total, Errors: errs, Duration: dur}, nil
}

// Record counts one request, its error state and its latency.
func (m *RequestMetrics) Record(ctx context.Context, durationSec float64, err error, attrs ...attribute.KeyValue) {
	opt := metric.WithAttributes(attrs...)
	m.Total.Add(ctx, 1, opt)
	if err != nil {
		m.Errors.Add(ctx, 1, opt)
	}
	m.Duration.Record(ctx, durationSec, opt)
}
