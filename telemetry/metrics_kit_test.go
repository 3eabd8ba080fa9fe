package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMeter(t *testing.T) (*MetricsBuilder, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { provider.Shutdown(context.Background()) })
	return NewMetricsBuilder(provider.Meter("test"), "app"), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func metricNames(rm metricdata.ResourceMetrics) []string {
	var names []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names = append(names, m.Name)
		}
	}
	return names
}

func TestBuilderNamespacePrefix(t *testing.T) {
	b, reader := newTestMeter(t)

	counter, err := b.Counter("jobs", "processed jobs")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	assert.Contains(t, metricNames(collect(t, reader)), "app_jobs")
}

func TestBuilderEmptyNamespace(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	b := NewMetricsBuilder(provider.Meter("test"), "")
	counter, err := b.Counter("jobs", "processed jobs")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.Contains(t, metricNames(collect(t, reader)), "jobs")
}

func TestBuilderGauge(t *testing.T) {
	b, reader := newTestMeter(t)

	_, err := b.Gauge("pool_size", "pool size", func(context.Context) (int64, error) {
		return 42, nil
	})
	require.NoError(t, err)

	rm := collect(t, reader)
	assert.Contains(t, metricNames(rm), "app_pool_size")
}

func TestRequestMetricsRecord(t *testing.T) {
	b, reader := newTestMeter(t)

	rm, err := b.NewRequestMetrics("http")
	require.NoError(t, err)

	ctx := context.Background()
	rm.Record(ctx, 0.05, nil)
	rm.Record(ctx, 0.10, assert.AnError)

	names := metricNames(collect(t, reader))
	assert.Contains(t, names, "app_http_total")
	assert.Contains(t, names, "app_http_errors_total")
	assert.Contains(t, names, "app_http_duration_seconds")
}
