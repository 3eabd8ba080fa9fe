package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-container/logger"
)

// Manager owns the tracer and meter providers and registers them as
// the process-wide defaults on Start.
type Manager struct {
	config         Config
	log            logger.CtxLogger
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	mu             sync.Mutex
}

func NewManager(config Config, log logger.CtxLogger) *Manager {
	if log == nil {
		log = logger.GetLogger("telemetry")
	}
	return &Manager{config: config, log: log}
}

// Config returns the effective configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Start builds the providers. A disabled config is a no-op so callers
// never need to branch on telemetry being off.
func (m *Manager) Start(ctx context.Context) error {
	if !m.config.Enabled {
		m.log.InfoCtx(ctx, "telemetry disabled, skipping initialization")
		return nil
	}
	if err := m.config.Validate(); err != nil {
		return fmt.Errorf("invalid telemetry config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.buildResource(ctx)
	if err != nil {
		return fmt.Errorf("build otel resource: %w", err)
	}

	tp, err := m.buildTracerProvider(res)
	if err != nil {
		return fmt.Errorf("build tracer provider: %w", err)
	}
	m.tracerProvider = tp
	otel.SetTracerProvider(tp)

	if m.config.Metrics.Enabled {
		mp, err := m.buildMeterProvider(res)
		if err != nil {
			return fmt.Errorf("build meter provider: %w", err)
		}
		m.meterProvider = mp
		otel.SetMeterProvider(mp)
	}

	m.log.InfoCtx(ctx, "telemetry started",
		zap.String("service_name", m.config.ServiceName),
		zap.String("exporter", m.config.Exporter.Type),
		zap.Bool("metrics", m.config.Metrics.Enabled))
	return nil
}

func (m *Manager) buildResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(m.config.ServiceName),
			semconv.ServiceVersion(m.config.ServiceVersion),
			attribute.String("deployment.environment", m.config.Environment),
		),
	)
}

func (m *Manager) buildTracerProvider(res *resource.Resource) (*sdktrace.TracerProvider, error) {
	var exporter sdktrace.SpanExporter
	switch m.config.Exporter.Type {
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		exporter = exp
	case "noop":
		exporter = noopSpanExporter{}
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(m.buildSampler()),
	), nil
}

func (m *Manager) buildSampler() sdktrace.Sampler {
	switch m.config.Sampler.Type {
	case "always_off":
		return sdktrace.NeverSample()
	case "trace_id_ratio":
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(m.config.Sampler.Ratio))
	default:
		return sdktrace.AlwaysSample()
	}
}

func (m *Manager) buildMeterProvider(res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(m.config.Metrics.ExportInterval),
			sdkmetric.WithTimeout(m.config.Metrics.ExportTimeout),
		)),
	), nil
}

// Tracer returns a named tracer from this manager's provider, falling
// back to the global provider before Start.
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if m.tracerProvider == nil {
		return otel.GetTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

// Meter returns a named meter from this manager's provider, falling
// back to the global provider when metrics are off.
func (m *Manager) Meter(name string) metric.Meter {
	if m.meterProvider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return m.meterProvider.Meter(name)
}

func (m *Manager) IsEnabled() bool {
	return m.config.Enabled
}

// Shutdown flushes and stops both providers.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	if m.tracerProvider != nil {
		if err := m.tracerProvider.Shutdown(ctx); err != nil {
			firstErr = err
		}
		m.tracerProvider = nil
	}
	if m.meterProvider != nil {
		if err := m.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		m.meterProvider = nil
	}
	return firstErr
}

// noopSpanExporter discards spans. Used when exporter type is "noop"
// so sampling and span lifecycle still run in tests.
type noopSpanExporter struct{}

func (noopSpanExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }
func (noopSpanExporter) Shutdown(context.Context) error                             { return nil }
