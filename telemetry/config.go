// Package telemetry wires OpenTelemetry tracing and metrics.
// Exporters are limited to stdout (development) and noop; production
// deployments sit behind a collector sidecar that scrapes stdout.
package telemetry

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled        bool           `mapstructure:"enabled"`         //
	ServiceName    string         `mapstructure:"service_name"`    //
	ServiceVersion string         `mapstructure:"service_version"` //
	Environment    string         `mapstructure:"environment"`     // deployment environment attribute
	Exporter       ExporterConfig `mapstructure:"exporter"`        //
	Sampler        SamplerConfig  `mapstructure:"sampler"`         //
	Metrics        MetricsConfig  `mapstructure:"metrics"`         //
}

// ExporterConfig selects the span exporter.
type ExporterConfig struct {
	Type string `mapstructure:"type"` // stdout | noop
}

// SamplerConfig controls trace sampling.
type SamplerConfig struct {
	Type  string  `mapstructure:"type"`  // always_on | always_off | trace_id_ratio
	Ratio float64 `mapstructure:"ratio"` // used by trace_id_ratio
}

// MetricsConfig controls the meter provider.
type MetricsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`         //
	ExportInterval time.Duration `mapstructure:"export_interval"` //
	ExportTimeout  time.Duration `mapstructure:"export_timeout"`  //
	Namespace      string        `mapstructure:"namespace"`       // metric name prefix
}

func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "unknown-service",
		ServiceVersion: "1.0.0",
		Environment:    "dev",
		Exporter:       ExporterConfig{Type: "stdout"},
		Sampler:        SamplerConfig{Type: "always_on", Ratio: 1.0},
		Metrics: MetricsConfig{
			Enabled:        false,
			ExportInterval: 10 * time.Second,
			ExportTimeout:  5 * time.Second,
		},
	}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when telemetry is enabled")
	}
	switch c.Exporter.Type {
	case "stdout", "noop":
	default:
		return fmt.Errorf("unsupported exporter type: %s", c.Exporter.Type)
	}
	switch c.Sampler.Type {
	case "always_on", "always_off", "trace_id_ratio":
	default:
		return fmt.Errorf("unsupported sampler type: %s", c.Sampler.Type)
	}
	if c.Sampler.Type == "trace_id_ratio" && (c.Sampler.Ratio < 0 || c.Sampler.Ratio > 1) {
		return fmt.Errorf("sampler ratio must be within [0, 1], got %v", c.Sampler.Ratio)
	}
	return nil
}
