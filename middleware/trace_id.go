// Package middleware holds the gin middleware shared by HTTP apps:
// trace id propagation, panic recovery, request logging, CORS, JWT
// auth and health endpoints.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceIDKeyDefault    = "trace_id"
	TraceIDHeaderDefault = "X-Trace-ID"
)

type TraceConfig struct {
	TraceIDKey           string
	TraceIDHeader        string
	EnableResponseHeader bool
	Generator            func() string
}

func DefaultTraceConfig() TraceConfig {
	return TraceConfig{
		TraceIDKey:           TraceIDKeyDefault,
		TraceIDHeader:        TraceIDHeaderDefault,
		EnableResponseHeader: true,
		Generator:            func() string { return uuid.New().String() },
	}
}

// TraceID attaches a trace id to every request. When an OpenTelemetry
// span is active its trace id wins; otherwise the incoming header or a
// fresh UUID is used and injected into the request context.
func TraceID(cfg TraceConfig) gin.HandlerFunc {
	if cfg.TraceIDKey == "" {
		cfg.TraceIDKey = TraceIDKeyDefault
	}
	if cfg.TraceIDHeader == "" {
		cfg.TraceIDHeader = TraceIDHeaderDefault
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string { return uuid.New().String() }
	}

	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())

		var traceID string
		if span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		} else {
			traceID = c.GetHeader(cfg.TraceIDHeader)
			if traceID == "" {
				traceID = cfg.Generator()
			}
			ctx := context.WithValue(c.Request.Context(), cfg.TraceIDKey, traceID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Set(cfg.TraceIDKey, traceID)
		if cfg.EnableResponseHeader {
			c.Writer.Header().Set(cfg.TraceIDHeader, traceID)
		}
		c.Next()
	}
}

// GetTraceID reads the trace id stored by the TraceID middleware.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(TraceIDKeyDefault); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
