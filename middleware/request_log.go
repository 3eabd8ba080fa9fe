package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-container/logger"
)

type RequestLogConfig struct {
	// SkipPaths are not logged (health probes, metrics scrapes).
	SkipPaths []string
}

func DefaultRequestLogConfig() RequestLogConfig {
	return RequestLogConfig{}
}

// RequestLog logs one structured line per request, leveled by status
// code: 5xx error, 4xx warn, everything else info.
func RequestLog() gin.HandlerFunc {
	return RequestLogWithConfig(DefaultRequestLogConfig())
}

func RequestLogWithConfig(cfg RequestLogConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("body_size", c.Writer.Size()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("error", errs))
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.ErrorCtx(ctx, "http", "http request", fields...)
		case status >= 400:
			logger.WarnCtx(ctx, "http", "http request", fields...)
		default:
			logger.InfoCtx(ctx, "http", "http request", fields...)
		}
	}
}
