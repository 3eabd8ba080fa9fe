package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KOMKZ/go-yogan-container/limiter"
)

type RateLimitConfig struct {
	// KeyFunc maps a request to the limiter resource key.
	// Defaults to "METHOD:path".
	KeyFunc func(c *gin.Context) string
	// SkipPaths bypass rate limiting entirely.
	SkipPaths []string
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{KeyFunc: RateLimitKeyByRoute}
}

// RateLimitKeyByRoute keys buckets on method and path, so each route
// gets its own budget.
func RateLimitKeyByRoute(c *gin.Context) string {
	return c.Request.Method + ":" + c.Request.URL.Path
}

// RateLimitKeyByIP keys buckets on the client IP, sharing one budget
// across all routes per client.
func RateLimitKeyByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// RateLimit rejects requests over their resource budget with 429.
func RateLimit(m *limiter.Manager) gin.HandlerFunc {
	return RateLimitWithConfig(m, DefaultRateLimitConfig())
}

func RateLimitWithConfig(m *limiter.Manager, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = RateLimitKeyByRoute
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = true
	}

	return func(c *gin.Context) {
		if !m.IsEnabled() || skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		allowed, err := m.Allow(c.Request.Context(), cfg.KeyFunc(c))
		if err != nil {
			// Fail open on limiter errors.
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
