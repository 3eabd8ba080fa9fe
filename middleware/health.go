package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KOMKZ/go-yogan-container/health"
)

// HealthHandler serves the health endpoints off an aggregator.
type HealthHandler struct {
	aggregator *health.Aggregator
}

func NewHealthHandler(aggregator *health.Aggregator) *HealthHandler {
	return &HealthHandler{aggregator: aggregator}
}

// Handle serves the full health report. Degraded still returns 200,
// unhealthy returns 503.
func (h *HealthHandler) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := h.aggregator.Check(c.Request.Context())

		status := http.StatusOK
		if response.Status == health.StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, response)
	}
}

// HandleLiveness answers liveness probes without touching deps.
func (h *HealthHandler) HandleLiveness() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	}
}

// HandleReadiness returns 200 only when every dependency is healthy.
func (h *HealthHandler) HandleReadiness() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := h.aggregator.Check(c.Request.Context())

		status := http.StatusOK
		if response.Status != health.StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": response.Status})
	}
}

// RegisterHealthRoutes wires /health, /health/liveness and
// /health/readiness onto router.
func RegisterHealthRoutes(router gin.IRouter, aggregator *health.Aggregator) {
	if aggregator == nil {
		return
	}
	h := NewHealthHandler(aggregator)
	router.GET("/health", h.Handle())
	router.GET("/health/liveness", h.HandleLiveness())
	router.GET("/health/readiness", h.HandleReadiness())
}
