package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTraceIDGeneratesWhenMissing(t *testing.T) {
	router := gin.New()
	router.Use(TraceID(DefaultTraceConfig()))

	var seen string
	router.GET("/t", func(c *gin.Context) {
		seen = GetTraceID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(TraceIDHeaderDefault))
}

func TestTraceIDHonorsIncomingHeader(t *testing.T) {
	router := gin.New()
	router.Use(TraceID(DefaultTraceConfig()))

	var seen string
	var ctxValue any
	router.GET("/t", func(c *gin.Context) {
		seen = GetTraceID(c)
		ctxValue = c.Request.Context().Value(TraceIDKeyDefault)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(TraceIDHeaderDefault, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", ctxValue)
}

func TestTraceIDCustomGenerator(t *testing.T) {
	cfg := DefaultTraceConfig()
	cfg.Generator = func() string { return "fixed" }
	cfg.EnableResponseHeader = false

	router := gin.New()
	router.Use(TraceID(cfg))
	router.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))

	assert.Empty(t, w.Header().Get(TraceIDHeaderDefault))
}
