// Package httpx provides the unified HTTP response envelope and error
// mapping for gin handlers.
package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-container/database"
	"github.com/KOMKZ/go-yogan-container/errcode"
	"github.com/KOMKZ/go-yogan-container/logger"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func OkJson(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "success", Data: data})
}

func BadRequestJson(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{Code: 400, Msg: err.Error()})
}

func NotFoundJson(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: 404, Msg: msg})
}

func InternalErrorJson(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Code: 500, Msg: msg})
}

// NoRouteHandler returns the JSON 404 handler for engine.NoRoute.
func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{
			Code: 404,
			Msg:  "route not found: " + c.Request.Method + " " + c.Request.URL.Path,
		})
	}
}

// NoMethodHandler returns the JSON 405 handler for engine.NoMethod.
func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, Response{
			Code: 405,
			Msg:  "method not allowed: " + c.Request.Method + " " + c.Request.URL.Path,
		})
	}
}

// HandleError maps an error to its HTTP response. Layered errors keep
// their own code and status; not-found sentinels become 404; anything
// else is a 500.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	ctx := c.Request.Context()

	var layered *errcode.LayeredError
	if errors.As(err, &layered) {
		logger.WarnCtx(ctx, "httpx", "business error",
			zap.Int("error_code", layered.Code()),
			zap.String("error_msg", layered.Message()))
		c.JSON(layered.HTTPStatus(), Response{
			Code: layered.Code(),
			Msg:  layered.Message(),
			Data: layered.Data(),
		})
		return
	}

	if errors.Is(err, database.ErrRecordNotFound) {
		NotFoundJson(c, err.Error())
		return
	}

	logger.ErrorCtx(ctx, "httpx", "unhandled error", zap.Error(err))
	InternalErrorJson(c, err.Error())
}
