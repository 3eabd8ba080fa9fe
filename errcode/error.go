// Package errcode 提供分层错误码
// 错误码格式 MMBBBB：MM 为两位模块码，BBBB 为四位业务码
package errcode

import (
	"fmt"
	"net/http"
)

// LayeredError 分层错误码
// 支持错误链、动态消息、上下文数据、HTTP 状态码映射与消息键（国际化）。
// 所有 WithX / Wrap 方法返回新实例，原实例不被修改，
// 因此包级错误码变量可安全地被并发复用
type LayeredError struct {
	module     string
	code       int    // 完整错误码（MMBBBB）
	msgKey     string // 消息键，如 "error.cache.miss"
	msg        string
	httpStatus int
	data       map[string]any
	cause      error
}

// New 创建分层错误码
// moduleCode 取 10–99，businessCode 取 1–9999；httpStatus 缺省 200
func New(moduleCode, businessCode int, module, msgKey, msg string, httpStatus ...int) *LayeredError {
	status := http.StatusOK
	if len(httpStatus) > 0 {
		status = httpStatus[0]
	}
	return &LayeredError{
		module:     module,
		code:       moduleCode*10000 + businessCode,
		msgKey:     msgKey,
		msg:        msg,
		httpStatus: status,
		data:       make(map[string]any),
	}
}

func (e *LayeredError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code 完整错误码
func (e *LayeredError) Code() int { return e.code }

// Module 模块名
func (e *LayeredError) Module() string { return e.module }

// MsgKey 消息键
func (e *LayeredError) MsgKey() string { return e.msgKey }

// Message 默认消息
func (e *LayeredError) Message() string { return e.msg }

// HTTPStatus 映射的 HTTP 状态码
func (e *LayeredError) HTTPStatus() int { return e.httpStatus }

// Data 上下文数据
func (e *LayeredError) Data() map[string]any { return e.data }

// Unwrap 支持 errors.Is / errors.As 沿错误链查找
func (e *LayeredError) Unwrap() error { return e.cause }

// Is 按错误码判等，WithMsg / WithData 派生的实例仍与原错误码相等
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	return ok && e.code == t.code
}

// WithMsg 替换消息（返回新实例）
func (e *LayeredError) WithMsg(msg string) *LayeredError {
	clone := *e
	clone.msg = msg
	return &clone
}

// WithMsgf 格式化替换消息（返回新实例）
func (e *LayeredError) WithMsgf(format string, args ...any) *LayeredError {
	return e.WithMsg(fmt.Sprintf(format, args...))
}

// WithData 附加一条上下文数据（返回新实例，数据深拷贝）
func (e *LayeredError) WithData(key string, value any) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	clone.data[key] = value
	return &clone
}

// WithFields 批量附加上下文数据（返回新实例）
func (e *LayeredError) WithFields(fields map[string]any) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	for k, v := range fields {
		clone.data[k] = v
	}
	return &clone
}

// WithHTTPStatus 替换 HTTP 状态码（返回新实例）
func (e *LayeredError) WithHTTPStatus(status int) *LayeredError {
	clone := *e
	clone.httpStatus = status
	return &clone
}

// Wrap 包裹底层错误（返回新实例）
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	clone := *e
	clone.cause = cause
	return &clone
}

// Wrapf 包裹底层错误并替换消息（返回新实例）
func (e *LayeredError) Wrapf(cause error, format string, args ...any) *LayeredError {
	clone := e.Wrap(cause)
	return clone.WithMsg(fmt.Sprintf(format, args...))
}

func (e *LayeredError) cloneData() map[string]any {
	data := make(map[string]any, len(e.data))
	for k, v := range e.data {
		data[k] = v
	}
	return data
}
