package logger

import (
	"strings"
)

// GinLogWriter 将 Gin 的文本日志适配到本组件（实现 io.Writer）
type GinLogWriter struct {
	module string // 日志模块名（如 gin-route、gin-internal）
}

// NewGinLogWriter 创建 Gin 日志适配器
func NewGinLogWriter(module string) *GinLogWriter {
	return &GinLogWriter{module: module}
}

// Write 实现 io.Writer，按日志内容分级输出
func (w *GinLogWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return len(p), nil
	}

	switch {
	case strings.Contains(msg, "[GIN-debug]"):
		Debug(w.module, msg)
	case strings.Contains(msg, "[Recovery]") || strings.Contains(msg, "panic recovered"):
		Error(w.module, msg)
	default:
		Info(w.module, msg)
	}

	return len(p), nil
}
