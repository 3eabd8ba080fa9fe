package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestCtxLogger 测试专用的 Context 感知 Logger
// 日志记录到内存，方便在单元测试中断言
//
// 用法：
//
//	testLogger := logger.NewTestCtxLogger()
//	svc := order.NewService(repo, testLogger)
//	svc.Create(ctx, ...)
//	assert.True(t, testLogger.HasLog("INFO", "订单创建"))
type TestCtxLogger struct {
	state  *testLogState
	preset []zap.Field
}

// testLogState With 派生的实例共享同一份存储
type testLogState struct {
	mu   sync.RWMutex
	logs []LogEntry
}

// LogEntry 内存日志条目
type LogEntry struct {
	Level   string
	Message string
	TraceID string
	Fields  map[string]interface{}
}

// NewTestCtxLogger 创建测试用 Logger
func NewTestCtxLogger() *TestCtxLogger {
	return &TestCtxLogger{state: &testLogState{}}
}

func (t *TestCtxLogger) record(ctx context.Context, level, msg string, fields []zap.Field) {
	all := make([]zap.Field, 0, len(t.preset)+len(fields))
	all = append(all, t.preset...)
	all = append(all, fields...)

	t.state.mu.Lock()
	defer t.state.mu.Unlock()
	t.state.logs = append(t.state.logs, LogEntry{
		Level:   level,
		Message: msg,
		TraceID: extractTraceIDFromContext(ctx, nil),
		Fields:  extractFieldsMap(all),
	})
}

// DebugCtx 记录 Debug 级别日志到内存
func (t *TestCtxLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "DEBUG", msg, fields)
}

// InfoCtx 记录 Info 级别日志到内存
func (t *TestCtxLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "INFO", msg, fields)
}

// WarnCtx 记录 Warn 级别日志到内存
func (t *TestCtxLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "WARN", msg, fields)
}

// ErrorCtx 记录 Error 级别日志到内存
func (t *TestCtxLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "ERROR", msg, fields)
}

// With 返回带预设字段的新实例（共享日志存储）
func (t *TestCtxLogger) With(fields ...zap.Field) *TestCtxLogger {
	preset := make([]zap.Field, 0, len(t.preset)+len(fields))
	preset = append(preset, t.preset...)
	preset = append(preset, fields...)
	return &TestCtxLogger{state: t.state, preset: preset}
}

// HasLog 检查是否存在指定级别和消息的日志
func (t *TestCtxLogger) HasLog(level, message string) bool {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	for _, log := range t.state.logs {
		if log.Level == level && log.Message == message {
			return true
		}
	}
	return false
}

// HasLogWithTraceID 检查是否存在指定级别、消息和 TraceID 的日志
func (t *TestCtxLogger) HasLogWithTraceID(level, message, traceID string) bool {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	for _, log := range t.state.logs {
		if log.Level == level && log.Message == message && log.TraceID == traceID {
			return true
		}
	}
	return false
}

// HasLogWithField 检查是否存在指定级别、消息和字段的日志
func (t *TestCtxLogger) HasLogWithField(level, message, fieldKey string, fieldValue interface{}) bool {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	for _, log := range t.state.logs {
		if log.Level == level && log.Message == message {
			if val, exists := log.Fields[fieldKey]; exists && val == fieldValue {
				return true
			}
		}
	}
	return false
}

// CountLogs 统计指定级别的日志数量
func (t *TestCtxLogger) CountLogs(level string) int {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	count := 0
	for _, log := range t.state.logs {
		if log.Level == level {
			count++
		}
	}
	return count
}

// Logs 返回所有日志的副本
func (t *TestCtxLogger) Logs() []LogEntry {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()

	logs := make([]LogEntry, len(t.state.logs))
	copy(logs, t.state.logs)
	return logs
}

// Clear 清空日志（测试隔离用）
func (t *TestCtxLogger) Clear() {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()
	t.state.logs = nil
}

// extractFieldsMap 将 zap.Field 转为 map 便于断言
func extractFieldsMap(fields []zap.Field) map[string]interface{} {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	result := make(map[string]interface{}, len(enc.Fields))
	for k, v := range enc.Fields {
		result[k] = v
	}
	return result
}
