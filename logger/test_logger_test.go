package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestTestCtxLogger_RecordAndAssert 测试内存日志记录与断言辅助
func TestTestCtxLogger_RecordAndAssert(t *testing.T) {
	l := NewTestCtxLogger()
	ctx := context.Background()

	l.InfoCtx(ctx, "创建用户", zap.String("name", "张三"))
	l.ErrorCtx(ctx, "创建失败", zap.Int("code", 500))
	l.DebugCtx(ctx, "调试信息")
	l.WarnCtx(ctx, "配额预警")

	assert.True(t, l.HasLog("INFO", "创建用户"))
	assert.True(t, l.HasLog("ERROR", "创建失败"))
	assert.False(t, l.HasLog("INFO", "不存在"))

	assert.True(t, l.HasLogWithField("INFO", "创建用户", "name", "张三"))
	assert.False(t, l.HasLogWithField("INFO", "创建用户", "name", "李四"))

	assert.Equal(t, 1, l.CountLogs("INFO"))
	assert.Equal(t, 1, l.CountLogs("ERROR"))
	assert.Len(t, l.Logs(), 4)
}

// TestTestCtxLogger_TraceID 测试从 context 记录 TraceID
func TestTestCtxLogger_TraceID(t *testing.T) {
	l := NewTestCtxLogger()
	ctx := context.WithValue(context.Background(), "trace_id", "t-100")

	l.InfoCtx(ctx, "带追踪")
	assert.True(t, l.HasLogWithTraceID("INFO", "带追踪", "t-100"))
	assert.False(t, l.HasLogWithTraceID("INFO", "带追踪", "t-999"))
}

// TestTestCtxLogger_WithSharesStorage 测试 With 派生共享存储并叠加预设字段
func TestTestCtxLogger_WithSharesStorage(t *testing.T) {
	base := NewTestCtxLogger()
	derived := base.With(zap.String("service", "order"))

	derived.InfoCtx(context.Background(), "派生写入")

	// 父实例能看到派生实例写入的日志
	assert.True(t, base.HasLog("INFO", "派生写入"))
	assert.True(t, base.HasLogWithField("INFO", "派生写入", "service", "order"))

	// 预设字段不影响父实例的后续写入
	base.InfoCtx(context.Background(), "父写入")
	assert.False(t, base.HasLogWithField("INFO", "父写入", "service", "order"))
}

// TestTestCtxLogger_Clear 测试清空日志
func TestTestCtxLogger_Clear(t *testing.T) {
	l := NewTestCtxLogger()
	l.InfoCtx(context.Background(), "一条")
	l.Clear()

	assert.Empty(t, l.Logs())
	assert.Equal(t, 0, l.CountLogs("INFO"))
}

// TestTestCtxLogger_ImplementsCtxLogger 测试两种实现都满足接口
func TestTestCtxLogger_ImplementsCtxLogger(t *testing.T) {
	var _ CtxLogger = NewTestCtxLogger()
	var _ CtxLogger = newFileManager(t.TempDir()).GetLogger("svc")
}
