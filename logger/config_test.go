package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestManagerConfig_Validate 测试配置校验
func TestManagerConfig_Validate(t *testing.T) {
	cfg := DefaultManagerConfig()
	assert.NoError(t, cfg.Validate())

	bad := DefaultManagerConfig()
	bad.Level = "verbose"
	assert.Error(t, bad.Validate())

	bad = DefaultManagerConfig()
	bad.Encoding = "xml"
	assert.Error(t, bad.Validate())

	bad = DefaultManagerConfig()
	bad.MaxSize = 0
	assert.Error(t, bad.Validate())

	bad = DefaultManagerConfig()
	bad.StacktraceLevel = "trace"
	assert.Error(t, bad.Validate())

	bad = DefaultManagerConfig()
	bad.EnableDateInFilename = true
	bad.DateFormat = ""
	assert.Error(t, bad.Validate())
}

// TestManagerConfig_ApplyDefaults 测试零值填充不覆盖已配置值
func TestManagerConfig_ApplyDefaults(t *testing.T) {
	cfg := ManagerConfig{Level: "debug", MaxSize: 50}
	cfg.ApplyDefaults()

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, 50, cfg.MaxSize)
	assert.Equal(t, "logs", cfg.BaseLogDir)
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, 3, cfg.MaxBackups)
	assert.Equal(t, 28, cfg.MaxAge)
}

// TestManagerConfig_TraceIDTriState 测试 TraceID 开关的三态语义
// 字面量配置漏填 enable_trace_id 不得丢失注入，显式 false 才关闭
func TestManagerConfig_TraceIDTriState(t *testing.T) {
	var cfg ManagerConfig
	assert.True(t, cfg.TraceIDEnabled())

	cfg.ApplyDefaults()
	require.NotNil(t, cfg.EnableTraceID)
	assert.True(t, *cfg.EnableTraceID)

	off := ManagerConfig{EnableTraceID: boolPtr(false)}
	off.ApplyDefaults()
	assert.False(t, off.TraceIDEnabled())
}

// TestParseLevel 测试级别解析与未知级别回退
func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.FatalLevel, ParseLevel("fatal"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("unknown"))
}

// TestModuleConfig_BuildFilePath 测试文件名组合规则
func TestModuleConfig_BuildFilePath(t *testing.T) {
	cfg := moduleConfig{
		moduleName:            "order",
		logDir:                "logs",
		enableLevelInFilename: true,
		enableDateInFilename:  false,
	}
	assert.Equal(t, "logs/order/order-info.log", cfg.infoFilePath())
	assert.Equal(t, "logs/order/order-error.log", cfg.errorFilePath())

	cfg.enableLevelInFilename = false
	assert.Equal(t, "logs/order/order.log", cfg.infoFilePath())

	cfg.enableDateInFilename = true
	cfg.dateFormat = "2006-01-02"
	path := cfg.infoFilePath()
	assert.Contains(t, path, "logs/order/order-")
	assert.Contains(t, path, ".log")
}
