// Package logger 提供按模块划分的结构化日志
//
// Manager 按模块名惰性创建 zap.Logger，每个模块独立输出到
// logs/<module>/ 下的 info/error 文件（lumberjack 切割），可选
// 同时输出到控制台。CtxZapLogger 在此之上提供 context 感知的
// 包装：自动提取 TraceID（OpenTelemetry Span 优先）并注入字段。
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager 日志管理器（管理多个模块的 Logger 实例）
type Manager struct {
	baseConfig ManagerConfig
	loggers    map[string]*CtxZapLogger
	zapLoggers map[string]*zap.Logger
	writers    map[string][]*lumberjack.Logger // 模块名 -> 文件写入器（用于关闭）
	mu         sync.RWMutex
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// NewManager 创建独立的 Manager 实例
// cfg 中的零值字段会自动填充为默认值
func NewManager(cfg ManagerConfig) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		baseConfig: cfg,
		loggers:    make(map[string]*CtxZapLogger),
		zapLoggers: make(map[string]*zap.Logger),
		writers:    make(map[string][]*lumberjack.Logger),
	}
}

// InitManager 初始化全局管理器（只生效一次）
func InitManager(cfg ManagerConfig) {
	managerOnce.Do(func() {
		globalManager = NewManager(cfg)
	})
}

// GetLogger 获取指定模块的 CtxZapLogger（线程安全，按需创建）
// 返回的 Logger 已包含 module 字段
func (m *Manager) GetLogger(moduleName string) *CtxZapLogger {
	m.mu.RLock()
	if logger, exists := m.loggers[moduleName]; exists {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// 双重检查，避免并发重复创建
	if logger, exists := m.loggers[moduleName]; exists {
		return logger
	}

	cfg := m.moduleConfigFor(moduleName)
	zapLogger := m.createLogger(cfg)

	withModule := zapLogger.With(zap.String("module", moduleName))
	// CallerSkip 跳过 CtxZapLogger 包装层
	withSkip := withModule.WithOptions(zap.AddCallerSkip(1))

	ctxLogger := &CtxZapLogger{
		base:   withSkip,
		module: moduleName,
		config: &m.baseConfig,
	}

	m.loggers[moduleName] = ctxLogger
	m.zapLoggers[moduleName] = withModule
	return ctxLogger
}

// moduleConfigFor 为指定模块派生配置
func (m *Manager) moduleConfigFor(moduleName string) moduleConfig {
	return moduleConfig{
		level:                 m.baseConfig.Level,
		encoding:              m.baseConfig.Encoding,
		consoleEncoding:       m.baseConfig.ConsoleEncoding,
		moduleName:            moduleName,
		logDir:                m.baseConfig.BaseLogDir,
		enableFile:            m.baseConfig.EnableFile,
		enableConsole:         m.baseConfig.EnableConsole,
		enableLevelInFilename: m.baseConfig.EnableLevelInFilename,
		enableDateInFilename:  m.baseConfig.EnableDateInFilename,
		dateFormat:            m.baseConfig.DateFormat,
		maxSize:               m.baseConfig.MaxSize,
		maxBackups:            m.baseConfig.MaxBackups,
		maxAge:                m.baseConfig.MaxAge,
		compress:              m.baseConfig.Compress,
		enableCaller:          m.baseConfig.EnableCaller,
	}
}

// createLogger 组装 zap.Logger（console + info 文件 + error 文件）
func (m *Manager) createLogger(cfg moduleConfig) *zap.Logger {
	encoder := createEncoder(cfg.encoding)
	var cores []zapcore.Core
	var writers []*lumberjack.Logger

	if cfg.enableConsole {
		consoleEncoder := encoder
		if cfg.consoleEncoding != "" && cfg.consoleEncoding != cfg.encoding {
			consoleEncoder = createEncoder(cfg.consoleEncoding)
		}
		cores = append(cores, zapcore.NewCore(
			consoleEncoder,
			zapcore.AddSync(os.Stdout),
			ParseLevel(cfg.level),
		))
	}

	if cfg.enableFile {
		// info 文件：配置级别以上、Error 以下
		configuredLevel := ParseLevel(cfg.level)
		infoWriter, infoLumber := createFileWriter(cfg.infoFilePath(), cfg)
		writers = append(writers, infoLumber)
		cores = append(cores, zapcore.NewCore(
			encoder,
			infoWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= configuredLevel && lvl < zapcore.ErrorLevel
			}),
		))

		// error 文件：Error 及以上
		errorWriter, errorLumber := createFileWriter(cfg.errorFilePath(), cfg)
		writers = append(writers, errorLumber)
		cores = append(cores, zapcore.NewCore(
			encoder,
			errorWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= zapcore.ErrorLevel
			}),
		))
	}

	var opts []zap.Option
	if cfg.enableCaller {
		opts = append(opts, zap.AddCaller())
	}
	// 堆栈不走 zap.AddStacktrace，由 CtxZapLogger.ErrorCtx 控制深度

	if len(writers) > 0 {
		m.writers[cfg.moduleName] = writers
	}

	return zap.New(zapcore.NewTee(cores...), opts...)
}

// CloseAll 刷新缓冲并关闭所有文件句柄（应用退出时调用）
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, logger := range m.zapLoggers {
		_ = logger.Sync()
	}
	for _, writers := range m.writers {
		for _, w := range writers {
			_ = w.Close()
		}
	}

	m.loggers = make(map[string]*CtxZapLogger)
	m.zapLoggers = make(map[string]*zap.Logger)
	m.writers = make(map[string][]*lumberjack.Logger)
}

// ReloadConfig 热重载配置（重建所有 Logger 实例）
func (m *Manager) ReloadConfig(newCfg ManagerConfig) error {
	newCfg.ApplyDefaults()
	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	m.mu.Lock()
	oldLevel := m.baseConfig.Level

	for _, logger := range m.zapLoggers {
		_ = logger.Sync()
	}
	for _, writers := range m.writers {
		for _, w := range writers {
			_ = w.Close()
		}
	}

	m.loggers = make(map[string]*CtxZapLogger)
	m.zapLoggers = make(map[string]*zap.Logger)
	m.writers = make(map[string][]*lumberjack.Logger)
	m.baseConfig = newCfg
	m.mu.Unlock()

	// 锁外输出变更信息，避免 GetLogger 死锁
	if oldLevel != newCfg.Level {
		m.Debug("logger", "日志级别已更新",
			zap.String("old_level", oldLevel),
			zap.String("new_level", newCfg.Level))
	}
	return nil
}

// Config 返回当前基础配置的副本
func (m *Manager) Config() ManagerConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseConfig
}

// Info 记录 Info 级别日志
func (m *Manager) Info(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).InfoCtx(context.Background(), msg, fields...)
}

// Debug 记录 Debug 级别日志
func (m *Manager) Debug(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).DebugCtx(context.Background(), msg, fields...)
}

// Warn 记录 Warn 级别日志
func (m *Manager) Warn(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).WarnCtx(context.Background(), msg, fields...)
}

// Error 记录 Error 级别日志
func (m *Manager) Error(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).ErrorCtx(context.Background(), msg, fields...)
}

// WithFields 为指定模块创建带预设字段的 Logger
func (m *Manager) WithFields(module string, fields ...zap.Field) *CtxZapLogger {
	return m.GetLogger(module).With(fields...)
}

// InfoCtx 记录 Info 级别日志（从 context 提取 TraceID）
func (m *Manager) InfoCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).InfoCtx(ctx, msg, fields...)
}

// DebugCtx 记录 Debug 级别日志（从 context 提取 TraceID）
func (m *Manager) DebugCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).DebugCtx(ctx, msg, fields...)
}

// WarnCtx 记录 Warn 级别日志（从 context 提取 TraceID）
func (m *Manager) WarnCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).WarnCtx(ctx, msg, fields...)
}

// ErrorCtx 记录 Error 级别日志（从 context 提取 TraceID）
func (m *Manager) ErrorCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).ErrorCtx(ctx, msg, fields...)
}

// createEncoder 创建编码器（json 或 console）
func createEncoder(encoding string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if encoding == "console" {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

// createFileWriter 创建支持切割的文件写入器
func createFileWriter(filename string, cfg moduleConfig) (zapcore.WriteSyncer, *lumberjack.Logger) {
	_ = os.MkdirAll(filepath.Dir(filename), 0o755)

	lumberLogger := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.maxSize,
		MaxBackups: cfg.maxBackups,
		MaxAge:     cfg.maxAge,
		Compress:   cfg.compress,
		LocalTime:  true,
	}
	return zapcore.AddSync(lumberLogger), lumberLogger
}

// ============================================
// 包级别便捷函数（走全局管理器）
// ============================================

// GetLogger 获取指定模块的 CtxZapLogger
// 未初始化时使用默认配置自动初始化
func GetLogger(moduleName string) *CtxZapLogger {
	if globalManager == nil {
		InitManager(DefaultManagerConfig())
	}
	return globalManager.GetLogger(moduleName)
}

// CloseAll 关闭全局管理器的所有 Logger
func CloseAll() {
	if globalManager == nil {
		return
	}
	globalManager.CloseAll()
}

// ReloadConfig 热重载全局管理器配置
func ReloadConfig(newCfg ManagerConfig) error {
	if globalManager == nil {
		return fmt.Errorf("logger manager not initialized")
	}
	return globalManager.ReloadConfig(newCfg)
}

// Info 记录 Info 级别日志
// 用法：logger.Info("order", "订单创建", zap.String("id", "001"))
func Info(module string, msg string, fields ...zap.Field) {
	GetLogger(module).InfoCtx(context.Background(), msg, fields...)
}

// Debug 记录 Debug 级别日志
func Debug(module string, msg string, fields ...zap.Field) {
	GetLogger(module).DebugCtx(context.Background(), msg, fields...)
}

// Warn 记录 Warn 级别日志
func Warn(module string, msg string, fields ...zap.Field) {
	GetLogger(module).WarnCtx(context.Background(), msg, fields...)
}

// Error 记录 Error 级别日志
func Error(module string, msg string, fields ...zap.Field) {
	GetLogger(module).ErrorCtx(context.Background(), msg, fields...)
}

// WithFields 为指定模块创建带预设字段的 Logger
func WithFields(module string, fields ...zap.Field) *CtxZapLogger {
	return GetLogger(module).With(fields...)
}

// InfoCtx 记录 Info 级别日志（从 context 提取 TraceID）
func InfoCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).InfoCtx(ctx, msg, fields...)
}

// DebugCtx 记录 Debug 级别日志（从 context 提取 TraceID）
func DebugCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).DebugCtx(ctx, msg, fields...)
}

// WarnCtx 记录 Warn 级别日志（从 context 提取 TraceID）
func WarnCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).WarnCtx(ctx, msg, fields...)
}

// ErrorCtx 记录 Error 级别日志（从 context 提取 TraceID）
func ErrorCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).ErrorCtx(ctx, msg, fields...)
}
