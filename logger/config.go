package logger

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// ManagerConfig 日志管理器配置（所有模块共享）
type ManagerConfig struct {
	BaseLogDir      string `mapstructure:"base_log_dir"` // 日志根目录（默认 logs/）
	Level           string `mapstructure:"level"`
	AppName         string `mapstructure:"app_name"` // 应用名（注入所有日志）
	Encoding        string `mapstructure:"encoding"` // json 或 console
	ConsoleEncoding string `mapstructure:"console_encoding"`
	EnableConsole   bool   `mapstructure:"enable_console"`
	EnableFile      bool   `mapstructure:"enable_file"`

	// 文件名格式
	EnableLevelInFilename bool   `mapstructure:"enable_level_in_filename"`
	EnableDateInFilename  bool   `mapstructure:"enable_date_in_filename"`
	DateFormat            string `mapstructure:"date_format"`

	// 文件切割（lumberjack）
	MaxSize    int  `mapstructure:"max_size"`    // 单文件上限（MB）
	MaxBackups int  `mapstructure:"max_backups"` // 保留旧文件数
	MaxAge     int  `mapstructure:"max_age"`     // 保留天数
	Compress   bool `mapstructure:"compress"`

	// 堆栈
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
	StacktraceLevel  string `mapstructure:"stacktrace_level"` // 从哪个级别开始记录堆栈
	StacktraceDepth  int    `mapstructure:"stacktrace_depth"` // 堆栈深度（0=不限制）

	// TraceID
	// EnableTraceID 三态开关：nil 视为开启，显式 false 才关闭，
	// 字面量构造的配置不会因漏填而丢失 TraceID 注入
	EnableTraceID    *bool  `mapstructure:"enable_trace_id"`
	TraceIDKey       string `mapstructure:"trace_id_key"`
	TraceIDFieldName string `mapstructure:"trace_id_field_name"`
}

// moduleConfig 单个模块的日志配置（由 Manager 从 ManagerConfig 派生）
type moduleConfig struct {
	level           string
	encoding        string
	consoleEncoding string
	moduleName      string
	logDir          string

	enableFile    bool
	enableConsole bool

	enableLevelInFilename bool
	enableDateInFilename  bool
	dateFormat            string

	maxSize    int
	maxBackups int
	maxAge     int
	compress   bool

	enableCaller bool
}

// DefaultManagerConfig 返回默认配置
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		BaseLogDir:            "logs",
		Level:                 "info",
		Encoding:              "json",
		EnableConsole:         true,
		EnableFile:            true,
		EnableLevelInFilename: true,
		EnableDateInFilename:  true,
		DateFormat:            "2006-01-02",
		MaxSize:               100,
		MaxBackups:            3,
		MaxAge:                28,
		Compress:              true,
		EnableCaller:          true,
		EnableStacktrace:      true,
		StacktraceLevel:       "error",
		StacktraceDepth:       5,
		EnableTraceID:         boolPtr(true),
		TraceIDKey:            "trace_id",
		TraceIDFieldName:      "trace_id",
	}
}

func boolPtr(b bool) *bool { return &b }

// TraceIDEnabled 返回 TraceID 注入是否生效（未配置视为开启）
func (c *ManagerConfig) TraceIDEnabled() bool {
	return c.EnableTraceID == nil || *c.EnableTraceID
}

// ApplyDefaults 将零值字段填充为默认值（原地修改）
// 普通布尔字段无法区分"未配置"与 false，保持原值；
// EnableTraceID 为指针三态，nil 填充为默认开启
func (c *ManagerConfig) ApplyDefaults() {
	defaults := DefaultManagerConfig()

	if c.BaseLogDir == "" {
		c.BaseLogDir = defaults.BaseLogDir
	}
	if c.Level == "" {
		c.Level = defaults.Level
	}
	if c.Encoding == "" {
		c.Encoding = defaults.Encoding
	}
	if c.DateFormat == "" {
		c.DateFormat = defaults.DateFormat
	}
	if c.StacktraceLevel == "" {
		c.StacktraceLevel = defaults.StacktraceLevel
	}
	if c.EnableTraceID == nil {
		c.EnableTraceID = defaults.EnableTraceID
	}
	if c.TraceIDKey == "" {
		c.TraceIDKey = defaults.TraceIDKey
	}
	if c.TraceIDFieldName == "" {
		c.TraceIDFieldName = defaults.TraceIDFieldName
	}
	if c.MaxSize == 0 {
		c.MaxSize = defaults.MaxSize
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = defaults.MaxBackups
	}
	if c.MaxAge == 0 {
		c.MaxAge = defaults.MaxAge
	}
}

// Validate 验证配置（实现 config.Validator 接口）
func (c ManagerConfig) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !contains(validLevels, c.Level) {
		return fmt.Errorf("[Logger] 无效日志级别: %s（可选: %v）", c.Level, validLevels)
	}

	validEncodings := []string{"json", "console"}
	if !contains(validEncodings, c.Encoding) {
		return fmt.Errorf("[Logger] 无效编码格式: %s（可选: %v）", c.Encoding, validEncodings)
	}

	if c.MaxSize < 1 || c.MaxSize > 10000 {
		return fmt.Errorf("[Logger] MaxSize 必须在 1-10000 MB 之间, 当前: %d", c.MaxSize)
	}
	if c.MaxBackups < 0 || c.MaxBackups > 1000 {
		return fmt.Errorf("[Logger] MaxBackups 必须在 0-1000 之间, 当前: %d", c.MaxBackups)
	}
	if c.MaxAge < 0 || c.MaxAge > 3650 {
		return fmt.Errorf("[Logger] MaxAge 必须在 0-3650 天之间, 当前: %d", c.MaxAge)
	}
	if !contains(validLevels, c.StacktraceLevel) {
		return fmt.Errorf("[Logger] 无效堆栈级别: %s（可选: %v）", c.StacktraceLevel, validLevels)
	}
	if c.EnableDateInFilename && c.DateFormat == "" {
		return fmt.Errorf("[Logger] 启用文件名日期时必须指定日期格式")
	}

	return nil
}

// ParseLevel 解析日志级别字符串
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

// moduleLogDir 模块日志目录，如 logs/order/
func (c moduleConfig) moduleLogDir() string {
	if c.moduleName == "" {
		return c.logDir
	}
	return filepath.Join(c.logDir, c.moduleName)
}

func (c moduleConfig) infoFilePath() string {
	return c.buildFilePath("info")
}

func (c moduleConfig) errorFilePath() string {
	return c.buildFilePath("error")
}

// buildFilePath 构建日志文件路径
// 支持的形式：
//   - logs/order/order.log
//   - logs/order/order-info.log
//   - logs/order/order-info-2024-12-19.log
func (c moduleConfig) buildFilePath(level string) string {
	parts := []string{c.moduleName}

	if c.enableLevelInFilename {
		parts = append(parts, level)
	}
	if c.enableDateInFilename {
		parts = append(parts, time.Now().Format(c.dateFormat))
	}

	filename := strings.Join(parts, "-")
	return filepath.Join(c.moduleLogDir(), filename+".log")
}
