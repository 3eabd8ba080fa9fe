package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// sqlModule 所有数据库日志统一归属的模块名
const sqlModule = "sql"

// GormLogger 实现 gorm logger.Interface，将 SQL 日志接入本组件
type GormLogger struct {
	slowThreshold time.Duration
	logLevel      gormlogger.LogLevel
	enableAudit   bool // 是否记录所有 SQL 执行
}

// GormLoggerConfig GORM 日志配置
type GormLoggerConfig struct {
	SlowThreshold time.Duration       // 慢查询阈值，默认 200ms
	LogLevel      gormlogger.LogLevel // 日志级别
	EnableAudit   bool                // 是否开启 SQL 审计
}

// DefaultGormLoggerConfig 默认配置
func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormlogger.Info,
		EnableAudit:   true,
	}
}

// NewGormLogger 创建 GORM Logger
func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{
		slowThreshold: cfg.SlowThreshold,
		logLevel:      cfg.LogLevel,
		enableAudit:   cfg.EnableAudit,
	}
}

// LogMode 设置日志级别（实现 gorm logger.Interface）
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

// Info 实现 gorm logger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Info {
		DebugCtx(ctx, sqlModule, fmt.Sprintf(msg, data...))
	}
}

// Warn 实现 gorm logger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Warn {
		WarnCtx(ctx, sqlModule, fmt.Sprintf(msg, data...))
	}
}

// Error 实现 gorm logger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Error {
		ErrorCtx(ctx, sqlModule, fmt.Sprintf(msg, data...))
	}
}

// Trace 记录 SQL 执行（实现 gorm logger.Interface）
// 错误、慢查询、审计三类输出；SQL 先脱敏再落日志
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.String("sql", sanitizeSQL(sql)),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil && l.logLevel >= gormlogger.Error:
		// RecordNotFound 是正常业务路径，不算执行错误
		if !errors.Is(err, gormlogger.ErrRecordNotFound) {
			fields = append(fields, zap.Error(err))
			ErrorCtx(ctx, sqlModule, "SQL 执行错误", fields...)
		} else if l.enableAudit {
			DebugCtx(ctx, sqlModule, "SQL 执行", fields...)
		}

	case elapsed > l.slowThreshold && l.slowThreshold != 0 && l.logLevel >= gormlogger.Warn:
		fields = append(fields, zap.Duration("threshold", l.slowThreshold))
		if elapsed > l.slowThreshold*2 {
			ErrorCtx(ctx, sqlModule, "严重慢查询", fields...)
		} else {
			WarnCtx(ctx, sqlModule, "慢查询检测", fields...)
		}

	case l.logLevel >= gormlogger.Info:
		if l.enableAudit {
			DebugCtx(ctx, sqlModule, "SQL 执行", fields...)
		}
	}
}
