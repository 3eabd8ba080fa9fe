package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KOMKZ/go-yogan-container/logger"
)

// GormLoggerFactory builds the gorm logger for one connection. Injected
// so the caller decides how SQL logs reach the application logger.
type GormLoggerFactory func(cfg Config) gormlogger.Interface

// Manager owns all configured database connections, keyed by name.
type Manager struct {
	instances     map[string]*gorm.DB
	configs       map[string]Config
	loggerFactory GormLoggerFactory
	log           logger.CtxLogger
	mu            sync.RWMutex
}

// NewManager opens a connection per named config entry.
// loggerFactory may be nil; SQL logging is then silent.
func NewManager(configs map[string]Config, loggerFactory GormLoggerFactory, log logger.CtxLogger) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	m := &Manager{
		instances:     make(map[string]*gorm.DB),
		configs:       make(map[string]Config),
		loggerFactory: loggerFactory,
		log:           log,
	}

	for name, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid database config %q: %w", name, err)
		}

		db, err := m.openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database %q: %w", name, err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB for %q: %w", name, err)
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

		m.instances[name] = db
		m.configs[name] = cfg

		m.log.DebugCtx(context.Background(), "database connected",
			zap.String("name", name),
			zap.String("driver", cfg.Driver))
	}

	return m, nil
}

func (m *Manager) openDB(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	var gl gormlogger.Interface
	if m.loggerFactory != nil && cfg.EnableLog {
		gl = m.loggerFactory(cfg)
	} else {
		gl = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gl,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
}

// DB returns the connection registered under name, or nil.
func (m *Manager) DB(name string) *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[name]
}

// DBNames lists the configured connection names.
func (m *Manager) DBNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.instances))
	for name := range m.instances {
		names = append(names, name)
	}
	return names
}

// Ping verifies every managed connection.
func (m *Manager) Ping() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, db := range m.instances {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB for %s: %w", name, err)
		}
		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("ping %s: %w", name, err)
		}
	}
	return nil
}

// Stats reports connection pool statistics for one connection.
func (m *Manager) Stats(name string) (sql.DBStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	db, ok := m.instances[name]
	if !ok {
		return sql.DBStats{}, fmt.Errorf("database %s not found", name)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return sql.DBStats{}, err
	}
	return sqlDB.Stats(), nil
}

// Close releases every managed connection. Errors are logged but do not
// stop the remaining connections from being closed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx := context.Background()
	for name, db := range m.instances {
		sqlDB, err := db.DB()
		if err != nil {
			m.log.ErrorCtx(ctx, "get sql.DB failed on close",
				zap.String("name", name), zap.Error(err))
			continue
		}
		if err := sqlDB.Close(); err != nil {
			m.log.ErrorCtx(ctx, "close database failed",
				zap.String("name", name), zap.Error(err))
		}
	}
	return nil
}
