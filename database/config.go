// Package database manages named GORM connections and provides a
// generic repository base for data access layers.
package database

import (
	"time"
)

// Config describes one database connection.
type Config struct {
	Driver          string        `mapstructure:"driver"`            // mysql, postgres, sqlite
	DSN             string        `mapstructure:"dsn"`               //
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    //
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    //
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` //
	EnableLog       bool          `mapstructure:"enable_log"`        // SQL logging via the injected logger factory
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`    // slow query threshold
}

// DefaultConfig returns a config with production-leaning pool sizes.
func DefaultConfig() Config {
	return Config{
		Driver:          "mysql",
		MaxOpenConns:    100,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		EnableLog:       true,
		SlowThreshold:   200 * time.Millisecond,
	}
}

// Validate normalizes zero values and rejects unusable configs.
func (c *Config) Validate() error {
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.DSN == "" {
		return ErrInvalidConfig
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 100
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 10
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.SlowThreshold <= 0 {
		c.SlowThreshold = 200 * time.Millisecond
	}
	return nil
}
