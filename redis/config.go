package redis

import (
	"fmt"
	"time"
)

// Config describes a single Redis instance (standalone or cluster).
type Config struct {
	Mode         string        `mapstructure:"mode"`           // standalone | cluster
	Addrs        []string      `mapstructure:"addrs"`          // node addresses (standalone uses the first)
	Addr         string        `mapstructure:"addr"`           // single-address shorthand, merged into Addrs
	Password     string        `mapstructure:"password"`       //
	DB           int           `mapstructure:"db"`             // standalone only, 0-15
	PoolSize     int           `mapstructure:"pool_size"`      //
	MinIdleConns int           `mapstructure:"min_idle_conns"` //
	MaxRetries   int           `mapstructure:"max_retries"`    //
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`   //
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`   //
	WriteTimeout time.Duration `mapstructure:"write_timeout"`  //
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = "standalone"
	}
	if c.Addr != "" && len(c.Addrs) == 0 {
		c.Addrs = []string{c.Addr}
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 5
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() error {
	if c.Mode != "standalone" && c.Mode != "cluster" {
		return fmt.Errorf("invalid mode %q (expected standalone or cluster)", c.Mode)
	}
	if len(c.Addrs) == 0 {
		return fmt.Errorf("addrs cannot be empty")
	}
	if c.Mode == "standalone" && (c.DB < 0 || c.DB > 15) {
		return fmt.Errorf("db must be within 0-15, got %d", c.DB)
	}
	if c.Mode == "cluster" && c.DB != 0 {
		return fmt.Errorf("cluster mode does not support db selection")
	}
	return nil
}
