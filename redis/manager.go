// Package redis manages named Redis connections (standalone and cluster)
// built from configuration. Connections are verified with a ping at
// creation time so misconfiguration fails early.
package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/KOMKZ/go-yogan-container/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Manager owns all configured Redis clients, keyed by instance name.
type Manager struct {
	instances map[string]*redis.Client
	clusters  map[string]*redis.ClusterClient
	configs   map[string]Config
	log       logger.CtxLogger
	mu        sync.RWMutex
}

// NewManager builds clients for every named config entry.
// Every connection is pinged once; any failure aborts construction.
func NewManager(configs map[string]Config, log logger.CtxLogger) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	ctx := context.Background()
	m := &Manager{
		instances: make(map[string]*redis.Client),
		clusters:  make(map[string]*redis.ClusterClient),
		configs:   make(map[string]Config),
		log:       log,
	}

	for name, cfg := range configs {
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid redis config %q: %w", name, err)
		}

		switch cfg.Mode {
		case "standalone":
			client, err := m.dialClient(cfg)
			if err != nil {
				return nil, fmt.Errorf("connect redis %q: %w", name, err)
			}
			m.instances[name] = client
		case "cluster":
			cluster, err := m.dialCluster(cfg)
			if err != nil {
				return nil, fmt.Errorf("connect redis cluster %q: %w", name, err)
			}
			m.clusters[name] = cluster
		}
		m.configs[name] = cfg

		m.log.DebugCtx(ctx, "redis connected",
			zap.String("name", name),
			zap.String("mode", cfg.Mode),
			zap.Strings("addrs", cfg.Addrs))
	}

	return m, nil
}

func (m *Manager) dialClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addrs[0],
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	return client, nil
}

func (m *Manager) dialCluster(cfg Config) (*redis.ClusterClient, error) {
	cluster := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:        cfg.Addrs,
		Password:     cfg.Password,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := cluster.Ping(context.Background()).Err(); err != nil {
		cluster.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	return cluster, nil
}

// Client returns the standalone client registered under name, or nil.
func (m *Manager) Client(name string) *redis.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[name]
}

// Cluster returns the cluster client registered under name, or nil.
func (m *Manager) Cluster(name string) *redis.ClusterClient {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clusters[name]
}

// WithDB opens a new client for the same instance pointed at another
// database number. Standalone instances only; the caller owns the
// returned client and must close it.
func (m *Manager) WithDB(name string, db int) *redis.Client {
	client := m.Client(name)
	if client == nil {
		return nil
	}

	opts := client.Options()
	opts.DB = db
	fresh := redis.NewClient(opts)

	ctx := context.Background()
	if err := fresh.Ping(ctx).Err(); err != nil {
		m.log.ErrorCtx(ctx, "redis WithDB ping failed",
			zap.String("name", name),
			zap.Int("db", db),
			zap.Error(err))
		fresh.Close()
		return nil
	}
	return fresh
}

// Ping verifies every managed connection.
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, client := range m.instances {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping %s: %w", name, err)
		}
	}
	for name, cluster := range m.clusters {
		if err := cluster.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping cluster %s: %w", name, err)
		}
	}
	return nil
}

// InstanceNames lists the standalone instance names.
func (m *Manager) InstanceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.instances))
	for name := range m.instances {
		names = append(names, name)
	}
	return names
}

// Close releases every managed connection. Errors are logged but do not
// stop the remaining clients from being closed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx := context.Background()
	for name, client := range m.instances {
		if err := client.Close(); err != nil {
			m.log.ErrorCtx(ctx, "close redis connection failed",
				zap.String("name", name), zap.Error(err))
		}
	}
	for name, cluster := range m.clusters {
		if err := cluster.Close(); err != nil {
			m.log.ErrorCtx(ctx, "close redis cluster failed",
				zap.String("name", name), zap.Error(err))
		}
	}
	return nil
}
