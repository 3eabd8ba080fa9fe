package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-container/logger"
)

func sqliteConfigs() map[string]Config {
	return map[string]Config{
		"main": {Driver: "sqlite", DSN: "file::memory:?cache=shared"},
	}
}

func newTestDBManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(sqliteConfigs(), nil, logger.NewTestCtxLogger())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestNewManagerNilLogger(t *testing.T) {
	_, err := NewManager(sqliteConfigs(), nil, nil)
	assert.ErrorContains(t, err, "logger cannot be nil")
}

func TestNewManagerInvalidConfig(t *testing.T) {
	_, err := NewManager(map[string]Config{"bad": {Driver: "sqlite"}}, nil, logger.NewTestCtxLogger())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewManagerUnsupportedDriver(t *testing.T) {
	_, err := NewManager(map[string]Config{
		"bad": {Driver: "oracle", DSN: "whatever"},
	}, nil, logger.NewTestCtxLogger())
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestManagerDB(t *testing.T) {
	m := newTestDBManager(t)
	assert.NotNil(t, m.DB("main"))
	assert.Nil(t, m.DB("missing"))
	assert.Equal(t, []string{"main"}, m.DBNames())
}

func TestManagerPing(t *testing.T) {
	m := newTestDBManager(t)
	assert.NoError(t, m.Ping())
}

func TestManagerStats(t *testing.T) {
	m := newTestDBManager(t)

	stats, err := m.Stats("main")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)

	_, err = m.Stats("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestConfigValidateDefaults(t *testing.T) {
	cfg := Config{DSN: "x"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, 100, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
}
