package config

import (
	"os"
	"strings"
)

// EnvSource 环境变量数据源
//
// 两种工作模式：
//   - 显式 bindings：只读取登记过的环境变量
//   - 前缀扫描：APP_SERVER_PORT -> server.port（prefix 为 APP 时）
type EnvSource struct {
	prefix   string
	priority int
	bindings map[string]string // 配置 key -> 环境变量名
}

// NewEnvSource 创建环境变量数据源
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
		bindings: make(map[string]string),
	}
}

// AddBinding 登记配置 key 与环境变量的映射
// 例如：AddBinding("server.port", "SERVER_PORT")
func (s *EnvSource) AddBinding(key, envKey string) {
	s.bindings[key] = envKey
}

// Name 数据源名称
func (s *EnvSource) Name() string {
	return "env:" + s.prefix
}

// Priority 优先级
func (s *EnvSource) Priority() int {
	return s.priority
}

// Load 加载环境变量配置
func (s *EnvSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	if len(s.bindings) > 0 {
		for key, envKey := range s.bindings {
			full := envKey
			if s.prefix != "" && !strings.HasPrefix(envKey, s.prefix+"_") {
				full = s.prefix + "_" + envKey
			}
			if value := os.Getenv(full); value != "" {
				result[key] = value
			}
		}
		return result, nil
	}

	if s.prefix == "" {
		return result, nil
	}

	prefix := s.prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		if value == "" {
			continue
		}

		key := strings.TrimPrefix(name, prefix)
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "_", ".")
		result[key] = value
	}

	return result, nil
}
