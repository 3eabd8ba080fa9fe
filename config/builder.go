package config

import (
	"os"
	"path/filepath"
)

// LoaderBuilder 配置加载器构建器
//
// Build 按约定装配数据源：
//
//	defaults(1) < config.yaml(10) < {env}.yaml(20) < 环境变量(50) < flags(100)
type LoaderBuilder struct {
	configPath string
	envPrefix  string
	defaults   map[string]any
	flags      any
}

// NewLoaderBuilder 创建构建器
func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{}
}

// WithConfigPath 设置配置目录
func (b *LoaderBuilder) WithConfigPath(path string) *LoaderBuilder {
	b.configPath = path
	return b
}

// WithEnvPrefix 设置环境变量前缀
func (b *LoaderBuilder) WithEnvPrefix(prefix string) *LoaderBuilder {
	b.envPrefix = prefix
	return b
}

// WithDefaults 设置默认值（最低优先级）
func (b *LoaderBuilder) WithDefaults(values map[string]any) *LoaderBuilder {
	b.defaults = values
	return b
}

// WithFlags 设置命令行参数结构体
func (b *LoaderBuilder) WithFlags(flags any) *LoaderBuilder {
	b.flags = flags
	return b
}

// Build 装配数据源并完成首次加载
func (b *LoaderBuilder) Build() (*Loader, error) {
	loader := NewLoader()

	if b.defaults != nil {
		loader.AddSource(NewDefaultsSource(b.defaults))
	}

	if b.configPath != "" {
		loader.AddSource(NewFileSource(filepath.Join(b.configPath, "config.yaml"), PriorityFile))

		if env := GetEnv(); env != "" {
			loader.AddSource(NewFileSource(filepath.Join(b.configPath, env+".yaml"), PriorityEnvFile))
		}
	}

	if b.envPrefix != "" {
		loader.AddSource(NewEnvSource(b.envPrefix, PriorityEnv))
	}

	if b.flags != nil {
		loader.AddSource(NewFlagSource(b.flags, PriorityFlags))
	}

	if err := loader.Load(); err != nil {
		return nil, err
	}
	return loader, nil
}

// GetEnv 读取运行环境（优先级：APP_ENV > ENV > 默认 dev）
func GetEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "dev"
}
