// Package config 提供多数据源合并的配置加载
//
// Loader 按优先级合并若干 Source（默认值 < 配置文件 < 环境配置文件
// < 环境变量 < 命令行参数），合并结果同步到底层 viper 实例，
// 读取与 Unmarshal 都经 viper 完成。
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/viper"
)

// Loader 配置加载器（多数据源合并）
type Loader struct {
	mu          sync.RWMutex
	sources     []Source
	merged      map[string]any // 合并后的展平配置
	v           *viper.Viper
	loadedFiles []string
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{
		merged: make(map[string]any),
		v:      viper.New(),
	}
}

// AddSource 添加配置数据源
// 加载顺序由 Source.Priority 决定，与添加顺序无关
func (l *Loader) AddSource(source Source) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources = append(l.sources, source)
}

// Load 按优先级从低到高加载并合并全部数据源
// 高优先级数据源的同名 key 覆盖低优先级
func (l *Loader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sorted := append([]Source(nil), l.sources...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	merged := make(map[string]any)
	var loadedFiles []string
	for _, source := range sorted {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("load config source %s: %w", source.Name(), err)
		}

		if fs, ok := source.(*FileSource); ok && len(data) > 0 {
			loadedFiles = append(loadedFiles, fs.path)
		}

		for key, value := range data {
			merged[key] = value
		}
	}

	// 同步到 viper：读取面复用 viper 的类型转换与嵌套查找
	v := viper.New()
	for key, value := range unflattenMap(merged) {
		v.Set(key, value)
	}

	l.merged = merged
	l.v = v
	l.loadedFiles = loadedFiles
	return nil
}

// Reload 重新加载全部数据源
func (l *Loader) Reload() error {
	return l.Load()
}

// Unmarshal 将配置解析到结构体（mapstructure 标签）
func (l *Loader) Unmarshal(out any) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.Unmarshal(out)
}

// UnmarshalKey 将指定 key 下的配置解析到结构体
func (l *Loader) UnmarshalKey(key string, out any) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.UnmarshalKey(key, out)
}

// Get 读取配置值
func (l *Loader) Get(key string) any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.Get(key)
}

// GetString 读取字符串配置
func (l *Loader) GetString(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.GetString(key)
}

// GetInt 读取整数配置
func (l *Loader) GetInt(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.GetInt(key)
}

// GetBool 读取布尔配置
func (l *Loader) GetBool(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.GetBool(key)
}

// IsSet 检查配置项是否存在
func (l *Loader) IsSet(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.IsSet(key)
}

// AllSettings 返回全部配置（嵌套形式）
func (l *Loader) AllSettings() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.AllSettings()
}

// LoadedFiles 返回实际加载到数据的配置文件列表
func (l *Loader) LoadedFiles() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.loadedFiles...)
}

// Viper 返回底层 viper 实例
func (l *Loader) Viper() *viper.Viper {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v
}
