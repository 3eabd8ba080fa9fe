package config

// Source 配置数据源接口
// 文件、环境变量、命令行参数、内存默认值等数据源统一实现该接口
type Source interface {
	// Name 数据源名称（用于日志与调试）
	Name() string

	// Priority 优先级，数值越大优先级越高
	// 约定值：
	//   - 内存默认值: 1
	//   - 基础配置文件 (config.yaml): 10
	//   - 环境配置文件 (dev.yaml): 20
	//   - 环境变量: 50
	//   - 命令行参数: 100
	Priority() int

	// Load 加载配置数据
	// 返回的 map 以点号分隔层级，如 "server.port"
	Load() (map[string]any, error)
}

// 约定优先级
const (
	PriorityDefaults = 1
	PriorityFile     = 10
	PriorityEnvFile  = 20
	PriorityEnv      = 50
	PriorityFlags    = 100
)

// ValuesSource 内存配置数据源
// 用于注入默认值或测试配置，数据在构造时给定
type ValuesSource struct {
	name     string
	values   map[string]any
	priority int
}

// NewValuesSource 创建内存数据源
// values 的 key 以点号分隔层级
func NewValuesSource(name string, values map[string]any, priority int) *ValuesSource {
	return &ValuesSource{
		name:     name,
		values:   values,
		priority: priority,
	}
}

// NewDefaultsSource 创建默认值数据源（优先级最低）
func NewDefaultsSource(values map[string]any) *ValuesSource {
	return NewValuesSource("defaults", values, PriorityDefaults)
}

// Name 数据源名称
func (s *ValuesSource) Name() string {
	return "values:" + s.name
}

// Priority 优先级
func (s *ValuesSource) Priority() int {
	return s.priority
}

// Load 返回构造时给定的配置（拷贝，调用方修改不回写）
func (s *ValuesSource) Load() (map[string]any, error) {
	result := make(map[string]any, len(s.values))
	for k, v := range s.values {
		result[k] = v
	}
	return result, nil
}
