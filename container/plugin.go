package container

import "fmt"

// MockVariant 约定的 mock 变体名，UseMocks 即切换到该变体
const MockVariant = "mock"

// SetupFunc 插件安装函数：向容器注册一组绑定
// 安装只做注册不做解析，Provider 错误在 Get 时才会浮现
type SetupFunc func(c *BasicContainer)

// Plugin 容器插件
//
// Setup 为主安装函数；Variants 按名字挂载替代实现（约定 "mock" 为
// 测试替身变体）。容器经 UseSubPlugin 选定首选变体后，Use 会优先
// 安装同名变体，插件未携带该变体时回退 Setup。
type Plugin struct {
	Name     string
	Setup    SetupFunc
	Variants map[string]SetupFunc
}

// setup 返回容器应安装的函数：优先 variant 命中的变体，否则主实现
func (p Plugin) setup(variant string) SetupFunc {
	if variant != "" {
		if alt, ok := p.Variants[variant]; ok && alt != nil {
			return alt
		}
	}
	return p.Setup
}

// Use 将插件依次安装到容器上（同步、按参数顺序）
// 包级函数与 (*BasicContainer).Use 等价，便于函数式组合
func Use(c *BasicContainer, plugins ...Plugin) *BasicContainer {
	return c.Use(plugins...)
}

// NewBasicWith 创建容器并安装插件
// 组合替代继承：返回装配完成的普通 BasicContainer，而非派生类型
func NewBasicWith(plugins ...Plugin) *BasicContainer {
	return NewBasic().Use(plugins...)
}

// NewBasicChildWith 创建子容器并安装插件
func NewBasicChildWith(parent Resolver, plugins ...Plugin) *BasicChildContainer {
	return NewBasicChild(parent).Use(plugins...)
}

func panicNoSetup(p Plugin) {
	name := p.Name
	if name == "" {
		name = "(unnamed)"
	}
	panic(fmt.Sprintf("container: plugin %s 缺少 Setup 函数", name))
}
