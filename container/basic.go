package container

import "sync"

// BasicContainer 标准容器：预解析绑定 + 插件体系
//
// 在 PreProcessContainer 之上叠加两组插件能力：
//
//   - 变体替换：UseMocks / UseSubPlugin 选定首选变体后，
//     后续 Use 安装同名变体（插件未携带时回退主实现）
//   - 注册式应用：RegisterPlugin 先登记（可贴标签），
//     ApplyPlugins 再按标签选择性安装或全量按注册顺序安装
type BasicContainer struct {
	*PreProcessContainer

	pmu        sync.RWMutex
	variant    string // 首选变体名，空串表示主实现
	registered []Plugin
	tagIndex   map[string]int // tag → registered 下标，后注册者接管同名标签
}

// NewBasic 创建标准容器
func NewBasic() *BasicContainer {
	return &BasicContainer{
		PreProcessContainer: NewPreProcess(),
		tagIndex:            make(map[string]int),
	}
}

// Use 依次安装插件（同步、按参数顺序），返回容器自身
// 已设定首选变体时优先安装对应变体；变体名在每个插件安装时读取，
// 插件安装过程中切换变体会影响后续插件
func (c *BasicContainer) Use(plugins ...Plugin) *BasicContainer {
	for _, p := range plugins {
		c.pmu.RLock()
		variant := c.variant
		c.pmu.RUnlock()

		setup := p.setup(variant)
		if setup == nil {
			panicNoSetup(p)
		}
		setup(c)
	}
	return c
}

// UseMocks 切换到 mock 变体
// 之后 Use 安装的插件凡携带 "mock" 变体即以变体替换主实现
func (c *BasicContainer) UseMocks() *BasicContainer {
	return c.UseSubPlugin(MockVariant)
}

// UseSubPlugin 设定首选变体名；空串恢复主实现
func (c *BasicContainer) UseSubPlugin(name string) *BasicContainer {
	c.pmu.Lock()
	c.variant = name
	c.pmu.Unlock()
	return c
}

// Variant 返回当前首选变体名（空串表示主实现）
func (c *BasicContainer) Variant() string {
	c.pmu.RLock()
	defer c.pmu.RUnlock()
	return c.variant
}

// RegisterPlugin 登记插件但不安装，可附带若干标签
// 登记顺序被保留；同名标签以最后一次登记的插件为准
func (c *BasicContainer) RegisterPlugin(p Plugin, tags ...string) *BasicContainer {
	c.pmu.Lock()
	c.registered = append(c.registered, p)
	idx := len(c.registered) - 1
	for _, t := range tags {
		c.tagIndex[t] = idx
	}
	c.pmu.Unlock()
	return c
}

// ApplyPlugins 安装已登记的插件
//
// 不带参数：按登记顺序安装全部插件。
// 带标签参数：按标签出现顺序安装对应插件；遇到未登记的标签立即
// 返回 *TagNotRegisteredError（其之前的标签已安装完成）。
// 安装经由 Use 执行，首选变体照常生效。
func (c *BasicContainer) ApplyPlugins(tags ...string) error {
	if len(tags) == 0 {
		c.pmu.RLock()
		all := append([]Plugin(nil), c.registered...)
		c.pmu.RUnlock()
		c.Use(all...)
		return nil
	}

	for _, t := range tags {
		c.pmu.RLock()
		idx, ok := c.tagIndex[t]
		var p Plugin
		if ok {
			p = c.registered[idx]
		}
		c.pmu.RUnlock()

		if !ok {
			return &TagNotRegisteredError{Tag: t}
		}
		c.Use(p)
	}
	return nil
}

// PluginNames 返回已登记插件的名字（登记顺序）
func (c *BasicContainer) PluginNames() []string {
	c.pmu.RLock()
	defer c.pmu.RUnlock()
	names := make([]string, len(c.registered))
	for i, p := range c.registered {
		names[i] = p.Name
	}
	return names
}

// PluginCount 返回已登记插件个数
func (c *BasicContainer) PluginCount() int {
	c.pmu.RLock()
	defer c.pmu.RUnlock()
	return len(c.registered)
}

// Bind 注册预解析绑定（默认 singleton），返回自身以保持链式调用
func (c *BasicContainer) Bind(id Identifier, def Def) *BasicContainer {
	c.PreProcessContainer.Bind(id, def)
	return c
}

// BindTo 注册原始绑定（默认 transient），返回自身以保持链式调用
func (c *BasicContainer) BindTo(id Identifier, provider Provider, scope ...Scope) *BasicContainer {
	c.PreProcessContainer.BindTo(id, provider, scope...)
	return c
}

// Unbind 移除绑定，返回自身以保持链式调用
func (c *BasicContainer) Unbind(id Identifier) *BasicContainer {
	c.PreProcessContainer.Unbind(id)
	return c
}

// BasicChildContainer 标准子容器
//
// 插件面与 BasicContainer 完全一致，查找面具备分层语义：
// 本地未命中回退父容器，本地绑定遮蔽父级，父容器永不被修改
type BasicChildContainer struct {
	*BasicContainer
}

// NewBasicChild 以任意 Resolver 为父创建标准子容器
// 父容器通常是另一个 BasicContainer，也可以是容器家族的任意成员
func NewBasicChild(parent Resolver) *BasicChildContainer {
	if parent == nil {
		panic("container: 子容器的 parent 不能为 nil")
	}
	return &BasicChildContainer{
		BasicContainer: &BasicContainer{
			PreProcessContainer: newPreProcess(parent),
			tagIndex:            make(map[string]int),
		},
	}
}

// Use 依次安装插件，返回子容器自身以保持链式调用
func (c *BasicChildContainer) Use(plugins ...Plugin) *BasicChildContainer {
	c.BasicContainer.Use(plugins...)
	return c
}

// UseMocks 切换到 mock 变体
func (c *BasicChildContainer) UseMocks() *BasicChildContainer {
	c.BasicContainer.UseMocks()
	return c
}

// UseSubPlugin 设定首选变体名
func (c *BasicChildContainer) UseSubPlugin(name string) *BasicChildContainer {
	c.BasicContainer.UseSubPlugin(name)
	return c
}

// RegisterPlugin 登记插件
func (c *BasicChildContainer) RegisterPlugin(p Plugin, tags ...string) *BasicChildContainer {
	c.BasicContainer.RegisterPlugin(p, tags...)
	return c
}

// Bind 注册预解析绑定
func (c *BasicChildContainer) Bind(id Identifier, def Def) *BasicChildContainer {
	c.BasicContainer.Bind(id, def)
	return c
}

// BindTo 注册原始绑定
func (c *BasicChildContainer) BindTo(id Identifier, provider Provider, scope ...Scope) *BasicChildContainer {
	c.BasicContainer.BindTo(id, provider, scope...)
	return c
}

// Unbind 移除本地绑定
func (c *BasicChildContainer) Unbind(id Identifier) *BasicChildContainer {
	c.BasicContainer.Unbind(id)
	return c
}
