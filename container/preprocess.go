package container

import (
	"fmt"

	"go.uber.org/zap"
)

// DepProvider 预解析构造函数
// 声明的依赖在其运行前已按序解析完毕，经 deps 参数传入；
// r 仍可用于解析未声明的绑定
type DepProvider func(r Resolver, deps Deps) (any, error)

// Def 预解析绑定定义
type Def struct {
	// Provide 构造函数，不能为 nil
	Provide DepProvider

	// Dependencies 需要预解析的依赖，按声明顺序解析并传入 Provide
	Dependencies []Dependency

	// Scope 作用域，零值按 ScopeSingleton 处理
	// 🎯 与 BindTo 的默认值相反：预解析绑定多用于服务对象，默认单例
	Scope Scope

	// Meta 绑定元数据，随绑定存储，可经 Meta(id) 读取
	Meta map[string]any
}

// Deps 预解析完成的依赖集合
// 同时提供按位置与按标识符两种取值方式；可选依赖缺失时值为 nil
type Deps struct {
	ids    []Identifier
	values []any
	byID   map[Identifier]any
}

// At 按声明位置取依赖值（越界 panic，属调用方编码错误）
func (d Deps) At(i int) any {
	return d.values[i]
}

// Get 按标识符取依赖值；ok 表示该标识符出现在依赖声明中
func (d Deps) Get(id Identifier) (any, bool) {
	v, ok := d.byID[id]
	return v, ok
}

// Values 返回声明顺序的依赖值切片
func (d Deps) Values() []any {
	return d.values
}

// Len 返回声明的依赖个数
func (d Deps) Len() int {
	return len(d.ids)
}

// PreProcessContainer 带依赖预解析的容器
//
// Bind 注册的绑定在 Provider 运行前先解析声明的依赖：必选依赖缺失时
// Provider 不会执行，错误中携带缺失依赖的标识符（errors.As 取
// *NotFoundError 可读出）。同时保留 BindTo 的原始绑定能力，
// 两者默认作用域不同：BindTo 默认 transient，Bind 默认 singleton。
type PreProcessContainer struct {
	reg    registry
	parent Resolver // nil 表示根容器
}

// NewPreProcess 创建预解析容器
func NewPreProcess() *PreProcessContainer {
	return &PreProcessContainer{reg: newRegistry()}
}

// newPreProcess 内部构造：parent 非 nil 时本地未命中回退父容器
// BasicChildContainer 经此获得分层查找能力
func newPreProcess(parent Resolver) *PreProcessContainer {
	return &PreProcessContainer{reg: newRegistry(), parent: parent}
}

// SetLogger 设置调试日志组件（可选，只允许设置一次）
func (c *PreProcessContainer) SetLogger(l *zap.Logger) {
	c.reg.setLogger(l)
}

// Bind 注册预解析绑定，默认 singleton 作用域
func (c *PreProcessContainer) Bind(id Identifier, def Def) *PreProcessContainer {
	if def.Provide == nil {
		panic(fmt.Sprintf("container: binding %v 的 Provide 不能为 nil", id))
	}

	// 防御拷贝：注册后调用方修改切片不影响已注册绑定
	deps := append([]Dependency(nil), def.Dependencies...)
	provide := def.Provide

	run := func(r Resolver) (any, error) {
		values, err := ResolveInOrder(r, deps)
		if err != nil {
			return nil, err
		}
		byID := make(map[Identifier]any, len(deps))
		ids := make([]Identifier, len(deps))
		for i, d := range deps {
			ids[i] = d.ID
			byID[d.ID] = values[i]
		}
		return provide(r, Deps{ids: ids, values: values, byID: byID})
	}

	c.reg.bind(id, normalizeScope(ScopeSingleton, []Scope{def.Scope}), run, def.Meta)
	return c
}

// BindTo 注册原始绑定（无依赖预解析），默认 transient 作用域
func (c *PreProcessContainer) BindTo(id Identifier, provider Provider, scope ...Scope) *PreProcessContainer {
	c.reg.bind(id, normalizeScope(ScopeTransient, scope), provider, nil)
	return c
}

// Get 解析标识符，语义同 PrimitiveContainer.Get
// 预解析绑定的依赖解析失败同样经错误链透传
func (c *PreProcessContainer) Get(id Identifier) (any, error) {
	return c.reg.resolve(id, c, c.parent)
}

// MustGet 解析失败则 panic
func (c *PreProcessContainer) MustGet(id Identifier) any {
	return mustGet(c, id)
}

// GetOr 未绑定时返回 fallback；Provider 或依赖解析失败照常 panic
func (c *PreProcessContainer) GetOr(id Identifier, fallback any) any {
	return getOr(c, id, fallback)
}

// Unbind 移除绑定及其单例缓存；标识符不存在时为 no-op
func (c *PreProcessContainer) Unbind(id Identifier) *PreProcessContainer {
	c.reg.unbind(id)
	return c
}

// Has 检查标识符是否可解析（有父容器时沿父链查找）
func (c *PreProcessContainer) Has(id Identifier) bool {
	if c.reg.has(id) {
		return true
	}
	return c.parent != nil && c.parent.Has(id)
}

// HasLocal 检查标识符在本容器是否有绑定（不查父级）
func (c *PreProcessContainer) HasLocal(id Identifier) bool {
	return c.reg.has(id)
}

// Meta 读取绑定元数据；标识符不存在或未设置元数据时返回 nil
func (c *PreProcessContainer) Meta(id Identifier) map[string]any {
	return c.reg.meta(id)
}

// Identifiers 返回本容器全部绑定的标识符（无序）
func (c *PreProcessContainer) Identifiers() []Identifier {
	return c.reg.identifiers()
}

// Parent 返回父容器，根容器返回 nil
func (c *PreProcessContainer) Parent() Resolver {
	return c.parent
}
