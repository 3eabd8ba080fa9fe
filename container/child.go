package container

import "go.uber.org/zap"

// ChildContainer 分层容器
//
// Get 先查本地绑定，未命中时委托给父容器；本地绑定遮蔽父级同名绑定。
// 子容器对父容器只读：绑定、解绑、单例缓存都只发生在各自一侧，
// 父容器可继续独立使用。
type ChildContainer struct {
	reg    registry
	parent Resolver
}

// NewChild 以任意 Resolver 为父创建子容器
func NewChild(parent Resolver) *ChildContainer {
	if parent == nil {
		panic("container: 子容器的 parent 不能为 nil")
	}
	return &ChildContainer{reg: newRegistry(), parent: parent}
}

// SetLogger 设置调试日志组件（可选，只允许设置一次）
func (c *ChildContainer) SetLogger(l *zap.Logger) {
	c.reg.setLogger(l)
}

// Parent 返回父容器
func (c *ChildContainer) Parent() Resolver {
	return c.parent
}

// BindTo 在子容器注册绑定（遮蔽父级同名绑定），默认 transient
func (c *ChildContainer) BindTo(id Identifier, provider Provider, scope ...Scope) *ChildContainer {
	c.reg.bind(id, normalizeScope(ScopeTransient, scope), provider, nil)
	return c
}

// Get 解析标识符：本地优先，未命中回退父容器
//
// 回退解析由父容器全权处理：父级绑定的 Provider 收到父容器，
// 其依赖与单例缓存都落在父级作用域内
func (c *ChildContainer) Get(id Identifier) (any, error) {
	return c.reg.resolve(id, c, c.parent)
}

// MustGet 解析失败则 panic
func (c *ChildContainer) MustGet(id Identifier) any {
	return mustGet(c, id)
}

// GetOr 全链未绑定时返回 fallback；Provider 失败照常 panic
func (c *ChildContainer) GetOr(id Identifier, fallback any) any {
	return getOr(c, id, fallback)
}

// Unbind 移除子容器本地绑定；父级绑定不受影响
// 移除遮蔽绑定后，Get 恢复回退父级
func (c *ChildContainer) Unbind(id Identifier) *ChildContainer {
	c.reg.unbind(id)
	return c
}

// Has 检查标识符是否可解析（沿父链查找）
func (c *ChildContainer) Has(id Identifier) bool {
	return c.reg.has(id) || c.parent.Has(id)
}

// HasLocal 检查标识符在子容器本地是否有绑定（不查父级）
func (c *ChildContainer) HasLocal(id Identifier) bool {
	return c.reg.has(id)
}

// Identifiers 返回子容器本地绑定的标识符（无序，不含父级）
func (c *ChildContainer) Identifiers() []Identifier {
	return c.reg.identifiers()
}
