package container

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// binding 单个绑定的内部表示
// 单例缓存挂在 binding 上：重新绑定会整体替换 binding，缓存随之丢弃
type binding struct {
	run      Provider
	scope    Scope
	meta     map[string]any
	resolved bool
	value    any
}

// registry 绑定表：容器家族共享的底层实现
// 读写锁只保护映射表访问，Provider 在锁外执行，
// 允许 Provider 内部继续调用 Get 解析自身依赖
type registry struct {
	mu       sync.RWMutex
	bindings map[Identifier]*binding
	log      *zap.Logger
}

func newRegistry() registry {
	return registry{bindings: make(map[Identifier]*binding)}
}

// setLogger 设置调试日志（只允许设置一次）
func (r *registry) setLogger(l *zap.Logger) {
	if l == nil {
		panic("container: logger 不能为 nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.log != nil {
		panic("container: logger 已设置，禁止重复设置")
	}
	r.log = l
}

// logDebug 安全的 Debug 日志（未设置 logger 时静默忽略）
func (r *registry) logDebug(msg string, fields ...zap.Field) {
	r.mu.RLock()
	l := r.log
	r.mu.RUnlock()
	if l != nil {
		l.Debug(msg, fields...)
	}
}

func (r *registry) bind(id Identifier, scope Scope, run Provider, meta map[string]any) {
	if run == nil {
		panic(fmt.Sprintf("container: binding %v 的 provider 不能为 nil", id))
	}
	r.mu.Lock()
	r.bindings[id] = &binding{run: run, scope: scope, meta: meta}
	r.mu.Unlock()

	r.logDebug("binding registered",
		zap.String("identifier", fmt.Sprint(id)),
		zap.String("scope", string(scope)))
}

func (r *registry) unbind(id Identifier) {
	r.mu.Lock()
	_, existed := r.bindings[id]
	delete(r.bindings, id)
	r.mu.Unlock()

	if existed {
		r.logDebug("binding removed", zap.String("identifier", fmt.Sprint(id)))
	}
}

func (r *registry) has(id Identifier) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bindings[id]
	return ok
}

func (r *registry) meta(id Identifier) map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.bindings[id]; ok {
		return b.meta
	}
	return nil
}

func (r *registry) identifiers() []Identifier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]Identifier, 0, len(r.bindings))
	for id := range r.bindings {
		ids = append(ids, id)
	}
	return ids
}

// resolve 解析标识符
// via 为发起解析的最外层容器（Provider 通过它解析依赖，保证分层查找
// 从链条顶端开始）；parent 为回退容器，nil 表示根容器。
//
// 本地未绑定时回退 parent.Get：父级绑定的 Provider 收到的是父容器，
// 单例缓存因此落在拥有该绑定的容器里，子容器永不改写父容器状态。
func (r *registry) resolve(id Identifier, via Resolver, parent Resolver) (any, error) {
	r.mu.RLock()
	b, ok := r.bindings[id]
	if !ok {
		r.mu.RUnlock()
		if parent != nil {
			return parent.Get(id)
		}
		return nil, &NotFoundError{Identifier: id}
	}
	if b.scope == ScopeSingleton && b.resolved {
		v := b.value
		r.mu.RUnlock()
		return v, nil
	}
	run := b.run
	scope := b.scope
	r.mu.RUnlock()

	r.logDebug("resolving binding",
		zap.String("identifier", fmt.Sprint(id)),
		zap.String("scope", string(scope)))

	// 锁外执行：Provider 可能递归 Get
	v, err := run(via)
	if err != nil {
		return nil, fmt.Errorf("resolve binding %v: %w", id, err)
	}

	if scope == ScopeSingleton {
		r.mu.Lock()
		// 仅当绑定未被替换且尚未缓存时写入；并发竞争时采用先完成者的值，
		// 保证对外只存在一个单例实例。Provider 报错不缓存，下次 Get 重试。
		if cur, exists := r.bindings[id]; exists && cur == b {
			if cur.resolved {
				v = cur.value
			} else {
				cur.resolved = true
				cur.value = v
			}
		}
		r.mu.Unlock()
	}
	return v, nil
}

// PrimitiveContainer 标识符 → Provider 的基础容器
// BindTo 默认按 transient 注册；重复绑定同一标识符会覆盖旧绑定并
// 丢弃已缓存的单例值
type PrimitiveContainer struct {
	reg registry
}

// NewPrimitive 创建基础容器
func NewPrimitive() *PrimitiveContainer {
	return &PrimitiveContainer{reg: newRegistry()}
}

// SetLogger 设置调试日志组件（可选，只允许设置一次）
func (c *PrimitiveContainer) SetLogger(l *zap.Logger) {
	c.reg.setLogger(l)
}

// BindTo 注册绑定，默认 transient 作用域
// 可变参数形式传入 ScopeSingleton 可切换单例；返回容器自身以支持链式调用
func (c *PrimitiveContainer) BindTo(id Identifier, provider Provider, scope ...Scope) *PrimitiveContainer {
	c.reg.bind(id, normalizeScope(ScopeTransient, scope), provider, nil)
	return c
}

// Get 解析标识符
//
// transient 绑定每次调用都执行 Provider；singleton 绑定的 Provider
// 最多成功执行一次，之后复用缓存值（成功产出的 nil 同样缓存）。
// 未绑定返回 *NotFoundError，Provider 错误以 %w 包装后透传。
//
// ⚠️ 不做循环依赖检测：Provider 之间互相 Get 成环会递归到栈耗尽
func (c *PrimitiveContainer) Get(id Identifier) (any, error) {
	return c.reg.resolve(id, c, nil)
}

// MustGet 解析失败则 panic
func (c *PrimitiveContainer) MustGet(id Identifier) any {
	return mustGet(c, id)
}

// GetOr 未绑定时返回 fallback
// 仅吞掉 ErrNotFound；Provider 执行失败照常 panic，避免错误被默认值掩盖
func (c *PrimitiveContainer) GetOr(id Identifier, fallback any) any {
	return getOr(c, id, fallback)
}

// Unbind 移除绑定及其单例缓存；标识符不存在时为 no-op
func (c *PrimitiveContainer) Unbind(id Identifier) *PrimitiveContainer {
	c.reg.unbind(id)
	return c
}

// Has 检查标识符在本容器是否有绑定
func (c *PrimitiveContainer) Has(id Identifier) bool {
	return c.reg.has(id)
}

// Identifiers 返回本容器全部绑定的标识符（无序）
func (c *PrimitiveContainer) Identifiers() []Identifier {
	return c.reg.identifiers()
}

// mustGet / getOr 容器家族共用的小工具
func mustGet(r Resolver, id Identifier) any {
	v, err := r.Get(id)
	if err != nil {
		panic(fmt.Sprintf("container: %v", err))
	}
	return v
}

// getOr 只吞掉未绑定错误；Provider 失败不允许被 fallback 掩盖
func getOr(r Resolver, id Identifier, fallback any) any {
	v, err := r.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fallback
		}
		panic(fmt.Sprintf("container: %v", err))
	}
	return v
}
