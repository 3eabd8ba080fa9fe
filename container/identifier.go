package container

import "fmt"

// Identifier 绑定标识符
// 任意可比较值均可作为标识符（字符串、整数、自定义 key 类型）,
// 错误信息中以 %v 形式呈现
type Identifier = any

// Scope 绑定作用域
type Scope string

const (
	// ScopeTransient 瞬时作用域：每次 Get 都重新执行 Provider
	ScopeTransient Scope = "transient"

	// ScopeSingleton 单例作用域：Provider 最多成功执行一次，之后复用缓存值
	ScopeSingleton Scope = "singleton"
)

// Provider 绑定的构造函数
// 入参为发起解析的容器，Provider 可借此继续解析自身依赖
type Provider func(c Resolver) (any, error)

// Resolver 容器的只读解析面
// 所有容器类型均实现该接口，Provider 与泛型辅助函数只依赖它
type Resolver interface {
	// Get 解析标识符对应的值，未绑定时返回 *NotFoundError
	Get(id Identifier) (any, error)

	// MustGet 解析失败则 panic，适用于启动期必备绑定
	MustGet(id Identifier) any

	// Has 检查标识符是否可解析（分层容器会沿父链查找）
	Has(id Identifier) bool
}

// normalizeScope 处理可变参数形式的作用域（调用方各自携带默认值）
// BindTo 默认 transient，PreProcess Bind 默认 singleton
func normalizeScope(def Scope, scopes []Scope) Scope {
	s := def
	if len(scopes) > 0 && scopes[0] != "" {
		s = scopes[0]
	}
	switch s {
	case ScopeTransient, ScopeSingleton:
		return s
	default:
		panic(fmt.Sprintf("container: unknown scope %q", string(s)))
	}
}
