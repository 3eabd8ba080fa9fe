// Package bridge 桥接容器家族与 samber/do
package bridge

import (
	"context"

	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/samber/do/v2"
)

// Bridge 桥接器，连接标识符容器与 samber/do 注入器
//
// 设计目的：
//   - 让容器中的绑定可以被 samber/do 的类型化服务访问
//   - 让 samber/do 中的服务可以作为容器绑定使用
//   - 两套容器共存，支持渐进式迁移
type Bridge struct {
	container container.Resolver
	injector  *do.RootScope
}

// New 创建桥接器
func New(c container.Resolver, injector *do.RootScope) *Bridge {
	return &Bridge{
		container: c,
		injector:  injector,
	}
}

// Container 获取容器侧
func (b *Bridge) Container() container.Resolver {
	return b.container
}

// Injector 获取 samber/do 注入器
func (b *Bridge) Injector() *do.RootScope {
	return b.injector
}

// ProvideFromContainer 将容器绑定暴露给 samber/do
//
// 注册的是惰性 Provider：do.Invoke 时才经容器解析，
// 容器侧的作用域语义（单例缓存、transient 重建）原样保留。
//
// 示例：
//
//	bridge.ProvideFromContainer[*config.Loader](b, plugins.IDConfig)
//	loader := do.MustInvoke[*config.Loader](b.Injector())
func ProvideFromContainer[T any](b *Bridge, id container.Identifier) {
	do.Provide(b.injector, func(do.Injector) (T, error) {
		return container.GetTyped[T](b.container, id)
	})
}

// ProvideNamedFromContainer 将容器绑定以命名服务暴露给 samber/do
func ProvideNamedFromContainer[T any](b *Bridge, name string, id container.Identifier) {
	do.ProvideNamed(b.injector, name, func(do.Injector) (T, error) {
		return container.GetTyped[T](b.container, id)
	})
}

// BindFromInjector 将 samber/do 服务绑定进容器
//
// 反向桥接：容器侧按单例绑定（do 服务本身即单例），
// Get 时惰性经 do.Invoke 解析。
//
// 示例：
//
//	bridge.BindFromInjector[*mail.Sender](c, b, "mailer")
//	sender := container.MustGetTyped[*mail.Sender](c, "mailer")
func BindFromInjector[T any](c *container.BasicContainer, b *Bridge, id container.Identifier) {
	c.BindTo(id, func(container.Resolver) (any, error) {
		return do.Invoke[T](b.injector)
	}, container.ScopeSingleton)
}

// ProvideValue 将任意值注册到 samber/do
func ProvideValue[T any](b *Bridge, value T) {
	do.ProvideValue(b.injector, value)
}

// Provide 注册服务提供者到 samber/do
func Provide[T any](b *Bridge, provider func(do.Injector) (T, error)) {
	do.Provide(b.injector, provider)
}

// Invoke 从 samber/do 获取服务
func Invoke[T any](b *Bridge) (T, error) {
	return do.Invoke[T](b.injector)
}

// MustInvoke 从 samber/do 获取服务（失败则 panic）
func MustInvoke[T any](b *Bridge) T {
	return do.MustInvoke[T](b.injector)
}

// Shutdown 优雅关闭 samber/do 容器
func (b *Bridge) Shutdown() error {
	return b.injector.Shutdown()
}

// ShutdownWithContext 带上下文的优雅关闭
func (b *Bridge) ShutdownWithContext(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- b.Shutdown()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HealthCheck 执行 samber/do 容器的健康检查
// 返回 map[服务名]error，全部健康时 map 为空
func (b *Bridge) HealthCheck() map[string]error {
	return b.injector.HealthCheck()
}

// IsHealthy 检查是否所有服务都健康
func (b *Bridge) IsHealthy() bool {
	return len(b.HealthCheck()) == 0
}
