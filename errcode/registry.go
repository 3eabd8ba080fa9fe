package errcode

import (
	"fmt"
	"sync"
)

// Registry 错误码注册表
// 启动期各模块经 Register 登记错误码，重复码不同键即 panic，
// 把错误码冲突暴露在启动阶段而不是线上
type Registry struct {
	mu     sync.RWMutex
	codes  map[int]string // code → module:msgKey
	locked bool
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{codes: make(map[int]string)}
}

var globalRegistry = NewRegistry()

// Register 把错误码登记到注册表并原样返回，便于包级变量一步到位：
//
//	var ErrCacheMiss = errcode.Register(errcode.New(...))
//
// 同码同键的重复登记幂等；同码不同键 panic；注册表锁定后 panic
func (r *Registry) Register(err *LayeredError) *LayeredError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.locked {
		panic(fmt.Sprintf("errcode: registry locked, cannot register %d", err.Code()))
	}

	key := err.Module() + ":" + err.MsgKey()
	if existing, ok := r.codes[err.Code()]; ok {
		if existing != key {
			panic(fmt.Sprintf("errcode: code %d already registered as %s, cannot register as %s",
				err.Code(), existing, key))
		}
		return err
	}
	r.codes[err.Code()] = key
	return err
}

// Lock 锁定注册表，阻止后续登记
// 应用启动完成后调用，防止运行期动态注册错误码
func (r *Registry) Lock() {
	r.mu.Lock()
	r.locked = true
	r.mu.Unlock()
}

// IsLocked 注册表是否已锁定
func (r *Registry) IsLocked() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locked
}

// All 返回全部已登记错误码的拷贝
func (r *Registry) All() map[int]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make(map[int]string, len(r.codes))
	for k, v := range r.codes {
		codes[k] = v
	}
	return codes
}

// Count 已登记错误码数量
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codes)
}

// Reset 清空注册表（测试用）
func (r *Registry) Reset() {
	r.mu.Lock()
	r.codes = make(map[int]string)
	r.locked = false
	r.mu.Unlock()
}

// 全局注册表的包级入口

// Register 登记到全局注册表
func Register(err *LayeredError) *LayeredError { return globalRegistry.Register(err) }

// LockRegistry 锁定全局注册表
func LockRegistry() { globalRegistry.Lock() }

// RegisteredCodes 全局注册表的全部错误码
func RegisteredCodes() map[int]string { return globalRegistry.All() }

// ResetRegistry 清空全局注册表（测试用）
func ResetRegistry() { globalRegistry.Reset() }
