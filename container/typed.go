package container

import "fmt"

// GetTyped 泛型函数解析绑定并断言类型（包级别函数）
//
// 运行时容器本身不带类型信息，调用方经泛型参数获得编译期类型：
//
//	loader, err := container.GetTyped[*config.Loader](c, plugins.IDConfig)
//
// 类型不匹配返回 *TypeMismatchError
func GetTyped[T any](r Resolver, id Identifier) (T, error) {
	var zero T
	v, err := r.Get(id)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Identifier: id,
			Actual:     fmt.Sprintf("%T", v),
			Want:       fmt.Sprintf("%T", zero),
		}
	}
	return typed, nil
}

// MustGetTyped 泛型函数解析绑定（失败则 panic）（包级别函数）
// 适用于启动期必备绑定，失败时采用 Fail Fast 策略
func MustGetTyped[T any](r Resolver, id Identifier) T {
	typed, err := GetTyped[T](r, id)
	if err != nil {
		panic(fmt.Sprintf("container: %v", err))
	}
	return typed
}

// GetTypedOr 泛型函数解析绑定，失败或类型不匹配时返回 fallback
func GetTypedOr[T any](r Resolver, id Identifier, fallback T) T {
	typed, err := GetTyped[T](r, id)
	if err != nil {
		return fallback
	}
	return typed
}
