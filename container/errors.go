package container

import (
	"errors"
	"fmt"
)

// ErrNotFound 标识符未绑定的哨兵错误
// 携带标识符的具体错误为 *NotFoundError，二者通过 errors.Is 关联：
//
//	v, err := c.Get("mailer")
//	if errors.Is(err, container.ErrNotFound) { ... }
var ErrNotFound = errors.New("binding not found")

// ErrTagNotRegistered 插件标签未注册的哨兵错误
var ErrTagNotRegistered = errors.New("plugin tag not registered")

// NotFoundError 标识符未绑定错误
// Identifier 字段保留原始标识符，便于调用方区分缺失的是哪个绑定
type NotFoundError struct {
	Identifier Identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("binding not found: %v", e.Identifier)
}

// Is 支持 errors.Is(err, ErrNotFound)
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TagNotRegisteredError ApplyPlugins 收到未注册标签时的错误
type TagNotRegisteredError struct {
	Tag string
}

func (e *TagNotRegisteredError) Error() string {
	return "plugin tag not registered: " + e.Tag
}

// Is 支持 errors.Is(err, ErrTagNotRegistered)
func (e *TagNotRegisteredError) Is(target error) bool {
	return target == ErrTagNotRegistered
}

// TypeMismatchError GetTyped 类型断言失败错误
type TypeMismatchError struct {
	Identifier Identifier
	Actual     string
	Want       string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("binding %v has type %s, want %s", e.Identifier, e.Actual, e.Want)
}
