package container

import "errors"

// Dependency 依赖描述符
// Optional 依赖缺失时不报错，以 nil 占位；必选依赖缺失则整体解析失败
type Dependency struct {
	ID       Identifier
	Optional bool
}

// Dep 构造必选依赖描述符
func Dep(id Identifier) Dependency {
	return Dependency{ID: id}
}

// OptionalDep 构造可选依赖描述符
func OptionalDep(id Identifier) Dependency {
	return Dependency{ID: id, Optional: true}
}

// ResolveInOrder 按声明顺序解析依赖列表，返回同序值切片
//
// 可选依赖仅在"未绑定"时跳过（对应位置为 nil）；Provider 执行失败
// 属于硬错误，可选与否都会中止解析并返回首个错误
func ResolveInOrder(r Resolver, deps []Dependency) ([]any, error) {
	values := make([]any, 0, len(deps))
	for _, d := range deps {
		v, err := r.Get(d.ID)
		if err != nil {
			if d.Optional && errors.Is(err, ErrNotFound) {
				values = append(values, nil)
				continue
			}
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// ResolveAsMap 解析依赖列表，返回标识符 → 值的映射
//
// 可选依赖缺失时仍保留键，值为 nil（调用方可区分"声明了但缺失"
// 与"未声明"）；错误语义与 ResolveInOrder 一致
func ResolveAsMap(r Resolver, deps []Dependency) (map[Identifier]any, error) {
	values, err := ResolveInOrder(r, deps)
	if err != nil {
		return nil, err
	}
	m := make(map[Identifier]any, len(deps))
	for i, d := range deps {
		m[d.ID] = values[i]
	}
	return m, nil
}
