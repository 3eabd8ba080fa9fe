package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChild_FallbackToParent 测试本地未命中时回退父容器
func TestChild_FallbackToParent(t *testing.T) {
	parent := NewPrimitive()
	parent.BindTo("db", func(Resolver) (any, error) { return "parent-db", nil })

	child := NewChild(parent)

	v, err := child.Get("db")
	require.NoError(t, err)
	assert.Equal(t, "parent-db", v)
}

// TestChild_LocalShadowsParent 测试本地绑定遮蔽父级同名绑定
func TestChild_LocalShadowsParent(t *testing.T) {
	parent := NewPrimitive()
	parent.BindTo("db", func(Resolver) (any, error) { return "parent-db", nil })

	child := NewChild(parent)
	child.BindTo("db", func(Resolver) (any, error) { return "child-db", nil })

	v, err := child.Get("db")
	require.NoError(t, err)
	assert.Equal(t, "child-db", v)

	// 父容器不受影响
	v, err = parent.Get("db")
	require.NoError(t, err)
	assert.Equal(t, "parent-db", v)
}

// TestChild_UnbindRestoresFallback 测试移除遮蔽绑定后恢复父级回退
func TestChild_UnbindRestoresFallback(t *testing.T) {
	parent := NewPrimitive()
	parent.BindTo("svc", func(Resolver) (any, error) { return "parent", nil })

	child := NewChild(parent)
	child.BindTo("svc", func(Resolver) (any, error) { return "child", nil })

	v, err := child.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "child", v)

	child.Unbind("svc")
	v, err = child.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "parent", v)
}

// TestChild_NeverMutatesParent 测试子容器操作不改变父容器状态
func TestChild_NeverMutatesParent(t *testing.T) {
	parent := NewPrimitive()
	parent.BindTo("keep", func(Resolver) (any, error) { return "kept", nil })

	child := NewChild(parent)
	child.BindTo("extra", func(Resolver) (any, error) { return "extra", nil })
	child.Unbind("keep") // 本地没有该绑定，父级的不应被动

	assert.True(t, parent.Has("keep"))
	assert.False(t, parent.Has("extra"))

	_, err := parent.Get("extra")
	assert.True(t, errors.Is(err, ErrNotFound))
}

// TestChild_ParentSingletonCachedInParent 测试经子容器解析父级单例时缓存落在父级
func TestChild_ParentSingletonCachedInParent(t *testing.T) {
	parent := NewPrimitive()
	calls := 0
	parent.BindTo("shared", func(Resolver) (any, error) {
		calls++
		return calls, nil
	}, ScopeSingleton)

	child := NewChild(parent)

	v1, err := child.Get("shared")
	require.NoError(t, err)
	v2, err := parent.Get("shared")
	require.NoError(t, err)

	// 子容器先触发解析，父容器直接命中缓存
	assert.Equal(t, 1, v1)
	assert.Equal(t, 1, v2)
	assert.Equal(t, 1, calls)
}

// TestChild_OwnSingletonIndependent 测试子容器遮蔽绑定的单例与父级互不影响
func TestChild_OwnSingletonIndependent(t *testing.T) {
	parent := NewPrimitive()
	parent.BindTo("svc", func(Resolver) (any, error) { return "parent", nil }, ScopeSingleton)

	child := NewChild(parent)
	childCalls := 0
	child.BindTo("svc", func(Resolver) (any, error) {
		childCalls++
		return "child", nil
	}, ScopeSingleton)

	v, err := child.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "child", v)
	_, _ = child.Get("svc")
	assert.Equal(t, 1, childCalls)

	v, err = parent.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "parent", v)
}

// TestChild_MissingEverywhere 测试全链未绑定时返回 NotFoundError
func TestChild_MissingEverywhere(t *testing.T) {
	parent := NewPrimitive()
	child := NewChild(parent)

	_, err := child.Get("nowhere")
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nowhere", nf.Identifier)
}

// TestChild_HasAndHasLocal 测试 Has 沿链查找而 HasLocal 只查本地
func TestChild_HasAndHasLocal(t *testing.T) {
	parent := NewPrimitive()
	parent.BindTo("p", func(Resolver) (any, error) { return nil, nil })

	child := NewChild(parent)
	child.BindTo("c", func(Resolver) (any, error) { return nil, nil })

	assert.True(t, child.Has("p"))
	assert.True(t, child.Has("c"))
	assert.False(t, child.HasLocal("p"))
	assert.True(t, child.HasLocal("c"))
}

// TestChild_GrandchildChain 测试多级子容器沿链逐层回退
func TestChild_GrandchildChain(t *testing.T) {
	root := NewPrimitive()
	root.BindTo("cfg", func(Resolver) (any, error) { return "root-cfg", nil })

	mid := NewChild(root)
	mid.BindTo("logger", func(Resolver) (any, error) { return "mid-logger", nil })

	leaf := NewChild(mid)

	v, err := leaf.Get("cfg")
	require.NoError(t, err)
	assert.Equal(t, "root-cfg", v)

	v, err = leaf.Get("logger")
	require.NoError(t, err)
	assert.Equal(t, "mid-logger", v)
}

// TestChild_ProviderSeesChildScope 测试子容器本地 Provider 的依赖从子容器链解析
func TestChild_ProviderSeesChildScope(t *testing.T) {
	parent := NewPrimitive()
	parent.BindTo("env", func(Resolver) (any, error) { return "prod", nil })

	child := NewChild(parent)
	child.BindTo("env", func(Resolver) (any, error) { return "test", nil })
	child.BindTo("banner", func(r Resolver) (any, error) {
		env, err := r.Get("env")
		if err != nil {
			return nil, err
		}
		return "running in " + env.(string), nil
	})

	// 子容器 Provider 看到的是遮蔽后的 env
	v, err := child.Get("banner")
	require.NoError(t, err)
	assert.Equal(t, "running in test", v)
}

// TestChild_NilParentPanics 测试 nil 父容器在构造时 panic
func TestChild_NilParentPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewChild(nil)
	})
}
