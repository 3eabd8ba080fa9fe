package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	host string
}

// TestGetTyped 测试泛型解析与类型断言
func TestGetTyped(t *testing.T) {
	c := NewPrimitive()
	c.BindTo("mailer", func(Resolver) (any, error) {
		return &fakeMailer{host: "smtp.local"}, nil
	}, ScopeSingleton)

	m, err := GetTyped[*fakeMailer](c, "mailer")
	require.NoError(t, err)
	assert.Equal(t, "smtp.local", m.host)
}

// TestGetTyped_Mismatch 测试类型不匹配返回 TypeMismatchError
func TestGetTyped_Mismatch(t *testing.T) {
	c := NewPrimitive()
	c.BindTo("mailer", func(Resolver) (any, error) { return "not a mailer", nil })

	_, err := GetTyped[*fakeMailer](c, "mailer")
	require.Error(t, err)

	var tm *TypeMismatchError
	require.True(t, errors.As(err, &tm))
	assert.Equal(t, "mailer", tm.Identifier)
	assert.Contains(t, err.Error(), "string")
}

// TestGetTyped_NotFoundPassthrough 测试未绑定错误原样透传
func TestGetTyped_NotFoundPassthrough(t *testing.T) {
	c := NewPrimitive()

	_, err := GetTyped[int](c, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

// TestMustGetTyped_Panics 测试 MustGetTyped 失败时 panic
func TestMustGetTyped_Panics(t *testing.T) {
	c := NewPrimitive()

	assert.Panics(t, func() {
		MustGetTyped[int](c, "nope")
	})

	c.BindTo("n", func(Resolver) (any, error) { return 7, nil })
	assert.Equal(t, 7, MustGetTyped[int](c, "n"))
}

// TestGetTypedOr 测试泛型 fallback
func TestGetTypedOr(t *testing.T) {
	c := NewPrimitive()
	c.BindTo("n", func(Resolver) (any, error) { return 7, nil })

	assert.Equal(t, 7, GetTypedOr(c, "n", -1))
	assert.Equal(t, -1, GetTypedOr(c, "missing", -1))

	// 类型不匹配同样回退
	c.BindTo("s", func(Resolver) (any, error) { return "text", nil })
	assert.Equal(t, -1, GetTypedOr(c, "s", -1))
}
