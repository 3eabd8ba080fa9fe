package errcode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CodeComposition(t *testing.T) {
	err := New(10, 42, "user", "error.user.not_found", "用户不存在", http.StatusNotFound)

	assert.Equal(t, 100042, err.Code())
	assert.Equal(t, "user", err.Module())
	assert.Equal(t, "error.user.not_found", err.MsgKey())
	assert.Equal(t, "用户不存在", err.Message())
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
}

func TestNew_DefaultHTTPStatus(t *testing.T) {
	err := New(10, 1, "user", "error.user.generic", "通用错误")
	assert.Equal(t, http.StatusOK, err.HTTPStatus())
}

func TestLayeredError_WrapAndUnwrap(t *testing.T) {
	base := New(20, 1, "order", "error.order.load", "订单加载失败", http.StatusInternalServerError)
	cause := errors.New("connection refused")

	wrapped := base.Wrap(cause)
	assert.ErrorIs(t, wrapped, base) // 按错误码判等
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "connection refused")

	// 原实例不被修改
	assert.Nil(t, base.Unwrap())
}

func TestLayeredError_DerivedInstancesShareCode(t *testing.T) {
	base := New(20, 2, "order", "error.order.invalid", "订单无效", http.StatusBadRequest)

	derived := base.WithMsgf("订单 %s 无效", "A1").WithData("order_id", "A1")
	assert.ErrorIs(t, derived, base)
	assert.Equal(t, "订单 A1 无效", derived.Message())
	assert.Equal(t, "A1", derived.Data()["order_id"])

	// 派生不污染原实例
	assert.Equal(t, "订单无效", base.Message())
	assert.Empty(t, base.Data())
}

func TestLayeredError_WithFields(t *testing.T) {
	base := New(20, 3, "order", "error.order.conflict", "订单冲突")
	derived := base.WithFields(map[string]any{"a": 1, "b": "x"})
	assert.Len(t, derived.Data(), 2)
	assert.Empty(t, base.Data())
}

func TestLayeredError_WorksWithErrorsAs(t *testing.T) {
	base := New(20, 4, "order", "error.order.timeout", "订单超时", http.StatusGatewayTimeout)
	err := fmt.Errorf("handler: %w", base.Wrap(errors.New("deadline")))

	var le *LayeredError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 200004, le.Code())
	assert.Equal(t, http.StatusGatewayTimeout, le.HTTPStatus())
}

func TestRegistry_ConflictPanics(t *testing.T) {
	r := NewRegistry()
	r.Register(New(30, 1, "pay", "error.pay.a", "a"))

	// 同码同键幂等
	assert.NotPanics(t, func() {
		r.Register(New(30, 1, "pay", "error.pay.a", "a"))
	})
	assert.Equal(t, 1, r.Count())

	// 同码不同键冲突
	assert.Panics(t, func() {
		r.Register(New(30, 1, "pay", "error.pay.b", "b"))
	})
}

func TestRegistry_Lock(t *testing.T) {
	r := NewRegistry()
	r.Lock()
	assert.True(t, r.IsLocked())
	assert.Panics(t, func() {
		r.Register(New(30, 2, "pay", "error.pay.c", "c"))
	})

	r.Reset()
	assert.False(t, r.IsLocked())
	assert.NotPanics(t, func() {
		r.Register(New(30, 2, "pay", "error.pay.c", "c"))
	})
	assert.Contains(t, r.All(), 300002)
}
