package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDerived_InitialCompute 测试构造时立即计算初始值
func TestDerived_InitialCompute(t *testing.T) {
	a := New(2)
	b := New(3)

	sum := NewDerived(func(values []any) int {
		return values[0].(int) + values[1].(int)
	}, a, b)

	assert.Equal(t, 5, sum.Get())
}

// TestDerived_RecomputeOnAnySource 测试任一上游更新都触发重算与通知
func TestDerived_RecomputeOnAnySource(t *testing.T) {
	a := New(1)
	b := New(10)

	computes := 0
	sum := NewDerived(func(values []any) int {
		computes++
		return values[0].(int) + values[1].(int)
	}, a, b)
	require.Equal(t, 1, computes) // 构造时一次

	var got []int
	sum.Subscribe(func(v int) { got = append(got, v) })

	a.Set(2)
	b.Set(20)

	assert.Equal(t, []int{12, 22}, got)
	assert.Equal(t, 22, sum.Get())
	assert.Equal(t, 3, computes)
}

// TestDerived_HeterogeneousSources 测试异构类型上游源
func TestDerived_HeterogeneousSources(t *testing.T) {
	name := New("yogan")
	port := New(8080)

	addr := NewDerived(func(values []any) string {
		return fmt.Sprintf("%s:%d", values[0].(string), values[1].(int))
	}, name, port)

	assert.Equal(t, "yogan:8080", addr.Get())

	port.Set(9090)
	assert.Equal(t, "yogan:9090", addr.Get())
}

// TestDerived_DisposeDetachesUpstream 测试 Dispose 后上游变更不再传导
func TestDerived_DisposeDetachesUpstream(t *testing.T) {
	src := New(1)
	doubled := NewDerived(func(values []any) int {
		return values[0].(int) * 2
	}, src)

	notified := 0
	doubled.Subscribe(func(int) { notified++ })

	src.Set(2)
	require.Equal(t, 1, notified)
	require.Equal(t, 4, doubled.Get())

	doubled.Dispose()
	src.Set(100)

	// 上游已断开：不再重算、不再通知，保留最后一次的值
	assert.Equal(t, 1, notified)
	assert.Equal(t, 4, doubled.Get())
	assert.Equal(t, 0, src.Len())

	// 幂等
	assert.NotPanics(t, func() { doubled.Dispose() })
}

// TestDerived_ChainsAsSource 测试派生 store 继续作为上游源
func TestDerived_ChainsAsSource(t *testing.T) {
	base := New(1)
	doubled := NewDerived(func(values []any) int {
		return values[0].(int) * 2
	}, base)
	quadrupled := NewDerived(func(values []any) int {
		return values[0].(int) * 2
	}, doubled)

	assert.Equal(t, 4, quadrupled.Get())

	base.Set(3)
	assert.Equal(t, 12, quadrupled.Get())
}

// TestDerived_NoSources 测试无上游源时只计算一次
func TestDerived_NoSources(t *testing.T) {
	computes := 0
	d := NewDerived(func(values []any) string {
		computes++
		assert.Empty(t, values)
		return "constant"
	})

	assert.Equal(t, "constant", d.Get())
	assert.Equal(t, 1, computes)
}

// TestDerived_NilComputePanics 测试 nil compute 构造时 panic
func TestDerived_NilComputePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewDerived[int](nil, New(1))
	})
}

// TestDerived_SubscribeSemantics 测试派生 store 的订阅语义与 Store 一致
func TestDerived_SubscribeSemantics(t *testing.T) {
	src := New(1)
	d := NewDerived(func(values []any) int { return values[0].(int) }, src)

	var got []int
	d.Subscribe(func(v int) { got = append(got, v) }, WithEmitCurrent())
	require.Equal(t, []int{1}, got)

	unsub := d.Subscribe(func(v int) { got = append(got, v*100) })
	src.Set(2)
	assert.Equal(t, []int{1, 2, 200}, got)

	unsub()
	src.Set(3)
	assert.Equal(t, []int{1, 2, 200, 3}, got)
}
