package event

import "context"

// Next 继续执行下一个拦截器或最终的监听器组
type Next func(ctx context.Context, event Event) error

// Interceptor 事件拦截器，可用于日志、过滤、错误兜底
type Interceptor func(ctx context.Context, event Event, next Next) error
