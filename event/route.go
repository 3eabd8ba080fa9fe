package event

import (
	"sort"
	"strings"
	"sync"
)

// RouteConfig 单条路由配置
// 配置文件中事件名用 ":" 作分隔符（避免 Viper 把 "." 解析成嵌套路径）
type RouteConfig struct {
	Driver string `mapstructure:"driver"` // "kafka" | "memory"
	Topic  string `mapstructure:"topic"`  // Kafka topic（driver 为 kafka 时必填）
}

// Router 事件路由器
// 按事件名匹配路由规则，支持通配符；精确匹配优先于通配符，
// 更长前缀的通配符优先于更短的
type Router struct {
	mu     sync.RWMutex
	routes map[string]RouteConfig
	sorted []routeEntry
}

type routeEntry struct {
	pattern  string
	config   RouteConfig
	priority int // 越小越优先：精确 0，前缀通配按前缀长度，"*" 垫底
}

// NewRouter 创建路由器
func NewRouter() *Router {
	return &Router{routes: make(map[string]RouteConfig)}
}

// LoadRoutes 加载路由配置（整体替换）
func (r *Router) LoadRoutes(routes map[string]RouteConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes = routes
	r.sorted = make([]routeEntry, 0, len(routes))
	for pattern, config := range routes {
		e := routeEntry{pattern: pattern, config: config}
		switch {
		case !strings.Contains(pattern, "*"):
			e.priority = 0
		case pattern == "*":
			e.priority = 1000
		default:
			e.priority = 100 - len(strings.TrimSuffix(pattern, "*"))
		}
		r.sorted = append(r.sorted, e)
	}
	sort.SliceStable(r.sorted, func(i, j int) bool {
		return r.sorted[i].priority < r.sorted[j].priority
	})
}

// Match 按事件名匹配路由，无命中返回 nil
// 事件名中的 "." 先转换成 ":" 再参与匹配
func (r *Router) Match(eventName string) *RouteConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := strings.ReplaceAll(eventName, ".", ":")
	for _, e := range r.sorted {
		if matchPattern(e.pattern, name) {
			config := e.config
			return &config
		}
	}
	return nil
}

// matchPattern 模式匹配
// 支持精确匹配、全局通配 "*"、后缀通配 "order:*"、
// 逐段通配 "order:*:done"
func matchPattern(pattern, eventName string) bool {
	if pattern == eventName || pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, ":*") {
		prefix := strings.TrimSuffix(pattern, ":*")
		return strings.HasPrefix(eventName, prefix+":")
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	pp := strings.Split(pattern, ":")
	ep := strings.Split(eventName, ":")
	if len(pp) != len(ep) {
		return false
	}
	for i := range pp {
		if pp[i] != "*" && pp[i] != ep[i] {
			return false
		}
	}
	return true
}

// HasRoutes 是否配置了路由
func (r *Router) HasRoutes() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes) > 0
}

// RouteCount 路由条数
func (r *Router) RouteCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}
