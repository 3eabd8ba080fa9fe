package application

import "github.com/gin-gonic/gin"

// RouterRegistrar 路由注册接口
// 业务应用实现此接口来注册路由，注册时可直接访问 Application
type RouterRegistrar interface {
	RegisterRoutes(engine *gin.Engine, app *Application)
}

// Router 模块化路由注册接口
// 每个业务模块可独立实现，经 Manager 统一挂载
type Router interface {
	Register(engine *gin.Engine, app *Application)
}

// RouterFunc 函数式路由注册器
type RouterFunc func(engine *gin.Engine, app *Application)

// Register 实现 Router 接口
func (f RouterFunc) Register(engine *gin.Engine, app *Application) {
	f(engine, app)
}

// Manager 路由管理器（统一注册入口）
type Manager struct {
	routers []Router
}

// NewManager 创建路由管理器
func NewManager() *Manager {
	return &Manager{routers: make([]Router, 0)}
}

// Add 添加路由注册器
func (m *Manager) Add(routers ...Router) *Manager {
	m.routers = append(m.routers, routers...)
	return m
}

// AddFunc 添加函数式路由注册器
func (m *Manager) AddFunc(fn func(engine *gin.Engine, app *Application)) *Manager {
	m.routers = append(m.routers, RouterFunc(fn))
	return m
}

// Register 按添加顺序注册全部路由
func (m *Manager) Register(engine *gin.Engine, app *Application) {
	for _, router := range m.routers {
		router.Register(engine, app)
	}
}

// RegisterRoutes 实现 RouterRegistrar，Manager 可直接作为注册器使用
func (m *Manager) RegisterRoutes(engine *gin.Engine, app *Application) {
	m.Register(engine, app)
}
