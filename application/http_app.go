package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-container/auth"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/database"
	"github.com/KOMKZ/go-yogan-container/health"
	"github.com/KOMKZ/go-yogan-container/limiter"
	"github.com/KOMKZ/go-yogan-container/plugins"
	"github.com/KOMKZ/go-yogan-container/redis"
	"github.com/KOMKZ/go-yogan-container/telemetry"
)

// Application HTTP 应用（BaseApplication + HTTP 专属能力）
type Application struct {
	*BaseApplication

	httpServer      *HTTPServer
	routerRegistrar RouterRegistrar
	routerManager   *Manager
}

// New 创建 HTTP 应用实例
// configPath 为配置目录（如 ../configs/user-api），flags 可为 nil
func New(configPath, configPrefix string, flags any) *Application {
	return &Application{
		BaseApplication: NewBase(configPath, configPrefix, flags),
		routerManager:   NewManager(),
	}
}

// NewWith 以外部装配好的容器创建 HTTP 应用（测试用）
func NewWith(c *container.BasicContainer) *Application {
	return &Application{
		BaseApplication: NewBaseWith(c),
		routerManager:   NewManager(),
	}
}

// WithVersion 设置版本号（链式调用）
func (a *Application) WithVersion(version string) *Application {
	a.BaseApplication.WithVersion(version)
	return a
}

// Use 安装插件（链式调用）
func (a *Application) Use(ps ...container.Plugin) *Application {
	a.BaseApplication.Use(ps...)
	return a
}

// Run 启动 HTTP 应用并阻塞至收到关闭信号
func (a *Application) Run() error {
	if err := a.RunNonBlocking(); err != nil {
		return err
	}

	a.WaitShutdown()
	return a.gracefulShutdown()
}

// RunNonBlocking 非阻塞启动（测试或需要手动控制生命周期的场景）
func (a *Application) RunNonBlocking() error {
	if err := a.Setup(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	if err := a.startHTTPServer(); err != nil {
		return err
	}

	a.setState(StateRunning)
	if a.onReady != nil {
		if err := a.onReady(a.BaseApplication); err != nil {
			return fmt.Errorf("onReady failed: %w", err)
		}
	}

	log := a.MustGetLogger()
	fields := []zap.Field{
		zap.String("state", a.GetState().String()),
		zap.Int64("startup_time", a.GetStartupTimeMs()),
	}
	if version := a.GetVersion(); version != "" {
		fields = append(fields, zap.String("version", version))
	}
	log.InfoCtx(a.ctx, "HTTP application started", fields...)

	return nil
}

// startHTTPServer 装配可选组件并启动 HTTP Server
func (a *Application) startHTTPServer() error {
	if a.routerRegistrar == nil && len(a.routerManager.routers) == 0 {
		return nil
	}

	opts := HTTPServerOptions{
		Telemetry:   a.resolveTelemetry(),
		Health:      a.buildHealthAggregator(),
		Tokens:      a.resolveTokens(),
		RateLimiter: a.resolveRateLimiter(),
	}

	a.httpServer = NewHTTPServer(a.appConfig.ApiServer, a.appConfig.Middleware, opts)

	if a.routerRegistrar != nil {
		a.routerRegistrar.RegisterRoutes(a.httpServer.GetEngine(), a)
	}
	a.routerManager.Register(a.httpServer.GetEngine(), a)

	if a.debugRoutesEnabled() {
		a.registerDebugRoutes(a.httpServer.GetEngine())
	}

	log := a.MustGetLogger()
	log.DebugCtx(a.ctx, "Routes registered")

	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("启动 HTTP Server 失败: %w", err)
	}
	return nil
}

// resolveTelemetry 解析遥测组件；插件未安装或未启用返回 nil
func (a *Application) resolveTelemetry() *telemetry.Manager {
	if !a.c.HasLocal(plugins.IDTelemetry) {
		return nil
	}
	tm, err := container.GetTyped[*telemetry.Manager](a.c, plugins.IDTelemetry)
	if err != nil {
		a.MustGetLogger().WarnCtx(a.ctx, "telemetry 组件解析失败", zap.Error(err))
		return nil
	}
	return tm
}

// resolveTokens 解析令牌管理器；auth 插件未安装或未启用返回 nil
func (a *Application) resolveTokens() *auth.TokenManager {
	if !a.c.HasLocal(plugins.IDAuthTokens) {
		return nil
	}
	tokens, err := container.GetTyped[*auth.TokenManager](a.c, plugins.IDAuthTokens)
	if err != nil {
		a.MustGetLogger().WarnCtx(a.ctx, "auth 组件解析失败", zap.Error(err))
		return nil
	}
	return tokens
}

// resolveRateLimiter 解析限流器；limiter 插件未安装返回 nil
func (a *Application) resolveRateLimiter() *limiter.Manager {
	if !a.c.HasLocal(plugins.IDLimiter) {
		return nil
	}
	m, err := container.GetTyped[*limiter.Manager](a.c, plugins.IDLimiter)
	if err != nil {
		a.MustGetLogger().WarnCtx(a.ctx, "limiter 组件解析失败", zap.Error(err))
		return nil
	}
	return m
}

// buildHealthAggregator 装配健康检查：redis 与 database 插件已安装
// 时自动注册对应的 ping 检查器
func (a *Application) buildHealthAggregator() *health.Aggregator {
	agg := health.NewAggregator(5 * time.Second)
	if a.version != "" {
		agg.SetMetadata("version", a.version)
	}

	if a.c.HasLocal(plugins.IDDatabase) {
		if m, err := container.GetTyped[*database.Manager](a.c, plugins.IDDatabase); err == nil {
			agg.Register(health.CheckerFunc{
				CheckName: "database",
				Fn:        func(context.Context) error { return m.Ping() },
			})
		}
	}
	if a.c.HasLocal(plugins.IDRedis) {
		if m, err := container.GetTyped[*redis.Manager](a.c, plugins.IDRedis); err == nil {
			agg.Register(health.CheckerFunc{
				CheckName: "redis",
				Fn:        m.Ping,
			})
		}
	}
	return agg
}

// debugRoutesEnabled 调试路由开关：显式配置优先，否则跟随 debug 模式
func (a *Application) debugRoutesEnabled() bool {
	if a.appConfig.ApiServer.EnableDebugRoutes {
		return true
	}
	return a.appConfig.ApiServer.Mode == "debug" || a.appConfig.ApiServer.Mode == ""
}

// registerDebugRoutes 挂载容器调试路由
// /debug/container 列出全部绑定及其来源插件，/debug/plugins 列出
// 已登记插件名
func (a *Application) registerDebugRoutes(engine *gin.Engine) {
	engine.GET("/debug/container", func(ctx *gin.Context) {
		ids := a.c.Identifiers()
		bindings := make([]gin.H, 0, len(ids))
		for _, id := range ids {
			entry := gin.H{"id": fmt.Sprint(id)}
			if meta := a.c.Meta(id); meta != nil {
				if p, ok := meta["plugin"]; ok {
					entry["plugin"] = p
				}
			}
			bindings = append(bindings, entry)
		}
		ctx.JSON(http.StatusOK, gin.H{
			"variant":  a.c.Variant(),
			"bindings": bindings,
		})
	})

	engine.GET("/debug/plugins", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"registered": a.c.PluginNames(),
		})
	})
}

// gracefulShutdown HTTP 应用优雅关闭
func (a *Application) gracefulShutdown() error {
	log := a.MustGetLogger()
	log.DebugCtx(a.ctx, "Starting HTTP application graceful shutdown...")

	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			log.ErrorCtx(a.ctx, "HTTP server close failed", zap.Error(err))
		}
	}

	return a.BaseApplication.Shutdown(10 * time.Second)
}

// GetHTTPServer 获取 HTTP Server 实例（测试用）
func (a *Application) GetHTTPServer() *HTTPServer {
	return a.httpServer
}

// GetRouterManager 获取路由管理器
func (a *Application) GetRouterManager() *Manager {
	return a.routerManager
}

// Shutdown 手动触发关闭（测试或程序控制）
func (a *Application) Shutdown() {
	a.Cancel()
}

// Stop 非阻塞启动后的显式关停，执行完整的优雅关闭流程
func (a *Application) Stop() error {
	return a.gracefulShutdown()
}

// OnSetup 注册 Setup 阶段回调（链式调用）
func (a *Application) OnSetup(fn func(*Application) error) *Application {
	a.BaseApplication.OnSetup(func(*BaseApplication) error {
		return fn(a)
	})
	return a
}

// OnReady 注册启动完成回调（链式调用）
func (a *Application) OnReady(fn func(*Application) error) *Application {
	a.BaseApplication.OnReady(func(*BaseApplication) error {
		return fn(a)
	})
	return a
}

// OnShutdown 注册关闭前回调（链式调用）
func (a *Application) OnShutdown(fn func(*Application) error) *Application {
	a.BaseApplication.OnShutdown(func(context.Context) error {
		return fn(a)
	})
	return a
}

// RegisterRoutes 设置路由注册器
func (a *Application) RegisterRoutes(registrar RouterRegistrar) *Application {
	a.routerRegistrar = registrar
	return a
}
