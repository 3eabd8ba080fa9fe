// Package application 提供通用的应用启动框架
// BaseApplication 是所有应用类型的核心抽象（HTTP/CLI/Cron）
package application

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-container/cache"
	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/database"
	"github.com/KOMKZ/go-yogan-container/event"
	"github.com/KOMKZ/go-yogan-container/logger"
	"github.com/KOMKZ/go-yogan-container/plugins"
	"github.com/KOMKZ/go-yogan-container/redis"
	"github.com/KOMKZ/go-yogan-container/store"
	"github.com/KOMKZ/go-yogan-container/telemetry"
)

// AppState 应用状态
type AppState int

const (
	StateInit AppState = iota
	StateSetup
	StateRunning
	StateStopping
	StateStopped
)

// String 状态字符串表示
func (s AppState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSetup:
		return "Setup"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// BaseApplication 应用核心框架
//
// 组件经插件容器管理：NewBase 只安装 config 与 logger 插件，
// 其余插件由应用经 Use 按需安装，组件在首次解析时构建。
// 状态经可观察 store 发布，订阅 StateStore 可感知生命周期变迁。
type BaseApplication struct {
	c *container.BasicContainer

	configPath   string
	configPrefix string
	appConfig    *AppConfig

	// Setup 后可用
	log    *logger.CtxZapLogger
	loader *config.Loader

	ctx    context.Context
	cancel context.CancelFunc
	state  *store.Store[AppState]

	version   string
	startedAt time.Time

	onSetup    func(*BaseApplication) error
	onReady    func(*BaseApplication) error
	onShutdown func(context.Context) error
}

// NewBase 创建基础应用实例
// flags 为带 config 标签的参数结构体，nil 表示不使用命令行参数
func NewBase(configPath, configPrefix string, flags any) *BaseApplication {
	if configPath == "" {
		configPath = "../configs"
	}
	if configPrefix == "" {
		configPrefix = "APP"
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := container.NewBasic()
	c.Use(plugins.ConfigWithFlags(configPath, configPrefix, flags), plugins.Logger())

	return &BaseApplication{
		c:            c,
		configPath:   configPath,
		configPrefix: configPrefix,
		ctx:          ctx,
		cancel:       cancel,
		state:        store.New(StateInit),
		startedAt:    time.Now(),
	}
}

// NewBaseWith 以外部装配好的容器创建基础应用
// 测试用：传入 UseMocks 的容器即可全程使用测试替身
func NewBaseWith(c *container.BasicContainer) *BaseApplication {
	ctx, cancel := context.WithCancel(context.Background())
	return &BaseApplication{
		c:         c,
		ctx:       ctx,
		cancel:    cancel,
		state:     store.New(StateInit),
		startedAt: time.Now(),
	}
}

// Use 安装插件（链式调用）
// 需在 Setup 之前调用，安装只登记绑定不构建组件
func (b *BaseApplication) Use(ps ...container.Plugin) *BaseApplication {
	b.c.Use(ps...)
	return b
}

// UseMocks 切换容器到 mock 变体（链式调用，测试用）
func (b *BaseApplication) UseMocks() *BaseApplication {
	b.c.UseMocks()
	return b
}

// WithVersion 设置应用版本号（链式调用）
func (b *BaseApplication) WithVersion(version string) *BaseApplication {
	b.version = version
	return b
}

// GetVersion 获取应用版本号
func (b *BaseApplication) GetVersion() string {
	return b.version
}

// Setup 解析核心组件并加载框架配置
// config 与 logger 在此阶段构建，其余组件保持惰性
func (b *BaseApplication) Setup() error {
	b.setState(StateSetup)

	loader, err := container.GetTyped[*config.Loader](b.c, plugins.IDConfig)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	b.loader = loader

	logMgr, err := container.GetTyped[*logger.Manager](b.c, plugins.IDLogger)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	b.log = logMgr.GetLogger("yogan")

	var appCfg AppConfig
	if err := loader.Unmarshal(&appCfg); err != nil {
		return fmt.Errorf("加载 AppConfig 失败: %w", err)
	}
	if appCfg.Middleware != nil {
		appCfg.Middleware.ApplyDefaults()
	}
	b.appConfig = &appCfg

	if b.onSetup != nil {
		if err := b.onSetup(b); err != nil {
			return fmt.Errorf("onSetup failed: %w", err)
		}
	}

	b.log.DebugCtx(b.ctx, "基础应用初始化完成",
		zap.String("configPath", b.configPath))
	return nil
}

// Shutdown 优雅关闭：业务回调先行，随后按依赖逆序关闭已安装组件
func (b *BaseApplication) Shutdown(timeout time.Duration) error {
	b.setState(StateStopping)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if b.onShutdown != nil {
		if err := b.onShutdown(ctx); err != nil && b.log != nil {
			b.log.ErrorCtx(ctx, "OnShutdown callback failed", zap.Error(err))
		}
	}

	b.closeComponents(ctx)

	if b.log != nil {
		b.log.DebugCtx(ctx, "所有组件已关闭")
	}
	b.setState(StateStopped)
	return nil
}

// closeComponents 关闭各已知组件
// 依赖方先关（cache/event 先于 redis/database）；未安装的插件跳过，
// 解析失败视为组件从未被使用，同样跳过
func (b *BaseApplication) closeComponents(ctx context.Context) {
	if b.c.HasLocal(plugins.IDCache) {
		if o, err := container.GetTyped[*cache.Orchestrator](b.c, plugins.IDCache); err == nil {
			b.closeErr(ctx, "cache", o.Close())
		}
	}
	if b.c.HasLocal(plugins.IDEvent) {
		if d, err := container.GetTyped[event.Dispatcher](b.c, plugins.IDEvent); err == nil {
			d.Close()
		}
	}
	if b.c.HasLocal(plugins.IDTelemetry) {
		if tm, err := container.GetTyped[*telemetry.Manager](b.c, plugins.IDTelemetry); err == nil {
			b.closeErr(ctx, "telemetry", tm.Shutdown(ctx))
		}
	}
	if b.c.HasLocal(plugins.IDDatabase) {
		if m, err := container.GetTyped[*database.Manager](b.c, plugins.IDDatabase); err == nil {
			b.closeErr(ctx, "database", m.Close())
		}
	}
	if b.c.HasLocal(plugins.IDRedis) {
		if m, err := container.GetTyped[*redis.Manager](b.c, plugins.IDRedis); err == nil {
			b.closeErr(ctx, "redis", m.Close())
		}
	}
}

func (b *BaseApplication) closeErr(ctx context.Context, name string, err error) {
	if err != nil && b.log != nil {
		b.log.ErrorCtx(ctx, "组件关闭失败", zap.String("component", name), zap.Error(err))
	}
}

// WaitShutdown 等待关闭信号
// 双信号机制：第一次信号触发优雅关停，第二次信号立即强制退出
func (b *BaseApplication) WaitShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log := b.MustGetLogger()

	select {
	case sig := <-quit:
		log.DebugCtx(b.ctx, "Shutdown signal received", zap.String("signal", sig.String()))

		// 取消 root context，通知所有依赖此 context 的组件
		b.cancel()

		go func() {
			sig := <-quit
			log.WarnCtx(context.Background(), "Second signal received, forcing exit", zap.String("signal", sig.String()))
			os.Exit(1)
		}()

	case <-b.ctx.Done():
		log.DebugCtx(context.Background(), "Context cancelled, starting graceful shutdown")
	}
}

// Cancel 手动触发关闭（测试或程序控制）
func (b *BaseApplication) Cancel() {
	b.cancel()
}

// OnSetup 注册 Setup 阶段回调
func (b *BaseApplication) OnSetup(fn func(*BaseApplication) error) *BaseApplication {
	b.onSetup = fn
	return b
}

// OnReady 注册启动完成回调
func (b *BaseApplication) OnReady(fn func(*BaseApplication) error) *BaseApplication {
	b.onReady = fn
	return b
}

// OnShutdown 注册关闭前回调（清理资源）
func (b *BaseApplication) OnShutdown(fn func(context.Context) error) *BaseApplication {
	b.onShutdown = fn
	return b
}

// Container 获取插件容器
func (b *BaseApplication) Container() *container.BasicContainer {
	return b.c
}

// MustGetLogger 获取核心日志实例（Setup 阶段初始化）
func (b *BaseApplication) MustGetLogger() *logger.CtxZapLogger {
	if b.log == nil {
		panic("logger not initialized, please call Setup() first")
	}
	return b.log
}

// GetConfigLoader 获取配置加载器（Setup 阶段初始化）
func (b *BaseApplication) GetConfigLoader() *config.Loader {
	if b.loader == nil {
		panic("config loader not initialized, please call Setup() first")
	}
	return b.loader
}

// LoadAppConfig 获取框架配置（Setup 中加载并缓存）
func (b *BaseApplication) LoadAppConfig() (*AppConfig, error) {
	if b.appConfig == nil {
		return nil, fmt.Errorf("AppConfig 未初始化")
	}
	return b.appConfig, nil
}

// GetState 获取当前状态
func (b *BaseApplication) GetState() AppState {
	return b.state.Get()
}

// StateStore 获取状态 store，订阅可感知生命周期变迁
func (b *BaseApplication) StateStore() *store.Store[AppState] {
	return b.state
}

// Context 获取应用上下文
func (b *BaseApplication) Context() context.Context {
	return b.ctx
}

// GetStartupTimeMs 获取距创建的毫秒数
func (b *BaseApplication) GetStartupTimeMs() int64 {
	return time.Since(b.startedAt).Milliseconds()
}

// setState 更新状态并经 store 通知订阅者
func (b *BaseApplication) setState(state AppState) {
	old := b.state.Get()
	b.state.Set(state)

	if b.log != nil {
		b.log.DebugCtx(b.ctx, "State changed",
			zap.String("from", old.String()),
			zap.String("to", state.String()))
	}
}
