package application

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-container/container"
)

// CronApplication 定时任务应用（BaseApplication + gocron 调度器）
type CronApplication struct {
	*BaseApplication

	scheduler     gocron.Scheduler
	taskRegistrar TaskRegistrar
}

// TaskRegistrar 任务注册接口
type TaskRegistrar interface {
	RegisterTasks(app *CronApplication) error
}

// TaskRegistrarFunc 函数式任务注册器
type TaskRegistrarFunc func(app *CronApplication) error

// RegisterTasks 实现 TaskRegistrar 接口
func (f TaskRegistrarFunc) RegisterTasks(app *CronApplication) error {
	return f(app)
}

// NewCron 创建定时任务应用实例
func NewCron(configPath, configPrefix string) (*CronApplication, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("创建调度器失败: %w", err)
	}

	return &CronApplication{
		BaseApplication: NewBase(configPath, configPrefix, nil),
		scheduler:       scheduler,
	}, nil
}

// NewCronWith 以外部装配好的容器创建定时任务应用（测试用）
func NewCronWith(c *container.BasicContainer) (*CronApplication, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("创建调度器失败: %w", err)
	}

	return &CronApplication{
		BaseApplication: NewBaseWith(c),
		scheduler:       scheduler,
	}, nil
}

// Use 安装插件（链式调用）
func (a *CronApplication) Use(ps ...container.Plugin) *CronApplication {
	a.BaseApplication.Use(ps...)
	return a
}

// Run 启动应用并阻塞至收到关闭信号
func (a *CronApplication) Run() error {
	return a.run(true)
}

// RunNonBlocking 非阻塞启动（测试用）
func (a *CronApplication) RunNonBlocking() error {
	return a.run(false)
}

func (a *CronApplication) run(blocking bool) error {
	if err := a.Setup(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	if a.taskRegistrar != nil {
		if err := a.taskRegistrar.RegisterTasks(a); err != nil {
			return fmt.Errorf("register tasks failed: %w", err)
		}
	}

	a.scheduler.Start()

	a.setState(StateRunning)
	if a.onReady != nil {
		if err := a.onReady(a.BaseApplication); err != nil {
			return fmt.Errorf("onReady failed: %w", err)
		}
	}

	log := a.MustGetLogger()
	log.DebugCtx(a.ctx, "Cron application started",
		zap.String("state", a.GetState().String()),
		zap.Int64("startup_time", a.GetStartupTimeMs()))

	if blocking {
		a.WaitShutdown()
		return a.gracefulShutdown()
	}
	return nil
}

// gracefulShutdown 定时任务应用优雅关闭
func (a *CronApplication) gracefulShutdown() error {
	log := a.MustGetLogger()
	log.DebugCtx(a.ctx, "Starting Cron application graceful shutdown...")

	if a.scheduler != nil {
		if err := a.shutdownSchedulerWithTimeout(); err != nil {
			log.ErrorCtx(a.ctx, "Scheduler close exception", zap.Error(err))
		}
	}

	return a.BaseApplication.Shutdown(10 * time.Second)
}

// shutdownSchedulerWithTimeout 等待运行中的任务完成后关闭调度器
// 超时可经 cron.shutdown_timeout（秒）配置，默认 30 秒
func (a *CronApplication) shutdownSchedulerWithTimeout() error {
	log := a.MustGetLogger()

	timeout := 30 * time.Second
	if loader := a.loader; loader != nil {
		if secs := loader.GetInt("cron.shutdown_timeout"); secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	log.DebugCtx(a.ctx, "Shutting down scheduler, waiting for tasks...",
		zap.Duration("timeout", timeout))

	done := make(chan error, 1)
	go func() {
		done <- a.scheduler.Shutdown()
	}()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
		log.DebugCtx(a.ctx, "Scheduler closed, all tasks completed")
		return nil

	case <-time.After(timeout):
		log.WarnCtx(a.ctx, "Scheduler close timeout, forcing exit",
			zap.Duration("timeout", timeout))
		return fmt.Errorf("调度器关闭超时 (%v)", timeout)
	}
}

// GetScheduler 获取调度器实例
func (a *CronApplication) GetScheduler() gocron.Scheduler {
	return a.scheduler
}

// RegisterTask 注册单个 cron 任务
func (a *CronApplication) RegisterTask(cronExpr string, task any, options ...gocron.JobOption) (gocron.Job, error) {
	return a.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(task),
		options...,
	)
}

// RegisterTasks 设置任务注册器
func (a *CronApplication) RegisterTasks(registrar TaskRegistrar) *CronApplication {
	a.taskRegistrar = registrar
	return a
}

// OnSetup 注册 Setup 阶段回调（链式调用）
func (a *CronApplication) OnSetup(fn func(*CronApplication) error) *CronApplication {
	a.BaseApplication.OnSetup(func(*BaseApplication) error {
		return fn(a)
	})
	return a
}

// OnReady 注册启动完成回调（链式调用）
func (a *CronApplication) OnReady(fn func(*CronApplication) error) *CronApplication {
	a.BaseApplication.OnReady(func(*BaseApplication) error {
		return fn(a)
	})
	return a
}

// OnShutdown 注册关闭前回调（链式调用）
func (a *CronApplication) OnShutdown(fn func(*CronApplication) error) *CronApplication {
	a.BaseApplication.OnShutdown(func(context.Context) error {
		return fn(a)
	})
	return a
}

// Shutdown 手动触发关闭
func (a *CronApplication) Shutdown() {
	a.Cancel()
}

// Stop 非阻塞启动后的显式关停
func (a *CronApplication) Stop() error {
	return a.gracefulShutdown()
}
