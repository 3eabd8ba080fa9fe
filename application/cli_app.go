package application

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-container/container"
)

// CLIApplication CLI 应用（BaseApplication + cobra）
type CLIApplication struct {
	*BaseApplication

	rootCmd *cobra.Command
}

// NewCLI 创建 CLI 应用实例
// rootCmd 为 cobra 根命令
func NewCLI(configPath, configPrefix string, rootCmd *cobra.Command) *CLIApplication {
	return &CLIApplication{
		BaseApplication: NewBase(configPath, configPrefix, nil),
		rootCmd:         rootCmd,
	}
}

// NewCLIWith 以外部装配好的容器创建 CLI 应用（测试用）
func NewCLIWith(c *container.BasicContainer, rootCmd *cobra.Command) *CLIApplication {
	return &CLIApplication{
		BaseApplication: NewBaseWith(c),
		rootCmd:         rootCmd,
	}
}

// Use 安装插件（链式调用）
func (c *CLIApplication) Use(ps ...container.Plugin) *CLIApplication {
	c.BaseApplication.Use(ps...)
	return c
}

// OnSetup 注册 Setup 阶段回调（链式调用）
func (c *CLIApplication) OnSetup(fn func(*CLIApplication) error) *CLIApplication {
	c.BaseApplication.OnSetup(func(*BaseApplication) error {
		return fn(c)
	})
	return c
}

// OnReady 注册启动完成回调（链式调用）
func (c *CLIApplication) OnReady(fn func(*CLIApplication) error) *CLIApplication {
	c.BaseApplication.OnReady(func(*BaseApplication) error {
		return fn(c)
	})
	return c
}

// OnShutdown 注册关闭前回调（链式调用）
func (c *CLIApplication) OnShutdown(fn func(*CLIApplication) error) *CLIApplication {
	c.BaseApplication.OnShutdown(func(context.Context) error {
		return fn(c)
	})
	return c
}

// Execute 同步执行 CLI 命令，执行完毕后清理资源
func (c *CLIApplication) Execute() error {
	if err := c.Setup(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	c.setState(StateRunning)
	if c.onReady != nil {
		if err := c.onReady(c.BaseApplication); err != nil {
			return fmt.Errorf("onReady failed: %w", err)
		}
	}

	log := c.MustGetLogger()
	log.DebugCtx(c.ctx, "CLI application initialized",
		zap.Int64("startup_time", c.GetStartupTimeMs()))

	err := c.rootCmd.Execute()

	// 成功与否都要清理资源
	shutdownErr := c.gracefulShutdown()

	if err != nil {
		return err
	}
	return shutdownErr
}

// gracefulShutdown CLI 应用优雅关闭
// CLI 命令通常很快结束，超时取 5 秒
func (c *CLIApplication) gracefulShutdown() error {
	log := c.MustGetLogger()
	log.DebugCtx(c.ctx, "Starting CLI application graceful shutdown...")

	return c.BaseApplication.Shutdown(5 * time.Second)
}

// GetRootCmd 获取根命令（测试用）
func (c *CLIApplication) GetRootCmd() *cobra.Command {
	return c.rootCmd
}

// AddCommand 添加子命令
func (c *CLIApplication) AddCommand(cmds ...*cobra.Command) *CLIApplication {
	c.rootCmd.AddCommand(cmds...)
	return c
}
