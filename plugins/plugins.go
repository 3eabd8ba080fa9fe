// Package plugins 提供标准组件插件集
//
// 每个插件向 BasicContainer 注册一组绑定，组件在首次 Get 时才真正
// 构建（安装只登记不解析）。携带 "mock" 变体的插件在 UseMocks 模式
// 下安装测试替身：sqlite 内存库、miniredis、同步事件派发等。
//
// 典型用法：
//
//	c := container.NewBasic()
//	c.Use(plugins.Config("configs", "APP"), plugins.Logger(), plugins.Database())
//	dbs := container.MustGetTyped[*database.Manager](c, plugins.IDDatabase)
package plugins

import (
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/logger"
)

// 组件标识符集中定义，避免散落的魔法字符串
const (
	IDConfig        = "yogan.config"         // *config.Loader
	IDLogger        = "yogan.logger"         // *logger.Manager
	IDEvent         = "yogan.event"          // event.Dispatcher
	IDRedis         = "yogan.redis"          // *redis.Manager
	IDRedisMock     = "yogan.redis.mock"     // *miniredis.Miniredis（仅 mock 变体）
	IDDatabase      = "yogan.database"       // *database.Manager
	IDCache         = "yogan.cache"          // *cache.Orchestrator
	IDTelemetry     = "yogan.telemetry"      // *telemetry.Manager
	IDAuth          = "yogan.auth"           // *auth.AuthService
	IDAuthTokens    = "yogan.auth.tokens"    // *auth.TokenManager
	IDAuthPasswords = "yogan.auth.passwords" // *auth.PasswordService
	IDAuthAttempts  = "yogan.auth.attempts"  // auth.LoginAttemptStore
	IDLimiter       = "yogan.limiter"        // *limiter.Manager
)

// moduleLogger 从预解析依赖中取日志管理器并派生模块 logger
// 日志插件未安装时回退全局管理器
func moduleLogger(deps container.Deps, module string) logger.CtxLogger {
	if v, ok := deps.Get(IDLogger); ok && v != nil {
		if mgr, ok := v.(*logger.Manager); ok {
			return mgr.GetLogger(module)
		}
	}
	return logger.GetLogger(module)
}

// pluginMeta 统一的绑定元数据，HTTP 调试端点据此归属组件
func pluginMeta(name string) map[string]any {
	return map[string]any{"plugin": name}
}
