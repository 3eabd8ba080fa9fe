package application

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KOMKZ/go-yogan-container/auth"
	"github.com/KOMKZ/go-yogan-container/health"
	"github.com/KOMKZ/go-yogan-container/httpx"
	"github.com/KOMKZ/go-yogan-container/limiter"
	"github.com/KOMKZ/go-yogan-container/logger"
	"github.com/KOMKZ/go-yogan-container/middleware"
	"github.com/KOMKZ/go-yogan-container/telemetry"
)

// HTTPServer 封装 gin 引擎与底层 http.Server
type HTTPServer struct {
	engine     *gin.Engine
	httpServer *http.Server
	port       int
	mode       string
	eg         errgroup.Group
}

// HTTPServerOptions HTTPServer 的可选组件
// 均可为 nil：telemetry 缺失时不挂 otelgin，health 缺失时不挂
// /health 路由，tokens 缺失时认证中间件配置被忽略，rate limiter
// 缺失时限流中间件配置被忽略
type HTTPServerOptions struct {
	Telemetry   *telemetry.Manager
	Health      *health.Aggregator
	Tokens      *auth.TokenManager
	RateLimiter *limiter.Manager
}

// NewHTTPServer 创建 HTTP 服务
//
// 中间件按固定顺序挂载：CORS → RateLimit → otelgin → TraceID →
// RequestLog → Auth → Recovery。Recovery 始终启用，其余按配置与
// 可选组件决定。
func NewHTTPServer(cfg ApiServerConfig, middlewareCfg *MiddlewareConfig, opts HTTPServerOptions) *HTTPServer {
	// 接管 gin 自身的日志输出
	gin.DefaultWriter = logger.NewGinLogWriter("yogan")
	gin.DefaultErrorWriter = logger.NewGinLogWriter("yogan")

	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	// CORS 置顶，保证预检请求最先被响应
	if middlewareCfg != nil && middlewareCfg.CORS != nil && middlewareCfg.CORS.Enable {
		engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     middlewareCfg.CORS.AllowOrigins,
			AllowMethods:     middlewareCfg.CORS.AllowMethods,
			AllowHeaders:     middlewareCfg.CORS.AllowHeaders,
			ExposeHeaders:    middlewareCfg.CORS.ExposeHeaders,
			AllowCredentials: middlewareCfg.CORS.AllowCredentials,
			MaxAge:           middlewareCfg.CORS.MaxAge,
		}))
	}

	// 限流靠前，超额请求不进入后续中间件
	if middlewareCfg != nil && middlewareCfg.RateLimit != nil && middlewareCfg.RateLimit.Enable && opts.RateLimiter != nil {
		engine.Use(middleware.RateLimitWithConfig(opts.RateLimiter, middleware.RateLimitConfig{
			SkipPaths: middlewareCfg.RateLimit.SkipPaths,
		}))
	}

	// otelgin 须在 TraceID 之前，TraceID 中间件优先采用 Span 的 trace id
	if opts.Telemetry != nil && opts.Telemetry.IsEnabled() {
		serviceName := opts.Telemetry.Config().ServiceName
		if serviceName == "" {
			serviceName = "http-service"
		}
		engine.Use(otelgin.Middleware(serviceName))
	}

	if middlewareCfg != nil && middlewareCfg.TraceID != nil && middlewareCfg.TraceID.Enable {
		traceCfg := middleware.DefaultTraceConfig()
		if middlewareCfg.TraceID.TraceIDKey != "" {
			traceCfg.TraceIDKey = middlewareCfg.TraceID.TraceIDKey
		}
		if middlewareCfg.TraceID.TraceIDHeader != "" {
			traceCfg.TraceIDHeader = middlewareCfg.TraceID.TraceIDHeader
		}
		traceCfg.EnableResponseHeader = middlewareCfg.TraceID.EnableResponseHeader
		engine.Use(middleware.TraceID(traceCfg))
	}

	if middlewareCfg != nil && middlewareCfg.RequestLog != nil && middlewareCfg.RequestLog.Enable {
		engine.Use(middleware.RequestLogWithConfig(middleware.RequestLogConfig{
			SkipPaths: middlewareCfg.RequestLog.SkipPaths,
		}))
	}

	if middlewareCfg != nil && middlewareCfg.Auth != nil && middlewareCfg.Auth.Enable && opts.Tokens != nil {
		authCfg := middleware.DefaultAuthConfig()
		authCfg.SkipPaths = middlewareCfg.Auth.SkipPaths
		engine.Use(middleware.AuthWithConfig(opts.Tokens, authCfg))
	}

	// panic 恢复始终启用
	engine.Use(middleware.Recovery())

	engine.NoRoute(httpx.NoRouteHandler())
	engine.NoMethod(httpx.NoMethodHandler())

	if opts.Health != nil {
		middleware.RegisterHealthRoutes(engine, opts.Health)
	}

	return &HTTPServer{
		engine: engine,
		port:   cfg.Port,
		mode:   cfg.Mode,
	}
}

// GetEngine 获取 gin 引擎（业务层注册路由用）
func (s *HTTPServer) GetEngine() *gin.Engine {
	return s.engine
}

// Start 非阻塞启动，等待确认端口绑定成功后返回
// 监听 goroutine 交由 errgroup 托管，Shutdown 时经 Wait 收集错误
func (s *HTTPServer) Start() error {
	addr := fmt.Sprintf(":%d", s.port)

	if err := s.checkPortAvailable(addr); err != nil {
		return fmt.Errorf("端口 %d 不可用: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errChan := make(chan error, 1)
	s.eg.Go(func() error {
		logger.Debug("yogan", "HTTP server starting",
			zap.Int("port", s.port),
			zap.String("mode", s.mode))

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errChan <- err
			return err
		}
		return nil
	})

	// 短暂等待以捕获端口绑定类启动错误
	select {
	case err := <-errChan:
		logger.Error("yogan", "HTTP server start failed", zap.Error(err))
		return fmt.Errorf("HTTP 服务启动失败: %w", err)
	case <-time.After(50 * time.Millisecond):
		logger.Debug("yogan", "HTTP server started", zap.Int("port", s.port))
		return nil
	}
}

func (s *HTTPServer) checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ln.Close()
}

// Shutdown 优雅关闭：停止接收新请求并等待监听 goroutine 退出
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP Server 关闭失败: %w", err)
	}
	if err := s.eg.Wait(); err != nil {
		return fmt.Errorf("HTTP Server 监听异常退出: %w", err)
	}

	logger.Debug("yogan", "HTTP server closed")
	return nil
}

// ShutdownWithTimeout 带超时的优雅关闭
func (s *HTTPServer) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}
