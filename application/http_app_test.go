package application

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/plugins"
)

// freePort 取一个可用端口
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

// newTestHTTPApp 以内存配置和 mock 容器创建 HTTP 应用
func newTestHTTPApp(t *testing.T, values map[string]any, extra ...container.Plugin) *Application {
	t.Helper()

	if values == nil {
		values = map[string]any{}
	}
	if _, ok := values["api_server.port"]; !ok {
		values["api_server.port"] = freePort(t)
	}
	if _, ok := values["api_server.mode"]; !ok {
		values["api_server.mode"] = "test"
	}

	c := container.NewBasic()
	c.UseMocks()
	c.Use(plugins.ConfigValues(values), plugins.Logger())
	c.Use(extra...)

	return NewWith(c)
}

// TestApplication_RunNonBlocking 测试非阻塞启动与真实请求
func TestApplication_RunNonBlocking(t *testing.T) {
	port := freePort(t)
	app := newTestHTTPApp(t, map[string]any{"api_server.port": port})

	app.GetRouterManager().AddFunc(func(engine *gin.Engine, a *Application) {
		engine.GET("/ping", func(ctx *gin.Context) {
			ctx.String(http.StatusOK, "pong")
		})
	})

	require.NoError(t, app.RunNonBlocking())
	defer app.Stop()

	assert.Equal(t, StateRunning, app.GetState())

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestApplication_NoRouters_SkipsServer 测试无路由时不启动 HTTP Server
func TestApplication_NoRouters_SkipsServer(t *testing.T) {
	app := newTestHTTPApp(t, nil)

	require.NoError(t, app.RunNonBlocking())
	defer app.Stop()

	assert.Nil(t, app.GetHTTPServer())
	assert.Equal(t, StateRunning, app.GetState())
}

// TestApplication_HealthRoutes 测试健康检查路由自动挂载
func TestApplication_HealthRoutes(t *testing.T) {
	app := newTestHTTPApp(t, nil, plugins.Redis(), plugins.Database())
	app.GetRouterManager().AddFunc(func(engine *gin.Engine, a *Application) {})

	require.NoError(t, app.RunNonBlocking())
	defer app.Stop()

	engine := app.GetHTTPServer().GetEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/liveness", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// redis 与 database 插件已安装，完整报告聚合其 ping 检查
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, checks, "database")
	assert.Contains(t, checks, "redis")
}

// TestApplication_DebugRoutes 测试容器调试路由
func TestApplication_DebugRoutes(t *testing.T) {
	c := container.NewBasic()
	c.UseMocks()
	c.RegisterPlugin(plugins.ConfigValues(map[string]any{
		"api_server.port":                freePort(t),
		"api_server.mode":                "test",
		"api_server.enable_debug_routes": true,
	}), "config")
	c.RegisterPlugin(plugins.Logger(), "logger")
	require.NoError(t, c.ApplyPlugins())

	app := NewWith(c)
	app.GetRouterManager().AddFunc(func(engine *gin.Engine, a *Application) {})

	require.NoError(t, app.RunNonBlocking())
	defer app.Stop()

	engine := app.GetHTTPServer().GetEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/container", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Variant  string `json:"variant"`
		Bindings []struct {
			ID     string `json:"id"`
			Plugin string `json:"plugin"`
		} `json:"bindings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, container.MockVariant, body.Variant)
	assert.NotEmpty(t, body.Bindings)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/plugins", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var pluginsBody struct {
		Registered []string `json:"registered"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pluginsBody))
	assert.Contains(t, pluginsBody.Registered, "config")
	assert.Contains(t, pluginsBody.Registered, "logger")
}

// TestApplication_DebugRoutes_Disabled 测试非 debug 模式默认不挂载调试路由
func TestApplication_DebugRoutes_Disabled(t *testing.T) {
	app := newTestHTTPApp(t, map[string]any{"api_server.mode": "release"})
	app.GetRouterManager().AddFunc(func(engine *gin.Engine, a *Application) {})

	require.NoError(t, app.RunNonBlocking())
	defer app.Stop()

	w := httptest.NewRecorder()
	app.GetHTTPServer().GetEngine().ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/debug/container", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestApplication_RegisterRoutes 测试路由注册器接口
func TestApplication_RegisterRoutes(t *testing.T) {
	app := newTestHTTPApp(t, nil)

	manager := NewManager()
	manager.AddFunc(func(engine *gin.Engine, a *Application) {
		engine.GET("/api/users", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"users": []string{}})
		})
	})
	app.RegisterRoutes(manager)

	require.NoError(t, app.RunNonBlocking())
	defer app.Stop()

	w := httptest.NewRecorder()
	app.GetHTTPServer().GetEngine().ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestApplication_AuthMiddleware 测试认证中间件经 auth 插件装配
func TestApplication_AuthMiddleware(t *testing.T) {
	app := newTestHTTPApp(t, map[string]any{
		"middleware.auth.enable":     true,
		"middleware.auth.skip_paths": []string{"/public"},
	}, plugins.Auth())

	app.GetRouterManager().AddFunc(func(engine *gin.Engine, a *Application) {
		engine.GET("/public", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
		engine.GET("/private", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	})

	require.NoError(t, app.RunNonBlocking())
	defer app.Stop()

	engine := app.GetHTTPServer().GetEngine()

	// 白名单路径直接放行
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// 未带令牌被拒
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestApplication_RateLimitMiddleware 测试限流中间件（超额 429，白名单放行）
func TestApplication_RateLimitMiddleware(t *testing.T) {
	app := newTestHTTPApp(t, map[string]any{
		"middleware.rate_limit.enable":     true,
		"middleware.rate_limit.skip_paths": []string{"/unlimited"},
		"limiter.enabled":                  true,
		"limiter.default.rate":             1,
		"limiter.default.capacity":         2,
	}, plugins.Limiter())

	app.GetRouterManager().AddFunc(func(engine *gin.Engine, a *Application) {
		engine.GET("/api", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
		engine.GET("/unlimited", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	})

	require.NoError(t, app.RunNonBlocking())
	defer app.Stop()

	engine := app.GetHTTPServer().GetEngine()

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api", nil))
		require.Equal(t, http.StatusOK, w.Code, "预算内请求 %d 放行", i)
	}

	// 超出桶容量后被拒
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// 白名单路径不受预算限制
	for i := 0; i < 5; i++ {
		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unlimited", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

// TestApplication_OnReady 测试启动完成回调
func TestApplication_OnReady(t *testing.T) {
	app := newTestHTTPApp(t, nil)

	var readyCalled bool
	app.OnReady(func(a *Application) error {
		readyCalled = true
		return nil
	})

	require.NoError(t, app.RunNonBlocking())
	defer app.Stop()

	assert.True(t, readyCalled)
}

// TestApplication_Stop 测试显式关停
func TestApplication_Stop(t *testing.T) {
	app := newTestHTTPApp(t, nil)
	app.GetRouterManager().AddFunc(func(engine *gin.Engine, a *Application) {})

	require.NoError(t, app.RunNonBlocking())

	var shutdownCalled bool
	app.OnShutdown(func(a *Application) error {
		shutdownCalled = true
		return nil
	})

	require.NoError(t, app.Stop())
	assert.True(t, shutdownCalled)
	assert.Equal(t, StateStopped, app.GetState())
}

// TestHTTPServer_PortConflict 测试端口占用时启动报错
func TestHTTPServer_PortConflict(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	srv := NewHTTPServer(ApiServerConfig{Port: port, Mode: "test"}, nil, HTTPServerOptions{})
	err = srv.Start()
	assert.Error(t, err)
}

// TestHTTPServer_StartShutdown 测试启动与优雅关闭
func TestHTTPServer_StartShutdown(t *testing.T) {
	srv := NewHTTPServer(ApiServerConfig{Port: freePort(t), Mode: "test"}, nil, HTTPServerOptions{})
	srv.GetEngine().GET("/ok", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	require.NoError(t, srv.Start())
	assert.NoError(t, srv.ShutdownWithTimeout(2*time.Second))
}
