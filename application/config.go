package application

import (
	"github.com/KOMKZ/go-yogan-container/logger"
)

// AppConfig 框架级配置
//
// 业务组件配置（database、redis 等）不在此列，各插件自行从
// loader 读取对应配置键。
type AppConfig struct {
	// ApiServer HTTP 应用必配
	ApiServer ApiServerConfig `mapstructure:"api_server"`

	// 可选配置，指针表示可缺省
	Logger     *logger.ManagerConfig `mapstructure:"logger,omitempty"`
	Middleware *MiddlewareConfig     `mapstructure:"middleware,omitempty"`
}

// ApiServerConfig HTTP API 服务配置
type ApiServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Mode         string `mapstructure:"mode"` // debug, release, test
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`

	// EnableDebugRoutes 挂载 /debug/container 路由（默认仅 debug 模式）
	EnableDebugRoutes bool `mapstructure:"enable_debug_routes"`
}

// MiddlewareConfig 中间件配置
type MiddlewareConfig struct {
	CORS       *CORSConfig       `mapstructure:"cors,omitempty"`
	TraceID    *TraceIDConfig    `mapstructure:"trace_id,omitempty"`
	RequestLog *RequestLogConfig `mapstructure:"request_log,omitempty"`
	Auth       *AuthConfig       `mapstructure:"auth,omitempty"`
	RateLimit  *RateLimitConfig  `mapstructure:"rate_limit,omitempty"`
}

// TraceIDConfig TraceID 中间件配置
type TraceIDConfig struct {
	Enable               bool   `mapstructure:"enable"`
	TraceIDKey           string `mapstructure:"trace_id_key"`
	TraceIDHeader        string `mapstructure:"trace_id_header"`
	EnableResponseHeader bool   `mapstructure:"enable_response_header"`
}

// RequestLogConfig HTTP 请求日志中间件配置
type RequestLogConfig struct {
	Enable    bool     `mapstructure:"enable"`
	SkipPaths []string `mapstructure:"skip_paths"`
}

// AuthConfig JWT 认证中间件配置
// 启用时需要 auth 插件已安装（令牌校验经 TokenManager）
type AuthConfig struct {
	Enable    bool     `mapstructure:"enable"`
	SkipPaths []string `mapstructure:"skip_paths"`
}

// RateLimitConfig 限流中间件配置
// 启用时需要 limiter 插件已安装（预算与算法由 "limiter" 配置键决定）
type RateLimitConfig struct {
	Enable    bool     `mapstructure:"enable"`
	SkipPaths []string `mapstructure:"skip_paths"`
}

// CORSConfig CORS 中间件配置
type CORSConfig struct {
	Enable           bool     `mapstructure:"enable"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"` // 预检缓存秒数
}

// ApplyDefaults 填充中间件默认值
func (c *MiddlewareConfig) ApplyDefaults() {
	if c == nil {
		return
	}

	if c.CORS != nil {
		if len(c.CORS.AllowOrigins) == 0 {
			c.CORS.AllowOrigins = []string{"*"}
		}
		if len(c.CORS.AllowMethods) == 0 {
			c.CORS.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
		}
		if len(c.CORS.AllowHeaders) == 0 {
			c.CORS.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		}
		if c.CORS.MaxAge == 0 {
			c.CORS.MaxAge = 43200
		}
	}

	if c.TraceID != nil {
		if c.TraceID.TraceIDKey == "" {
			c.TraceID.TraceIDKey = "trace_id"
		}
		if c.TraceID.TraceIDHeader == "" {
			c.TraceID.TraceIDHeader = "X-Trace-ID"
		}
	}
}
