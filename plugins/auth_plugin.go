package plugins

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/KOMKZ/go-yogan-container/auth"
	"github.com/KOMKZ/go-yogan-container/config"
	"github.com/KOMKZ/go-yogan-container/container"
	"github.com/KOMKZ/go-yogan-container/redis"
)

// idAuthConfig 插件内部绑定：解析并校验后的 auth.Config
const idAuthConfig = "yogan.auth.config"

// Auth 认证插件
//
// 绑定四个组件：
//
//	IDAuthPasswords  *auth.PasswordService（bcrypt + 密码策略）
//	IDAuthAttempts   auth.LoginAttemptStore（redis 或 memory 后端）
//	IDAuthTokens     *auth.TokenManager（HS256 签发与校验）
//	IDAuth           *auth.AuthService（Provider 路由，初始为空）
//
// 配置从 loader 的 "auth" 键读取；enabled 为 false 时各组件解析
// 报错。mock 变体使用固定密钥、最小 bcrypt cost 与内存计数器。
func Auth() container.Plugin {
	return container.Plugin{
		Name: "auth",
		Setup: func(c *container.BasicContainer) {
			c.Bind(idAuthConfig, container.Def{
				Dependencies: []container.Dependency{container.Dep(IDConfig)},
				Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
					loader := deps.At(0).(*config.Loader)

					var cfg auth.Config
					if err := loader.UnmarshalKey("auth", &cfg); err != nil {
						return nil, err
					}
					if !cfg.Enabled {
						return nil, fmt.Errorf("auth: 配置未启用")
					}
					cfg.ApplyDefaults()
					if err := cfg.Validate(); err != nil {
						return nil, err
					}
					return cfg, nil
				},
				Meta: pluginMeta("auth"),
			})
			bindAuthComponents(c)
		},
		Variants: map[string]container.SetupFunc{
			container.MockVariant: func(c *container.BasicContainer) {
				c.Bind(idAuthConfig, container.Def{
					Provide: func(container.Resolver, container.Deps) (any, error) {
						cfg := auth.Config{Enabled: true}
						cfg.Password.BcryptCost = bcrypt.MinCost
						cfg.Token.Secret = "mock-secret-0123456789abcdef0123"
						cfg.ApplyDefaults()
						return cfg, nil
					},
					Meta: pluginMeta("auth"),
				})
				bindAuthComponents(c)
			},
		},
	}
}

// bindAuthComponents 主实现与 mock 变体共用的组件绑定
// 差异全部收敛在 idAuthConfig 的取值上
func bindAuthComponents(c *container.BasicContainer) {
	c.Bind(IDAuthPasswords, container.Def{
		Dependencies: []container.Dependency{container.Dep(idAuthConfig)},
		Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
			cfg := deps.At(0).(auth.Config)
			return auth.NewPasswordService(cfg.Password.Policy, cfg.Password.BcryptCost), nil
		},
		Meta: pluginMeta("auth"),
	})

	c.Bind(IDAuthAttempts, container.Def{
		Dependencies: []container.Dependency{
			container.Dep(idAuthConfig),
			container.OptionalDep(IDRedis),
		},
		Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
			cfg := deps.At(0).(auth.Config)
			if cfg.LoginAttempt.Storage == "redis" {
				v, ok := deps.Get(IDRedis)
				if !ok || v == nil {
					return nil, fmt.Errorf("auth: 计数后端为 redis 但 redis 插件未安装")
				}
				mgr := v.(*redis.Manager)
				client := mgr.Client("main")
				if client == nil {
					return nil, fmt.Errorf("auth: redis 实例 main 不存在")
				}
				return auth.NewRedisLoginAttemptStore(client, cfg.LoginAttempt.RedisKeyPrefix), nil
			}
			return auth.NewMemoryLoginAttemptStore(), nil
		},
		Meta: pluginMeta("auth"),
	})

	c.Bind(IDAuthTokens, container.Def{
		Dependencies: []container.Dependency{container.Dep(idAuthConfig)},
		Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
			cfg := deps.At(0).(auth.Config)
			return auth.NewTokenManager(cfg.Token)
		},
		Meta: pluginMeta("auth"),
	})

	c.Bind(IDAuth, container.Def{
		Dependencies: []container.Dependency{container.OptionalDep(IDLogger)},
		Provide: func(_ container.Resolver, deps container.Deps) (any, error) {
			return auth.NewAuthService(moduleLogger(deps, "auth")), nil
		},
		Meta: pluginMeta("auth"),
	})
}
