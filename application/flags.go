package application

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// AppFlags 应用启动标志
//
// 字段带 config 标签，可直接作为 flags 参数传给 New/NewBase，
// 经配置加载器覆盖对应配置项（零值字段跳过）。
type AppFlags struct {
	ConfigDir string `config:"-"`               // 配置目录路径
	Env       string `config:"-"`               // 运行环境
	Port      int    `config:"api_server.port"` // 服务端口（0 表示使用配置文件中的值）
	Address   string `config:"api_server.host"` // 服务地址（空表示使用配置文件中的值）
	Mode      string `config:"api_server.mode"` // gin 运行模式（debug/release/test）
	LogLevel  string `config:"logger.level"`    // 日志级别覆盖
}

// ParseFlags 解析命令行标志和环境变量
//
// 优先级：命令行参数 > 环境变量 {APP_NAME}_* > 默认值。
// appName 转大写、- 替换为 _ 后作为环境变量前缀，
// 如 user-api 对应 USER_API_CONFIG_DIR / USER_API_PORT 等。
// 若指定了环境，会写入 APP_ENV 供配置加载器选择 config.{env}.yaml。
func ParseFlags(appName string, defaultConfigDir string) *AppFlags {
	return parseFlagsFrom(appName, defaultConfigDir, flag.CommandLine, os.Args[1:])
}

// parseFlagsFrom 基于给定 FlagSet 解析（测试可注入自定义参数）
func parseFlagsFrom(appName, defaultConfigDir string, fs *flag.FlagSet, args []string) *AppFlags {
	envPrefix := strings.ToUpper(strings.ReplaceAll(appName, "-", "_"))

	var f AppFlags
	fs.StringVar(&f.ConfigDir, "config-dir", "",
		"配置目录路径（默认："+envPrefix+"_CONFIG_DIR 环境变量，或 "+defaultConfigDir+"）")
	fs.StringVar(&f.Env, "env", "",
		"运行环境（dev/test/prod，默认："+envPrefix+"_ENV 环境变量）")
	fs.IntVar(&f.Port, "port", 0,
		"服务端口（0 表示使用配置文件，默认："+envPrefix+"_PORT 环境变量）")
	fs.StringVar(&f.Address, "address", "",
		"服务地址（空表示使用配置文件，默认："+envPrefix+"_ADDRESS 环境变量）")
	fs.StringVar(&f.Mode, "mode", "",
		"gin 运行模式（debug/release/test，空表示使用配置文件）")
	fs.StringVar(&f.LogLevel, "log-level", "",
		"日志级别覆盖（debug/info/warn/error，空表示使用配置文件）")

	fs.Parse(args)

	// 命令行未指定的项回退到环境变量
	if f.ConfigDir == "" {
		f.ConfigDir = os.Getenv(envPrefix + "_CONFIG_DIR")
	}
	if f.ConfigDir == "" {
		f.ConfigDir = defaultConfigDir
	}
	if f.Env == "" {
		f.Env = os.Getenv(envPrefix + "_ENV")
	}
	if f.Port == 0 {
		if envPort := os.Getenv(envPrefix + "_PORT"); envPort != "" {
			fmt.Sscanf(envPort, "%d", &f.Port)
		}
	}
	if f.Address == "" {
		f.Address = os.Getenv(envPrefix + "_ADDRESS")
	}

	// 配置加载器按 APP_ENV 选择 config.{env}.yaml
	if f.Env != "" {
		os.Setenv("APP_ENV", f.Env)
	}

	return &f
}
