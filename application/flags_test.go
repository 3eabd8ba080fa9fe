package application

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseFlags_CommandLine 测试命令行参数优先
func TestParseFlags_CommandLine(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := parseFlagsFrom("user-api", "../configs", fs,
		[]string{"--port", "9090", "--address", "0.0.0.0", "--env", "test"})

	assert.Equal(t, 9090, f.Port)
	assert.Equal(t, "0.0.0.0", f.Address)
	assert.Equal(t, "test", f.Env)
	assert.Equal(t, "../configs", f.ConfigDir)
}

// TestParseFlags_EnvFallback 测试环境变量回退
func TestParseFlags_EnvFallback(t *testing.T) {
	t.Setenv("USER_API_PORT", "7070")
	t.Setenv("USER_API_CONFIG_DIR", "/etc/user-api")
	t.Setenv("USER_API_ENV", "prod")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := parseFlagsFrom("user-api", "../configs", fs, nil)

	assert.Equal(t, 7070, f.Port)
	assert.Equal(t, "/etc/user-api", f.ConfigDir)
	assert.Equal(t, "prod", f.Env)
}

// TestParseFlags_CommandLineOverridesEnv 测试命令行覆盖环境变量
func TestParseFlags_CommandLineOverridesEnv(t *testing.T) {
	t.Setenv("MY_APP_PORT", "7070")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := parseFlagsFrom("my-app", "../configs", fs, []string{"--port", "8081"})

	assert.Equal(t, 8081, f.Port)
}

// TestParseFlags_SetsAppEnv 测试环境写入 APP_ENV
func TestParseFlags_SetsAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	parseFlagsFrom("my-app", "../configs", fs, []string{"--env", "dev"})

	assert.Equal(t, "dev", os.Getenv("APP_ENV"))
}
