package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGinLogWriter_Classify 测试 Gin 日志按内容分级
func TestGinLogWriter_Classify(t *testing.T) {
	dir := t.TempDir()
	useGlobalManager(t, newFileManager(dir))

	w := NewGinLogWriter("gin-internal")

	routeLog := []byte("[GIN-debug] GET /ping --> handler (3 handlers)\n")
	n, err := w.Write(routeLog)
	require.NoError(t, err)
	assert.Equal(t, len(routeLog), n)

	_, err = w.Write([]byte("[Recovery] panic recovered: boom\n"))
	require.NoError(t, err)

	_, err = w.Write([]byte("listening on :8080\n"))
	require.NoError(t, err)

	// 空内容直接吞掉
	_, err = w.Write([]byte("   \n"))
	require.NoError(t, err)

	CloseAll()

	infoContent, err := os.ReadFile(filepath.Join(dir, "gin-internal", "gin-internal-info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(infoContent), "GET /ping")
	assert.Contains(t, string(infoContent), "listening on :8080")

	errContent, err := os.ReadFile(filepath.Join(dir, "gin-internal", "gin-internal-error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errContent), "panic recovered")
}
