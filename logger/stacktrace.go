package logger

import (
	"fmt"
	"runtime"
	"strings"
)

// CaptureStacktrace 捕获当前调用栈（支持深度限制）
// skip 为跳过的栈帧数（通常 2-3，跳过本函数与调用者包装层），
// depth 为最大深度（0 表示不限制，上限 32）
func CaptureStacktrace(skip int, depth int) string {
	maxDepth := depth
	if maxDepth <= 0 {
		maxDepth = 32
	}

	pcs := make([]uintptr, maxDepth*2)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return ""
	}

	var frames []string
	callersFrames := runtime.CallersFrames(pcs[:n])
	for count := 0; count < maxDepth; count++ {
		frame, more := callersFrames.Next()
		frames = append(frames, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}

	return strings.Join(frames, "\n")
}

// shouldCaptureStacktrace 判断该级别是否需要记录堆栈
func shouldCaptureStacktrace(level string, config ManagerConfig) bool {
	if !config.EnableStacktrace {
		return false
	}

	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
		"fatal": 4,
	}
	return levels[level] >= levels[config.StacktraceLevel]
}
