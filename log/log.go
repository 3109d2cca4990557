package log

import (
	"sync/atomic"

	"github.com/hatlonely/goblog/log/logger"
)

// Logger 对外暴露的日志接口
type Logger = logger.Logger

// Options 日志配置
type Options = logger.SLogOptions

var defaultLogger atomic.Value

func init() {
	// 默认向终端输出 text 格式日志
	slog, err := logger.NewSLogWithOptions(&logger.SLogOptions{
		Level:  "info",
		Format: "text",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger.Store(holder{slog})
}

type holder struct {
	logger.Logger
}

// NewLogWithOptions 根据配置创建日志器
func NewLogWithOptions(options *Options) (Logger, error) {
	return logger.NewSLogWithOptions(options)
}

func Default() Logger {
	return defaultLogger.Load().(holder).Logger
}

// SetDefault 替换包级默认日志器，nil 会被忽略
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger.Store(holder{l})
	}
}
