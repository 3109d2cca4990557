package writer

import (
	"fmt"
	"io"
)

// Writer 日志输出器接口
type Writer interface {
	io.Writer
	io.Closer
}

// Options 输出目标配置
// Type 为空或 console 时输出到终端，file 时输出到 Path 指定的文件
type Options struct {
	Type   string `cfg:"type" def:"console" validate:"omitempty,oneof=console file"`
	Target string `cfg:"target"`
	Path   string `cfg:"path"`
}

// NewWriterWithOptions 根据配置创建输出器
func NewWriterWithOptions(options *Options) (Writer, error) {
	if options == nil {
		return NewConsoleWriterWithOptions(nil)
	}

	switch options.Type {
	case "", "console":
		return NewConsoleWriterWithOptions(&ConsoleWriterOptions{Target: options.Target})
	case "file":
		return NewFileWriterWithOptions(&FileWriterOptions{Path: options.Path})
	default:
		return nil, fmt.Errorf("unsupported writer type: %s", options.Type)
	}
}
