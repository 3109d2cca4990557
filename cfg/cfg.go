package cfg

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Options 加载配置时的选项
type Options struct {
	// EnvPrefix 非空时使用环境变量覆盖配置，如 GOBLOG_ 对应 GOBLOG_DB_HOST
	EnvPrefix string
	// Format 显式指定格式，为空时根据文件扩展名判断
	Format string
}

type Option func(*Options)

func WithEnvPrefix(prefix string) Option {
	return func(o *Options) { o.EnvPrefix = prefix }
}

func WithFormat(format string) Option {
	return func(o *Options) { o.Format = format }
}

// Load 读取配置文件并转换为 object
// 处理顺序：文件解码 -> 环境变量覆盖 -> def 默认值 -> validate 校验
func Load(path string, object any, opts ...Option) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s failed", path)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return LoadBytes(data, object, append([]Option{WithFormat(format)}, opts...)...)
}

// LoadBytes 与 Load 相同，数据直接由调用方提供
func LoadBytes(data []byte, object any, opts ...Option) error {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("object must be a non-nil pointer")
	}

	tree, err := Decode(options.Format, data)
	if err != nil {
		return err
	}
	if err := ConvertTo(tree, object); err != nil {
		return errors.WithMessage(err, "convert config failed")
	}
	if options.EnvPrefix != "" {
		if err := applyEnv(options.EnvPrefix, rv.Elem()); err != nil {
			return errors.WithMessage(err, "apply env failed")
		}
	}
	if err := SetDefaults(object); err != nil {
		return errors.WithMessage(err, "set defaults failed")
	}
	if err := ValidateStruct(object); err != nil {
		return errors.WithMessage(err, "validate config failed")
	}
	return nil
}
