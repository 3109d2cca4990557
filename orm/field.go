package orm

import (
	"fmt"
	"reflect"
)

// Kind 字段类别
type Kind int

const (
	KindString Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "StringField"
	case KindBoolean:
		return "BooleanField"
	case KindInteger:
		return "IntegerField"
	case KindFloat:
		return "FloatField"
	case KindText:
		return "TextField"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field 描述一列：列名、存储类型、是否主键、默认值
// Default 可以是普通值，也可以是无参单返回值的函数，如 func() any、uuid.NewString，取值时调用
type Field struct {
	Name       string
	Kind       Kind
	ColumnType string
	PrimaryKey bool
	Default    any
}

type FieldOption func(*Field)

func PrimaryKey() FieldOption {
	return func(f *Field) { f.PrimaryKey = true }
}

// Default 设置默认值，函数必须无参数且只有一个返回值，否则 NewSchema 返回错误
func Default(v any) FieldOption {
	return func(f *Field) { f.Default = v }
}

// DDL 覆盖默认的列类型，如 varchar(50)
func DDL(columnType string) FieldOption {
	return func(f *Field) { f.ColumnType = columnType }
}

func newField(name string, kind Kind, columnType string, def any, opts []FieldOption) Field {
	f := Field{Name: name, Kind: kind, ColumnType: columnType, Default: def}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func StringField(name string, opts ...FieldOption) Field {
	return newField(name, KindString, "varchar(100)", nil, opts)
}

// BooleanField 不能作为主键
func BooleanField(name string, opts ...FieldOption) Field {
	f := newField(name, KindBoolean, "boolean", false, opts)
	f.PrimaryKey = false
	return f
}

func IntegerField(name string, opts ...FieldOption) Field {
	return newField(name, KindInteger, "bigint", int64(0), opts)
}

func FloatField(name string, opts ...FieldOption) Field {
	return newField(name, KindFloat, "real", 0.0, opts)
}

// TextField 不能作为主键
func TextField(name string, opts ...FieldOption) Field {
	f := newField(name, KindText, "text", nil, opts)
	f.PrimaryKey = false
	return f
}

// DefaultValue 返回默认值，生产函数每次调用都会重新求值
func (f Field) DefaultValue() any {
	if producer, ok := f.Default.(func() any); ok {
		return producer()
	}
	if rv := reflect.ValueOf(f.Default); rv.Kind() == reflect.Func {
		if rv.IsNil() {
			return nil
		}
		if rt := rv.Type(); rt.NumIn() == 0 && rt.NumOut() == 1 {
			return rv.Call(nil)[0].Interface()
		}
	}
	return f.Default
}

func (f Field) String() string {
	return fmt.Sprintf("<%s, %s:%s>", f.Kind, f.ColumnType, f.Name)
}
