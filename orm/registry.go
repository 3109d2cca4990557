package orm

import (
	"reflect"
	"sync"

	"github.com/hatlonely/goblog/log"
	"github.com/pkg/errors"
)

// Entity 嵌入了 Record 的模型
type Entity interface {
	entity() *Record
}

// EntityPtr 约束 *T 嵌入了 Record
type EntityPtr[T any] interface {
	*T
	Entity
}

// Tabler 模型实现 TableName 时用它作为表名，否则使用类型名
type Tabler interface {
	TableName() string
}

var registry sync.Map // reflect.Type -> *Schema

// Register 为模型类型 T 生成并缓存 Schema，每个类型只能注册一次
func Register[T any, P EntityPtr[T]](fields ...Field) (*Schema, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()

	table := rt.Name()
	if tabler, ok := any(P(new(T))).(Tabler); ok {
		table = tabler.TableName()
	}

	schema, err := NewSchema(table, fields...)
	if err != nil {
		return nil, err
	}
	if _, loaded := registry.LoadOrStore(rt, schema); loaded {
		return nil, errors.Wrapf(ErrAlreadyRegistered, "%s.%s", rt.PkgPath(), rt.Name())
	}

	logger := log.Default()
	logger.Info("found model", "model", rt.Name(), "table", table)
	for _, f := range fields {
		logger.Info("found mapping", "model", rt.Name(), "field", f.Name, "descriptor", f.String(), "primaryKey", f.PrimaryKey)
	}
	return schema, nil
}

// MustRegister 注册失败时 panic，用于包初始化
func MustRegister[T any, P EntityPtr[T]](fields ...Field) *Schema {
	schema, err := Register[T, P](fields...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Lookup 返回已注册的 Schema
func Lookup[T any]() (*Schema, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	v, ok := registry.Load(rt)
	if !ok {
		return nil, errors.Wrapf(ErrNotRegistered, "%s.%s", rt.PkgPath(), rt.Name())
	}
	return v.(*Schema), nil
}
