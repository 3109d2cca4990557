package orm

import (
	"encoding/json"

	"github.com/hatlonely/goblog/log"
)

// Record 列名到值的映射，模型结构体通过嵌入 Record 获得通用的字段访问
// Record 不是并发安全的，同一实例只应由一个调用方修改
type Record struct {
	schema   *Schema
	values   map[string]any
	resolved map[string]bool
}

func (r *Record) entity() *Record {
	return r
}

func (r *Record) bind(schema *Schema, values map[string]any) {
	r.schema = schema
	r.values = make(map[string]any, len(values))
	for k, v := range values {
		r.values[k] = v
	}
	r.resolved = nil
}

func (r *Record) Schema() *Schema {
	return r.schema
}

func (r *Record) Get(name string) any {
	return r.values[name]
}

func (r *Record) Lookup(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *Record) Set(name string, value any) {
	if r.values == nil {
		r.values = map[string]any{}
	}
	r.values[name] = value
}

// GetValueOrDefault 值为空时取字段默认值并写回，每个实例每个字段只求值一次
func (r *Record) GetValueOrDefault(name string) any {
	if v := r.values[name]; v != nil || r.resolved[name] || r.schema == nil {
		return v
	}
	field, ok := r.schema.Field(name)
	if !ok {
		return nil
	}

	if r.resolved == nil {
		r.resolved = map[string]bool{}
	}
	r.resolved[name] = true

	v := field.DefaultValue()
	if v != nil {
		log.Default().Debug("using default value", "field", name, "value", v)
		r.Set(name, v)
	}
	return v
}

// Fields 返回当前值的拷贝
func (r *Record) Fields() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// MarshalJSON 按列名输出当前值
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.values)
}

func (r *Record) GetString(name string) string {
	return toString(r.values[name])
}

func (r *Record) GetInt64(name string) int64 {
	n, _ := toInt64(r.values[name])
	return n
}

func (r *Record) GetFloat64(name string) float64 {
	f, _ := toFloat64(r.values[name])
	return f
}

func (r *Record) GetBool(name string) bool {
	b, _ := toBool(r.values[name])
	return b
}
