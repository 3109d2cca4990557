package cfg

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// ConvertTo 将解码后的数据树转换为结构体
// 字段名取 cfg tag，缺省为字段名，匹配时忽略大小写
func ConvertTo(data any, object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("object must be a non-nil pointer")
	}
	return convert(data, rv.Elem())
}

func convert(src any, dst reflect.Value) error {
	if src == nil {
		return nil
	}

	switch dst.Kind() {
	case reflect.Ptr:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return convert(src, dst.Elem())
	case reflect.Interface:
		dst.Set(reflect.ValueOf(src))
		return nil
	case reflect.Struct:
		if dst.Type() == timeType {
			return convertScalar(src, dst)
		}
		m, ok := toStringMap(src)
		if !ok {
			return fmt.Errorf("expected map for %v, got %T", dst.Type(), src)
		}
		return convertStruct(m, dst)
	case reflect.Map:
		return convertMap(src, dst)
	case reflect.Slice:
		if s, ok := src.(string); ok {
			return setFromString(dst, s)
		}
		items, ok := src.([]any)
		if !ok {
			return fmt.Errorf("expected list for %v, got %T", dst.Type(), src)
		}
		out := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := convert(item, out.Index(i)); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		dst.Set(out)
		return nil
	default:
		return convertScalar(src, dst)
	}
}

func convertStruct(m map[string]any, dst reflect.Value) error {
	rt := dst.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldKey(field)
		if name == "-" {
			continue
		}
		value, ok := lookupKey(m, name)
		if !ok {
			continue
		}
		if err := convert(value, dst.Field(i)); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

func convertMap(src any, dst reflect.Value) error {
	m, ok := toStringMap(src)
	if !ok {
		return fmt.Errorf("expected map for %v, got %T", dst.Type(), src)
	}
	keyType := dst.Type().Key()
	if keyType.Kind() != reflect.String {
		return fmt.Errorf("unsupported map key type %v", keyType)
	}

	out := reflect.MakeMapWithSize(dst.Type(), len(m))
	for k, v := range m {
		elem := reflect.New(dst.Type().Elem()).Elem()
		if err := convert(v, elem); err != nil {
			return fmt.Errorf("key %s: %w", k, err)
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(keyType), elem)
	}
	dst.Set(out)
	return nil
}

func fieldKey(field reflect.StructField) string {
	if tag := field.Tag.Get("cfg"); tag != "" {
		return tag
	}
	return field.Name
}

func lookupKey(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func toStringMap(src any) (map[string]any, bool) {
	switch m := src.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}

func convertScalar(src any, dst reflect.Value) error {
	if s, ok := src.(string); ok {
		return setFromString(dst, s)
	}
	if dst.Kind() == reflect.String {
		dst.SetString(fmt.Sprint(src))
		return nil
	}

	sv := reflect.ValueOf(src)
	if isNumber(sv.Kind()) && isInteger(dst.Kind()) {
		if f := sv.Convert(reflect.TypeOf(float64(0))).Float(); f != float64(int64(f)) {
			return fmt.Errorf("cannot convert %v to %v", src, dst.Type())
		}
	}

	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}
	if isNumber(sv.Kind()) && isNumber(dst.Kind()) {
		dst.Set(sv.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("cannot convert %T to %v", src, dst.Type())
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	return isInteger(k) || k == reflect.Float32 || k == reflect.Float64
}
