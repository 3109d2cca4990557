package cfg

import (
	"fmt"
	"os"
	"reflect"
	"strings"
)

// applyEnv 使用环境变量覆盖字段，变量名为 prefix + 大写的字段路径，以 _ 连接
// 例如 prefix 为 GOBLOG_ 时，db.host 对应 GOBLOG_DB_HOST
func applyEnv(prefix string, rv reflect.Value) error {
	return walkEnv(prefix, nil, rv)
}

func walkEnv(prefix string, path []string, rv reflect.Value) error {
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldKey(field)
		if name == "-" {
			continue
		}
		fv := rv.Field(i)
		fieldPath := append(append([]string{}, path...), name)

		if fv.Kind() == reflect.Struct && field.Type != timeType || fv.Kind() == reflect.Ptr && fv.Type().Elem().Kind() == reflect.Struct {
			if err := walkEnv(prefix, fieldPath, fv); err != nil {
				return err
			}
			continue
		}

		key := prefix + strings.ToUpper(strings.Join(fieldPath, "_"))
		value, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if err := setFromString(fv, value); err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
	}
	return nil
}
