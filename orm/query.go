package orm

import (
	"math"
	"reflect"
)

// FindOption findAll 的可选子句，拼接顺序固定为 where、order by、limit
type FindOption func(*findOptions)

type findOptions struct {
	where   string
	args    []any
	orderBy string

	limit    int
	offset   int
	hasLimit bool
	paging   bool
	err      error
}

func Where(clause string, args ...any) FindOption {
	return func(o *findOptions) {
		o.where = clause
		o.args = args
	}
}

func OrderBy(expr string) FindOption {
	return func(o *findOptions) { o.orderBy = expr }
}

// Limit 最多返回 n 行
func Limit(n int) FindOption {
	return func(o *findOptions) {
		o.hasLimit, o.paging = true, false
		o.limit = n
	}
}

// LimitOffset 跳过 offset 行后返回 count 行
func LimitOffset(offset, count int) FindOption {
	return func(o *findOptions) {
		o.hasLimit, o.paging = true, true
		o.offset, o.limit = offset, count
	}
}

// LimitValue 接受整数，或长度为 2 的 [offset, count]，nil 表示不限制，其他形式在查询时返回 ValueError
func LimitValue(v any) FindOption {
	return func(o *findOptions) {
		if v == nil {
			return
		}
		if n, ok := asInt(v); ok {
			Limit(n)(o)
			return
		}
		if pair, ok := asPair(v); ok {
			LimitOffset(pair[0], pair[1])(o)
			return
		}
		o.err = &ValueError{Value: v}
	}
}

func asInt(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() > math.MaxInt || rv.Int() < math.MinInt {
			return 0, false
		}
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt {
			return 0, false
		}
		return int(rv.Uint()), true
	}
	return 0, false
}

func asPair(v any) ([2]int, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Array && rv.Kind() != reflect.Slice || rv.Len() != 2 {
		return [2]int{}, false
	}
	var pair [2]int
	for i := 0; i < 2; i++ {
		n, ok := asInt(rv.Index(i).Interface())
		if !ok {
			return [2]int{}, false
		}
		pair[i] = n
	}
	return pair, true
}

// build 在 base 之后追加子句，返回语句与参数
func (o *findOptions) build(base string, dialect Dialect) (string, []any, error) {
	if o.err != nil {
		return "", nil, o.err
	}

	query := base
	args := append([]any{}, o.args...)
	if o.where != "" {
		query += " where " + o.where
	}
	if o.orderBy != "" {
		query += " order by " + o.orderBy
	}
	if o.hasLimit {
		if o.paging {
			clause, pagingArgs := dialect.Paging(o.offset, o.limit)
			query += " " + clause
			args = append(args, pagingArgs...)
		} else {
			query += " limit ?"
			args = append(args, o.limit)
		}
	}
	return query, args, nil
}
