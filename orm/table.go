package orm

import (
	"context"
	"fmt"
)

// RowCountPolicy 写操作影响行数不为 1 时的处理方式
type RowCountPolicy int

const (
	// RowCountWarn 记录告警并视为成功
	RowCountWarn RowCountPolicy = iota
	// RowCountStrict 返回 *RowCountError
	RowCountStrict
)

type TableOption func(*tableOptions)

type tableOptions struct {
	rowCountPolicy RowCountPolicy
}

func WithRowCountPolicy(policy RowCountPolicy) TableOption {
	return func(o *tableOptions) { o.rowCountPolicy = policy }
}

// Table 模型 T 的数据访问入口，T 必须已通过 Register 注册
type Table[T any, P EntityPtr[T]] struct {
	schema  *Schema
	exec    *Executor
	options tableOptions
}

func NewTable[T any, P EntityPtr[T]](exec *Executor, opts ...TableOption) (*Table[T, P], error) {
	schema, err := Lookup[T]()
	if err != nil {
		return nil, err
	}
	t := &Table[T, P]{schema: schema, exec: exec}
	for _, opt := range opts {
		opt(&t.options)
	}
	return t, nil
}

func MustNewTable[T any, P EntityPtr[T]](exec *Executor, opts ...TableOption) *Table[T, P] {
	t, err := NewTable[T, P](exec, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table[T, P]) Schema() *Schema {
	return t.schema
}

// New 使用给定的列值构造一个未入库的实例
func (t *Table[T, P]) New(values map[string]any) P {
	v := P(new(T))
	v.entity().bind(t.schema, values)
	return v
}

func (t *Table[T, P]) hydrate(row Row) P {
	return t.New(row.Map())
}

func (t *Table[T, P]) FindAll(ctx context.Context, opts ...FindOption) ([]P, error) {
	options := &findOptions{}
	for _, opt := range opts {
		opt(options)
	}
	query, args, err := options.build(t.schema.SelectSQL(), t.exec.Dialect())
	if err != nil {
		return nil, err
	}

	rows, err := t.exec.Query(ctx, query, args, 0)
	if err != nil {
		return nil, err
	}
	result := make([]P, 0, len(rows))
	for _, row := range rows {
		result = append(result, t.hydrate(row))
	}
	return result, nil
}

// FindNumber 执行 select <expr> as _num_，无结果时返回 nil
func (t *Table[T, P]) FindNumber(ctx context.Context, expr string, where string, args ...any) (any, error) {
	query := fmt.Sprintf("select %s as _num_ from %s", expr, t.schema.Table())
	if where != "" {
		query += " where " + where
	}
	rows, err := t.exec.Query(ctx, query, args, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	v, _ := rows[0].Get("_num_")
	return v, nil
}

// Count 统计满足条件的行数
func (t *Table[T, P]) Count(ctx context.Context, where string, args ...any) (int64, error) {
	v, err := t.FindNumber(ctx, fmt.Sprintf("count(%s)", quote(t.schema.PrimaryKey())), where, args...)
	if err != nil {
		return 0, err
	}
	return toInt64(v)
}

// Find 按主键查询，不存在时返回 nil, nil
func (t *Table[T, P]) Find(ctx context.Context, pk any) (P, error) {
	rows, err := t.exec.Query(ctx, t.schema.FindSQL(), []any{pk}, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return t.hydrate(rows[0]), nil
}

// Save 插入新行，未赋值的字段使用默认值，主键参数在最后
func (t *Table[T, P]) Save(ctx context.Context, v P) error {
	rec := t.record(v)
	args := make([]any, 0, len(t.schema.fields)+1)
	for _, f := range t.schema.fields {
		args = append(args, rec.GetValueOrDefault(f.Name))
	}
	args = append(args, rec.GetValueOrDefault(t.schema.PrimaryKey()))

	affected, err := t.exec.Execute(ctx, t.schema.InsertSQL(), args...)
	if err != nil {
		return err
	}
	return t.checkAffected(ctx, "insert", affected)
}

// Update 按主键更新所有非主键字段
func (t *Table[T, P]) Update(ctx context.Context, v P) error {
	rec := t.record(v)
	args := make([]any, 0, len(t.schema.fields)+1)
	for _, f := range t.schema.fields {
		args = append(args, rec.Get(f.Name))
	}
	if len(t.schema.fields) == 0 {
		args = append(args, rec.Get(t.schema.PrimaryKey()))
	}
	args = append(args, rec.Get(t.schema.PrimaryKey()))

	affected, err := t.exec.Execute(ctx, t.schema.UpdateSQL(), args...)
	if err != nil {
		return err
	}
	return t.checkAffected(ctx, "update", affected)
}

// Remove 按主键删除
func (t *Table[T, P]) Remove(ctx context.Context, v P) error {
	rec := t.record(v)
	affected, err := t.exec.Execute(ctx, t.schema.DeleteSQL(), rec.Get(t.schema.PrimaryKey()))
	if err != nil {
		return err
	}
	return t.checkAffected(ctx, "remove", affected)
}

// CreateTable 建表，表已存在时不做任何事
func (t *Table[T, P]) CreateTable(ctx context.Context) error {
	_, err := t.exec.Execute(ctx, t.schema.CreateTableSQL())
	return err
}

func (t *Table[T, P]) record(v P) *Record {
	rec := v.entity()
	if rec.schema == nil {
		rec.schema = t.schema
	}
	return rec
}

func (t *Table[T, P]) checkAffected(ctx context.Context, op string, affected int64) error {
	if affected == 1 {
		return nil
	}
	if t.options.rowCountPolicy == RowCountStrict {
		return &RowCountError{Op: op, Table: t.schema.Table(), Affected: affected}
	}
	t.exec.Logger().WarnContext(ctx, fmt.Sprintf("failed to %s record", op),
		"table", t.schema.Table(), "affectedRows", affected)
	return nil
}
