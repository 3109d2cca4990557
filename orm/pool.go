package orm

import "context"

// Pool 连接池，每条语句借用一个连接，用完必须 Release
type Pool interface {
	Acquire(ctx context.Context) (Conn, error)
}

// Conn 从连接池借出的连接
type Conn interface {
	Query(ctx context.Context, query string, args ...any) (Cursor, error)
	Exec(ctx context.Context, query string, args ...any) (int64, error)

	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	// Release 归还连接，只能调用一次
	Release()
}

// Cursor 查询结果游标
type Cursor interface {
	Next() bool
	Row() (Row, error)
	Err() error
	Close() error
}

// Row 有序的一行数据
type Row struct {
	columns []string
	values  []any
}

func NewRow(columns []string, values []any) Row {
	return Row{columns: columns, values: values}
}

func (r Row) Columns() []string {
	return r.columns
}

func (r Row) Values() []any {
	return r.values
}

func (r Row) Len() int {
	return len(r.columns)
}

func (r Row) Get(column string) (any, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return nil, false
}

func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}
