package orm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMissingPrimaryKey   = errors.New("missing primary key")
	ErrDuplicatePrimaryKey = errors.New("duplicate primary key")
	ErrInvalidField        = errors.New("invalid field")
	ErrAlreadyRegistered   = errors.New("model already registered")
	ErrNotRegistered       = errors.New("model not registered")
	ErrInvalidLimit        = errors.New("invalid limit value")
	ErrAffectedRows        = errors.New("unexpected affected rows")
)

// SchemaError 注册模型时的结构错误
type SchemaError struct {
	Table string
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema %s: %v for field: %s", e.Table, e.Err, e.Field)
	}
	return fmt.Sprintf("schema %s: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValueError 调用参数不合法
type ValueError struct {
	Value any
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidLimit, e.Value)
}

func (e *ValueError) Unwrap() error {
	return ErrInvalidLimit
}

// RowCountError 写操作影响的行数不为 1
type RowCountError struct {
	Op       string
	Table    string
	Affected int64
}

func (e *RowCountError) Error() string {
	return fmt.Sprintf("failed to %s record in %s: affected rows: %d", e.Op, e.Table, e.Affected)
}

func (e *RowCountError) Unwrap() error {
	return ErrAffectedRows
}
