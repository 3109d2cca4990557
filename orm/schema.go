package orm

import (
	"fmt"
	"reflect"
	"strings"
)

// Schema 模型的映射元数据，创建后不再修改
type Schema struct {
	table      string
	primaryKey Field
	fields     []Field
	mappings   map[string]Field

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

// NewSchema 按声明顺序解析字段，必须有且仅有一个主键
func NewSchema(table string, fields ...Field) (*Schema, error) {
	if table == "" {
		return nil, &SchemaError{Err: ErrInvalidField, Field: "<table>"}
	}

	s := &Schema{
		table:    table,
		mappings: make(map[string]Field, len(fields)),
	}

	hasPrimaryKey := false
	for _, f := range fields {
		if f.Name == "" {
			return nil, &SchemaError{Table: table, Err: ErrInvalidField, Field: f.String()}
		}
		if !validDefault(f.Default) {
			return nil, &SchemaError{Table: table, Err: ErrInvalidField, Field: f.Name}
		}
		if _, ok := s.mappings[f.Name]; ok {
			return nil, &SchemaError{Table: table, Err: ErrInvalidField, Field: f.Name}
		}
		s.mappings[f.Name] = f

		if f.PrimaryKey {
			if hasPrimaryKey {
				return nil, &SchemaError{Table: table, Err: ErrDuplicatePrimaryKey, Field: f.Name}
			}
			hasPrimaryKey = true
			s.primaryKey = f
			continue
		}
		s.fields = append(s.fields, f)
	}
	if !hasPrimaryKey {
		return nil, &SchemaError{Table: table, Err: ErrMissingPrimaryKey}
	}

	s.build()
	return s, nil
}

func (s *Schema) build() {
	pk := quote(s.primaryKey.Name)
	columns := make([]string, 0, len(s.fields))
	assigns := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		columns = append(columns, quote(f.Name))
		assigns = append(assigns, quote(f.Name)+"=?")
	}
	if len(assigns) == 0 {
		assigns = append(assigns, pk+"=?")
	}

	s.selectSQL = fmt.Sprintf("select %s from %s", strings.Join(append([]string{pk}, columns...), ", "), s.table)
	s.insertSQL = fmt.Sprintf("insert into %s (%s) values (%s)",
		s.table, strings.Join(append(columns, pk), ", "), placeholders(len(columns)+1))
	s.updateSQL = fmt.Sprintf("update %s set %s where %s=?", s.table, strings.Join(assigns, ", "), pk)
	s.deleteSQL = fmt.Sprintf("delete from %s where %s=?", s.table, pk)
}

func (s *Schema) Table() string {
	return s.table
}

func (s *Schema) PrimaryKey() string {
	return s.primaryKey.Name
}

// Fields 返回非主键字段名，顺序与 insert/update 参数一致
func (s *Schema) Fields() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		names = append(names, f.Name)
	}
	return names
}

// Columns 返回全部列名，主键在前
func (s *Schema) Columns() []string {
	return append([]string{s.primaryKey.Name}, s.Fields()...)
}

func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.mappings[name]
	return f, ok
}

func (s *Schema) SelectSQL() string {
	return s.selectSQL
}

func (s *Schema) InsertSQL() string {
	return s.insertSQL
}

func (s *Schema) UpdateSQL() string {
	return s.updateSQL
}

func (s *Schema) DeleteSQL() string {
	return s.deleteSQL
}

// FindSQL 按主键查询
func (s *Schema) FindSQL() string {
	return fmt.Sprintf("%s where %s=?", s.selectSQL, quote(s.primaryKey.Name))
}

// CreateTableSQL 建表语句，仅用于初始化
func (s *Schema) CreateTableSQL() string {
	defs := []string{fmt.Sprintf("%s %s not null", quote(s.primaryKey.Name), s.primaryKey.ColumnType)}
	for _, f := range s.fields {
		defs = append(defs, fmt.Sprintf("%s %s", quote(f.Name), f.ColumnType))
	}
	defs = append(defs, fmt.Sprintf("primary key (%s)", quote(s.primaryKey.Name)))
	return fmt.Sprintf("create table if not exists %s (%s)", s.table, strings.Join(defs, ", "))
}

func (s *Schema) String() string {
	return fmt.Sprintf("Schema(%s, pk=%s, fields=%v)", s.table, s.primaryKey.Name, s.Fields())
}

// validDefault 函数类型的默认值只接受无参单返回值
func validDefault(v any) bool {
	rt := reflect.TypeOf(v)
	if rt == nil || rt.Kind() != reflect.Func {
		return true
	}
	return rt.NumIn() == 0 && rt.NumOut() == 1
}

func quote(name string) string {
	return "`" + name + "`"
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
