package orm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Dialect 在执行前把中性占位符 ? 替换为驱动的参数标记
type Dialect interface {
	Name() string
	Rewrite(query string) string
	// Paging 返回带偏移量的 limit 子句及其参数
	Paging(offset, count int) (string, []any)
}

var (
	MySQL    Dialect = questionDialect{name: "mysql"}
	SQLite   Dialect = questionDialect{name: "sqlite3"}
	Postgres Dialect = postgresDialect{}
)

// DialectFor 根据 database/sql 驱动名选择方言
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return MySQL, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	default:
		return nil, errors.Errorf("unsupported driver: %s", driver)
	}
}

type questionDialect struct {
	name string
}

func (d questionDialect) Name() string {
	return d.name
}

func (d questionDialect) Rewrite(query string) string {
	return query
}

func (d questionDialect) Paging(offset, count int) (string, []any) {
	return "limit ?, ?", []any{offset, count}
}

// postgresDialect 使用 $1, $2... 占位，标识符使用双引号
type postgresDialect struct{}

func (postgresDialect) Name() string {
	return "postgres"
}

func (postgresDialect) Rewrite(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)

	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			sb.WriteByte(c)
		case inLiteral:
			sb.WriteByte(c)
		case c == '?':
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		case c == '`':
			sb.WriteByte('"')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func (postgresDialect) Paging(offset, count int) (string, []any) {
	return "limit ? offset ?", []any{count, offset}
}
