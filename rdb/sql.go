package rdb

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/hatlonely/goblog/cfg"
	"github.com/hatlonely/goblog/log"
	"github.com/hatlonely/goblog/orm"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

type SQLOptions struct {
	Driver          string        `cfg:"driver" def:"mysql" validate:"oneof=mysql sqlite3 sqlite pgx"`
	DSN             string        `cfg:"dsn"`
	Host            string        `cfg:"host" def:"localhost"`
	Port            string        `cfg:"port" def:"3306"`
	Database        string        `cfg:"database"`
	Username        string        `cfg:"username"`
	Password        string        `cfg:"password"`
	Charset         string        `cfg:"charset" def:"utf8mb4"`
	MaxConns        int           `cfg:"maxConns" def:"10" validate:"gte=0"`
	MaxIdle         int           `cfg:"maxIdle" def:"1" validate:"gte=0"`
	ConnMaxLifetime time.Duration `cfg:"connMaxLifetime"`
}

// SQL 基于 database/sql 的连接池，实现 orm.Pool
type SQL struct {
	db      *sql.DB
	driver  string
	dialect orm.Dialect
}

func NewSQLWithOptions(options *SQLOptions) (*SQL, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if err := cfg.SetDefaults(options); err != nil {
		return nil, errors.WithMessage(err, "set defaults failed")
	}
	if err := cfg.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "invalid sql options")
	}

	dsn, err := buildDSN(options)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(options.Driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s failed", options.Driver)
	}

	db.SetMaxOpenConns(options.MaxConns)
	db.SetMaxIdleConns(options.MaxIdle)
	db.SetConnMaxLifetime(options.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s failed", options.Driver)
	}

	s, err := NewSQLWithDB(db, options.Driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Default().Info("database opened", "driver", options.Driver, "maxConns", options.MaxConns, "maxIdle", options.MaxIdle)
	return s, nil
}

// NewSQLWithDB 包装已打开的 *sql.DB，driver 用于选择方言
func NewSQLWithDB(db *sql.DB, driver string) (*SQL, error) {
	dialect, err := orm.DialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &SQL{db: db, driver: driver, dialect: dialect}, nil
}

func buildDSN(options *SQLOptions) (string, error) {
	if options.DSN != "" {
		return options.DSN, nil
	}
	switch options.Driver {
	case "mysql":
		// clientFoundRows 让影响行数按匹配行计算，值不变的 update 仍返回 1
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local&clientFoundRows=true",
			options.Username, options.Password, options.Host, options.Port, options.Database, options.Charset), nil
	case "sqlite3", "sqlite":
		return options.Database, nil
	case "pgx":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(options.Username, options.Password),
			Host:     net.JoinHostPort(options.Host, options.Port),
			Path:     "/" + options.Database,
			RawQuery: "sslmode=disable",
		}
		return u.String(), nil
	default:
		return "", errors.Errorf("unsupported driver: %s", options.Driver)
	}
}

func (s *SQL) DB() *sql.DB {
	return s.db
}

func (s *SQL) Driver() string {
	return s.driver
}

func (s *SQL) Dialect() orm.Dialect {
	return s.dialect
}

func (s *SQL) Stats() sql.DBStats {
	return s.db.Stats()
}

func (s *SQL) Close() error {
	return s.db.Close()
}

// Acquire 从连接池借出一个独占连接
func (s *SQL) Acquire(ctx context.Context) (orm.Conn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &SQLConn{conn: conn}, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLConn 事务开启后语句都在事务中执行
type SQLConn struct {
	conn     *sql.Conn
	tx       *sql.Tx
	released bool
}

func (c *SQLConn) querier() querier {
	if c.tx != nil {
		return c.tx
	}
	return c.conn
}

func (c *SQLConn) Query(ctx context.Context, query string, args ...any) (orm.Cursor, error) {
	rows, err := c.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	return &SQLCursor{rows: rows, columns: columns}, nil
}

func (c *SQLConn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := c.querier().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (c *SQLConn) Begin(ctx context.Context) error {
	if c.tx != nil {
		return errors.New("transaction already started")
	}
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

func (c *SQLConn) Commit() error {
	if c.tx == nil {
		return errors.New("no transaction to commit")
	}
	tx := c.tx
	c.tx = nil
	return tx.Commit()
}

// Rollback 没有进行中的事务时什么都不做
func (c *SQLConn) Rollback() error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return tx.Rollback()
}

// Release 回滚未结束的事务并归还连接，重复调用无效
func (c *SQLConn) Release() {
	if c.released {
		return
	}
	c.released = true
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	_ = c.conn.Close()
}

type SQLCursor struct {
	rows    *sql.Rows
	columns []string
}

func (c *SQLCursor) Next() bool {
	return c.rows.Next()
}

// Row 扫描当前行，[]byte 转为 string
func (c *SQLCursor) Row() (orm.Row, error) {
	values := make([]any, len(c.columns))
	valuePtrs := make([]any, len(c.columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := c.rows.Scan(valuePtrs...); err != nil {
		return orm.Row{}, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return orm.NewRow(c.columns, values), nil
}

func (c *SQLCursor) Err() error {
	return c.rows.Err()
}

func (c *SQLCursor) Close() error {
	return c.rows.Close()
}
