package orm

import (
	"context"
	"time"

	"github.com/hatlonely/goblog/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/hatlonely/goblog/orm"

// Executor 在连接池上执行参数化语句
type Executor struct {
	pool       Pool
	dialect    Dialect
	logger     log.Logger
	autocommit bool
	metrics    *metrics
	tracer     trace.Tracer
}

type ExecutorOption func(*Executor)

func WithDialect(dialect Dialect) ExecutorOption {
	return func(e *Executor) {
		if dialect != nil {
			e.dialect = dialect
		}
	}
}

func WithLogger(logger log.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAutocommit 为 false 时 Execute 显式开启事务
func WithAutocommit(autocommit bool) ExecutorOption {
	return func(e *Executor) { e.autocommit = autocommit }
}

func WithMetrics(registerer prometheus.Registerer) ExecutorOption {
	return func(e *Executor) {
		if registerer != nil {
			e.metrics = newMetrics(registerer)
		}
	}
}

func WithTracer(tracer trace.Tracer) ExecutorOption {
	return func(e *Executor) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

func NewExecutor(pool Pool, opts ...ExecutorOption) *Executor {
	e := &Executor{
		pool:       pool,
		dialect:    MySQL,
		logger:     log.Default(),
		autocommit: true,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Dialect() Dialect {
	return e.dialect
}

func (e *Executor) Logger() log.Logger {
	return e.logger
}

// Query 执行查询，size <= 0 时返回全部行，否则最多返回 size 行
func (e *Executor) Query(ctx context.Context, query string, args []any, size int) ([]Row, error) {
	ctx, done := e.observe(ctx, "query", query)
	rows, err := e.query(ctx, query, args, size)
	done(err)
	return rows, err
}

func (e *Executor) query(ctx context.Context, query string, args []any, size int) ([]Row, error) {
	e.logger.InfoContext(ctx, "SQL", "sql", query, "args", args)

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	cursor, err := conn.Query(ctx, e.dialect.Rewrite(query), args...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var rows []Row
	for (size <= 0 || len(rows) < size) && cursor.Next() {
		row, err := cursor.Row()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "rows returned", "count", len(rows))
	return rows, nil
}

// Execute 执行写语句并返回影响行数，是否开启事务由 autocommit 决定
func (e *Executor) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	return e.execute(ctx, query, args, !e.autocommit)
}

// ExecuteTx 总是在显式事务中执行
func (e *Executor) ExecuteTx(ctx context.Context, query string, args ...any) (int64, error) {
	return e.execute(ctx, query, args, true)
}

func (e *Executor) execute(ctx context.Context, query string, args []any, tx bool) (int64, error) {
	ctx, done := e.observe(ctx, "execute", query)
	affected, err := e.exec(ctx, query, args, tx)
	done(err)
	return affected, err
}

func (e *Executor) exec(ctx context.Context, query string, args []any, tx bool) (int64, error) {
	e.logger.InfoContext(ctx, "SQL", "sql", query, "args", args)

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	if tx {
		if err := conn.Begin(ctx); err != nil {
			return 0, err
		}
		committed := false
		// 提交前的任何退出路径都先回滚，包括 panic
		defer func() {
			if committed {
				return
			}
			if err := conn.Rollback(); err != nil {
				e.logger.WarnContext(ctx, "rollback failed", "error", err)
			}
		}()

		affected, err := conn.Exec(ctx, e.dialect.Rewrite(query), args...)
		if err != nil {
			return 0, err
		}
		if err := conn.Commit(); err != nil {
			return 0, err
		}
		committed = true
		return affected, nil
	}

	return conn.Exec(ctx, e.dialect.Rewrite(query), args...)
}

// observe 为一条语句开启 span 并在结束时记录指标
func (e *Executor) observe(ctx context.Context, op string, query string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "orm."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", e.dialect.Name()),
			attribute.String("db.statement", query),
		),
	)

	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		e.metrics.observe(op, status, time.Since(start))
	}
}
