package orm

import (
	"context"
	"strings"
	"sync"
)

type fakeStmt struct {
	query string
	args  []any
}

// fakePool 记录每次调用，store 非空时按 schema 在内存中保存行
type fakePool struct {
	mu sync.Mutex

	acquireErr error
	execErr    error
	queryErr   error
	commitErr  error
	rows       []Row
	affected   int64
	store      *memoryStore

	acquired int
	released int
	queries  []fakeStmt
	execs    []fakeStmt
	events   []string
}

func (p *fakePool) Acquire(ctx context.Context) (Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return &fakeConn{pool: p}, nil
}

func (p *fakePool) event(name string) {
	p.events = append(p.events, name)
}

type fakeConn struct {
	pool *fakePool
}

func (c *fakeConn) Query(ctx context.Context, query string, args ...any) (Cursor, error) {
	p := c.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	p.event("query")
	p.queries = append(p.queries, fakeStmt{query: query, args: args})
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	if p.store != nil {
		return &fakeCursor{rows: p.store.query(query, args)}, nil
	}
	return &fakeCursor{rows: p.rows}, nil
}

func (c *fakeConn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	p := c.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	p.event("exec")
	p.execs = append(p.execs, fakeStmt{query: query, args: args})
	if p.execErr != nil {
		return 0, p.execErr
	}
	if p.store != nil {
		return p.store.exec(query, args), nil
	}
	return p.affected, nil
}

func (c *fakeConn) Begin(ctx context.Context) error {
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	c.pool.event("begin")
	return nil
}

func (c *fakeConn) Commit() error {
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	c.pool.event("commit")
	return c.pool.commitErr
}

func (c *fakeConn) Rollback() error {
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	c.pool.event("rollback")
	return nil
}

func (c *fakeConn) Release() {
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	c.pool.released++
	c.pool.event("release")
}

type fakeCursor struct {
	rows   []Row
	i      int
	closed bool
}

func (c *fakeCursor) Next() bool {
	if c.i >= len(c.rows) {
		return false
	}
	c.i++
	return true
}

func (c *fakeCursor) Row() (Row, error) {
	return c.rows[c.i-1], nil
}

func (c *fakeCursor) Err() error {
	return nil
}

func (c *fakeCursor) Close() error {
	c.closed = true
	return nil
}

// memoryStore 只理解 schema 生成的语句
type memoryStore struct {
	schema *Schema
	keys   []any
	rows   map[any][]any
}

func newMemoryStore(schema *Schema) *memoryStore {
	return &memoryStore{schema: schema, rows: map[any][]any{}}
}

func (s *memoryStore) exec(query string, args []any) int64 {
	n := len(s.schema.Fields())
	switch {
	case query == s.schema.InsertSQL():
		pk := args[n]
		if _, ok := s.rows[pk]; ok {
			return 0
		}
		s.keys = append(s.keys, pk)
		s.rows[pk] = append([]any{pk}, args[:n]...)
		return 1
	case query == s.schema.UpdateSQL():
		pk := args[n]
		if _, ok := s.rows[pk]; !ok {
			return 0
		}
		s.rows[pk] = append([]any{pk}, args[:n]...)
		return 1
	case query == s.schema.DeleteSQL():
		if _, ok := s.rows[args[0]]; !ok {
			return 0
		}
		delete(s.rows, args[0])
		return 1
	}
	return 0
}

func (s *memoryStore) query(query string, args []any) []Row {
	columns := s.schema.Columns()
	if query == s.schema.FindSQL() {
		if values, ok := s.rows[args[0]]; ok {
			return []Row{NewRow(columns, values)}
		}
		return nil
	}
	if strings.HasPrefix(query, s.schema.SelectSQL()) {
		var rows []Row
		for _, pk := range s.keys {
			if values, ok := s.rows[pk]; ok {
				rows = append(rows, NewRow(columns, values))
			}
		}
		return rows
	}
	return nil
}
