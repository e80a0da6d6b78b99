// Package dbtest provides an in-memory db.Conn for tests.
package dbtest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hurou927/db-catalog/internal/db"
)

// Conn is a scripted db.Conn. Tables are listed in the order they were added.
type Conn struct {
	Constraints []db.Constraint

	// Errors injected per call; DescribeErr is keyed by table name.
	ListErr       error
	DescribeErr   map[string]error
	ConstraintErr error

	// DescribeHook, when set, runs at the start of every DescribeTable call.
	DescribeHook func(ctx context.Context, table string) error

	mu      sync.Mutex
	order   []string
	columns map[string][]db.ColumnInfo

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	closed      atomic.Bool
}

// New returns an empty Conn.
func New() *Conn {
	return &Conn{
		DescribeErr: make(map[string]error),
		columns:     make(map[string][]db.ColumnInfo),
	}
}

// AddTable registers a table and its DESCRIBE rows.
func (c *Conn) AddTable(name string, cols ...db.ColumnInfo) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.columns[name]; !ok {
		c.order = append(c.order, name)
	}
	c.columns[name] = cols
	return c
}

// AddConstraint appends a foreign-key constraint row.
func (c *Conn) AddConstraint(child, column, parent string) *Conn {
	c.Constraints = append(c.Constraints, db.Constraint{ChildTable: child, ChildColumn: column, ParentTable: parent})
	return c
}

// ListTables implements db.Conn.
func (c *Conn) ListTables(ctx context.Context, _ string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.ConnectionError{Op: "list tables", Err: err}
	}
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...), nil
}

// DescribeTable implements db.Conn.
func (c *Conn) DescribeTable(ctx context.Context, table string) ([]db.ColumnInfo, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		m := c.maxInFlight.Load()
		if n <= m || c.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}

	if c.DescribeHook != nil {
		if err := c.DescribeHook(ctx, table); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, &db.ConnectionError{Op: "describe " + table, Err: err}
	}
	if err := c.DescribeErr[table]; err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]db.ColumnInfo(nil), c.columns[table]...), nil
}

// ListForeignKeyConstraints implements db.Conn.
func (c *Conn) ListForeignKeyConstraints(ctx context.Context, _ string) ([]db.Constraint, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.ConnectionError{Op: "list constraints", Err: err}
	}
	if c.ConstraintErr != nil {
		return nil, c.ConstraintErr
	}
	return append([]db.Constraint(nil), c.Constraints...), nil
}

// Close implements db.Conn.
func (c *Conn) Close() error {
	c.closed.Store(true)
	return nil
}

// MaxInFlight returns the highest number of concurrent DescribeTable calls seen.
func (c *Conn) MaxInFlight() int {
	return int(c.maxInFlight.Load())
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// Col builds a plain column row.
func Col(name string) db.ColumnInfo {
	return db.ColumnInfo{Field: name, Type: "varchar(255)", Null: "YES"}
}

// PK builds a primary-key column row.
func PK(name string) db.ColumnInfo {
	return db.ColumnInfo{Field: name, Type: "int(11)", Null: "NO", Key: db.KeyPrimary}
}

// AutoPK builds an auto-increment primary-key column row.
func AutoPK(name string) db.ColumnInfo {
	c := PK(name)
	c.Extra = db.ExtraAutoIncrement
	return c
}

// WithDefault returns col with a default value.
func WithDefault(col db.ColumnInfo, def string) db.ColumnInfo {
	col.Default = &def
	return col
}
