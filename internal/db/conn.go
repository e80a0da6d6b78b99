// Package db holds the connection collaborator the catalog loader talks to.
//
// A Conn answers three introspection questions: which tables exist, how a
// table is described (in the shape of MySQL's DESCRIBE), and which
// foreign-key constraints reference another table. MySQL, PostgreSQL and
// SQLite adapters issue the equivalent catalog queries for their engine.
package db

import (
	"context"
	"fmt"

	"github.com/hurou927/db-catalog/internal/config"
)

// Key kinds reported by DescribeTable, as MySQL spells them.
const (
	KeyPrimary  = "PRI"
	KeyUnique   = "UNI"
	KeyMultiple = "MUL"
)

// ExtraAutoIncrement is the Extra marker of an auto-increment column.
const ExtraAutoIncrement = "auto_increment"

// ColumnInfo is one row of a table description, in database column order.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string // "YES" or "NO"
	Key     string // KeyPrimary, KeyUnique, KeyMultiple or ""
	Default *string
	Extra   string
}

// Constraint is one column of a foreign-key constraint whose referenced
// table is known.
type Constraint struct {
	ChildTable  string
	ChildColumn string
	ParentTable string
}

// Conn is the introspection surface of a database connection.
type Conn interface {
	ListTables(ctx context.Context, database string) ([]string, error)
	DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error)
	ListForeignKeyConstraints(ctx context.Context, database string) ([]Constraint, error)
	Close() error
}

// Open connects to the database named by cfg and verifies the connection.
func Open(ctx context.Context, cfg *config.Connection) (Conn, error) {
	switch cfg.Driver {
	case config.DriverMySQL, "":
		return OpenMySQL(ctx, cfg)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}
