package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/hurou927/db-catalog/internal/config"
)

// MySQL introspects a MySQL-family database through database/sql.
type MySQL struct {
	db     *sql.DB
	schema string
}

// NewMySQL wraps an open *sql.DB using the mysql driver. DescribeTable
// resolves names inside schema, or the connection's default database when
// schema is empty.
func NewMySQL(db *sql.DB, schema string) *MySQL {
	return &MySQL{db: db, schema: schema}
}

// MySQLDSN builds a go-sql-driver DSN from config.
func MySQLDSN(cfg *config.Connection) string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Database
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	if cfg.Timeout > 0 {
		d := time.Duration(cfg.Timeout) * time.Second
		mc.Timeout = d
		mc.ReadTimeout = d
	}
	return mc.FormatDSN()
}

// OpenMySQL opens and pings a MySQL connection.
func OpenMySQL(ctx context.Context, cfg *config.Connection) (*MySQL, error) {
	sqlDB, err := sql.Open("mysql", MySQLDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening mysql: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, wrap("ping", err)
	}
	return NewMySQL(sqlDB, cfg.Schema), nil
}

// ListTables runs SHOW TABLES against database.
func (m *MySQL) ListTables(ctx context.Context, database string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, "SHOW TABLES FROM "+quoteIdent(database))
	if err != nil {
		return nil, wrap("list tables", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrap("list tables", err)
		}
		tables = append(tables, name)
	}
	return tables, wrap("list tables", rows.Err())
}

// DescribeTable runs DESCRIBE on table. Columns come back in definition order.
func (m *MySQL) DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error) {
	op := "describe " + table
	name := quoteIdent(table)
	if m.schema != "" {
		name = quoteIdent(m.schema) + "." + name
	}
	rows, err := m.db.QueryContext(ctx, "DESCRIBE "+name)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		var def sql.NullString
		if err := rows.Scan(&c.Field, &c.Type, &c.Null, &c.Key, &def, &c.Extra); err != nil {
			return nil, wrap(op, err)
		}
		if def.Valid {
			v := def.String
			c.Default = &v
		}
		cols = append(cols, c)
	}
	return cols, wrap(op, rows.Err())
}

const mysqlConstraintsQuery = `SELECT TABLE_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME
FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL
ORDER BY TABLE_NAME, CONSTRAINT_NAME, ORDINAL_POSITION`

// ListForeignKeyConstraints reads KEY_COLUMN_USAGE for database.
func (m *MySQL) ListForeignKeyConstraints(ctx context.Context, database string) ([]Constraint, error) {
	rows, err := m.db.QueryContext(ctx, mysqlConstraintsQuery, database)
	if err != nil {
		return nil, wrap("list constraints", err)
	}
	defer rows.Close()

	var out []Constraint
	for rows.Next() {
		var c Constraint
		if err := rows.Scan(&c.ChildTable, &c.ChildColumn, &c.ParentTable); err != nil {
			return nil, wrap("list constraints", err)
		}
		out = append(out, c)
	}
	return out, wrap("list constraints", rows.Err())
}

// Close closes the underlying pool.
func (m *MySQL) Close() error {
	return m.db.Close()
}

// quoteIdent backquotes a MySQL identifier.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
