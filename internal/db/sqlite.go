package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hurou927/db-catalog/internal/config"
)

// SQLite introspects a SQLite database file. Only the main schema is read.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an open *sql.DB using the sqlite driver.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// SQLiteDSN builds a modernc.org/sqlite DSN with foreign keys enabled.
func SQLiteDSN(cfg *config.Connection) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	if cfg.Timeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.Timeout*1000))
	}
	return "file:" + cfg.Path + "?" + q.Encode()
}

// OpenSQLite opens and pings a SQLite database.
func OpenSQLite(ctx context.Context, cfg *config.Connection) (*SQLite, error) {
	sqlDB, err := sql.Open("sqlite", SQLiteDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, wrap("ping", err)
	}
	return NewSQLite(sqlDB), nil
}

const sqliteTablesQuery = `SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`

// ListTables lists user tables. The database argument is ignored: a SQLite
// connection has a single main schema.
func (s *SQLite) ListTables(ctx context.Context, _ string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, sqliteTablesQuery)
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

var autoIncrementRe = regexp.MustCompile(`(?i)\bAUTOINCREMENT\b`)

// DescribeTable reads pragma_table_info. A primary-key column of a table
// declared with AUTOINCREMENT reports ExtraAutoIncrement.
func (s *SQLite) DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error) {
	op := "describe " + table

	var ddl sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&ddl)
	if err != nil && err != sql.ErrNoRows {
		return nil, wrap(op, err)
	}
	autoInc := ddl.Valid && autoIncrementRe.MatchString(ddl.String)

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			c       ColumnInfo
			notNull int
			def     sql.NullString
			pk      int
		)
		if err := rows.Scan(&c.Field, &c.Type, &notNull, &def, &pk); err != nil {
			return nil, wrap(op, err)
		}
		c.Null = "YES"
		if notNull != 0 {
			c.Null = "NO"
		}
		if pk > 0 {
			c.Key = KeyPrimary
			if autoInc {
				c.Extra = ExtraAutoIncrement
			}
		}
		if def.Valid {
			c.Default = sqliteDefault(def.String)
		}
		cols = append(cols, c)
	}
	return cols, wrap(op, rows.Err())
}

// sqliteDefault turns the SQL text of a column default into the bare value
// MySQL's DESCRIBE reports: string literals lose their quotes, NULL is nil.
func sqliteDefault(expr string) *string {
	if strings.EqualFold(expr, "NULL") {
		return nil
	}
	if len(expr) >= 2 && expr[0] == '\'' && expr[len(expr)-1] == '\'' {
		expr = strings.ReplaceAll(expr[1:len(expr)-1], "''", "'")
	}
	return &expr
}

// ListForeignKeyConstraints walks pragma_foreign_key_list for every table.
func (s *SQLite) ListForeignKeyConstraints(ctx context.Context, database string) ([]Constraint, error) {
	tables, err := s.ListTables(ctx, database)
	if err != nil {
		return nil, err
	}

	var out []Constraint
	for _, table := range tables {
		// Constraint ids count down from the last declared constraint.
		rows, err := s.db.QueryContext(ctx,
			`SELECT "table", "from" FROM pragma_foreign_key_list(?) ORDER BY id DESC, seq`, table)
		if err != nil {
			return nil, wrap("list constraints", err)
		}
		for rows.Next() {
			c := Constraint{ChildTable: table}
			if err := rows.Scan(&c.ParentTable, &c.ChildColumn); err != nil {
				rows.Close()
				return nil, wrap("list constraints", err)
			}
			out = append(out, c)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, wrap("list constraints", err)
		}
	}
	return out, nil
}

// Close closes the underlying pool.
func (s *SQLite) Close() error {
	return s.db.Close()
}
