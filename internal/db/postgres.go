package db

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hurou927/db-catalog/internal/config"
)

// pgQuerier is the part of *pgxpool.Pool the adapter uses.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres introspects a PostgreSQL schema through pg_catalog. The
// results are shaped like MySQL's so the catalog loader stays engine-agnostic:
// identity and serial columns report ExtraAutoIncrement.
type Postgres struct {
	q      pgQuerier
	schema string
	close  func()
}

// NewPostgres wraps a pool. DescribeTable resolves names inside schema.
func NewPostgres(pool *pgxpool.Pool, schema string) *Postgres {
	return &Postgres{q: pool, schema: schema, close: pool.Close}
}

// OpenPostgres creates a new pgx connection pool from config.
func OpenPostgres(ctx context.Context, cfg *config.Connection) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	if cfg.Timeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = time.Duration(cfg.Timeout) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrap("ping", err)
	}

	return NewPostgres(pool, cfg.Schema), nil
}

const pgTablesQuery = `
	SELECT c.relname
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	WHERE c.relkind = 'r'
		AND n.nspname = $1
	ORDER BY c.relname
`

// ListTables lists ordinary tables in the schema named database.
func (p *Postgres) ListTables(ctx context.Context, database string) ([]string, error) {
	rows, err := p.q.Query(ctx, pgTablesQuery, database)
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

const pgDescribeQuery = `
	SELECT
		a.attname,
		format_type(a.atttypid, a.atttypmod),
		CASE WHEN a.attnotnull THEN 'NO' ELSE 'YES' END,
		CASE WHEN EXISTS (
			SELECT 1 FROM pg_constraint con
			WHERE con.conrelid = c.oid AND con.contype = 'p' AND a.attnum = ANY(con.conkey)
		) THEN 'PRI' ELSE '' END,
		pg_get_expr(d.adbin, d.adrelid),
		CASE WHEN a.attidentity IN ('a', 'd')
			OR COALESCE(pg_get_expr(d.adbin, d.adrelid), '') LIKE 'nextval(%'
		THEN 'auto_increment' ELSE '' END
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	JOIN pg_attribute a ON a.attrelid = c.oid
	LEFT JOIN pg_attrdef d ON d.adrelid = c.oid AND d.adnum = a.attnum
	WHERE n.nspname = $1
		AND c.relname = $2
		AND a.attnum > 0
		AND NOT a.attisdropped
	ORDER BY a.attnum
`

// DescribeTable describes table in attribute-number order.
func (p *Postgres) DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error) {
	op := "describe " + table
	rows, err := p.q.Query(ctx, pgDescribeQuery, p.schema, table)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		var def *string
		if err := rows.Scan(&c.Field, &c.Type, &c.Null, &c.Key, &def, &c.Extra); err != nil {
			return nil, wrap(op, err)
		}
		if def != nil {
			c.Default = pgDefault(*def)
		}
		cols = append(cols, c)
	}
	return cols, wrap(op, rows.Err())
}

// pgCast matches a trailing type cast such as ::character varying(32)[].
var pgCast = regexp.MustCompile(`(?i)::[a-z][a-z0-9_ ]*(\([0-9, ]*\))?(\[\])?$`)

// pgDefault turns a pg_get_expr default into the bare value MySQL's DESCRIBE
// reports: string literals lose their quotes and casts, NULL is nil. Other
// expressions such as function calls are kept as written, minus a trailing
// cast.
func pgDefault(expr string) *string {
	if strings.HasPrefix(expr, "'") {
		if lit, rest, ok := pgStringLiteral(expr); ok && (rest == "" || isCast(rest)) {
			return &lit
		}
	}
	if loc := pgCast.FindStringIndex(expr); loc != nil && loc[0] > 0 {
		expr = expr[:loc[0]]
	}
	if strings.EqualFold(expr, "NULL") {
		return nil
	}
	return &expr
}

func isCast(s string) bool {
	loc := pgCast.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}

// pgStringLiteral reads the quoted literal at the start of expr, undoubling
// embedded quotes, and returns what follows it.
func pgStringLiteral(expr string) (lit, rest string, ok bool) {
	var b strings.Builder
	for i := 1; i < len(expr); i++ {
		if expr[i] != '\'' {
			b.WriteByte(expr[i])
			continue
		}
		if i+1 < len(expr) && expr[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return b.String(), expr[i+1:], true
	}
	return "", "", false
}

const pgConstraintsQuery = `
	SELECT
		cc.relname AS child_table,
		ca.attname AS child_column,
		pc.relname AS parent_table
	FROM pg_constraint con
	JOIN pg_class cc ON cc.oid = con.conrelid
	JOIN pg_namespace cn ON cn.oid = cc.relnamespace
	JOIN pg_class pc ON pc.oid = con.confrelid
	CROSS JOIN LATERAL unnest(con.conkey) WITH ORDINALITY AS u(attnum, ord)
	JOIN pg_attribute ca ON ca.attrelid = cc.oid AND ca.attnum = u.attnum
	WHERE con.contype = 'f'
		AND cn.nspname = $1
	ORDER BY cc.relname, con.conname, u.ord
`

// ListForeignKeyConstraints lists foreign-key columns declared in the schema
// named database.
func (p *Postgres) ListForeignKeyConstraints(ctx context.Context, database string) ([]Constraint, error) {
	rows, err := p.q.Query(ctx, pgConstraintsQuery, database)
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

// Close closes the pool.
func (p *Postgres) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
