package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hurou927/db-catalog/internal/db"
)

// Catalog maps table names to descriptors for one database. It is built by
// Load and read-only afterwards, so it is safe for concurrent readers.
// Catalogs for different databases or shards share nothing.
type Catalog struct {
	database string
	tables   map[string]*TableDescriptor
}

// NewCatalog assembles a catalog from already built descriptors.
func NewCatalog(database string, tables ...*TableDescriptor) *Catalog {
	c := &Catalog{
		database: database,
		tables:   make(map[string]*TableDescriptor, len(tables)),
	}
	for _, t := range tables {
		c.tables[t.Name] = t
	}
	return c
}

// Name identifies the catalog in logs.
func (c *Catalog) Name() string {
	return "catalog-" + c.database
}

// Database returns the database the catalog describes.
func (c *Catalog) Database() string {
	return c.database
}

// Table looks up a table descriptor. A nil catalog has no tables.
func (c *Catalog) Table(name string) (*TableDescriptor, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.tables[name]
	return t, ok
}

// Tables returns all table names, sorted.
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tables.
func (c *Catalog) Len() int {
	return len(c.tables)
}

// Load discovers every table of database, describes them in parallel and
// resolves foreign-key constraints. Any error aborts the load; a partial
// catalog is never returned.
func Load(ctx context.Context, conn db.Conn, database string, opts ...Option) (*Catalog, error) {
	o := buildOptions(opts)

	cat, err := loadTables(ctx, conn, database, o)
	if err != nil {
		return nil, err
	}

	if err := resolveForeignKeys(ctx, cat, conn, o); err != nil {
		return nil, fmt.Errorf("resolving foreign keys: %w", err)
	}

	o.logger.Debug("catalog loaded", "catalog", cat.Name(), "tables", cat.Len())
	return cat, nil
}

// Reload builds a fresh catalog for the same database. The receiver is left
// untouched.
func (c *Catalog) Reload(ctx context.Context, conn db.Conn, opts ...Option) (*Catalog, error) {
	return Load(ctx, conn, c.database, opts...)
}

func loadTables(ctx context.Context, conn db.Conn, database string, o *options) (*Catalog, error) {
	names, err := conn.ListTables(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	if len(names) == 0 {
		return nil, &SchemaError{Database: database, Err: ErrNoTables}
	}

	// Each goroutine owns one slot, so no locking is needed.
	described := make([]*TableDescriptor, len(names))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.concurrency)

	for i, name := range names {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cols, err := conn.DescribeTable(ctx, name)
			if err != nil {
				return fmt.Errorf("describing %s: %w", name, err)
			}
			tbl, err := BuildTable(name, cols, o.convention)
			if err != nil {
				return err
			}
			described[i] = tbl
			o.logger.Debug("table described", "table", name, "columns", len(tbl.Columns))
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return NewCatalog(database, described...), nil
}

// BuildTable classifies the columns of one described table.
//
// A primary-key column whose name matches the convention becomes the
// table's foreign key and is not marked primary. Any other primary-key
// column becomes the primary key. Auto-increment is recorded independently.
// Every column keeps its position and its default verbatim.
func BuildTable(name string, cols []db.ColumnInfo, conv Convention) (*TableDescriptor, error) {
	if len(cols) == 0 {
		return nil, &SchemaError{Table: name, Err: ErrNoColumns}
	}

	t := &TableDescriptor{
		Name:    name,
		Columns: make([]ColumnDescriptor, 0, len(cols)),
		index:   make(map[string]int, len(cols)),
	}

	for _, c := range cols {
		if _, dup := t.index[c.Field]; dup {
			return nil, &SchemaError{Table: name, Column: c.Field, Err: ErrDuplicateColumn}
		}

		col := ColumnDescriptor{
			Name:          c.Field,
			Default:       c.Default,
			AutoIncrement: strings.Contains(strings.ToLower(c.Extra), db.ExtraAutoIncrement),
		}

		if c.Key == db.KeyPrimary {
			switch class := conv.Classify(c.Field); class.Kind {
			case ConventionForeignKey:
				if t.setForeignKey(c.Field, FromConvention) {
					t.ParentHint = class.ParentHint
				}
			default:
				// Composite keys are unsupported; the last PRI column wins.
				t.PrimaryKey = c.Field
				col.Primary = true
			}
		}

		t.index[c.Field] = len(t.Columns)
		t.Columns = append(t.Columns, col)
	}

	return t, nil
}
