package schema

import (
	"context"
	"fmt"

	"github.com/hurou927/db-catalog/internal/db"
)

// ResolveForeignKeys reads the foreign-key constraints of database and
// links the catalog's tables. It must run after every table is described.
//
// For each constraint the child keeps the first foreign-key column it is
// given (from the naming convention or an earlier constraint) and the
// parent's son list grows by the child's name. These two effects are
// independent. Constraints naming a table missing from the catalog are
// logged and skipped.
func ResolveForeignKeys(ctx context.Context, cat *Catalog, conn db.Conn, opts ...Option) error {
	return resolveForeignKeys(ctx, cat, conn, buildOptions(opts))
}

func resolveForeignKeys(ctx context.Context, cat *Catalog, conn db.Conn, o *options) error {
	constraints, err := conn.ListForeignKeyConstraints(ctx, cat.database)
	if err != nil {
		return fmt.Errorf("listing constraints: %w", err)
	}

	for _, c := range constraints {
		cat.link(c, o)
	}
	return nil
}

func (c *Catalog) link(con db.Constraint, o *options) {
	son, ok := c.tables[con.ChildTable]
	if !ok {
		o.logger.Warn("constraint child table not in catalog",
			"catalog", c.Name(), "table", con.ChildTable, "column", con.ChildColumn)
		return
	}

	switch {
	case son.setForeignKey(con.ChildColumn, FromConstraint):
		son.ForeignParent = con.ParentTable
	case son.ForeignKey == con.ChildColumn:
		// A convention key confirmed by a constraint learns its parent.
		if son.ForeignParent == "" {
			son.ForeignParent = con.ParentTable
		}
	default:
		o.logger.Debug("second foreign key ignored",
			"table", son.Name, "kept", son.ForeignKey, "dropped", con.ChildColumn)
	}

	father, ok := c.tables[con.ParentTable]
	if !ok {
		o.logger.Warn("constraint parent table not in catalog",
			"catalog", c.Name(), "table", con.ParentTable, "son", con.ChildTable)
		return
	}
	father.addSon(con.ChildTable)
}
