package statement

import (
	"strings"

	"github.com/hurou927/db-catalog/internal/schema"
)

// KeyColumn selects which key a Key binds.
type KeyColumn int

const (
	PrimaryKey KeyColumn = iota
	ForeignKey
)

// Key is the single condition of a DELETE or SELECT.
type Key struct {
	Column KeyColumn
	Value  Value
}

// ByPrimary matches one row by primary key.
func ByPrimary(v Value) Key {
	return Key{Column: PrimaryKey, Value: v}
}

// ByForeign matches every row referencing one parent.
func ByForeign(v Value) Key {
	return Key{Column: ForeignKey, Value: v}
}

// KeyFor picks the primary key when pri is given and the foreign key
// otherwise. It reports false when neither is given.
func KeyFor(pri, foreign *Value) (Key, bool) {
	switch {
	case pri != nil:
		return ByPrimary(*pri), true
	case foreign != nil:
		return ByForeign(*foreign), true
	default:
		return Key{}, false
	}
}

// Insert builds one INSERT for rows. Columns follow the table's stored
// order without auto-increment columns, and every row contributes one
// tuple in the same order, defaults filling the gaps.
func Insert(cat *schema.Catalog, table string, rows ...Row) (string, error) {
	tbl, ok := cat.Table(table)
	if !ok {
		return "", unknownTable(table)
	}
	if len(rows) == 0 {
		return "", emptyInput(table, "no rows")
	}

	cols := insertColumns(tbl)
	if len(cols) == 0 {
		return "", emptyInput(table, "no insertable columns")
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteIdent(tbl.Name))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(quoteIdent(c.Name))
	}
	b.WriteString(") VALUES ")

	for i, row := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(")
		for j, c := range cols {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(valueFor(c, row).Literal())
		}
		b.WriteString(")")
	}
	return b.String(), nil
}

// Update builds an UPDATE of one row by primary key. Every column other
// than the primary key and auto-increment columns is set, defaults filling
// the gaps.
func Update(cat *schema.Catalog, table string, row Row) (string, error) {
	tbl, ok := cat.Table(table)
	if !ok {
		return "", unknownTable(table)
	}
	if !tbl.HasPrimaryKey() {
		return "", missingKey(table, "table has no primary key")
	}
	pri, ok := row.Get(tbl.PrimaryKey)
	if !ok || pri.IsNull() {
		return "", missingKey(table, "row has no value for "+tbl.PrimaryKey)
	}

	var sets []string
	for _, c := range tbl.Columns {
		if c.AutoIncrement || c.Name == tbl.PrimaryKey {
			continue
		}
		sets = append(sets, quoteIdent(c.Name)+" = "+valueFor(c, row).Literal())
	}
	if len(sets) == 0 {
		return "", emptyInput(table, "no updatable columns")
	}

	return "UPDATE " + quoteIdent(tbl.Name) + " SET " + strings.Join(sets, ",") +
		" WHERE " + condition(tbl.PrimaryKey, pri), nil
}

// Delete builds a DELETE with exactly one condition: the primary key for
// one row or the foreign key for all rows of one parent.
func Delete(cat *schema.Catalog, table string, key Key) (string, error) {
	tbl, where, err := keyCondition(cat, table, key)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + quoteIdent(tbl.Name) + " WHERE " + where, nil
}

// DeleteMany builds one DELETE removing every row by primary key.
func DeleteMany(cat *schema.Catalog, table string, rows ...Row) (string, error) {
	tbl, ok := cat.Table(table)
	if !ok {
		return "", unknownTable(table)
	}
	if !tbl.HasPrimaryKey() {
		return "", missingKey(table, "table has no primary key")
	}
	if len(rows) == 0 {
		return "", emptyInput(table, "no rows")
	}

	conds := make([]string, 0, len(rows))
	for _, row := range rows {
		v, ok := row.Get(tbl.PrimaryKey)
		if !ok || v.IsNull() {
			return "", missingKey(table, "row has no value for "+tbl.PrimaryKey)
		}
		conds = append(conds, condition(tbl.PrimaryKey, v))
	}
	return "DELETE FROM " + quoteIdent(tbl.Name) + " WHERE " + strings.Join(conds, " OR "), nil
}

// Select builds a SELECT of all columns with exactly one condition.
func Select(cat *schema.Catalog, table string, key Key) (string, error) {
	tbl, where, err := keyCondition(cat, table, key)
	if err != nil {
		return "", err
	}
	return "SELECT * FROM " + quoteIdent(tbl.Name) + " WHERE " + where, nil
}

// InsertRow completes row for insertion: every column except auto-increment
// ones, in stored order, with defaults for missing or falsy values. Columns
// the table lacks are dropped.
func InsertRow(cat *schema.Catalog, table string, row Row) (Row, error) {
	tbl, ok := cat.Table(table)
	if !ok {
		return Row{}, unknownTable(table)
	}
	var out Row
	for _, c := range insertColumns(tbl) {
		out.Set(c.Name, valueFor(c, row))
	}
	return out, nil
}

// TableRow completes row with every column of the table, in stored order,
// with defaults for missing or falsy values. Columns the table lacks are
// dropped.
func TableRow(cat *schema.Catalog, table string, row Row) (Row, error) {
	tbl, ok := cat.Table(table)
	if !ok {
		return Row{}, unknownTable(table)
	}
	var out Row
	for _, c := range tbl.Columns {
		out.Set(c.Name, valueFor(c, row))
	}
	return out, nil
}

func keyCondition(cat *schema.Catalog, table string, key Key) (*schema.TableDescriptor, string, error) {
	tbl, ok := cat.Table(table)
	if !ok {
		return nil, "", unknownTable(table)
	}

	var col string
	switch key.Column {
	case PrimaryKey:
		if !tbl.HasPrimaryKey() {
			return nil, "", missingKey(table, "table has no primary key")
		}
		col = tbl.PrimaryKey
	case ForeignKey:
		if !tbl.HasForeignKey() {
			return nil, "", missingKey(table, "table has no foreign key")
		}
		col = tbl.ForeignKey
	}
	if key.Value.IsNull() {
		return nil, "", missingKey(table, "no value for "+col)
	}
	return tbl, condition(col, key.Value), nil
}

func insertColumns(tbl *schema.TableDescriptor) []schema.ColumnDescriptor {
	cols := make([]schema.ColumnDescriptor, 0, len(tbl.Columns))
	for _, c := range tbl.Columns {
		if !c.AutoIncrement {
			cols = append(cols, c)
		}
	}
	return cols
}

// valueFor returns the row's value for c, or c's default when the row has
// none or a falsy one.
func valueFor(c schema.ColumnDescriptor, row Row) Value {
	if v, ok := row.Get(c.Name); ok && !v.Falsy() {
		return v
	}
	return defaultOf(c)
}

func defaultOf(c schema.ColumnDescriptor) Value {
	if c.Default == nil {
		return Null()
	}
	return String(*c.Default)
}

func condition(col string, v Value) string {
	return quoteIdent(col) + " = " + v.Literal()
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
