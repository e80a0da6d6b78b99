package statement

import "github.com/hurou927/db-catalog/internal/schema"

// BuildInsert is Insert returning "" on any error.
func BuildInsert(cat *schema.Catalog, table string, rows ...Row) string {
	sql, _ := Insert(cat, table, rows...)
	return sql
}

// BuildUpdate is Update returning "" on any error.
func BuildUpdate(cat *schema.Catalog, table string, row Row) string {
	sql, _ := Update(cat, table, row)
	return sql
}

// BuildDelete deletes by primary key when pri is non-nil, otherwise by
// foreign key. It returns "" on any error.
func BuildDelete(cat *schema.Catalog, table string, pri, foreign *Value) string {
	key, ok := KeyFor(pri, foreign)
	if !ok {
		return ""
	}
	sql, _ := Delete(cat, table, key)
	return sql
}

// BuildSelect selects by primary key when pri is non-nil, otherwise by
// foreign key. It returns "" on any error.
func BuildSelect(cat *schema.Catalog, table string, pri, foreign *Value) string {
	key, ok := KeyFor(pri, foreign)
	if !ok {
		return ""
	}
	sql, _ := Select(cat, table, key)
	return sql
}
