package schema

// ColumnDescriptor describes one column. It is not modified after the
// catalog load that created it.
type ColumnDescriptor struct {
	Name string
	// Default is the column default as the database reported it; nil is
	// SQL NULL.
	Default       *string
	Primary       bool
	AutoIncrement bool
}

// ForeignKeySource records how a table's foreign-key column was found.
type ForeignKeySource int

const (
	// NoForeignKey means the table has no parent.
	NoForeignKey ForeignKeySource = iota
	// FromConvention means a primary-key column carried the reference marker.
	FromConvention
	// FromConstraint means a real foreign-key constraint named the column.
	FromConstraint
)

func (s ForeignKeySource) String() string {
	switch s {
	case FromConvention:
		return "convention"
	case FromConstraint:
		return "constraint"
	default:
		return "none"
	}
}

// TableDescriptor describes a table under the single-parent convention.
type TableDescriptor struct {
	Name string
	// Columns are in the order the database reported them.
	Columns []ColumnDescriptor
	// PrimaryKey is empty when the table has no real primary key.
	PrimaryKey string
	// ForeignKey is the one column that references the parent table.
	ForeignKey       string
	ForeignKeySource ForeignKeySource
	// ParentHint is the text after the reference marker when ForeignKey
	// came from the naming convention.
	ParentHint string
	// ForeignParent is the table ForeignKey references, as reported by a
	// constraint. It stays empty for a convention key no constraint covers.
	ForeignParent string
	// Sons lists tables holding a foreign key to this table, in discovery
	// order. Duplicates are kept.
	Sons []string

	index map[string]int
}

// ColumnNames returns all column names in ordinal order.
func (t *TableDescriptor) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the table has a column called name.
func (t *TableDescriptor) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the descriptor of the named column.
func (t *TableDescriptor) Column(name string) (ColumnDescriptor, bool) {
	i, ok := t.index[name]
	if !ok {
		return ColumnDescriptor{}, false
	}
	return t.Columns[i], true
}

// HasPrimaryKey reports whether the table has a real primary key.
func (t *TableDescriptor) HasPrimaryKey() bool {
	return t.PrimaryKey != ""
}

// HasForeignKey reports whether the table references a parent.
func (t *TableDescriptor) HasForeignKey() bool {
	return t.ForeignKey != ""
}

// ReferencesParent reports whether ForeignKey is known to point at parent.
func (t *TableDescriptor) ReferencesParent(parent string) bool {
	return t.HasForeignKey() && t.ForeignParent == parent
}

func (t *TableDescriptor) setForeignKey(column string, src ForeignKeySource) bool {
	if t.ForeignKey != "" {
		return false
	}
	t.ForeignKey = column
	t.ForeignKeySource = src
	return true
}

func (t *TableDescriptor) addSon(table string) {
	t.Sons = append(t.Sons, table)
}
