package schema

import (
	"errors"
	"fmt"
)

// Sentinel causes of a SchemaError.
var (
	ErrNoTables        = errors.New("no tables")
	ErrNoColumns       = errors.New("no columns")
	ErrDuplicateColumn = errors.New("duplicate column")
)

// SchemaError reports a catalog invariant broken during load. No catalog is
// returned alongside it.
type SchemaError struct {
	Database string
	Table    string
	Column   string
	Err      error
}

// Error returns the error string.
func (e *SchemaError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("schema: table %q: %v %q", e.Table, e.Err, e.Column)
	case e.Table != "":
		return fmt.Sprintf("schema: table %q: %v", e.Table, e.Err)
	default:
		return fmt.Sprintf("schema: database %q: %v", e.Database, e.Err)
	}
}

// Unwrap returns the sentinel cause.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsSchemaError reports whether err is a SchemaError.
func IsSchemaError(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}
