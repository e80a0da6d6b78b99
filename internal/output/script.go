package output

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyStatement is returned when a statement builder produced nothing.
var ErrEmptyStatement = errors.New("output: empty statement")

// Writer writes generated statements as a SQL script.
type Writer struct {
	w  io.Writer
	tx bool

	table string
	count int
}

// NewWriter creates a script writer. With tx set, the script is wrapped in
// START TRANSACTION and COMMIT.
func NewWriter(w io.Writer, tx bool) *Writer {
	return &Writer{w: w, tx: tx}
}

// WriteHeader writes the transaction start when enabled.
func (sw *Writer) WriteHeader() error {
	if !sw.tx {
		return nil
	}
	if _, err := fmt.Fprintln(sw.w, "START TRANSACTION;"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(sw.w)
	return err
}

// WriteFooter writes the commit when enabled.
func (sw *Writer) WriteFooter() error {
	if !sw.tx {
		return nil
	}
	_, err := fmt.Fprintln(sw.w, "COMMIT;")
	return err
}

// WriteStatement writes one statement for table, opening a "-- table" block
// when the table changes.
func (sw *Writer) WriteStatement(table, stmt string) error {
	stmt = strings.TrimSpace(stmt)
	stmt = strings.TrimSuffix(stmt, ";")
	if stmt == "" {
		return fmt.Errorf("%w for table %q", ErrEmptyStatement, table)
	}

	if sw.count == 0 || table != sw.table {
		if sw.count > 0 {
			if _, err := fmt.Fprintln(sw.w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(sw.w, "-- %s\n", table); err != nil {
			return err
		}
		sw.table = table
	}

	if _, err := fmt.Fprintf(sw.w, "%s;\n", stmt); err != nil {
		return err
	}
	sw.count++
	return nil
}

// Count returns the number of statements written.
func (sw *Writer) Count() int {
	return sw.count
}
