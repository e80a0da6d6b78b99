package statement

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by BuilderError.Is.
var (
	ErrUnknownTable = errors.New("statement: unknown table")
	ErrMissingKey   = errors.New("statement: missing key")
	ErrEmptyInput   = errors.New("statement: empty input")
)

// ErrorKind classifies a BuilderError.
type ErrorKind int

const (
	UnknownTable ErrorKind = iota
	MissingKey
	EmptyInput
)

func (k ErrorKind) sentinel() error {
	switch k {
	case UnknownTable:
		return ErrUnknownTable
	case MissingKey:
		return ErrMissingKey
	default:
		return ErrEmptyInput
	}
}

// BuilderError explains why no statement was built. A builder returning a
// BuilderError always returns an empty statement with it.
type BuilderError struct {
	Kind   ErrorKind
	Table  string
	Detail string
}

// Error returns the error string.
func (e *BuilderError) Error() string {
	msg := fmt.Sprintf("%v %q", e.Kind.sentinel(), e.Table)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is reports whether target is the sentinel of e's kind.
func (e *BuilderError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func unknownTable(table string) error {
	return &BuilderError{Kind: UnknownTable, Table: table}
}

func missingKey(table, detail string) error {
	return &BuilderError{Kind: MissingKey, Table: table, Detail: detail}
}

func emptyInput(table, detail string) error {
	return &BuilderError{Kind: EmptyInput, Table: table, Detail: detail}
}
