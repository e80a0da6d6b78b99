package schema

import "strings"

// KeyKind tells a real primary key from a reference in disguise.
type KeyKind int

const (
	// RealPrimaryKey is a primary-key column that identifies its own row.
	RealPrimaryKey KeyKind = iota
	// ConventionForeignKey is a primary-key column whose name carries the
	// reference marker: it points at the parent row instead.
	ConventionForeignKey
)

// KeyClass is the classification of a primary-key column name.
type KeyClass struct {
	Kind KeyKind
	// ParentHint is the part of the name after the marker, set only for
	// ConventionForeignKey.
	ParentHint string
}

// DefaultMarker is the prefix of convention foreign keys, as in "refer:uid".
const DefaultMarker = "refer"

// convSeparator splits the marker from the rest of the column name.
const convSeparator = ":"

// Convention recognises convention foreign keys by a name prefix.
type Convention struct {
	Marker string
}

// Classify classifies a primary-key column name.
func (c Convention) Classify(column string) KeyClass {
	marker := c.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	prefix, rest, ok := strings.Cut(column, convSeparator)
	if ok && prefix == marker {
		return KeyClass{Kind: ConventionForeignKey, ParentHint: rest}
	}
	return KeyClass{Kind: RealPrimaryKey}
}

// ClassifyKey classifies column under the default "refer:" convention.
func ClassifyKey(column string) KeyClass {
	return Convention{}.Classify(column)
}
