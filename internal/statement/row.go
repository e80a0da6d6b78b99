package statement

import "fmt"

// Row maps column names to values and remembers insertion order.
// The zero Row is empty and ready to use.
type Row struct {
	keys []string
	vals map[string]Value
}

// RowOf builds a row from alternating column names and values; values go
// through ValueOf. It panics on an odd argument count or a non-string name.
func RowOf(pairs ...any) Row {
	if len(pairs)%2 != 0 {
		panic("statement: RowOf needs column/value pairs")
	}
	var r Row
	for i := 0; i < len(pairs); i += 2 {
		col, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("statement: column name %v is not a string", pairs[i]))
		}
		r.Set(col, ValueOf(pairs[i+1]))
	}
	return r
}

// Set stores v under col. Overwriting keeps the first position.
func (r *Row) Set(col string, v Value) {
	if r.vals == nil {
		r.vals = make(map[string]Value)
	}
	if _, ok := r.vals[col]; !ok {
		r.keys = append(r.keys, col)
	}
	r.vals[col] = v
}

// Get returns the value stored under col.
func (r Row) Get(col string) (Value, bool) {
	v, ok := r.vals[col]
	return v, ok
}

// Keys returns column names in insertion order.
func (r Row) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of columns set.
func (r Row) Len() int {
	return len(r.keys)
}
