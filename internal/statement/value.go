package statement

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Kind tags a Value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Value is a column value: SQL NULL, a numeral, or text.
// The zero Value is NULL.
type Value struct {
	kind Kind
	raw  string
	// quoted marks a numeral that arrived as a string. Like any non-empty
	// string it is never falsy, "0" included.
	quoted bool
}

// Null returns the NULL value.
func Null() Value {
	return Value{}
}

// Text returns a text value, whatever its content.
func Text(s string) Value {
	return Value{kind: KindText, raw: s}
}

// Int returns a numeric value.
func Int(i int64) Value {
	return Value{kind: KindNumber, raw: strconv.FormatInt(i, 10)}
}

// Uint returns a numeric value.
func Uint(u uint64) Value {
	return Value{kind: KindNumber, raw: strconv.FormatUint(u, 10)}
}

// Float returns a numeric value. NaN and infinities have no SQL numeral and
// become text.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return Value{kind: KindNumber, raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

var numeral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// String returns a numeric value if s is a decimal numeral and a text value
// otherwise. A numeric result keeps the truthiness of a non-empty string, so
// String("0") is not falsy.
func String(s string) Value {
	if numeral.MatchString(s) {
		return Value{kind: KindNumber, raw: s, quoted: true}
	}
	return Text(s)
}

// Number is String for input that is numeric by type, such as a JSON number.
// A zero numeral is falsy.
func Number(s string) Value {
	v := String(s)
	v.quoted = false
	return v
}

// ValueOf converts a decoded YAML/JSON or driver value.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Null()
		}
		return *x
	case bool:
		if x {
			return Int(1)
		}
		return Int(0)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Uint(uint64(x))
	case uint8:
		return Uint(uint64(x))
	case uint16:
		return Uint(uint64(x))
	case uint32:
		return Uint(uint64(x))
	case uint64:
		return Uint(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case json.Number:
		return Number(x.String())
	case []byte:
		return String(string(x))
	case time.Time:
		return Text(x.Format(time.DateTime))
	case string:
		return String(x)
	case *string:
		if x == nil {
			return Null()
		}
		return String(*x)
	case fmt.Stringer:
		return String(x.String())
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// Kind returns the tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// String returns the unformatted content; empty for NULL.
func (v Value) String() string {
	return v.raw
}

// Falsy reports whether v counts as not supplied: NULL, empty text or a
// number equal to zero. A zero numeral that came from a string is not falsy.
func (v Value) Falsy() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return v.raw == ""
	default:
		if v.quoted {
			return false
		}
		f, err := strconv.ParseFloat(v.raw, 64)
		return err == nil && f == 0
	}
}

// Literal renders v as SQL text. Numbers are bare, text is wrapped in double
// quotes without any escaping, NULL is NULL.
func (v Value) Literal() string {
	switch v.kind {
	case KindNumber:
		return v.raw
	case KindText:
		return `"` + v.raw + `"`
	default:
		return "NULL"
	}
}
