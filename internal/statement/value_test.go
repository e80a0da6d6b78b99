package statement

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringNumeralHeuristic(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		lit  string
	}{
		{"7", KindNumber, "7"},
		{"-3.5", KindNumber, "-3.5"},
		{"+2", KindNumber, "+2"},
		{".5", KindNumber, ".5"},
		{"1e3", KindNumber, "1e3"},
		{"007", KindNumber, "007"},
		{"Kai", KindText, `"Kai"`},
		{"", KindText, `""`},
		{" 7", KindText, `" 7"`},
		{"NaN", KindText, `"NaN"`},
		{"Inf", KindText, `"Inf"`},
		{"0x1F", KindText, `"0x1F"`},
		{"1_000", KindText, `"1_000"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := String(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.lit, v.Literal())
		})
	}
}

func TestTextIsNotEscaped(t *testing.T) {
	assert.Equal(t, `"say "hi""`, Text(`say "hi"`).Literal())
	assert.Equal(t, `"12"`, Text("12").Literal())
}

func TestValueOf(t *testing.T) {
	when := time.Date(2016, 12, 5, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"true", true, Int(1)},
		{"false", false, Int(0)},
		{"int", 42, Int(42)},
		{"int64", int64(-1), Int(-1)},
		{"uint8", uint8(200), Uint(200)},
		{"float", 2.5, Float(2.5)},
		{"whole float", float64(3), Int(3)},
		{"nan", math.NaN(), Text("NaN")},
		{"json number", json.Number("12.50"), Number("12.50")},
		{"bytes", []byte("abc"), Text("abc")},
		{"numeric string", "18", String("18")},
		{"text", "Kai", Text("Kai")},
		{"time", when, Text("2016-12-05 10:30:00")},
		{"value", Text("5"), Text("5")},
		{"nil string pointer", (*string)(nil), Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueOf(tt.in))
		})
	}
}

func TestFalsy(t *testing.T) {
	assert.True(t, Null().Falsy())
	assert.True(t, Text("").Falsy())
	assert.True(t, Int(0).Falsy())
	assert.True(t, Float(0).Falsy())
	assert.True(t, Number("0.0").Falsy())
	assert.True(t, ValueOf(json.Number("0")).Falsy())
	assert.True(t, ValueOf(false).Falsy())

	assert.False(t, String("0").Falsy(), "numeral string is not falsy")
	assert.False(t, ValueOf("0").Falsy())
	assert.Equal(t, KindNumber, String("0").Kind())
	assert.Equal(t, "0", String("0").Literal())

	assert.False(t, Text("0").Falsy(), "quoted zero is non-empty text")
	assert.False(t, Int(1).Falsy())
	assert.False(t, Text("x").Falsy())
}

func TestNullLiteral(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, "NULL", v.Literal())
	assert.Equal(t, "", v.String())
	assert.Equal(t, "null", v.Kind().String())
}

func TestRow(t *testing.T) {
	var r Row
	assert.Equal(t, 0, r.Len())

	r.Set("b", Int(1))
	r.Set("a", Text("x"))
	r.Set("b", Int(2))

	assert.Equal(t, []string{"b", "a"}, r.Keys())
	v, ok := r.Get("b")
	assert.True(t, ok)
	assert.Equal(t, Int(2), v)

	_, ok = r.Get("c")
	assert.False(t, ok)

	r2 := RowOf("name", "Kai", "uid", 7)
	assert.Equal(t, []string{"name", "uid"}, r2.Keys())

	assert.Panics(t, func() { RowOf("name") })
	assert.Panics(t, func() { RowOf(1, "x") })
}
