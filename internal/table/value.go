package table

import (
	"strconv"
	"strings"
)

// Value is a single cell: a number, a string, or null. Cells parsed from
// source files keep their raw text so non-numeric columns survive joins
// untouched.
type Value struct {
	raw   string
	num   float64
	isNum bool
	null  bool
}

// Null returns the null cell value.
func Null() Value {
	return Value{null: true}
}

// Num returns a numeric cell value.
func Num(f float64) Value {
	return Value{num: f, isNum: true, raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Str returns a string cell value. An empty string is null.
func Str(s string) Value {
	if s == "" {
		return Null()
	}
	return Value{raw: s}
}

// Cell parses raw text from a source file into a Value. Whitespace is
// trimmed, empty text becomes null, and anything that parses as a float
// becomes numeric.
func Cell(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Value{raw: raw, num: f, isNum: true}
	}
	return Value{raw: raw}
}

// IsNull reports whether the cell is null.
func (v Value) IsNull() bool {
	return v.null
}

// Float returns the numeric value of the cell. Non-numeric and null cells
// report ok=false, mirroring coerce-to-numeric semantics where bad values
// become missing rather than errors.
func (v Value) Float() (float64, bool) {
	if v.null || !v.isNum {
		return 0, false
	}
	return v.num, true
}

// FloatOr returns the numeric value of the cell, or def when the cell is
// null or non-numeric.
func (v Value) FloatOr(def float64) float64 {
	if f, ok := v.Float(); ok {
		return f
	}
	return def
}

// String returns the textual form of the cell; null cells are empty.
func (v Value) String() string {
	if v.null {
		return ""
	}
	return v.raw
}
