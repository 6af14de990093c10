package model

import (
	"time"

	"golang.org/x/exp/slices"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	// StringKind is a string value.
	StringKind ValueKind = iota
	// IntKind is a 32-bit-range integer value.
	IntKind
	// LongKind is a 64-bit integer value.
	LongKind
	// DoubleKind is a floating-point value.
	DoubleKind
	// BoolKind is a boolean value.
	BoolKind
	// DateKind is a point in time, carried as whole seconds since the Unix epoch.
	DateKind
	// StringArrayKind is an array of strings.
	StringArrayKind
	// IntArrayKind is an array of integers.
	IntArrayKind
	// DoubleArrayKind is an array of floating-point values.
	DoubleArrayKind
)

// String returns a readable name for the kind.
func (k ValueKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case IntKind:
		return "int"
	case LongKind:
		return "long"
	case DoubleKind:
		return "double"
	case BoolKind:
		return "bool"
	case DateKind:
		return "date"
	case StringArrayKind:
		return "string[]"
	case IntArrayKind:
		return "int[]"
	case DoubleArrayKind:
		return "double[]"
	default:
		return "unknown"
	}
}

// Value is the value of an event property. It is a closed set of variants; construct it with
// one of String, Int, Long, Double, Bool, Date, StringArray, IntArray or DoubleArray.
//
// Array variants copy their input, so a Value never aliases caller memory.
type Value struct {
	kind    ValueKind
	str     string
	num     int64
	dbl     float64
	boolean bool
	strs    []string
	ints    []int
	dbls    []float64
}

// String creates a string Value.
func String(s string) Value { return Value{kind: StringKind, str: s} }

// Int creates an integer Value.
func Int(n int) Value { return Value{kind: IntKind, num: int64(n)} }

// Long creates a 64-bit integer Value.
func Long(n int64) Value { return Value{kind: LongKind, num: n} }

// Double creates a floating-point Value.
func Double(f float64) Value { return Value{kind: DoubleKind, dbl: f} }

// Bool creates a boolean Value.
func Bool(b bool) Value { return Value{kind: BoolKind, boolean: b} }

// Date creates a Value holding t truncated to whole Unix seconds.
func Date(t time.Time) Value { return Value{kind: DateKind, num: t.Unix()} }

// StringArray creates a string array Value.
func StringArray(values ...string) Value {
	return Value{kind: StringArrayKind, strs: slices.Clone(values)}
}

// IntArray creates an integer array Value.
func IntArray(values ...int) Value {
	return Value{kind: IntArrayKind, ints: slices.Clone(values)}
}

// DoubleArray creates a floating-point array Value.
func DoubleArray(values ...float64) Value {
	return Value{kind: DoubleArrayKind, dbls: slices.Clone(values)}
}

// Kind returns the variant held by this Value.
func (v Value) Kind() ValueKind { return v.kind }

// StringValue returns the string for StringKind, or "" otherwise.
func (v Value) StringValue() string { return v.str }

// Int64Value returns the number for IntKind, LongKind and DateKind, or 0 otherwise.
func (v Value) Int64Value() int64 { return v.num }

// Float64Value returns the number for DoubleKind, or 0 otherwise.
func (v Value) Float64Value() float64 { return v.dbl }

// BoolValue returns the boolean for BoolKind, or false otherwise.
func (v Value) BoolValue() bool { return v.boolean }

// StringArrayValue returns a copy of the array for StringArrayKind.
func (v Value) StringArrayValue() []string { return slices.Clone(v.strs) }

// IntArrayValue returns a copy of the array for IntArrayKind.
func (v Value) IntArrayValue() []int { return slices.Clone(v.ints) }

// DoubleArrayValue returns a copy of the array for DoubleArrayKind.
func (v Value) DoubleArrayValue() []float64 { return slices.Clone(v.dbls) }

// Equal returns true if both values hold the same variant and contents.
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind &&
		v.str == other.str &&
		v.num == other.num &&
		v.dbl == other.dbl &&
		v.boolean == other.boolean &&
		slices.Equal(v.strs, other.strs) &&
		slices.Equal(v.ints, other.ints) &&
		slices.Equal(v.dbls, other.dbls)
}
