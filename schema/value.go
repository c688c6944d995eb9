package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a choice machine value. The tabular format is untyped text, so a
// value is either an integer or a string; the distinction is decided once at
// decode time and preserved through serialization.
type Value struct {
	Int   int64
	Str   string
	IsInt bool
}

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{Int: i, IsInt: true} }

// StrValue returns a string Value.
func StrValue(s string) Value { return Value{Str: s} }

// ParseValue interprets raw text as an integer when possible, otherwise as a
// string. This is the single place type inference for choice values happens.
func ParseValue(raw string) Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntValue(i)
	}
	return StrValue(raw)
}

// String renders the value in its tabular text form.
func (v Value) String() string {
	if v.IsInt {
		return strconv.FormatInt(v.Int, 10)
	}
	return v.Str
}

// ValueType returns the graph value type the value implies.
func (v Value) ValueType() ValueType {
	if v.IsInt {
		return ValueTypeInteger
	}
	return ValueTypeString
}

// MarshalJSON writes integers as JSON numbers and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsInt {
		return json.Marshal(v.Int)
	}
	return json.Marshal(v.Str)
}

// UnmarshalJSON accepts a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		*v = IntValue(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StrValue(s)
		return nil
	}
	return fmt.Errorf("choice value must be a number or a string, got %s", string(data))
}

// Visibility is a predicate controlling whether a referenced document is
// shown: either always (the default) or when a boolean expression over other
// Items' values holds. Serialized as JSON true/false or an expression string.
type Visibility struct {
	Always bool
	Expr   string
}

// VisibleAlways is the default visibility.
func VisibleAlways() Visibility { return Visibility{Always: true} }

// VisibleWhen returns a conditional visibility for a graph-syntax expression.
func VisibleWhen(expr string) Visibility { return Visibility{Expr: expr} }

// Conditional reports whether the visibility carries an expression.
func (v Visibility) Conditional() bool { return v.Expr != "" }

// MarshalJSON writes true/false for unconditional visibility and the
// expression string otherwise.
func (v Visibility) MarshalJSON() ([]byte, error) {
	if v.Expr != "" {
		return json.Marshal(v.Expr)
	}
	return json.Marshal(v.Always)
}

// UnmarshalJSON accepts a JSON boolean or an expression string.
func (v *Visibility) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Visibility{Always: b}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Visibility{Expr: s}
		return nil
	}
	return fmt.Errorf("isVis must be a boolean or an expression string, got %s", string(data))
}
