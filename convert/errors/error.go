// Package errors defines the conversion error taxonomy. Per-field failures
// are collected so one pass reports every offending field; only a
// StructuralLoadFailure aborts a run.
package errors

import (
	"fmt"
)

// Kind classifies a conversion error.
type Kind int

const (
	UnsupportedFieldType Kind = iota
	MalformedChoiceList
	UnresolvedFieldReference
	UnsupportedExpression
	DanglingDocumentReference
	DuplicateIdentifier
	StructuralLoadFailure
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case UnsupportedFieldType:
		return "UnsupportedFieldType"
	case MalformedChoiceList:
		return "MalformedChoiceList"
	case UnresolvedFieldReference:
		return "UnresolvedFieldReference"
	case UnsupportedExpression:
		return "UnsupportedExpression"
	case DanglingDocumentReference:
		return "DanglingDocumentReference"
	case DuplicateIdentifier:
		return "DuplicateIdentifier"
	case StructuralLoadFailure:
		return "StructuralLoadFailure"
	default:
		return "Unknown"
	}
}

// MarshalJSON writes the kind as its name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Fatal reports whether the kind aborts a run instead of being collected.
func (k Kind) Fatal() bool {
	return k == StructuralLoadFailure
}

// ConvertError is one conversion failure, attached to the field or document
// it originates from.
type ConvertError struct {
	Kind     Kind   `json:"kind"`
	Message  string `json:"message"`
	Activity string `json:"activity,omitempty"`
	Field    string `json:"field,omitempty"`
	Token    string `json:"token,omitempty"` // offending token or expression text
}

// Error implements the error interface.
func (e ConvertError) Error() string {
	loc := e.Activity
	if e.Field != "" {
		if loc != "" {
			loc += "/"
		}
		loc += e.Field
	}
	if loc == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, loc, e.Message)
}

// New creates a ConvertError.
func New(kind Kind, activity, field, format string, args ...interface{}) ConvertError {
	return ConvertError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Activity: activity,
		Field:    field,
	}
}

// WithToken attaches the offending token or expression text.
func (e ConvertError) WithToken(tok string) ConvertError {
	e.Token = tok
	return e
}

// Collector accumulates non-fatal conversion errors across a run.
type Collector struct {
	errs []ConvertError
}

// Add records one error.
func (c *Collector) Add(e ConvertError) {
	c.errs = append(c.errs, e)
}

// Collect records err if it is a ConvertError, wrapping anything else as a
// StructuralLoadFailure message. Nil is ignored.
func (c *Collector) Collect(err error) {
	if err == nil {
		return
	}
	var ce ConvertError
	if As(err, &ce) {
		c.errs = append(c.errs, ce)
		return
	}
	c.errs = append(c.errs, ConvertError{Kind: StructuralLoadFailure, Message: err.Error()})
}

// Errors returns the collected errors in discovery order.
func (c *Collector) Errors() []ConvertError {
	return c.errs
}

// HasErrors reports whether anything was collected.
func (c *Collector) HasErrors() bool {
	return len(c.errs) > 0
}

// Len returns the number of collected errors.
func (c *Collector) Len() int {
	return len(c.errs)
}
