// Package typemap maps tabular field-type tokens onto the closed set of
// graph value types and input-type hints. It is the single place type
// inference happens; unknown tokens fail loudly instead of defaulting, since
// a silent default is undetected data loss.
package typemap

import (
	"strings"

	cverr "github.com/reproforge/reproconv/convert/errors"
	"github.com/reproforge/reproconv/convert/record"
	"github.com/reproforge/reproconv/schema"
)

// Mapping is the graph-side typing decided for one field.
type Mapping struct {
	InputType      string
	ValueType      schema.ValueType
	MultipleChoice bool // multi-choice fields keep the choice value type
	ReadOnly       bool // computed fields are display-only
}

// inputTypeByToken maps tabular field-type tokens to input-type hints.
var inputTypeByToken = map[string]string{
	"calc":        schema.InputNumber,
	"sql":         schema.InputNumber,
	"yesno":       schema.InputRadio,
	"truefalse":   schema.InputRadio,
	"radio":       schema.InputRadio,
	"checkbox":    schema.InputRadio,
	"descriptive": schema.InputStatic,
	"dropdown":    schema.InputSelect,
	"select":      schema.InputSelect,
	"text":        schema.InputText,
	"notes":       schema.InputText,
	"file":        schema.InputDocument,
	"slider":      schema.InputSlider,
}

// valueTypeByValidation maps validation tokens to graph value types. Locale
// variants of date formats all carry xsd:date; the exact rendering is kept in
// the passthrough metadata.
var valueTypeByValidation = map[string]schema.ValueType{
	"text":                 schema.ValueTypeString,
	"email":                schema.ValueTypeString,
	"phone":                schema.ValueTypeString,
	"signature":            schema.ValueTypeString,
	"zipcode":              schema.ValueTypeString,
	"autocomplete":         schema.ValueTypeString,
	"integer":              schema.ValueTypeInteger,
	"number":               schema.ValueTypeDecimal,
	"float":                schema.ValueTypeDecimal,
	"date_":                schema.ValueTypeDate,
	"date_mdy":             schema.ValueTypeDate,
	"date_dmy":             schema.ValueTypeDate,
	"date_ymd":             schema.ValueTypeDate,
	"datetime_":            schema.ValueTypeDateTime,
	"datetime_ymd":         schema.ValueTypeDateTime,
	"datetime_seconds_mdy": schema.ValueTypeDateTime,
	"time_":                schema.ValueTypeTime,
}

// MapType decides the graph typing for a field record. Unknown type or
// validation tokens return an UnsupportedFieldType error carrying the
// offending token and the field identifier.
func MapType(rec *record.FieldRecord) (Mapping, error) {
	token := strings.ToLower(strings.TrimSpace(rec.TypeToken))
	inputType, ok := inputTypeByToken[token]
	if !ok {
		return Mapping{}, cverr.New(cverr.UnsupportedFieldType, rec.Activity, rec.ID,
			"field type %q is not supported", rec.TypeToken).WithToken(rec.TypeToken)
	}

	m := Mapping{InputType: inputType, ValueType: schema.ValueTypeString}

	validation := strings.ToLower(strings.TrimSpace(rec.Validation))
	switch {
	case validation != "":
		vt, ok := valueTypeByValidation[validation]
		if !ok {
			return Mapping{}, cverr.New(cverr.UnsupportedFieldType, rec.Activity, rec.ID,
				"validation type %q is not supported", rec.Validation).WithToken(rec.Validation)
		}
		m.ValueType = vt
		// Validated text fields get a more specific input hint.
		if token == "text" {
			switch {
			case validation == "integer":
				m.InputType = schema.InputNumber
			case validation == "float" || validation == "number":
				m.InputType = schema.InputFloat
			case validation == "email":
				m.InputType = schema.InputEmail
			case validation == "signature":
				m.InputType = schema.InputSign
			case vt == schema.ValueTypeDate:
				m.InputType = schema.InputDate
			}
		}
	case token == "yesno" || token == "truefalse":
		m.ValueType = schema.ValueTypeBoolean
	case token == "calc" || token == "sql":
		m.ValueType = schema.ValueTypeInteger
		m.ReadOnly = true
	}

	if token == "checkbox" {
		m.MultipleChoice = true
	}
	return m, nil
}

// ReverseToken is the canonical graph-to-tabular lookup: every graph typing
// has exactly one (field type, validation token) pair, chosen so that feeding
// the pair back through MapType reproduces the same graph typing. The forward
// map is many-to-one; only this direction is injective.
func ReverseToken(m Mapping) (fieldType, validation string) {
	if m.ReadOnly {
		return "calc", ""
	}
	switch m.InputType {
	case schema.InputRadio:
		if m.MultipleChoice {
			return "checkbox", ""
		}
		if m.ValueType == schema.ValueTypeBoolean {
			return "yesno", ""
		}
		return "radio", ""
	case schema.InputSelect:
		return "dropdown", ""
	case schema.InputSlider:
		return "slider", ""
	case schema.InputStatic:
		return "descriptive", ""
	case schema.InputDocument:
		return "file", ""
	case schema.InputNumber:
		return "text", "integer"
	case schema.InputFloat:
		return "text", "float"
	case schema.InputEmail:
		return "text", "email"
	case schema.InputSign:
		return "text", "signature"
	case schema.InputDate:
		return "text", "date_mdy"
	}

	// Plain text inputs: the value type picks the validation token.
	switch m.ValueType {
	case schema.ValueTypeInteger:
		return "text", "integer"
	case schema.ValueTypeDecimal:
		return "text", "float"
	case schema.ValueTypeDate:
		return "text", "date_mdy"
	case schema.ValueTypeDateTime:
		return "text", "datetime_"
	case schema.ValueTypeTime:
		return "text", "time_"
	case schema.ValueTypeBoolean:
		return "yesno", ""
	default:
		return "text", ""
	}
}
