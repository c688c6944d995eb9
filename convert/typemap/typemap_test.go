package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cverr "github.com/reproforge/reproconv/convert/errors"
	"github.com/reproforge/reproconv/convert/record"
	"github.com/reproforge/reproconv/schema"
)

func TestMapType(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		validation string
		want       Mapping
	}{
		{"radio", "radio", "", Mapping{InputType: schema.InputRadio, ValueType: schema.ValueTypeString}},
		{"dropdown", "dropdown", "", Mapping{InputType: schema.InputSelect, ValueType: schema.ValueTypeString}},
		{"checkbox", "checkbox", "", Mapping{InputType: schema.InputRadio, ValueType: schema.ValueTypeString, MultipleChoice: true}},
		{"yesno", "yesno", "", Mapping{InputType: schema.InputRadio, ValueType: schema.ValueTypeBoolean}},
		{"calc", "calc", "", Mapping{InputType: schema.InputNumber, ValueType: schema.ValueTypeInteger, ReadOnly: true}},
		{"plain text", "text", "", Mapping{InputType: schema.InputText, ValueType: schema.ValueTypeString}},
		{"text integer", "text", "integer", Mapping{InputType: schema.InputNumber, ValueType: schema.ValueTypeInteger}},
		{"text float", "text", "float", Mapping{InputType: schema.InputFloat, ValueType: schema.ValueTypeDecimal}},
		{"text email", "text", "email", Mapping{InputType: schema.InputEmail, ValueType: schema.ValueTypeString}},
		{"text date", "text", "date_mdy", Mapping{InputType: schema.InputDate, ValueType: schema.ValueTypeDate}},
		{"case insensitive", "RADIO", "", Mapping{InputType: schema.InputRadio, ValueType: schema.ValueTypeString}},
		{"slider", "slider", "", Mapping{InputType: schema.InputSlider, ValueType: schema.ValueTypeString}},
		{"descriptive", "descriptive", "", Mapping{InputType: schema.InputStatic, ValueType: schema.ValueTypeString}},
		{"file", "file", "", Mapping{InputType: schema.InputDocument, ValueType: schema.ValueTypeString}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record.FieldRecord{ID: "f1", Activity: "demo", TypeToken: tt.token, Validation: tt.validation}
			got, err := MapType(&rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapTypeUnknownToken(t *testing.T) {
	rec := record.FieldRecord{ID: "f1", Activity: "demo", TypeToken: "hologram"}
	_, err := MapType(&rec)
	require.Error(t, err)

	var ce cverr.ConvertError
	require.True(t, cverr.As(err, &ce))
	assert.Equal(t, cverr.UnsupportedFieldType, ce.Kind)
	assert.Equal(t, "hologram", ce.Token)
	assert.Equal(t, "f1", ce.Field)
}

func TestMapTypeUnknownValidation(t *testing.T) {
	rec := record.FieldRecord{ID: "f1", Activity: "demo", TypeToken: "text", Validation: "barcode"}
	_, err := MapType(&rec)
	require.Error(t, err)
	assert.True(t, cverr.IsKind(err, cverr.UnsupportedFieldType))
}

// TestReverseRoundTrip verifies the reverse mapping is injective: feeding the
// canonical token pair back through MapType reproduces the same graph typing.
func TestReverseRoundTrip(t *testing.T) {
	mappings := []Mapping{
		{InputType: schema.InputRadio, ValueType: schema.ValueTypeString},
		{InputType: schema.InputRadio, ValueType: schema.ValueTypeBoolean},
		{InputType: schema.InputRadio, ValueType: schema.ValueTypeString, MultipleChoice: true},
		{InputType: schema.InputSelect, ValueType: schema.ValueTypeString},
		{InputType: schema.InputSlider, ValueType: schema.ValueTypeString},
		{InputType: schema.InputStatic, ValueType: schema.ValueTypeString},
		{InputType: schema.InputDocument, ValueType: schema.ValueTypeString},
		{InputType: schema.InputText, ValueType: schema.ValueTypeString},
		{InputType: schema.InputNumber, ValueType: schema.ValueTypeInteger},
		{InputType: schema.InputFloat, ValueType: schema.ValueTypeDecimal},
		{InputType: schema.InputEmail, ValueType: schema.ValueTypeString},
		{InputType: schema.InputSign, ValueType: schema.ValueTypeString},
		{InputType: schema.InputDate, ValueType: schema.ValueTypeDate},
		{InputType: schema.InputNumber, ValueType: schema.ValueTypeInteger, ReadOnly: true},
	}

	for _, m := range mappings {
		fieldType, validation := ReverseToken(m)
		rec := record.FieldRecord{ID: "f", TypeToken: fieldType, Validation: validation}
		got, err := MapType(&rec)
		require.NoError(t, err, "reverse pair (%q, %q)", fieldType, validation)
		assert.Equal(t, m, got, "round trip through (%q, %q)", fieldType, validation)
	}
}
