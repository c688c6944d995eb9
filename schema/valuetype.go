package schema

// ValueType is the closed set of graph value types. The Field Type Mapper is
// the only component that decides which one a tabular field gets; nothing
// else infers types.
type ValueType string

const (
	ValueTypeString   ValueType = "xsd:string"
	ValueTypeInteger  ValueType = "xsd:integer"
	ValueTypeDecimal  ValueType = "xsd:decimal"
	ValueTypeBoolean  ValueType = "xsd:boolean"
	ValueTypeDate     ValueType = "xsd:date"
	ValueTypeDateTime ValueType = "xsd:dateTime"
	ValueTypeTime     ValueType = "xsd:time"
)

var knownValueTypes = map[ValueType]bool{
	ValueTypeString:   true,
	ValueTypeInteger:  true,
	ValueTypeDecimal:  true,
	ValueTypeBoolean:  true,
	ValueTypeDate:     true,
	ValueTypeDateTime: true,
	ValueTypeTime:     true,
}

// KnownValueType reports whether s is one of the closed graph value types.
func KnownValueType(s string) bool {
	return knownValueTypes[ValueType(s)]
}

// Input-type hints. These steer rendering; the value type governs the data.
const (
	InputText     = "text"
	InputNumber   = "number"
	InputFloat    = "float"
	InputRadio    = "radio"
	InputSelect   = "select"
	InputSlider   = "slider"
	InputDate     = "date"
	InputEmail    = "email"
	InputSign     = "sign"
	InputStatic   = "static"
	InputDocument = "documentUpload"
)

// ChoiceInputTypes are the input types that carry an enumerated choice list.
var ChoiceInputTypes = map[string]bool{
	InputRadio:  true,
	InputSelect: true,
	InputSlider: true,
}
