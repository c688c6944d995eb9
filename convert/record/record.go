// Package record defines the transient intermediate representation shared by
// both conversion directions: one FieldRecord per logical question, grouped
// by activity. Records exist only for the duration of a run and are never
// persisted.
package record

// Choice is an ordered (machine value, display label) pair. Values are kept
// as raw text here; the assembler decides integer-ness once, when building
// graph documents.
type Choice struct {
	Value string
	Label string
}

// FieldRecord is one logical question or field in canonical tabular form.
// Format adapters produce it in the forward direction; flattening a graph
// Item produces it in the reverse direction.
type FieldRecord struct {
	ID       string // stable identifier, unique within the owning activity
	Activity string // owning activity name
	Label    string // human-readable prompt

	TypeToken  string // declared tabular type, e.g. "radio", "text", "calc"
	Validation string // validation token refining the type, e.g. "integer"

	Choices     []Choice // enumerated choices, nil when not applicable
	Branching   string   // raw branching-logic expression, "" when always visible
	Calculation string   // raw scoring expression for computed fields

	Required bool
	Preamble string // section header
	Note     string
	MinValue string
	MaxValue string

	// Metadata carries additional tabular columns verbatim. Key order is
	// irrelevant; adapters re-emit entries on flatten.
	Metadata map[string]string
}

// HasChoices reports whether the record carries an enumerated choice list.
func (r *FieldRecord) HasChoices() bool {
	return len(r.Choices) > 0
}

// Computed reports whether the record is a calculated field.
func (r *FieldRecord) Computed() bool {
	return r.TypeToken == "calc" || r.TypeToken == "sql"
}
