// Package schema defines the graph document model: a Protocol referencing
// ordered Activities, each referencing ordered Items. Documents serialize to
// JSON-LD style files and cross-reference each other by relative identifier,
// never by embedding.
package schema

// Document categories. Every document carries exactly one of these.
const (
	CategoryProtocol = "reproschema:Protocol"
	CategoryActivity = "reproschema:Activity"
	CategoryItem     = "reproschema:Item"
)

// SchemaVersion is the vocabulary version written into generated documents.
const SchemaVersion = "1.0.0-rc4"

// LangString is a language-keyed text value, e.g. {"en": "How old are you?"}.
type LangString map[string]string

// Text returns the English entry, falling back to any entry.
func (l LangString) Text() string {
	if l == nil {
		return ""
	}
	if s, ok := l["en"]; ok {
		return s
	}
	for _, s := range l {
		return s
	}
	return ""
}

// NewLangString wraps plain text as an English LangString. Empty text yields
// nil so optional fields stay absent from serialized documents.
func NewLangString(s string) LangString {
	if s == "" {
		return nil
	}
	return LangString{"en": s}
}

// Protocol is the top-level document: ordered Activity references plus
// protocol identity metadata.
type Protocol struct {
	Context       string     `json:"@context,omitempty"`
	Category      string     `json:"category"`
	ID            string     `json:"id"`
	PrefLabel     LangString `json:"prefLabel,omitempty"`
	Description   LangString `json:"description,omitempty"`
	SchemaVersion string     `json:"schemaVersion,omitempty"`
	Version       string     `json:"version,omitempty"`
	UI            UI         `json:"ui"`
}

// Activity is a named, ordered collection of Item references plus optional
// score computations.
type Activity struct {
	Context       string        `json:"@context,omitempty"`
	Category      string        `json:"category"`
	ID            string        `json:"id"`
	PrefLabel     LangString    `json:"prefLabel,omitempty"`
	Description   LangString    `json:"description,omitempty"`
	Preamble      LangString    `json:"preamble,omitempty"`
	SchemaVersion string        `json:"schemaVersion,omitempty"`
	Version       string        `json:"version,omitempty"`
	UI            UI            `json:"ui"`
	Compute       []ComputeSpec `json:"compute,omitempty"`
}

// Item is a single question or field.
type Item struct {
	Context         string           `json:"@context,omitempty"`
	Category        string           `json:"category"`
	ID              string           `json:"id"`
	PrefLabel       LangString       `json:"prefLabel,omitempty"`
	Question        LangString       `json:"question,omitempty"`
	Description     LangString       `json:"description,omitempty"`
	Preamble        LangString       `json:"preamble,omitempty"`
	UI              ItemUI           `json:"ui"`
	ResponseOptions *ResponseOptions `json:"responseOptions,omitempty"`
	AdditionalNotes []Note           `json:"additionalNotesObj,omitempty"`
}

// UI carries the explicit per-level ordering and the typed per-reference
// properties. Ordering is stored data, never implied by identifiers.
type UI struct {
	Order         []string      `json:"order"`
	AddProperties []AddProperty `json:"addProperties,omitempty"`
	Shuffle       bool          `json:"shuffle"`
}

// ItemUI holds the input-type hint for rendering an Item.
type ItemUI struct {
	InputType string `json:"inputType"`
	ReadOnly  bool   `json:"readonlyValue,omitempty"`
}

// AddProperty attaches visibility and requirement metadata to one ordered
// reference inside a Protocol or Activity.
type AddProperty struct {
	VariableName  string     `json:"variableName"`
	IsAbout       string     `json:"isAbout"`
	PrefLabel     LangString `json:"prefLabel,omitempty"`
	IsVis         Visibility `json:"isVis"`
	ValueRequired bool       `json:"valueRequired,omitempty"`
}

// ComputeSpec names a computed variable and the expression that produces it,
// in the graph predicate syntax.
type ComputeSpec struct {
	VariableName string `json:"variableName"`
	Expression   string `json:"jsExpression"`
}

// ResponseOptions describes the admissible responses for an Item.
type ResponseOptions struct {
	ValueType      []string `json:"valueType,omitempty"`
	Choices        []Choice `json:"choices,omitempty"`
	MultipleChoice bool     `json:"multipleChoice,omitempty"`
	MinValue       *float64 `json:"minValue,omitempty"`
	MaxValue       *float64 `json:"maxValue,omitempty"`
}

// Choice is one enumerated response: a machine value and its display label.
type Choice struct {
	Name  LangString `json:"name"`
	Value Value      `json:"value"`
}

// Note is a passthrough metadata entry preserved from the tabular source.
type Note struct {
	Source string `json:"source"`
	Column string `json:"column"`
	Value  string `json:"value"`
}
