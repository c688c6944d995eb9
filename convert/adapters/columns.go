// Package adapters normalizes heterogeneous tabular dictionaries into the
// common field-record shape, and emits records back out as tabular rows. Each
// adapter owns one source dialect; everything downstream sees canonical
// column roles only.
package adapters

// Role names a canonical column in the intermediate representation. Callers
// remap site-specific headers onto roles through a ColumnMap.
type Role string

const (
	RoleFieldName  Role = "field_name"
	RoleActivity   Role = "activity"
	RolePreamble   Role = "preamble"
	RoleFieldType  Role = "field_type"
	RoleLabel      Role = "label"
	RoleChoices    Role = "choices"
	RoleNote       Role = "note"
	RoleValidation Role = "validation"
	RoleMinValue   Role = "min_value"
	RoleMaxValue   Role = "max_value"
	RoleBranching  Role = "branching"
	RoleRequired   Role = "required"
)

// requiredRoles must be present in every dictionary header.
var requiredRoles = []Role{RoleFieldName, RoleActivity, RoleFieldType, RoleLabel}

// ColumnMap maps canonical roles to the source dialect's header names.
type ColumnMap map[Role]string

// DefaultREDCapColumns is the stock data-dictionary header layout.
func DefaultREDCapColumns() ColumnMap {
	return ColumnMap{
		RoleFieldName:  "Variable / Field Name",
		RoleActivity:   "Form Name",
		RolePreamble:   "Section Header",
		RoleFieldType:  "Field Type",
		RoleLabel:      "Field Label",
		RoleChoices:    "Choices, Calculations, OR Slider Labels",
		RoleNote:       "Field Note",
		RoleValidation: "Text Validation Type OR Show Slider Number",
		RoleMinValue:   "Text Validation Min",
		RoleMaxValue:   "Text Validation Max",
		RoleBranching:  "Branching Logic (Show field only if...)",
		RoleRequired:   "Required Field?",
	}
}

// DefaultNBDCColumns is the alternate dictionary layout used by NBDC-style
// exports, which name columns with snake-case tokens.
func DefaultNBDCColumns() ColumnMap {
	return ColumnMap{
		RoleFieldName: "name",
		RoleActivity:  "table_name",
		RolePreamble:  "header",
		RoleFieldType: "type_var",
		RoleLabel:     "label",
		RoleChoices:   "choices",
		RoleNote:      "note",
		RoleBranching: "branching_logic",
		RoleRequired:  "required",
	}
}

// emitOrder is the column order for re-emitted dictionaries: the canonical
// roles first, passthrough metadata columns after.
var emitOrder = []Role{
	RoleFieldName, RoleActivity, RolePreamble, RoleFieldType, RoleLabel,
	RoleChoices, RoleNote, RoleValidation, RoleMinValue, RoleMaxValue,
	RoleBranching, RoleRequired,
}
