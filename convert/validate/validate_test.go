package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reproforge/reproconv/convert/assemble"
	"github.com/reproforge/reproconv/convert/record"
	"github.com/reproforge/reproconv/schema"
)

func validSet(t *testing.T) *schema.DocumentSet {
	t.Helper()
	run := record.NewRun(nil)
	set, err := assemble.Assemble(run, assemble.ProtocolMeta{
		Name: "demo", DisplayName: "Demo", Version: "1.0.0",
	}, []record.FieldRecord{
		{ID: "consent", Activity: "screening", Label: "Consent?", TypeToken: "yesno"},
		{ID: "age", Activity: "screening", Label: "Age", TypeToken: "text", Validation: "integer"},
		{
			ID: "mood", Activity: "screening", Label: "Mood", TypeToken: "radio",
			Choices:   []record.Choice{{Value: "0", Label: "No"}, {Value: "1", Label: "Yes"}},
			Branching: "[consent] = 1",
		},
	})
	require.NoError(t, err)
	require.False(t, run.Errors.HasErrors())
	return set
}

func TestValidSetHasNoViolations(t *testing.T) {
	violations := Validate(validSet(t))
	assert.Empty(t, violations)
}

// TestDanglingItemReference checks the contract exactly: an order entry
// naming a missing item yields one dangling-reference violation located at
// that activity.
func TestDanglingItemReference(t *testing.T) {
	set := validSet(t)
	act := set.Activities[0].Activity
	act.UI.Order = append(act.UI.Order, "items/ghost")

	violations := Validate(set)
	require.Len(t, violations, 1)
	assert.Equal(t, KindDanglingReference, violations[0].Kind)
	assert.Equal(t, "activity/screening_schema", violations[0].Path)
	assert.Contains(t, violations[0].Detail, "ghost")
}

func TestDanglingActivityReference(t *testing.T) {
	set := validSet(t)
	set.Protocol.UI.Order = append(set.Protocol.UI.Order, "../activities/ghost/ghost_schema")

	violations := Validate(set)
	require.Len(t, violations, 1)
	assert.Equal(t, KindDanglingReference, violations[0].Kind)
	assert.Equal(t, "protocol/demo_schema", violations[0].Path)
}

// TestDanglingProtocolProperty checks protocol-level addProperties entries,
// not just the order list, are resolved.
func TestDanglingProtocolProperty(t *testing.T) {
	set := validSet(t)
	set.Protocol.UI.AddProperties = append(set.Protocol.UI.AddProperties, schema.AddProperty{
		VariableName: "ghost_schema",
		IsAbout:      "../activities/ghost/ghost_schema",
		IsVis:        schema.VisibleAlways(),
	})

	violations := Validate(set)
	require.Len(t, violations, 1)
	assert.Equal(t, KindDanglingReference, violations[0].Kind)
	assert.Equal(t, "protocol/demo_schema", violations[0].Path)
	assert.Contains(t, violations[0].Detail, "ghost")
}

// TestDigitLeadingIdentifier: slug derivation keeps leading digits, so a form
// named with one must validate cleanly.
func TestDigitLeadingIdentifier(t *testing.T) {
	run := record.NewRun(nil)
	set, err := assemble.Assemble(run, assemble.ProtocolMeta{
		Name: "demo", DisplayName: "Demo", Version: "1.0.0",
	}, []record.FieldRecord{
		{ID: "seen", Activity: "2 Week Follow Up", Label: "Seen?", TypeToken: "yesno"},
	})
	require.NoError(t, err)
	require.False(t, run.Errors.HasErrors())

	assert.Empty(t, Validate(set))
}

func TestUnknownValueType(t *testing.T) {
	set := validSet(t)
	item, ok := set.Activities[0].ItemByRef("items/age")
	require.True(t, ok)
	item.Item.ResponseOptions.ValueType = []string{"xsd:quaternion"}

	violations := Validate(set)
	require.Len(t, violations, 1)
	assert.Equal(t, KindUnknownValueType, violations[0].Kind)
	assert.Equal(t, "activity/screening_schema/age", violations[0].Path)
}

func TestDuplicateChoiceValues(t *testing.T) {
	set := validSet(t)
	item, ok := set.Activities[0].ItemByRef("items/mood")
	require.True(t, ok)
	item.Item.ResponseOptions.Choices = []schema.Choice{
		{Name: schema.NewLangString("A"), Value: schema.IntValue(1)},
		{Name: schema.NewLangString("B"), Value: schema.IntValue(1)},
	}

	violations := Validate(set)
	require.Len(t, violations, 1)
	assert.Equal(t, KindDuplicateChoice, violations[0].Kind)
}

func TestMissingProtocolMetadata(t *testing.T) {
	set := validSet(t)
	set.Protocol.PrefLabel = nil
	set.Protocol.Version = ""
	set.Protocol.SchemaVersion = ""

	violations := Validate(set)
	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, KindMissingMetadata, v.Kind)
	}
}

func TestMalformedIdentifier(t *testing.T) {
	set := validSet(t)
	item, ok := set.Activities[0].ItemByRef("items/age")
	require.True(t, ok)
	item.Item.ID = "Age Of Participant"

	violations := Validate(set)
	require.Len(t, violations, 1)
	assert.Equal(t, KindMalformedIdentifier, violations[0].Kind)
}

func TestUnresolvedVisibilityReference(t *testing.T) {
	set := validSet(t)
	act := set.Activities[0].Activity
	for i, p := range act.UI.AddProperties {
		if p.VariableName == "mood" {
			act.UI.AddProperties[i].IsVis = schema.VisibleWhen("ghost == 1")
		}
	}

	violations := Validate(set)
	require.Len(t, violations, 1)
	assert.Equal(t, KindUnresolvedReference, violations[0].Kind)
	assert.Equal(t, "activity/screening_schema/mood", violations[0].Path)
}

// TestViolationOrdering verifies protocol violations come before activity
// and item violations.
func TestViolationOrdering(t *testing.T) {
	set := validSet(t)
	set.Protocol.PrefLabel = nil
	item, ok := set.Activities[0].ItemByRef("items/age")
	require.True(t, ok)
	item.Item.ResponseOptions.ValueType = []string{"bogus"}

	violations := Validate(set)
	require.Len(t, violations, 2)
	assert.Equal(t, KindMissingMetadata, violations[0].Kind)
	assert.Equal(t, KindUnknownValueType, violations[1].Kind)
}

func TestValidateNeverMutates(t *testing.T) {
	set := validSet(t)
	before := len(set.Activities[0].Items)
	Validate(set)
	assert.Equal(t, before, len(set.Activities[0].Items))
}
