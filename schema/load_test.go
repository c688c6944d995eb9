package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cverr "github.com/reproforge/reproconv/convert/errors"
)

func demoSet() *DocumentSet {
	p := &Protocol{
		Category:      CategoryProtocol,
		ID:            "demo_schema",
		PrefLabel:     NewLangString("Demo"),
		SchemaVersion: SchemaVersion,
		Version:       "1.0.0",
		UI:            UI{Order: []string{"../activities/screening/screening_schema"}},
	}
	p.UI.AddProperties = []AddProperty{{
		VariableName: "screening_schema",
		IsAbout:      "../activities/screening/screening_schema",
		IsVis:        VisibleAlways(),
	}}
	set := NewDocumentSet(p)

	act := &Activity{
		Category:      CategoryActivity,
		ID:            "screening_schema",
		PrefLabel:     NewLangString("screening"),
		SchemaVersion: SchemaVersion,
		UI: UI{
			Order: []string{"items/age"},
			AddProperties: []AddProperty{{
				VariableName: "age",
				IsAbout:      "items/age",
				IsVis:        VisibleAlways(),
			}},
		},
	}
	doc := set.AddActivity("../activities/screening/screening_schema", act)
	doc.AddItem("items/age", &Item{
		Category:  CategoryItem,
		ID:        "age",
		PrefLabel: LangString{"en": "age"},
		Question:  NewLangString("How old are you?"),
		UI:        ItemUI{InputType: InputNumber},
		ResponseOptions: &ResponseOptions{
			ValueType: []string{string(ValueTypeInteger)},
		},
	})
	return set
}

// TestWriteLoadRoundTrip writes a bundle and loads it back.
func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := demoSet()
	require.NoError(t, WriteBundle(want, dir))

	got, err := LoadBundle(filepath.Join(dir, "demo", "demo_schema"))
	require.NoError(t, err)

	opts := cmpopts.IgnoreUnexported(DocumentSet{}, ActivityDoc{})
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("load(write(set)) mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBundleMissingActivityIsSkipped(t *testing.T) {
	dir := t.TempDir()
	set := demoSet()
	require.NoError(t, WriteBundle(set, dir))
	require.NoError(t, os.Remove(filepath.Join(dir, "activities", "screening", "screening_schema")))

	got, err := LoadBundle(filepath.Join(dir, "demo", "demo_schema"))
	require.NoError(t, err, "missing referenced documents are a validation concern")
	assert.Empty(t, got.Activities)
}

func TestLoadBundleUnparseableIsFatal(t *testing.T) {
	dir := t.TempDir()
	set := demoSet()
	require.NoError(t, WriteBundle(set, dir))
	actFile := filepath.Join(dir, "activities", "screening", "screening_schema")
	require.NoError(t, os.WriteFile(actFile, []byte("{not json"), 0644))

	_, err := LoadBundle(filepath.Join(dir, "demo", "demo_schema"))
	require.Error(t, err)
	assert.True(t, cverr.IsKind(err, cverr.StructuralLoadFailure))
}

func TestLoadBundleMissingProtocol(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "nope_schema"))
	require.Error(t, err)
	assert.True(t, cverr.IsKind(err, cverr.StructuralLoadFailure))
}
