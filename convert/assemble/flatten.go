package assemble

import (
	"strconv"
	"strings"

	cverr "github.com/reproforge/reproconv/convert/errors"
	"github.com/reproforge/reproconv/convert/record"
	"github.com/reproforge/reproconv/convert/scoring"
	"github.com/reproforge/reproconv/convert/typemap"
	"github.com/reproforge/reproconv/convert/visibility"
	"github.com/reproforge/reproconv/schema"
)

// Flatten walks a document graph in its stored order and emits one field
// record per Item. For a graph produced by Assemble from well-formed records,
// Flatten returns those records. Dangling references are collected and
// skipped; the remaining documents still flatten.
func Flatten(run *record.Run, set *schema.DocumentSet) ([]record.FieldRecord, error) {
	var out []record.FieldRecord

	for _, ref := range set.Protocol.UI.Order {
		doc, ok := set.ActivityByRef(ref)
		if !ok {
			run.Fail(cverr.New(cverr.DanglingDocumentReference, "", "",
				"protocol order references missing activity %q", ref).WithToken(ref))
			continue
		}
		out = append(out, flattenActivity(run, doc)...)
	}
	return out, nil
}

func flattenActivity(run *record.Run, doc *schema.ActivityDoc) []record.FieldRecord {
	act := doc.Activity
	name := strings.TrimSuffix(act.ID, "_schema")

	// Order entries must resolve; compute-only items are referenced through
	// addProperties instead and are checked by the item walk below.
	for _, ref := range act.UI.Order {
		if _, ok := doc.ItemByRef(ref); !ok {
			run.Fail(cverr.New(cverr.DanglingDocumentReference, name, "",
				"activity order references missing item %q", ref).WithToken(ref))
		}
	}

	props := make(map[string]schema.AddProperty, len(act.UI.AddProperties))
	for _, p := range act.UI.AddProperties {
		props[p.IsAbout] = p
	}
	compute := make(map[string]schema.ComputeSpec, len(act.Compute))
	for _, c := range act.Compute {
		compute[c.VariableName] = c
	}

	vis := visibility.New(name, doc.ItemIDs())

	recs := make([]record.FieldRecord, 0, len(doc.Items))
	for _, it := range doc.Items {
		rec := flattenItem(run, vis, name, act, it.Item, props[it.Ref], compute)
		recs = append(recs, rec)
	}
	return recs
}

func flattenItem(run *record.Run, vis *visibility.Translator, activity string,
	act *schema.Activity, item *schema.Item, prop schema.AddProperty,
	compute map[string]schema.ComputeSpec) record.FieldRecord {

	mapping := mappingOf(item)
	fieldType, validation := typemap.ReverseToken(mapping)

	rec := record.FieldRecord{
		ID:         item.ID,
		Activity:   activity,
		Label:      item.Question.Text(),
		TypeToken:  fieldType,
		Validation: validation,
		Required:   prop.ValueRequired,
		Note:       item.Description.Text(),
	}

	// Item preamble wins; a promoted activity preamble applies to every row.
	if p := item.Preamble.Text(); p != "" {
		rec.Preamble = p
	} else {
		rec.Preamble = act.Preamble.Text()
	}

	if ro := item.ResponseOptions; ro != nil {
		// Yes/no fields imply their choices; re-emitting them would change
		// the field type on the next pass.
		if fieldType != "yesno" {
			for _, c := range ro.Choices {
				rec.Choices = append(rec.Choices, record.Choice{
					Value: c.Value.String(),
					Label: c.Name.Text(),
				})
			}
		}
		if ro.MinValue != nil {
			rec.MinValue = strconv.FormatFloat(*ro.MinValue, 'f', -1, 64)
		}
		if ro.MaxValue != nil {
			rec.MaxValue = strconv.FormatFloat(*ro.MaxValue, 'f', -1, 64)
		}
	}

	if prop.IsVis.Conditional() {
		tree, err := vis.FromPredicate(item.ID, prop.IsVis.Expr)
		if err != nil {
			run.Errors.Collect(err)
			rec.Branching = prop.IsVis.Expr
		} else {
			rec.Branching = visibility.TabularString(tree)
		}
	}

	if spec, ok := compute[item.ID]; ok {
		rec.TypeToken = "calc"
		rec.Validation = ""
		rec.Calculation = scoring.FromSpec(scoring.ToSpec(spec.Expression))
	}

	for _, note := range item.AdditionalNotes {
		if note.Source == "converter" && note.Column == unparsedBranchingColumn {
			if rec.Branching == "" {
				rec.Branching = note.Value
			}
			continue
		}
		if rec.Metadata == nil {
			rec.Metadata = make(map[string]string)
		}
		rec.Metadata[note.Column] = note.Value
	}
	return rec
}

// mappingOf reconstructs the graph-side typing from a stored Item.
func mappingOf(item *schema.Item) typemap.Mapping {
	m := typemap.Mapping{
		InputType: item.UI.InputType,
		ValueType: schema.ValueTypeString,
		ReadOnly:  item.UI.ReadOnly,
	}
	if ro := item.ResponseOptions; ro != nil {
		m.MultipleChoice = ro.MultipleChoice
		if len(ro.ValueType) > 0 {
			m.ValueType = schema.ValueType(ro.ValueType[0])
		}
	}
	return m
}
