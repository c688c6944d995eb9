// Package assemble builds the Protocol/Activity/Item document graph from
// intermediate field records and flattens a graph back into records. It owns
// identifier generation, ordering, and cross-document reference wiring;
// per-field translation failures are collected on the run so one pass reports
// every offending field.
package assemble

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	cverr "github.com/reproforge/reproconv/convert/errors"
	"github.com/reproforge/reproconv/convert/parser"
	"github.com/reproforge/reproconv/convert/record"
	"github.com/reproforge/reproconv/convert/scoring"
	"github.com/reproforge/reproconv/convert/typemap"
	"github.com/reproforge/reproconv/convert/visibility"
	utilstrings "github.com/reproforge/reproconv/internal/util/strings"
	"github.com/reproforge/reproconv/schema"
)

// ProtocolMeta is the caller-supplied protocol identity metadata.
type ProtocolMeta struct {
	Name        string
	DisplayName string
	Description string
	Version     string
}

// Assemble builds a document graph from field records. Records keep their
// input order; activities appear in first-seen order. Identifiers are slugs
// of the human-readable names, disambiguated deterministically on collision.
func Assemble(run *record.Run, meta ProtocolMeta, records []record.FieldRecord) (*schema.DocumentSet, error) {
	if strings.TrimSpace(meta.Name) == "" {
		return nil, fmt.Errorf("protocol name is required")
	}

	protoSlug := utilstrings.Slugify(meta.Name)
	displayName := meta.DisplayName
	if displayName == "" {
		displayName = meta.Name
	}

	proto := &schema.Protocol{
		Category:      schema.CategoryProtocol,
		ID:            protoSlug + "_schema",
		PrefLabel:     schema.NewLangString(displayName),
		Description:   schema.NewLangString(meta.Description),
		SchemaVersion: schema.SchemaVersion,
		Version:       meta.Version,
		UI:            schema.UI{Order: []string{}},
	}
	set := schema.NewDocumentSet(proto)

	groups, order := groupByActivity(run, records)
	actNames := utilstrings.NewDisambiguator()

	for _, name := range order {
		actSlug := actNames.Claim(utilstrings.Slugify(name))
		ref := "../activities/" + actSlug + "/" + actSlug + "_schema"

		proto.UI.Order = append(proto.UI.Order, ref)
		proto.UI.AddProperties = append(proto.UI.AddProperties, schema.AddProperty{
			VariableName: actSlug + "_schema",
			IsAbout:      ref,
			PrefLabel:    schema.NewLangString(titleize(name)),
			IsVis:        schema.VisibleAlways(),
		})

		assembleActivity(run, set, ref, name, actSlug, meta.Version, groups[name])
	}

	run.Log.Debug("assembled document graph",
		zap.Int("activities", len(set.Activities)),
		zap.Int("fields", len(records)))
	return set, nil
}

// groupByActivity buckets records by owning activity, preserving row order
// within each bucket and first-seen activity order. Duplicate identifiers
// within one activity are a collected error; the first occurrence wins.
func groupByActivity(run *record.Run, records []record.FieldRecord) (map[string][]record.FieldRecord, []string) {
	groups := make(map[string][]record.FieldRecord)
	var order []string
	seen := make(map[string]map[string]bool)

	for _, rec := range records {
		if _, ok := groups[rec.Activity]; !ok {
			order = append(order, rec.Activity)
			seen[rec.Activity] = make(map[string]bool)
		}
		if seen[rec.Activity][rec.ID] {
			run.Fail(cverr.New(cverr.DuplicateIdentifier, rec.Activity, rec.ID,
				"field %q appears more than once in activity %q", rec.ID, rec.Activity))
			continue
		}
		seen[rec.Activity][rec.ID] = true
		groups[rec.Activity] = append(groups[rec.Activity], rec)
	}
	return groups, order
}

func assembleActivity(run *record.Run, set *schema.DocumentSet, ref, name, slug, version string, recs []record.FieldRecord) {
	act := &schema.Activity{
		Category:      schema.CategoryActivity,
		ID:            slug + "_schema",
		PrefLabel:     schema.NewLangString(name),
		SchemaVersion: schema.SchemaVersion,
		Version:       version,
		UI:            schema.UI{Order: []string{}},
	}
	doc := set.AddActivity(ref, act)

	// Deterministic item identifiers, plus the raw-name mapping used to
	// rewrite field references inside predicates.
	itemIDs := utilstrings.NewDisambiguator()
	rename := make(map[string]string, len(recs))
	ids := make([]string, 0, len(recs))
	known := make([]string, 0, 2*len(recs))
	for _, rec := range recs {
		id := itemIDs.Claim(utilstrings.Slugify(rec.ID))
		rename[rec.ID] = id
		ids = append(ids, id)
		// Branching expressions reference the raw field names; the generated
		// identifiers are resolvable too so rewritten predicates stay valid.
		known = append(known, rec.ID, id)
	}

	// Section headers: one shared header becomes the activity preamble,
	// mixed headers stay on the items.
	preamble, itemPreambles := promotePreamble(recs)
	act.Preamble = schema.NewLangString(preamble)

	vis := visibility.New(name, known)

	for i, rec := range recs {
		id := ids[i]
		item, prop, compute := assembleItem(run, vis, rename, name, id, rec, itemPreambles)
		if item == nil {
			continue
		}
		itemRef := "items/" + id
		prop.IsAbout = itemRef
		act.UI.AddProperties = append(act.UI.AddProperties, prop)
		if compute != nil {
			act.Compute = append(act.Compute, *compute)
		} else {
			act.UI.Order = append(act.UI.Order, itemRef)
		}
		doc.AddItem(itemRef, item)
	}
}

// assembleItem translates one field record. A nil item means the record was
// unusable and the failure has been collected.
func assembleItem(run *record.Run, vis *visibility.Translator, rename map[string]string,
	activity, id string, rec record.FieldRecord, itemPreambles bool) (*schema.Item, schema.AddProperty, *schema.ComputeSpec) {

	prop := schema.AddProperty{
		VariableName:  id,
		IsVis:         schema.VisibleAlways(),
		ValueRequired: rec.Required,
	}

	mapping, err := typemap.MapType(&rec)
	if err != nil {
		run.Errors.Collect(err)
		return nil, prop, nil
	}

	item := &schema.Item{
		Category:  schema.CategoryItem,
		ID:        id,
		PrefLabel: schema.LangString{"en": id},
		Question:  schema.NewLangString(rec.Label),
		UI:        schema.ItemUI{InputType: mapping.InputType, ReadOnly: mapping.ReadOnly},
		ResponseOptions: &schema.ResponseOptions{
			ValueType: []string{string(mapping.ValueType)},
		},
	}
	if rec.Note != "" {
		item.Description = schema.NewLangString(rec.Note)
	}
	if itemPreambles && rec.Preamble != "" {
		item.Preamble = schema.NewLangString(rec.Preamble)
	}

	assembleResponseOptions(run, activity, rec, mapping, item)

	// Branching logic becomes the visibility predicate; failures keep the
	// original text in an auxiliary note so nothing is silently dropped.
	if rec.Branching != "" {
		tree, err := vis.ToPredicate(rec.ID, rec.Branching)
		if err != nil {
			run.Errors.Collect(err)
			item.AdditionalNotes = append(item.AdditionalNotes, schema.Note{
				Source: "converter", Column: unparsedBranchingColumn, Value: rec.Branching,
			})
		} else {
			rewriteRefs(tree, rename)
			prop.IsVis = schema.VisibleWhen(visibility.GraphString(tree))
		}
	}

	// Metadata columns pass through as notes, sorted for determinism.
	for _, col := range sortedKeys(rec.Metadata) {
		item.AdditionalNotes = append(item.AdditionalNotes, schema.Note{
			Source: "tabular", Column: col, Value: rec.Metadata[col],
		})
	}

	var compute *schema.ComputeSpec
	if rec.Computed() {
		spec := scoring.ToSpec(rec.Calculation)
		renameSpecFields(&spec, rename)
		compute = &schema.ComputeSpec{VariableName: id, Expression: spec.Expression()}
	}
	return item, prop, compute
}

const unparsedBranchingColumn = "unparsedBranchingLogic"

func assembleResponseOptions(run *record.Run, activity string, rec record.FieldRecord,
	mapping typemap.Mapping, item *schema.Item) {

	ro := item.ResponseOptions
	ro.MultipleChoice = mapping.MultipleChoice

	token := strings.ToLower(strings.TrimSpace(rec.TypeToken))
	switch {
	case token == "yesno":
		ro.Choices = []schema.Choice{
			{Name: schema.LangString{"en": "Yes"}, Value: schema.IntValue(1)},
			{Name: schema.LangString{"en": "No"}, Value: schema.IntValue(0)},
		}
	case token == "truefalse":
		ro.Choices = []schema.Choice{
			{Name: schema.LangString{"en": "True"}, Value: schema.IntValue(1)},
			{Name: schema.LangString{"en": "False"}, Value: schema.IntValue(0)},
		}
	case rec.HasChoices() && (schema.ChoiceInputTypes[mapping.InputType] || mapping.MultipleChoice):
		ro.Choices = make([]schema.Choice, 0, len(rec.Choices))
		types := make([]string, 0, 2)
		typeSeen := make(map[string]bool)
		for _, c := range rec.Choices {
			v := schema.ParseValue(c.Value)
			ro.Choices = append(ro.Choices, schema.Choice{
				Name:  schema.LangString{"en": c.Label},
				Value: v,
			})
			if vt := string(v.ValueType()); !typeSeen[vt] {
				typeSeen[vt] = true
				types = append(types, vt)
			}
		}
		// Choice lists carry their own value types (integer or string).
		ro.ValueType = types
	}

	if bound, ok := parseBound(run, activity, rec.ID, "minimum", rec.MinValue, mapping.ValueType); ok {
		ro.MinValue = bound
	}
	if bound, ok := parseBound(run, activity, rec.ID, "maximum", rec.MaxValue, mapping.ValueType); ok {
		ro.MaxValue = bound
	}
}

// parseBound accepts numeric bounds only for numeric value types; anything
// else is dropped with a warning rather than guessed at.
func parseBound(run *record.Run, activity, field, which, raw string, vt schema.ValueType) (*float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	if vt != schema.ValueTypeInteger && vt != schema.ValueTypeDecimal {
		return nil, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		run.Log.Warn("dropping non-numeric bound",
			zap.String("activity", activity),
			zap.String("field", field),
			zap.String("bound", which),
			zap.String("value", raw))
		return nil, false
	}
	return &f, true
}

// promotePreamble decides whether section headers belong to the activity or
// to individual items: exactly one distinct header is promoted, anything else
// stays item-level.
func promotePreamble(recs []record.FieldRecord) (string, bool) {
	distinct := make(map[string]bool)
	var first string
	for _, rec := range recs {
		p := strings.TrimSpace(rec.Preamble)
		if p == "" {
			continue
		}
		if len(distinct) == 0 {
			first = p
		}
		distinct[p] = true
	}
	switch len(distinct) {
	case 0:
		return "", false
	case 1:
		return first, false
	default:
		return "", true
	}
}

// rewriteRefs renames field references in place to the generated item
// identifiers, preserving mangled checkbox suffixes.
func rewriteRefs(e parser.Expr, rename map[string]string) {
	switch n := e.(type) {
	case *parser.FieldRefExpr:
		n.Name = renameRef(n.Name, rename)
	case *parser.CompareExpr:
		rewriteRefs(n.Left, rename)
		rewriteRefs(n.Right, rename)
	case *parser.LogicalExpr:
		rewriteRefs(n.Left, rename)
		rewriteRefs(n.Right, rename)
	case *parser.UnaryExpr:
		rewriteRefs(n.Operand, rename)
	case *parser.ArithExpr:
		rewriteRefs(n.Left, rename)
		rewriteRefs(n.Right, rename)
	case *parser.CallExpr:
		for _, a := range n.Arguments {
			rewriteRefs(a, rename)
		}
	}
}

func renameRef(name string, rename map[string]string) string {
	if id, ok := rename[name]; ok {
		return id
	}
	if i := strings.LastIndex(name, "___"); i > 0 {
		if id, ok := rename[name[:i]]; ok {
			return id + name[i:]
		}
	}
	return name
}

func renameSpecFields(spec *scoring.Spec, rename map[string]string) {
	for i, f := range spec.Fields {
		spec.Fields[i] = renameRef(f, rename)
	}
	if spec.Kind == scoring.Formula {
		if tree, err := parser.ParseExpression(spec.Formula); err == nil {
			rewriteRefs(tree, rename)
			spec.Formula = parser.Graph(tree)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// titleize renders an activity name for display: underscores become spaces
// and each word is capitalized.
func titleize(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
