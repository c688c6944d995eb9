// Package validate checks a loaded document graph against the fixed
// structural and vocabulary constraints, independent of which conversion
// direction produced it. Validation is total: it always returns a violation
// list and never panics or errors on malformed-but-parseable content.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reproforge/reproconv/convert/parser"
	"github.com/reproforge/reproconv/schema"
)

// Kind labels one class of violation.
type Kind string

const (
	KindMissingMetadata     Kind = "missing-metadata"
	KindMalformedIdentifier Kind = "malformed-identifier"
	KindDanglingReference   Kind = "dangling-reference"
	KindDuplicateIdentifier Kind = "duplicate-identifier"
	KindUnknownValueType    Kind = "unknown-value-type"
	KindDuplicateChoice     Kind = "duplicate-choice-value"
	KindUnresolvedReference Kind = "unresolved-field-reference"
)

// Violation is one constraint failure, located by a slash-separated path into
// the document hierarchy.
type Violation struct {
	Path   string `json:"path"`
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Path, v.Kind, v.Detail)
}

// Slug derivation lower-cases names and collapses separator runs, so a name
// like "2 Week Follow Up" legitimately yields a digit-leading identifier.
var identifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)

// Validate checks the document set and returns every violation found, ordered
// by discovery location: protocol first, then each activity in order, then
// that activity's items in order. An empty result means the set is valid.
func Validate(set *schema.DocumentSet) []Violation {
	v := &visitor{}
	v.protocol(set)
	for _, doc := range set.Activities {
		v.activity(doc)
	}
	return v.violations
}

type visitor struct {
	violations []Violation
}

func (v *visitor) add(path string, kind Kind, format string, args ...interface{}) {
	v.violations = append(v.violations, Violation{
		Path:   path,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (v *visitor) protocol(set *schema.DocumentSet) {
	p := set.Protocol
	path := "protocol/" + p.ID

	if p.Category != schema.CategoryProtocol {
		v.add(path, KindMissingMetadata, "category is %q, want %q", p.Category, schema.CategoryProtocol)
	}
	v.identifier(path, p.ID, "_schema")
	if p.PrefLabel.Text() == "" {
		v.add(path, KindMissingMetadata, "protocol has no display name")
	}
	if p.Version == "" && p.SchemaVersion == "" {
		v.add(path, KindMissingMetadata, "protocol carries no version")
	}

	seen := make(map[string]bool, len(p.UI.Order))
	for _, ref := range p.UI.Order {
		if seen[ref] {
			v.add(path, KindDuplicateIdentifier, "activity %q is referenced more than once", ref)
			continue
		}
		seen[ref] = true
		if _, ok := set.ActivityByRef(ref); !ok {
			v.add(path, KindDanglingReference, "order references missing activity %q", ref)
		}
	}

	for _, prop := range p.UI.AddProperties {
		if _, ok := set.ActivityByRef(prop.IsAbout); !ok {
			v.add(path, KindDanglingReference, "addProperties entry %q points at missing activity %q",
				prop.VariableName, prop.IsAbout)
		}
	}
}

func (v *visitor) activity(doc *schema.ActivityDoc) {
	a := doc.Activity
	path := "activity/" + a.ID

	if a.Category != schema.CategoryActivity {
		v.add(path, KindMissingMetadata, "category is %q, want %q", a.Category, schema.CategoryActivity)
	}
	v.identifier(path, a.ID, "_schema")
	if a.PrefLabel.Text() == "" {
		v.add(path, KindMissingMetadata, "activity has no display name")
	}

	seen := make(map[string]bool, len(a.UI.Order))
	for _, ref := range a.UI.Order {
		if seen[ref] {
			v.add(path, KindDuplicateIdentifier, "item %q is referenced more than once", ref)
			continue
		}
		seen[ref] = true
		if _, ok := doc.ItemByRef(ref); !ok {
			v.add(path, KindDanglingReference, "order references missing item %q", ref)
		}
	}

	fields := make(map[string]bool, len(doc.Items))
	for _, it := range doc.Items {
		if fields[it.Item.ID] {
			v.add(path, KindDuplicateIdentifier, "item identifier %q is used more than once", it.Item.ID)
		}
		fields[it.Item.ID] = true
	}

	for _, prop := range a.UI.AddProperties {
		if _, ok := doc.ItemByRef(prop.IsAbout); !ok {
			v.add(path, KindDanglingReference, "addProperties entry %q points at missing item %q",
				prop.VariableName, prop.IsAbout)
		}
		if prop.IsVis.Conditional() {
			v.predicate(path+"/"+prop.VariableName, prop.IsVis.Expr, fields)
		}
	}

	for _, c := range a.Compute {
		if !fields[c.VariableName] {
			v.add(path, KindDanglingReference, "compute entry %q names no item", c.VariableName)
		}
	}

	for _, it := range doc.Items {
		v.item(path+"/"+it.Item.ID, it.Item)
	}
}

func (v *visitor) item(path string, item *schema.Item) {
	if item.Category != schema.CategoryItem {
		v.add(path, KindMissingMetadata, "category is %q, want %q", item.Category, schema.CategoryItem)
	}
	v.identifier(path, item.ID, "")

	ro := item.ResponseOptions
	if ro == nil {
		return
	}
	for _, vt := range ro.ValueType {
		if !schema.KnownValueType(vt) {
			v.add(path, KindUnknownValueType, "value type %q is not in the recognized set", vt)
		}
	}
	seen := make(map[string]bool, len(ro.Choices))
	for _, c := range ro.Choices {
		key := c.Value.String()
		if seen[key] {
			v.add(path, KindDuplicateChoice, "choice value %q appears more than once", key)
		}
		seen[key] = true
	}
}

// predicate checks that every field reference inside a visibility expression
// resolves to an item in the same activity. An unparseable expression is an
// unresolved reference to everything it might have named.
func (v *visitor) predicate(path, expr string, fields map[string]bool) {
	tree, err := parser.ParseExpression(expr)
	if err != nil {
		v.add(path, KindUnresolvedReference, "visibility expression %q does not parse: %v", expr, err)
		return
	}
	for _, name := range parser.Fields(tree) {
		if fields[name] {
			continue
		}
		if i := strings.LastIndex(name, "___"); i > 0 && fields[name[:i]] {
			continue
		}
		v.add(path, KindUnresolvedReference, "visibility expression references unknown field %q", name)
	}
}

func (v *visitor) identifier(path, id, suffix string) {
	if id == "" {
		v.add(path, KindMalformedIdentifier, "identifier is empty")
		return
	}
	if !identifierPattern.MatchString(id) {
		v.add(path, KindMalformedIdentifier, "identifier %q is not a well-formed token", id)
		return
	}
	if suffix != "" && !strings.HasSuffix(id, suffix) {
		v.add(path, KindMalformedIdentifier, "identifier %q does not end with %q", id, suffix)
	}
}
