// Package visibility translates branching-logic expressions between the
// tabular surface syntax and graph visibility predicates. Both directions go
// through the same expression tree; an input outside the supported grammar
// fails with UnsupportedExpression and is preserved verbatim, never silently
// approximated.
package visibility

import (
	"strings"

	cverr "github.com/reproforge/reproconv/convert/errors"
	"github.com/reproforge/reproconv/convert/lexer"
	"github.com/reproforge/reproconv/convert/parser"
)

// Translator resolves field references against the Items of one Activity.
type Translator struct {
	activity string
	fields   map[string]bool
}

// New creates a Translator scoped to an activity's field identifiers.
func New(activity string, fieldIDs []string) *Translator {
	fields := make(map[string]bool, len(fieldIDs))
	for _, id := range fieldIDs {
		fields[id] = true
	}
	return &Translator{activity: activity, fields: fields}
}

// ToPredicate parses a tabular branching expression into a predicate tree.
// Expressions outside the supported grammar fail with UnsupportedExpression
// carrying the original text; references that do not resolve to an Item in
// the same Activity fail with UnresolvedFieldReference.
func (t *Translator) ToPredicate(field, expr string) (parser.Expr, error) {
	return t.parse(field, expr)
}

// FromPredicate parses a graph predicate expression back into a tree. Both
// surfaces share the grammar, so the same checks apply.
func (t *Translator) FromPredicate(field, expr string) (parser.Expr, error) {
	return t.parse(field, expr)
}

// TabularString renders the predicate in the tabular branching-logic syntax.
func TabularString(e parser.Expr) string { return parser.Tabular(e) }

// GraphString renders the predicate in the graph syntax.
func GraphString(e parser.Expr) string { return parser.Graph(e) }

func (t *Translator) parse(field, expr string) (parser.Expr, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, cverr.New(cverr.UnsupportedExpression, t.activity, field,
			"empty branching expression")
	}

	tree, err := parser.ParseExpression(trimmed)
	if err != nil {
		return nil, cverr.New(cverr.UnsupportedExpression, t.activity, field,
			"cannot parse branching expression: %v", err).WithToken(trimmed)
	}
	if err := t.checkSupported(field, tree, trimmed); err != nil {
		return nil, err
	}
	return tree, nil
}

// checkSupported enforces the supported predicate grammar: comparisons
// between a field reference and a literal, combined with and/or, grouping,
// and negation; nothing else.
func (t *Translator) checkSupported(field string, e parser.Expr, raw string) error {
	switch n := e.(type) {
	case *parser.CompareExpr:
		ref, ok := n.Left.(*parser.FieldRefExpr)
		if !ok {
			// Literal-on-the-left comparisons are accepted mirrored input.
			if _, lit := n.Left.(*parser.LiteralExpr); lit {
				if ref2, ok2 := n.Right.(*parser.FieldRefExpr); ok2 {
					return t.resolve(field, ref2.Name, raw)
				}
			}
			return t.unsupported(field, raw, "comparison must reference a field")
		}
		if _, ok := n.Right.(*parser.LiteralExpr); !ok {
			return t.unsupported(field, raw, "comparison must compare a field against a literal")
		}
		return t.resolve(field, ref.Name, raw)

	case *parser.LogicalExpr:
		if err := t.checkSupported(field, n.Left, raw); err != nil {
			return err
		}
		return t.checkSupported(field, n.Right, raw)

	case *parser.UnaryExpr:
		if n.Operator != lexer.TOKEN_NOT {
			return t.unsupported(field, raw, "arithmetic is not a predicate")
		}
		return t.checkSupported(field, n.Operand, raw)

	default:
		return t.unsupported(field, raw, "expression is not a comparison")
	}
}

// resolve checks a reference against the activity's field set. A mangled
// checkbox reference (field___3) resolves through its base field.
func (t *Translator) resolve(field, name, raw string) error {
	if t.fields[name] {
		return nil
	}
	if i := strings.LastIndex(name, "___"); i > 0 && t.fields[name[:i]] {
		return nil
	}
	return cverr.New(cverr.UnresolvedFieldReference, t.activity, field,
		"branching logic references unknown field %q", name).WithToken(raw)
}

func (t *Translator) unsupported(field, raw, detail string) error {
	return cverr.New(cverr.UnsupportedExpression, t.activity, field,
		"unsupported branching expression: %s", detail).WithToken(raw)
}
