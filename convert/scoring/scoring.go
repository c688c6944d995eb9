// Package scoring translates calculated-field expressions into score
// specifications. Sum and mean idioms are recognized structurally so
// downstream consumers can compute them without an expression evaluator;
// recognition is best-effort but never wrong: anything ambiguous falls back
// to the unstructured form unchanged.
package scoring

import (
	"strings"

	"github.com/reproforge/reproconv/convert/lexer"
	"github.com/reproforge/reproconv/convert/parser"
)

// Kind classifies a score specification.
type Kind int

const (
	// Sum is a structured sum over named fields.
	Sum Kind = iota
	// Mean is a structured mean over named fields.
	Mean
	// Formula is an expression over the whitelisted operators (+ - * /,
	// parentheses, field references, numeric literals), normalized but not
	// structurally recognized.
	Formula
	// Unstructured is anything else, preserved verbatim.
	Unstructured
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	case Formula:
		return "formula"
	default:
		return "unstructured"
	}
}

// Spec is a named score computation over a subset of an activity's items.
type Spec struct {
	Kind    Kind
	Fields  []string // referenced fields, for Sum and Mean
	Formula string   // normalized graph-syntax expression, for Formula
	Raw     string   // original text, always retained
}

// ToSpec translates a calculation expression. It is total: every input
// produces a Spec, with Unstructured as the fallback.
func ToSpec(expr string) Spec {
	raw := strings.TrimSpace(expr)
	spec := Spec{Kind: Unstructured, Raw: raw}
	if raw == "" {
		return spec
	}

	tree, err := parser.ParseExpression(raw)
	if err != nil {
		return spec
	}

	if fields, ok := recognizeCall(tree, "sum"); ok {
		return Spec{Kind: Sum, Fields: fields, Raw: raw}
	}
	if fields, ok := recognizeCall(tree, "mean"); ok {
		return Spec{Kind: Mean, Fields: fields, Raw: raw}
	}
	if fields, ok := recognizeSumChain(tree); ok {
		return Spec{Kind: Sum, Fields: fields, Raw: raw}
	}
	if fields, ok := recognizeMeanQuotient(tree); ok {
		return Spec{Kind: Mean, Fields: fields, Raw: raw}
	}
	if onlyWhitelisted(tree) {
		return Spec{Kind: Formula, Formula: parser.Graph(tree), Fields: parser.Fields(tree), Raw: raw}
	}
	return spec
}

// FromSpec renders the specification back into the tabular calculation
// syntax. Unstructured specs come back verbatim.
func FromSpec(s Spec) string {
	switch s.Kind {
	case Sum:
		return "sum(" + joinRefs(s.Fields) + ")"
	case Mean:
		return "mean(" + joinRefs(s.Fields) + ")"
	case Formula:
		tree, err := parser.ParseExpression(s.Formula)
		if err != nil {
			return s.Raw
		}
		return parser.Tabular(tree)
	default:
		return s.Raw
	}
}

// Expression returns the graph-syntax expression for the spec, used when
// embedding it in a compute entry.
func (s Spec) Expression() string {
	switch s.Kind {
	case Sum:
		return "sum(" + strings.Join(s.Fields, ", ") + ")"
	case Mean:
		return "mean(" + strings.Join(s.Fields, ", ") + ")"
	case Formula:
		return s.Formula
	default:
		return s.Raw
	}
}

// recognizeCall matches fn([a], [b], ...) with at least one argument and
// every argument a plain field reference.
func recognizeCall(e parser.Expr, fn string) ([]string, bool) {
	call, ok := e.(*parser.CallExpr)
	if !ok || call.Function != fn || len(call.Arguments) == 0 {
		return nil, false
	}
	fields := make([]string, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		ref, ok := arg.(*parser.FieldRefExpr)
		if !ok {
			return nil, false
		}
		fields = append(fields, ref.Name)
	}
	return fields, true
}

// recognizeSumChain matches [a] + [b] + ... over two or more distinct fields
// and nothing else. A single reference or a mixed expression is not a sum.
func recognizeSumChain(e parser.Expr) ([]string, bool) {
	fields, ok := collectAddends(e)
	if !ok || len(fields) < 2 {
		return nil, false
	}
	return fields, true
}

// recognizeMeanQuotient matches ([a] + [b] + ...) / n where the literal
// divisor equals the number of summed fields. Any other divisor means the
// expression is not a mean, and mis-recognizing it would be a correctness
// bug, so it falls through.
func recognizeMeanQuotient(e parser.Expr) ([]string, bool) {
	div, ok := e.(*parser.ArithExpr)
	if !ok || div.Operator != lexer.TOKEN_SLASH {
		return nil, false
	}
	lit, ok := div.Right.(*parser.LiteralExpr)
	if !ok {
		return nil, false
	}
	n, ok := lit.Value.(int64)
	if !ok {
		return nil, false
	}
	fields, ok := collectAddends(div.Left)
	if !ok || len(fields) < 2 || int64(len(fields)) != n {
		return nil, false
	}
	return fields, true
}

// collectAddends flattens a +-chain of field references, left to right.
func collectAddends(e parser.Expr) ([]string, bool) {
	switch n := e.(type) {
	case *parser.FieldRefExpr:
		return []string{n.Name}, true
	case *parser.ArithExpr:
		if n.Operator != lexer.TOKEN_PLUS {
			return nil, false
		}
		left, ok := collectAddends(n.Left)
		if !ok {
			return nil, false
		}
		right, ok := collectAddends(n.Right)
		if !ok {
			return nil, false
		}
		return append(left, right...), true
	default:
		return nil, false
	}
}

// onlyWhitelisted reports whether the expression uses only arithmetic
// operators, field references and numeric literals.
func onlyWhitelisted(e parser.Expr) bool {
	switch n := e.(type) {
	case *parser.FieldRefExpr:
		return true
	case *parser.LiteralExpr:
		switch n.Value.(type) {
		case int64, float64:
			return true
		}
		return false
	case *parser.ArithExpr:
		return onlyWhitelisted(n.Left) && onlyWhitelisted(n.Right)
	case *parser.UnaryExpr:
		return n.Operator == lexer.TOKEN_MINUS && onlyWhitelisted(n.Operand)
	default:
		return false
	}
}

func joinRefs(fields []string) string {
	refs := make([]string, 0, len(fields))
	for _, f := range fields {
		refs = append(refs, "["+f+"]")
	}
	return strings.Join(refs, ", ")
}
