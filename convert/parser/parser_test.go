package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reproforge/reproconv/convert/lexer"
)

func TestParseComparison(t *testing.T) {
	expr, err := ParseExpression("[age] >= 18")
	require.NoError(t, err)

	cmp, ok := expr.(*CompareExpr)
	require.True(t, ok, "expected CompareExpr, got %T", expr)
	assert.Equal(t, lexer.TOKEN_GREATER_EQUAL, cmp.Operator)

	ref, ok := cmp.Left.(*FieldRefExpr)
	require.True(t, ok)
	assert.Equal(t, "age", ref.Name)

	lit, ok := cmp.Right.(*LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, int64(18), lit.Value)
}

func TestPrecedence(t *testing.T) {
	// or binds weaker than and: a = 1 or b = 2 and c = 3
	// parses as a = 1 or (b = 2 and c = 3).
	expr, err := ParseExpression("[a] = 1 or [b] = 2 and [c] = 3")
	require.NoError(t, err)

	or, ok := expr.(*LogicalExpr)
	require.True(t, ok)
	assert.Equal(t, lexer.TOKEN_OR, or.Operator)

	and, ok := or.Right.(*LogicalExpr)
	require.True(t, ok)
	assert.Equal(t, lexer.TOKEN_AND, and.Operator)
}

func TestArithmeticPrecedence(t *testing.T) {
	// [a] + [b] * 2 parses as [a] + ([b] * 2).
	expr, err := ParseExpression("[a] + [b] * 2")
	require.NoError(t, err)

	add, ok := expr.(*ArithExpr)
	require.True(t, ok)
	assert.Equal(t, lexer.TOKEN_PLUS, add.Operator)

	mul, ok := add.Right.(*ArithExpr)
	require.True(t, ok)
	assert.Equal(t, lexer.TOKEN_STAR, mul.Operator)
}

func TestBareIdentifierIsFieldRef(t *testing.T) {
	expr, err := ParseExpression("age == 18")
	require.NoError(t, err)

	cmp, ok := expr.(*CompareExpr)
	require.True(t, ok)
	ref, ok := cmp.Left.(*FieldRefExpr)
	require.True(t, ok)
	assert.Equal(t, "age", ref.Name)
}

func TestBothSurfacesParseEqual(t *testing.T) {
	tabular, err := ParseExpression("[a] = '1' and [b] > 2")
	require.NoError(t, err)
	graph, err := ParseExpression("a == '1' && b > 2")
	require.NoError(t, err)

	assert.Equal(t, tabular, graph)
}

func TestCall(t *testing.T) {
	expr, err := ParseExpression("sum([a], [b], [c])")
	require.NoError(t, err)

	call, ok := expr.(*CallExpr)
	require.True(t, ok)
	assert.Equal(t, "sum", call.Function)
	assert.Len(t, call.Arguments, 3)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"[a] =",
		"[a] = 1 and",
		"([a] = 1",
		"[a] = 1 [b]",
		"sum([a],",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseExpression(input)
			assert.Error(t, err)
		})
	}
}

// TestPrintRoundTrip verifies that printing is a canonical normalization:
// re-parsing a printed expression yields an equal tree, in both surfaces.
func TestPrintRoundTrip(t *testing.T) {
	exprs := []string{
		"[a] = 1",
		"[a] = '1' and [b] > 2",
		"[a] = 1 or [b] = 2 and [c] = 3",
		"([a] = 1 or [b] = 2) and [c] = 3",
		"not ([a] = 1)",
		"not ([a] = 1 and [b] = 2)",
		"[meds(3)] = 1",
		"[a] <> 'x'",
		"[a] + [b] * 2",
		"([a] + [b]) / 2",
		"sum([a], [b])",
		"-[a] + 1",
	}

	for _, input := range exprs {
		t.Run(input, func(t *testing.T) {
			tree, err := ParseExpression(input)
			require.NoError(t, err)

			reparsedTab, err := ParseExpression(Tabular(tree))
			require.NoError(t, err, "tabular print %q did not re-parse", Tabular(tree))
			assert.Equal(t, tree, reparsedTab, "tabular round trip for %q", input)

			reparsedGraph, err := ParseExpression(Graph(tree))
			require.NoError(t, err, "graph print %q did not re-parse", Graph(tree))
			assert.Equal(t, tree, reparsedGraph, "graph round trip for %q", input)
		})
	}
}

func TestPrintSurfaces(t *testing.T) {
	tests := []struct {
		input   string
		tabular string
		graph   string
	}{
		{"[a]='1' and [b]>2", "[a] = '1' and [b] > 2", "a == '1' && b > 2"},
		{"[a] != 2", "[a] <> 2", "a != 2"},
		{"[meds(3)] = 1", "[meds(3)] = 1", "meds___3 == 1"},
		{"not([a]=1)", "not ([a] = 1)", "!(a == 1)"},
		{"[a]=1 or ([b]=2 and [c]=3)", "[a] = 1 or [b] = 2 and [c] = 3", "a == 1 || b == 2 && c == 3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := ParseExpression(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.tabular, Tabular(tree))
			assert.Equal(t, tt.graph, Graph(tree))
		})
	}
}

func TestFields(t *testing.T) {
	tree, err := ParseExpression("[a] = 1 and ([b] > 2 or [a] < 5)")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, Fields(tree))
}
