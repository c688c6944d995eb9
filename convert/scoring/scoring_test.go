package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumChain(t *testing.T) {
	spec := ToSpec("[field_a] + [field_b]")
	require.Equal(t, Sum, spec.Kind)
	assert.Equal(t, []string{"field_a", "field_b"}, spec.Fields)
}

func TestSumCall(t *testing.T) {
	spec := ToSpec("sum([field_a], [field_b], [field_c])")
	require.Equal(t, Sum, spec.Kind)
	assert.Equal(t, []string{"field_a", "field_b", "field_c"}, spec.Fields)
}

func TestMeanCall(t *testing.T) {
	spec := ToSpec("mean([a], [b])")
	require.Equal(t, Mean, spec.Kind)
	assert.Equal(t, []string{"a", "b"}, spec.Fields)
}

func TestMeanQuotient(t *testing.T) {
	spec := ToSpec("([a] + [b] + [c]) / 3")
	require.Equal(t, Mean, spec.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, spec.Fields)
}

// TestNoMisrecognition covers the never-mis-recognize policy: anything
// ambiguous must fall through to formula or unstructured, never to a wrong
// structured reading.
func TestNoMisrecognition(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want Kind
	}{
		{"single field is not a sum", "[a]", Formula},
		{"mixed arithmetic is not a sum", "[a] + [b] * 2", Formula},
		{"subtraction is not a sum", "[a] - [b]", Formula},
		{"wrong divisor is not a mean", "([a] + [b]) / 3", Formula},
		{"non-literal divisor is not a mean", "([a] + [b]) / [c]", Formula},
		{"float divisor is not a mean", "([a] + [b]) / 2.0", Formula},
		{"sum with non-ref argument", "sum([a], 2)", Unstructured},
		{"conditional is unstructured", "if([a] > 1, 1, 0)", Unstructured},
		{"comparison is unstructured", "[a] > 1", Unstructured},
		{"unparseable is unstructured", "datediff([a], [b], 'y'", Unstructured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := ToSpec(tt.expr)
			assert.Equal(t, tt.want, spec.Kind, "expr %q", tt.expr)
			assert.Equal(t, tt.expr, spec.Raw)
		})
	}
}

func TestFromSpec(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"[a] + [b]", "sum([a], [b])"},
		{"sum([a], [b])", "sum([a], [b])"},
		{"mean([a], [b])", "mean([a], [b])"},
		{"([a] + [b]) / 2", "mean([a], [b])"},
		{"[a] * 2 + [b]", "[a] * 2 + [b]"},
		{"if([a] > 1, 1, 0)", "if([a] > 1, 1, 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, FromSpec(ToSpec(tt.expr)))
		})
	}
}

func TestExpression(t *testing.T) {
	spec := ToSpec("[field_a] + [field_b]")
	assert.Equal(t, "sum(field_a, field_b)", spec.Expression())

	spec = ToSpec("[a] * 2 + [b]")
	require.Equal(t, Formula, spec.Kind)
	assert.Equal(t, "a * 2 + b", spec.Expression())
}

func TestEmpty(t *testing.T) {
	spec := ToSpec("   ")
	assert.Equal(t, Unstructured, spec.Kind)
	assert.Equal(t, "", spec.Raw)
}
