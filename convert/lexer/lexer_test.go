package lexer

import (
	"testing"
)

// TestOperators tests tokenization of all operators in both surface syntaxes
func TestOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"=", TOKEN_EQUAL},
		{"==", TOKEN_EQUAL},
		{"<>", TOKEN_NOT_EQUAL},
		{"!=", TOKEN_NOT_EQUAL},
		{"<", TOKEN_LESS},
		{"<=", TOKEN_LESS_EQUAL},
		{">", TOKEN_GREATER},
		{">=", TOKEN_GREATER_EQUAL},
		{"and", TOKEN_AND},
		{"AND", TOKEN_AND},
		{"&&", TOKEN_AND},
		{"or", TOKEN_OR},
		{"||", TOKEN_OR},
		{"not", TOKEN_NOT},
		{"!", TOKEN_NOT},
		{"+", TOKEN_PLUS},
		{"-", TOKEN_MINUS},
		{"*", TOKEN_STAR},
		{"/", TOKEN_SLASH},
		{"(", TOKEN_LPAREN},
		{")", TOKEN_RPAREN},
		{",", TOKEN_COMMA},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, errors := New(tt.input).ScanTokens()
			if len(errors) > 0 {
				t.Fatalf("Unexpected errors: %v", errors)
			}
			if len(tokens) != 2 {
				t.Fatalf("Expected 2 tokens (op + EOF), got %d", len(tokens))
			}
			if tokens[0].Type != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, tokens[0].Type)
			}
		})
	}
}

// TestFieldReferences tests bracketed field reference scanning
func TestFieldReferences(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[age]", "age"},
		{"[ field_a ]", "field_a"},
		{"[meds(3)]", "meds___3"},
		{"[meds(99)]", "meds___99"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, errors := New(tt.input).ScanTokens()
			if len(errors) > 0 {
				t.Fatalf("Unexpected errors: %v", errors)
			}
			if tokens[0].Type != TOKEN_FIELD_REF {
				t.Fatalf("Expected FIELD_REF, got %s", tokens[0].Type)
			}
			if got := tokens[0].Literal.(string); got != tt.expected {
				t.Errorf("Expected literal %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestLiterals tests number, string and boolean literals
func TestLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
		literal  interface{}
	}{
		{"42", TOKEN_INT_LITERAL, int64(42)},
		{"3.14", TOKEN_FLOAT_LITERAL, 3.14},
		{"'hello'", TOKEN_STRING_LITERAL, "hello"},
		{`"hello"`, TOKEN_STRING_LITERAL, "hello"},
		{`'don\'t'`, TOKEN_STRING_LITERAL, "don't"},
		{"true", TOKEN_TRUE, nil},
		{"false", TOKEN_FALSE, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, errors := New(tt.input).ScanTokens()
			if len(errors) > 0 {
				t.Fatalf("Unexpected errors: %v", errors)
			}
			if tokens[0].Type != tt.expected {
				t.Fatalf("Expected %s, got %s", tt.expected, tokens[0].Type)
			}
			if tt.literal != nil && tokens[0].Literal != tt.literal {
				t.Errorf("Expected literal %v, got %v", tt.literal, tokens[0].Literal)
			}
		})
	}
}

// TestFullExpression tests a realistic branching expression end to end
func TestFullExpression(t *testing.T) {
	tokens, errors := New("[field_a] = '1' and [field_b] > 2").ScanTokens()
	if len(errors) > 0 {
		t.Fatalf("Unexpected errors: %v", errors)
	}

	expected := []TokenType{
		TOKEN_FIELD_REF, TOKEN_EQUAL, TOKEN_STRING_LITERAL,
		TOKEN_AND,
		TOKEN_FIELD_REF, TOKEN_GREATER, TOKEN_INT_LITERAL,
		TOKEN_EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("Token %d: expected %s, got %s", i, want, tokens[i].Type)
		}
	}
}

// TestGraphSurface tests that the graph syntax scans to the same token types
func TestGraphSurface(t *testing.T) {
	tabular, errs1 := New("[a] = '1' and [b] > 2").ScanTokens()
	graph, errs2 := New("a == '1' && b > 2").ScanTokens()
	if len(errs1) > 0 || len(errs2) > 0 {
		t.Fatalf("Unexpected errors: %v %v", errs1, errs2)
	}
	if len(tabular) != len(graph) {
		t.Fatalf("Token counts differ: %d vs %d", len(tabular), len(graph))
	}
	for i := range tabular {
		want := tabular[i].Type
		// Bracketed refs scan as FIELD_REF, bare names as IDENTIFIER; the
		// parser treats both as references.
		if want == TOKEN_FIELD_REF {
			want = TOKEN_IDENTIFIER
		}
		if graph[i].Type != want {
			t.Errorf("Token %d: tabular %s vs graph %s", i, tabular[i].Type, graph[i].Type)
		}
	}
}

// TestErrors tests that malformed input produces errors, not panics
func TestErrors(t *testing.T) {
	tests := []string{
		"[unterminated",
		"[]",
		"'unterminated",
		"&",
		"|",
		"@",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, errors := New(input).ScanTokens()
			if len(errors) == 0 {
				t.Errorf("Expected error for %q, got none", input)
			}
		})
	}
}

// TestColumns tests that tokens carry 1-based columns
func TestColumns(t *testing.T) {
	tokens, errors := New("[a] = 1").ScanTokens()
	if len(errors) > 0 {
		t.Fatalf("Unexpected errors: %v", errors)
	}
	if tokens[0].Column != 1 {
		t.Errorf("Expected column 1, got %d", tokens[0].Column)
	}
	if tokens[1].Column != 5 {
		t.Errorf("Expected column 5 for '=', got %d", tokens[1].Column)
	}
}
