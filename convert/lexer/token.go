// Package lexer tokenizes the branching-logic and calculation mini-language.
// Both surface syntaxes share one token set: the tabular form writes
// [field] = '1' and [other] > 2, the graph form writes field == '1' && other > 2.
// The lexer accepts either; printers pick a surface on the way out.
package lexer

import "fmt"

// TokenType identifies the kind of a lexical token.
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ERROR

	// Literals
	TOKEN_IDENTIFIER
	TOKEN_FIELD_REF // bracketed reference: [field] or [field(3)]
	TOKEN_INT_LITERAL
	TOKEN_FLOAT_LITERAL
	TOKEN_STRING_LITERAL
	TOKEN_TRUE
	TOKEN_FALSE

	// Comparison operators. Both surfaces normalize to one token each:
	// "=" and "==" scan as TOKEN_EQUAL; "<>" and "!=" as TOKEN_NOT_EQUAL.
	TOKEN_EQUAL
	TOKEN_NOT_EQUAL
	TOKEN_LESS
	TOKEN_LESS_EQUAL
	TOKEN_GREATER
	TOKEN_GREATER_EQUAL

	// Logical operators ("and"/"&&", "or"/"||", "not"/"!")
	TOKEN_AND
	TOKEN_OR
	TOKEN_NOT

	// Arithmetic operators
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH

	// Delimiters
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_COMMA
)

// Token is a single lexical token.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{} // int64, float64 or string for literal tokens
	Column  int         // 1-based column in the expression
}

// String returns a string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_ERROR:
		return "ERROR"
	case TOKEN_IDENTIFIER:
		return "IDENTIFIER"
	case TOKEN_FIELD_REF:
		return "FIELD_REF"
	case TOKEN_INT_LITERAL:
		return "INT_LITERAL"
	case TOKEN_FLOAT_LITERAL:
		return "FLOAT_LITERAL"
	case TOKEN_STRING_LITERAL:
		return "STRING_LITERAL"
	case TOKEN_TRUE:
		return "TRUE"
	case TOKEN_FALSE:
		return "FALSE"
	case TOKEN_EQUAL:
		return "EQUAL"
	case TOKEN_NOT_EQUAL:
		return "NOT_EQUAL"
	case TOKEN_LESS:
		return "LESS"
	case TOKEN_LESS_EQUAL:
		return "LESS_EQUAL"
	case TOKEN_GREATER:
		return "GREATER"
	case TOKEN_GREATER_EQUAL:
		return "GREATER_EQUAL"
	case TOKEN_AND:
		return "AND"
	case TOKEN_OR:
		return "OR"
	case TOKEN_NOT:
		return "NOT"
	case TOKEN_PLUS:
		return "PLUS"
	case TOKEN_MINUS:
		return "MINUS"
	case TOKEN_STAR:
		return "STAR"
	case TOKEN_SLASH:
		return "SLASH"
	case TOKEN_LPAREN:
		return "LPAREN"
	case TOKEN_RPAREN:
		return "RPAREN"
	case TOKEN_COMMA:
		return "COMMA"
	default:
		return "UNKNOWN"
	}
}

// String returns a string representation of the token.
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s(%v) [%d]", t.Type, t.Literal, t.Column)
	}
	return fmt.Sprintf("%s(%s) [%d]", t.Type, t.Lexeme, t.Column)
}

// LexError is a tokenization error.
type LexError struct {
	Message string
	Column  int
}

// Error implements the error interface.
func (e LexError) Error() string {
	return fmt.Sprintf("column %d: %s", e.Column, e.Message)
}
