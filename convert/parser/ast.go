// Package parser turns branching-logic and calculation expressions into an
// explicit expression tree. Translation never manipulates raw strings: the
// tree is the only representation components exchange, and UnparsedExpr is
// the first-class escape hatch that keeps translation total over all inputs.
package parser

import "github.com/reproforge/reproconv/convert/lexer"

// Expr is the interface for all expression nodes.
type Expr interface {
	exprNode()
}

// FieldRefExpr references another field's value by identifier.
type FieldRefExpr struct {
	Name string
}

func (e *FieldRefExpr) exprNode() {}

// LiteralExpr is a literal value: int64, float64, string or bool.
type LiteralExpr struct {
	Value interface{}
}

func (e *LiteralExpr) exprNode() {}

// CompareExpr is a comparison between two operands.
// Operator is one of EQUAL, NOT_EQUAL, LESS, LESS_EQUAL, GREATER, GREATER_EQUAL.
type CompareExpr struct {
	Left     Expr
	Operator lexer.TokenType
	Right    Expr
}

func (e *CompareExpr) exprNode() {}

// LogicalExpr combines two boolean operands with AND or OR.
type LogicalExpr struct {
	Left     Expr
	Operator lexer.TokenType
	Right    Expr
}

func (e *LogicalExpr) exprNode() {}

// UnaryExpr is a prefix operation: NOT negates a boolean operand, MINUS a
// numeric one.
type UnaryExpr struct {
	Operator lexer.TokenType
	Operand  Expr
}

func (e *UnaryExpr) exprNode() {}

// ArithExpr is an arithmetic operation (PLUS, MINUS, STAR, SLASH).
type ArithExpr struct {
	Left     Expr
	Operator lexer.TokenType
	Right    Expr
}

func (e *ArithExpr) exprNode() {}

// CallExpr is a named function application, e.g. sum([a], [b]).
type CallExpr struct {
	Function  string
	Arguments []Expr
}

func (e *CallExpr) exprNode() {}

// UnparsedExpr carries expression text that is outside the supported grammar,
// verbatim, so a human can resolve it later. It never round-trips through the
// printers; callers emit Raw unchanged.
type UnparsedExpr struct {
	Raw string
}

func (e *UnparsedExpr) exprNode() {}

// Fields returns the identifiers of every field the expression references,
// deduplicated, in first-reference order.
func Fields(e Expr) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *FieldRefExpr:
			if !seen[n.Name] {
				seen[n.Name] = true
				out = append(out, n.Name)
			}
		case *CompareExpr:
			walk(n.Left)
			walk(n.Right)
		case *LogicalExpr:
			walk(n.Left)
			walk(n.Right)
		case *UnaryExpr:
			walk(n.Operand)
		case *ArithExpr:
			walk(n.Left)
			walk(n.Right)
		case *CallExpr:
			for _, a := range n.Arguments {
				walk(a)
			}
		}
	}
	walk(e)
	return out
}
