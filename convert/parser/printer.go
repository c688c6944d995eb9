package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reproforge/reproconv/convert/lexer"
)

// Surface selects which syntax a printed expression uses.
type Surface int

const (
	// SurfaceTabular prints [field] = '1' and [other] > 2, with and/or/not.
	SurfaceTabular Surface = iota
	// SurfaceGraph prints field == '1' && other > 2, with &&/||/!.
	SurfaceGraph
)

// Printing is the canonical normalization: single spaces around binary
// operators, parentheses only where precedence requires them. Re-parsing a
// printed expression always yields an equal tree.

const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precAdd
	precMul
	precUnary
	precPrimary
)

// Tabular renders the expression in the tabular branching-logic syntax.
func Tabular(e Expr) string { return print(e, SurfaceTabular, 0) }

// Graph renders the expression in the graph predicate syntax.
func Graph(e Expr) string { return print(e, SurfaceGraph, 0) }

func print(e Expr, s Surface, parent int) string {
	switch n := e.(type) {
	case *UnparsedExpr:
		return n.Raw

	case *FieldRefExpr:
		return printFieldRef(n.Name, s)

	case *LiteralExpr:
		return printLiteral(n.Value)

	case *CompareExpr:
		out := fmt.Sprintf("%s %s %s",
			print(n.Left, s, precCompare+1),
			compareOp(n.Operator, s),
			print(n.Right, s, precCompare+1))
		return wrap(out, precCompare, parent)

	case *LogicalExpr:
		prec := precOr
		if n.Operator == lexer.TOKEN_AND {
			prec = precAnd
		}
		out := fmt.Sprintf("%s %s %s",
			print(n.Left, s, prec),
			logicalOp(n.Operator, s),
			print(n.Right, s, prec+1))
		return wrap(out, prec, parent)

	case *UnaryExpr:
		if n.Operator == lexer.TOKEN_NOT {
			// Parenthesize anything but a primary operand so the printed
			// form means the same thing to a strict-precedence evaluator.
			operand := print(n.Operand, s, precPrimary)
			if s == SurfaceGraph {
				return wrap("!"+operand, precNot, parent)
			}
			return wrap("not "+operand, precNot, parent)
		}
		return wrap("-"+print(n.Operand, s, precUnary), precUnary, parent)

	case *ArithExpr:
		prec := precAdd
		if n.Operator == lexer.TOKEN_STAR || n.Operator == lexer.TOKEN_SLASH {
			prec = precMul
		}
		out := fmt.Sprintf("%s %s %s",
			print(n.Left, s, prec),
			arithOp(n.Operator),
			print(n.Right, s, prec+1))
		return wrap(out, prec, parent)

	case *CallExpr:
		args := make([]string, 0, len(n.Arguments))
		for _, a := range n.Arguments {
			args = append(args, print(a, s, 0))
		}
		return fmt.Sprintf("%s(%s)", n.Function, strings.Join(args, ", "))

	default:
		return ""
	}
}

func wrap(out string, prec, parent int) string {
	if prec < parent {
		return "(" + out + ")"
	}
	return out
}

// printFieldRef renders a reference. The tabular surface brackets the name
// and restores the [field(3)] checkbox form from its mangled field___3 name.
func printFieldRef(name string, s Surface) string {
	if s == SurfaceGraph {
		return name
	}
	if i := strings.LastIndex(name, "___"); i > 0 {
		code := name[i+3:]
		if code != "" && isDigits(code) {
			return "[" + name[:i] + "(" + code + ")]"
		}
	}
	return "[" + name + "]"
}

func printLiteral(v interface{}) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return "'" + strings.ReplaceAll(val, "'", `\'`) + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func compareOp(op lexer.TokenType, s Surface) string {
	switch op {
	case lexer.TOKEN_EQUAL:
		if s == SurfaceGraph {
			return "=="
		}
		return "="
	case lexer.TOKEN_NOT_EQUAL:
		if s == SurfaceGraph {
			return "!="
		}
		return "<>"
	case lexer.TOKEN_LESS:
		return "<"
	case lexer.TOKEN_LESS_EQUAL:
		return "<="
	case lexer.TOKEN_GREATER:
		return ">"
	case lexer.TOKEN_GREATER_EQUAL:
		return ">="
	default:
		return "?"
	}
}

func logicalOp(op lexer.TokenType, s Surface) string {
	if op == lexer.TOKEN_AND {
		if s == SurfaceGraph {
			return "&&"
		}
		return "and"
	}
	if s == SurfaceGraph {
		return "||"
	}
	return "or"
}

func arithOp(op lexer.TokenType) string {
	switch op {
	case lexer.TOKEN_PLUS:
		return "+"
	case lexer.TOKEN_MINUS:
		return "-"
	case lexer.TOKEN_STAR:
		return "*"
	case lexer.TOKEN_SLASH:
		return "/"
	default:
		return "?"
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
