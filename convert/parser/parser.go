package parser

import (
	"fmt"
	"strings"

	"github.com/reproforge/reproconv/convert/lexer"
)

// ParseError is a syntax error with the offending token.
type ParseError struct {
	Message string
	Token   lexer.Token
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("column %d: %s", e.Token.Column, e.Message)
}

// Parser is a recursive-descent parser over a token stream.
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []ParseError
}

// New creates a Parser for the given tokens.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses one complete expression; trailing tokens are an error.
func (p *Parser) Parse() (Expr, []ParseError) {
	expr := p.parseOr()
	if expr != nil && !p.check(lexer.TOKEN_EOF) {
		p.addError("unexpected trailing input starting at %q", p.peek().Lexeme)
	}
	return expr, p.errors
}

// ParseExpression lexes and parses source in one step. The returned error
// carries the first lexing or parsing failure.
func ParseExpression(source string) (Expr, error) {
	tokens, lexErrs := lexer.New(source).ScanTokens()
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}
	p := New(tokens)
	expr, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		return nil, parseErrs[0]
	}
	if expr == nil {
		return nil, ParseError{Message: "empty expression"}
	}
	return expr, nil
}

// Precedence: or < and < not < comparison < additive < multiplicative < unary.

func (p *Parser) parseOr() Expr {
	left := p.parseAnd()
	for left != nil && p.match(lexer.TOKEN_OR) {
		right := p.parseAnd()
		if right == nil {
			p.addError("expected expression after 'or'")
			return nil
		}
		left = &LogicalExpr{Left: left, Operator: lexer.TOKEN_OR, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() Expr {
	left := p.parseNot()
	for left != nil && p.match(lexer.TOKEN_AND) {
		right := p.parseNot()
		if right == nil {
			p.addError("expected expression after 'and'")
			return nil
		}
		left = &LogicalExpr{Left: left, Operator: lexer.TOKEN_AND, Right: right}
	}
	return left
}

func (p *Parser) parseNot() Expr {
	if p.match(lexer.TOKEN_NOT) {
		operand := p.parseNot()
		if operand == nil {
			p.addError("expected expression after 'not'")
			return nil
		}
		return &UnaryExpr{Operator: lexer.TOKEN_NOT, Operand: operand}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() Expr {
	left := p.parseAdditive()
	if left == nil {
		return nil
	}
	if p.matchAny(lexer.TOKEN_EQUAL, lexer.TOKEN_NOT_EQUAL,
		lexer.TOKEN_LESS, lexer.TOKEN_LESS_EQUAL,
		lexer.TOKEN_GREATER, lexer.TOKEN_GREATER_EQUAL) {
		op := p.previous().Type
		right := p.parseAdditive()
		if right == nil {
			p.addError("expected expression after comparison operator")
			return nil
		}
		return &CompareExpr{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() Expr {
	left := p.parseMultiplicative()
	for left != nil && p.matchAny(lexer.TOKEN_PLUS, lexer.TOKEN_MINUS) {
		op := p.previous().Type
		right := p.parseMultiplicative()
		if right == nil {
			p.addError("expected expression after arithmetic operator")
			return nil
		}
		left = &ArithExpr{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() Expr {
	left := p.parseUnary()
	for left != nil && p.matchAny(lexer.TOKEN_STAR, lexer.TOKEN_SLASH) {
		op := p.previous().Type
		right := p.parseUnary()
		if right == nil {
			p.addError("expected expression after arithmetic operator")
			return nil
		}
		left = &ArithExpr{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() Expr {
	if p.match(lexer.TOKEN_MINUS) {
		operand := p.parseUnary()
		if operand == nil {
			p.addError("expected expression after unary minus")
			return nil
		}
		return &UnaryExpr{Operator: lexer.TOKEN_MINUS, Operand: operand}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() Expr {
	switch {
	case p.check(lexer.TOKEN_INT_LITERAL), p.check(lexer.TOKEN_FLOAT_LITERAL),
		p.check(lexer.TOKEN_STRING_LITERAL):
		tok := p.advance()
		return &LiteralExpr{Value: tok.Literal}

	case p.match(lexer.TOKEN_TRUE):
		return &LiteralExpr{Value: true}

	case p.match(lexer.TOKEN_FALSE):
		return &LiteralExpr{Value: false}

	case p.check(lexer.TOKEN_FIELD_REF):
		tok := p.advance()
		return &FieldRefExpr{Name: tok.Literal.(string)}

	case p.check(lexer.TOKEN_IDENTIFIER):
		tok := p.advance()
		name := tok.Literal.(string)
		if p.match(lexer.TOKEN_LPAREN) {
			return p.parseCallArgs(name)
		}
		// A bare identifier in the graph surface syntax is a field reference.
		return &FieldRefExpr{Name: name}

	case p.match(lexer.TOKEN_LPAREN):
		expr := p.parseOr()
		if expr == nil {
			return nil
		}
		if !p.match(lexer.TOKEN_RPAREN) {
			p.addError("expected ')' after expression")
			return nil
		}
		return expr

	default:
		p.addError("expected expression, got %s", p.peek().Type)
		return nil
	}
}

func (p *Parser) parseCallArgs(name string) Expr {
	call := &CallExpr{Function: strings.ToLower(name)}
	if p.match(lexer.TOKEN_RPAREN) {
		return call
	}
	for {
		arg := p.parseOr()
		if arg == nil {
			return nil
		}
		call.Arguments = append(call.Arguments, arg)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	if !p.match(lexer.TOKEN_RPAREN) {
		p.addError("expected ')' after arguments to %s", name)
		return nil
	}
	return call
}

// --- Token helpers ---

func (p *Parser) match(tokenType lexer.TokenType) bool {
	if p.check(tokenType) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchAny(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.peek().Type == tokenType
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.current]
	if tok.Type != lexer.TOKEN_EOF {
		p.current++
	}
	return tok
}

func (p *Parser) addError(format string, args ...interface{}) {
	p.errors = append(p.errors, ParseError{
		Message: fmt.Sprintf(format, args...),
		Token:   p.peek(),
	})
}
