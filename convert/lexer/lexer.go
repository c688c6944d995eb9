package lexer

import (
	"strconv"
	"strings"
	"unicode"
)

// Lexer tokenizes one expression string.
type Lexer struct {
	source      []rune
	start       int
	current     int
	column      int
	startColumn int
	tokens      []Token
	errors      []LexError
}

// New creates a Lexer for the given expression.
func New(source string) *Lexer {
	return &Lexer{
		source:      []rune(source),
		column:      1,
		startColumn: 1,
		tokens:      make([]Token, 0, len(source)/4),
		errors:      make([]LexError, 0),
	}
}

// ScanTokens scans the whole expression and returns the tokens with any
// errors.
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		l.startColumn = l.column
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_EOF,
		Column: l.column,
	})
	return l.tokens, l.errors
}

func (l *Lexer) scanToken() {
	r := l.advance()

	switch r {
	case ' ', '\t', '\r', '\n':
		// skip whitespace

	case '(':
		l.addToken(TOKEN_LPAREN, nil)
	case ')':
		l.addToken(TOKEN_RPAREN, nil)
	case ',':
		l.addToken(TOKEN_COMMA, nil)
	case '+':
		l.addToken(TOKEN_PLUS, nil)
	case '-':
		l.addToken(TOKEN_MINUS, nil)
	case '*':
		l.addToken(TOKEN_STAR, nil)
	case '/':
		l.addToken(TOKEN_SLASH, nil)

	case '=':
		l.match('=') // "=" and "==" are the same comparison
		l.addToken(TOKEN_EQUAL, nil)
	case '!':
		if l.match('=') {
			l.addToken(TOKEN_NOT_EQUAL, nil)
		} else {
			l.addToken(TOKEN_NOT, nil)
		}
	case '<':
		if l.match('=') {
			l.addToken(TOKEN_LESS_EQUAL, nil)
		} else if l.match('>') {
			l.addToken(TOKEN_NOT_EQUAL, nil)
		} else {
			l.addToken(TOKEN_LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.addToken(TOKEN_GREATER_EQUAL, nil)
		} else {
			l.addToken(TOKEN_GREATER, nil)
		}
	case '&':
		if l.match('&') {
			l.addToken(TOKEN_AND, nil)
		} else {
			l.addError("unexpected character '&'")
		}
	case '|':
		if l.match('|') {
			l.addToken(TOKEN_OR, nil)
		} else {
			l.addError("unexpected character '|'")
		}

	case '[':
		l.scanFieldRef()
	case '\'', '"':
		l.scanString(r)

	default:
		switch {
		case unicode.IsDigit(r):
			l.scanNumber()
		case unicode.IsLetter(r) || r == '_':
			l.scanIdentifier()
		default:
			l.addError("unexpected character " + strconv.QuoteRune(r))
		}
	}
}

// scanFieldRef scans a bracketed field reference. The checkbox export form
// [field(3)] normalizes to the mangled name field___3, matching how exported
// data columns are named.
func (l *Lexer) scanFieldRef() {
	for !l.isAtEnd() && l.peek() != ']' {
		l.advance()
	}
	if l.isAtEnd() {
		l.addError("unterminated field reference, missing ']'")
		return
	}
	inner := strings.TrimSpace(string(l.source[l.start+1 : l.current]))
	l.advance() // consume ']'

	if inner == "" {
		l.addError("empty field reference")
		return
	}
	name := inner
	if open := strings.IndexByte(inner, '('); open > 0 && strings.HasSuffix(inner, ")") {
		code := inner[open+1 : len(inner)-1]
		name = inner[:open] + "___" + code
	}
	l.addToken(TOKEN_FIELD_REF, name)
}

func (l *Lexer) scanString(quote rune) {
	var sb strings.Builder
	for !l.isAtEnd() && l.peek() != quote {
		r := l.advance()
		if r == '\\' && !l.isAtEnd() {
			r = l.advance()
		}
		sb.WriteRune(r)
	}
	if l.isAtEnd() {
		l.addError("unterminated string literal")
		return
	}
	l.advance() // closing quote
	l.addToken(TOKEN_STRING_LITERAL, sb.String())
}

func (l *Lexer) scanNumber() {
	for unicode.IsDigit(l.peek()) {
		l.advance()
	}

	isFloat := false
	if l.peek() == '.' && unicode.IsDigit(l.peekNext()) {
		isFloat = true
		l.advance()
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}

	text := string(l.source[l.start:l.current])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.addError("invalid number literal " + text)
			return
		}
		l.addToken(TOKEN_FLOAT_LITERAL, f)
		return
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.addError("invalid number literal " + text)
		return
	}
	l.addToken(TOKEN_INT_LITERAL, i)
}

func (l *Lexer) scanIdentifier() {
	for unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_' || l.peek() == '.' {
		l.advance()
	}
	text := string(l.source[l.start:l.current])

	switch strings.ToLower(text) {
	case "and":
		l.addToken(TOKEN_AND, nil)
	case "or":
		l.addToken(TOKEN_OR, nil)
	case "not":
		l.addToken(TOKEN_NOT, nil)
	case "true":
		l.addToken(TOKEN_TRUE, nil)
	case "false":
		l.addToken(TOKEN_FALSE, nil)
	default:
		l.addToken(TOKEN_IDENTIFIER, text)
	}
}

func (l *Lexer) addToken(tokenType TokenType, literal interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tokenType,
		Lexeme:  string(l.source[l.start:l.current]),
		Literal: literal,
		Column:  l.startColumn,
	})
}

func (l *Lexer) addError(message string) {
	l.errors = append(l.errors, LexError{Message: message, Column: l.startColumn})
}

func (l *Lexer) advance() rune {
	r := l.source[l.current]
	l.current++
	l.column++
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() rune {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}
