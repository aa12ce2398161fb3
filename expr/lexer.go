package expr

import "fmt"

// Lexer splits an expression into tokens. The language is ASCII:
// integers, the four arithmetic operators, and parentheses. Anything
// else is a syntax error.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
}

// NewLexer returns a Lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// Next returns the next token. At the end of the input it returns EOF
// tokens forever.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	line, column := l.line, l.column
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Line: line, Column: column}, nil
	}
	c := l.input[l.pos]
	if c >= '0' && c <= '9' {
		return Token{Type: NUMBER, Literal: l.number(), Line: line, Column: column}, nil
	}
	var typ Type
	switch c {
	case '+':
		typ = PLUS
	case '-':
		typ = MINUS
	case '*':
		typ = ASTERISK
	case '/':
		typ = SLASH
	case '(':
		typ = LPAREN
	case ')':
		typ = RPAREN
	default:
		return Token{}, &SyntaxError{
			Msg:    fmt.Sprintf("unexpected character %q", c),
			Line:   line,
			Column: column,
		}
	}
	l.advance()
	return Token{Type: typ, Literal: string(c), Line: line, Column: column}, nil
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) number() string {
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
		l.advance()
	}
	return l.input[start:l.pos]
}
