package expr

import (
	"fmt"
	"strconv"
)

// SyntaxError reports invalid input together with its 1-indexed
// position.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Parser builds the expression tree with one token of lookahead. A
// parser is used once, by calling Parse.
//
// The grammar:
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/') factor)*
//	factor := NUMBER | '(' expr ')' | ('+' | '-') factor
type Parser struct {
	l   *Lexer
	cur Token
}

// Parse parses input as a single expression and returns its tree.
func Parse(input string) (Node, error) {
	p := &Parser{l: NewLexer(input)}
	if err := p.next(); err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != EOF {
		return nil, p.syntaxError("trailing input after expression")
	}
	return node, nil
}

func (p *Parser) next() error {
	tok, err := p.l.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) syntaxError(format string, args ...any) error {
	return &SyntaxError{
		Msg:    fmt.Sprintf(format, args...),
		Line:   p.cur.Line,
		Column: p.cur.Column,
	}
}

func describe(tok Token) string {
	if tok.Type == EOF {
		return "end of input"
	}
	return tok.Literal
}

func (p *Parser) parseExpr() (Node, error) {
	node, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == PLUS || p.cur.Type == MINUS {
		op := p.cur.Type
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node = &Binary{Op: op, L: node, R: right}
	}
	return node, nil
}

func (p *Parser) parseTerm() (Node, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == ASTERISK || p.cur.Type == SLASH {
		op := p.cur.Type
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		node = &Binary{Op: op, L: node, R: right}
	}
	return node, nil
}

func (p *Parser) parseFactor() (Node, error) {
	tok := p.cur
	switch tok.Type {
	case PLUS, MINUS:
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: tok.Type, X: x}, nil
	case NUMBER:
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, &SyntaxError{
				Msg:    fmt.Sprintf("integer %s does not fit in 64 bits", tok.Literal),
				Line:   tok.Line,
				Column: tok.Column,
			}
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Number{Value: value}, nil
	case LPAREN:
		if err := p.next(); err != nil {
			return nil, err
		}
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != RPAREN {
			return nil, p.syntaxError("expected ), got %s", describe(p.cur))
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, p.syntaxError("unexpected token %s", describe(tok))
	}
}
