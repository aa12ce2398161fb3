package expr

// Type describes the type of a token as a string.
type Type string

// Token types
const (
	NUMBER   = "NUMBER"
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	LPAREN   = "("
	RPAREN   = ")"
	EOF      = "EOF"
)

// Token is one token lexed from the input. Line and Column are
// 1-indexed.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
}
