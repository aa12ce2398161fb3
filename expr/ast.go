package expr

import "strconv"

// Node is a node in the expression tree.
type Node interface {
	String() string
	exprNode()
}

// Number is an integer literal.
type Number struct {
	Value int64
}

func (n *Number) String() string { return strconv.FormatInt(n.Value, 10) }
func (n *Number) exprNode()      {}

// Unary applies unary plus or minus to one operand.
type Unary struct {
	Op Type
	X  Node
}

func (n *Unary) String() string { return "(" + string(n.Op) + n.X.String() + ")" }
func (n *Unary) exprNode()      {}

// Binary combines two operands with an arithmetic operator.
type Binary struct {
	Op Type
	L  Node
	R  Node
}

func (n *Binary) String() string {
	return "(" + n.L.String() + " " + string(n.Op) + " " + n.R.String() + ")"
}

func (n *Binary) exprNode() {}
