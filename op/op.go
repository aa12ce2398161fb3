// Package op defines the opcodes an instruction in the IR can carry.
package op

// Code is an integer opcode that identifies an instruction's operation.
type Code uint16

const (
	Invalid Code = 0

	// Terminators
	Ret         Code = 1
	Br          Code = 2
	CondBr      Code = 3
	Unreachable Code = 4

	// Integer arithmetic
	Add  Code = 10
	Sub  Code = 11
	Mul  Code = 12
	SDiv Code = 13
	UDiv Code = 14
	SRem Code = 15
	URem Code = 16

	// Bitwise
	And  Code = 20
	Or   Code = 21
	Xor  Code = 22
	Shl  Code = 23
	LShr Code = 24
	AShr Code = 25

	// Comparison
	ICmp Code = 30

	// Addressing
	ElemPtr Code = 40

	// Width conversion
	Trunc Code = 50
	ZExt  Code = 51
	SExt  Code = 52

	// Calls
	Call Code = 60
)

// String returns the lowercase mnemonic for the opcode, or "" if the
// opcode is unknown.
func (c Code) String() string {
	return GetInfo(c).Name
}

// IsTerminator reports whether the opcode ends a basic block.
func (c Code) IsTerminator() bool {
	return GetInfo(c).Terminator
}

// Pred describes an integer comparison predicate carried by an ICmp
// instruction. The s-prefixed predicates compare signed values, the
// u-prefixed ones unsigned.
type Pred uint16

const (
	Eq  Pred = 1
	Ne  Pred = 2
	SLT Pred = 3
	SLE Pred = 4
	SGT Pred = 5
	SGE Pred = 6
	ULT Pred = 7
	ULE Pred = 8
	UGT Pred = 9
	UGE Pred = 10
)

// String returns the mnemonic for the predicate, as in "icmp slt".
func (p Pred) String() string {
	switch p {
	case Eq:
		return "eq"
	case Ne:
		return "ne"
	case SLT:
		return "slt"
	case SLE:
		return "sle"
	case SGT:
		return "sgt"
	case SGE:
		return "sge"
	case ULT:
		return "ult"
	case ULE:
		return "ule"
	case UGT:
		return "ugt"
	case UGE:
		return "uge"
	default:
		return ""
	}
}

// Valid reports whether p is one of the defined predicates.
func (p Pred) Valid() bool {
	return p >= Eq && p <= UGE
}

// Info contains information about an opcode.
type Info struct {
	Code       Code
	Name       string
	Arity      int // operand count; -1 when the count is variable
	Terminator bool
	HasResult  bool
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op     Code
		name   string
		arity  int
		term   bool
		result bool
	}
	ops := []opInfo{
		{Add, "add", 2, false, true},
		{And, "and", 2, false, true},
		{AShr, "ashr", 2, false, true},
		{Br, "br", -1, true, false},
		{Call, "call", -1, false, true},
		{CondBr, "condbr", -1, true, false},
		{ElemPtr, "elemptr", 2, false, true},
		{ICmp, "icmp", 2, false, true},
		{LShr, "lshr", 2, false, true},
		{Mul, "mul", 2, false, true},
		{Or, "or", 2, false, true},
		{Ret, "ret", -1, true, false},
		{SDiv, "sdiv", 2, false, true},
		{SExt, "sext", 1, false, true},
		{Shl, "shl", 2, false, true},
		{SRem, "srem", 2, false, true},
		{Sub, "sub", 2, false, true},
		{Trunc, "trunc", 1, false, true},
		{UDiv, "udiv", 2, false, true},
		{Unreachable, "unreachable", 0, true, false},
		{URem, "urem", 2, false, true},
		{Xor, "xor", 2, false, true},
		{ZExt, "zext", 1, false, true},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:       o.op,
			Name:       o.name,
			Arity:      o.arity,
			Terminator: o.term,
			HasResult:  o.result,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes
// return a zero Info with an empty name.
func GetInfo(op Code) Info {
	if int(op) >= len(infos) {
		return Info{}
	}
	return infos[op]
}
