package ir

import (
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/anvil/op"
	"github.com/deepnoodle-ai/anvil/types"
)

// Block is a basic block: an argument list followed by a straight-line
// instruction sequence that should end in exactly one terminator. The
// terminator rule is enforced by the verifier, not during construction.
type Block struct {
	id       uint64
	name     string
	fn       *Func
	args     []*BlockArg
	instrs   []*Instr
	retained bool
}

// ID returns the block's module-unique id.
func (b *Block) ID() uint64 { return b.id }

// Name returns the block's label.
func (b *Block) Name() string { return b.name }

// Func returns the function that owns the block.
func (b *Block) Func() *Func { return b.fn }

// NumArgs returns the number of block arguments.
func (b *Block) NumArgs() int { return len(b.args) }

// Arg returns the i-th block argument.
func (b *Block) Arg(i int) *BlockArg { return b.args[i] }

// Args returns the block's arguments in order.
func (b *Block) Args() []*BlockArg {
	if len(b.args) == 0 {
		return nil
	}
	args := make([]*BlockArg, len(b.args))
	copy(args, b.args)
	return args
}

// AddArg appends a block argument of the given type. Predecessors must
// pass a matching value on every edge into the block; the entry block's
// arguments are bound from the function's parameters instead.
func (b *Block) AddArg(typ *types.Type) (*BlockArg, error) {
	if err := b.fn.mod.checkMutable(); err != nil {
		return nil, err
	}
	if err := b.fn.mod.checkType(typ, "argument"); err != nil {
		return nil, err
	}
	if typ.IsVoid() {
		return nil, fmt.Errorf("%w: void block argument", types.ErrInvalidType)
	}
	arg := &BlockArg{
		valueBase: valueBase{id: b.fn.mod.nextID(), typ: typ},
		block:     b,
		index:     len(b.args),
	}
	arg.name = "a" + strconv.FormatUint(arg.id, 10)
	b.args = append(b.args, arg)
	return arg, nil
}

// NumInstrs returns the number of instructions in the block.
func (b *Block) NumInstrs() int { return len(b.instrs) }

// Instrs returns the block's instructions in order.
func (b *Block) Instrs() []*Instr {
	if len(b.instrs) == 0 {
		return nil
	}
	instrs := make([]*Instr, len(b.instrs))
	copy(instrs, b.instrs)
	return instrs
}

// Term returns the block's final instruction if it is a terminator,
// and nil otherwise.
func (b *Block) Term() *Instr {
	if len(b.instrs) == 0 {
		return nil
	}
	last := b.instrs[len(b.instrs)-1]
	if !last.op.IsTerminator() {
		return nil
	}
	return last
}

// MarkRetained excludes the block from the verifier's unreachability
// check. Use it for blocks kept alive on purpose, like landing pads a
// later lowering will wire in.
func (b *Block) MarkRetained() error {
	if err := b.fn.mod.checkMutable(); err != nil {
		return err
	}
	b.retained = true
	return nil
}

// Retained reports whether MarkRetained was called on the block.
func (b *Block) Retained() bool { return b.retained }

// NewInstr appends a generic instruction with an explicit result type,
// nil meaning void. It performs no opcode-specific validation, which
// makes it the escape hatch for building IR the verifier should judge;
// prefer the Builder helpers, which derive result types. Branch
// opcodes cannot be expressed here because successors are not
// operands; use Builder.Br and Builder.CondBr.
func (b *Block) NewInstr(code op.Code, typ *types.Type, operands ...Value) (*Instr, error) {
	return b.newInstr(-1, code, 0, typ, operands, nil, 0)
}

// newInstr is the shared constructor behind NewInstr and the Builder.
// at is the insertion index, -1 meaning append. operands is retained,
// not copied.
func (b *Block) newInstr(at int, code op.Code, pred op.Pred, typ *types.Type, operands []Value, succs []*Block, thenArgs int) (*Instr, error) {
	m := b.fn.mod
	if err := m.checkMutable(); err != nil {
		return nil, err
	}
	if typ == nil {
		typ = m.types.Void()
	} else if err := m.checkType(typ, "result"); err != nil {
		return nil, err
	}
	if at < -1 || at > len(b.instrs) {
		return nil, fmt.Errorf("insertion index %d out of range [0, %d]", at, len(b.instrs))
	}
	for i, opnd := range operands {
		if opnd == nil {
			return nil, fmt.Errorf("nil operand %d for %s", i, code)
		}
	}
	for i, succ := range succs {
		if succ == nil {
			return nil, fmt.Errorf("nil successor %d for %s", i, code)
		}
	}
	instr := &Instr{
		valueBase: valueBase{id: m.nextID(), typ: typ},
		op:        code,
		pred:      pred,
		block:     b,
		operands:  operands,
		succs:     succs,
		thenArgs:  thenArgs,
	}
	instr.name = "v" + strconv.FormatUint(instr.id, 10)
	for i, opnd := range operands {
		opnd.addUse(Use{User: instr, Index: i})
	}
	if at == -1 || at == len(b.instrs) {
		b.instrs = append(b.instrs, instr)
	} else {
		b.instrs = append(b.instrs, nil)
		copy(b.instrs[at+1:], b.instrs[at:])
		b.instrs[at] = instr
	}
	return instr, nil
}

// String returns the block's label.
func (b *Block) String() string { return b.name }

// BlockArg is a value bound at the top of a block: predecessors supply
// it on their branch edges, and for the entry block it is a function
// parameter.
type BlockArg struct {
	valueBase
	block *Block
	index int
}

// Block returns the block the argument belongs to.
func (a *BlockArg) Block() *Block { return a.block }

// Index returns the argument's position in its block's argument list.
func (a *BlockArg) Index() int { return a.index }

func (a *BlockArg) module() *Module { return a.block.fn.mod }

// String renders the argument with its type, like "%a2: i64".
func (a *BlockArg) String() string {
	return "%" + a.name + ": " + a.typ.String()
}
