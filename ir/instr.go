package ir

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/anvil/op"
)

// Instr is one instruction. Its identity is its result value: an
// instruction with a non-void type can appear as an operand of other
// instructions. Operands and successors are fixed at creation; the
// only ways an instruction changes afterward are ReplaceAllUsesWith
// rewriting an operand slot and Erase detaching it.
type Instr struct {
	valueBase
	op       op.Code
	pred     op.Pred
	block    *Block
	operands []Value
	succs    []*Block
	thenArgs int // CondBr: operands[1:1+thenArgs] ride the first edge
}

// Op returns the instruction's opcode.
func (i *Instr) Op() op.Code { return i.op }

// Pred returns the comparison predicate of an ICmp instruction, and 0
// for every other opcode.
func (i *Instr) Pred() op.Pred { return i.pred }

// Block returns the block containing the instruction, or nil after
// Erase.
func (i *Instr) Block() *Block { return i.block }

// IsTerminator reports whether the instruction's opcode ends a block.
func (i *Instr) IsTerminator() bool { return i.op.IsTerminator() }

// HasResult reports whether the instruction produces a value, which is
// the same as its type not being void.
func (i *Instr) HasResult() bool { return !i.typ.IsVoid() }

// NumOperands returns the number of operands.
func (i *Instr) NumOperands() int { return len(i.operands) }

// Operand returns the n-th operand.
func (i *Instr) Operand(n int) Value { return i.operands[n] }

// Operands returns the instruction's operands in order.
func (i *Instr) Operands() []Value {
	if len(i.operands) == 0 {
		return nil
	}
	operands := make([]Value, len(i.operands))
	copy(operands, i.operands)
	return operands
}

// NumSuccs returns the number of successor blocks.
func (i *Instr) NumSuccs() int { return len(i.succs) }

// Succ returns the n-th successor block.
func (i *Instr) Succ(n int) *Block { return i.succs[n] }

// Succs returns the successor blocks of a terminator in edge order.
func (i *Instr) Succs() []*Block {
	if len(i.succs) == 0 {
		return nil
	}
	succs := make([]*Block, len(i.succs))
	copy(succs, i.succs)
	return succs
}

// Cond returns the condition operand of a CondBr, or nil for other
// opcodes.
func (i *Instr) Cond() Value {
	if i.op != op.CondBr || len(i.operands) == 0 {
		return nil
	}
	return i.operands[0]
}

// Callee returns the callee operand of a Call, or nil for other
// opcodes.
func (i *Instr) Callee() Value {
	if i.op != op.Call || len(i.operands) == 0 {
		return nil
	}
	return i.operands[0]
}

// EdgeArgs returns the values the terminator passes to the arguments
// of its n-th successor.
func (i *Instr) EdgeArgs(n int) []Value {
	switch i.op {
	case op.Br:
		if n != 0 {
			return nil
		}
		return i.Operands()
	case op.CondBr:
		switch n {
		case 0:
			return copyValues(i.operands[1 : 1+i.thenArgs])
		case 1:
			return copyValues(i.operands[1+i.thenArgs:])
		}
	}
	return nil
}

func copyValues(vals []Value) []Value {
	if len(vals) == 0 {
		return nil
	}
	out := make([]Value, len(vals))
	copy(out, vals)
	return out
}

// Erase detaches the instruction from its block and releases its
// operand uses. It fails with ErrHasUses while any other instruction
// still references this one's result; erasing an already detached
// instruction is a no-op.
func (i *Instr) Erase() error {
	if i.block == nil {
		return nil
	}
	if err := i.block.fn.mod.checkMutable(); err != nil {
		return err
	}
	if n := len(i.uses); n > 0 {
		return fmt.Errorf("%w: %%%s has %d remaining use(s)", ErrHasUses, i.name, n)
	}
	for n, opnd := range i.operands {
		opnd.removeUse(Use{User: i, Index: n})
	}
	blk := i.block
	for n, instr := range blk.instrs {
		if instr == i {
			blk.instrs = append(blk.instrs[:n], blk.instrs[n+1:]...)
			break
		}
	}
	i.block = nil
	return nil
}

func (i *Instr) module() *Module {
	if i.block == nil {
		return nil
	}
	return i.block.fn.mod
}

// String renders the instruction the way the disassembler prints it,
// like "%v5 = add i64 %v3, %v4" or "condbr %v2, b3(%v5), b4".
func (i *Instr) String() string {
	mnemonic := i.op.String()
	if mnemonic == "" {
		mnemonic = fmt.Sprintf("op(%d)", i.op)
	}
	switch i.op {
	case op.Ret:
		if len(i.operands) == 0 {
			return "ret"
		}
		return "ret " + i.operands[0].Type().String() + " " + refString(i.operands[0])
	case op.Br:
		if len(i.succs) == 0 {
			return "br ?"
		}
		return "br " + i.succString(0)
	case op.CondBr:
		cond := "?"
		if len(i.operands) > 0 {
			cond = refString(i.operands[0])
		}
		if len(i.succs) < 2 {
			return mnemonic + " " + cond
		}
		return mnemonic + " " + cond + ", " + i.succString(0) + ", " + i.succString(1)
	case op.Unreachable:
		return "unreachable"
	case op.ICmp:
		operandType := "?"
		if len(i.operands) > 0 {
			operandType = i.operands[0].Type().String()
		}
		return i.resultPrefix() + mnemonic + " " + i.pred.String() + " " +
			operandType + " " + i.operandList()
	case op.Trunc, op.ZExt, op.SExt:
		src := "?"
		if len(i.operands) > 0 {
			src = i.operands[0].Type().String() + " " + refString(i.operands[0])
		}
		return i.resultPrefix() + mnemonic + " " + src + " to " + i.typ.String()
	case op.Call:
		var sb strings.Builder
		sb.WriteString(i.resultPrefix())
		sb.WriteString(mnemonic)
		if i.HasResult() {
			sb.WriteString(" " + i.typ.String())
		}
		callee := "?"
		if len(i.operands) > 0 {
			callee = refString(i.operands[0])
		}
		sb.WriteString(" " + callee + "(")
		for n, arg := range i.operands {
			if n == 0 {
				continue
			}
			if n > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString(refString(arg))
		}
		sb.WriteString(")")
		return sb.String()
	default:
		s := i.resultPrefix() + mnemonic
		if i.HasResult() {
			s += " " + i.typ.String()
		}
		if len(i.operands) > 0 {
			s += " " + i.operandList()
		}
		return s
	}
}

func (i *Instr) resultPrefix() string {
	if !i.HasResult() {
		return ""
	}
	return "%" + i.name + " = "
}

func (i *Instr) operandList() string {
	refs := make([]string, len(i.operands))
	for n, opnd := range i.operands {
		refs[n] = refString(opnd)
	}
	return strings.Join(refs, ", ")
}

// succString renders successor n with its edge arguments, like
// "b3(%v5, %v6)" or just "b4".
func (i *Instr) succString(n int) string {
	args := i.EdgeArgs(n)
	if len(args) == 0 {
		return i.succs[n].name
	}
	refs := make([]string, len(args))
	for k, arg := range args {
		refs[k] = refString(arg)
	}
	return i.succs[n].name + "(" + strings.Join(refs, ", ") + ")"
}
