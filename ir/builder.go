package ir

import (
	"errors"
	"fmt"

	"github.com/deepnoodle-ai/anvil/op"
	"github.com/deepnoodle-ai/anvil/types"
)

// Builder appends instructions to a block, deriving each result type
// from the operands. Helpers fail when no result type can be derived
// (mismatched operand types, a callee without a function type); every
// other rule is left to the verifier so that suspect IR can still be
// built and then judged as a whole.
//
// A builder appends to the end of its block unless positioned with At.
type Builder struct {
	blk *Block
	at  int
}

// NewBuilder returns a builder appending to the end of blk.
func NewBuilder(blk *Block) *Builder {
	return &Builder{blk: blk, at: -1}
}

// Block returns the block the builder currently inserts into.
func (b *Builder) Block() *Block { return b.blk }

// SetBlock moves the builder to the end of blk.
func (b *Builder) SetBlock(blk *Block) *Builder {
	b.blk = blk
	b.at = -1
	return b
}

// At positions the builder before the instruction at index in blk.
// Subsequent instructions are inserted in program order from there.
func (b *Builder) At(blk *Block, index int) *Builder {
	b.blk = blk
	b.at = index
	return b
}

func (b *Builder) emit(code op.Code, pred op.Pred, typ *types.Type, operands []Value, succs []*Block, thenArgs int) (*Instr, error) {
	if b.blk == nil {
		return nil, errors.New("builder has no block")
	}
	instr, err := b.blk.newInstr(b.at, code, pred, typ, operands, succs, thenArgs)
	if err != nil {
		return nil, err
	}
	if b.at >= 0 {
		b.at++
	}
	return instr, nil
}

func (b *Builder) binary(code op.Code, x, y Value) (*Instr, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("%s: nil operand", code)
	}
	if x.Type() != y.Type() {
		return nil, fmt.Errorf("%w: %s operands have types %s and %s",
			ErrTypeMismatch, code, x.Type(), y.Type())
	}
	return b.emit(code, 0, x.Type(), []Value{x, y}, nil, 0)
}

// Add appends an integer addition.
func (b *Builder) Add(x, y Value) (*Instr, error) { return b.binary(op.Add, x, y) }

// Sub appends an integer subtraction.
func (b *Builder) Sub(x, y Value) (*Instr, error) { return b.binary(op.Sub, x, y) }

// Mul appends an integer multiplication.
func (b *Builder) Mul(x, y Value) (*Instr, error) { return b.binary(op.Mul, x, y) }

// SDiv appends a signed integer division.
func (b *Builder) SDiv(x, y Value) (*Instr, error) { return b.binary(op.SDiv, x, y) }

// UDiv appends an unsigned integer division.
func (b *Builder) UDiv(x, y Value) (*Instr, error) { return b.binary(op.UDiv, x, y) }

// SRem appends a signed integer remainder.
func (b *Builder) SRem(x, y Value) (*Instr, error) { return b.binary(op.SRem, x, y) }

// URem appends an unsigned integer remainder.
func (b *Builder) URem(x, y Value) (*Instr, error) { return b.binary(op.URem, x, y) }

// And appends a bitwise and.
func (b *Builder) And(x, y Value) (*Instr, error) { return b.binary(op.And, x, y) }

// Or appends a bitwise or.
func (b *Builder) Or(x, y Value) (*Instr, error) { return b.binary(op.Or, x, y) }

// Xor appends a bitwise xor.
func (b *Builder) Xor(x, y Value) (*Instr, error) { return b.binary(op.Xor, x, y) }

// Shl appends a left shift.
func (b *Builder) Shl(x, y Value) (*Instr, error) { return b.binary(op.Shl, x, y) }

// LShr appends a logical right shift.
func (b *Builder) LShr(x, y Value) (*Instr, error) { return b.binary(op.LShr, x, y) }

// AShr appends an arithmetic right shift.
func (b *Builder) AShr(x, y Value) (*Instr, error) { return b.binary(op.AShr, x, y) }

// ICmp appends an integer comparison producing an i1.
func (b *Builder) ICmp(pred op.Pred, x, y Value) (*Instr, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("icmp: nil operand")
	}
	if x.Type() != y.Type() {
		return nil, fmt.Errorf("%w: icmp operands have types %s and %s",
			ErrTypeMismatch, x.Type(), y.Type())
	}
	return b.emit(op.ICmp, pred, x.Type().Context().Int1(), []Value{x, y}, nil, 0)
}

func (b *Builder) conv(code op.Code, v Value, to *types.Type) (*Instr, error) {
	if v == nil {
		return nil, fmt.Errorf("%s: nil operand", code)
	}
	if to == nil {
		return nil, fmt.Errorf("%w: nil %s target type", types.ErrInvalidType, code)
	}
	return b.emit(code, 0, to, []Value{v}, nil, 0)
}

// Trunc appends a truncation of v to the narrower integer type to.
func (b *Builder) Trunc(v Value, to *types.Type) (*Instr, error) {
	return b.conv(op.Trunc, v, to)
}

// ZExt appends a zero extension of v to the wider integer type to.
func (b *Builder) ZExt(v Value, to *types.Type) (*Instr, error) {
	return b.conv(op.ZExt, v, to)
}

// SExt appends a sign extension of v to the wider integer type to.
func (b *Builder) SExt(v Value, to *types.Type) (*Instr, error) {
	return b.conv(op.SExt, v, to)
}

// ElemPtr appends an address computation into an array: given a base
// of type pointer-to-array and an integer index, it produces a pointer
// to the indexed element.
func (b *Builder) ElemPtr(base, index Value) (*Instr, error) {
	if base == nil || index == nil {
		return nil, fmt.Errorf("elemptr: nil operand")
	}
	baseType := base.Type()
	if !baseType.IsPointer() || !baseType.Elem().IsArray() {
		return nil, fmt.Errorf("%w: elemptr base has type %s, want pointer to array",
			ErrTypeMismatch, baseType)
	}
	elemPtr, err := baseType.Context().Pointer(baseType.Elem().Elem())
	if err != nil {
		return nil, err
	}
	return b.emit(op.ElemPtr, 0, elemPtr, []Value{base, index}, nil, 0)
}

// Call appends a call. The callee must carry a function type, usually
// by being a *Func; the result type is the callee's return type, so a
// call to a void function produces no value.
func (b *Builder) Call(callee Value, args ...Value) (*Instr, error) {
	if callee == nil {
		return nil, errors.New("call: nil callee")
	}
	sig := callee.Type()
	if !sig.IsFunc() {
		return nil, fmt.Errorf("%w: call callee has type %s, want a function type",
			ErrTypeMismatch, sig)
	}
	operands := make([]Value, 0, len(args)+1)
	operands = append(operands, callee)
	operands = append(operands, args...)
	return b.emit(op.Call, 0, sig.Return(), operands, nil, 0)
}

// Ret appends a return of v.
func (b *Builder) Ret(v Value) (*Instr, error) {
	if v == nil {
		return nil, errors.New("ret: nil operand, use RetVoid to return nothing")
	}
	return b.emit(op.Ret, 0, nil, []Value{v}, nil, 0)
}

// RetVoid appends a return with no value.
func (b *Builder) RetVoid() (*Instr, error) {
	return b.emit(op.Ret, 0, nil, nil, nil, 0)
}

// Br appends an unconditional branch to dest, passing args to the
// destination's block arguments.
func (b *Builder) Br(dest *Block, args ...Value) (*Instr, error) {
	if dest == nil {
		return nil, errors.New("br: nil destination")
	}
	return b.emit(op.Br, 0, nil, append([]Value(nil), args...), []*Block{dest}, 0)
}

// CondBr appends a conditional branch on cond: to then with thenArgs
// when true, to els with elseArgs when false.
func (b *Builder) CondBr(cond Value, then *Block, thenArgs []Value, els *Block, elseArgs []Value) (*Instr, error) {
	if cond == nil {
		return nil, errors.New("condbr: nil condition")
	}
	if then == nil || els == nil {
		return nil, errors.New("condbr: nil destination")
	}
	operands := make([]Value, 0, 1+len(thenArgs)+len(elseArgs))
	operands = append(operands, cond)
	operands = append(operands, thenArgs...)
	operands = append(operands, elseArgs...)
	return b.emit(op.CondBr, 0, nil, operands, []*Block{then, els}, len(thenArgs))
}

// Unreachable appends an unreachable terminator, asserting control
// never arrives at it.
func (b *Builder) Unreachable() (*Instr, error) {
	return b.emit(op.Unreachable, 0, nil, nil, nil, 0)
}
