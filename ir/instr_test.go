package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/anvil/op"
	"github.com/deepnoodle-ai/anvil/types"
)

func TestBuilderBinary(t *testing.T) {
	m, fn, b := buildFunc(t, []string{"i64", "i64"}, "i64")
	x := fn.Entry().Arg(0)
	y := fn.Entry().Arg(1)

	sum, err := b.Add(x, y)
	require.NoError(t, err)
	require.Equal(t, op.Add, sum.Op())
	require.Same(t, m.Types().Int64(), sum.Type())
	require.True(t, sum.HasResult())
	require.False(t, sum.IsTerminator())
	require.Equal(t, 2, sum.NumOperands())
	require.Same(t, x, sum.Operand(0))
	require.Same(t, y, sum.Operand(1))
	require.Same(t, fn.Entry(), sum.Block())

	// Operand types must agree for the result type to be derived.
	c32, err := m.ConstInt(m.Types().Int32(), 1)
	require.NoError(t, err)
	_, err = b.Sub(x, c32)
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = b.Mul(nil, y)
	require.Error(t, err)
}

func TestBuilderICmp(t *testing.T) {
	m, fn, b := buildFunc(t, []string{"i64", "i64"}, "i64")
	x := fn.Entry().Arg(0)
	y := fn.Entry().Arg(1)

	cmp, err := b.ICmp(op.SLT, x, y)
	require.NoError(t, err)
	require.Equal(t, op.ICmp, cmp.Op())
	require.Equal(t, op.SLT, cmp.Pred())
	require.Same(t, m.Types().Int1(), cmp.Type())

	// Non-comparison instructions carry no predicate.
	sum, err := b.Add(x, y)
	require.NoError(t, err)
	require.Equal(t, op.Pred(0), sum.Pred())
}

func TestBuilderConversions(t *testing.T) {
	m, fn, b := buildFunc(t, []string{"i64"}, "i64")
	x := fn.Entry().Arg(0)
	i32 := m.Types().Int32()

	narrow, err := b.Trunc(x, i32)
	require.NoError(t, err)
	require.Equal(t, op.Trunc, narrow.Op())
	require.Same(t, i32, narrow.Type())

	wide, err := b.ZExt(narrow, m.Types().Int64())
	require.NoError(t, err)
	require.Same(t, m.Types().Int64(), wide.Type())

	_, err = b.SExt(x, nil)
	require.ErrorIs(t, err, types.ErrInvalidType)
}

func TestBuilderElemPtr(t *testing.T) {
	m, _, b := buildFunc(t, nil, "i64")
	g, err := m.NewGlobalString(".fmt", "%lld\n\x00")
	require.NoError(t, err)
	zero, err := m.ConstInt(m.Types().Int64(), 0)
	require.NoError(t, err)

	ptr, err := b.ElemPtr(g, zero)
	require.NoError(t, err)
	require.Equal(t, "*i8", ptr.Type().String())
	require.Same(t, g, ptr.Operand(0))

	_, err = b.ElemPtr(zero, zero)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestBuilderCall(t *testing.T) {
	m, fn, b := buildFunc(t, nil, "i64")
	tt := m.Types()
	p8, err := tt.Pointer(tt.Int8())
	require.NoError(t, err)
	printfSig, err := tt.Func([]*types.Type{p8}, tt.Int32(), true)
	require.NoError(t, err)
	printf, err := m.NewFunction("printf", printfSig)
	require.NoError(t, err)

	g, err := m.NewGlobalString(".fmt", "%lld\n\x00")
	require.NoError(t, err)
	zero, err := m.ConstInt(tt.Int64(), 0)
	require.NoError(t, err)
	ptr, err := b.ElemPtr(g, zero)
	require.NoError(t, err)

	call, err := b.Call(printf, ptr, zero)
	require.NoError(t, err)
	require.Equal(t, op.Call, call.Op())
	require.Same(t, tt.Int32(), call.Type())
	require.Same(t, printf, call.Callee())
	require.Equal(t, 3, call.NumOperands())
	require.Equal(t, 1, printf.NumUses())

	_, err = b.Call(zero)
	require.ErrorIs(t, err, ErrTypeMismatch)

	// A call to a void function has no result.
	voidSig, err := tt.Func(nil, tt.Void(), false)
	require.NoError(t, err)
	log, err := m.NewFunction("log", voidSig)
	require.NoError(t, err)
	voidCall, err := b.Call(log)
	require.NoError(t, err)
	require.False(t, voidCall.HasResult())
	require.Nil(t, fn.Entry().Term())
}

func TestBuilderBranches(t *testing.T) {
	m, fn, b := buildFunc(t, []string{"i64"}, "i64")
	x := fn.Entry().Arg(0)
	tt := m.Types()

	thenBlk, err := fn.NewBlock("then")
	require.NoError(t, err)
	thenArg, err := thenBlk.AddArg(tt.Int64())
	require.NoError(t, err)
	elseBlk, err := fn.NewBlock("else")
	require.NoError(t, err)

	zero, err := m.ConstInt(tt.Int64(), 0)
	require.NoError(t, err)
	cmp, err := b.ICmp(op.SGT, x, zero)
	require.NoError(t, err)

	cbr, err := b.CondBr(cmp, thenBlk, []Value{x}, elseBlk, nil)
	require.NoError(t, err)
	require.True(t, cbr.IsTerminator())
	require.False(t, cbr.HasResult())
	require.Equal(t, 2, cbr.NumSuccs())
	require.Same(t, thenBlk, cbr.Succ(0))
	require.Same(t, elseBlk, cbr.Succ(1))
	require.Same(t, cmp, cbr.Cond())
	require.Equal(t, []Value{x}, cbr.EdgeArgs(0))
	require.Nil(t, cbr.EdgeArgs(1))
	require.Same(t, cbr, fn.Entry().Term())

	tb := NewBuilder(thenBlk)
	ret, err := tb.Ret(thenArg)
	require.NoError(t, err)
	require.Equal(t, 1, ret.NumOperands())
	require.Same(t, ret, thenBlk.Term())

	eb := NewBuilder(elseBlk)
	br, err := eb.Br(thenBlk, zero)
	require.NoError(t, err)
	require.Equal(t, 1, br.NumSuccs())
	require.Equal(t, []Value{zero}, br.EdgeArgs(0))

	_, err = eb.Br(nil)
	require.Error(t, err)
	_, err = eb.CondBr(nil, thenBlk, nil, elseBlk, nil)
	require.Error(t, err)
	_, err = eb.CondBr(cmp, nil, nil, elseBlk, nil)
	require.Error(t, err)
}

func TestBuilderRetVoidAndUnreachable(t *testing.T) {
	_, fn, b := buildFunc(t, nil, "void")
	ret, err := b.RetVoid()
	require.NoError(t, err)
	require.Equal(t, 0, ret.NumOperands())
	require.False(t, ret.HasResult())
	require.Equal(t, "ret", ret.String())

	dead, err := fn.NewBlock("dead")
	require.NoError(t, err)
	ur, err := NewBuilder(dead).Unreachable()
	require.NoError(t, err)
	require.Equal(t, "unreachable", ur.String())
	require.Equal(t, 0, ur.NumSuccs())

	_, err = b.Ret(nil)
	require.Error(t, err)
}

func TestBuilderAt(t *testing.T) {
	m, fn, b := buildFunc(t, []string{"i64"}, "i64")
	x := fn.Entry().Arg(0)
	c, err := m.ConstInt(m.Types().Int64(), 1)
	require.NoError(t, err)

	last, err := b.Add(x, c)
	require.NoError(t, err)

	// Insert two instructions at the top, in order.
	front := NewBuilder(fn.Entry()).At(fn.Entry(), 0)
	first, err := front.Sub(x, c)
	require.NoError(t, err)
	second, err := front.Mul(x, c)
	require.NoError(t, err)

	require.Equal(t, []*Instr{first, second, last}, fn.Entry().Instrs())

	_, err = NewBuilder(fn.Entry()).At(fn.Entry(), 99).Add(x, c)
	require.Error(t, err)
}

func TestNewInstrGeneric(t *testing.T) {
	m, fn, _ := buildFunc(t, []string{"i64"}, "i64")
	x := fn.Entry().Arg(0)
	tt := m.Types()

	// The generic constructor applies no opcode rules, so ill-typed
	// instructions can be built for the verifier to judge.
	odd, err := fn.Entry().NewInstr(op.Add, tt.Int32(), x, x)
	require.NoError(t, err)
	require.Same(t, tt.Int32(), odd.Type())
	require.Equal(t, 2, x.NumUses())

	void, err := fn.Entry().NewInstr(op.Ret, nil)
	require.NoError(t, err)
	require.False(t, void.HasResult())

	_, err = fn.Entry().NewInstr(op.Add, tt.Int64(), x, nil)
	require.Error(t, err)

	other := types.NewContext()
	_, err = fn.Entry().NewInstr(op.Add, other.Int64(), x, x)
	require.ErrorIs(t, err, types.ErrInvalidType)
}

func TestInstrString(t *testing.T) {
	m, fn, b := buildFunc(t, []string{"i64", "i64"}, "i64")
	x := fn.Entry().Arg(0)
	y := fn.Entry().Arg(1)
	tt := m.Types()

	sum, err := b.Add(x, y)
	require.NoError(t, err)
	require.Equal(t,
		"%"+sum.Name()+" = add i64 %"+x.Name()+", %"+y.Name(),
		sum.String())

	cmp, err := b.ICmp(op.SLT, sum, y)
	require.NoError(t, err)
	require.Equal(t,
		"%"+cmp.Name()+" = icmp slt i64 %"+sum.Name()+", %"+y.Name(),
		cmp.String())

	narrow, err := b.Trunc(sum, tt.Int32())
	require.NoError(t, err)
	require.Equal(t,
		"%"+narrow.Name()+" = trunc i64 %"+sum.Name()+" to i32",
		narrow.String())

	ret, err := b.Ret(sum)
	require.NoError(t, err)
	require.Equal(t, "ret i64 %"+sum.Name(), ret.String())

	g, err := m.NewGlobalString(".fmt", "%lld\n\x00")
	require.NoError(t, err)
	zero, err := m.ConstInt(tt.Int64(), 0)
	require.NoError(t, err)
	ptr, err := b.ElemPtr(g, zero)
	require.NoError(t, err)
	require.Equal(t,
		"%"+ptr.Name()+" = elemptr *i8 @.fmt, 0",
		ptr.String())

	p8, err := tt.Pointer(tt.Int8())
	require.NoError(t, err)
	printfSig, err := tt.Func([]*types.Type{p8}, tt.Int32(), true)
	require.NoError(t, err)
	printf, err := m.NewFunction("printf", printfSig)
	require.NoError(t, err)
	call, err := b.Call(printf, ptr, sum)
	require.NoError(t, err)
	require.Equal(t,
		"%"+call.Name()+" = call i32 @printf(%"+ptr.Name()+", %"+sum.Name()+")",
		call.String())

	thenBlk, err := fn.NewBlock("then")
	require.NoError(t, err)
	elseBlk, err := fn.NewBlock("else")
	require.NoError(t, err)
	cbr, err := b.CondBr(cmp, thenBlk, []Value{sum}, elseBlk, nil)
	require.NoError(t, err)
	require.Equal(t,
		"condbr %"+cmp.Name()+", then(%"+sum.Name()+"), else",
		cbr.String())

	br, err := NewBuilder(thenBlk).Br(elseBlk)
	require.NoError(t, err)
	require.Equal(t, "br else", br.String())
}
