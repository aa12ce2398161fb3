package verify

import (
	"fmt"

	"github.com/deepnoodle-ai/anvil/ir"
	"github.com/deepnoodle-ai/anvil/op"
)

// Module verifies every function in m and returns all findings. The
// module is not mutated; it does not need to be frozen, though
// verifying a module still under construction naturally reports the
// holes it has not filled yet.
func Module(m *ir.Module) *Result {
	r := &Result{}
	for _, fn := range m.Funcs() {
		verifyFunc(r, fn)
	}
	return r
}

// Func verifies a single function and returns all findings.
func Func(fn *ir.Func) *Result {
	r := &Result{}
	verifyFunc(r, fn)
	return r
}

func (r *Result) addf(kind Kind, fn *ir.Func, b *ir.Block, instr *ir.Instr, format string, args ...any) {
	r.add(&Error{
		Kind:  kind,
		Fn:    fn,
		Block: b,
		Instr: instr,
		Msg:   fmt.Sprintf(format, args...),
	})
}

func verifyFunc(r *Result, fn *ir.Func) {
	if fn.IsDecl() {
		return
	}
	entry := fn.Entry()
	if entry == nil {
		r.addf(KindEntry, fn, nil, nil, "function has blocks but no entry block")
	} else {
		checkEntryArgs(r, fn, entry)
	}

	for _, b := range fn.Blocks() {
		checkTerminators(r, fn, b)
	}

	dom := Dominators(fn)
	if entry != nil {
		for _, b := range fn.Blocks() {
			if !dom.Reachable(b) && !b.Retained() {
				r.addf(KindUnreachable, fn, b, nil, "no path from the entry reaches this block")
			}
		}
	}

	for _, b := range fn.Blocks() {
		instrs := b.Instrs()
		pos := make(map[*ir.Instr]int, len(instrs))
		for i, instr := range instrs {
			pos[instr] = i
		}
		for i, instr := range instrs {
			checkInstr(r, fn, b, instr)
			checkDominance(r, fn, b, instr, i, pos, dom)
		}
	}
}

func checkEntryArgs(r *Result, fn *ir.Func, entry *ir.Block) {
	sig := fn.Signature()
	if entry.NumArgs() != sig.NumParams() {
		r.addf(KindEntryArgs, fn, entry, nil,
			"entry block has %d argument(s), signature has %d parameter(s)",
			entry.NumArgs(), sig.NumParams())
		return
	}
	for i := 0; i < sig.NumParams(); i++ {
		if entry.Arg(i).Type() != sig.Param(i) {
			r.addf(KindEntryArgs, fn, entry, nil,
				"entry argument %d has type %s, parameter has type %s",
				i, entry.Arg(i).Type(), sig.Param(i))
		}
	}
}

func checkTerminators(r *Result, fn *ir.Func, b *ir.Block) {
	if b.Term() == nil {
		msg := "block does not end in a terminator"
		if b.NumInstrs() == 0 {
			msg = "block is empty"
		}
		r.addf(KindMissingTerminator, fn, b, nil, msg)
	}
	instrs := b.Instrs()
	for i, instr := range instrs {
		if instr.IsTerminator() && i != len(instrs)-1 {
			r.addf(KindTerminatorPosition, fn, b, instr,
				"%s is followed by %d more instruction(s)",
				instr.Op(), len(instrs)-1-i)
		}
	}
}

func checkInstr(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr) {
	info := op.GetInfo(instr.Op())
	if info.Name == "" {
		r.addf(KindType, fn, b, instr, "unknown opcode %d", instr.Op())
		return
	}
	checkScope(r, fn, b, instr)
	if info.Arity >= 0 && instr.NumOperands() != info.Arity {
		r.addf(KindArity, fn, b, instr, "%s expects %d operand(s), has %d",
			info.Name, info.Arity, instr.NumOperands())
		return
	}
	if info.Terminator && instr.HasResult() {
		r.addf(KindType, fn, b, instr, "%s must not produce a value", info.Name)
	}

	switch instr.Op() {
	case op.Add, op.Sub, op.Mul, op.SDiv, op.UDiv, op.SRem, op.URem,
		op.And, op.Or, op.Xor, op.Shl, op.LShr, op.AShr:
		checkBinary(r, fn, b, instr)
	case op.ICmp:
		checkICmp(r, fn, b, instr)
	case op.Trunc:
		checkConv(r, fn, b, instr, true)
	case op.ZExt, op.SExt:
		checkConv(r, fn, b, instr, false)
	case op.ElemPtr:
		checkElemPtr(r, fn, b, instr)
	case op.Call:
		checkCall(r, fn, b, instr)
	case op.Ret:
		checkRet(r, fn, b, instr)
	case op.Br:
		if instr.NumSuccs() != 1 {
			r.addf(KindArity, fn, b, instr, "br has %d successors, want 1", instr.NumSuccs())
			return
		}
		checkEdge(r, fn, b, instr, 0)
	case op.CondBr:
		checkCondBr(r, fn, b, instr)
	}
}

// checkScope flags operands and successors that do not belong to the
// instruction's function or module, and operands that are not legal
// values at all.
func checkScope(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr) {
	mod := fn.Module()
	for n := 0; n < instr.NumOperands(); n++ {
		opnd := instr.Operand(n)
		if opnd.Type().IsVoid() {
			r.addf(KindOperand, fn, b, instr, "operand %d has void type", n)
			continue
		}
		switch v := opnd.(type) {
		case *ir.Const:
			if v.Module() != mod {
				r.addf(KindOperand, fn, b, instr, "operand %d belongs to another module", n)
			}
		case *ir.Global:
			if v.Module() != mod {
				r.addf(KindOperand, fn, b, instr, "operand %d belongs to another module", n)
			}
		case *ir.Func:
			if v.Module() != mod {
				r.addf(KindOperand, fn, b, instr, "operand %d belongs to another module", n)
			}
		case *ir.Instr:
			switch {
			case v.Block() == nil:
				r.addf(KindOperand, fn, b, instr, "operand %d is an erased instruction", n)
			case v.Block().Func() != fn:
				r.addf(KindOperand, fn, b, instr, "operand %d is defined in another function", n)
			}
		case *ir.BlockArg:
			if v.Block().Func() != fn {
				r.addf(KindOperand, fn, b, instr, "operand %d belongs to another function", n)
			}
		}
	}
	for n := 0; n < instr.NumSuccs(); n++ {
		if instr.Succ(n).Func() != fn {
			r.addf(KindOperand, fn, b, instr,
				"successor %s belongs to another function", instr.Succ(n).Name())
		}
	}
}

func checkBinary(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr) {
	x, y := instr.Operand(0), instr.Operand(1)
	if x.Type() != y.Type() {
		r.addf(KindType, fn, b, instr, "%s operands have types %s and %s",
			instr.Op(), x.Type(), y.Type())
		return
	}
	if !x.Type().IsInteger() {
		r.addf(KindType, fn, b, instr, "%s requires integer operands, got %s",
			instr.Op(), x.Type())
		return
	}
	if instr.Type() != x.Type() {
		r.addf(KindType, fn, b, instr, "%s result type %s does not match operand type %s",
			instr.Op(), instr.Type(), x.Type())
	}
}

func checkICmp(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr) {
	if !instr.Pred().Valid() {
		r.addf(KindType, fn, b, instr, "icmp has no valid predicate")
	}
	x, y := instr.Operand(0), instr.Operand(1)
	if x.Type() != y.Type() {
		r.addf(KindType, fn, b, instr, "icmp operands have types %s and %s",
			x.Type(), y.Type())
	} else if !x.Type().IsInteger() {
		r.addf(KindType, fn, b, instr, "icmp requires integer operands, got %s", x.Type())
	}
	if !instr.Type().IsInteger() || instr.Type().Width() != 1 {
		r.addf(KindType, fn, b, instr, "icmp result must be i1, got %s", instr.Type())
	}
}

func checkConv(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr, narrowing bool) {
	from, to := instr.Operand(0).Type(), instr.Type()
	if !from.IsInteger() || !to.IsInteger() {
		r.addf(KindType, fn, b, instr, "%s requires integer types, got %s to %s",
			instr.Op(), from, to)
		return
	}
	if narrowing && to.Width() >= from.Width() {
		r.addf(KindType, fn, b, instr, "trunc must narrow, got %s to %s", from, to)
	}
	if !narrowing && to.Width() <= from.Width() {
		r.addf(KindType, fn, b, instr, "%s must widen, got %s to %s", instr.Op(), from, to)
	}
}

func checkElemPtr(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr) {
	base, index := instr.Operand(0), instr.Operand(1)
	baseType := base.Type()
	if !baseType.IsPointer() || !baseType.Elem().IsArray() {
		r.addf(KindType, fn, b, instr, "elemptr base has type %s, want pointer to array", baseType)
		return
	}
	if !index.Type().IsInteger() {
		r.addf(KindType, fn, b, instr, "elemptr index has type %s, want integer", index.Type())
	}
	elem := baseType.Elem().Elem()
	if !instr.Type().IsPointer() || instr.Type().Elem() != elem {
		r.addf(KindType, fn, b, instr, "elemptr result type %s does not point to element type %s",
			instr.Type(), elem)
	}
}

func checkCall(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr) {
	if instr.NumOperands() == 0 {
		r.addf(KindArity, fn, b, instr, "call has no callee")
		return
	}
	sig := instr.Operand(0).Type()
	if !sig.IsFunc() {
		r.addf(KindType, fn, b, instr, "call callee has type %s, want a function type", sig)
		return
	}
	args := instr.NumOperands() - 1
	if sig.Variadic() {
		if args < sig.NumParams() {
			r.addf(KindArity, fn, b, instr, "call passes %d argument(s), callee wants at least %d",
				args, sig.NumParams())
		}
	} else if args != sig.NumParams() {
		r.addf(KindArity, fn, b, instr, "call passes %d argument(s), callee wants %d",
			args, sig.NumParams())
	}
	for i := 0; i < sig.NumParams() && i < args; i++ {
		if instr.Operand(i+1).Type() != sig.Param(i) {
			r.addf(KindType, fn, b, instr, "call argument %d has type %s, parameter has type %s",
				i, instr.Operand(i+1).Type(), sig.Param(i))
		}
	}
	if instr.Type() != sig.Return() {
		r.addf(KindType, fn, b, instr, "call result type %s does not match callee return type %s",
			instr.Type(), sig.Return())
	}
}

func checkRet(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr) {
	if instr.NumOperands() > 1 {
		r.addf(KindArity, fn, b, instr, "ret has %d operands, want at most 1", instr.NumOperands())
		return
	}
	ret := fn.Signature().Return()
	if ret.IsVoid() {
		if instr.NumOperands() == 1 {
			r.addf(KindType, fn, b, instr, "ret returns %s from a void function",
				instr.Operand(0).Type())
		}
		return
	}
	if instr.NumOperands() == 0 {
		r.addf(KindType, fn, b, instr, "ret returns nothing, function returns %s", ret)
		return
	}
	if instr.Operand(0).Type() != ret {
		r.addf(KindType, fn, b, instr, "ret value has type %s, function returns %s",
			instr.Operand(0).Type(), ret)
	}
}

func checkCondBr(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr) {
	if instr.NumSuccs() != 2 {
		r.addf(KindArity, fn, b, instr, "condbr has %d successors, want 2", instr.NumSuccs())
		return
	}
	if instr.NumOperands() < 1 {
		r.addf(KindArity, fn, b, instr, "condbr is missing its condition")
		return
	}
	cond := instr.Operand(0).Type()
	if !cond.IsInteger() || cond.Width() != 1 {
		r.addf(KindType, fn, b, instr, "condbr condition has type %s, want i1", cond)
	}
	checkEdge(r, fn, b, instr, 0)
	checkEdge(r, fn, b, instr, 1)
}

// checkEdge compares the values a terminator passes on edge n against
// the destination block's argument list.
func checkEdge(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr, n int) {
	dest := instr.Succ(n)
	if dest.Func() != fn {
		return // reported by checkScope
	}
	args := instr.EdgeArgs(n)
	if len(args) != dest.NumArgs() {
		r.addf(KindBranchArgs, fn, b, instr, "edge to %s passes %d value(s), block takes %d",
			dest.Name(), len(args), dest.NumArgs())
		return
	}
	for i, arg := range args {
		if arg.Type() != dest.Arg(i).Type() {
			r.addf(KindBranchArgs, fn, b, instr,
				"edge to %s passes %s for argument %d, block takes %s",
				dest.Name(), arg.Type(), i, dest.Arg(i).Type())
		}
	}
}

// checkDominance enforces def-before-use: within a block by position,
// across blocks through the dominator tree. Uses inside unreachable
// blocks skip the cross-block query, since no path reaches them for
// dominance to constrain.
func checkDominance(r *Result, fn *ir.Func, b *ir.Block, instr *ir.Instr, idx int, pos map[*ir.Instr]int, dom *DomTree) {
	for n := 0; n < instr.NumOperands(); n++ {
		switch v := instr.Operand(n).(type) {
		case *ir.Instr:
			def := v.Block()
			if def == nil || def.Func() != fn {
				continue // reported by checkScope
			}
			if def == b {
				if pos[v] >= idx {
					r.addf(KindDominance, fn, b, instr,
						"%%%s is used before it is defined", v.Name())
				}
			} else if dom.Reachable(b) && !dom.Dominates(def, b) {
				r.addf(KindDominance, fn, b, instr,
					"definition of %%%s in %s does not dominate this use", v.Name(), def.Name())
			}
		case *ir.BlockArg:
			def := v.Block()
			if def.Func() != fn {
				continue
			}
			if def != b && dom.Reachable(b) && !dom.Dominates(def, b) {
				r.addf(KindDominance, fn, b, instr,
					"argument %%%s of %s does not dominate this use", v.Name(), def.Name())
			}
		}
	}
}
