// Package verify checks a module against the structural rules that
// construction deliberately leaves unenforced: entry block shape,
// terminator placement, reachability, operand typing, branch argument
// agreement, and dominance.
//
// The verifier is a pure read-only pass. It never mutates the module
// and never stops at the first problem; every violation found is
// collected into the Result so one run reports everything at once.
package verify

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/anvil/ir"
)

// Kind classifies a verification error.
type Kind int

const (
	// KindEntry reports a function with blocks but no usable entry.
	KindEntry Kind = iota + 1

	// KindEntryArgs reports an entry block whose arguments disagree
	// with the function signature's parameters.
	KindEntryArgs

	// KindMissingTerminator reports a block that does not end in a
	// terminator.
	KindMissingTerminator

	// KindTerminatorPosition reports a terminator that is not the last
	// instruction of its block.
	KindTerminatorPosition

	// KindUnreachable reports a block no path from the entry reaches.
	KindUnreachable

	// KindArity reports an instruction with the wrong operand or
	// successor count for its opcode.
	KindArity

	// KindType reports an operand or result type the opcode's typing
	// rule rejects.
	KindType

	// KindBranchArgs reports a branch edge whose arguments disagree
	// with the destination block's argument list.
	KindBranchArgs

	// KindOperand reports an operand or successor from outside the
	// instruction's function or module, or one that is not a legal
	// value, like a void result.
	KindOperand

	// KindDominance reports a use of a value at a point its definition
	// does not dominate.
	KindDominance
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindEntryArgs:
		return "entry-args"
	case KindMissingTerminator:
		return "missing-terminator"
	case KindTerminatorPosition:
		return "terminator-position"
	case KindUnreachable:
		return "unreachable-block"
	case KindArity:
		return "arity"
	case KindType:
		return "type"
	case KindBranchArgs:
		return "branch-args"
	case KindOperand:
		return "operand"
	case KindDominance:
		return "dominance"
	default:
		return "unknown"
	}
}

// Error is one verification finding. Fn is always set; Block and Instr
// narrow the location when they apply.
type Error struct {
	Kind  Kind
	Fn    *ir.Func
	Block *ir.Block
	Instr *ir.Instr
	Msg   string
}

// Error renders the finding with its location, like
// "func main: block b3: dominance: %v9 does not dominate this use".
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Fn != nil {
		sb.WriteString("func ")
		sb.WriteString(e.Fn.Name())
		sb.WriteString(": ")
	}
	if e.Block != nil {
		sb.WriteString("block ")
		sb.WriteString(e.Block.Name())
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	return sb.String()
}

// Result accumulates the findings of one verifier run.
type Result struct {
	errs []*Error
}

// OK reports whether the run found no violations.
func (r *Result) OK() bool {
	return len(r.errs) == 0
}

// Len returns the number of findings.
func (r *Result) Len() int {
	return len(r.errs)
}

// Errors returns the findings in the order they were discovered. The
// order is deterministic: functions, blocks, and instructions are
// walked in creation order.
func (r *Result) Errors() []*Error {
	if len(r.errs) == 0 {
		return nil
	}
	errs := make([]*Error, len(r.errs))
	copy(errs, r.errs)
	return errs
}

// ByKind returns the findings with the given kind, in discovery order.
func (r *Result) ByKind(kind Kind) []*Error {
	var errs []*Error
	for _, e := range r.errs {
		if e.Kind == kind {
			errs = append(errs, e)
		}
	}
	return errs
}

// Err folds the findings into a single error, or nil if the run was
// clean.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, e := range r.errs {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

func (r *Result) add(e *Error) {
	r.errs = append(r.errs, e)
}
