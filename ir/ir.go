// Package ir implements an in-memory SSA intermediate representation
// for a compiler middle end: modules, functions, basic blocks,
// instructions, and the value graph connecting them.
//
// Construction is deliberately permissive. A module is built by a
// single goroutine through helpers that record relationships without
// enforcing global invariants, so partially built functions (a block
// with no terminator yet, a branch whose target gains its arguments
// later) are legal intermediate states. Only local, unrecoverable
// mistakes fail eagerly: malformed types, erasing a value that still
// has uses, and any mutation after Freeze. Everything else is the
// verify package's job, which reports all violations at once instead
// of aborting on the first.
//
// Every value knows its uses. An operand slot in one instruction adds
// a Use edge to the operand value, which is what makes
// ReplaceAllUsesWith and the erase safety check constant-time in the
// number of uses rather than the size of the module.
//
// Blocks take arguments instead of the IR carrying phi instructions:
// a branch supplies one value per argument of its destination block,
// and an entry block's arguments bind the function's parameters.
package ir

import (
	"errors"
	"fmt"

	"github.com/deepnoodle-ai/anvil/types"
)

var (
	// ErrFrozen is returned by every mutating operation once the
	// owning module has been frozen.
	ErrFrozen = errors.New("module is frozen")

	// ErrHasUses is returned by Erase while other instructions still
	// reference the instruction's result.
	ErrHasUses = errors.New("instruction still has uses")

	// ErrDuplicateName is returned when a function or global is
	// created with a name the module already binds.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrTypeMismatch is returned when two values that must share one
	// interned type do not, as in ReplaceAllUsesWith or a builder
	// helper that derives its result type from its operands.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Use records one operand slot that references a value: operand Index
// of instruction User.
type Use struct {
	User  *Instr
	Index int
}

// Value is a node in the value graph: a constant, a global, a function,
// a block argument, or an instruction result. The set of
// implementations is closed; values are created through a Module and
// its functions and compared by pointer identity.
type Value interface {
	// ID returns the value's module-unique id, usable as an attrs
	// entity key.
	ID() uint64

	// Type returns the value's interned type.
	Type() *types.Type

	// Name returns the value's name without any sigil, like "v7" or
	// "printf".
	Name() string

	// Uses returns a copy of the operand slots currently referencing
	// this value.
	Uses() []Use

	// NumUses returns the number of operand slots referencing this
	// value.
	NumUses() int

	// String returns a human-readable rendering of the value.
	String() string

	addUse(u Use)
	removeUse(u Use)
	clearUses()
	module() *Module
}

// valueBase carries the state shared by every Value implementation.
type valueBase struct {
	id   uint64
	name string
	typ  *types.Type
	uses []Use
}

func (v *valueBase) ID() uint64        { return v.id }
func (v *valueBase) Name() string      { return v.name }
func (v *valueBase) Type() *types.Type { return v.typ }
func (v *valueBase) NumUses() int      { return len(v.uses) }

func (v *valueBase) Uses() []Use {
	if len(v.uses) == 0 {
		return nil
	}
	uses := make([]Use, len(v.uses))
	copy(uses, v.uses)
	return uses
}

func (v *valueBase) addUse(u Use) {
	v.uses = append(v.uses, u)
}

func (v *valueBase) removeUse(u Use) {
	for i, have := range v.uses {
		if have == u {
			v.uses = append(v.uses[:i], v.uses[i+1:]...)
			return
		}
	}
}

func (v *valueBase) clearUses() {
	v.uses = nil
}

// ReplaceAllUsesWith rewrites every use of old across the module to
// refer to new instead. Both values must carry the same interned type;
// anything else returns ErrTypeMismatch. Replacing a value with itself
// is a no-op. After a successful call old has no uses, which is what
// makes a following Erase legal.
func ReplaceAllUsesWith(old, new Value) error {
	if old == nil || new == nil {
		return errors.New("replace: nil value")
	}
	if old == new {
		return nil
	}
	if m := old.module(); m != nil && m.frozen {
		return ErrFrozen
	}
	if old.Type() != new.Type() {
		return fmt.Errorf("%w: cannot replace %s value with %s value",
			ErrTypeMismatch, old.Type(), new.Type())
	}
	for _, u := range old.Uses() {
		u.User.operands[u.Index] = new
		new.addUse(u)
	}
	old.clearUses()
	return nil
}

// refString renders a value the way it appears as an operand: bare
// literal for constants, @name for functions and globals, %name for
// everything else.
func refString(v Value) string {
	switch v.(type) {
	case *Const:
		return v.Name()
	case *Func, *Global:
		return "@" + v.Name()
	default:
		return "%" + v.Name()
	}
}
