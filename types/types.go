// Package types defines the interned type descriptors used by the IR.
//
// Types are created through a Context, which canonicalizes structurally
// equal descriptors to a single *Type. Two types from the same Context
// are equal if and only if their pointers are equal, so type comparison
// throughout the IR is a pointer comparison. A *Type is immutable once
// created and safe for concurrent reads.
package types

import (
	"strconv"
	"strings"
)

// Kind discriminates the closed set of type shapes.
type Kind int

const (
	VoidKind Kind = iota
	IntegerKind
	PointerKind
	ArrayKind
	FuncKind
)

// String returns a short human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case VoidKind:
		return "void"
	case IntegerKind:
		return "integer"
	case PointerKind:
		return "pointer"
	case ArrayKind:
		return "array"
	case FuncKind:
		return "func"
	default:
		return "unknown"
	}
}

// Type is a canonical, immutable type descriptor. Obtain instances from
// a Context; never construct a Type directly.
type Type struct {
	ctx      *Context
	kind     Kind
	id       uint32
	width    int     // IntegerKind
	elem     *Type   // PointerKind pointee, ArrayKind element
	count    int     // ArrayKind length
	params   []*Type // FuncKind fixed parameters
	ret      *Type   // FuncKind return type
	variadic bool    // FuncKind
}

// Kind returns the type's kind.
func (t *Type) Kind() Kind { return t.kind }

// Context returns the Context that owns this type.
func (t *Type) Context() *Context { return t.ctx }

// IsVoid reports whether t is the void type.
func (t *Type) IsVoid() bool { return t.kind == VoidKind }

// IsInteger reports whether t is an integer type.
func (t *Type) IsInteger() bool { return t.kind == IntegerKind }

// IsPointer reports whether t is a pointer type.
func (t *Type) IsPointer() bool { return t.kind == PointerKind }

// IsArray reports whether t is an array type.
func (t *Type) IsArray() bool { return t.kind == ArrayKind }

// IsFunc reports whether t is a function type.
func (t *Type) IsFunc() bool { return t.kind == FuncKind }

// Width returns the bit width of an integer type, or 0 for any other
// kind.
func (t *Type) Width() int {
	if t.kind != IntegerKind {
		return 0
	}
	return t.width
}

// Elem returns the pointee of a pointer type or the element of an array
// type, and nil for any other kind.
func (t *Type) Elem() *Type {
	if t.kind != PointerKind && t.kind != ArrayKind {
		return nil
	}
	return t.elem
}

// Len returns the element count of an array type, or 0 for any other
// kind.
func (t *Type) Len() int {
	if t.kind != ArrayKind {
		return 0
	}
	return t.count
}

// NumParams returns the number of fixed parameters of a function type.
func (t *Type) NumParams() int { return len(t.params) }

// Param returns the i-th fixed parameter type of a function type.
func (t *Type) Param(i int) *Type { return t.params[i] }

// Params returns a copy of the fixed parameter types of a function
// type. The result is nil for non-function types.
func (t *Type) Params() []*Type {
	if t.kind != FuncKind || len(t.params) == 0 {
		return nil
	}
	params := make([]*Type, len(t.params))
	copy(params, t.params)
	return params
}

// Return returns the return type of a function type, or nil for any
// other kind.
func (t *Type) Return() *Type {
	if t.kind != FuncKind {
		return nil
	}
	return t.ret
}

// Variadic reports whether a function type accepts extra arguments
// after its fixed parameters.
func (t *Type) Variadic() bool { return t.variadic }

// String renders the type in the notation used by the disassembler:
// "void", "i32", "*i8", "[6 x i8]", "fn(*i8, ...) -> i32".
func (t *Type) String() string {
	switch t.kind {
	case VoidKind:
		return "void"
	case IntegerKind:
		return "i" + strconv.Itoa(t.width)
	case PointerKind:
		return "*" + t.elem.String()
	case ArrayKind:
		return "[" + strconv.Itoa(t.count) + " x " + t.elem.String() + "]"
	case FuncKind:
		var sb strings.Builder
		sb.WriteString("fn(")
		for i, p := range t.params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		if t.variadic {
			if len(t.params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteString(")")
		if !t.ret.IsVoid() {
			sb.WriteString(" -> ")
			sb.WriteString(t.ret.String())
		}
		return sb.String()
	default:
		return "unknown"
	}
}
