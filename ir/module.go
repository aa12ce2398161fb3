package ir

import (
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/deepnoodle-ai/anvil/attrs"
	"github.com/deepnoodle-ai/anvil/types"
)

// Module is the root container: it owns functions, globals, the
// constant pool, the type table, and the attribute store. A module is
// built by one goroutine, then frozen, after which it is immutable and
// safe to share across goroutines. All mutating methods return
// ErrFrozen once Freeze has been called.
type Module struct {
	id      uuid.UUID
	name    string
	triple  string
	types   *types.Context
	attrs   *attrs.Store
	funcs   []*Func
	funcIdx map[string]*Func
	globals []*Global
	globIdx map[string]*Global
	consts  map[constKey]*Const
	seq     uint64
	frozen  bool
}

type constKey struct {
	typ  *types.Type
	bits int64
}

// NewModule returns an empty module with a fresh type table.
func NewModule(name string) *Module {
	return &Module{
		id:      uuid.Must(uuid.NewV4()),
		name:    name,
		types:   types.NewContext(),
		attrs:   attrs.NewStore(),
		funcIdx: map[string]*Func{},
		globIdx: map[string]*Global{},
		consts:  map[constKey]*Const{},
	}
}

// ID returns the module's unique id.
func (m *Module) ID() uuid.UUID { return m.id }

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Types returns the type table owned by this module.
func (m *Module) Types() *types.Context { return m.types }

// Attrs returns the module's attribute store. Entities are keyed by
// their Value id. Like the rest of the module, write only before
// Freeze.
func (m *Module) Attrs() *attrs.Store { return m.attrs }

// TargetTriple returns the target triple annotation, or "" if unset.
func (m *Module) TargetTriple() string { return m.triple }

// SetTargetTriple records the target triple annotation.
func (m *Module) SetTargetTriple(triple string) error {
	if err := m.checkMutable(); err != nil {
		return err
	}
	m.triple = triple
	return nil
}

// Freeze ends the construction phase. It is idempotent; after the
// first call every mutating method returns ErrFrozen and the module
// may be read concurrently.
func (m *Module) Freeze() {
	m.frozen = true
}

// Frozen reports whether Freeze has been called.
func (m *Module) Frozen() bool { return m.frozen }

func (m *Module) checkMutable() error {
	if m.frozen {
		return ErrFrozen
	}
	return nil
}

func (m *Module) nextID() uint64 {
	m.seq++
	return m.seq
}

// checkType verifies that a caller-supplied type belongs to this
// module's type table.
func (m *Module) checkType(t *types.Type, role string) error {
	if t == nil {
		return fmt.Errorf("%w: nil %s type", types.ErrInvalidType, role)
	}
	if t.Context() != m.types {
		return fmt.Errorf("%w: %s type belongs to a different type table",
			types.ErrInvalidType, role)
	}
	return nil
}

func (m *Module) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", types.ErrInvalidType)
	}
	if _, ok := m.funcIdx[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if _, ok := m.globIdx[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}

// NewFunction adds a function with the given name and signature. A
// function with no blocks is a declaration. Names share one namespace
// with globals; reusing one returns ErrDuplicateName.
func (m *Module) NewFunction(name string, sig *types.Type) (*Func, error) {
	if err := m.checkMutable(); err != nil {
		return nil, err
	}
	if err := m.checkType(sig, "signature"); err != nil {
		return nil, err
	}
	if !sig.IsFunc() {
		return nil, fmt.Errorf("%w: signature must be a function type, got %s",
			types.ErrInvalidType, sig)
	}
	if err := m.checkName(name); err != nil {
		return nil, err
	}
	f := &Func{
		valueBase: valueBase{id: m.nextID(), name: name, typ: sig},
		mod:       m,
	}
	m.funcs = append(m.funcs, f)
	m.funcIdx[name] = f
	return f, nil
}

// Func returns the function with the given name, or nil.
func (m *Module) Func(name string) *Func {
	return m.funcIdx[name]
}

// Funcs returns the module's functions in creation order.
func (m *Module) Funcs() []*Func {
	if len(m.funcs) == 0 {
		return nil
	}
	funcs := make([]*Func, len(m.funcs))
	copy(funcs, m.funcs)
	return funcs
}

// NewGlobal adds a global with the given content type and initializer
// bytes. As a value the global has pointer-to-content type. For byte
// array content the initializer length must match the array length;
// other content types treat data as opaque.
func (m *Module) NewGlobal(name string, content *types.Type, data []byte) (*Global, error) {
	if err := m.checkMutable(); err != nil {
		return nil, err
	}
	if err := m.checkType(content, "content"); err != nil {
		return nil, err
	}
	if content.IsVoid() {
		return nil, fmt.Errorf("%w: global content cannot be void", types.ErrInvalidType)
	}
	if isByteArray(content) && len(data) != content.Len() {
		return nil, fmt.Errorf("%w: global %q initializer has %d bytes, want %d",
			types.ErrInvalidType, name, len(data), content.Len())
	}
	if err := m.checkName(name); err != nil {
		return nil, err
	}
	ptr, err := m.types.Pointer(content)
	if err != nil {
		return nil, err
	}
	g := &Global{
		valueBase: valueBase{id: m.nextID(), name: name, typ: ptr},
		mod:       m,
		content:   content,
		data:      append([]byte(nil), data...),
	}
	m.globals = append(m.globals, g)
	m.globIdx[name] = g
	return g, nil
}

// NewGlobalString adds a byte array global holding s verbatim. The
// caller includes any terminator byte it needs.
func (m *Module) NewGlobalString(name, s string) (*Global, error) {
	arr, err := m.types.Array(m.types.Int8(), len(s))
	if err != nil {
		return nil, err
	}
	return m.NewGlobal(name, arr, []byte(s))
}

// Global returns the global with the given name, or nil.
func (m *Module) Global(name string) *Global {
	return m.globIdx[name]
}

// Globals returns the module's globals in creation order.
func (m *Module) Globals() []*Global {
	if len(m.globals) == 0 {
		return nil
	}
	globals := make([]*Global, len(m.globals))
	copy(globals, m.globals)
	return globals
}

// ConstInt returns the module's constant for the given integer type
// and value, interning it on first use. The value is recorded as given;
// how a width narrower than 64 bits interprets the excess bits is the
// consumer's concern.
func (m *Module) ConstInt(typ *types.Type, value int64) (*Const, error) {
	if err := m.checkMutable(); err != nil {
		return nil, err
	}
	if err := m.checkType(typ, "constant"); err != nil {
		return nil, err
	}
	if !typ.IsInteger() {
		return nil, fmt.Errorf("%w: constant type must be an integer, got %s",
			types.ErrInvalidType, typ)
	}
	key := constKey{typ: typ, bits: value}
	if c, ok := m.consts[key]; ok {
		return c, nil
	}
	c := &Const{
		valueBase: valueBase{
			id:   m.nextID(),
			name: fmt.Sprintf("%d", value),
			typ:  typ,
		},
		mod:   m,
		value: value,
	}
	m.consts[key] = c
	return c, nil
}

func isByteArray(t *types.Type) bool {
	return t.IsArray() && t.Elem().IsInteger() && t.Elem().Width() == 8
}
