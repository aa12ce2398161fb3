package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// MaxIntWidth is the largest supported integer bit width.
const MaxIntWidth = 1 << 23

// ErrInvalidType indicates a malformed type descriptor, such as a
// zero-width integer or a pointer to void. Errors returned by Context
// constructors wrap this sentinel.
var ErrInvalidType = errors.New("invalid type")

// Context owns a table of canonical types. Structurally equal requests
// return the same *Type, so types from one Context compare by pointer.
// All methods are safe for concurrent use.
//
// A Context is typically owned by an ir.Module; sharing one across
// modules is allowed and simply shares the canonical table.
type Context struct {
	mu     sync.Mutex
	seq    uint32
	void   *Type
	ints   map[int]*Type
	ptrs   map[*Type]*Type
	arrays map[arrayKey]*Type
	funcs  map[string]*Type
}

type arrayKey struct {
	elem  *Type
	count int
}

// NewContext returns an empty type table.
func NewContext() *Context {
	c := &Context{
		ints:   map[int]*Type{},
		ptrs:   map[*Type]*Type{},
		arrays: map[arrayKey]*Type{},
		funcs:  map[string]*Type{},
	}
	c.void = &Type{ctx: c, kind: VoidKind, id: c.nextID()}
	return c
}

func (c *Context) nextID() uint32 {
	c.seq++
	return c.seq
}

// Void returns the void type.
func (c *Context) Void() *Type { return c.void }

// Int returns the integer type of the given bit width. The width must
// be between 1 and MaxIntWidth.
func (c *Context) Int(width int) (*Type, error) {
	if width < 1 || width > MaxIntWidth {
		return nil, fmt.Errorf("%w: integer width must be in [1, %d], got %d",
			ErrInvalidType, MaxIntWidth, width)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.ints[width]; ok {
		return t, nil
	}
	t := &Type{ctx: c, kind: IntegerKind, id: c.nextID(), width: width}
	c.ints[width] = t
	return t, nil
}

// Int1 returns the 1-bit integer type (the comparison result type).
func (c *Context) Int1() *Type { return c.mustInt(1) }

// Int8 returns the 8-bit integer type.
func (c *Context) Int8() *Type { return c.mustInt(8) }

// Int16 returns the 16-bit integer type.
func (c *Context) Int16() *Type { return c.mustInt(16) }

// Int32 returns the 32-bit integer type.
func (c *Context) Int32() *Type { return c.mustInt(32) }

// Int64 returns the 64-bit integer type.
func (c *Context) Int64() *Type { return c.mustInt(64) }

func (c *Context) mustInt(width int) *Type {
	t, err := c.Int(width)
	if err != nil {
		panic(err) // unreachable for the fixed widths above
	}
	return t
}

// Pointer returns the pointer type with the given pointee. The pointee
// must be a non-void type from this Context.
func (c *Context) Pointer(elem *Type) (*Type, error) {
	if err := c.checkElem("pointee", elem); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.ptrs[elem]; ok {
		return t, nil
	}
	t := &Type{ctx: c, kind: PointerKind, id: c.nextID(), elem: elem}
	c.ptrs[elem] = t
	return t, nil
}

// Array returns the array type with the given element type and length.
// The element must be a non-void type from this Context and the count
// must not be negative.
func (c *Context) Array(elem *Type, count int) (*Type, error) {
	if err := c.checkElem("array element", elem); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative array length %d", ErrInvalidType, count)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := arrayKey{elem: elem, count: count}
	if t, ok := c.arrays[key]; ok {
		return t, nil
	}
	t := &Type{ctx: c, kind: ArrayKind, id: c.nextID(), elem: elem, count: count}
	c.arrays[key] = t
	return t, nil
}

// Func returns the function type with the given fixed parameters and
// return type. A variadic function accepts further arguments after the
// fixed parameters. Parameters must be non-void; ret may be Void. All
// component types must come from this Context.
func (c *Context) Func(params []*Type, ret *Type, variadic bool) (*Type, error) {
	if ret == nil {
		return nil, fmt.Errorf("%w: nil return type", ErrInvalidType)
	}
	if ret.ctx != c {
		return nil, fmt.Errorf("%w: return type from a different context", ErrInvalidType)
	}
	for i, p := range params {
		if err := c.checkElem(fmt.Sprintf("parameter %d", i), p); err != nil {
			return nil, err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := funcKey(params, ret, variadic)
	if t, ok := c.funcs[key]; ok {
		return t, nil
	}
	fixed := make([]*Type, len(params))
	copy(fixed, params)
	t := &Type{
		ctx:      c,
		kind:     FuncKind,
		id:       c.nextID(),
		params:   fixed,
		ret:      ret,
		variadic: variadic,
	}
	c.funcs[key] = t
	return t, nil
}

func (c *Context) checkElem(role string, t *Type) error {
	if t == nil {
		return fmt.Errorf("%w: nil %s type", ErrInvalidType, role)
	}
	if t.ctx != c {
		return fmt.Errorf("%w: %s type from a different context", ErrInvalidType, role)
	}
	if t.IsVoid() {
		return fmt.Errorf("%w: void %s type", ErrInvalidType, role)
	}
	return nil
}

func funcKey(params []*Type, ret *Type, variadic bool) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(p.id), 10))
	}
	if variadic {
		sb.WriteString(",...")
	}
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(uint64(ret.id), 10))
	return sb.String()
}
