package ir

import "strconv"

// Const is an interned integer constant. Constants are module-scoped
// values obtained from Module.ConstInt: requesting the same type and
// value twice yields the same handle, so a constant's use list spans
// every function that references it.
type Const struct {
	valueBase
	mod   *Module
	value int64
}

// Value returns the constant's integer value.
func (c *Const) Value() int64 { return c.value }

// Module returns the module that owns the constant.
func (c *Const) Module() *Module { return c.mod }

func (c *Const) module() *Module { return c.mod }

// String renders the constant with its type, like "i64 42".
func (c *Const) String() string {
	return c.typ.String() + " " + strconv.FormatInt(c.value, 10)
}
