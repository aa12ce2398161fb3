package ir

import (
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/anvil/attrs"
	"github.com/deepnoodle-ai/anvil/types"
)

// Func is a function definition or declaration. A declaration has no
// blocks. As a value a function denotes its address and carries its
// signature type, which is how call instructions reference it.
type Func struct {
	valueBase
	mod    *Module
	blocks []*Block
	entry  *Block
}

// Module returns the module that owns the function.
func (f *Func) Module() *Module { return f.mod }

// Signature returns the function's type. It is the same type Type()
// returns; the name exists for call sites that read better with it.
func (f *Func) Signature() *types.Type { return f.typ }

// IsDecl reports whether the function is a declaration without a body.
func (f *Func) IsDecl() bool { return len(f.blocks) == 0 }

// Entry returns the function's entry block, or nil for a declaration.
func (f *Func) Entry() *Block { return f.entry }

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.blocks) }

// Blocks returns the function's blocks in creation order.
func (f *Func) Blocks() []*Block {
	if len(f.blocks) == 0 {
		return nil
	}
	blocks := make([]*Block, len(f.blocks))
	copy(blocks, f.blocks)
	return blocks
}

// NewBlock appends an empty block to the function. The optional name
// overrides the generated one. The first block created becomes the
// entry until SetEntry designates another.
func (f *Func) NewBlock(name ...string) (*Block, error) {
	if err := f.mod.checkMutable(); err != nil {
		return nil, err
	}
	b := &Block{id: f.mod.nextID(), fn: f}
	if len(name) > 0 && name[0] != "" {
		b.name = name[0]
	} else {
		b.name = "b" + strconv.FormatUint(b.id, 10)
	}
	f.blocks = append(f.blocks, b)
	if f.entry == nil {
		f.entry = b
	}
	return b, nil
}

// NewEntryBlock creates a block named "entry", gives it one argument
// per fixed parameter of the function's signature, and designates it
// the entry block.
func (f *Func) NewEntryBlock() (*Block, error) {
	b, err := f.NewBlock("entry")
	if err != nil {
		return nil, err
	}
	for i := 0; i < f.typ.NumParams(); i++ {
		if _, err := b.AddArg(f.typ.Param(i)); err != nil {
			return nil, err
		}
	}
	f.entry = b
	return b, nil
}

// SetEntry designates b as the function's entry block. The block must
// already belong to this function.
func (f *Func) SetEntry(b *Block) error {
	if err := f.mod.checkMutable(); err != nil {
		return err
	}
	if b == nil || b.fn != f {
		return fmt.Errorf("entry block does not belong to function %q", f.name)
	}
	f.entry = b
	return nil
}

// AddAttr marks a flag attribute on the function, like attrs.NoUnwind.
func (f *Func) AddAttr(key attrs.Key) error {
	return f.SetAttr(key, "")
}

// SetAttr associates an attribute value with the function.
func (f *Func) SetAttr(key attrs.Key, value string) error {
	if err := f.mod.checkMutable(); err != nil {
		return err
	}
	f.mod.attrs.Set(f.id, key, value)
	return nil
}

// Attr returns the function's value for key and whether it is set.
func (f *Func) Attr(key attrs.Key) (string, bool) {
	return f.mod.attrs.Get(f.id, key)
}

// HasAttr reports whether key is set on the function.
func (f *Func) HasAttr(key attrs.Key) bool {
	return f.mod.attrs.Has(f.id, key)
}

// AttrKeys returns the attribute keys set on the function, sorted.
func (f *Func) AttrKeys() []attrs.Key {
	return f.mod.attrs.Keys(f.id)
}

func (f *Func) module() *Module { return f.mod }

// String renders the function header, like "func @main fn() -> i32" or
// "declare @printf fn(*i8, ...) -> i32".
func (f *Func) String() string {
	kw := "func"
	if f.IsDecl() {
		kw = "declare"
	}
	return kw + " @" + f.name + " " + f.typ.String()
}
