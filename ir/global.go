package ir

import (
	"strconv"

	"github.com/deepnoodle-ai/anvil/types"
)

// Global is a module-scoped variable. Its content type describes the
// storage; as an operand the global denotes the storage's address, so
// Type() returns pointer-to-content.
type Global struct {
	valueBase
	mod     *Module
	content *types.Type
	data    []byte
}

// Content returns the type of the storage the global names.
func (g *Global) Content() *types.Type { return g.content }

// Data returns a copy of the initializer bytes.
func (g *Global) Data() []byte {
	if len(g.data) == 0 {
		return nil
	}
	data := make([]byte, len(g.data))
	copy(data, g.data)
	return data
}

// Module returns the module that owns the global.
func (g *Global) Module() *Module { return g.mod }

func (g *Global) module() *Module { return g.mod }

// String renders the global's declaration, like
// `global @.fmt [6 x i8] = "%lld\n\x00"`.
func (g *Global) String() string {
	s := "global @" + g.name + " " + g.content.String()
	if len(g.data) > 0 {
		s += " = " + strconv.Quote(string(g.data))
	}
	return s
}
