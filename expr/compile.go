// Package expr compiles single arithmetic expressions to IR modules.
//
// The language has integer literals, +, -, *, /, unary plus and minus,
// and parentheses. Compile lowers an expression to a module whose main
// function either prints the result through printf or returns it as the
// process exit code, depending on the configuration.
package expr

import (
	"fmt"
	"math"

	"github.com/deepnoodle-ai/anvil/attrs"
	"github.com/deepnoodle-ai/anvil/ir"
	"github.com/deepnoodle-ai/anvil/types"
)

// Config controls how an expression becomes a module.
type Config struct {
	// Name is the module name. Empty means "tinyexpr".
	Name string

	// TargetTriple is recorded on the module when set.
	TargetTriple string

	// Retcode makes main return the result truncated to 32 bits as its
	// exit code, instead of printing the full result and returning 0.
	Retcode bool

	// FuncAttrs are set on the generated main function. Nil means the
	// defaults: nounwind, plus readnone in retcode mode where main
	// touches no memory. An empty non-nil slice sets no attributes.
	FuncAttrs []attrs.Key
}

// Compile parses src and lowers it to a frozen module with a single
// main function. The module is frozen but not verified; callers that
// want the verifier's judgment run it separately.
func Compile(src string, cfg *Config) (*ir.Module, error) {
	node, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	name := cfg.Name
	if name == "" {
		name = "tinyexpr"
	}
	m := ir.NewModule(name)
	if cfg.TargetTriple != "" {
		if err := m.SetTargetTriple(cfg.TargetTriple); err != nil {
			return nil, err
		}
	}
	g := &lowering{m: m, types: m.Types()}
	if err := g.build(node, cfg); err != nil {
		return nil, err
	}
	m.Freeze()
	return m, nil
}

// lowering walks the expression tree emitting instructions. Literals
// stay constants for as long as possible: a subtree made only of
// literals and unary operators folds without emitting anything.
type lowering struct {
	m     *ir.Module
	types *types.Context
	b     *ir.Builder
}

func (g *lowering) build(node Node, cfg *Config) error {
	i32 := g.types.Int32()
	mainSig, err := g.types.Func(nil, i32, false)
	if err != nil {
		return err
	}

	var printf *ir.Func
	var fmtStr *ir.Global
	if !cfg.Retcode {
		pi8, err := g.types.Pointer(g.types.Int8())
		if err != nil {
			return err
		}
		printfSig, err := g.types.Func([]*types.Type{pi8}, i32, true)
		if err != nil {
			return err
		}
		printf, err = g.m.NewFunction("printf", printfSig)
		if err != nil {
			return err
		}
		fmtStr, err = g.m.NewGlobalString(".fmt", "%lld\n\x00")
		if err != nil {
			return err
		}
	}

	mainFn, err := g.m.NewFunction("main", mainSig)
	if err != nil {
		return err
	}
	for _, key := range funcAttrs(cfg) {
		if err := mainFn.AddAttr(key); err != nil {
			return err
		}
	}
	entry, err := mainFn.NewEntryBlock()
	if err != nil {
		return err
	}
	g.b = ir.NewBuilder(entry)

	result, err := g.gen(node)
	if err != nil {
		return err
	}
	if cfg.Retcode {
		return g.emitRetcode(result, i32)
	}
	return g.emitPrint(printf, fmtStr, result, i32)
}

func funcAttrs(cfg *Config) []attrs.Key {
	if cfg.FuncAttrs != nil {
		return cfg.FuncAttrs
	}
	if cfg.Retcode {
		return []attrs.Key{attrs.NoUnwind, attrs.ReadNone}
	}
	return []attrs.Key{attrs.NoUnwind}
}

func (g *lowering) gen(node Node) (ir.Value, error) {
	switch n := node.(type) {
	case *Number:
		return g.m.ConstInt(g.types.Int64(), n.Value)
	case *Unary:
		v, err := g.gen(n.X)
		if err != nil {
			return nil, err
		}
		if n.Op == PLUS {
			return v, nil
		}
		if c, ok := v.(*ir.Const); ok {
			return g.m.ConstInt(g.types.Int64(), -c.Value())
		}
		zero, err := g.m.ConstInt(g.types.Int64(), 0)
		if err != nil {
			return nil, err
		}
		return g.b.Sub(zero, v)
	case *Binary:
		x, err := g.gen(n.L)
		if err != nil {
			return nil, err
		}
		y, err := g.gen(n.R)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case PLUS:
			return g.b.Add(x, y)
		case MINUS:
			return g.b.Sub(x, y)
		case ASTERISK:
			return g.b.Mul(x, y)
		case SLASH:
			return g.b.SDiv(x, y)
		}
	}
	return nil, fmt.Errorf("unknown expression node %T", node)
}

func (g *lowering) emitPrint(printf *ir.Func, fmtStr *ir.Global, result ir.Value, i32 *types.Type) error {
	zero, err := g.m.ConstInt(g.types.Int64(), 0)
	if err != nil {
		return err
	}
	ptr, err := g.b.ElemPtr(fmtStr, zero)
	if err != nil {
		return err
	}
	if _, err := g.b.Call(printf, ptr, result); err != nil {
		return err
	}
	ret, err := g.m.ConstInt(i32, 0)
	if err != nil {
		return err
	}
	_, err = g.b.Ret(ret)
	return err
}

func (g *lowering) emitRetcode(result ir.Value, i32 *types.Type) error {
	// A folded constant that fits in 32 bits returns directly; anything
	// wider goes through a truncation.
	if c, ok := result.(*ir.Const); ok {
		if v := c.Value(); v >= math.MinInt32 && v <= math.MaxInt32 {
			ret, err := g.m.ConstInt(i32, v)
			if err != nil {
				return err
			}
			_, err = g.b.Ret(ret)
			return err
		}
	}
	r32, err := g.b.Trunc(result, i32)
	if err != nil {
		return err
	}
	_, err = g.b.Ret(r32)
	return err
}
