// Package anvil builds and verifies SSA-form intermediate representation
// for integer expression programs.
//
// The subpackages do the real work: types interns the type universe, ir
// holds the value graph, verify judges it, dis renders it, and expr
// compiles the expression language. This package ties them together for
// callers who want a one-call pipeline:
//
//	m, err := anvil.Compile("(10 - 3) * (7 - 5) + 42")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(anvil.Dump(m))
package anvil

import (
	"github.com/deepnoodle-ai/anvil/attrs"
	"github.com/deepnoodle-ai/anvil/dis"
	"github.com/deepnoodle-ai/anvil/expr"
	"github.com/deepnoodle-ai/anvil/ir"
	"github.com/deepnoodle-ai/anvil/verify"
)

type config struct {
	name         string
	targetTriple string
	retcode      bool
	funcAttrs    []attrs.Key
	skipVerify   bool
}

func collectOptions(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// Compile parses an expression program, lowers it to a frozen IR module
// and verifies the result. A verification failure is returned as an error
// listing every finding; use WithoutVerify to get the module anyway.
func Compile(source string, opts ...Option) (*ir.Module, error) {
	cfg := collectOptions(opts...)
	m, err := expr.Compile(source, &expr.Config{
		Name:         cfg.name,
		TargetTriple: cfg.targetTriple,
		Retcode:      cfg.retcode,
		FuncAttrs:    cfg.funcAttrs,
	})
	if err != nil {
		return nil, err
	}
	if !cfg.skipVerify {
		if err := Verify(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Verify checks every function in the module and folds the findings into
// a single error. A nil return means the module is well formed.
func Verify(m *ir.Module) error {
	return verify.Module(m).Err()
}

// Dump renders the module as text. See the dis package for details.
func Dump(m *ir.Module) string {
	return dis.Dump(m)
}
