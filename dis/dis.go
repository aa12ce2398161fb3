// Package dis renders modules as readable text for inspection and
// debugging. The output tracks the in-memory structure line for line: a
// module header, the globals, then each function with its blocks and
// instructions.
//
// Color is applied through the color package's global state, so output
// piped to a file stays plain and callers can force plain output by
// setting color.NoColor.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/deepnoodle-ai/anvil/ir"
)

var (
	keyword = color.New(color.Bold).SprintFunc()
	symbol  = color.New(color.FgMagenta).SprintFunc()
	label   = color.New(color.FgCyan).SprintFunc()
	literal = color.New(color.FgGreen).SprintFunc()
)

// Dump returns the textual rendering of m.
func Dump(m *ir.Module) string {
	var sb strings.Builder
	_ = FDump(&sb, m) // strings.Builder writes cannot fail
	return sb.String()
}

// FDump writes the textual rendering of m to w.
func FDump(w io.Writer, m *ir.Module) error {
	p := &printer{w: w}
	p.printf("%s %s\n", keyword("module"), m.Name())
	if triple := m.TargetTriple(); triple != "" {
		p.printf("%s %s\n", keyword("target"), triple)
	}
	if globals := m.Globals(); len(globals) > 0 {
		p.printf("\n")
		for _, g := range globals {
			p.global(g)
		}
	}
	for _, fn := range m.Funcs() {
		p.printf("\n")
		p.function(fn)
	}
	return p.err
}

// printer carries the first write error so the render functions can
// stay unconditional.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) global(g *ir.Global) {
	p.printf("%s %s %s", keyword("global"), symbol("@"+g.Name()), g.Content())
	if data := g.Data(); len(data) > 0 {
		p.printf(" = %s", literal(strconv.Quote(string(data))))
	}
	p.printf("\n")
}

func (p *printer) function(fn *ir.Func) {
	kw := "func"
	if fn.IsDecl() {
		kw = "declare"
	}
	p.printf("%s %s %s", keyword(kw), symbol("@"+fn.Name()), fn.Signature())
	for _, key := range fn.AttrKeys() {
		value, _ := fn.Attr(key)
		if value == "" {
			p.printf(" %s", key)
		} else {
			p.printf(" %s=%s", key, strconv.Quote(value))
		}
	}
	if fn.IsDecl() {
		p.printf("\n")
		return
	}
	p.printf(" {\n")
	for _, blk := range fn.Blocks() {
		p.block(blk)
	}
	p.printf("}\n")
}

func (p *printer) block(blk *ir.Block) {
	if blk.NumArgs() == 0 {
		p.printf("%s:\n", label(blk.Name()))
	} else {
		args := make([]string, blk.NumArgs())
		for i := range args {
			args[i] = blk.Arg(i).String()
		}
		p.printf("%s(%s):\n", label(blk.Name()), strings.Join(args, ", "))
	}
	for _, instr := range blk.Instrs() {
		p.printf("  %s\n", instr)
	}
}
