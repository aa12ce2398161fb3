package verify

import "github.com/deepnoodle-ai/anvil/ir"

// DomTree is the dominator tree of one function's control flow graph,
// built with the Cooper-Harvey-Kennedy iterative algorithm over a
// reverse postorder numbering. Only blocks reachable from the entry
// appear in the tree; queries involving unreachable blocks answer
// false.
type DomTree struct {
	fn     *ir.Func
	blocks []*ir.Block       // reachable blocks in reverse postorder
	index  map[*ir.Block]int // block -> position in blocks
	idom   []int             // position -> immediate dominator position
}

// Dominators computes the dominator tree of fn. A declaration or a
// function without an entry block yields an empty tree.
func Dominators(fn *ir.Func) *DomTree {
	t := &DomTree{fn: fn, index: map[*ir.Block]int{}}
	entry := fn.Entry()
	if entry == nil {
		return t
	}

	// Depth-first walk collecting postorder. Successor edges into
	// other functions are ignored here; the verifier reports them.
	var post []*ir.Block
	seen := map[*ir.Block]bool{entry: true}
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		if term := b.Term(); term != nil {
			for _, succ := range term.Succs() {
				if succ.Func() != fn || seen[succ] {
					continue
				}
				seen[succ] = true
				walk(succ)
			}
		}
		post = append(post, b)
	}
	walk(entry)

	t.blocks = make([]*ir.Block, 0, len(post))
	for i := len(post) - 1; i >= 0; i-- {
		t.index[post[i]] = len(t.blocks)
		t.blocks = append(t.blocks, post[i])
	}

	preds := make([][]int, len(t.blocks))
	for bi, b := range t.blocks {
		term := b.Term()
		if term == nil {
			continue
		}
		for _, succ := range term.Succs() {
			if si, ok := t.index[succ]; ok {
				preds[si] = append(preds[si], bi)
			}
		}
	}

	t.idom = make([]int, len(t.blocks))
	for i := range t.idom {
		t.idom[i] = -1
	}
	t.idom[0] = 0
	for changed := true; changed; {
		changed = false
		for bi := 1; bi < len(t.blocks); bi++ {
			newIdom := -1
			for _, p := range preds[bi] {
				if t.idom[p] == -1 {
					continue
				}
				if newIdom == -1 {
					newIdom = p
				} else {
					newIdom = t.intersect(newIdom, p)
				}
			}
			if newIdom != -1 && t.idom[bi] != newIdom {
				t.idom[bi] = newIdom
				changed = true
			}
		}
	}
	return t
}

// intersect walks two tree positions up to their common ancestor.
// Immediate dominators always precede their block in reverse
// postorder, so walking the larger position converges.
func (t *DomTree) intersect(a, b int) int {
	for a != b {
		for a > b {
			a = t.idom[a]
		}
		for b > a {
			b = t.idom[b]
		}
	}
	return a
}

// Func returns the function the tree was computed for.
func (t *DomTree) Func() *ir.Func { return t.fn }

// Blocks returns the reachable blocks in reverse postorder.
func (t *DomTree) Blocks() []*ir.Block {
	if len(t.blocks) == 0 {
		return nil
	}
	blocks := make([]*ir.Block, len(t.blocks))
	copy(blocks, t.blocks)
	return blocks
}

// Reachable reports whether some path from the entry reaches b.
func (t *DomTree) Reachable(b *ir.Block) bool {
	_, ok := t.index[b]
	return ok
}

// IDom returns the immediate dominator of b, or nil for the entry
// block and for blocks outside the tree.
func (t *DomTree) IDom(b *ir.Block) *ir.Block {
	bi, ok := t.index[b]
	if !ok || bi == 0 {
		return nil
	}
	return t.blocks[t.idom[bi]]
}

// Dominates reports whether every path from the entry to b passes
// through a. Dominance is reflexive: a block dominates itself. Queries
// involving unreachable blocks return false.
func (t *DomTree) Dominates(a, b *ir.Block) bool {
	ai, ok := t.index[a]
	if !ok {
		return false
	}
	bi, ok := t.index[b]
	if !ok {
		return false
	}
	for {
		if bi == ai {
			return true
		}
		if bi == 0 {
			return false
		}
		bi = t.idom[bi]
	}
}
