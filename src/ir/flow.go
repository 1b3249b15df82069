package ir

// RecalcFlow rebuilds every block's predecessor and successor sets from
// scratch by scanning each block's terminating jump or branch. Needed
// after any mutation that deletes or rewires blocks without maintaining
// pred/succ incrementally (the optimiser's dead-code pass uses it for
// exactly this reason).
func RecalcFlow(f *Function) {
	for _, b := range f.blocks {
		b.pred.clear()
		b.succ.clear()
	}
	for _, b := range f.blocks {
		for _, insn := range b.instructions {
			flow, ok := insn.(*Flow)
			if !ok {
				continue
			}
			if flow.Kind != FlowJump && flow.Kind != FlowBranch {
				continue
			}
			b.succ.add(flow.Target)
			flow.Target.pred.add(b)
		}
	}
}

// domNode is per-block, per-computation scratch state for the Lengauer-
// Tarjan dominance algorithm. It is never stored on Block: dominance is
// recomputed fresh each time ComputeDominance runs, per the rule that
// transient analysis state lives in a pass-local side table rather than on
// the long-lived IR structures.
type domNode struct {
	block    *Block
	parent   int
	ancestor int
	semi     int
	idom     int
	best     int
	bucket   []int
}

// Dominance is the result of computing dominance over a function's
// reachable blocks (those reachable from the entry block by following
// successor edges). Blocks unreachable from entry have no defined
// dominance relationship and are absent from the result.
type Dominance struct {
	index    map[*Block]int
	order    []*Block
	idom     []int
	frontier [][]*Block
}

// IDom returns b's immediate dominator, or (nil, false) for the entry
// block or for a block unreachable from entry.
func (d *Dominance) IDom(b *Block) (*Block, bool) {
	i, ok := d.index[b]
	if !ok || d.idom[i] < 0 {
		return nil, false
	}
	return d.order[d.idom[i]], true
}

// Frontier returns b's dominance frontier: every block with a predecessor
// dominated by b that is not itself strictly dominated by b.
func (d *Dominance) Frontier(b *Block) []*Block {
	i, ok := d.index[b]
	if !ok {
		return nil
	}
	out := make([]*Block, len(d.frontier[i]))
	copy(out, d.frontier[i])
	return out
}

// ComputeDominance runs the (simple, non path-balanced) Lengauer-Tarjan
// algorithm over f starting from its entry block.
func ComputeDominance(f *Function) *Dominance {
	entry := f.Entry()
	nodes := make([]*domNode, 0, len(f.blocks))
	index := make(map[*Block]int, len(f.blocks))

	var visit func(b *Block, parent int)
	visit = func(b *Block, parent int) {
		if _, ok := index[b]; ok {
			return
		}
		i := len(nodes)
		index[b] = i
		nodes = append(nodes, &domNode{block: b, parent: parent})
		for _, s := range b.succ.Items() {
			visit(s, i)
		}
	}
	visit(entry, -1)

	n := len(nodes)
	for i, nd := range nodes {
		nd.semi = i
		nd.best = i
		nd.ancestor = -1
		nd.idom = -1
	}

	var compress func(v int)
	compress = func(v int) {
		a := nodes[v].ancestor
		if nodes[a].ancestor == -1 {
			return
		}
		compress(a)
		if nodes[nodes[v].best].semi > nodes[nodes[a].best].semi {
			nodes[v].best = nodes[a].best
		}
		nodes[v].ancestor = nodes[a].ancestor
	}
	eval := func(v int) int {
		if nodes[v].ancestor == -1 {
			return v
		}
		compress(v)
		return nodes[v].best
	}

	for w := n - 1; w >= 1; w-- {
		nd := nodes[w]
		for _, pred := range nd.block.pred.Items() {
			v, ok := index[pred]
			if !ok {
				continue
			}
			u := eval(v)
			if nodes[u].semi < nd.semi {
				nd.semi = nodes[u].semi
			}
		}
		nodes[nd.semi].bucket = append(nodes[nd.semi].bucket, w)
		p := nd.parent
		nd.ancestor = p
		for _, v := range nodes[p].bucket {
			u := eval(v)
			if nodes[u].semi < nodes[v].semi {
				nodes[v].idom = u
			} else {
				nodes[v].idom = p
			}
		}
		nodes[p].bucket = nil
	}

	for w := 1; w < n; w++ {
		if nodes[w].idom != nodes[w].semi {
			nodes[w].idom = nodes[nodes[w].idom].idom
		}
	}
	nodes[0].idom = -1

	frontier := make([][]*Block, n)
	for i := 1; i < n; i++ {
		if nodes[i].block.pred.Len() < 2 {
			continue
		}
		for _, p := range nodes[i].block.pred.Items() {
			pi, ok := index[p]
			if !ok {
				continue
			}
			runner := pi
			for runner != nodes[i].idom {
				frontier[runner] = append(frontier[runner], nodes[i].block)
				runner = nodes[runner].idom
			}
		}
	}

	order := make([]*Block, n)
	idom := make([]int, n)
	for i, nd := range nodes {
		order[i] = nd.block
		idom[i] = nd.idom
	}
	return &Dominance{index: index, order: order, idom: idom, frontier: frontier}
}
