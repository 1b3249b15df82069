package ir

// ToSSA converts f into SSA form: every variable is given at most one
// assignment, using dominance-frontier-directed phi insertion followed by
// renaming along a depth-first walk of successor edges from the entry
// block. A no-op if f is already SSA.
func ToSSA(f *Function) {
	if f.ssa {
		return
	}
	dom := ComputeDominance(f)

	// Snapshot the variable list before the loop: renaming creates fresh
	// variables appended to f.variables, and those must not themselves be
	// reprocessed by this same pass.
	original := f.Variables()
	for _, v := range original {
		insertCombinators(f, dom, v)
		renameAssignments(f, dom, v)
	}
	f.ssa = true
}

// insertCombinators inserts a phi node for v at every block in its
// iterated dominance frontier that can actually observe a use of v: a
// block only gets a phi if it, or some block reachable from it along
// successor edges, uses v. Blocks that assign v count as uses, and a
// definition of v on the way does not stop the search.
func insertCombinators(f *Function, dom *Dominance, v *Variable) {
	n := len(dom.order)
	usesVar := make([]bool, n)
	visited := make([]bool, n)

	for _, insn := range v.Uses() {
		if i, ok := dom.index[insn.Parent()]; ok {
			usesVar[i] = true
		}
	}

	var reaches func(i int) bool
	reaches = func(i int) bool {
		if visited[i] {
			return usesVar[i]
		}
		visited[i] = true
		uses := usesVar[i]
		for _, s := range dom.order[i].succ.Items() {
			si, ok := dom.index[s]
			if !ok {
				continue
			}
			if reaches(si) {
				uses = true
			}
		}
		usesVar[i] = uses
		return uses
	}

	defBlocks := make(map[int]bool)
	for _, insn := range v.Defs() {
		bi, ok := dom.index[insn.Parent()]
		if !ok {
			continue
		}
		defBlocks[bi] = true
		usesVar[bi] = true
		reaches(bi)
	}

	hasPhi := make([]bool, n)
	inWorklist := make(map[*Block]bool)
	var worklist []*Block
	enqueueFrontier := func(bi int) {
		for _, fb := range dom.frontier[bi] {
			if !inWorklist[fb] {
				inWorklist[fb] = true
				worklist = append(worklist, fb)
			}
		}
	}
	for bi := range defBlocks {
		enqueueFrontier(bi)
	}

	for len(worklist) > 0 {
		b := worklist[0]
		worklist = worklist[1:]
		bi, ok := dom.index[b]
		if !ok {
			continue
		}
		if hasPhi[bi] || !usesVar[bi] {
			continue
		}
		hasPhi[bi] = true
		createCombinator(b, v)
		enqueueFrontier(bi)
	}
}

// createCombinator inserts a fresh phi for dest at the head of b, bound by
// default to a zero constant on every incoming edge; renameAssignments
// later fills in the real value flowing from each predecessor.
func createCombinator(b *Block, dest *Variable) {
	preds := b.Pred()
	entries := make([]PhiEntry, len(preds))
	for i, p := range preds {
		entries[i] = PhiEntry{Pred: p, Value: ConstOperand(Constant{Type: dest.Type})}
	}
	b.AppendCombinator(dest, entries)
}

// renameAssignments performs the rename pass for a single original
// variable v as a depth-first walk over successor edges from the entry
// block: every block is visited once, each reference
// to the variable currently live on entry to the block is rewritten to the
// most recent definition seen along the walk, and each assignment site is
// given a fresh variable.
func renameAssignments(f *Function, dom *Dominance, v *Variable) {
	visited := make(map[*Block]bool, len(f.blocks))
	phiFrom := map[*Variable]bool{v: true}

	var walk func(b *Block, from, to *Variable)
	walk = func(b *Block, from, to *Variable) {
		if visited[b] {
			return
		}
		visited[b] = true

		for _, insn := range b.Instructions() {
			renameOperand(insn, from, to)
			if e, ok := insn.(*Expr); ok && e.Dest == from {
				from.removeDef(insn)
				to = f.CreateVariable(from.Type, "")
				e.Dest = to
				to.defList = append(to.defList, insn)
				if e.Kind == ExprCombinator {
					phiFrom[to] = true
				}
			}
		}

		if to != nil {
			for _, s := range b.Succ() {
				replacePhiVars(b, s, phiFrom, to)
			}
		}
		for _, s := range b.Succ() {
			walk(s, from, to)
		}
	}
	walk(dom.order[0], v, nil)
}

// renameOperand rewrites every operand slot of insn that references from
// into a reference to to, unless to is nil (meaning from has not yet been
// assigned on this path, so its original references still stand) or insn
// is a phi node (phi entries are only ever rewritten by replacePhiVars,
// driven from the predecessor side, not by the general per-instruction
// walk).
func renameOperand(insn Instruction, from, to *Variable) {
	if to == nil {
		return
	}
	sub := func(op Operand) Operand {
		if !op.IsConst() && op.Variable() == from {
			from.useSet.remove(insn)
			to.useSet.add(insn)
			return VarOperand(to)
		}
		return op
	}
	switch e := insn.(type) {
	case *Expr:
		switch e.Kind {
		case ExprUnary:
			e.Src = sub(e.Src)
		case ExprBinary:
			e.Lhs = sub(e.Lhs)
			e.Rhs = sub(e.Rhs)
		}
	case *Flow:
		switch e.Kind {
		case FlowBranch:
			e.Cond = sub(e.Cond)
		case FlowCallDirect:
			for i := range e.Args {
				e.Args[i] = sub(e.Args[i])
			}
		case FlowCallPtr:
			e.Addr = sub(e.Addr)
			for i := range e.Args {
				e.Args[i] = sub(e.Args[i])
			}
		case FlowReturn:
			if e.HasValue {
				e.Value = sub(e.Value)
			}
		}
	}
}

// replacePhiVars finds the (at most one) leading phi of succ that belongs
// to the current variable's lineage (tracked via phiFrom) and binds its
// entry for pred to to.
func replacePhiVars(pred, succ *Block, phiFrom map[*Variable]bool, to *Variable) {
	for _, phi := range leadingPhis(succ) {
		if !phiFrom[phi.Dest] {
			continue
		}
		for i := range phi.Entries {
			if phi.Entries[i].Pred == pred {
				phi.Entries[i].Value = VarOperand(to)
				to.useSet.add(phi)
			}
		}
		return
	}
}
