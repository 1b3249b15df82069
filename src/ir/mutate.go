package ir

// ReplaceVariable rewrites every instruction that references v as an
// operand to instead reference value, then clears v's use-set. It does
// not touch v's def-list or delete v itself: callers that mean to retire v
// entirely should follow with DeleteVariable. Fails fatally if value
// itself refers to v (a replacement must not reintroduce the variable it
// is replacing).
func ReplaceVariable(v *Variable, value Operand) {
	if !value.IsConst() && value.Variable() == v {
		bugf("cannot replace variable %q with an operand referencing itself", v.Name)
	}
	for _, insn := range v.useSet.Items() {
		substituteOperand(insn, v, value)
	}
	v.useSet.clear()
}

// substituteOperand rewrites every operand slot of insn that references
// from into value. Used by the public ReplaceVariable mutator; unlike
// renameOperand (used internally by SSA construction) it also rewrites phi
// entries.
func substituteOperand(insn Instruction, from *Variable, value Operand) {
	sub := func(op Operand) Operand {
		if !op.IsConst() && op.Variable() == from {
			if !value.IsConst() {
				value.Variable().useSet.add(insn)
			}
			return value
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
		case ExprCombinator:
			for i := range e.Entries {
				e.Entries[i].Value = sub(e.Entries[i].Value)
			}
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

// DeleteInsn removes insn from its block's instruction list and from the
// use-set and def-list of every variable it references, and frees its
// owned side-data. It does not touch the block graph: deleting a jump or
// branch leaves stale predecessor/successor edges for the caller to fix
// with RecalcFlow.
func DeleteInsn(insn Instruction) {
	b := insn.Parent()
	for i, x := range b.instructions {
		if x == insn {
			b.instructions = append(b.instructions[:i], b.instructions[i+1:]...)
			break
		}
	}

	release := func(op Operand) {
		if !op.IsConst() {
			op.Variable().useSet.remove(insn)
		}
	}

	switch e := insn.(type) {
	case *Expr:
		e.Dest.removeDef(insn)
		switch e.Kind {
		case ExprUnary:
			release(e.Src)
		case ExprBinary:
			release(e.Lhs)
			release(e.Rhs)
		case ExprCombinator:
			for _, entry := range e.Entries {
				release(entry.Value)
			}
		}
	case *Flow:
		switch e.Kind {
		case FlowBranch:
			release(e.Cond)
		case FlowCallDirect:
			for _, a := range e.Args {
				release(a)
			}
		case FlowCallPtr:
			release(e.Addr)
			for _, a := range e.Args {
				release(a)
			}
		case FlowReturn:
			if e.HasValue {
				release(e.Value)
			}
		}
	}
}

// DeleteVariable deletes every instruction that uses or defines v (in a
// single pass, each deleted at most once), then removes v from its
// function.
func DeleteVariable(f *Function, v *Variable) {
	seen := make(map[Instruction]bool)
	var toDelete []Instruction
	for _, insn := range v.useSet.Items() {
		if !seen[insn] {
			seen[insn] = true
			toDelete = append(toDelete, insn)
		}
	}
	for _, insn := range v.defList {
		if !seen[insn] {
			seen[insn] = true
			toDelete = append(toDelete, insn)
		}
	}
	for _, insn := range toDelete {
		DeleteInsn(insn)
	}
	f.removeVariable(v)
}

// removeCombinatorPath removes the entry for pred from a phi expression.
// If that leaves the phi with exactly one entry, the phi is collapsed:
// its destination is replaced everywhere by the surviving entry's value,
// and the (now unreferenced) phi instruction is deleted.
func removeCombinatorPath(expr *Expr, pred *Block) {
	for i, entry := range expr.Entries {
		if entry.Pred == pred {
			if !entry.Value.IsConst() {
				entry.Value.Variable().useSet.remove(expr)
			}
			expr.Entries = append(expr.Entries[:i], expr.Entries[i+1:]...)
			break
		}
	}
	if len(expr.Entries) == 1 {
		ReplaceVariable(expr.Dest, expr.Entries[0].Value)
		DeleteInsn(expr)
	}
}

// retargetPhiPred rewrites every leading phi of b whose entry names from
// as its predecessor to name to instead, without touching the entry's
// value. Used when a block is absorbed into another by block merging: the
// absorbed block's identity disappears, but the edge it represented still
// exists, now carried by the surviving block.
func retargetPhiPred(b *Block, from, to *Block) {
	for _, phi := range leadingPhis(b) {
		for i := range phi.Entries {
			if phi.Entries[i].Pred == from {
				phi.Entries[i].Pred = to
			}
		}
	}
}

// leadingPhis returns the block's leading run of combinator instructions,
// which by construction always precede every non-phi instruction.
func leadingPhis(b *Block) []*Expr {
	var out []*Expr
	for _, insn := range b.instructions {
		e, ok := insn.(*Expr)
		if !ok || e.Kind != ExprCombinator {
			break
		}
		out = append(out, e)
	}
	return out
}

func setParent(insn Instruction, b *Block) {
	switch e := insn.(type) {
	case *Expr:
		e.parent = b
	case *Flow:
		e.parent = b
	}
}

// DeleteBlock removes b from its function: every predecessor's terminator
// that targets b is deleted, b is dropped from its neighbours' successor
// and predecessor sets, every successor's leading phi nodes lose
// their entry for b (collapsing to a plain assignment if that leaves a
// single entry), b's own instructions are deleted, and b is removed from
// the function's block list.
func DeleteBlock(f *Function, b *Block) {
	for _, p := range b.pred.Items() {
		for _, insn := range append([]Instruction(nil), p.instructions...) {
			if fl, ok := insn.(*Flow); ok && (fl.Kind == FlowJump || fl.Kind == FlowBranch) && fl.Target == b {
				DeleteInsn(fl)
			}
		}
		p.succ.remove(b)
	}
	for _, s := range b.succ.Items() {
		s.pred.remove(b)
		for _, phi := range leadingPhis(s) {
			removeCombinatorPath(phi, b)
		}
	}
	for _, insn := range append([]Instruction(nil), b.instructions...) {
		DeleteInsn(insn)
	}
	b.pred.clear()
	b.succ.clear()
	f.removeBlock(b)
}
