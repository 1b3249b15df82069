package ir

import (
	"velac/src/ir/prim"

	"go.uber.org/zap"
)

// Optimize runs the fixed-point optimization pipeline over f: unused
// variable elimination, constant propagation, dead code elimination and
// branch coalescing, repeated until none of the four passes makes any
// further change. Returns whether anything changed.
func Optimize(f *Function) bool {
	return OptimizeVerbose(f, zap.NewNop().Sugar())
}

// OptimizeVerbose is Optimize with a logger reporting each pass's
// per-iteration change, for the --verbose fixture driver path. log is
// taken as a parameter rather than read from a package global, so the
// core IR package carries no ambient logging state of its own.
func OptimizeVerbose(f *Function, log *zap.SugaredLogger) bool {
	changed := false
	for iter := 1; ; iter++ {
		u := UnusedVars(f)
		c := ConstProp(f)
		d := DeadCode(f)
		b := Branches(f)
		loop := u || c || d || b
		changed = changed || loop
		log.Debugw("optimize pass",
			"function", f.Name,
			"iteration", iter,
			"unusedVars", u,
			"constProp", c,
			"deadCode", d,
			"branches", b,
		)
		if !loop {
			break
		}
	}
	return changed
}

// UnusedVars deletes every variable with an empty use-set, along with its
// assigning instruction(s), repeating until no more such variables remain
// (deleting one variable's assignment can make another variable's sole use
// disappear, making it unused in turn).
func UnusedVars(f *Function) bool {
	deleted := false
	for {
		loop := false
		for _, v := range f.Variables() {
			if v.UseCount() == 0 {
				DeleteVariable(f, v)
				deleted = true
				loop = true
			}
		}
		if !loop {
			break
		}
	}
	return deleted
}

// ConstProp replaces every variable with exactly one assignment, whose
// assigning expression has only constant operands, with the folded
// constant everywhere it is used, then deletes the now-dead variable.
// Repeats to a fixed point, since folding one variable can make another's
// sole remaining operand a constant.
func ConstProp(f *Function) bool {
	propagated := false
	for {
		loop := false
		for _, v := range f.Variables() {
			defs := v.Defs()
			if len(defs) != 1 {
				continue
			}
			expr, ok := defs[0].(*Expr)
			if !ok {
				continue
			}
			if constPropExpr(f, expr) {
				loop = true
			}
		}
		propagated = propagated || loop
		if !loop {
			break
		}
	}
	return propagated
}

func constPropExpr(f *Function, expr *Expr) bool {
	switch expr.Kind {
	case ExprUnary:
		if !expr.Src.IsConst() {
			return false
		}
		var c Constant
		if expr.Op1 == prim.Mov {
			c = Cast(expr.Dest.Type, expr.Src.Constant())
		} else {
			c = Calc1(expr.Op1, expr.Src.Constant())
		}
		dest := expr.Dest
		ReplaceVariable(dest, ConstOperand(c))
		DeleteVariable(f, dest)
		return true
	case ExprBinary:
		if !expr.Lhs.IsConst() || !expr.Rhs.IsConst() {
			return false
		}
		c := Calc2(expr.Op2, expr.Lhs.Constant(), expr.Rhs.Constant())
		dest := expr.Dest
		ReplaceVariable(dest, ConstOperand(c))
		DeleteVariable(f, dest)
		return true
	default:
		return false
	}
}

// DeadCode walks the CFG from the entry block, deleting every instruction
// that follows a jump, an always-taken branch or a return within the same
// block, and every block unreachable from entry. Repeats to a fixed
// point, recalculating pred/succ after each pass since deleting blocks and
// instructions changes the reachable set.
func DeadCode(f *Function) bool {
	changed := false
	for {
		visited := make(map[*Block]bool, len(f.blocks))
		loop := deadCodeDFS(f.Entry(), visited)

		for _, b := range f.Blocks() {
			if !visited[b] {
				DeleteBlock(f, b)
				loop = true
			}
		}
		RecalcFlow(f)

		changed = changed || loop
		if !loop {
			break
		}
	}
	return changed
}

func deadCodeDFS(b *Block, visited map[*Block]bool) bool {
	if visited[b] {
		return false
	}
	visited[b] = true

	dead := false
	changed := false
	for _, insn := range b.Instructions() {
		if dead {
			DeleteInsn(insn)
			changed = true
			continue
		}
		flow, ok := insn.(*Flow)
		if !ok {
			continue
		}
		switch flow.Kind {
		case FlowJump:
			dead = true
			if deadCodeDFS(flow.Target, visited) {
				changed = true
			}
		case FlowReturn:
			dead = true
		case FlowBranch:
			switch {
			case flow.Cond.IsConst() && boolValue(flow.Cond.Constant()):
				dead = true
				if deadCodeDFS(flow.Target, visited) {
					changed = true
				}
			case flow.Cond.IsConst():
				DeleteInsn(insn)
				changed = true
			default:
				if deadCodeDFS(flow.Target, visited) {
					changed = true
				}
			}
		}
	}
	return changed
}

// Branches coalesces any block with a single successor that has no other
// predecessor into its successor, repeating along each such chain and
// recursing over the whole reachable graph.
func Branches(f *Function) bool {
	visited := make(map[*Block]bool, len(f.blocks))
	return branchOptDFS(f.Entry(), visited)
}

func branchOptDFS(b *Block, visited map[*Block]bool) bool {
	if visited[b] {
		return false
	}
	visited[b] = true

	changed := false
	for b.succ.Len() == 1 {
		succ := b.Succ()[0]
		if succ.pred.Len() != 1 {
			break
		}
		mergeCode(b, succ)
		changed = true
	}

	for _, s := range b.Succ() {
		if branchOptDFS(s, visited) {
			changed = true
		}
	}
	return changed
}

// mergeCode absorbs second into first: first's own terminator (the sole
// jump to second) is deleted, second's instructions are reparented onto
// first, second's successors' predecessor edges are repointed to first,
// any phi entry in those successors naming second is retargeted to name
// first, and second is deleted.
func mergeCode(first, second *Block) {
	DeleteInsn(first.Terminator())

	for _, insn := range second.instructions {
		setParent(insn, first)
	}
	first.instructions = append(first.instructions, second.instructions...)
	second.instructions = nil

	for _, s := range second.succ.Items() {
		s.pred.remove(second)
		s.pred.add(first)
		retargetPhiPred(s, second, first)
	}
	first.succ.clear()
	second.pred.clear()
	first.succ, second.succ = second.succ, newOrderedSet[*Block]()

	DeleteBlock(first.fn, second)
}
