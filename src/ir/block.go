package ir

import "velac/src/ir/prim"

// Block is a basic block: a straight-line sequence of instructions with a
// single entry and, once built, at most one terminating instruction as its
// last instruction.
type Block struct {
	fn   *Function
	Name string

	instructions []Instruction
	pred         *orderedSet[*Block]
	succ         *orderedSet[*Block]
}

// Func returns the function that owns b.
func (b *Block) Func() *Function { return b.fn }

// Instructions returns the block's instructions in program order.
func (b *Block) Instructions() []Instruction {
	out := make([]Instruction, len(b.instructions))
	copy(out, b.instructions)
	return out
}

// Pred returns the block's predecessors, in the order they were last
// recorded (either by RecalcFlow's scan order, or by incremental
// maintenance in jump/branch append and block merge).
func (b *Block) Pred() []*Block { return b.pred.Items() }

// Succ returns the block's successors, in the order they were recorded.
func (b *Block) Succ() []*Block { return b.succ.Items() }

// Terminator returns the block's terminating instruction (jump, branch or
// return), or nil if the block is not yet terminated.
func (b *Block) Terminator() *Flow {
	if len(b.instructions) == 0 {
		return nil
	}
	if f, ok := b.instructions[len(b.instructions)-1].(*Flow); ok && f.Terminates() {
		return f
	}
	return nil
}

func (b *Block) checkNotTerminated() {
	if b.Terminator() != nil {
		bugf("block %q already has a terminator", b.Name)
	}
}

func (b *Block) checkOperandOwner(op Operand) {
	if !op.IsConst() && op.Variable().fn != b.fn {
		bugf("operand variable %q does not belong to function %q", op.Variable().Name, b.fn.Name)
	}
}

func (b *Block) checkType(op Operand, want prim.Type) {
	if op.Type() != want {
		bugf("operand type %s does not match expected type %s", op.Type(), want)
	}
}

func (b *Block) checkSingleAssign(dest *Variable) {
	if b.fn.ssa && len(dest.defList) >= 1 {
		bugf("variable %q assigned more than once in an SSA function", dest.Name)
	}
}

func (b *Block) recordUse(insn Instruction, op Operand) {
	if !op.IsConst() {
		op.Variable().useSet.add(insn)
	}
}

func (b *Block) recordDef(insn Instruction, dest *Variable) {
	dest.defList = append(dest.defList, insn)
}

// AppendUnary appends a unary expression computing op(src) into dest.
// SEQZ and SNEZ require dest to be typed Bool (the source's type is
// otherwise unconstrained); every other unary operator requires src's
// type to equal dest's type.
func (b *Block) AppendUnary(dest *Variable, op prim.Op1, src Operand) *Expr {
	b.checkNotTerminated()
	b.checkOperandOwner(src)
	switch op {
	case prim.Seqz, prim.Snez:
		if dest.Type != prim.Bool {
			bugf("%s requires a bool destination, got %s", op, dest.Type)
		}
	default:
		b.checkType(src, dest.Type)
	}
	b.checkSingleAssign(dest)

	expr := &Expr{parent: b, Kind: ExprUnary, Dest: dest, Op1: op, Src: src}
	b.instructions = append(b.instructions, expr)
	b.recordUse(expr, src)
	b.recordDef(expr, dest)
	return expr
}

// AppendBinary appends a binary expression computing lhs op rhs into dest.
// Comparison operators (see prim.Op2.Comparison) require a Bool dest and
// two operands of one shared type; every other operator requires both
// operands to share dest's declared type.
func (b *Block) AppendBinary(dest *Variable, op prim.Op2, lhs, rhs Operand) *Expr {
	b.checkNotTerminated()
	b.checkOperandOwner(lhs)
	b.checkOperandOwner(rhs)
	if op.Comparison() {
		if dest.Type != prim.Bool {
			bugf("%s requires a bool destination, got %s", op, dest.Type)
		}
		b.checkType(rhs, lhs.Type())
	} else {
		b.checkType(lhs, dest.Type)
		b.checkType(rhs, dest.Type)
	}
	b.checkSingleAssign(dest)

	expr := &Expr{parent: b, Kind: ExprBinary, Dest: dest, Op2: op, Lhs: lhs, Rhs: rhs}
	b.instructions = append(b.instructions, expr)
	b.recordUse(expr, lhs)
	b.recordUse(expr, rhs)
	b.recordDef(expr, dest)
	return expr
}

// AppendUndefined appends an instruction that assigns dest an unspecified
// value.
func (b *Block) AppendUndefined(dest *Variable) *Expr {
	b.checkNotTerminated()
	b.checkSingleAssign(dest)

	expr := &Expr{parent: b, Kind: ExprUndefined, Dest: dest}
	b.instructions = append(b.instructions, expr)
	b.recordDef(expr, dest)
	return expr
}

// AppendCombinator inserts a phi node for dest at the head of the block,
// bound by entries: one entry per current predecessor of b, in any order,
// with no predecessor repeated and none missing. Because the phi goes at
// the head, the block may already be terminated.
func (b *Block) AppendCombinator(dest *Variable, entries []PhiEntry) *Expr {
	if len(entries) != b.pred.Len() {
		bugf("combinator for %q has %d entries but block %q has %d predecessors", dest.Name, len(entries), b.Name, b.pred.Len())
	}
	seen := make(map[*Block]bool, len(entries))
	for _, e := range entries {
		if e.Pred.fn != b.fn {
			bugf("combinator predecessor %q does not belong to function %q", e.Pred.Name, b.fn.Name)
		}
		if !b.pred.contains(e.Pred) {
			bugf("combinator entry references %q, which is not a predecessor of %q", e.Pred.Name, b.Name)
		}
		if seen[e.Pred] {
			bugf("combinator for %q has more than one entry for predecessor %q", dest.Name, e.Pred.Name)
		}
		seen[e.Pred] = true
		b.checkOperandOwner(e.Value)
		b.checkType(e.Value, dest.Type)
	}
	b.checkSingleAssign(dest)

	entriesCopy := make([]PhiEntry, len(entries))
	copy(entriesCopy, entries)
	expr := &Expr{parent: b, Kind: ExprCombinator, Dest: dest, Entries: entriesCopy}
	b.instructions = append([]Instruction{expr}, b.instructions...)
	for _, e := range entriesCopy {
		b.recordUse(expr, e.Value)
	}
	b.recordDef(expr, dest)
	return expr
}

// AppendJump appends an unconditional jump to target, terminating the
// block, and records the new predecessor/successor edge.
func (b *Block) AppendJump(target *Block) *Flow {
	b.checkNotTerminated()
	if target.fn != b.fn {
		bugf("jump target %q does not belong to function %q", target.Name, b.fn.Name)
	}
	flow := &Flow{parent: b, Kind: FlowJump, Target: target}
	b.instructions = append(b.instructions, flow)
	b.succ.add(target)
	target.pred.add(b)
	return flow
}

// AppendBranch appends a conditional branch to target taken when cond is
// nonzero, terminating the block. Falling through (the implicit "not
// taken" edge) is not represented here: the caller is responsible for the
// block's only other possible successor being whatever it appends next, or
// for omitting AppendBranch and using two blocks joined by jumps instead.
func (b *Block) AppendBranch(cond Operand, target *Block) *Flow {
	b.checkNotTerminated()
	b.checkOperandOwner(cond)
	b.checkType(cond, prim.Bool)
	if target.fn != b.fn {
		bugf("branch target %q does not belong to function %q", target.Name, b.fn.Name)
	}
	flow := &Flow{parent: b, Kind: FlowBranch, Cond: cond, Target: target}
	b.instructions = append(b.instructions, flow)
	b.recordUse(flow, cond)
	b.succ.add(target)
	target.pred.add(b)
	return flow
}

// AppendCallDirect appends a direct call to the named label. A call is not
// a terminator: further instructions may legally follow it in the block.
func (b *Block) AppendCallDirect(label string, args []Operand) *Flow {
	b.checkNotTerminated()
	for _, a := range args {
		b.checkOperandOwner(a)
	}
	argsCopy := append([]Operand(nil), args...)
	flow := &Flow{parent: b, Kind: FlowCallDirect, Label: label, Args: argsCopy}
	b.instructions = append(b.instructions, flow)
	for _, a := range argsCopy {
		b.recordUse(flow, a)
	}
	return flow
}

// AppendCallPtr appends an indirect call through addr. A call is not a
// terminator: further instructions may legally follow it in the block.
func (b *Block) AppendCallPtr(addr Operand, args []Operand) *Flow {
	b.checkNotTerminated()
	b.checkOperandOwner(addr)
	for _, a := range args {
		b.checkOperandOwner(a)
	}
	argsCopy := append([]Operand(nil), args...)
	flow := &Flow{parent: b, Kind: FlowCallPtr, Addr: addr, Args: argsCopy}
	b.instructions = append(b.instructions, flow)
	b.recordUse(flow, addr)
	for _, a := range argsCopy {
		b.recordUse(flow, a)
	}
	return flow
}

// AppendReturn appends a value-less return, terminating the block.
func (b *Block) AppendReturn() *Flow {
	b.checkNotTerminated()
	flow := &Flow{parent: b, Kind: FlowReturn}
	b.instructions = append(b.instructions, flow)
	return flow
}

// AppendReturnValue appends a return carrying value, terminating the
// block.
func (b *Block) AppendReturnValue(value Operand) *Flow {
	b.checkNotTerminated()
	b.checkOperandOwner(value)
	flow := &Flow{parent: b, Kind: FlowReturn, HasValue: true, Value: value}
	b.instructions = append(b.instructions, flow)
	b.recordUse(flow, value)
	return flow
}
