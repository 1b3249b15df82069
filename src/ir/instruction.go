package ir

import "velac/src/ir/prim"

// Instruction is the sum type of all IR instructions: every instruction is
// either an *Expr (computes and assigns a value) or a *Flow (ends a
// block's control flow, or calls out without producing a value).
type Instruction interface {
	Parent() *Block
	isInstruction()
}

// ExprKind discriminates the variants of Expr.
type ExprKind uint8

const (
	ExprCombinator ExprKind = iota // phi node
	ExprUnary
	ExprBinary
	ExprUndefined
)

// PhiEntry binds the value flowing in from one predecessor block to a
// combinator (phi) expression.
type PhiEntry struct {
	Pred  *Block
	Value Operand
}

// Expr is a value-computing instruction. Only the fields relevant to Kind
// are meaningful; the others are zero.
type Expr struct {
	parent *Block

	Kind ExprKind
	Dest *Variable

	Op1 prim.Op1 // ExprUnary
	Src Operand  // ExprUnary

	Op2 prim.Op2 // ExprBinary
	Lhs Operand  // ExprBinary
	Rhs Operand  // ExprBinary

	Entries []PhiEntry // ExprCombinator
}

// Parent returns the block that holds the instruction.
func (e *Expr) Parent() *Block { return e.parent }
func (e *Expr) isInstruction() {}

// FlowKind discriminates the variants of Flow.
type FlowKind uint8

const (
	FlowJump FlowKind = iota
	FlowBranch
	FlowCallDirect
	FlowCallPtr
	FlowReturn
)

// Flow is a control-transferring instruction. Only the fields relevant to
// Kind are meaningful; the others are zero.
type Flow struct {
	parent *Block

	Kind FlowKind

	Target *Block  // FlowJump, FlowBranch
	Cond   Operand // FlowBranch

	Label string    // FlowCallDirect
	Addr  Operand   // FlowCallPtr
	Args  []Operand // FlowCallDirect, FlowCallPtr

	HasValue bool    // FlowReturn
	Value    Operand // FlowReturn
}

// Parent returns the block that holds the instruction.
func (f *Flow) Parent() *Block { return f.parent }
func (f *Flow) isInstruction() {}

// Terminates reports whether f ends its block's control flow: jumps,
// branches and returns do; calls do not (a call may legally be followed by
// further instructions).
func (f *Flow) Terminates() bool {
	switch f.Kind {
	case FlowJump, FlowBranch, FlowReturn:
		return true
	default:
		return false
	}
}
