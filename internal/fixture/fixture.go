// Package fixture builds the example Functions the driver exercises: the
// six end-to-end scenarios a complete implementation of this IR is expected
// to handle correctly, from constant folding through SSA construction.
package fixture

import (
	"velac/src/ir"
	"velac/src/ir/prim"
	"velac/src/util"
)

// Builder constructs one named fixture program.
type Builder struct {
	Name        string
	Description string
	Build       func() *ir.Program
}

// All returns every registered fixture, in a stable order.
func All() []Builder {
	return []Builder{
		{"const-add", "constant folding collapses an ADD of two literals", ConstAdd},
		{"dead-branch", "an always-false branch and its unreachable target are removed", DeadBranch},
		{"unused-var", "an assignment whose result is never read is deleted", UnusedVar},
		{"block-merge", "a straight-line chain of single in/out blocks is coalesced", BlockMerge},
		{"ssa-diamond", "a diamond-shaped CFG gets a phi at the merge point", SSADiamond},
		{"ssa-prune", "a variable used only on one side of a branch gets no phi at the merge", SSAPrune},
	}
}

// ConstAdd builds scenario 1: entry assigns a = ADD(2, 3), exit returns a.
// After Optimize, entry should return the constant 5 directly.
func ConstAdd() *ir.Program {
	p := ir.NewProgram()
	f := p.CreateFunction("f", "entry", nil)
	entry := f.Blocks()[0]
	exit := f.CreateBlock(util.NewLabel(util.LabelExit))

	a := f.CreateVariable(prim.S32, "a")
	two := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 2})
	three := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 3})
	entry.AppendBinary(a, prim.Add, two, three)
	entry.AppendJump(exit)
	exit.AppendReturnValue(ir.VarOperand(a))
	return p
}

// DeadBranch builds scenario 2: entry branches on a constant false to an
// otherwise-unreachable target, then jumps to end.
func DeadBranch() *ir.Program {
	p := ir.NewProgram()
	f := p.CreateFunction("f", "entry", nil)
	entry := f.Blocks()[0]
	tgt := f.CreateBlock(util.NewLabel(util.LabelBranchTarget))
	end := f.CreateBlock(util.NewLabel(util.LabelExit))

	entry.AppendBranch(ir.ConstOperand(ir.Constant{Type: prim.Bool}), tgt)
	entry.AppendJump(end)

	tgt.AppendJump(end)
	end.AppendReturn()
	return p
}

// UnusedVar builds scenario 3: u = ADD(v, w) where u is never read.
func UnusedVar() *ir.Program {
	p := ir.NewProgram()
	f := p.CreateFunction("f", "entry", []string{"v", "w"})
	entry := f.Blocks()[0]
	params := f.Params()

	u := f.CreateVariable(prim.S32, "u")
	entry.AppendBinary(u, prim.Add, ir.VarOperand(params[0]), ir.VarOperand(params[1]))
	entry.AppendReturn()
	return p
}

// BlockMerge builds scenario 4: three blocks A -> B -> C, each with a
// single in/out edge and no phi.
func BlockMerge() *ir.Program {
	p := ir.NewProgram()
	f := p.CreateFunction("f", "a", nil)
	a := f.Blocks()[0]
	b := f.CreateBlock("b")
	c := f.CreateBlock("c")

	x := f.CreateVariable(prim.S32, "x")
	y := f.CreateVariable(prim.S32, "y")
	z := f.CreateVariable(prim.S32, "z")

	one := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 1})
	a.AppendUnary(x, prim.Mov, one)
	a.AppendJump(b)

	two := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 2})
	b.AppendBinary(y, prim.Add, ir.VarOperand(x), two)
	b.AppendJump(c)

	three := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 3})
	c.AppendBinary(z, prim.Mul, ir.VarOperand(y), three)
	c.AppendReturnValue(ir.VarOperand(z))
	return p
}

// SSADiamond builds scenario 5: entry branches to L and R, both jump to M;
// x is assigned in both L and R and read in M.
func SSADiamond() *ir.Program {
	p := ir.NewProgram()
	f := p.CreateFunction("f", "entry", []string{"cond"})
	entry := f.Blocks()[0]
	cond := f.Params()[0]

	l := f.CreateBlock("l")
	r := f.CreateBlock("r")
	m := f.CreateBlock(util.NewLabel(util.LabelMerge))

	x := f.CreateVariable(prim.S32, "x")

	test := f.CreateVariable(prim.Bool, "test")
	entry.AppendBinary(test, prim.Sne, ir.VarOperand(cond), ir.ConstOperand(ir.Constant{Type: prim.S32}))
	entry.AppendBranch(ir.VarOperand(test), l)
	entry.AppendJump(r)

	ten := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 10})
	l.AppendUnary(x, prim.Mov, ten)
	l.AppendJump(m)

	twenty := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 20})
	r.AppendUnary(x, prim.Mov, twenty)
	r.AppendJump(m)

	m.AppendReturnValue(ir.VarOperand(x))
	return p
}

// SSAPrune builds scenario 6: x assigned in L and R but read only inside
// L's own subtree, not in M, so to_ssa must place no phi at M.
func SSAPrune() *ir.Program {
	p := ir.NewProgram()
	f := p.CreateFunction("f", "entry", []string{"cond"})
	entry := f.Blocks()[0]
	cond := f.Params()[0]

	l := f.CreateBlock("l")
	r := f.CreateBlock("r")
	m := f.CreateBlock(util.NewLabel(util.LabelMerge))

	x := f.CreateVariable(prim.S32, "x")
	used := f.CreateVariable(prim.S32, "used")

	test := f.CreateVariable(prim.Bool, "test")
	entry.AppendBinary(test, prim.Sne, ir.VarOperand(cond), ir.ConstOperand(ir.Constant{Type: prim.S32}))
	entry.AppendBranch(ir.VarOperand(test), l)
	entry.AppendJump(r)

	ten := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 10})
	one := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 1})
	l.AppendUnary(x, prim.Mov, ten)
	l.AppendBinary(used, prim.Add, ir.VarOperand(x), one)
	l.AppendJump(m)

	twenty := ir.ConstOperand(ir.Constant{Type: prim.S32, Lo: 20})
	r.AppendUnary(x, prim.Mov, twenty)
	r.AppendJump(m)

	m.AppendReturn()
	return p
}
