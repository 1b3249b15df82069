package ir

import (
	"testing"

	"velac/src/ir/prim"
)

// TestSSADiamondInsertsPhi covers scenario 5: entry branches to L and R,
// both jump to M; x is assigned in both and read in M. After ToSSA, M
// should begin with a phi over the two renamed definitions.
func TestSSADiamondInsertsPhi(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "entry", []string{"cond"})
	entry := f.Blocks()[0]
	cond := f.Params()[0]
	l := f.CreateBlock("l")
	r := f.CreateBlock("r")
	m := f.CreateBlock("m")

	x := f.CreateVariable(prim.S32, "x")
	test := f.CreateVariable(prim.Bool, "test")
	entry.AppendBinary(test, prim.Sne, VarOperand(cond), ConstOperand(Constant{Type: prim.S32}))
	entry.AppendBranch(VarOperand(test), l)
	entry.AppendJump(r)

	l.AppendUnary(x, prim.Mov, ConstOperand(Constant{Type: prim.S32, Lo: 10}))
	l.AppendJump(m)
	r.AppendUnary(x, prim.Mov, ConstOperand(Constant{Type: prim.S32, Lo: 20}))
	r.AppendJump(m)
	m.AppendReturnValue(VarOperand(x))

	ToSSA(f)

	phis := leadingPhis(m)
	if len(phis) != 1 {
		t.Fatalf("expected exactly 1 phi at the merge block, got %d", len(phis))
	}
	phi := phis[0]
	if len(phi.Entries) != 2 {
		t.Fatalf("phi has %d entries, want 2", len(phi.Entries))
	}
	seen := make(map[*Block]bool)
	for _, e := range phi.Entries {
		seen[e.Pred] = true
		if e.Value.IsConst() {
			t.Errorf("phi entry for %s is a constant, want the renamed definition from that branch", e.Pred.Name)
		}
	}
	if !seen[l] || !seen[r] {
		t.Errorf("phi entries are %v, want one each for l and r", phi.Entries)
	}

	ret := m.Terminator()
	if ret.Value.Variable() != phi.Dest {
		t.Errorf("return should read the phi's destination after renaming")
	}
}

// TestSSAPruneSkipsUnusedMergePhi covers scenario 6: x assigned in L and R
// but read only inside L's own subtree. ToSSA must place no phi at M.
func TestSSAPruneSkipsUnusedMergePhi(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "entry", []string{"cond"})
	entry := f.Blocks()[0]
	cond := f.Params()[0]
	l := f.CreateBlock("l")
	r := f.CreateBlock("r")
	m := f.CreateBlock("m")

	x := f.CreateVariable(prim.S32, "x")
	used := f.CreateVariable(prim.S32, "used")
	test := f.CreateVariable(prim.Bool, "test")
	entry.AppendBinary(test, prim.Sne, VarOperand(cond), ConstOperand(Constant{Type: prim.S32}))
	entry.AppendBranch(VarOperand(test), l)
	entry.AppendJump(r)

	l.AppendUnary(x, prim.Mov, ConstOperand(Constant{Type: prim.S32, Lo: 10}))
	l.AppendBinary(used, prim.Add, VarOperand(x), ConstOperand(Constant{Type: prim.S32, Lo: 1}))
	l.AppendJump(m)
	r.AppendUnary(x, prim.Mov, ConstOperand(Constant{Type: prim.S32, Lo: 20}))
	r.AppendJump(m)
	m.AppendReturn()

	ToSSA(f)

	if len(leadingPhis(m)) != 0 {
		t.Errorf("expected no phi at m, since x is never read there or beyond, got %d", len(leadingPhis(m)))
	}
}

// TestToSSAIdempotent checks the idempotency law: converting an
// already-SSA function is a no-op.
func TestToSSAIdempotent(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "entry", []string{"a", "b"})
	entry := f.Blocks()[0]
	params := f.Params()
	sum := f.CreateVariable(prim.S32, "sum")
	entry.AppendBinary(sum, prim.Add, VarOperand(params[0]), VarOperand(params[1]))
	entry.AppendReturnValue(VarOperand(sum))

	ToSSA(f)
	before := f.String()
	ToSSA(f)
	after := f.String()
	if before != after {
		t.Errorf("ToSSA is not idempotent:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}
