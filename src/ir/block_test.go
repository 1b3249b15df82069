package ir

import (
	"testing"

	"velac/src/ir/prim"
)

// buildDiamond builds entry -> {l, r} -> m, with no defs, for use/def and
// pred/succ invariant checks. entry branches on an unassigned bool
// variable "cond", the function's only variable.
func buildDiamond(t *testing.T) (*Function, *Block, *Block, *Block, *Block) {
	t.Helper()
	p := NewProgram()
	f := p.CreateFunction("f", "entry", nil)
	entry := f.Blocks()[0]
	l := f.CreateBlock("l")
	r := f.CreateBlock("r")
	m := f.CreateBlock("m")

	cond := f.CreateVariable(prim.Bool, "cond")
	entry.AppendBranch(VarOperand(cond), l)
	entry.AppendJump(r)
	l.AppendJump(m)
	r.AppendJump(m)
	m.AppendReturn()
	return f, entry, l, r, m
}

// TestUseSetDefListCorrespondence checks invariant 1: every instruction
// that textually references a variable appears in its use-set, and vice
// versa.
func TestUseSetDefListCorrespondence(t *testing.T) {
	f, entry, _, _, _ := buildDiamond(t)
	cond := f.Variables()[0]

	branch := entry.Instructions()[0]
	uses := cond.Uses()
	if len(uses) != 1 || uses[0] != branch {
		t.Fatalf("cond.Uses() = %v, want [%v]", uses, branch)
	}
}

// TestSingleAssignmentInSSA checks invariant 2: once a function is in SSA,
// every non-parameter variable has at most one definition.
func TestSingleAssignmentInSSA(t *testing.T) {
	f, _, _, _, _ := buildDiamond(t)
	ToSSA(f)
	for _, v := range f.Variables() {
		if len(v.Defs()) > 1 {
			t.Errorf("variable %q has %d defs in SSA form, want <= 1", v.Name, len(v.Defs()))
		}
	}
}

// TestPredSuccSymmetry checks invariant 3: b.succ is exactly the set of
// terminator targets, and every edge is recorded on both sides.
func TestPredSuccSymmetry(t *testing.T) {
	f, entry, l, r, m := buildDiamond(t)
	_ = f

	wantSucc := map[*Block][]*Block{entry: {l, r}, l: {m}, r: {m}, m: nil}
	for b, want := range wantSucc {
		got := b.Succ()
		if len(got) != len(want) {
			t.Fatalf("%s.Succ() = %v, want %v", b.Name, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s.Succ()[%d] = %s, want %s", b.Name, i, got[i].Name, want[i].Name)
			}
		}
	}
	for _, s := range m.Pred() {
		found := false
		for _, ss := range s.Succ() {
			if ss == m {
				found = true
			}
		}
		if !found {
			t.Errorf("%s is a predecessor of m but m is not in its successor set", s.Name)
		}
	}
}

// TestTerminatorIsLastAndUnique checks invariant 4: appending after any
// terminator, including return, is fatal.
func TestTerminatorIsLastAndUnique(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "entry", nil)
	entry := f.Blocks()[0]
	entry.AppendReturn()

	defer func() {
		if recover() == nil {
			t.Error("appending after a terminator should panic")
		}
	}()
	entry.AppendReturn()
}

// TestPhisPrecedeNonPhis checks invariant 5: a block's leading
// combinators always precede its first non-phi instruction.
func TestPhisPrecedeNonPhis(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "entry", []string{"a"})
	entry := f.Blocks()[0]
	l := f.CreateBlock("l")
	m := f.CreateBlock("m")
	entry.AppendJump(l)
	l.AppendJump(m)

	x := f.CreateVariable(prim.S32, "x")
	m.AppendUndefined(x)
	m.AppendCombinator(x, []PhiEntry{{Pred: l, Value: ConstOperand(Constant{Type: prim.S32})}})
	m.AppendReturn()

	insns := m.Instructions()
	phiCount := len(leadingPhis(m))
	if phiCount != 1 {
		t.Fatalf("expected exactly 1 leading phi, got %d", phiCount)
	}
	if _, ok := insns[1].(*Expr); !ok || insns[1].(*Expr).Kind == ExprCombinator {
		t.Errorf("non-phi instruction should follow the leading phi, got %#v", insns[1])
	}
}

// TestCombinatorEntriesMatchPredecessors checks invariant 6: a phi's entry
// set is exactly the block's predecessor set, same type as the dest.
func TestCombinatorEntriesMatchPredecessors(t *testing.T) {
	f, _, l, r, m := buildDiamond(t)
	x := f.CreateVariable(prim.S32, "x")

	defer func() {
		if recover() == nil {
			t.Error("combinator with mismatched entries should panic")
		}
	}()
	m.AppendCombinator(x, []PhiEntry{{Pred: l, Value: ConstOperand(Constant{Type: prim.S32})}})
	_ = r
}

// TestOperandMustBelongToSameFunction exercises the cross-function operand
// ownership guard.
func TestOperandMustBelongToSameFunction(t *testing.T) {
	p := NewProgram()
	f1 := p.CreateFunction("f1", "entry", nil)
	f2 := p.CreateFunction("f2", "entry", nil)
	v := f2.CreateVariable(prim.S32, "v")

	defer func() {
		if recover() == nil {
			t.Error("using another function's variable as an operand should panic")
		}
	}()
	f1.Blocks()[0].AppendReturnValue(VarOperand(v))
}
