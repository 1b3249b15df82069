package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"velac/src/ir/prim"
)

func blockNames(bs []*Block) []string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name
	}
	return names
}

// TestDeleteBlockCollapsesSinglePredecessorPhi checks that deleting a
// block removes it from its predecessors' terminators and collapses any
// successor phi down to a plain value when only one entry remains.
func TestDeleteBlockCollapsesSinglePredecessorPhi(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "entry", nil)
	entry := f.Blocks()[0]
	l := f.CreateBlock("l")
	r := f.CreateBlock("r")
	m := f.CreateBlock("m")

	entry.AppendBranch(ConstOperand(Constant{Type: prim.Bool, Lo: 1}), l)
	entry.AppendJump(r)
	l.AppendJump(m)
	r.AppendJump(m)

	x := f.CreateVariable(prim.S32, "x")
	lv := ConstOperand(Constant{Type: prim.S32, Lo: 1})
	rv := ConstOperand(Constant{Type: prim.S32, Lo: 2})
	m.AppendCombinator(x, []PhiEntry{{Pred: l, Value: lv}, {Pred: r, Value: rv}})
	m.AppendReturnValue(VarOperand(x))

	DeleteBlock(f, r)

	if diff := cmp.Diff([]string{"l"}, blockNames(m.Pred())); diff != "" {
		t.Errorf("m.Pred() mismatch after deleting r (-want +got):\n%s", diff)
	}
	if len(leadingPhis(m)) != 0 {
		t.Errorf("phi with a single remaining entry should collapse, got %d phis", len(leadingPhis(m)))
	}
	ret := m.Terminator()
	if !ret.Value.IsConst() || int32(ret.Value.Constant().Lo) != 1 {
		t.Errorf("return should now read the surviving entry's constant, got %v", ret.Value)
	}
}

// TestReplaceVariableRejectsSelfReference checks the self-referential
// replace guard: replacing v with an operand that itself refers to v must
// panic rather than loop forever.
func TestReplaceVariableRejectsSelfReference(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "entry", nil)
	v := f.CreateVariable(prim.S32, "v")

	defer func() {
		if recover() == nil {
			t.Error("replacing a variable with an operand referencing itself should panic")
		}
	}()
	ReplaceVariable(v, VarOperand(v))
}

// TestDeleteVariableRemovesFromFunction checks that DeleteVariable removes
// every instruction that defines or uses v and removes v itself.
func TestDeleteVariableRemovesFromFunction(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "entry", []string{"a"})
	entry := f.Blocks()[0]
	u := f.CreateVariable(prim.S32, "u")
	entry.AppendUnary(u, prim.Mov, VarOperand(f.Params()[0]))
	entry.AppendReturn()

	DeleteVariable(f, u)

	for _, v := range f.Variables() {
		if v == u {
			t.Fatal("u should have been removed from the function's variable list")
		}
	}
	for _, insn := range entry.Instructions() {
		if e, ok := insn.(*Expr); ok && e.Dest == u {
			t.Fatal("u's assigning instruction should have been deleted")
		}
	}
}
