package ir

import "velac/src/ir/prim"

// Variable is a named, typed storage location owned by exactly one
// function. Before SSA conversion it may be assigned to more than once;
// after conversion (Function.SSA is true) it has at most one assignment.
type Variable struct {
	Name string
	Type prim.Type

	fn      *Function
	useSet  *orderedSet[Instruction]
	defList []Instruction
}

// Func returns the function that owns v.
func (v *Variable) Func() *Function { return v.fn }

// UseCount reports the number of instructions that reference v as an
// operand.
func (v *Variable) UseCount() int { return v.useSet.Len() }

// Uses returns the instructions that reference v as an operand, in the
// order they were recorded.
func (v *Variable) Uses() []Instruction { return v.useSet.Items() }

// Defs returns the instructions that assign v, in assignment order. Before
// SSA conversion there may be more than one; after, at most one.
func (v *Variable) Defs() []Instruction {
	out := make([]Instruction, len(v.defList))
	copy(out, v.defList)
	return out
}

func (v *Variable) removeDef(insn Instruction) {
	for i, d := range v.defList {
		if d == insn {
			v.defList = append(v.defList[:i], v.defList[i+1:]...)
			return
		}
	}
}
