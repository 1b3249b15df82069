package ir

import "velac/src/ir/prim"

// Operand is either a constant value or a reference to a variable.
type Operand struct {
	constant Constant
	variable *Variable
	isConst  bool
}

// ConstOperand wraps a constant value as an operand.
func ConstOperand(c Constant) Operand {
	return Operand{constant: c, isConst: true}
}

// VarOperand wraps a variable reference as an operand.
func VarOperand(v *Variable) Operand {
	return Operand{variable: v}
}

// IsConst reports whether the operand is a constant rather than a variable
// reference.
func (o Operand) IsConst() bool { return o.isConst }

// Constant returns the operand's constant value. Calling it on a variable
// operand is a programmer error.
func (o Operand) Constant() Constant {
	if !o.isConst {
		bugf("operand is not a constant")
	}
	return o.constant
}

// Variable returns the operand's referenced variable, or nil if the
// operand is a constant.
func (o Operand) Variable() *Variable {
	return o.variable
}

// Type reports the primitive type of the operand.
func (o Operand) Type() prim.Type {
	if o.isConst {
		return o.constant.Type
	}
	return o.variable.Type
}
