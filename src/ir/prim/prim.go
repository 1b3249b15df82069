// Package prim defines the primitive types and operators of the IR: the
// fixed-width integer, boolean and floating-point kinds a variable or
// constant may carry, and the unary/binary/flow operator vocabularies
// instructions are built from.
package prim

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Type identifies a primitive value type.
type Type uint8

// Op1 identifies a unary expression operator.
type Op1 uint8

// Op2 identifies a binary expression operator.
type Op2 uint8

// Flow identifies a control-flow instruction kind.
type Flow uint8

// ---------------------
// ----- Constants -----
// ---------------------

const (
	S8 Type = iota
	U8
	S16
	U16
	S32
	U32
	S64
	U64
	S128
	U128
	Bool
	F32
	F64
)

const (
	Mov Op1 = iota // Direct assignment, with implicit truncating/sign-extending cast.
	Seqz           // Equal to zero.
	Snez           // Not equal to zero.
	Neg            // Arithmetic negation.
	Bneg           // Bitwise complement.
	Lnot           // Logical negation.
)

const (
	Sgt Op2 = iota // Greater than.
	Sle            // Less than or equal.
	Slt            // Less than.
	Sge            // Greater than or equal.
	Seq            // Equal.
	Sne            // Not equal.
	Scs            // Addition carry out set.
	Scc            // Addition carry out clear.
	Add
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	Band
	Bor
	Bxor
	Land
	Lor
)

const (
	Jump Flow = iota
	Branch
	CallDirect
	CallPtr
	Return
)

// -------------------
// ----- Globals -----
// -------------------

// Sizes gives the byte size of every primitive type, in declaration order.
var Sizes = [...]uint8{
	S8:   1,
	U8:   1,
	S16:  2,
	U16:  2,
	S32:  4,
	U32:  4,
	S64:  8,
	U64:  8,
	S128: 16,
	U128: 16,
	Bool: 1,
	F32:  4,
	F64:  8,
}

var typeNames = [...]string{
	S8:   "s8",
	U8:   "u8",
	S16:  "s16",
	U16:  "u16",
	S32:  "s32",
	U32:  "u32",
	S64:  "s64",
	U64:  "u64",
	S128: "s128",
	U128: "u128",
	Bool: "bool",
	F32:  "f32",
	F64:  "f64",
}

var op1Names = [...]string{
	Mov:  "mov",
	Seqz: "seqz",
	Snez: "snez",
	Neg:  "neg",
	Bneg: "bneg",
	Lnot: "lnot",
}

var op2Names = [...]string{
	Sgt:  "sgt",
	Sle:  "sle",
	Slt:  "slt",
	Sge:  "sge",
	Seq:  "seq",
	Sne:  "sne",
	Scs:  "scs",
	Scc:  "scc",
	Add:  "add",
	Sub:  "sub",
	Mul:  "mul",
	Div:  "div",
	Mod:  "mod",
	Shl:  "shl",
	Shr:  "shr",
	Band: "band",
	Bor:  "bor",
	Bxor: "bxor",
	Land: "land",
	Lor:  "lor",
}

var flowNames = [...]string{
	Jump:       "jump",
	Branch:     "branch",
	CallDirect: "call_direct",
	CallPtr:    "call_ptr",
	Return:     "return",
}

// ---------------------
// ----- Functions -----
// ---------------------

// String gives the textual mnemonic used by the serialiser.
func (t Type) String() string { return typeNames[t] }

// String gives the textual mnemonic used by the serialiser.
func (o Op1) String() string { return op1Names[o] }

// String gives the textual mnemonic used by the serialiser.
func (o Op2) String() string { return op2Names[o] }

// String gives the textual mnemonic used by the serialiser.
func (f Flow) String() string { return flowNames[f] }

// Signed reports whether t is a two's-complement signed integer type.
func Signed(t Type) bool {
	switch t {
	case S8, S16, S32, S64, S128:
		return true
	default:
		return false
	}
}

// Float reports whether t is an IEEE754 floating-point type.
func Float(t Type) bool {
	return t == F32 || t == F64
}

// Comparison reports whether op produces a bool result from two operands
// of the same non-bool type.
func (o Op2) Comparison() bool {
	switch o {
	case Sgt, Sle, Slt, Sge, Seq, Sne, Scs, Scc:
		return true
	default:
		return false
	}
}
