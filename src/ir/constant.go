package ir

import (
	"math"
	"math/big"

	"velac/src/ir/prim"
)

// Constant is an immediate value. The payload is always carried as a full
// 128-bit two-part quantity regardless of the logical width of Type: Lo
// holds the low 64 bits, Hi the high 64 bits. Integer payloads of signed
// types are sign-extended to fill all 128 stored bits; float payloads
// occupy the low 32 or 64 bits of Lo in IEEE754 binary form. Bool uses
// only bit 0 of Lo.
type Constant struct {
	Type prim.Type
	Lo   uint64
	Hi   uint64
}

var one = big.NewInt(1)

// constToBig interprets c's stored payload as a mathematical integer,
// honouring c.Type's width and signedness. Only meaningful for non-float
// types.
func constToBig(c Constant) *big.Int {
	width := uint(prim.Sizes[c.Type]) * 8
	v := new(big.Int).SetUint64(c.Lo)
	if width > 64 {
		hi := new(big.Int).SetUint64(c.Hi)
		mask := new(big.Int).Sub(new(big.Int).Lsh(one, width-64), one)
		hi.And(hi, mask)
		v.Or(v, new(big.Int).Lsh(hi, 64))
	} else if width < 64 {
		mask := new(big.Int).Sub(new(big.Int).Lsh(one, width), one)
		v.And(v, mask)
	}
	if prim.Signed(c.Type) {
		half := new(big.Int).Lsh(one, width-1)
		if v.Cmp(half) >= 0 {
			v.Sub(v, new(big.Int).Lsh(one, width))
		}
	}
	return v
}

// unsignedBig interprets c's stored payload as an unsigned integer of the
// given bit width, ignoring signedness entirely.
func unsignedBig(c Constant, width uint) *big.Int {
	v := new(big.Int).SetUint64(c.Lo)
	if width > 64 {
		hi := new(big.Int).SetUint64(c.Hi)
		v.Or(v, new(big.Int).Lsh(hi, 64))
	}
	if width < 128 {
		mask := new(big.Int).Sub(new(big.Int).Lsh(one, width), one)
		v.And(v, mask)
	}
	return v
}

// bigToConst renders the mathematical integer v into the 128-bit stored
// form of a constant of type typ: truncate to typ's width, then, for
// signed types, sign-extend the truncated value back out to fill all 128
// stored bits.
func bigToConst(typ prim.Type, v *big.Int) Constant {
	width := uint(prim.Sizes[typ]) * 8
	mod := new(big.Int).Lsh(one, width)
	u := new(big.Int).Mod(v, mod)
	if u.Sign() < 0 {
		u.Add(u, mod)
	}
	if prim.Signed(typ) && width < 128 {
		half := new(big.Int).Lsh(one, width-1)
		if u.Cmp(half) >= 0 {
			full := new(big.Int).Lsh(one, 128)
			u.Sub(u, mod)
			u.Add(u, full)
		}
	}
	mask64 := new(big.Int).SetUint64(^uint64(0))
	lo := new(big.Int).And(u, mask64).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	return Constant{Type: typ, Lo: lo, Hi: hi}
}

func boolConst(b bool) Constant {
	var lo uint64
	if b {
		lo = 1
	}
	return Constant{Type: prim.Bool, Lo: lo}
}

func boolValue(c Constant) bool {
	return c.Lo&1 != 0
}

func isZero(c Constant) bool {
	switch c.Type {
	case prim.F32:
		return math.Float32frombits(uint32(c.Lo)) == 0
	case prim.F64:
		return math.Float64frombits(c.Lo) == 0
	default:
		return c.Lo == 0 && c.Hi == 0
	}
}

// Cast converts src to a constant of type dest, per the destination-type
// rule of the language: integer-to-integer conversions truncate to the
// destination width and sign-extend back out if the destination is
// signed; conversions to or from a floating-point type convert the actual
// numeric value rather than reinterpreting bits.
func Cast(dest prim.Type, src Constant) Constant {
	switch {
	case prim.Float(dest) && prim.Float(src.Type):
		return floatToFloat(dest, src)
	case prim.Float(dest):
		return intToFloat(dest, src)
	case prim.Float(src.Type):
		return floatToInt(dest, src)
	default:
		return bigToConst(dest, constToBig(src))
	}
}

func floatValue(c Constant) float64 {
	switch c.Type {
	case prim.F32:
		return float64(math.Float32frombits(uint32(c.Lo)))
	default:
		return math.Float64frombits(c.Lo)
	}
}

func floatConst(typ prim.Type, v float64) Constant {
	if typ == prim.F32 {
		return Constant{Type: typ, Lo: uint64(math.Float32bits(float32(v)))}
	}
	return Constant{Type: typ, Lo: math.Float64bits(v)}
}

func floatToFloat(dest prim.Type, src Constant) Constant {
	return floatConst(dest, floatValue(src))
}

func intToFloat(dest prim.Type, src Constant) Constant {
	v := constToBig(src)
	f := new(big.Float).SetInt(v)
	fv, _ := f.Float64()
	return floatConst(dest, fv)
}

func floatToInt(dest prim.Type, src Constant) Constant {
	v := floatValue(src)
	bi, _ := big.NewFloat(v).Int(nil)
	return bigToConst(dest, bi)
}

// Calc1 evaluates a unary operator (other than Mov, which is handled by
// Cast) over a constant operand.
func Calc1(op prim.Op1, operand Constant) Constant {
	switch op {
	case prim.Seqz:
		return boolConst(isZero(operand))
	case prim.Snez:
		return boolConst(!isZero(operand))
	case prim.Neg:
		if prim.Float(operand.Type) {
			return floatConst(operand.Type, -floatValue(operand))
		}
		return bigToConst(operand.Type, new(big.Int).Neg(constToBig(operand)))
	case prim.Bneg:
		return bigToConst(operand.Type, new(big.Int).Not(constToBig(operand)))
	case prim.Lnot:
		return boolConst(!boolValue(operand))
	default:
		bugf("calc1: unhandled operator %s", op)
		panic("unreachable")
	}
}

// Calc2 evaluates a binary operator over two constant operands of the same
// type. Comparison operators always produce a Bool result regardless of
// the operand type.
func Calc2(op prim.Op2, lhs, rhs Constant) Constant {
	switch op {
	case prim.Land:
		return boolConst(boolValue(lhs) && boolValue(rhs))
	case prim.Lor:
		return boolConst(boolValue(lhs) || boolValue(rhs))
	}

	if prim.Float(lhs.Type) {
		return floatCalc2(op, lhs, rhs)
	}

	switch op {
	case prim.Sgt, prim.Sle, prim.Slt, prim.Sge, prim.Seq, prim.Sne:
		return boolConst(intCompare(op, lhs, rhs))
	case prim.Scs, prim.Scc:
		return boolConst(addCarry(lhs, rhs, op == prim.Scc))
	default:
		return intArith(op, lhs, rhs)
	}
}

func intCompare(op prim.Op2, lhs, rhs Constant) bool {
	cmp := constToBig(lhs).Cmp(constToBig(rhs))
	switch op {
	case prim.Sgt:
		return cmp > 0
	case prim.Sle:
		return cmp <= 0
	case prim.Slt:
		return cmp < 0
	case prim.Sge:
		return cmp >= 0
	case prim.Seq:
		return cmp == 0
	case prim.Sne:
		return cmp != 0
	default:
		bugf("intCompare: unhandled operator %s", op)
		panic("unreachable")
	}
}

// addCarry reports the carry flag of an unsigned addition of lhs and rhs
// at the operands' declared width; invert gives the carry-clear variant.
func addCarry(lhs, rhs Constant, invert bool) bool {
	width := uint(prim.Sizes[lhs.Type]) * 8
	sum := new(big.Int).Add(unsignedBig(lhs, width), unsignedBig(rhs, width))
	carry := sum.BitLen() > int(width)
	if invert {
		return !carry
	}
	return carry
}

func intArith(op prim.Op2, lhs, rhs Constant) Constant {
	a, b := constToBig(lhs), constToBig(rhs)
	var r *big.Int
	switch op {
	case prim.Add:
		r = new(big.Int).Add(a, b)
	case prim.Sub:
		r = new(big.Int).Sub(a, b)
	case prim.Mul:
		r = new(big.Int).Mul(a, b)
	case prim.Div:
		if b.Sign() == 0 {
			return bigToConst(lhs.Type, big.NewInt(0))
		}
		r = new(big.Int).Quo(a, b)
	case prim.Mod:
		if b.Sign() == 0 {
			return bigToConst(lhs.Type, big.NewInt(0))
		}
		r = new(big.Int).Rem(a, b)
	case prim.Shl:
		r = new(big.Int).Lsh(a, uint(b.Uint64()))
	case prim.Shr:
		if prim.Signed(lhs.Type) {
			r = new(big.Int).Rsh(a, uint(b.Uint64()))
		} else {
			width := uint(prim.Sizes[lhs.Type]) * 8
			r = new(big.Int).Rsh(unsignedBig(lhs, width), uint(b.Uint64()))
		}
	case prim.Band:
		r = new(big.Int).And(a, b)
	case prim.Bor:
		r = new(big.Int).Or(a, b)
	case prim.Bxor:
		r = new(big.Int).Xor(a, b)
	default:
		bugf("intArith: unhandled operator %s", op)
		panic("unreachable")
	}
	return bigToConst(lhs.Type, r)
}

func floatCalc2(op prim.Op2, lhs, rhs Constant) Constant {
	a, b := floatValue(lhs), floatValue(rhs)
	switch op {
	case prim.Sgt:
		return boolConst(a > b)
	case prim.Sle:
		return boolConst(a <= b)
	case prim.Slt:
		return boolConst(a < b)
	case prim.Sge:
		return boolConst(a >= b)
	case prim.Seq:
		return boolConst(a == b)
	case prim.Sne:
		return boolConst(a != b)
	case prim.Add:
		return floatConst(lhs.Type, a+b)
	case prim.Sub:
		return floatConst(lhs.Type, a-b)
	case prim.Mul:
		return floatConst(lhs.Type, a*b)
	case prim.Div:
		return floatConst(lhs.Type, a/b)
	default:
		bugf("floatCalc2: operator %s not defined on floating-point operands", op)
		panic("unreachable")
	}
}
