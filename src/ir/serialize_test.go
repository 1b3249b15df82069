package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"velac/src/ir/prim"
)

// TestSerializeConstantGrammar checks the bit-exact constant grammar:
// <ptype>'0x<hexpayload>, with true/false for bool and a trailing decimal
// comment for floats.
func TestSerializeConstantGrammar(t *testing.T) {
	require.Equal(t, "true", serializeConstant(Constant{Type: prim.Bool, Lo: 1}))
	require.Equal(t, "false", serializeConstant(Constant{Type: prim.Bool}))
	require.Equal(t, "s32'0x0000002A", serializeConstant(Constant{Type: prim.S32, Lo: 0x2A}))
	require.Equal(t, "u8'0xFF", serializeConstant(Constant{Type: prim.U8, Lo: 0xFF}))

	s128 := serializeConstant(Constant{Type: prim.S128, Lo: 1, Hi: 0})
	require.Len(t, strings.TrimPrefix(s128, "s128'0x"), 32)

	f32 := serializeConstant(Constant{Type: prim.F32, Lo: uint64(0x40490FDB)}) // ~pi
	require.True(t, strings.HasPrefix(f32, "f32'0x"))
	require.Contains(t, f32, "/*")
}

// TestSerializeFunctionGrammar checks the structural grammar of a function
// listing: header, var/arg lines, and instruction forms.
func TestSerializeFunctionGrammar(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("add", "entry", []string{"a", "b"})
	entry := f.Blocks()[0]
	params := f.Params()
	sum := f.CreateVariable(prim.S32, "sum")
	entry.AppendBinary(sum, prim.Add, VarOperand(params[0]), VarOperand(params[1]))
	entry.AppendReturnValue(VarOperand(sum))

	out := f.String()
	require.Contains(t, out, "function %add\n")
	require.Contains(t, out, "var s32 %a\n")
	require.Contains(t, out, "var s32 %b\n")
	require.Contains(t, out, "var s32 %sum\n")
	require.Contains(t, out, "arg %a\n")
	require.Contains(t, out, "arg %b\n")
	require.Contains(t, out, "code <entry>\n")
	require.Contains(t, out, "add %sum, %a, %b")
	require.Contains(t, out, "return %sum")
}

// TestSerializeSSAPrefix checks that an SSA-converted function is prefixed
// with "ssa ".
func TestSerializeSSAPrefix(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "entry", nil)
	f.Blocks()[0].AppendReturn()
	ToSSA(f)
	require.True(t, strings.HasPrefix(f.String(), "ssa function %f\n"))
}

// TestSerializeNoOpRecalcIsByteIdentical checks the law that serialising a
// function, then again after a no-op RecalcFlow, produces identical
// output.
func TestSerializeNoOpRecalcIsByteIdentical(t *testing.T) {
	p := NewProgram()
	f := p.CreateFunction("f", "a", nil)
	a := f.Blocks()[0]
	b := f.CreateBlock("b")
	a.AppendJump(b)
	b.AppendReturn()

	before := f.String()
	RecalcFlow(f)
	after := f.String()
	require.Equal(t, before, after)
}
