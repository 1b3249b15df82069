package ir

import (
	"fmt"
	"math"
	"strings"

	"velac/src/ir/prim"
)

// String renders p as the concatenation of its functions' serialised
// forms, each separated by a blank line. There is no reader for this
// format: serialisation is one-way, meant for diagnostics and golden-file
// tests, not for round-tripping.
func (p *Program) String() string {
	var sb strings.Builder
	for i, f := range p.functions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.String())
	}
	return sb.String()
}

// String renders f as:
//
//	[ssa ]function %<name>
//	    var <type> %<name>
//	    ...
//	    arg %<name>
//	    ...
//	code <<block>>
//	    <instruction>
//	    ...
func (f *Function) String() string {
	var sb strings.Builder
	if f.ssa {
		sb.WriteString("ssa ")
	}
	fmt.Fprintf(&sb, "function %%%s\n", f.Name)
	for _, v := range f.variables {
		fmt.Fprintf(&sb, "    var %s %%%s\n", v.Type, v.Name)
	}
	for _, p := range f.params {
		fmt.Fprintf(&sb, "    arg %%%s\n", p.Name)
	}
	for _, b := range f.blocks {
		fmt.Fprintf(&sb, "code <%s>\n", b.Name)
		for _, insn := range b.instructions {
			sb.WriteString("    ")
			serializeInsn(&sb, insn)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func serializeInsn(sb *strings.Builder, insn Instruction) {
	switch e := insn.(type) {
	case *Expr:
		serializeExpr(sb, e)
	case *Flow:
		serializeFlow(sb, e)
	}
}

func serializeExpr(sb *strings.Builder, e *Expr) {
	switch e.Kind {
	case ExprCombinator:
		fmt.Fprintf(sb, "phi %%%s", e.Dest.Name)
		for _, entry := range e.Entries {
			fmt.Fprintf(sb, ", <%s> %s", entry.Pred.Name, serializeOperand(entry.Value))
		}
	case ExprUnary:
		fmt.Fprintf(sb, "%s %%%s, %s", e.Op1, e.Dest.Name, serializeOperand(e.Src))
	case ExprBinary:
		fmt.Fprintf(sb, "%s %%%s, %s, %s", e.Op2, e.Dest.Name, serializeOperand(e.Lhs), serializeOperand(e.Rhs))
	case ExprUndefined:
		fmt.Fprintf(sb, "undef %%%s", e.Dest.Name)
	}
}

func serializeFlow(sb *strings.Builder, f *Flow) {
	switch f.Kind {
	case FlowJump:
		fmt.Fprintf(sb, "jump <%s>", f.Target.Name)
	case FlowBranch:
		fmt.Fprintf(sb, "branch %s, <%s>", serializeOperand(f.Cond), f.Target.Name)
	case FlowCallDirect:
		fmt.Fprintf(sb, "call_direct <%s>", f.Label)
		for _, a := range f.Args {
			sb.WriteString(", ")
			sb.WriteString(serializeOperand(a))
		}
	case FlowCallPtr:
		fmt.Fprintf(sb, "call_ptr %s", serializeOperand(f.Addr))
		for _, a := range f.Args {
			sb.WriteString(", ")
			sb.WriteString(serializeOperand(a))
		}
	case FlowReturn:
		sb.WriteString("return")
		if f.HasValue {
			sb.WriteString(" ")
			sb.WriteString(serializeOperand(f.Value))
		}
	}
}

func serializeOperand(op Operand) string {
	if op.IsConst() {
		return serializeConstant(op.Constant())
	}
	return "%" + op.Variable().Name
}

func serializeConstant(c Constant) string {
	if c.Type == prim.Bool {
		if boolValue(c) {
			return "true"
		}
		return "false"
	}

	width := prim.Sizes[c.Type]
	var hex string
	if width > 8 {
		hex = fmt.Sprintf("%016X%016X", c.Hi, c.Lo)
	} else {
		hex = fmt.Sprintf("%0*X", int(width)*2, c.Lo)
	}
	text := fmt.Sprintf("%s'0x%s", c.Type, hex)

	switch c.Type {
	case prim.F32:
		text += fmt.Sprintf(" /* %f */", float64(math.Float32frombits(uint32(c.Lo))))
	case prim.F64:
		text += fmt.Sprintf(" /* %f */", math.Float64frombits(c.Lo))
	}
	return text
}
