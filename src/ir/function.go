package ir

import "velac/src/ir/prim"

// Function owns a list of variables, a list of blocks (the first of which
// is the entry block), a list of parameter variables, and tracks whether
// it currently satisfies the SSA invariant.
type Function struct {
	Name string

	variables []*Variable
	blocks    []*Block
	params    []*Variable

	ssa    bool
	nextID int
}

// SSA reports whether ToSSA has converted this function.
func (f *Function) SSA() bool { return f.ssa }

// Variables returns every variable the function owns, in creation order
// (parameters first, since they are created first).
func (f *Function) Variables() []*Variable {
	out := make([]*Variable, len(f.variables))
	copy(out, f.variables)
	return out
}

// Params returns the function's parameter variables, in declaration order.
func (f *Function) Params() []*Variable {
	out := make([]*Variable, len(f.params))
	copy(out, f.params)
	return out
}

// Blocks returns the function's blocks, in creation order. The first
// element is always the entry block.
func (f *Function) Blocks() []*Block {
	out := make([]*Block, len(f.blocks))
	copy(out, f.blocks)
	return out
}

// Entry returns the function's entry block.
func (f *Function) Entry() *Block { return f.blocks[0] }

func (f *Function) nameVariable(name string) string {
	if name != "" {
		return name
	}
	n := f.nextID
	f.nextID++
	return ordinalName(n)
}

// ordinalName produces a default variable name ("0", "1", ...) from a
// monotonic per-function counter, used whenever the caller leaves a
// variable unnamed.
func ordinalName(n int) string {
	digits := "0123456789"
	if n < 10 {
		return string(digits[n])
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return string(buf)
}

// CreateVariable creates and registers a new variable owned by f. An empty
// name is replaced with the function's next default ordinal name.
func (f *Function) CreateVariable(typ prim.Type, name string) *Variable {
	v := &Variable{
		Name:   f.nameVariable(name),
		Type:   typ,
		fn:     f,
		useSet: newOrderedSet[Instruction](),
	}
	f.variables = append(f.variables, v)
	return v
}

// CreateBlock creates and registers a new block owned by f. An empty name
// is replaced with the function's next default ordinal name.
func (f *Function) CreateBlock(name string) *Block {
	b := &Block{
		Name: f.nameVariable(name),
		fn:   f,
		pred: newOrderedSet[*Block](),
		succ: newOrderedSet[*Block](),
	}
	f.blocks = append(f.blocks, b)
	return b
}

func (f *Function) removeVariable(v *Variable) {
	for i, x := range f.variables {
		if x == v {
			f.variables = append(f.variables[:i], f.variables[i+1:]...)
			return
		}
	}
}

func (f *Function) removeBlock(b *Block) {
	for i, x := range f.blocks {
		if x == b {
			f.blocks = append(f.blocks[:i], f.blocks[i+1:]...)
			return
		}
	}
}
