package ir

import "velac/src/ir/prim"

// Program is a collection of functions, named and looked up by name. It
// carries no concurrency controls: building a program is expected to
// happen single-threaded, the same as every other part of this package.
type Program struct {
	functions []*Function
	index     map[string]*Function
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{index: make(map[string]*Function)}
}

// Functions returns the program's functions, in creation order.
func (p *Program) Functions() []*Function {
	out := make([]*Function, len(p.functions))
	copy(out, p.functions)
	return out
}

// Function looks up a function by name, returning nil if none exists.
func (p *Program) Function(name string) *Function {
	return p.index[name]
}

// CreateFunction creates a function named name with the given entry block
// name and one S32 parameter per entry of paramNames, registers it in the
// program, and returns it. Fails fatally if a function with that name
// already exists.
func (p *Program) CreateFunction(name, entryName string, paramNames []string) *Function {
	if _, ok := p.index[name]; ok {
		bugf("function %q already exists in program", name)
	}
	f := &Function{Name: name}
	f.CreateBlock(entryName)
	for _, pn := range paramNames {
		v := f.CreateVariable(prim.S32, pn)
		f.params = append(f.params, v)
	}
	p.functions = append(p.functions, f)
	p.index[name] = f
	return f
}
