package compiler

import (
	"github.com/stuforbes/java-compiler/ast"
)

// MethodSymbol is the resolved signature of a method of the class being
// compiled.
type MethodSymbol struct {
	Name       string
	ReturnType DataType
	Parameters []DataType
	Static     bool
}

func (m *MethodSymbol) Descriptor() string {
	return MethodDescriptor(m.ReturnType, m.Parameters)
}

// SymbolTable holds the methods declared by the class being compiled. It is
// filled before any code is emitted so calls may refer to methods declared
// later in the source.
type SymbolTable struct {
	class   string
	methods map[string]*MethodSymbol
	order   []string
}

func NewSymbolTable(class string) *SymbolTable {
	return &SymbolTable{class: class, methods: map[string]*MethodSymbol{}}
}

// Register adds sym. Overloading is not supported, so a second method with
// the same name is a *DuplicateMethodError.
func (st *SymbolTable) Register(sym *MethodSymbol) error {
	if _, exists := st.methods[sym.Name]; exists {
		return &DuplicateMethodError{Class: st.class, Method: sym.Name}
	}
	st.methods[sym.Name] = sym
	st.order = append(st.order, sym.Name)
	log.Debugf("registered %s.%s%s", st.class, sym.Name, sym.Descriptor())
	return nil
}

func (st *SymbolTable) Lookup(name string) (*MethodSymbol, bool) {
	sym, ok := st.methods[name]
	return sym, ok
}

// Methods returns the symbols in declaration order.
func (st *SymbolTable) Methods() []*MethodSymbol {
	out := make([]*MethodSymbol, len(st.order))
	for i, name := range st.order {
		out[i] = st.methods[name]
	}
	return out
}

func buildSymbolTable(class *ast.Class, types *typeSystem) (*SymbolTable, error) {
	st := NewSymbolTable(class.Name)
	for _, m := range class.Methods {
		sym, err := methodSymbol(m, types)
		if err != nil {
			return nil, err
		}
		if err := st.Register(sym); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func methodSymbol(m *ast.Method, types *typeSystem) (*MethodSymbol, error) {
	ret, err := types.Named(m.ReturnType, m.ReturnTypeIsArray)
	if err != nil {
		return nil, err
	}
	sym := &MethodSymbol{Name: m.Name, ReturnType: ret, Static: m.IsStatic}
	for _, p := range m.Parameters {
		t, err := types.Named(p.Type, p.IsArray)
		if err != nil {
			return nil, err
		}
		if t.IsVoid() {
			return nil, &TypeError{Context: "parameter " + p.Name, Want: "a value type", Got: "void"}
		}
		sym.Parameters = append(sym.Parameters, t)
	}
	return sym, nil
}
