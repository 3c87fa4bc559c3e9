package compiler

import (
	"errors"

	"github.com/stuforbes/java-compiler/ast"
	"github.com/stuforbes/java-compiler/catalog"
	"github.com/stuforbes/java-compiler/classfile"
)

// emitter turns the statements of one method body into instructions.
// Expression methods take the scoped object left by the previous step of a
// chain and return the one for the next step; nil means no member context.
type emitter struct {
	s        *session
	method   *MethodSymbol
	stack    *Stack
	resolver *Resolver

	code     []classfile.Instruction
	depth    int
	maxDepth int
	returned bool
}

func newEmitter(s *session, method *MethodSymbol, stack *Stack) *emitter {
	return &emitter{
		s:        s,
		method:   method,
		stack:    stack,
		resolver: NewResolver(stack, s.catalog),
	}
}

func (e *emitter) emit(op classfile.Opcode, operand uint16, delta int) {
	e.code = append(e.code, classfile.Instruction{Opcode: op, Operand: operand})
	e.depth += delta
	if e.depth > e.maxDepth {
		e.maxDepth = e.depth
	}
}

func (e *emitter) pool() *classfile.ConstantPool {
	return &e.s.cf.ConstantPool
}

// statement emits one statement. On failure the constant pool and the
// instruction list are restored to their state before the statement.
func (e *emitter) statement(stmt ast.Statement) error {
	if e.returned {
		return &UnreachableStatementError{Statement: stmt.String()}
	}
	poolMark, codeMark, depthMark := e.pool().Len(), len(e.code), e.depth
	if err := e.emitStatement(stmt); err != nil {
		*e.pool() = (*e.pool())[:poolMark]
		e.code = e.code[:codeMark]
		e.depth = depthMark
		return err
	}
	return nil
}

func (e *emitter) emitStatement(stmt ast.Statement) error {
	switch st := stmt.(type) {
	case *ast.ExpressionStatement:
		_, t, err := e.expression(st.Expression, nil)
		if err != nil {
			return err
		}
		if !t.IsVoid() {
			e.emit(t.PopOp(), 0, -t.Slots())
		}
		return nil
	case *ast.VariableAssignment:
		return e.declare(st.Name, st.Type, st.IsFinal, st.Value)
	case *ast.Return:
		return e.returnStatement(st)
	}
	return &UnsupportedError{What: "statement " + stmt.String()}
}

// finish closes the body: void methods fall off the end into a RETURN,
// other methods must already have returned.
func (e *emitter) finish(name string) error {
	if e.returned {
		return nil
	}
	if !e.method.ReturnType.IsVoid() {
		return &MissingReturnError{Method: name}
	}
	e.emit(classfile.RETURN, 0, 0)
	e.returned = true
	return nil
}

func (e *emitter) declare(name, typeName string, final bool, value ast.Expression) error {
	t, err := e.s.types.Named(typeName, false)
	if err != nil {
		return err
	}
	if t.IsVoid() {
		return &TypeError{Context: "variable " + name, Want: "a value type", Got: "void"}
	}
	if value != nil {
		if err := e.value(value, t, "variable "+name); err != nil {
			return err
		}
	}
	v, err := e.stack.Push(name, t)
	if err != nil {
		return err
	}
	v.Final = final
	if value != nil {
		e.store(v)
	}
	return nil
}

func (e *emitter) assign(a *ast.Assignment) error {
	if a.TypeDef != "" {
		return e.declare(a.Name, a.TypeDef, false, a.Value)
	}

	v, ok := e.stack.Get(a.Name)
	if !ok {
		// first assignment to an undeclared name declares it with the
		// value's type
		_, t, err := e.expression(a.Value, nil)
		if err != nil {
			return err
		}
		if t.IsVoid() {
			return &TypeError{Context: "assignment to " + a.Name, Want: "a value", Got: "void"}
		}
		if v, err = e.stack.Push(a.Name, t); err != nil {
			return err
		}
		e.store(v)
		return nil
	}

	if v.Final && v.Assigned {
		return &FinalVariableError{Name: a.Name}
	}
	if err := e.value(a.Value, v.Type, "assignment to "+a.Name); err != nil {
		return err
	}
	e.store(v)
	return nil
}

func (e *emitter) returnStatement(r *ast.Return) error {
	want := e.method.ReturnType
	if r.Value == nil {
		if !want.IsVoid() {
			return &TypeError{Context: "return", Want: want.String(), Got: "void"}
		}
		e.emit(classfile.RETURN, 0, 0)
		e.returned = true
		return nil
	}

	if want.IsVoid() {
		return &TypeError{Context: "return", Want: "void", Got: r.Value.String()}
	}
	if err := e.value(r.Value, want, "return"); err != nil {
		return err
	}
	e.emit(want.ReturnOp(), 0, -want.Slots())
	e.returned = true
	return nil
}

// value emits expr as a value assignable to want.
func (e *emitter) value(expr ast.Expression, want DataType, context string) error {
	_, t, err := e.expression(expr, nil)
	if err != nil {
		return err
	}
	if t.IsVoid() {
		return &TypeError{Context: context, Want: want.String(), Got: "void"}
	}
	if !e.s.types.Assignable(t, want) {
		return &TypeError{Context: context, Want: want.String(), Got: t.String()}
	}
	return nil
}

func (e *emitter) load(v *Variable) {
	e.emit(v.Type.LoadOp(), uint16(v.Slot), v.Type.Slots())
}

func (e *emitter) store(v *Variable) {
	e.emit(v.Type.StoreOp(), uint16(v.Slot), -v.Type.Slots())
	v.Assigned = true
}

// expression emits expr and reports the type of the value it left on the
// operand stack (void for none) and the member context for a following
// chain step.
func (e *emitter) expression(expr ast.Expression, scope *ScopedObject) (*ScopedObject, DataType, error) {
	void := Primitive(Void)
	switch x := expr.(type) {
	case *ast.StringLiteral:
		if scope != nil {
			return nil, void, &UnsupportedError{What: "string literal as a member of " + scope.Class.QualifiedName}
		}
		index, err := e.pool().AddString(x.Value)
		if err != nil {
			return nil, void, err
		}
		e.emit(classfile.LDC_W, index, 1)
		t := ObjectType("java.lang.String")
		return e.scopeOf(t), t, nil

	case *ast.StaticIdentifier:
		return e.identifier(x.Name, scope, false)

	case *ast.Variable:
		if x.TypeDef != "" {
			if scope != nil {
				return nil, void, &UnsupportedError{What: "declaration of " + x.Name + " inside an expression"}
			}
			return nil, void, e.declare(x.Name, x.TypeDef, false, nil)
		}
		return e.identifier(x.Name, scope, false)

	case *ast.ObjectExpression:
		return e.chain(x, scope)

	case *ast.Call:
		return e.call(x, scope)

	case *ast.Assignment:
		if scope != nil {
			return nil, void, &UnsupportedError{What: "assignment to member " + x.Name}
		}
		return nil, void, e.assign(x)
	}
	return nil, void, &UnsupportedError{What: "expression " + expr.String()}
}

// chain emits Parent then Child, threading the scoped object from one to
// the other.
func (e *emitter) chain(x *ast.ObjectExpression, scope *ScopedObject) (*ScopedObject, DataType, error) {
	var (
		parentScope *ScopedObject
		parentType  DataType
		err         error
	)
	if id, ok := x.Parent.(*ast.StaticIdentifier); ok {
		parentScope, parentType, err = e.identifier(id.Name, scope, true)
	} else {
		parentScope, parentType, err = e.expression(x.Parent, scope)
	}
	if err != nil {
		return nil, parentType, err
	}
	if parentScope == nil {
		if parentType.Kind == Object {
			return nil, parentType, &UnknownClassError{Name: parentType.ClassName}
		}
		return nil, parentType, &UnsupportedError{What: "member access on " + parentType.String() + " value " + x.Parent.String()}
	}
	return e.expression(x.Child, parentScope)
}

// identifier emits a name. Unscoped, it is a local or a class; scoped, it is
// a static field of the scoped class. A qualifier that resolves to nothing
// is reported as an unknown class.
func (e *emitter) identifier(name string, scope *ScopedObject, qualifier bool) (*ScopedObject, DataType, error) {
	void := Primitive(Void)
	if scope == nil {
		res, err := e.resolver.ResolveUnscoped(name)
		if err != nil {
			var rerr *ResolutionError
			if qualifier && errors.As(err, &rerr) {
				return nil, void, &UnknownClassError{Name: name}
			}
			return nil, void, err
		}
		switch r := res.(type) {
		case *VariableOnStack:
			if !r.Variable.Assigned {
				return nil, void, &UnassignedVariableError{Name: name}
			}
			e.load(r.Variable)
			return e.scopeOf(r.Variable.Type), r.Variable.Type, nil
		case *StaticClass:
			id, err := e.pool().AddClass(r.Class.InternalName())
			if err != nil {
				return nil, void, err
			}
			return &ScopedObject{Class: r.Class, ClassID: id}, void, nil
		}
		return nil, void, &ResolutionError{Name: name}
	}

	res, err := e.resolver.ResolveScoped(name, scope)
	if err != nil {
		return nil, void, err
	}
	ref := res.(*StaticFieldReference)
	classID, err := e.classID(scope)
	if err != nil {
		return nil, void, err
	}
	index, err := e.pool().AddFieldref(classID, ref.Field.Name, ref.Field.Descriptor)
	if err != nil {
		return nil, void, err
	}
	e.emit(classfile.GETSTATIC, index, ref.FieldType.Slots())

	var next *ScopedObject
	if ref.FieldClass != nil {
		next = &ScopedObject{Class: ref.FieldClass, OnStack: true}
	}
	return next, ref.FieldType, nil
}

func (e *emitter) call(x *ast.Call, scope *ScopedObject) (*ScopedObject, DataType, error) {
	if scope == nil {
		return e.localCall(x)
	}
	void := Primitive(Void)
	cls := scope.Class

	candidates := cls.Overloads(x.MethodName)
	if len(candidates) == 0 {
		return nil, void, &UnknownMethodError{Class: cls.QualifiedName, Method: x.MethodName}
	}
	argTypes, argSlots, err := e.arguments(x)
	if err != nil {
		return nil, void, err
	}
	m, desc := e.selectOverload(candidates, argTypes)
	if m == nil {
		return nil, void, &UnknownMethodError{Class: cls.QualifiedName, Method: x.MethodName, Arguments: typeList(argTypes)}
	}

	op, receiver := classfile.INVOKESTATIC, 0
	switch {
	case scope.OnStack && m.Static:
		return nil, void, &UnsupportedError{What: "static method " + cls.QualifiedName + "." + m.Name + " called through a value"}
	case !scope.OnStack && !m.Static:
		return nil, void, &UnsupportedError{What: "non-static method " + cls.QualifiedName + "." + m.Name + " referenced from a static context"}
	case scope.OnStack:
		op, receiver = classfile.INVOKEVIRTUAL, 1
	}

	classID, err := e.classID(scope)
	if err != nil {
		return nil, void, err
	}
	index, err := e.pool().AddMethodref(classID, m.Name, m.Descriptor)
	if err != nil {
		return nil, void, err
	}
	ret := Primitive(Void)
	if desc.ReturnType != nil {
		ret = FromFieldType(desc.ReturnType)
	}
	e.emit(op, index, ret.Slots()-argSlots-receiver)
	return e.scopeOf(ret), ret, nil
}

// localCall emits an unqualified call to a method of the class being
// compiled.
func (e *emitter) localCall(x *ast.Call) (*ScopedObject, DataType, error) {
	void := Primitive(Void)
	sym, ok := e.s.symbols.Lookup(x.MethodName)
	if !ok {
		return nil, void, &UnknownMethodError{Class: e.s.className, Method: x.MethodName}
	}

	op, receiver := classfile.INVOKESTATIC, 0
	if !sym.Static {
		if e.method.Static {
			return nil, void, &UnsupportedError{What: "non-static method " + sym.Name + " referenced from a static context"}
		}
		e.emit(classfile.ALOAD_0, 0, 1)
		op, receiver = classfile.INVOKEVIRTUAL, 1
	}

	argTypes, argSlots, err := e.arguments(x)
	if err != nil {
		return nil, void, err
	}
	if !e.accepts(sym.Parameters, argTypes) {
		return nil, void, &UnknownMethodError{Class: e.s.className, Method: x.MethodName, Arguments: typeList(argTypes)}
	}

	index, err := e.pool().AddMethodref(e.s.cf.ThisClass, sym.Name, sym.Descriptor())
	if err != nil {
		return nil, void, err
	}
	e.emit(op, index, sym.ReturnType.Slots()-argSlots-receiver)
	return e.scopeOf(sym.ReturnType), sym.ReturnType, nil
}

// arguments emits each argument left to right. Every argument starts a fresh
// chain, so the caller's scoped object is untouched.
func (e *emitter) arguments(x *ast.Call) ([]DataType, int, error) {
	types := make([]DataType, 0, len(x.Arguments))
	slots := 0
	for _, arg := range x.Arguments {
		_, t, err := e.expression(arg, nil)
		if err != nil {
			return nil, 0, err
		}
		if t.IsVoid() {
			return nil, 0, &TypeError{Context: "argument " + arg.String() + " to " + x.MethodName, Want: "a value", Got: "void"}
		}
		types = append(types, t)
		slots += t.Slots()
	}
	return types, slots, nil
}

// selectOverload prefers an exact parameter match and falls back to the
// first overload the arguments are assignable to.
func (e *emitter) selectOverload(candidates []*catalog.Method, args []DataType) (*catalog.Method, *classfile.MethodDescriptor) {
	var fallback *catalog.Method
	var fallbackDesc *classfile.MethodDescriptor
	for _, m := range candidates {
		desc := m.Parsed()
		params := make([]DataType, len(desc.Parameters))
		for i := range desc.Parameters {
			params[i] = FromFieldType(&desc.Parameters[i])
		}
		if MethodDescriptor(Primitive(Void), params) == MethodDescriptor(Primitive(Void), args) {
			return m, desc
		}
		if fallback == nil && e.accepts(params, args) {
			fallback, fallbackDesc = m, desc
		}
	}
	return fallback, fallbackDesc
}

func (e *emitter) accepts(params, args []DataType) bool {
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		if !e.s.types.Assignable(args[i], params[i]) {
			return false
		}
	}
	return true
}

// scopeOf returns the member context for a value of type t on the operand
// stack, or nil when t is not a catalog class.
func (e *emitter) scopeOf(t DataType) *ScopedObject {
	cls, ok := e.s.types.Class(t)
	if !ok {
		return nil
	}
	return &ScopedObject{Class: cls, OnStack: true}
}

// classID returns the constant pool class entry for scope, adding it on
// first use.
func (e *emitter) classID(scope *ScopedObject) (uint16, error) {
	if scope.ClassID != 0 {
		return scope.ClassID, nil
	}
	id, err := e.pool().AddClass(scope.ClassPath())
	if err != nil {
		return 0, err
	}
	scope.ClassID = id
	return id, nil
}
