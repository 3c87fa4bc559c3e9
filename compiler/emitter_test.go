package compiler

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stuforbes/java-compiler/ast"
	"github.com/stuforbes/java-compiler/catalog"
	"github.com/stuforbes/java-compiler/classfile"
)

// newTestEmitter returns an emitter for a static void method of class T
// whose body layer already holds a String local named s in slot 1.
func newTestEmitter(t *testing.T) *emitter {
	t.Helper()
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	cf, err := classfile.New("T", superClass, classfile.AccSuper, classfile.Java21, 0)
	if err != nil {
		t.Fatal(err)
	}
	s := &session{
		opts:      options{maxStack: defaultMaxStack},
		className: "T",
		catalog:   cat,
		types:     &typeSystem{className: "T", catalog: cat},
		symbols:   NewSymbolTable("T"),
		cf:        cf,
		log:       log,
	}
	stack := NewStack()
	stack.Reserve(1)
	stack.NewLayer()
	v, err := stack.Push("s", ObjectType("java.lang.String"))
	if err != nil {
		t.Fatal(err)
	}
	v.Assigned = true
	return newEmitter(s, &MethodSymbol{Name: "m", ReturnType: Primitive(Void), Static: true}, stack)
}

func statement(t *testing.T, src string) ast.Statement {
	t.Helper()
	class, err := ast.ParseSource([]byte("class T { void m() { " + src + " } }"))
	if err != nil {
		t.Fatal(err)
	}
	return class.Methods[0].Statements[0]
}

func TestFailedStatementLeavesPoolUntouched(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown qualifier", `Foo.bar();`},
		{"unknown method after a resolved chain", `System.out.shout("x");`},
		{"unknown field after a resolved class", `System.in.read();`},
		{"bad argument after a resolved receiver", `System.out.println(missing);`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEmitter(t)
			before := append(classfile.ConstantPool(nil), e.s.cf.ConstantPool...)

			if err := e.statement(statement(t, tt.src)); err == nil {
				t.Fatal("expected error")
			}
			if diff := cmp.Diff(before, e.s.cf.ConstantPool); diff != "" {
				t.Errorf("constant pool changed (-before +after):\n%s", diff)
			}
			if len(e.code) != 0 || e.depth != 0 {
				t.Errorf("code = %v depth = %d, want none", e.code, e.depth)
			}
		})
	}
}

func TestUnknownQualifierIsUnknownClass(t *testing.T) {
	e := newTestEmitter(t)
	err := e.statement(statement(t, `Foo.bar();`))
	var unknown *UnknownClassError
	if !errors.As(err, &unknown) || unknown.Name != "Foo" {
		t.Errorf("error = %v, want UnknownClassError(Foo)", err)
	}

	// standalone, the same name is a plain resolution failure
	_, _, err = e.expression(&ast.StaticIdentifier{Name: "Foo"}, nil)
	var rerr *ResolutionError
	if !errors.As(err, &rerr) {
		t.Errorf("error = %v, want *ResolutionError", err)
	}
}

func TestScopeThreading(t *testing.T) {
	e := newTestEmitter(t)

	scope, typ, err := e.expression(&ast.StaticIdentifier{Name: "System"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if scope == nil || scope.OnStack || scope.ClassPath() != "java/lang/System" || scope.ClassID == 0 {
		t.Fatalf("scope after System = %+v", scope)
	}
	if !typ.IsVoid() || len(e.code) != 0 {
		t.Errorf("a bare class reference emitted %v", e.code)
	}

	scope, typ, err = e.expression(&ast.StaticIdentifier{Name: "out"}, scope)
	if err != nil {
		t.Fatal(err)
	}
	if scope == nil || !scope.OnStack || scope.ClassPath() != "java/io/PrintStream" {
		t.Fatalf("scope after out = %+v", scope)
	}
	if typ.Descriptor() != "Ljava/io/PrintStream;" || e.depth != 1 {
		t.Errorf("type = %s depth = %d", typ.Descriptor(), e.depth)
	}

	scope, typ, err = e.expression(&ast.Call{MethodName: "println", Arguments: []ast.Expression{&ast.StaticIdentifier{Name: "s"}}}, scope)
	if err != nil {
		t.Fatal(err)
	}
	if scope != nil || !typ.IsVoid() || e.depth != 0 || e.maxDepth != 2 {
		t.Errorf("after println scope = %+v type = %s depth = %d max = %d", scope, typ, e.depth, e.maxDepth)
	}

	ops := make([]classfile.Opcode, len(e.code))
	for i, in := range e.code {
		ops[i] = in.Opcode
	}
	want := []classfile.Opcode{classfile.GETSTATIC, classfile.ALOAD, classfile.INVOKEVIRTUAL}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("opcodes mismatch (-want +got):\n%s", diff)
	}
}

func TestArgumentsDoNotDisturbScope(t *testing.T) {
	e := newTestEmitter(t)
	stream, _ := e.s.catalog.Lookup("java.io.PrintStream")
	scope := &ScopedObject{Class: stream, OnStack: true}

	// the argument starts its own chain at System, which must not replace
	// the PrintStream receiver
	call := &ast.Call{MethodName: "println", Arguments: []ast.Expression{
		&ast.ObjectExpression{Parent: &ast.StaticIdentifier{Name: "System"}, Child: &ast.Call{MethodName: "lineSeparator"}},
	}}
	if _, _, err := e.expression(call, scope); err != nil {
		t.Fatal(err)
	}
	if scope.Class != stream || !scope.OnStack {
		t.Errorf("caller scope changed to %+v", scope)
	}
	last := e.code[len(e.code)-1]
	if got := e.s.cf.ConstantPool.Describe(last.Operand); got != "java/io/PrintStream.println:(Ljava/lang/String;)V" {
		t.Errorf("invoked %s", got)
	}
}

func TestUnassignedAndDeclaration(t *testing.T) {
	e := newTestEmitter(t)
	if err := e.statement(statement(t, `String x;`)); err != nil {
		t.Fatal(err)
	}
	if len(e.code) != 0 {
		t.Errorf("declaration without value emitted %v", e.code)
	}
	v, ok := e.stack.Get("x")
	if !ok || v.Slot != 2 || v.Assigned {
		t.Fatalf("x = %+v", v)
	}

	err := e.statement(statement(t, `System.out.println(x);`))
	var unassigned *UnassignedVariableError
	if !errors.As(err, &unassigned) {
		t.Errorf("error = %v, want *UnassignedVariableError", err)
	}

	if err := e.statement(statement(t, `x = "now";`)); err != nil {
		t.Fatal(err)
	}
	if !v.Assigned {
		t.Error("assignment did not mark x assigned")
	}
	if err := e.statement(statement(t, `System.out.println(x);`)); err != nil {
		t.Errorf("after assignment: %v", err)
	}
}

func TestFinishAppendsSingleReturn(t *testing.T) {
	e := newTestEmitter(t)
	for _, src := range []string{`System.out.println(s);`, `System.out.println(s);`} {
		if err := e.statement(statement(t, src)); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.finish("m"); err != nil {
		t.Fatal(err)
	}
	returns := 0
	for _, in := range e.code {
		if in.Opcode == classfile.RETURN {
			returns++
		}
	}
	if returns != 1 || e.code[len(e.code)-1].Opcode != classfile.RETURN {
		t.Errorf("code = %v, want exactly one trailing return", e.code)
	}
}
