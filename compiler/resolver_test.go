package compiler

import (
	"errors"
	"testing"

	"github.com/stuforbes/java-compiler/ast"
	"github.com/stuforbes/java-compiler/catalog"
)

func TestResolver(t *testing.T) {
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	stack := NewStack()
	if _, err := stack.Push("args", ArrayOf(ObjectType("java.lang.String"))); err != nil {
		t.Fatal(err)
	}
	// a local named like a class shadows it
	if _, err := stack.Push("Math", ObjectType("java.lang.String")); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(stack, cat)

	t.Run("local", func(t *testing.T) {
		res, err := r.ResolveUnscoped("Math")
		if err != nil {
			t.Fatal(err)
		}
		if v, ok := res.(*VariableOnStack); !ok || v.Variable.Slot != 1 {
			t.Errorf("Math resolved to %#v", res)
		}
	})

	t.Run("class", func(t *testing.T) {
		res, err := r.ResolveUnscoped("System")
		if err != nil {
			t.Fatal(err)
		}
		if c, ok := res.(*StaticClass); !ok || c.Class.QualifiedName != "java.lang.System" {
			t.Errorf("System resolved to %#v", res)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := r.ResolveUnscoped("nothing")
		var rerr *ResolutionError
		if !errors.As(err, &rerr) {
			t.Errorf("error = %v, want *ResolutionError", err)
		}
	})

	system, _ := cat.Lookup("System")
	t.Run("static field", func(t *testing.T) {
		res, err := r.ResolveScoped("out", &ScopedObject{Class: system})
		if err != nil {
			t.Fatal(err)
		}
		ref := res.(*StaticFieldReference)
		if ref.FieldClass == nil || ref.FieldClass.QualifiedName != "java.io.PrintStream" {
			t.Errorf("out has class %v", ref.FieldClass)
		}
		if ref.FieldType.Descriptor() != "Ljava/io/PrintStream;" {
			t.Errorf("out has type %s", ref.FieldType)
		}
	})

	t.Run("primitive static field", func(t *testing.T) {
		integer, _ := cat.Lookup("Integer")
		res, err := r.ResolveScoped("MAX_VALUE", &ScopedObject{Class: integer})
		if err != nil {
			t.Fatal(err)
		}
		if ref := res.(*StaticFieldReference); ref.FieldClass != nil || ref.FieldType.Kind != Int {
			t.Errorf("MAX_VALUE = %+v", ref)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := r.ResolveScoped("in", &ScopedObject{Class: system})
		var ferr *UnknownFieldError
		if !errors.As(err, &ferr) || ferr.Field != "in" {
			t.Errorf("error = %v, want UnknownFieldError", err)
		}
	})

	t.Run("static field through a value", func(t *testing.T) {
		_, err := r.ResolveScoped("out", &ScopedObject{Class: system, OnStack: true})
		var unsupported *UnsupportedError
		if !errors.As(err, &unsupported) {
			t.Errorf("error = %v, want *UnsupportedError", err)
		}
	})
}

func TestSymbolTable(t *testing.T) {
	class, err := ast.ParseSource([]byte(`public class Simple {
		public static void main(String[] args) { helper(); }
		static String helper() { return "x"; }
		long count(int a, String b) { }
	}`))
	if err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	st, err := buildSymbolTable(class, &typeSystem{className: "Simple", catalog: cat})
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, sym := range st.Methods() {
		got = append(got, sym.Name+sym.Descriptor())
	}
	want := []string{"main([Ljava/lang/String;)V", "helper()Ljava/lang/String;", "count(ILjava/lang/String;)J"}
	if len(got) != len(want) {
		t.Fatalf("methods = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("method %d = %s, want %s", i, got[i], want[i])
		}
	}
	if sym, _ := st.Lookup("helper"); !sym.Static {
		t.Error("helper not static")
	}

	err = st.Register(&MethodSymbol{Name: "helper", ReturnType: Primitive(Void)})
	var dup *DuplicateMethodError
	if !errors.As(err, &dup) || dup.Method != "helper" {
		t.Errorf("Register duplicate: %v", err)
	}
}

func TestSymbolTableRejectsUnknownTypes(t *testing.T) {
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	ts := &typeSystem{className: "Simple", catalog: cat}
	for _, src := range []string{
		`class Simple { Widget make() { return "x"; } }`,
		`class Simple { void take(Widget w) { } }`,
	} {
		class, err := ast.ParseSource([]byte(src))
		if err != nil {
			t.Fatal(err)
		}
		_, err = buildSymbolTable(class, ts)
		var unknown *UnknownClassError
		if !errors.As(err, &unknown) || unknown.Name != "Widget" {
			t.Errorf("%s: error = %v, want UnknownClassError(Widget)", src, err)
		}
	}
}
