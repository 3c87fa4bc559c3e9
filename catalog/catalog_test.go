package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func builtin(t *testing.T) *Catalog {
	t.Helper()
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	return c
}

func TestLookupNameForms(t *testing.T) {
	c := builtin(t)
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"java.io.PrintStream", "java.io.PrintStream", true},
		{"java/io/PrintStream", "java.io.PrintStream", true},
		{"String", "java.lang.String", true},
		{"System", "java.lang.System", true},
		{"PrintStream", "", false},
		{"Foo", "", false},
		{"java.lang.Foo", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, ok := c.Lookup(tt.name)
			if ok != tt.ok {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && cls.QualifiedName != tt.want {
				t.Errorf("QualifiedName = %q, want %q", cls.QualifiedName, tt.want)
			}
		})
	}
}

func TestClassDescriptors(t *testing.T) {
	c := builtin(t)
	cls, _ := c.Lookup("java.io.PrintStream")
	if got := cls.InternalName(); got != "java/io/PrintStream" {
		t.Errorf("InternalName() = %q", got)
	}
	if got := cls.Descriptor(); got != "Ljava/io/PrintStream;" {
		t.Errorf("Descriptor() = %q", got)
	}
	if got := cls.SimpleName(); got != "PrintStream" {
		t.Errorf("SimpleName() = %q", got)
	}
}

func TestSystemOutPrintln(t *testing.T) {
	c := builtin(t)
	system, _ := c.Lookup("System")

	out, ok := system.FieldNamed("out")
	if !ok {
		t.Fatal("System.out not found")
	}
	if !out.Static || out.TypeName() != "java.io.PrintStream" {
		t.Errorf("out = %+v, TypeName() = %q", out, out.TypeName())
	}

	stream, ok := c.Lookup(out.TypeName())
	if !ok {
		t.Fatal("field type not in catalog")
	}
	println, ok := stream.MethodNamed("println")
	if !ok {
		t.Fatal("println not found")
	}
	if println.Static || println.Parsed() == nil {
		t.Errorf("println = %+v", println)
	}
	if n := len(stream.Overloads("println")); n < 2 {
		t.Errorf("Overloads(println) = %d, want several", n)
	}
}

func TestInheritedMembers(t *testing.T) {
	c := builtin(t)
	str, _ := c.Lookup("String")

	m, ok := str.MethodNamed("hashCode")
	if !ok {
		t.Fatal("String.hashCode not inherited")
	}
	if owner := str.Owner(m); owner.QualifiedName != "java.lang.Object" {
		t.Errorf("Owner() = %s, want java.lang.Object", owner.QualifiedName)
	}
	if !str.IsSubclassOf("java.lang.Object") || str.IsSubclassOf("java.io.PrintStream") {
		t.Error("IsSubclassOf() wrong")
	}
	if _, ok := str.FieldNamed("out"); ok {
		t.Error("String should not have field out")
	}
	if obj, _ := c.Lookup("Object"); obj.Superclass() != nil {
		t.Error("Object has a superclass")
	}
}

func TestLoadExtraCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.toml")
	err := os.WriteFile(path, []byte(`
[[class]]
name = "com.example.Greeter"
methods = [{ name = "greet", descriptor = "(Ljava/lang/String;)Ljava/lang/String;", static = true }]
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	c := builtin(t)
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	cls, ok := c.Lookup("com/example/Greeter")
	if !ok {
		t.Fatal("Greeter not loaded")
	}
	if cls.Super != "java.lang.Object" {
		t.Errorf("Super = %q, want java.lang.Object", cls.Super)
	}
	if _, ok := cls.MethodNamed("toString"); !ok {
		t.Error("Greeter should inherit toString")
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad toml", `[[class]`, "parse error"},
		{"unnamed class", "[[class]]\n", "without a name"},
		{"internal name", "[[class]]\nname = \"a/B\"\n", "dotted"},
		{"bad method descriptor", "[[class]]\nname = \"a.B\"\nmethods = [{ name = \"m\", descriptor = \"(V\" }]\n", "malformed descriptor"},
		{"bad field descriptor", "[[class]]\nname = \"a.B\"\nfields = [{ name = \"f\", descriptor = \"Q\" }]\n", "malformed descriptor"},
		{"redefinition", "[[class]]\nname = \"java.lang.String\"\n", "already defined"},
		{"unknown super", "[[class]]\nname = \"a.B\"\nsuper = \"a.C\"\n", "unknown class"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := builtin(t)
			before := len(c.Names())
			err := c.Load([]byte(tt.doc), "test")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
			if len(c.Names()) != before {
				t.Error("failed load modified the catalog")
			}
		})
	}
}

func TestBuiltinIsPerSession(t *testing.T) {
	a := builtin(t)
	b := builtin(t)
	if err := a.Load([]byte("[[class]]\nname = \"a.B\"\n"), "test"); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Lookup("a.B"); ok {
		t.Error("catalogs share state")
	}
	clone := a.Clone()
	if _, ok := clone.Lookup("a.B"); !ok {
		t.Error("Clone() lost a class")
	}
}
