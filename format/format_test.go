package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stuforbes/java-compiler/ast"
	"github.com/stuforbes/java-compiler/classfile"
	"github.com/stuforbes/java-compiler/compiler"
)

const helloWorld = `public class Simple {
    public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}
`

func compileHello(t *testing.T) *classfile.ClassFile {
	t.Helper()
	cf, err := compiler.Compile([]byte(helloWorld), compiler.WithSourceFile("Simple.java"))
	if err != nil {
		t.Fatal(err)
	}
	return cf
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(compileHello(t)); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"class\tSimple\tpublic\t65.0",
		"method\t<init>\tvoid\t-\tpublic\t-\t1\t1\t5",
		"method\tmain\tvoid\tjava.lang.String[]\tpublic\tstatic\t8\t1\t10",
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("line output mismatch (-want +got):\n%s", diff)
	}
}

func TestListingEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewListingEncoder(&buf).Encode(compileHello(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`Compiled from "Simple.java"`,
		"public class Simple {",
		"  public Simple();",
		"  public static void main(java.lang.String[]);",
		"    descriptor: ([Ljava/lang/String;)V",
		"      stack=8, locals=1, args_size=1",
		"getstatic",
		"// java/lang/System.out:Ljava/io/PrintStream;",
		`// "Hello, World!"`,
		"// java/io/PrintStream.println:(Ljava/lang/String;)V",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing lacks %q:\n%s", want, out)
		}
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(compileHello(t)); err != nil {
		t.Fatal(err)
	}
	var got jsonClass
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "Simple" || got.SuperClass != "java.lang.Object" || got.SourceFile != "Simple.java" {
		t.Errorf("header = %+v", got)
	}
	if len(got.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(got.Methods))
	}
	main := got.Methods[1]
	if main.Name != "main" || main.Code == nil || len(main.Code.Instructions) != 4 {
		t.Fatalf("main = %+v", main)
	}
	if last := main.Code.Instructions[3]; !strings.HasSuffix(last, "return") {
		t.Errorf("last instruction = %q", last)
	}
	for _, c := range got.Constants {
		if c.Index == 0 || c.Tag == "" {
			t.Errorf("constant %+v", c)
		}
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"line", "json", "javap"} {
		if _, ok := New(name, &bytes.Buffer{}); !ok {
			t.Errorf("New(%q) not found", name)
		}
	}
	if _, ok := New("xml", &bytes.Buffer{}); ok {
		t.Error("New(xml) found")
	}
}

func TestASTJSONEncoder(t *testing.T) {
	class, err := ast.ParseSource([]byte(`public class Simple {
		static String greet(String name) {
			final String s = "hi";
			System.out.println(s);
			return s;
		}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(class); err != nil {
		t.Fatal(err)
	}
	var got astJSONNode
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	hi := "hi"
	want := astJSONNode{
		Kind:      "Class",
		Name:      "Simple",
		Modifiers: []string{"public"},
		Children: []*astJSONNode{{
			Kind:      "Method",
			Name:      "greet",
			Type:      "String",
			Modifiers: []string{"static"},
			Children: []*astJSONNode{
				{Kind: "Parameter", Name: "name", Type: "String"},
				{Kind: "VariableAssignment", Name: "s", Type: "String", Modifiers: []string{"final"}, Children: []*astJSONNode{
					{Kind: "StringLiteral", Value: &hi},
				}},
				{Kind: "ExpressionStatement", Children: []*astJSONNode{{
					Kind: "ObjectExpression",
					Children: []*astJSONNode{
						{Kind: "StaticIdentifier", Name: "System"},
						{Kind: "ObjectExpression", Children: []*astJSONNode{
							{Kind: "StaticIdentifier", Name: "out"},
							{Kind: "Call", Name: "println", Children: []*astJSONNode{
								{Kind: "StaticIdentifier", Name: "s"},
							}},
						}},
					},
				}}},
				{Kind: "Return", Children: []*astJSONNode{{Kind: "StaticIdentifier", Name: "s"}}},
			},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AST JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestJavaPrettyPrinter(t *testing.T) {
	src := `public   class Simple{ public static void main(String[] args){
	String s="a\"b"; s = "c";System.out.println(s);}
	private final String[] names(String first){return first;} }`
	class, err := ast.ParseSource([]byte(src))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewJavaPrettyPrinter(&buf).Print(class); err != nil {
		t.Fatal(err)
	}
	want := `public class Simple {
    public static void main(String[] args) {
        String s = "a\"b";
        s = "c";
        System.out.println(s);
    }

    private final String[] names(String first) {
        return first;
    }
}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("pretty output mismatch (-want +got):\n%s", diff)
	}

	again, err := ast.ParseSource(buf.Bytes())
	if err != nil {
		t.Fatalf("printed source does not parse: %v", err)
	}
	if diff := cmp.Diff(class, again); diff != "" {
		t.Errorf("round trip changed the tree (-first +second):\n%s", diff)
	}
}
