package compiler

import (
	"testing"

	"github.com/stuforbes/java-compiler/catalog"
	"github.com/stuforbes/java-compiler/classfile"
)

func TestDataType(t *testing.T) {
	str := ObjectType("java/lang/String")
	tests := []struct {
		typ        DataType
		descriptor string
		name       string
		slots      int
		load       classfile.Opcode
		ret        classfile.Opcode
	}{
		{Primitive(Void), "V", "void", 0, classfile.NOP, classfile.RETURN},
		{Primitive(Int), "I", "int", 1, classfile.ILOAD, classfile.IRETURN},
		{Primitive(Boolean), "Z", "boolean", 1, classfile.ILOAD, classfile.IRETURN},
		{Primitive(Long), "J", "long", 2, classfile.LLOAD, classfile.LRETURN},
		{Primitive(Double), "D", "double", 2, classfile.DLOAD, classfile.DRETURN},
		{Primitive(Float), "F", "float", 1, classfile.FLOAD, classfile.FRETURN},
		{str, "Ljava/lang/String;", "java.lang.String", 1, classfile.ALOAD, classfile.ARETURN},
		{ArrayOf(str), "[Ljava/lang/String;", "java.lang.String[]", 1, classfile.ALOAD, classfile.ARETURN},
		{ArrayOf(ArrayOf(Primitive(Int))), "[[I", "int[][]", 1, classfile.ALOAD, classfile.ARETURN},
	}
	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			if got := tt.typ.Descriptor(); got != tt.descriptor {
				t.Errorf("Descriptor = %s", got)
			}
			if got := tt.typ.String(); got != tt.name {
				t.Errorf("String = %s", got)
			}
			if got := tt.typ.Slots(); got != tt.slots {
				t.Errorf("Slots = %d", got)
			}
			if got := tt.typ.LoadOp(); got != tt.load {
				t.Errorf("LoadOp = %v", got)
			}
			if got := tt.typ.ReturnOp(); got != tt.ret {
				t.Errorf("ReturnOp = %v", got)
			}
			if tt.slots > 0 {
				back := FromFieldType(classfile.ParseFieldDescriptor(tt.descriptor))
				if !back.Equal(tt.typ) {
					t.Errorf("FromFieldType(%s) = %s", tt.descriptor, back)
				}
			}
		})
	}
}

func TestMethodDescriptor(t *testing.T) {
	got := MethodDescriptor(Primitive(Void), []DataType{ArrayOf(ObjectType("java.lang.String")), Primitive(Long), Primitive(Int)})
	if got != "([Ljava/lang/String;JI)V" {
		t.Errorf("MethodDescriptor = %s", got)
	}
	if got := MethodDescriptor(ObjectType("java.lang.String"), nil); got != "()Ljava/lang/String;" {
		t.Errorf("MethodDescriptor = %s", got)
	}
}

func TestTypeSystem(t *testing.T) {
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	ts := &typeSystem{className: "Simple", catalog: cat}

	named := []struct {
		name    string
		isArray bool
		want    string
	}{
		{"int", false, "I"},
		{"String", true, "[Ljava/lang/String;"},
		{"String[]", false, "[Ljava/lang/String;"},
		{"java.io.PrintStream", false, "Ljava/io/PrintStream;"},
		{"Simple", false, "LSimple;"},
	}
	for _, tt := range named {
		got, err := ts.Named(tt.name, tt.isArray)
		if err != nil {
			t.Errorf("Named(%s): %v", tt.name, err)
			continue
		}
		if got.Descriptor() != tt.want {
			t.Errorf("Named(%s) = %s, want %s", tt.name, got.Descriptor(), tt.want)
		}
	}
	for _, bad := range []string{"Foo", "void[]"} {
		if _, err := ts.Named(bad, false); err == nil {
			t.Errorf("Named(%s) succeeded", bad)
		}
	}

	str := ObjectType("java.lang.String")
	object := ObjectType("java.lang.Object")
	assignable := []struct {
		from, to DataType
		want     bool
	}{
		{str, str, true},
		{str, object, true},
		{ArrayOf(str), object, true},
		{object, str, false},
		{Primitive(Char), Primitive(Int), true},
		{Primitive(Int), Primitive(Long), false},
		{Primitive(Int), str, false},
	}
	for _, tt := range assignable {
		if got := ts.Assignable(tt.from, tt.to); got != tt.want {
			t.Errorf("Assignable(%s, %s) = %v", tt.from, tt.to, got)
		}
	}
}
