package compiler

import (
	"strings"

	"github.com/stuforbes/java-compiler/classfile"
)

type Kind int

const (
	Void Kind = iota
	Boolean
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Object
	Array
)

var primitiveNames = map[string]Kind{
	"void":    Void,
	"boolean": Boolean,
	"byte":    Byte,
	"char":    Char,
	"short":   Short,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
}

var primitiveDescriptors = map[Kind]string{
	Void:    "V",
	Boolean: "Z",
	Byte:    "B",
	Char:    "C",
	Short:   "S",
	Int:     "I",
	Long:    "J",
	Float:   "F",
	Double:  "D",
}

// DataType is the type of a value, parameter or return. ClassName is the
// dotted qualified name for Object; Elem is the element type for Array.
type DataType struct {
	Kind      Kind
	ClassName string
	Elem      *DataType
}

func Primitive(k Kind) DataType { return DataType{Kind: k} }

func ObjectType(qualifiedName string) DataType {
	return DataType{Kind: Object, ClassName: classfile.InternalToSourceName(qualifiedName)}
}

func ArrayOf(elem DataType) DataType {
	return DataType{Kind: Array, Elem: &elem}
}

// FromFieldType converts a parsed descriptor type.
func FromFieldType(ft *classfile.FieldType) DataType {
	var t DataType
	if ft.BaseType != "" {
		t = Primitive(primitiveNames[ft.BaseType])
	} else {
		t = ObjectType(ft.ClassName)
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		t = ArrayOf(t)
	}
	return t
}

func (t DataType) Descriptor() string {
	switch t.Kind {
	case Object:
		return "L" + classfile.SourceToInternalName(t.ClassName) + ";"
	case Array:
		return "[" + t.Elem.Descriptor()
	}
	return primitiveDescriptors[t.Kind]
}

func (t DataType) String() string {
	switch t.Kind {
	case Object:
		return t.ClassName
	case Array:
		return t.Elem.String() + "[]"
	}
	for name, k := range primitiveNames {
		if k == t.Kind {
			return name
		}
	}
	return "?"
}

func (t DataType) Equal(other DataType) bool {
	return t.Descriptor() == other.Descriptor()
}

func (t DataType) IsVoid() bool      { return t.Kind == Void }
func (t DataType) IsReference() bool { return t.Kind == Object || t.Kind == Array }

// Slots is the number of local variable or operand stack slots a value
// occupies: 0 for void, 2 for long and double.
func (t DataType) Slots() int {
	switch t.Kind {
	case Void:
		return 0
	case Long, Double:
		return 2
	}
	return 1
}

// opcodes returns the load, store and return instructions for values of t.
func (t DataType) opcodes() (load, store, ret classfile.Opcode) {
	switch t.Kind {
	case Void:
		return classfile.NOP, classfile.NOP, classfile.RETURN
	case Long:
		return classfile.LLOAD, classfile.LSTORE, classfile.LRETURN
	case Float:
		return classfile.FLOAD, classfile.FSTORE, classfile.FRETURN
	case Double:
		return classfile.DLOAD, classfile.DSTORE, classfile.DRETURN
	case Object, Array:
		return classfile.ALOAD, classfile.ASTORE, classfile.ARETURN
	}
	return classfile.ILOAD, classfile.ISTORE, classfile.IRETURN
}

func (t DataType) LoadOp() classfile.Opcode {
	op, _, _ := t.opcodes()
	return op
}

func (t DataType) StoreOp() classfile.Opcode {
	_, op, _ := t.opcodes()
	return op
}

func (t DataType) ReturnOp() classfile.Opcode {
	_, _, op := t.opcodes()
	return op
}

// PopOp discards a value of t from the operand stack.
func (t DataType) PopOp() classfile.Opcode {
	if t.Slots() == 2 {
		return classfile.POP2
	}
	return classfile.POP
}

// MethodDescriptor renders a JVM method descriptor.
func MethodDescriptor(ret DataType, params []DataType) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(p.Descriptor())
	}
	sb.WriteByte(')')
	sb.WriteString(ret.Descriptor())
	return sb.String()
}

func typeList(types []DataType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
