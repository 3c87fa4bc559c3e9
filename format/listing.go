package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/stuforbes/java-compiler/classfile"
)

// ListingEncoder writes a javap -c style listing: the class header followed
// by each method's declaration and disassembled code.
type ListingEncoder struct {
	w  io.Writer
	cf *classfile.ClassFile
}

func NewListingEncoder(w io.Writer) *ListingEncoder {
	return &ListingEncoder{w: w}
}

func (e *ListingEncoder) Encode(cf *classfile.ClassFile) error {
	e.cf = cf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ListingEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	cf := e.cf
	name := classfile.InternalToSourceName(cf.ClassName())

	if src := cf.SourceFile(); src != "" {
		fmt.Fprintf(&sb, "Compiled from %q\n", src)
	}
	e.writeClassDeclaration(&sb, name)
	sb.WriteString(" {\n")
	fmt.Fprintf(&sb, "  // version %d.%d, %d constants\n", cf.MajorVersion, cf.MinorVersion, cf.ConstantPool.Len())

	for i := range cf.Methods {
		sb.WriteString("\n")
		if err := e.writeMethod(&sb, &cf.Methods[i], name); err != nil {
			return nil, err
		}
	}

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func (e *ListingEncoder) writeClassDeclaration(sb *strings.Builder, name string) {
	f := e.cf.AccessFlags
	if f.IsPublic() {
		sb.WriteString("public ")
	}
	if f.IsFinal() {
		sb.WriteString("final ")
	}
	sb.WriteString("class ")
	sb.WriteString(name)
	if super := classfile.InternalToSourceName(e.cf.SuperClassName()); super != "" && super != "java.lang.Object" {
		sb.WriteString(" extends ")
		sb.WriteString(super)
	}
}

func (e *ListingEncoder) writeMethod(sb *strings.Builder, m *classfile.MethodInfo, className string) error {
	cp := e.cf.ConstantPool
	desc := m.ParsedDescriptor(cp)
	if desc == nil {
		return fmt.Errorf("method %s: malformed descriptor %q", m.Name(cp), m.Descriptor(cp))
	}

	params := make([]string, len(desc.Parameters))
	for i := range desc.Parameters {
		params[i] = desc.Parameters[i].String()
	}
	sb.WriteString("  ")
	sb.WriteString(m.AccessFlags.MethodModifiers())
	if m.IsConstructor(cp) {
		sb.WriteString(className)
	} else {
		ret := "void"
		if desc.ReturnType != nil {
			ret = desc.ReturnType.String()
		}
		sb.WriteString(ret + " " + m.Name(cp))
	}
	fmt.Fprintf(sb, "(%s);\n", strings.Join(params, ", "))
	fmt.Fprintf(sb, "    descriptor: %s\n", m.Descriptor(cp))

	code := m.GetCodeAttribute(cp)
	if code == nil {
		return nil
	}
	listing, err := classfile.Disassemble(code.Code, cp)
	if err != nil {
		return fmt.Errorf("method %s: %w", m.Name(cp), err)
	}
	sb.WriteString("    Code:\n")
	fmt.Fprintf(sb, "      stack=%d, locals=%d, args_size=%d\n", code.MaxStack, code.MaxLocals, argsSize(m, desc))
	for _, line := range strings.Split(strings.TrimRight(listing, "\n"), "\n") {
		if line != "" {
			sb.WriteString("      " + line + "\n")
		}
	}
	return nil
}

func argsSize(m *classfile.MethodInfo, desc *classfile.MethodDescriptor) int {
	n := desc.ArgumentSlots()
	if !m.IsStatic() {
		n++
	}
	return n
}
