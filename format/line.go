package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/stuforbes/java-compiler/classfile"
)

// LineEncoder writes one tab separated line for the class and one per
// method, suitable for grep and cut.
type LineEncoder struct {
	w  io.Writer
	cf *classfile.ClassFile
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(cf *classfile.ClassFile) error {
	e.cf = cf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	cf := e.cf

	fmt.Fprintf(&sb, "class\t%s\t%s\t%d.%d\n",
		classfile.InternalToSourceName(cf.ClassName()),
		e.classModifiersStr(),
		cf.MajorVersion, cf.MinorVersion,
	)

	for i := range cf.Methods {
		m := &cf.Methods[i]
		desc := m.ParsedDescriptor(cf.ConstantPool)
		if desc == nil {
			return nil, fmt.Errorf("method %s: malformed descriptor %q", m.Name(cf.ConstantPool), m.Descriptor(cf.ConstantPool))
		}
		ret := "void"
		if desc.ReturnType != nil {
			ret = desc.ReturnType.String()
		}
		maxStack, maxLocals, codeLen := "-", "-", "-"
		if code := m.GetCodeAttribute(cf.ConstantPool); code != nil {
			maxStack = fmt.Sprint(code.MaxStack)
			maxLocals = fmt.Sprint(code.MaxLocals)
			codeLen = fmt.Sprint(len(code.Code))
		}
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Name(cf.ConstantPool),
			ret,
			parametersStr(desc),
			visibility(m.AccessFlags),
			joinOrDash(modifiers(m.AccessFlags), ","),
			maxStack, maxLocals, codeLen,
		)
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) classModifiersStr() string {
	mods := []string{visibility(e.cf.AccessFlags)}
	mods = append(mods, modifiers(e.cf.AccessFlags)...)
	return strings.Join(mods, ",")
}

func parametersStr(desc *classfile.MethodDescriptor) string {
	parts := make([]string, len(desc.Parameters))
	for i := range desc.Parameters {
		parts[i] = desc.Parameters[i].String()
	}
	return joinOrDash(parts, ",")
}
