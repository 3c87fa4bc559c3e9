package classfile

import (
	"errors"
	"fmt"
)

// VerifyError describes one structural problem found by Verify.
type VerifyError struct {
	Where string
	Msg   string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify %s: %s", e.Where, e.Msg)
}

type verifier struct {
	cf   *ClassFile
	errs []error
}

func (v *verifier) fail(where, format string, args ...any) {
	v.errs = append(v.errs, &VerifyError{Where: where, Msg: fmt.Sprintf(format, args...)})
}

func (v *verifier) expect(where string, index uint16, tags ...ConstantTag) bool {
	entry := v.cf.ConstantPool.Entry(index)
	if entry == nil {
		v.fail(where, "constant pool index %d out of range", index)
		return false
	}
	for _, tag := range tags {
		if entry.Tag() == tag {
			return true
		}
	}
	v.fail(where, "constant pool index %d is %s, want %v", index, entry.Tag(), tags)
	return false
}

// Verify checks the structural well-formedness of cf: constant pool
// references point at entries of the right kind, member names and
// descriptors are valid, and every concrete method carries a Code attribute
// whose instructions decode and stay within its bounds. All problems found
// are joined into the returned error.
func Verify(cf *ClassFile) error {
	v := &verifier{cf: cf}

	if cf.MajorVersion < 45 {
		v.fail("header", "unsupported major version %d", cf.MajorVersion)
	}
	v.verifyPool()

	if v.expect("this_class", cf.ThisClass, ConstantClass) && cf.ClassName() == "" {
		v.fail("this_class", "empty class name")
	}
	if cf.SuperClass == 0 {
		if cf.ClassName() != "java/lang/Object" {
			v.fail("super_class", "only java/lang/Object may omit a superclass")
		}
	} else {
		v.expect("super_class", cf.SuperClass, ConstantClass)
	}

	seen := make(map[string]bool, len(cf.Methods))
	for i := range cf.Methods {
		v.verifyMethod(&cf.Methods[i], seen)
	}
	for i := range cf.Fields {
		f := &cf.Fields[i]
		where := fmt.Sprintf("field %d", i)
		if v.expect(where, f.NameIndex, ConstantUtf8) && v.expect(where, f.DescriptorIndex, ConstantUtf8) {
			if ParseFieldDescriptor(cf.ConstantPool.GetUtf8(f.DescriptorIndex)) == nil {
				v.fail(where, "malformed descriptor %q", cf.ConstantPool.GetUtf8(f.DescriptorIndex))
			}
		}
	}
	for i := range cf.Attributes {
		v.expect("class attribute", cf.Attributes[i].NameIndex, ConstantUtf8)
	}
	if sf := cf.GetAttribute("SourceFile"); sf != nil {
		if parsed := sf.AsSourceFile(); parsed != nil {
			v.expect("SourceFile", parsed.SourceFileIndex, ConstantUtf8)
		}
	}

	return errors.Join(v.errs...)
}

func (v *verifier) verifyPool() {
	for i, entry := range v.cf.ConstantPool {
		if entry == nil {
			continue
		}
		where := fmt.Sprintf("constant #%d", i+1)
		switch e := entry.(type) {
		case *ConstantClassInfo:
			v.expect(where, e.NameIndex, ConstantUtf8)
		case *ConstantStringInfo:
			v.expect(where, e.StringIndex, ConstantUtf8)
		case *ConstantNameAndTypeInfo:
			v.expect(where, e.NameIndex, ConstantUtf8)
			v.expect(where, e.DescriptorIndex, ConstantUtf8)
		case *ConstantFieldrefInfo:
			v.expect(where, e.ClassIndex, ConstantClass)
			v.expect(where, e.NameAndTypeIndex, ConstantNameAndType)
		case *ConstantMethodrefInfo:
			v.expect(where, e.ClassIndex, ConstantClass)
			if v.expect(where, e.NameAndTypeIndex, ConstantNameAndType) {
				_, desc := v.cf.ConstantPool.GetNameAndType(e.NameAndTypeIndex)
				if ParseMethodDescriptor(desc) == nil {
					v.fail(where, "malformed method descriptor %q", desc)
				}
			}
		case *ConstantInterfaceMethodrefInfo:
			v.expect(where, e.ClassIndex, ConstantClass)
			v.expect(where, e.NameAndTypeIndex, ConstantNameAndType)
		}
	}
}

func (v *verifier) verifyMethod(m *MethodInfo, seen map[string]bool) {
	cp := v.cf.ConstantPool
	if !v.expect("method", m.NameIndex, ConstantUtf8) || !v.expect("method", m.DescriptorIndex, ConstantUtf8) {
		return
	}
	name, desc := m.Name(cp), m.Descriptor(cp)
	where := "method " + name + desc

	if name == "" {
		v.fail(where, "empty name")
	}
	if seen[name+desc] {
		v.fail(where, "duplicate method")
	}
	seen[name+desc] = true

	md := ParseMethodDescriptor(desc)
	if md == nil {
		v.fail(where, "malformed descriptor")
		return
	}

	visibility := 0
	for _, f := range []AccessFlags{AccPublic, AccPrivate, AccProtected} {
		if m.AccessFlags&f != 0 {
			visibility++
		}
	}
	if visibility > 1 {
		v.fail(where, "conflicting visibility flags 0x%04x", uint16(m.AccessFlags))
	}

	for i := range m.Attributes {
		v.expect(where, m.Attributes[i].NameIndex, ConstantUtf8)
	}

	code := m.GetCodeAttribute(cp)
	if m.AccessFlags.IsAbstract() {
		if code != nil {
			v.fail(where, "abstract method has code")
		}
		return
	}
	if code == nil {
		v.fail(where, "missing Code attribute")
		return
	}
	v.verifyCode(where, m, md, code)
}

func (v *verifier) verifyCode(where string, m *MethodInfo, md *MethodDescriptor, code *CodeAttribute) {
	if len(code.Code) == 0 || len(code.Code) > 0xFFFF {
		v.fail(where, "code length %d out of range", len(code.Code))
		return
	}

	argSlots := md.ArgumentSlots()
	if !m.IsStatic() {
		argSlots++
	}
	if int(code.MaxLocals) < argSlots {
		v.fail(where, "max_locals %d smaller than arguments %d", code.MaxLocals, argSlots)
	}

	instructions, err := DecodeCode(code.Code)
	if err != nil {
		v.fail(where, "%v", err)
		return
	}

	for _, in := range instructions {
		switch in.Opcode {
		case LDC, LDC_W:
			v.expect(where, in.Operand, ConstantString, ConstantInteger, ConstantFloat, ConstantClass)
		case GETSTATIC, PUTSTATIC, GETFIELD, PUTFIELD:
			v.expect(where, in.Operand, ConstantFieldref)
		case INVOKEVIRTUAL, INVOKESPECIAL, INVOKESTATIC:
			v.expect(where, in.Operand, ConstantMethodref)
		case ILOAD, FLOAD, ALOAD, ISTORE, FSTORE, ASTORE:
			if in.Operand >= code.MaxLocals {
				v.fail(where, "%s slot %d beyond max_locals %d", in, in.Operand, code.MaxLocals)
			}
		case LLOAD, DLOAD, LSTORE, DSTORE:
			if in.Operand+1 >= code.MaxLocals {
				v.fail(where, "%s slot %d beyond max_locals %d", in, in.Operand, code.MaxLocals)
			}
		}
	}

	switch instructions[len(instructions)-1].Opcode {
	case RETURN, IRETURN, LRETURN, FRETURN, DRETURN, ARETURN:
	default:
		v.fail(where, "code does not end in a return")
	}
}
