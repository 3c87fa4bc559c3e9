package classfile

import "fmt"

// New returns a class file for the internal class name with the given
// superclass and an otherwise empty body.
func New(name, super string, flags AccessFlags, major, minor uint16) (*ClassFile, error) {
	cf := &ClassFile{MajorVersion: major, MinorVersion: minor, AccessFlags: flags}
	var err error
	if cf.ThisClass, err = cf.ConstantPool.AddClass(name); err != nil {
		return nil, err
	}
	if super != "" {
		if cf.SuperClass, err = cf.ConstantPool.AddClass(super); err != nil {
			return nil, err
		}
	}
	return cf, nil
}

// AddMethod appends a method. A nil code adds no Code attribute.
func (cf *ClassFile) AddMethod(flags AccessFlags, name, descriptor string, code *CodeAttribute) (*MethodInfo, error) {
	if cf.GetMethod(name, descriptor) != nil {
		return nil, fmt.Errorf("method %s%s already defined", name, descriptor)
	}
	m := MethodInfo{AccessFlags: flags}
	var err error
	if m.NameIndex, err = cf.ConstantPool.AddUtf8(name); err != nil {
		return nil, err
	}
	if m.DescriptorIndex, err = cf.ConstantPool.AddUtf8(descriptor); err != nil {
		return nil, err
	}
	if code != nil {
		attrName, err := cf.ConstantPool.AddUtf8("Code")
		if err != nil {
			return nil, err
		}
		m.Attributes = append(m.Attributes, AttributeInfo{NameIndex: attrName, Parsed: code})
	}
	cf.Methods = append(cf.Methods, m)
	return &cf.Methods[len(cf.Methods)-1], nil
}

// SetSourceFile records the SourceFile attribute, replacing any existing one.
func (cf *ClassFile) SetSourceFile(file string) error {
	attrName, err := cf.ConstantPool.AddUtf8("SourceFile")
	if err != nil {
		return err
	}
	fileIndex, err := cf.ConstantPool.AddUtf8(file)
	if err != nil {
		return err
	}
	attr := AttributeInfo{NameIndex: attrName, Parsed: &SourceFileAttribute{SourceFileIndex: fileIndex}}
	if existing := cf.GetAttribute("SourceFile"); existing != nil {
		*existing = attr
		return nil
	}
	cf.Attributes = append(cf.Attributes, attr)
	return nil
}
