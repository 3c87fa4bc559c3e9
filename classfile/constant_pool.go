package classfile

import (
	"errors"
	"fmt"
)

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() ConstantTag { return ConstantString }

type ConstantFieldrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantFieldrefInfo) Tag() ConstantTag { return ConstantFieldref }

type ConstantMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantMethodrefInfo) Tag() ConstantTag { return ConstantMethodref }

type ConstantInterfaceMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantInterfaceMethodrefInfo) Tag() ConstantTag { return ConstantInterfaceMethodref }

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndTypeInfo) Tag() ConstantTag { return ConstantNameAndType }

// ConstantPool is 1-indexed on the wire; entry i lives at cp[i-1]. The slot
// following a Long or Double entry is nil.
type ConstantPool []ConstantPoolEntry

// ErrConstantPoolFull is returned when an insertion would exceed the 65535
// entries a class file can address.
var ErrConstantPoolFull = errors.New("constant pool is full")

func (cp ConstantPool) Len() int {
	return len(cp)
}

func (cp ConstantPool) Entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp *ConstantPool) add(entry ConstantPoolEntry) (uint16, error) {
	for i, existing := range *cp {
		if existing != nil && sameEntry(existing, entry) {
			return uint16(i + 1), nil
		}
	}
	if len(*cp) >= 0xFFFE {
		return 0, ErrConstantPoolFull
	}
	*cp = append(*cp, entry)
	return uint16(len(*cp)), nil
}

func sameEntry(a, b ConstantPoolEntry) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	switch x := a.(type) {
	case *ConstantUtf8Info:
		return x.Value == b.(*ConstantUtf8Info).Value
	case *ConstantClassInfo:
		return *x == *b.(*ConstantClassInfo)
	case *ConstantStringInfo:
		return *x == *b.(*ConstantStringInfo)
	case *ConstantNameAndTypeInfo:
		return *x == *b.(*ConstantNameAndTypeInfo)
	case *ConstantFieldrefInfo:
		return *x == *b.(*ConstantFieldrefInfo)
	case *ConstantMethodrefInfo:
		return *x == *b.(*ConstantMethodrefInfo)
	case *ConstantInterfaceMethodrefInfo:
		return *x == *b.(*ConstantInterfaceMethodrefInfo)
	case *ConstantIntegerInfo:
		return *x == *b.(*ConstantIntegerInfo)
	}
	return false
}

// AddUtf8 inserts value, or returns the index of an identical entry.
func (cp *ConstantPool) AddUtf8(value string) (uint16, error) {
	if len(encodeModifiedUtf8(value)) > 0xFFFF {
		return 0, fmt.Errorf("utf8 constant of %d bytes is too long", len(value))
	}
	return cp.add(&ConstantUtf8Info{Value: value})
}

// AddClass inserts a class reference. name is an internal name such as
// java/lang/Object.
func (cp *ConstantPool) AddClass(name string) (uint16, error) {
	nameIndex, err := cp.AddUtf8(name)
	if err != nil {
		return 0, err
	}
	return cp.add(&ConstantClassInfo{NameIndex: nameIndex})
}

func (cp *ConstantPool) AddString(value string) (uint16, error) {
	stringIndex, err := cp.AddUtf8(value)
	if err != nil {
		return 0, err
	}
	return cp.add(&ConstantStringInfo{StringIndex: stringIndex})
}

func (cp *ConstantPool) AddNameAndType(name, descriptor string) (uint16, error) {
	nameIndex, err := cp.AddUtf8(name)
	if err != nil {
		return 0, err
	}
	descriptorIndex, err := cp.AddUtf8(descriptor)
	if err != nil {
		return 0, err
	}
	return cp.add(&ConstantNameAndTypeInfo{NameIndex: nameIndex, DescriptorIndex: descriptorIndex})
}

func (cp *ConstantPool) AddFieldref(classIndex uint16, name, descriptor string) (uint16, error) {
	nat, err := cp.AddNameAndType(name, descriptor)
	if err != nil {
		return 0, err
	}
	return cp.add(&ConstantFieldrefInfo{ClassIndex: classIndex, NameAndTypeIndex: nat})
}

func (cp *ConstantPool) AddMethodref(classIndex uint16, name, descriptor string) (uint16, error) {
	nat, err := cp.AddNameAndType(name, descriptor)
	if err != nil {
		return 0, err
	}
	return cp.add(&ConstantMethodrefInfo{ClassIndex: classIndex, NameAndTypeIndex: nat})
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if entry, ok := cp.Entry(index).(*ConstantUtf8Info); ok {
		return entry.Value
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	if entry, ok := cp.Entry(index).(*ConstantClassInfo); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetNameAndType(index uint16) (name, descriptor string) {
	if entry, ok := cp.Entry(index).(*ConstantNameAndTypeInfo); ok {
		return cp.GetUtf8(entry.NameIndex), cp.GetUtf8(entry.DescriptorIndex)
	}
	return "", ""
}

func (cp ConstantPool) GetString(index uint16) string {
	if entry, ok := cp.Entry(index).(*ConstantStringInfo); ok {
		return cp.GetUtf8(entry.StringIndex)
	}
	return ""
}

func (cp ConstantPool) GetFieldref(index uint16) (className, name, descriptor string) {
	if entry, ok := cp.Entry(index).(*ConstantFieldrefInfo); ok {
		className = cp.GetClassName(entry.ClassIndex)
		name, descriptor = cp.GetNameAndType(entry.NameAndTypeIndex)
		return
	}
	return "", "", ""
}

func (cp ConstantPool) GetMethodref(index uint16) (className, name, descriptor string) {
	if entry, ok := cp.Entry(index).(*ConstantMethodrefInfo); ok {
		className = cp.GetClassName(entry.ClassIndex)
		name, descriptor = cp.GetNameAndType(entry.NameAndTypeIndex)
		return
	}
	return "", "", ""
}

// Describe renders the entry at index the way javap comments do, e.g.
// "java/io/PrintStream.println:(Ljava/lang/String;)V".
func (cp ConstantPool) Describe(index uint16) string {
	switch entry := cp.Entry(index).(type) {
	case *ConstantUtf8Info:
		return entry.Value
	case *ConstantIntegerInfo:
		return fmt.Sprintf("%d", entry.Value)
	case *ConstantFloatInfo:
		return fmt.Sprintf("%gf", entry.Value)
	case *ConstantLongInfo:
		return fmt.Sprintf("%dl", entry.Value)
	case *ConstantDoubleInfo:
		return fmt.Sprintf("%gd", entry.Value)
	case *ConstantClassInfo:
		return cp.GetUtf8(entry.NameIndex)
	case *ConstantStringInfo:
		return fmt.Sprintf("%q", cp.GetUtf8(entry.StringIndex))
	case *ConstantNameAndTypeInfo:
		return cp.GetUtf8(entry.NameIndex) + ":" + cp.GetUtf8(entry.DescriptorIndex)
	case *ConstantFieldrefInfo:
		className, name, descriptor := cp.GetFieldref(index)
		return className + "." + name + ":" + descriptor
	case *ConstantMethodrefInfo:
		className, name, descriptor := cp.GetMethodref(index)
		return className + "." + name + ":" + descriptor
	case *ConstantInterfaceMethodrefInfo:
		name, descriptor := cp.GetNameAndType(entry.NameAndTypeIndex)
		return cp.GetClassName(entry.ClassIndex) + "." + name + ":" + descriptor
	}
	return ""
}
