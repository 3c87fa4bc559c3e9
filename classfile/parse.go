package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf16"
	"unicode/utf8"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

// ParseFile reads the class file at path.
func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a class file. Attributes other than Code and SourceFile are
// kept as raw bytes.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	constantPoolCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read header: %w", r.err)
	}
	if constantPoolCount == 0 {
		return nil, fmt.Errorf("invalid constant pool count 0")
	}

	cf.ConstantPool = make(ConstantPool, constantPoolCount-1)
	for i := uint16(1); i < constantPoolCount; i++ {
		entry, wide, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", i, err)
		}
		cf.ConstantPool[i-1] = entry
		if wide {
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read class info: %w", r.err)
	}

	fieldsCount := r.readU2()
	cf.Fields = make([]FieldInfo, fieldsCount)
	for i := range cf.Fields {
		flags, name, descriptor, attrs, err := readMember(r, cf.ConstantPool)
		if err != nil {
			return nil, fmt.Errorf("failed to read field %d: %w", i, err)
		}
		cf.Fields[i] = FieldInfo{AccessFlags: flags, NameIndex: name, DescriptorIndex: descriptor, Attributes: attrs}
	}

	methodsCount := r.readU2()
	cf.Methods = make([]MethodInfo, methodsCount)
	for i := range cf.Methods {
		flags, name, descriptor, attrs, err := readMember(r, cf.ConstantPool)
		if err != nil {
			return nil, fmt.Errorf("failed to read method %d: %w", i, err)
		}
		cf.Methods[i] = MethodInfo{AccessFlags: flags, NameIndex: name, DescriptorIndex: descriptor, Attributes: attrs}
	}

	attrs, err := readAttributes(r, cf.ConstantPool)
	if err != nil {
		return nil, fmt.Errorf("failed to read class attributes: %w", err)
	}
	cf.Attributes = attrs

	return cf, nil
}

func readConstantPoolEntry(r *reader) (ConstantPoolEntry, bool, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return nil, false, r.err
	}

	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		bytes := r.readBytes(int(length))
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantUtf8Info{Value: decodeModifiedUtf8(bytes)}, false, nil

	case ConstantInteger:
		bytes := r.readU4()
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantIntegerInfo{Value: int32(bytes)}, false, nil

	case ConstantFloat:
		bytes := r.readU4()
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantFloatInfo{Value: math.Float32frombits(bytes)}, false, nil

	case ConstantLong:
		high := r.readU4()
		low := r.readU4()
		if r.err != nil {
			return nil, false, r.err
		}
		value := (int64(high) << 32) | int64(low)
		return &ConstantLongInfo{Value: value}, true, nil

	case ConstantDouble:
		high := r.readU4()
		low := r.readU4()
		if r.err != nil {
			return nil, false, r.err
		}
		bits := (uint64(high) << 32) | uint64(low)
		return &ConstantDoubleInfo{Value: math.Float64frombits(bits)}, true, nil

	case ConstantClass:
		nameIndex := r.readU2()
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantClassInfo{NameIndex: nameIndex}, false, nil

	case ConstantString:
		stringIndex := r.readU2()
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantStringInfo{StringIndex: stringIndex}, false, nil

	case ConstantFieldref:
		classIndex := r.readU2()
		nameAndTypeIndex := r.readU2()
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantFieldrefInfo{
			ClassIndex:       classIndex,
			NameAndTypeIndex: nameAndTypeIndex,
		}, false, nil

	case ConstantMethodref:
		classIndex := r.readU2()
		nameAndTypeIndex := r.readU2()
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantMethodrefInfo{
			ClassIndex:       classIndex,
			NameAndTypeIndex: nameAndTypeIndex,
		}, false, nil

	case ConstantInterfaceMethodref:
		classIndex := r.readU2()
		nameAndTypeIndex := r.readU2()
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantInterfaceMethodrefInfo{
			ClassIndex:       classIndex,
			NameAndTypeIndex: nameAndTypeIndex,
		}, false, nil

	case ConstantNameAndType:
		nameIndex := r.readU2()
		descriptorIndex := r.readU2()
		if r.err != nil {
			return nil, false, r.err
		}
		return &ConstantNameAndTypeInfo{
			NameIndex:       nameIndex,
			DescriptorIndex: descriptorIndex,
		}, false, nil

	default:
		return nil, false, fmt.Errorf("unsupported constant pool tag: %d", tag)
	}
}

func readMember(r *reader, cp ConstantPool) (AccessFlags, uint16, uint16, []AttributeInfo, error) {
	flags := AccessFlags(r.readU2())
	name := r.readU2()
	descriptor := r.readU2()
	attrs, err := readAttributes(r, cp)
	return flags, name, descriptor, attrs, err
}

func readAttributes(r *reader, cp ConstantPool) ([]AttributeInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make([]AttributeInfo, count)
	for i := range attrs {
		attr, err := readAttributeInfo(r, cp)
		if err != nil {
			return nil, err
		}
		attrs[i] = *attr
	}
	return attrs, nil
}

func readAttributeInfo(r *reader, cp ConstantPool) (*AttributeInfo, error) {
	nameIndex := r.readU2()
	length := r.readU4()
	info := r.readBytes(int(length))
	if r.err != nil {
		return nil, r.err
	}

	attr := &AttributeInfo{
		NameIndex: nameIndex,
		Info:      info,
	}

	switch cp.GetUtf8(nameIndex) {
	case "Code":
		attr.Parsed = parseCodeAttribute(info)
	case "SourceFile":
		attr.Parsed = parseSourceFileAttribute(info)
	}

	return attr, nil
}

// decodeModifiedUtf8 reverses encodeModifiedUtf8. Supplementary characters
// arrive as surrogate pairs, each encoded in three bytes.
func decodeModifiedUtf8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, utf8.RuneError)
			i++
		}
	}
	return string(utf16.Decode(units))
}
