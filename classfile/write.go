package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
)

// writer mirrors reader: the first error sticks and later writes are no-ops.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *writer) writeU1(v uint8) {
	w.write([]byte{v})
}

func (w *writer) writeU2(v uint16) {
	w.write(binary.BigEndian.AppendUint16(nil, v))
}

func (w *writer) writeU4(v uint32) {
	w.write(binary.BigEndian.AppendUint32(nil, v))
}

// Write encodes cf in class file format.
func Write(out io.Writer, cf *ClassFile) error {
	w := &writer{w: out}

	w.writeU4(Magic)
	w.writeU2(cf.MinorVersion)
	w.writeU2(cf.MajorVersion)

	w.writeU2(uint16(len(cf.ConstantPool) + 1))
	for i, entry := range cf.ConstantPool {
		if entry == nil {
			// upper half of a Long or Double
			continue
		}
		if err := writeConstantPoolEntry(w, entry); err != nil {
			return fmt.Errorf("failed to write constant pool entry %d: %w", i+1, err)
		}
	}

	w.writeU2(uint16(cf.AccessFlags))
	w.writeU2(cf.ThisClass)
	w.writeU2(cf.SuperClass)
	w.writeU2(uint16(len(cf.Interfaces)))
	for _, iface := range cf.Interfaces {
		w.writeU2(iface)
	}

	w.writeU2(uint16(len(cf.Fields)))
	for _, f := range cf.Fields {
		writeMember(w, f.AccessFlags, f.NameIndex, f.DescriptorIndex, f.Attributes)
	}

	w.writeU2(uint16(len(cf.Methods)))
	for _, m := range cf.Methods {
		writeMember(w, m.AccessFlags, m.NameIndex, m.DescriptorIndex, m.Attributes)
	}

	writeAttributes(w, cf.Attributes)

	if w.err != nil {
		return fmt.Errorf("failed to write class file: %w", w.err)
	}
	return nil
}

// Marshal returns the encoded bytes of cf.
func Marshal(cf *ClassFile) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, cf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeConstantPoolEntry(w *writer, entry ConstantPoolEntry) error {
	w.writeU1(uint8(entry.Tag()))
	switch e := entry.(type) {
	case *ConstantUtf8Info:
		encoded := encodeModifiedUtf8(e.Value)
		if len(encoded) > math.MaxUint16 {
			return fmt.Errorf("utf8 constant of %d bytes is too long", len(encoded))
		}
		w.writeU2(uint16(len(encoded)))
		w.write(encoded)
	case *ConstantIntegerInfo:
		w.writeU4(uint32(e.Value))
	case *ConstantFloatInfo:
		w.writeU4(math.Float32bits(e.Value))
	case *ConstantLongInfo:
		w.writeU4(uint32(uint64(e.Value) >> 32))
		w.writeU4(uint32(e.Value))
	case *ConstantDoubleInfo:
		bits := math.Float64bits(e.Value)
		w.writeU4(uint32(bits >> 32))
		w.writeU4(uint32(bits))
	case *ConstantClassInfo:
		w.writeU2(e.NameIndex)
	case *ConstantStringInfo:
		w.writeU2(e.StringIndex)
	case *ConstantFieldrefInfo:
		w.writeU2(e.ClassIndex)
		w.writeU2(e.NameAndTypeIndex)
	case *ConstantMethodrefInfo:
		w.writeU2(e.ClassIndex)
		w.writeU2(e.NameAndTypeIndex)
	case *ConstantInterfaceMethodrefInfo:
		w.writeU2(e.ClassIndex)
		w.writeU2(e.NameAndTypeIndex)
	case *ConstantNameAndTypeInfo:
		w.writeU2(e.NameIndex)
		w.writeU2(e.DescriptorIndex)
	default:
		return fmt.Errorf("unsupported constant pool entry %T", entry)
	}
	return nil
}

func writeMember(w *writer, flags AccessFlags, name, descriptor uint16, attrs []AttributeInfo) {
	w.writeU2(uint16(flags))
	w.writeU2(name)
	w.writeU2(descriptor)
	writeAttributes(w, attrs)
}

func writeAttributes(w *writer, attrs []AttributeInfo) {
	w.writeU2(uint16(len(attrs)))
	for i := range attrs {
		w.write(appendAttribute(nil, &attrs[i]))
	}
}

// encodeModifiedUtf8 produces the JVM's modified UTF-8: NUL takes two bytes
// and characters outside the BMP are written as encoded surrogate pairs.
func encodeModifiedUtf8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
		default:
			out = append(out, 0xE0|byte(u>>12), 0x80|byte((u>>6)&0x3F), 0x80|byte(u&0x3F))
		}
	}
	return out
}
