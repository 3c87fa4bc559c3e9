package classfile

import (
	"encoding/binary"
)

// AttributeInfo is a raw attribute. Parsed holds the decoded form of the
// attributes this package understands; Info is the encoded body. When Info is
// nil the writer encodes Parsed.
type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
	Parsed    interface{}
}

type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []AttributeInfo
}

type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

type SourceFileAttribute struct {
	SourceFileIndex uint16
}

func (a *AttributeInfo) AsCode() *CodeAttribute {
	if a.Parsed != nil {
		if code, ok := a.Parsed.(*CodeAttribute); ok {
			return code
		}
	}
	return nil
}

func (a *AttributeInfo) AsSourceFile() *SourceFileAttribute {
	if a.Parsed != nil {
		if sf, ok := a.Parsed.(*SourceFileAttribute); ok {
			return sf
		}
	}
	return nil
}

// body returns the encoded attribute body, encoding Parsed when Info is
// unset.
func (a *AttributeInfo) body() []byte {
	if a.Info != nil {
		return a.Info
	}
	switch p := a.Parsed.(type) {
	case *CodeAttribute:
		return p.encode()
	case *SourceFileAttribute:
		return binary.BigEndian.AppendUint16(nil, p.SourceFileIndex)
	}
	return nil
}

func (c *CodeAttribute) encode() []byte {
	buf := make([]byte, 0, 12+len(c.Code))
	buf = binary.BigEndian.AppendUint16(buf, c.MaxStack)
	buf = binary.BigEndian.AppendUint16(buf, c.MaxLocals)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(c.Code)))
	buf = append(buf, c.Code...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.ExceptionTable)))
	for _, e := range c.ExceptionTable {
		buf = binary.BigEndian.AppendUint16(buf, e.StartPC)
		buf = binary.BigEndian.AppendUint16(buf, e.EndPC)
		buf = binary.BigEndian.AppendUint16(buf, e.HandlerPC)
		buf = binary.BigEndian.AppendUint16(buf, e.CatchType)
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Attributes)))
	for i := range c.Attributes {
		buf = appendAttribute(buf, &c.Attributes[i])
	}
	return buf
}

func appendAttribute(buf []byte, a *AttributeInfo) []byte {
	body := a.body()
	buf = binary.BigEndian.AppendUint16(buf, a.NameIndex)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(body)))
	return append(buf, body...)
}

func parseCodeAttribute(info []byte) *CodeAttribute {
	if len(info) < 8 {
		return nil
	}

	code := &CodeAttribute{
		MaxStack:  binary.BigEndian.Uint16(info[0:2]),
		MaxLocals: binary.BigEndian.Uint16(info[2:4]),
	}

	codeLength := binary.BigEndian.Uint32(info[4:8])
	if len(info) < 8+int(codeLength) {
		return nil
	}
	code.Code = info[8 : 8+codeLength]

	offset := 8 + int(codeLength)
	if len(info) < offset+2 {
		return nil
	}

	exceptionTableLength := binary.BigEndian.Uint16(info[offset : offset+2])
	offset += 2

	code.ExceptionTable = make([]ExceptionTableEntry, exceptionTableLength)
	for i := uint16(0); i < exceptionTableLength; i++ {
		if len(info) < offset+8 {
			return nil
		}
		code.ExceptionTable[i] = ExceptionTableEntry{
			StartPC:   binary.BigEndian.Uint16(info[offset : offset+2]),
			EndPC:     binary.BigEndian.Uint16(info[offset+2 : offset+4]),
			HandlerPC: binary.BigEndian.Uint16(info[offset+4 : offset+6]),
			CatchType: binary.BigEndian.Uint16(info[offset+6 : offset+8]),
		}
		offset += 8
	}

	if len(info) < offset+2 {
		return nil
	}
	attributesCount := binary.BigEndian.Uint16(info[offset : offset+2])
	offset += 2

	code.Attributes = make([]AttributeInfo, 0, attributesCount)
	for i := uint16(0); i < attributesCount; i++ {
		if len(info) < offset+6 {
			return nil
		}
		nameIndex := binary.BigEndian.Uint16(info[offset : offset+2])
		attrLength := binary.BigEndian.Uint32(info[offset+2 : offset+6])
		offset += 6

		if len(info) < offset+int(attrLength) {
			return nil
		}
		code.Attributes = append(code.Attributes, AttributeInfo{
			NameIndex: nameIndex,
			Info:      info[offset : offset+int(attrLength)],
		})
		offset += int(attrLength)
	}

	return code
}

func parseSourceFileAttribute(info []byte) *SourceFileAttribute {
	if len(info) < 2 {
		return nil
	}
	return &SourceFileAttribute{SourceFileIndex: binary.BigEndian.Uint16(info[0:2])}
}
