package classfile

import (
	"encoding/binary"
	"fmt"
	"strings"
)

type Opcode uint8

const (
	NOP           Opcode = 0x00
	ACONST_NULL   Opcode = 0x01
	LDC           Opcode = 0x12
	LDC_W         Opcode = 0x13
	ILOAD         Opcode = 0x15
	LLOAD         Opcode = 0x16
	FLOAD         Opcode = 0x17
	DLOAD         Opcode = 0x18
	ALOAD         Opcode = 0x19
	ALOAD_0       Opcode = 0x2a
	ISTORE        Opcode = 0x36
	LSTORE        Opcode = 0x37
	FSTORE        Opcode = 0x38
	DSTORE        Opcode = 0x39
	ASTORE        Opcode = 0x3a
	POP           Opcode = 0x57
	POP2          Opcode = 0x58
	DUP           Opcode = 0x59
	IRETURN       Opcode = 0xac
	LRETURN       Opcode = 0xad
	FRETURN       Opcode = 0xae
	DRETURN       Opcode = 0xaf
	ARETURN       Opcode = 0xb0
	RETURN        Opcode = 0xb1
	GETSTATIC     Opcode = 0xb2
	PUTSTATIC     Opcode = 0xb3
	GETFIELD      Opcode = 0xb4
	PUTFIELD      Opcode = 0xb5
	INVOKEVIRTUAL Opcode = 0xb6
	INVOKESPECIAL Opcode = 0xb7
	INVOKESTATIC  Opcode = 0xb8
)

type operandKind uint8

const (
	noOperand operandKind = iota
	localOperand
	byteIndexOperand
	poolOperand
)

type opcodeInfo struct {
	mnemonic string
	operand  operandKind
}

var opcodes = map[Opcode]opcodeInfo{
	NOP:           {"nop", noOperand},
	ACONST_NULL:   {"aconst_null", noOperand},
	LDC:           {"ldc", byteIndexOperand},
	LDC_W:         {"ldc_w", poolOperand},
	ILOAD:         {"iload", localOperand},
	LLOAD:         {"lload", localOperand},
	FLOAD:         {"fload", localOperand},
	DLOAD:         {"dload", localOperand},
	ALOAD:         {"aload", localOperand},
	ALOAD_0:       {"aload_0", noOperand},
	ISTORE:        {"istore", localOperand},
	LSTORE:        {"lstore", localOperand},
	FSTORE:        {"fstore", localOperand},
	DSTORE:        {"dstore", localOperand},
	ASTORE:        {"astore", localOperand},
	POP:           {"pop", noOperand},
	POP2:          {"pop2", noOperand},
	DUP:           {"dup", noOperand},
	IRETURN:       {"ireturn", noOperand},
	LRETURN:       {"lreturn", noOperand},
	FRETURN:       {"freturn", noOperand},
	DRETURN:       {"dreturn", noOperand},
	ARETURN:       {"areturn", noOperand},
	RETURN:        {"return", noOperand},
	GETSTATIC:     {"getstatic", poolOperand},
	PUTSTATIC:     {"putstatic", poolOperand},
	GETFIELD:      {"getfield", poolOperand},
	PUTFIELD:      {"putfield", poolOperand},
	INVOKEVIRTUAL: {"invokevirtual", poolOperand},
	INVOKESPECIAL: {"invokespecial", poolOperand},
	INVOKESTATIC:  {"invokestatic", poolOperand},
}

func (op Opcode) String() string {
	if info, ok := opcodes[op]; ok {
		return info.mnemonic
	}
	return fmt.Sprintf("opcode(0x%02x)", uint8(op))
}

// Instruction is one opcode and its operand. Local variable and ldc operands
// are encoded in one byte, constant pool operands in two.
type Instruction struct {
	Opcode  Opcode
	Operand uint16
}

// Size is the encoded length in bytes.
func (in Instruction) Size() int {
	switch opcodes[in.Opcode].operand {
	case localOperand, byteIndexOperand:
		return 2
	case poolOperand:
		return 3
	}
	return 1
}

// ReferencesPool reports whether Operand is a constant pool index.
func (in Instruction) ReferencesPool() bool {
	k := opcodes[in.Opcode].operand
	return k == poolOperand || k == byteIndexOperand
}

func (in Instruction) String() string {
	if opcodes[in.Opcode].operand == noOperand {
		return in.Opcode.String()
	}
	if in.ReferencesPool() {
		return fmt.Sprintf("%s #%d", in.Opcode, in.Operand)
	}
	return fmt.Sprintf("%s %d", in.Opcode, in.Operand)
}

// EncodeCode assembles instructions into a Code attribute body.
func EncodeCode(instructions []Instruction) ([]byte, error) {
	code := make([]byte, 0, len(instructions)*3)
	for i, in := range instructions {
		info, ok := opcodes[in.Opcode]
		if !ok {
			return nil, fmt.Errorf("instruction %d: unsupported opcode 0x%02x", i, uint8(in.Opcode))
		}
		code = append(code, byte(in.Opcode))
		switch info.operand {
		case localOperand, byteIndexOperand:
			if in.Operand > 0xFF {
				return nil, fmt.Errorf("instruction %d: %s operand %d does not fit in a byte", i, in.Opcode, in.Operand)
			}
			code = append(code, byte(in.Operand))
		case poolOperand:
			code = binary.BigEndian.AppendUint16(code, in.Operand)
		}
	}
	return code, nil
}

// DecodeCode is the inverse of EncodeCode.
func DecodeCode(code []byte) ([]Instruction, error) {
	var out []Instruction
	for pc := 0; pc < len(code); {
		op := Opcode(code[pc])
		info, ok := opcodes[op]
		if !ok {
			return nil, fmt.Errorf("pc %d: unsupported opcode 0x%02x", pc, code[pc])
		}
		in := Instruction{Opcode: op}
		size := in.Size()
		if pc+size > len(code) {
			return nil, fmt.Errorf("pc %d: truncated %s", pc, op)
		}
		switch info.operand {
		case localOperand, byteIndexOperand:
			in.Operand = uint16(code[pc+1])
		case poolOperand:
			in.Operand = binary.BigEndian.Uint16(code[pc+1:])
		}
		out = append(out, in)
		pc += size
	}
	return out, nil
}

// Disassemble renders code one instruction per line, prefixed with its pc.
// Constant pool operands are annotated from cp when it is non-nil.
func Disassemble(code []byte, cp ConstantPool) (string, error) {
	instructions, err := DecodeCode(code)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	pc := 0
	for _, in := range instructions {
		line := fmt.Sprintf("%4d: %s", pc, in)
		if cp != nil && in.ReferencesPool() {
			line += " // " + cp.Describe(in.Operand)
		}
		sb.WriteString(line + "\n")
		pc += in.Size()
	}
	return sb.String(), nil
}
