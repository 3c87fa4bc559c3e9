package classfile

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeCode(t *testing.T) {
	code, err := EncodeCode([]Instruction{
		{Opcode: LDC_W, Operand: 0x0102},
		{Opcode: ASTORE, Operand: 1},
		{Opcode: GETSTATIC, Operand: 7},
		{Opcode: ALOAD, Operand: 1},
		{Opcode: INVOKEVIRTUAL, Operand: 9},
		{Opcode: POP},
		{Opcode: RETURN},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x13, 0x01, 0x02,
		0x3a, 0x01,
		0xb2, 0x00, 0x07,
		0x19, 0x01,
		0xb6, 0x00, 0x09,
		0x57,
		0xb1,
	}
	if !bytes.Equal(code, want) {
		t.Errorf("EncodeCode() = % x, want % x", code, want)
	}

	decoded, err := DecodeCode(code)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 7 || decoded[0].Operand != 0x0102 || decoded[3] != (Instruction{Opcode: ALOAD, Operand: 1}) {
		t.Errorf("DecodeCode() = %v", decoded)
	}
}

func TestEncodeCodeErrors(t *testing.T) {
	if _, err := EncodeCode([]Instruction{{Opcode: ALOAD, Operand: 256}}); err == nil {
		t.Error("expected error for wide local operand")
	}
	if _, err := EncodeCode([]Instruction{{Opcode: Opcode(0xff)}}); err == nil {
		t.Error("expected error for unknown opcode")
	}
	if _, err := DecodeCode([]byte{0xb6, 0x00}); err == nil {
		t.Error("expected error for truncated operand")
	}
}

func TestDisassemble(t *testing.T) {
	cf := helloClass(t)
	code := cf.GetMethod("main", "").GetCodeAttribute(cf.ConstantPool)
	listing, err := Disassemble(code.Code, cf.ConstantPool)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`ldc_w #`,
		`// "Hello World"`,
		"getstatic #",
		"java/lang/System.out:Ljava/io/PrintStream;",
		"invokevirtual #",
		"java/io/PrintStream.println:(Ljava/lang/String;)V",
		"   3: astore 1",
		"return",
	} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}
}

func TestConstantPoolDeduplicates(t *testing.T) {
	var cp ConstantPool
	a, _ := cp.AddString("x")
	b, _ := cp.AddString("x")
	if a != b {
		t.Errorf("AddString twice gave %d and %d", a, b)
	}
	if cp.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cp.Len())
	}

	cls, _ := cp.AddClass("java/io/PrintStream")
	m1, _ := cp.AddMethodref(cls, "println", "(Ljava/lang/String;)V")
	m2, _ := cp.AddMethodref(cls, "println", "(Ljava/lang/String;)V")
	if m1 != m2 {
		t.Errorf("AddMethodref twice gave %d and %d", m1, m2)
	}
	if className, name, desc := cp.GetMethodref(m1); className != "java/io/PrintStream" || name != "println" || desc != "(Ljava/lang/String;)V" {
		t.Errorf("GetMethodref() = %q %q %q", className, name, desc)
	}
}

func TestConstantPoolBounds(t *testing.T) {
	var cp ConstantPool
	cp.AddUtf8("a")
	if cp.Entry(0) != nil || cp.Entry(2) != nil {
		t.Error("out of range Entry should be nil")
	}
	if cp.GetClassName(1) != "" {
		t.Error("GetClassName on a Utf8 entry should be empty")
	}
}

func TestConstantPoolFull(t *testing.T) {
	var cp ConstantPool
	for i := 0; i < 0xFFFE; i++ {
		cp = append(cp, &ConstantIntegerInfo{Value: int32(i)})
	}
	if _, err := cp.AddUtf8("overflow"); err != ErrConstantPoolFull {
		t.Errorf("AddUtf8() error = %v, want ErrConstantPoolFull", err)
	}
}
