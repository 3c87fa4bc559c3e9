package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/stuforbes/java-compiler/classfile"
)

type JSONEncoder struct {
	w  io.Writer
	cf *classfile.ClassFile
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(cf *classfile.ClassFile) error {
	e.cf = cf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := e.buildClassData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonClass struct {
	Name       string         `json:"name"`
	SuperClass string         `json:"superClass,omitempty"`
	SourceFile string         `json:"sourceFile,omitempty"`
	Visibility string         `json:"visibility"`
	Modifiers  []string       `json:"modifiers,omitempty"`
	Version    jsonVersion    `json:"version"`
	Constants  []jsonConstant `json:"constants"`
	Methods    []jsonMethod   `json:"methods,omitempty"`
}

type jsonVersion struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
}

type jsonConstant struct {
	Index uint16 `json:"index"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

type jsonMethod struct {
	Name       string    `json:"name"`
	Descriptor string    `json:"descriptor"`
	ReturnType string    `json:"returnType"`
	Parameters []string  `json:"parameters,omitempty"`
	Visibility string    `json:"visibility"`
	Modifiers  []string  `json:"modifiers,omitempty"`
	Code       *jsonCode `json:"code,omitempty"`
}

type jsonCode struct {
	MaxStack     uint16   `json:"maxStack"`
	MaxLocals    uint16   `json:"maxLocals"`
	Instructions []string `json:"instructions"`
}

func (e *JSONEncoder) buildClassData() (jsonClass, error) {
	cf := e.cf
	data := jsonClass{
		Name:       classfile.InternalToSourceName(cf.ClassName()),
		SuperClass: classfile.InternalToSourceName(cf.SuperClassName()),
		SourceFile: cf.SourceFile(),
		Visibility: visibility(cf.AccessFlags),
		Modifiers:  modifiers(cf.AccessFlags),
		Version: jsonVersion{
			Major: cf.MajorVersion,
			Minor: cf.MinorVersion,
		},
		Constants: e.buildConstants(),
	}
	methods, err := e.buildMethods()
	if err != nil {
		return jsonClass{}, err
	}
	data.Methods = methods
	return data, nil
}

func (e *JSONEncoder) buildConstants() []jsonConstant {
	cp := e.cf.ConstantPool
	result := make([]jsonConstant, 0, cp.Len())
	for i := 1; i <= cp.Len(); i++ {
		entry := cp.Entry(uint16(i))
		if entry == nil {
			continue
		}
		result = append(result, jsonConstant{
			Index: uint16(i),
			Tag:   entry.Tag().String(),
			Value: cp.Describe(uint16(i)),
		})
	}
	return result
}

func (e *JSONEncoder) buildMethods() ([]jsonMethod, error) {
	cf := e.cf
	result := make([]jsonMethod, len(cf.Methods))
	for i := range cf.Methods {
		m := &cf.Methods[i]
		desc := m.ParsedDescriptor(cf.ConstantPool)
		if desc == nil {
			return nil, fmt.Errorf("method %s: malformed descriptor", m.Name(cf.ConstantPool))
		}
		jm := jsonMethod{
			Name:       m.Name(cf.ConstantPool),
			Descriptor: m.Descriptor(cf.ConstantPool),
			ReturnType: "void",
			Visibility: visibility(m.AccessFlags),
			Modifiers:  modifiers(m.AccessFlags),
		}
		if desc.ReturnType != nil {
			jm.ReturnType = desc.ReturnType.String()
		}
		for j := range desc.Parameters {
			jm.Parameters = append(jm.Parameters, desc.Parameters[j].String())
		}
		if code := m.GetCodeAttribute(cf.ConstantPool); code != nil {
			listing, err := classfile.Disassemble(code.Code, cf.ConstantPool)
			if err != nil {
				return nil, fmt.Errorf("method %s: %w", jm.Name, err)
			}
			jm.Code = &jsonCode{
				MaxStack:     code.MaxStack,
				MaxLocals:    code.MaxLocals,
				Instructions: instructionLines(listing),
			}
		}
		result[i] = jm
	}
	return result, nil
}

func instructionLines(listing string) []string {
	lines := strings.Split(strings.TrimRight(listing, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	if len(lines) == 1 && lines[0] == "" {
		return []string{}
	}
	return lines
}
