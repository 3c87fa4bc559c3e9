package classfile

import "strings"

// FieldType is a parsed field descriptor. Exactly one of BaseType and
// ClassName is set.
type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

var baseDescriptors = map[string]byte{
	"byte":    'B',
	"char":    'C',
	"double":  'D',
	"float":   'F',
	"int":     'I',
	"long":    'J',
	"short":   'S',
	"boolean": 'Z',
}

// String renders the type the way Java source spells it.
func (ft *FieldType) String() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// Descriptor renders the type back into descriptor form.
func (ft *FieldType) Descriptor() string {
	var sb strings.Builder
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteByte('[')
	}
	if c, ok := baseDescriptors[ft.BaseType]; ok {
		sb.WriteByte(c)
	} else {
		sb.WriteString("L" + ft.ClassName + ";")
	}
	return sb.String()
}

func (ft *FieldType) IsArray() bool {
	return ft.ArrayDepth > 0
}

func (ft *FieldType) IsPrimitive() bool {
	return ft.BaseType != "" && ft.ArrayDepth == 0
}

func (ft *FieldType) IsReference() bool {
	return !ft.IsPrimitive()
}

// Slots is the number of local variable or operand stack slots a value of
// this type occupies.
func (ft *FieldType) Slots() int {
	if ft.IsPrimitive() && (ft.BaseType == "long" || ft.BaseType == "double") {
		return 2
	}
	return 1
}

// MethodDescriptor is a parsed method descriptor. ReturnType is nil for void.
type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType *FieldType
}

func (md *MethodDescriptor) String() string {
	params := make([]string, len(md.Parameters))
	for i := range md.Parameters {
		params[i] = md.Parameters[i].String()
	}
	ret := "void"
	if md.ReturnType != nil {
		ret = md.ReturnType.String()
	}
	return "(" + strings.Join(params, ", ") + ") " + ret
}

func (md *MethodDescriptor) Descriptor() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i := range md.Parameters {
		sb.WriteString(md.Parameters[i].Descriptor())
	}
	sb.WriteByte(')')
	if md.ReturnType == nil {
		sb.WriteByte('V')
	} else {
		sb.WriteString(md.ReturnType.Descriptor())
	}
	return sb.String()
}

// ArgumentSlots sums the slots of the parameters.
func (md *MethodDescriptor) ArgumentSlots() int {
	n := 0
	for i := range md.Parameters {
		n += md.Parameters[i].Slots()
	}
	return n
}

// ReturnSlots is 0 for void methods.
func (md *MethodDescriptor) ReturnSlots() int {
	if md.ReturnType == nil {
		return 0
	}
	return md.ReturnType.Slots()
}

// ParseFieldDescriptor returns nil unless desc is exactly one field type.
func ParseFieldDescriptor(desc string) *FieldType {
	ft, n := parseFieldType(desc, 0)
	if ft == nil || n != len(desc) {
		return nil
	}
	return ft
}

// ParseMethodDescriptor returns nil unless desc is a well formed method
// descriptor with nothing trailing.
func ParseMethodDescriptor(desc string) *MethodDescriptor {
	if len(desc) == 0 || desc[0] != '(' {
		return nil
	}

	md := &MethodDescriptor{}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, n := parseFieldType(desc, i)
		if ft == nil {
			return nil
		}
		md.Parameters = append(md.Parameters, *ft)
		i += n
	}
	if i >= len(desc) {
		return nil
	}
	i++

	if desc[i:] == "V" {
		return md
	}
	ret, n := parseFieldType(desc, i)
	if ret == nil || i+n != len(desc) {
		return nil
	}
	md.ReturnType = ret
	return md
}

func parseFieldType(desc string, start int) (*FieldType, int) {
	ft := &FieldType{}
	i := start
	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return nil, 0
	}

	if base, ok := baseTypes[desc[i]]; ok {
		ft.BaseType = base
		return ft, i - start + 1
	}
	if desc[i] != 'L' {
		return nil, 0
	}
	end := strings.IndexByte(desc[i:], ';')
	if end <= 1 {
		return nil, 0
	}
	ft.ClassName = desc[i+1 : i+end]
	return ft, i - start + end + 1
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
