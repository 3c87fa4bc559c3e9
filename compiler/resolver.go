package compiler

import (
	"github.com/stuforbes/java-compiler/catalog"
	"github.com/stuforbes/java-compiler/classfile"
)

// Resolution is the meaning of a name: *VariableOnStack, *StaticClass or
// *StaticFieldReference.
type Resolution interface {
	resolution()
}

type VariableOnStack struct {
	Variable *Variable
}

// StaticClass is a bare class reference such as System in System.out.
type StaticClass struct {
	Class *catalog.Class
}

// StaticFieldReference is a static field of Owner. FieldType is the
// field's type; FieldClass is its catalog entry when the type is a known
// class, nil otherwise.
type StaticFieldReference struct {
	Owner      *catalog.Class
	Field      *catalog.Field
	FieldType  DataType
	FieldClass *catalog.Class
}

func (*VariableOnStack) resolution()      {}
func (*StaticClass) resolution()          {}
func (*StaticFieldReference) resolution() {}

// ScopedObject is the class that the next step of a chained expression is a
// member of. OnStack is set when a value of that class is on the operand
// stack and clear when the chain so far is a bare class reference. ClassID
// is the constant pool index of the class entry.
type ScopedObject struct {
	Class   *catalog.Class
	ClassID uint16
	OnStack bool
}

// ClassPath is the internal name of the scoped class.
func (s *ScopedObject) ClassPath() string {
	return s.Class.InternalName()
}

// Resolver interprets names against the current locals and the catalog. It
// never touches the constant pool.
type Resolver struct {
	stack   *Stack
	catalog *catalog.Catalog
}

func NewResolver(stack *Stack, cat *catalog.Catalog) *Resolver {
	return &Resolver{stack: stack, catalog: cat}
}

// ResolveUnscoped interprets the first segment of a chain. Locals shadow
// classes; a name that is neither is a *ResolutionError.
func (r *Resolver) ResolveUnscoped(name string) (Resolution, error) {
	if v, ok := r.stack.Get(name); ok {
		return &VariableOnStack{Variable: v}, nil
	}
	if cls, ok := r.catalog.Lookup(name); ok {
		return &StaticClass{Class: cls}, nil
	}
	return nil, &ResolutionError{Name: name}
}

// ResolveScoped interprets name as a field of the scoped class.
func (r *Resolver) ResolveScoped(name string, scope *ScopedObject) (Resolution, error) {
	field, ok := scope.Class.FieldNamed(name)
	if !ok {
		return nil, &UnknownFieldError{Class: scope.Class.QualifiedName, Field: name}
	}
	if !field.Static {
		return nil, &UnsupportedError{What: "instance field " + scope.Class.QualifiedName + "." + name}
	}
	if scope.OnStack {
		return nil, &UnsupportedError{What: "static field " + scope.Class.QualifiedName + "." + name + " accessed through a value"}
	}

	ref := &StaticFieldReference{
		Owner:     scope.Class,
		Field:     field,
		FieldType: fieldType(field),
	}
	if name := field.TypeName(); name != "" {
		cls, ok := r.catalog.Lookup(name)
		if !ok {
			return nil, &UnknownClassError{Name: name}
		}
		ref.FieldClass = cls
	}
	return ref, nil
}

func fieldType(f *catalog.Field) DataType {
	return FromFieldType(classfile.ParseFieldDescriptor(f.Descriptor))
}
