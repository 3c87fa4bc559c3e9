package compiler

import (
	"strings"

	"github.com/stuforbes/java-compiler/catalog"
)

const objectClass = "java.lang.Object"

// typeSystem maps source type names to DataTypes for one compilation and
// answers assignment compatibility questions.
type typeSystem struct {
	className string
	catalog   *catalog.Catalog
}

// Named resolves a type as written in source. Primitive keywords, the class
// being compiled and catalog classes are known; anything else is an
// *UnknownClassError. Trailing [] pairs and isArray add array dimensions.
func (ts *typeSystem) Named(name string, isArray bool) (DataType, error) {
	dims := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
		dims++
	}
	if isArray {
		dims++
	}

	var t DataType
	if k, ok := primitiveNames[name]; ok {
		if k == Void && dims > 0 {
			return DataType{}, &UnknownClassError{Name: name + "[]"}
		}
		t = Primitive(k)
	} else if name == ts.className {
		t = ObjectType(name)
	} else if cls, ok := ts.catalog.Lookup(name); ok {
		t = ObjectType(cls.QualifiedName)
	} else {
		return DataType{}, &UnknownClassError{Name: name}
	}

	for i := 0; i < dims; i++ {
		t = ArrayOf(t)
	}
	return t, nil
}

// Class returns the catalog entry behind an object type.
func (ts *typeSystem) Class(t DataType) (*catalog.Class, bool) {
	if t.Kind != Object {
		return nil, false
	}
	return ts.catalog.Lookup(t.ClassName)
}

// Assignable reports whether a value of type from may be stored where to is
// expected without a cast.
func (ts *typeSystem) Assignable(from, to DataType) bool {
	if from.Equal(to) {
		return true
	}
	if from.IsReference() && to.Kind == Object && to.ClassName == objectClass {
		return true
	}
	if from.Kind == Object && to.Kind == Object {
		cls, ok := ts.catalog.Lookup(from.ClassName)
		return ok && cls.IsSubclassOf(to.ClassName)
	}
	switch to.Kind {
	case Int:
		return from.Kind == Byte || from.Kind == Short || from.Kind == Char
	case Short:
		return from.Kind == Byte
	}
	return false
}
