// Package catalog describes the external classes a compilation may reference:
// their qualified names, methods and static fields. A Catalog is built per
// compile session from the embedded JDK surface plus optional TOML files.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/stuforbes/java-compiler/classfile"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jcc.catalog")

//go:embed jdk.toml
var builtinTOML []byte

const objectClass = "java.lang.Object"

// Method is a method declared on a catalog class.
type Method struct {
	Name       string `toml:"name"`
	Descriptor string `toml:"descriptor"`
	Static     bool   `toml:"static"`
}

// Parsed returns the decoded descriptor. Descriptors are validated on load,
// so the result is never nil for a method obtained from a Catalog.
func (m *Method) Parsed() *classfile.MethodDescriptor {
	return classfile.ParseMethodDescriptor(m.Descriptor)
}

// Field is a field declared on a catalog class.
type Field struct {
	Name       string `toml:"name"`
	Descriptor string `toml:"descriptor"`
	Static     bool   `toml:"static"`
}

// TypeName is the qualified class name of the field's type, or "" when the
// field is primitive or an array.
func (f *Field) TypeName() string {
	ft := classfile.ParseFieldDescriptor(f.Descriptor)
	if ft == nil || ft.ClassName == "" || ft.IsArray() {
		return ""
	}
	return classfile.InternalToSourceName(ft.ClassName)
}

// Class is one catalog entry.
type Class struct {
	QualifiedName string   `toml:"name"`
	Super         string   `toml:"super"`
	Final         bool     `toml:"final"`
	Methods       []Method `toml:"methods"`
	Fields        []Field  `toml:"fields"`

	catalog *Catalog
}

// InternalName is the slash separated form used in the constant pool.
func (c *Class) InternalName() string {
	return classfile.SourceToInternalName(c.QualifiedName)
}

// Descriptor is the field descriptor of a reference to this class.
func (c *Class) Descriptor() string {
	return "L" + c.InternalName() + ";"
}

// SimpleName is the last segment of the qualified name.
func (c *Class) SimpleName() string {
	return c.QualifiedName[strings.LastIndexByte(c.QualifiedName, '.')+1:]
}

// Superclass returns the parent entry, or nil for java.lang.Object.
func (c *Class) Superclass() *Class {
	if c.Super == "" || c.catalog == nil {
		return nil
	}
	super, _ := c.catalog.Lookup(c.Super)
	return super
}

// MethodNamed returns the first method called name, searching superclasses.
func (c *Class) MethodNamed(name string) (*Method, bool) {
	overloads := c.Overloads(name)
	if len(overloads) == 0 {
		return nil, false
	}
	return overloads[0], true
}

// Overloads returns every method called name, declared methods first and
// inherited ones after.
func (c *Class) Overloads(name string) []*Method {
	var out []*Method
	seen := map[string]bool{}
	for cls := c; cls != nil; cls = cls.Superclass() {
		for i := range cls.Methods {
			m := &cls.Methods[i]
			if m.Name == name && !seen[m.Descriptor] {
				seen[m.Descriptor] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// FieldNamed returns the field called name, searching superclasses.
func (c *Class) FieldNamed(name string) (*Field, bool) {
	for cls := c; cls != nil; cls = cls.Superclass() {
		for i := range cls.Fields {
			if cls.Fields[i].Name == name {
				return &cls.Fields[i], true
			}
		}
	}
	return nil, false
}

// Owner returns the class that declares m, which may be a superclass of c.
func (c *Class) Owner(m *Method) *Class {
	for cls := c; cls != nil; cls = cls.Superclass() {
		for i := range cls.Methods {
			if &cls.Methods[i] == m {
				return cls
			}
		}
	}
	return c
}

// IsSubclassOf reports whether c is other or extends it.
func (c *Class) IsSubclassOf(other string) bool {
	for cls := c; cls != nil; cls = cls.Superclass() {
		if cls.QualifiedName == other {
			return true
		}
	}
	return false
}

// Catalog maps qualified class names to their descriptions.
type Catalog struct {
	classes map[string]*Class
}

type document struct {
	Classes []Class `toml:"class"`
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{classes: map[string]*Class{}}
}

// Builtin returns a fresh catalog holding the embedded JDK surface.
func Builtin() (*Catalog, error) {
	c := New()
	if err := c.Load(builtinTOML, "builtin"); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile merges the classes declared in a TOML file.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read catalog %s: %w", path, err)
	}
	return c.Load(data, path)
}

// Load merges the classes declared in a TOML document. source names the
// document in errors. A document that fails validation leaves c unchanged.
func (c *Catalog) Load(data []byte, source string) error {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse error in catalog %s: %w", source, err)
	}

	added := make(map[string]*Class, len(doc.Classes))
	for i := range doc.Classes {
		cls := &doc.Classes[i]
		if err := validate(cls); err != nil {
			return fmt.Errorf("catalog %s: %w", source, err)
		}
		if _, exists := c.classes[cls.QualifiedName]; exists {
			return fmt.Errorf("catalog %s: class %s already defined", source, cls.QualifiedName)
		}
		if _, exists := added[cls.QualifiedName]; exists {
			return fmt.Errorf("catalog %s: class %s defined twice", source, cls.QualifiedName)
		}
		if cls.Super == "" && cls.QualifiedName != objectClass {
			cls.Super = objectClass
		}
		added[cls.QualifiedName] = cls
	}

	for _, cls := range added {
		if cls.Super == "" {
			continue
		}
		if _, ok := added[cls.Super]; !ok {
			if _, ok := c.classes[cls.Super]; !ok {
				return fmt.Errorf("catalog %s: class %s extends unknown class %s", source, cls.QualifiedName, cls.Super)
			}
		}
	}

	for name, cls := range added {
		cls.catalog = c
		c.classes[name] = cls
	}
	log.Debugf("loaded %d classes from %s", len(added), source)
	return nil
}

func validate(cls *Class) error {
	if cls.QualifiedName == "" {
		return fmt.Errorf("class without a name")
	}
	if strings.ContainsAny(cls.QualifiedName, "/;[") {
		return fmt.Errorf("class name %q must be a dotted qualified name", cls.QualifiedName)
	}
	seen := map[string]bool{}
	for _, m := range cls.Methods {
		if m.Name == "" {
			return fmt.Errorf("%s: method without a name", cls.QualifiedName)
		}
		if classfile.ParseMethodDescriptor(m.Descriptor) == nil {
			return fmt.Errorf("%s.%s: malformed descriptor %q", cls.QualifiedName, m.Name, m.Descriptor)
		}
		if seen[m.Name+m.Descriptor] {
			return fmt.Errorf("%s.%s%s declared twice", cls.QualifiedName, m.Name, m.Descriptor)
		}
		seen[m.Name+m.Descriptor] = true
	}
	for _, f := range cls.Fields {
		if f.Name == "" {
			return fmt.Errorf("%s: field without a name", cls.QualifiedName)
		}
		if classfile.ParseFieldDescriptor(f.Descriptor) == nil {
			return fmt.Errorf("%s.%s: malformed descriptor %q", cls.QualifiedName, f.Name, f.Descriptor)
		}
	}
	return nil
}

// Lookup finds a class by qualified name (java.io.PrintStream), internal name
// (java/io/PrintStream) or, for java.lang, simple name (String).
func (c *Catalog) Lookup(name string) (*Class, bool) {
	name = classfile.InternalToSourceName(name)
	if cls, ok := c.classes[name]; ok {
		return cls, true
	}
	if !strings.Contains(name, ".") {
		if cls, ok := c.classes["java.lang."+name]; ok {
			return cls, true
		}
	}
	return nil, false
}

// Names lists every class in the catalog, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.classes))
	for name := range c.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy that can be extended without affecting c.
func (c *Catalog) Clone() *Catalog {
	out := New()
	for name, cls := range c.classes {
		copied := *cls
		copied.Methods = slices.Clone(cls.Methods)
		copied.Fields = slices.Clone(cls.Fields)
		copied.catalog = out
		out.classes[name] = &copied
	}
	return out
}
