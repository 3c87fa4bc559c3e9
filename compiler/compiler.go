// Package compiler translates a parsed class into a JVM class file.
//
// Compilation runs in three passes over the AST: the symbol table records
// every method signature, each method body is emitted against a fresh slot
// allocator, and the assembled class is checked with classfile.Verify. The
// first error aborts the compilation.
package compiler

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/stuforbes/java-compiler/ast"
	"github.com/stuforbes/java-compiler/catalog"
	"github.com/stuforbes/java-compiler/classfile"
)

var log = commonlog.GetLogger("jcc.compiler")

const (
	superClass      = "java/lang/Object"
	defaultMaxStack = 8
)

type Option func(*options)

type options struct {
	catalog      *catalog.Catalog
	majorVersion uint16
	minorVersion uint16
	maxStack     uint16
	sourceFile   string
	logger       commonlog.Logger
}

// WithCatalog sets the classes visible to the compiled code. The default is
// a fresh catalog.Builtin().
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

func WithVersion(major, minor uint16) Option {
	return func(o *options) {
		o.majorVersion = major
		o.minorVersion = minor
	}
}

// WithMaxStack sets the max_stack recorded for every method.
func WithMaxStack(n uint16) Option {
	return func(o *options) {
		o.maxStack = n
	}
}

// WithSourceFile records a SourceFile attribute.
func WithSourceFile(name string) Option {
	return func(o *options) {
		o.sourceFile = name
	}
}

func WithLogger(l commonlog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// session is the state of one compilation. It owns the class file under
// construction, including its constant pool.
type session struct {
	opts      options
	className string
	catalog   *catalog.Catalog
	types     *typeSystem
	symbols   *SymbolTable
	cf        *classfile.ClassFile
	log       commonlog.Logger
}

// Compile parses and compiles one class declaration.
func Compile(src []byte, opts ...Option) (*classfile.ClassFile, error) {
	class, err := ast.ParseSource(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return CompileClass(class, opts...)
}

// CompileClass compiles a parsed class.
func CompileClass(class *ast.Class, opts ...Option) (*classfile.ClassFile, error) {
	o := options{
		majorVersion: classfile.Java21,
		maxStack:     defaultMaxStack,
		logger:       log,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		c, err := catalog.Builtin()
		if err != nil {
			return nil, err
		}
		o.catalog = c
	}

	s := &session{
		opts:      o,
		className: class.Name,
		catalog:   o.catalog,
		types:     &typeSystem{className: class.Name, catalog: o.catalog},
		log:       o.logger,
	}
	return s.compile(class)
}

func (s *session) compile(class *ast.Class) (*classfile.ClassFile, error) {
	flags, err := classFlags(class)
	if err != nil {
		return nil, err
	}

	if s.symbols, err = buildSymbolTable(class, s.types); err != nil {
		return nil, err
	}

	if s.cf, err = classfile.New(class.Name, superClass, flags, s.opts.majorVersion, s.opts.minorVersion); err != nil {
		return nil, err
	}
	if err := s.addConstructor(class); err != nil {
		return nil, err
	}
	for _, m := range class.Methods {
		if err := s.addMethod(m); err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Name, err)
		}
	}
	if s.opts.sourceFile != "" {
		if err := s.cf.SetSourceFile(s.opts.sourceFile); err != nil {
			return nil, err
		}
	}

	if err := classfile.Verify(s.cf); err != nil {
		return nil, fmt.Errorf("generated class %s failed verification: %w", class.Name, err)
	}
	s.log.Infof("compiled %s: %d methods, %d constants", class.Name, len(s.cf.Methods), s.cf.ConstantPool.Len())
	return s.cf, nil
}

func classFlags(class *ast.Class) (classfile.AccessFlags, error) {
	flags := classfile.AccSuper
	switch class.Visibility {
	case ast.Public:
		flags |= classfile.AccPublic
	case ast.Private, ast.Protected:
		return 0, &UnsupportedError{What: class.Visibility.String() + " top-level class " + class.Name}
	}
	if class.IsStatic {
		return 0, &UnsupportedError{What: "static top-level class " + class.Name}
	}
	if class.IsFinal {
		flags |= classfile.AccFinal
	}
	return flags, nil
}

func methodFlags(m *ast.Method) classfile.AccessFlags {
	var flags classfile.AccessFlags
	switch m.Visibility {
	case ast.Public:
		flags |= classfile.AccPublic
	case ast.Protected:
		flags |= classfile.AccProtected
	case ast.Private:
		flags |= classfile.AccPrivate
	}
	if m.IsStatic {
		flags |= classfile.AccStatic
	}
	if m.IsFinal {
		flags |= classfile.AccFinal
	}
	return flags
}

// addConstructor generates the implicit no-argument constructor, with the
// access of a public class or package access otherwise.
func (s *session) addConstructor(class *ast.Class) error {
	superInit, err := s.cf.ConstantPool.AddMethodref(s.cf.SuperClass, "<init>", "()V")
	if err != nil {
		return err
	}
	code, err := classfile.EncodeCode([]classfile.Instruction{
		{Opcode: classfile.ALOAD_0},
		{Opcode: classfile.INVOKESPECIAL, Operand: superInit},
		{Opcode: classfile.RETURN},
	})
	if err != nil {
		return err
	}
	var flags classfile.AccessFlags
	if class.Visibility == ast.Public {
		flags = classfile.AccPublic
	}
	_, err = s.cf.AddMethod(flags, "<init>", "()V", &classfile.CodeAttribute{MaxStack: 1, MaxLocals: 1, Code: code})
	return err
}

func (s *session) addMethod(m *ast.Method) error {
	sym, ok := s.symbols.Lookup(m.Name)
	if !ok {
		return &UnknownMethodError{Class: s.className, Method: m.Name}
	}
	code, err := s.compileBody(m, sym)
	if err != nil {
		return err
	}
	_, err = s.cf.AddMethod(methodFlags(m), m.Name, sym.Descriptor(), code)
	return err
}

// compileBody allocates parameter slots in the method's root layer, emits
// the statements in a nested layer and wraps the result in a Code
// attribute.
func (s *session) compileBody(m *ast.Method, sym *MethodSymbol) (*classfile.CodeAttribute, error) {
	stack := NewStack()
	if !m.IsStatic {
		this, err := stack.Push("this", ObjectType(s.className))
		if err != nil {
			return nil, err
		}
		this.Final, this.Assigned = true, true
	}
	for i, p := range m.Parameters {
		v, err := stack.Push(p.Name, sym.Parameters[i])
		if err != nil {
			return nil, err
		}
		v.Assigned = true
	}
	if stack.MaxLocals() == 0 {
		stack.Reserve(1)
	}

	stack.NewLayer()
	e := newEmitter(s, sym, stack)
	for _, stmt := range m.Statements {
		if err := e.statement(stmt); err != nil {
			return nil, err
		}
	}
	if err := e.finish(m.Name); err != nil {
		return nil, err
	}
	stack.DropLayer()

	if e.maxDepth > int(s.opts.maxStack) {
		return nil, &StackDepthError{Method: m.Name, Need: e.maxDepth, Limit: int(s.opts.maxStack)}
	}
	code, err := classfile.EncodeCode(e.code)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("emitted %s%s: %d instructions, max_locals %d, stack depth %d",
		m.Name, sym.Descriptor(), len(e.code), stack.MaxLocals(), e.maxDepth)

	return &classfile.CodeAttribute{
		MaxStack:  s.opts.maxStack,
		MaxLocals: uint16(stack.MaxLocals()),
		Code:      code,
	}, nil
}
