// Package ast turns a token sequence into an immutable Class tree.
//
// Class and method headers are recognised by a table-driven state machine;
// method bodies are parsed by a backtracking statement and expression grammar
// running over a transactional token Cursor.
package ast

import (
	"fmt"
	"strings"
)

type Visibility int

const (
	Default Visibility = iota
	Public
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "default"
	}
}

type Class struct {
	Name       string
	Visibility Visibility
	IsStatic   bool
	IsFinal    bool
	Methods    []*Method
}

type Method struct {
	Name              string
	Visibility        Visibility
	IsStatic          bool
	IsFinal           bool
	ReturnType        string
	ReturnTypeIsArray bool
	Parameters        []Parameter
	Statements        []Statement
}

type Parameter struct {
	Name    string
	Type    string
	IsArray bool
}

func (m *Method) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.ReturnType)
	if m.ReturnTypeIsArray {
		sb.WriteString("[]")
	}
	sb.WriteString(" ")
	sb.WriteString(m.Name)
	sb.WriteString("(")
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type)
		if p.IsArray {
			sb.WriteString("[]")
		}
		sb.WriteString(" ")
		sb.WriteString(p.Name)
	}
	sb.WriteString(")")
	return sb.String()
}

// Expression is one of *Call, *StringLiteral, *Variable, *StaticIdentifier,
// *ObjectExpression or *Assignment. The set is closed.
type Expression interface {
	fmt.Stringer
	expressionNode()
}

type Call struct {
	MethodName string
	Arguments  []Expression
}

type StringLiteral struct {
	Value string
}

// Variable is a reference to a local. TypeDef is set only when the name was
// preceded by a bare type, i.e. when the variable is being declared.
type Variable struct {
	Name    string
	TypeDef string
}

type StaticIdentifier struct {
	Name string
}

// ObjectExpression is a chained access: Parent is evaluated first and Child
// is interpreted as a member of its result.
type ObjectExpression struct {
	Parent Expression
	Child  Expression
}

type Assignment struct {
	Name    string
	TypeDef string
	Value   Expression
}

func (*Call) expressionNode()             {}
func (*StringLiteral) expressionNode()    {}
func (*Variable) expressionNode()         {}
func (*StaticIdentifier) expressionNode() {}
func (*ObjectExpression) expressionNode() {}
func (*Assignment) expressionNode()       {}

func (c *Call) String() string {
	args := make([]string, len(c.Arguments))
	for i, arg := range c.Arguments {
		args[i] = arg.String()
	}
	return c.MethodName + "(" + strings.Join(args, ", ") + ")"
}

func (s *StringLiteral) String() string { return fmt.Sprintf("%q", s.Value) }

func (v *Variable) String() string {
	if v.TypeDef != "" {
		return v.TypeDef + " " + v.Name
	}
	return v.Name
}

func (s *StaticIdentifier) String() string { return s.Name }

func (o *ObjectExpression) String() string { return o.Parent.String() + "." + o.Child.String() }

func (a *Assignment) String() string {
	lhs := a.Name
	if a.TypeDef != "" {
		lhs = a.TypeDef + " " + a.Name
	}
	return lhs + " = " + a.Value.String()
}

// Statement is one of *ExpressionStatement, *VariableAssignment or *Return.
type Statement interface {
	fmt.Stringer
	statementNode()
}

type ExpressionStatement struct {
	Expression Expression
}

// VariableAssignment declares a typed local, optionally initialising it.
type VariableAssignment struct {
	Name    string
	Type    string
	IsFinal bool
	Value   Expression
}

type Return struct {
	Value Expression
}

func (*ExpressionStatement) statementNode() {}
func (*VariableAssignment) statementNode()  {}
func (*Return) statementNode()              {}

func (s *ExpressionStatement) String() string { return s.Expression.String() + ";" }

func (s *VariableAssignment) String() string {
	var sb strings.Builder
	if s.IsFinal {
		sb.WriteString("final ")
	}
	sb.WriteString(s.Type)
	sb.WriteString(" ")
	sb.WriteString(s.Name)
	if s.Value != nil {
		sb.WriteString(" = ")
		sb.WriteString(s.Value.String())
	}
	sb.WriteString(";")
	return sb.String()
}

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}
