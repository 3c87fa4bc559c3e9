package compiler

import "fmt"

// UnknownClassError reports a type or qualifier that is neither the class
// being compiled nor in the catalog.
type UnknownClassError struct {
	Name string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown class %s", e.Name)
}

// UnknownMethodError reports a call with no matching method. Arguments is the
// rendered argument type list, empty when the name itself is unknown.
type UnknownMethodError struct {
	Class     string
	Method    string
	Arguments string
}

func (e *UnknownMethodError) Error() string {
	if e.Arguments == "" {
		return fmt.Sprintf("unknown method %s.%s", e.Class, e.Method)
	}
	return fmt.Sprintf("no method %s.%s accepts (%s)", e.Class, e.Method, e.Arguments)
}

type UnknownFieldError struct {
	Class string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %s.%s", e.Class, e.Field)
}

// ResolutionError reports a name that is neither a local nor a known class.
type ResolutionError struct {
	Name string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s", e.Name)
}

type DuplicateMethodError struct {
	Class  string
	Method string
}

func (e *DuplicateMethodError) Error() string {
	return fmt.Sprintf("method %s already defined in class %s", e.Method, e.Class)
}

type DuplicateVariableError struct {
	Name string
}

func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("variable %s is already defined", e.Name)
}

type TooManyLocalsError struct {
	Name string
	Slot int
}

func (e *TooManyLocalsError) Error() string {
	return fmt.Sprintf("variable %s needs slot %d, beyond the 255 addressable locals", e.Name, e.Slot)
}

type UnassignedVariableError struct {
	Name string
}

func (e *UnassignedVariableError) Error() string {
	return fmt.Sprintf("variable %s might not have been initialized", e.Name)
}

type FinalVariableError struct {
	Name string
}

func (e *FinalVariableError) Error() string {
	return fmt.Sprintf("cannot assign a value to final variable %s", e.Name)
}

// TypeError reports a value whose type does not fit where it is used.
type TypeError struct {
	Context string
	Want    string
	Got     string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: incompatible types: %s cannot be converted to %s", e.Context, e.Got, e.Want)
}

type MissingReturnError struct {
	Method string
}

func (e *MissingReturnError) Error() string {
	return fmt.Sprintf("method %s: missing return statement", e.Method)
}

type UnreachableStatementError struct {
	Statement string
}

func (e *UnreachableStatementError) Error() string {
	return fmt.Sprintf("unreachable statement: %s", e.Statement)
}

// StackDepthError reports a method whose operand stack would exceed the
// configured max_stack.
type StackDepthError struct {
	Method string
	Need   int
	Limit  int
}

func (e *StackDepthError) Error() string {
	return fmt.Sprintf("method %s needs an operand stack of %d, max_stack is %d", e.Method, e.Need, e.Limit)
}

// UnsupportedError reports valid Java that this compiler does not handle.
type UnsupportedError struct {
	What string
}

func (e *UnsupportedError) Error() string {
	return "unsupported: " + e.What
}
