package ast

import (
	"fmt"

	"github.com/stuforbes/java-compiler/scanner"
)

// SyntaxError is a malformed statement or expression inside a method body.
type SyntaxError struct {
	Token  scanner.Token
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s (offset %d): %s", e.Token, e.Token.Start, e.Reason)
}

// TransitionError is raised when the structural state machine has no
// transition for the current state and token.
type TransitionError struct {
	State State
	Token scanner.Token
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("unexpected %s in state %s (offset %d)", e.Token, e.State, e.Token.Start)
}

// IncompleteError is raised when the token stream ends before a class
// declaration is complete.
type IncompleteError struct {
	What string
}

func (e *IncompleteError) Error() string {
	return "incomplete declaration: " + e.What
}
