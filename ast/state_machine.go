package ast

import (
	"fmt"

	"github.com/stuforbes/java-compiler/scanner"
)

type State int

const (
	StateInitial State = iota
	StateClassScope
	StateClassFinal
	StateClassDefinition
	StateClassName
	StateClassBody

	StateMethodQualifier
	StateMethodStatic
	StateMethodFinal
	StateMethodReturn
	StateMethodReturnArrayStart
	StateMethodReturnArrayEnd
	StateMethodName
	StateMethodParameters
	StateMethodParameterType
	StateMethodParameterArrayStart
	StateMethodParameterArrayEnd
	StateMethodParameterName
	StateMethodParametersEnd
	StateMethodBody

	StateClassEnd
	StateEOF
)

var stateNames = [...]string{
	StateInitial:                   "Initial",
	StateClassScope:                "ClassScope",
	StateClassFinal:                "ClassFinal",
	StateClassDefinition:           "ClassDefinition",
	StateClassName:                 "ClassName",
	StateClassBody:                 "ClassBody",
	StateMethodQualifier:           "MethodQualifier",
	StateMethodStatic:              "MethodStatic",
	StateMethodFinal:               "MethodFinal",
	StateMethodReturn:              "MethodReturn",
	StateMethodReturnArrayStart:    "MethodReturnArrayStart",
	StateMethodReturnArrayEnd:      "MethodReturnArrayEnd",
	StateMethodName:                "MethodName",
	StateMethodParameters:          "MethodParameters",
	StateMethodParameterType:       "MethodParameterType",
	StateMethodParameterArrayStart: "MethodParameterArrayStart",
	StateMethodParameterArrayEnd:   "MethodParameterArrayEnd",
	StateMethodParameterName:       "MethodParameterName",
	StateMethodParametersEnd:       "MethodParametersEnd",
	StateMethodBody:                "MethodBody",
	StateClassEnd:                  "ClassEnd",
	StateEOF:                       "EOF",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type OperationKind int

const (
	Ignore OperationKind = iota
	TransitionTo
)

type Operation struct {
	Kind OperationKind
	To   State
}

func to(s State) Operation { return Operation{Kind: TransitionTo, To: s} }

type transitionKey struct {
	state State
	kind  scanner.TokenKind
}

type StateMachine struct {
	current     State
	transitions map[transitionKey]Operation
}

func (m *StateMachine) Current() State {
	return m.current
}

// OnToken applies the transition for tok. It returns the new state and true
// when the machine moved, or false when the token is ignored.
func (m *StateMachine) OnToken(tok scanner.Token) (State, bool, error) {
	op, ok := m.transitions[transitionKey{m.current, tok.Kind}]
	if !ok {
		return m.current, false, &TransitionError{State: m.current, Token: tok}
	}
	switch op.Kind {
	case TransitionTo:
		m.current = op.To
		return op.To, true, nil
	default:
		return m.current, false, nil
	}
}

// NewClassStateMachine returns the machine recognising a single class
// declaration with method headers.
func NewClassStateMachine() *StateMachine {
	t := map[transitionKey]Operation{
		{StateInitial, scanner.TokenPublic}:    to(StateClassScope),
		{StateInitial, scanner.TokenFinal}:     to(StateClassFinal),
		{StateInitial, scanner.TokenClass}:     to(StateClassDefinition),
		{StateClassScope, scanner.TokenFinal}:  to(StateClassFinal),
		{StateClassScope, scanner.TokenClass}:  to(StateClassDefinition),
		{StateClassFinal, scanner.TokenClass}:  to(StateClassDefinition),
		{StateClassDefinition, scanner.TokenIdent}: to(StateClassName),
		{StateClassName, scanner.TokenLBrace}:  to(StateClassBody),

		{StateClassBody, scanner.TokenPublic}:    to(StateMethodQualifier),
		{StateClassBody, scanner.TokenProtected}: to(StateMethodQualifier),
		{StateClassBody, scanner.TokenPrivate}:   to(StateMethodQualifier),
		{StateClassBody, scanner.TokenStatic}:    to(StateMethodStatic),
		{StateClassBody, scanner.TokenFinal}:     to(StateMethodFinal),
		{StateClassBody, scanner.TokenIdent}:     to(StateMethodReturn),

		{StateMethodQualifier, scanner.TokenStatic}: to(StateMethodStatic),
		{StateMethodQualifier, scanner.TokenFinal}:  to(StateMethodFinal),
		{StateMethodQualifier, scanner.TokenIdent}:  to(StateMethodReturn),
		{StateMethodStatic, scanner.TokenFinal}:     to(StateMethodFinal),
		{StateMethodStatic, scanner.TokenIdent}:     to(StateMethodReturn),
		{StateMethodFinal, scanner.TokenStatic}:     to(StateMethodStatic),
		{StateMethodFinal, scanner.TokenIdent}:      to(StateMethodReturn),

		{StateMethodReturn, scanner.TokenIdent}:                to(StateMethodName),
		{StateMethodReturn, scanner.TokenLBracket}:             to(StateMethodReturnArrayStart),
		{StateMethodReturnArrayStart, scanner.TokenRBracket}:   to(StateMethodReturnArrayEnd),
		{StateMethodReturnArrayEnd, scanner.TokenIdent}:        to(StateMethodName),
		{StateMethodName, scanner.TokenLParen}:                 to(StateMethodParameters),
		{StateMethodParameters, scanner.TokenRParen}:           to(StateMethodParametersEnd),
		{StateMethodParameters, scanner.TokenIdent}:            to(StateMethodParameterType),
		{StateMethodParameterType, scanner.TokenIdent}:         to(StateMethodParameterName),
		{StateMethodParameterType, scanner.TokenLBracket}:      to(StateMethodParameterArrayStart),
		{StateMethodParameterArrayStart, scanner.TokenRBracket}: to(StateMethodParameterArrayEnd),
		{StateMethodParameterArrayEnd, scanner.TokenIdent}:     to(StateMethodParameterName),
		{StateMethodParameterName, scanner.TokenComma}:         to(StateMethodParameters),
		{StateMethodParameterName, scanner.TokenRParen}:        to(StateMethodParametersEnd),
		{StateMethodParametersEnd, scanner.TokenLBrace}:        to(StateMethodBody),
		{StateMethodBody, scanner.TokenRBrace}:                 to(StateClassBody),

		{StateClassBody, scanner.TokenRBrace}: to(StateClassEnd),
		{StateClassEnd, scanner.TokenEOF}:     to(StateEOF),
	}
	return &StateMachine{current: StateInitial, transitions: t}
}
