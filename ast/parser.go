package ast

import (
	"github.com/tliron/commonlog"

	"github.com/stuforbes/java-compiler/scanner"
)

var log = commonlog.GetLogger("jcc.ast")

// Parse builds the Class declared by tokens. The first structural or syntax
// error aborts parsing.
func Parse(tokens []scanner.Token) (*Class, error) {
	c := NewCursor(tokens)
	machine := NewClassStateMachine()
	builder := &classBuilder{}

	for c.HasMore() {
		tok := c.Next()
		previous := machine.Current()
		state, moved, err := machine.OnToken(tok)
		if err != nil {
			return nil, err
		}
		if !moved {
			continue
		}
		if err := apply(builder, previous, state, tok, c); err != nil {
			return nil, err
		}
	}

	if machine.Current() != StateEOF {
		return nil, &IncompleteError{What: "input ended in state " + machine.Current().String()}
	}
	return builder.build()
}

// ParseSource scans and parses src.
func ParseSource(src []byte) (*Class, error) {
	tokens, err := scanner.Scan(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func apply(b *classBuilder, previous, state State, tok scanner.Token, c *Cursor) error {
	switch state {
	case StateClassScope:
		b.class.Visibility = visibilityFor(tok.Kind)
	case StateClassFinal:
		b.class.IsFinal = true
	case StateClassName:
		b.class.Name = tok.Lexeme
	case StateMethodQualifier:
		b.newMethod(visibilityFor(tok.Kind))
	case StateMethodStatic:
		if previous == StateClassBody {
			b.newMethod(Default)
		}
		b.latestMethod().method.IsStatic = true
	case StateMethodFinal:
		if previous == StateClassBody {
			b.newMethod(Default)
		}
		b.latestMethod().method.IsFinal = true
	case StateMethodReturn:
		if previous == StateClassBody {
			b.newMethod(Default)
		}
		b.latestMethod().method.ReturnType = tok.Lexeme
	case StateMethodReturnArrayEnd:
		b.latestMethod().method.ReturnTypeIsArray = true
	case StateMethodName:
		b.latestMethod().method.Name = tok.Lexeme
	case StateMethodParameterType:
		b.latestMethod().newParameter(tok.Lexeme)
	case StateMethodParameterArrayEnd:
		b.latestMethod().latestParameter().IsArray = true
	case StateMethodParameterName:
		b.latestMethod().latestParameter().Name = tok.Lexeme
	case StateMethodBody:
		statements, err := ParseStatements(c)
		if err != nil {
			return err
		}
		m := b.latestMethod()
		m.method.Statements = statements
		log.Debugf("parsed %s with %d statements", m.method.Name, len(statements))
	}
	return nil
}

func visibilityFor(kind scanner.TokenKind) Visibility {
	switch kind {
	case scanner.TokenPublic:
		return Public
	case scanner.TokenProtected:
		return Protected
	case scanner.TokenPrivate:
		return Private
	default:
		return Default
	}
}
