package ast

import "github.com/stuforbes/java-compiler/scanner"

type expressionShape int

const (
	shapeObjectChain expressionShape = iota
	shapeCall
	shapeIdentifier
	shapeStringLiteral
)

// expressionOrder is the priority in which alternatives are tried.
var expressionOrder = []expressionShape{
	shapeObjectChain,
	shapeCall,
	shapeIdentifier,
	shapeStringLiteral,
}

// chainParents are the shapes that may appear to the left of a '.'.
var chainParents = []expressionShape{
	shapeCall,
	shapeIdentifier,
}

// chainChildren are the shapes that may appear to the right of a '.'.
var chainChildren = []expressionShape{
	shapeObjectChain,
	shapeCall,
	shapeIdentifier,
}

// NextExpression parses one expression at the cursor. When nothing matches it
// returns false and leaves the cursor where it was.
func NextExpression(c *Cursor) (Expression, bool, error) {
	return firstOf(c, expressionOrder)
}

func firstOf(c *Cursor, shapes []expressionShape) (Expression, bool, error) {
	for _, shape := range shapes {
		expr, ok, err := Attempt(c, func() (Expression, bool, error) {
			return shape.parse(c)
		})
		if err != nil {
			return nil, false, err
		}
		if ok {
			return expr, true, nil
		}
	}
	return nil, false, nil
}

func (s expressionShape) parse(c *Cursor) (Expression, bool, error) {
	switch s {
	case shapeObjectChain:
		return parseObjectChain(c)
	case shapeCall:
		return parseCall(c)
	case shapeIdentifier:
		tok, ok := c.Accept(scanner.TokenIdent)
		if !ok {
			return nil, false, nil
		}
		return &StaticIdentifier{Name: tok.Lexeme}, true, nil
	case shapeStringLiteral:
		tok, ok := c.Accept(scanner.TokenString)
		if !ok {
			return nil, false, nil
		}
		return &StringLiteral{Value: tok.Literal}, true, nil
	}
	panic("ast: unknown expression shape")
}

func parseObjectChain(c *Cursor) (Expression, bool, error) {
	parent, ok, err := firstOf(c, chainParents)
	if err != nil || !ok {
		return nil, false, err
	}
	if _, ok := c.Accept(scanner.TokenDot); !ok {
		return nil, false, nil
	}
	child, ok, err := firstOf(c, chainChildren)
	if err != nil || !ok {
		return nil, false, err
	}
	return &ObjectExpression{Parent: parent, Child: child}, true, nil
}

func parseCall(c *Cursor) (Expression, bool, error) {
	name, ok := c.Accept(scanner.TokenIdent)
	if !ok {
		return nil, false, nil
	}
	if _, ok := c.Accept(scanner.TokenLParen); !ok {
		return nil, false, nil
	}

	call := &Call{MethodName: name.Lexeme}
	if _, ok := c.Accept(scanner.TokenRParen); ok {
		return call, true, nil
	}
	for {
		arg, ok, err := NextExpression(c)
		if err != nil || !ok {
			return nil, false, err
		}
		call.Arguments = append(call.Arguments, arg)

		if _, ok := c.Accept(scanner.TokenComma); ok {
			continue
		}
		if _, ok := c.Accept(scanner.TokenRParen); ok {
			return call, true, nil
		}
		return nil, false, nil
	}
}

// parseAssignment recognises "[type] name [= expression]". Without '=' the
// partially built *Variable is returned.
func parseAssignment(c *Cursor) (Expression, bool, error) {
	first, ok := c.Accept(scanner.TokenIdent)
	if !ok {
		return nil, false, nil
	}

	variable := &Variable{Name: first.Lexeme}
	if second, ok := c.Accept(scanner.TokenIdent); ok {
		variable = &Variable{Name: second.Lexeme, TypeDef: first.Lexeme}
	}

	if _, ok := c.Accept(scanner.TokenAssign); !ok {
		return variable, true, nil
	}

	value, ok, err := NextExpression(c)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, &SyntaxError{Token: c.Peek(), Reason: "expected expression after '='"}
	}
	return &Assignment{Name: variable.Name, TypeDef: variable.TypeDef, Value: value}, true, nil
}
