package ast

import "github.com/stuforbes/java-compiler/scanner"

type statementShape func(c *Cursor) (Statement, bool, error)

var statementOrder = []statementShape{
	parseReturnStatement,
	parseAssignmentStatement,
	parseExpressionStatement,
}

// ParseStatements reads statements up to, but not including, the '}' that
// closes the method body.
func ParseStatements(c *Cursor) ([]Statement, error) {
	var statements []Statement
	for {
		if c.Is(scanner.TokenRBrace) {
			return statements, nil
		}
		if !c.HasMore() || c.Is(scanner.TokenEOF) {
			return nil, &SyntaxError{Token: c.Peek(), Reason: "unexpected end of input in method body"}
		}

		stmt, ok, err := NextStatement(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &SyntaxError{Token: c.Peek(), Reason: "unrecognised statement"}
		}
		statements = append(statements, stmt)
	}
}

// NextStatement parses one statement at the cursor, trying each statement
// shape in turn.
func NextStatement(c *Cursor) (Statement, bool, error) {
	for _, shape := range statementOrder {
		stmt, ok, err := Attempt(c, func() (Statement, bool, error) {
			return shape(c)
		})
		if err != nil {
			return nil, false, err
		}
		if ok {
			return stmt, true, nil
		}
	}
	return nil, false, nil
}

func expectSemicolon(c *Cursor) error {
	if _, ok := c.Accept(scanner.TokenSemicolon); !ok {
		return &SyntaxError{Token: c.Peek(), Reason: "expected ';'"}
	}
	return nil
}

func parseReturnStatement(c *Cursor) (Statement, bool, error) {
	if _, ok := c.Accept(scanner.TokenReturn); !ok {
		return nil, false, nil
	}
	if _, ok := c.Accept(scanner.TokenSemicolon); ok {
		return &Return{}, true, nil
	}
	value, ok, err := NextExpression(c)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, &SyntaxError{Token: c.Peek(), Reason: "expected expression or ';' after return"}
	}
	if err := expectSemicolon(c); err != nil {
		return nil, false, err
	}
	return &Return{Value: value}, true, nil
}

func parseAssignmentStatement(c *Cursor) (Statement, bool, error) {
	_, isFinal := c.Accept(scanner.TokenFinal)

	expr, ok, err := parseAssignment(c)
	if err != nil || !ok {
		return nil, false, err
	}

	var stmt Statement
	switch e := expr.(type) {
	case *Assignment:
		if e.TypeDef == "" {
			if isFinal {
				return nil, false, &SyntaxError{Token: c.Peek(), Reason: "final requires a type"}
			}
			stmt = &ExpressionStatement{Expression: e}
		} else {
			stmt = &VariableAssignment{Name: e.Name, Type: e.TypeDef, IsFinal: isFinal, Value: e.Value}
		}
	case *Variable:
		if e.TypeDef == "" {
			// A bare reference is not an assignment; let the expression
			// statement shape have it.
			return nil, false, nil
		}
		stmt = &VariableAssignment{Name: e.Name, Type: e.TypeDef, IsFinal: isFinal}
	default:
		return nil, false, nil
	}

	if err := expectSemicolon(c); err != nil {
		return nil, false, err
	}
	return stmt, true, nil
}

func parseExpressionStatement(c *Cursor) (Statement, bool, error) {
	expr, ok, err := NextExpression(c)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := expectSemicolon(c); err != nil {
		return nil, false, err
	}
	return &ExpressionStatement{Expression: expr}, true, nil
}
