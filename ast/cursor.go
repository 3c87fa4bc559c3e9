package ast

import "github.com/stuforbes/java-compiler/scanner"

// Cursor walks a token sequence and supports nested checkpoints so that
// grammar alternatives can be tried and abandoned.
type Cursor struct {
	tokens      []scanner.Token
	position    int
	checkpoints []int
}

func NewCursor(tokens []scanner.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

func (c *Cursor) Position() int {
	return c.position
}

func (c *Cursor) HasMore() bool {
	return c.position < len(c.tokens)
}

// Peek returns the next token without consuming it. Past the end of the
// sequence it returns an EOF token.
func (c *Cursor) Peek() scanner.Token {
	if c.position >= len(c.tokens) {
		return c.eof()
	}
	return c.tokens[c.position]
}

func (c *Cursor) Next() scanner.Token {
	tok := c.Peek()
	if c.position < len(c.tokens) {
		c.position++
	}
	return tok
}

// Is reports whether the next token has the given kind.
func (c *Cursor) Is(kind scanner.TokenKind) bool {
	return c.HasMore() && c.Peek().Kind == kind
}

// Accept consumes the next token if it has the given kind.
func (c *Cursor) Accept(kind scanner.TokenKind) (scanner.Token, bool) {
	if !c.Is(kind) {
		return scanner.Token{}, false
	}
	return c.Next(), true
}

func (c *Cursor) eof() scanner.Token {
	end := 0
	if n := len(c.tokens); n > 0 {
		end = c.tokens[n-1].End
	}
	return scanner.Token{Kind: scanner.TokenEOF, Start: end, End: end}
}

// Depth is the number of open transactions.
func (c *Cursor) Depth() int {
	return len(c.checkpoints)
}

func (c *Cursor) Begin() {
	c.checkpoints = append(c.checkpoints, c.position)
}

func (c *Cursor) Commit() {
	c.pop("Commit")
}

func (c *Cursor) Rollback() {
	c.position = c.pop("Rollback")
}

func (c *Cursor) pop(op string) int {
	n := len(c.checkpoints)
	if n == 0 {
		panic("ast: " + op + " without matching Begin")
	}
	saved := c.checkpoints[n-1]
	c.checkpoints = c.checkpoints[:n-1]
	return saved
}

// Attempt runs fn inside a transaction. The transaction is committed when fn
// reports a match and rolled back when it does not, when it fails, or when
// it panics.
func Attempt[T any](c *Cursor, fn func() (T, bool, error)) (T, bool, error) {
	var zero T
	c.Begin()
	resolved := false
	defer func() {
		if !resolved {
			c.Rollback()
		}
	}()

	result, ok, err := fn()
	resolved = true
	if err != nil || !ok {
		c.Rollback()
		return zero, false, err
	}
	c.Commit()
	return result, true, nil
}
