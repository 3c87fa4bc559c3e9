package ast

import (
	"errors"
	"testing"

	"github.com/stuforbes/java-compiler/scanner"
)

func mustScan(t *testing.T, src string) []scanner.Token {
	t.Helper()
	tokens, err := scanner.Scan([]byte(src))
	if err != nil {
		t.Fatalf("Scan(%q) error = %v", src, err)
	}
	return tokens
}

func TestCursorNextAndPeek(t *testing.T) {
	c := NewCursor(mustScan(t, "a . b"))

	if got := c.Peek().Lexeme; got != "a" {
		t.Errorf("Peek() = %q, want a", got)
	}
	if got := c.Next().Lexeme; got != "a" {
		t.Errorf("Next() = %q, want a", got)
	}
	if got := c.Position(); got != 1 {
		t.Errorf("Position() = %d, want 1", got)
	}
	c.Next()
	c.Next()
	if !c.Is(scanner.TokenEOF) {
		t.Errorf("expected EOF, got %v", c.Peek())
	}
	c.Next()
	if c.HasMore() {
		t.Error("HasMore() = true after consuming EOF")
	}
	if c.Next().Kind != scanner.TokenEOF {
		t.Error("Next() past the end should keep returning EOF")
	}
}

func TestCursorNestedTransactions(t *testing.T) {
	c := NewCursor(mustScan(t, "a b c d"))

	c.Begin()
	c.Next()
	c.Begin()
	c.Next()
	c.Next()
	c.Rollback()
	if got := c.Position(); got != 1 {
		t.Errorf("after inner rollback Position() = %d, want 1", got)
	}
	c.Next()
	c.Commit()
	if got := c.Position(); got != 2 {
		t.Errorf("after commit Position() = %d, want 2", got)
	}
	if c.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", c.Depth())
	}
}

func TestCursorUnbalancedTransactionPanics(t *testing.T) {
	for _, op := range []string{"Commit", "Rollback"} {
		t.Run(op, func(t *testing.T) {
			c := NewCursor(mustScan(t, "a"))
			defer func() {
				if recover() == nil {
					t.Errorf("%s without Begin did not panic", op)
				}
			}()
			if op == "Commit" {
				c.Commit()
			} else {
				c.Rollback()
			}
		})
	}
}

func TestAttemptRestoresPosition(t *testing.T) {
	c := NewCursor(mustScan(t, "a b c"))
	c.Next()

	t.Run("no match", func(t *testing.T) {
		_, ok, err := Attempt(c, func() (int, bool, error) {
			c.Next()
			c.Next()
			return 0, false, nil
		})
		if ok || err != nil {
			t.Fatalf("Attempt() = %v, %v", ok, err)
		}
		if c.Position() != 1 || c.Depth() != 0 {
			t.Errorf("Position() = %d Depth() = %d, want 1 and 0", c.Position(), c.Depth())
		}
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		_, _, err := Attempt(c, func() (int, bool, error) {
			c.Next()
			return 0, false, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
		if c.Position() != 1 || c.Depth() != 0 {
			t.Errorf("Position() = %d Depth() = %d, want 1 and 0", c.Position(), c.Depth())
		}
	})

	t.Run("panic", func(t *testing.T) {
		func() {
			defer func() { recover() }()
			Attempt(c, func() (int, bool, error) {
				c.Next()
				panic("bug")
			})
		}()
		if c.Position() != 1 || c.Depth() != 0 {
			t.Errorf("Position() = %d Depth() = %d, want 1 and 0", c.Position(), c.Depth())
		}
	})

	t.Run("match", func(t *testing.T) {
		v, ok, err := Attempt(c, func() (int, bool, error) {
			c.Next()
			return 7, true, nil
		})
		if !ok || err != nil || v != 7 {
			t.Fatalf("Attempt() = %d, %v, %v", v, ok, err)
		}
		if c.Position() != 2 || c.Depth() != 0 {
			t.Errorf("Position() = %d Depth() = %d, want 2 and 0", c.Position(), c.Depth())
		}
	})
}
