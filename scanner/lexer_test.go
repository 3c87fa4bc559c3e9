package scanner

import (
	"errors"
	"testing"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScanKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"class", TokenClass},
		{"public", TokenPublic},
		{"private", TokenPrivate},
		{"protected", TokenProtected},
		{"static", TokenStatic},
		{"final", TokenFinal},
		{"return", TokenReturn},
		{"void", TokenIdent},
		{"int", TokenIdent},
		{"String", TokenIdent},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Scan([]byte(tt.input))
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if len(tokens) != 2 {
				t.Fatalf("len(tokens) = %d, want 2", len(tokens))
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, tt.kind)
			}
			if tokens[0].Lexeme != tt.input {
				t.Errorf("Lexeme = %q, want %q", tokens[0].Lexeme, tt.input)
			}
			if tokens[1].Kind != TokenEOF {
				t.Errorf("last token = %v, want EOF", tokens[1].Kind)
			}
		})
	}
}

func TestScanHelloWorld(t *testing.T) {
	src := `public class Simple {
    public static void main(String[] args) {
        System.out.println("Hello World");
    }
}`
	tokens, err := Scan([]byte(src))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []TokenKind{
		TokenPublic, TokenClass, TokenIdent, TokenLBrace,
		TokenPublic, TokenStatic, TokenIdent, TokenIdent, TokenLParen,
		TokenIdent, TokenLBracket, TokenRBracket, TokenIdent, TokenRParen, TokenLBrace,
		TokenIdent, TokenDot, TokenIdent, TokenDot, TokenIdent, TokenLParen, TokenString, TokenRParen, TokenSemicolon,
		TokenRBrace,
		TokenRBrace,
		TokenEOF,
	}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}

	str := tokens[21]
	if str.Literal != "Hello World" {
		t.Errorf("Literal = %q, want %q", str.Literal, "Hello World")
	}
	if str.Lexeme != `"Hello World"` {
		t.Errorf("Lexeme = %q", str.Lexeme)
	}
	if string(src[str.Start:str.End]) != str.Lexeme {
		t.Errorf("offsets %d..%d do not cover lexeme", str.Start, str.End)
	}
}

func TestScanStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"quote\"d"`, `quote"d`},
		{`"back\\slash"`, `back\slash`},
		{`"ABC"`, "ABC"},
		{`"héllo"`, "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Scan([]byte(tt.input))
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if tokens[0].Kind != TokenString {
				t.Fatalf("Kind = %v, want String", tokens[0].Kind)
			}
			if tokens[0].Literal != tt.want {
				t.Errorf("Literal = %q, want %q", tokens[0].Literal, tt.want)
			}
		})
	}
}

func TestScanSkipsComments(t *testing.T) {
	src := "// line\nclass /* block\n comment */ Foo"
	tokens, err := Scan([]byte(src))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	got := kinds(tokens)
	want := []TokenKind{TokenClass, TokenIdent, TokenEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if tokens[1].Lexeme != "Foo" {
		t.Errorf("Lexeme = %q, want Foo", tokens[1].Lexeme)
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", `"abc`},
		{"newline in string", "\"abc\n\""},
		{"unterminated comment", "/* never closed"},
		{"bad escape", `"\q"`},
		{"unexpected character", "a + b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			var scanErr *Error
			if !errors.As(err, &scanErr) {
				t.Fatalf("error %T is not *Error", err)
			}
		})
	}
}
