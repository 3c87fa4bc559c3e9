package scanner

import "fmt"

type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdent
	TokenString

	// Keywords
	TokenClass
	TokenPublic
	TokenPrivate
	TokenProtected
	TokenStatic
	TokenFinal
	TokenReturn

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenDot
	TokenComma
	TokenSemicolon
	TokenAssign
)

var tokenNames = map[TokenKind]string{
	TokenEOF:       "EOF",
	TokenIdent:     "Identifier",
	TokenString:    "String",
	TokenClass:     "class",
	TokenPublic:    "public",
	TokenPrivate:   "private",
	TokenProtected: "protected",
	TokenStatic:    "static",
	TokenFinal:     "final",
	TokenReturn:    "return",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenDot:       ".",
	TokenComma:     ",",
	TokenSemicolon: ";",
	TokenAssign:    "=",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

var keywords = map[string]TokenKind{
	"class":     TokenClass,
	"public":    TokenPublic,
	"private":   TokenPrivate,
	"protected": TokenProtected,
	"static":    TokenStatic,
	"final":     TokenFinal,
	"return":    TokenReturn,
}

// Token is a single lexeme. Start and End are byte offsets into the source,
// End exclusive. Literal carries the decoded value of string literals.
type Token struct {
	Kind    TokenKind
	Lexeme  string
	Literal string
	Start   int
	End     int
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return fmt.Sprintf("Identifier(%s)", t.Lexeme)
	case TokenString:
		return fmt.Sprintf("String(%q)", t.Literal)
	default:
		return fmt.Sprintf("%q", t.Kind.String())
	}
}

// Error reports a lexical error at a byte offset.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}
