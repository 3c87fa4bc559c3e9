package scanner

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input []byte
	pos   int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input}
}

// Scan tokenizes src. The returned slice always ends with a single TokenEOF.
func Scan(src []byte) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) skipTrivia() error {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f':
			l.pos++
		case ch == '/' && l.peekN(1) == '/':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.pos++
			}
		case ch == '/' && l.peekN(1) == '*':
			start := l.pos
			end := strings.Index(string(l.input[l.pos+2:]), "*/")
			if end < 0 {
				return &Error{Offset: start, Msg: "unterminated comment"}
			}
			l.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}

	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Start: start, End: start}, nil
	}

	ch := l.peek()
	if ch == '"' {
		return l.scanString()
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])
	if isJavaLetter(r) {
		return l.scanIdentOrKeyword(), nil
	}

	if kind, ok := punctuation[ch]; ok {
		l.pos++
		return Token{Kind: kind, Lexeme: string(ch), Start: start, End: l.pos}, nil
	}

	return Token{}, &Error{Offset: start, Msg: "unexpected character " + strconv.QuoteRune(r)}
}

var punctuation = map[byte]TokenKind{
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	'.': TokenDot,
	',': TokenComma,
	';': TokenSemicolon,
	'=': TokenAssign,
}

func (l *Lexer) scanIdentOrKeyword() Token {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRune(l.input[l.pos:])
		if !isJavaLetterOrDigit(r) {
			break
		}
		l.pos += size
	}
	lexeme := string(l.input[start:l.pos])
	kind := TokenIdent
	if kw, ok := keywords[lexeme]; ok {
		kind = kw
	}
	return Token{Kind: kind, Lexeme: lexeme, Start: start, End: l.pos}
}

func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	l.pos++

	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return Token{}, &Error{Offset: start, Msg: "unterminated string literal"}
		}
		ch := l.peek()
		switch ch {
		case '"':
			l.pos++
			return Token{
				Kind:    TokenString,
				Lexeme:  string(l.input[start:l.pos]),
				Literal: sb.String(),
				Start:   start,
				End:     l.pos,
			}, nil
		case '\n':
			return Token{}, &Error{Offset: start, Msg: "unterminated string literal"}
		case '\\':
			r, err := l.scanEscape()
			if err != nil {
				return Token{}, err
			}
			sb.WriteRune(r)
		default:
			r, size := utf8.DecodeRune(l.input[l.pos:])
			sb.WriteRune(r)
			l.pos += size
		}
	}
}

func (l *Lexer) scanEscape() (rune, error) {
	start := l.pos
	l.pos++
	ch := l.peek()
	l.pos++
	switch ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 's':
		return ' ', nil
	case '0':
		return 0, nil
	case '"', '\'', '\\':
		return rune(ch), nil
	case 'u':
		for l.peek() == 'u' {
			l.pos++
		}
		if l.pos+4 > len(l.input) {
			return 0, &Error{Offset: start, Msg: "invalid unicode escape"}
		}
		v, err := strconv.ParseUint(string(l.input[l.pos:l.pos+4]), 16, 16)
		if err != nil {
			return 0, &Error{Offset: start, Msg: "invalid unicode escape"}
		}
		l.pos += 4
		return rune(v), nil
	}
	return 0, &Error{Offset: start, Msg: "invalid escape sequence"}
}

func isJavaLetter(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isJavaLetterOrDigit(r rune) bool {
	return isJavaLetter(r) || unicode.IsDigit(r)
}
