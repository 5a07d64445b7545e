package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenKeyword
	TokenInt
	TokenString
	TokenSymbol
)

var tokenKindNames = [...]string{
	TokenEOF:     "end of input",
	TokenIdent:   "identifier",
	TokenKeyword: "keyword",
	TokenInt:     "integer",
	TokenString:  "string",
	TokenSymbol:  "symbol",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical unit. Keywords are upper-cased in Text; string
// literals hold their unescaped value.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int // byte offset into the input
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenString:
		return fmt.Sprintf("string '%s'", t.Text)
	default:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
}

var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AS": true,
	"ORDER": true, "BY": true, "ASC": true, "DESC": true, "LIMIT": true,
	"AND": true, "OR": true, "NOT": true,
	"TRUE": true, "FALSE": true, "NULL": true,
}

// Lex splits input into tokens, ending with a TokenEOF.
func Lex(input string) ([]Token, error) {
	l := &lexer{input: input}
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		switch {
		case unicode.IsSpace(r):
			l.pos += size
		case strings.HasPrefix(l.input[l.pos:], "--"):
			end := strings.IndexByte(l.input[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.input)
			} else {
				l.pos += end + 1
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (Token, error) {
	l.skipSpaceAndComments()
	start := l.pos
	if start >= len(l.input) {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	r := l.peekRune()
	switch {
	case isIdentStart(r):
		for l.pos < len(l.input) && isIdentPart(l.peekRune()) {
			l.pos += utf8.RuneLen(l.peekRune())
		}
		word := l.input[start:l.pos]
		if upper := strings.ToUpper(word); keywords[upper] {
			return Token{Kind: TokenKeyword, Text: upper, Pos: start}, nil
		}
		return Token{Kind: TokenIdent, Text: word, Pos: start}, nil

	case r >= '0' && r <= '9':
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
		if l.pos < len(l.input) && (l.input[l.pos] == '.' || l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
			return Token{}, errorAt(l.input, start, "fractional numbers are not supported")
		}
		if l.pos < len(l.input) && isIdentStart(l.peekRune()) {
			return Token{}, errorAt(l.input, start, "malformed number %q", l.input[start:l.pos+1])
		}
		return Token{Kind: TokenInt, Text: l.input[start:l.pos], Pos: start}, nil

	case r == '\'':
		return l.quoted(start, '\'', TokenString)

	case r == '"':
		return l.quoted(start, '"', TokenIdent)
	}

	for _, sym := range []string{"<=", ">=", "<>", "!=", "==", "=", "<", ">", "+", "-", "*", "/", "%", "(", ")", ",", ";"} {
		if strings.HasPrefix(l.input[l.pos:], sym) {
			l.pos += len(sym)
			return Token{Kind: TokenSymbol, Text: sym, Pos: start}, nil
		}
	}
	return Token{}, errorAt(l.input, start, "unexpected character %q", r)
}

// quoted reads a literal delimited by quote, where a doubled quote stands
// for one quote character.
func (l *lexer) quoted(start int, quote byte, kind TokenKind) (Token, error) {
	var b strings.Builder
	l.pos++
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == quote {
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == quote {
				b.WriteByte(quote)
				l.pos += 2
				continue
			}
			l.pos++
			if kind == TokenIdent && b.Len() == 0 {
				return Token{}, errorAt(l.input, start, "empty quoted identifier")
			}
			return Token{Kind: kind, Text: b.String(), Pos: start}, nil
		}
		b.WriteByte(c)
		l.pos++
	}
	if kind == TokenString {
		return Token{}, errorAt(l.input, start, "unterminated string")
	}
	return Token{}, errorAt(l.input, start, "unterminated quoted identifier")
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
