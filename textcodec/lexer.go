// Package textcodec implements the PTXT textual surface: a printer that
// renders a Document as indented, type-annotated text, and a recursive
// descent parser that reads it back. The grammar has no analogue in the
// original reference sources (its parser was never finished there), so the
// lexer and parser here are built directly from the textual grammar
// description rather than ported from anything.
package textcodec

import (
	"strings"

	"github.com/RitoShark/ritobin-go/bperr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokHex
	tokColon
	tokEquals
	tokComma
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src []rune
	i   int
}

func newLexer(s string) *lexer {
	return &lexer{src: []rune(s)}
}

func (l *lexer) peekByte() (rune, bool) {
	if l.i >= len(l.src) {
		return 0, false
	}
	return l.src[l.i], true
}

func (l *lexer) skipTrivia() {
	for {
		c, ok := l.peekByte()
		if !ok {
			return
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.i++
			continue
		}
		if c == '#' {
			for {
				c, ok := l.peekByte()
				if !ok || c == '\n' {
					break
				}
				l.i++
			}
			continue
		}
		return
	}
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func (l *lexer) next() (token, error) {
	l.skipTrivia()
	pos := l.i
	c, ok := l.peekByte()
	if !ok {
		return token{kind: tokEOF, pos: pos}, nil
	}

	switch c {
	case ':':
		l.i++
		return token{kind: tokColon, pos: pos}, nil
	case '=':
		l.i++
		return token{kind: tokEquals, pos: pos}, nil
	case ',':
		l.i++
		return token{kind: tokComma, pos: pos}, nil
	case '{':
		l.i++
		return token{kind: tokLBrace, pos: pos}, nil
	case '}':
		l.i++
		return token{kind: tokRBrace, pos: pos}, nil
	case '[':
		l.i++
		return token{kind: tokLBracket, pos: pos}, nil
	case ']':
		l.i++
		return token{kind: tokRBracket, pos: pos}, nil
	case '"', '\'':
		return l.lexString(c, pos)
	}

	if c == '0' && l.i+1 < len(l.src) && (l.src[l.i+1] == 'x' || l.src[l.i+1] == 'X') {
		return l.lexHex(pos)
	}
	if isDigit(c) || c == '-' || c == '+' {
		return l.lexNumber(pos)
	}
	if isIdentStart(c) {
		return l.lexIdent(pos)
	}
	return token{}, bperr.NewParseError(pos, "unexpected character")
}

func (l *lexer) lexIdent(pos int) (token, error) {
	start := l.i
	for {
		c, ok := l.peekByte()
		if !ok || !isIdentCont(c) {
			break
		}
		l.i++
	}
	return token{kind: tokIdent, text: string(l.src[start:l.i]), pos: pos}, nil
}

func (l *lexer) lexHex(pos int) (token, error) {
	start := l.i
	l.i += 2 // consume 0x
	for {
		c, ok := l.peekByte()
		if !ok || !isHexDigit(c) {
			break
		}
		l.i++
	}
	return token{kind: tokHex, text: string(l.src[start:l.i]), pos: pos}, nil
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *lexer) lexNumber(pos int) (token, error) {
	start := l.i
	if c, ok := l.peekByte(); ok && (c == '-' || c == '+') {
		l.i++
	}
	for {
		c, ok := l.peekByte()
		if !ok {
			break
		}
		if isDigit(c) {
			l.i++
			continue
		}
		if c == '.' {
			l.i++
			continue
		}
		if c == 'e' || c == 'E' {
			l.i++
			if c2, ok := l.peekByte(); ok && (c2 == '-' || c2 == '+') {
				l.i++
			}
			continue
		}
		if c == 'f' || c == 'F' {
			l.i++
			break
		}
		break
	}
	return token{kind: tokNumber, text: string(l.src[start:l.i]), pos: pos}, nil
}

func (l *lexer) lexString(quote rune, pos int) (token, error) {
	l.i++ // consume opening quote
	var sb strings.Builder
	for {
		c, ok := l.peekByte()
		if !ok {
			return token{}, bperr.NewParseError(pos, "unterminated string literal")
		}
		if c == quote {
			l.i++
			break
		}
		if c == '\\' {
			l.i++
			esc, ok := l.peekByte()
			if !ok {
				return token{}, bperr.NewParseError(pos, "unterminated escape sequence")
			}
			l.i++
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case 't':
				sb.WriteRune('\t')
			case '\\':
				sb.WriteRune('\\')
			case '"':
				sb.WriteRune('"')
			case '\'':
				sb.WriteRune('\'')
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(c)
		l.i++
	}
	return token{kind: tokString, text: sb.String(), pos: pos}, nil
}
