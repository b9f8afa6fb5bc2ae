package mini

import (
	"errors"
	"fmt"
)

// ErrSyntax is the base error for malformed mini source.
var ErrSyntax = errors.New("mini: syntax error")

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokKeyword
	tokPunct
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

// keywords reserved by the grammar.
var keywords = map[string]bool{
	"let":    true,
	"return": true,
}

// twoBytePuncts are the multi-byte operators, checked before single bytes.
var twoBytePuncts = map[string]bool{
	"||": true, "&&": true,
	"==": true, "!=": true, "<=": true, ">=": true,
}

type lexer struct {
	src []byte
	pos int
}

func (lx *lexer) next() (token, error) {
	lx.skipSpace()

	start := lx.pos

	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, start: start, end: start}, nil
	}

	c := lx.src[lx.pos]

	switch {
	case isIdentStart(c):
		return lx.lexIdent(start), nil
	case c >= '0' && c <= '9':
		return lx.lexNumber(start), nil
	case c == '"':
		return lx.lexString(start)
	default:
		return lx.lexPunct(start)
	}
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case ' ', '\t', '\n', '\r':
			lx.pos++
		default:
			return
		}
	}
}

func (lx *lexer) lexIdent(start int) token {
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}

	text := string(lx.src[start:lx.pos])
	kind := tokIdent

	if keywords[text] {
		kind = tokKeyword
	}

	return token{kind: kind, text: text, start: start, end: lx.pos}
}

func (lx *lexer) lexNumber(start int) token {
	for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '.') {
		lx.pos++
	}

	return token{kind: tokNumber, text: string(lx.src[start:lx.pos]), start: start, end: lx.pos}
}

// lexString scans a double-quoted literal; the token text keeps the quotes.
func (lx *lexer) lexString(start int) (token, error) {
	lx.pos++ // opening quote

	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
		case '"':
			lx.pos++

			return token{kind: tokString, text: string(lx.src[start:lx.pos]), start: start, end: lx.pos}, nil
		default:
			lx.pos++
		}
	}

	return token{}, fmt.Errorf("%w: unterminated string at offset %d", ErrSyntax, start)
}

func (lx *lexer) lexPunct(start int) (token, error) {
	if lx.pos+1 < len(lx.src) {
		two := string(lx.src[lx.pos : lx.pos+2])
		if twoBytePuncts[two] {
			lx.pos += 2

			return token{kind: tokPunct, text: two, start: start, end: lx.pos}, nil
		}
	}

	c := lx.src[lx.pos]
	switch c {
	case '+', '-', '*', '/', '%', '<', '>', '!', '?', ':', '(', ')', ',', ';', '=':
		lx.pos++

		return token{kind: tokPunct, text: string(c), start: start, end: lx.pos}, nil
	default:
		return token{}, fmt.Errorf("%w: unexpected byte %q at offset %d", ErrSyntax, c, start)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
