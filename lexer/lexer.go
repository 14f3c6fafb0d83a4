// Package lexer turns HSD source text into a stream of tokens.
package lexer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/hsd-format/go-hsd/token"
)

// Error is a lexical error, such as an unterminated quoted string.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("hsd: lex error on line %d: %s", e.Line, e.Msg)
}

// Lexer holds the state for tokenizing HSD source.
type Lexer struct {
	r      *bufio.Reader
	buf    bytes.Buffer
	ch     rune
	line   int
	column int
}

// New creates and returns a new Lexer reading from r.
func New(r io.Reader) *Lexer {
	l := &Lexer{
		r:      bufio.NewReader(r),
		line:   1,
		column: 1,
	}
	l.readRune()
	return l
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	tok := token.Token{Line: l.line, Column: l.column}
	switch l.ch {
	case '{', '}', '=', ';':
		tok.Type = token.Type(l.ch)
		tok.Literal = string(l.ch)
	case '\n':
		tok.Type = token.NEWLINE
		tok.Literal = "\n"
	case '#':
		tok.Type = token.COMMENT
		tok.Literal = l.readComment()
		return tok
	case '"', '\'':
		lit, ok := l.readString()
		if !ok {
			tok.Type = token.ILLEGAL
		} else {
			tok.Type = token.STRING
		}
		tok.Literal = lit
		return tok
	case '[':
		lit, ok := l.readAttrib()
		if !ok {
			tok.Type = token.ILLEGAL
		} else {
			tok.Type = token.ATTRIB
		}
		tok.Literal = lit
		return tok
	case ']':
		tok.Type = token.ILLEGAL
		tok.Literal = "unexpected ']'"
	case -1: // io.EOF
		tok.Type = token.EOF
		tok.Literal = ""
		return tok
	default:
		if l.ch == utf8.RuneError {
			tok.Type = token.ILLEGAL
			tok.Literal = "invalid utf-8"
			break
		}
		tok.Type = token.IDENT
		tok.Literal = l.readWord()
		return tok
	}
	l.advance()
	return tok
}

func (l *Lexer) readRune() {
	r, _, err := l.r.ReadRune()
	if err != nil {
		l.ch = -1
		return
	}
	l.ch = r
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.readRune()
	l.column++
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.advance()
	}
}

func (l *Lexer) readComment() string {
	l.advance() // consume '#'
	l.buf.Reset()
	for l.ch != '\n' && l.ch != -1 {
		l.buf.WriteRune(l.ch)
		l.advance()
	}
	return strings.TrimSpace(l.buf.String())
}

// readWord reads a run of characters which are neither whitespace nor special.
// Scalar typing is not the lexer's business; numbers, booleans and bare
// strings all come out as IDENT.
func (l *Lexer) readWord() string {
	l.buf.Reset()
	for !isSpecial(l.ch) {
		l.buf.WriteRune(l.ch)
		l.advance()
	}
	return l.buf.String()
}

// readString reads a quoted string atomically. The literal keeps its quotes,
// so the original spelling survives into the data representation. A quoted
// string must close on the same line; reaching end-of-line or end-of-input is
// an error.
func (l *Lexer) readString() (string, bool) {
	quote := l.ch
	l.buf.Reset()
	l.buf.WriteRune(quote)
	l.advance()
	for {
		switch l.ch {
		case quote:
			l.buf.WriteRune(quote)
			l.advance()
			return l.buf.String(), true
		case '\n', -1:
			return "unterminated quoted string", false
		case utf8.RuneError:
			return "invalid utf-8 in quoted string", false
		}
		l.buf.WriteRune(l.ch)
		l.advance()
	}
}

// readAttrib captures the bracketed attribute payload verbatim. Quote
// characters inside the bracket protect an embedded ']'. The payload is
// trimmed of surrounding whitespace but not otherwise interpreted.
func (l *Lexer) readAttrib() (string, bool) {
	l.advance() // consume '['
	l.buf.Reset()
	var quote rune
	for {
		switch {
		case l.ch == -1 || (l.ch == '\n' && quote == 0):
			return "unterminated attribute", false
		case l.ch == utf8.RuneError:
			return "invalid utf-8 in attribute", false
		case quote != 0 && l.ch == quote:
			quote = 0
		case quote == 0 && (l.ch == '"' || l.ch == '\''):
			quote = l.ch
		case quote == 0 && l.ch == ']':
			l.advance()
			return strings.TrimSpace(l.buf.String()), true
		}
		l.buf.WriteRune(l.ch)
		l.advance()
	}
}

func isSpecial(ch rune) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '{', '}', '[', ']', '=', ';', '#', '"', '\'', -1:
		return true
	}
	return false
}
