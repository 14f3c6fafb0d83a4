// Package parser contains the event-generating HSD parser.
//
// The parser consumes tokens and drives a stack of open nodes, emitting
// open/close/data events to an EventHandler. Consumers decide what to do
// with the events: dict.Builder materializes a mapping, formatter.Formatter
// re-emits text.
package parser

import (
	"fmt"

	"github.com/hsd-format/go-hsd/lexer"
	"github.com/hsd-format/go-hsd/token"
)

// Meta is the provenance record of a node: the source line it was opened on,
// whether it was opened with an equal sign, and (when a consumer folds tag
// names) the original spelling.
type Meta struct {
	Line  int
	Equal bool
	Name  string
}

// Valid reports whether the record stems from an actual source location.
// Nodes in hand-built mappings have no record; their zero Meta is invalid.
func (m Meta) Valid() bool { return m.Line > 0 }

// EventHandler receives the structural events triggered during parsing.
// The parser guarantees balanced OpenTag/CloseTag calls and at most one
// AddData call per open node. If a method reports an error, parsing stops
// and that error is returned to the caller.
type EventHandler interface {
	// OpenTag is called when a node is opened. attrib is nil when the node
	// carries no attribute bracket.
	OpenTag(name string, attrib *string, meta Meta) error

	// CloseTag is called when the most recently opened node is closed.
	CloseTag(name string) error

	// AddData is called with the leaf content of the current node, one row
	// per source line, one raw text field per scalar. Quoted fields keep
	// their quotes.
	AddData(rows [][]string) error
}

// Error is a parse error with the originating source line.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("hsd: parse error on line %d: %s", e.Line, e.Msg)
}

// Parser turns a token stream into HSD events.
type Parser struct {
	l *lexer.Lexer
	h EventHandler

	curToken  token.Token
	peekToken token.Token
}

// New creates a new parser reading tokens from l and delivering events to h.
func New(l *lexer.Lexer, h EventHandler) *Parser {
	p := &Parser{l: l, h: h}

	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()

	return p
}

// Parse processes the whole input. It performs a single forward pass and
// returns on the first error; there is no recovery or resynchronization.
func (p *Parser) Parse() error {
	return p.parseBlock(true, 0)
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	for p.curToken.Type == token.COMMENT {
		p.curToken = p.peekToken
		p.peekToken = p.l.NextToken()
	}
}

func (p *Parser) errorf(line int, format string, args ...any) error {
	return &Error{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) lexError() error {
	return &lexer.Error{Line: p.curToken.Line, Msg: p.curToken.Literal}
}

// parseBlock processes the children or the data rows of one block: the whole
// document when top is true, the region between braces otherwise. A block
// holds either child nodes or data rows, never both.
func (p *Parser) parseBlock(top bool, openLine int) error {
	var rows [][]string
	hasChildren := false

	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		return p.h.AddData(rows)
	}

	for {
		switch p.curToken.Type {
		case token.NEWLINE:
			p.nextToken()

		case token.EOF:
			if !top {
				return p.errorf(openLine, "unclosed block (missing '}')")
			}
			return flush()

		case token.RBRACE:
			if top {
				return p.errorf(p.curToken.Line, "unmatched '}'")
			}
			p.nextToken()
			return flush()

		case token.IDENT:
			name := p.curToken
			p.nextToken()

			var attrib *string
			if p.curToken.Type == token.ATTRIB {
				a := p.curToken.Literal
				attrib = &a
				p.nextToken()
			}

			switch {
			case p.curToken.Type == token.ILLEGAL:
				return p.lexError()

			case p.curToken.Type == token.LBRACE || p.curToken.Type == token.EQUAL:
				if len(rows) > 0 {
					return p.errorf(name.Line, "node %q opened inside a block holding data", name.Literal)
				}
				hasChildren = true
				if err := p.parseTag(name, attrib); err != nil {
					return err
				}

			case attrib != nil:
				// A bracketed attribute commits the word to being a tag.
				// End-of-line after it denotes an empty node.
				if p.curToken.Type != token.NEWLINE && p.curToken.Type != token.EOF && p.curToken.Type != token.RBRACE {
					return p.errorf(name.Line, "expected '{', '=' or end of line after attribute of %q", name.Literal)
				}
				if len(rows) > 0 {
					return p.errorf(name.Line, "node %q opened inside a block holding data", name.Literal)
				}
				hasChildren = true
				if err := p.emitEmpty(name, attrib); err != nil {
					return err
				}

			default:
				// A bare word begins a data row.
				if top {
					return p.errorf(name.Line, "orphan data %q outside of any node", name.Literal)
				}
				if hasChildren {
					return p.errorf(name.Line, "data inside a block holding child nodes")
				}
				row, err := p.collectRow(name.Literal)
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}

		case token.STRING:
			if top {
				return p.errorf(p.curToken.Line, "orphan data outside of any node")
			}
			if hasChildren {
				return p.errorf(p.curToken.Line, "data inside a block holding child nodes")
			}
			lit := p.curToken.Literal
			p.nextToken()
			row, err := p.collectRow(lit)
			if err != nil {
				return err
			}
			rows = append(rows, row)

		case token.ATTRIB:
			return p.errorf(p.curToken.Line, "attribute without a tag name")

		case token.EQUAL:
			return p.errorf(p.curToken.Line, "missing tag name before '='")

		case token.LBRACE:
			return p.errorf(p.curToken.Line, "missing tag name before '{'")

		case token.SEMICOLON:
			return p.errorf(p.curToken.Line, "unexpected ';'")

		case token.ILLEGAL:
			return p.lexError()

		default:
			return p.errorf(p.curToken.Line, "unexpected token %q", p.curToken.Literal)
		}
	}
}

// parseTag handles a node whose name (and optional attribute) have been
// consumed; curToken is '{' or '='.
func (p *Parser) parseTag(name token.Token, attrib *string) error {
	if p.curToken.Type == token.LBRACE {
		if err := p.h.OpenTag(name.Literal, attrib, Meta{Line: name.Line}); err != nil {
			return err
		}
		p.nextToken()
		if err := p.parseBlock(false, name.Line); err != nil {
			return err
		}
		return p.h.CloseTag(name.Literal)
	}

	// Equal sign: resolve what follows with one token of lookahead.
	p.nextToken()
	switch p.curToken.Type {
	case token.LBRACE:
		// name = { ... }: a raw data block.
		if err := p.h.OpenTag(name.Literal, attrib, Meta{Line: name.Line, Equal: true}); err != nil {
			return err
		}
		rows, err := p.rawBlock(name.Line)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := p.h.AddData(rows); err != nil {
				return err
			}
		}
		return p.h.CloseTag(name.Literal)

	case token.IDENT:
		child := p.curToken
		p.nextToken()

		var childAttrib *string
		isTag := p.curToken.Type == token.LBRACE || p.curToken.Type == token.EQUAL
		if p.curToken.Type == token.ATTRIB &&
			(p.peekToken.Type == token.LBRACE || p.peekToken.Type == token.EQUAL) {
			a := p.curToken.Literal
			childAttrib = &a
			p.nextToken()
			isTag = true
		}

		if isTag {
			// name = child ...: the single-child shortcut. The outer node
			// holds exactly one child, which follows the ordinary rules.
			if err := p.h.OpenTag(name.Literal, attrib, Meta{Line: name.Line, Equal: true}); err != nil {
				return err
			}
			if err := p.parseTag(child, childAttrib); err != nil {
				return err
			}
			return p.h.CloseTag(name.Literal)
		}

		// Otherwise the rest of the line is a single data row.
		row, err := p.collectRow(child.Literal)
		if err != nil {
			return err
		}
		return p.emitData(name, attrib, row)

	case token.STRING:
		lit := p.curToken.Literal
		p.nextToken()
		row, err := p.collectRow(lit)
		if err != nil {
			return err
		}
		return p.emitData(name, attrib, row)

	case token.NEWLINE, token.SEMICOLON, token.EOF, token.RBRACE:
		// Empty right-hand side: an empty node.
		if p.curToken.Type == token.NEWLINE || p.curToken.Type == token.SEMICOLON {
			p.nextToken()
		}
		return p.emitData(name, attrib, nil)

	case token.ILLEGAL:
		return p.lexError()

	default:
		return p.errorf(p.curToken.Line, "unexpected %q after '='", p.curToken.Literal)
	}
}

func (p *Parser) emitData(name token.Token, attrib *string, row []string) error {
	if err := p.h.OpenTag(name.Literal, attrib, Meta{Line: name.Line, Equal: true}); err != nil {
		return err
	}
	if len(row) > 0 {
		if err := p.h.AddData([][]string{row}); err != nil {
			return err
		}
	}
	return p.h.CloseTag(name.Literal)
}

func (p *Parser) emitEmpty(name token.Token, attrib *string) error {
	if err := p.h.OpenTag(name.Literal, attrib, Meta{Line: name.Line}); err != nil {
		return err
	}
	return p.h.CloseTag(name.Literal)
}

// collectRow gathers the remainder of a data row. The terminating newline or
// semicolon is consumed; a closing brace or end-of-input is left for the
// caller.
func (p *Parser) collectRow(first string) ([]string, error) {
	row := []string{first}
	for {
		switch p.curToken.Type {
		case token.IDENT, token.STRING:
			row = append(row, p.curToken.Literal)
			p.nextToken()
		case token.NEWLINE, token.SEMICOLON:
			p.nextToken()
			return row, nil
		case token.RBRACE, token.EOF:
			return row, nil
		case token.EQUAL:
			return nil, p.errorf(p.curToken.Line, "unexpected '=' inside data")
		case token.LBRACE:
			return nil, p.errorf(p.curToken.Line, "unexpected '{' inside data")
		case token.ATTRIB:
			return nil, p.errorf(p.curToken.Line, "unexpected attribute inside data")
		case token.ILLEGAL:
			return nil, p.lexError()
		default:
			return nil, p.errorf(p.curToken.Line, "unexpected token %q inside data", p.curToken.Literal)
		}
	}
}

// rawBlock consumes a brace-delimited region after an equal sign. Everything
// inside is data: rows split on line boundaries, nested braces counted but
// kept as text. curToken is the opening brace on entry.
func (p *Parser) rawBlock(openLine int) ([][]string, error) {
	p.nextToken()
	depth := 1
	var rows [][]string
	var row []string

	flushRow := func() {
		if len(row) > 0 {
			rows = append(rows, row)
			row = nil
		}
	}

	for {
		switch p.curToken.Type {
		case token.LBRACE:
			depth++
			row = append(row, "{")
		case token.RBRACE:
			depth--
			if depth == 0 {
				p.nextToken()
				flushRow()
				return rows, nil
			}
			row = append(row, "}")
		case token.NEWLINE:
			flushRow()
		case token.IDENT, token.STRING:
			row = append(row, p.curToken.Literal)
		case token.EQUAL:
			row = append(row, "=")
		case token.SEMICOLON:
			row = append(row, ";")
		case token.ATTRIB:
			row = append(row, "["+p.curToken.Literal+"]")
		case token.EOF:
			return nil, p.errorf(openLine, "unclosed data block (missing '}')")
		case token.ILLEGAL:
			return nil, p.lexError()
		}
		p.nextToken()
	}
}
