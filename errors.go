package hsd

import (
	"github.com/hsd-format/go-hsd/dict"
	"github.com/hsd-format/go-hsd/lexer"
	"github.com/hsd-format/go-hsd/parser"
)

// LexError reports malformed raw text, such as an unterminated quoted string.
// It carries the source line the problem was detected on.
type LexError = lexer.Error

// ParseError reports a structural problem in the token stream, such as an
// unbalanced brace or data outside of any node. It carries the source line.
type ParseError = parser.Error

// StructuralError reports an event stream that cannot be materialized as a
// mapping.
type StructuralError = dict.StructuralError
