// Package hsd reads and writes documents in the Human-friendly Structured
// Data format, a block-structured notation used for program input such as
// DFTB+ control files.
//
// A document parses into an insertion-ordered mapping:
//
//	input, _ := os.Open("dftb_in.hsd")
//	doc, err := hsd.Load(input)
//
// and a mapping serializes back to text:
//
//	err = hsd.Dump(os.Stdout, doc)
//
// Parsing and serialization meet at an event stream, so custom consumers and
// producers can plug into either side through the EventHandler interface.
package hsd

import (
	"io"
	"strings"

	"github.com/hsd-format/go-hsd/dict"
	"github.com/hsd-format/go-hsd/formatter"
	"github.com/hsd-format/go-hsd/lexer"
	"github.com/hsd-format/go-hsd/parser"
)

// Dict is the mapping representation of a document.
type Dict = dict.Dict

// Meta is the provenance record of a node.
type Meta = parser.Meta

// EventHandler receives the structural events of a document.
type EventHandler = parser.EventHandler

// NewDict returns an empty mapping, for building documents by hand.
func NewDict() *Dict {
	return dict.New()
}

// Load parses a document into its mapping representation.
func Load(r io.Reader, opts ...Option) (*Dict, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	b := dict.NewBuilder(dict.BuilderConfig{
		FoldTagNames: cfg.foldTagNames,
		RecordMeta:   cfg.recordMeta,
		FlattenData:  cfg.flattenData,
	})
	p := parser.New(lexer.New(r), b)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return b.Dict(), nil
}

// LoadString parses a document held in a string.
func LoadString(s string, opts ...Option) (*Dict, error) {
	return Load(strings.NewReader(s), opts...)
}

// Dump serializes a mapping as document text.
func Dump(w io.Writer, d *Dict, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	f := formatter.New(w, formatter.Config{UseMeta: cfg.useMeta, Indent: cfg.indent})
	return dict.NewWalker(f).Walk(d)
}

// DumpString serializes a mapping and returns the document text.
func DumpString(d *Dict, opts ...Option) (string, error) {
	var sb strings.Builder
	if err := Dump(&sb, d, opts...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Reformat reads a document from r and writes it back to w in canonical
// layout, wiring the parser straight into the formatter without building a
// mapping. Comments are dropped; equal-sign forms are kept.
func Reformat(w io.Writer, r io.Reader, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	f := formatter.New(w, formatter.Config{UseMeta: true, Indent: cfg.indent})
	return parser.New(lexer.New(r), f).Parse()
}
