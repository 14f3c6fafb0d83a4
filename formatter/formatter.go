// Package formatter contains the event-driven HSD text emitter. It consumes
// the same event stream the parser produces, so it can serialize a mapping
// through dict.Walker or reformat a document straight from the parser.
package formatter

import (
	"io"
	"strings"

	"github.com/hsd-format/go-hsd/parser"
)

// Config controls the emitted layout.
type Config struct {
	// UseMeta makes the formatter honor provenance records: nodes opened with
	// an equal sign are written back with one, and folded tag names are
	// written in their original spelling. Without it the layout is chosen by
	// a fixed heuristic alternating equal signs and braces.
	UseMeta bool

	// Indent is the number of spaces per nesting level.
	Indent int
}

// Formatter writes HSD text from the event stream. Its output parses back to
// an equivalent document.
type Formatter struct {
	w   io.Writer
	cfg Config

	level       int
	indentLevel int

	// followedByEqual tracks for every open node whether its name was
	// followed by an equal sign: nil while undecided, decided either by the
	// node's meta record or when its content is written.
	followedByEqual []*bool

	// nrChildren counts the children written so far at every open level,
	// starting with the document root.
	nrChildren []int
}

// New returns a Formatter writing to w.
func New(w io.Writer, cfg Config) *Formatter {
	if cfg.Indent < 0 {
		cfg.Indent = 0
	}
	return &Formatter{w: w, cfg: cfg, nrChildren: []int{0}}
}

func (f *Formatter) write(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *Formatter) indent(level int) string {
	return strings.Repeat(" ", level*f.cfg.Indent)
}

func (f *Formatter) OpenTag(name string, attrib *string, meta parser.Meta) error {
	indentStr := f.indent(f.indentLevel)
	if f.level > 0 && f.nrChildren[len(f.nrChildren)-1] == 0 {
		// First child of the enclosing node: decide its layout now.
		if eq := f.followedByEqual[len(f.followedByEqual)-1]; eq != nil && *eq {
			if err := f.write(" = "); err != nil {
				return err
			}
			indentStr = ""
		} else {
			if err := f.write(" {\n"); err != nil {
				return err
			}
			f.indentLevel++
			indentStr = f.indent(f.indentLevel)
		}
	}

	displayName := name
	if f.cfg.UseMeta && meta.Valid() && meta.Name != "" {
		displayName = meta.Name
	}
	attribStr := ""
	if attrib != nil {
		attribStr = " [" + *attrib + "]"
	}
	if err := f.write(indentStr + displayName + attribStr); err != nil {
		return err
	}

	f.nrChildren[len(f.nrChildren)-1]++
	f.nrChildren = append(f.nrChildren, 0)
	f.level++
	var eq *bool
	if f.cfg.UseMeta && meta.Valid() {
		e := meta.Equal
		eq = &e
	}
	f.followedByEqual = append(f.followedByEqual, eq)
	return nil
}

func (f *Formatter) CloseTag(name string) error {
	nr := f.nrChildren[len(f.nrChildren)-1]
	f.nrChildren = f.nrChildren[:len(f.nrChildren)-1]
	eq := f.followedByEqual[len(f.followedByEqual)-1]
	f.followedByEqual = f.followedByEqual[:len(f.followedByEqual)-1]
	f.level--

	if nr == 0 {
		return f.write(" {}\n")
	}
	if eq == nil || !*eq {
		f.indentLevel--
		return f.write(f.indent(f.indentLevel) + "}\n")
	}
	return nil
}

func (f *Formatter) AddData(rows [][]string) error {
	multiline := len(rows) > 1
	eq := f.followedByEqual[len(f.followedByEqual)-1]

	equal := false
	switch {
	case eq != nil:
		equal = *eq
	case !multiline:
		// Undecided single-line data: alternate with the enclosing layout so
		// constructs like "Scc { SccTolerance = 1e-5 }" and plain "Scc = Yes"
		// both come out without stacked equal signs.
		if len(f.followedByEqual) > 1 {
			outer := f.followedByEqual[len(f.followedByEqual)-2]
			equal = outer == nil || !*outer
		} else {
			equal = true
		}
	}

	f.nrChildren[len(f.nrChildren)-1]++
	if equal && !multiline {
		decided := true
		f.followedByEqual[len(f.followedByEqual)-1] = &decided
		return f.write(" = " + strings.Join(rows[0], " ") + "\n")
	}
	if equal {
		// Equal sign with several rows: a raw data block.
		decided := true
		f.followedByEqual[len(f.followedByEqual)-1] = &decided
		if err := f.write(" = {\n"); err != nil {
			return err
		}
		rowIndent := f.indent(f.indentLevel + 1)
		for _, row := range rows {
			if err := f.write(rowIndent + strings.Join(row, " ") + "\n"); err != nil {
				return err
			}
		}
		return f.write(f.indent(f.indentLevel) + "}\n")
	}

	f.indentLevel++
	if err := f.write(" {\n"); err != nil {
		return err
	}
	rowIndent := f.indent(f.indentLevel)
	for _, row := range rows {
		if err := f.write(rowIndent + strings.Join(row, " ") + "\n"); err != nil {
			return err
		}
	}
	return nil
}
