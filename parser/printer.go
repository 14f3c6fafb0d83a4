package parser

import (
	"fmt"
	"io"
	"strings"
)

// EventPrinter is an EventHandler that writes a human-readable trace of the
// event stream. It is mainly useful for debugging consumers.
type EventPrinter struct {
	w     io.Writer
	depth int
}

// NewEventPrinter returns an EventPrinter writing to w.
func NewEventPrinter(w io.Writer) *EventPrinter {
	return &EventPrinter{w: w}
}

func (ep *EventPrinter) OpenTag(name string, attrib *string, meta Meta) error {
	attribStr := "-"
	if attrib != nil {
		attribStr = *attrib
	}
	_, err := fmt.Fprintf(ep.w, "%sOPEN %s attrib=%s line=%d equal=%t\n",
		ep.indent(), name, attribStr, meta.Line, meta.Equal)
	ep.depth++
	return err
}

func (ep *EventPrinter) CloseTag(name string) error {
	ep.depth--
	_, err := fmt.Fprintf(ep.w, "%sCLOSE %s\n", ep.indent(), name)
	return err
}

func (ep *EventPrinter) AddData(rows [][]string) error {
	for _, row := range rows {
		if _, err := fmt.Fprintf(ep.w, "%sDATA %s\n", ep.indent(), strings.Join(row, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (ep *EventPrinter) indent() string {
	return strings.Repeat("  ", ep.depth)
}
