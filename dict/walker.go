package dict

import (
	"fmt"
	"strings"

	"github.com/hsd-format/go-hsd/parser"
)

// Walker traverses a Dict in key order and replays it as HSD events. It is
// the inverse of Builder: feeding the events into a formatter reproduces the
// document text.
type Walker struct {
	h parser.EventHandler
}

// NewWalker returns a Walker delivering events to h.
func NewWalker(h parser.EventHandler) *Walker {
	return &Walker{h: h}
}

// Walk emits the events for every entry of d, recursively.
func (w *Walker) Walk(d *Dict) error {
	for _, key := range d.Keys() {
		if strings.HasSuffix(key, AttribSuffix) {
			if !d.Has(strings.TrimSuffix(key, AttribSuffix)) {
				return fmt.Errorf("hsd: attribute entry %q without a corresponding tag", key)
			}
			continue
		}
		if strings.HasSuffix(key, MetaSuffix) {
			if !d.Has(strings.TrimSuffix(key, MetaSuffix)) {
				return fmt.Errorf("hsd: meta entry %q without a corresponding tag", key)
			}
			continue
		}

		value, _ := d.Get(key)
		attribVal, _ := d.Get(key + AttribSuffix)
		metaVal, _ := d.Get(key + MetaSuffix)

		switch v := value.(type) {
		case *Dict:
			if err := w.walkNode(key, v, attribAt(attribVal, 0), metaAt(metaVal, 0)); err != nil {
				return err
			}
		case []*Dict:
			for i, item := range v {
				if err := w.walkNode(key, item, attribAt(attribVal, i), metaAt(metaVal, i)); err != nil {
					return err
				}
			}
		default:
			if err := w.walkLeaf(key, value, attribAt(attribVal, 0), metaAt(metaVal, 0)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) walkNode(key string, node *Dict, attrib *string, meta parser.Meta) error {
	// A node holding only the reserved data key is boxed leaf data.
	if data, ok := node.Get(DataKey); ok {
		if node.Len() != 1 {
			return fmt.Errorf("hsd: node %q mixes data and child entries", key)
		}
		return w.walkLeaf(key, data, attrib, meta)
	}
	// The equal form implies exactly one child; a node that gained or lost
	// children since it was parsed falls back to braces.
	if meta.Equal && childEvents(node) != 1 {
		meta.Equal = false
	}
	if err := w.h.OpenTag(key, attrib, meta); err != nil {
		return err
	}
	if err := w.Walk(node); err != nil {
		return err
	}
	return w.h.CloseTag(key)
}

func (w *Walker) walkLeaf(key string, value any, attrib *string, meta parser.Meta) error {
	if err := w.h.OpenTag(key, attrib, meta); err != nil {
		return err
	}
	if value != nil {
		rows, err := renderValue(value)
		if err != nil {
			return fmt.Errorf("hsd: node %q: %w", key, err)
		}
		if err := w.h.AddData(rows); err != nil {
			return err
		}
	}
	return w.h.CloseTag(key)
}

// childEvents counts the open events walking a node will produce: one per
// entry, one per occurrence for repeated sibling lists. Side entries do not
// count.
func childEvents(d *Dict) int {
	n := 0
	for _, key := range d.Keys() {
		if strings.HasSuffix(key, AttribSuffix) || strings.HasSuffix(key, MetaSuffix) {
			continue
		}
		value, _ := d.Get(key)
		if list, ok := value.([]*Dict); ok {
			n += len(list)
			continue
		}
		n++
	}
	return n
}

// attribAt picks the attribute for the i-th occurrence of a tag. A single
// string applies to a single node; a []any carries one entry per sibling,
// nil meaning no attribute.
func attribAt(attribVal any, i int) *string {
	switch a := attribVal.(type) {
	case nil:
		return nil
	case string:
		return &a
	case []any:
		if i >= len(a) || a[i] == nil {
			return nil
		}
		if s, ok := a[i].(string); ok {
			return &s
		}
		return nil
	default:
		return nil
	}
}

// metaAt picks the meta record for the i-th occurrence of a tag. Missing
// records come back as the zero Meta, which reports Valid() == false.
func metaAt(metaVal any, i int) parser.Meta {
	switch m := metaVal.(type) {
	case *parser.Meta:
		if m != nil && i == 0 {
			return *m
		}
	case []*parser.Meta:
		if i < len(m) && m[i] != nil {
			return *m[i]
		}
	}
	return parser.Meta{}
}
