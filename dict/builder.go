package dict

import (
	"strings"

	"github.com/hsd-format/go-hsd/parser"
)

// StructuralError reports an event stream that cannot be materialized as a
// mapping, such as data arriving for a node that already has children.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string {
	return "hsd: structural error: " + e.Msg
}

// BuilderConfig controls how a Builder materializes the event stream.
type BuilderConfig struct {
	// FoldTagNames lowercases tag names on storage. The original spelling is
	// kept in the node's meta record when RecordMeta is also set.
	FoldTagNames bool

	// RecordMeta stores a provenance record under "<name>.meta" for every tag.
	RecordMeta bool

	// FlattenData merges multi-row data into one flat list instead of a list
	// of rows.
	FlattenData bool
}

// Builder is an EventHandler that materializes the event stream into a Dict.
// Repeated same-named siblings aggregate into a []*Dict, with their attributes
// and meta records collected into parallel lists.
type Builder struct {
	cfg BuilderConfig

	root    *Dict
	cur     *Dict
	parents []*Dict
	open    []openTag

	data    any
	hasData bool
}

type openTag struct {
	attrib *string
	meta   parser.Meta
}

// NewBuilder returns a Builder with the given configuration.
func NewBuilder(cfg BuilderConfig) *Builder {
	root := New()
	return &Builder{cfg: cfg, root: root, cur: root}
}

// Dict returns the materialized mapping. Call it after a successful parse.
func (b *Builder) Dict() *Dict {
	return b.root
}

func (b *Builder) OpenTag(name string, attrib *string, meta parser.Meta) error {
	if b.hasData {
		return &StructuralError{Msg: "node " + name + " opened inside a node holding data"}
	}
	b.parents = append(b.parents, b.cur)
	b.open = append(b.open, openTag{attrib: attrib, meta: meta})
	b.cur = New()
	return nil
}

func (b *Builder) CloseTag(name string) error {
	if len(b.parents) == 0 {
		return &StructuralError{Msg: "unbalanced close of node " + name}
	}
	parent := b.parents[len(b.parents)-1]
	b.parents = b.parents[:len(b.parents)-1]
	tag := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]

	key := name
	if b.cfg.FoldTagNames {
		key = strings.ToLower(name)
	}

	var content any
	if b.hasData {
		content = b.data
	} else {
		content = b.cur
	}
	b.data = nil
	b.hasData = false
	b.cur = parent

	count := 1
	prev, repeated := parent.Get(key)
	if !repeated {
		parent.Set(key, content)
	} else {
		switch pv := prev.(type) {
		case []*Dict:
			list := append(pv, wrapNode(content))
			parent.Set(key, list)
			count = len(list)
		case *Dict:
			parent.Set(key, []*Dict{pv, wrapNode(content)})
			count = 2
		default:
			// Previous occurrence was plain data; wrap both sides.
			parent.Set(key, []*Dict{wrapData(pv), wrapNode(content)})
			count = 2
		}
	}

	b.storeAttrib(parent, key, tag.attrib, count)
	if b.cfg.RecordMeta {
		b.storeMeta(parent, key, name, tag.meta, repeated)
	}
	return nil
}

func (b *Builder) AddData(rows [][]string) error {
	if b.cur.Len() > 0 {
		return &StructuralError{Msg: "data inside a node holding child nodes"}
	}
	if b.hasData {
		return &StructuralError{Msg: "multiple data blocks inside one node"}
	}
	if len(b.parents) == 0 {
		return &StructuralError{Msg: "data outside of any node"}
	}
	b.data = rowsToValue(rows, b.cfg.FlattenData)
	b.hasData = true
	return nil
}

// storeAttrib maintains the "<key>.attrib" side entry for the count-th
// occurrence of a tag. For repeated tags the entry is a list parallel to the
// sibling list, nil marking occurrences without an attribute; no entry is
// created while no occurrence carries one.
func (b *Builder) storeAttrib(parent *Dict, key string, attrib *string, count int) {
	attribKey := key + AttribSuffix
	if count == 1 {
		if attrib != nil {
			parent.Set(attribKey, *attrib)
		}
		return
	}
	var item any
	if attrib != nil {
		item = *attrib
	}
	prev, ok := parent.Get(attribKey)
	if !ok {
		if item == nil {
			return
		}
		list := make([]any, count)
		list[count-1] = item
		parent.Set(attribKey, list)
		return
	}
	if list, isList := prev.([]any); isList {
		parent.Set(attribKey, append(list, item))
		return
	}
	// The first occurrence stored a plain string; widen to a list.
	list := make([]any, count)
	list[0] = prev
	list[count-1] = item
	parent.Set(attribKey, list)
}

// storeMeta maintains the "<key>.meta" side entry, mirroring the shape of the
// attribute entry. With folded tag names the record keeps the original
// spelling.
func (b *Builder) storeMeta(parent *Dict, key, name string, meta parser.Meta, repeated bool) {
	if b.cfg.FoldTagNames {
		meta.Name = name
	}
	metaKey := key + MetaSuffix
	if !repeated {
		parent.Set(metaKey, &meta)
		return
	}
	prev, _ := parent.Get(metaKey)
	if list, ok := prev.([]*parser.Meta); ok {
		parent.Set(metaKey, append(list, &meta))
		return
	}
	first, _ := prev.(*parser.Meta)
	parent.Set(metaKey, []*parser.Meta{first, &meta})
}

func wrapNode(content any) *Dict {
	if d, ok := content.(*Dict); ok {
		return d
	}
	return wrapData(content)
}

// wrapData boxes plain leaf data into a node under the reserved DataKey so it
// can live in a sibling list.
func wrapData(data any) *Dict {
	d := New()
	d.Set(DataKey, data)
	return d
}
