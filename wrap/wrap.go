// Package wrap provides path-based access to HSD mappings. Entries deep in a
// document are addressed with slash-joined paths like
// "Hamiltonian/DFTB/Filling/Fermi", with integer segments indexing into
// repeated sibling lists. Lookups and updates keep the attribute and meta
// side entries consistent.
package wrap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hsd-format/go-hsd/dict"
	"github.com/hsd-format/go-hsd/parser"
)

// Node is the result of a path lookup: the value together with the attribute
// and meta side entries of its tag.
type Node struct {
	Value  any
	Attrib *string
	Meta   parser.Meta
}

// Container wraps a mapping for path-based access.
type Container struct {
	root      *dict.Dict
	foldNames bool
	saveNames bool
}

// Option configures a Container.
type Option func(*Container)

// FoldNames makes path lookups case-insensitive.
func FoldNames() Option {
	return func(c *Container) { c.foldNames = true }
}

// SaveNames stores the original spelling of a key in its meta entry when a
// Set under FoldNames changes the spelling.
func SaveNames() Option {
	return func(c *Container) { c.saveNames = true }
}

// New wraps root without copying it; updates through the Container modify
// root directly.
func New(root *dict.Dict, opts ...Option) *Container {
	c := &Container{root: root}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the wrapped mapping.
func (c *Container) Root() *dict.Dict {
	return c.root
}

type segment struct {
	name    string
	index   int
	isIndex bool
}

func (s segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.name
}

func joinSegments(segs []segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.String()
	}
	return strings.Join(parts, "/")
}

// parsePath splits a slash-joined path into segments. Integer segments index
// sibling lists; name segments must start with a letter and continue with
// letters, digits or underscores.
func parsePath(path string) ([]segment, error) {
	parts := strings.Split(path, "/")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if isIndexSegment(part) {
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("hsd: invalid path component %q in %q", part, path)
			}
			segs = append(segs, segment{index: idx, isIndex: true})
			continue
		}
		if !isNameSegment(part) {
			return nil, fmt.Errorf("hsd: invalid path component %q in %q", part, path)
		}
		segs = append(segs, segment{name: part})
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("hsd: empty path")
	}
	return segs, nil
}

func isIndexSegment(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isNameSegment(s string) bool {
	if s == "" {
		return false
	}
	if !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) && s[i] != '_' {
			return false
		}
	}
	return true
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// resolveKey finds the stored key matching a path name, scanning
// case-insensitively when FoldNames is active.
func (c *Container) resolveKey(d *dict.Dict, name string) (string, bool) {
	if d.Has(name) {
		return name, true
	}
	if !c.foldNames {
		return "", false
	}
	for _, key := range d.Keys() {
		if strings.EqualFold(key, name) {
			return key, true
		}
	}
	return "", false
}

// findPath walks segs from the root and returns the visited values, starting
// with the root itself, alongside the segments with resolved key spellings.
// With partial set, a missing name segment stops the walk without error.
func (c *Container) findPath(segs []segment, partial bool) ([]any, []segment, error) {
	nodes := []any{any(c.root)}
	resolved := make([]segment, 0, len(segs))
	for i, seg := range segs {
		cur := nodes[len(nodes)-1]
		if seg.isIndex {
			list, ok := cur.([]*dict.Dict)
			if !ok {
				return nil, nil, c.notFound(segs, i)
			}
			idx := seg.index
			if idx < 0 {
				idx += len(list)
			}
			if idx < 0 || idx >= len(list) {
				return nil, nil, c.notFound(segs, i)
			}
			resolved = append(resolved, segment{index: idx, isIndex: true})
			nodes = append(nodes, list[idx])
			continue
		}
		d, ok := cur.(*dict.Dict)
		if !ok {
			return nil, nil, c.notFound(segs, i)
		}
		key, ok := c.resolveKey(d, seg.name)
		if !ok {
			if partial {
				return nodes, resolved, nil
			}
			return nil, nil, c.notFound(segs, i)
		}
		value, _ := d.Get(key)
		resolved = append(resolved, segment{name: key})
		nodes = append(nodes, value)
	}
	return nodes, resolved, nil
}

func (c *Container) notFound(segs []segment, i int) error {
	return fmt.Errorf("hsd: no item %q at %q", segs[i].String(), joinSegments(segs[:i+1]))
}

// sideEntries fetches the attribute and meta record belonging to the final
// path element.
func sideEntries(nodes []any, segs []segment) (*string, parser.Meta) {
	if len(segs) == 0 {
		return nil, parser.Meta{}
	}
	last := segs[len(segs)-1]
	if last.isIndex {
		if len(segs) < 2 || segs[len(segs)-2].isIndex {
			return nil, parser.Meta{}
		}
		parent, ok := nodes[len(nodes)-3].(*dict.Dict)
		if !ok {
			return nil, parser.Meta{}
		}
		key := segs[len(segs)-2].name
		attribVal, _ := parent.Get(key + dict.AttribSuffix)
		metaVal, _ := parent.Get(key + dict.MetaSuffix)
		return attribAt(attribVal, last.index), metaAt(metaVal, last.index)
	}
	parent, ok := nodes[len(nodes)-2].(*dict.Dict)
	if !ok {
		return nil, parser.Meta{}
	}
	attribVal, _ := parent.Get(last.name + dict.AttribSuffix)
	metaVal, _ := parent.Get(last.name + dict.MetaSuffix)
	return attribAt(attribVal, 0), metaAt(metaVal, 0)
}

func attribAt(attribVal any, i int) *string {
	switch a := attribVal.(type) {
	case string:
		if i == 0 {
			return &a
		}
	case []any:
		if i >= 0 && i < len(a) {
			if s, ok := a[i].(string); ok {
				return &s
			}
		}
	}
	return nil
}

func metaAt(metaVal any, i int) parser.Meta {
	switch m := metaVal.(type) {
	case *parser.Meta:
		if m != nil && i == 0 {
			return *m
		}
	case []*parser.Meta:
		if i >= 0 && i < len(m) && m[i] != nil {
			return *m[i]
		}
	}
	return parser.Meta{}
}

// Get looks up path and returns the value with its side entries.
func (c *Container) Get(path string) (Node, error) {
	segs, err := parsePath(path)
	if err != nil {
		return Node{}, err
	}
	nodes, resolved, err := c.findPath(segs, false)
	if err != nil {
		return Node{}, err
	}
	attrib, meta := sideEntries(nodes, resolved)
	return Node{Value: nodes[len(nodes)-1], Attrib: attrib, Meta: meta}, nil
}

// Has reports whether path resolves to an entry.
func (c *Container) Has(path string) bool {
	_, err := c.Get(path)
	return err == nil
}

// GetDefault looks up path and returns def when the path does not resolve.
func (c *Container) GetDefault(path string, def any) Node {
	node, err := c.Get(path)
	if err != nil {
		return Node{Value: def}
	}
	return node
}

// Set stores value at path. All parent nodes must exist; use SetWithParents
// to create missing ones. The value may be a Node to set the attribute and
// meta side entries along with it.
func (c *Container) Set(path string, value any) error {
	return c.set(path, value, false)
}

// SetWithParents stores value at path, creating missing parent nodes.
// Missing path components must be names, not list indices.
func (c *Container) SetWithParents(path string, value any) error {
	return c.set(path, value, true)
}

func (c *Container) set(path string, value any, parents bool) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	nodes, resolved, err := c.findPath(segs[:len(segs)-1], parents)
	if err != nil {
		return err
	}
	// findPath returns the root plus one value per resolved segment.
	for len(nodes) < len(segs) {
		missing := segs[len(nodes)-1]
		if missing.isIndex {
			return fmt.Errorf("hsd: missing path components must not contain list indices")
		}
		parent, ok := nodes[len(nodes)-1].(*dict.Dict)
		if !ok {
			return fmt.Errorf("hsd: cannot create %q below a non-node entry", missing.name)
		}
		child := dict.New()
		c.setEntry(parent, missing.name, Node{Value: child})
		nodes = append(nodes, child)
		resolved = append(resolved, segment{name: c.storedKey(missing.name)})
	}

	node := toNode(value)
	last := segs[len(segs)-1]
	if last.isIndex {
		return c.setListElement(nodes, resolved, last, node)
	}
	parent, ok := nodes[len(nodes)-1].(*dict.Dict)
	if !ok {
		return fmt.Errorf("hsd: cannot set %q below a non-node entry", last.name)
	}
	c.setEntry(parent, last.name, node)
	return nil
}

// storedKey folds a name the way setEntry stores it.
func (c *Container) storedKey(name string) string {
	if c.foldNames {
		return strings.ToLower(name)
	}
	return name
}

// setEntry writes one entry of a node together with its side entries. Under
// FoldNames the key is stored lowercased; with SaveNames the original
// spelling goes into the meta entry.
func (c *Container) setEntry(parent *dict.Dict, name string, node Node) {
	key := name
	if c.foldNames {
		// Replace an existing entry under its stored spelling.
		if existing, ok := c.resolveKey(parent, name); ok {
			parent.Delete(existing)
			parent.Delete(existing + dict.AttribSuffix)
			parent.Delete(existing + dict.MetaSuffix)
		}
		key = strings.ToLower(name)
	}
	parent.Set(key, node.Value)

	if node.Attrib != nil {
		parent.Set(key+dict.AttribSuffix, *node.Attrib)
	} else {
		parent.Delete(key + dict.AttribSuffix)
	}

	meta := node.Meta
	if c.saveNames && key != name {
		meta.Name = name
	}
	if meta != (parser.Meta{}) {
		m := meta
		parent.Set(key+dict.MetaSuffix, &m)
	} else {
		parent.Delete(key + dict.MetaSuffix)
	}
}

// setListElement replaces one occurrence in a repeated sibling list and keeps
// the parallel side lists in step.
func (c *Container) setListElement(nodes []any, resolved []segment, last segment, node Node) error {
	list, ok := nodes[len(nodes)-1].([]*dict.Dict)
	if !ok {
		return fmt.Errorf("hsd: path component %d does not index a sibling list", last.index)
	}
	idx := last.index
	if idx < 0 {
		idx += len(list)
	}
	if idx < 0 || idx >= len(list) {
		return fmt.Errorf("hsd: sibling index %d out of range", last.index)
	}
	elem, ok := node.Value.(*dict.Dict)
	if !ok {
		return fmt.Errorf("hsd: sibling list elements must be nodes, got %T", node.Value)
	}
	list[idx] = elem

	if len(resolved) == 0 || resolved[len(resolved)-1].isIndex {
		return nil
	}
	owner, ok := nodes[len(nodes)-2].(*dict.Dict)
	if !ok {
		return nil
	}
	key := resolved[len(resolved)-1].name
	if node.Attrib != nil {
		attribVal, _ := owner.Get(key + dict.AttribSuffix)
		attribs, _ := attribVal.([]any)
		if attribs == nil {
			attribs = make([]any, len(list))
		}
		attribs[idx] = *node.Attrib
		owner.Set(key+dict.AttribSuffix, attribs)
	}
	if node.Meta != (parser.Meta{}) {
		metaVal, _ := owner.Get(key + dict.MetaSuffix)
		metas, _ := metaVal.([]*parser.Meta)
		if metas == nil {
			metas = make([]*parser.Meta, len(list))
		}
		m := node.Meta
		metas[idx] = &m
		owner.Set(key+dict.MetaSuffix, metas)
	}
	return nil
}

// Delete removes the entry at path along with its side entries. Deleting a
// sibling list element splices the parallel side lists as well.
func (c *Container) Delete(path string) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	nodes, resolved, err := c.findPath(segs, false)
	if err != nil {
		return err
	}
	last := resolved[len(resolved)-1]
	if last.isIndex {
		list := nodes[len(nodes)-2].([]*dict.Dict)
		list = append(list[:last.index], list[last.index+1:]...)
		if len(resolved) < 2 || resolved[len(resolved)-2].isIndex {
			return fmt.Errorf("hsd: cannot splice a sibling list without its owning node")
		}
		owner := nodes[len(nodes)-3].(*dict.Dict)
		key := resolved[len(resolved)-2].name
		owner.Set(key, list)
		if attribVal, ok := owner.Get(key + dict.AttribSuffix); ok {
			if attribs, ok := attribVal.([]any); ok && last.index < len(attribs) {
				owner.Set(key+dict.AttribSuffix, append(attribs[:last.index], attribs[last.index+1:]...))
			}
		}
		if metaVal, ok := owner.Get(key + dict.MetaSuffix); ok {
			if metas, ok := metaVal.([]*parser.Meta); ok && last.index < len(metas) {
				owner.Set(key+dict.MetaSuffix, append(metas[:last.index], metas[last.index+1:]...))
			}
		}
		return nil
	}
	parent := nodes[len(nodes)-2].(*dict.Dict)
	parent.Delete(last.name)
	parent.Delete(last.name + dict.AttribSuffix)
	parent.Delete(last.name + dict.MetaSuffix)
	return nil
}

func toNode(value any) Node {
	if n, ok := value.(Node); ok {
		return n
	}
	return Node{Value: value}
}
