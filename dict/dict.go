// Package dict holds the mapping representation of an HSD document and the
// event consumers converting between events and mappings.
//
// A value stored under a tag name is one of:
//
//	int64, float64, bool, string    a single scalar
//	[]any                           one row of scalars
//	[][]any                         several rows of scalars
//	*Dict                           a nested node
//	[]*Dict                         repeated same-named sibling nodes
//
// The attribute of a tag lives under the side key "<name>.attrib" (a string,
// or a []any parallel to the sibling list, with nil marking entries without
// an attribute). Provenance records live under "<name>.meta" (*parser.Meta,
// or []*parser.Meta for repeated tags).
package dict

import (
	"fmt"
	"strings"

	"github.com/hsd-format/go-hsd/parser"
)

const (
	// AttribSuffix marks the side key holding a tag's attribute.
	AttribSuffix = ".attrib"

	// MetaSuffix marks the side key holding a tag's provenance record.
	MetaSuffix = ".meta"

	// DataKey is the reserved key wrapping leaf data when a repeated sibling
	// list mixes nodes and plain values. Tag names are never empty, so the
	// empty string cannot collide.
	DataKey = ""
)

// Dict is an insertion-ordered mapping from tag name to value.
type Dict struct {
	keys   []string
	values map[string]any
}

// New returns an empty Dict.
func New() *Dict {
	return &Dict{values: make(map[string]any)}
}

// Len returns the number of keys.
func (d *Dict) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Set stores value under key. An existing key keeps its position; a new key
// is appended.
func (d *Dict) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Delete removes key and preserves the order of the remaining keys.
func (d *Dict) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Equal reports structural equality: same keys in the same order with
// deeply equal values. Scalars compare by value and type, so int64(1) and
// float64(1) differ.
func (d *Dict) Equal(other *Dict) bool {
	if d == nil || other == nil {
		return d == other
	}
	if len(d.keys) != len(other.keys) {
		return false
	}
	for i, k := range d.keys {
		if other.keys[i] != k {
			return false
		}
		if !equalValue(d.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case *Dict:
		bv, ok := b.(*Dict)
		return ok && av.Equal(bv)
	case []*Dict:
		bv, ok := b.([]*Dict)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	case [][]any:
		bv, ok := b.([][]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *parser.Meta:
		bv, ok := b.(*parser.Meta)
		if !ok {
			return false
		}
		if av == nil || bv == nil {
			return av == bv
		}
		return *av == *bv
	case []*parser.Meta:
		bv, ok := b.([]*parser.Meta)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// String returns a compact single-line rendering for debugging.
func (d *Dict) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range d.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %v", k, d.values[k])
	}
	sb.WriteString("}")
	return sb.String()
}
