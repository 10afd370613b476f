package jsonstream

import (
	"fmt"
	"slices"
	"strings"
)

// A Segment is one step in a Path: either an array index or an object key.
type Segment struct {
	kind  segmentKind
	index int
	key   string
}

type segmentKind uint8

const (
	indexSegment segmentKind = iota
	keySegment

	// A key has been read but its value hasn't started yet.  Segments of
	// this kind never appear in emitted events.
	pendingKeySegment
)

// Index makes an array index segment.
func Index(i int) Segment {
	return Segment{kind: indexSegment, index: i}
}

// Key makes an object key segment.
func Key(k string) Segment {
	return Segment{kind: keySegment, key: k}
}

// Index returns the array index of the segment if it is an index segment.
func (s Segment) Index() (int, bool) {
	return s.index, s.kind == indexSegment
}

// Key returns the object key of the segment if it is a key segment.
func (s Segment) Key() (string, bool) {
	return s.key, s.kind == keySegment
}

func (s Segment) String() string {
	if s.kind == indexSegment {
		return fmt.Sprintf("%d", s.index)
	}
	return fmt.Sprintf("%q", s.key)
}

// A Path locates a value within a JSON document, from the root down.  The
// zero-length Path locates the root value itself.
type Path []Segment

func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, s := range p {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports whether two paths locate the same value.
func (p Path) Equal(q Path) bool {
	return slices.Equal(p, q)
}

// HasPrefix reports whether q is a prefix of p (every path has the empty
// path as a prefix).
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	return slices.Equal(p[:len(q)], q)
}
