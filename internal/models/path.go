package models

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index.
// Index is -1 for key segments; Key is empty for index segments.
type Segment struct {
	Key   string
	Index int
}

// NewKey builds an object-key segment.
func NewKey(key string) Segment {
	return Segment{Key: key, Index: -1}
}

// NewIndex builds an array-index segment.
func NewIndex(i int) Segment {
	return Segment{Index: i}
}

// IsIndex reports whether the segment addresses an array element.
func (s Segment) IsIndex() bool {
	return s.Index >= 0
}

func (s Segment) String() string {
	if s.IsIndex() {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Path is the ordered sequence of segments from the document root to a
// node. It exists only during a traversal pass and is never persisted.
type Path []Segment

// String renders the path in dotted form, e.g. "data.landStat[2].count".
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 && !s.IsIndex() {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Clone returns an independent copy. Paths yielded by the walker share
// a backing array; clone before retaining one past the visit.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}
