// Package walker provides the deterministic traversal primitive the
// extraction pipeline is built on.
package walker

import (
	"iter"

	"github.com/dkravchenko/swotstat/internal/models"
)

// Walk returns a pre-order, depth-first sequence over every node of the
// tree rooted at root: the node itself first, then object members in
// insertion order, then array elements by ascending index. Every node
// is yielded exactly once per pass and each call starts a fresh
// traversal.
//
// The yielded Path shares a backing array across visits; callers that
// retain a path past the visit must Clone it.
func Walk(root models.Value) iter.Seq2[models.Path, models.Value] {
	return func(yield func(models.Path, models.Value) bool) {
		walk(nil, root, yield)
	}
}

func walk(path models.Path, node models.Value, yield func(models.Path, models.Value) bool) bool {
	if !yield(path, node) {
		return false
	}
	switch v := node.(type) {
	case *models.Object:
		for _, m := range v.Members() {
			if !walk(append(path, models.NewKey(m.Key)), m.Value, yield) {
				return false
			}
		}
	case models.Array:
		for i, el := range v {
			if !walk(append(path, models.NewIndex(i)), el, yield) {
				return false
			}
		}
	}
	return true
}
