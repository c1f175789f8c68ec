package avltree

import (
	"iter"

	"github.com/qntx/avlstore/bound"
)

// Iterator walks the doubly-linked list threaded through the tree in key
// order, starting from a range bound and continuing until it reaches the
// opposite bound. It is read-only: use RangeMut/RangeBackMut for a mutating
// walk.
type Iterator[K comparable, V any] struct {
	tree    *Tree[K, V]
	current *K
	dir     bound.Direction
	end     bound.Bound[K]
}

// Range returns a forward iterator (ascending key order) over [start, end)
// semantics as expressed by the two Bounds.
func (t *Tree[K, V]) Range(start, end bound.Bound[K]) *Iterator[K, V] {
	return &Iterator[K, V]{
		tree:    t,
		current: t.rangeStart(start, bound.Right),
		dir:     bound.Right,
		end:     end,
	}
}

// RangeBack returns a backward iterator (descending key order).
func (t *Tree[K, V]) RangeBack(start, end bound.Bound[K]) *Iterator[K, V] {
	return &Iterator[K, V]{
		tree:    t,
		current: t.rangeStart(end, bound.Left),
		dir:     bound.Left,
		end:     start,
	}
}

// rangeStart resolves a range's near bound to the key an iterator moving in
// dir should begin at. If the bound names a key present in the tree, that
// lookup is O(1) against the Store; otherwise findFirstNode descends the
// tree in O(log n) to find the first key on the inside of the bound.
func (t *Tree[K, V]) rangeStart(b bound.Bound[K], dir bound.Direction) *K {
	switch b.Kind {
	case bound.Included:
		if n, ok := t.store.Get(b.Key); ok {
			k := n.Key
			return &k
		}
	case bound.Excluded:
		if n, ok := t.store.Get(b.Key); ok {
			return n.Links.PrevNext(dir)
		}
	}

	return t.findFirstNode(b, dir)
}

// findFirstNode descends the tree looking for the first key that lies
// inside lowerBound when walking in direction dir, used when the bound's
// own key is absent from the tree (or the bound is Unbounded).
func (t *Tree[K, V]) findFirstNode(lowerBound bound.Bound[K], dir bound.Direction) *K {
	var result *K

	current := t.root

	for current != nil {
		n, ok := t.store.Get(*current)
		if !ok {
			panic("avlstore: descent hit a missing node")
		}

		if lowerBound.Within(n.Key, dir.Opposite(), t.compare) {
			k := n.Key
			result = &k
			current = n.Links.Child(dir.Opposite())
		} else {
			current = n.Links.Child(dir)
		}
	}

	return result
}

// Next advances the iterator and returns the next key/value pair. ok is
// false once the iterator has walked off the end of the range.
func (it *Iterator[K, V]) Next() (key K, value V, ok bool) {
	if it.current == nil || !it.end.Within(*it.current, it.dir, it.tree.compare) {
		it.current = nil
		return key, value, false
	}

	n, found := it.tree.store.Get(*it.current)
	if !found {
		panic("avlstore: iterator hit a missing node")
	}

	next := n.Links.PrevNext(it.dir)
	if next != nil && it.end.Within(*next, it.dir, it.tree.compare) {
		it.current = next
	} else {
		it.current = nil
	}

	return n.Key, n.Value, true
}

// Seq adapts the iterator into a Go range-over-func sequence of key/value
// pairs, for use in a for ... range loop.
func (it *Iterator[K, V]) Seq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for {
			k, v, ok := it.Next()
			if !ok {
				return
			}

			if !yield(k, v) {
				return
			}
		}
	}
}

// Control is returned by a MutFunc to tell a mutating walk whether to keep
// going.
type Control int

const (
	// Continue advances to the next node.
	Continue Control = iota
	// Break stops the walk immediately.
	Break
)

// MutFunc is called once per node visited by RangeMut/RangeBackMut: key, a
// pointer to that node's value in place, and lookahead, the key the walk
// would visit next (nil at the end of the range). lookahead is resolved
// before fn runs, so a mutation that changes value can never invalidate the
// walk's next step — the resolution to Q2.
type MutFunc[K any, V any] func(key K, value *V, lookahead *K) Control

// RangeMut walks [start, end) in ascending key order, calling fn with each
// value in place and writing any change straight back through the Store.
// Like Range, RangeMut never buffers structural edits — it only ever
// touches values, so it needs no write-back cache of its own.
func (t *Tree[K, V]) RangeMut(start, end bound.Bound[K], fn MutFunc[K, V]) {
	t.rangeMut(start, end, bound.Right, fn)
}

// RangeBackMut walks [start, end) in descending key order, otherwise
// identical to RangeMut.
func (t *Tree[K, V]) RangeBackMut(start, end bound.Bound[K], fn MutFunc[K, V]) {
	t.rangeMut(start, end, bound.Left, fn)
}

func (t *Tree[K, V]) rangeMut(start, end bound.Bound[K], dir bound.Direction, fn MutFunc[K, V]) {
	nearBound, endBound := start, end
	if dir == bound.Left {
		nearBound, endBound = end, start
	}

	current := t.rangeStart(nearBound, dir)
	if current != nil && !endBound.Within(*current, dir, t.compare) {
		current = nil
	}

	for current != nil {
		n, ok := t.store.Get(*current)
		if !ok {
			panic("avlstore: mutating range hit a missing node")
		}

		next := n.Links.PrevNext(dir)

		var lookahead *K
		if next != nil && endBound.Within(*next, dir, t.compare) {
			lookahead = next
		}

		value := n.Value
		ctrl := fn(n.Key, &value, lookahead)
		t.store.SetValue(n.Key, value)

		if ctrl == Break {
			return
		}

		current = lookahead
	}
}
