package avltree

import "github.com/qntx/avlstore/store"

// writeCache is a bounded, per-operation write-back buffer for structural
// node edits. Every rotation, splice, and balance-factor update made during
// a single top-level Tree call goes through a writeCache instead of the
// Store directly; flush pushes every buffered edit to the Store in one pass
// at the very end of the call.
//
// A writeCache never buffers value edits — only Links — so a crash or
// panic mid-operation can never leave a half-written value behind. It is
// also never carried between top-level calls: each structural Insert and
// each Remove constructs its own cache and discards it (via flush, or by
// abandoning it entirely on panic). Value-only paths (overwriting Insert,
// GetMut, RangeMut) use no cache.
type writeCache[K comparable, V any] struct {
	store   store.Store[K, V]
	touched map[K]store.Links[K]
}

// newWriteCache returns a cache bound to s, empty.
func newWriteCache[K comparable, V any](s store.Store[K, V]) *writeCache[K, V] {
	return &writeCache[K, V]{
		store:   s,
		touched: make(map[K]store.Links[K]),
	}
}

// links returns the current Links for key, preferring a buffered edit over
// the Store's copy. ok is false if key names no node in either place.
func (c *writeCache[K, V]) links(key K) (store.Links[K], bool) {
	if l, ok := c.touched[key]; ok {
		return l, true
	}

	n, ok := c.store.Get(key)
	if !ok {
		return store.Links[K]{}, false
	}

	return n.Links, true
}

// node returns the full node (value included) for key. Values are never
// cached, so this always consults the Store, but layers any buffered
// structural edit on top of the stored value.
func (c *writeCache[K, V]) node(key K) (store.Node[K, V], bool) {
	n, ok := c.store.Get(key)
	if !ok {
		return store.Node[K, V]{}, false
	}

	if l, ok := c.touched[key]; ok {
		n.Links = l
	}

	return n, true
}

// setLinks buffers a structural edit for key. It does not touch the Store
// until flush.
func (c *writeCache[K, V]) setLinks(key K, links store.Links[K]) {
	c.touched[key] = links
}

// flush pushes every buffered edit to the Store and empties the cache. It
// must be called explicitly, never via defer: a panic during a tree
// operation must leave the Links of every node already in the Store exactly
// as they were before the operation started, and skipping flush on the
// unwind path is what guarantees that. (The new node an Insert adds is
// written to the Store directly by addNode, not through the cache.)
func (c *writeCache[K, V]) flush() {
	for key, links := range c.touched {
		c.store.SetLinks(key, links)
	}

	c.touched = make(map[K]store.Links[K])
}

// size reports how many distinct keys currently have a buffered edit.
func (c *writeCache[K, V]) size() int {
	return len(c.touched)
}
