// Package avltree implements an ordered associative container whose nodes
// live in an external, key-addressed Store rather than as in-process
// pointers. A Tree keeps two structures over the same set of nodes: a
// self-balancing binary search tree (for O(log n) lookup) and a doubly
// linked list threaded through the nodes in key order (for O(1) stepping
// once positioned). Every mutation updates both, through the bounded
// per-operation write-back cache in cache.go.
//
// This implementation is not safe for concurrent use without external
// synchronization, matching the store.Store it is built on.
package avltree

import (
	"fmt"
	"strings"
	"time"

	"github.com/qntx/avlstore/bound"
	"github.com/qntx/avlstore/cmp"
	"github.com/qntx/avlstore/metrics"
	"github.com/qntx/avlstore/store"
)

// Tree is an ordered map from K to V, balanced as an AVL tree and backed by
// a store.Store collaborator. The zero value is not usable; construct one
// with New.
type Tree[K comparable, V any] struct {
	compare cmp.Comparator[K]
	store   store.Store[K, V]
	root    *K
	metrics *metrics.Collector
}

// Option configures a Tree at construction time.
type Option[K comparable, V any] func(*Tree[K, V])

// WithMetrics attaches a metrics.Collector that records operation counts,
// latencies, and write-back cache sizes.
func WithMetrics[K comparable, V any](c *metrics.Collector) Option[K, V] {
	return func(t *Tree[K, V]) {
		t.metrics = c
	}
}

// New returns an empty Tree ordered by compare and backed by s.
func New[K comparable, V any](compare cmp.Comparator[K], s store.Store[K, V], opts ...Option[K, V]) *Tree[K, V] {
	t := &Tree[K, V]{compare: compare, store: s}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Len reports the number of entries in the tree.
func (t *Tree[K, V]) Len() int {
	return t.store.Len()
}

// IsEmpty reports whether the tree has no entries.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.Len() == 0
}

// Get returns the value stored under key. ok is false if key is absent.
func (t *Tree[K, V]) Get(key K) (value V, ok bool) {
	n, ok := t.store.Get(key)
	if !ok {
		return value, false
	}

	return n.Value, true
}

// Has reports whether key is present.
func (t *Tree[K, V]) Has(key K) bool {
	_, ok := t.store.Get(key)
	return ok
}

// GetMut calls fn with a pointer to the value stored under key, writing
// back whatever fn leaves there. ok is false if key is absent, in which
// case fn is not called. GetMut can only ever change a value, never tree
// shape, so it needs no write-back cache of its own.
func (t *Tree[K, V]) GetMut(key K, fn func(value *V)) (ok bool) {
	n, ok := t.store.Get(key)
	if !ok {
		return false
	}

	value := n.Value
	fn(&value)
	t.store.SetValue(key, value)

	return true
}

// Insert files value under key, returning the value key previously held
// and true if key was already present. A new key costs O(log n) Store
// round trips in the worst case, rebalancing as needed; overwriting an
// existing key costs two (one Get and one SetValue).
func (t *Tree[K, V]) Insert(key K, value V) (old V, existed bool) {
	start := time.Now()

	old, existed, cacheSize := t.insert(key, value)

	t.metrics.Observe("insert", "ok", start)
	t.metrics.ObserveCacheSize(cacheSize)
	t.metrics.SetSize(t.Len())

	return old, existed
}

// Remove deletes key from the tree, returning the value it held. ok is
// false if key was absent, in which case the tree is untouched.
func (t *Tree[K, V]) Remove(key K) (value V, ok bool) {
	start := time.Now()

	value, ok, cacheSize := t.remove(key)

	outcome := "ok"
	if !ok {
		outcome = "not_found"
	}

	t.metrics.Observe("remove", outcome, start)
	t.metrics.ObserveCacheSize(cacheSize)
	t.metrics.SetSize(t.Len())

	return value, ok
}

// Clear removes every entry, one key at a time.
func (t *Tree[K, V]) Clear() {
	for t.root != nil {
		t.Remove(*t.root)
	}
}

// Min returns the smallest key in the tree and its value. ok is false if
// the tree is empty.
func (t *Tree[K, V]) Min() (key K, value V, ok bool) {
	k := t.findFirstNode(bound.Unbound[K](), bound.Right)
	if k == nil {
		return key, value, false
	}

	v, _ := t.Get(*k)

	return *k, v, true
}

// Max returns the largest key in the tree and its value. ok is false if the
// tree is empty.
func (t *Tree[K, V]) Max() (key K, value V, ok bool) {
	k := t.findFirstNode(bound.Unbound[K](), bound.Left)
	if k == nil {
		return key, value, false
	}

	v, _ := t.Get(*k)

	return *k, v, true
}

// Keys returns every key in ascending order. It is O(n) and loads the
// entire tree at once; prefer Range for large trees or early termination.
func (t *Tree[K, V]) Keys() []K {
	keys := make([]K, 0, t.Len())

	for k := range t.Range(bound.Unbound[K](), bound.Unbound[K]()).Seq() {
		keys = append(keys, k)
	}

	return keys
}

// String renders the tree's entries in ascending key order, in the style
// "[k1=>v1 k2=>v2]".
func (t *Tree[K, V]) String() string {
	var b strings.Builder

	b.WriteByte('[')

	first := true

	for k, v := range t.Range(bound.Unbound[K](), bound.Unbound[K]()).Seq() {
		if !first {
			b.WriteByte(' ')
		}

		first = false

		fmt.Fprintf(&b, "%v=>%v", k, v)
	}

	b.WriteByte(']')

	return b.String()
}
