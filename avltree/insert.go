package avltree

import (
	"github.com/qntx/avlstore/bound"
	"github.com/qntx/avlstore/store"
)

// insert files key/value under a fresh cache and flushes it once the whole
// operation completes. It returns the previous value and true if key was
// already present, in which case only the value changed and the tree shape
// was never touched.
func (t *Tree[K, V]) insert(key K, value V) (old V, existed bool, cacheSize int) {
	if n, ok := t.store.Get(key); ok {
		t.store.SetValue(key, value)
		return n.Value, true, 0
	}

	c := newWriteCache[K, V](t.store)

	parent := t.insertInEmptySpot(c, key, value)

	deepen := true

	for parent != nil {
		nodeKey, insertDir := parent.key, parent.dir

		links, ok := c.links(nodeKey)
		if !ok {
			panic("avlstore: parent of insert vanished mid-operation")
		}

		var next *parentStep[K]
		if links.Parent != nil {
			if d, ok := links.DirectionToParent(nodeKey, mustLinks(c, *links.Parent), func(a, b K) bool { return a == b }); ok {
				next = &parentStep[K]{key: *links.Parent, dir: d}
			}
		}

		if deepen {
			deepen = links.Balance == 0
			links.Balance += insertDir.Factor()
			c.setLinks(nodeKey, links)
		}

		if abs(links.Balance) == 2 {
			t.balance(c, nodeKey, insertDir)
		}

		if !deepen {
			break
		}

		parent = next
	}

	cacheSize = c.size()
	c.flush()

	return old, false, cacheSize
}

// parentStep names a node reached while climbing back to the root, and the
// direction its child we just came from occupies.
type parentStep[K any] struct {
	key K
	dir bound.Direction
}

// insertInEmptySpot descends from the root to the empty slot key belongs in,
// then splices a new node into both the tree and the linked list. It
// returns the immediate parent of the new node (and the side it was
// inserted on), or nil if the tree was empty and key became the root.
func (t *Tree[K, V]) insertInEmptySpot(c *writeCache[K, V], key K, value V) *parentStep[K] {
	var parent *parentStep[K]

	current := t.root

	for current != nil {
		links, ok := c.links(*current)
		if !ok {
			panic("avlstore: descent hit a missing node")
		}

		dir, ok := bound.FromOrdering(t.compare(key, *current))
		if !ok {
			panic("avlstore: insert of an existing key should be handled before descent")
		}

		parent = &parentStep[K]{key: *current, dir: dir}
		current = links.Child(dir)
	}

	if parent == nil {
		t.addNode(c, nil, key, value, nil, nil)
		t.root = &key

		return nil
	}

	t.insertAndAdjustPointers(c, parent.key, key, value, parent.dir)

	return parent
}

// addNode writes a brand-new leaf node into both the Store (value included)
// and the cache (structure only), so later steps in the same operation see
// it through the cache without a second Store round trip.
func (t *Tree[K, V]) addNode(c *writeCache[K, V], parent *K, key K, value V, prev, next *K) {
	links := store.Links[K]{Parent: parent, Prev: prev, Next: next}

	t.store.Insert(key, store.Node[K, V]{Key: key, Value: value, Links: links})
	c.setLinks(key, links)
}

// insertAndAdjustPointers splices a new node in as parentKey's child on side
// dir, threading it into the doubly-linked list between parentKey and
// whichever neighbour parentKey had on that side.
func (t *Tree[K, V]) insertAndAdjustPointers(c *writeCache[K, V], parentKey, key K, value V, dir bound.Direction) {
	parentLinks, ok := c.links(parentKey)
	if !ok {
		panic("avlstore: insert parent vanished mid-operation")
	}

	otherNeighbour := parentLinks.PrevNext(dir)

	if otherNeighbour != nil {
		neighbourLinks, ok := c.links(*otherNeighbour)
		if !ok {
			panic("avlstore: list neighbour vanished mid-operation")
		}

		neighbourLinks.SetPrevNext(dir.Opposite(), &key)
		c.setLinks(*otherNeighbour, neighbourLinks)
	}

	parentLinks.SetPrevNext(dir, &key)
	parentLinks.SetChild(dir, &key)
	c.setLinks(parentKey, parentLinks)

	var prev, next *K

	if otherNeighbour != nil {
		if t.compare(parentKey, *otherNeighbour) < 0 {
			prev, next = &parentKey, otherNeighbour
		} else {
			prev, next = otherNeighbour, &parentKey
		}
	} else if dir == bound.Left {
		next = &parentKey
	} else {
		prev = &parentKey
	}

	t.addNode(c, &parentKey, key, value, prev, next)
}

// mustLinks fetches Links for key, panicking if it is missing. Used where
// the caller has already established the key must exist in the same
// operation.
func mustLinks[K comparable, V any](c *writeCache[K, V], key K) store.Links[K] {
	l, ok := c.links(key)
	if !ok {
		panic("avlstore: expected node missing from cache and store")
	}

	return l
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

// keyEq is the identity comparison store.Links.ReplaceChild needs: K is
// comparable, so this is just ==.
func keyEq[K comparable](a, b K) bool {
	return a == b
}
