package avltree

import (
	"github.com/qntx/avlstore/bound"
	"github.com/qntx/avlstore/store"
)

// remove deletes key from the tree, returning its value. ok is false if key
// was not present, in which case the tree is untouched.
func (t *Tree[K, V]) remove(key K) (value V, ok bool, cacheSize int) {
	n, ok := t.store.Get(key)
	if !ok {
		return value, false, 0
	}

	c := newWriteCache[K, V](t.store)

	startStep, shortened := t.rewireForDelete(c, key, n.Links)
	t.balanceAfterDelete(c, startStep, shortened)

	cacheSize = c.size()
	c.flush()

	removed, _ := t.store.Remove(key)

	return removed.Value, true, cacheSize
}

// directionToParent reports the direction, in key order, that leads from
// nodeKey to parentKey: Left if parentKey sorts before nodeKey, Right
// otherwise. This is a pure comparison, independent of either node's
// current structural Links, which is what lets the delete path compute it
// from keys captured before a rewire and trust it after one.
func (t *Tree[K, V]) directionToParent(nodeKey, parentKey K) bound.Direction {
	dir, _ := bound.FromOrdering(t.compare(parentKey, nodeKey))
	return dir
}

// balanceAfterDelete climbs from the node whose child subtree just lost a
// member, rebalancing as it goes. Unlike insert, a delete-triggered
// rebalance keeps climbing as long as each step's subtree height actually
// shrank (signalled by a post-update balance factor of zero, or a rotation
// that produced one).
func (t *Tree[K, V]) balanceAfterDelete(c *writeCache[K, V], step *parentStep[K], shortened bool) {
	for step != nil && shortened {
		nodeKey, childDir := step.key, step.dir

		links, ok := c.links(nodeKey)
		if !ok {
			panic("avlstore: delete-climb hit a missing node")
		}

		parentBefore := links.Parent

		links.Balance += childDir.Factor()
		c.setLinks(nodeKey, links)

		newBalance := links.Balance
		if abs(links.Balance) == 2 {
			newBalance = t.balance(c, nodeKey, childDir)
		}

		shortened = newBalance == 0

		if parentBefore == nil {
			step = nil
			continue
		}

		step = &parentStep[K]{key: *parentBefore, dir: t.directionToParent(nodeKey, *parentBefore)}
	}
}

// rewireForDelete splices delKey out of both the linked list and the binary
// tree, choosing a replacement node when delKey has at least one child. It
// returns the point from which balanceAfterDelete should start climbing,
// and whether that point's subtree height shrank. delLinks is delKey's
// structural state exactly as it was before any part of the delete touched
// it.
func (t *Tree[K, V]) rewireForDelete(c *writeCache[K, V], delKey K, delLinks store.Links[K]) (*parentStep[K], bool) {
	var delParentStep *parentStep[K]

	if delLinks.Parent != nil {
		delParentStep = &parentStep[K]{key: *delLinks.Parent, dir: t.directionToParent(delKey, *delLinks.Parent)}
	}

	t.rewireNextAndPrevious(c, delLinks)

	replaceKey := t.calculateReplaceNode(delLinks)

	if delLinks.Parent != nil {
		parentLinks, ok := c.links(*delLinks.Parent)
		if !ok {
			panic("avlstore: delete parent vanished mid-operation")
		}

		parentLinks.ReplaceChild(delKey, replaceKey, keyEq[K])

		c.setLinks(*delLinks.Parent, parentLinks)
	}

	var replaceParentStep *parentStep[K]

	shortened := true

	if replaceKey != nil {
		replaceParentStep, shortened = t.rewireReplaceNode(c, *replaceKey, delKey, delLinks)
	}

	if t.root != nil && *t.root == delKey {
		t.root = replaceKey
	}

	if replaceParentStep != nil {
		return replaceParentStep, shortened
	}

	return delParentStep, shortened
}

// rewireReplaceNode moves replaceKey into delKey's position: if replaceKey
// was delKey's direct child, it simply inherits delKey's other child and a
// recomputed balance factor; otherwise it is unlinked from wherever it sat
// (at most one child, by calculateReplaceNode's choice) and its leftover
// child is reattached to replaceKey's old parent.
func (t *Tree[K, V]) rewireReplaceNode(c *writeCache[K, V], replaceKey, delKey K, delLinks store.Links[K]) (*parentStep[K], bool) {
	replaceParentKey, replaceParentDir, nonEmptyChild := t.replaceParentAndChildren(c, replaceKey, delKey)

	var shortened bool

	if replaceParentKey == delKey {
		replaceLinks, ok := c.links(replaceKey)
		if !ok {
			panic("avlstore: replace node vanished mid-operation")
		}

		replaceLinks.Balance = delLinks.Balance + t.directionToParent(delKey, replaceKey).Opposite().Factor()
		c.setLinks(replaceKey, replaceLinks)

		shortened = replaceLinks.Balance == 0

		if delLinks.Parent != nil {
			replaceParentKey = *delLinks.Parent
			replaceParentDir = t.directionToParent(delKey, *delLinks.Parent)
		}
	} else {
		t.deleteRewireReplaceParent(c, replaceKey, replaceParentKey, nonEmptyChild, delLinks)
		shortened = true
	}

	t.rewireReplaceChild(c, delKey, delLinks, replaceKey)

	replaceLinks, ok := c.links(replaceKey)
	if !ok {
		panic("avlstore: replace node vanished mid-operation")
	}

	replaceLinks.Parent = delLinks.Parent
	c.setLinks(replaceKey, replaceLinks)

	if replaceParentKey == delKey {
		return nil, shortened
	}

	return &parentStep[K]{key: replaceParentKey, dir: replaceParentDir}, shortened
}

// replaceParentAndChildren detaches replaceKey's single child (if any) from
// replaceKey, reassigning that child's parent pointer to replaceKey's own
// parent, unless replaceKey is itself delKey's direct child (in which case
// the child stays put and is reattached by rewireReplaceChild instead). It
// returns replaceKey's parent and the direction from replaceKey to that
// parent, read before any of this delete's rewiring touched replaceKey.
func (t *Tree[K, V]) replaceParentAndChildren(c *writeCache[K, V], replaceKey, delKey K) (parentKey K, dir bound.Direction, nonEmptyChild *K) {
	replaceLinks, ok := c.links(replaceKey)
	if !ok {
		panic("avlstore: replace node vanished mid-operation")
	}

	nonEmptyChild = replaceLinks.Left
	if nonEmptyChild == nil {
		nonEmptyChild = replaceLinks.Right
	}

	if (replaceLinks.Parent == nil || *replaceLinks.Parent != delKey) && nonEmptyChild != nil {
		childLinks, ok := c.links(*nonEmptyChild)
		if !ok {
			panic("avlstore: replace child vanished mid-operation")
		}

		childLinks.Parent = replaceLinks.Parent
		c.setLinks(*nonEmptyChild, childLinks)
	}

	if replaceLinks.Parent == nil {
		panic("avlstore: replace node must have a parent, being a descendant of the deleted node")
	}

	return *replaceLinks.Parent, t.directionToParent(replaceKey, *replaceLinks.Parent), nonEmptyChild
}

// rewireNextAndPrevious splices delLinks' node out of the doubly-linked
// list, joining its former neighbours directly to each other.
func (t *Tree[K, V]) rewireNextAndPrevious(c *writeCache[K, V], delLinks store.Links[K]) {
	if delLinks.Next != nil {
		nextLinks, ok := c.links(*delLinks.Next)
		if !ok {
			panic("avlstore: next neighbour vanished mid-operation")
		}

		nextLinks.Prev = delLinks.Prev
		c.setLinks(*delLinks.Next, nextLinks)
	}

	if delLinks.Prev != nil {
		prevLinks, ok := c.links(*delLinks.Prev)
		if !ok {
			panic("avlstore: prev neighbour vanished mid-operation")
		}

		prevLinks.Next = delLinks.Next
		c.setLinks(*delLinks.Prev, prevLinks)
	}
}

// rewireReplaceChild reattaches whichever of delKey's children is not
// replaceKey itself onto replaceKey, since replaceKey ends up occupying
// delKey's position in the tree. delKey has at most two children: when
// replaceKey was one of them only the other is moved, otherwise both are.
func (t *Tree[K, V]) rewireReplaceChild(c *writeCache[K, V], delKey K, delLinks store.Links[K], replaceKey K) {
	type leftoverChild struct {
		key K
		dir bound.Direction
	}

	var leftover []leftoverChild

	if delLinks.Left != nil && *delLinks.Left != replaceKey {
		leftover = append(leftover, leftoverChild{*delLinks.Left, bound.Left})
	}

	if delLinks.Right != nil && *delLinks.Right != replaceKey {
		leftover = append(leftover, leftoverChild{*delLinks.Right, bound.Right})
	}

	if len(leftover) == 0 {
		return
	}

	replaceLinks, ok := c.links(replaceKey)
	if !ok {
		panic("avlstore: replace node vanished mid-operation")
	}

	for _, lo := range leftover {
		childLinks, ok := c.links(lo.key)
		if !ok {
			panic("avlstore: leftover child of deleted node vanished mid-operation")
		}

		childLinks.Parent = &replaceKey
		c.setLinks(lo.key, childLinks)

		k := lo.key
		replaceLinks.SetChild(lo.dir, &k)
	}

	c.setLinks(replaceKey, replaceLinks)
}

// deleteRewireReplaceParent handles the case where replaceKey was not
// delKey's direct child: it unlinks replaceKey from its actual parent,
// installing replaceKey's leftover child in its place, and gives replaceKey
// delLinks' balance factor, since replaceKey inherits delKey's subtree
// shape.
func (t *Tree[K, V]) deleteRewireReplaceParent(c *writeCache[K, V], replaceKey, replaceParentKey K, nonEmptyChild *K, delLinks store.Links[K]) {
	parentLinks := mustLinks(c, replaceParentKey)

	parentLinks.ReplaceChild(replaceKey, nonEmptyChild, keyEq[K])

	c.setLinks(replaceParentKey, parentLinks)

	replaceLinks := mustLinks(c, replaceKey)
	replaceLinks.Balance = delLinks.Balance
	c.setLinks(replaceKey, replaceLinks)
}

// calculateReplaceNode picks the node that will take delKey's place: the
// list neighbour on delKey's heavy side if delKey leans, or its in-order
// successor (falling back to its predecessor) if delKey is balanced. The
// chosen neighbour lies inside delKey's own subtree, at its far edge, so it
// has at most one child, which keeps the rewire a constant amount of work.
func (t *Tree[K, V]) calculateReplaceNode(delLinks store.Links[K]) *K {
	if !delLinks.HasChild(bound.Left) && !delLinks.HasChild(bound.Right) {
		return nil
	}

	if dir, ok := delLinks.ImbalanceDirection(); ok {
		k := *delLinks.PrevNext(dir)
		return &k
	}

	if delLinks.Next != nil {
		k := *delLinks.Next
		return &k
	}

	k := *delLinks.Prev

	return &k
}
