package avltree

import "github.com/qntx/avlstore/bound"

// rotate performs a single tree rotation around root/child, pivoting child
// up to take root's place. dir names which of root's children is being
// rotated up through root's *other* side — i.e. a left rotation is
// rotate(Left, root, child) where child was root's right child.
//
// Only Links are touched; rotate never reads or writes a value.
func (t *Tree[K, V]) rotate(c *writeCache[K, V], dir bound.Direction, rootKey, childKey K) {
	parentKey := t.rotateRewireParent(c, rootKey, childKey)
	if parentKey == nil {
		t.root = &childKey
	}

	childLinks, _ := c.links(childKey)
	childLinks.Parent = parentKey
	leftOver := childLinks.Child(dir)
	childLinks.SetChild(dir, &rootKey)
	c.setLinks(childKey, childLinks)

	if leftOver != nil {
		leftOverLinks, _ := c.links(*leftOver)
		leftOverLinks.Parent = &rootKey
		c.setLinks(*leftOver, leftOverLinks)
	}

	rootLinks, _ := c.links(rootKey)
	rootLinks.SetChild(dir.Opposite(), leftOver)
	rootLinks.Parent = &childKey
	c.setLinks(rootKey, rootLinks)
}

// rotateRewireParent points root's parent (if any) at child instead, and
// returns that parent's key so the caller can finish wiring child's own
// parent pointer.
func (t *Tree[K, V]) rotateRewireParent(c *writeCache[K, V], rootKey, childKey K) *K {
	rootLinks, _ := c.links(rootKey)

	parentKey := rootLinks.Parent
	if parentKey == nil {
		return nil
	}

	parentLinks, _ := c.links(*parentKey)
	if parentLinks.Left != nil && *parentLinks.Left == rootKey {
		parentLinks.Left = &childKey
	} else if parentLinks.Right != nil && *parentLinks.Right == rootKey {
		parentLinks.Right = &childKey
	}

	c.setLinks(*parentKey, parentLinks)

	return parentKey
}

// balance restores the AVL invariant at root, whose balance factor has just
// reached ±2 with side dir the heavy one (the child on side dir grew, on
// insert, or the child on the other side shrank, on delete). It dispatches to
// one of the three classic rebalancing cases and returns the balance factor
// the new subtree root ends up with, which callers use to decide whether a
// delete-triggered rebalance needs to keep climbing.
func (t *Tree[K, V]) balance(c *writeCache[K, V], rootKey K, dir bound.Direction) int {
	rootLinks, _ := c.links(rootKey)

	childKey := *rootLinks.Child(dir)
	childLinks, _ := c.links(childKey)

	switch {
	case sign(childLinks.Balance) == dir.Factor():
		return t.balanceSameDirection(c, rootKey, childKey, dir)
	case childLinks.Balance == 0:
		return t.balanceZeroDirection(c, rootKey, childKey, dir)
	default:
		return t.balanceOppositeDirection(c, rootKey, childKey, dir)
	}
}

// balanceSameDirection handles the case where child leans the same way root
// does: a single rotation suffices and both nodes end up balanced.
func (t *Tree[K, V]) balanceSameDirection(c *writeCache[K, V], rootKey, childKey K, dir bound.Direction) int {
	childLinks, _ := c.links(childKey)
	childLinks.Balance = 0
	c.setLinks(childKey, childLinks)

	rootLinks, _ := c.links(rootKey)
	rootLinks.Balance = 0
	c.setLinks(rootKey, rootLinks)

	t.rotate(c, dir.Opposite(), rootKey, childKey)

	return 0
}

// balanceZeroDirection handles the delete-only case where child is itself
// perfectly balanced: a single rotation suffices, but root and child both
// end up leaning, since the rotation did not fully flatten the subtree.
func (t *Tree[K, V]) balanceZeroDirection(c *writeCache[K, V], rootKey, childKey K, dir bound.Direction) int {
	rootLinks, _ := c.links(rootKey)
	rootLinks.Balance = dir.Factor()
	c.setLinks(rootKey, rootLinks)

	childLinks, _ := c.links(childKey)
	childLinks.Balance = dir.Opposite().Factor()
	c.setLinks(childKey, childLinks)

	t.rotate(c, dir.Opposite(), rootKey, childKey)

	return dir.Opposite().Factor()
}

// balanceOppositeDirection handles the case where child leans the opposite
// way from root: a double rotation through child's dir.Opposite() child
// (the new subtree root) is required.
func (t *Tree[K, V]) balanceOppositeDirection(c *writeCache[K, V], rootKey, childKey K, dir bound.Direction) int {
	childLinks, _ := c.links(childKey)
	newRootKey := *childLinks.Child(dir.Opposite())
	newRootLinks, _ := c.links(newRootKey)
	newRootBalance := newRootLinks.Balance

	rootLinks, _ := c.links(rootKey)
	rootLinks.Balance = 0
	if newRootBalance == dir.Factor() {
		rootLinks.Balance = dir.Opposite().Factor()
	}
	c.setLinks(rootKey, rootLinks)

	childLinks.Balance = 0
	if newRootBalance == dir.Opposite().Factor() {
		childLinks.Balance = dir.Factor()
	}
	c.setLinks(childKey, childLinks)

	t.rotate(c, dir, childKey, newRootKey)
	t.rotate(c, dir.Opposite(), rootKey, newRootKey)

	newRootLinks, _ = c.links(newRootKey)
	newRootLinks.Balance = 0
	c.setLinks(newRootKey, newRootLinks)

	return 0
}

// sign returns -1, 0, or 1 matching the sign of n, mirroring Rust's
// i32::signum for balance-factor comparisons.
func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
