package avltree

import (
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ValidateMode selects what Validate does when it finds a structural
// inconsistency.
type ValidateMode int

const (
	// ValidatePanic panics on the first inconsistency found.
	ValidatePanic ValidateMode = iota
	// ValidateLog logs every inconsistency found (via slog) and keeps
	// going, returning the full list.
	ValidateLog
)

// Issue describes a single structural inconsistency found by Validate.
type Issue[K any] struct {
	Key     K
	Message string
}

// Validate walks the whole tree recursively, recomputing each node's height
// and balance factor from its children and comparing them against what is
// stored, and confirming each child's Parent pointer names its actual
// parent. In ValidatePanic mode the first mismatch panics; in ValidateLog
// mode every mismatch is logged and collected, and Validate keeps walking.
func (t *Tree[K, V]) Validate(mode ValidateMode) []Issue[K] {
	if t.root == nil {
		return nil
	}

	var issues []Issue[K]

	t.validateRecursive(*t.root, mode, &issues)

	return issues
}

// validateRecursive returns the height of the subtree rooted at key, and
// records an issue (or panics) for every mismatch found along the way.
func (t *Tree[K, V]) validateRecursive(key K, mode ValidateMode, issues *[]Issue[K]) int {
	n, ok := t.store.Get(key)
	if !ok {
		t.report(mode, issues, key, "node referenced by the tree is missing from the store")
		return 0
	}

	heightLeft, heightRight := 0, 0

	if n.Links.Left != nil {
		heightLeft = t.validateRecursive(*n.Links.Left, mode, issues)

		leftNode, ok := t.store.Get(*n.Links.Left)
		if !ok || leftNode.Links.Parent == nil || *leftNode.Links.Parent != key {
			t.report(mode, issues, key, fmt.Sprintf("left child %v does not point back to this node as parent", *n.Links.Left))
		}
	}

	if n.Links.Right != nil {
		heightRight = t.validateRecursive(*n.Links.Right, mode, issues)

		rightNode, ok := t.store.Get(*n.Links.Right)
		if !ok || rightNode.Links.Parent == nil || *rightNode.Links.Parent != key {
			t.report(mode, issues, key, fmt.Sprintf("right child %v does not point back to this node as parent", *n.Links.Right))
		}
	}

	wantBalance := heightRight - heightLeft
	if wantBalance != n.Links.Balance {
		t.report(mode, issues, key, fmt.Sprintf("balance factor should be %d but is %d", wantBalance, n.Links.Balance))
	}

	if abs(n.Links.Balance) > 1 {
		t.report(mode, issues, key, fmt.Sprintf("balance factor %d exceeds +/-1", n.Links.Balance))
	}

	if heightLeft > heightRight {
		return heightLeft + 1
	}

	return heightRight + 1
}

func (t *Tree[K, V]) report(mode ValidateMode, issues *[]Issue[K], key K, message string) {
	if mode == ValidatePanic {
		panic(fmt.Sprintf("avlstore: invariant violated at key %v: %s", key, message))
	}

	slog.Warn("avlstore: validation issue", "key", key, "message", message)

	*issues = append(*issues, Issue[K]{Key: key, Message: message})
}

// Dump renders the tree level by level as a table: depth, position, key,
// balance factor, parent, prev, and next for every node, shallowest first.
// It is meant for interactive debugging, not for machine parsing, and
// follows the teacher/original breadth-first layering, substituting a
// go-pretty table for hand-rolled column spacing.
func (t *Tree[K, V]) Dump() string {
	if t.root == nil {
		return "(empty tree)"
	}

	type slot struct {
		key   K
		depth int
		pos   int
	}

	levels := make(map[int]map[int]K)
	queue := []slot{{*t.root, 0, 0}}
	maxDepth := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if levels[cur.depth] == nil {
			levels[cur.depth] = make(map[int]K)
		}

		levels[cur.depth][cur.pos] = cur.key

		if cur.depth > maxDepth {
			maxDepth = cur.depth
		}

		n, ok := t.store.Get(cur.key)
		if !ok {
			continue
		}

		if n.Links.Left != nil {
			queue = append(queue, slot{*n.Links.Left, cur.depth + 1, cur.pos * 2})
		}

		if n.Links.Right != nil {
			queue = append(queue, slot{*n.Links.Right, cur.depth + 1, cur.pos*2 + 1})
		}
	}

	tw := table.NewWriter()
	tw.SetTitle("tree (depth 0 = root)")
	tw.AppendHeader(table.Row{"depth", "pos", "key", "balance", "parent", "prev", "next"})

	for depth := 0; depth <= maxDepth; depth++ {
		width := 1 << depth
		for pos := 0; pos < width; pos++ {
			key, ok := levels[depth][pos]
			if !ok {
				continue
			}

			n, ok := t.store.Get(key)
			if !ok {
				continue
			}

			tw.AppendRow(table.Row{
				depth, pos, key, n.Links.Balance,
				optionalString(n.Links.Parent), optionalString(n.Links.Prev), optionalString(n.Links.Next),
			})
		}
	}

	return tw.Render()
}

func optionalString[K any](k *K) string {
	if k == nil {
		return "-"
	}

	return fmt.Sprintf("%v", *k)
}
