package avltree_test

import (
	"testing"

	"github.com/qntx/avlstore/avltree"
	"github.com/qntx/avlstore/internal/testutil"
	"github.com/qntx/avlstore/store"
)

const defaultSize = 5000

func newBenchTree() *avltree.Tree[int, struct{}] {
	return avltree.New[int, struct{}](func(a, b int) int { return a - b }, store.NewMemStore[int, struct{}]())
}

// BenchmarkTreeInsertOrdered measures insertion of already-sorted keys, the
// AVL tree's worst case for rotation count per insert.
func BenchmarkTreeInsertOrdered(b *testing.B) {
	for b.Loop() {
		t := newBenchTree()
		for i := range defaultSize {
			t.Insert(i, struct{}{})
		}
	}
}

// BenchmarkTreeInsertShuffled measures insertion of a random permutation,
// the common case for a real workload.
func BenchmarkTreeInsertShuffled(b *testing.B) {
	keys := testutil.GeneratePermutedInts(defaultSize)

	for b.Loop() {
		t := newBenchTree()
		for _, k := range keys {
			t.Insert(k, struct{}{})
		}
	}
}

func benchmarkGet(b *testing.B, tree *avltree.Tree[int, struct{}], size int) {
	b.Helper()

	for b.Loop() {
		for n := range size {
			tree.Get(n)
		}
	}
}

func benchmarkRemove(b *testing.B, tree *avltree.Tree[int, struct{}], size int) {
	b.Helper()

	for b.Loop() {
		for n := range size {
			tree.Remove(n)
		}

		for n := range size {
			tree.Insert(n, struct{}{})
		}
	}
}

func BenchmarkTreeGet1000(b *testing.B) {
	b.StopTimer()

	size := 1000
	tree := newBenchTree()

	for n := range size {
		tree.Insert(n, struct{}{})
	}

	b.StartTimer()
	benchmarkGet(b, tree, size)
}

func BenchmarkTreeRemove1000(b *testing.B) {
	b.StopTimer()

	size := 1000
	tree := newBenchTree()

	for n := range size {
		tree.Insert(n, struct{}{})
	}

	b.StartTimer()
	benchmarkRemove(b, tree, size)
}

// BenchmarkTreeRangeFull measures a full ascending walk via Range, the path
// the write-back cache never touches.
func BenchmarkTreeRangeFull(b *testing.B) {
	b.StopTimer()

	tree := newBenchTree()

	for i := range defaultSize {
		tree.Insert(i, struct{}{})
	}

	b.StartTimer()

	for b.Loop() {
		for range tree.Keys() {
		}
	}
}
