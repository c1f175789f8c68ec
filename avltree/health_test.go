package avltree_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qntx/avlstore/avltree"
)

func TestValidateOnEmptyAndSingleton(t *testing.T) {
	tree := avltree.New[int, int](func(a, b int) int { return a - b }, newMemStoreInt())

	assert.Empty(t, tree.Validate(avltree.ValidateLog))

	tree.Insert(1, 1)
	assert.Empty(t, tree.Validate(avltree.ValidateLog))
}

func TestValidateAfterManyInsertsAndRemoves(t *testing.T) {
	tree := avltree.New[int, int](func(a, b int) int { return a - b }, newMemStoreInt())

	for i := range 100 {
		tree.Insert(i, i)
	}

	for i := 0; i < 100; i += 2 {
		tree.Remove(i)
	}

	assert.Empty(t, tree.Validate(avltree.ValidateLog))
}

func TestDumpRendersNonEmptyAndEmptyTrees(t *testing.T) {
	tree := avltree.New[int, int](func(a, b int) int { return a - b }, newMemStoreInt())

	assert.Equal(t, "(empty tree)", tree.Dump())

	for _, k := range []int{50, 30, 70, 20, 40} {
		tree.Insert(k, k)
	}

	out := tree.Dump()
	assert.True(t, strings.Contains(out, "50"))
	assert.True(t, strings.Contains(out, "balance"))
}
