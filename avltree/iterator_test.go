package avltree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qntx/avlstore/avltree"
	"github.com/qntx/avlstore/bound"
)

func seedTree(t *testing.T, n int) *avltree.Tree[int, int] {
	t.Helper()

	tree := avltree.New[int, int](func(a, b int) int { return a - b }, newMemStoreInt())

	for i := range n {
		tree.Insert(i, i*10)
	}

	return tree
}

func TestRangeForward(t *testing.T) {
	tree := seedTree(t, 20)

	var got []int

	for k := range tree.Range(bound.Inc(5), bound.Exc(10)).Seq() {
		got = append(got, k)
	}

	assert.Equal(t, []int{5, 6, 7, 8, 9}, got)
}

func TestRangeBackward(t *testing.T) {
	tree := seedTree(t, 20)

	var got []int

	for k := range tree.RangeBack(bound.Inc(5), bound.Exc(10)).Seq() {
		got = append(got, k)
	}

	assert.Equal(t, []int{9, 8, 7, 6, 5}, got)
}

func TestRangeUnbounded(t *testing.T) {
	tree := seedTree(t, 5)

	var got []int

	for k := range tree.Range(bound.Unbound[int](), bound.Unbound[int]()).Seq() {
		got = append(got, k)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestRangeOnMissingBoundKey(t *testing.T) {
	tree := avltree.New[int, int](func(a, b int) int { return a - b }, newMemStoreInt())

	for _, k := range []int{0, 2, 4, 6, 8, 10} {
		tree.Insert(k, k)
	}

	var got []int

	for k := range tree.Range(bound.Inc(3), bound.Exc(9)).Seq() {
		got = append(got, k)
	}

	assert.Equal(t, []int{4, 6, 8}, got)
}

func TestRangeMutMutatesAndStopsOnBreak(t *testing.T) {
	tree := seedTree(t, 10)

	count := 0
	tree.RangeMut(bound.Unbound[int](), bound.Unbound[int](), func(key int, v *int, lookahead *int) avltree.Control {
		*v *= 2
		count++

		if count == 3 {
			return avltree.Break
		}

		return avltree.Continue
	})

	require.Equal(t, 3, count)

	v0, _ := tree.Get(0)
	v1, _ := tree.Get(1)
	v2, _ := tree.Get(2)
	v3, _ := tree.Get(3)

	assert.Equal(t, 0, v0)
	assert.Equal(t, 20, v1)
	assert.Equal(t, 40, v2)
	assert.Equal(t, 30, v3, "RangeMut should not have reached key 3")
}

func TestRangeMutLookaheadMatchesNextKey(t *testing.T) {
	tree := seedTree(t, 5)

	var lookaheads []*int

	tree.RangeMut(bound.Unbound[int](), bound.Unbound[int](), func(key int, v *int, lookahead *int) avltree.Control {
		lookaheads = append(lookaheads, lookahead)
		return avltree.Continue
	})

	require.Len(t, lookaheads, 5)

	for i := 0; i < 4; i++ {
		require.NotNil(t, lookaheads[i])
		assert.Equal(t, i+1, *lookaheads[i])
	}

	assert.Nil(t, lookaheads[4], "last node in range has no lookahead key")
}
