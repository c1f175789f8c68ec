package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qntx/avlstore/store"
)

func eqInt(a, b int) bool { return a == b }

func TestLinksReplaceChildSwapsMatchingSide(t *testing.T) {
	old, next := 2, 3

	links := store.Links[int]{Left: &old}
	links.ReplaceChild(2, &next, eqInt)

	require.NotNil(t, links.Left)
	assert.Equal(t, 3, *links.Left)
	assert.Nil(t, links.Right)
}

func TestLinksReplaceChildOnRightSide(t *testing.T) {
	old, next := 5, 9

	links := store.Links[int]{Right: &old}
	links.ReplaceChild(5, &next, eqInt)

	require.NotNil(t, links.Right)
	assert.Equal(t, 9, *links.Right)
}

func TestLinksReplaceChildToNilRemovesChild(t *testing.T) {
	old := 2

	links := store.Links[int]{Left: &old}
	links.ReplaceChild(2, nil, eqInt)

	assert.Nil(t, links.Left)
}

func TestLinksReplaceChildPanicsWhenNotAChild(t *testing.T) {
	old, next := 2, 3

	links := store.Links[int]{Left: &old}

	assert.Panics(t, func() {
		links.ReplaceChild(999, &next, eqInt)
	})
}
