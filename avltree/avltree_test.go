package avltree_test

import (
	"testing"

	"github.com/qntx/avlstore/avltree"
	godscmp "github.com/qntx/avlstore/cmp"
	"github.com/qntx/avlstore/store"
)

func newIntTree() *avltree.Tree[int, string] {
	return avltree.New[int, string](godscmp.Compare[int], store.NewMemStore[int, string]())
}

func TestTreeInsertAndGet(t *testing.T) {
	tree := newIntTree()

	if _, existed := tree.Insert(5, "five"); existed {
		t.Errorf("Insert(5) existed = true, want false")
	}

	if _, existed := tree.Insert(3, "three"); existed {
		t.Errorf("Insert(3) existed = true, want false")
	}

	if _, existed := tree.Insert(8, "eight"); existed {
		t.Errorf("Insert(8) existed = true, want false")
	}

	tests := []struct {
		key     int
		want    string
		wantOk  bool
		comment string
	}{
		{5, "five", true, "root"},
		{3, "three", true, "left child"},
		{8, "eight", true, "right child"},
		{99, "", false, "absent key"},
	}

	for _, tt := range tests {
		got, ok := tree.Get(tt.key)
		if ok != tt.wantOk || got != tt.want {
			t.Errorf("Get(%d) = (%q, %v), want (%q, %v) [%s]", tt.key, got, ok, tt.want, tt.wantOk, tt.comment)
		}
	}

	if old, existed := tree.Insert(5, "FIVE"); !existed || old != "five" {
		t.Errorf("Insert(5, overwrite) = (%q, %v), want (\"five\", true)", old, existed)
	}

	if got, _ := tree.Get(5); got != "FIVE" {
		t.Errorf("Get(5) after overwrite = %q, want FIVE", got)
	}
}

func TestTreeRemove(t *testing.T) {
	tree := newIntTree()

	for _, k := range []int{5, 3, 8, 1, 4, 7, 9} {
		tree.Insert(k, "")
	}

	if _, ok := tree.Remove(99); ok {
		t.Errorf("Remove(99) ok = true, want false for absent key")
	}

	if _, ok := tree.Remove(3); !ok {
		t.Errorf("Remove(3) ok = false, want true")
	}

	if tree.Has(3) {
		t.Errorf("Has(3) = true after Remove(3)")
	}

	if tree.Len() != 6 {
		t.Errorf("Len() = %d, want 6", tree.Len())
	}

	if issues := tree.Validate(avltree.ValidateLog); len(issues) != 0 {
		t.Errorf("Validate() issues = %v, want none", issues)
	}
}

func TestTreeMinMax(t *testing.T) {
	tree := newIntTree()

	if _, _, ok := tree.Min(); ok {
		t.Errorf("Min() ok = true on empty tree")
	}

	for _, k := range []int{5, 3, 8, 1, 9} {
		tree.Insert(k, "")
	}

	if k, _, ok := tree.Min(); !ok || k != 1 {
		t.Errorf("Min() = (%d, %v), want (1, true)", k, ok)
	}

	if k, _, ok := tree.Max(); !ok || k != 9 {
		t.Errorf("Max() = (%d, %v), want (9, true)", k, ok)
	}
}

func TestTreeGetMut(t *testing.T) {
	tree := newIntTree()
	tree.Insert(1, "one")

	ok := tree.GetMut(1, func(v *string) { *v = *v + "!" })
	if !ok {
		t.Fatalf("GetMut(1) ok = false, want true")
	}

	if got, _ := tree.Get(1); got != "one!" {
		t.Errorf("Get(1) after GetMut = %q, want \"one!\"", got)
	}

	if ok := tree.GetMut(404, func(v *string) {}); ok {
		t.Errorf("GetMut(404) ok = true, want false")
	}
}

func TestTreeClearAndIsEmpty(t *testing.T) {
	tree := newIntTree()

	if !tree.IsEmpty() {
		t.Errorf("IsEmpty() = false on fresh tree")
	}

	for i := range 20 {
		tree.Insert(i, "")
	}

	tree.Clear()

	if !tree.IsEmpty() {
		t.Errorf("IsEmpty() = false after Clear()")
	}

	if tree.Len() != 0 {
		t.Errorf("Len() = %d after Clear(), want 0", tree.Len())
	}
}

func TestTreeKeysAscending(t *testing.T) {
	tree := newIntTree()

	input := []int{5, 1, 9, 3, 7, 2, 8, 4, 6}
	for _, k := range input {
		tree.Insert(k, "")
	}

	keys := tree.Keys()

	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("Keys() not ascending at index %d: %v", i, keys)
		}
	}

	if len(keys) != len(input) {
		t.Errorf("Keys() len = %d, want %d", len(keys), len(input))
	}
}
