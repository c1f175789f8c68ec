package avltree_test

import (
	"testing"
	"testing/quick"

	"github.com/qntx/avlstore/avltree"
	"github.com/qntx/avlstore/store"
)

// op is one randomized tree operation: insert or remove a key, mirrored
// against a plain Go map as the reference model.
type op struct {
	Remove bool
	Key    uint8
}

// runRandTest applies a sequence of random operations to both an
// avltree.Tree and a reference map, and reports whether every Remove agrees
// with the map, whether the tree's invariants hold after every step, and
// whether the final contents and key order match the map. Mirrors
// the teacher's randomized test style, coerced to a boolean for use with
// quick.Check.
func runRandTest(ops []op) bool {
	tree := avltree.New[uint8, uint8](func(a, b uint8) int { return int(a) - int(b) }, store.NewMemStore[uint8, uint8]())
	model := make(map[uint8]uint8)

	for _, o := range ops {
		if o.Remove {
			_, treeOk := tree.Remove(o.Key)
			_, modelOk := model[o.Key]
			delete(model, o.Key)

			if treeOk != modelOk {
				return false
			}
		} else {
			tree.Insert(o.Key, o.Key)
			model[o.Key] = o.Key
		}

		if len(tree.Validate(avltree.ValidateLog)) != 0 {
			return false
		}
	}

	if tree.Len() != len(model) {
		return false
	}

	for k, v := range model {
		got, ok := tree.Get(k)
		if !ok || got != v {
			return false
		}
	}

	keys := tree.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			return false
		}
	}

	return true
}

func TestQuickRandomInsertRemove(t *testing.T) {
	if err := quick.Check(func(ops []op) bool {
		return runRandTest(ops)
	}, &quick.Config{MaxCount: 200}); err != nil {
		if cerr, ok := err.(*quick.CheckError); ok {
			t.Fatalf("quick check failed at case %d: %+v", cerr.Count, cerr.In)
		}

		t.Fatal(err)
	}
}
