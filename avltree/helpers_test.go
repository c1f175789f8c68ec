package avltree_test

import "github.com/qntx/avlstore/store"

func newMemStoreInt() *store.MemStore[int, int] {
	return store.NewMemStore[int, int]()
}
