// Command avlstore-demo narrates a sequence of operations against an
// avltree.Tree backed by an in-memory store.MemStore: no flags, just a log of
// what each call returns.
package main

import (
	"log"

	"github.com/qntx/avlstore/avltree"
	"github.com/qntx/avlstore/bound"
	"github.com/qntx/avlstore/cmp"
	"github.com/qntx/avlstore/store"
)

func main() {
	tree := avltree.New[int, string](cmp.Compare[int], store.NewMemStore[int, string]())
	log.Printf("Initialized tree: empty=%t, len=%d", tree.IsEmpty(), tree.Len())

	log.Println("\nTesting Insert:")
	for _, k := range []int{50, 30, 70, 20, 40, 60, 80, 10} {
		old, existed := tree.Insert(k, label(k))
		log.Printf("Insert(%d): old=%q existed=%t, len=%d", k, old, existed, tree.Len())
	}

	log.Println("\nTesting Get:")
	if v, ok := tree.Get(40); ok {
		log.Printf("Get(40): %q", v)
	}
	if _, ok := tree.Get(999); !ok {
		log.Println("Get(999): not found, returned (\"\", false)")
	}

	log.Println("\nTesting Min/Max:")
	if k, v, ok := tree.Min(); ok {
		log.Printf("Min: key=%d value=%q", k, v)
	}
	if k, v, ok := tree.Max(); ok {
		log.Printf("Max: key=%d value=%q", k, v)
	}

	log.Println("\nTesting Range(20, 70):")
	for k, v := range tree.Range(bound.Inc(20), bound.Exc(70)).Seq() {
		log.Printf("  %d -> %q", k, v)
	}

	log.Println("\nTesting RangeBack(20, 70):")
	for k, v := range tree.RangeBack(bound.Inc(20), bound.Exc(70)).Seq() {
		log.Printf("  %d -> %q", k, v)
	}

	log.Println("\nTesting GetMut:")
	tree.GetMut(30, func(v *string) { *v = *v + "!" })
	if v, _ := tree.Get(30); true {
		log.Printf("GetMut(30, append \"!\"): %q", v)
	}

	log.Println("\nTesting Remove:")
	for _, k := range []int{70, 20} {
		v, ok := tree.Remove(k)
		log.Printf("Remove(%d): value=%q ok=%t, len=%d", k, v, ok, tree.Len())
	}

	log.Println("\nValidating invariants:")
	if issues := tree.Validate(avltree.ValidatePanic); len(issues) == 0 {
		log.Println("Validate: no issues")
	}

	log.Println("\nFinal tree:")
	log.Println(tree.Dump())

	log.Println("\nTesting Clear:")
	tree.Clear()
	log.Printf("Clear: empty=%t, len=%d", tree.IsEmpty(), tree.Len())
}

func label(k int) string {
	switch {
	case k%20 == 0:
		return "multiple of 20"
	case k%10 == 0:
		return "multiple of 10"
	default:
		return "other"
	}
}
