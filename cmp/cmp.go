// Package cmp supplies the ordering primitives the rest of this module
// builds on: the generic three-way Comparator type avltree.New and
// bound.Bound.Within are parameterized over, plus a couple of ready-made
// comparators for the key types that can't just use stdlib cmp.Compare —
// floats, which need an epsilon tolerance to order sanely.
package cmp

import (
	"cmp"
	"math"
	"time"
)

// Epsilon is the default tolerance for Float64Comparator and
// NewFloat64Comparator.
const Epsilon = 1e-15

// Ordered re-exports stdlib cmp.Ordered, so callers never need to import
// both packages just to write a Comparator constraint.
type Ordered = cmp.Ordered

// Comparator orders two values of type T: negative if x < y, zero if equal,
// positive if x > y. avltree.Tree is built on a Comparator[K] rather than a
// constraint on K directly, so a key type needs no operator support at all —
// only a function that knows how to order it.
type Comparator[T any] func(x, y T) int

// Compare is Comparator for any stdlib-ordered type, delegating to cmp.Compare.
func Compare[T Ordered](x, y T) int {
	return cmp.Compare(x, y)
}

// TimeComparator orders two time.Time values with time.Time's own
// After/Before, which stdlib cmp.Compare can't do since time.Time has no <
// operator.
func TimeComparator(a, b time.Time) int {
	switch {
	case a.After(b):
		return 1
	case a.Before(b):
		return -1
	default:
		return 0
	}
}

// Float64Comparator orders two float64 values, treating them as equal when
// their difference is within epsilon (falling back to Epsilon if epsilon is
// non-positive) rather than requiring bit-for-bit equality — a plain key
// comparator over float64 would make the computed sum 0.1+0.2 and the
// literal 0.3 sort as distinct tree keys despite representing the same price
// tick. NaN sorts below every non-NaN value and equal to itself, matching
// cmp.Compare's NaN handling.
func Float64Comparator(x, y, epsilon float64) int {
	if epsilon <= 0 {
		epsilon = Epsilon
	}

	switch {
	case math.IsNaN(x) && math.IsNaN(y):
		return 0
	case math.IsNaN(x):
		return -1
	case math.IsNaN(y):
		return 1
	}

	if math.Abs(x-y) <= epsilon {
		return 0
	}

	if x < y {
		return -1
	}

	return 1
}

// NewFloat64Comparator closes over epsilon and returns a Comparator[float64],
// the shape avltree.New takes to key a Tree on price-tick floats.
func NewFloat64Comparator(epsilon float64) Comparator[float64] {
	return func(x, y float64) int {
		return Float64Comparator(x, y, epsilon)
	}
}
