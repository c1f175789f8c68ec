// Package bound provides the direction and range-bound vocabulary shared by
// the avltree package: which side of a node is "heavy", which way an
// iterator walks, and whether a key still lies inside a range.
package bound

import "github.com/qntx/avlstore/cmp"

// Direction names one of the two sides of a binary tree node, and doubles as
// the direction an iterator walks the linked list threaded through the tree.
type Direction int

const (
	// Left is the smaller-key side.
	Left Direction = iota
	// Right is the larger-key side.
	Right
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Left {
		return Right
	}

	return Left
}

// Factor returns the signed contribution a child in this direction makes to
// a parent's balance factor: -1 for Left, +1 for Right.
func (d Direction) Factor() int {
	if d == Left {
		return -1
	}

	return 1
}

// String implements fmt.Stringer for debug output.
func (d Direction) String() string {
	if d == Left {
		return "Left"
	}

	return "Right"
}

// FromOrdering converts a three-way comparison result (as returned by a
// cmp.Comparator) into a Direction. The ordering must be nonzero; ok is
// false when cmpResult == 0, since equal keys have no direction.
func FromOrdering(cmpResult int) (dir Direction, ok bool) {
	switch {
	case cmpResult < 0:
		return Left, true
	case cmpResult > 0:
		return Right, true
	default:
		return Left, false
	}
}

// FromBalanceFactor converts a node's balance factor into its imbalance
// direction. ok is false when bf == 0 (no imbalance, hence no direction).
func FromBalanceFactor(bf int) (dir Direction, ok bool) {
	switch {
	case bf < 0:
		return Left, true
	case bf > 0:
		return Right, true
	default:
		return Left, false
	}
}

// Kind discriminates the three ways a Bound can constrain a range.
type Kind int

const (
	// Unbounded places no constraint on this end of the range.
	Unbounded Kind = iota
	// Included constrains the range to keys on or past Key.
	Included
	// Excluded constrains the range to keys strictly past Key.
	Excluded
)

// Bound is the Go rendering of Rust's std::ops::Bound: one endpoint of a
// range, either open, or closed on a key, or open just past a key.
type Bound[K any] struct {
	Kind Kind
	Key  K
}

// Unbound returns an unconstrained bound.
func Unbound[K any]() Bound[K] {
	return Bound[K]{Kind: Unbounded}
}

// Inc returns a bound that includes k.
func Inc[K any](k K) Bound[K] {
	return Bound[K]{Kind: Included, Key: k}
}

// Exc returns a bound that excludes k.
func Exc[K any](k K) Bound[K] {
	return Bound[K]{Kind: Excluded, Key: k}
}

// Within reports whether key lies on the inside of b, as seen by an
// iterator moving in direction dir. This is the only place bound semantics
// are interpreted; every iterator and range lookup goes through it.
//
// Unbounded is always inside. For a bound moving in direction Right,
// Included admits key <= b.Key and Excluded admits key < b.Key; for
// Left the comparisons flip.
func (b Bound[K]) Within(key K, dir Direction, compare cmp.Comparator[K]) bool {
	if b.Kind == Unbounded {
		return true
	}

	c := compare(key, b.Key)

	switch dir {
	case Right:
		if b.Kind == Included {
			return c <= 0
		}

		return c < 0
	default: // Left
		if b.Kind == Included {
			return c >= 0
		}

		return c > 0
	}
}
