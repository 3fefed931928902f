// Package domain defines the generic input constraint that the match engine
// is built over: a sequence type with length, slicing, equality, and order.
// Grammars never require more than this from their input domain.
package domain

// Sequence is the constraint satisfied by any input a Parser can run over.
// It is intentionally narrow: the clause algebra (package clause) and the
// match interpreter (package match) never do anything to an input value
// except measure it, slice it, compare it for equality, and order it.
type Sequence[D any] interface {
	// Len returns the number of elements in the sequence.
	Len() int

	// Slice returns the sub-sequence from lo (inclusive) to hi (exclusive).
	// Implementations may assume 0 <= lo <= hi <= Len().
	Slice(lo, hi int) D

	// Equal reports whether the sequence holds the same elements, in the
	// same order, as other.
	Equal(other D) bool

	// Less reports whether the sequence orders strictly before other. Only
	// Range clauses require this; domains that never appear in a Range
	// bound may implement it any consistent way. Text and Bytes compare
	// lexicographically: element by element, with a shorter prefix first.
	Less(other D) bool
}
