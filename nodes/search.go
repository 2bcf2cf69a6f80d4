package nodes

import (
	"cmp"

	"github.com/sebtreedb/sebtree/base"
)

// NaturalOrder returns a comparator over any ordered primitive type,
// usable as the compare function passed to New for plain integer or
// string keys.
func NaturalOrder[K cmp.Ordered]() func(a, b K) int {
	return cmp.Compare[K]
}

// IsInsertionPoint reports whether a search result missed: a negative
// result encodes where the key would be inserted rather than where it
// was found.
func IsInsertionPoint(result int) bool { return result < 0 }

// ToIndex decodes a miss result back into the insertion point in
// [0, size].
func ToIndex(result int) int { return -result - 1 }

// ToInsertionPoint is ToIndex's inverse: it encodes an insertion point as
// a miss result.
func ToInsertionPoint(index int) int { return -(index + 1) }

// ToMinusOneBasedIndex collapses a search result, hit or miss, to the
// index of the largest live key <= the searched key, or -1 if the key is
// smaller than every live key.
func ToMinusOneBasedIndex(result int) int {
	if !IsInsertionPoint(result) {
		return result
	}
	return ToIndex(result) - 1
}

// indexOf runs a binary search for key over the live slots [0, size)
// using the configured comparator, and returns a search result in the
// sign convention above: a non-negative hit index, or a negative miss
// encoding the insertion point.
func indexOf[K, V any](n *Node[K, V], key K) int {
	lo, hi := 0, n.GetSize()-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		c := n.compare(n.keyAt(mid), key)
		switch {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid - 1
		default:
			return mid
		}
	}
	return ToInsertionPoint(lo)
}

// pointerAtResult returns the child pointer a search result should
// descend into on an internal node: on a hit, the pointer stored at that
// index; on a miss, the pointer of the last slot strictly less than the
// key, or the node's left pointer if there is none.
func pointerAtResult[K, V any](n *Node[K, V], result int) base.PageIndex {
	i := ToMinusOneBasedIndex(result)
	if i < 0 {
		return n.GetLeftPointer()
	}
	return n.pointerAt(i)
}
